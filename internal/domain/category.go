package domain

// Category groups ads.
type Category struct {
	ID   int64
	Name string
}
