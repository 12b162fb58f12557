package domain

// Location is a named place that belongs to a user.
type Location struct {
	ID     int64
	UserID int64
	Name   string
	Lat    *float64
	Lng    *float64
}
