package domain

import "time"

// Ad is a classified listing. AuthorFirstName and CategoryName are
// denormalized from the joined rows on reads.
type Ad struct {
	ID              int64
	Name            string
	AuthorID        int64
	AuthorFirstName string
	Price           int64
	Description     string
	IsPublished     bool
	Image           *string
	CategoryID      int64
	CategoryName    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// AdFilter holds the listing criteria taken from the query string.
// Zero values mean "no restriction"; all set criteria must hold together.
type AdFilter struct {
	CategoryIDs []int64
	Text        string
	Location    string
	PriceFrom   *int64
	PriceTo     *int64
}
