package service

import (
	"strconv"
	"strings"
)

// Page describes one slice of an ordered result set.
type Page struct {
	Number   int
	NumPages int
	Total    int
	Limit    int
	Offset   int
}

// Paginate resolves the requested 1-based page against total items.
// A missing, non-numeric or non-positive page yields page 1; a page past
// the end is clamped to the last page. pageSize must be positive.
func Paginate(total, pageSize int, requested string) Page {
	if pageSize <= 0 {
		panic("service: page size must be positive")
	}

	numPages := (total + pageSize - 1) / pageSize

	number, err := strconv.Atoi(strings.TrimSpace(requested))
	if err != nil || number < 1 {
		number = 1
	}
	if numPages > 0 && number > numPages {
		number = numPages
	}
	if numPages == 0 {
		number = 1
	}

	return Page{
		Number:   number,
		NumPages: numPages,
		Total:    total,
		Limit:    pageSize,
		Offset:   (number - 1) * pageSize,
	}
}
