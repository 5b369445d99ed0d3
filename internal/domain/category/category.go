package category

import (
	"regexp"
	"time"
)

type Category struct {
	ID          int64
	Name        string
	Slug        string
	Description string
	Image       string
	IsActive    bool
	CreatedAt   time.Time
}

type ListFilter struct {
	OnlyActive bool
}

var slugRegexp = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

func ValidSlug(s string) bool {
	return slugRegexp.MatchString(s)
}
