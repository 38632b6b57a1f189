package domain

import "time"

// Category tags an event with the kind of gathering it is.
type Category string

const (
	CategoryYouth      Category = "YOUTH"
	CategoryPrayer     Category = "PRAYER"
	CategoryWorship    Category = "WORSHIP"
	CategorySmallGroup Category = "SMALL_GROUP"
)

// ParseCategory validates a raw category tag.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryYouth, CategoryPrayer, CategoryWorship, CategorySmallGroup:
		return Category(s), nil
	}
	return "", ErrInvalidCategory
}

// Event is a single recurring-gathering occurrence. Visitors and TotalPresent
// are running counters, incremented by each registration batch and never
// decremented.
type Event struct {
	ID           string
	Name         string
	Category     Category
	Date         time.Time
	Visitors     int
	TotalPresent int
	CreatedAt    time.Time
}
