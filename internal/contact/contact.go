// Package contact defines the contact entity, its categories, and the
// editable draft submitted to the backend.
package contact

import "strings"

// Category is the optional grouping a contact belongs to.
// The zero value means the category is unset.
type Category string

const (
	CategoryNone     Category = ""
	CategoryPersonal Category = "Personal"
	CategoryWork     Category = "Work"
	CategoryFamily   Category = "Family"
	CategoryFriends  Category = "Friends"
	CategoryOther    Category = "Other"
)

// categories lists the known categories in display order.
var categories = []Category{
	CategoryPersonal,
	CategoryWork,
	CategoryFamily,
	CategoryFriends,
	CategoryOther,
}

// Categories returns the known categories in display order, excluding unset.
func Categories() []Category {
	return append([]Category(nil), categories...)
}

// ParseCategory matches s case-insensitively against the known categories.
// An empty (or blank) string yields CategoryNone.
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return CategoryNone, true
	}
	for _, c := range categories {
		if strings.EqualFold(s, string(c)) {
			return c, true
		}
	}
	return CategoryNone, false
}

// Valid reports whether c is unset or one of the known categories.
func (c Category) Valid() bool {
	if c == CategoryNone {
		return true
	}
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

// Next returns the category after c, cycling through unset after Other.
// Unknown values restart the cycle at unset.
func (c Category) Next() Category {
	cycle := append([]Category{CategoryNone}, categories...)
	for i, v := range cycle {
		if v == c {
			return cycle[(i+1)%len(cycle)]
		}
	}
	return CategoryNone
}

// Prev returns the category before c, cycling through unset before Personal.
func (c Category) Prev() Category {
	cycle := append([]Category{CategoryNone}, categories...)
	for i, v := range cycle {
		if v == c {
			return cycle[(i+len(cycle)-1)%len(cycle)]
		}
	}
	return CategoryNone
}

// Label returns the category name, or placeholder when unset.
func (c Category) Label(placeholder string) string {
	if c == CategoryNone {
		return placeholder
	}
	return string(c)
}

// Contact is a contact as stored by the backend.
// ID is assigned by the backend and is zero only for contacts that were never persisted.
type Contact struct {
	ID        int64    `json:"id"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Email     string   `json:"email"`
	Phone     string   `json:"phone"`
	Category  Category `json:"category"`
	// Timestamps are passed through as sent; the backend omits the zone.
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// DisplayName returns "First Last", dropping whichever half is empty.
func (c Contact) DisplayName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// HasPhone reports whether a phone number is set.
func (c Contact) HasPhone() bool {
	return strings.TrimSpace(c.Phone) != ""
}

// HasCategory reports whether a category is set.
func (c Contact) HasCategory() bool {
	return c.Category != CategoryNone
}

// Persisted reports whether the contact carries a backend-assigned ID.
func (c Contact) Persisted() bool {
	return c.ID != 0
}
