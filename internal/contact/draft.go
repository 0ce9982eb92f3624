package contact

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Field identifies one editable field of a Draft.
type Field int

const (
	FieldFirstName Field = iota
	FieldLastName
	FieldEmail
	FieldPhone
	FieldCategory
)

// Fields lists the editable fields in form order.
var Fields = []Field{FieldFirstName, FieldLastName, FieldEmail, FieldPhone, FieldCategory}

// String returns the JSON key of the field.
func (f Field) String() string {
	switch f {
	case FieldFirstName:
		return "firstName"
	case FieldLastName:
		return "lastName"
	case FieldEmail:
		return "email"
	case FieldPhone:
		return "phone"
	case FieldCategory:
		return "category"
	default:
		return fmt.Sprintf("field(%d)", int(f))
	}
}

// Label returns the human-readable field name. Required fields carry a "*".
func (f Field) Label() string {
	switch f {
	case FieldFirstName:
		return "First Name *"
	case FieldLastName:
		return "Last Name *"
	case FieldEmail:
		return "Email *"
	case FieldPhone:
		return "Phone"
	case FieldCategory:
		return "Category"
	default:
		return f.String()
	}
}

// Draft is the editable copy of a contact's fields. It is the exact request
// body of create and update calls: all five keys are always sent.
type Draft struct {
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Email     string   `json:"email"`
	Phone     string   `json:"phone"`
	Category  Category `json:"category"`
}

// DraftFrom copies the editable fields of c.
func DraftFrom(c Contact) Draft {
	return Draft{
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     c.Phone,
		Category:  c.Category,
	}
}

// Get returns the value of field f.
func (d Draft) Get(f Field) string {
	switch f {
	case FieldFirstName:
		return d.FirstName
	case FieldLastName:
		return d.LastName
	case FieldEmail:
		return d.Email
	case FieldPhone:
		return d.Phone
	case FieldCategory:
		return string(d.Category)
	}
	return ""
}

// Set updates field f. No validation is performed.
func (d *Draft) Set(f Field, value string) {
	switch f {
	case FieldFirstName:
		d.FirstName = value
	case FieldLastName:
		d.LastName = value
	case FieldEmail:
		d.Email = value
	case FieldPhone:
		d.Phone = value
	case FieldCategory:
		d.Category = Category(value)
	}
}

// Normalized returns a copy with surrounding whitespace removed from every field.
func (d Draft) Normalized() Draft {
	return Draft{
		FirstName: strings.TrimSpace(d.FirstName),
		LastName:  strings.TrimSpace(d.LastName),
		Email:     strings.TrimSpace(d.Email),
		Phone:     strings.TrimSpace(d.Phone),
		Category:  Category(strings.TrimSpace(string(d.Category))),
	}
}

// emailPattern is the address syntax the backend accepts.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidEmail reports whether s is a syntactically valid email address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ValidationError lists per-field problems found in a Draft.
type ValidationError struct {
	Fields map[Field]string
}

func (e *ValidationError) Error() string {
	fields := make([]Field, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i] < fields[j] })

	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f.String() + ": " + e.Fields[f]
	}
	return "contact: invalid draft: " + strings.Join(parts, "; ")
}

// Validate checks required fields, email syntax, and the category.
// It returns nil or a *ValidationError.
func (d Draft) Validate() error {
	n := d.Normalized()
	problems := make(map[Field]string)

	if n.FirstName == "" {
		problems[FieldFirstName] = "required"
	}
	if n.LastName == "" {
		problems[FieldLastName] = "required"
	}
	switch {
	case n.Email == "":
		problems[FieldEmail] = "required"
	case !ValidEmail(n.Email):
		problems[FieldEmail] = "invalid email format"
	}
	if !n.Category.Valid() {
		problems[FieldCategory] = fmt.Sprintf("unknown category %q", n.Category)
	}

	if len(problems) == 0 {
		return nil
	}
	return &ValidationError{Fields: problems}
}
