package entity

import "strings"

// Character is a favorite character of an upstream user account together with
// its birthday. Values are immutable once built by NewCharacter.
type Character struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	URL       string   `json:"url,omitempty"`
	Birthday  Birthday `json:"birthday"`
	BirthYear int      `json:"birth_year,omitempty"` // 0 when unknown
}

// NewCharacter validates and builds a Character.
// It returns a *ValidationError (matching ErrInvalidRecord) when the record is malformed.
func NewCharacter(id, name, url string, month, day, year int) (Character, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Character{}, &ValidationError{Field: "name", Message: "name is required"}
	}
	if strings.TrimSpace(id) == "" {
		return Character{}, &ValidationError{Field: "id", Message: "id is required"}
	}
	if year < 0 {
		return Character{}, &ValidationError{Field: "birth_year", Message: "year cannot be negative"}
	}

	bd, err := NewBirthday(month, day)
	if err != nil {
		return Character{}, err
	}

	return Character{
		ID:        id,
		Name:      name,
		URL:       url,
		Birthday:  bd,
		BirthYear: year,
	}, nil
}
