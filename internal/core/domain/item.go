package domain

import "time"

// Item is a single checklist entry owned by exactly one user.
type Item struct {
	ID        string    `json:"_id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Completed bool      `json:"completed"`
	Initials  string    `json:"initials"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ItemPatch lists the fields a caller may change on an item. Nil means
// "leave as is".
type ItemPatch struct {
	Name      *string
	Completed *bool
	Initials  *string
}

// Empty reports whether the patch changes nothing.
func (p ItemPatch) Empty() bool {
	return p.Name == nil && p.Completed == nil && p.Initials == nil
}
