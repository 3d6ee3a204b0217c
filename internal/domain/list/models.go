package list

import (
	"errors"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

var ErrListNotFound = errors.New("list not found")

// idAlphabet keeps list identifiers safe to embed in URL paths.
const (
	idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	idLength   = 12
)

type List struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

type Item struct {
	ID        int64     `json:"id"`
	ListID    string    `json:"listId"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// ListWithItems is a List together with its Items in insertion order.
type ListWithItems struct {
	*List
	Items []*Item `json:"items"`
}

// URL returns the canonical path of the list page.
func (l *List) URL() string {
	return "/lists/" + l.ID + "/"
}

// NewID generates a new List identifier.
func NewID() (string, error) {
	return gonanoid.Generate(idAlphabet, idLength)
}
