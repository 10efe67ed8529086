package domain

import (
	"errors"
	"time"
)

// Collection identifies one of the keyed record sets exposed by the CRUD API.
type Collection string

const (
	CollectionFood    Collection = "food"
	CollectionClothes Collection = "clothes"
)

// ParseCollection validates a raw path segment against the closed collection
// set. An unknown collection behaves like a missing resource.
func ParseCollection(s string) (Collection, error) {
	switch Collection(s) {
	case CollectionFood:
		return CollectionFood, nil
	case CollectionClothes:
		return CollectionClothes, nil
	default:
		return "", ErrRecordNotFound
	}
}

var ErrRecordNotFound = errors.New("record not found")

// Record is a schemaless keyed record. Fields hold the client-supplied
// payload verbatim (food: name/calories/type, clothes: name/color/size); the
// store never interprets them beyond persistence.
type Record struct {
	ID         string
	Collection Collection
	Fields     map[string]any
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
