package query

import (
	"sort"
	"strings"

	"github.com/contactkit/contactd/internal/contact"
)

// Direction is a sort direction.
type Direction int

const (
	// Asc sorts ascending. It is the default direction.
	Asc Direction = iota

	// Desc sorts descending.
	Desc
)

// ParseDirection maps a wire string to a Direction, defaulting to Asc.
func ParseDirection(s string) Direction {
	if s == "desc" {
		return Desc
	}
	return Asc
}

// String returns the wire name of the direction.
func (d Direction) String() string {
	if d == Desc {
		return "desc"
	}
	return "asc"
}

// MarshalJSON emits the wire name.
func (d Direction) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON parses the wire name, defaulting to asc.
func (d *Direction) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*d = Asc
		return nil
	}
	*d = ParseDirection(s)
	return nil
}

// SortKey is a single sort instruction.
type SortKey struct {
	Field     string    `json:"field"`
	Direction Direction `json:"direction"`
}

// applySort orders contacts by the given keys. Keys are applied with one
// stable sort pass per key, iterating from the last key to the first, so
// each pass only breaks ties left by the previous one and the first key
// ends up dominant. The input slice is sorted in place.
func applySort(contacts []contact.Contact, keys []SortKey) {
	for i := len(keys) - 1; i >= 0; i-- {
		key := keys[i]
		sort.SliceStable(contacts, func(a, b int) bool {
			return lessByKey(contacts[a], contacts[b], key)
		})
	}
}

// lessByKey compares two contacts on a single key. The id field compares
// numerically; every other field compares as a lower-cased string with
// absent values normalized to the empty string.
func lessByKey(a, b contact.Contact, key SortKey) bool {
	if key.Direction == Desc {
		// Swapping operands (instead of negating the result) keeps the
		// ordering strict, which SliceStable relies on for equal elements.
		a, b = b, a
	}
	if key.Field == "id" {
		return a.ID < b.ID
	}
	av, _ := a.Field(key.Field)
	bv, _ := b.Field(key.Field)
	return strings.ToLower(av) < strings.ToLower(bv)
}
