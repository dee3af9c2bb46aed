package content

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a detail view asks for an identifier that is
// not in its table.
var ErrNotFound = errors.New("record not found")

// Keyed is implemented by records that live in a Table.
type Keyed interface {
	Key() string
}

// Table is an immutable, ordered lookup table of records keyed by ID.
type Table[R Keyed] struct {
	records []R
	byID    map[string]int
}

// NewTable builds a table from records in authoring order. Keys must be
// non-empty and unique.
func NewTable[R Keyed](records []R) (*Table[R], error) {
	t := &Table[R]{
		records: make([]R, len(records)),
		byID:    make(map[string]int, len(records)),
	}
	copy(t.records, records)
	for i, r := range t.records {
		key := r.Key()
		if key == "" {
			return nil, fmt.Errorf("record %d has an empty id", i)
		}
		if _, dup := t.byID[key]; dup {
			return nil, fmt.Errorf("duplicate id %q", key)
		}
		t.byID[key] = i
	}
	return t, nil
}

// Resolve returns the record stored under id, or an error wrapping
// ErrNotFound.
func (t *Table[R]) Resolve(id string) (R, error) {
	if t != nil {
		if i, ok := t.byID[id]; ok {
			return t.records[i], nil
		}
	}
	var zero R
	return zero, fmt.Errorf("%w: %q", ErrNotFound, id)
}

// Index returns the 1-based position of id, or 0 when it is unknown.
func (t *Table[R]) Index(id string) int {
	if t == nil {
		return 0
	}
	if i, ok := t.byID[id]; ok {
		return i + 1
	}
	return 0
}

// All returns the records in authoring order.
func (t *Table[R]) All() []R {
	if t == nil {
		return nil
	}
	out := make([]R, len(t.records))
	copy(out, t.records)
	return out
}

func (t *Table[R]) Len() int {
	if t == nil {
		return 0
	}
	return len(t.records)
}
