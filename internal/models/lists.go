package models

import (
	"database/sql/driver"
	"slices"

	"tastebuddin/internal/tokens"

	"github.com/goccy/go-json"
	"github.com/lib/pq"
)

// TokenList is a text[] column that tolerates stringified lists on read.
type TokenList []string

func (TokenList) GormDataType() string {
	return "text[]"
}

func (l *TokenList) Scan(src any) error {
	if src == nil {
		*l = TokenList{}
		return nil
	}

	var array pq.StringArray
	if err := array.Scan(src); err == nil {
		*l = TokenList(array)
		return nil
	}

	*l = TokenList(tokens.ParseList(src))
	return nil
}

func (l TokenList) Value() (driver.Value, error) {
	if l == nil {
		return "{}", nil
	}
	return pq.StringArray(l).Value()
}

func (l TokenList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

func (l *TokenList) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*l = TokenList(tokens.ParseList(raw))
	return nil
}

// IDList is an integer[] column of recipe ids.
type IDList []int

func (IDList) GormDataType() string {
	return "integer[]"
}

func (l *IDList) Scan(src any) error {
	if src == nil {
		*l = IDList{}
		return nil
	}

	var array pq.Int64Array
	if err := array.Scan(src); err == nil {
		ids := make(IDList, 0, len(array))
		for _, id := range array {
			ids = append(ids, int(id))
		}
		*l = ids
		return nil
	}

	*l = IDList(tokens.ParseIDs(src))
	return nil
}

func (l IDList) Value() (driver.Value, error) {
	array := make(pq.Int64Array, 0, len(l))
	for _, id := range l {
		array = append(array, int64(id))
	}
	return array.Value()
}

func (l IDList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]int(l))
}

func (l *IDList) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*l = IDList(tokens.ParseIDs(raw))
	return nil
}

func (l IDList) Contains(id int) bool {
	return slices.Contains(l, id)
}

// Add appends id when absent and reports whether the list changed.
func (l *IDList) Add(id int) bool {
	if l.Contains(id) {
		return false
	}
	*l = append(*l, id)
	return true
}

// Remove drops every occurrence of id and reports whether the list changed.
func (l *IDList) Remove(id int) bool {
	before := len(*l)
	*l = slices.DeleteFunc(*l, func(existing int) bool { return existing == id })
	return len(*l) != before
}

// Set returns the ids as a lookup set.
func (l IDList) Set() map[int]struct{} {
	set := make(map[int]struct{}, len(l))
	for _, id := range l {
		set[id] = struct{}{}
	}
	return set
}
