package favorites

import (
	"encoding/json"
	"slices"
	"strings"
)

// Set is an immutable set of launch ids. A published *Set is never
// modified; every change produces a new one. The nil *Set is empty.
type Set struct {
	ids map[string]struct{}
}

// NewSet builds a set from ids.
func NewSet(ids ...string) *Set {
	s := &Set{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

// Has reports membership.
func (s *Set) Has(id string) bool {
	if s == nil {
		return false
	}
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of ids.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.ids)
}

// IDs returns the ids in sorted order.
func (s *Set) IDs() []string {
	if s == nil {
		return []string{}
	}
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Equal reports whether both sets hold the same ids.
func (s *Set) Equal(other *Set) bool {
	if s.Len() != other.Len() {
		return false
	}
	if s == nil {
		return true
	}
	for id := range s.ids {
		if !other.Has(id) {
			return false
		}
	}
	return true
}

func (s *Set) with(id string) *Set {
	next := &Set{ids: make(map[string]struct{}, s.Len()+1)}
	if s != nil {
		for k := range s.ids {
			next.ids[k] = struct{}{}
		}
	}
	next.ids[id] = struct{}{}
	return next
}

func (s *Set) without(id string) *Set {
	next := &Set{ids: make(map[string]struct{}, s.Len())}
	if s != nil {
		for k := range s.ids {
			if k != id {
				next.ids[k] = struct{}{}
			}
		}
	}
	return next
}

// encode renders the persisted form: a sorted JSON array of strings.
func (s *Set) encode() string {
	data, _ := json.Marshal(s.IDs())
	return string(data)
}

// decoded is the result of validating persisted content. Invalid content
// of any kind maps to the empty set.
type decoded struct {
	ids   []string
	valid bool
}

func (d decoded) set() *Set {
	if !d.valid {
		return NewSet()
	}
	return NewSet(d.ids...)
}

// decode accepts only a JSON array whose elements are all strings.
func decode(raw string) decoded {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "[") {
		return decoded{}
	}
	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &elems); err != nil {
		return decoded{}
	}
	ids := make([]string, 0, len(elems))
	for _, elem := range elems {
		if len(elem) == 0 || elem[0] != '"' {
			return decoded{}
		}
		var id string
		if err := json.Unmarshal(elem, &id); err != nil {
			return decoded{}
		}
		ids = append(ids, id)
	}
	return decoded{ids: ids, valid: true}
}
