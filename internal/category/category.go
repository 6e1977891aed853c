// Package category models categorical columns: values restricted to a small,
// ordered and extensible set of labels.
package category

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownLabel is returned when a label is not part of a Set.
var ErrUnknownLabel = errors.New("label not in category set")

// Set is an ordered collection of allowed labels.
type Set struct {
	labels []string
	index  map[string]int
}

// NewSet returns a set holding labels in the given order. Duplicates and
// empty labels are ignored.
func NewSet(labels ...string) *Set {
	s := &Set{index: make(map[string]int, len(labels))}
	for _, l := range labels {
		s.Add(l)
	}
	return s
}

// FromValues builds a set from raw column values: unique, non-empty,
// sorted lexically.
func FromValues(values []string) *Set {
	seen := make(map[string]struct{}, 16)
	uniq := make([]string, 0, 16)
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		uniq = append(uniq, v)
	}
	sort.Strings(uniq)
	return NewSet(uniq...)
}

// Add appends label if it is new. It reports whether the set changed.
func (s *Set) Add(label string) bool {
	if label == "" {
		return false
	}
	if _, ok := s.index[label]; ok {
		return false
	}
	s.index[label] = len(s.labels)
	s.labels = append(s.labels, label)
	return true
}

// Contains reports whether label is allowed.
func (s *Set) Contains(label string) bool {
	_, ok := s.index[label]
	return ok
}

// Labels returns a copy of the labels in set order.
func (s *Set) Labels() []string {
	out := make([]string, len(s.labels))
	copy(out, s.labels)
	return out
}

// Len returns the number of labels.
func (s *Set) Len() int { return len(s.labels) }

// Missing returns the missing value for this set.
func (s *Set) Missing() Value { return Value{set: s, code: -1} }

// Value binds label to the set. The empty label is the missing value.
func (s *Set) Value(label string) (Value, error) {
	if label == "" {
		return s.Missing(), nil
	}
	code, ok := s.index[label]
	if !ok {
		return Value{}, fmt.Errorf("%w: %q", ErrUnknownLabel, label)
	}
	return Value{set: s, code: code}, nil
}

// Values coerces a whole column. Empty strings become missing values.
func (s *Set) Values(raw []string) ([]Value, error) {
	out := make([]Value, len(raw))
	for i, r := range raw {
		v, err := s.Value(r)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		out[i] = v
	}
	return out, nil
}

// Value is a single categorical cell. The zero Value is missing and bound
// to no set.
type Value struct {
	set  *Set
	code int
}

// IsMissing reports whether the cell holds no label.
func (v Value) IsMissing() bool { return v.set == nil || v.code < 0 }

// Label returns the label, or "" when missing.
func (v Value) Label() string {
	if v.IsMissing() {
		return ""
	}
	return v.set.labels[v.code]
}

// Is reports whether the cell equals label. A missing cell equals nothing.
func (v Value) Is(label string) bool {
	return !v.IsMissing() && v.set.labels[v.code] == label
}

// String implements fmt.Stringer.
func (v Value) String() string { return v.Label() }

// MarshalJSON emits the label, or null when missing.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.IsMissing() {
		return []byte("null"), nil
	}
	return json.Marshal(v.Label())
}
