// Package sets provides a minimal generic hash set.
package sets

// Set is a hash set over comparable keys. Construct with New; the zero
// value is not usable.
type Set[T comparable] map[T]struct{}

// New creates a set holding the provided values.
func New[T comparable](vals ...T) Set[T] {
	s := make(Set[T], len(vals))
	for _, v := range vals {
		s[v] = struct{}{}
	}
	return s
}

// Add inserts v.
func (s Set[T]) Add(v T) { s[v] = struct{}{} }

// Has reports whether v is present.
func (s Set[T]) Has(v T) bool {
	_, ok := s[v]
	return ok
}

// Len returns the element count.
func (s Set[T]) Len() int { return len(s) }
