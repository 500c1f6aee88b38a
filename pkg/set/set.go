package set

// Set stores unique elements and remembers the order in which they were added.
// The zero value is not usable, create sets with New.
type Set[T comparable] struct {
	index    map[T]struct{}
	elements []T
}

// New creates a set holding the given items in order. Repeated items are
// only kept at their first position.
func New[T comparable](items ...T) *Set[T] {
	s := &Set[T]{
		index:    make(map[T]struct{}, len(items)),
		elements: make([]T, 0, len(items)),
	}
	for _, item := range items {
		s.Add(item)
	}
	return s
}

// Add appends an element to the set.
// If the element already exists, it has no effect and false is returned.
func (s *Set[T]) Add(item T) bool {
	if _, ok := s.index[item]; ok {
		return false
	}
	s.index[item] = struct{}{}
	s.elements = append(s.elements, item)
	return true
}

// Remove deletes an element, keeping the order of the remaining ones.
func (s *Set[T]) Remove(item T) bool {
	if _, ok := s.index[item]; !ok {
		return false
	}
	delete(s.index, item)
	for i, e := range s.elements {
		if e == item {
			s.elements = append(s.elements[:i], s.elements[i+1:]...)
			break
		}
	}
	return true
}

func (s *Set[T]) Contains(item T) bool {
	_, ok := s.index[item]
	return ok
}

func (s *Set[T]) Len() int {
	return len(s.elements)
}

// ToSlice returns a copy of the elements in insertion order.
func (s *Set[T]) ToSlice() []T {
	result := make([]T, len(s.elements))
	copy(result, s.elements)
	return result
}
