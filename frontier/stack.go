package frontier

// Stack is the LIFO list used by depth-first search.
type Stack struct {
	xs     []Item
	maxLen int
}

// Push appends it.
func (s *Stack) Push(it Item) {
	s.xs = append(s.xs, it)
	if len(s.xs) > s.maxLen {
		s.maxLen = len(s.xs)
	}
}

// Pop removes the most recently pushed item.
func (s *Stack) Pop() (Item, bool) {
	n := len(s.xs)
	if n == 0 {
		return Item{}, false
	}
	it := s.xs[n-1]
	s.xs = s.xs[:n-1]

	return it, true
}

// Len returns the number of items.
func (s *Stack) Len() int { return len(s.xs) }

// MaxLen returns the largest size reached.
func (s *Stack) MaxLen() int { return s.maxLen }
