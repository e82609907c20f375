package vm

// Stack is the operand stack. All operations act on the top.
type Stack struct {
	items []int
}

// Push appends v to the top of the stack.
func (s *Stack) Push(v int) {
	s.items = append(s.items, v)
}

// Pop removes and returns the top value.
func (s *Stack) Pop() (int, error) {
	n := len(s.items)
	if n == 0 {
		return 0, ErrStackEmpty
	}
	v := s.items[n-1]
	s.items = s.items[:n-1]
	return v, nil
}

// Peek returns the top value without removing it.
func (s *Stack) Peek() (int, error) {
	n := len(s.items)
	if n == 0 {
		return 0, ErrStackEmpty
	}
	return s.items[n-1], nil
}

// Len returns the stack depth.
func (s *Stack) Len() int {
	return len(s.items)
}

// Values returns a copy of the stack, bottom first.
func (s *Stack) Values() []int {
	out := make([]int, len(s.items))
	copy(out, s.items)
	return out
}
