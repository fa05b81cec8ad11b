package per

import "strings"

// state tracks the position of an [Encoder] or [Decoder] within the value
// being processed. The stack holds one entry per component that is currently
// being processed. Element entries start with '['.
type state struct {
	stack    []string
	maxDepth int
}

// reset clears the state. The allocated stack space is reused.
func (s *state) reset(maxDepth int) {
	if s.stack == nil {
		s.stack = make([]string, 0, 16)
	}
	s.stack = s.stack[:0]
	s.maxDepth = maxDepth
}

// push records that the component name is now being processed.
func (s *state) push(name string) error {
	if len(s.stack) >= s.maxDepth {
		return ErrRecursionLimit
	}
	s.stack = append(s.stack, name)
	return nil
}

// pop removes the topmost component.
func (s *state) pop() {
	s.stack = s.stack[:len(s.stack)-1]
}

// String returns the path of the current component.
func (s *state) String() string {
	var b strings.Builder
	for i, name := range s.stack {
		if i > 0 && !strings.HasPrefix(name, "[") {
			b.WriteByte('.')
		}
		b.WriteString(name)
	}
	return b.String()
}
