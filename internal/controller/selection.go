package controller

// selection is a set of paths that remembers insertion order.
type selection struct {
	order []string
	set   map[string]struct{}
}

func (s *selection) has(path string) bool {
	_, ok := s.set[path]
	return ok
}

func (s *selection) add(path string) {
	if s.has(path) {
		return
	}
	if s.set == nil {
		s.set = make(map[string]struct{})
	}
	s.set[path] = struct{}{}
	s.order = append(s.order, path)
}

func (s *selection) remove(path string) {
	if !s.has(path) {
		return
	}
	delete(s.set, path)
	for i, p := range s.order {
		if p == path {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *selection) toggle(path string) {
	if s.has(path) {
		s.remove(path)
		return
	}
	s.add(path)
}

func (s *selection) clear() {
	s.order = nil
	s.set = nil
}

func (s *selection) list() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

func (s *selection) len() int {
	return len(s.order)
}
