package staking

// swapRemove removes s[i] by moving the last element into slot i. Indices after
// a removal are not stable.
func swapRemove[T any](s []T, i int) []T {
	last := len(s) - 1
	s[i] = s[last]
	var zero T
	s[last] = zero
	return s[:last]
}

// activeSet is the bounded, unordered set of open proposal ids. pos maps an id to
// its slot plus one.
type activeSet struct {
	ids []uint64
	pos map[uint64]int
}

func newActiveSet(ids []uint64) *activeSet {
	s := &activeSet{
		ids: ids,
		pos: make(map[uint64]int, len(ids)),
	}
	for i, id := range ids {
		s.pos[id] = i + 1
	}
	return s
}

func (s *activeSet) contains(id uint64) bool {
	return s.pos[id] != 0
}

func (s *activeSet) len() int {
	return len(s.ids)
}

func (s *activeSet) add(id uint64, capacity int) error {
	if s.contains(id) {
		return ErrAlreadyActive
	}
	if len(s.ids) >= capacity {
		return ErrTooManyActive
	}
	s.ids = append(s.ids, id)
	s.pos[id] = len(s.ids)
	return nil
}

func (s *activeSet) remove(id uint64) error {
	p := s.pos[id]
	if p == 0 {
		return ErrNotActive
	}
	i := p - 1
	s.ids = swapRemove(s.ids, i)
	if i < len(s.ids) {
		s.pos[s.ids[i]] = i + 1
	}
	delete(s.pos, id)
	return nil
}
