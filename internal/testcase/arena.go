package testcase

import "sync"

// Arena owns every TestCase of a run and hands out monotonically increasing ids.
// Ids start at 1 and are never reused, so suite members get fresh ids
// instead of sharing their container's.
type Arena struct {
	mu    sync.Mutex
	next  int
	cases []*TestCase
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{next: 1}
}

// New allocates a Pending case for the given definition file.
func (a *Arena) New(source string) *TestCase {
	a.mu.Lock()
	defer a.mu.Unlock()

	tc := &TestCase{ID: a.next, Source: source, state: StatePending}
	a.next++
	a.cases = append(a.cases, tc)
	return tc
}

// NewMember allocates a Pending case for the ordinal-th element of a suite container.
func (a *Arena) NewMember(parent *TestCase, ordinal int) *TestCase {
	tc := a.New(parent.Source)
	tc.Ordinal = ordinal
	tc.Parent = parent.ID
	return tc
}

// Get returns the case with the given id.
func (a *Arena) Get(id int) (*TestCase, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, tc := range a.cases {
		if tc.ID == id {
			return tc, true
		}
	}
	return nil, false
}

// Len returns the number of allocated cases, suites included.
func (a *Arena) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.cases)
}
