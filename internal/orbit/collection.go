package orbit

// Collection is the caller-owned, insertion-ordered list of trajectories kept
// across interactions. It has a single writer and no internal locking.
type Collection struct {
	items []*Trajectory
}

func NewCollection() *Collection {
	return &Collection{}
}

// Add appends t unless it has nothing to plot, and reports whether it did.
func (c *Collection) Add(t *Trajectory) bool {
	if t.Empty() {
		return false
	}
	c.items = append(c.items, t)
	return true
}

// All returns the trajectories oldest first. The slice is a copy.
func (c *Collection) All() []*Trajectory {
	out := make([]*Trajectory, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Collection) Len() int { return len(c.items) }

func (c *Collection) TotalSamples() int {
	n := 0
	for _, t := range c.items {
		n += t.Len()
	}
	return n
}

func (c *Collection) Clear() {
	c.items = nil
}
