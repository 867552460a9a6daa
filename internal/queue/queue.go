package queue

// Queue is the insertion-ordered collection of items. Order only
// matters for display and tie-breaking; selection is score-based.
type Queue struct {
	items []*Item
}

func (q *Queue) Add(it *Item) {
	q.items = append(q.items, it)
}

// Remove deletes by id. Removing an absent id is a no-op.
func (q *Queue) Remove(id string) bool {
	for i, it := range q.items {
		if it.ID == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return true
		}
	}
	return false
}

func (q *Queue) ByID(id string) *Item {
	for _, it := range q.items {
		if it.ID == id {
			return it
		}
	}
	return nil
}

func (q *Queue) Contains(id string) bool {
	return q.ByID(id) != nil
}

func (q *Queue) Len() int {
	return len(q.items)
}

func (q *Queue) Items() []*Item {
	return q.items
}

// SelectNext picks the item that should be running now: the highest
// score among items that are neither paused nor at the failure
// ceiling. Ties go to the earliest-inserted candidate. Returns nil if
// nothing is eligible.
func (q *Queue) SelectNext(maxFailures int) *Item {
	var best *Item
	bestScore := 0
	for _, it := range q.items {
		if it.Paused || it.FailureCount >= maxFailures {
			continue
		}
		if score := it.Score(); best == nil || score > bestScore {
			best = it
			bestScore = score
		}
	}
	return best
}
