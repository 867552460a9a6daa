package queue

import "testing"

func item(id string, priority, failures int) *Item {
	return &Item{ID: id, URL: "https://example.com/" + id, Priority: priority, FailureCount: failures}
}

func TestSelectNextPicksHighestScore(t *testing.T) {
	q := &Queue{}
	q.Add(item("a", 0, 0))
	q.Add(item("b", 3, 1))
	q.Add(item("c", 1, 0))

	got := q.SelectNext(8)
	if got == nil || got.ID != "b" {
		t.Fatalf("expected b (score 2), got %+v", got)
	}
}

func TestSelectNextTieGoesToEarliestInsertion(t *testing.T) {
	q := &Queue{}
	q.Add(item("a", 2, 1))
	q.Add(item("b", 1, 0))
	q.Add(item("c", 3, 2))

	got := q.SelectNext(8)
	if got == nil || got.ID != "a" {
		t.Fatalf("expected the earliest of the score-1 items, got %+v", got)
	}
}

func TestSelectNextSkipsPausedAndCeiling(t *testing.T) {
	q := &Queue{}
	paused := item("a", 9, 0)
	paused.Paused = true
	q.Add(paused)
	q.Add(item("b", 9, 3))
	q.Add(item("c", 0, 0))

	got := q.SelectNext(3)
	if got == nil || got.ID != "c" {
		t.Fatalf("expected the only eligible item c, got %+v", got)
	}
}

func TestSelectNextReturnsNilWhenNothingEligible(t *testing.T) {
	q := &Queue{}
	paused := item("a", 0, 0)
	paused.Paused = true
	q.Add(paused)
	q.Add(item("b", 0, 8))

	if got := q.SelectNext(8); got != nil {
		t.Fatalf("expected no candidate, got %+v", got)
	}
}

func TestSelectNextAllowsNegativeScores(t *testing.T) {
	q := &Queue{}
	q.Add(item("a", 0, 3))
	q.Add(item("b", 0, 5))

	got := q.SelectNext(8)
	if got == nil || got.ID != "a" {
		t.Fatalf("expected the less-failed item a, got %+v", got)
	}
}

func TestRemoveAbsentIDIsNoOp(t *testing.T) {
	q := &Queue{}
	q.Add(item("a", 0, 0))
	if q.Remove("missing") {
		t.Fatal("expected Remove to report false for an unknown id")
	}
	if q.Len() != 1 {
		t.Fatalf("expected the queue untouched, got %d items", q.Len())
	}
}
