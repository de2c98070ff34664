package core

import (
	"testing"
)

func TestCache_Ordering(t *testing.T) {
	c := NewCache()
	c.SetAll([]Note{
		{ID: 1, Title: "old", Date: "2026-08-01"},
		{ID: 2, Title: "new", Date: "2026-08-20"},
		{ID: 3, Title: "same-day", Date: "2026-08-20"},
	})

	all := c.All()
	if len(all) != 3 {
		t.Fatalf("Expected 3 notes, got %d", len(all))
	}
	// Newest date first; same date resolves to higher id first.
	if all[0].ID != 3 || all[1].ID != 2 || all[2].ID != 1 {
		t.Errorf("Expected order [3 2 1], got [%d %d %d]", all[0].ID, all[1].ID, all[2].ID)
	}
}

func TestCache_Upsert(t *testing.T) {
	t.Run("Replaces In Place", func(t *testing.T) {
		c := NewCache()
		c.SetAll([]Note{{ID: 1, Title: "before", Date: "2026-08-01"}})

		c.Upsert(Note{ID: 1, Title: "after", Date: "2026-08-01"})

		if c.Len() != 1 {
			t.Fatalf("Expected 1 note, got %d", c.Len())
		}
		got, _ := c.Get(1)
		if got.Title != "after" {
			t.Errorf("Expected title 'after', got %q", got.Title)
		}
	})

	t.Run("Appends and Resorts", func(t *testing.T) {
		c := NewCache()
		c.SetAll([]Note{{ID: 1, Date: "2026-08-01"}})

		c.Upsert(Note{ID: 2, Date: "2026-08-15"})

		all := c.All()
		if all[0].ID != 2 {
			t.Errorf("Expected newest note first, got id %d", all[0].ID)
		}
	})

	t.Run("Never Duplicates Ids", func(t *testing.T) {
		c := NewCache()
		for i := 0; i < 5; i++ {
			c.Upsert(Note{ID: 7, Date: "2026-08-01"})
		}
		if c.Len() != 1 {
			t.Errorf("Expected 1 note after repeated upserts, got %d", c.Len())
		}
	})
}

func TestCache_Remove(t *testing.T) {
	c := NewCache()
	c.SetAll([]Note{{ID: 1}, {ID: 2}})

	c.Remove(1)
	if _, ok := c.Get(1); ok {
		t.Error("Expected id 1 to be gone")
	}

	// Removing an absent id is a no-op.
	c.Remove(99)
	if c.Len() != 1 {
		t.Errorf("Expected 1 note, got %d", c.Len())
	}
}

func TestCache_ReplaySequence(t *testing.T) {
	// The cache after any upsert/remove sequence equals the set implied by
	// replaying it from empty.
	c := NewCache()
	c.Upsert(Note{ID: 1, Date: "2026-01-01"})
	c.Upsert(Note{ID: 2, Date: "2026-01-02"})
	c.Remove(1)
	c.Upsert(Note{ID: 2, Date: "2026-01-03"})
	c.Upsert(Note{ID: 3, Date: "2026-01-01"})

	all := c.All()
	if len(all) != 2 {
		t.Fatalf("Expected 2 notes, got %d", len(all))
	}
	if all[0].ID != 2 || all[0].Date != "2026-01-03" {
		t.Errorf("Expected note 2 at 2026-01-03 first, got %+v", all[0])
	}
	if all[1].ID != 3 {
		t.Errorf("Expected note 3 second, got %+v", all[1])
	}
}

func TestCache_SnapshotIsolation(t *testing.T) {
	c := NewCache()
	c.SetAll([]Note{{ID: 1, Tags: []string{"a"}}})

	all := c.All()
	all[0].Tags[0] = "mutated"

	got, _ := c.Get(1)
	if got.Tags[0] != "a" {
		t.Error("Cache entry mutated through a returned snapshot")
	}
}
