package memory

import (
	"context"
	"testing"

	"github.com/aretw0/silt/pkg/core"
)

func TestStore_InsertAssignsFreshIds(t *testing.T) {
	ctx := context.Background()
	s := New()

	a, err := s.Insert(ctx, core.Note{Title: "a"})
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := s.Remove(ctx, a); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	b, err := s.Insert(ctx, core.Note{Title: "b"})
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if b == a {
		t.Errorf("Expected id %d not to be reused", a)
	}
}

func TestStore_Isolation(t *testing.T) {
	ctx := context.Background()
	s := New()

	id, _ := s.Insert(ctx, core.Note{Title: "x", Tags: []string{"a"}})
	got, _ := s.FetchOne(ctx, id)
	got.Tags[0] = "mutated"

	again, _ := s.FetchOne(ctx, id)
	if again.Tags[0] != "a" {
		t.Error("Stored note mutated through a returned copy")
	}
}

func TestStore_Errors(t *testing.T) {
	ctx := context.Background()
	s := New()

	if _, err := s.FetchOne(ctx, -1); err != core.ErrInvalidID {
		t.Errorf("Expected ErrInvalidID, got %v", err)
	}
	if _, err := s.FetchOne(ctx, 5); err != core.ErrNotFound {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if err := s.Replace(ctx, core.Note{ID: 5}); err != core.ErrNotFound {
		t.Errorf("Expected ErrNotFound on replace, got %v", err)
	}
}
