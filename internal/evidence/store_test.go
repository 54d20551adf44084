package evidence

import (
	"errors"
	"testing"

	"github.com/tailorflow/tailorflow/internal/models"
)

func TestStoreAddGet(t *testing.T) {
	store := NewStore()

	id := store.Add(0, 8, "Jane Doe")
	if id == "" {
		t.Fatal("Add() returned empty id")
	}

	span, ok := store.Get(id)
	if !ok {
		t.Fatal("Get() did not find the span")
	}
	if span.Text != "Jane Doe" || span.Start != 0 || span.End != 8 {
		t.Errorf("Get() = %+v", span)
	}
}

func TestStoreAllPreservesOrder(t *testing.T) {
	store := NewStore()
	store.Add(0, 1, "a")
	store.Add(1, 2, "b")
	store.Add(2, 3, "c")

	all := store.All()
	if len(all) != 3 || store.Len() != 3 {
		t.Fatalf("got %d spans, want 3", len(all))
	}
	for i, want := range []string{"a", "b", "c"} {
		if all[i].Text != want {
			t.Errorf("All()[%d].Text = %q, want %q", i, all[i].Text, want)
		}
	}
}

func TestStoreVerify(t *testing.T) {
	store := NewStore()
	id := store.Add(0, 4, "Acme")

	if err := store.Verify([]models.SpanID{id}); err != nil {
		t.Errorf("Verify() error = %v, want nil", err)
	}
	err := store.Verify([]models.SpanID{id, "missing"})
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Verify() error = %v, want ErrNotFound", err)
	}
}
