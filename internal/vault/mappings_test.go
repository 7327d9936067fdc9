package vault

import "testing"

// TestMappings tests the session mapping table semantics
func TestMappings(t *testing.T) {
	t.Run("InsertionOrder", func(t *testing.T) {
		m := NewMappings()
		m.Set("alice", "fake-a")
		m.Set("bob", "fake-b")
		m.Set("carol", "fake-c")

		var order []string
		m.Each(func(original, synthetic string) {
			order = append(order, original)
		})

		expected := []string{"alice", "bob", "carol"}
		for i, want := range expected {
			if order[i] != want {
				t.Errorf("Position %d: got %s, want %s", i, order[i], want)
			}
		}
	})

	t.Run("ResetKeepsPosition", func(t *testing.T) {
		m := NewMappings()
		m.Set("alice", "fake-a")
		m.Set("bob", "fake-b")
		m.Set("alice", "fake-a2")

		if m.Len() != 2 {
			t.Fatalf("Expected 2 entries, got %d", m.Len())
		}

		v, ok := m.Get("alice")
		if !ok || v != "fake-a2" {
			t.Errorf("Expected updated value fake-a2, got %q", v)
		}

		var first string
		m.Each(func(original, _ string) {
			if first == "" {
				first = original
			}
		})
		if first != "alice" {
			t.Errorf("Re-set key should keep its position, first = %s", first)
		}
	})

	t.Run("Merge", func(t *testing.T) {
		m := NewMappings()
		m.Set("a", "1")

		other := NewMappings()
		other.Set("a", "overridden")
		other.Set("b", "2")

		m.Merge(other)

		if m.Len() != 2 {
			t.Fatalf("Expected 2 entries after merge, got %d", m.Len())
		}
		if v, _ := m.Get("a"); v != "overridden" {
			t.Errorf("Merge should overwrite values, got %q", v)
		}

		// Nil merge is a no-op.
		m.Merge(nil)
		if m.Len() != 2 {
			t.Error("Merging nil should not change the table")
		}
	})

	t.Run("Clone", func(t *testing.T) {
		m := NewMappings()
		m.Set("a", "1")

		c := m.Clone()
		c.Set("b", "2")

		if m.Len() != 1 {
			t.Error("Mutating a clone should not affect the source")
		}
		if c.Len() != 2 {
			t.Error("Clone should hold its own entries")
		}
	})
}
