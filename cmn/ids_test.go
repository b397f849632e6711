package cmn

import "testing"

func TestIDGenNeverReusesAndSkipsZero(t *testing.T) {
	var g IDGen
	seen := make(map[uint64]bool)
	for i := 0; i < 1000; i++ {
		id := g.Next()
		if id == 0 {
			t.Fatalf("IDGen minted reserved zero id")
		}
		if seen[id] {
			t.Fatalf("IDGen reused id %d", id)
		}
		seen[id] = true
	}
}

func TestIDGenPeekDoesNotAllocate(t *testing.T) {
	var g IDGen
	first := g.Next()
	if peeked := g.Peek(); peeked != first {
		t.Fatalf("Peek() = %d, want %d", peeked, first)
	}
	if peeked := g.Peek(); peeked != first {
		t.Fatalf("Peek() allocated on repeat call: got %d, want %d", peeked, first)
	}
}
