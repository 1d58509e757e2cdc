package opg

import "testing"

func TestUnionFindUnionAndFind(t *testing.T) {
	uf := newUnionFind(5)
	uf.union(0, 1)
	uf.union(1, 2)

	if uf.find(0) != uf.find(2) {
		t.Errorf("expected 0 and 2 to share a representative after transitive union")
	}
	if uf.find(3) == uf.find(0) {
		t.Errorf("expected 3 to remain in its own set")
	}
}

func TestUnionFindIdempotentUnion(t *testing.T) {
	uf := newUnionFind(3)
	uf.union(0, 1)
	uf.union(0, 1) // repeating a union must not break anything
	if uf.find(0) != uf.find(1) {
		t.Errorf("expected 0 and 1 to remain unified")
	}
}
