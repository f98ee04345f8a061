package randx

import (
	"strings"
	"testing"
)

func TestPostID(t *testing.T) {
	seen := make(map[string]struct{})

	for i := 0; i < 100; i++ {
		id, err := PostID()
		if err != nil {
			t.Fatalf("PostID: %v", err)
		}
		if len(id) != 9 {
			t.Fatalf("PostID length = %d, want 9", len(id))
		}
		for _, ch := range id {
			if !strings.ContainsRune(Base62Chars, ch) {
				t.Fatalf("PostID %q contains %q outside the base62 alphabet", id, ch)
			}
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("PostID produced duplicate %q within 100 draws", id)
		}
		seen[id] = struct{}{}
	}
}

func TestGroupID(t *testing.T) {
	a, b := GroupID(), GroupID()
	if a == b {
		t.Error("consecutive group ids must differ")
	}
	if len(a) != 36 {
		t.Errorf("group id %q is not a UUID string", a)
	}
}
