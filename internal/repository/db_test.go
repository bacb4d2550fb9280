package repository

import "testing"

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"matrix", "matrix"},
		{"100%", `100\%`},
		{"a_b", `a\_b`},
		{`c:\x`, `c:\\x`},
	}
	for _, tt := range tests {
		if got := escapeLike(tt.in); got != tt.want {
			t.Errorf("escapeLike(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if got := contains("50%"); got != `%50\%%` {
		t.Errorf("contains = %q", got)
	}
}

func TestDedupeAndSubtract(t *testing.T) {
	ids := dedupe([]int64{3, 1, 3, 2, 1})
	if len(ids) != 3 || ids[0] != 3 || ids[1] != 1 || ids[2] != 2 {
		t.Fatalf("dedupe = %v", ids)
	}

	missing := subtract(ids, []int64{1})
	if len(missing) != 2 || missing[0] != 3 || missing[1] != 2 {
		t.Errorf("subtract = %v", missing)
	}
	if got := subtract(ids, ids); len(got) != 0 {
		t.Errorf("subtract all = %v", got)
	}
}

func TestIsMovieSort(t *testing.T) {
	for _, s := range []string{"", "rating", "releaseDate", "title", "newest"} {
		if !IsMovieSort(s) {
			t.Errorf("%q should be accepted", s)
		}
	}
	if IsMovieSort("popularity") {
		t.Error("unknown sort accepted")
	}
}
