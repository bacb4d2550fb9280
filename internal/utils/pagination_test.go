package utils

import "testing"

func TestParsePageValues(t *testing.T) {
	tests := []struct {
		name      string
		page      string
		limit     string
		max       int
		wantPage  int
		wantLimit int
	}{
		{"defaults", "", "", 0, 1, 10},
		{"explicit", "3", "25", 0, 3, 25},
		{"garbage falls back to defaults", "abc", "x", 0, 1, 10},
		{"zero clamps to one", "0", "0", 0, 1, 1},
		{"negative clamps to one", "-4", "-10", 0, 1, 1},
		{"max applied", "1", "500", 100, 1, 100},
		{"no max when disabled", "1", "500", 0, 1, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePageValues(tt.page, tt.limit, tt.max)
			if got.Page != tt.wantPage || got.Limit != tt.wantLimit {
				t.Errorf("got page=%d limit=%d, want page=%d limit=%d",
					got.Page, got.Limit, tt.wantPage, tt.wantLimit)
			}
		})
	}
}

func TestPageParams_Offset(t *testing.T) {
	if got := (PageParams{Page: 3, Limit: 20}).Offset(); got != 40 {
		t.Errorf("Offset = %d, want 40", got)
	}
	if got := (PageParams{Page: 1, Limit: 20}).Offset(); got != 0 {
		t.Errorf("Offset = %d, want 0", got)
	}
}

func TestNewPagination_TotalPages(t *testing.T) {
	tests := []struct {
		total int64
		limit int
		want  int
	}{
		{0, 10, 1},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{99, 7, 15},
		{5, 1, 5},
	}

	for _, tt := range tests {
		p := NewPagination(PageParams{Page: 2, Limit: tt.limit}, tt.total)
		if p.TotalPages != tt.want {
			t.Errorf("total=%d limit=%d: TotalPages = %d, want %d", tt.total, tt.limit, p.TotalPages, tt.want)
		}
		if p.CurrentPage != 2 || p.ItemsPerPage != tt.limit || p.TotalItems != tt.total {
			t.Errorf("unexpected pagination %+v", p)
		}
	}
}

func TestPageSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	tests := []struct {
		page, limit int
		want        []int
	}{
		{1, 3, []int{1, 2, 3}},
		{3, 3, []int{7}},
		{4, 3, []int{}},
		{1, 10, []int{1, 2, 3, 4, 5, 6, 7}},
	}

	for _, tt := range tests {
		got := PageSlice(items, PageParams{Page: tt.page, Limit: tt.limit})
		if len(got) > tt.limit {
			t.Errorf("window %d exceeds limit %d", len(got), tt.limit)
		}
		if len(got) != len(tt.want) {
			t.Fatalf("page=%d limit=%d: got %v, want %v", tt.page, tt.limit, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("page=%d limit=%d: got %v, want %v", tt.page, tt.limit, got, tt.want)
			}
		}
	}
}
