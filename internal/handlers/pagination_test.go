package handlers

import "testing"

func TestBuildPaginationMeta(t *testing.T) {
	cases := []struct {
		name               string
		page, limit, total int
		wantPages          int
		wantNext, wantPrev bool
	}{
		{"empty", 1, 10, 0, 0, false, false},
		{"single page", 1, 10, 7, 1, false, false},
		{"first of many", 1, 10, 25, 3, true, false},
		{"middle", 2, 10, 25, 3, true, true},
		{"last", 3, 10, 25, 3, false, true},
		{"page past end", 9, 10, 25, 3, false, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			meta := buildPaginationMeta(tc.page, tc.limit, tc.total)
			if meta.TotalPages != tc.wantPages {
				t.Fatalf("total pages: got %d, want %d", meta.TotalPages, tc.wantPages)
			}
			if meta.HasNextPage != tc.wantNext || meta.HasPrevPage != tc.wantPrev {
				t.Fatalf("flags: got next=%v prev=%v, want next=%v prev=%v",
					meta.HasNextPage, meta.HasPrevPage, tc.wantNext, tc.wantPrev)
			}
			if meta.TotalCoaches != tc.total || meta.CurrentPage != tc.page {
				t.Fatalf("echoed fields wrong: %+v", meta)
			}
		})
	}
}

func TestParsePositiveInt(t *testing.T) {
	cases := map[string]int{
		"":    7,
		"abc": 7,
		"0":   7,
		"-3":  7,
		"5":   5,
		" 2 ": 2,
	}
	for in, want := range cases {
		if got := parsePositiveInt(in, 7); got != want {
			t.Fatalf("parsePositiveInt(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestParsePriceCents(t *testing.T) {
	cents, err := parsePriceCents("120.50")
	if err != nil {
		t.Fatalf("parsePriceCents: %v", err)
	}
	if cents == nil || *cents != 12050 {
		t.Fatalf("got %v, want 12050", cents)
	}

	empty, err := parsePriceCents("")
	if err != nil || empty != nil {
		t.Fatalf("empty input should be nil filter, got %v, %v", empty, err)
	}

	if _, err := parsePriceCents("-5"); err == nil {
		t.Fatal("negative price should be rejected")
	}
	if _, err := parsePriceCents("abc"); err == nil {
		t.Fatal("non-numeric price should be rejected")
	}
}
