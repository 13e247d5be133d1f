package services

import (
	"errors"
	"math"
	"testing"
)

func TestPageLayoutSinglePage(t *testing.T) {
	pages, err := PageLayout(200)
	if err != nil {
		t.Fatalf("PageLayout: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(pages))
	}
	if pages[0].OffsetMM != 0 || pages[0].HeightMM != 200 {
		t.Fatalf("unexpected page: %+v", pages[0])
	}
}

func TestPageLayoutExactMultiple(t *testing.T) {
	pages, err := PageLayout(PageHeightMM * 2)
	if err != nil {
		t.Fatalf("PageLayout: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(pages))
	}
	for i, page := range pages {
		if page.Index != i {
			t.Fatalf("page %d has index %d", i, page.Index)
		}
		if page.HeightMM != PageHeightMM {
			t.Fatalf("page %d height %f, want %f", i, page.HeightMM, PageHeightMM)
		}
	}
}

func TestPageLayoutLastPageRemainder(t *testing.T) {
	content := PageHeightMM*2 + 50
	pages, err := PageLayout(content)
	if err != nil {
		t.Fatalf("PageLayout: %v", err)
	}
	if len(pages) != 3 {
		t.Fatalf("expected 3 pages, got %d", len(pages))
	}

	last := pages[len(pages)-1]
	if math.Abs(last.HeightMM-50) > 1e-9 {
		t.Fatalf("last page height %f, want 50", last.HeightMM)
	}

	// Pages must tile the full surface with no gaps or cropping.
	covered := 0.0
	for i, page := range pages {
		if math.Abs(page.OffsetMM-covered) > 1e-9 {
			t.Fatalf("page %d offset %f, expected %f", i, page.OffsetMM, covered)
		}
		if i < len(pages)-1 && page.HeightMM != PageHeightMM {
			t.Fatalf("page %d is not full height: %f", i, page.HeightMM)
		}
		covered += page.HeightMM
	}
	if math.Abs(covered-content) > 1e-9 {
		t.Fatalf("pages cover %f, want %f", covered, content)
	}
}

func TestPageLayoutTinyContent(t *testing.T) {
	pages, err := PageLayout(0.5)
	if err != nil {
		t.Fatalf("PageLayout: %v", err)
	}
	if len(pages) != 1 || pages[0].HeightMM != 0.5 {
		t.Fatalf("unexpected layout: %+v", pages)
	}
}

func TestPageLayoutRejectsInvalidHeights(t *testing.T) {
	for _, height := range []float64{0, -10, math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, err := PageLayout(height); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("height %f: expected ErrInvalidInput, got %v", height, err)
		}
	}
}

func TestTemplatesAreStable(t *testing.T) {
	svc := NewResumeService(nil)
	templates := svc.Templates()
	if len(templates) == 0 {
		t.Fatal("expected at least one template")
	}
	seen := map[string]bool{}
	for _, tpl := range templates {
		if tpl.ID == "" || tpl.Name == "" {
			t.Fatalf("template missing id or name: %+v", tpl)
		}
		if seen[tpl.ID] {
			t.Fatalf("duplicate template id %q", tpl.ID)
		}
		seen[tpl.ID] = true
	}
	if !seen["classic"] {
		t.Fatal("classic template missing")
	}
}
