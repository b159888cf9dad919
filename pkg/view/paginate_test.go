package view

import (
	"testing"

	"github.com/niprobin/curated-digging/pkg/entity"
)

func mkItems(n int) []entity.Entity {
	items := make([]entity.Entity, n)
	for i := range items {
		items[i] = entity.Entity{ID: string(rune('a' + i))}
	}
	return items
}

func TestPaginateEmptySequence(t *testing.T) {
	page := Paginate(nil, 20, 5)
	if len(page.Items) != 0 || page.EffectivePage != 1 || page.TotalPages != 1 {
		t.Fatalf("unexpected page: %+v", page)
	}
}

func TestPaginateClampsRequestedPage(t *testing.T) {
	items := mkItems(25)

	page := Paginate(items, 10, 99)
	if page.EffectivePage != 3 || page.TotalPages != 3 {
		t.Fatalf("expected clamp to last page, got %+v", page)
	}
	if len(page.Items) != 5 {
		t.Fatalf("last page should hold the remainder, got %d items", len(page.Items))
	}

	page = Paginate(items, 10, -3)
	if page.EffectivePage != 1 || len(page.Items) != 10 {
		t.Fatalf("expected clamp to first page, got %+v", page)
	}
}

func TestPaginateSlicesAreContiguous(t *testing.T) {
	items := mkItems(7)
	page := Paginate(items, 3, 2)
	if page.TotalPages != 3 || page.EffectivePage != 2 {
		t.Fatalf("unexpected paging: %+v", page)
	}
	if len(page.Items) != 3 || page.Items[0].ID != items[3].ID {
		t.Fatalf("page 2 should start at index 3, got %+v", page.Items)
	}
}
