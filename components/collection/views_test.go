package collection

import (
	"context"
	"testing"
)

func TestViewStoreSaveAndList(t *testing.T) {
	store := NewInMemoryViewStore()
	ctx := context.Background()

	err := store.SaveView(ctx, "user-1", SavedView{
		Name:     "free landing pages",
		Criteria: Criteria{Category: "landing", Price: PriceFree},
	})
	if err != nil {
		t.Fatalf("SaveView returned error: %v", err)
	}

	views, err := store.Views(ctx, "user-1")
	if err != nil {
		t.Fatalf("Views returned error: %v", err)
	}
	if len(views) != 1 || views[0].Criteria.Category != "landing" {
		t.Fatalf("unexpected views %v", views)
	}
	if views[0].Criteria.Page != 1 {
		t.Fatalf("saved criteria must be normalized, got page %d", views[0].Criteria.Page)
	}
}

func TestViewStoreReplacesByName(t *testing.T) {
	store := NewInMemoryViewStore()
	ctx := context.Background()

	_ = store.SaveView(ctx, "user-1", SavedView{Name: "mine", Criteria: Criteria{Scope: ScopeMine}})
	_ = store.SaveView(ctx, "user-1", SavedView{Name: "mine", Criteria: Criteria{Scope: ScopeMine, Sort: SortNewest}})

	views, _ := store.Views(ctx, "user-1")
	if len(views) != 1 {
		t.Fatalf("same-name save must replace, got %d views", len(views))
	}
	if views[0].Criteria.Sort != SortNewest {
		t.Fatalf("replacement did not win, got %+v", views[0].Criteria)
	}
}

func TestViewStoreClampsPerPage(t *testing.T) {
	store := NewInMemoryViewStore()
	_ = store.SaveView(context.Background(), "user-1", SavedView{
		Name:     "everything",
		Criteria: Criteria{PerPage: 100000},
	})
	views, _ := store.Views(context.Background(), "user-1")
	if views[0].Criteria.PerPage != maxViewPerPage {
		t.Fatalf("per-page not clamped, got %d", views[0].Criteria.PerPage)
	}
}

func TestViewStoreDeleteUnknownNoOps(t *testing.T) {
	store := NewInMemoryViewStore()
	if err := store.DeleteView(context.Background(), "user-1", "ghost"); err != nil {
		t.Fatalf("deleting unknown view must no-op, got %v", err)
	}
}

func TestViewStoreRequiresIdentity(t *testing.T) {
	store := NewInMemoryViewStore()
	if err := store.SaveView(context.Background(), "", SavedView{Name: "x"}); err == nil {
		t.Fatal("expected error for empty user id")
	}
	if err := store.SaveView(context.Background(), "user-1", SavedView{}); err == nil {
		t.Fatal("expected error for unnamed view")
	}
}

func TestViewStoreIsolatesUsers(t *testing.T) {
	store := NewInMemoryViewStore()
	ctx := context.Background()
	_ = store.SaveView(ctx, "user-1", SavedView{Name: "a", Criteria: Criteria{}})

	views, _ := store.Views(ctx, "user-2")
	if len(views) != 0 {
		t.Fatalf("views leaked across users: %v", views)
	}
}
