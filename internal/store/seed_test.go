package store

import (
	"context"
	"testing"

	"sarren/internal/catalog"
	"sarren/internal/kv"
	"sarren/internal/slug"
)

func TestSeedCatalog(t *testing.T) {
	c := SeedCatalog()

	wantIDs := []string{"resins", "solvents", "pigments", "additives"}
	if len(c.Categories) != len(wantIDs) {
		t.Fatalf("categories: got %d, want %d", len(c.Categories), len(wantIDs))
	}
	for i, id := range wantIDs {
		if c.Categories[i].ID != id {
			t.Errorf("category %d: got %q, want %q", i, c.Categories[i].ID, id)
		}
		if !slug.Valid(c.Categories[i].ID) {
			t.Errorf("category id %q is not a slug", c.Categories[i].ID)
		}
	}

	if n := catalog.ProductCount(c); n != 17 {
		t.Errorf("products: got %d, want 17", n)
	}

	seen := map[string]bool{}
	for _, cat := range c.Categories {
		for _, p := range cat.Products {
			if p.ID == "" || seen[p.ID] {
				t.Errorf("bad or duplicate product id %q", p.ID)
			}
			seen[p.ID] = true
		}
	}
}

func TestSeed_SkipsExisting(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()

	// An admin has already emptied the catalog; seeding must not undo it.
	if err := NewProductStore(mem).Put(ctx, catalog.Empty()); err != nil {
		t.Fatalf("Put: %v", err)
	}

	if err := Seed(ctx, mem, false); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	products, _, _ := NewProductStore(mem).Load(ctx)
	if len(products.Categories) != 0 {
		t.Errorf("existing catalog overwritten: %d categories", len(products.Categories))
	}

	pdfs, version, _ := NewDocumentStore(mem).Load(ctx)
	if version == 0 {
		t.Error("pdf catalog should have been created")
	}
	if pdfs.Documents == nil || len(pdfs.Documents) != 0 {
		t.Errorf("pdf catalog: got %+v", pdfs)
	}
}

func TestSeed_Force(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	NewProductStore(mem).Put(ctx, catalog.Empty())

	if err := Seed(ctx, mem, true); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	products, _, _ := NewProductStore(mem).Load(ctx)
	if len(products.Categories) != 4 {
		t.Errorf("categories: got %d, want 4", len(products.Categories))
	}
}

func TestSeed_Idempotent(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()

	if err := Seed(ctx, mem, false); err != nil {
		t.Fatalf("first Seed: %v", err)
	}
	first, v1, _ := NewProductStore(mem).Load(ctx)
	if err := Seed(ctx, mem, false); err != nil {
		t.Fatalf("second Seed: %v", err)
	}
	second, v2, _ := NewProductStore(mem).Load(ctx)

	if v1 != v2 {
		t.Errorf("version changed on reseed: %d → %d", v1, v2)
	}
	if first.Categories[0].Products[0].ID != second.Categories[0].Products[0].ID {
		t.Error("product ids changed on reseed")
	}
}
