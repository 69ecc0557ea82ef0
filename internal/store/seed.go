package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"sarren/internal/catalog"
	"sarren/internal/documents"
	"sarren/internal/kv"
)

// SeedCatalog returns the initial product catalog: four categories of
// coatings raw materials, each product with a fresh id.
func SeedCatalog() catalog.ProductCatalog {
	p := func(label, name, desc string) catalog.Product {
		return catalog.Product{ID: uuid.NewString(), Label: label, Name: name, Desc: desc}
	}

	return catalog.ProductCatalog{Categories: []catalog.Category{
		{
			ID:    "resins",
			Title: "Resins & Polymers",
			Products: []catalog.Product{
				p("Resin", "Alkyd Resin", "Short, medium, and long oil alkyds for architectural and industrial coatings. Available in drums and totes."),
				p("Resin", "Acrylic Emulsion", "Waterborne acrylic dispersions for interior and exterior paint formulations."),
				p("Resin", "Epoxy Resin", "Liquid epoxy resins for flooring, industrial coatings, and adhesive applications."),
				p("Resin", "Polyurethane Resin", "Moisture-cure and two-component polyurethane resins for protective coatings."),
				p("Resin", "Vinyl Acetate Polymer", "PVA dispersions and copolymers for adhesives, construction, and drymix applications."),
			},
		},
		{
			ID:    "solvents",
			Title: "Solvents",
			Products: []catalog.Product{
				p("Solvent", "Methyl Ethyl Ketone (MEK)", "High-purity MEK for coatings, adhesives, and cleaning applications. Drum and bulk available."),
				p("Solvent", "Butyl Acetate", "Industrial grade n-butyl acetate for lacquers, varnishes, and coatings formulations."),
				p("Solvent", "Propylene Glycol Methyl Ether (PM)", "Glycol ether solvent for waterborne and solventborne coating systems."),
				p("Solvent", "Mineral Spirits", "Aliphatic hydrocarbon solvent for alkyd-based paints and industrial cleaning."),
			},
		},
		{
			ID:    "pigments",
			Title: "Pigments & Extenders",
			Products: []catalog.Product{
				p("Pigment", "Titanium Dioxide (TiO₂)", "Rutile and anatase grades for architectural paint, industrial coatings, and plastics."),
				p("Extender", "Calcium Carbonate", "Coated and uncoated calcium carbonate for drymix, paint, and sealant applications."),
				p("Extender", "Talc", "Platy talc grades for barrier properties and sag resistance in coatings and sealants."),
				p("Pigment", "Iron Oxide Pigments", "Red, yellow, and black synthetic iron oxides for concrete, coatings, and construction."),
			},
		},
		{
			ID:    "additives",
			Title: "Additives",
			Products: []catalog.Product{
				p("Additive", "Defoamers", "Mineral oil and silicone-based defoamers for waterborne and solventborne systems."),
				p("Additive", "Rheology Modifiers", "HEUR, HMHEC, and clay-based thickeners for paints, adhesives, and sealants."),
				p("Additive", "Dispersants & Wetting Agents", "Polymeric dispersants for pigment grinding and stabilization in waterborne systems."),
				p("Additive", "Coalescents", "Texanol and alternative coalescents to aid film formation in latex paints."),
			},
		},
	}}
}

// Seed writes the initial product catalog and an empty PDF catalog.
// Without force, documents that already exist are left alone so it is
// safe to run on every development start.
func Seed(ctx context.Context, s kv.Store, force bool) error {
	if force {
		products := NewProductStore(s)
		pdfs := NewDocumentStore(s)
		if err := products.Put(ctx, SeedCatalog()); err != nil {
			return fmt.Errorf("seed products: %w", err)
		}
		if err := pdfs.Put(ctx, documents.Empty()); err != nil {
			return fmt.Errorf("seed pdfs: %w", err)
		}
		slog.Info("catalogs seeded", "overwrite", true)
		return nil
	}

	seeded := 0
	for _, doc := range []struct {
		key   string
		value any
	}{
		{catalog.Key, SeedCatalog()},
		{documents.Key, documents.Empty()},
	} {
		e, err := s.Get(ctx, doc.key)
		if err != nil {
			return fmt.Errorf("seed %s: %w", doc.key, err)
		}
		if e != nil {
			continue
		}
		_, err = save(ctx, s, doc.key, doc.value, 0)
		if errors.Is(err, kv.ErrVersionMismatch) {
			continue
		}
		if err != nil {
			return fmt.Errorf("seed %s: %w", doc.key, err)
		}
		seeded++
	}

	if seeded == 0 {
		slog.Info("catalogs already seeded, skipping")
		return nil
	}
	slog.Info("catalogs seeded", "documents", seeded)
	return nil
}
