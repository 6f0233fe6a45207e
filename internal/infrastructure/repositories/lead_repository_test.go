package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/you/plumbsvc/domain"
)

func TestLeadRepositoryImpl_CreateAndList(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLeadRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	seed := []DBLead{
		{Name: "Ann", Phone: "+15125551234", Message: "Water heater", Source: "homepage", CreatedAt: base},
		{Name: "Bob", Email: "bob@example.com", Message: "Repipe quote", Source: "google-ads", CreatedAt: base.Add(time.Hour)},
		{Name: "Cho", Phone: "+15125559876", Message: "Clogged drain", Source: "homepage", CreatedAt: base.Add(2 * time.Hour)},
	}
	for i := range seed {
		if err := db.Create(&seed[i]).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	leads, err := repo.List(ctx, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(leads) != 2 {
		t.Fatalf("len = %d, want 2", len(leads))
	}
	// Newest first.
	if leads[0].Name != "Cho" || leads[1].Name != "Bob" {
		t.Errorf("order = %s, %s", leads[0].Name, leads[1].Name)
	}

	dee := &domain.Lead{Name: "Dee", Email: "dee@example.com", Message: "Annual inspection"}
	if err := repo.Create(ctx, dee); err != nil {
		t.Fatalf("Create: %v", err)
	}
	all, err := repo.List(ctx, 0)
	if err != nil {
		t.Fatalf("List all: %v", err)
	}
	if len(all) != 4 {
		t.Errorf("len = %d, want 4", len(all))
	}
}

func TestLeadRepositoryImpl_Create_FillsID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLeadRepository(db)

	lead := &domain.Lead{Name: "Ann", Phone: "+15125551234", Message: "Water heater"}
	if err := repo.Create(context.Background(), lead); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if lead.ID == 0 {
		t.Error("created lead has no id")
	}
}
