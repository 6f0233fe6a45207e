package repositories

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/you/plumbsvc/domain"
)

func TestAdminRepositoryImpl_IsAllowed(t *testing.T) {
	tests := []struct {
		name      string
		setupData func(db *gorm.DB)
		email     string
		want      bool
	}{
		{
			name: "active admin is allowed",
			setupData: func(db *gorm.DB) {
				db.Create(&DBAdminUser{Email: "owner@epplumbing.com", IsActive: true})
			},
			email: "owner@epplumbing.com",
			want:  true,
		},
		{
			name: "deactivated admin is not allowed",
			setupData: func(db *gorm.DB) {
				db.Create(&DBAdminUser{Email: "former@epplumbing.com", IsActive: false})
			},
			email: "former@epplumbing.com",
			want:  false,
		},
		{
			name:      "unknown email is not allowed",
			setupData: func(db *gorm.DB) {},
			email:     "nobody@epplumbing.com",
			want:      false,
		},
		{
			name: "soft-deleted admin is not allowed",
			setupData: func(db *gorm.DB) {
				admin := &DBAdminUser{Email: "deleted@epplumbing.com", IsActive: true}
				db.Create(admin)
				db.Delete(admin)
			},
			email: "deleted@epplumbing.com",
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupTestDB(t)
			tt.setupData(db)
			repo := NewAdminRepository(db)

			got, err := repo.IsAllowed(context.Background(), tt.email)
			if err != nil {
				t.Fatalf("IsAllowed: %v", err)
			}
			if got != tt.want {
				t.Errorf("IsAllowed(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

// Deactivation must take effect on the very next check with no restart or
// cache flush in between.
func TestAdminRepositoryImpl_IsAllowed_SeesDeactivationImmediately(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAdminRepository(db)
	ctx := context.Background()

	admin := &domain.AdminUser{Email: "oncall@epplumbing.com", Name: "On Call", IsActive: true}
	if err := repo.Create(ctx, admin); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if allowed, _ := repo.IsAllowed(ctx, admin.Email); !allowed {
		t.Fatal("expected new active admin to be allowed")
	}

	admin.IsActive = false
	if err := repo.Update(ctx, admin); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if allowed, _ := repo.IsAllowed(ctx, admin.Email); allowed {
		t.Error("deactivated admin still allowed")
	}
}

func TestAdminRepositoryImpl_FindByEmail(t *testing.T) {
	db := setupTestDB(t)
	db.Create(&DBAdminUser{Email: "owner@epplumbing.com", Name: "Owner", PasswordHash: "hash", IsActive: true})
	repo := NewAdminRepository(db)

	admin, err := repo.FindByEmail(context.Background(), "owner@epplumbing.com")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if admin.Name != "Owner" || admin.PasswordHash != "hash" {
		t.Errorf("unexpected admin: %+v", admin)
	}

	if _, err := repo.FindByEmail(context.Background(), "missing@epplumbing.com"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
