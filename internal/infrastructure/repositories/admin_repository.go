package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/you/plumbsvc/domain"
)

// AdminRepositoryImpl implements domain.AdminRepository using GORM
type AdminRepositoryImpl struct {
	db *gorm.DB
}

// DBAdminUser represents the database model for AdminUser (with GORM tags).
// The set of active rows is the admin allow-list.
type DBAdminUser struct {
	ID           uint   `gorm:"primaryKey"`
	Email        string `gorm:"uniqueIndex;size:255"`
	Name         string `gorm:"size:255"`
	PasswordHash string `gorm:"column:password"`
	IsActive     bool   `gorm:"index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM
func (DBAdminUser) TableName() string {
	return "admin_users"
}

// NewAdminRepository creates a new admin repository
func NewAdminRepository(db *gorm.DB) domain.AdminRepository {
	return &AdminRepositoryImpl{db: db}
}

// Create implements domain.AdminRepository
func (r *AdminRepositoryImpl) Create(ctx context.Context, admin *domain.AdminUser) error {
	dbAdmin := r.domainToDB(admin)
	if err := r.db.WithContext(ctx).Create(dbAdmin).Error; err != nil {
		return err
	}
	admin.ID = dbAdmin.ID
	return nil
}

// FindByEmail implements domain.AdminRepository
func (r *AdminRepositoryImpl) FindByEmail(ctx context.Context, email string) (*domain.AdminUser, error) {
	var dbAdmin DBAdminUser
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&dbAdmin).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbAdmin), nil
}

// FindByID implements domain.AdminRepository
func (r *AdminRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.AdminUser, error) {
	var dbAdmin DBAdminUser
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbAdmin).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbAdmin), nil
}

// Update implements domain.AdminRepository
func (r *AdminRepositoryImpl) Update(ctx context.Context, admin *domain.AdminUser) error {
	return r.db.WithContext(ctx).Save(r.domainToDB(admin)).Error
}

// Delete implements domain.AdminRepository
func (r *AdminRepositoryImpl) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&DBAdminUser{}, id).Error
}

// List implements domain.AdminRepository
func (r *AdminRepositoryImpl) List(ctx context.Context) ([]*domain.AdminUser, error) {
	var dbAdmins []DBAdminUser
	if err := r.db.WithContext(ctx).Order("email").Find(&dbAdmins).Error; err != nil {
		return nil, err
	}

	admins := make([]*domain.AdminUser, 0, len(dbAdmins))
	for i := range dbAdmins {
		admins = append(admins, r.dbToDomain(&dbAdmins[i]))
	}
	return admins, nil
}

// IsAllowed implements domain.AdminRepository. Hit on every admin request so
// a removed email loses access on its next request.
func (r *AdminRepositoryImpl) IsAllowed(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&DBAdminUser{}).
		Where("email = ? AND is_active = ?", email, true).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *AdminRepositoryImpl) domainToDB(admin *domain.AdminUser) *DBAdminUser {
	return &DBAdminUser{
		ID:           admin.ID,
		Email:        admin.Email,
		Name:         admin.Name,
		PasswordHash: admin.PasswordHash,
		IsActive:     admin.IsActive,
	}
}

func (r *AdminRepositoryImpl) dbToDomain(dbAdmin *DBAdminUser) *domain.AdminUser {
	return &domain.AdminUser{
		ID:           dbAdmin.ID,
		Email:        dbAdmin.Email,
		Name:         dbAdmin.Name,
		PasswordHash: dbAdmin.PasswordHash,
		IsActive:     dbAdmin.IsActive,
		CreatedAt:    dbAdmin.CreatedAt,
		UpdatedAt:    dbAdmin.UpdatedAt,
	}
}
