package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/you/plumbsvc/domain"
)

// LeadRepositoryImpl implements domain.LeadRepository using GORM
type LeadRepositoryImpl struct {
	db *gorm.DB
}

// DBLead represents the database model for Lead (with GORM tags)
type DBLead struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:255"`
	Phone     string `gorm:"size:32"`
	Email     string `gorm:"size:255"`
	Message   string `gorm:"type:text"`
	Source    string `gorm:"size:64;index"`
	CreatedAt time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (DBLead) TableName() string {
	return "leads"
}

// NewLeadRepository creates a new lead repository
func NewLeadRepository(db *gorm.DB) domain.LeadRepository {
	return &LeadRepositoryImpl{db: db}
}

// Create implements domain.LeadRepository
func (r *LeadRepositoryImpl) Create(ctx context.Context, lead *domain.Lead) error {
	dbLead := &DBLead{
		Name:    lead.Name,
		Phone:   lead.Phone,
		Email:   lead.Email,
		Message: lead.Message,
		Source:  lead.Source,
	}
	if err := r.db.WithContext(ctx).Create(dbLead).Error; err != nil {
		return err
	}
	lead.ID = dbLead.ID
	lead.CreatedAt = dbLead.CreatedAt
	return nil
}

// List implements domain.LeadRepository
func (r *LeadRepositoryImpl) List(ctx context.Context, limit int) ([]*domain.Lead, error) {
	if limit <= 0 {
		limit = 100
	}

	var dbLeads []DBLead
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&dbLeads).Error
	if err != nil {
		return nil, err
	}

	leads := make([]*domain.Lead, 0, len(dbLeads))
	for _, dl := range dbLeads {
		leads = append(leads, &domain.Lead{
			ID:        dl.ID,
			Name:      dl.Name,
			Phone:     dl.Phone,
			Email:     dl.Email,
			Message:   dl.Message,
			Source:    dl.Source,
			CreatedAt: dl.CreatedAt,
		})
	}
	return leads, nil
}
