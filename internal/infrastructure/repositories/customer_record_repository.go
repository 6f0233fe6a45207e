package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/you/plumbsvc/domain"
)

// CustomerRecordRepositoryImpl implements domain.CustomerRecordRepository
// using GORM. It holds the local copy of CRM customers written by the sync.
type CustomerRecordRepositoryImpl struct {
	db *gorm.DB
}

// DBSyncedCustomer represents the database model for SyncedCustomer
type DBSyncedCustomer struct {
	CRMID         int64  `gorm:"primaryKey;column:crm_id"`
	Name          string `gorm:"size:255"`
	Email         string `gorm:"size:255;index"`
	Phone         string `gorm:"size:32;index"`
	Active        bool   `gorm:"index"`
	DoNotMail     bool   `gorm:"index"`
	LastEmailedAt *time.Time
	SyncedAt      time.Time
}

// TableName returns the table name for GORM
func (DBSyncedCustomer) TableName() string {
	return "synced_customers"
}

// NewCustomerRecordRepository creates a new synced customer repository
func NewCustomerRecordRepository(db *gorm.DB) domain.CustomerRecordRepository {
	return &CustomerRecordRepositoryImpl{db: db}
}

// UpsertBatch implements domain.CustomerRecordRepository. Existing rows keep
// their mail-tracking columns; only the CRM-sourced fields are overwritten.
func (r *CustomerRecordRepositoryImpl) UpsertBatch(ctx context.Context, records []domain.SyncedCustomer) error {
	if len(records) == 0 {
		return nil
	}

	rows := make([]DBSyncedCustomer, 0, len(records))
	for _, rec := range records {
		rows = append(rows, DBSyncedCustomer{
			CRMID:    rec.CRMID,
			Name:     rec.Name,
			Email:    rec.Email,
			Phone:    rec.Phone,
			Active:   rec.Active,
			SyncedAt: rec.SyncedAt,
		})
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "crm_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "email", "phone", "active", "synced_at"}),
	}).Create(&rows).Error
}

// ListDrippable implements domain.CustomerRecordRepository
func (r *CustomerRecordRepositoryImpl) ListDrippable(ctx context.Context, notMailedSince time.Time, limit int) ([]domain.SyncedCustomer, error) {
	var rows []DBSyncedCustomer
	err := r.db.WithContext(ctx).
		Where("active = ? AND do_not_mail = ? AND email <> ''", true, false).
		Where("last_emailed_at IS NULL OR last_emailed_at < ?", notMailedSince).
		Order("crm_id").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	records := make([]domain.SyncedCustomer, 0, len(rows))
	for _, row := range rows {
		records = append(records, domain.SyncedCustomer{
			CRMID:         row.CRMID,
			Name:          row.Name,
			Email:         row.Email,
			Phone:         row.Phone,
			Active:        row.Active,
			DoNotMail:     row.DoNotMail,
			LastEmailedAt: row.LastEmailedAt,
			SyncedAt:      row.SyncedAt,
		})
	}
	return records, nil
}

// MarkEmailed implements domain.CustomerRecordRepository
func (r *CustomerRecordRepositoryImpl) MarkEmailed(ctx context.Context, crmID int64, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&DBSyncedCustomer{}).
		Where("crm_id = ?", crmID).
		Update("last_emailed_at", at).Error
}

// SetDoNotMailByEmail implements domain.CustomerRecordRepository. Keyed by
// email because unsubscribe tokens carry only the address.
func (r *CustomerRecordRepositoryImpl) SetDoNotMailByEmail(ctx context.Context, email string) error {
	return r.db.WithContext(ctx).
		Model(&DBSyncedCustomer{}).
		Where("email = ?", email).
		Update("do_not_mail", true).Error
}

// Count implements domain.CustomerRecordRepository
func (r *CustomerRecordRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&DBSyncedCustomer{}).Count(&count).Error
	return count, err
}
