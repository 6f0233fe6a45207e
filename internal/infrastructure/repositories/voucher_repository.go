package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/you/plumbsvc/domain"
)

// VoucherRepositoryImpl implements domain.VoucherRepository using GORM
type VoucherRepositoryImpl struct {
	db *gorm.DB
}

// DBVoucher represents the database model for Voucher (with GORM tags)
type DBVoucher struct {
	ID          uint   `gorm:"primaryKey"`
	Code        string `gorm:"uniqueIndex;size:64"`
	CustomerID  int64  `gorm:"index"`
	Amount      float64
	Description string `gorm:"size:255"`
	Redeemed    bool   `gorm:"index"`
	RedeemedBy  int64
	RedeemedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the table name for GORM
func (DBVoucher) TableName() string {
	return "vouchers"
}

// NewVoucherRepository creates a new voucher repository
func NewVoucherRepository(db *gorm.DB) domain.VoucherRepository {
	return &VoucherRepositoryImpl{db: db}
}

// Create implements domain.VoucherRepository
func (r *VoucherRepositoryImpl) Create(ctx context.Context, voucher *domain.Voucher) error {
	dbVoucher := r.domainToDB(voucher)
	if err := r.db.WithContext(ctx).Create(dbVoucher).Error; err != nil {
		return err
	}
	voucher.ID = dbVoucher.ID
	return nil
}

// Update implements domain.VoucherRepository
func (r *VoucherRepositoryImpl) Update(ctx context.Context, voucher *domain.Voucher) error {
	return r.db.WithContext(ctx).Save(r.domainToDB(voucher)).Error
}

// Delete implements domain.VoucherRepository
func (r *VoucherRepositoryImpl) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&DBVoucher{}, id).Error
}

// FindByID implements domain.VoucherRepository
func (r *VoucherRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.Voucher, error) {
	var dbVoucher DBVoucher
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbVoucher).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrVoucherNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbVoucher), nil
}

// FindByCode implements domain.VoucherRepository
func (r *VoucherRepositoryImpl) FindByCode(ctx context.Context, code string) (*domain.Voucher, error) {
	var dbVoucher DBVoucher
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&dbVoucher).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrVoucherNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbVoucher), nil
}

// List implements domain.VoucherRepository
func (r *VoucherRepositoryImpl) List(ctx context.Context) ([]*domain.Voucher, error) {
	var dbVouchers []DBVoucher
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&dbVouchers).Error; err != nil {
		return nil, err
	}
	return r.toDomainSlice(dbVouchers), nil
}

// ListByCustomer implements domain.VoucherRepository
func (r *VoucherRepositoryImpl) ListByCustomer(ctx context.Context, customerID int64) ([]*domain.Voucher, error) {
	var dbVouchers []DBVoucher
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&dbVouchers).Error
	if err != nil {
		return nil, err
	}
	return r.toDomainSlice(dbVouchers), nil
}

// Redeem implements domain.VoucherRepository. The redeemed flag is flipped by
// a single conditional UPDATE keyed on redeemed = false, so two concurrent
// redemptions of the same code produce exactly one success.
func (r *VoucherRepositoryImpl) Redeem(ctx context.Context, code string, customerID int64) (*domain.Voucher, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&DBVoucher{}).
		Where("code = ? AND redeemed = ?", code, false).
		Updates(map[string]interface{}{
			"redeemed":    true,
			"redeemed_by": customerID,
			"redeemed_at": now,
		})
	if result.Error != nil {
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		// Distinguish missing from already redeemed for the caller.
		if _, err := r.FindByCode(ctx, code); err != nil {
			return nil, err
		}
		return nil, domain.ErrVoucherAlreadyRedeemed
	}

	return r.FindByCode(ctx, code)
}

func (r *VoucherRepositoryImpl) toDomainSlice(dbVouchers []DBVoucher) []*domain.Voucher {
	vouchers := make([]*domain.Voucher, 0, len(dbVouchers))
	for i := range dbVouchers {
		vouchers = append(vouchers, r.dbToDomain(&dbVouchers[i]))
	}
	return vouchers
}

func (r *VoucherRepositoryImpl) domainToDB(voucher *domain.Voucher) *DBVoucher {
	return &DBVoucher{
		ID:          voucher.ID,
		Code:        voucher.Code,
		CustomerID:  voucher.CustomerID,
		Amount:      voucher.Amount,
		Description: voucher.Description,
		Redeemed:    voucher.Redeemed,
		RedeemedBy:  voucher.RedeemedBy,
		RedeemedAt:  voucher.RedeemedAt,
	}
}

func (r *VoucherRepositoryImpl) dbToDomain(dbVoucher *DBVoucher) *domain.Voucher {
	return &domain.Voucher{
		ID:          dbVoucher.ID,
		Code:        dbVoucher.Code,
		CustomerID:  dbVoucher.CustomerID,
		Amount:      dbVoucher.Amount,
		Description: dbVoucher.Description,
		Redeemed:    dbVoucher.Redeemed,
		RedeemedBy:  dbVoucher.RedeemedBy,
		RedeemedAt:  dbVoucher.RedeemedAt,
		CreatedAt:   dbVoucher.CreatedAt,
		UpdatedAt:   dbVoucher.UpdatedAt,
	}
}
