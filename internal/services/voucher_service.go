package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/you/plumbsvc/domain"
)

// VoucherServiceImpl implements domain.VoucherService
type VoucherServiceImpl struct {
	voucherRepo domain.VoucherRepository
}

// NewVoucherService creates a new voucher service
func NewVoucherService(voucherRepo domain.VoucherRepository) domain.VoucherService {
	return &VoucherServiceImpl{voucherRepo: voucherRepo}
}

// Redeem implements domain.VoucherService. A voucher bound to a specific
// customer can only be redeemed by that customer; unbound vouchers are open
// promotional codes. The repository guarantees single redemption.
func (s *VoucherServiceImpl) Redeem(ctx context.Context, code string, customerID int64) (*domain.Voucher, error) {
	voucher, err := s.voucherRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if voucher.CustomerID != 0 && voucher.CustomerID != customerID {
		// Do not reveal that the code exists for someone else.
		return nil, domain.ErrVoucherNotFound
	}

	redeemed, err := s.voucherRepo.Redeem(ctx, code, customerID)
	if err != nil {
		return nil, err
	}

	log.Info().Str("code", code).Int64("customer_id", customerID).Msg("voucher redeemed")
	return redeemed, nil
}

// ListForCustomer implements domain.VoucherService
func (s *VoucherServiceImpl) ListForCustomer(ctx context.Context, customerID int64) ([]*domain.Voucher, error) {
	return s.voucherRepo.ListByCustomer(ctx, customerID)
}
