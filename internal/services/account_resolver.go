package services

import (
	"context"
	"fmt"

	"github.com/you/plumbsvc/domain"
)

// AccountResolverImpl implements domain.AccountResolver. The returned set is
// ordered and de-duplicated; the first id becomes the session's active
// account. The set is computed once at login and not refreshed until the next
// login.
type AccountResolverImpl struct {
	gateway domain.CRMGateway
}

// NewAccountResolver creates a new account resolver
func NewAccountResolver(gateway domain.CRMGateway) domain.AccountResolver {
	return &AccountResolverImpl{gateway: gateway}
}

// ResolveByPhone implements domain.AccountResolver
func (r *AccountResolverImpl) ResolveByPhone(ctx context.Context, phone string) ([]int64, error) {
	customers, err := r.gateway.SearchCustomersByPhone(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("failed to search customers by phone: %w", err)
	}
	return collectIDs(customers), nil
}

// ResolveByEmail implements domain.AccountResolver
func (r *AccountResolverImpl) ResolveByEmail(ctx context.Context, email string) ([]int64, error) {
	customers, err := r.gateway.SearchCustomersByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to search customers by email: %w", err)
	}
	return collectIDs(customers), nil
}

// collectIDs keeps the CRM's result order, drops duplicates, and prefers
// active records: an inactive account can still be viewed but an active one
// should be the default.
func collectIDs(customers []*domain.Customer) []int64 {
	seen := make(map[int64]bool, len(customers))
	var active, inactive []int64

	for _, customer := range customers {
		if seen[customer.ID] {
			continue
		}
		seen[customer.ID] = true
		if customer.Active {
			active = append(active, customer.ID)
		} else {
			inactive = append(inactive, customer.ID)
		}
	}

	return append(active, inactive...)
}
