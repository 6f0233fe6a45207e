package crm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/you/plumbsvc/domain"
)

// rawCustomer is the platform's nested customer shape.
type rawCustomer struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Active  bool   `json:"active"`
	Email   string `json:"email"`
	Address struct {
		Street string `json:"street"`
		Unit   string `json:"unit"`
		City   string `json:"city"`
		State  string `json:"state"`
		Zip    string `json:"zip"`
	} `json:"address"`
	PhoneSettings struct {
		PhoneNumber string `json:"phoneNumber"`
	} `json:"phoneSettings"`
}

func normalizeCustomer(rc *rawCustomer) *domain.Customer {
	return &domain.Customer{
		ID:     rc.ID,
		Name:   rc.Name,
		Type:   rc.Type,
		Email:  rc.Email,
		Phone:  rc.PhoneSettings.PhoneNumber,
		Active: rc.Active,
		Address: domain.Address{
			Street: rc.Address.Street,
			Unit:   rc.Address.Unit,
			City:   rc.Address.City,
			State:  rc.Address.State,
			Zip:    rc.Address.Zip,
		},
	}
}

// GetCustomer implements domain.CRMGateway
func (c *Client) GetCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	var rc rawCustomer
	path := c.crmPath("crm", "customers/"+strconv.FormatInt(id, 10))
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &rc); err != nil {
		return nil, err
	}
	return normalizeCustomer(&rc), nil
}

// SearchCustomersByPhone implements domain.CRMGateway
func (c *Client) SearchCustomersByPhone(ctx context.Context, phone string) ([]*domain.Customer, error) {
	q := url.Values{}
	q.Set("phone", phone)
	return c.searchCustomers(ctx, q)
}

// SearchCustomersByEmail implements domain.CRMGateway
func (c *Client) SearchCustomersByEmail(ctx context.Context, email string) ([]*domain.Customer, error) {
	q := url.Values{}
	q.Set("email", email)
	return c.searchCustomers(ctx, q)
}

func (c *Client) searchCustomers(ctx context.Context, q url.Values) ([]*domain.Customer, error) {
	var resp page[rawCustomer]
	if err := c.do(ctx, http.MethodGet, c.crmPath("crm", "customers"), q, nil, &resp); err != nil {
		return nil, err
	}

	customers := make([]*domain.Customer, 0, len(resp.Data))
	for i := range resp.Data {
		customers = append(customers, normalizeCustomer(&resp.Data[i]))
	}
	return customers, nil
}

// ListCustomers implements domain.CRMGateway. Used by the background sync to
// page through the full customer base.
func (c *Client) ListCustomers(ctx context.Context, pageNum, pageSize int) ([]*domain.Customer, bool, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(pageNum))
	q.Set("pageSize", strconv.Itoa(pageSize))

	var resp page[rawCustomer]
	if err := c.do(ctx, http.MethodGet, c.crmPath("crm", "customers"), q, nil, &resp); err != nil {
		return nil, false, err
	}

	customers := make([]*domain.Customer, 0, len(resp.Data))
	for i := range resp.Data {
		customers = append(customers, normalizeCustomer(&resp.Data[i]))
	}
	return customers, resp.HasMore, nil
}

// UpdateCustomer implements domain.CRMGateway
func (c *Client) UpdateCustomer(ctx context.Context, customer *domain.Customer) error {
	body := map[string]interface{}{
		"name":  customer.Name,
		"email": customer.Email,
		"phoneSettings": map[string]string{
			"phoneNumber": customer.Phone,
		},
		"address": map[string]string{
			"street": customer.Address.Street,
			"unit":   customer.Address.Unit,
			"city":   customer.Address.City,
			"state":  customer.Address.State,
			"zip":    customer.Address.Zip,
		},
	}

	path := c.crmPath("crm", fmt.Sprintf("customers/%d", customer.ID))
	return c.do(ctx, http.MethodPatch, path, nil, body, nil)
}
