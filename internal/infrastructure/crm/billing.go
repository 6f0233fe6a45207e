package crm

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/you/plumbsvc/domain"
)

type rawEstimate struct {
	ID        int64     `json:"id"`
	JobID     int64     `json:"jobId"`
	Name      string    `json:"name"`
	CreatedOn time.Time `json:"createdOn"`
	Status    struct {
		Name string `json:"name"`
	} `json:"status"`
	Subtotal float64 `json:"subtotal"`
}

type rawInvoice struct {
	ID          int64  `json:"id"`
	Number      string `json:"number"`
	InvoiceDate string `json:"invoiceDate"`
	DueDate     string `json:"dueDate"`
	Customer    struct {
		ID int64 `json:"id"`
	} `json:"customer"`
	// The platform returns money fields as strings.
	Total   string `json:"total"`
	Balance string `json:"balance"`
}

type rawMembership struct {
	ID         int64      `json:"id"`
	CustomerID int64      `json:"customerId"`
	Status     string     `json:"status"`
	From       *time.Time `json:"from"`
	To         *time.Time `json:"to"`
	Type       struct {
		Name string `json:"name"`
	} `json:"type"`
}

// ListEstimates implements domain.CRMGateway
func (c *Client) ListEstimates(ctx context.Context, customerID int64) ([]*domain.Estimate, error) {
	q := url.Values{}
	q.Set("customerId", strconv.FormatInt(customerID, 10))

	var resp page[rawEstimate]
	if err := c.do(ctx, http.MethodGet, c.crmPath("sales", "estimates"), q, nil, &resp); err != nil {
		return nil, err
	}

	estimates := make([]*domain.Estimate, 0, len(resp.Data))
	for _, re := range resp.Data {
		estimates = append(estimates, &domain.Estimate{
			ID:        re.ID,
			JobID:     re.JobID,
			Name:      re.Name,
			Status:    re.Status.Name,
			Total:     re.Subtotal,
			CreatedOn: re.CreatedOn,
		})
	}
	return estimates, nil
}

// ListInvoices implements domain.CRMGateway
func (c *Client) ListInvoices(ctx context.Context, customerID int64) ([]*domain.Invoice, error) {
	q := url.Values{}
	q.Set("customerId", strconv.FormatInt(customerID, 10))

	var resp page[rawInvoice]
	if err := c.do(ctx, http.MethodGet, c.crmPath("accounting", "invoices"), q, nil, &resp); err != nil {
		return nil, err
	}

	invoices := make([]*domain.Invoice, 0, len(resp.Data))
	for _, ri := range resp.Data {
		invoices = append(invoices, normalizeInvoice(ri))
	}
	return invoices, nil
}

func normalizeInvoice(ri rawInvoice) *domain.Invoice {
	inv := &domain.Invoice{
		ID:         ri.ID,
		Number:     ri.Number,
		CustomerID: ri.Customer.ID,
	}
	inv.Total, _ = strconv.ParseFloat(ri.Total, 64)
	inv.Balance, _ = strconv.ParseFloat(ri.Balance, 64)
	if t, err := time.Parse(time.RFC3339, ri.InvoiceDate); err == nil {
		inv.InvoicedOn = &t
	}
	if t, err := time.Parse(time.RFC3339, ri.DueDate); err == nil {
		inv.DueOn = &t
	}
	return inv
}

// ListMemberships implements domain.CRMGateway
func (c *Client) ListMemberships(ctx context.Context, customerID int64) ([]*domain.Membership, error) {
	q := url.Values{}
	q.Set("customerIds", strconv.FormatInt(customerID, 10))

	var resp page[rawMembership]
	if err := c.do(ctx, http.MethodGet, c.crmPath("memberships", "memberships"), q, nil, &resp); err != nil {
		return nil, err
	}

	memberships := make([]*domain.Membership, 0, len(resp.Data))
	for _, rm := range resp.Data {
		memberships = append(memberships, &domain.Membership{
			ID:         rm.ID,
			CustomerID: rm.CustomerID,
			TypeName:   rm.Type.Name,
			Status:     rm.Status,
			From:       rm.From,
			To:         rm.To,
		})
	}
	return memberships, nil
}
