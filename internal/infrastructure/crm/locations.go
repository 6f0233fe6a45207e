package crm

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/you/plumbsvc/domain"
)

type rawLocation struct {
	ID         int64  `json:"id"`
	CustomerID int64  `json:"customerId"`
	Name       string `json:"name"`
	Active     bool   `json:"active"`
	Address    struct {
		Street string `json:"street"`
		Unit   string `json:"unit"`
		City   string `json:"city"`
		State  string `json:"state"`
		Zip    string `json:"zip"`
	} `json:"address"`
}

type rawContact struct {
	ID    int64  `json:"id"`
	Type  string `json:"type"`
	Value string `json:"value"`
	Memo  string `json:"memo"`
}

// ListLocations implements domain.CRMGateway
func (c *Client) ListLocations(ctx context.Context, customerID int64) ([]*domain.Location, error) {
	q := url.Values{}
	q.Set("customerId", strconv.FormatInt(customerID, 10))

	var resp page[rawLocation]
	if err := c.do(ctx, http.MethodGet, c.crmPath("crm", "locations"), q, nil, &resp); err != nil {
		return nil, err
	}

	locations := make([]*domain.Location, 0, len(resp.Data))
	for _, rl := range resp.Data {
		locations = append(locations, &domain.Location{
			ID:         rl.ID,
			CustomerID: rl.CustomerID,
			Name:       rl.Name,
			Active:     rl.Active,
			Address: domain.Address{
				Street: rl.Address.Street,
				Unit:   rl.Address.Unit,
				City:   rl.Address.City,
				State:  rl.Address.State,
				Zip:    rl.Address.Zip,
			},
		})
	}
	return locations, nil
}

// ListContacts implements domain.CRMGateway
func (c *Client) ListContacts(ctx context.Context, customerID int64) ([]*domain.Contact, error) {
	path := c.crmPath("crm", "customers/"+strconv.FormatInt(customerID, 10)+"/contacts")

	var resp page[rawContact]
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		return nil, err
	}

	contacts := make([]*domain.Contact, 0, len(resp.Data))
	for _, rc := range resp.Data {
		contacts = append(contacts, &domain.Contact{
			ID:    rc.ID,
			Type:  rc.Type,
			Value: rc.Value,
			Memo:  rc.Memo,
		})
	}
	return contacts, nil
}
