package crm

import (
	"context"
	"net/http"
	"sync"

	"github.com/you/plumbsvc/domain"
)

// lookupCache holds the rarely-changing lookup lists. No TTL: entries live
// until InvalidateLookups, which the admin cache-refresh endpoint calls.
// Correctness depends on the single-process deployment.
type lookupCache struct {
	mu        sync.Mutex
	jobTypes  []*domain.JobType
	campaigns []*domain.Campaign
	pricebook []*domain.PricebookItem
}

type rawJobType struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type rawCampaign struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

type rawPricebookItem struct {
	ID          int64   `json:"id"`
	Code        string  `json:"code"`
	DisplayName string  `json:"displayName"`
	Price       float64 `json:"price"`
	Active      bool    `json:"active"`
}

// JobTypes implements domain.CRMGateway
func (c *Client) JobTypes(ctx context.Context) ([]*domain.JobType, error) {
	c.lookups.mu.Lock()
	cached := c.lookups.jobTypes
	c.lookups.mu.Unlock()
	if cached != nil {
		return cached, nil
	}

	var resp page[rawJobType]
	if err := c.do(ctx, http.MethodGet, c.crmPath("jpm", "job-types"), nil, nil, &resp); err != nil {
		return nil, err
	}

	jobTypes := make([]*domain.JobType, 0, len(resp.Data))
	for _, rt := range resp.Data {
		jobTypes = append(jobTypes, &domain.JobType{ID: rt.ID, Name: rt.Name})
	}

	c.lookups.mu.Lock()
	c.lookups.jobTypes = jobTypes
	c.lookups.mu.Unlock()
	return jobTypes, nil
}

// Campaigns implements domain.CRMGateway
func (c *Client) Campaigns(ctx context.Context) ([]*domain.Campaign, error) {
	c.lookups.mu.Lock()
	cached := c.lookups.campaigns
	c.lookups.mu.Unlock()
	if cached != nil {
		return cached, nil
	}

	var resp page[rawCampaign]
	if err := c.do(ctx, http.MethodGet, c.crmPath("marketing", "campaigns"), nil, nil, &resp); err != nil {
		return nil, err
	}

	campaigns := make([]*domain.Campaign, 0, len(resp.Data))
	for _, rc := range resp.Data {
		campaigns = append(campaigns, &domain.Campaign{ID: rc.ID, Name: rc.Name, Active: rc.Active})
	}

	c.lookups.mu.Lock()
	c.lookups.campaigns = campaigns
	c.lookups.mu.Unlock()
	return campaigns, nil
}

// PricebookItems implements domain.CRMGateway
func (c *Client) PricebookItems(ctx context.Context) ([]*domain.PricebookItem, error) {
	c.lookups.mu.Lock()
	cached := c.lookups.pricebook
	c.lookups.mu.Unlock()
	if cached != nil {
		return cached, nil
	}

	var resp page[rawPricebookItem]
	if err := c.do(ctx, http.MethodGet, c.crmPath("pricebook", "services"), nil, nil, &resp); err != nil {
		return nil, err
	}

	items := make([]*domain.PricebookItem, 0, len(resp.Data))
	for _, ri := range resp.Data {
		items = append(items, &domain.PricebookItem{
			ID:     ri.ID,
			Code:   ri.Code,
			Name:   ri.DisplayName,
			Price:  ri.Price,
			Active: ri.Active,
		})
	}

	c.lookups.mu.Lock()
	c.lookups.pricebook = items
	c.lookups.mu.Unlock()
	return items, nil
}

// InvalidateLookups implements domain.CRMGateway
func (c *Client) InvalidateLookups() {
	c.lookups.mu.Lock()
	c.lookups.jobTypes = nil
	c.lookups.campaigns = nil
	c.lookups.pricebook = nil
	c.lookups.mu.Unlock()
}
