package crm

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/you/plumbsvc/domain"
)

type rawJob struct {
	ID          int64      `json:"id"`
	JobNumber   string     `json:"jobNumber"`
	CustomerID  int64      `json:"customerId"`
	LocationID  int64      `json:"locationId"`
	JobTypeID   int64      `json:"jobTypeId"`
	JobStatus   string     `json:"jobStatus"`
	Summary     string     `json:"summary"`
	CompletedOn *time.Time `json:"completedOn"`
}

type rawAppointment struct {
	ID                 int64     `json:"id"`
	JobID              int64     `json:"jobId"`
	Status             string    `json:"status"`
	Start              time.Time `json:"start"`
	End                time.Time `json:"end"`
	ArrivalWindowStart time.Time `json:"arrivalWindowStart"`
	ArrivalWindowEnd   time.Time `json:"arrivalWindowEnd"`
}

// normalizeJob resolves the job type name from the lookup cache when
// available; a cache miss leaves the name empty rather than failing the call.
func (c *Client) normalizeJob(ctx context.Context, rj *rawJob) *domain.Job {
	job := &domain.Job{
		ID:          rj.ID,
		Number:      rj.JobNumber,
		CustomerID:  rj.CustomerID,
		LocationID:  rj.LocationID,
		TypeID:      rj.JobTypeID,
		Status:      rj.JobStatus,
		Summary:     rj.Summary,
		CompletedOn: rj.CompletedOn,
	}

	if types, err := c.JobTypes(ctx); err == nil {
		for _, t := range types {
			if t.ID == rj.JobTypeID {
				job.TypeName = t.Name
				break
			}
		}
	}
	return job
}

// ListJobs implements domain.CRMGateway
func (c *Client) ListJobs(ctx context.Context, customerID int64) ([]*domain.Job, error) {
	q := url.Values{}
	q.Set("customerId", strconv.FormatInt(customerID, 10))

	var resp page[rawJob]
	if err := c.do(ctx, http.MethodGet, c.crmPath("jpm", "jobs"), q, nil, &resp); err != nil {
		return nil, err
	}

	jobs := make([]*domain.Job, 0, len(resp.Data))
	for i := range resp.Data {
		jobs = append(jobs, c.normalizeJob(ctx, &resp.Data[i]))
	}
	return jobs, nil
}

// GetJob implements domain.CRMGateway
func (c *Client) GetJob(ctx context.Context, id int64) (*domain.Job, error) {
	var rj rawJob
	path := c.crmPath("jpm", "jobs/"+strconv.FormatInt(id, 10))
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &rj); err != nil {
		return nil, err
	}
	return c.normalizeJob(ctx, &rj), nil
}

// CreateJob implements domain.CRMGateway. Portal booking requests become
// unscheduled jobs for the office to dispatch.
func (c *Client) CreateJob(ctx context.Context, req *domain.BookingRequest) (*domain.Job, error) {
	body := map[string]interface{}{
		"customerId": req.CustomerID,
		"locationId": req.LocationID,
		"jobTypeId":  req.JobTypeID,
		"campaignId": req.CampaignID,
		"summary":    req.Summary,
	}
	if req.PreferredStart != nil {
		body["preferredStart"] = req.PreferredStart.Format(time.RFC3339)
	}

	var rj rawJob
	if err := c.do(ctx, http.MethodPost, c.crmPath("jpm", "jobs"), nil, body, &rj); err != nil {
		return nil, err
	}
	return c.normalizeJob(ctx, &rj), nil
}

// ListAppointments implements domain.CRMGateway
func (c *Client) ListAppointments(ctx context.Context, jobID int64) ([]*domain.Appointment, error) {
	q := url.Values{}
	q.Set("jobId", strconv.FormatInt(jobID, 10))

	var resp page[rawAppointment]
	if err := c.do(ctx, http.MethodGet, c.crmPath("jpm", "appointments"), q, nil, &resp); err != nil {
		return nil, err
	}

	appointments := make([]*domain.Appointment, 0, len(resp.Data))
	for _, ra := range resp.Data {
		appointments = append(appointments, normalizeAppointment(ra))
	}
	return appointments, nil
}

// normalizeAppointment flattens the arrival window: the platform omits it on
// some appointment types, in which case the scheduled start/end stand in.
func normalizeAppointment(ra rawAppointment) *domain.Appointment {
	a := &domain.Appointment{
		ID:           ra.ID,
		JobID:        ra.JobID,
		Status:       ra.Status,
		Start:        ra.Start,
		End:          ra.End,
		ArrivalStart: ra.ArrivalWindowStart,
		ArrivalEnd:   ra.ArrivalWindowEnd,
	}
	if a.ArrivalStart.IsZero() {
		a.ArrivalStart = ra.Start
	}
	if a.ArrivalEnd.IsZero() {
		a.ArrivalEnd = ra.End
	}
	return a
}

// CancelAppointment implements domain.CRMGateway
func (c *Client) CancelAppointment(ctx context.Context, id int64) error {
	path := c.crmPath("jpm", "appointments/"+strconv.FormatInt(id, 10)+"/cancel")
	return c.do(ctx, http.MethodPut, path, nil, map[string]string{"reason": "Customer requested via portal"}, nil)
}
