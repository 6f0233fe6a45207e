package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/you/plumbsvc/domain"
)

const syncPageSize = 200

// SyncServiceImpl implements domain.SyncService. It pages the full customer
// base out of the CRM into the local synced_customers table. The sync lock
// prevents two concurrent runs; everything else is a sequential pass.
type SyncServiceImpl struct {
	gateway      domain.CRMGateway
	customerRepo domain.CustomerRecordRepository
	lock         domain.SyncLock

	mu     sync.Mutex
	status domain.SyncStatus
}

// NewSyncService creates a new customer sync service
func NewSyncService(gateway domain.CRMGateway, customerRepo domain.CustomerRecordRepository, lock domain.SyncLock) *SyncServiceImpl {
	return &SyncServiceImpl{
		gateway:      gateway,
		customerRepo: customerRepo,
		lock:         lock,
	}
}

// Run implements domain.SyncService. Returns domain.ErrSyncInProgress
// immediately when another run holds the lock.
func (s *SyncServiceImpl) Run(ctx context.Context) (int, error) {
	if !s.lock.TryAcquire() {
		return 0, domain.ErrSyncInProgress
	}
	defer s.lock.Release()

	started := time.Now()
	s.setStarted(started)
	log.Info().Msg("customer sync started")

	total := 0
	for pageNum := 1; ; pageNum++ {
		customers, hasMore, err := s.gateway.ListCustomers(ctx, pageNum, syncPageSize)
		if err != nil {
			err = fmt.Errorf("sync page %d: %w", pageNum, err)
			s.setFinished(total, err)
			return total, err
		}

		records := make([]domain.SyncedCustomer, 0, len(customers))
		for _, customer := range customers {
			records = append(records, domain.SyncedCustomer{
				CRMID:    customer.ID,
				Name:     customer.Name,
				Email:    customer.Email,
				Phone:    customer.Phone,
				Active:   customer.Active,
				SyncedAt: started,
			})
		}

		if err := s.customerRepo.UpsertBatch(ctx, records); err != nil {
			err = fmt.Errorf("sync upsert page %d: %w", pageNum, err)
			s.setFinished(total, err)
			return total, err
		}

		total += len(records)
		if !hasMore {
			break
		}
	}

	s.setFinished(total, nil)
	log.Info().Int("customers", total).Dur("took", time.Since(started)).Msg("customer sync finished")
	return total, nil
}

// Status implements domain.SyncService
func (s *SyncServiceImpl) Status() domain.SyncStatus {
	s.mu.Lock()
	status := s.status
	s.mu.Unlock()
	status.Running = s.lock.IsRunning()
	return status
}

// ResetLock implements domain.SyncService. Admin recovery for a run that
// crashed without releasing the lock.
func (s *SyncServiceImpl) ResetLock() {
	log.Warn().Msg("sync lock reset requested")
	s.lock.Reset()
}

func (s *SyncServiceImpl) setStarted(at time.Time) {
	s.mu.Lock()
	s.status.LastStartedAt = &at
	s.status.LastFinishedAt = nil
	s.status.LastError = ""
	s.mu.Unlock()
}

func (s *SyncServiceImpl) setFinished(count int, err error) {
	now := time.Now()
	s.mu.Lock()
	s.status.LastFinishedAt = &now
	s.status.LastCount = count
	if err != nil {
		s.status.LastError = err.Error()
	}
	s.mu.Unlock()
}
