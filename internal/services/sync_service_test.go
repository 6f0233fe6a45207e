package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/you/plumbsvc/domain"
	"github.com/you/plumbsvc/internal/mocks"
)

func TestSyncServiceImpl_Run_PagesUntilDone(t *testing.T) {
	gateway := mocks.NewMockCRMGateway()
	gateway.ListCustomersFunc = func(ctx context.Context, page, pageSize int) ([]*domain.Customer, bool, error) {
		switch page {
		case 1:
			return []*domain.Customer{
				{ID: 1, Name: "Ann", Active: true},
				{ID: 2, Name: "Bob", Active: true},
			}, true, nil
		case 2:
			return []*domain.Customer{{ID: 3, Name: "Cleo", Active: false}}, false, nil
		default:
			t.Fatalf("unexpected page %d", page)
			return nil, false, nil
		}
	}

	customerRepo := mocks.NewMockCustomerRecordRepository()
	var upserted []domain.SyncedCustomer
	customerRepo.UpsertBatchFunc = func(ctx context.Context, records []domain.SyncedCustomer) error {
		upserted = append(upserted, records...)
		return nil
	}

	svc := NewSyncService(gateway, customerRepo, NewSyncLock())

	count, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if count != 3 || len(upserted) != 3 {
		t.Errorf("expected 3 synced customers, got count=%d upserted=%d", count, len(upserted))
	}

	status := svc.Status()
	if status.Running {
		t.Error("status still running after completion")
	}
	if status.LastCount != 3 || status.LastError != "" {
		t.Errorf("unexpected status: %+v", status)
	}
}

func TestSyncServiceImpl_Run_RejectsConcurrentRun(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var startedOnce sync.Once

	gateway := mocks.NewMockCRMGateway()
	gateway.ListCustomersFunc = func(ctx context.Context, page, pageSize int) ([]*domain.Customer, bool, error) {
		startedOnce.Do(func() { close(started) })
		<-release
		return nil, false, nil
	}

	svc := NewSyncService(gateway, mocks.NewMockCustomerRecordRepository(), NewSyncLock())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if _, err := svc.Run(context.Background()); err != nil {
			t.Errorf("first run: %v", err)
		}
	}()

	<-started
	if !svc.Status().Running {
		t.Error("status should report running while the first run is in flight")
	}

	// Second run must bail out immediately, not queue.
	if _, err := svc.Run(context.Background()); !errors.Is(err, domain.ErrSyncInProgress) {
		t.Fatalf("expected ErrSyncInProgress, got %v", err)
	}

	close(release)
	wg.Wait()

	// After completion a new run is possible again.
	if _, err := svc.Run(context.Background()); err != nil {
		t.Fatalf("run after completion: %v", err)
	}
}

func TestSyncServiceImpl_Run_ReleasesLockOnError(t *testing.T) {
	gateway := mocks.NewMockCRMGateway()
	gateway.ListCustomersFunc = func(ctx context.Context, page, pageSize int) ([]*domain.Customer, bool, error) {
		return nil, false, errors.New("upstream down")
	}

	svc := NewSyncService(gateway, mocks.NewMockCustomerRecordRepository(), NewSyncLock())

	if _, err := svc.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if svc.Status().Running {
		t.Error("lock held after failed run")
	}
	if svc.Status().LastError == "" {
		t.Error("failure not recorded in status")
	}

	if _, err := svc.Run(context.Background()); errors.Is(err, domain.ErrSyncInProgress) {
		t.Error("failed run left the lock acquired")
	}
}

func TestSyncServiceImpl_ResetLock(t *testing.T) {
	lock := NewSyncLock()
	svc := NewSyncService(mocks.NewMockCRMGateway(), mocks.NewMockCustomerRecordRepository(), lock)

	// Simulate a wedged run that never released.
	if !lock.TryAcquire() {
		t.Fatal("could not acquire fresh lock")
	}
	if _, err := svc.Run(context.Background()); !errors.Is(err, domain.ErrSyncInProgress) {
		t.Fatalf("expected ErrSyncInProgress, got %v", err)
	}

	svc.ResetLock()
	if _, err := svc.Run(context.Background()); err != nil {
		t.Fatalf("run after reset: %v", err)
	}
}

func TestSyncLockImpl(t *testing.T) {
	lock := NewSyncLock()

	if lock.IsRunning() {
		t.Error("fresh lock reports running")
	}
	if !lock.TryAcquire() {
		t.Fatal("first acquire failed")
	}
	if lock.TryAcquire() {
		t.Error("second acquire succeeded while held")
	}
	if !lock.IsRunning() {
		t.Error("held lock reports not running")
	}

	lock.Release()
	if lock.IsRunning() {
		t.Error("released lock reports running")
	}
	if !lock.TryAcquire() {
		t.Error("acquire after release failed")
	}
}
