package services

import "sync"

// SyncLockImpl implements domain.SyncLock as an in-process flag. There is no
// timeout-based auto-release: a crashed sync holds the lock until an admin
// calls the reset endpoint. Injectable so a distributed lock can take its
// place if the deployment ever runs more than one process.
type SyncLockImpl struct {
	mu      sync.Mutex
	running bool
}

// NewSyncLock creates a new sync lock
func NewSyncLock() *SyncLockImpl {
	return &SyncLockImpl{}
}

// TryAcquire implements domain.SyncLock
func (l *SyncLockImpl) TryAcquire() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.running {
		return false
	}
	l.running = true
	return true
}

// Release implements domain.SyncLock
func (l *SyncLockImpl) Release() {
	l.mu.Lock()
	l.running = false
	l.mu.Unlock()
}

// IsRunning implements domain.SyncLock
func (l *SyncLockImpl) IsRunning() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

// Reset implements domain.SyncLock. Identical to Release but kept as a
// separate operation because it is an admin-facing recovery action.
func (l *SyncLockImpl) Reset() {
	l.Release()
}
