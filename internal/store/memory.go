package store

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hiredeck/hiredeck/internal/apperror"
)

// Memory is an in-process Store used by tests and by hdctl dry runs.
// The mutex around UpdateApplicationStatus gives it the same atomic
// single-record CAS semantics as the SQL implementation.
type Memory struct {
	mu            sync.RWMutex
	accounts      map[uuid.UUID]Account
	jobs          map[uuid.UUID]JobPosting
	applications  map[uuid.UUID]Application
	payments      []Payment
	notifications []Notification
}

func NewMemory() *Memory {
	return &Memory{
		accounts:     make(map[uuid.UUID]Account),
		jobs:         make(map[uuid.UUID]JobPosting),
		applications: make(map[uuid.UUID]Application),
	}
}

func (m *Memory) SeedAccount(a Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[a.ID] = a
}

func (m *Memory) SeedJobPosting(j JobPosting) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs[j.ID] = j
}

func (m *Memory) SeedApplication(a Application) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.applications[a.ID] = a
}

func (m *Memory) SeedPayment(p Payment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments = append(m.payments, p)
}

func (m *Memory) matchAccount(a Account, f AccountFilter) bool {
	if f.Role != "" && a.Role != f.Role {
		return false
	}
	if f.ActiveOnly && !a.IsActive {
		return false
	}
	if !f.Window.End.IsZero() && !f.Window.Contains(a.CreatedAt) {
		return false
	}
	return true
}

func (m *Memory) CountAccounts(_ context.Context, f AccountFilter) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var n int64
	for _, a := range m.accounts {
		if m.matchAccount(a, f) {
			n++
		}
	}
	return n, nil
}

func (m *Memory) ListAccountCreationTimes(_ context.Context, f AccountFilter) ([]time.Time, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var times []time.Time
	for _, a := range m.accounts {
		if m.matchAccount(a, f) {
			times = append(times, a.CreatedAt)
		}
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
	return times, nil
}

func (m *Memory) GetAccount(_ context.Context, id uuid.UUID) (Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.accounts[id]
	if !ok {
		return Account{}, apperror.ErrNotFound
	}
	return a, nil
}

func (m *Memory) GetAccounts(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[uuid.UUID]Account, len(ids))
	for _, id := range ids {
		if a, ok := m.accounts[id]; ok {
			out[id] = a
		}
	}
	return out, nil
}

func (m *Memory) matchJob(j JobPosting, f JobFilter) bool {
	if f.OwnerID != uuid.Nil && j.OwnerID != f.OwnerID {
		return false
	}
	if f.LiveOnly && !j.Live() {
		return false
	}
	if f.Industry != "" && j.Industry != f.Industry {
		return false
	}
	if !f.Window.End.IsZero() && !f.Window.Contains(j.CreatedAt) {
		return false
	}
	return true
}

func (m *Memory) CountJobPostings(_ context.Context, f JobFilter) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var n int64
	for _, j := range m.jobs {
		if m.matchJob(j, f) {
			n++
		}
	}
	return n, nil
}

func (m *Memory) ListJobPostings(_ context.Context, f JobFilter) ([]JobPosting, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var jobs []JobPosting
	for _, j := range m.jobs {
		if m.matchJob(j, f) {
			jobs = append(jobs, j)
		}
	}
	sort.Slice(jobs, func(i, k int) bool { return jobs[i].CreatedAt.Before(jobs[k].CreatedAt) })
	return jobs, nil
}

func (m *Memory) GetJobPosting(_ context.Context, id uuid.UUID) (JobPosting, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	j, ok := m.jobs[id]
	if !ok {
		return JobPosting{}, apperror.ErrNotFound
	}
	return j, nil
}

func (m *Memory) matchApplication(a Application, f ApplicationFilter) bool {
	if f.OwnerID != uuid.Nil {
		j, ok := m.jobs[a.JobID]
		if !ok || j.OwnerID != f.OwnerID {
			return false
		}
	}
	if f.JobID != uuid.Nil && a.JobID != f.JobID {
		return false
	}
	if f.Status != "" && a.Status != f.Status {
		return false
	}
	if !f.Window.End.IsZero() && !f.Window.Contains(a.AppliedAt) {
		return false
	}
	return true
}

func (m *Memory) CountApplications(_ context.Context, f ApplicationFilter) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var n int64
	for _, a := range m.applications {
		if m.matchApplication(a, f) {
			n++
		}
	}
	return n, nil
}

func (m *Memory) ListApplications(_ context.Context, f ApplicationFilter) ([]Application, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var apps []Application
	for _, a := range m.applications {
		if m.matchApplication(a, f) {
			apps = append(apps, a)
		}
	}
	sort.Slice(apps, func(i, j int) bool { return apps[i].AppliedAt.Before(apps[j].AppliedAt) })
	return apps, nil
}

func (m *Memory) GetApplication(_ context.Context, id uuid.UUID) (Application, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.applications[id]
	if !ok {
		return Application{}, apperror.ErrNotFound
	}
	return a, nil
}

func (m *Memory) UpdateApplicationStatus(_ context.Context, id uuid.UUID, expected, next string) (Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.applications[id]
	if !ok {
		return Application{}, apperror.ErrNotFound
	}
	if a.Status != expected {
		return Application{}, apperror.ErrStaleState
	}
	a.Status = next
	m.applications[id] = a
	return a, nil
}

func (m *Memory) ListNonCanonicalApplications(_ context.Context, canonical []string) ([]Application, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var apps []Application
	for _, a := range m.applications {
		if !slices.Contains(canonical, a.Status) {
			apps = append(apps, a)
		}
	}
	sort.Slice(apps, func(i, j int) bool { return apps[i].AppliedAt.Before(apps[j].AppliedAt) })
	return apps, nil
}

func (m *Memory) SumPayments(_ context.Context, f PaymentFilter) (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var sum float64
	for _, p := range m.payments {
		if f.OwnerID != uuid.Nil && p.OwnerID != f.OwnerID {
			continue
		}
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		if !f.Window.End.IsZero() && !f.Window.Contains(p.PaidAt) {
			continue
		}
		sum += p.Amount
	}
	return sum, nil
}

func (m *Memory) InsertPayment(_ context.Context, p Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments = append(m.payments, p)
	return nil
}

func (m *Memory) InsertNotification(_ context.Context, n Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifications = append(m.notifications, n)
	return nil
}

func (m *Memory) ListNotifications(_ context.Context, recipientID uuid.UUID, limit int) ([]Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if limit <= 0 {
		limit = 50
	}
	var ns []Notification
	for i := len(m.notifications) - 1; i >= 0 && len(ns) < limit; i-- {
		if m.notifications[i].RecipientID == recipientID {
			ns = append(ns, m.notifications[i])
		}
	}
	return ns, nil
}
