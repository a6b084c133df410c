package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockStore is a mock implementation of Store for testing.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) CountAccounts(ctx context.Context, f AccountFilter) (int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStore) ListAccountCreationTimes(ctx context.Context, f AccountFilter) ([]time.Time, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]time.Time), args.Error(1)
}

func (m *MockStore) GetAccount(ctx context.Context, id uuid.UUID) (Account, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(Account), args.Error(1)
}

func (m *MockStore) GetAccounts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]Account, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]Account), args.Error(1)
}

func (m *MockStore) CountJobPostings(ctx context.Context, f JobFilter) (int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStore) ListJobPostings(ctx context.Context, f JobFilter) ([]JobPosting, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]JobPosting), args.Error(1)
}

func (m *MockStore) GetJobPosting(ctx context.Context, id uuid.UUID) (JobPosting, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(JobPosting), args.Error(1)
}

func (m *MockStore) CountApplications(ctx context.Context, f ApplicationFilter) (int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStore) ListApplications(ctx context.Context, f ApplicationFilter) ([]Application, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Application), args.Error(1)
}

func (m *MockStore) GetApplication(ctx context.Context, id uuid.UUID) (Application, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(Application), args.Error(1)
}

func (m *MockStore) UpdateApplicationStatus(ctx context.Context, id uuid.UUID, expected, next string) (Application, error) {
	args := m.Called(ctx, id, expected, next)
	return args.Get(0).(Application), args.Error(1)
}

func (m *MockStore) ListNonCanonicalApplications(ctx context.Context, canonical []string) ([]Application, error) {
	args := m.Called(ctx, canonical)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Application), args.Error(1)
}

func (m *MockStore) SumPayments(ctx context.Context, f PaymentFilter) (float64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockStore) InsertPayment(ctx context.Context, p Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockStore) InsertNotification(ctx context.Context, n Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockStore) ListNotifications(ctx context.Context, recipientID uuid.UUID, limit int) ([]Notification, error) {
	args := m.Called(ctx, recipientID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Notification), args.Error(1)
}
