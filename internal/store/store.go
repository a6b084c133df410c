package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store is the record collaborator consumed by the analytics engine and
// the lifecycle service. The only write the core performs against
// operational data is the single-row status CAS in
// UpdateApplicationStatus; everything else is filtered reads plus
// notification/payment inserts fed by collaborators.
type Store interface {
	// Accounts.
	CountAccounts(ctx context.Context, f AccountFilter) (int64, error)
	ListAccountCreationTimes(ctx context.Context, f AccountFilter) ([]time.Time, error)
	GetAccount(ctx context.Context, id uuid.UUID) (Account, error)
	GetAccounts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]Account, error)

	// Job postings.
	CountJobPostings(ctx context.Context, f JobFilter) (int64, error)
	ListJobPostings(ctx context.Context, f JobFilter) ([]JobPosting, error)
	GetJobPosting(ctx context.Context, id uuid.UUID) (JobPosting, error)

	// Applications.
	CountApplications(ctx context.Context, f ApplicationFilter) (int64, error)
	ListApplications(ctx context.Context, f ApplicationFilter) ([]Application, error)
	GetApplication(ctx context.Context, id uuid.UUID) (Application, error)

	// UpdateApplicationStatus swaps the status of one application if and
	// only if its current status equals expected. Returns
	// apperror.ErrStaleState when the precondition no longer holds and
	// apperror.ErrNotFound when the row does not exist.
	UpdateApplicationStatus(ctx context.Context, id uuid.UUID, expected, next string) (Application, error)

	// ListNonCanonicalApplications returns applications whose status is
	// outside the given canonical set. Feeds the one-time legacy
	// normalization pass.
	ListNonCanonicalApplications(ctx context.Context, canonical []string) ([]Application, error)

	// Payments.
	SumPayments(ctx context.Context, f PaymentFilter) (float64, error)
	InsertPayment(ctx context.Context, p Payment) error

	// Notifications.
	InsertNotification(ctx context.Context, n Notification) error
	ListNotifications(ctx context.Context, recipientID uuid.UUID, limit int) ([]Notification, error)
}
