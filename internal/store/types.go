package store

import (
	"time"

	"github.com/google/uuid"
	"github.com/hiredeck/hiredeck/internal/window"
)

type Role string

const (
	RoleJobSeeker  Role = "job_seeker"
	RoleRecruiter  Role = "recruiter"
	RoleTeamMember Role = "team_member"
	RoleAdmin      Role = "admin"
)

// Account is a platform user. CompanyName is set for recruiter accounts
// only; it backs the company leaderboard join.
type Account struct {
	ID          uuid.UUID `json:"id"`
	Role        Role      `json:"role"`
	Name        string    `json:"name"`
	CompanyName string    `json:"company_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	IsActive    bool      `json:"is_active"`
}

type JobStatus string

const (
	JobPending JobStatus = "pending"
	JobActive  JobStatus = "active"
	JobPaused  JobStatus = "paused"
	JobClosed  JobStatus = "closed"
	JobExpired JobStatus = "expired"
	JobRejected JobStatus = "rejected"
)

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

type JobPosting struct {
	ID             uuid.UUID      `json:"id"`
	OwnerID        uuid.UUID      `json:"owner_id"`
	Title          string         `json:"title"`
	Status         JobStatus      `json:"status"`
	ApprovalStatus ApprovalStatus `json:"approval_status"`
	Industry       string         `json:"industry"`
	CreatedAt      time.Time      `json:"created_at"`
}

// Live reports whether the posting counts as an active job: visible to
// seekers and approved by an admin.
func (j JobPosting) Live() bool {
	return j.Status == JobActive && j.ApprovalStatus == ApprovalApproved
}

// Application status is a plain string at the store layer. The lifecycle
// package owns the canonical label set; the store never interprets it
// beyond equality in the CAS update.
type Application struct {
	ID          uuid.UUID `json:"id"`
	JobID       uuid.UUID `json:"job_id"`
	ApplicantID uuid.UUID `json:"applicant_id"`
	Status      string    `json:"status"`
	AppliedAt   time.Time `json:"applied_at"`
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

type Payment struct {
	ID      uuid.UUID     `json:"id"`
	OwnerID uuid.UUID     `json:"owner_id"`
	Amount  float64       `json:"amount"`
	Status  PaymentStatus `json:"status"`
	PaidAt  time.Time     `json:"paid_at"`
}

type Notification struct {
	ID          uuid.UUID  `json:"id"`
	RecipientID uuid.UUID  `json:"recipient_id"`
	Type        string     `json:"type"`
	Message     string     `json:"message"`
	Link        string     `json:"link,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
}

// AccountFilter scopes account reads. A zero Window leaves the creation
// time unconstrained; Window.Start zero means no lower bound.
type AccountFilter struct {
	Role       Role
	Window     window.Window
	ActiveOnly bool
}

// JobFilter scopes job posting reads. A zero OwnerID means platform-wide.
type JobFilter struct {
	OwnerID  uuid.UUID
	Window   window.Window
	LiveOnly bool
	Industry string
}

// ApplicationFilter scopes application reads. OwnerID filters through
// the owning job posting (recruiter-level dashboards).
type ApplicationFilter struct {
	OwnerID uuid.UUID
	JobID   uuid.UUID
	Window  window.Window
	Status  string
}

type PaymentFilter struct {
	OwnerID uuid.UUID
	Window  window.Window
	Status  PaymentStatus
}
