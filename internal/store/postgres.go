package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hiredeck/hiredeck/internal/apperror"
	"github.com/hiredeck/hiredeck/internal/window"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres implements Store on top of a pgx connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// cond accumulates WHERE clauses and their positional args.
type cond struct {
	clauses []string
	args    []any
}

func (c *cond) add(clause string, arg any) {
	c.args = append(c.args, arg)
	c.clauses = append(c.clauses, fmt.Sprintf(clause, len(c.args)))
}

func (c *cond) where() string {
	if len(c.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.clauses, " AND ")
}

// addWindow applies the half-open [start, end) filter. A zero window
// means the read is not time-scoped at all.
func addWindow(c *cond, col string, w window.Window) {
	if w.End.IsZero() {
		return
	}
	if w.Bounded() {
		c.add(col+" >= $%d", w.Start)
	}
	c.add(col+" < $%d", w.End)
}

func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return apperror.ErrNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return apperror.Wrap(err, apperror.ErrTimeout)
	default:
		return err
	}
}

func (p *Postgres) CountAccounts(ctx context.Context, f AccountFilter) (int64, error) {
	c := &cond{}
	if f.Role != "" {
		c.add("role = $%d", string(f.Role))
	}
	if f.ActiveOnly {
		c.add("is_active = $%d", true)
	}
	addWindow(c, "created_at", f.Window)

	var n int64
	err := p.pool.QueryRow(ctx, "SELECT COUNT(*) FROM accounts"+c.where(), c.args...).Scan(&n)
	return n, mapErr(err)
}

func (p *Postgres) ListAccountCreationTimes(ctx context.Context, f AccountFilter) ([]time.Time, error) {
	c := &cond{}
	if f.Role != "" {
		c.add("role = $%d", string(f.Role))
	}
	if f.ActiveOnly {
		c.add("is_active = $%d", true)
	}
	addWindow(c, "created_at", f.Window)

	rows, err := p.pool.Query(ctx, "SELECT created_at FROM accounts"+c.where()+" ORDER BY created_at", c.args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var times []time.Time
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, mapErr(err)
		}
		times = append(times, t)
	}
	return times, mapErr(rows.Err())
}

func (p *Postgres) GetAccount(ctx context.Context, id uuid.UUID) (Account, error) {
	var a Account
	err := p.pool.QueryRow(ctx,
		"SELECT id, role, name, COALESCE(company_name, ''), created_at, is_active FROM accounts WHERE id = $1", id,
	).Scan(&a.ID, &a.Role, &a.Name, &a.CompanyName, &a.CreatedAt, &a.IsActive)
	return a, mapErr(err)
}

func (p *Postgres) GetAccounts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]Account, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]Account{}, nil
	}
	rows, err := p.pool.Query(ctx,
		"SELECT id, role, name, COALESCE(company_name, ''), created_at, is_active FROM accounts WHERE id = ANY($1)", ids)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	accounts := make(map[uuid.UUID]Account, len(ids))
	for rows.Next() {
		var a Account
		if err := rows.Scan(&a.ID, &a.Role, &a.Name, &a.CompanyName, &a.CreatedAt, &a.IsActive); err != nil {
			return nil, mapErr(err)
		}
		accounts[a.ID] = a
	}
	return accounts, mapErr(rows.Err())
}

func jobCond(f JobFilter) *cond {
	c := &cond{}
	if f.OwnerID != uuid.Nil {
		c.add("owner_id = $%d", f.OwnerID)
	}
	if f.LiveOnly {
		c.add("status = $%d", string(JobActive))
		c.add("approval_status = $%d", string(ApprovalApproved))
	}
	if f.Industry != "" {
		c.add("industry = $%d", f.Industry)
	}
	addWindow(c, "created_at", f.Window)
	return c
}

func (p *Postgres) CountJobPostings(ctx context.Context, f JobFilter) (int64, error) {
	c := jobCond(f)
	var n int64
	err := p.pool.QueryRow(ctx, "SELECT COUNT(*) FROM job_postings"+c.where(), c.args...).Scan(&n)
	return n, mapErr(err)
}

func (p *Postgres) ListJobPostings(ctx context.Context, f JobFilter) ([]JobPosting, error) {
	c := jobCond(f)
	rows, err := p.pool.Query(ctx,
		"SELECT id, owner_id, title, status, approval_status, industry, created_at FROM job_postings"+
			c.where()+" ORDER BY created_at", c.args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var jobs []JobPosting
	for rows.Next() {
		var j JobPosting
		if err := rows.Scan(&j.ID, &j.OwnerID, &j.Title, &j.Status, &j.ApprovalStatus, &j.Industry, &j.CreatedAt); err != nil {
			return nil, mapErr(err)
		}
		jobs = append(jobs, j)
	}
	return jobs, mapErr(rows.Err())
}

func (p *Postgres) GetJobPosting(ctx context.Context, id uuid.UUID) (JobPosting, error) {
	var j JobPosting
	err := p.pool.QueryRow(ctx,
		"SELECT id, owner_id, title, status, approval_status, industry, created_at FROM job_postings WHERE id = $1", id,
	).Scan(&j.ID, &j.OwnerID, &j.Title, &j.Status, &j.ApprovalStatus, &j.Industry, &j.CreatedAt)
	return j, mapErr(err)
}

// applicationCond joins through job_postings when an owner scope is
// present; applications carry no owner column themselves.
func applicationCond(f ApplicationFilter) (*cond, string) {
	c := &cond{}
	join := ""
	if f.OwnerID != uuid.Nil {
		join = " JOIN job_postings j ON j.id = a.job_id"
		c.add("j.owner_id = $%d", f.OwnerID)
	}
	if f.JobID != uuid.Nil {
		c.add("a.job_id = $%d", f.JobID)
	}
	if f.Status != "" {
		c.add("a.status = $%d", f.Status)
	}
	addWindow(c, "a.applied_at", f.Window)
	return c, join
}

func (p *Postgres) CountApplications(ctx context.Context, f ApplicationFilter) (int64, error) {
	c, join := applicationCond(f)
	var n int64
	err := p.pool.QueryRow(ctx, "SELECT COUNT(*) FROM applications a"+join+c.where(), c.args...).Scan(&n)
	return n, mapErr(err)
}

func (p *Postgres) ListApplications(ctx context.Context, f ApplicationFilter) ([]Application, error) {
	c, join := applicationCond(f)
	rows, err := p.pool.Query(ctx,
		"SELECT a.id, a.job_id, a.applicant_id, a.status, a.applied_at FROM applications a"+
			join+c.where()+" ORDER BY a.applied_at", c.args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()
	return scanApplications(rows)
}

func scanApplications(rows pgx.Rows) ([]Application, error) {
	var apps []Application
	for rows.Next() {
		var a Application
		if err := rows.Scan(&a.ID, &a.JobID, &a.ApplicantID, &a.Status, &a.AppliedAt); err != nil {
			return nil, mapErr(err)
		}
		apps = append(apps, a)
	}
	return apps, mapErr(rows.Err())
}

func (p *Postgres) GetApplication(ctx context.Context, id uuid.UUID) (Application, error) {
	var a Application
	err := p.pool.QueryRow(ctx,
		"SELECT id, job_id, applicant_id, status, applied_at FROM applications WHERE id = $1", id,
	).Scan(&a.ID, &a.JobID, &a.ApplicantID, &a.Status, &a.AppliedAt)
	return a, mapErr(err)
}

// UpdateApplicationStatus is the single-row CAS write. The status match
// in the UPDATE predicate is what makes concurrent transitions
// last-precondition-wins instead of last-write-wins.
func (p *Postgres) UpdateApplicationStatus(ctx context.Context, id uuid.UUID, expected, next string) (Application, error) {
	var a Application
	err := p.pool.QueryRow(ctx,
		`UPDATE applications SET status = $3
		 WHERE id = $1 AND status = $2
		 RETURNING id, job_id, applicant_id, status, applied_at`,
		id, expected, next,
	).Scan(&a.ID, &a.JobID, &a.ApplicantID, &a.Status, &a.AppliedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		// Distinguish a missing row from a lost race.
		if _, getErr := p.GetApplication(ctx, id); getErr != nil {
			return Application{}, getErr
		}
		return Application{}, apperror.ErrStaleState
	}
	return a, mapErr(err)
}

func (p *Postgres) ListNonCanonicalApplications(ctx context.Context, canonical []string) ([]Application, error) {
	rows, err := p.pool.Query(ctx,
		"SELECT id, job_id, applicant_id, status, applied_at FROM applications WHERE status != ALL($1) ORDER BY applied_at",
		canonical)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()
	return scanApplications(rows)
}

func (p *Postgres) SumPayments(ctx context.Context, f PaymentFilter) (float64, error) {
	c := &cond{}
	if f.OwnerID != uuid.Nil {
		c.add("owner_id = $%d", f.OwnerID)
	}
	if f.Status != "" {
		c.add("status = $%d", string(f.Status))
	}
	addWindow(c, "paid_at", f.Window)

	var sum float64
	err := p.pool.QueryRow(ctx, "SELECT COALESCE(SUM(amount), 0) FROM payments"+c.where(), c.args...).Scan(&sum)
	return sum, mapErr(err)
}

func (p *Postgres) InsertPayment(ctx context.Context, pay Payment) error {
	_, err := p.pool.Exec(ctx,
		"INSERT INTO payments (id, owner_id, amount, status, paid_at) VALUES ($1, $2, $3, $4, $5)",
		pay.ID, pay.OwnerID, pay.Amount, string(pay.Status), pay.PaidAt)
	return mapErr(err)
}

func (p *Postgres) InsertNotification(ctx context.Context, n Notification) error {
	_, err := p.pool.Exec(ctx,
		"INSERT INTO notifications (id, recipient_id, type, message, link, created_at) VALUES ($1, $2, $3, $4, $5, $6)",
		n.ID, n.RecipientID, n.Type, n.Message, n.Link, n.CreatedAt)
	return mapErr(err)
}

func (p *Postgres) ListNotifications(ctx context.Context, recipientID uuid.UUID, limit int) ([]Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := p.pool.Query(ctx,
		"SELECT id, recipient_id, type, message, COALESCE(link, ''), created_at, read_at FROM notifications WHERE recipient_id = $1 ORDER BY created_at DESC LIMIT $2",
		recipientID, limit)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var ns []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.Type, &n.Message, &n.Link, &n.CreatedAt, &n.ReadAt); err != nil {
			return nil, mapErr(err)
		}
		ns = append(ns, n)
	}
	return ns, mapErr(rows.Err())
}
