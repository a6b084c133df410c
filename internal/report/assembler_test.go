package report

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hiredeck/hiredeck/internal/analytics"
	"github.com/hiredeck/hiredeck/internal/apperror"
	"github.com/hiredeck/hiredeck/internal/lifecycle"
	"github.com/hiredeck/hiredeck/internal/logger"
	"github.com/hiredeck/hiredeck/internal/store"
	"github.com/hiredeck/hiredeck/internal/window"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

// faultStore wraps a Store and fails selected operations.
type faultStore struct {
	store.Store
	failPayments bool
}

func (f *faultStore) SumPayments(ctx context.Context, filter store.PaymentFilter) (float64, error) {
	if f.failPayments {
		return 0, fmt.Errorf("payments table unavailable")
	}
	return f.Store.SumPayments(ctx, filter)
}

func newAssembler(st store.Store) *Assembler {
	engine := analytics.NewService(st, logger.NewTestLogger())
	resolver := window.NewResolver(func() time.Time { return testNow })
	return NewAssembler(engine, resolver, nil, logger.NewTestLogger())
}

func seed(mem *store.Memory) (owner uuid.UUID) {
	owner = uuid.New()
	mem.SeedAccount(store.Account{
		ID:          owner,
		Role:        store.RoleRecruiter,
		CompanyName: "Acme",
		CreatedAt:   testNow.Add(-48 * time.Hour),
		IsActive:    true,
	})
	mem.SeedAccount(store.Account{
		ID:        uuid.New(),
		Role:      store.RoleJobSeeker,
		CreatedAt: testNow.Add(-24 * time.Hour),
		IsActive:  true,
	})

	job := store.JobPosting{
		ID:             uuid.New(),
		OwnerID:        owner,
		Title:          "Backend Engineer",
		Status:         store.JobActive,
		ApprovalStatus: store.ApprovalApproved,
		CreatedAt:      testNow.Add(-36 * time.Hour),
	}
	mem.SeedJobPosting(job)
	mem.SeedApplication(store.Application{
		ID:        uuid.New(),
		JobID:     job.ID,
		Status:    string(lifecycle.StatusNew),
		AppliedAt: testNow.Add(-12 * time.Hour),
	})
	mem.SeedPayment(store.Payment{
		ID:      uuid.New(),
		OwnerID: owner,
		Amount:  350,
		Status:  store.PaymentCompleted,
		PaidAt:  testNow.Add(-6 * time.Hour),
	})
	return owner
}

func TestDashboardHealthy(t *testing.T) {
	mem := store.NewMemory()
	seed(mem)
	asm := newAssembler(mem)

	out, err := asm.Dashboard(context.Background(), Request{Period: window.PeriodMonth})
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}

	if out.JobSeekers.Value != 1 {
		t.Errorf("JobSeekers = %d, want 1", out.JobSeekers.Value)
	}
	if out.Recruiters.Value != 1 {
		t.Errorf("Recruiters = %d, want 1", out.Recruiters.Value)
	}
	if out.LiveJobs.Value != 1 {
		t.Errorf("LiveJobs = %d, want 1", out.LiveJobs.Value)
	}
	if out.Applications.Value != 1 {
		t.Errorf("Applications = %d, want 1", out.Applications.Value)
	}
	if out.Revenue != 350 {
		t.Errorf("Revenue = %v, want 350", out.Revenue)
	}
	if len(out.Degraded) != 0 {
		t.Errorf("Degraded = %v, want empty", out.Degraded)
	}
}

func TestDashboardDegradesPerMetric(t *testing.T) {
	mem := store.NewMemory()
	seed(mem)
	asm := newAssembler(&faultStore{Store: mem, failPayments: true})

	out, err := asm.Dashboard(context.Background(), Request{Period: window.PeriodMonth})
	if err != nil {
		t.Fatalf("one failed metric must not fail the report: %v", err)
	}

	if out.Revenue != 0 {
		t.Errorf("failed revenue should report zero, got %v", out.Revenue)
	}
	if len(out.Degraded) != 1 || out.Degraded[0] != "revenue" {
		t.Errorf("Degraded = %v, want [revenue]", out.Degraded)
	}
	// The healthy metrics still carry real values.
	if out.Applications.Value != 1 {
		t.Errorf("Applications = %d, want 1", out.Applications.Value)
	}
}

func TestDashboardInvalidWindowAbortsWholeReport(t *testing.T) {
	mem := store.NewMemory()
	seed(mem)
	asm := newAssembler(mem)

	start := testNow
	end := testNow.Add(-24 * time.Hour)
	_, err := asm.Dashboard(context.Background(), Request{
		Period:      window.PeriodCustom,
		CustomStart: &start,
		CustomEnd:   &end,
	})
	if !apperror.Is(err, apperror.ErrInvalidRange) {
		t.Fatalf("err = %v, want ErrInvalidRange (window errors are never degraded)", err)
	}
}

func TestOverviewDegradesRevenue(t *testing.T) {
	mem := store.NewMemory()
	seed(mem)
	asm := newAssembler(&faultStore{Store: mem, failPayments: true})

	out, err := asm.Overview(context.Background(), Request{Period: window.PeriodMonth})
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}

	if len(out.Degraded) != 1 || out.Degraded[0] != "revenue" {
		t.Errorf("Degraded = %v, want [revenue]", out.Degraded)
	}
	if len(out.Funnel) == 0 {
		t.Error("funnel should still compute from the applications table")
	}
	if len(out.TopCompanies) != 1 {
		t.Errorf("TopCompanies = %v, want the one seeded company", out.TopCompanies)
	}
}

func TestCompanyReport(t *testing.T) {
	mem := store.NewMemory()
	owner := seed(mem)
	asm := newAssembler(mem)

	out, err := asm.Company(context.Background(), mem, Request{Period: window.PeriodMonth, Owner: owner})
	if err != nil {
		t.Fatalf("Company: %v", err)
	}
	if out.Company != "Acme" {
		t.Errorf("Company = %q, want Acme", out.Company)
	}
	if out.LiveJobs.Value != 1 || out.Applications.Value != 1 {
		t.Errorf("scoped counts = %d jobs / %d apps, want 1/1", out.LiveJobs.Value, out.Applications.Value)
	}
	if out.Revenue != 350 {
		t.Errorf("Revenue = %v, want 350", out.Revenue)
	}
}

func TestCompanyReportUnknownOwner(t *testing.T) {
	mem := store.NewMemory()
	seed(mem)
	asm := newAssembler(mem)

	_, err := asm.Company(context.Background(), mem, Request{Period: window.PeriodMonth, Owner: uuid.New()})
	if !apperror.Is(err, apperror.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
