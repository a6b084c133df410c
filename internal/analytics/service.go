package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/hiredeck/hiredeck/internal/apperror"
	"github.com/hiredeck/hiredeck/internal/lifecycle"
	"github.com/hiredeck/hiredeck/internal/store"
	"github.com/hiredeck/hiredeck/internal/window"
)

const DefaultTopN = 5

// Service computes KPI scalars, trend series, leaderboards and funnels
// over the record store, constrained by a resolved window and an
// optional owner scope. It performs no writes and holds no state, so
// concurrent calls are safe.
type Service struct {
	store store.Store
	log   *slog.Logger
}

func NewService(st store.Store, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{store: st, log: log}
}

// Aggregate dispatches a declarative metric descriptor. Typed methods
// below do the work; this entry point exists for callers that take the
// metric from a request.
func (s *Service) Aggregate(ctx context.Context, m Metric, w window.Window, scope *Scope) (Result, error) {
	if err := w.Validate(); err != nil {
		return Result{}, err
	}

	switch m.Kind {
	case KindAccountCount:
		sc, err := s.CountAccounts(ctx, w, store.Role(m.Role))
		return Result{Scalar: &sc}, err
	case KindLiveJobCount:
		sc, err := s.CountLiveJobs(ctx, w, scope)
		return Result{Scalar: &sc}, err
	case KindApplicationCount:
		sc, err := s.CountApplications(ctx, w, scope)
		return Result{Scalar: &sc}, err
	case KindRevenue:
		rev, err := s.Revenue(ctx, w, scope)
		return Result{Revenue: &rev}, err
	case KindAccountSeries:
		series, err := s.AccountSeries(ctx, w, store.Role(m.Role))
		return Result{Series: series}, err
	case KindJobSeries:
		series, err := s.JobSeries(ctx, w, scope)
		return Result{Series: series}, err
	case KindApplicationSeries:
		series, err := s.ApplicationSeries(ctx, w, scope)
		return Result{Series: series}, err
	case KindTopCompanies:
		ranked, err := s.TopCompanies(ctx, w, m.TopN)
		return Result{Ranked: ranked}, err
	case KindFunnel:
		funnel, err := s.Funnel(ctx, w, scope, m.Cumulative)
		return Result{Funnel: funnel}, err
	default:
		return Result{}, apperror.Wrap(fmt.Errorf("metric kind %q", m.Kind), apperror.ErrUnknownMetric)
	}
}

// growth computes (cur − prev) / max(prev, 1) × 100 rounded to one
// decimal. Unbounded windows have no previous window; their growth is
// reported as zero.
func growth(cur, prev int64) float64 {
	denom := prev
	if denom < 1 {
		denom = 1
	}
	pct := float64(cur-prev) / float64(denom) * 100
	return math.Round(pct*10) / 10
}

func (s *Service) CountAccounts(ctx context.Context, w window.Window, role store.Role) (Scalar, error) {
	if err := w.Validate(); err != nil {
		return Scalar{}, err
	}

	cur, err := s.store.CountAccounts(ctx, store.AccountFilter{Role: role, Window: w})
	if err != nil {
		return Scalar{}, fmt.Errorf("count accounts: %w", err)
	}

	sc := Scalar{Value: cur}
	if prev, ok := w.Previous(); ok {
		prevCount, err := s.store.CountAccounts(ctx, store.AccountFilter{Role: role, Window: prev})
		if err != nil {
			return Scalar{}, fmt.Errorf("count accounts previous window: %w", err)
		}
		sc.Growth = growth(cur, prevCount)
	}
	return sc, nil
}

func (s *Service) CountLiveJobs(ctx context.Context, w window.Window, scope *Scope) (Scalar, error) {
	if err := w.Validate(); err != nil {
		return Scalar{}, err
	}

	f := store.JobFilter{OwnerID: scope.ownerID(), LiveOnly: true, Window: w}
	cur, err := s.store.CountJobPostings(ctx, f)
	if err != nil {
		return Scalar{}, fmt.Errorf("count live jobs: %w", err)
	}

	sc := Scalar{Value: cur}
	if prev, ok := w.Previous(); ok {
		f.Window = prev
		prevCount, err := s.store.CountJobPostings(ctx, f)
		if err != nil {
			return Scalar{}, fmt.Errorf("count live jobs previous window: %w", err)
		}
		sc.Growth = growth(cur, prevCount)
	}
	return sc, nil
}

func (s *Service) CountApplications(ctx context.Context, w window.Window, scope *Scope) (Scalar, error) {
	if err := w.Validate(); err != nil {
		return Scalar{}, err
	}

	f := store.ApplicationFilter{OwnerID: scope.ownerID(), Window: w}
	cur, err := s.store.CountApplications(ctx, f)
	if err != nil {
		return Scalar{}, fmt.Errorf("count applications: %w", err)
	}

	sc := Scalar{Value: cur}
	if prev, ok := w.Previous(); ok {
		f.Window = prev
		prevCount, err := s.store.CountApplications(ctx, f)
		if err != nil {
			return Scalar{}, fmt.Errorf("count applications previous window: %w", err)
		}
		sc.Growth = growth(cur, prevCount)
	}
	return sc, nil
}

// Revenue sums completed payments inside the window. A window with no
// completed payments is exactly zero.
func (s *Service) Revenue(ctx context.Context, w window.Window, scope *Scope) (float64, error) {
	if err := w.Validate(); err != nil {
		return 0, err
	}

	sum, err := s.store.SumPayments(ctx, store.PaymentFilter{
		OwnerID: scope.ownerID(),
		Status:  store.PaymentCompleted,
		Window:  w,
	})
	if err != nil {
		return 0, fmt.Errorf("sum payments: %w", err)
	}
	return sum, nil
}

// series buckets a sorted timestamp list, padding every bucket in range
// with a zero so charts have no gaps. Each record lands in exactly one
// bucket. A bounded window with no records still emits every bucket at
// zero; an unbounded window starts at the earliest record, so with no
// records it has no range to pad and comes back empty.
func series(w window.Window, times []time.Time) []SeriesPoint {
	from := w.Start
	if !w.Bounded() {
		if len(times) == 0 {
			return []SeriesPoint{}
		}
		from = times[0]
	}

	counts := make(map[string]int64, len(times))
	for _, t := range times {
		if !w.Contains(t) {
			continue
		}
		counts[w.BucketLabel(t)]++
	}

	starts := w.BucketStarts(from)
	points := make([]SeriesPoint, 0, len(starts))
	for _, start := range starts {
		label := w.BucketLabel(start)
		points = append(points, SeriesPoint{Bucket: label, Count: counts[label]})
	}
	return points
}

func (s *Service) AccountSeries(ctx context.Context, w window.Window, role store.Role) ([]SeriesPoint, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}

	times, err := s.store.ListAccountCreationTimes(ctx, store.AccountFilter{Role: role, Window: w})
	if err != nil {
		return nil, fmt.Errorf("list account creation times: %w", err)
	}
	return series(w, times), nil
}

func (s *Service) JobSeries(ctx context.Context, w window.Window, scope *Scope) ([]SeriesPoint, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}

	jobs, err := s.store.ListJobPostings(ctx, store.JobFilter{OwnerID: scope.ownerID(), Window: w})
	if err != nil {
		return nil, fmt.Errorf("list job postings: %w", err)
	}
	times := make([]time.Time, len(jobs))
	for i, j := range jobs {
		times[i] = j.CreatedAt
	}
	return series(w, times), nil
}

func (s *Service) ApplicationSeries(ctx context.Context, w window.Window, scope *Scope) ([]SeriesPoint, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}

	apps, err := s.store.ListApplications(ctx, store.ApplicationFilter{OwnerID: scope.ownerID(), Window: w})
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	times := make([]time.Time, len(apps))
	for i, a := range apps {
		times[i] = a.AppliedAt
	}
	return series(w, times), nil
}

// TopCompanies ranks companies by job postings created in the window,
// tie-broken by application count descending. Owners with no postings
// in window simply don't appear, and owners whose account lacks a
// company profile are skipped rather than rendered as blanks.
func (s *Service) TopCompanies(ctx context.Context, w window.Window, n int) ([]CompanyRank, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	if n <= 0 {
		n = DefaultTopN
	}

	jobs, err := s.store.ListJobPostings(ctx, store.JobFilter{Window: w})
	if err != nil {
		return nil, fmt.Errorf("list job postings: %w", err)
	}
	if len(jobs) == 0 {
		return []CompanyRank{}, nil
	}

	jobOwner := make(map[uuid.UUID]uuid.UUID, len(jobs))
	jobsByOwner := make(map[uuid.UUID]int64)
	for _, j := range jobs {
		jobOwner[j.ID] = j.OwnerID
		jobsByOwner[j.OwnerID]++
	}

	apps, err := s.store.ListApplications(ctx, store.ApplicationFilter{Window: w})
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	appsByOwner := make(map[uuid.UUID]int64)
	for _, a := range apps {
		if owner, ok := jobOwner[a.JobID]; ok {
			appsByOwner[owner]++
		}
	}

	ownerIDs := make([]uuid.UUID, 0, len(jobsByOwner))
	for id := range jobsByOwner {
		ownerIDs = append(ownerIDs, id)
	}
	accounts, err := s.store.GetAccounts(ctx, ownerIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve company accounts: %w", err)
	}

	ranks := make([]CompanyRank, 0, len(ownerIDs))
	for _, id := range ownerIDs {
		acct, ok := accounts[id]
		if !ok || acct.CompanyName == "" {
			s.log.Debug("leaderboard owner without company profile skipped", "owner_id", id.String())
			continue
		}
		ranks = append(ranks, CompanyRank{
			OwnerID:      id,
			Company:      acct.CompanyName,
			Jobs:         jobsByOwner[id],
			Applications: appsByOwner[id],
		})
	}

	sort.Slice(ranks, func(i, j int) bool {
		if ranks[i].Jobs != ranks[j].Jobs {
			return ranks[i].Jobs > ranks[j].Jobs
		}
		if ranks[i].Applications != ranks[j].Applications {
			return ranks[i].Applications > ranks[j].Applications
		}
		return ranks[i].Company < ranks[j].Company
	})

	if len(ranks) > n {
		ranks = ranks[:n]
	}
	return ranks, nil
}

// Funnel counts applications per lifecycle stage inside the window.
// Default semantics are exact-stage: an application counts only for the
// status it currently holds. Cumulative mode reports, for each stage,
// the applications at that stage or any later one.
func (s *Service) Funnel(ctx context.Context, w window.Window, scope *Scope, cumulative bool) ([]FunnelStage, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}

	stages := lifecycle.FunnelStages
	exact := make([]int64, len(stages))
	for i, stage := range stages {
		n, err := s.store.CountApplications(ctx, store.ApplicationFilter{
			OwnerID: scope.ownerID(),
			Window:  w,
			Status:  string(stage),
		})
		if err != nil {
			return nil, fmt.Errorf("count funnel stage %s: %w", stage, err)
		}
		exact[i] = n
	}

	out := make([]FunnelStage, len(stages))
	for i, stage := range stages {
		count := exact[i]
		if cumulative {
			count = 0
			for j := i; j < len(exact); j++ {
				count += exact[j]
			}
		}
		out[i] = FunnelStage{Stage: string(stage), Count: count}
	}
	return out, nil
}
