// Package report composes aggregation engine outputs into the response
// shapes the dashboards consume. It knows which metrics each named
// report needs, not how they are computed.
package report

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hiredeck/hiredeck/internal/analytics"
	"github.com/hiredeck/hiredeck/internal/metrics"
	"github.com/hiredeck/hiredeck/internal/store"
	"github.com/hiredeck/hiredeck/internal/tracing"
	"github.com/hiredeck/hiredeck/internal/window"
)

// Request carries the period/scope parameters shared by every report
// endpoint.
type Request struct {
	Period           window.Period
	CustomStart      *time.Time
	CustomEnd        *time.Time
	Owner            uuid.UUID // uuid.Nil = platform-wide
	Fresh            bool      // skip the cache
	CumulativeFunnel bool
}

type Assembler struct {
	engine   *analytics.Service
	resolver *window.Resolver
	cache    *analytics.Cache
	log      *slog.Logger
}

func NewAssembler(engine *analytics.Service, resolver *window.Resolver, cache *analytics.Cache, log *slog.Logger) *Assembler {
	if log == nil {
		log = slog.Default()
	}
	return &Assembler{engine: engine, resolver: resolver, cache: cache, log: log}
}

// DashboardKPIs backs the KPI cards at the top of the admin and
// recruiter dashboards.
type DashboardKPIs struct {
	Period       window.Period    `json:"period"`
	JobSeekers   analytics.Scalar `json:"job_seekers"`
	Recruiters   analytics.Scalar `json:"recruiters"`
	LiveJobs     analytics.Scalar `json:"live_jobs"`
	Applications analytics.Scalar `json:"applications"`
	Revenue      float64          `json:"revenue"`

	// Degraded lists the fields whose metric failed and came back as a
	// zero value, so callers can tell "zero" from "unavailable".
	Degraded []string `json:"degraded,omitempty"`
}

// AnalyticsOverview backs the charts page: growth series, funnel and
// leaderboard.
type AnalyticsOverview struct {
	Period           window.Period           `json:"period"`
	SeekerSignups    []analytics.SeriesPoint `json:"seeker_signups"`
	RecruiterSignups []analytics.SeriesPoint `json:"recruiter_signups"`
	JobPostings      []analytics.SeriesPoint `json:"job_postings"`
	Funnel           []analytics.FunnelStage `json:"funnel"`
	TopCompanies     []analytics.CompanyRank `json:"top_companies"`
	Revenue          float64                 `json:"revenue"`
	Degraded         []string                `json:"degraded,omitempty"`
}

// CompanyDetailReport is the per-company drill-down.
type CompanyDetailReport struct {
	OwnerID      uuid.UUID               `json:"owner_id"`
	Company      string                  `json:"company"`
	Period       window.Period           `json:"period"`
	LiveJobs     analytics.Scalar        `json:"live_jobs"`
	Applications analytics.Scalar        `json:"applications"`
	Activity     []analytics.SeriesPoint `json:"activity"`
	Funnel       []analytics.FunnelStage `json:"funnel"`
	Revenue      float64                 `json:"revenue"`
	Degraded     []string                `json:"degraded,omitempty"`
}

// degrader collects the names of failed metrics while letting the rest
// of the report assemble. Window validation errors never reach it; they
// abort the report before any metric runs.
type degrader struct {
	log    *slog.Logger
	report string
	fields []string
}

func (d *degrader) fail(field string, err error) {
	d.log.Error("report metric degraded", "report", d.report, "field", field, "error", err)
	d.fields = append(d.fields, field)
}

func (d *degrader) finish(start time.Time) []string {
	outcome := "ok"
	if len(d.fields) > 0 {
		outcome = "degraded"
	}
	metrics.ReportsComputedTotal.WithLabelValues(d.report, outcome).Inc()
	metrics.ReportComputeDuration.WithLabelValues(d.report).Observe(time.Since(start).Seconds())
	return d.fields
}

func (a *Assembler) resolve(req Request) (window.Window, *analytics.Scope, error) {
	w, err := a.resolver.Resolve(req.Period, req.CustomStart, req.CustomEnd)
	if err != nil {
		return window.Window{}, nil, err
	}
	var scope *analytics.Scope
	if req.Owner != uuid.Nil {
		scope = &analytics.Scope{OwnerID: req.Owner}
	}
	return w, scope, nil
}

func (a *Assembler) Dashboard(ctx context.Context, req Request) (DashboardKPIs, error) {
	w, scope, err := a.resolve(req)
	if err != nil {
		return DashboardKPIs{}, err
	}

	key := analytics.ReportKey("dashboard", string(req.Period), req.Owner)
	var out DashboardKPIs
	if req.Fresh {
		a.cache.Bypass()
	} else if a.cache.Get(ctx, key, &out) {
		return out, nil
	}

	ctx, span := tracing.StartReportSpan(ctx, "dashboard", string(req.Period))
	defer span.End()

	start := time.Now()
	d := &degrader{log: a.log, report: "dashboard"}
	out = DashboardKPIs{Period: req.Period}

	if out.JobSeekers, err = a.engine.CountAccounts(ctx, w, store.RoleJobSeeker); err != nil {
		d.fail("job_seekers", err)
	}
	if out.Recruiters, err = a.engine.CountAccounts(ctx, w, store.RoleRecruiter); err != nil {
		d.fail("recruiters", err)
	}
	if out.LiveJobs, err = a.engine.CountLiveJobs(ctx, w, scope); err != nil {
		d.fail("live_jobs", err)
	}
	if out.Applications, err = a.engine.CountApplications(ctx, w, scope); err != nil {
		d.fail("applications", err)
	}
	if out.Revenue, err = a.engine.Revenue(ctx, w, scope); err != nil {
		d.fail("revenue", err)
	}

	out.Degraded = d.finish(start)
	if len(out.Degraded) == 0 {
		a.cache.Set(ctx, key, out)
	}
	return out, nil
}

func (a *Assembler) Overview(ctx context.Context, req Request) (AnalyticsOverview, error) {
	w, scope, err := a.resolve(req)
	if err != nil {
		return AnalyticsOverview{}, err
	}

	key := analytics.ReportKey("overview", string(req.Period), req.Owner)
	var out AnalyticsOverview
	if req.Fresh {
		a.cache.Bypass()
	} else if a.cache.Get(ctx, key, &out) {
		return out, nil
	}

	ctx, span := tracing.StartReportSpan(ctx, "overview", string(req.Period))
	defer span.End()

	start := time.Now()
	d := &degrader{log: a.log, report: "overview"}
	out = AnalyticsOverview{Period: req.Period}

	if out.SeekerSignups, err = a.engine.AccountSeries(ctx, w, store.RoleJobSeeker); err != nil {
		d.fail("seeker_signups", err)
	}
	if out.RecruiterSignups, err = a.engine.AccountSeries(ctx, w, store.RoleRecruiter); err != nil {
		d.fail("recruiter_signups", err)
	}
	if out.JobPostings, err = a.engine.JobSeries(ctx, w, scope); err != nil {
		d.fail("job_postings", err)
	}
	if out.Funnel, err = a.engine.Funnel(ctx, w, scope, req.CumulativeFunnel); err != nil {
		d.fail("funnel", err)
	}
	if out.TopCompanies, err = a.engine.TopCompanies(ctx, w, analytics.DefaultTopN); err != nil {
		d.fail("top_companies", err)
	}
	if out.Revenue, err = a.engine.Revenue(ctx, w, scope); err != nil {
		d.fail("revenue", err)
	}

	out.Degraded = d.finish(start)
	if len(out.Degraded) == 0 {
		a.cache.Set(ctx, key, out)
	}
	return out, nil
}

// Company assembles the drill-down for one owner. The owner's account
// must exist; everything below it degrades per metric.
func (a *Assembler) Company(ctx context.Context, st store.Store, req Request) (CompanyDetailReport, error) {
	w, _, err := a.resolve(req)
	if err != nil {
		return CompanyDetailReport{}, err
	}

	acct, err := st.GetAccount(ctx, req.Owner)
	if err != nil {
		return CompanyDetailReport{}, err
	}

	ctx, span := tracing.StartReportSpan(ctx, "company_detail", string(req.Period))
	defer span.End()

	scope := &analytics.Scope{OwnerID: req.Owner}
	start := time.Now()
	d := &degrader{log: a.log, report: "company_detail"}
	out := CompanyDetailReport{
		OwnerID: acct.ID,
		Company: acct.CompanyName,
		Period:  req.Period,
	}

	if out.LiveJobs, err = a.engine.CountLiveJobs(ctx, w, scope); err != nil {
		d.fail("live_jobs", err)
	}
	if out.Applications, err = a.engine.CountApplications(ctx, w, scope); err != nil {
		d.fail("applications", err)
	}
	if out.Activity, err = a.engine.ApplicationSeries(ctx, w, scope); err != nil {
		d.fail("activity", err)
	}
	if out.Funnel, err = a.engine.Funnel(ctx, w, scope, req.CumulativeFunnel); err != nil {
		d.fail("funnel", err)
	}
	if out.Revenue, err = a.engine.Revenue(ctx, w, scope); err != nil {
		d.fail("revenue", err)
	}

	out.Degraded = d.finish(start)
	return out, nil
}
