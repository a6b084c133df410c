package analytics

import (
	"github.com/google/uuid"
)

// Kind names a supported metric. Anything else fails with
// apperror.ErrUnknownMetric.
type Kind string

const (
	KindAccountCount      Kind = "account_count"
	KindLiveJobCount      Kind = "live_job_count"
	KindApplicationCount  Kind = "application_count"
	KindRevenue           Kind = "revenue"
	KindAccountSeries     Kind = "account_series"
	KindJobSeries         Kind = "job_series"
	KindApplicationSeries Kind = "application_series"
	KindTopCompanies      Kind = "top_companies"
	KindFunnel            Kind = "funnel"
)

// Scope narrows an otherwise platform-wide metric to one owner
// (recruiter dashboards). It composes as a pure filter on every kind.
type Scope struct {
	OwnerID uuid.UUID
}

func (s *Scope) ownerID() uuid.UUID {
	if s == nil {
		return uuid.Nil
	}
	return s.OwnerID
}

// Metric is a declarative metric descriptor: kind plus the knobs that
// kind understands.
type Metric struct {
	Kind       Kind       `json:"kind"`
	Role       string     `json:"role,omitempty"`       // account kinds
	Cumulative bool       `json:"cumulative,omitempty"` // funnel
	TopN       int        `json:"top_n,omitempty"`      // ranked kinds
}

// Scalar is a windowed count with its growth against the immediately
// preceding window of equal duration, as a percentage rounded to one
// decimal.
type Scalar struct {
	Value  int64   `json:"value"`
	Growth float64 `json:"growth_pct"`
}

type SeriesPoint struct {
	Bucket string `json:"bucket"`
	Count  int64  `json:"count"`
}

type CompanyRank struct {
	OwnerID      uuid.UUID `json:"owner_id"`
	Company      string    `json:"company"`
	Jobs         int64     `json:"jobs"`
	Applications int64     `json:"applications"`
}

type FunnelStage struct {
	Stage string `json:"stage"`
	Count int64  `json:"count"`
}

// Result carries the output of Aggregate; exactly one field is set,
// matching the metric kind. Empty inputs produce zero values and empty
// slices, never an error.
type Result struct {
	Scalar  *Scalar       `json:"scalar,omitempty"`
	Revenue *float64      `json:"revenue,omitempty"`
	Series  []SeriesPoint `json:"series,omitempty"`
	Ranked  []CompanyRank `json:"ranked,omitempty"`
	Funnel  []FunnelStage `json:"funnel,omitempty"`
}
