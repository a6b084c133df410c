package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/hiredeck/hiredeck/internal/analytics"
	"github.com/hiredeck/hiredeck/internal/hdctl/output"
	"github.com/hiredeck/hiredeck/internal/logger"
	"github.com/hiredeck/hiredeck/internal/report"
	"github.com/hiredeck/hiredeck/internal/window"
	"github.com/spf13/cobra"
)

var (
	reportPeriod     string
	reportOwner      string
	reportStart      string
	reportEnd        string
	reportCumulative bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Compute a report straight from the database",
}

var reportDashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "KPI counts with growth against the previous period",
	RunE:  runReportDashboard,
}

var reportOverviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Signup trends, hiring funnel and top companies",
	RunE:  runReportOverview,
}

func init() {
	for _, cmd := range []*cobra.Command{reportDashboardCmd, reportOverviewCmd} {
		cmd.Flags().StringVar(&reportPeriod, "period", "month", "Reporting period (day, week, month, year, all, custom)")
		cmd.Flags().StringVar(&reportOwner, "owner", "", "Scope to one company owner (UUID)")
		cmd.Flags().StringVar(&reportStart, "start", "", "Custom period start (RFC3339)")
		cmd.Flags().StringVar(&reportEnd, "end", "", "Custom period end (RFC3339)")
	}
	reportOverviewCmd.Flags().BoolVar(&reportCumulative, "cumulative", false, "Report funnel stages cumulatively")

	reportCmd.AddCommand(reportDashboardCmd)
	reportCmd.AddCommand(reportOverviewCmd)
}

func buildReportRequest() (report.Request, error) {
	period, err := window.ParsePeriod(reportPeriod)
	if err != nil {
		return report.Request{}, err
	}

	req := report.Request{
		Period:           period,
		Fresh:            true,
		CumulativeFunnel: reportCumulative,
	}

	if reportOwner != "" {
		owner, err := uuid.Parse(reportOwner)
		if err != nil {
			return report.Request{}, fmt.Errorf("invalid owner id: %w", err)
		}
		req.Owner = owner
	}
	if reportStart != "" {
		t, err := time.Parse(time.RFC3339, reportStart)
		if err != nil {
			return report.Request{}, fmt.Errorf("invalid start: %w", err)
		}
		req.CustomStart = &t
	}
	if reportEnd != "" {
		t, err := time.Parse(time.RFC3339, reportEnd)
		if err != nil {
			return report.Request{}, fmt.Errorf("invalid end: %w", err)
		}
		req.CustomEnd = &t
	}

	return req, nil
}

func newAssembler(ctx context.Context) (*report.Assembler, func(), error) {
	pool, st, err := openStore(ctx)
	if err != nil {
		return nil, nil, err
	}

	engine := analytics.NewService(st, logger.WithComponent("analytics"))
	resolver := window.NewResolver(time.Now)
	// No cache: operator reports always read the live data.
	asm := report.NewAssembler(engine, resolver, nil, logger.WithComponent("report"))
	return asm, pool.Close, nil
}

func runReportDashboard(cmd *cobra.Command, args []string) error {
	req, err := buildReportRequest()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.CommandTimeout())
	defer cancel()

	asm, closeStore, err := newAssembler(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	out, err := asm.Dashboard(ctx, req)
	if err != nil {
		return err
	}

	if printer.IsJSON() {
		return printer.JSON(out)
	}

	printer.Header(fmt.Sprintf("Dashboard (%s)", req.Period))
	printer.KeyValue("job seekers", scalarCell(out.JobSeekers.Value, out.JobSeekers.Growth))
	printer.KeyValue("recruiters", scalarCell(out.Recruiters.Value, out.Recruiters.Growth))
	printer.KeyValue("live jobs", scalarCell(out.LiveJobs.Value, out.LiveJobs.Growth))
	printer.KeyValue("applications", scalarCell(out.Applications.Value, out.Applications.Growth))
	printer.KeyValue("revenue", fmt.Sprintf("%.2f", out.Revenue))
	warnDegraded(out.Degraded)
	return nil
}

func runReportOverview(cmd *cobra.Command, args []string) error {
	req, err := buildReportRequest()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.CommandTimeout())
	defer cancel()

	asm, closeStore, err := newAssembler(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	out, err := asm.Overview(ctx, req)
	if err != nil {
		return err
	}

	if printer.IsJSON() {
		return printer.JSON(out)
	}

	printer.Header(fmt.Sprintf("Overview (%s)", req.Period))

	printer.Section("Hiring funnel")
	funnelTable := output.NewTable([]string{"STAGE", "COUNT"}, printer.IsQuiet())
	for _, stage := range out.Funnel {
		funnelTable.Append([]string{stage.Stage, strconv.FormatInt(stage.Count, 10)})
	}
	funnelTable.Render()

	printer.Section("Top companies")
	companyTable := output.NewTable([]string{"COMPANY", "JOBS", "APPLICATIONS"}, printer.IsQuiet())
	for _, rank := range out.TopCompanies {
		companyTable.Append([]string{
			rank.Company,
			strconv.FormatInt(rank.Jobs, 10),
			strconv.FormatInt(rank.Applications, 10),
		})
	}
	companyTable.Render()

	printer.Section("Totals")
	printer.KeyValue("seeker signup buckets", strconv.Itoa(len(out.SeekerSignups)))
	printer.KeyValue("recruiter signup buckets", strconv.Itoa(len(out.RecruiterSignups)))
	printer.KeyValue("revenue", fmt.Sprintf("%.2f", out.Revenue))
	warnDegraded(out.Degraded)
	return nil
}

func scalarCell(value int64, growth float64) string {
	return fmt.Sprintf("%d (%+.1f%%)", value, growth)
}

func warnDegraded(fields []string) {
	for _, f := range fields {
		printer.Warn("metric %q failed and reports a zero value", f)
	}
}
