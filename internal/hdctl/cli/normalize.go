package cli

import (
	"context"
	"time"

	"github.com/hiredeck/hiredeck/internal/hdctl/output"
	"github.com/hiredeck/hiredeck/internal/lifecycle"
	"github.com/hiredeck/hiredeck/internal/logger"
	"github.com/hiredeck/hiredeck/internal/notify"
	"github.com/spf13/cobra"
)

var normalizeDryRun bool

var normalizeCmd = &cobra.Command{
	Use:   "normalize-statuses",
	Short: "Rewrite legacy application statuses to canonical labels",
	Long: `Scan applications whose status is outside the canonical label set and
rewrite each one to its canonical equivalent. Rows that changed during
the scan are skipped; unmapped tokens are reported and left untouched.

Safe to re-run: a clean dataset scans nothing.`,
	RunE: runNormalize,
}

func init() {
	normalizeCmd.Flags().BoolVar(&normalizeDryRun, "dry-run", false, "Report what would change without writing")
}

func runNormalize(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.CommandTimeout())
	defer cancel()

	pool, st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	svc := lifecycle.NewService(st, notify.NewStoreEmitter(st, time.Now), logger.WithComponent("normalize"))

	if normalizeDryRun {
		printer.Info("dry run: no rows will be written")
	}

	var bar *output.Progress
	progress := func(done, total int) {
		if bar == nil {
			bar = output.NewProgress(total, "Normalizing statuses",
				output.ProgressWithQuiet(printer.IsQuiet() || printer.IsJSON()))
		}
		bar.Set(done)
	}

	res, err := svc.NormalizeLegacy(ctx, normalizeDryRun, progress)
	if err != nil {
		printer.Error("normalization aborted: %v", err)
		return err
	}
	if bar != nil {
		bar.Finish()
	}

	if printer.IsJSON() {
		return printer.JSON(res)
	}

	if res.Scanned == 0 {
		printer.Success("all application statuses already canonical")
		return nil
	}

	printer.Success("scanned %d legacy rows", res.Scanned)
	printer.KeyValue("updated", itoa(res.Updated))
	printer.KeyValue("skipped", itoa(res.Skipped))
	if res.Unmapped > 0 {
		printer.Warn("%d statuses had no mapping rule and were left untouched", res.Unmapped)
	}
	return nil
}
