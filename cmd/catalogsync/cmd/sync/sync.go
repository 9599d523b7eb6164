package sync

import (
	"context"
	"io"

	"github.com/maryline/catalogsync"
	"github.com/maryline/catalogsync/cmd/application"
	"github.com/maryline/catalogsync/internal/cmd/output"
	"github.com/maryline/catalogsync/pkg/logging"
)

// ExecuteSync runs one reconciliation and writes its summary to w.
// The summary is written even when the run aborts.
func ExecuteSync(ctx context.Context, app application.Application, w io.Writer, opts []catalogsync.Option) error {
	logger := app.Logger()
	ctx = logging.WithLogger(ctx, logger)

	client, err := app.Client(opts...)
	if err != nil {
		return err
	}
	if len(opts) > 0 {
		// custom clients are not cached by the app
		defer client.Close()
	}

	summary, runErr := client.Sync(ctx)
	if err := output.WriteSummary(w, output.DetectFormat(app.OutputFormat()), summary); err != nil {
		return err
	}
	if runErr != nil {
		return runErr
	}
	if summary.HasFailures() {
		logger.Warn().Int("failed", summary.Totals().Failed).Msg("Sync finished with failures")
	}
	return nil
}
