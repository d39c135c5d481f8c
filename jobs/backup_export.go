package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ledgerline/ledgerline/internal/company"
	"github.com/ledgerline/ledgerline/internal/invoices"
	"github.com/ledgerline/ledgerline/report"
)

// BackupRenderer turns HTML into a PDF document.
type BackupRenderer interface {
	RenderHTML(ctx context.Context, html string) ([]byte, error)
}

// BackupDeps collects what the backup export job needs.
type BackupDeps struct {
	Companies *company.Repository
	Invoices  *invoices.Repository
	Renderer  BackupRenderer
	Dir       string
	Logger    *slog.Logger
}

// NewBackupExportHandler renders a company's full invoice list into a
// PDF under the configured backup directory.
func NewBackupExportHandler(deps BackupDeps) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload BackupExportPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}

		comp, err := deps.Companies.Get(ctx, payload.CompanyID)
		if err != nil {
			deps.Logger.Error("backup export: load company", slog.Int64("company_id", payload.CompanyID), slog.Any("error", err))
			return err
		}
		list, err := deps.Invoices.ListInvoices(ctx, invoices.ListInvoicesRequest{
			CompanyID: payload.CompanyID,
			Limit:     10000,
		})
		if err != nil {
			deps.Logger.Error("backup export: list invoices", slog.Any("error", err))
			return err
		}

		html, err := report.RenderBackupHTML(report.BackupDocument{
			Company:     comp,
			Invoices:    list,
			GeneratedAt: time.Now().UTC(),
		})
		if err != nil {
			return err
		}
		pdf, err := deps.Renderer.RenderHTML(ctx, html)
		if err != nil {
			deps.Logger.Error("backup export: render pdf", slog.Any("error", err))
			return err
		}

		if err := os.MkdirAll(deps.Dir, 0o755); err != nil {
			return err
		}
		name := fmt.Sprintf("backup-%d-%s.pdf", payload.CompanyID, time.Now().UTC().Format("20060102-150405"))
		path := filepath.Join(deps.Dir, name)
		if err := os.WriteFile(path, pdf, 0o644); err != nil {
			return err
		}
		deps.Logger.Info("backup exported", slog.Int64("company_id", payload.CompanyID), slog.String("path", path))
		return nil
	}
}
