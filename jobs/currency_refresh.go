package jobs

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/ledgerline/ledgerline/internal/currency"
)

// NewCurrencyRefreshHandler reloads the currency directory cache from
// the database on every run.
func NewCurrencyRefreshHandler(directory *currency.Directory, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		count, err := directory.Refresh(ctx)
		if err != nil {
			logger.Error("currency refresh", slog.Any("error", err))
			return err
		}
		logger.Info("currency directory refreshed", slog.Int("currencies", count))
		return nil
	}
}
