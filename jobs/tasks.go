package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the queue every background job runs on.
	QueueDefault = "default"
	// TaskCurrencyRefresh reloads the cached currency directory.
	TaskCurrencyRefresh = "currency:refresh"
	// TaskBackupExport renders a company's invoice archive to PDF.
	TaskBackupExport = "backup:export"
)

// BackupExportPayload identifies the company whose archive to render.
type BackupExportPayload struct {
	CompanyID int64 `json:"company_id"`
}

// NewCurrencyRefreshTask builds the directory refresh task. It carries
// no payload.
func NewCurrencyRefreshTask() *asynq.Task {
	return asynq.NewTask(TaskCurrencyRefresh, nil)
}

// NewBackupExportTask builds a backup export task for one company.
func NewBackupExportTask(payload BackupExportPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskBackupExport, data), nil
}
