package jobs

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubInspector struct {
	info *asynq.QueueInfo
	err  error
}

func (s *stubInspector) GetQueueInfo(queue string) (*asynq.QueueInfo, error) {
	return s.info, s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHealthWithoutInspectorReportsEmptyQueue(t *testing.T) {
	handler := NewHandler(nil, nil, discardLogger())

	rr := httptest.NewRecorder()
	handler.health(rr, httptest.NewRequest(http.MethodGet, "/jobs/health", nil))

	require.Equal(t, http.StatusOK, rr.Code)

	var status queueHealth
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &status))
	assert.Equal(t, QueueDefault, status.Queue)
	assert.Zero(t, status.Pending)
}

func TestHealthEncodesQueueNameAsJSON(t *testing.T) {
	inspector := &stubInspector{info: &asynq.QueueInfo{Queue: `odd"name`, Pending: 7}}
	handler := NewHandler(inspector, nil, discardLogger())

	rr := httptest.NewRecorder()
	handler.health(rr, httptest.NewRequest(http.MethodGet, "/jobs/health", nil))

	require.Equal(t, http.StatusOK, rr.Code)

	var status queueHealth
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &status))
	assert.Equal(t, `odd"name`, status.Queue)
	assert.Equal(t, 7, status.Pending)
}

func TestHealthReportsInspectorFailure(t *testing.T) {
	inspector := &stubInspector{err: errors.New("redis down")}
	handler := NewHandler(inspector, nil, discardLogger())

	rr := httptest.NewRecorder()
	handler.health(rr, httptest.NewRequest(http.MethodGet, "/jobs/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
