package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/lighthouse-migrator/internal/events"
	"github.com/spec-kit/lighthouse-migrator/internal/observability"
)

// Counter names kept by the report service.
const (
	MetricIssuesConverted = "issues_converted"
	MetricUploads         = "uploads"
	MetricUploadFailures  = "upload_failures"
	MetricUnmappedUsers   = "unmapped_users"
	MetricUnknownStates   = "unknown_states"
)

// ReportService surfaces migration events in the run log and keeps counters
// for the end-of-run summary. Recoverable failures are warned, never fatal.
type ReportService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// NewReportService creates the service.
func NewReportService(dispatcher events.Dispatcher, logger *zap.Logger, metrics *observability.Metrics) *ReportService {
	return &ReportService{
		dispatcher: dispatcher,
		logger:     logger,
		metrics:    metrics,
	}
}

// RegisterHandlers subscribes to events.
func (r *ReportService) RegisterHandlers() {
	if r.dispatcher == nil {
		return
	}
	r.dispatcher.Subscribe(events.EventIssueConverted, r.handleIssueConverted)
	r.dispatcher.Subscribe(events.EventAttachmentUploaded, r.handleAttachmentUploaded)
	r.dispatcher.Subscribe(events.EventAttachmentUploadFailed, r.handleAttachmentUploadFailed)
	r.dispatcher.Subscribe(events.EventUserUnmapped, r.handleUserUnmapped)
	r.dispatcher.Subscribe(events.EventStateUnrecognized, r.handleStateUnrecognized)
	r.dispatcher.Subscribe(events.EventRunCompleted, r.handleRunCompleted)
}

func (r *ReportService) handleIssueConverted(_ context.Context, event events.Event) {
	r.metrics.Inc(MetricIssuesConverted)
	r.logger.Info("issue converted", zap.Any("payload", event.Payload))
}

func (r *ReportService) handleAttachmentUploaded(_ context.Context, event events.Event) {
	r.metrics.Inc(MetricUploads)
	r.logger.Debug("attachment uploaded", zap.Any("payload", event.Payload))
}

func (r *ReportService) handleAttachmentUploadFailed(_ context.Context, event events.Event) {
	r.metrics.Inc(MetricUploadFailures)
	r.logger.Warn("attachment upload failed; keeping entry without uri",
		zap.Any("payload", event.Payload))
}

func (r *ReportService) handleUserUnmapped(_ context.Context, event events.Event) {
	r.metrics.Inc(MetricUnmappedUsers)
	r.logger.Warn("legacy user id has no mapping; resolved to empty username",
		zap.Any("payload", event.Payload))
}

func (r *ReportService) handleStateUnrecognized(_ context.Context, event events.Event) {
	r.metrics.Inc(MetricUnknownStates)
	r.logger.Warn("unrecognized lifecycle state; status left empty",
		zap.Any("payload", event.Payload))
}

func (r *ReportService) handleRunCompleted(_ context.Context, event events.Event) {
	r.logger.Info("run completed",
		zap.Any("payload", event.Payload),
		zap.Any("counters", r.metrics.Snapshot()))
}
