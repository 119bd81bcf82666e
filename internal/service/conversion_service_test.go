package service

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/lighthouse-migrator/internal/config"
	"github.com/spec-kit/lighthouse-migrator/internal/domain"
	"github.com/spec-kit/lighthouse-migrator/internal/events"
	"github.com/spec-kit/lighthouse-migrator/internal/observability"
	"github.com/spec-kit/lighthouse-migrator/internal/repository"
	"github.com/spec-kit/lighthouse-migrator/internal/translate"
	"github.com/spec-kit/lighthouse-migrator/internal/worker"
	"github.com/spec-kit/lighthouse-migrator/pkg/util"
)

type stubUploader struct {
	fail bool
}

func (u *stubUploader) Upload(_ context.Context, _ []byte, filename, _ string) (string, error) {
	if u.fail {
		return "", errors.New("simulated outage")
	}
	return "https://bucket.example.com/" + filename, nil
}

type testHarness struct {
	service   *ConversionService
	metrics   *observability.Metrics
	resultDir string
}

func newTestHarness(t *testing.T, exportDir string, uploader translate.Uploader) *testHarness {
	t.Helper()
	logger := zap.NewNop()
	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()
	report := NewReportService(dispatcher, logger, metrics)
	report.RegisterHandlers()

	users, err := translate.NewUserResolver(map[int64]string{
		100: "ann.lee",
		200: "ben.ray",
	}, dispatcher)
	require.NoError(t, err)
	mapper := translate.NewPriorityStatusMapper(nil)

	resultDir := t.TempDir()
	service := NewConversionService(ConversionDependencies{
		ExportRepo:  repository.NewExportRepository(exportDir, logger),
		ResultRepo:  repository.NewResultRepository(config.ResultConfig{Directory: resultDir, Filename: "result.json"}, logger),
		Users:       users,
		Mapper:      mapper,
		Differ:      translate.NewVersionHistoryDiffer(users, mapper, dispatcher),
		Comments:    translate.NewCommentExtractor(users, "https://github.com/org/repo"),
		Attachments: translate.NewAttachmentMigrator(users, uploader, worker.NewUploadPool(2), dispatcher, 0),
		Dispatcher:  dispatcher,
		Logger:      logger,
		Project: config.Project{
			Name:        "test",
			Key:         "TST",
			URL:         "www.tester.com",
			Description: "best app ever",
		},
	})
	return &testHarness{service: service, metrics: metrics, resultDir: resultDir}
}

func writeTicket(t *testing.T, root, dir, content string) string {
	t.Helper()
	ticketDir := filepath.Join(root, "tickets", dir)
	require.NoError(t, os.MkdirAll(ticketDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(ticketDir, "ticket.json"), []byte(content), 0o644))
	return ticketDir
}

func runAndDecode(t *testing.T, h *testHarness) domain.ImportDocument {
	t.Helper()
	path, err := h.service.Run(context.Background())
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc domain.ImportDocument
	require.NoError(t, json.Unmarshal(data, &doc))
	return doc
}

func TestRunMinimalTicket(t *testing.T) {
	root := t.TempDir()
	writeTicket(t, root, "12", `{
	  "ticket": {
	    "number": 12,
	    "title": "Minor glitch",
	    "body": "Just a glitch.",
	    "state": "new",
	    "importance": 3,
	    "creator_id": 100,
	    "created_at": "2011-01-01T00:00:00Z",
	    "updated_at": "2011-01-01T00:00:00Z",
	    "versions": [
	      {"version": 1, "user_name": "Ann Lee", "created_at": "2011-01-01T00:00:00Z", "body": "Just a glitch.", "diffable_attributes": {}}
	    ]
	  }
	}`)
	harness := newTestHarness(t, root, &stubUploader{})

	doc := runAndDecode(t, harness)
	require.Len(t, doc.Projects, 1)
	project := doc.Projects[0]
	assert.Equal(t, "test", project.Name)
	assert.Equal(t, "TST", project.Key)

	require.Len(t, project.Issues, 1)
	issue := project.Issues[0]
	assert.Equal(t, "Trivial", issue.Priority)
	assert.Equal(t, "Open", issue.Status)
	assert.Nil(t, issue.Resolution)
	assert.Equal(t, "ann.lee", issue.Reporter)
	assert.Equal(t, "Bug", issue.IssueType)
	assert.Equal(t, 12, issue.ExternalID)
	assert.Equal(t, "Minor glitch", issue.Summary)
	assert.Empty(t, issue.Comments)
	assert.Empty(t, issue.History)
	assert.Empty(t, issue.Attachments)
	assert.Empty(t, issue.Labels)

	assert.Equal(t, int64(1), harness.metrics.Get(MetricIssuesConverted))
}

func TestRunEmptyCollectionsSerializeAsArrays(t *testing.T) {
	root := t.TempDir()
	writeTicket(t, root, "12", `{"ticket": {"number": 12, "state": "new"}}`)
	harness := newTestHarness(t, root, &stubUploader{})

	path, err := harness.service.Run(context.Background())
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	raw := string(data)
	assert.Contains(t, raw, `"comments":[]`)
	assert.Contains(t, raw, `"history":[]`)
	assert.Contains(t, raw, `"attachments":[]`)
	assert.Contains(t, raw, `"labels":[]`)
	assert.Contains(t, raw, `"resolution":null`)
}

func TestRunSortsIssuesByExternalID(t *testing.T) {
	root := t.TempDir()
	writeTicket(t, root, "30", `{"ticket": {"number": 30, "state": "new"}}`)
	writeTicket(t, root, "4", `{"ticket": {"number": 4, "state": "new"}}`)
	harness := newTestHarness(t, root, &stubUploader{})

	doc := runAndDecode(t, harness)
	require.Len(t, doc.Projects[0].Issues, 2)
	assert.Equal(t, 4, doc.Projects[0].Issues[0].ExternalID)
	assert.Equal(t, 30, doc.Projects[0].Issues[1].ExternalID)
}

func TestRunFullTicket(t *testing.T) {
	root := t.TempDir()
	dir := writeTicket(t, root, "77", `{
	  "ticket": {
	    "number": 77,
	    "title": "Importer hangs",
	    "body": "Importer never finishes.",
	    "state": "resolved",
	    "importance_name": "High",
	    "creator_id": 100,
	    "assigned_user_id": 200,
	    "tag": "\"importer\"",
	    "created_at": "2011-02-01T00:00:00Z",
	    "updated_at": "2011-02-10T00:00:00Z",
	    "versions": [
	      {"version": 1, "user_name": "Ann Lee", "created_at": "2011-02-01T00:00:00Z", "body": "Importer never finishes.", "diffable_attributes": {}},
	      {"version": 2, "user_name": "Ben Ray", "created_at": "2011-02-02T00:00:00Z", "body": "confirmed on 2.0", "diffable_attributes": {}},
	      {"version": 3, "user_name": "Ben Ray", "created_at": "2011-02-10T00:00:00Z", "state": "resolved", "diffable_attributes": {"state": "new"}}
	    ],
	    "attachments": [
	      {"attachment": {"filename": "dump.txt", "content_type": "text/plain", "uploader_id": 100, "created_at": "2011-02-03T00:00:00Z", "url": "http://lh.example.com/dump.txt"}}
	    ]
	  }
	}`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dump.txt"), []byte("stack"), 0o644))
	harness := newTestHarness(t, root, &stubUploader{})

	doc := runAndDecode(t, harness)
	require.Len(t, doc.Projects[0].Issues, 1)
	issue := doc.Projects[0].Issues[0]

	assert.Equal(t, "Major", issue.Priority)
	assert.Equal(t, "Closed", issue.Status)
	require.NotNil(t, issue.Resolution)
	assert.Equal(t, "Fixed", *issue.Resolution)
	assert.Equal(t, "ann.lee", issue.Reporter)
	assert.Equal(t, "ben.ray", issue.Assignee)
	assert.Equal(t, []string{"importer"}, issue.Labels)

	require.Len(t, issue.Comments, 1)
	assert.Equal(t, "confirmed on 2.0", issue.Comments[0].Body)
	assert.Equal(t, "ben.ray", issue.Comments[0].Author)

	require.Len(t, issue.History, 1)
	require.Len(t, issue.History[0].Items, 2)
	assert.Equal(t, "status", issue.History[0].Items[0].Field)
	assert.Equal(t, "resolution", issue.History[0].Items[1].Field)

	require.Len(t, issue.Attachments, 1)
	require.NotNil(t, issue.Attachments[0].URI)
	assert.Equal(t, "https://bucket.example.com/dump.txt", *issue.Attachments[0].URI)
	assert.Equal(t, "ann.lee", issue.Attachments[0].Attacher)
}

func TestRunUploadFailureDoesNotAbort(t *testing.T) {
	root := t.TempDir()
	dir := writeTicket(t, root, "5", `{
	  "ticket": {
	    "number": 5,
	    "state": "new",
	    "attachments": [
	      {"attachment": {"filename": "a.txt", "content_type": "text/plain", "url": "http://lh.example.com/a.txt"}}
	    ]
	  }
	}`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("x"), 0o644))
	harness := newTestHarness(t, root, &stubUploader{fail: true})

	doc := runAndDecode(t, harness)
	require.Len(t, doc.Projects[0].Issues, 1)
	require.Len(t, doc.Projects[0].Issues[0].Attachments, 1)
	assert.Nil(t, doc.Projects[0].Issues[0].Attachments[0].URI)
	assert.Equal(t, int64(1), harness.metrics.Get(MetricUploadFailures))
}

func TestRunUnknownStateLeavesStatusEmpty(t *testing.T) {
	root := t.TempDir()
	writeTicket(t, root, "9", `{"ticket": {"number": 9, "state": "wontfix"}}`)
	harness := newTestHarness(t, root, &stubUploader{})

	doc := runAndDecode(t, harness)
	issue := doc.Projects[0].Issues[0]
	assert.Empty(t, issue.Status)
	assert.Nil(t, issue.Resolution)
	assert.Equal(t, int64(1), harness.metrics.Get(MetricUnknownStates))
}

func TestRunNoTicketsFails(t *testing.T) {
	harness := newTestHarness(t, t.TempDir(), &stubUploader{})

	_, err := harness.service.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, "EXPORT_EMPTY", util.ErrorCode(err))
}

func TestLabelsFromTag(t *testing.T) {
	assert.Equal(t, []string{}, labelsFromTag(""))
	assert.Equal(t, []string{"crash"}, labelsFromTag(`"crash"`))
	assert.Equal(t, []string{"ui polish"}, labelsFromTag("ui polish"))
}
