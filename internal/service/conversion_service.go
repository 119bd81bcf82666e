package service

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/lighthouse-migrator/internal/config"
	"github.com/spec-kit/lighthouse-migrator/internal/domain"
	"github.com/spec-kit/lighthouse-migrator/internal/events"
	"github.com/spec-kit/lighthouse-migrator/internal/repository"
	"github.com/spec-kit/lighthouse-migrator/internal/translate"
)

// ConversionService orchestrates a full migration run: discover tickets,
// translate each into a normalized issue, and write the import document.
type ConversionService struct {
	exports     repository.ExportRepository
	results     repository.ResultRepository
	users       *translate.UserResolver
	mapper      *translate.PriorityStatusMapper
	differ      *translate.VersionHistoryDiffer
	comments    *translate.CommentExtractor
	attachments *translate.AttachmentMigrator
	dispatcher  events.Dispatcher
	logger      *zap.Logger
	project     config.Project
}

// ConversionDependencies bundles collaborators for the conversion service.
type ConversionDependencies struct {
	ExportRepo  repository.ExportRepository
	ResultRepo  repository.ResultRepository
	Users       *translate.UserResolver
	Mapper      *translate.PriorityStatusMapper
	Differ      *translate.VersionHistoryDiffer
	Comments    *translate.CommentExtractor
	Attachments *translate.AttachmentMigrator
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
	Project     config.Project
}

// NewConversionService constructs the service.
func NewConversionService(deps ConversionDependencies) *ConversionService {
	return &ConversionService{
		exports:     deps.ExportRepo,
		results:     deps.ResultRepo,
		users:       deps.Users,
		mapper:      deps.Mapper,
		differ:      deps.Differ,
		comments:    deps.Comments,
		attachments: deps.Attachments,
		dispatcher:  deps.Dispatcher,
		logger:      deps.Logger,
		project:     deps.Project,
	}
}

// Run executes one migration run and returns the result document path.
func (s *ConversionService) Run(ctx context.Context) (string, error) {
	sources, err := s.exports.LoadAll()
	if err != nil {
		return "", err
	}
	s.logger.Info("starting conversion", zap.Int("ticket_files", len(sources)))

	issues := make([]domain.IssueRecord, 0)
	for _, source := range sources {
		for _, record := range source.Records {
			issue := s.convertIssue(ctx, source.Dir, record)
			issues = append(issues, issue)
			s.publish(ctx, events.NewEvent(events.EventIssueConverted, events.IssueConvertedPayload{
				ExternalID:  issue.ExternalID,
				Comments:    len(issue.Comments),
				History:     len(issue.History),
				Attachments: len(issue.Attachments),
			}))
		}
	}

	sort.Slice(issues, func(i, j int) bool {
		return issues[i].ExternalID < issues[j].ExternalID
	})

	doc := domain.ImportDocument{
		Projects: []domain.ProjectEnvelope{{
			Name:        s.project.Name,
			Key:         s.project.Key,
			URL:         s.project.URL,
			Description: s.project.Description,
			Issues:      issues,
		}},
	}

	path, err := s.results.Save(doc)
	if err != nil {
		return "", err
	}

	s.publish(ctx, events.NewEvent(events.EventRunCompleted, events.RunCompletedPayload{
		Issues:     len(issues),
		ResultPath: path,
	}))
	return path, nil
}

// convertIssue runs the fixed field-extraction list for one ticket record.
// Only the attachment step sees the record's directory.
func (s *ConversionService) convertIssue(ctx context.Context, dir string, record domain.TicketRecord) domain.IssueRecord {
	status, ok := s.mapper.Status(record.State)
	if !ok {
		s.publish(ctx, events.NewEvent(events.EventStateUnrecognized, events.StateUnrecognizedPayload{
			TicketNumber: record.Number,
			State:        record.State,
		}))
	}

	return domain.IssueRecord{
		Priority:    s.mapper.Priority(record),
		Description: record.Body,
		Status:      status.Name,
		Resolution:  s.mapper.Resolution(record.State),
		Reporter:    s.users.ResolveID(record.CreatorID),
		IssueType:   "Bug",
		Created:     record.CreatedAt,
		Updated:     record.UpdatedAt,
		Summary:     record.Title,
		Assignee:    s.users.ResolveID(record.AssignedUserID),
		ExternalID:  record.Number,
		Labels:      labelsFromTag(record.Tag),
		Comments:    s.comments.Comments(record),
		History:     s.differ.History(record),
		Attachments: s.attachments.Migrate(ctx, record.Number, record.Attachments, dir),
	}
}

// labelsFromTag turns the single legacy tag string into a label list with
// double quotes stripped.
func labelsFromTag(tag string) []string {
	if tag == "" {
		return []string{}
	}
	return []string{strings.ReplaceAll(tag, `"`, "")}
}

func (s *ConversionService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher != nil {
		s.dispatcher.Publish(ctx, event)
	}
}
