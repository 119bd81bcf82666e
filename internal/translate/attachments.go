package translate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spec-kit/lighthouse-migrator/internal/domain"
	"github.com/spec-kit/lighthouse-migrator/internal/events"
	"github.com/spec-kit/lighthouse-migrator/internal/worker"
)

// Uploader stores attachment bytes durably and returns a public URI.
type Uploader interface {
	Upload(ctx context.Context, data []byte, filename, contentType string) (string, error)
}

// AttachmentMigrator uploads each attachment's bytes to durable storage and
// builds its target-format metadata, deduplicating filenames per issue.
type AttachmentMigrator struct {
	users      *UserResolver
	uploader   Uploader
	pool       *worker.UploadPool
	dispatcher events.Dispatcher
	timeout    time.Duration
}

// NewAttachmentMigrator constructs the migrator. The timeout bounds each
// individual upload; zero disables it.
func NewAttachmentMigrator(users *UserResolver, uploader Uploader, pool *worker.UploadPool, dispatcher events.Dispatcher, timeout time.Duration) *AttachmentMigrator {
	return &AttachmentMigrator{
		users:      users,
		uploader:   uploader,
		pool:       pool,
		dispatcher: dispatcher,
		timeout:    timeout,
	}
}

// Migrate uploads the ticket's attachments from dir and returns their
// metadata in input order. A failed read or upload keeps the entry with a
// nil URI instead of aborting the ticket. Name deduplication runs against
// already-emitted names in submission order: a colliding filename gets its
// zero-based input index as a prefix.
func (m *AttachmentMigrator) Migrate(ctx context.Context, ticketNumber int, refs []domain.AttachmentRef, dir string) []domain.AttachmentMeta {
	metas := make([]domain.AttachmentMeta, 0, len(refs))
	if len(refs) == 0 {
		return metas
	}

	uris := make([]*string, len(refs))
	failures := make([]error, len(refs))
	m.pool.Run(ctx, len(refs), func(ctx context.Context, i int) {
		uri, err := m.uploadOne(ctx, refs[i], dir)
		if err != nil {
			failures[i] = err
			return
		}
		uris[i] = &uri
	})

	used := make(map[string]bool, len(refs))
	for i, ref := range refs {
		name := ref.Filename
		if used[name] {
			name = fmt.Sprintf("%d_%s", i, ref.Filename)
		}
		used[name] = true

		if failures[i] != nil {
			m.publish(ctx, events.NewEvent(events.EventAttachmentUploadFailed, events.AttachmentUploadFailedPayload{
				TicketNumber: ticketNumber,
				Filename:     ref.Filename,
				Reason:       failures[i].Error(),
			}))
		} else {
			m.publish(ctx, events.NewEvent(events.EventAttachmentUploaded, events.AttachmentUploadedPayload{
				TicketNumber: ticketNumber,
				Name:         name,
				URI:          *uris[i],
			}))
		}

		metas = append(metas, domain.AttachmentMeta{
			Name:        name,
			Attacher:    m.users.ResolveID(ref.UploaderID),
			Created:     ref.CreatedAt,
			URI:         uris[i],
			Description: "original lighthouse url: " + ref.SourceURL,
		})
	}
	return metas
}

func (m *AttachmentMigrator) uploadOne(ctx context.Context, ref domain.AttachmentRef, dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, ref.Filename))
	if err != nil {
		return "", err
	}
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}
	return m.uploader.Upload(ctx, data, ref.Filename, ref.ContentType)
}

func (m *AttachmentMigrator) publish(ctx context.Context, event events.Event) {
	if m.dispatcher != nil {
		m.dispatcher.Publish(ctx, event)
	}
}
