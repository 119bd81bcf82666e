package translate

import (
	"strings"

	"github.com/spec-kit/lighthouse-migrator/internal/domain"
)

// commitMarker flags auto-generated commit-linkage comments from the source
// system.
const commitMarker = "(from ["

const changesetsSegment = "/changesets/"

// CommentExtractor selects version snapshots that represent free-text
// comments and reformats commit-originated ones.
type CommentExtractor struct {
	users *UserResolver

	// repositoryURL, when set, enables rewriting commit comments to link at
	// the hosted commit page.
	repositoryURL string
}

// NewCommentExtractor constructs the extractor. An empty repository URL
// disables the commit-link rewrite.
func NewCommentExtractor(users *UserResolver, repositoryURL string) *CommentExtractor {
	return &CommentExtractor{users: users, repositoryURL: repositoryURL}
}

// Comments returns the surviving comments in version order. The creation
// version never yields a comment, and a field-edit version only does when it
// is commit-originated.
func (e *CommentExtractor) Comments(ticket domain.TicketRecord) []domain.Comment {
	comments := make([]domain.Comment, 0)
	for _, version := range ticket.Versions {
		if version.Body == "" {
			continue
		}
		commitOriginated := strings.Contains(version.Body, commitMarker)
		if version.IsCreation() || (!commitOriginated && version.HasChanges()) {
			continue
		}

		body := version.Body
		if commitOriginated && e.repositoryURL != "" {
			body = body + "\n\"View on Github\":" + e.commitLink(version.Body)
		}

		comments = append(comments, domain.Comment{
			Body:    body,
			Author:  e.users.ResolveName(version.UserName),
			Created: version.CreatedAt,
		})
	}
	return comments
}

// commitLink builds the hosted commit URL from the changeset suffix of the
// comment body. A body without the changesets segment links its full text.
func (e *CommentExtractor) commitLink(body string) string {
	suffix := body
	if idx := strings.LastIndex(body, changesetsSegment); idx >= 0 {
		suffix = body[idx+len(changesetsSegment):]
	}
	return e.repositoryURL + "/commit/" + suffix
}
