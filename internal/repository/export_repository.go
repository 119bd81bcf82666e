package repository

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/spec-kit/lighthouse-migrator/internal/domain"
	"github.com/spec-kit/lighthouse-migrator/pkg/util"
)

// TicketSource is one discovered ticket file: its parsed records plus the
// directory holding the sibling attachment blobs.
type TicketSource struct {
	Path    string
	Dir     string
	Records []domain.TicketRecord
}

// ExportRepository reads legacy ticket records from an export tree.
type ExportRepository interface {
	LoadAll() ([]TicketSource, error)
}

type exportRepository struct {
	directory string
	logger    *zap.Logger
}

// NewExportRepository constructs a repository rooted at the export directory.
func NewExportRepository(directory string, logger *zap.Logger) ExportRepository {
	return &exportRepository{directory: directory, logger: logger}
}

// LoadAll discovers every tickets/*/ticket.json file under the export
// directory and parses all records. Zero discovered files aborts the run.
func (r *exportRepository) LoadAll() ([]TicketSource, error) {
	pattern := filepath.Join(r.directory, "tickets", "*", "ticket.json")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, util.NewIngestError(pattern, err)
	}
	sort.Strings(files)
	if len(files) == 0 {
		return nil, util.NewExportEmptyError(r.directory)
	}

	sources := make([]TicketSource, 0, len(files))
	for _, path := range files {
		records, err := r.loadFile(path)
		if err != nil {
			return nil, err
		}
		r.logger.Info("loaded ticket file",
			zap.String("path", path),
			zap.Int("records", len(records)))
		sources = append(sources, TicketSource{
			Path:    path,
			Dir:     filepath.Dir(path),
			Records: records,
		})
	}
	return sources, nil
}

// loadFile parses one ticket file. The top-level value maps an arbitrary key
// to a ticket object; every entry converts, enumerated in sorted key order.
func (r *exportRepository) loadFile(path string) ([]domain.TicketRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, util.NewIngestError(path, err)
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, util.NewIngestError(path, err)
	}

	keys := make([]string, 0, len(wrapper))
	for key := range wrapper {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	records := make([]domain.TicketRecord, 0, len(keys))
	for _, key := range keys {
		var raw map[string]any
		if err := json.Unmarshal(wrapper[key], &raw); err != nil {
			return nil, util.NewIngestError(path, err)
		}
		record, err := parseTicket(raw)
		if err != nil {
			return nil, util.NewIngestError(path, err)
		}
		records = append(records, record)
	}
	return records, nil
}
