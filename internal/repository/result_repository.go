package repository

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/lighthouse-migrator/internal/config"
	"github.com/spec-kit/lighthouse-migrator/internal/domain"
	"github.com/spec-kit/lighthouse-migrator/pkg/util"
)

const defaultResultSuffix = "_lighthouse_export_jira_converter.json"

// ResultRepository persists the output import document.
type ResultRepository interface {
	Save(doc domain.ImportDocument) (string, error)
}

type resultRepository struct {
	directory string
	filename  string
	logger    *zap.Logger
	now       func() time.Time
}

// NewResultRepository constructs the writer. An empty filename derives one
// from the run time.
func NewResultRepository(cfg config.ResultConfig, logger *zap.Logger) ResultRepository {
	return &resultRepository{
		directory: cfg.Directory,
		filename:  cfg.Filename,
		logger:    logger,
		now:       time.Now,
	}
}

// Save serializes the document and writes it once, returning the path.
func (r *resultRepository) Save(doc domain.ImportDocument) (string, error) {
	filename := r.filename
	if filename == "" {
		filename = r.now().UTC().Format(time.RFC3339) + defaultResultSuffix
	}
	path := filepath.Join(r.directory, filename)

	data, err := json.Marshal(doc)
	if err != nil {
		return "", util.NewResultWriteError(path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", util.NewResultWriteError(path, err)
	}

	r.logger.Info("wrote result document",
		zap.String("path", path),
		zap.Int("bytes", len(data)))
	return path, nil
}
