// Package fixture replays saved chart responses from disk. It is used for
// offline tests and for running the commands without network access.
package fixture

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"stock_history/internal/feature/historical/adapters/yahoo"
	"stock_history/internal/feature/historical/domain"
	"stock_history/internal/feature/historical/domain/entity"
	"stock_history/internal/feature/historical/usecase"
)

// Repository serves chart payloads from JSON files in a directory.
type Repository struct {
	dir  string
	file string
}

var _ usecase.ChartRepository = (*Repository)(nil)

// Option configures a Repository.
type Option func(*Repository)

// WithFile pins every request to a single fixture file.
func WithFile(name string) Option {
	return func(r *Repository) {
		r.file = name
	}
}

// NewRepository creates a Repository reading from dir.
func NewRepository(dir string, opts ...Option) *Repository {
	r := &Repository{dir: dir}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// FileName returns the fixture file name used for symbol and params when
// no file is pinned.
func FileName(symbol string, params entity.QueryParams) string {
	return fmt.Sprintf("historical-%s-%d-to-%d.json", safe(symbol), params.Period1, params.Period2)
}

// GetChart reads and decodes the fixture for the request.
func (r *Repository) GetChart(_ context.Context, symbol string, params entity.QueryParams) (entity.RawPayload, error) {
	name := r.file
	if name == "" {
		name = FileName(symbol, params)
	}
	path := filepath.Join(r.dir, name)

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return entity.RawPayload{}, fmt.Errorf("%w: %s", domain.ErrFixtureNotFound, path)
		}
		return entity.RawPayload{}, fmt.Errorf("opening fixture: %w", err)
	}
	defer f.Close()

	payload, err := yahoo.DecodeChart(f)
	if err != nil {
		return entity.RawPayload{}, fmt.Errorf("fixture %s: %w", name, err)
	}
	return payload, nil
}

// safe replaces characters that are awkward in file names.
func safe(s string) string {
	return strings.NewReplacer("=", "", "^", "", "/", "_", " ", "_").Replace(s)
}
