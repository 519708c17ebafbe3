package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/dagview/pkg/domain"
	"github.com/aretw0/loam"
)

// Fixtures reads snapshot fixtures from a directory of JSON documents or
// Markdown documents whose frontmatter holds the snapshot. Fixture IDs are
// file names without the extension.
type Fixtures struct {
	Repo *loam.TypedRepository[domain.Snapshot]
}

// New wraps an existing typed repository.
func New(repo *loam.TypedRepository[domain.Snapshot]) *Fixtures {
	return &Fixtures{Repo: repo}
}

// Open initializes a read-only, unversioned repository at dir.
func Open(dir string, opts ...loam.Option) (*Fixtures, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid fixture path: %w", err)
	}

	opts = append([]loam.Option{
		loam.WithVersioning(false),
		loam.WithReadOnly(true),
	}, opts...)
	repo, err := loam.Init(absPath, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[domain.Snapshot](repo)), nil
}

// Snapshot loads one fixture. Absent collections load as empty.
func (f *Fixtures) Snapshot(ctx context.Context, id string) (domain.Snapshot, error) {
	doc, err := f.Repo.Get(ctx, trimExtension(id))
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("loam get failed for %s: %w", id, err)
	}
	return doc.Data.Normalize(), nil
}

// List returns the fixture IDs, sorted.
func (f *Fixtures) List(ctx context.Context) ([]string, error) {
	docs, err := f.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, trimExtension(doc.ID))
	}
	sort.Strings(ids)
	return ids, nil
}

func trimExtension(id string) string {
	if ext := filepath.Ext(id); ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return id
}
