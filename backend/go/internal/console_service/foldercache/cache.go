package foldercache

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"VectorConsole/backend/go/internal/models"
	"VectorConsole/backend/go/pkg/logger"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Source is the authoritative folder list of a project.
type Source interface {
	ListFolders(ctx context.Context, projectID string) ([]*models.Folder, error)
}

// Mirror persists refreshed entries outside the process so a restart can
// serve navigation before the first refresh.
type Mirror interface {
	Save(ctx context.Context, projectID string, folders []*models.Folder) error
	LoadAll(ctx context.Context) (map[string][]*models.Folder, error)
	Delete(ctx context.Context, projectID string) error
}

// Cache holds the folder list of every project the navigation has opened.
//
// Entries are only populated by Refresh and Reload; Get never fetches.
// Concurrent refreshes of one project share a single fetch, and a fetch that
// started before an Invalidate or Reload of its project is discarded instead
// of applied.
type Cache struct {
	source Source
	mirror Mirror
	log    *logger.Logger

	// RefreshAll 的最大并发数，0 表示不限制。
	parallelism int

	mu      sync.RWMutex
	entries map[string][]*models.Folder
	gens    map[string]uint64

	group singleflight.Group
}

// Option configures a Cache.
type Option func(*Cache)

// WithMirror enables write-through to m.
func WithMirror(m Mirror) Option {
	return func(c *Cache) { c.mirror = m }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Cache) { c.log = l }
}

// WithParallelism bounds the fan-out of RefreshAll.
func WithParallelism(n int) Option {
	return func(c *Cache) { c.parallelism = n }
}

// New creates an empty cache over source.
func New(source Source, opts ...Option) *Cache {
	c := &Cache{
		source:  source,
		log:     logger.Discard(),
		entries: make(map[string][]*models.Folder),
		gens:    make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached folders of a project, or an empty list if the
// project was never refreshed.
func (c *Cache) Get(projectID string) []*models.Folder {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneFolders(c.entries[projectID])
}

// Loaded reports whether the project has a cached entry.
func (c *Cache) Loaded(projectID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.entries[projectID]
	return ok
}

// Projects returns the ids of all cached projects, sorted.
func (c *Cache) Projects() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]string, 0, len(c.entries))
	for id := range c.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Refresh fetches the folder list of a project and replaces its entry
// wholesale. On error the previous entry is kept.
func (c *Cache) Refresh(ctx context.Context, projectID string) ([]*models.Folder, error) {
	c.mu.RLock()
	gen := c.gens[projectID]
	c.mu.RUnlock()

	key := fmt.Sprintf("%s#%d", projectID, gen)
	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		return c.source.ListFolders(ctx, projectID)
	})
	if err != nil {
		c.log.With("project_id", projectID).WithError(err).Warn("folder refresh failed, keeping cached entry")
		return nil, err
	}
	folders := cloneFolders(v.([]*models.Folder))

	c.mu.Lock()
	if c.gens[projectID] != gen {
		c.mu.Unlock()
		c.log.With("project_id", projectID).Debug("discarding folder list fetched before invalidation")
		return folders, nil
	}
	c.entries[projectID] = cloneFolders(folders)
	c.mu.Unlock()

	if c.mirror != nil {
		if err := c.mirror.Save(ctx, projectID, folders); err != nil {
			c.log.With("project_id", projectID).WithError(err).Warn("folder mirror write failed")
		}
	}
	return folders, nil
}

// Reload is Refresh for callers that just changed the source: it never joins
// a fetch already in flight, and such a fetch is discarded when it lands.
// On error the previous entry is kept.
func (c *Cache) Reload(ctx context.Context, projectID string) ([]*models.Folder, error) {
	c.mu.Lock()
	c.gens[projectID]++
	c.mu.Unlock()
	return c.Refresh(ctx, projectID)
}

// RefreshAll refreshes every cached project in parallel. A failing project
// keeps its previous entry and does not stop the others; all failures are
// returned joined.
func (c *Cache) RefreshAll(ctx context.Context) error {
	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	if c.parallelism > 0 {
		g.SetLimit(c.parallelism)
	}
	for _, id := range c.Projects() {
		g.Go(func() error {
			if _, err := c.Refresh(ctx, id); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("project %s: %w", id, err))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

// Invalidate drops the entry of a project. Fetches already in flight for it
// will not be applied.
func (c *Cache) Invalidate(ctx context.Context, projectID string) {
	c.mu.Lock()
	delete(c.entries, projectID)
	c.gens[projectID]++
	c.mu.Unlock()

	if c.mirror != nil {
		if err := c.mirror.Delete(ctx, projectID); err != nil {
			c.log.With("project_id", projectID).WithError(err).Warn("folder mirror delete failed")
		}
	}
}

// InvalidateAll drops every entry.
func (c *Cache) InvalidateAll(ctx context.Context) {
	for _, id := range c.Projects() {
		c.Invalidate(ctx, id)
	}
}

// Warm seeds entries from the mirror. Projects already cached are left alone.
func (c *Cache) Warm(ctx context.Context) error {
	if c.mirror == nil {
		return nil
	}
	all, err := c.mirror.LoadAll(ctx)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, folders := range all {
		if _, ok := c.entries[id]; !ok {
			c.entries[id] = cloneFolders(folders)
		}
	}
	c.log.With("projects", len(all)).Info("folder cache warmed from mirror")
	return nil
}

func cloneFolders(in []*models.Folder) []*models.Folder {
	out := make([]*models.Folder, 0, len(in))
	for _, f := range in {
		out = append(out, f.Clone())
	}
	return out
}
