// Package contest implements the contest engine: lifecycle, admission, scoring and ranking.
package contest

import (
	"context"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/leetarena/arena/internal/cache"
	"github.com/leetarena/arena/internal/database"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProblemCatalog is the engine's view of the problem catalog.
type ProblemCatalog interface {
	// Missing returns the ids that do not resolve to a problem.
	Missing(ctx context.Context, ids []string) ([]string, error)
}

type Engine struct {
	db       *gorm.DB
	problems ProblemCatalog
	cache    cache.Cache
	now      func() time.Time

	defaultPageSize int
	maxPageSize     int
}

type Option func(*Engine)

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithCache(c cache.Cache) Option {
	return func(e *Engine) { e.cache = c }
}

// WithPageSizes sets the default and maximum page size for listings and leaderboards.
func WithPageSizes(def, max int) Option {
	return func(e *Engine) {
		if max > 0 {
			e.maxPageSize = max
		}
		if def > 0 {
			e.defaultPageSize = def
		}
		if e.defaultPageSize > e.maxPageSize {
			e.defaultPageSize = e.maxPageSize
		}
	}
}

func NewEngine(db *gorm.DB, problems ProblemCatalog, opts ...Option) *Engine {
	e := &Engine{
		db:              db,
		problems:        problems,
		cache:           cache.NewMemory(15 * time.Second),
		now:             time.Now,
		defaultPageSize: 20,
		maxPageSize:     100,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) clock() time.Time {
	return e.now().UTC()
}

func (e *Engine) tx(ctx context.Context) *gorm.DB {
	return e.db.WithContext(ctx)
}

// invalidate drops cached leaderboard pages after a ranking-relevant write.
// The write has already committed, so a cache failure is logged and not returned.
func (e *Engine) invalidate(ctx context.Context, contestID string) {
	if err := e.cache.Bump(ctx, contestID); err != nil {
		zap.S().Warnf("failed to invalidate leaderboard cache for contest %s: %v", contestID, err)
	}
}

// page normalizes a (limit, offset) pair.
func (e *Engine) page(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = e.defaultPageSize
	}
	if limit > e.maxPageSize {
		limit = e.maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// DBCatalog resolves problems against the problems table.
type DBCatalog struct {
	db *gorm.DB
}

func NewDBCatalog(db *gorm.DB) *DBCatalog {
	return &DBCatalog{db: db}
}

func (c *DBCatalog) Missing(ctx context.Context, ids []string) ([]string, error) {
	found, err := database.FindExistingProblemIDs(c.db.WithContext(ctx), ids)
	if err != nil {
		return nil, err
	}
	present := mapset.NewThreadUnsafeSet(found...)
	var missing []string
	for _, id := range ids {
		if !present.Contains(id) {
			missing = append(missing, id)
		}
	}
	return missing, nil
}
