package contest

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/leetarena/arena/internal/apperr"
	"github.com/leetarena/arena/internal/config"
	"github.com/leetarena/arena/internal/database"
	"github.com/leetarena/arena/internal/database/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	t      *testing.T
	ctx    context.Context
	db     *gorm.DB
	engine *Engine
	now    time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.Init(config.Storage{
		Driver:   config.DriverSQLite,
		Database: filepath.Join(t.TempDir(), "arena.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	env := &testEnv{t: t, ctx: context.Background(), db: db, now: baseTime}
	env.engine = NewEngine(db, NewDBCatalog(db), WithClock(func() time.Time { return env.now }))
	for i := 1; i <= 4; i++ {
		require.NoError(t, database.CreateProblem(db, &models.Problem{
			ID:         fmt.Sprintf("p%d", i),
			Title:      fmt.Sprintf("Problem %d", i),
			Slug:       fmt.Sprintf("problem-%d", i),
			Difficulty: models.DifficultyEasy,
		}))
	}
	return env
}

// advance moves the engine clock.
func (env *testEnv) advance(d time.Duration) {
	env.now = env.now.Add(d)
}

func (env *testEnv) input(title string) CreateInput {
	return CreateInput{
		Title:         title,
		Description:   "weekly round",
		StartTime:     env.now.Add(time.Hour),
		EndTime:       env.now.Add(3 * time.Hour),
		Difficulty:    models.DifficultyMedium,
		ProblemIDs:    []string{"p1", "p2"},
		TotalProblems: 2,
	}
}

func (env *testEnv) createContest(title string, maxParticipants *int) *models.Contest {
	env.t.Helper()
	in := env.input(title)
	in.MaxParticipants = maxParticipants
	c, err := env.engine.Create(env.ctx, "creator", in)
	require.NoError(env.t, err)
	return c
}

// startedContest creates a contest, registers users one second apart while it is upcoming,
// then moves the clock into the window.
func (env *testEnv) startedContest(title string, users ...string) *models.Contest {
	env.t.Helper()
	c := env.createContest(title, nil)
	for _, u := range users {
		_, err := env.engine.Register(env.ctx, c.ID, u)
		require.NoError(env.t, err)
		env.advance(time.Second)
	}
	env.now = c.StartTime.Add(time.Minute)
	return c
}

func requireCode(t *testing.T, err error, code apperr.Code) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, code, apperr.CodeOf(err), "unexpected error: %v", err)
}

func intPtr(v int) *int { return &v }
