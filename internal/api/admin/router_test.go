package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/leetarena/arena/internal/auth"
	"github.com/leetarena/arena/internal/config"
	"github.com/leetarena/arena/internal/contest"
	"github.com/leetarena/arena/internal/database"
	"github.com/leetarena/arena/internal/database/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error"`
}

type adminEnv struct {
	t      *testing.T
	db     *gorm.DB
	engine *contest.Engine
	router *gin.Engine
	now    time.Time
}

func newAdminEnv(t *testing.T) *adminEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Init(config.Storage{
		Driver:   config.DriverSQLite,
		Database: filepath.Join(t.TempDir(), "admin.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	env := &adminEnv{t: t, db: db, now: time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)}
	env.engine = contest.NewEngine(db, contest.NewDBCatalog(db), contest.WithClock(func() time.Time { return env.now }))
	cfg := &config.Config{}
	cfg.Auth.JWT.Secret = "admin-test"
	env.router = NewAdminRouter(cfg, db, env.engine)
	return env
}

func (env *adminEnv) do(method, path string, body interface{}) (int, envelope) {
	env.t.Helper()
	var raw []byte
	if body != nil {
		var err error
		raw, err = json.Marshal(body)
		require.NoError(env.t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	var out envelope
	require.NoError(env.t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return w.Code, out
}

func TestProblemCatalog(t *testing.T) {
	env := newAdminEnv(t)

	code, resp := env.do(http.MethodPost, "/api/v1/problems", map[string]string{
		"title": "Merge K Sorted Lists", "difficulty": "hard",
	})
	require.Equal(t, http.StatusCreated, code)
	var p models.Problem
	require.NoError(t, json.Unmarshal(resp.Data, &p))
	assert.Equal(t, "merge-k-sorted-lists", p.ID)
	assert.Equal(t, "merge-k-sorted-lists", p.Slug)

	code, resp = env.do(http.MethodPost, "/api/v1/problems", map[string]string{
		"title": "Merge K Sorted Lists", "difficulty": "hard",
	})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "DUPLICATE_RESOURCE", resp.Error.Code)

	code, resp = env.do(http.MethodPost, "/api/v1/problems", map[string]string{
		"title": "Bogus", "difficulty": "impossible",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)

	code, _ = env.do(http.MethodGet, "/api/v1/problems/merge-k-sorted-lists", nil)
	assert.Equal(t, http.StatusOK, code)
	code, resp = env.do(http.MethodGet, "/api/v1/problems/nope", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "RESOURCE_NOT_FOUND", resp.Error.Code)
}

func TestProblemWithoutSlugSource(t *testing.T) {
	env := newAdminEnv(t)

	code, resp := env.do(http.MethodPost, "/api/v1/problems", map[string]string{
		"title": "🧩", "difficulty": "easy",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)

	code, resp = env.do(http.MethodPost, "/api/v1/problems", map[string]string{
		"id": "puzzle-1", "title": "🧩", "difficulty": "easy",
	})
	require.Equal(t, http.StatusCreated, code)
	var p models.Problem
	require.NoError(t, json.Unmarshal(resp.Data, &p))
	assert.Equal(t, "puzzle-1", p.ID)
	assert.Equal(t, "puzzle-1", p.Slug)

	problems, err := database.GetAllProblems(env.db)
	require.NoError(t, err)
	require.Len(t, problems, 1)
	assert.NotEmpty(t, problems[0].ID)
}

func TestUserManagement(t *testing.T) {
	env := newAdminEnv(t)

	code, resp := env.do(http.MethodPost, "/api/v1/users", map[string]string{
		"username": "linus", "password": "penguin42",
	})
	require.Equal(t, http.StatusCreated, code)
	var u models.User
	require.NoError(t, json.Unmarshal(resp.Data, &u))
	assert.Equal(t, models.RoleUser, u.Role)

	code, resp = env.do(http.MethodPatch, "/api/v1/users/"+u.ID+"/role", map[string]string{"role": "admin"})
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(resp.Data, &u))
	assert.Equal(t, models.RoleAdmin, u.Role)

	code, resp = env.do(http.MethodPatch, "/api/v1/users/"+u.ID+"/role", map[string]string{"role": "root"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)

	code, _ = env.do(http.MethodPost, "/api/v1/users/"+u.ID+"/reset-password", map[string]string{"password": "tux-tux-tux"})
	require.Equal(t, http.StatusOK, code)
	stored, err := database.GetUserByID(env.db, u.ID)
	require.NoError(t, err)
	assert.True(t, auth.CheckPasswordHash("tux-tux-tux", stored.PasswordHash))

	code, resp = env.do(http.MethodPost, "/api/v1/users/ghost/reset-password", map[string]string{"password": "whatever"})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "RESOURCE_NOT_FOUND", resp.Error.Code)
}

func TestRegisterAndReconcile(t *testing.T) {
	env := newAdminEnv(t)
	ctx := context.Background()

	require.NoError(t, database.CreateProblem(env.db, &models.Problem{ID: "p1", Title: "p1", Slug: "p1", Difficulty: models.DifficultyEasy}))
	require.NoError(t, database.CreateUser(env.db, &models.User{ID: "u1", Username: "margaret", Role: models.RoleUser}))
	c, err := env.engine.Create(ctx, "organizer", contest.CreateInput{
		Title:         "Apollo Cup",
		Description:   "moon",
		StartTime:     env.now.Add(time.Hour),
		EndTime:       env.now.Add(2 * time.Hour),
		Difficulty:    models.DifficultyEasy,
		ProblemIDs:    []string{"p1"},
		TotalProblems: 1,
	})
	require.NoError(t, err)

	code, resp := env.do(http.MethodPost, "/api/v1/users/u1/register-contest", map[string]string{"contest_id": c.ID})
	require.Equal(t, http.StatusCreated, code)
	code, resp = env.do(http.MethodPost, "/api/v1/users/u1/register-contest", map[string]string{"contest_id": c.ID})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "DUPLICATE_RESOURCE", resp.Error.Code)
	code, _ = env.do(http.MethodPost, "/api/v1/users/ghost/register-contest", map[string]string{"contest_id": c.ID})
	assert.Equal(t, http.StatusNotFound, code)

	env.now = env.now.Add(70 * time.Minute)
	_, err = env.engine.Submit(ctx, c.ID, "u1", contest.SubmitInput{
		ProblemID: "p1", Code: "x", Language: "go", TestCasesPassed: 4, TotalTestCases: 4,
	})
	require.NoError(t, err)

	// Drift the rollup so reconciliation has something to fix.
	require.NoError(t, env.db.Model(&models.ContestParticipation{}).
		Where("contest_id = ? AND user_id = ?", c.ID, "u1").
		Updates(map[string]interface{}{"score": 3, "solutions_submitted": 9}).Error)

	code, resp = env.do(http.MethodPost, "/api/v1/contests/"+c.ID+"/participations/u1/reconcile", nil)
	require.Equal(t, http.StatusOK, code)
	var p models.ContestParticipation
	require.NoError(t, json.Unmarshal(resp.Data, &p))
	assert.Equal(t, 100, p.Score)
	assert.Equal(t, 1, p.SolutionsSubmitted)
	assert.EqualValues(t, 600, p.TimeSpent)

	code, resp = env.do(http.MethodPost, "/api/v1/contests/"+c.ID+"/reconcile", nil)
	require.Equal(t, http.StatusOK, code)
	var n map[string]int
	require.NoError(t, json.Unmarshal(resp.Data, &n))
	assert.Equal(t, 1, n["reconciled"])

	code, resp = env.do(http.MethodGet, "/api/v1/contests/"+c.ID+"/leaderboard?limit=10", nil)
	require.Equal(t, http.StatusOK, code)
	var board contest.Leaderboard
	require.NoError(t, json.Unmarshal(resp.Data, &board))
	require.Len(t, board.Leaderboard, 1)
	assert.Equal(t, "margaret", board.Leaderboard[0].Username)

	code, resp = env.do(http.MethodGet, "/api/v1/users/u1/stats", nil)
	require.Equal(t, http.StatusOK, code)
	var stats contest.UserStats
	require.NoError(t, json.Unmarshal(resp.Data, &stats))
	assert.Equal(t, 1, stats.ContestsJoined)
	assert.Equal(t, 100, stats.TotalScore)

	code, resp = env.do(http.MethodPost, "/api/v1/contests/missing/reconcile", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "RESOURCE_NOT_FOUND", resp.Error.Code)
}
