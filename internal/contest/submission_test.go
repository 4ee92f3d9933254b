package contest

import (
	"testing"
	"time"

	"github.com/leetarena/arena/internal/apperr"
	"github.com/leetarena/arena/internal/database"
	"github.com/leetarena/arena/internal/database/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func solution(problemID string, passed, total int, execMs int64) SubmitInput {
	return SubmitInput{
		ProblemID:       problemID,
		Code:            "func main() {}",
		Language:        "go",
		TestCasesPassed: passed,
		TotalTestCases:  total,
		ExecutionTimeMs: execMs,
		MemoryUsedKB:    2048,
	}
}

func TestSubmitScoresAndRollsUp(t *testing.T) {
	env := newTestEnv(t)
	c := env.startedContest("Scored", "alice")

	sub, err := env.engine.Submit(env.ctx, c.ID, "alice", solution("p1", 3, 3, 100))
	require.NoError(t, err)
	assert.Equal(t, 95, sub.Score)
	assert.Equal(t, models.SubmissionAccepted, sub.Status)
	assert.True(t, sub.SubmittedAt.Equal(env.now))

	env.advance(9 * time.Minute)
	sub, err = env.engine.Submit(env.ctx, c.ID, "alice", solution("p2", 1, 2, 0))
	require.NoError(t, err)
	assert.Equal(t, 75, sub.Score)
	assert.Equal(t, models.SubmissionWrongAnswer, sub.Status)

	env.advance(5 * time.Minute)
	sub, err = env.engine.Submit(env.ctx, c.ID, "alice", solution("p2", 0, 2, 0))
	require.NoError(t, err)
	assert.Zero(t, sub.Score)

	p, err := database.GetParticipation(env.db, c.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, 170, p.Score)
	assert.Equal(t, 170, p.TotalScore)
	assert.Equal(t, 3, p.SolutionsSubmitted)
	// The zero-score submission does not move time_spent: last scoring submission was at start+10m.
	assert.Equal(t, int64(10*60), p.TimeSpent)
}

func TestSubmitRejections(t *testing.T) {
	env := newTestEnv(t)
	c := env.createContest("Gated", nil)
	_, err := env.engine.Register(env.ctx, c.ID, "alice")
	require.NoError(t, err)

	// Not started yet.
	_, err = env.engine.Submit(env.ctx, c.ID, "alice", solution("p1", 1, 1, 0))
	requireCode(t, err, apperr.CodeInvalidState)

	env.now = c.StartTime
	_, err = env.engine.Submit(env.ctx, "missing", "alice", solution("p1", 1, 1, 0))
	requireCode(t, err, apperr.CodeNotFound)

	_, err = env.engine.Submit(env.ctx, c.ID, "alice", solution("ghost", 1, 1, 0))
	requireCode(t, err, apperr.CodeNotFound)

	_, err = env.engine.Submit(env.ctx, c.ID, "mallory", solution("p1", 1, 1, 0))
	requireCode(t, err, apperr.CodeAuthorization)

	// p3 exists in the catalog but is not part of this contest.
	_, err = env.engine.Submit(env.ctx, c.ID, "alice", solution("p3", 1, 1, 0))
	requireCode(t, err, apperr.CodeInvalidState)

	_, err = env.engine.Submit(env.ctx, c.ID, "alice", solution("p1", 4, 3, 0))
	requireCode(t, err, apperr.CodeValidation)

	_, err = env.engine.Submit(env.ctx, c.ID, "alice", solution("p1", 1, 0, 0))
	requireCode(t, err, apperr.CodeValidation)

	_, err = env.engine.Submit(env.ctx, c.ID, "alice", solution("p1", 1, 1, -5))
	requireCode(t, err, apperr.CodeValidation)

	env.now = c.EndTime
	_, err = env.engine.Submit(env.ctx, c.ID, "alice", solution("p1", 1, 1, 0))
	requireCode(t, err, apperr.CodeInvalidState)

	var count int64
	require.NoError(t, env.db.Model(&models.ContestSubmission{}).Count(&count).Error)
	assert.Zero(t, count)

	p, err := database.GetParticipation(env.db, c.ID, "alice")
	require.NoError(t, err)
	assert.Zero(t, p.Score)
	assert.Zero(t, p.SolutionsSubmitted)
}

func TestSubmitJudgeVerdicts(t *testing.T) {
	env := newTestEnv(t)
	c := env.startedContest("Verdicts", "alice")

	in := solution("p1", 1, 3, 0)
	in.Status = models.SubmissionTimeLimitExceeded
	sub, err := env.engine.Submit(env.ctx, c.ID, "alice", in)
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionTimeLimitExceeded, sub.Status)

	in = solution("p1", 1, 3, 0)
	in.Status = models.SubmissionAccepted
	_, err = env.engine.Submit(env.ctx, c.ID, "alice", in)
	requireCode(t, err, apperr.CodeValidation)
}

func TestSubmitConcurrentRollup(t *testing.T) {
	env := newTestEnv(t)
	c := env.startedContest("Flood", "alice", "bob")

	const perUser = 15
	var g errgroup.Group
	for i := 0; i < perUser; i++ {
		for _, user := range []string{"alice", "bob"} {
			g.Go(func() error {
				_, err := env.engine.Submit(env.ctx, c.ID, user, solution("p2", 3, 3, 100))
				return err
			})
		}
	}
	require.NoError(t, g.Wait())

	for _, user := range []string{"alice", "bob"} {
		p, err := database.GetParticipation(env.db, c.ID, user)
		require.NoError(t, err)
		assert.Equal(t, perUser*95, p.Score)
		assert.Equal(t, perUser, p.SolutionsSubmitted)

		subs, err := database.GetContestSubmissions(env.db, c.ID, user)
		require.NoError(t, err)
		assert.Len(t, subs, perUser)
	}
}

func TestSubmissionsNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	c := env.startedContest("History", "alice")

	first, err := env.engine.Submit(env.ctx, c.ID, "alice", solution("p1", 1, 2, 0))
	require.NoError(t, err)
	env.advance(time.Minute)
	second, err := env.engine.Submit(env.ctx, c.ID, "alice", solution("p2", 2, 2, 0))
	require.NoError(t, err)

	subs, err := env.engine.Submissions(env.ctx, c.ID, "alice")
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, second.ID, subs[0].ID)
	assert.Equal(t, first.ID, subs[1].ID)

	subs, err = env.engine.Submissions(env.ctx, c.ID, "bob")
	require.NoError(t, err)
	assert.Empty(t, subs)
}
