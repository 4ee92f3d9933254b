package contest

import (
	"math"

	"github.com/leetarena/arena/internal/apperr"
	"github.com/leetarena/arena/internal/database/models"
)

// Score rewards correctness and speed equally. The time bonus bottoms out at zero, so the score
// is never negative, and it is zero whenever no test case passed.
func Score(passed, total int, executionTimeMs int64) int {
	if passed <= 0 || total <= 0 {
		return 0
	}
	accuracy := float64(passed) / float64(total) * 100
	timeBonus := math.Max(0, 100-float64(executionTimeMs)/10)
	return int(math.Round((accuracy + timeBonus) / 2))
}

var judgeFailures = map[models.SubmissionStatus]bool{
	models.SubmissionWrongAnswer:         true,
	models.SubmissionRuntimeError:        true,
	models.SubmissionTimeLimitExceeded:   true,
	models.SubmissionMemoryLimitExceeded: true,
}

// Outcome decides the stored verdict. accepted iff every test passed; a verdict reported by the
// judge is kept when it agrees with the counts and rejected otherwise.
func Outcome(passed, total int, reported models.SubmissionStatus) (models.SubmissionStatus, error) {
	allPassed := passed == total
	switch {
	case reported == "":
		if allPassed {
			return models.SubmissionAccepted, nil
		}
		return models.SubmissionWrongAnswer, nil
	case reported == models.SubmissionAccepted:
		if !allPassed {
			return "", apperr.Validation("status accepted requires all test cases to pass")
		}
		return models.SubmissionAccepted, nil
	case judgeFailures[reported]:
		if allPassed {
			return "", apperr.Validation("status %s contradicts %d/%d passed test cases", reported, passed, total)
		}
		return reported, nil
	default:
		return "", apperr.Validation("unsupported submission status %q", reported)
	}
}
