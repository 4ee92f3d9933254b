package database

import (
	"time"

	"github.com/leetarena/arena/internal/database/models"
	"gorm.io/gorm"
)

// LeaderboardOrder is the full ranking order. The trailing keys only make positional ranks stable.
const LeaderboardOrder = "contest_participations.score desc, contest_participations.time_spent asc, contest_participations.joined_at asc, contest_participations.id asc"

type LeaderboardEntry struct {
	Rank               int       `json:"rank"`
	UserID             string    `json:"user_id"`
	Username           string    `json:"username"`
	Nickname           string    `json:"nickname"`
	Score              int       `json:"score"`
	TotalScore         int       `json:"total_score"`
	SolutionsSubmitted int       `json:"solutions_submitted"`
	TimeSpent          int64     `json:"time_spent"`
	JoinedAt           time.Time `json:"joined_at"`
}

// GetLeaderboard returns one page of the ranking plus the total number of participants.
// Rank is positional: offset + index + 1.
func GetLeaderboard(db *gorm.DB, contestID string, limit, offset int) ([]LeaderboardEntry, int64, error) {
	var total int64
	if err := db.Model(&models.ContestParticipation{}).Where("contest_id = ?", contestID).Count(&total).Error; err != nil {
		return nil, 0, translate(err, "leaderboard")
	}

	var rows []LeaderboardEntry
	err := db.Table("contest_participations").
		Select("contest_participations.user_id, users.username, users.nickname, contest_participations.score, contest_participations.total_score, contest_participations.solutions_submitted, contest_participations.time_spent, contest_participations.joined_at").
		Joins("left join users on users.id = contest_participations.user_id").
		Where("contest_participations.contest_id = ?", contestID).
		Order(LeaderboardOrder).
		Limit(limit).
		Offset(offset).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, translate(err, "leaderboard")
	}

	for i := range rows {
		rows[i].Rank = offset + i + 1
	}
	if rows == nil {
		rows = []LeaderboardEntry{}
	}
	return rows, total, nil
}

// GetParticipantRank counts the participations ordered ahead of p, using the leaderboard order.
func GetParticipantRank(db *gorm.DB, p *models.ContestParticipation) (int, error) {
	var ahead int64
	err := db.Model(&models.ContestParticipation{}).
		Where("contest_id = ?", p.ContestID).
		Where(db.Where("score > ?", p.Score).
			Or("score = ? AND time_spent < ?", p.Score, p.TimeSpent).
			Or("score = ? AND time_spent = ? AND joined_at < ?", p.Score, p.TimeSpent, p.JoinedAt).
			Or("score = ? AND time_spent = ? AND joined_at = ? AND id < ?", p.Score, p.TimeSpent, p.JoinedAt, p.ID)).
		Count(&ahead).Error
	if err != nil {
		return 0, translate(err, "leaderboard")
	}
	return int(ahead) + 1, nil
}

// UserContestRecord is one row of a user's contest history.
type UserContestRecord struct {
	models.ContestParticipation
	Title     string    `json:"title"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

func GetUserContestRecords(db *gorm.DB, userID string) ([]UserContestRecord, error) {
	var records []UserContestRecord
	err := db.Table("contest_participations").
		Select("contest_participations.*, contests.title, contests.start_time, contests.end_time").
		Joins("join contests on contests.id = contest_participations.contest_id").
		Where("contest_participations.user_id = ?", userID).
		Order("contest_participations.joined_at desc").
		Scan(&records).Error
	if err != nil {
		return nil, translate(err, "contest history")
	}
	return records, nil
}

// CountUserSubmissions returns the number of contest submissions by a user and how many were accepted.
func CountUserSubmissions(db *gorm.DB, userID string) (total int64, accepted int64, err error) {
	if err = db.Model(&models.ContestSubmission{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return 0, 0, translate(err, "submissions")
	}
	if err = db.Model(&models.ContestSubmission{}).
		Where("user_id = ? AND status = ?", userID, models.SubmissionAccepted).
		Count(&accepted).Error; err != nil {
		return 0, 0, translate(err, "submissions")
	}
	return total, accepted, nil
}
