package admin

import (
	"github.com/gin-gonic/gin"
	"github.com/leetarena/arena/internal/api"
	"github.com/leetarena/arena/internal/config"
	"github.com/leetarena/arena/internal/contest"
	"gorm.io/gorm"
)

// NewAdminRouter creates and configures the admin Gin engine.
// The admin engine has no authentication of its own; it is meant to listen on a private address.
func NewAdminRouter(cfg *config.Config, db *gorm.DB, engine *contest.Engine) *gin.Engine {
	api.UseJSONFieldNames()

	r := gin.Default()

	r.Use(api.CORSMiddleware(cfg.CORS))

	h := NewHandler(cfg, db, engine)

	v1 := r.Group("/api/v1")
	{
		// User Management
		users := v1.Group("/users")
		{
			users.GET("", h.getAllUsers)
			users.POST("", h.createUser)
			users.GET("/:id", h.getUser)
			users.PATCH("/:id/role", h.updateUserRole)
			users.POST("/:id/reset-password", h.resetUserPassword)
			users.POST("/:id/register-contest", h.registerUserForContest)
			users.GET("/:id/stats", h.getUserContestStats)
		}

		// Contest Management
		contests := v1.Group("/contests")
		{
			contests.GET("", h.getAllContests)
			contests.GET("/:id", h.getContest)
			contests.GET("/:id/leaderboard", h.getContestLeaderboard)
			contests.POST("/:id/reconcile", h.reconcileContest)
			contests.POST("/:id/participations/:userID/reconcile", h.reconcileParticipation)
		}

		// Problem catalog
		problems := v1.Group("/problems")
		{
			problems.GET("", h.getAllProblems)
			problems.POST("", h.createProblem)
			problems.GET("/:id", h.getProblem)
		}
	}

	return r
}
