package user

import (
	"github.com/gin-gonic/gin"
	"github.com/leetarena/arena/internal/api"
	"github.com/leetarena/arena/internal/config"
	"github.com/leetarena/arena/internal/contest"
	"gorm.io/gorm"
)

// NewUserRouter creates and configures the user Gin engine.
func NewUserRouter(cfg *config.Config, db *gorm.DB, engine *contest.Engine) *gin.Engine {
	api.UseJSONFieldNames()

	r := gin.Default()

	r.Use(api.CORSMiddleware(cfg.CORS))

	h := NewHandler(cfg, db, engine)

	v1 := r.Group("/api/v1")
	{
		// Auth
		authGroup := v1.Group("/auth")
		{
			authGroup.GET("/status", h.getAuthStatus)

			// Local Username/Password Auth (if enabled)
			if cfg.Auth.Local.Enabled {
				localAuthGroup := authGroup.Group("/local")
				{
					localAuthGroup.POST("/register", h.localRegister)
					localAuthGroup.POST("/login", h.localLogin)
				}
			}
		}

		// Publicly accessible info
		v1.GET("/contests", h.getAllContests)
		v1.GET("/contests/:id", h.getContest)
		v1.GET("/contests/:id/leaderboard", h.getContestLeaderboard)
		v1.GET("/problems", h.getAllProblems)
		v1.GET("/problems/:id", h.getProblem)

		// Authenticated routes
		authed := v1.Group("")
		authed.Use(api.AuthMiddleware(cfg.Auth.JWT.Secret))
		{
			// User Profile
			profile := authed.Group("/user")
			{
				profile.GET("/profile", h.getUserProfile)
				profile.PATCH("/profile", h.updateUserProfile)
			}

			// Contest
			authed.POST("/contests", api.AdminOnly(), h.createContest)
			authed.PATCH("/contests/:id", h.updateContest)
			authed.DELETE("/contests/:id", h.deleteContest)
			authed.POST("/contests/:id/register", h.registerForContest)
			authed.POST("/contests/:id/submit", h.submitToContest)
			authed.GET("/contests/:id/submissions", h.getContestSubmissions)
			authed.GET("/contests/:id/results", h.getContestResults)
			authed.GET("/contests/stats/user", h.getUserContestStats)
		}
	}

	return r
}
