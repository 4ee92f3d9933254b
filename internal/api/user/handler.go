package user

import (
	"github.com/gin-gonic/gin"
	"github.com/leetarena/arena/internal/api"
	"github.com/leetarena/arena/internal/config"
	"github.com/leetarena/arena/internal/contest"
	"gorm.io/gorm"
)

// Handler holds all dependencies for the user API handlers.
type Handler struct {
	cfg    *config.Config
	db     *gorm.DB
	engine *contest.Engine
}

// NewHandler creates a new user handler with its dependencies.
func NewHandler(cfg *config.Config, db *gorm.DB, engine *contest.Engine) *Handler {
	return &Handler{
		cfg:    cfg,
		db:     db,
		engine: engine,
	}
}

func currentUser(c *gin.Context) string {
	return c.GetString(api.ContextUserID)
}
