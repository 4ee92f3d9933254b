package admin

import (
	"github.com/leetarena/arena/internal/config"
	"github.com/leetarena/arena/internal/contest"
	"gorm.io/gorm"
)

// Handler holds all dependencies for the admin API handlers.
type Handler struct {
	cfg    *config.Config
	db     *gorm.DB
	engine *contest.Engine
}

// NewHandler creates a new admin handler with its dependencies.
func NewHandler(cfg *config.Config, db *gorm.DB, engine *contest.Engine) *Handler {
	return &Handler{
		cfg:    cfg,
		db:     db,
		engine: engine,
	}
}
