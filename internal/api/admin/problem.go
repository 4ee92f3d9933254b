package admin

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"github.com/leetarena/arena/internal/apperr"
	"github.com/leetarena/arena/internal/contest"
	"github.com/leetarena/arena/internal/database"
	"github.com/leetarena/arena/internal/database/models"
	"github.com/leetarena/arena/internal/util"
	"go.uber.org/zap"
)

func (h *Handler) getAllProblems(c *gin.Context) {
	problems, err := database.GetAllProblems(h.db.WithContext(c.Request.Context()))
	if err != nil {
		util.Error(c, err)
		return
	}
	util.Success(c, problems, "All problems retrieved")
}

func (h *Handler) getProblem(c *gin.Context) {
	problem, err := database.GetProblem(h.db.WithContext(c.Request.Context()), c.Param("id"))
	if err != nil {
		util.Error(c, err)
		return
	}
	util.Success(c, problem, "Problem definition retrieved")
}

// createProblem registers a problem in the catalog. When no id is given the slug doubles as the id.
func (h *Handler) createProblem(c *gin.Context) {
	var req struct {
		ID         string            `json:"id" binding:"omitempty,max=64"`
		Title      string            `json:"title" binding:"required,max=200"`
		Difficulty models.Difficulty `json:"difficulty" binding:"required,oneof=easy medium hard"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, contest.ValidationError(err))
		return
	}

	problem := models.Problem{
		ID:         strings.TrimSpace(req.ID),
		Title:      strings.TrimSpace(req.Title),
		Slug:       slug.Make(req.Title),
		Difficulty: req.Difficulty,
	}
	if problem.Slug == "" {
		problem.Slug = slug.Make(problem.ID)
	}
	if problem.ID == "" {
		problem.ID = problem.Slug
	}
	if problem.ID == "" || problem.Slug == "" || problem.Title == "" {
		util.Error(c, apperr.Validation("a title with letters or digits, or an explicit id, is required"))
		return
	}
	if err := database.CreateProblem(h.db.WithContext(c.Request.Context()), &problem); err != nil {
		util.Error(c, err)
		return
	}

	zap.S().Infof("admin created problem '%s' (%s)", problem.Title, problem.ID)
	util.Created(c, problem, "Problem created successfully")
}
