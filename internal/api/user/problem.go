package user

import (
	"github.com/gin-gonic/gin"
	"github.com/leetarena/arena/internal/database"
	"github.com/leetarena/arena/internal/util"
)

func (h *Handler) getAllProblems(c *gin.Context) {
	problems, err := database.GetAllProblems(h.db.WithContext(c.Request.Context()))
	if err != nil {
		util.Error(c, err)
		return
	}
	util.Success(c, problems, "Problems retrieved successfully")
}

func (h *Handler) getProblem(c *gin.Context) {
	problem, err := database.GetProblem(h.db.WithContext(c.Request.Context()), c.Param("id"))
	if err != nil {
		util.Error(c, err)
		return
	}
	util.Success(c, problem, "Problem found")
}
