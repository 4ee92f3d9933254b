package admin

import (
	"github.com/gin-gonic/gin"
	"github.com/leetarena/arena/internal/util"
	"go.uber.org/zap"
)

// reconcileParticipation rebuilds one participation's rollup from its submissions.
func (h *Handler) reconcileParticipation(c *gin.Context) {
	contestID, userID := c.Param("id"), c.Param("userID")
	p, err := h.engine.Reconcile(c.Request.Context(), contestID, userID)
	if err != nil {
		util.Error(c, err)
		return
	}

	zap.S().Infof("admin triggered score reconciliation for user %s in contest %s", userID, contestID)
	util.Success(c, p, "Participation reconciled successfully")
}

func (h *Handler) reconcileContest(c *gin.Context) {
	contestID := c.Param("id")
	n, err := h.engine.ReconcileContest(c.Request.Context(), contestID)
	if err != nil {
		util.Error(c, err)
		return
	}

	zap.S().Infof("admin triggered score reconciliation for contest %s", contestID)
	util.Success(c, gin.H{"reconciled": n}, "Contest reconciled successfully")
}
