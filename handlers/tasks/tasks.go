package tasks

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"referral-outreach-server/outreach"
)

// Handler exposes the scheduled entry points so an external scheduler can
// drive the sweeps instead of (or in addition to) the in-process cron.
type Handler struct {
	Worker *outreach.Worker
}

func cronAuth(c *gin.Context) {
	secret := os.Getenv("CRON_SECRET")
	if secret == "" || c.GetHeader("X-Cron-Secret") != secret {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid cron secret"})
		c.Abort()
		return
	}
	c.Next()
}

func (h *Handler) DripSweep(c *gin.Context) {
	sent := h.Worker.RunDripSweep()
	c.JSON(http.StatusOK, gin.H{"sent": sent})
}

func (h *Handler) OpenerPass(c *gin.Context) {
	sent := h.Worker.RunOpenerPass(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"sent": sent})
}

func RegisterTaskRoutes(r *gin.Engine, w *outreach.Worker) {
	h := &Handler{Worker: w}
	r.POST("/tasks/drip-sweep", cronAuth, h.DripSweep)
	r.POST("/tasks/opener-pass", cronAuth, h.OpenerPass)
}
