package notification

import (
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/memberbase/internal/domain"
	"github.com/simp-lee/memberbase/internal/middleware"
	"github.com/simp-lee/memberbase/internal/notify"
	"github.com/simp-lee/memberbase/internal/pkg"
)

// NotificationHandler exposes the toast queue and confirmation prompts to
// the browser. Toasts are delivered either by polling Drain or over the
// websocket; prompts block a mutation request server-side until resolved here.
type NotificationHandler struct {
	center *notify.Center
	hub    *notify.Hub
}

// NewHandler creates a NotificationHandler.
func NewHandler(center *notify.Center, hub *notify.Hub) *NotificationHandler {
	return &NotificationHandler{center: center, hub: hub}
}

// Drain handles GET /api/v1/notifications. Returned toasts are removed
// from the queue.
func (h *NotificationHandler) Drain(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	toasts := h.center.Drain(sess.ID)
	if toasts == nil {
		toasts = []notify.Toast{}
	}
	pkg.Success(c, toasts)
}

// Pending handles GET /api/v1/prompts.
func (h *NotificationHandler) Pending(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	prompts := h.center.Pending(sess.ID)
	if prompts == nil {
		prompts = []notify.Prompt{}
	}
	pkg.Success(c, prompts)
}

// ResolveRequest is the browser's answer to a confirmation prompt.
type ResolveRequest struct {
	Accepted *bool `json:"accepted" binding:"required"`
}

// Resolve handles POST /api/v1/prompts/:id. Resolving a prompt unblocks
// the mutation request that opened it.
func (h *NotificationHandler) Resolve(c *gin.Context) {
	var req ResolveRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	sess := middleware.CurrentSession(c)
	if !h.center.Resolve(sess.ID, c.Param("id"), *req.Accepted) {
		pkg.Error(c, domain.NewAppError(domain.CodeNotFound, "prompt not found", nil))
		return
	}
	pkg.Success(c, gin.H{"resolved": true})
}

// Socket handles GET /api/v1/ws, upgrading to a websocket that streams
// toasts and prompt events for the session.
func (h *NotificationHandler) Socket(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	h.hub.ServeSocket(c.Writer, c.Request, sess.ID)
}
