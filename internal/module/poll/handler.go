package poll

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/memberbase/internal/domain"
	"github.com/simp-lee/memberbase/internal/export"
	"github.com/simp-lee/memberbase/internal/listctrl"
	"github.com/simp-lee/memberbase/internal/middleware"
	"github.com/simp-lee/memberbase/internal/pkg"
)

// PollHandler handles the poll screen's JSON API.
type PollHandler struct {
	svc *Service
}

// NewHandler creates a PollHandler.
func NewHandler(svc *Service) *PollHandler {
	return &PollHandler{svc: svc}
}

func (h *PollHandler) controller(c *gin.Context) *listctrl.Controller[domain.Poll] {
	sess := middleware.CurrentSession(c)
	ctrl := h.svc.Controller(sess.ID)
	if ctrl.State() == listctrl.StateIdle {
		ctrl.Activate(c.Request.Context())
	}
	return ctrl
}

func snapshot(ctrl *listctrl.Controller[domain.Poll]) StateResponse {
	return StateResponse{
		Collection: ctrl.Collection(),
		Query:      ctrl.Query(),
		Loading:    ctrl.Loading(),
		State:      ctrl.State(),
	}
}

// State handles GET /api/v1/polls.
func (h *PollHandler) State(c *gin.Context) {
	pkg.Success(c, snapshot(h.controller(c)))
}

// Search handles POST /api/v1/polls/search.
func (h *PollHandler) Search(c *gin.Context) {
	var req SearchRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	ctrl := h.controller(c)
	ctrl.Search(c.Request.Context(), req.Query)
	pkg.Success(c, snapshot(ctrl))
}

// Page handles POST /api/v1/polls/page.
func (h *PollHandler) Page(c *gin.Context) {
	var req PageChangeRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	ctrl := h.controller(c)
	ctrl.SetPage(c.Request.Context(), req.Page)
	pkg.Success(c, snapshot(ctrl))
}

// Create handles POST /api/v1/polls.
func (h *PollHandler) Create(c *gin.Context) {
	var req CreatePollRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	sess := middleware.CurrentSession(c)
	if err := h.svc.Create(c.Request.Context(), sess, req); err != nil {
		pkg.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, pkg.Response{
		Code:    http.StatusCreated,
		Message: "success",
		Data:    snapshot(h.svc.Controller(sess.ID)),
	})
}

// Toggle handles POST /api/v1/polls/:id/toggle.
func (h *PollHandler) Toggle(c *gin.Context) {
	var req ToggleRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	sess := middleware.CurrentSession(c)
	if err := h.svc.SetActive(c.Request.Context(), sess, c.Param("id"), *req.IsActive); err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, snapshot(h.svc.Controller(sess.ID)))
}

// Delete handles DELETE /api/v1/polls/:id.
func (h *PollHandler) Delete(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	if err := h.svc.Delete(c.Request.Context(), sess, c.Param("id")); err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, snapshot(h.svc.Controller(sess.ID)))
}

// Export handles GET /api/v1/polls/export?format=csv|xlsx. Each poll flattens
// to one row; options are joined with their tallies.
func (h *PollHandler) Export(c *gin.Context) {
	ctrl := h.controller(c)
	collection := ctrl.Collection()

	sheet := export.Sheet{
		Name:    "Polls",
		Headers: []string{"ID", "Title", "Total Votes", "Active", "Expiry", "Options"},
	}
	for _, p := range collection.Docs {
		options := ""
		for i, opt := range p.Options {
			if i > 0 {
				options += "; "
			}
			options += opt.Text + " (" + strconv.Itoa(opt.VoteCount) + ")"
		}
		sheet.Rows = append(sheet.Rows, []string{
			p.ID,
			p.Title,
			strconv.Itoa(p.TotalVotes),
			strconv.FormatBool(p.IsActive),
			p.ExpiryDate,
			options,
		})
	}

	format := export.ParseFormat(c.Query("format"))
	c.Header("Content-Type", format.ContentType())
	c.Header("Content-Disposition", "attachment; filename="+format.Filename("polls"))
	if err := export.Write(c.Writer, format, sheet); err != nil {
		pkg.Error(c, domain.NewAppError(domain.CodeInternal, "export failed", err))
	}
}
