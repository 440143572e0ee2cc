package job

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/memberbase/internal/domain"
	"github.com/simp-lee/memberbase/internal/export"
	"github.com/simp-lee/memberbase/internal/listctrl"
	"github.com/simp-lee/memberbase/internal/middleware"
	"github.com/simp-lee/memberbase/internal/pkg"
)

// JobHandler handles the job screen's JSON API.
type JobHandler struct {
	svc *Service
}

// NewHandler creates a JobHandler.
func NewHandler(svc *Service) *JobHandler {
	return &JobHandler{svc: svc}
}

func (h *JobHandler) controller(c *gin.Context) *listctrl.Controller[domain.Job] {
	sess := middleware.CurrentSession(c)
	ctrl := h.svc.Controller(sess.ID)
	if ctrl.State() == listctrl.StateIdle {
		ctrl.Activate(c.Request.Context())
	}
	return ctrl
}

func snapshot(ctrl *listctrl.Controller[domain.Job]) StateResponse {
	return StateResponse{
		Collection: ctrl.Collection(),
		Query:      ctrl.Query(),
		Loading:    ctrl.Loading(),
		State:      ctrl.State(),
	}
}

// State handles GET /api/v1/jobs.
func (h *JobHandler) State(c *gin.Context) {
	pkg.Success(c, snapshot(h.controller(c)))
}

// Search handles POST /api/v1/jobs/search.
func (h *JobHandler) Search(c *gin.Context) {
	var req SearchRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	ctrl := h.controller(c)
	ctrl.Search(c.Request.Context(), req.Query)
	pkg.Success(c, snapshot(ctrl))
}

// Page handles POST /api/v1/jobs/page.
func (h *JobHandler) Page(c *gin.Context) {
	var req PageChangeRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	ctrl := h.controller(c)
	ctrl.SetPage(c.Request.Context(), req.Page)
	pkg.Success(c, snapshot(ctrl))
}

// Filter handles POST /api/v1/jobs/filter.
func (h *JobHandler) Filter(c *gin.Context) {
	var req FilterRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	sess := middleware.CurrentSession(c)
	h.controller(c)
	h.svc.FilterByActive(c.Request.Context(), sess.ID, req.IsActive)
	pkg.Success(c, snapshot(h.svc.Controller(sess.ID)))
}

// Activate handles POST /api/v1/jobs/:id/activate.
func (h *JobHandler) Activate(c *gin.Context) {
	h.setActive(c, true)
}

// Deactivate handles POST /api/v1/jobs/:id/deactivate.
func (h *JobHandler) Deactivate(c *gin.Context) {
	h.setActive(c, false)
}

func (h *JobHandler) setActive(c *gin.Context, active bool) {
	sess := middleware.CurrentSession(c)
	if err := h.svc.SetActive(c.Request.Context(), sess, c.Param("id"), active); err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, snapshot(h.svc.Controller(sess.ID)))
}

// Export handles GET /api/v1/jobs/export?format=csv|xlsx.
func (h *JobHandler) Export(c *gin.Context) {
	ctrl := h.controller(c)
	collection := ctrl.Collection()

	sheet := export.Sheet{
		Name:    "Jobs",
		Headers: []string{"ID", "Title", "Company", "Location", "Active", "Created At"},
	}
	for _, j := range collection.Docs {
		sheet.Rows = append(sheet.Rows, []string{
			j.ID,
			j.Title,
			j.CompanyName,
			j.Location,
			strconv.FormatBool(j.IsActive),
			j.CreatedAt,
		})
	}

	format := export.ParseFormat(c.Query("format"))
	c.Header("Content-Type", format.ContentType())
	c.Header("Content-Disposition", "attachment; filename="+format.Filename("jobs"))
	if err := export.Write(c.Writer, format, sheet); err != nil {
		pkg.Error(c, domain.NewAppError(domain.CodeInternal, "export failed", err))
	}
}
