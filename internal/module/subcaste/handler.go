package subcaste

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/memberbase/internal/domain"
	"github.com/simp-lee/memberbase/internal/export"
	"github.com/simp-lee/memberbase/internal/listctrl"
	"github.com/simp-lee/memberbase/internal/middleware"
	"github.com/simp-lee/memberbase/internal/pkg"
)

// SubcasteHandler handles the subcaste screen's JSON API.
type SubcasteHandler struct {
	svc *Service
}

// NewHandler creates a SubcasteHandler.
func NewHandler(svc *Service) *SubcasteHandler {
	return &SubcasteHandler{svc: svc}
}

func (h *SubcasteHandler) controller(c *gin.Context) *listctrl.Controller[domain.Subcaste] {
	sess := middleware.CurrentSession(c)
	ctrl := h.svc.Controller(sess.ID)
	if ctrl.State() == listctrl.StateIdle {
		ctrl.Activate(c.Request.Context())
	}
	return ctrl
}

func snapshot(ctrl *listctrl.Controller[domain.Subcaste]) StateResponse {
	return StateResponse{
		Collection: ctrl.Collection(),
		Query:      ctrl.Query(),
		Loading:    ctrl.Loading(),
		State:      ctrl.State(),
	}
}

// State handles GET /api/v1/subcastes.
func (h *SubcasteHandler) State(c *gin.Context) {
	pkg.Success(c, snapshot(h.controller(c)))
}

// Search handles POST /api/v1/subcastes/search.
func (h *SubcasteHandler) Search(c *gin.Context) {
	var req SearchRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	ctrl := h.controller(c)
	ctrl.Search(c.Request.Context(), req.Query)
	pkg.Success(c, snapshot(ctrl))
}

// Page handles POST /api/v1/subcastes/page.
func (h *SubcasteHandler) Page(c *gin.Context) {
	var req PageChangeRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	ctrl := h.controller(c)
	ctrl.SetPage(c.Request.Context(), req.Page)
	pkg.Success(c, snapshot(ctrl))
}

// Filter handles POST /api/v1/subcastes/filter. Unlike search, the filter
// applies immediately.
func (h *SubcasteHandler) Filter(c *gin.Context) {
	var req FilterRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	sess := middleware.CurrentSession(c)
	h.controller(c)
	h.svc.FilterByCaste(c.Request.Context(), sess.ID, req.CasteID)
	pkg.Success(c, snapshot(h.svc.Controller(sess.ID)))
}

// Create handles POST /api/v1/subcastes.
func (h *SubcasteHandler) Create(c *gin.Context) {
	var req CreateSubcasteRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	sess := middleware.CurrentSession(c)
	if err := h.svc.Create(c.Request.Context(), sess, req.Name, req.CasteID); err != nil {
		pkg.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, pkg.Response{
		Code:    http.StatusCreated,
		Message: "success",
		Data:    snapshot(h.svc.Controller(sess.ID)),
	})
}

// Update handles PUT /api/v1/subcastes/:id.
func (h *SubcasteHandler) Update(c *gin.Context) {
	var req UpdateSubcasteRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	sess := middleware.CurrentSession(c)
	if err := h.svc.Update(c.Request.Context(), sess, c.Param("id"), req.Name, req.CasteID); err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, snapshot(h.svc.Controller(sess.ID)))
}

// Delete handles DELETE /api/v1/subcastes/:id.
func (h *SubcasteHandler) Delete(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	if err := h.svc.Delete(c.Request.Context(), sess, c.Param("id")); err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, snapshot(h.svc.Controller(sess.ID)))
}

// Export handles GET /api/v1/subcastes/export?format=csv|xlsx.
func (h *SubcasteHandler) Export(c *gin.Context) {
	ctrl := h.controller(c)
	collection := ctrl.Collection()

	sheet := export.Sheet{
		Name:    "Subcastes",
		Headers: []string{"ID", "Name", "Caste ID", "Created At"},
	}
	for _, sc := range collection.Docs {
		sheet.Rows = append(sheet.Rows, []string{
			sc.ID,
			sc.Name,
			sc.CasteID,
			sc.CreatedAt,
		})
	}

	format := export.ParseFormat(c.Query("format"))
	c.Header("Content-Type", format.ContentType())
	c.Header("Content-Disposition", "attachment; filename="+format.Filename("subcastes"))
	if err := export.Write(c.Writer, format, sheet); err != nil {
		pkg.Error(c, domain.NewAppError(domain.CodeInternal, "export failed", err))
	}
}
