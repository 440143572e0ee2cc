package caste

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/memberbase/internal/domain"
	"github.com/simp-lee/memberbase/internal/export"
	"github.com/simp-lee/memberbase/internal/listctrl"
	"github.com/simp-lee/memberbase/internal/middleware"
	"github.com/simp-lee/memberbase/internal/pkg"
)

// CasteHandler handles the caste screen's JSON API.
type CasteHandler struct {
	svc *Service
}

// NewHandler creates a CasteHandler.
func NewHandler(svc *Service) *CasteHandler {
	return &CasteHandler{svc: svc}
}

// controller resolves the requesting session's controller, running the
// initial fetch the first time the screen is touched.
func (h *CasteHandler) controller(c *gin.Context) *listctrl.Controller[domain.Caste] {
	sess := middleware.CurrentSession(c)
	ctrl := h.svc.Controller(sess.ID)
	if ctrl.State() == listctrl.StateIdle {
		ctrl.Activate(c.Request.Context())
	}
	return ctrl
}

func snapshot(ctrl *listctrl.Controller[domain.Caste]) StateResponse {
	return StateResponse{
		Collection: ctrl.Collection(),
		Query:      ctrl.Query(),
		Loading:    ctrl.Loading(),
		State:      ctrl.State(),
	}
}

// State handles GET /api/v1/castes.
func (h *CasteHandler) State(c *gin.Context) {
	pkg.Success(c, snapshot(h.controller(c)))
}

// Search handles POST /api/v1/castes/search. The fetch is debounced; the
// response reflects the state before it fires.
func (h *CasteHandler) Search(c *gin.Context) {
	var req SearchRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	ctrl := h.controller(c)
	ctrl.Search(c.Request.Context(), req.Query)
	pkg.Success(c, snapshot(ctrl))
}

// Page handles POST /api/v1/castes/page.
func (h *CasteHandler) Page(c *gin.Context) {
	var req PageChangeRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	ctrl := h.controller(c)
	ctrl.SetPage(c.Request.Context(), req.Page)
	pkg.Success(c, snapshot(ctrl))
}

// Create handles POST /api/v1/castes.
func (h *CasteHandler) Create(c *gin.Context) {
	var req CreateCasteRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	sess := middleware.CurrentSession(c)
	if err := h.svc.Create(c.Request.Context(), sess, req.Name); err != nil {
		pkg.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, pkg.Response{
		Code:    http.StatusCreated,
		Message: "success",
		Data:    snapshot(h.svc.Controller(sess.ID)),
	})
}

// Update handles PUT /api/v1/castes/:id.
func (h *CasteHandler) Update(c *gin.Context) {
	var req UpdateCasteRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	sess := middleware.CurrentSession(c)
	if err := h.svc.Update(c.Request.Context(), sess, c.Param("id"), req.Name); err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, snapshot(h.svc.Controller(sess.ID)))
}

// Delete handles DELETE /api/v1/castes/:id. It blocks on the confirmation
// prompt; a decline resolves the request with the unchanged snapshot.
func (h *CasteHandler) Delete(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	if err := h.svc.Delete(c.Request.Context(), sess, c.Param("id")); err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, snapshot(h.svc.Controller(sess.ID)))
}

// Export handles GET /api/v1/castes/export?format=csv|xlsx. It exports the
// list exactly as currently filtered.
func (h *CasteHandler) Export(c *gin.Context) {
	ctrl := h.controller(c)
	collection := ctrl.Collection()

	sheet := export.Sheet{
		Name:    "Castes",
		Headers: []string{"ID", "Name", "Created At"},
	}
	for _, caste := range collection.Docs {
		sheet.Rows = append(sheet.Rows, []string{
			caste.ID,
			caste.Name,
			caste.CreatedAt,
		})
	}

	format := export.ParseFormat(c.Query("format"))
	c.Header("Content-Type", format.ContentType())
	c.Header("Content-Disposition", "attachment; filename="+format.Filename("castes"))
	if err := export.Write(c.Writer, format, sheet); err != nil {
		pkg.Error(c, domain.NewAppError(domain.CodeInternal, "export failed", err))
	}
}
