package circular

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/memberbase/internal/domain"
	"github.com/simp-lee/memberbase/internal/export"
	"github.com/simp-lee/memberbase/internal/listctrl"
	"github.com/simp-lee/memberbase/internal/middleware"
	"github.com/simp-lee/memberbase/internal/pkg"
)

// CircularHandler handles the circular screen's JSON API.
type CircularHandler struct {
	svc *Service
}

// NewHandler creates a CircularHandler.
func NewHandler(svc *Service) *CircularHandler {
	return &CircularHandler{svc: svc}
}

func (h *CircularHandler) controller(c *gin.Context) *listctrl.Controller[domain.Circular] {
	sess := middleware.CurrentSession(c)
	ctrl := h.svc.Controller(sess.ID)
	if ctrl.State() == listctrl.StateIdle {
		ctrl.Activate(c.Request.Context())
	}
	return ctrl
}

func snapshot(ctrl *listctrl.Controller[domain.Circular]) StateResponse {
	return StateResponse{
		Collection: ctrl.Collection(),
		Query:      ctrl.Query(),
		Loading:    ctrl.Loading(),
		State:      ctrl.State(),
	}
}

// State handles GET /api/v1/circulars.
func (h *CircularHandler) State(c *gin.Context) {
	pkg.Success(c, snapshot(h.controller(c)))
}

// Search handles POST /api/v1/circulars/search.
func (h *CircularHandler) Search(c *gin.Context) {
	var req SearchRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	ctrl := h.controller(c)
	ctrl.Search(c.Request.Context(), req.Query)
	pkg.Success(c, snapshot(ctrl))
}

// Page handles POST /api/v1/circulars/page.
func (h *CircularHandler) Page(c *gin.Context) {
	var req PageChangeRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	ctrl := h.controller(c)
	ctrl.SetPage(c.Request.Context(), req.Page)
	pkg.Success(c, snapshot(ctrl))
}

// Create handles POST /api/v1/circulars. Expects multipart form data; the
// attachment part is named "file" and is optional.
func (h *CircularHandler) Create(c *gin.Context) {
	var req CreateCircularRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	var attachment *Attachment
	if fileHeader, err := c.FormFile("file"); err == nil {
		f, err := fileHeader.Open()
		if err != nil {
			pkg.Error(c, domain.NewAppError(domain.CodeValidation, "could not read the attached file", err))
			return
		}
		defer f.Close()
		attachment = &Attachment{Filename: fileHeader.Filename, Content: f}
	}

	sess := middleware.CurrentSession(c)
	if err := h.svc.Publish(c.Request.Context(), sess, req.Title, req.Description, attachment); err != nil {
		pkg.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, pkg.Response{
		Code:    http.StatusCreated,
		Message: "success",
		Data:    snapshot(h.svc.Controller(sess.ID)),
	})
}

// Delete handles DELETE /api/v1/circulars/:id.
func (h *CircularHandler) Delete(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	if err := h.svc.Withdraw(c.Request.Context(), sess, c.Param("id")); err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, snapshot(h.svc.Controller(sess.ID)))
}

// Export handles GET /api/v1/circulars/export?format=csv|xlsx.
func (h *CircularHandler) Export(c *gin.Context) {
	ctrl := h.controller(c)
	collection := ctrl.Collection()

	sheet := export.Sheet{
		Name:    "Circulars",
		Headers: []string{"ID", "Title", "Description", "File URL", "Created At"},
	}
	for _, circ := range collection.Docs {
		sheet.Rows = append(sheet.Rows, []string{
			circ.ID,
			circ.Title,
			circ.Description,
			circ.FileURL,
			circ.CreatedAt,
		})
	}

	format := export.ParseFormat(c.Query("format"))
	c.Header("Content-Type", format.ContentType())
	c.Header("Content-Disposition", "attachment; filename="+format.Filename("circulars"))
	if err := export.Write(c.Writer, format, sheet); err != nil {
		pkg.Error(c, domain.NewAppError(domain.CodeInternal, "export failed", err))
	}
}
