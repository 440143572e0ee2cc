package transaction

import "github.com/gin-gonic/gin"

// TransactionModule implements the app.Module interface for the ledger screen.
type TransactionModule struct {
	handler     *TransactionHandler
	pageHandler *TransactionPageHandler
}

// NewModule creates a TransactionModule. Panics if h or ph is nil.
func NewModule(h *TransactionHandler, ph *TransactionPageHandler) *TransactionModule {
	if h == nil {
		panic("transaction.NewModule: handler must not be nil")
	}
	if ph == nil {
		panic("transaction.NewModule: pageHandler must not be nil")
	}
	return &TransactionModule{handler: h, pageHandler: ph}
}

// RegisterRoutes registers transaction API and page routes.
func (m *TransactionModule) RegisterRoutes(api *gin.RouterGroup, pages *gin.RouterGroup) {
	api.GET("/transactions", m.handler.State)
	api.POST("/transactions/search", m.handler.Search)
	api.POST("/transactions/page", m.handler.Page)
	api.POST("/transactions/filter", m.handler.Filter)
	api.POST("/transactions/opening-balance", m.handler.SetOpening)
	api.POST("/transactions/income", m.handler.AddIncome)
	api.POST("/transactions/expense", m.handler.AddExpense)
	api.GET("/transactions/export", m.handler.Export)

	pages.GET("/transactions", m.pageHandler.ListPage)
}
