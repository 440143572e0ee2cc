package gateway

// Admin endpoint paths, relative to the configured backend prefix. The
// management API grew organically and its naming is uneven; the paths below
// follow it as-is rather than inventing a tidier scheme the server does not
// speak.
const (
	EndpointAdminLogin = "/login"

	EndpointCasteList   = "/fetchAllCastes"
	EndpointCasteAdd    = "/addCaste"
	EndpointCasteUpdate = "/updateCaste"
	EndpointCasteDelete = "/deleteCaste"

	EndpointSubcasteList   = "/fetchAllSubcastes"
	EndpointSubcasteAdd    = "/addSubcaste"
	EndpointSubcasteUpdate = "/updateSubcaste"
	EndpointSubcasteDelete = "/deleteSubcaste"

	EndpointCircularList   = "/circulars"
	EndpointCircularAdd    = "/createCircular"
	EndpointCircularDelete = "/deleteCircular"

	EndpointJobList       = "/job/getJobs"
	EndpointJobDeactivate = "/jobPortal/deactivateJob"

	EndpointPollList   = "/fetchAdminPolls"
	EndpointPollCreate = "/createPoll"
	EndpointPollToggle = "/togglePoll"
	EndpointPollDelete = "/deletePoll"

	EndpointTransactionList           = "/fetchAdminTransactions"
	EndpointTransactionSetOpening     = "/setOpeningBalance"
	EndpointTransactionAddIncome      = "/addIncome"
	EndpointTransactionAddExpense     = "/addExpense"
	EndpointTransactionFetchBalance   = "/fetchBalance"
	EndpointTransactionAllWithBalance = "/fetchTransactionsWithBalance"
)
