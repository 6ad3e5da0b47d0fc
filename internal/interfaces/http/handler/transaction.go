package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	creditapp "github.com/elektromeistras/creditledger/internal/application/credit"
)

// TransactionHandler handles credit transaction API endpoints
type TransactionHandler struct {
	BaseHandler
	transactionService *creditapp.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *creditapp.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
	}
}

// ProjectBalanceRequest previews the balance effect of a draft transaction
type ProjectBalanceRequest struct {
	CustomerID uuid.UUID       `json:"customer_id" binding:"required"`
	Type       string          `json:"type" binding:"required,oneof=PICKUP RETURN"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
}

// ProjectBalanceResponse carries the projected balance and an optional
// over limit warning
type ProjectBalanceResponse struct {
	ProjectedBalance decimal.Decimal            `json:"projected_balance"`
	OverLimitWarning *creditapp.OverLimitWarning `json:"over_limit_warning,omitempty"`
}

// Create godoc
// @ID           createTransaction
// @Summary      Create a credit transaction
// @Description  Opens a PENDING pickup or return. An over limit warning is advisory and never blocks creation.
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        request body creditapp.CreateTransactionRequest true "Transaction creation request"
// @Success      201 {object} APIResponse[creditapp.TransactionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /credit/transactions [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	var req creditapp.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.transactionService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// CreateQuickPickup godoc
// @ID           createQuickPickup
// @Summary      Create a pickup by customer code
// @Description  Counter flow: staff identifies the customer by card code instead of ID
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        request body creditapp.CreateQuickPickupRequest true "Quick pickup request"
// @Success      201 {object} APIResponse[creditapp.TransactionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /credit/transactions/quick-pickup [post]
func (h *TransactionHandler) CreateQuickPickup(c *gin.Context) {
	var req creditapp.CreateQuickPickupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.transactionService.CreateQuickPickup(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// CreateReturnFromPickup godoc
// @ID           createReturnFromPickup
// @Summary      Create a return referencing a confirmed pickup
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        request body creditapp.CreateReturnFromPickupRequest true "Return from pickup request"
// @Success      201 {object} APIResponse[creditapp.TransactionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /credit/transactions/return-from-pickup [post]
func (h *TransactionHandler) CreateReturnFromPickup(c *gin.Context) {
	var req creditapp.CreateReturnFromPickupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.transactionService.CreateReturnFromPickup(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// Confirm godoc
// @ID           confirmTransaction
// @Summary      Confirm a pending transaction
// @Description  Requires signature data. Confirmation applies the balance change atomically.
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        id path string true "Transaction ID"
// @Param        request body creditapp.ConfirmTransactionRequest true "Confirmation request"
// @Success      200 {object} APIResponse[creditapp.TransactionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /credit/transactions/{id}/confirm [post]
func (h *TransactionHandler) Confirm(c *gin.Context) {
	transactionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid transaction ID")
		return
	}

	var req creditapp.ConfirmTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.transactionService.Confirm(c.Request.Context(), transactionID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Cancel godoc
// @ID           cancelTransaction
// @Summary      Cancel a pending transaction
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        id path string true "Transaction ID"
// @Param        request body creditapp.CancelTransactionRequest true "Cancellation request"
// @Success      200 {object} APIResponse[creditapp.TransactionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /credit/transactions/{id}/cancel [post]
func (h *TransactionHandler) Cancel(c *gin.Context) {
	transactionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid transaction ID")
		return
	}

	var req creditapp.CancelTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.transactionService.Cancel(c.Request.Context(), transactionID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// MarkInvoiced godoc
// @ID           markTransactionInvoiced
// @Summary      Link a confirmed transaction to an invoice
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        id path string true "Transaction ID"
// @Param        request body creditapp.MarkInvoicedRequest true "Invoice reference"
// @Success      200 {object} APIResponse[creditapp.TransactionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /credit/transactions/{id}/invoice [post]
func (h *TransactionHandler) MarkInvoiced(c *gin.Context) {
	transactionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid transaction ID")
		return
	}

	var req creditapp.MarkInvoicedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.transactionService.MarkInvoiced(c.Request.Context(), transactionID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Reverse godoc
// @ID           reverseTransaction
// @Summary      Reverse a confirmed transaction
// @Description  Creates a compensating transaction of the opposite type
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        id path string true "Transaction ID"
// @Param        request body creditapp.ReverseTransactionRequest true "Reversal request"
// @Success      201 {object} APIResponse[creditapp.TransactionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /credit/transactions/{id}/reverse [post]
func (h *TransactionHandler) Reverse(c *gin.Context) {
	transactionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid transaction ID")
		return
	}

	var req creditapp.ReverseTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.transactionService.Reverse(c.Request.Context(), transactionID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// GetByID godoc
// @ID           getTransaction
// @Summary      Get a transaction by ID
// @Tags         transactions
// @Produce      json
// @Param        id path string true "Transaction ID"
// @Success      200 {object} APIResponse[creditapp.TransactionResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /credit/transactions/{id} [get]
func (h *TransactionHandler) GetByID(c *gin.Context) {
	transactionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid transaction ID")
		return
	}

	resp, err := h.transactionService.GetByID(c.Request.Context(), transactionID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetByNumber godoc
// @ID           getTransactionByNumber
// @Summary      Get a transaction by number
// @Tags         transactions
// @Produce      json
// @Param        number path string true "Transaction number"
// @Success      200 {object} APIResponse[creditapp.TransactionResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /credit/transactions/number/{number} [get]
func (h *TransactionHandler) GetByNumber(c *gin.Context) {
	number := c.Param("number")
	if number == "" {
		h.BadRequest(c, "Transaction number is required")
		return
	}

	resp, err := h.transactionService.GetByNumber(c.Request.Context(), number)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// List godoc
// @ID           listTransactions
// @Summary      List transactions
// @Tags         transactions
// @Produce      json
// @Param        customer_id query string false "Filter by customer ID"
// @Param        type query string false "Filter by type" Enums(PICKUP, RETURN)
// @Param        status query string false "Filter by status" Enums(PENDING, CONFIRMED, INVOICED, CANCELLED)
// @Param        date_from query string false "Start date (YYYY-MM-DD)"
// @Param        date_to query string false "End date (YYYY-MM-DD)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]creditapp.TransactionListResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /credit/transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
	var filter creditapp.TransactionListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	transactions, total, err := h.transactionService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, transactions, total, page, pageSize)
}

// Search godoc
// @ID           searchTransactions
// @Summary      Search transactions
// @Description  Matches transaction number, customer code or customer name
// @Tags         transactions
// @Produce      json
// @Param        q query string true "Search query"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]creditapp.TransactionListResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /credit/transactions/search [get]
func (h *TransactionHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		h.BadRequest(c, "Search query is required")
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	transactions, total, err := h.transactionService.Search(c.Request.Context(), query, page, pageSize)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, transactions, total, page, pageSize)
}

// Recent godoc
// @ID           recentTransactions
// @Summary      Get a customer's most recent transactions
// @Tags         transactions
// @Produce      json
// @Param        customer_id path string true "Customer ID"
// @Param        limit query int false "Maximum number of results" default(10)
// @Success      200 {object} APIResponse[[]creditapp.TransactionListResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /credit/customers/{customer_id}/transactions/recent [get]
func (h *TransactionHandler) Recent(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("customer_id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	transactions, err := h.transactionService.Recent(c.Request.Context(), customerID, limit)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, transactions)
}

// Pending godoc
// @ID           pendingTransactions
// @Summary      Get a customer's pending transactions
// @Tags         transactions
// @Produce      json
// @Param        customer_id path string true "Customer ID"
// @Success      200 {object} APIResponse[[]creditapp.TransactionListResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /credit/customers/{customer_id}/transactions/pending [get]
func (h *TransactionHandler) Pending(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("customer_id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	transactions, err := h.transactionService.Pending(c.Request.Context(), customerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, transactions)
}

// MonthlyStatement godoc
// @ID           monthlyStatement
// @Summary      Get a customer's monthly statement
// @Description  Confirmed and invoiced transactions for the given month with totals
// @Tags         transactions
// @Produce      json
// @Param        customer_id path string true "Customer ID"
// @Param        year query int false "Statement year (defaults to current)"
// @Param        month query int false "Statement month 1-12 (defaults to current)"
// @Success      200 {object} APIResponse[creditapp.StatementResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /credit/customers/{customer_id}/statement [get]
func (h *TransactionHandler) MonthlyStatement(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("customer_id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	now := time.Now()
	year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(now.Year())))
	if err != nil {
		h.BadRequest(c, "Invalid year")
		return
	}
	month, err := strconv.Atoi(c.DefaultQuery("month", strconv.Itoa(int(now.Month()))))
	if err != nil || month < 1 || month > 12 {
		h.BadRequest(c, "Invalid month")
		return
	}

	statement, err := h.transactionService.MonthlyStatement(c.Request.Context(), customerID, year, month)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, statement)
}

// ProjectBalance godoc
// @ID           projectBalance
// @Summary      Preview the balance effect of a draft transaction
// @Description  Returns the projected balance and a warning when it would exceed the credit limit. Advisory only.
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        request body ProjectBalanceRequest true "Projection request"
// @Success      200 {object} APIResponse[ProjectBalanceResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /credit/transactions/project-balance [post]
func (h *TransactionHandler) ProjectBalance(c *gin.Context) {
	var req ProjectBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	warning, projected, err := h.transactionService.ProjectBalance(c.Request.Context(), req.CustomerID, req.Type, req.Amount)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, ProjectBalanceResponse{
		ProjectedBalance: projected.Amount(),
		OverLimitWarning: warning,
	})
}
