package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	returnsapp "github.com/elektromeistras/creditledger/internal/application/returns"
)

// ReturnHandler handles return case API endpoints
type ReturnHandler struct {
	BaseHandler
	returnService *returnsapp.ReturnService
}

// NewReturnHandler creates a new ReturnHandler
func NewReturnHandler(returnService *returnsapp.ReturnService) *ReturnHandler {
	return &ReturnHandler{
		returnService: returnService,
	}
}

// Create godoc
// @ID           createReturn
// @Summary      Open a return case
// @Tags         returns
// @Accept       json
// @Produce      json
// @Param        request body returnsapp.CreateReturnRequest true "Return creation request"
// @Success      201 {object} APIResponse[returnsapp.ReturnResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /returns [post]
func (h *ReturnHandler) Create(c *gin.Context) {
	var req returnsapp.CreateReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.returnService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// Approve godoc
// @ID           approveReturn
// @Summary      Approve a pending return
// @Tags         returns
// @Accept       json
// @Produce      json
// @Param        id path string true "Return ID"
// @Param        request body returnsapp.ApproveReturnRequest true "Approval request"
// @Success      200 {object} APIResponse[returnsapp.ReturnResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /returns/{id}/approve [post]
func (h *ReturnHandler) Approve(c *gin.Context) {
	returnID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid return ID")
		return
	}

	var req returnsapp.ApproveReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.returnService.Approve(c.Request.Context(), returnID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Reject godoc
// @ID           rejectReturn
// @Summary      Reject a pending return
// @Tags         returns
// @Accept       json
// @Produce      json
// @Param        id path string true "Return ID"
// @Param        request body returnsapp.RejectReturnRequest true "Rejection request"
// @Success      200 {object} APIResponse[returnsapp.ReturnResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /returns/{id}/reject [post]
func (h *ReturnHandler) Reject(c *gin.Context) {
	returnID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid return ID")
		return
	}

	var req returnsapp.RejectReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.returnService.Reject(c.Request.Context(), returnID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// MarkInTransit godoc
// @ID           markReturnInTransit
// @Summary      Record carrier handoff for an approved return
// @Tags         returns
// @Accept       json
// @Produce      json
// @Param        id path string true "Return ID"
// @Param        request body returnsapp.MarkInTransitRequest true "Carrier details"
// @Success      200 {object} APIResponse[returnsapp.ReturnResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /returns/{id}/in-transit [post]
func (h *ReturnHandler) MarkInTransit(c *gin.Context) {
	returnID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid return ID")
		return
	}

	var req returnsapp.MarkInTransitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.returnService.MarkInTransit(c.Request.Context(), returnID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// MarkReceived godoc
// @ID           markReturnReceived
// @Summary      Record warehouse receipt of returned goods
// @Tags         returns
// @Accept       json
// @Produce      json
// @Param        id path string true "Return ID"
// @Param        request body returnsapp.MarkReceivedRequest true "Receipt details"
// @Success      200 {object} APIResponse[returnsapp.ReturnResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /returns/{id}/receive [post]
func (h *ReturnHandler) MarkReceived(c *gin.Context) {
	returnID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid return ID")
		return
	}

	var req returnsapp.MarkReceivedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.returnService.MarkReceived(c.Request.Context(), returnID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Inspect godoc
// @ID           inspectReturn
// @Summary      Record inspection results for a received return
// @Description  Every line must be inspected and accepted plus rejected must equal the returned quantity
// @Tags         returns
// @Accept       json
// @Produce      json
// @Param        id path string true "Return ID"
// @Param        request body returnsapp.InspectReturnRequest true "Inspection results"
// @Success      200 {object} APIResponse[returnsapp.ReturnResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /returns/{id}/inspect [post]
func (h *ReturnHandler) Inspect(c *gin.Context) {
	returnID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid return ID")
		return
	}

	var req returnsapp.InspectReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.returnService.Inspect(c.Request.Context(), returnID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Restock godoc
// @ID           restockReturn
// @Summary      Restock accepted items from an inspected return
// @Description  Only reasons that allow restock and items in restockable condition qualify
// @Tags         returns
// @Produce      json
// @Param        id path string true "Return ID"
// @Success      200 {object} APIResponse[returnsapp.ReturnResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /returns/{id}/restock [post]
func (h *ReturnHandler) Restock(c *gin.Context) {
	returnID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid return ID")
		return
	}

	resp, err := h.returnService.Restock(c.Request.Context(), returnID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// ProcessRefund godoc
// @ID           processReturnRefund
// @Summary      Record the refund payout for an inspected return
// @Description  The refund cannot exceed the value of accepted items
// @Tags         returns
// @Accept       json
// @Produce      json
// @Param        id path string true "Return ID"
// @Param        request body returnsapp.ProcessRefundRequest true "Refund details"
// @Success      200 {object} APIResponse[returnsapp.ReturnResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /returns/{id}/refund [post]
func (h *ReturnHandler) ProcessRefund(c *gin.Context) {
	returnID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid return ID")
		return
	}

	var req returnsapp.ProcessRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.returnService.ProcessRefund(c.Request.Context(), returnID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetByID godoc
// @ID           getReturn
// @Summary      Get a return case by ID
// @Tags         returns
// @Produce      json
// @Param        id path string true "Return ID"
// @Success      200 {object} APIResponse[returnsapp.ReturnResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /returns/{id} [get]
func (h *ReturnHandler) GetByID(c *gin.Context) {
	returnID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid return ID")
		return
	}

	resp, err := h.returnService.GetByID(c.Request.Context(), returnID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetByNumber godoc
// @ID           getReturnByNumber
// @Summary      Get a return case by number
// @Tags         returns
// @Produce      json
// @Param        number path string true "Return number"
// @Success      200 {object} APIResponse[returnsapp.ReturnResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /returns/number/{number} [get]
func (h *ReturnHandler) GetByNumber(c *gin.Context) {
	number := c.Param("number")
	if number == "" {
		h.BadRequest(c, "Return number is required")
		return
	}

	resp, err := h.returnService.GetByNumber(c.Request.Context(), number)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// List godoc
// @ID           listReturns
// @Summary      List return cases
// @Tags         returns
// @Produce      json
// @Param        customer_id query string false "Filter by customer ID"
// @Param        status query string false "Filter by status" Enums(PENDING, APPROVED, IN_TRANSIT, RECEIVED, INSPECTED, COMPLETED, REJECTED)
// @Param        reason_code query string false "Filter by reason code"
// @Param        order_number query string false "Filter by order number"
// @Param        date_from query string false "Start date (YYYY-MM-DD)"
// @Param        date_to query string false "End date (YYYY-MM-DD)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]returnsapp.ReturnListResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /returns [get]
func (h *ReturnHandler) List(c *gin.Context) {
	var filter returnsapp.ReturnListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cases, total, err := h.returnService.List(c.Request.Context(), filter)
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
	h.SuccessWithMeta(c, cases, total, page, pageSize)
}

// ListReasons godoc
// @ID           listReturnReasons
// @Summary      List active return reasons
// @Tags         returns
// @Produce      json
// @Success      200 {object} APIResponse[[]returnsapp.ReasonResponse]
// @Router       /returns/reasons [get]
func (h *ReturnHandler) ListReasons(c *gin.Context) {
	reasons, err := h.returnService.ListReasons(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, reasons)
}
