package returns

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/elektromeistras/creditledger/internal/domain/partner"
	"github.com/elektromeistras/creditledger/internal/domain/returns"
	"github.com/elektromeistras/creditledger/internal/domain/shared"
	"github.com/elektromeistras/creditledger/internal/domain/shared/valueobject"
)

// ReturnService handles the return case workflow
type ReturnService struct {
	returnRepo     returns.ReturnCaseRepository
	reasonRepo     returns.ReturnReasonRepository
	customerRepo   partner.CustomerRepository
	eventPublisher shared.EventPublisher
	now            func() time.Time
}

// SetEventPublisher enables domain event publication after successful
// state changes. When unset, events are silently discarded.
func (s *ReturnService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *ReturnService) publishEvents(ctx context.Context, rc *returns.ReturnCase) {
	if s.eventPublisher == nil {
		return
	}
	events := rc.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	rc.ClearDomainEvents()
}

// NewReturnService creates a new ReturnService
func NewReturnService(
	returnRepo returns.ReturnCaseRepository,
	reasonRepo returns.ReturnReasonRepository,
	customerRepo partner.CustomerRepository,
) *ReturnService {
	return &ReturnService{
		returnRepo:   returnRepo,
		reasonRepo:   reasonRepo,
		customerRepo: customerRepo,
		now:          time.Now,
	}
}

// Create opens a new return case in PENDING status. The return number
// is allocated by the repository (RET-yyyyMMdd-NNNN, sequential per day).
func (s *ReturnService) Create(ctx context.Context, req CreateReturnRequest) (*ReturnResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}

	reason, err := s.reasonRepo.FindByCode(ctx, req.ReasonCode)
	if err != nil {
		return nil, err
	}

	returnNumber, err := s.returnRepo.NextReturnNumber(ctx, s.now())
	if err != nil {
		return nil, err
	}

	rc, err := returns.NewReturnCase(returnNumber, req.OrderNumber, customer, reason,
		returns.ReturnType(req.Type), req.CustomerComments)
	if err != nil {
		return nil, err
	}

	for _, lr := range req.Lines {
		unitPrice, err := valueobject.NewMoney(lr.UnitPrice, valueobject.EUR)
		if err != nil {
			return nil, err
		}
		if _, err := rc.AddLine(lr.ProductID, lr.ProductCode, lr.ProductName, lr.QuantityReturned, unitPrice); err != nil {
			return nil, err
		}
	}

	if err := s.returnRepo.Save(ctx, rc); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, rc)

	response := ToReturnResponse(rc)
	return &response, nil
}

// Approve approves a pending return case
func (s *ReturnService) Approve(ctx context.Context, returnID uuid.UUID, req ApproveReturnRequest) (*ReturnResponse, error) {
	rc, err := s.returnRepo.FindByID(ctx, returnID)
	if err != nil {
		return nil, err
	}

	if err := rc.Approve(req.ApprovedBy, req.Notes); err != nil {
		return nil, err
	}

	if err := s.returnRepo.SaveWithLock(ctx, rc); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, rc)

	response := ToReturnResponse(rc)
	return &response, nil
}

// Reject rejects a pending return case. Terminal.
func (s *ReturnService) Reject(ctx context.Context, returnID uuid.UUID, req RejectReturnRequest) (*ReturnResponse, error) {
	rc, err := s.returnRepo.FindByID(ctx, returnID)
	if err != nil {
		return nil, err
	}

	if err := rc.Reject(req.Reason); err != nil {
		return nil, err
	}

	if err := s.returnRepo.SaveWithLock(ctx, rc); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, rc)

	response := ToReturnResponse(rc)
	return &response, nil
}

// MarkInTransit records carrier handoff for an approved return
func (s *ReturnService) MarkInTransit(ctx context.Context, returnID uuid.UUID, req MarkInTransitRequest) (*ReturnResponse, error) {
	rc, err := s.returnRepo.FindByID(ctx, returnID)
	if err != nil {
		return nil, err
	}

	if err := rc.MarkInTransit(req.Carrier, req.TrackingNumber); err != nil {
		return nil, err
	}

	if err := s.returnRepo.SaveWithLock(ctx, rc); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, rc)

	response := ToReturnResponse(rc)
	return &response, nil
}

// MarkReceived records warehouse receipt of the returned goods
func (s *ReturnService) MarkReceived(ctx context.Context, returnID uuid.UUID, req MarkReceivedRequest) (*ReturnResponse, error) {
	rc, err := s.returnRepo.FindByID(ctx, returnID)
	if err != nil {
		return nil, err
	}

	if err := rc.MarkReceived(req.ReceivedBy); err != nil {
		return nil, err
	}

	if err := s.returnRepo.SaveWithLock(ctx, rc); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, rc)

	response := ToReturnResponse(rc)
	return &response, nil
}

// Inspect applies inspection results to every line and computes the
// draft refund. A validation failure leaves the case in RECEIVED.
func (s *ReturnService) Inspect(ctx context.Context, returnID uuid.UUID, req InspectReturnRequest) (*ReturnResponse, error) {
	rc, err := s.returnRepo.FindByID(ctx, returnID)
	if err != nil {
		return nil, err
	}

	inspections := make([]returns.LineInspection, 0, len(req.Lines))
	for _, lr := range req.Lines {
		inspections = append(inspections, returns.LineInspection{
			LineID:           lr.LineID,
			QuantityAccepted: lr.QuantityAccepted,
			QuantityRejected: lr.QuantityRejected,
			Condition:        returns.ProductCondition(lr.Condition),
			Notes:            lr.Notes,
		})
	}

	if err := rc.Inspect(inspections, req.InspectedBy); err != nil {
		return nil, err
	}

	if err := s.returnRepo.SaveWithLock(ctx, rc); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, rc)

	response := ToReturnResponse(rc)
	return &response, nil
}

// Restock marks eligible lines restocked and completes the case.
// The inventory adjustment travels on the emitted domain event.
func (s *ReturnService) Restock(ctx context.Context, returnID uuid.UUID) (*ReturnResponse, error) {
	rc, err := s.returnRepo.FindByID(ctx, returnID)
	if err != nil {
		return nil, err
	}

	if err := rc.Restock(); err != nil {
		return nil, err
	}

	if err := s.returnRepo.SaveWithLock(ctx, rc); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, rc)

	response := ToReturnResponse(rc)
	return &response, nil
}

// ProcessRefund records the refund payout for an inspected case
func (s *ReturnService) ProcessRefund(ctx context.Context, returnID uuid.UUID, req ProcessRefundRequest) (*ReturnResponse, error) {
	rc, err := s.returnRepo.FindByID(ctx, returnID)
	if err != nil {
		return nil, err
	}

	if err := rc.ProcessRefund(req.Method, req.Amount, req.Reference); err != nil {
		return nil, err
	}

	if err := s.returnRepo.SaveWithLock(ctx, rc); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, rc)

	response := ToReturnResponse(rc)
	return &response, nil
}

// GetByID retrieves a return case by ID
func (s *ReturnService) GetByID(ctx context.Context, returnID uuid.UUID) (*ReturnResponse, error) {
	rc, err := s.returnRepo.FindByID(ctx, returnID)
	if err != nil {
		return nil, err
	}

	response := ToReturnResponse(rc)
	return &response, nil
}

// GetByNumber retrieves a return case by its return number
func (s *ReturnService) GetByNumber(ctx context.Context, returnNumber string) (*ReturnResponse, error) {
	rc, err := s.returnRepo.FindByNumber(ctx, returnNumber)
	if err != nil {
		return nil, err
	}

	response := ToReturnResponse(rc)
	return &response, nil
}

// List retrieves return cases with filtering and pagination
func (s *ReturnService) List(ctx context.Context, filter ReturnListFilter) ([]ReturnListResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := returns.ReturnFilter{}
	if filter.CustomerID != "" {
		customerID, err := uuid.Parse(filter.CustomerID)
		if err != nil {
			return nil, 0, shared.NewDomainError("VALIDATION_ERROR", "Invalid customer ID")
		}
		domainFilter.CustomerID = &customerID
	}
	if filter.Status != "" {
		status := returns.ReturnStatus(filter.Status)
		domainFilter.Status = &status
	}
	if filter.ReasonCode != "" {
		domainFilter.ReasonCode = &filter.ReasonCode
	}
	if filter.OrderNumber != "" {
		domainFilter.OrderNumber = &filter.OrderNumber
	}
	if filter.DateFrom != "" {
		from, err := time.Parse("2006-01-02", filter.DateFrom)
		if err != nil {
			return nil, 0, shared.NewDomainError("VALIDATION_ERROR", "Invalid date_from")
		}
		domainFilter.DateFrom = &from
	}
	if filter.DateTo != "" {
		to, err := time.Parse("2006-01-02", filter.DateTo)
		if err != nil {
			return nil, 0, shared.NewDomainError("VALIDATION_ERROR", "Invalid date_to")
		}
		to = to.AddDate(0, 0, 1)
		domainFilter.DateTo = &to
	}

	page := shared.DefaultFilter()
	page.Page = filter.Page
	page.PageSize = filter.PageSize

	cases, total, err := s.returnRepo.FindAll(ctx, domainFilter, page)
	if err != nil {
		return nil, 0, err
	}

	return ToReturnListResponses(cases), total, nil
}

// ListReasons retrieves the active return reason catalog
func (s *ReturnService) ListReasons(ctx context.Context) ([]ReasonResponse, error) {
	reasons, err := s.reasonRepo.FindAllActive(ctx)
	if err != nil {
		return nil, err
	}

	return ToReasonResponses(reasons), nil
}
