package returns

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/elektromeistras/creditledger/internal/domain/partner"
	"github.com/elektromeistras/creditledger/internal/domain/returns"
	"github.com/elektromeistras/creditledger/internal/domain/shared"
	"github.com/elektromeistras/creditledger/internal/domain/shared/valueobject"
)

// MockReturnCaseRepository is a mock implementation of ReturnCaseRepository
type MockReturnCaseRepository struct {
	mock.Mock
}

func (m *MockReturnCaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*returns.ReturnCase, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*returns.ReturnCase), args.Error(1)
}

func (m *MockReturnCaseRepository) FindByNumber(ctx context.Context, returnNumber string) (*returns.ReturnCase, error) {
	args := m.Called(ctx, returnNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*returns.ReturnCase), args.Error(1)
}

func (m *MockReturnCaseRepository) FindAll(ctx context.Context, filter returns.ReturnFilter, page shared.Filter) ([]returns.ReturnCase, int64, error) {
	args := m.Called(ctx, filter, page)
	return args.Get(0).([]returns.ReturnCase), args.Get(1).(int64), args.Error(2)
}

func (m *MockReturnCaseRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, page shared.Filter) ([]returns.ReturnCase, error) {
	args := m.Called(ctx, customerID, page)
	return args.Get(0).([]returns.ReturnCase), args.Error(1)
}

func (m *MockReturnCaseRepository) FindByStatus(ctx context.Context, status returns.ReturnStatus, page shared.Filter) ([]returns.ReturnCase, error) {
	args := m.Called(ctx, status, page)
	return args.Get(0).([]returns.ReturnCase), args.Error(1)
}

func (m *MockReturnCaseRepository) NextReturnNumber(ctx context.Context, date time.Time) (string, error) {
	args := m.Called(ctx, date)
	return args.String(0), args.Error(1)
}

func (m *MockReturnCaseRepository) Save(ctx context.Context, rc *returns.ReturnCase) error {
	args := m.Called(ctx, rc)
	return args.Error(0)
}

func (m *MockReturnCaseRepository) SaveWithLock(ctx context.Context, rc *returns.ReturnCase) error {
	args := m.Called(ctx, rc)
	return args.Error(0)
}

func (m *MockReturnCaseRepository) CountByStatus(ctx context.Context) (map[returns.ReturnStatus]int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[returns.ReturnStatus]int64), args.Error(1)
}

// MockReturnReasonRepository is a mock implementation of ReturnReasonRepository
type MockReturnReasonRepository struct {
	mock.Mock
}

func (m *MockReturnReasonRepository) FindByCode(ctx context.Context, code string) (*returns.ReturnReason, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*returns.ReturnReason), args.Error(1)
}

func (m *MockReturnReasonRepository) FindAllActive(ctx context.Context) ([]returns.ReturnReason, error) {
	args := m.Called(ctx)
	return args.Get(0).([]returns.ReturnReason), args.Error(1)
}

func (m *MockReturnReasonRepository) Save(ctx context.Context, reason *returns.ReturnReason) error {
	args := m.Called(ctx, reason)
	return args.Error(0)
}

// MockCustomerRepository is a mock implementation of CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByCode(ctx context.Context, code string) (*partner.Customer, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Customer, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByStatus(ctx context.Context, status partner.CustomerStatus, filter shared.Filter) ([]partner.Customer, error) {
	args := m.Called(ctx, status, filter)
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindOverLimit(ctx context.Context, filter shared.Filter) ([]partner.Customer, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) SaveWithLock(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCustomerRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func testSetup(t *testing.T) (*ReturnService, *MockReturnCaseRepository, *MockReturnReasonRepository, *MockCustomerRepository) {
	t.Helper()
	returnRepo := new(MockReturnCaseRepository)
	reasonRepo := new(MockReturnReasonRepository)
	customerRepo := new(MockCustomerRepository)
	return NewReturnService(returnRepo, reasonRepo, customerRepo), returnRepo, reasonRepo, customerRepo
}

func testCustomer(t *testing.T) *partner.Customer {
	t.Helper()
	customer, err := partner.NewRetailCustomer("CUST001", "Jonas", "Petraitis")
	require.NoError(t, err)
	return customer
}

func receivedCase(t *testing.T) *returns.ReturnCase {
	t.Helper()
	reason, err := returns.NewReturnReason(returns.ReasonWrongItem, "Wrong item", true, true)
	require.NoError(t, err)

	rc, err := returns.NewReturnCase("RET-20260901-0001", "ORD-1001", testCustomer(t), reason, returns.ReturnTypePartial, "")
	require.NoError(t, err)
	_, err = rc.AddLine(uuid.New(), "CAB-315", "Cable 3x1.5", decimal.NewFromInt(10), valueobject.NewMoneyEURFromFloat(2.50))
	require.NoError(t, err)
	require.NoError(t, rc.Approve("Ona", ""))
	require.NoError(t, rc.MarkReceived("Petras"))
	return rc
}

func TestReturnService_Create(t *testing.T) {
	service, returnRepo, reasonRepo, customerRepo := testSetup(t)

	customer := testCustomer(t)
	reason, err := returns.NewReturnReason(returns.ReasonWrongItem, "Wrong item", true, true)
	require.NoError(t, err)

	customerRepo.On("FindByID", mock.Anything, customer.ID).Return(customer, nil)
	reasonRepo.On("FindByCode", mock.Anything, "WRONG_ITEM").Return(reason, nil)
	returnRepo.On("NextReturnNumber", mock.Anything, mock.AnythingOfType("time.Time")).Return("RET-20260901-0007", nil)
	returnRepo.On("Save", mock.Anything, mock.AnythingOfType("*returns.ReturnCase")).Return(nil)

	resp, err := service.Create(context.Background(), CreateReturnRequest{
		OrderNumber: "ORD-1001",
		CustomerID:  customer.ID,
		ReasonCode:  "WRONG_ITEM",
		Type:        "PARTIAL",
		Lines: []ReturnLineRequest{{
			ProductID:        uuid.New(),
			ProductCode:      "CAB-315",
			ProductName:      "Cable 3x1.5",
			QuantityReturned: decimal.NewFromInt(10),
			UnitPrice:        decimal.NewFromFloat(2.50),
		}},
	})
	require.NoError(t, err)

	assert.Equal(t, "RET-20260901-0007", resp.ReturnNumber)
	assert.Equal(t, "PENDING", resp.Status)
	assert.Equal(t, "PENDING", resp.RefundStatus)
	returnRepo.AssertExpectations(t)
}

func TestReturnService_Workflow(t *testing.T) {
	t.Run("inspect computes draft refund", func(t *testing.T) {
		service, returnRepo, _, _ := testSetup(t)

		rc := receivedCase(t)
		returnRepo.On("FindByID", mock.Anything, rc.ID).Return(rc, nil)
		returnRepo.On("SaveWithLock", mock.Anything, rc).Return(nil)

		resp, err := service.Inspect(context.Background(), rc.ID, InspectReturnRequest{
			InspectedBy: "Petras",
			Lines: []LineInspectionRequest{{
				LineID:           rc.Lines[0].ID,
				QuantityAccepted: decimal.NewFromInt(7),
				QuantityRejected: decimal.NewFromInt(3),
				Condition:        "GOOD",
			}},
		})
		require.NoError(t, err)

		assert.Equal(t, "INSPECTED", resp.Status)
		assert.Equal(t, "17.5", resp.RefundAmount.String())
	})

	t.Run("over-counted inspection fails and does not persist", func(t *testing.T) {
		service, returnRepo, _, _ := testSetup(t)

		rc := receivedCase(t)
		returnRepo.On("FindByID", mock.Anything, rc.ID).Return(rc, nil)

		_, err := service.Inspect(context.Background(), rc.ID, InspectReturnRequest{
			InspectedBy: "Petras",
			Lines: []LineInspectionRequest{{
				LineID:           rc.Lines[0].ID,
				QuantityAccepted: decimal.NewFromInt(8),
				QuantityRejected: decimal.NewFromInt(3),
				Condition:        "GOOD",
			}},
		})
		require.Error(t, err)
		domainErr := &shared.DomainError{}
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
		returnRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("restock then refund", func(t *testing.T) {
		service, returnRepo, _, _ := testSetup(t)

		rc := receivedCase(t)
		require.NoError(t, rc.Inspect([]returns.LineInspection{{
			LineID:           rc.Lines[0].ID,
			QuantityAccepted: decimal.NewFromInt(10),
			QuantityRejected: decimal.Zero,
			Condition:        returns.ConditionPerfect,
		}}, "Petras"))

		returnRepo.On("FindByID", mock.Anything, rc.ID).Return(rc, nil)
		returnRepo.On("SaveWithLock", mock.Anything, rc).Return(nil)

		resp, err := service.Restock(context.Background(), rc.ID)
		require.NoError(t, err)
		assert.Equal(t, "COMPLETED", resp.Status)
		assert.True(t, resp.Lines[0].Restocked)

		resp, err = service.ProcessRefund(context.Background(), rc.ID, ProcessRefundRequest{
			Method: "bank_transfer",
			Amount: decimal.NewFromInt(25),
		})
		require.NoError(t, err)
		assert.Equal(t, "COMPLETED", resp.RefundStatus)
	})

	t.Run("refund above draft fails", func(t *testing.T) {
		service, returnRepo, _, _ := testSetup(t)

		rc := receivedCase(t)
		require.NoError(t, rc.Inspect([]returns.LineInspection{{
			LineID:           rc.Lines[0].ID,
			QuantityAccepted: decimal.NewFromInt(7),
			QuantityRejected: decimal.NewFromInt(3),
			Condition:        returns.ConditionGood,
		}}, "Petras"))

		returnRepo.On("FindByID", mock.Anything, rc.ID).Return(rc, nil)

		_, err := service.ProcessRefund(context.Background(), rc.ID, ProcessRefundRequest{
			Method: "cash",
			Amount: decimal.NewFromInt(20),
		})
		require.Error(t, err)
	})

	t.Run("reject is terminal", func(t *testing.T) {
		service, returnRepo, reasonRepo, _ := testSetup(t)
		_ = reasonRepo

		reason, err := returns.NewReturnReason(returns.ReasonOther, "Other", false, true)
		require.NoError(t, err)
		rc, err := returns.NewReturnCase("RET-20260901-0002", "ORD-1002", testCustomer(t), reason, returns.ReturnTypeFull, "")
		require.NoError(t, err)
		_, err = rc.AddLine(uuid.New(), "SOC-01", "Socket", decimal.NewFromInt(1), valueobject.NewMoneyEURFromFloat(5))
		require.NoError(t, err)

		returnRepo.On("FindByID", mock.Anything, rc.ID).Return(rc, nil)
		returnRepo.On("SaveWithLock", mock.Anything, rc).Return(nil)

		resp, err := service.Reject(context.Background(), rc.ID, RejectReturnRequest{Reason: "per velai"})
		require.NoError(t, err)
		assert.Equal(t, "REJECTED", resp.Status)

		_, err = service.Approve(context.Background(), rc.ID, ApproveReturnRequest{ApprovedBy: "Ona"})
		require.Error(t, err)
	})
}

func TestReturnService_ListReasons(t *testing.T) {
	service, _, reasonRepo, _ := testSetup(t)

	reasonRepo.On("FindAllActive", mock.Anything).Return(returns.DefaultReasons(), nil)

	reasons, err := service.ListReasons(context.Background())
	require.NoError(t, err)
	assert.Len(t, reasons, 6)
	assert.Equal(t, "WRONG_ITEM", reasons[0].Code)
	assert.True(t, reasons[0].AllowsRestock)
}
