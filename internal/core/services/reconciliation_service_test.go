package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/finbooks/ledger_backend/internal/apperrors"
	"github.com/finbooks/ledger_backend/internal/core/domain"
	portsrepo "github.com/finbooks/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks/ledger_backend/internal/core/ports/services"
	"github.com/finbooks/ledger_backend/internal/core/services"
	"github.com/finbooks/ledger_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock ExceptionRepository ---
type MockExceptionRepository struct {
	mock.Mock
}

var _ portsrepo.ExceptionRepository = (*MockExceptionRepository)(nil)

func (m *MockExceptionRepository) SaveException(ctx context.Context, exception domain.ExceptionRecord) error {
	args := m.Called(ctx, exception)
	return args.Error(0)
}

func (m *MockExceptionRepository) FindExceptionByID(ctx context.Context, companyID, exceptionID string) (*domain.ExceptionRecord, error) {
	args := m.Called(ctx, companyID, exceptionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExceptionRecord), args.Error(1)
}

func (m *MockExceptionRepository) ListExceptions(ctx context.Context, companyID string, status *domain.ExceptionStatus) ([]domain.ExceptionRecord, error) {
	args := m.Called(ctx, companyID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExceptionRecord), args.Error(1)
}

func (m *MockExceptionRepository) MarkDismissed(ctx context.Context, companyID, exceptionID, userID string, at time.Time) error {
	args := m.Called(ctx, companyID, exceptionID, userID, at)
	return args.Error(0)
}

func (m *MockExceptionRepository) MarkMatched(ctx context.Context, companyID, exceptionID, entryID, userID string, at time.Time) error {
	args := m.Called(ctx, companyID, exceptionID, entryID, userID, at)
	return args.Error(0)
}

func (m *MockExceptionRepository) ResolveWithExpense(ctx context.Context, exception domain.ExceptionRecord, expense domain.JournalEntry, userID string, at time.Time) error {
	args := m.Called(ctx, exception, expense, userID, at)
	return args.Error(0)
}

// --- Test Suite Setup ---
type ReconciliationServiceTestSuite struct {
	suite.Suite
	mockExceptionRepo *MockExceptionRepository
	mockJournalRepo   *MockJournalRepository
	mockAccountSvc    *MockAccountService
	service           portssvc.ReconciliationService
	companyID         string
	userID            string
	expenseAccount    domain.Account
	clearingAccount   domain.Account
}

func (suite *ReconciliationServiceTestSuite) SetupTest() {
	suite.mockExceptionRepo = new(MockExceptionRepository)
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockAccountSvc = new(MockAccountService)
	suite.service = services.NewReconciliationService(suite.mockExceptionRepo, suite.mockJournalRepo, suite.mockAccountSvc)

	suite.companyID = uuid.NewString()
	suite.userID = uuid.NewString()

	suite.expenseAccount = domain.Account{
		AccountID:   uuid.NewString(),
		CompanyID:   suite.companyID,
		Code:        "5200",
		Name:        "Travel Expense",
		AccountType: domain.Expense,
		IsActive:    true,
	}
	suite.clearingAccount = domain.Account{
		AccountID:   uuid.NewString(),
		CompanyID:   suite.companyID,
		Code:        "2100",
		Name:        "Card Clearing",
		AccountType: domain.Liability,
		IsActive:    true,
	}
}

func (suite *ReconciliationServiceTestSuite) openException() *domain.ExceptionRecord {
	return &domain.ExceptionRecord{
		ExceptionID: uuid.NewString(),
		CompanyID:   suite.companyID,
		Description: "Taxi fare 2025-06-01",
		Amount:      decimal.NewFromInt(4200),
		Date:        time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Reason:      domain.ReasonUnmatched,
		Status:      domain.ExceptionOpen,
	}
}

func (suite *ReconciliationServiceTestSuite) TestCreateException_Success() {
	ctx := context.Background()
	req := dto.CreateExceptionRequest{
		Description: "Unknown card charge",
		Amount:      decimal.NewFromInt(1500),
		Date:        time.Now(),
		Reason:      "unmatched",
	}

	suite.mockExceptionRepo.On("SaveException", ctx, mock.AnythingOfType("domain.ExceptionRecord")).Return(nil).Once()

	exception, err := suite.service.CreateException(ctx, suite.companyID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.ExceptionOpen, exception.Status)
	suite.Equal(domain.ReasonUnmatched, exception.Reason)
	suite.NotEmpty(exception.ExceptionID)
	suite.mockExceptionRepo.AssertExpectations(suite.T())
}

func (suite *ReconciliationServiceTestSuite) TestCreateException_NonPositiveAmount() {
	ctx := context.Background()
	req := dto.CreateExceptionRequest{
		Description: "Refund",
		Amount:      decimal.NewFromInt(-10),
		Date:        time.Now(),
		Reason:      "unmatched",
	}

	_, err := suite.service.CreateException(ctx, suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockExceptionRepo.AssertNotCalled(suite.T(), "SaveException", mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestDismiss_Success() {
	ctx := context.Background()
	exception := suite.openException()

	suite.mockExceptionRepo.On("FindExceptionByID", ctx, suite.companyID, exception.ExceptionID).Return(exception, nil).Once()
	suite.mockExceptionRepo.On("MarkDismissed", ctx, suite.companyID, exception.ExceptionID, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	result, err := suite.service.Dismiss(ctx, suite.companyID, exception.ExceptionID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.ExceptionDismissed, result.Status)
}

func (suite *ReconciliationServiceTestSuite) TestDismiss_AlreadyDismissedIsNoOp() {
	ctx := context.Background()
	exception := suite.openException()
	exception.Status = domain.ExceptionDismissed

	suite.mockExceptionRepo.On("FindExceptionByID", ctx, suite.companyID, exception.ExceptionID).Return(exception, nil).Once()

	result, err := suite.service.Dismiss(ctx, suite.companyID, exception.ExceptionID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.ExceptionDismissed, result.Status)
	suite.mockExceptionRepo.AssertNotCalled(suite.T(), "MarkDismissed", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestDismiss_MatchedFails() {
	ctx := context.Background()
	exception := suite.openException()
	exception.Status = domain.ExceptionMatched

	suite.mockExceptionRepo.On("FindExceptionByID", ctx, suite.companyID, exception.ExceptionID).Return(exception, nil).Once()

	_, err := suite.service.Dismiss(ctx, suite.companyID, exception.ExceptionID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
}

func (suite *ReconciliationServiceTestSuite) resolveCreateRequest() dto.ResolveCreateRequest {
	return dto.ResolveCreateRequest{
		ExpenseAccountID:  suite.expenseAccount.AccountID,
		ClearingAccountID: suite.clearingAccount.AccountID,
	}
}

func (suite *ReconciliationServiceTestSuite) resolutionAccounts() map[string]domain.Account {
	return map[string]domain.Account{
		suite.expenseAccount.AccountID:  suite.expenseAccount,
		suite.clearingAccount.AccountID: suite.clearingAccount,
	}
}

func (suite *ReconciliationServiceTestSuite) TestResolveCreate_Success() {
	ctx := context.Background()
	exception := suite.openException()

	suite.mockExceptionRepo.On("FindExceptionByID", ctx, suite.companyID, exception.ExceptionID).Return(exception, nil).Once()
	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, suite.companyID,
		[]string{suite.expenseAccount.AccountID, suite.clearingAccount.AccountID}).
		Return(suite.resolutionAccounts(), nil).Once()
	suite.mockExceptionRepo.On("ResolveWithExpense", ctx, mock.AnythingOfType("domain.ExceptionRecord"),
		mock.MatchedBy(func(expense domain.JournalEntry) bool {
			if expense.Status != domain.Posted || len(expense.Lines) != 2 {
				return false
			}
			// Balanced by construction: both sides carry the exception amount.
			return expense.Lines[0].Debit.Equal(exception.Amount) &&
				expense.Lines[1].Credit.Equal(exception.Amount) &&
				expense.EntryDate.Equal(exception.Date) &&
				expense.Memo == exception.Description
		}), suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	result, err := suite.service.ResolveCreate(ctx, suite.companyID, exception.ExceptionID, suite.resolveCreateRequest(), suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.ExceptionMatched, result.Status)
	suite.Require().NotNil(result.MatchedEntryID)
	suite.mockExceptionRepo.AssertExpectations(suite.T())
}

func (suite *ReconciliationServiceTestSuite) TestResolveCreate_NotOpen() {
	ctx := context.Background()
	exception := suite.openException()
	exception.Status = domain.ExceptionDismissed

	suite.mockExceptionRepo.On("FindExceptionByID", ctx, suite.companyID, exception.ExceptionID).Return(exception, nil).Once()

	_, err := suite.service.ResolveCreate(ctx, suite.companyID, exception.ExceptionID, suite.resolveCreateRequest(), suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrCreation)
	suite.mockAccountSvc.AssertNotCalled(suite.T(), "GetAccountsByIDs", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestResolveCreate_WrongAccountType() {
	ctx := context.Background()
	exception := suite.openException()

	// Swap in a non-expense account for the debit side.
	accounts := suite.resolutionAccounts()
	notExpense := suite.expenseAccount
	notExpense.AccountType = domain.Asset
	accounts[notExpense.AccountID] = notExpense

	suite.mockExceptionRepo.On("FindExceptionByID", ctx, suite.companyID, exception.ExceptionID).Return(exception, nil).Once()
	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, suite.companyID, mock.Anything).Return(accounts, nil).Once()

	_, err := suite.service.ResolveCreate(ctx, suite.companyID, exception.ExceptionID, suite.resolveCreateRequest(), suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockExceptionRepo.AssertNotCalled(suite.T(), "ResolveWithExpense", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestResolveMatch_Success() {
	ctx := context.Background()
	exception := suite.openException()
	entryID := uuid.NewString()
	posted := &domain.JournalEntry{EntryID: entryID, CompanyID: suite.companyID, Status: domain.Posted}

	suite.mockExceptionRepo.On("FindExceptionByID", ctx, suite.companyID, exception.ExceptionID).Return(exception, nil).Once()
	suite.mockJournalRepo.On("FindEntryByID", ctx, suite.companyID, entryID).Return(posted, nil).Once()
	suite.mockExceptionRepo.On("MarkMatched", ctx, suite.companyID, exception.ExceptionID, entryID, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	result, err := suite.service.ResolveMatch(ctx, suite.companyID, exception.ExceptionID, entryID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.ExceptionMatched, result.Status)
	suite.Require().NotNil(result.MatchedEntryID)
	suite.Equal(entryID, *result.MatchedEntryID)
}

func (suite *ReconciliationServiceTestSuite) TestResolveMatch_EntryNotPosted() {
	ctx := context.Background()
	exception := suite.openException()
	entryID := uuid.NewString()
	draft := &domain.JournalEntry{EntryID: entryID, CompanyID: suite.companyID, Status: domain.Draft}

	suite.mockExceptionRepo.On("FindExceptionByID", ctx, suite.companyID, exception.ExceptionID).Return(exception, nil).Once()
	suite.mockJournalRepo.On("FindEntryByID", ctx, suite.companyID, entryID).Return(draft, nil).Once()

	_, err := suite.service.ResolveMatch(ctx, suite.companyID, exception.ExceptionID, entryID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockExceptionRepo.AssertNotCalled(suite.T(), "MarkMatched", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestResolveMatch_EntryMissing() {
	ctx := context.Background()
	exception := suite.openException()
	entryID := uuid.NewString()

	suite.mockExceptionRepo.On("FindExceptionByID", ctx, suite.companyID, exception.ExceptionID).Return(exception, nil).Once()
	suite.mockJournalRepo.On("FindEntryByID", ctx, suite.companyID, entryID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.ResolveMatch(ctx, suite.companyID, exception.ExceptionID, entryID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestReconciliationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReconciliationServiceTestSuite))
}
