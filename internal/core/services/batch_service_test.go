package services_test

import (
	"context"
	"testing"

	"github.com/finbooks/ledger_backend/internal/apperrors"
	"github.com/finbooks/ledger_backend/internal/core/domain"
	portssvc "github.com/finbooks/ledger_backend/internal/core/ports/services"
	"github.com/finbooks/ledger_backend/internal/core/services"
	"github.com/finbooks/ledger_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock JournalService ---
type MockJournalService struct {
	mock.Mock
}

var _ portssvc.JournalService = (*MockJournalService)(nil)

func (m *MockJournalService) CreateEntry(ctx context.Context, companyID string, req dto.CreateEntryRequest, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) GetEntryByID(ctx context.Context, companyID, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) SubmitEntry(ctx context.Context, companyID, entryID, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, entryID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) ApproveEntry(ctx context.Context, companyID, entryID, comment, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, entryID, comment, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) PostEntry(ctx context.Context, companyID, entryID, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, entryID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) ReverseEntry(ctx context.Context, companyID, entryID, reason, userID string) (*domain.ReversalResult, error) {
	args := m.Called(ctx, companyID, entryID, reason, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReversalResult), args.Error(1)
}

// --- Test Suite Setup ---
type BatchServiceTestSuite struct {
	suite.Suite
	mockJournalRepo *MockJournalRepository
	mockJournalSvc  *MockJournalService
	service         portssvc.BatchService
	companyID       string
	userID          string
}

func (suite *BatchServiceTestSuite) SetupTest() {
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockJournalSvc = new(MockJournalService)
	suite.service = services.NewBatchService(suite.mockJournalRepo, suite.mockJournalSvc, 4)
	suite.companyID = uuid.NewString()
	suite.userID = uuid.NewString()
}

func (suite *BatchServiceTestSuite) TestExecute_EmptyEntryIDs() {
	ctx := context.Background()

	_, err := suite.service.Execute(ctx, suite.companyID, portssvc.BatchRequest{
		Operation: domain.BatchPost,
	}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "FindEntriesByIDs", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BatchServiceTestSuite) TestExecute_UnknownOperation() {
	ctx := context.Background()

	_, err := suite.service.Execute(ctx, suite.companyID, portssvc.BatchRequest{
		Operation: domain.BatchOperation("archive"),
		EntryIDs:  []string{uuid.NewString()},
	}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *BatchServiceTestSuite) TestExecute_ReverseWithoutReason() {
	ctx := context.Background()

	_, err := suite.service.Execute(ctx, suite.companyID, portssvc.BatchRequest{
		Operation: domain.BatchReverse,
		EntryIDs:  []string{uuid.NewString()},
		Reason:    "  ",
	}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "FindEntriesByIDs", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BatchServiceTestSuite) TestExecute_PostMixedEligibility() {
	ctx := context.Background()
	draftID := uuid.NewString()
	approvedID := uuid.NewString()
	postedID := uuid.NewString()
	missingID := uuid.NewString()
	entryIDs := []string{draftID, approvedID, postedID, missingID}

	headers := map[string]domain.JournalEntry{
		draftID:    {EntryID: draftID, CompanyID: suite.companyID, Status: domain.Draft},
		approvedID: {EntryID: approvedID, CompanyID: suite.companyID, Status: domain.PendingApproval, Approved: true},
		postedID:   {EntryID: postedID, CompanyID: suite.companyID, Status: domain.Posted},
	}

	suite.mockJournalRepo.On("FindEntriesByIDs", ctx, suite.companyID, entryIDs).Return(headers, nil).Once()
	suite.mockJournalSvc.On("PostEntry", mock.Anything, suite.companyID, draftID, suite.userID).
		Return(&domain.JournalEntry{EntryID: draftID, Status: domain.Posted}, nil).Once()
	suite.mockJournalSvc.On("PostEntry", mock.Anything, suite.companyID, approvedID, suite.userID).
		Return(&domain.JournalEntry{EntryID: approvedID, Status: domain.Posted}, nil).Once()

	result, err := suite.service.Execute(ctx, suite.companyID, portssvc.BatchRequest{
		Operation: domain.BatchPost,
		EntryIDs:  entryIDs,
	}, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(result)
	suite.Equal(4, result.Summary.Total)
	suite.Equal(2, result.Summary.Successful)
	suite.Equal(2, result.Summary.Failed)
	suite.Equal(result.Summary.Total, len(result.Successful)+len(result.Failed))

	failedIDs := make(map[string]string, len(result.Failed))
	for _, f := range result.Failed {
		failedIDs[f.EntryID] = f.Error
	}
	suite.Contains(failedIDs, postedID)
	suite.Contains(failedIDs, missingID)
	suite.Contains(failedIDs[missingID], "not found")

	suite.mockJournalSvc.AssertExpectations(suite.T())
	// Ineligible entries never reach the worker pool.
	suite.mockJournalSvc.AssertNotCalled(suite.T(), "PostEntry", mock.Anything, suite.companyID, postedID, suite.userID)
}

func (suite *BatchServiceTestSuite) TestExecute_ApproveSuccess() {
	ctx := context.Background()
	pendingID := uuid.NewString()

	headers := map[string]domain.JournalEntry{
		pendingID: {EntryID: pendingID, CompanyID: suite.companyID, Status: domain.PendingApproval},
	}

	suite.mockJournalRepo.On("FindEntriesByIDs", ctx, suite.companyID, []string{pendingID}).Return(headers, nil).Once()
	suite.mockJournalSvc.On("ApproveEntry", mock.Anything, suite.companyID, pendingID, "bulk approval", suite.userID).
		Return(&domain.JournalEntry{EntryID: pendingID, Status: domain.PendingApproval, Approved: true}, nil).Once()

	result, err := suite.service.Execute(ctx, suite.companyID, portssvc.BatchRequest{
		Operation: domain.BatchApprove,
		EntryIDs:  []string{pendingID},
		Comment:   "bulk approval",
	}, suite.userID)

	suite.Require().NoError(err)
	suite.Require().Len(result.Successful, 1)
	suite.Equal(pendingID, result.Successful[0].EntryID)
	suite.Equal(domain.PendingApproval, result.Successful[0].NewStatus)
	suite.Empty(result.Failed)
}

func (suite *BatchServiceTestSuite) TestExecute_ApproveAlreadyApproved() {
	ctx := context.Background()
	approvedID := uuid.NewString()

	headers := map[string]domain.JournalEntry{
		approvedID: {EntryID: approvedID, CompanyID: suite.companyID, Status: domain.PendingApproval, Approved: true},
	}

	suite.mockJournalRepo.On("FindEntriesByIDs", ctx, suite.companyID, []string{approvedID}).Return(headers, nil).Once()

	result, err := suite.service.Execute(ctx, suite.companyID, portssvc.BatchRequest{
		Operation: domain.BatchApprove,
		EntryIDs:  []string{approvedID},
	}, suite.userID)

	suite.Require().NoError(err)
	suite.Empty(result.Successful)
	suite.Require().Len(result.Failed, 1)
	suite.Contains(result.Failed[0].Error, "already approved")
	suite.mockJournalSvc.AssertNotCalled(suite.T(), "ApproveEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BatchServiceTestSuite) TestExecute_ReverseAggregatesSideEffects() {
	ctx := context.Background()
	firstID := uuid.NewString()
	secondID := uuid.NewString()
	entryIDs := []string{firstID, secondID}

	headers := map[string]domain.JournalEntry{
		firstID:  {EntryID: firstID, CompanyID: suite.companyID, Status: domain.Posted},
		secondID: {EntryID: secondID, CompanyID: suite.companyID, Status: domain.Posted},
	}

	firstReversal := &domain.ReversalResult{
		ReversingEntry:             &domain.JournalEntry{EntryID: uuid.NewString(), Status: domain.Posted},
		InventoryMovementsReversed: 3,
		StockRestored:              true,
	}
	secondReversal := &domain.ReversalResult{
		ReversingEntry: &domain.JournalEntry{EntryID: uuid.NewString(), Status: domain.Posted},
	}

	suite.mockJournalRepo.On("FindEntriesByIDs", ctx, suite.companyID, entryIDs).Return(headers, nil).Once()
	suite.mockJournalSvc.On("ReverseEntry", mock.Anything, suite.companyID, firstID, "month-end correction", suite.userID).
		Return(firstReversal, nil).Once()
	suite.mockJournalSvc.On("ReverseEntry", mock.Anything, suite.companyID, secondID, "month-end correction", suite.userID).
		Return(secondReversal, nil).Once()

	result, err := suite.service.Execute(ctx, suite.companyID, portssvc.BatchRequest{
		Operation: domain.BatchReverse,
		EntryIDs:  entryIDs,
		Reason:    "month-end correction",
	}, suite.userID)

	suite.Require().NoError(err)
	suite.Require().Len(result.Successful, 2)
	suite.Equal(domain.Reversed, result.Successful[0].NewStatus)
	suite.Equal(firstReversal.ReversingEntry.EntryID, result.Successful[0].ReversingEntryID)
	suite.Equal(3, result.Summary.InventoryMovementsReversed)
	suite.True(result.Summary.StockRestored)
	suite.mockJournalSvc.AssertExpectations(suite.T())
}

func (suite *BatchServiceTestSuite) TestExecute_ReverseSkipsReversalEntries() {
	ctx := context.Background()
	postedID := uuid.NewString()
	reversalID := uuid.NewString()
	originalID := uuid.NewString()
	entryIDs := []string{postedID, reversalID}

	headers := map[string]domain.JournalEntry{
		postedID:   {EntryID: postedID, CompanyID: suite.companyID, Status: domain.Posted},
		reversalID: {EntryID: reversalID, CompanyID: suite.companyID, Status: domain.Posted, OriginalEntryID: &originalID},
	}

	suite.mockJournalRepo.On("FindEntriesByIDs", ctx, suite.companyID, entryIDs).Return(headers, nil).Once()
	suite.mockJournalSvc.On("ReverseEntry", mock.Anything, suite.companyID, postedID, "bad import", suite.userID).
		Return(&domain.ReversalResult{
			ReversingEntry: &domain.JournalEntry{EntryID: uuid.NewString(), Status: domain.Posted},
		}, nil).Once()

	result, err := suite.service.Execute(ctx, suite.companyID, portssvc.BatchRequest{
		Operation: domain.BatchReverse,
		EntryIDs:  entryIDs,
		Reason:    "bad import",
	}, suite.userID)

	suite.Require().NoError(err)
	suite.Require().Len(result.Successful, 1)
	suite.Equal(postedID, result.Successful[0].EntryID)
	suite.Require().Len(result.Failed, 1)
	suite.Equal(reversalID, result.Failed[0].EntryID)
	suite.Contains(result.Failed[0].Error, "cannot be reversed")
	suite.mockJournalSvc.AssertNotCalled(suite.T(), "ReverseEntry", mock.Anything, suite.companyID, reversalID, mock.Anything, mock.Anything)
}

func (suite *BatchServiceTestSuite) TestExecute_DeduplicatesEntryIDs() {
	ctx := context.Background()
	entryID := uuid.NewString()

	headers := map[string]domain.JournalEntry{
		entryID: {EntryID: entryID, CompanyID: suite.companyID, Status: domain.Draft},
	}

	suite.mockJournalRepo.On("FindEntriesByIDs", ctx, suite.companyID, []string{entryID}).Return(headers, nil).Once()
	suite.mockJournalSvc.On("PostEntry", mock.Anything, suite.companyID, entryID, suite.userID).
		Return(&domain.JournalEntry{EntryID: entryID, Status: domain.Posted}, nil).Once()

	result, err := suite.service.Execute(ctx, suite.companyID, portssvc.BatchRequest{
		Operation: domain.BatchPost,
		EntryIDs:  []string{entryID, entryID, entryID},
	}, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(1, result.Summary.Total)
	suite.mockJournalSvc.AssertExpectations(suite.T())
}

func (suite *BatchServiceTestSuite) TestExecute_ItemFailureDoesNotAbortPeers() {
	ctx := context.Background()
	winnerID := uuid.NewString()
	loserID := uuid.NewString()
	entryIDs := []string{winnerID, loserID}

	headers := map[string]domain.JournalEntry{
		winnerID: {EntryID: winnerID, CompanyID: suite.companyID, Status: domain.Draft},
		loserID:  {EntryID: loserID, CompanyID: suite.companyID, Status: domain.Draft},
	}

	suite.mockJournalRepo.On("FindEntriesByIDs", ctx, suite.companyID, entryIDs).Return(headers, nil).Once()
	suite.mockJournalSvc.On("PostEntry", mock.Anything, suite.companyID, winnerID, suite.userID).
		Return(&domain.JournalEntry{EntryID: winnerID, Status: domain.Posted}, nil).Once()
	// Concurrent caller won the CAS on the second entry.
	suite.mockJournalSvc.On("PostEntry", mock.Anything, suite.companyID, loserID, suite.userID).
		Return(nil, apperrors.ErrInvalidState).Once()

	result, err := suite.service.Execute(ctx, suite.companyID, portssvc.BatchRequest{
		Operation: domain.BatchPost,
		EntryIDs:  entryIDs,
	}, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(1, result.Summary.Successful)
	suite.Equal(1, result.Summary.Failed)
	suite.Equal(winnerID, result.Successful[0].EntryID)
	suite.Equal(loserID, result.Failed[0].EntryID)
}

func TestBatchServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BatchServiceTestSuite))
}
