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
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock ReportingRepository ---
type MockReportingRepository struct {
	mock.Mock
}

var _ portsrepo.ReportingRepository = (*MockReportingRepository)(nil)

func (m *MockReportingRepository) GetTrialBalanceRows(ctx context.Context, companyID string, asOf time.Time) ([]domain.TrialBalanceRow, error) {
	args := m.Called(ctx, companyID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TrialBalanceRow), args.Error(1)
}

func (m *MockReportingRepository) GetBalanceSheetData(ctx context.Context, companyID string, asOf time.Time) ([]domain.AccountAmount, []domain.AccountAmount, []domain.AccountAmount, error) {
	args := m.Called(ctx, companyID, asOf)
	var assets, liabilities, equity []domain.AccountAmount
	if args.Get(0) != nil {
		assets = args.Get(0).([]domain.AccountAmount)
	}
	if args.Get(1) != nil {
		liabilities = args.Get(1).([]domain.AccountAmount)
	}
	if args.Get(2) != nil {
		equity = args.Get(2).([]domain.AccountAmount)
	}
	return assets, liabilities, equity, args.Error(3)
}

func (m *MockReportingRepository) GetProfitAndLossData(ctx context.Context, companyID string, from, to time.Time) ([]domain.AccountAmount, []domain.AccountAmount, error) {
	args := m.Called(ctx, companyID, from, to)
	var revenue, expenses []domain.AccountAmount
	if args.Get(0) != nil {
		revenue = args.Get(0).([]domain.AccountAmount)
	}
	if args.Get(1) != nil {
		expenses = args.Get(1).([]domain.AccountAmount)
	}
	return revenue, expenses, args.Error(2)
}

func (m *MockReportingRepository) ListOpenItems(ctx context.Context, companyID string, kind domain.OpenItemKind, asOf time.Time) ([]domain.OpenItem, error) {
	args := m.Called(ctx, companyID, kind, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OpenItem), args.Error(1)
}

// --- Test Suite Setup ---
type ReportingServiceTestSuite struct {
	suite.Suite
	mockReportingRepo *MockReportingRepository
	service           portssvc.ReportingService
	companyID         string
	asOf              time.Time
}

func (suite *ReportingServiceTestSuite) SetupTest() {
	suite.mockReportingRepo = new(MockReportingRepository)
	suite.service = services.NewReportingService(suite.mockReportingRepo)
	suite.companyID = uuid.NewString()
	suite.asOf = time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
}

func (suite *ReportingServiceTestSuite) TestTrialBalance_Balanced() {
	ctx := context.Background()
	rows := []domain.TrialBalanceRow{
		{AccountCode: "1000", AccountName: "Cash", AccountType: domain.Asset, Debit: decimal.NewFromInt(100), Credit: decimal.Zero},
		{AccountCode: "4000", AccountName: "Sales Revenue", AccountType: domain.Revenue, Debit: decimal.Zero, Credit: decimal.NewFromInt(100)},
	}

	suite.mockReportingRepo.On("GetTrialBalanceRows", ctx, suite.companyID, suite.asOf).Return(rows, nil).Once()

	report, err := suite.service.TrialBalance(ctx, suite.companyID, suite.asOf)

	suite.Require().NoError(err)
	suite.True(report.IsBalanced)
	suite.True(report.TotalDebits.Equal(decimal.NewFromInt(100)))
	suite.True(report.TotalCredits.Equal(decimal.NewFromInt(100)))
	suite.True(report.Difference.IsZero())
}

func (suite *ReportingServiceTestSuite) TestTrialBalance_ReportsImbalanceWithoutError() {
	ctx := context.Background()
	rows := []domain.TrialBalanceRow{
		{AccountCode: "1000", AccountName: "Cash", AccountType: domain.Asset, Debit: decimal.NewFromInt(100), Credit: decimal.Zero},
		{AccountCode: "4000", AccountName: "Sales Revenue", AccountType: domain.Revenue, Debit: decimal.Zero, Credit: decimal.NewFromInt(90)},
	}

	suite.mockReportingRepo.On("GetTrialBalanceRows", ctx, suite.companyID, suite.asOf).Return(rows, nil).Once()

	report, err := suite.service.TrialBalance(ctx, suite.companyID, suite.asOf)

	// The trial balance is the diagnostic itself: imbalance is data, not an error.
	suite.Require().NoError(err)
	suite.False(report.IsBalanced)
	suite.True(report.Difference.Equal(decimal.NewFromInt(10)))
}

func (suite *ReportingServiceTestSuite) TestBalanceSheet_IncludesCurrentPeriodEarnings() {
	ctx := context.Background()
	assets := []domain.AccountAmount{{Code: "1000", Name: "Cash", NetAmount: decimal.NewFromInt(100)}}
	revenue := []domain.AccountAmount{{Code: "4000", Name: "Sales Revenue", NetAmount: decimal.NewFromInt(100)}}

	suite.mockReportingRepo.On("GetBalanceSheetData", ctx, suite.companyID, suite.asOf).
		Return(assets, []domain.AccountAmount{}, []domain.AccountAmount{}, nil).Once()
	suite.mockReportingRepo.On("GetProfitAndLossData", ctx, suite.companyID, time.Time{}, suite.asOf).
		Return(revenue, []domain.AccountAmount{}, nil).Once()

	report, err := suite.service.BalanceSheet(ctx, suite.companyID, suite.asOf)

	suite.Require().NoError(err)
	suite.True(report.IsBalanced)
	suite.True(report.TotalAssets.Equal(decimal.NewFromInt(100)))
	suite.True(report.TotalEquity.Equal(decimal.NewFromInt(100)))
	suite.Require().Len(report.Equity, 1)
	suite.Equal("Current Period Earnings", report.Equity[0].Name)
}

func (suite *ReportingServiceTestSuite) TestBalanceSheet_IdentityViolation() {
	ctx := context.Background()
	assets := []domain.AccountAmount{{Code: "1000", Name: "Cash", NetAmount: decimal.NewFromInt(100)}}

	suite.mockReportingRepo.On("GetBalanceSheetData", ctx, suite.companyID, suite.asOf).
		Return(assets, []domain.AccountAmount{}, []domain.AccountAmount{}, nil).Once()
	suite.mockReportingRepo.On("GetProfitAndLossData", ctx, suite.companyID, time.Time{}, suite.asOf).
		Return([]domain.AccountAmount{}, []domain.AccountAmount{}, nil).Once()

	report, err := suite.service.BalanceSheet(ctx, suite.companyID, suite.asOf)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrIntegrity)
	suite.Nil(report)
}

func (suite *ReportingServiceTestSuite) TestProfitAndLoss_NetProfit() {
	ctx := context.Background()
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	revenue := []domain.AccountAmount{{Code: "4000", Name: "Sales Revenue", NetAmount: decimal.NewFromInt(500)}}
	expenses := []domain.AccountAmount{
		{Code: "5000", Name: "Rent Expense", NetAmount: decimal.NewFromInt(120)},
		{Code: "5100", Name: "Office Supplies", NetAmount: decimal.NewFromInt(80)},
	}

	suite.mockReportingRepo.On("GetProfitAndLossData", ctx, suite.companyID, from, suite.asOf).
		Return(revenue, expenses, nil).Once()

	report, err := suite.service.ProfitAndLoss(ctx, suite.companyID, from, suite.asOf)

	suite.Require().NoError(err)
	suite.True(report.NetProfit.Equal(decimal.NewFromInt(300)))
}

func (suite *ReportingServiceTestSuite) TestProfitAndLoss_InvertedPeriod() {
	ctx := context.Background()
	from := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	_, err := suite.service.ProfitAndLoss(ctx, suite.companyID, from, suite.asOf)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockReportingRepo.AssertNotCalled(suite.T(), "GetProfitAndLossData", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReportingServiceTestSuite) TestAgingReport_BucketBoundaries() {
	ctx := context.Background()
	dueIn10 := suite.asOf.AddDate(0, 0, 10)
	due30DaysAgo := suite.asOf.AddDate(0, 0, -30)
	due31DaysAgo := suite.asOf.AddDate(0, 0, -31)
	due91DaysAgo := suite.asOf.AddDate(0, 0, -91)

	items := []domain.OpenItem{
		{EntityID: "cust-1", EntityName: "Acme Ltd", DueDate: dueIn10, Outstanding: decimal.NewFromInt(100)},
		{EntityID: "cust-1", EntityName: "Acme Ltd", DueDate: due30DaysAgo, Outstanding: decimal.NewFromInt(200)},
		{EntityID: "cust-1", EntityName: "Acme Ltd", DueDate: due31DaysAgo, Outstanding: decimal.NewFromInt(300)},
		{EntityID: "cust-2", EntityName: "Globex Inc", DueDate: due91DaysAgo, Outstanding: decimal.NewFromInt(400)},
	}

	suite.mockReportingRepo.On("ListOpenItems", ctx, suite.companyID, domain.ReceivableItem, suite.asOf).
		Return(items, nil).Once()

	report, err := suite.service.AgingReport(ctx, suite.companyID, domain.ReceivableItem, suite.asOf)

	suite.Require().NoError(err)
	suite.Require().Len(report.Rows, 2)

	acme := report.Rows[0]
	suite.Equal("cust-1", acme.EntityID)
	suite.True(acme.Buckets.Current.Equal(decimal.NewFromInt(100)))
	// 30 days past due is the last day of the 1-30 bucket.
	suite.True(acme.Buckets.Days30.Equal(decimal.NewFromInt(200)))
	// 31 days past due rolls into 31-60.
	suite.True(acme.Buckets.Days60.Equal(decimal.NewFromInt(300)))
	suite.True(acme.Buckets.Total.Equal(decimal.NewFromInt(600)))

	globex := report.Rows[1]
	suite.True(globex.Buckets.Over90.Equal(decimal.NewFromInt(400)))

	suite.True(report.Totals.Total.Equal(decimal.NewFromInt(1000)))
	bucketSum := report.Totals.Current.
		Add(report.Totals.Days30).
		Add(report.Totals.Days60).
		Add(report.Totals.Days90).
		Add(report.Totals.Over90)
	suite.True(bucketSum.Equal(report.Totals.Total))
}

func (suite *ReportingServiceTestSuite) TestAgingReport_UnknownKind() {
	ctx := context.Background()

	_, err := suite.service.AgingReport(ctx, suite.companyID, domain.OpenItemKind("LOANS"), suite.asOf)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockReportingRepo.AssertNotCalled(suite.T(), "ListOpenItems", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReportingServiceTestSuite) TestAgingReport_Empty() {
	ctx := context.Background()

	suite.mockReportingRepo.On("ListOpenItems", ctx, suite.companyID, domain.PayableItem, suite.asOf).
		Return([]domain.OpenItem{}, nil).Once()

	report, err := suite.service.AgingReport(ctx, suite.companyID, domain.PayableItem, suite.asOf)

	suite.Require().NoError(err)
	suite.Empty(report.Rows)
	suite.True(report.Totals.Total.IsZero())
}

func TestReportingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}
