package services_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/SscSPs/checkout_settlement/internal/apperrors"
	"github.com/SscSPs/checkout_settlement/internal/core/domain"
	"github.com/SscSPs/checkout_settlement/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type WithdrawalServiceTestSuite struct {
	settlementSuite
	account *domain.BankAccount
}

func TestWithdrawalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(WithdrawalServiceTestSuite))
}

func (s *WithdrawalServiceTestSuite) SetupTest() {
	s.settlementSuite.SetupTest()
	s.acceptPixCharges()

	// 59.90 + 10.00 shipping settled
	placed := s.placeOrder(item(s.shirt, 1))
	_, err := s.webhook(placed.Payment.TransactionID, "paid")
	s.Require().NoError(err)

	s.account, err = s.svc.Withdrawal.RegisterBankAccount(s.ctx, s.tenant.TenantID, dto.CreateBankAccountRequest{
		BankCode: "341", Branch: "0001", AccountNumber: "12345-6",
		HolderName: "Store m-1", HolderDocument: "12345678000199",
	}, s.operator)
	s.Require().NoError(err)
}

func (s *WithdrawalServiceTestSuite) request(amount string) (*domain.Withdrawal, error) {
	return s.svc.Withdrawal.RequestWithdrawal(s.ctx, s.tenant.TenantID, dto.CreateWithdrawalRequest{
		BankAccountID: s.account.BankAccountID,
		Amount:        decimal.RequireFromString(amount),
	}, s.operator)
}

func (s *WithdrawalServiceTestSuite) available() decimal.Decimal {
	balance, err := s.svc.Ledger.AvailableBalance(s.ctx, s.tenant.TenantID, s.clock.Now())
	s.Require().NoError(err)
	return balance
}

func (s *WithdrawalServiceTestSuite) TestRequestReservesFunds() {
	w, err := s.request("50.00")
	s.Require().NoError(err)
	s.Equal(domain.WithdrawalRequested, w.Status)
	s.NotEmpty(w.LedgerEntryID)

	entry, ok := s.store.entryFor(s.tenant.TenantID, w.WithdrawalID)
	s.Require().True(ok)
	s.Equal(domain.Debit, entry.Type)
	s.Equal(domain.EntryPending, entry.Status)
	s.Equal("19.9", s.available().String())

	_, err = s.request("20.00")
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *WithdrawalServiceTestSuite) TestRequestRejectsSubCentavoAmount() {
	_, err := s.request("10.005")
	s.ErrorIs(err, apperrors.ErrValidation)
	s.Equal("69.9", s.available().String())
}

func (s *WithdrawalServiceTestSuite) TestCompleteConfirmsDebit() {
	w, err := s.request("69.90")
	s.Require().NoError(err)

	done, err := s.svc.Withdrawal.CompleteWithdrawal(s.ctx, s.tenant.TenantID, w.WithdrawalID, s.operator)
	s.Require().NoError(err)
	s.Equal(domain.WithdrawalCompleted, done.Status)
	s.NotNil(done.CompletedAt)

	balance, err := s.svc.Ledger.RunningBalance(s.ctx, s.tenant.TenantID, s.clock.Now())
	s.Require().NoError(err)
	s.True(balance.IsZero(), balance.String())
	s.Len(s.publisher.ofType(domain.EventWithdrawalCompleted), 1)

	_, err = s.svc.Withdrawal.CompleteWithdrawal(s.ctx, s.tenant.TenantID, w.WithdrawalID, s.operator)
	s.ErrorIs(err, apperrors.ErrAlreadyFinalized)
	_, err = s.svc.Withdrawal.FailWithdrawal(s.ctx, s.tenant.TenantID, w.WithdrawalID, "late bounce", s.operator)
	s.ErrorIs(err, apperrors.ErrAlreadyFinalized)
}

func (s *WithdrawalServiceTestSuite) TestFailReleasesReservation() {
	w, err := s.request("60.00")
	s.Require().NoError(err)

	failed, err := s.svc.Withdrawal.FailWithdrawal(s.ctx, s.tenant.TenantID, w.WithdrawalID, "account closed", s.operator)
	s.Require().NoError(err)
	s.Equal(domain.WithdrawalFailed, failed.Status)
	s.Equal("account closed", *failed.FailureReason)

	entry, _ := s.store.entryFor(s.tenant.TenantID, w.WithdrawalID)
	s.Equal(domain.EntryFailed, entry.Status)
	s.Equal("69.9", s.available().String())
	s.Empty(s.publisher.ofType(domain.EventWithdrawalCompleted))
}

func (s *WithdrawalServiceTestSuite) TestRejectsInvalidRequests() {
	_, err := s.request("0")
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.svc.Withdrawal.RequestWithdrawal(s.ctx, s.tenant.TenantID, dto.CreateWithdrawalRequest{
		BankAccountID: "missing", Amount: decimal.NewFromInt(1),
	}, s.operator)
	s.ErrorIs(err, apperrors.ErrNotFound)

	other := s.seedTenant("m-2")
	_, err = s.svc.Withdrawal.RequestWithdrawal(s.ctx, other.TenantID, dto.CreateWithdrawalRequest{
		BankAccountID: s.account.BankAccountID, Amount: decimal.NewFromInt(1),
	}, s.operator)
	s.ErrorIs(err, apperrors.ErrNotFound, "bank accounts are tenant scoped")
}

func (s *WithdrawalServiceTestSuite) TestConcurrentRequestsNeverOverdraw() {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		reserved = decimal.Zero
	)
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w, err := s.request("30.00")
			if err != nil {
				s.True(errors.Is(err, apperrors.ErrValidation) || errors.Is(err, apperrors.ErrLockNotObtained), err.Error())
				return
			}
			mu.Lock()
			reserved = reserved.Add(w.Amount)
			mu.Unlock()
		}()
	}
	wg.Wait()

	s.True(reserved.LessThanOrEqual(decimal.RequireFromString("69.90")), reserved.String())
	s.False(s.available().IsNegative())
}
