package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/checkout_settlement/internal/core/domain"
	"github.com/SscSPs/checkout_settlement/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockReconciliation struct{ mock.Mock }

func (m *mockReconciliation) RunDaily(ctx context.Context, runAt time.Time) (*dto.ReconciliationRunSummary, error) {
	args := m.Called(ctx, runAt)
	summary, _ := args.Get(0).(*dto.ReconciliationRunSummary)
	return summary, args.Error(1)
}

func (m *mockReconciliation) ReconcileTenant(ctx context.Context, tenant domain.Tenant, runAt time.Time) (*domain.ReconciliationRecord, error) {
	args := m.Called(ctx, tenant, runAt)
	record, _ := args.Get(0).(*domain.ReconciliationRecord)
	return record, args.Error(1)
}

type mockExpiry struct{ mock.Mock }

func (m *mockExpiry) SweepExpiredOrders(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}

func fixedRunner(rec *mockReconciliation, exp *mockExpiry) (*Runner, time.Time) {
	now := time.Date(2024, 6, 1, 2, 0, 0, 0, time.UTC)
	r := NewRunner(rec, exp, time.Minute)
	r.now = func() time.Time { return now }
	return r, now
}

func TestRunner_ReconcileDaily(t *testing.T) {
	rec, exp := new(mockReconciliation), new(mockExpiry)
	r, now := fixedRunner(rec, exp)

	rec.On("RunDaily", mock.Anything, now).Return(&dto.ReconciliationRunSummary{Processed: 2, Reconciled: 1, Flagged: 1}, nil).Once()
	r.ReconcileDaily()
	rec.AssertExpectations(t)
}

func TestRunner_JobErrorsAndPanicsAreContained(t *testing.T) {
	rec, exp := new(mockReconciliation), new(mockExpiry)
	r, now := fixedRunner(rec, exp)

	rec.On("RunDaily", mock.Anything, now).Return(nil, errors.New("db down")).Once()
	exp.On("SweepExpiredOrders", mock.Anything, now).Run(func(mock.Arguments) { panic("boom") }).Return(0, nil).Once()

	assert.NotPanics(t, r.ReconcileDaily)
	assert.NotPanics(t, r.SweepExpired)
	rec.AssertExpectations(t)
	exp.AssertExpectations(t)
}

func TestRunner_JobContextHasDeadline(t *testing.T) {
	rec, exp := new(mockReconciliation), new(mockExpiry)
	r, now := fixedRunner(rec, exp)

	exp.On("SweepExpiredOrders", mock.MatchedBy(func(ctx context.Context) bool {
		_, ok := ctx.Deadline()
		return ok
	}), now).Return(3, nil).Once()

	r.SweepExpired()
	exp.AssertExpectations(t)
}

func TestNewScheduler_RegistersJobs(t *testing.T) {
	r, _ := fixedRunner(new(mockReconciliation), new(mockExpiry))
	s, err := NewScheduler(r, Schedule{Reconciliation: "0 0 2 * * *", ExpirySweep: "0 */5 * * * *"})
	require.NoError(t, err)
	assert.Equal(t, 2, s.Entries())

	s.Start()
	require.NoError(t, s.Stop(context.Background()))
}

func TestNewScheduler_RejectsInvalidExpression(t *testing.T) {
	r, _ := fixedRunner(new(mockReconciliation), new(mockExpiry))
	_, err := NewScheduler(r, Schedule{Reconciliation: "every night", ExpirySweep: "0 */5 * * * *"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reconciliation")
}
