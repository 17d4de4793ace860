package model

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func fullyPaidOrder() *Order {
	return &Order{
		Status:      StatusPending,
		TotalAmount: decimal.NewFromInt(1000),
		AmountPaid:  decimal.NewFromInt(1000),
	}
}

func TestConfirmRequiresFullPayment(t *testing.T) {
	ctx := TransitionContext{Actor: RoleAdmin}

	order := &Order{
		Status:      StatusPending,
		TotalAmount: decimal.NewFromInt(1000),
		AmountPaid:  decimal.Zero,
	}
	err := CheckTransition(order, StatusConfirmed, ctx)
	var guardErr *GuardError
	assert.True(t, errors.As(err, &guardErr))
	assert.Contains(t, guardErr.Condition, "payment incomplete")

	order.AmountPaid = decimal.NewFromFloat(999.99)
	err = CheckTransition(order, StatusConfirmed, ctx)
	assert.Error(t, err)

	// Exact boundary counts as paid
	order.AmountPaid = decimal.NewFromInt(1000)
	assert.NoError(t, CheckTransition(order, StatusConfirmed, ctx))

	order.AmountPaid = decimal.NewFromFloat(1000.01)
	assert.NoError(t, CheckTransition(order, StatusConfirmed, ctx))
}

func TestScheduleRequiresEngineerAndDate(t *testing.T) {
	ctx := TransitionContext{Actor: RoleAdmin}
	engineerId := uint(7)
	date := time.Now().AddDate(0, 0, 3)

	order := fullyPaidOrder()
	order.Status = StatusConfirmed

	err := CheckTransition(order, StatusScheduled, ctx)
	var guardErr *GuardError
	assert.True(t, errors.As(err, &guardErr))
	assert.Contains(t, guardErr.Condition, "engineer")

	order.EngineerID = &engineerId
	err = CheckTransition(order, StatusScheduled, ctx)
	assert.True(t, errors.As(err, &guardErr))
	assert.Contains(t, guardErr.Condition, "date")

	order.ScheduledInstallDate = &date
	assert.NoError(t, CheckTransition(order, StatusScheduled, ctx))
}

func TestScheduleIsAdminOnly(t *testing.T) {
	engineerId := uint(7)
	date := time.Now()
	order := fullyPaidOrder()
	order.Status = StatusConfirmed
	order.EngineerID = &engineerId
	order.ScheduledInstallDate = &date

	assert.ErrorIs(t, CheckTransition(order, StatusScheduled, TransitionContext{Actor: RoleClient}), ErrNotPermitted)
	assert.ErrorIs(t, CheckTransition(order, StatusScheduled, TransitionContext{Actor: RoleEngineer}), ErrNotPermitted)
	assert.NoError(t, CheckTransition(order, StatusScheduled, TransitionContext{Actor: RoleAdmin}))
}

func TestStartIsEngineerOnly(t *testing.T) {
	order := fullyPaidOrder()
	order.Status = StatusScheduled

	assert.ErrorIs(t, CheckTransition(order, StatusInProgress, TransitionContext{Actor: RoleAdmin}), ErrNotPermitted)
	assert.NoError(t, CheckTransition(order, StatusInProgress, TransitionContext{Actor: RoleEngineer}))
}

func TestCompleteRequiresChecklistAndSignOff(t *testing.T) {
	order := fullyPaidOrder()
	order.Status = StatusInProgress
	order.EngineerStatus = JobInProgress

	err := CheckTransition(order, StatusCompleted, TransitionContext{Actor: RoleEngineer, ChecklistDone: 5})
	var guardErr *GuardError
	assert.True(t, errors.As(err, &guardErr))
	assert.Contains(t, guardErr.Condition, "checklist incomplete")

	err = CheckTransition(order, StatusCompleted, TransitionContext{Actor: RoleEngineer, ChecklistDone: 6})
	assert.True(t, errors.As(err, &guardErr))
	assert.Contains(t, guardErr.Condition, "signed off")

	order.EngineerStatus = JobCompleted
	assert.NoError(t, CheckTransition(order, StatusCompleted, TransitionContext{Actor: RoleEngineer, ChecklistDone: 6}))
	assert.NoError(t, CheckTransition(order, StatusCompleted, TransitionContext{Actor: RoleAdmin, ChecklistDone: 6}))
	assert.ErrorIs(t, CheckTransition(order, StatusCompleted, TransitionContext{Actor: RoleClient, ChecklistDone: 6}), ErrNotPermitted)
}

func TestUnknownTransitionsRejected(t *testing.T) {
	ctx := TransitionContext{Actor: RoleAdmin}

	order := fullyPaidOrder()
	assert.ErrorIs(t, CheckTransition(order, StatusScheduled, ctx), ErrUnknownTransition)
	assert.ErrorIs(t, CheckTransition(order, StatusCompleted, ctx), ErrUnknownTransition)

	// No backward edges
	order.Status = StatusScheduled
	assert.ErrorIs(t, CheckTransition(order, StatusConfirmed, ctx), ErrUnknownTransition)

	order.Status = StatusRevisitRequired
	assert.ErrorIs(t, CheckTransition(order, StatusCompleted, ctx), ErrUnknownTransition)
}

func TestRevisitFromCompletedOnly(t *testing.T) {
	order := fullyPaidOrder()
	order.Status = StatusCompleted

	assert.NoError(t, CheckTransition(order, StatusRevisitRequired, TransitionContext{Actor: RoleAdmin}))
	assert.NoError(t, CheckTransition(order, StatusRevisitRequired, TransitionContext{Actor: RoleEngineer}))
	assert.ErrorIs(t, CheckTransition(order, StatusRevisitRequired, TransitionContext{Actor: RoleClient}), ErrNotPermitted)

	order.Status = StatusInProgress
	assert.ErrorIs(t, CheckTransition(order, StatusRevisitRequired, TransitionContext{Actor: RoleAdmin}), ErrUnknownTransition)
}

func TestAllowedTargets(t *testing.T) {
	assert.Equal(t, []OrderStatus{StatusConfirmed}, AllowedTargets(StatusPending))
	assert.Equal(t, []OrderStatus{StatusScheduled}, AllowedTargets(StatusConfirmed))
	assert.Equal(t, []OrderStatus{StatusRevisitRequired}, AllowedTargets(StatusCompleted))
	assert.Empty(t, AllowedTargets(StatusRevisitRequired))
}

func TestCanAdvanceJob(t *testing.T) {
	// Single forward step only
	assert.True(t, CanAdvanceJob(JobScheduled, JobOnWay))
	assert.True(t, CanAdvanceJob(JobOnWay, JobInProgress))
	assert.True(t, CanAdvanceJob(JobInProgress, JobCompleted))

	// Same status is a no-op, not an error
	assert.True(t, CanAdvanceJob(JobOnWay, JobOnWay))

	// Skipping and going backward are rejected
	assert.False(t, CanAdvanceJob(JobScheduled, JobInProgress))
	assert.False(t, CanAdvanceJob(JobScheduled, JobCompleted))
	assert.False(t, CanAdvanceJob(JobInProgress, JobOnWay))
	assert.False(t, CanAdvanceJob(JobCompleted, JobInProgress))

	assert.False(t, CanAdvanceJob(JobScheduled, "unknown"))
}

func TestRoleCapabilities(t *testing.T) {
	assert.True(t, RoleAdmin.Can(CapOverrideStatus))
	assert.True(t, RoleAdmin.Can(CapScheduleOrder))
	assert.False(t, RoleEngineer.Can(CapOverrideStatus))
	assert.True(t, RoleEngineer.Can(CapAdvanceJobStatus))
	assert.True(t, RoleEngineer.Can(CapToggleChecklist))
	assert.False(t, RoleClient.Can(CapToggleChecklist))
	assert.True(t, RoleClient.Can(CapPayOrder))
	assert.False(t, Role("unknown").Can(CapPayOrder))
}
