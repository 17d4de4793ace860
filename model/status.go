package model

import (
	"errors"
	"fmt"
)

// OrderStatus is the single canonical order state. The engineer sub-status is
// tracked separately on the order (see EngineerStatus).
type OrderStatus string

const (
	StatusPending         OrderStatus = "pending"
	StatusConfirmed       OrderStatus = "confirmed"
	StatusScheduled       OrderStatus = "scheduled"
	StatusInProgress      OrderStatus = "in_progress"
	StatusCompleted       OrderStatus = "completed"
	StatusRevisitRequired OrderStatus = "revisit_required"
)

// StatusPaid is tracked in parallel with the main progression: an order is
// "paid" once amount_paid covers total_amount, whatever its main status.
const StatusPaid = "paid"

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusScheduled, StatusInProgress,
		StatusCompleted, StatusRevisitRequired:
		return true
	}
	return false
}

// EngineerStatus is the per-assignment job sub-status, strictly forward-only.
type EngineerStatus string

const (
	JobScheduled  EngineerStatus = "scheduled"
	JobOnWay      EngineerStatus = "on_way"
	JobInProgress EngineerStatus = "in_progress"
	JobCompleted  EngineerStatus = "completed"
)

var jobOrder = []EngineerStatus{JobScheduled, JobOnWay, JobInProgress, JobCompleted}

func (s EngineerStatus) Valid() bool {
	return jobIndex(s) >= 0
}

func jobIndex(s EngineerStatus) int {
	for i, v := range jobOrder {
		if v == s {
			return i
		}
	}
	return -1
}

// CanAdvanceJob allows only the immediately next sub-status (or staying put).
// Skipping ahead and moving backward are both rejected.
func CanAdvanceJob(from, to EngineerStatus) bool {
	fi, ti := jobIndex(from), jobIndex(to)
	if fi < 0 || ti < 0 {
		return false
	}
	return ti == fi || ti == fi+1
}

// ChecklistSize is the fixed number of completion checks per order.
const ChecklistSize = 6

// GuardError reports which precondition blocked a rejected transition.
type GuardError struct {
	Condition string
}

func (e *GuardError) Error() string {
	return "guard not met: " + e.Condition
}

var (
	ErrNotPermitted      = errors.New("role is not permitted to request this transition")
	ErrUnknownTransition = errors.New("no such transition from the current status")
)

// TransitionContext carries everything a guard needs beyond the order row
// itself: who is asking, and the recomputed checklist completion count.
type TransitionContext struct {
	Actor         Role
	ChecklistDone int
}

type transitionRule struct {
	from  OrderStatus
	to    OrderStatus
	roles []Role
	guard func(o *Order, ctx TransitionContext) *GuardError
}

func (r transitionRule) allows(role Role) bool {
	if len(r.roles) == 0 {
		return true
	}
	for _, allowed := range r.roles {
		if allowed == role {
			return true
		}
	}
	return false
}

var transitionTable = []transitionRule{
	{
		from: StatusPending, to: StatusConfirmed,
		guard: func(o *Order, _ TransitionContext) *GuardError {
			if !o.FullyPaid() {
				return &GuardError{Condition: fmt.Sprintf(
					"payment incomplete: paid %s of %s",
					o.AmountPaid.StringFixed(2), o.TotalAmount.StringFixed(2))}
			}
			return nil
		},
	},
	{
		from: StatusConfirmed, to: StatusScheduled,
		roles: []Role{RoleAdmin},
		guard: func(o *Order, _ TransitionContext) *GuardError {
			if o.EngineerID == nil {
				return &GuardError{Condition: "no engineer assigned"}
			}
			if o.ScheduledInstallDate == nil {
				return &GuardError{Condition: "no install date set"}
			}
			return nil
		},
	},
	{
		from: StatusScheduled, to: StatusInProgress,
		roles: []Role{RoleEngineer},
	},
	{
		from: StatusInProgress, to: StatusCompleted,
		roles: []Role{RoleEngineer, RoleAdmin},
		guard: func(o *Order, ctx TransitionContext) *GuardError {
			if ctx.ChecklistDone < ChecklistSize {
				return &GuardError{Condition: fmt.Sprintf(
					"checklist incomplete: %d of %d items done", ctx.ChecklistDone, ChecklistSize)}
			}
			if o.EngineerStatus != JobCompleted {
				return &GuardError{Condition: "engineer has not signed off the job"}
			}
			return nil
		},
	},
	{
		from: StatusCompleted, to: StatusRevisitRequired,
		roles: []Role{RoleAdmin, RoleEngineer},
	},
}

// CheckTransition validates a requested transition against the table. Manual
// admin overrides do not go through here; they bypass ordering and guards
// entirely (see the transition executor).
func CheckTransition(o *Order, to OrderStatus, ctx TransitionContext) error {
	for _, rule := range transitionTable {
		if rule.from != o.Status || rule.to != to {
			continue
		}
		if !rule.allows(ctx.Actor) {
			return ErrNotPermitted
		}
		if rule.guard != nil {
			if gerr := rule.guard(o, ctx); gerr != nil {
				return gerr
			}
		}
		return nil
	}
	return ErrUnknownTransition
}

// AllowedTargets lists the statuses reachable from the current one through
// the normal table, ignoring guards. Used by the order detail projection.
func AllowedTargets(from OrderStatus) []OrderStatus {
	var targets []OrderStatus
	for _, rule := range transitionTable {
		if rule.from == from {
			targets = append(targets, rule.to)
		}
	}
	return targets
}
