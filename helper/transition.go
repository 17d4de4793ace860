package helper

import (
	"fmt"
	"log"
	"sync"

	"install_manager/database"
	"install_manager/model"
	"install_manager/utils"
)

// StatusMailer sends the client notification for a status change. It is a
// variable so tests can substitute a failing or recording sender.
var StatusMailer = utils.SendStatusEmail

var sideEffectWG sync.WaitGroup

// WaitForSideEffects blocks until queued side-effect dispatches finish. Used
// on shutdown and by tests.
func WaitForSideEffects() {
	sideEffectWG.Wait()
}

type TransitionResult struct {
	From     model.OrderStatus `json:"from"`
	To       model.OrderStatus `json:"to"`
	Override bool              `json:"override"`
}

// ApplyTransition validates a requested order-status transition, persists it
// as a single status-field update, and queues the side effects. Guard and
// authorization failures are reported before any mutation; a persistence
// failure aborts with no side effects; side-effect failures never surface to
// the caller.
func ApplyTransition(order *model.Order, target model.OrderStatus, claim model.TokenClaim) (*TransitionResult, error) {
	done, err := CountChecklistDone(order.ID)
	if err != nil {
		return nil, err
	}

	ctx := model.TransitionContext{
		Actor:         claim.Role,
		ChecklistDone: done,
	}
	if err := model.CheckTransition(order, target, ctx); err != nil {
		return nil, err
	}

	from := order.Status
	if err := database.DB.Model(order).Update("status", target).Error; err != nil {
		return nil, fmt.Errorf("persist status: %w", err)
	}
	order.Status = target

	res := &TransitionResult{From: from, To: target}
	queueSideEffects(order.ID, from, target, claim, false, "")
	return res, nil
}

// ApplyOverride is the admin escape hatch: it bypasses the transition table
// and all guards, but always records the justification notes and the
// override flag.
func ApplyOverride(order *model.Order, target model.OrderStatus, notes string, claim model.TokenClaim) (*TransitionResult, error) {
	if claim.Role != model.RoleAdmin {
		return nil, model.ErrNotPermitted
	}
	if notes == "" {
		return nil, &model.GuardError{Condition: "override notes are required"}
	}

	from := order.Status
	updates := map[string]interface{}{
		"status":                 target,
		"manual_status_override": true,
		"manual_status_notes":    notes,
	}
	if err := database.DB.Model(order).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("persist status: %w", err)
	}
	order.Status = target
	order.ManualStatusOverride = true
	order.ManualStatusNotes = notes

	res := &TransitionResult{From: from, To: target, Override: true}
	queueSideEffects(order.ID, from, target, claim, true, notes)
	return res, nil
}

func queueSideEffects(orderId uint, from, to model.OrderStatus, claim model.TokenClaim, override bool, notes string) {
	sideEffectWG.Add(1)
	go func() {
		defer sideEffectWG.Done()
		DispatchSideEffects(orderId, from, to, claim, override, notes)
	}()
}

// DispatchSideEffects records the transition in the activity log, pushes the
// change to the order's realtime channel, and emails the client. Each effect
// is isolated: one failing never rolls back the committed transition or
// blocks the others.
func DispatchSideEffects(orderId uint, from, to model.OrderStatus, claim model.TokenClaim, override bool, notes string) {
	action := model.ActivityTransition
	if override {
		action = model.ActivityOverride
	}
	activity := model.OrderActivity{
		OrderId:    orderId,
		Action:     action,
		FromStatus: from,
		ToStatus:   to,
		ActorId:    claim.AccountId,
		ActorRole:  claim.Role,
		Override:   override,
		Notes:      notes,
	}
	if err := database.DB.Create(&activity).Error; err != nil {
		log.Printf("order %d: activity log failed: %v", orderId, err)
	}

	PublishOrderUpdate(orderId, map[string]interface{}{
		"orderId": orderId,
		"from":    from,
		"to":      to,
	})

	notifyClient(orderId, to)
}

func notifyClient(orderId uint, to model.OrderStatus) {
	var order model.Order
	if err := database.DB.Preload("Client").Preload("Engineer").First(&order, orderId).Error; err != nil {
		log.Printf("order %d: load for notification failed: %v", orderId, err)
		return
	}
	if order.Client == nil || order.Client.Email == "" {
		return
	}

	data := utils.StatusEmailData{
		ClientName:  order.Client.Name,
		OrderNumber: order.OrderNumber,
		TotalAmount: order.TotalAmount.StringFixed(2),
		AmountPaid:  order.AmountPaid.StringFixed(2),
		Notes:       order.ManualStatusNotes,
	}
	if order.ScheduledInstallDate != nil {
		data.InstallDate = order.ScheduledInstallDate.Format("02/01/2006")
	}
	if order.Engineer != nil {
		data.EngineerName = order.Engineer.FullName()
	}

	outcome := "sent"
	if err := StatusMailer(order.Client.Email, to, data); err != nil {
		log.Printf("order %d: status email failed: %v", orderId, err)
		outcome = "failed: " + err.Error()
	}

	record := model.OrderActivity{
		OrderId:  orderId,
		Action:   model.ActivityNotification,
		ToStatus: to,
		Notes:    outcome,
	}
	if err := database.DB.Create(&record).Error; err != nil {
		log.Printf("order %d: notification log failed: %v", orderId, err)
	}
}

// LogActivity appends a non-transition audit entry (payments, agreement,
// checklist toggles, job status changes).
func LogActivity(orderId uint, action string, claim model.TokenClaim, notes string) {
	activity := model.OrderActivity{
		OrderId:   orderId,
		Action:    action,
		ActorId:   claim.AccountId,
		ActorRole: claim.Role,
		Notes:     notes,
	}
	if err := database.DB.Create(&activity).Error; err != nil {
		log.Printf("order %d: activity log failed: %v", orderId, err)
	}
}
