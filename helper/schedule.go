package helper

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"install_manager/database"
	"install_manager/model"
	"install_manager/utils"

	"github.com/robfig/cron/v3"
)

// slot holds expire on their own; an admin composing an assignment gets this
// long before the slot frees up for someone else.
const slotHoldTTL = 10 * time.Minute

func slotHoldKey(engineerId uint, date string) string {
	return fmt.Sprintf("slothold:%d:%s", engineerId, date)
}

// HoldSlot reserves an engineer/date pair while an admin finishes the
// scheduling form. Returns false when another admin already holds it.
func HoldSlot(ctx context.Context, engineerId uint, date string, heldBy uint) (bool, error) {
	ok, err := Redis().SetNX(ctx, slotHoldKey(engineerId, date), heldBy, slotHoldTTL).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}

// ReleaseSlot frees a held engineer/date pair.
func ReleaseSlot(ctx context.Context, engineerId uint, date string) error {
	return Redis().Del(ctx, slotHoldKey(engineerId, date)).Err()
}

// SlotHeldBy returns the holder's account id, or 0 when the slot is free.
func SlotHeldBy(ctx context.Context, engineerId uint, date string) (uint, error) {
	val, err := Redis().Get(ctx, slotHoldKey(engineerId, date)).Uint64()
	if err != nil {
		return 0, nil // treat missing key and redis errors as "free"
	}
	return uint(val), nil
}

// EngineerAvailable checks time-off ranges and existing bookings for a date.
func EngineerAvailable(engineerId uint, date time.Time) (bool, string, error) {
	var offCount int64
	if err := database.DB.Model(&model.EngineerTimeOff{}).
		Where("engineer_id = ? AND start_date <= ? AND end_date >= ?", engineerId, date, date).
		Count(&offCount).Error; err != nil {
		return false, "", err
	}
	if offCount > 0 {
		return false, "engineer is on time off that day", nil
	}

	var booked int64
	if err := database.DB.Model(&model.Order{}).
		Where("engineer_id = ? AND scheduled_install_date = ? AND status IN ?",
			engineerId, date, []model.OrderStatus{model.StatusScheduled, model.StatusInProgress}).
		Count(&booked).Error; err != nil {
		return false, "", err
	}
	if booked > 0 {
		return false, "engineer already has an install booked that day", nil
	}

	return true, "", nil
}

type RankedEngineer struct {
	Engineer   model.Engineer `json:"engineer"`
	DistanceKm float64        `json:"distanceKm"`
}

// RankEngineersByDistance orders active engineers by great-circle distance
// from the order's coordinates. Engineers without coordinates sort last.
func RankEngineersByDistance(lat, lng float64) ([]RankedEngineer, error) {
	var engineers []model.Engineer
	if err := database.DB.Where("is_active = ?", true).Find(&engineers).Error; err != nil {
		return nil, err
	}

	ranked := make([]RankedEngineer, 0, len(engineers))
	for _, e := range engineers {
		entry := RankedEngineer{Engineer: e, DistanceKm: -1}
		if e.Latitude != nil && e.Longitude != nil {
			entry.DistanceKm = utils.Haversine(lat, lng, *e.Latitude, *e.Longitude)
		}
		ranked = append(ranked, entry)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		di, dj := ranked[i].DistanceKm, ranked[j].DistanceKm
		if di < 0 {
			return false
		}
		if dj < 0 {
			return true
		}
		return di < dj
	})

	return ranked, nil
}

var sweeper *cron.Cron

// StartOrderSweeper runs the 5-minutely maintenance pass: stale payment
// sessions are marked failed and overdue installs are flagged in the logs.
func StartOrderSweeper() {
	sweeper = cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
	))

	_, err := sweeper.AddFunc("*/5 * * * *", sweepOrders)
	if err != nil {
		log.Printf("Failed to start order sweeper: %v", err)
		return
	}

	sweeper.Start()
	log.Println("Order sweeper started (every 5 minutes)")
}

func sweepOrders() {
	cutoff := time.Now().Add(-30 * time.Minute)
	result := database.DB.Model(&model.OrderPayment{}).
		Where("status = ? AND created_at < ?", model.PaymentPending, cutoff).
		Update("status", model.PaymentFailed)
	if result.Error != nil {
		log.Printf("[CRON] payment session sweep failed: %v", result.Error)
	} else if result.RowsAffected > 0 {
		log.Printf("[CRON] expired %d stale payment sessions", result.RowsAffected)
	}

	var overdue int64
	today := time.Now().Truncate(24 * time.Hour)
	if err := database.DB.Model(&model.Order{}).
		Where("status = ? AND scheduled_install_date < ?", model.StatusScheduled, today).
		Count(&overdue).Error; err != nil {
		log.Printf("[CRON] overdue install scan failed: %v", err)
	} else if overdue > 0 {
		log.Printf("[CRON] %d scheduled installs are past their date", overdue)
	}
}

// StopOrderSweeper stops the maintenance cron on shutdown.
func StopOrderSweeper() {
	if sweeper != nil {
		sweeper.Stop()
	}
}
