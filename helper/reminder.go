package helper

import (
	"log"
	"time"

	"install_manager/database"
	"install_manager/model"
	"install_manager/utils"

	"github.com/go-co-op/gocron/v2"
)

var reminderScheduler gocron.Scheduler

// SendInstallReminders mails every client whose install is tomorrow.
func SendInstallReminders() {
	log.Println("[CRON] SendInstallReminders triggered")

	tomorrow := time.Now().Add(24 * time.Hour).Truncate(24 * time.Hour)

	var orders []model.Order
	if err := database.DB.Preload("Client").Preload("Engineer").
		Where("status = ? AND scheduled_install_date = ?", model.StatusScheduled, tomorrow).
		Find(&orders).Error; err != nil {
		log.Printf("[CRON] reminder scan failed: %v", err)
		return
	}

	for _, order := range orders {
		if order.Client == nil || order.Client.Email == "" {
			continue
		}
		data := utils.StatusEmailData{
			ClientName:  order.Client.Name,
			OrderNumber: order.OrderNumber,
			InstallDate: tomorrow.Format("02/01/2006"),
		}
		if order.Engineer != nil {
			data.EngineerName = order.Engineer.FullName()
		}
		if err := utils.SendStatusEmail(order.Client.Email, model.StatusScheduled, data); err != nil {
			log.Printf("[CRON] reminder for %s failed: %v", order.OrderNumber, err)
		}
	}
}

// StartReminderScheduler sends install reminders every morning.
func StartReminderScheduler() {
	s, err := gocron.NewScheduler()
	if err != nil {
		log.Printf("Failed to create reminder scheduler: %v", err)
		return
	}

	_, err = s.NewJob(
		gocron.DailyJob(
			1,
			gocron.NewAtTimes(
				gocron.NewAtTime(7, 30, 0),
			),
		),
		gocron.NewTask(SendInstallReminders),
	)
	if err != nil {
		log.Printf("Failed to register reminder job: %v", err)
		return
	}

	s.Start()
	reminderScheduler = s
	log.Println("Install reminder scheduler started (daily 07:30)")
}

func StopReminderScheduler() {
	if reminderScheduler != nil {
		_ = reminderScheduler.Shutdown()
	}
}
