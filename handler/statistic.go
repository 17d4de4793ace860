package handler

import (
	"time"

	"install_manager/database"
	"install_manager/model"
	"install_manager/utils"

	"github.com/gofiber/fiber/v2"
)

// GetAdminStats builds the dashboard tiles: catalog counts, the pipeline
// broken down by status, and this month's settled revenue against last
// month's.
func GetAdminStats(c *fiber.Ctx) error {
	db := database.DB

	type Stats struct {
		Clients   int64 `json:"clients"`
		Engineers int64 `json:"engineers"`
		Services  int64 `json:"services"`
		Quotes    int64 `json:"quotes"`

		OrdersByStatus map[model.OrderStatus]int64 `json:"ordersByStatus"`
		RevisitRate    float64                     `json:"revisitRate"`

		MonthRevenue     float64 `json:"monthRevenue"`
		RevenueGrowth    float64 `json:"revenueGrowth"`
		MonthCompletions int64   `json:"monthCompletions"`
		UpcomingInstalls int64   `json:"upcomingInstalls"`
	}

	var stats Stats
	stats.OrdersByStatus = make(map[model.OrderStatus]int64)

	db.Model(&model.Client{}).Count(&stats.Clients)
	db.Model(&model.Engineer{}).Count(&stats.Engineers)
	db.Model(&model.ServiceItem{}).Count(&stats.Services)
	db.Model(&model.Quote{}).Count(&stats.Quotes)

	type statusCount struct {
		Status model.OrderStatus
		Total  int64
	}
	var rows []statusCount
	db.Model(&model.Order{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows)
	var totalOrders, revisits int64
	for _, row := range rows {
		stats.OrdersByStatus[row.Status] = row.Total
		totalOrders += row.Total
		if row.Status == model.StatusRevisitRequired {
			revisits = row.Total
		}
	}
	if totalOrders > 0 {
		stats.RevisitRate = float64(revisits) / float64(totalOrders) * 100
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	prevStart := monthStart.AddDate(0, -1, 0)

	var prevRevenue float64
	db.Raw(`
        SELECT COALESCE(SUM(amount), 0)
        FROM order_payments
        WHERE status = 'paid'
          AND created_at >= ? AND created_at < ?
    `, monthStart, now).Scan(&stats.MonthRevenue)
	db.Raw(`
        SELECT COALESCE(SUM(amount), 0)
        FROM order_payments
        WHERE status = 'paid'
          AND created_at >= ? AND created_at < ?
    `, prevStart, monthStart).Scan(&prevRevenue)
	stats.RevenueGrowth = utils.CalculateGrowth(stats.MonthRevenue, prevRevenue)

	db.Model(&model.Order{}).
		Where("status = ? AND updated_at >= ?", model.StatusCompleted, monthStart).
		Count(&stats.MonthCompletions)
	db.Model(&model.Order{}).
		Where("status = ? AND scheduled_install_date BETWEEN ? AND ?",
			model.StatusScheduled, now, now.Add(7*24*time.Hour)).
		Count(&stats.UpcomingInstalls)

	return utils.SuccessResponse(c, fiber.StatusOK, stats)
}

// GetEngineerWorkload lists per-engineer open job counts for the scheduling
// screen.
func GetEngineerWorkload(c *fiber.Ctx) error {
	type workloadRow struct {
		EngineerId uint   `json:"engineerId"`
		Name       string `json:"name"`
		OpenJobs   int64  `json:"openJobs"`
	}

	var rows []workloadRow
	if err := database.DB.Raw(`
        SELECT e.id AS engineer_id,
               e.first_name || ' ' || e.last_name AS name,
               COUNT(o.id) AS open_jobs
        FROM engineers e
        LEFT JOIN orders o
          ON o.engineer_id = e.id
         AND o.status IN ('scheduled', 'in_progress', 'revisit_required')
         AND o.deleted_at IS NULL
        WHERE e.deleted_at IS NULL
        GROUP BY e.id, e.first_name, e.last_name
        ORDER BY open_jobs DESC
    `).Scan(&rows).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Workload query failed", err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, rows)
}
