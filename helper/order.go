package helper

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"install_manager/database"
	"install_manager/model"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func randomCode(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteByte(codeAlphabet[rand.Intn(len(codeAlphabet))])
	}
	return b.String()
}

// GenerateOrderNumber produces a unique human-readable reference (ORD-XXXXXX).
func GenerateOrderNumber(tx *gorm.DB) string {
	for {
		number := "ORD-" + randomCode(6)
		var count int64
		tx.Model(&model.Order{}).Where("order_number = ?", number).Count(&count)
		if count == 0 {
			return number
		}
	}
}

// GenerateQuoteNumber produces a unique quote reference (QTE-XXXXXX).
func GenerateQuoteNumber(tx *gorm.DB) string {
	for {
		number := "QTE-" + randomCode(6)
		var count int64
		tx.Model(&model.Quote{}).Where("quote_number = ?", number).Count(&count)
		if count == 0 {
			return number
		}
	}
}

// GenerateUniqueServiceSlug slugifies a service name and suffixes a counter
// until it is unique.
func GenerateUniqueServiceSlug(tx *gorm.DB, name string) string {
	base := slug.Make(name)
	result := base
	i := 1

	for {
		var count int64
		tx.Model(&model.ServiceItem{}).
			Where("slug = ?", result).
			Count(&count)

		if count == 0 {
			break
		}
		result = fmt.Sprintf("%s-%d", base, i)
		i++
	}

	return result
}

func GetOrderById(id uint) (*model.Order, error) {
	var order model.Order
	if err := database.DB.Preload("Client").Preload("Engineer").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}


// OrderVisibleTo applies the role scope: admins see everything, engineers
// their assigned orders, clients their own.
func OrderVisibleTo(order *model.Order, claim model.TokenClaim, account *model.Account) bool {
	switch claim.Role {
	case model.RoleAdmin:
		return true
	case model.RoleEngineer:
		return account.EngineerId != nil && order.EngineerID != nil && *account.EngineerId == *order.EngineerID
	case model.RoleClient:
		return account.ClientId != nil && *account.ClientId == order.ClientID
	}
	return false
}
