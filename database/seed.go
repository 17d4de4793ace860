package database

import (
	"log"

	"install_manager/constants"
	"install_manager/model"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func SeedData(db *gorm.DB) {
	bytes, err := bcrypt.GenerateFromPassword([]byte("changeme123"), 10)
	hashedPassword := string(bytes)
	if err != nil {
		hashedPassword = "changeme123"
	}

	accounts := []model.Account{
		{Username: "administrator", Password: hashedPassword, Active: true, Role: constants.ROLE_ADMIN},
	}
	for _, account := range accounts {
		if err := db.Where(model.Account{Username: account.Username}).FirstOrCreate(&account).Error; err != nil {
			log.Println("failed to seed account:", account.Username, "error:", err)
		}
	}

	services := []model.ServiceItem{
		{Name: "Air source heat pump installation", Slug: "air-source-heat-pump-installation", BasePrice: decimal.NewFromInt(7500)},
		{Name: "EV charger installation", Slug: "ev-charger-installation", BasePrice: decimal.NewFromInt(950)},
		{Name: "Solar panel installation", Slug: "solar-panel-installation", BasePrice: decimal.NewFromInt(5400)},
		{Name: "Battery storage installation", Slug: "battery-storage-installation", BasePrice: decimal.NewFromInt(3200)},
		{Name: "Smart thermostat fitting", Slug: "smart-thermostat-fitting", BasePrice: decimal.NewFromInt(280)},
	}
	for _, service := range services {
		if err := db.Where(model.ServiceItem{Slug: service.Slug}).FirstOrCreate(&service).Error; err != nil {
			log.Println("failed to seed service:", service.Name, "error:", err)
		}
	}
}
