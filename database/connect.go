package database

import (
	"fmt"
	"strconv"

	"install_manager/config"
	"install_manager/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() {
	var err error
	p := config.Config("DB_PORT")
	port, err := strconv.ParseUint(p, 10, 32)

	if err != nil {
		panic("failed to parse database port")
	}

	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		config.Config("DB_HOST"), port, config.Config("DB_USER"),
		config.Config("DB_PASSWORD"), config.Config("DB_NAME"))
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})

	if err != nil {
		panic("failed to connect database")
	}

	fmt.Println("Connection Opened to Database")
	Migrate(DB)
	fmt.Println("Database Migrated")

	SeedData(DB)
}

// Migrate runs AutoMigrate for every model. Shared with the sqlite test
// databases.
func Migrate(db *gorm.DB) {
	db.AutoMigrate(
		&model.Account{},
		&model.Client{},
		&model.Engineer{},
		&model.EngineerTimeOff{},
		&model.ServiceItem{},
		&model.Quote{},
		&model.QuoteItem{},
		&model.Order{},
		&model.OrderPayment{},
		&model.OrderActivity{},
		&model.CompletionChecklistItem{},
		&model.Message{},
		&model.CompletionPhoto{},
	)
}
