package model

import "time"

type Engineer struct {
	DTO
	FirstName   string `gorm:"not null" validate:"required" json:"firstname"`
	LastName    string `gorm:"not null" validate:"required" json:"lastname"`
	PhoneNumber string `gorm:"not null" json:"phoneNumber"`
	Email       string `json:"email"`
	Postcode    string `gorm:"not null" json:"postcode"`

	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	IsActive bool   `gorm:"not null;default:true" json:"isActive"`
	Note     string `json:"note"`
}

type Engineers []Engineer

func (e *Engineer) FullName() string {
	return e.FirstName + " " + e.LastName
}

// EngineerTimeOff blocks a date range from scheduling for one engineer.
type EngineerTimeOff struct {
	DTO
	EngineerId uint      `gorm:"not null;index" json:"engineerId"`
	Engineer   *Engineer `gorm:"foreignKey:EngineerId" json:"engineer,omitempty"`
	StartDate  time.Time `gorm:"not null" json:"startDate"`
	EndDate    time.Time `gorm:"not null" json:"endDate"`
	Reason     string    `json:"reason"`
}

type CreateEngineerInput struct {
	FirstName   string `validate:"required" json:"firstname"`
	LastName    string `validate:"required" json:"lastname"`
	PhoneNumber string `validate:"required" json:"phoneNumber"`
	Email       string `validate:"omitempty,email" json:"email"`
	Postcode    string `validate:"required" json:"postcode"`
	Note        string `json:"note"`
}

type EditEngineerInput struct {
	FirstName   *string `json:"firstname"`
	LastName    *string `json:"lastname"`
	PhoneNumber *string `json:"phoneNumber"`
	Email       *string `json:"email"`
	Postcode    *string `json:"postcode"`
	IsActive    *bool   `json:"isActive"`
	Note        *string `json:"note"`
}

type CreateTimeOffInput struct {
	EngineerId uint   `validate:"required,gt=0" json:"engineerId"`
	StartDate  string `validate:"required" json:"startDate"` // 2006-01-02
	EndDate    string `validate:"required" json:"endDate"`
	Reason     string `json:"reason"`
}
