package model

import "time"

type Message struct {
	DTO
	OrderId    uint       `gorm:"not null;index" json:"orderId"`
	SenderId   uint       `gorm:"not null" json:"senderId"`
	SenderRole Role       `gorm:"size:16;not null" json:"senderRole"`
	Body       string     `gorm:"not null" json:"body"`
	ReadAt     *time.Time `json:"readAt,omitempty"`
}

type Messages []Message

type CreateMessageInput struct {
	Body string `json:"body" validate:"required,min=1,max=4000"`
}
