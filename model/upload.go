package model

type CompletionPhoto struct {
	DTO
	OrderId    uint   `gorm:"not null;index" json:"orderId"`
	Url        string `gorm:"not null" json:"url"`
	PublicId   string `gorm:"not null" json:"publicId"`
	UploadedBy uint   `json:"uploadedBy"`
	Caption    string `json:"caption"`
}

type RegisterPhotoInput struct {
	Url      string `json:"url" validate:"required,url"`
	PublicId string `json:"publicId" validate:"required"`
	Caption  string `json:"caption"`
}
