package model

type Client struct {
	DTO
	Email    string `gorm:"unique;not null" json:"email"`
	Phone    string `gorm:"not null" json:"phone"`
	Name     string `gorm:"not null" json:"name"`
	Postcode string `json:"postcode"`
	Address  string `json:"address"`

	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	IsActive bool `gorm:"default:true" json:"isActive"`
}

type Clients []Client

type RegisterClientInput struct {
	Name     string `validate:"required" json:"name"`
	Email    string `validate:"required,email" json:"email"`
	Phone    string `validate:"required" json:"phone"`
	Postcode string `validate:"required" json:"postcode"`
	Address  string `json:"address"`
	Password string `validate:"required,min=6" json:"password"`
}

type EditClientInput struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	Postcode *string `json:"postcode"`
	Address  *string `json:"address"`
	IsActive *bool   `json:"isActive"`
}

type FilterClient struct {
	Pagination
	SearchKey string `json:"searchKey"`
	Active    *bool  `json:"active"`
}
