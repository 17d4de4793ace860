package model

type Account struct {
	DTO
	Username     string `gorm:"uniqueIndex;not null" validate:"required,min=3,max=50" json:"username"`
	Email        string `gorm:"index" validate:"omitempty,email" json:"email"`
	Password     string `gorm:"not null" validate:"required,min=6,max=50" json:"-"`
	AccessToken  string `gorm:"-" json:"accessToken,omitempty"`
	RefreshToken string `gorm:"-" json:"refreshToken,omitempty"`
	Active       bool   `gorm:"not null;default:true" json:"active"`
	Role         Role   `gorm:"size:16;not null" json:"role"`

	EngineerId *uint     `json:"engineerId,omitempty"`
	Engineer   *Engineer `gorm:"foreignKey:EngineerId;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"engineer,omitempty"`
	ClientId   *uint     `json:"clientId,omitempty"`
	ClientRef  *Client   `gorm:"foreignKey:ClientId;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"client,omitempty"`
}

type Accounts []Account

type CreateAccountInput struct {
	Username   string `validate:"required,min=3,max=50" json:"username"`
	Email      string `validate:"omitempty,email" json:"email"`
	Password   string `validate:"required,min=6" json:"password"`
	Role       string `validate:"required,oneof=ADMIN ENGINEER CLIENT" json:"role"`
	EngineerId *uint  `json:"engineerId"`
	ClientId   *uint  `json:"clientId"`
}

type UpdateAccountInput struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
	Active   *bool   `json:"active,omitempty"`
	Role     *string `json:"role,omitempty" validate:"omitempty,oneof=ADMIN ENGINEER CLIENT"`
}

type FilterAccount struct {
	Pagination
	SearchKey string  `json:"searchKey"`
	Active    *bool   `json:"active"`
	Role      *string `json:"role"`
}
