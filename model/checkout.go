package model

// CheckoutConfig holds the hosted payment gateway credentials.
type CheckoutConfig struct {
	MerchantCode string
	HashSecret   string
	BaseURL      string
	ReturnURL    string
	IPNURL       string
}

type CheckoutRequest struct {
	Amount      int64 // minor units
	Description string
	SessionRef  string
	IPAddr      string
}

type CheckoutResult struct {
	IsSuccess  bool
	SessionRef string
	Amount     int64
	Status     string
	Message    string
}
