package handler

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"net/url"
	"os"
	"strconv"
	"time"

	"install_manager/model"
)

// CheckoutGateway wraps the hosted payment provider: it builds signed
// checkout URLs and verifies return/IPN callbacks.
type CheckoutGateway struct {
	Config model.CheckoutConfig
}

func NewCheckoutGateway() *CheckoutGateway {
	return &CheckoutGateway{
		Config: model.CheckoutConfig{
			MerchantCode: os.Getenv("PAYGATE_MERCHANT"),
			HashSecret:   os.Getenv("PAYGATE_SECRET"),
			BaseURL:      os.Getenv("PAYGATE_URL"),
			ReturnURL:    os.Getenv("APP_URL") + "/payments/return",
			IPNURL:       os.Getenv("APP_URL") + "/payments/ipn",
		},
	}
}

// BuildCheckoutUrl assembles the hosted checkout redirect with an HMAC
// signature over the sorted query string.
func (g *CheckoutGateway) BuildCheckoutUrl(req model.CheckoutRequest) (string, error) {
	params := url.Values{}
	params.Add("pg_version", "1.0")
	params.Add("pg_merchant", g.Config.MerchantCode)
	params.Add("pg_amount", strconv.FormatInt(req.Amount, 10))
	params.Add("pg_currency", "GBP")
	params.Add("pg_created", time.Now().Format("20060102150405"))
	params.Add("pg_description", req.Description)
	params.Add("pg_ref", req.SessionRef)
	params.Add("pg_ip", req.IPAddr)
	params.Add("pg_return_url", g.Config.ReturnURL)
	params.Add("pg_expires", time.Now().Add(30*time.Minute).Format("20060102150405"))

	query := params.Encode()
	hash := g.generateHash(query)
	fullQuery := query + "&pg_signature=" + hash

	return g.Config.BaseURL + "?" + fullQuery, nil
}

// VerifyReturn validates a browser return callback.
func (g *CheckoutGateway) VerifyReturn(query url.Values) model.CheckoutResult {
	signature := query.Get("pg_signature")
	query.Del("pg_signature")

	expected := g.generateHash(query.Encode())
	if signature != expected {
		return model.CheckoutResult{IsSuccess: false, Message: "Invalid signature"}
	}

	if query.Get("pg_status") == "paid" {
		ref := query.Get("pg_ref")
		amount, _ := strconv.ParseInt(query.Get("pg_amount"), 10, 64)
		return model.CheckoutResult{
			IsSuccess:  true,
			SessionRef: ref,
			Amount:     amount,
			Status:     "paid",
		}
	}

	return model.CheckoutResult{IsSuccess: false, Message: "Payment " + query.Get("pg_status")}
}

// VerifyIPN validates a server-to-server notification.
func (g *CheckoutGateway) VerifyIPN(query url.Values) model.CheckoutResult {
	signature := query.Get("pg_signature")
	query.Del("pg_signature")

	expected := g.generateHash(query.Encode())
	if signature != expected {
		return model.CheckoutResult{IsSuccess: false, Message: "Invalid IPN signature"}
	}

	if query.Get("pg_status") == "paid" {
		return model.CheckoutResult{
			IsSuccess:  true,
			SessionRef: query.Get("pg_ref"),
			Status:     "paid",
		}
	}

	return model.CheckoutResult{IsSuccess: false, Message: "IPN " + query.Get("pg_status")}
}

func (g *CheckoutGateway) generateHash(data string) string {
	h := hmac.New(sha512.New, []byte(g.Config.HashSecret))
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))
}
