package utils

import (
	"bytes"
	"fmt"
	"net/smtp"
	"os"

	"github.com/jordan-wright/email"
)

// JobSheetData is the engineer-facing booking summary.
type JobSheetData struct {
	EngineerName string
	OrderNumber  string
	ClientName   string
	Address      string
	Postcode     string
	Phone        string
	InstallDate  string
	Notes        string
}

// SendJobSheetEmail mails the engineer a plain job sheet with the order's QR
// job card attached, so it can be scanned on site.
func SendJobSheetEmail(to string, data JobSheetData, qrPNG []byte) error {
	e := email.NewEmail()
	e.From = os.Getenv("SMTP_FROM")
	e.To = []string{to}
	e.Subject = fmt.Sprintf("Job sheet %s - install on %s", data.OrderNumber, data.InstallDate)
	e.Text = []byte(fmt.Sprintf(
		"Hi %s,\n\nYou have been booked for order %s.\n\nClient: %s\nAddress: %s, %s\nPhone: %s\nDate: %s\n\nNotes: %s\n",
		data.EngineerName, data.OrderNumber, data.ClientName, data.Address,
		data.Postcode, data.Phone, data.InstallDate, data.Notes,
	))

	if len(qrPNG) > 0 {
		if _, err := e.Attach(bytes.NewReader(qrPNG), data.OrderNumber+".png", "image/png"); err != nil {
			return err
		}
	}

	addr := os.Getenv("SMTP_HOST") + ":" + os.Getenv("SMTP_PORT")
	auth := smtp.PlainAuth("", os.Getenv("SMTP_USERNAME"), os.Getenv("SMTP_PASSWORD"), os.Getenv("SMTP_HOST"))
	return e.Send(addr, auth)
}
