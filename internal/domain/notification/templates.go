package notification

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

const (
	customerReceiptTemplate = "customer_receipt.html"
	businessOrderTemplate   = "business_order.html"
)

// ItemLine is one row of the emailed order table.
type ItemLine struct {
	Title    string
	Quantity int
	PriceZAR string
}

// OrderEmailData feeds both order templates.
type OrderEmailData struct {
	BusinessName     string
	OrderID          string
	OrderDate        string
	PaymentMethod    string
	PaymentReference string
	Items            []ItemLine
	TotalZAR         string
	TotalUSD         string
	CustomerName     string
	CustomerEmail    string
	CustomerPhone    string
	CustomerAddress  string
	WhatsAppURL      string
	Year             int
}

func render(name string, data *OrderEmailData) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return buf.String(), nil
}
