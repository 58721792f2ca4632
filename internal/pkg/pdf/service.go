// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/shopspring/decimal"

	"github.com/dk-code-insights/storefront/internal/config"
	"github.com/dk-code-insights/storefront/internal/domain/order"
	"github.com/dk-code-insights/storefront/internal/domain/user"
)

var ErrInvoicesDisabled = errors.New("invoice generation is disabled")

var invoiceTmpl = template.Must(template.New("invoice").Parse(invoiceTemplate))

// Service handles PDF generation
type Service struct {
	config  config.InvoiceConfig
	company CompanyInfo
}

// NewService creates a new PDF service
func NewService(cfg config.InvoiceConfig, business config.BusinessConfig, siteURL string) *Service {
	if cfg.WkhtmltopdfBin != "" {
		wkhtmltopdf.SetPath(cfg.WkhtmltopdfBin)
	}
	return &Service{
		config: cfg,
		company: CompanyInfo{
			Name:     business.Name,
			Email:    business.Email,
			WhatsApp: business.WhatsAppNumber,
			Website:  siteURL,
		},
	}
}

// InvoiceData represents the data passed to the invoice template
type InvoiceData struct {
	InvoiceNumber string        `json:"invoice_number"`
	InvoiceDate   string        `json:"invoice_date"`
	OrderID       string        `json:"order_id"`
	Status        string        `json:"status"`
	PaymentMethod string        `json:"payment_method"`
	Reference     string        `json:"payment_reference,omitempty"`
	Items         []InvoiceLine `json:"items"`
	TotalZAR      string        `json:"total_zar"`
	TotalUSD      string        `json:"total_usd"`
	Customer      CustomerInfo  `json:"customer"`
	Company       CompanyInfo   `json:"company"`
}

// InvoiceLine is one billed product
type InvoiceLine struct {
	Title     string `json:"title"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	LineTotal string `json:"line_total"`
}

// CustomerInfo is the billed party
type CustomerInfo struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// CompanyInfo represents company information
type CompanyInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	WhatsApp string `json:"whatsapp"`
	Website  string `json:"website"`
}

// BuildInvoice assembles the invoice view of an order
func (s *Service) BuildInvoice(o *order.Order, customer *user.User) InvoiceData {
	data := InvoiceData{
		InvoiceNumber: "INV-" + o.ShortID(),
		InvoiceDate:   o.CreatedAt.Format("2 January 2006"),
		OrderID:       o.ID,
		Status:        strings.ReplaceAll(string(o.Status), "_", " "),
		PaymentMethod: strings.ToUpper(string(o.PaymentMethod)),
		Reference:     o.PaymentReference,
		TotalZAR:      formatZAR(o.TotalZAR),
		TotalUSD:      "$" + decimal.NewFromInt(o.TotalUSD).StringFixed(2),
		Customer:      CustomerInfo{Name: "Customer"},
		Company:       s.company,
	}

	for _, item := range o.Items {
		unit := decimal.NewFromInt(item.PriceZAR)
		if item.Quantity > 0 {
			unit = unit.Div(decimal.NewFromInt(int64(item.Quantity)))
		}
		data.Items = append(data.Items, InvoiceLine{
			Title:     item.ProductTitle,
			Quantity:  item.Quantity,
			UnitPrice: "R" + unit.StringFixed(2),
			LineTotal: formatZAR(item.PriceZAR),
		})
	}

	if customer != nil {
		if name := customer.FullName(); name != "" {
			data.Customer.Name = name
		}
		data.Customer.Email = customer.Email
		data.Customer.Phone = customer.Phone
		data.Customer.Address = customer.PostalAddress()
	}
	return data
}

// RenderHTML renders the invoice page
func (s *Service) RenderHTML(data InvoiceData) (string, error) {
	var buf bytes.Buffer
	if err := invoiceTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// GenerateInvoice renders the invoice and converts it to PDF with wkhtmltopdf
func (s *Service) GenerateInvoice(o *order.Order, customer *user.User) (*bytes.Buffer, error) {
	if !s.config.Enabled {
		return nil, ErrInvoicesDisabled
	}

	htmlContent, err := s.RenderHTML(s.BuildInvoice(o, customer))
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}
	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.PageSize.Set(wkhtmltopdf.PageSizeA4)

	page := wkhtmltopdf.NewPageReader(strings.NewReader(htmlContent))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)
	page.Zoom.Set(0.95)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}
	return bytes.NewBuffer(pdfg.Bytes()), nil
}

func formatZAR(amount int64) string {
	return "R" + decimal.NewFromInt(amount).StringFixed(2)
}

const invoiceTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Invoice {{.InvoiceNumber}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 0; padding: 20px; color: #333; }
        .header { border-bottom: 2px solid #eee; padding-bottom: 20px; margin-bottom: 30px; }
        .company-name { font-size: 24px; font-weight: bold; color: #3b82f6; }
        .invoice-title { font-size: 28px; font-weight: bold; float: right; }
        .meta td { padding: 2px 12px 2px 0; }
        .bill-to { margin: 30px 0; }
        table.items { width: 100%; border-collapse: collapse; margin-top: 20px; }
        table.items th { background: #f9fafb; padding: 10px; text-align: left; font-size: 12px; text-transform: uppercase; }
        table.items td { padding: 10px; border-bottom: 1px solid #eee; }
        .num { text-align: right; }
        .totals { margin-top: 20px; float: right; }
        .totals td { padding: 4px 0 4px 24px; }
        .total-row td { font-weight: bold; font-size: 18px; border-top: 2px solid #333; }
        .footer { clear: both; margin-top: 60px; text-align: center; color: #666; font-size: 12px; }
    </style>
</head>
<body>
    <div class="header">
        <span class="invoice-title">INVOICE</span>
        <div class="company-name">{{.Company.Name}}</div>
        {{if .Company.Website}}<div>{{.Company.Website}}</div>{{end}}
        {{if .Company.Email}}<div>{{.Company.Email}}</div>{{end}}
    </div>

    <table class="meta">
        <tr><td>Invoice #</td><td>{{.InvoiceNumber}}</td></tr>
        <tr><td>Date</td><td>{{.InvoiceDate}}</td></tr>
        <tr><td>Order</td><td>{{.OrderID}}</td></tr>
        <tr><td>Payment</td><td>{{.PaymentMethod}}{{if .Reference}} ({{.Reference}}){{end}}</td></tr>
        <tr><td>Status</td><td>{{.Status}}</td></tr>
    </table>

    <div class="bill-to">
        <strong>Bill to</strong>
        <div>{{.Customer.Name}}</div>
        {{if .Customer.Email}}<div>{{.Customer.Email}}</div>{{end}}
        {{if .Customer.Phone}}<div>{{.Customer.Phone}}</div>{{end}}
        {{if .Customer.Address}}<div>{{.Customer.Address}}</div>{{end}}
    </div>

    <table class="items">
        <thead>
            <tr><th>Item</th><th class="num">Qty</th><th class="num">Unit price</th><th class="num">Amount</th></tr>
        </thead>
        <tbody>
            {{range .Items}}
            <tr><td>{{.Title}}</td><td class="num">{{.Quantity}}</td><td class="num">{{.UnitPrice}}</td><td class="num">{{.LineTotal}}</td></tr>
            {{end}}
        </tbody>
    </table>

    <table class="totals">
        <tr class="total-row"><td>Total</td><td class="num">{{.TotalZAR}}</td></tr>
        <tr><td>USD</td><td class="num">{{.TotalUSD}}</td></tr>
    </table>

    <div class="footer">
        <p>Thank you for your business!</p>
        {{if .Company.WhatsApp}}<p>Questions? WhatsApp us on +{{.Company.WhatsApp}}</p>{{end}}
    </div>
</body>
</html>
`
