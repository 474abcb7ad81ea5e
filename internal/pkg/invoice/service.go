// internal/pkg/invoice/service.go
package invoice

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/order"
)

// Service handles invoice PDF generation
type Service struct {
	config *config.Config
}

// NewService creates a new invoice service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
	}
}

// InvoiceData represents the data passed to the invoice template
type InvoiceData struct {
	InvoiceNumber string
	InvoiceDate   string
	StoreName     string
	Order         *order.Order
	Subtotal      string
	Discount      string
	Delivery      string
	Total         string
	Lines         []InvoiceLine
}

// InvoiceLine is one formatted order line
type InvoiceLine struct {
	Name      string
	Variant   string
	Quantity  int
	UnitPrice string
	Total     string
}

// GenerateInvoice generates a PDF invoice for an order
func (s *Service) GenerateInvoice(o *order.Order) (*bytes.Buffer, error) {
	data := InvoiceData{
		InvoiceNumber: fmt.Sprintf("INV-%s", o.OrderNumber),
		InvoiceDate:   time.Now().Format("January 2, 2006"),
		StoreName:     s.config.App.Name,
		Order:         o,
		Subtotal:      formatAmount(o.SubtotalAmount, o.Currency),
		Discount:      formatAmount(o.DiscountAmount, o.Currency),
		Delivery:      formatAmount(o.DeliveryCharge, o.Currency),
		Total:         formatAmount(o.TotalAmount, o.Currency),
	}

	for _, item := range o.Items {
		variant := item.Size
		if item.Color != "" {
			if variant != "" {
				variant += " / "
			}
			variant += item.Color
		}
		data.Lines = append(data.Lines, InvoiceLine{
			Name:      item.Name,
			Variant:   variant,
			Quantity:  item.Quantity,
			UnitPrice: formatAmount(item.Price, o.Currency),
			Total:     formatAmount(item.TotalPrice, o.Currency),
		})
	}

	htmlContent, err := s.generateHTML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)
	page.Zoom.Set(0.95)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

func (s *Service) generateHTML(data InvoiceData) (string, error) {
	tmpl := template.Must(template.New("invoice").Parse(invoiceTemplate))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

func formatAmount(cents int64, currency string) string {
	return fmt.Sprintf("%s %d.%02d", currency, cents/100, cents%100)
}

// Invoice HTML template
const invoiceTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Invoice {{.InvoiceNumber}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 0; padding: 20px; color: #333; }
        .header { border-bottom: 2px solid #eee; padding-bottom: 20px; margin-bottom: 30px; }
        .invoice-title { font-size: 28px; font-weight: bold; color: #2563eb; }
        .meta td { padding: 4px 12px 4px 0; }
        .meta .label { font-weight: bold; }
        .address { margin-bottom: 30px; }
        table.items { width: 100%; border-collapse: collapse; margin-bottom: 30px; }
        table.items th { text-align: left; border-bottom: 2px solid #333; padding: 8px 4px; }
        table.items td { border-bottom: 1px solid #eee; padding: 8px 4px; }
        .totals { width: 300px; margin-left: auto; }
        .totals td { padding: 4px; }
        .totals .grand { font-weight: bold; border-top: 2px solid #333; }
        .right { text-align: right; }
    </style>
</head>
<body>
    <div class="header">
        <div class="invoice-title">{{.StoreName}}</div>
        <table class="meta">
            <tr><td class="label">Invoice</td><td>{{.InvoiceNumber}}</td></tr>
            <tr><td class="label">Date</td><td>{{.InvoiceDate}}</td></tr>
            <tr><td class="label">Order</td><td>{{.Order.OrderNumber}}</td></tr>
        </table>
    </div>

    <div class="address">
        <strong>Ship to</strong><br>
        {{.Order.ShippingAddress.FirstName}} {{.Order.ShippingAddress.LastName}}<br>
        {{.Order.ShippingAddress.AddressLine1}}<br>
        {{if .Order.ShippingAddress.AddressLine2}}{{.Order.ShippingAddress.AddressLine2}}<br>{{end}}
        {{.Order.ShippingAddress.City}}, {{.Order.ShippingAddress.State}} {{.Order.ShippingAddress.PostalCode}}<br>
        {{.Order.ShippingAddress.Country}}
    </div>

    <table class="items">
        <tr><th>Item</th><th>Variant</th><th class="right">Qty</th><th class="right">Unit</th><th class="right">Total</th></tr>
        {{range .Lines}}
        <tr>
            <td>{{.Name}}</td>
            <td>{{.Variant}}</td>
            <td class="right">{{.Quantity}}</td>
            <td class="right">{{.UnitPrice}}</td>
            <td class="right">{{.Total}}</td>
        </tr>
        {{end}}
    </table>

    <table class="totals">
        <tr><td>Subtotal</td><td class="right">{{.Subtotal}}</td></tr>
        <tr><td>Discount</td><td class="right">-{{.Discount}}</td></tr>
        <tr><td>Delivery</td><td class="right">{{.Delivery}}</td></tr>
        <tr class="grand"><td>Total</td><td class="right">{{.Total}}</td></tr>
    </table>
</body>
</html>
`
