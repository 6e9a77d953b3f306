// Package invoice builds the sales invoice document for an order and
// renders it to PDF through headless Chrome. The engine only supplies the
// data model; layout lives in the HTML template.
package invoice

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/avelasquez/northwind-admin/internal/cart"
	"github.com/avelasquez/northwind-admin/internal/models"
)

// linesPerPage keeps the item table inside a fixed A4 page together with
// the header and totals blocks.
const linesPerPage = 18

type Invoice struct {
	Number   string
	Date     time.Time
	Customer models.Customer
	Shipping cart.Shipping
	Lines    []cart.Line
	Totals   cart.Totals
}

// FromCart captures the active cart right after a successful submit.
func FromCart(number int, customer models.Customer, ship cart.Shipping, lines []cart.Line) Invoice {
	return Invoice{
		Number:   fmt.Sprintf("%d", number),
		Date:     time.Now(),
		Customer: customer,
		Shipping: ship,
		Lines:    append([]cart.Line(nil), lines...),
		Totals:   cart.ComputeTotals(lines),
	}
}

// FromOrder rebuilds an invoice for an already stored order, deriving
// product names from the product snapshot.
func FromOrder(o models.Order, customers []models.Customer, products []models.Product) Invoice {
	var customer models.Customer
	for _, c := range customers {
		if c.ID == o.CustomerID {
			customer = c
			break
		}
	}

	name := func(id int) string {
		for _, p := range products {
			if p.ID == id {
				return p.Name
			}
		}
		return fmt.Sprintf("Product #%d", id)
	}

	lines := make([]cart.Line, 0, len(o.OrderDetails))
	for _, d := range o.OrderDetails {
		lines = append(lines, cart.Line{
			ProductID:   d.ProductID,
			ProductName: name(d.ProductID),
			UnitPrice:   d.UnitPrice,
			Quantity:    d.Quantity,
		})
	}

	date := time.Now()
	if o.OrderDate != "" {
		if parsed, err := time.Parse(time.RFC3339, o.OrderDate); err == nil {
			date = parsed
		}
	}

	return Invoice{
		Number:   fmt.Sprintf("%d", o.ID),
		Date:     date,
		Customer: customer,
		Shipping: cart.Shipping{
			Address:    o.ShipAddress,
			City:       o.ShipCity,
			Country:    o.ShipCountry,
			PostalCode: o.ShipPostalCode,
		},
		Lines:  lines,
		Totals: cart.ComputeTotals(lines),
	}
}

// FileName is the name the PDF is saved under.
func (inv Invoice) FileName() string {
	return fmt.Sprintf("factura_%s.pdf", inv.Number)
}

type page struct {
	Lines []cart.Line
	Last  bool
}

// paginate splits the line items into fixed-size pages; the totals block
// renders on the last one.
func paginate(lines []cart.Line) []page {
	var pages []page
	for i := 0; i < len(lines); i += linesPerPage {
		end := i + linesPerPage
		if end > len(lines) {
			end = len(lines)
		}
		pages = append(pages, page{Lines: lines[i:end]})
	}
	if len(pages) == 0 {
		pages = []page{{}}
	}
	pages[len(pages)-1].Last = true
	return pages
}

// HTML renders the full invoice document.
func (inv Invoice) HTML() (string, error) {
	data := struct {
		Invoice
		CustomerName string
		Pages        []page
	}{
		Invoice:      inv,
		CustomerName: inv.Customer.FullName(),
		Pages:        paginate(inv.Lines),
	}

	var buf bytes.Buffer
	if err := invoiceTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute invoice template: %w", err)
	}
	return buf.String(), nil
}

var invoiceTmpl = template.Must(template.New("invoice").Funcs(template.FuncMap{
	"money": func(v float64) string { return fmt.Sprintf("$ %.2f", v) },
	"mul":   func(a float64, b int) float64 { return a * float64(b) },
}).Parse(invoiceHTML))

const invoiceHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  @page { size: A4; margin: 0; }
  body { font-family: Helvetica, Arial, sans-serif; margin: 0; color: #282828; }
  .page { width: 210mm; min-height: 297mm; padding: 0 0 10mm 0; page-break-after: always; box-sizing: border-box; }
  .page:last-child { page-break-after: auto; }
  header { background: #1e40af; color: #fff; padding: 8mm 14mm; }
  header h1 { margin: 0; font-size: 18pt; }
  header .meta { float: right; text-align: right; font-size: 10pt; }
  h2.title { text-align: center; font-size: 14pt; margin: 8mm 0 4mm; }
  .boxes { display: flex; gap: 8mm; margin: 0 14mm; }
  .box { border: 0.3mm solid #c8c8c8; border-radius: 2mm; padding: 4mm; font-size: 9pt; flex: 1; }
  .box h3 { margin: 0 0 2mm; font-size: 10pt; color: #505050; }
  table.items { width: calc(100% - 28mm); margin: 6mm 14mm; border-collapse: collapse; font-size: 9pt; }
  table.items th { background: #1e40af; color: #fff; padding: 2mm; }
  table.items td { padding: 2mm; border-bottom: 0.2mm solid #e0e0e0; }
  table.items tr:nth-child(even) td { background: #f5f8ff; }
  td.num, th.num { text-align: right; }
  td.qty, th.qty { text-align: center; }
  .summary { width: 70mm; margin: 4mm 14mm 0 auto; border: 0.3mm solid #c8c8c8; border-radius: 2mm; padding: 4mm; font-size: 10pt; }
  .summary .row { display: flex; justify-content: space-between; margin-bottom: 1.5mm; }
  .summary .total { font-size: 11pt; color: #1e40af; font-weight: bold; }
  footer { margin: 8mm 14mm 0; font-size: 8pt; color: #828282; display: flex; justify-content: space-between; }
</style>
</head>
<body>
{{- $inv := . }}
{{- range .Pages }}
<div class="page">
  <header>
    <div class="meta">
      Factura N°: {{ $inv.Number }}<br>
      Fecha: {{ $inv.Date.Format "2006-01-02 15:04" }}
    </div>
    <h1>Northwind Sales</h1>
  </header>
  <h2 class="title">FACTURA DE VENTA</h2>
  <div class="boxes">
    <div class="box">
      <h3>Datos del Cliente</h3>
      Cliente: {{ $inv.CustomerName }}<br>
      {{ if $inv.Customer.Cedula }}Cédula: {{ $inv.Customer.Cedula }}<br>{{ end }}
      {{ if $inv.Customer.Email }}Email: {{ $inv.Customer.Email }}<br>{{ end }}
      {{ if $inv.Customer.PhoneNumber }}Teléfono: {{ $inv.Customer.PhoneNumber }}{{ end }}
    </div>
    <div class="box">
      <h3>Datos de Envío</h3>
      Dirección: {{ $inv.Shipping.Address }}<br>
      Ciudad: {{ $inv.Shipping.City }}<br>
      País: {{ $inv.Shipping.Country }}<br>
      Cód. Postal: {{ $inv.Shipping.PostalCode }}
    </div>
  </div>
  <table class="items">
    <tr><th>Producto</th><th class="qty">Cant.</th><th class="num">Precio Unit.</th><th class="num">Subtotal</th></tr>
    {{- range .Lines }}
    <tr>
      <td>{{ .ProductName }}</td>
      <td class="qty">{{ .Quantity }}</td>
      <td class="num">{{ money .UnitPrice }}</td>
      <td class="num">{{ money (mul .UnitPrice .Quantity) }}</td>
    </tr>
    {{- end }}
  </table>
  {{- if .Last }}
  <div class="summary">
    <div class="row"><span>Subtotal:</span><span>{{ money $inv.Totals.Subtotal }}</span></div>
    <div class="row"><span>IVA (15%):</span><span>{{ money $inv.Totals.Tax }}</span></div>
    <div class="row total"><span>TOTAL:</span><span>{{ money $inv.Totals.Total }}</span></div>
  </div>
  {{- end }}
  <footer>
    <span>Gracias por su compra.</span>
    <span>Northwind Sales - Sistema de Ventas</span>
  </footer>
</div>
{{- end }}
</body>
</html>
`
