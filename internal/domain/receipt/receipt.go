package receipt

import (
	"bytes"
	"embed"
	"html/template"
	"strconv"
	"strings"

	"arc-storefront/internal/domain/order"
	"arc-storefront/internal/pkg/errs"
)

//go:embed templates/receipt.html.tmpl
var templateFS embed.FS

var receiptTemplate = template.Must(template.ParseFS(templateFS, "templates/receipt.html.tmpl"))

// Brand is the storefront identity printed on every receipt.
type Brand struct {
	Name          string
	Tagline       string
	CurrencyGlyph string
	PromoText     string
	PromoURL      string
	Copyright     string
}

// Acknowledgment is what a successful delivery returns to the caller.
type Acknowledgment struct {
	Reference int
	MessageID string
	Recipient string
}

type Renderer struct {
	brand Brand
}

func NewRenderer(brand Brand) *Renderer {
	return &Renderer{brand: brand}
}

func (r *Renderer) Brand() Brand {
	return r.brand
}

// Subject is the mail subject line for snap.
func Subject(snap order.Snapshot) string {
	return "Order Confirmation #" + strconv.Itoa(snap.Reference())
}

type row struct {
	Name     string
	Quantity int
	Price    string
}

type promo struct {
	Text string
	URL  string
}

type view struct {
	Brand        Brand
	CustomerName string
	Reference    int
	Rows         []row
	Total        string
	Promo        *promo
}

// Render produces the HTML body for snap. It performs no I/O.
func (r *Renderer) Render(snap order.Snapshot) (string, error) {
	items := snap.Items()
	rows := make([]row, 0, len(items))
	for _, it := range items {
		rows = append(rows, row{
			Name:     it.Name,
			Quantity: it.Quantity,
			Price:    r.money(it.UnitPrice),
		})
	}

	v := view{
		Brand:        r.brand,
		CustomerName: snap.Customer().FullName,
		Reference:    snap.Reference(),
		Rows:         rows,
		Total:        r.money(snap.Total()),
	}
	if strings.TrimSpace(r.brand.PromoText) != "" && strings.TrimSpace(r.brand.PromoURL) != "" {
		v.Promo = &promo{Text: r.brand.PromoText, URL: r.brand.PromoURL}
	}

	var buf bytes.Buffer
	if err := receiptTemplate.Execute(&buf, v); err != nil {
		return "", errs.Wrap(err, "failed to render receipt")
	}
	return buf.String(), nil
}

// money renders whole currency units with the brand glyph, no decimals and no grouping.
func (r *Renderer) money(amount int64) string {
	return r.brand.CurrencyGlyph + strconv.FormatInt(amount, 10)
}
