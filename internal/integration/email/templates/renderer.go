// Package templates renders notification emails from embedded templates.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"github.com/pantry-ledger/backend/internal/domain/entity"
)

//go:embed *.html *.txt
var templateFS embed.FS

// Renderer holds the parsed HTML and plain text template sets.
type Renderer struct {
	html *htmltemplate.Template
	text *texttemplate.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	html, err := htmltemplate.ParseFS(templateFS, "*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML templates: %w", err)
	}
	text, err := texttemplate.ParseFS(templateFS, "*.txt")
	if err != nil {
		return nil, fmt.Errorf("failed to parse text templates: %w", err)
	}
	return &Renderer{html: html, text: text}, nil
}

// Render produces the HTML and plain text bodies for a notification kind.
// Every kind ships both variants.
func (r *Renderer) Render(kind entity.NotificationKind, data any) (string, string, error) {
	var html, text bytes.Buffer
	if err := r.html.ExecuteTemplate(&html, string(kind)+".html", data); err != nil {
		return "", "", fmt.Errorf("failed to render %s HTML: %w", kind, err)
	}
	if err := r.text.ExecuteTemplate(&text, string(kind)+".txt", data); err != nil {
		return "", "", fmt.Errorf("failed to render %s text: %w", kind, err)
	}
	return html.String(), text.String(), nil
}

// LowStockData fills the low_stock templates.
type LowStockData struct {
	RecipientName string
	ProductID     string
	ProductName   string
	Quantity      string
	MinStock      string
	AppURL        string
}

// PurchaseSettledData fills the purchase_settled templates.
type PurchaseSettledData struct {
	RecipientName string
	PurchaseID    string
	ItemCount     string
	TotalAmount   string
	BudgetBefore  string
	BudgetAfter   string
	SettledBy     string
	AppURL        string
}
