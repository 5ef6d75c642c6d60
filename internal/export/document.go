// Package export собирает HTML документ предложения и печатает его в PDF.
package export

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/projexnest-backend/internal/domain/valueobject"
)

//go:embed templates/proposal.html
var templateFS embed.FS

var proposalTemplate = template.Must(
	template.New("proposal.html").
		Funcs(template.FuncMap{
			"formatDate": func(t time.Time, layout string) string { return t.Format(layout) },
		}).
		ParseFS(templateFS, "templates/proposal.html"),
)

// Header шапка документа.
type Header struct {
	Title         string
	OrgName       string
	ClientName    string
	ProjectName   string
	VersionNumber int
	Date          time.Time
}

type pricingRow struct {
	Description string
	Quantity    string
	UnitPrice   string
	Amount      string
}

type documentData struct {
	Header
	Sections []valueobject.Section
	Scope    string
	Pricing  []pricingRow
	Total    string
	Terms    string
}

// RenderDocument строит HTML документа из шапки и содержимого версии.
// Итог равен сумме строк ценового блока.
func RenderDocument(h Header, content valueobject.Content) (string, error) {
	doc := content.Document()
	if h.Date.IsZero() {
		h.Date = time.Now()
	}

	data := documentData{
		Header:   h,
		Sections: doc.Sections,
		Scope:    doc.Scope,
		Terms:    doc.Terms,
	}
	if len(doc.Pricing) > 0 {
		data.Pricing = make([]pricingRow, 0, len(doc.Pricing))
		for _, item := range doc.Pricing {
			data.Pricing = append(data.Pricing, pricingRow{
				Description: item.Description,
				Quantity:    formatOptional(item.Quantity, false),
				UnitPrice:   formatOptional(item.UnitPrice, true),
				Amount:      strconv.FormatFloat(item.Total(), 'f', 2, 64),
			})
		}
		data.Total = doc.Total().String()
	}

	var buf bytes.Buffer
	if err := proposalTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("export: не удалось отрисовать документ: %w", err)
	}
	return buf.String(), nil
}

func formatOptional(v *float64, money bool) string {
	if v == nil {
		return ""
	}
	if money {
		return strconv.FormatFloat(*v, 'f', 2, 64)
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// ProposalFilename имя файла для скачивания: proposal_<первые 8 символов id>.pdf.
func ProposalFilename(proposalID uuid.UUID) string {
	return "proposal_" + proposalID.String()[:8] + ".pdf"
}
