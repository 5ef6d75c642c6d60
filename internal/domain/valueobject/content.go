package valueobject

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/ignatzorin/projexnest-backend/internal/pkg/apperror"
)

// Content хранит документ предложения или шаблона как JSON объект.
// Неизвестные ключи сохраняются без изменений.
type Content []byte

// NewContent проверяет, что raw является корректным JSON объектом.
func NewContent(raw []byte) (Content, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, apperror.New(apperror.ErrCodeValidation, "содержимое обязательно")
	}
	if trimmed[0] != '{' || !json.Valid(trimmed) {
		return nil, apperror.New(apperror.ErrCodeValidation, "содержимое должно быть JSON объектом")
	}
	c := make(Content, len(trimmed))
	copy(c, trimmed)
	return c, nil
}

// EmptyContent возвращает пустой документ.
func EmptyContent() Content {
	return Content(`{}`)
}

func (c Content) IsZero() bool {
	return len(c) == 0
}

// Value реализует driver.Valuer для колонки jsonb.
func (c Content) Value() (driver.Value, error) {
	if len(c) == 0 {
		return []byte(`{}`), nil
	}
	return []byte(c), nil
}

// Scan реализует sql.Scanner для колонки jsonb.
func (c *Content) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*c = nil
	case []byte:
		*c = append((*c)[:0], v...)
	case string:
		*c = Content(v)
	default:
		return fmt.Errorf("content: неподдерживаемый тип %T", src)
	}
	return nil
}

func (c Content) MarshalJSON() ([]byte, error) {
	if len(c) == 0 {
		return []byte(`{}`), nil
	}
	return []byte(c), nil
}

func (c *Content) UnmarshalJSON(data []byte) error {
	parsed, err := NewContent(data)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Section раздел документа.
type Section struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// LineItem строка ценового блока.
type LineItem struct {
	Description string   `json:"description"`
	Quantity    *float64 `json:"quantity,omitempty"`
	UnitPrice   *float64 `json:"unit_price,omitempty"`
	Amount      *float64 `json:"amount,omitempty"`
}

// Total возвращает сумму строки: amount, либо quantity * unit_price.
func (li LineItem) Total() float64 {
	if li.Amount != nil {
		return *li.Amount
	}
	if li.Quantity != nil && li.UnitPrice != nil {
		return roundCents(*li.Quantity * *li.UnitPrice)
	}
	return 0
}

// Document распознанная часть содержимого.
type Document struct {
	Sections []Section  `json:"sections"`
	Scope    string     `json:"scope"`
	Pricing  []LineItem `json:"pricing"`
	Terms    string     `json:"terms"`
	Currency string     `json:"currency"`
}

// Document разбирает известные ключи. Ключи другого типа игнорируются.
func (c Content) Document() Document {
	var doc Document
	if len(c) == 0 {
		return doc
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(c, &fields); err != nil {
		return doc
	}

	_ = json.Unmarshal(fields["sections"], &doc.Sections)
	_ = json.Unmarshal(fields["scope"], &doc.Scope)
	_ = json.Unmarshal(fields["pricing"], &doc.Pricing)
	_ = json.Unmarshal(fields["terms"], &doc.Terms)
	_ = json.Unmarshal(fields["currency"], &doc.Currency)
	return doc
}

// Total суммирует строки ценового блока.
func (d Document) Total() Money {
	currency := d.Currency
	if currency == "" {
		currency = DefaultCurrency
	}
	total := Money{Currency: currency}
	for _, item := range d.Pricing {
		total = total.Add(Money{Amount: item.Total(), Currency: currency})
	}
	return total
}
