package domain

import (
	"time"
)

// SaleRecord represents a single sales transaction row loaded from the
// input workbook. Records are immutable once loaded.
type SaleRecord struct {
	Date     time.Time `json:"date"`
	Product  string    `json:"product" validate:"required"`
	Category string    `json:"category" validate:"required"`
	Sales    float64   `json:"sales" validate:"min=0"`
	Quantity int64     `json:"quantity" validate:"min=0"`
	Price    float64   `json:"price" validate:"min=0"`
}

// Month returns the record's year-month key, e.g. "2024-01".
func (r SaleRecord) Month() string {
	return r.Date.Format("2006-01")
}
