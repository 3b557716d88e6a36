package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Requirement is one document or detail a requester must supply for a service.
type Requirement struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsRequired  bool   `json:"is_required"`
	SortOrder   int    `json:"sort_order"`
}

// Service is a catalog entry: a document/service type offered in one
// jurisdiction, with a base price. Orders reference services, never own them.
type Service struct {
	ID           string          `json:"id"`
	DocumentType string          `json:"document_type"`
	State        string          `json:"state"`
	BasePrice    decimal.Decimal `json:"base_price"`
	IsActive     bool            `json:"is_active"`
	Requirements []Requirement   `json:"requirements,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}
