package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a catalog item in the back-office inventory
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	CategoryID  string          `json:"category_id"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Discount    decimal.Decimal `json:"discount"`
	CostPrice   decimal.Decimal `json:"cost_price"`
	PhotoRef    string          `json:"photo_ref,omitempty"`
	LastUpdated time.Time       `json:"last_updated"`
}

// Category represents a product category. Categories are fetched from the
// remote catalog service and never mutated locally.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NewLocalID generates a temporary local product identifier for rows that have
// not been confirmed by the remote store (imported or unconfirmed drafts). The
// high-resolution timestamp keeps IDs roughly ordered; the random suffix breaks
// ties within the same nanosecond.
func NewLocalID() string {
	return fmt.Sprintf("local-%d-%s", time.Now().UnixNano(), uuid.NewString()[:8])
}

// Draft is a proposed product payload that has not been assigned a canonical ID
// by the remote store. Photo carries the raw image payload when the operator
// attached one.
type Draft struct {
	Name       string
	CategoryID string
	Price      decimal.Decimal
	Stock      int
	Discount   decimal.Decimal
	CostPrice  decimal.Decimal
	Photo      []byte
	PhotoName  string
}

// Patch describes an edit to an existing product. All scalar fields are sent on
// every update, mirroring the edit form; Photo is optional and switches the
// remote payload to multipart when present.
type Patch struct {
	Name       string
	CategoryID string
	Price      decimal.Decimal
	Stock      int
	Discount   decimal.Decimal
	CostPrice  decimal.Decimal
	Photo      []byte
	PhotoName  string
}
