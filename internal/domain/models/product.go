package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a catalog item. Price1 is the regular price,
// Price2 the discounted one; both are stored as exact decimals.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Material    string          `json:"material"`
	Price1      decimal.Decimal `json:"price1"`
	Price2      decimal.Decimal `json:"price2"`
	Status      bool            `json:"status"`
	Featured    bool            `json:"featured"`
	CountryID   int64           `json:"country_id"`
	Count       int             `json:"count"`
	Slug        string          `json:"slug"`
	CreatedAt   time.Time       `json:"created_at"`
}
