package domain

import "github.com/shopspring/decimal"

type Group struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	CreatedAt string `db:"created_at"`
}

// PriceItem is one row of a group's price list. Price is stored as its
// canonical decimal string so amounts round-trip without float conversion.
type PriceItem struct {
	ID        string          `db:"id"`
	Label     string          `db:"label"`
	Price     decimal.Decimal `db:"price"`
	GroupID   string          `db:"group_id"`
	CreatedBy string          `db:"created_by"` // empty once the creating user is gone
	CreatedAt string          `db:"created_at"`
}
