package repos

import (
	"time"

	"extranet/internal/domain"

	"github.com/jmoiron/sqlx"
)

type PriceRepo struct{ db *sqlx.DB }

func NewPriceRepo(db *sqlx.DB) *PriceRepo { return &PriceRepo{db: db} }

// createdAtLayout is fixed-width so lexicographic order in sqlite equals
// chronological order, keeping the DESC listing deterministic.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z"

func (r *PriceRepo) Insert(item *domain.PriceItem) error {
	item.CreatedAt = time.Now().UTC().Format(createdAtLayout)
	_, err := r.db.Exec(`
	  INSERT INTO price_items(id,label,price,group_id,created_by,created_at)
	  VALUES(?,?,?,?,NULLIF(?,''),?)
	`, item.ID, item.Label, item.Price, item.GroupID, item.CreatedBy, item.CreatedAt)
	return err
}

func (r *PriceRepo) ListByGroup(groupID string) ([]domain.PriceItem, error) {
	out := []domain.PriceItem{}
	err := r.db.Select(&out, `
	  SELECT id, label, price, group_id, COALESCE(created_by,'') AS created_by, created_at
	  FROM price_items
	  WHERE group_id = ?
	  ORDER BY created_at DESC, id DESC
	`, groupID)
	return out, err
}

// DeleteOwned removes the item only when it belongs to the group. A missing
// row and a cross-group row are indistinguishable in the result on purpose.
func (r *PriceRepo) DeleteOwned(groupID, itemID string) (bool, error) {
	res, err := r.db.Exec(`DELETE FROM price_items WHERE id=? AND group_id=?`, itemID, groupID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
