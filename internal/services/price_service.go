package services

import (
	"errors"
	"strings"

	"extranet/internal/domain"
	"extranet/internal/repos"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidLabel  = errors.New("label is required")
	ErrInvalidPrice  = errors.New("price is not a valid amount")
	ErrNegativePrice = errors.New("price must be >= 0")
	ErrNotFound      = errors.New("price item not found")
)

// PriceService owns group-scoped CRUD over price items. Every operation is
// bound to the caller's group; items of other groups are invisible to it.
type PriceService struct {
	Prices *repos.PriceRepo
}

func NewPriceService(prices *repos.PriceRepo) *PriceService {
	return &PriceService{Prices: prices}
}

// Create validates before touching the store: a failed create has no side
// effects. Validation order is label, then price syntax, then price sign,
// and each failure maps to its own sentinel so the web layer can show a
// specific message.
func (s *PriceService) Create(groupID, creatorID, label, rawPrice string) (*domain.PriceItem, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, ErrInvalidLabel
	}
	price, err := decimal.NewFromString(strings.TrimSpace(rawPrice))
	if err != nil {
		return nil, ErrInvalidPrice
	}
	if price.IsNegative() {
		return nil, ErrNegativePrice
	}
	// storage precision is two decimal digits, half away from zero; rows
	// and totals print exactly what is stored
	price = price.Round(2)

	item := &domain.PriceItem{
		ID:        uuid.NewString(),
		Label:     label,
		Price:     price,
		GroupID:   groupID,
		CreatedBy: creatorID,
	}
	if err := s.Prices.Insert(item); err != nil {
		return nil, err
	}
	return item, nil
}

// List returns the group's items newest first. An empty group yields an
// empty slice, never an error.
func (s *PriceService) List(groupID string) ([]domain.PriceItem, error) {
	return s.Prices.ListByGroup(groupID)
}

// Delete removes one owned item. ErrNotFound covers both a missing id and an
// id owned by another group, so callers cannot probe other tenants. Deleting
// the same id twice fails the second time.
func (s *PriceService) Delete(groupID, itemID string) error {
	ok, err := s.Prices.DeleteOwned(groupID, itemID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}
