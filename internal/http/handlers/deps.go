package handlers

import (
	"extranet/internal/config"
	"extranet/internal/invoice"
	"extranet/internal/repos"
	"extranet/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	HomeHandler    *HomeHandler
	ProfileHandler *ProfileHandler
	PriceHandler   *PriceHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, auth *services.AuthService) *Deps {
	userRepo := repos.NewUserRepo(db)
	priceRepo := repos.NewPriceRepo(db)

	priceSvc := services.NewPriceService(priceRepo)
	profileSvc := services.NewProfileService(userRepo, cfg.MediaDir)

	return &Deps{
		HomeHandler:    &HomeHandler{},
		ProfileHandler: &ProfileHandler{Profile: profileSvc, MediaDir: cfg.MediaDir},
		PriceHandler:   &PriceHandler{Prices: priceSvc, Invoices: invoice.NewRenderer()},
	}
}
