package handlers

import (
	"errors"

	"extranet/internal/domain"
	"extranet/internal/invoice"
	applog "extranet/internal/log"
	"extranet/internal/services"
	"extranet/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type PriceHandler struct {
	Prices   *services.PriceService
	Invoices *invoice.Renderer
}

func (h *PriceHandler) page(c *fiber.Ctx, u *domain.User, data fiber.Map) error {
	items, err := h.Prices.List(u.GroupID)
	if err != nil {
		applog.Error(c, "prices.list.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Impossible de charger les prix."})
	}
	if data == nil {
		data = fiber.Map{}
	}
	data["Items"] = items
	return render(c, "prices", data)
}

func (h *PriceHandler) List(c *fiber.Ctx) error {
	u, _ := c.Locals("user").(*domain.User)
	if u == nil {
		return c.Redirect("/login")
	}
	return h.page(c, u, nil)
}

func (h *PriceHandler) Create(c *fiber.Ctx) error {
	u, _ := c.Locals("user").(*domain.User)
	if u == nil {
		return c.Redirect("/login")
	}

	_, err := h.Prices.Create(u.GroupID, u.ID, c.FormValue("label"), c.FormValue("price"))
	switch {
	case errors.Is(err, services.ErrInvalidLabel):
		return h.page(c, u, fiber.Map{"Err": "Libellé requis."})
	case errors.Is(err, services.ErrInvalidPrice):
		return h.page(c, u, fiber.Map{"Err": "Prix invalide."})
	case errors.Is(err, services.ErrNegativePrice):
		return h.page(c, u, fiber.Map{"Err": "Prix doit être >= 0."})
	case err != nil:
		applog.Error(c, "prices.create.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Une erreur est survenue."})
	}

	applog.Audit(c, "prices.create", map[string]any{"group": u.GroupID})
	return c.Redirect("/prices")
}

func (h *PriceHandler) Delete(c *fiber.Ctx) error {
	u, _ := c.Locals("user").(*domain.User)
	if u == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"ok": false, "error": "Unauthenticated"})
	}
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"ok": false, "error": "Not found"})
	}

	err := h.Prices.Delete(u.GroupID, id)
	if errors.Is(err, services.ErrNotFound) {
		// same response whether the item never existed or belongs to
		// another group
		applog.Security(c, "prices.delete.miss", map[string]any{"group": u.GroupID, "item": id})
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"ok": false, "error": "Not found"})
	}
	if err != nil {
		applog.Error(c, "prices.delete.fail", err, map[string]any{"item": id})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"ok": false, "error": "Internal error"})
	}

	applog.Audit(c, "prices.delete", map[string]any{"group": u.GroupID, "item": id})
	return c.JSON(fiber.Map{"ok": true})
}

func (h *PriceHandler) InvoicePDF(c *fiber.Ctx) error {
	u, _ := c.Locals("user").(*domain.User)
	if u == nil {
		return c.Redirect("/login")
	}

	items, err := h.Prices.List(u.GroupID)
	if err != nil {
		applog.Error(c, "prices.invoice.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Impossible de générer la facture."})
	}

	pdfBytes, err := h.Invoices.Render(u, items)
	if err != nil {
		applog.Error(c, "prices.invoice.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Impossible de générer la facture."})
	}

	applog.Audit(c, "prices.invoice", map[string]any{"group": u.GroupID, "items": len(items)})
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+invoice.Filename+`"`)
	return c.Send(pdfBytes)
}
