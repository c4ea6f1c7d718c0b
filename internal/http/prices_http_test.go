package handlers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	html "github.com/gofiber/template/html/v2"
	"github.com/jmoiron/sqlx"

	"extranet/internal/config"
	"extranet/internal/http/handlers"
	"extranet/internal/repos"
	"extranet/internal/services"
)

// newTestApp wires the real handlers over a seeded in-memory DB and binds a
// session cookie for each seeded user.
func newTestApp(t *testing.T) (*fiber.App, *sqlx.DB) {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{Users: userRepo}
	if err := userRepo.BindSession("sid-claire", "u-claire"); err != nil {
		t.Fatal(err)
	}
	if err := userRepo.BindSession("sid-henri", "u-henri"); err != nil {
		t.Fatal(err)
	}

	engine := html.New("../../web/templates", ".html")
	app := fiber.New(fiber.Config{Views: engine})
	app.Use(func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if u, err := authSvc.CurrentUser(sid); err == nil && u != nil {
				c.Locals("user", u)
			}
		}
		return c.Next()
	})

	deps := handlers.NewDeps(db, config.Config{MediaDir: t.TempDir()}, authSvc)
	guard := handlers.RequireUser(authSvc)
	app.Get("/prices", guard, deps.PriceHandler.List)
	app.Post("/prices/create", guard, deps.PriceHandler.Create)
	app.Delete("/prices/:id", guard, deps.PriceHandler.Delete)
	app.Get("/prices/invoice.pdf", guard, deps.PriceHandler.InvoicePDF)

	return app, db
}

func withSID(req *http.Request, sid string) *http.Request {
	req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	return req
}

func TestPricesRequireLogin(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/prices", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusFound {
		t.Fatalf("want 302 redirect, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/login" {
		t.Fatalf("want redirect to /login, got %q", loc)
	}
}

func TestDeleteStatusMapping(t *testing.T) {
	app, db := newTestApp(t)
	priceSvc := services.NewPriceService(repos.NewPriceRepo(db))

	item, err := priceSvc.Create("g-lyon", "u-claire", "Widget", "19.99")
	if err != nil {
		t.Fatal(err)
	}

	// unknown id -> 404
	resp, err := app.Test(withSID(httptest.NewRequest("DELETE", "/prices/no-such-id", nil), "sid-claire"))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("unknown id: want 404, got %d", resp.StatusCode)
	}

	// another tenant's session -> indistinguishable 404
	resp, err = app.Test(withSID(httptest.NewRequest("DELETE", "/prices/"+item.ID, nil), "sid-henri"))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("cross-group: want 404, got %d", resp.StatusCode)
	}

	// the owner deletes it -> 200 {ok:true}
	resp, err = app.Test(withSID(httptest.NewRequest("DELETE", "/prices/"+item.ID, nil), "sid-claire"))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("owner delete: want 200, got %d", resp.StatusCode)
	}
	var body struct {
		OK bool `json:"ok"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if !body.OK {
		t.Fatal("want ok:true")
	}

	// a second delete of the same id -> 404 again
	resp, err = app.Test(withSID(httptest.NewRequest("DELETE", "/prices/"+item.ID, nil), "sid-claire"))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("second delete: want 404, got %d", resp.StatusCode)
	}
}

func TestCreateFormFlow(t *testing.T) {
	app, db := newTestApp(t)

	form := strings.NewReader("label=Forfait&price=12.50")
	req := withSID(httptest.NewRequest("POST", "/prices/create", form), "sid-claire")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusFound {
		t.Fatalf("want 302 after create, got %d", resp.StatusCode)
	}

	items, err := repos.NewPriceRepo(db).ListByGroup("g-lyon")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].Label != "Forfait" || items[0].Price.StringFixed(2) != "12.50" {
		t.Fatalf("item not persisted as submitted: %+v", items)
	}
}

func TestInvoiceDownload(t *testing.T) {
	app, db := newTestApp(t)
	priceSvc := services.NewPriceService(repos.NewPriceRepo(db))
	if _, err := priceSvc.Create("g-lyon", "u-claire", "Widget", "19.99"); err != nil {
		t.Fatal(err)
	}

	resp, err := app.Test(withSID(httptest.NewRequest("GET", "/prices/invoice.pdf", nil), "sid-claire"))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("want application/pdf, got %q", ct)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "facture_prix.pdf") {
		t.Fatalf("want suggested filename in disposition, got %q", cd)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(b), "%PDF-") {
		t.Fatal("body is not a PDF")
	}
}
