package main

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"extranet/internal/config"
	"extranet/internal/http/handlers"
	applog "extranet/internal/log"
	"extranet/internal/repos"
	"extranet/internal/services"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	// Auth wiring
	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{Users: userRepo}
	authH := &handlers.AuthHandler{Auth: authSvc}

	// Templates & app
	engine := html.New("./web/templates", ".html")
	engine.Reload(true)

	app := fiber.New(fiber.Config{
		Views: engine,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Log and show a friendly message
			applog.Error(c, "server.error", err, nil)
			if rerr := c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{
				"Message": "Une erreur est survenue. Merci de réessayer.",
			}); rerr != nil {
				return c.Status(fiber.StatusInternalServerError).SendString("Une erreur est survenue. Merci de réessayer.")
			}
			return nil
		},
	})
	// Global body size guard (covers avatar uploads)
	app.Server().MaxRequestBodySize = 4 << 20 // 4 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	// Attach user to context if logged in (for templates/headers)
	app.Use(func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if u, err := authSvc.CurrentUser(sid); err == nil && u != nil {
				c.Locals("user", u)
			}
		}
		return c.Next()
	})
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			p := string(c.Request().URI().Path())
			return strings.HasPrefix(p, "/static/") || strings.HasPrefix(p, "/media/")
		},
	}))
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   false, // set true behind HTTPS
		Next: func(c *fiber.Ctx) bool {
			// DELETE comes from same-origin fetch with no form body; the
			// SameSite=Lax session cookie already blocks cross-site calls
			return c.Method() == fiber.MethodDelete
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", map[string]any{"form": c.FormValue("csrf")})
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Vérification de sécurité échouée. Merci de réessayer."})
		},
	}))
	app.Use(func(c *fiber.Ctx) error {
		if tok := c.Locals("csrf"); tok != nil {
			c.Locals("CSRFToken", tok.(string))
		}
		return c.Next()
	})

	// ---------- Static assets ----------
	mediaDir := cfg.MediaDir
	if !filepath.IsAbs(mediaDir) {
		if abs, err := filepath.Abs(mediaDir); err == nil {
			mediaDir = abs
		}
	}
	ensureDefaultAvatar()
	log.Printf("[static] /static -> ./web/static")
	log.Printf("[static] /media  -> %s", mediaDir)

	app.Static("/static", "./web/static")
	// Guarded media to avoid traversal
	app.Get("/media/*", func(c *fiber.Ctx) error {
		path := c.Params("*")
		rawLower := strings.ToLower(path)
		// Block encoded traversal attempts as well as raw .. or null bytes
		if strings.Contains(rawLower, "..") || strings.Contains(rawLower, "%2e") || strings.Contains(rawLower, "\x00") {
			applog.Security(c, "media.traversal.block", map[string]any{"path": path})
			return c.SendStatus(fiber.StatusNotFound)
		}
		clean := filepath.Clean(path)
		if clean == "." || strings.Contains(clean, "..") || filepath.IsAbs(clean) {
			applog.Security(c, "media.traversal.block", map[string]any{"path": path})
			return c.SendStatus(fiber.StatusNotFound)
		}
		full := filepath.Join(mediaDir, clean)
		return c.SendFile(full, true)
	})

	// ---------- App handlers ----------
	deps := handlers.NewDeps(db, cfg, authSvc)

	app.Get("/", func(c *fiber.Ctx) error {
		if c.Locals("user") != nil {
			return c.Redirect("/home")
		}
		return c.Redirect("/login")
	})

	// Auth routes (login throttled)
	app.Get("/login", authH.LoginForm)
	app.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).Render("login", fiber.Map{"Err": "Trop de tentatives. Merci de réessayer plus tard."})
		},
	}), authH.Login)
	app.Post("/logout", authH.Logout)

	// Member pages
	guard := handlers.RequireUser(authSvc)
	app.Get("/home", guard, deps.HomeHandler.Home)
	app.Get("/profile", guard, deps.ProfileHandler.Form)
	app.Post("/profile", guard, deps.ProfileHandler.Update)

	// Price list & invoice export
	app.Get("/prices", guard, deps.PriceHandler.List)
	app.Post("/prices/create", guard, deps.PriceHandler.Create)
	app.Delete("/prices/:id", guard, deps.PriceHandler.Delete)
	app.Get("/prices/invoice.pdf", guard, deps.PriceHandler.InvoicePDF)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Page introuvable"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}

// ensureDefaultAvatar writes the fallback avatar served for users without an
// upload. Safe to run on every start.
func ensureDefaultAvatar() {
	path := filepath.Join("web", "static", "default-avatar.svg")
	if _, err := os.Stat(path); err == nil {
		return
	}
	svg := `<svg xmlns="http://www.w3.org/2000/svg" width="256" height="256">
  <rect width="256" height="256" rx="56" fill="#7c3aed"/>
  <circle cx="128" cy="104" r="44" fill="rgba(255,255,255,0.85)"/>
  <path d="M52 220c10-44 46-72 76-72s66 28 76 72" fill="rgba(255,255,255,0.85)"/>
</svg>`
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		log.Printf("[warn] could not write default avatar: %v", err)
	}
}
