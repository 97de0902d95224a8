// Package server wires the HTTP surface: routes, handlers, the auth gate,
// and the rendered views.
package server

import (
	"embed"
	"net/http"

	"quill/internal/auth"
	"quill/internal/cache"
	"quill/internal/config"
	"quill/internal/database"
	"quill/internal/middleware"
	"quill/internal/repository"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/template/html/v2"
	"gorm.io/gorm"
)

//go:embed views
var viewsFS embed.FS

const (
	sessionCookie = "quill_session"
	flashCookie   = "quill_flash"
)

// Server holds all dependencies and provides handlers.
type Server struct {
	config         *config.Config
	db             *gorm.DB
	promMiddleware *fiberprometheus.FiberPrometheus
	userRepo       repository.UserRepository
	postRepo       repository.PostRepository
}

// NewServer creates a server instance with all dependencies established.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}

	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db), nil
}

// NewServerWithDeps creates a Server using an already-initialized database.
// Use this in tests or when a bootstrap layer establishes the dependencies.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB) *Server {
	return &Server{
		config:         cfg,
		db:             db,
		promMiddleware: middleware.InitMetrics("quill"),
		userRepo:       repository.NewUserRepository(db),
		postRepo:       repository.NewPostRepository(db),
	}
}

// NewApp builds the Fiber application with views, middleware, and routes.
func (s *Server) NewApp() *fiber.App {
	engine := html.NewFileSystem(http.FS(viewsFS), ".html")

	app := fiber.New(fiber.Config{
		AppName:     "Quill",
		Views:       engine,
		ViewsLayout: "views/layouts/main",
	})

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	return app
}

// SetupMiddleware configures middleware for the Fiber app.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(middleware.StructuredLogger())

	// Establish the visitor's identity for every request; handlers and
	// templates read it from locals.
	app.Use(s.SessionLoader())
}

// SetupRoutes configures all routes for the application.
func (s *Server) SetupRoutes(app *fiber.App) {
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Public pages
	app.Get("/", s.Index)
	app.Get("/index", s.Index)
	app.Get("/post/:slug", s.ShowPost)
	app.Get("/about", s.About)
	app.Get("/contact", s.Contact)

	// Account routes; already-authenticated visitors go back to the listing
	app.Get("/register", s.RedirectIfAuthenticated(), s.RegisterPage)
	app.Post("/register", s.RedirectIfAuthenticated(), s.Register)
	app.Get("/login", s.RedirectIfAuthenticated(), s.LoginPage)
	app.Post("/login", s.RedirectIfAuthenticated(), s.Login)

	// Protected routes
	app.Get("/logout", s.AuthRequired(), s.Logout)
	app.Get("/add", s.AuthRequired(), s.AddPostPage)
	app.Post("/add", s.AuthRequired(), s.AddPost)
	app.Get("/edit/:slug", s.AuthRequired(), s.EditPostPage)
	app.Post("/edit/:slug", s.AuthRequired(), s.EditPost)
	app.Get("/delete/:slug", s.AuthRequired(), s.DeletePost)

	// Everything else is a rendered 404
	app.Use(s.NotFound)
}

// SessionLoader reads the session cookie, if any, confirms the account
// still exists, and records the user ID in locals. Invalid or expired
// tokens just mean an anonymous visitor.
func (s *Server) SessionLoader() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token := c.Cookies(sessionCookie); token != "" {
			if userID, err := auth.ParseSessionToken(s.config.SessionSecret, token); err == nil {
				if user, err := s.userRepo.GetByID(c.Context(), userID); err == nil && user != nil {
					c.Locals("userID", userID)
				}
			}
		}
		return c.Next()
	}
}

// AuthRequired gates a route on an established session; anonymous
// visitors are sent to the login page with the original path as next.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Locals("userID") == nil {
			return c.Redirect("/login?next="+queryEscape(c.OriginalURL()), fiber.StatusFound)
		}
		return c.Next()
	}
}

// RedirectIfAuthenticated sends logged-in visitors of /login and /register
// back to the listing without re-processing the form.
func (s *Server) RedirectIfAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Locals("userID") != nil {
			return c.Redirect("/", fiber.StatusFound)
		}
		return c.Next()
	}
}
