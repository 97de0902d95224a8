package server

import (
	"net/url"
	"strings"
	"time"

	"quill/internal/middleware"
	"quill/internal/models"

	"github.com/gofiber/fiber/v2"
)

func queryEscape(s string) string {
	return url.QueryEscape(s)
}

// safeNext reports whether a post-login redirect target is a same-origin
// relative path. Anything else falls back to the listing.
func safeNext(next string) bool {
	return strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//")
}

// setFlash stores a one-shot notice for the next rendered page.
func setFlash(c *fiber.Ctx, message string) {
	c.Cookie(&fiber.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(message),
		Path:     "/",
		MaxAge:   60,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// popFlash returns the pending notice, if any, and clears it.
func popFlash(c *fiber.Ctx) string {
	raw := c.Cookies(flashCookie)
	if raw == "" {
		return ""
	}
	c.Cookie(&fiber.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	message, err := url.QueryUnescape(raw)
	if err != nil {
		return ""
	}
	return message
}

// render wraps c.Render, adding the state every page needs: the flash
// notice, whether a session exists, and the category choices.
func (s *Server) render(c *fiber.Ctx, name string, bind fiber.Map) error {
	if bind == nil {
		bind = fiber.Map{}
	}
	if _, ok := bind["Flash"]; !ok {
		bind["Flash"] = popFlash(c)
	}
	bind["Authenticated"] = c.Locals("userID") != nil
	bind["Categories"] = models.Categories
	return c.Render(name, bind)
}

// renderNotFound renders the 404 page with status 404.
func (s *Server) renderNotFound(c *fiber.Ctx) error {
	c.Status(fiber.StatusNotFound)
	return s.render(c, "views/404", fiber.Map{"Title": "Not Found"})
}

// renderError maps a repository failure onto a page: unknown slugs get
// the 404 page, anything unexpected gets logged and a 500 page.
func (s *Server) renderError(c *fiber.Ctx, err error) error {
	if models.IsNotFound(err) {
		return s.renderNotFound(c)
	}
	middleware.Logger.Error("handler error", "path", c.Path(), "error", err.Error())
	c.Status(fiber.StatusInternalServerError)
	return s.render(c, "views/500", fiber.Map{"Title": "Server Error"})
}

// formChecked interprets an HTML checkbox value.
func formChecked(c *fiber.Ctx, field string) bool {
	return c.FormValue(field) != ""
}
