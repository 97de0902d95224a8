package server

import (
	"time"

	"quill/internal/auth"
	"quill/internal/models"
	"quill/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// RegisterPage handles GET /register.
func (s *Server) RegisterPage(c *fiber.Ctx) error {
	return s.render(c, "views/register", fiber.Map{
		"Title":  "Register",
		"Form":   validation.RegisterForm{},
		"Errors": map[string]string{},
	})
}

// Register handles POST /register. Success redirects to the login page
// with a confirmation notice; a duplicate username or email re-renders
// the form with the error inline.
func (s *Server) Register(c *fiber.Ctx) error {
	form := validation.RegisterForm{
		Username:  c.FormValue("username"),
		Email:     c.FormValue("email"),
		Password:  c.FormValue("password"),
		Password2: c.FormValue("password2"),
	}

	errs := validation.ValidateRegisterForm(form)
	if len(errs) == 0 {
		digest, err := auth.HashPassword(form.Password)
		if err != nil {
			return s.renderError(c, err)
		}

		user := &models.User{
			Username:     form.Username,
			Email:        form.Email,
			PasswordHash: digest,
		}
		createErr := s.userRepo.Create(c.Context(), user)
		switch {
		case createErr == nil:
			setFlash(c, "Congratulations, you are now a registered user!")
			return c.Redirect("/login", fiber.StatusFound)
		case models.IsConflict(createErr):
			errs["username"] = "username or email already in use"
		default:
			return s.renderError(c, createErr)
		}
	}

	return s.render(c, "views/register", fiber.Map{
		"Title":  "Register",
		"Form":   form,
		"Errors": errs,
	})
}

// LoginPage handles GET /login.
func (s *Server) LoginPage(c *fiber.Ctx) error {
	return s.render(c, "views/login", fiber.Map{
		"Title":  "Sign In",
		"Form":   validation.LoginForm{},
		"Errors": map[string]string{},
		"Next":   c.Query("next"),
	})
}

// Login handles POST /login. Unknown usernames and wrong passwords get
// the same generic notice so accounts cannot be enumerated.
func (s *Server) Login(c *fiber.Ctx) error {
	form := validation.LoginForm{
		Username:   c.FormValue("username"),
		Password:   c.FormValue("password"),
		RememberMe: formChecked(c, "remember_me"),
	}

	if errs := validation.ValidateLoginForm(form); len(errs) > 0 {
		return s.render(c, "views/login", fiber.Map{
			"Title":  "Sign In",
			"Form":   form,
			"Errors": errs,
			"Next":   c.Query("next"),
		})
	}

	user, err := s.userRepo.GetByUsername(c.Context(), form.Username)
	if err != nil {
		return s.renderError(c, err)
	}
	if user == nil || !auth.CheckPassword(form.Password, user.PasswordHash) {
		setFlash(c, "Invalid username or password")
		return c.Redirect("/login", fiber.StatusFound)
	}

	ttl := auth.SessionTTL
	if form.RememberMe {
		ttl = auth.RememberTTL
	}
	token, err := auth.NewSessionToken(s.config.SessionSecret, user.ID, user.Username, ttl)
	if err != nil {
		return s.renderError(c, err)
	}

	cookie := &fiber.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
	// Only a remember-me login outlives the browser session.
	if form.RememberMe {
		cookie.Expires = time.Now().Add(auth.RememberTTL)
	}
	c.Cookie(cookie)

	next := c.Query("next")
	if !safeNext(next) {
		next = "/"
	}
	return c.Redirect(next, fiber.StatusFound)
}

// Logout handles GET /logout: drop the session, back to the listing.
func (s *Server) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.Redirect("/", fiber.StatusFound)
}
