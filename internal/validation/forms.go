// Package validation checks submitted form values before they reach the
// repositories. Each Validate* returns a field→message map that the
// handlers feed straight back into the re-rendered form; an empty map
// means the submission is good.
package validation

import (
	"fmt"
	"regexp"

	"quill/internal/models"
)

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,32}$`)
	emailRegex    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// ValidateUsername validates username format.
func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username must be 3-32 characters of letters, numbers, hyphens, or underscores")
	}
	return nil
}

// ValidateEmail validates email format.
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("enter a valid email address")
	}
	return nil
}

// PostForm mirrors the add/edit form fields.
type PostForm struct {
	Title    string
	Category string
	Draft    bool
	Body     string
}

// ValidatePostForm checks the add/edit submission.
func ValidatePostForm(f PostForm) map[string]string {
	errs := map[string]string{}
	if f.Title == "" {
		errs["title"] = "title is required"
	}
	if !models.ValidCategory(f.Category) {
		errs["category"] = "choose a valid category"
	}
	return errs
}

// RegisterForm mirrors the registration form fields.
type RegisterForm struct {
	Username  string
	Email     string
	Password  string
	Password2 string
}

// ValidateRegisterForm checks the registration submission.
func ValidateRegisterForm(f RegisterForm) map[string]string {
	errs := map[string]string{}
	if err := ValidateUsername(f.Username); err != nil {
		errs["username"] = err.Error()
	}
	if err := ValidateEmail(f.Email); err != nil {
		errs["email"] = err.Error()
	}
	if f.Password == "" {
		errs["password"] = "password is required"
	}
	if f.Password2 != f.Password {
		errs["password2"] = "passwords must match"
	}
	return errs
}

// LoginForm mirrors the login form fields.
type LoginForm struct {
	Username   string
	Password   string
	RememberMe bool
}

// ValidateLoginForm checks the login submission.
func ValidateLoginForm(f LoginForm) map[string]string {
	errs := map[string]string{}
	if f.Username == "" {
		errs["username"] = "username is required"
	}
	if f.Password == "" {
		errs["password"] = "password is required"
	}
	return errs
}
