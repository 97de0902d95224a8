package server

import (
	"quill/internal/cache"
	"quill/internal/models"
	"quill/internal/repository"
	"quill/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// Index handles GET / and GET /index: the full post listing, newest first.
func (s *Server) Index(c *fiber.Ctx) error {
	var posts []models.Post
	err := cache.CacheAside(c.Context(), cache.PostListKey, &posts, cache.PostTTL, func() error {
		fetched, err := s.postRepo.List(c.Context())
		if err != nil {
			return err
		}
		posts = fetched
		return nil
	})
	if err != nil {
		return s.renderError(c, err)
	}

	return s.render(c, "views/index", fiber.Map{
		"Title": "Blog",
		"Posts": posts,
	})
}

// ShowPost handles GET /post/:slug.
func (s *Server) ShowPost(c *fiber.Ctx) error {
	slug := c.Params("slug")

	var post models.Post
	err := cache.CacheAside(c.Context(), cache.PostKey(slug), &post, cache.PostTTL, func() error {
		fetched, err := s.postRepo.GetBySlug(c.Context(), slug)
		if err != nil {
			return err
		}
		post = *fetched
		return nil
	})
	if err != nil {
		return s.renderError(c, err)
	}

	return s.render(c, "views/post", fiber.Map{
		"Title": post.Title,
		"Post":  post,
	})
}

// AddPostPage handles GET /add: the empty editor form.
func (s *Server) AddPostPage(c *fiber.Ctx) error {
	return s.render(c, "views/post_form", fiber.Map{
		"Title":  "Add Post",
		"Form":   validation.PostForm{Draft: true},
		"Errors": map[string]string{},
		"Action": "/add",
	})
}

// AddPost handles POST /add. A valid submission creates the post and
// redirects to the listing; anything else re-renders the form.
func (s *Server) AddPost(c *fiber.Ctx) error {
	form := validation.PostForm{
		Title:    c.FormValue("title"),
		Category: c.FormValue("category"),
		Draft:    formChecked(c, "draft"),
		Body:     c.FormValue("body"),
	}

	errs := validation.ValidatePostForm(form)
	if len(errs) == 0 {
		_, err := s.postRepo.Create(c.Context(), repository.PostInput{
			Title:    form.Title,
			Category: form.Category,
			Draft:    form.Draft,
			Body:     form.Body,
		})
		switch {
		case err == nil:
			cache.Invalidate(c.Context(), cache.PostListKey)
			return c.Redirect("/", fiber.StatusFound)
		case models.IsConflict(err):
			errs["title"] = "a post with this title already exists"
		default:
			return s.renderError(c, err)
		}
	}

	return s.render(c, "views/post_form", fiber.Map{
		"Title":  "Add Post",
		"Form":   form,
		"Errors": errs,
		"Action": "/add",
	})
}

// EditPostPage handles GET /edit/:slug, pre-filling the form; an unknown
// slug is a 404.
func (s *Server) EditPostPage(c *fiber.Ctx) error {
	post, err := s.postRepo.GetBySlug(c.Context(), c.Params("slug"))
	if err != nil {
		return s.renderError(c, err)
	}

	return s.render(c, "views/post_form", fiber.Map{
		"Title": "Edit Post",
		"Form": validation.PostForm{
			Title:    post.Title,
			Category: post.Category,
			Draft:    post.Draft,
			Body:     post.Body,
		},
		"Errors": map[string]string{},
		"Action": "/edit/" + post.Slug,
	})
}

// EditPost handles POST /edit/:slug.
func (s *Server) EditPost(c *fiber.Ctx) error {
	slug := c.Params("slug")
	form := validation.PostForm{
		Title:    c.FormValue("title"),
		Category: c.FormValue("category"),
		Draft:    formChecked(c, "draft"),
		Body:     c.FormValue("body"),
	}

	errs := validation.ValidatePostForm(form)
	if len(errs) == 0 {
		updated, err := s.postRepo.Update(c.Context(), slug, repository.PostInput{
			Title:    form.Title,
			Category: form.Category,
			Draft:    form.Draft,
			Body:     form.Body,
		})
		switch {
		case err == nil:
			cache.Invalidate(c.Context(), cache.PostListKey, cache.PostKey(slug), cache.PostKey(updated.Slug))
			return c.Redirect("/", fiber.StatusFound)
		case models.IsConflict(err):
			errs["title"] = "a post with this title already exists"
		default:
			return s.renderError(c, err)
		}
	}

	return s.render(c, "views/post_form", fiber.Map{
		"Title":  "Edit Post",
		"Form":   form,
		"Errors": errs,
		"Action": "/edit/" + slug,
	})
}

// DeletePost handles GET /delete/:slug. Deleting an unknown slug is a
// harmless no-op; either way the visitor lands back on the listing.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	slug := c.Params("slug")
	if err := s.postRepo.Delete(c.Context(), slug); err != nil {
		return s.renderError(c, err)
	}
	cache.Invalidate(c.Context(), cache.PostListKey, cache.PostKey(slug))
	return c.Redirect("/", fiber.StatusFound)
}

// About handles GET /about.
func (s *Server) About(c *fiber.Ctx) error {
	return s.render(c, "views/about", fiber.Map{"Title": "About"})
}

// Contact handles GET /contact.
func (s *Server) Contact(c *fiber.Ctx) error {
	return s.render(c, "views/contact", fiber.Map{"Title": "Contact"})
}

// NotFound is the catch-all for unmatched paths.
func (s *Server) NotFound(c *fiber.Ctx) error {
	return s.renderNotFound(c)
}
