// Package models contains data structures for the application's domain models.
package models

import "time"

// Categories is the fixed set of post categories offered by the editor form.
var Categories = []string{"cat1", "cat2", "cat3", "cat4"}

// ValidCategory reports whether c is one of the known categories.
func ValidCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Post is a blog entry. Posts are addressed by Slug, which is derived
// from Title by the repository layer. Rows are hard-deleted.
type Post struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	DatePosted time.Time `gorm:"index;autoCreateTime" json:"date_posted"`
	Title      string    `gorm:"unique;not null" json:"title"`
	Slug       string    `gorm:"uniqueIndex;not null" json:"slug"`
	Category   string    `json:"category"`
	Draft      bool      `gorm:"default:true" json:"draft"`
	Body       string    `gorm:"type:text" json:"body"`
	UpdatedAt  time.Time `json:"updated_at"`
}
