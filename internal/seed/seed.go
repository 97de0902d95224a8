// Package seed fills a development database with plausible content.
package seed

import (
	"fmt"
	"log"

	"quill/internal/auth"
	"quill/internal/models"
	"quill/internal/slug"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultPostCount is how many fake posts Run creates.
const DefaultPostCount = 12

// Run seeds an author account and a batch of fake posts. Idempotent:
// rows that already exist are left alone.
func Run(db *gorm.DB, postCount int) error {
	if postCount <= 0 {
		postCount = DefaultPostCount
	}

	digest, err := auth.HashPassword("password")
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	author := models.User{
		Username:     "author",
		Email:        "author@example.com",
		PasswordHash: digest,
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&author).Error; err != nil {
		return fmt.Errorf("seed author: %w", err)
	}

	// Fixed seed keeps reruns generating the same titles, so OnConflict
	// DoNothing makes the whole seeding idempotent.
	faker := gofakeit.New(42)
	created := 0
	for i := 0; i < postCount; i++ {
		title := faker.Sentence(faker.Number(3, 6))
		post := models.Post{
			Title:    title,
			Slug:     slug.Make(title),
			Category: faker.RandomString(models.Categories),
			Draft:    faker.Bool(),
			Body:     faker.Paragraph(3, 4, 12, "\n\n"),
		}
		result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&post)
		if result.Error != nil {
			return fmt.Errorf("seed post %q: %w", title, result.Error)
		}
		created += int(result.RowsAffected)
	}

	log.Printf("Seeded %d posts (author account: author/password)", created)
	return nil
}
