package main

import (
	"log"
	"os"

	"policy-matching-be/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedAdmin creates the initial administrator account. Credentials come
// from ADMIN_EMAIL and ADMIN_PASSWORD; skipped when either is unset.
func SeedAdmin(db *gorm.DB) {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Println("Info: ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin seed")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Warn: failed to hash admin password: %v", err)
		return
	}

	admin := model.Admin{
		Email:        email,
		FullName:     "Administrator",
		PasswordHash: string(hash),
	}

	result := db.Where(model.Admin{Email: email}).FirstOrCreate(&admin)
	if result.Error != nil {
		log.Printf("Warn: failed to seed admin: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		log.Printf("Seeded admin: %s", email)
	}
}
