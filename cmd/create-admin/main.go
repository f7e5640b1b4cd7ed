package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"os"

	"TalentBridge-backend/internal/database"
	"TalentBridge-backend/internal/model"
	"TalentBridge-backend/internal/utilities"
)

// generateRandomString creates a random hex string of length 2n
func generateRandomString(n int) string {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		log.Fatal(err)
	}
	return hex.EncodeToString(bytes)
}

func main() {
	db, err := database.GetMainDB()
	if err != nil {
		log.Fatalf("Database failed to initialize: %s", err)
	}

	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = fmt.Sprintf("admin_%s@talentbridge.local", generateRandomString(4))
	}

	var count int64
	db.Model(&model.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		log.Fatalf("A user with email %s already exists", email)
	}

	password := generateRandomString(8)
	utilities.CreateSuperAdmin(password, email, db.DB)

	fmt.Println("Super admin account created")
	fmt.Println("Email:   ", email)
	fmt.Println("Password:", password)
	fmt.Println("Store these credentials securely; the password is not recoverable.")
}
