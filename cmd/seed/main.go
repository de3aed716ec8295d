// Command main runs the database seeder for Gavel.
package main

import (
	"flag"
	"log"

	"gavel/internal/config"
	"gavel/internal/database"
	"gavel/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 50, "Number of users to create")
	numAuctions := flag.Int("auctions", 200, "Number of auctions to create")
	maxDays := flag.Int("max-days", 14, "Furthest closing time in days")
	skipBcrypt := flag.Bool("skip-bcrypt", false, "Store plaintext passwords (dev fast mode)")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("Gavel database seeder")
	log.Printf("Target: %d users, %d auctions, clean=%v", *numUsers, *numAuctions, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Seed(db, seed.Options{
		NumUsers:    *numUsers,
		NumAuctions: *numAuctions,
		MaxDays:     *maxDays,
		SkipBcrypt:  *skipBcrypt,
		ShouldClean: *shouldClean,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("All done. Test users authenticate with the password: password123")
}
