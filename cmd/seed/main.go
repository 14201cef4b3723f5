// Command main runs the database seeder for PULOG.
package main

import (
	"flag"
	"log"

	"github.com/riku-yanagihashi/PULOG/internal/config"
	"github.com/riku-yanagihashi/PULOG/internal/database"
	"github.com/riku-yanagihashi/PULOG/internal/seed"

	"github.com/joho/godotenv"
)

func main() {
	numUsers := flag.Int("users", 3, "Number of users to create")
	numPosts := flag.Int("posts", 20, "Number of posts to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Run(db, seed.Options{
		Users: *numUsers,
		Posts: *numPosts,
		Clean: *shouldClean,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
