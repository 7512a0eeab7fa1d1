// Command seed populates the development database with demo data.
package main

import (
	"flag"
	"log"

	"holyguitars/internal/bootstrap"
	"holyguitars/internal/config"
	"holyguitars/internal/seed"
)

func main() {
	users := flag.Int("users", 25, "number of users to create")
	posts := flag.Int("posts", 100, "number of posts to create")
	comments := flag.Int("comments", 300, "number of comments to create")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("refusing to seed a production database")
	}

	db, _, err := bootstrap.InitRuntime(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}

	if err := seed.Run(db, seed.Options{
		Users:    *users,
		Posts:    *posts,
		Comments: *comments,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
