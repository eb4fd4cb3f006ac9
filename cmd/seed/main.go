package main

import (
	"context"
	"log"

	"travelblog/internal/config"
	"travelblog/internal/db"
	"travelblog/internal/model"
	"travelblog/internal/repository"
	"travelblog/internal/service"
)

// samplePosts are written only when SEED_SAMPLE_POSTS=true and the table is empty.
var samplePosts = []service.PostInput{
	{
		Title:      "Welcome to the Travel Blog",
		Content:    "This is the first post on the blog. Welcome, and pack light!",
		TravelType: travelType(model.TravelSolo),
	},
	{
		Title:      "Getting Started with Travel Blogging",
		Content:    "How to start your own travel blog and share your adventures with the world.",
		TravelType: travelType(model.TravelAdventure),
	},
	{
		Title:      "Best Family Destinations",
		Content:    "From beaches to mountains, places where kids and parents both have a good time.",
		TravelType: travelType(model.TravelFamily),
	},
}

func travelType(t model.TravelType) *model.TravelType { return &t }

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD must be set")
	}

	ctx := context.Background()

	gormDB, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close(gormDB)
	log.Println("Connected to database")

	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	authService := service.NewAuthService(repository.NewUserRepository(gormDB))
	admin, err := authService.ProvisionAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword, cfg.AdminName)
	if err != nil {
		log.Fatalf("Failed to provision admin: %v", err)
	}
	log.Printf("Admin account ready: %s (%s)", admin.Email, admin.ID)

	if !cfg.SeedSamplePosts {
		log.Println("Seed completed")
		return
	}

	postRepo := repository.NewPostRepository(gormDB)
	existing, err := postRepo.List(ctx, repository.ListFilter{Limit: 1})
	if err != nil {
		log.Fatalf("Failed to check posts: %v", err)
	}
	if len(existing) > 0 {
		log.Println("Posts already present, skipping sample posts")
		return
	}

	posts := service.NewPostService(postRepo, nil, nil)
	for _, in := range samplePosts {
		post, err := posts.Create(ctx, in)
		if err != nil {
			log.Fatalf("Failed to create sample post %q: %v", in.Title, err)
		}
		log.Printf("Created post %d: %s", post.ID, post.Title)
	}
	log.Println("Seed completed")
}
