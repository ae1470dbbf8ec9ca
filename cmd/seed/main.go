// Command seed creates an interviewer account directly in MongoDB.
// Useful for provisioning before first start:
//
//	go run ./cmd/seed -username jane -password secret -admin
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"codeshare/internal/repository"
	"codeshare/internal/service"
)

func main() {
	username := flag.String("username", "admin", "account username")
	password := flag.String("password", "admin", "account password")
	firstName := flag.String("first", "", "first name")
	lastName := flag.String("last", "", "last name")
	admin := flag.Bool("admin", false, "grant the admin capability")
	flag.Parse()

	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}
	database := os.Getenv("MONGO_DATABASE")
	if database == "" {
		database = "codeshare"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	users := repository.NewUserRepo(client.Database(database))
	userSvc := service.NewUserService(users)

	user, err := userSvc.Create(ctx, *username, *password, *firstName, *lastName, *admin)
	if err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}

	log.Printf("created user %s (admin=%v)", user.Username, user.Admin)
}
