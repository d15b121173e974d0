package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/tewodrosk/tiketa/internal/server"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables.")
	}

	if err := server.Start(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
