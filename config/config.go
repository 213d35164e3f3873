package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

var (
	SecretKey []byte

	DatabaseURL  string
	RedisAddr    string
	ProcessorURL string
	ProcessorKey string
	ForecastURL  string
)

func Init() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	secret := os.Getenv("JWT_SECRET_KEY")
	if secret == "" {
		log.Fatal("JWT secret key not set")
	}
	SecretKey = []byte(secret)

	DatabaseURL = os.Getenv("DATABASE_URL")
	if DatabaseURL == "" {
		log.Fatal("DATABASE_URL not set")
	}

	RedisAddr = os.Getenv("REDIS_ADDR") // optional, analytics cache disabled when empty

	ProcessorURL = os.Getenv("PAYMENT_PROCESSOR_URL")
	ProcessorKey = os.Getenv("PAYMENT_PROCESSOR_KEY")

	ForecastURL = os.Getenv("FORECAST_URL")
	if ForecastURL == "" {
		ForecastURL = "http://localhost:8000/forecast"
	}
}
