package utils

import (
	"os"
	"strconv"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port             string
	MongoURI         string
	MongoDB          string
	JWTSecret        string
	CookieExpireDays int
	PostmarkToken    string
	EmailSender      string
	ClientURL        string
	UploadDir        string
	UploadBaseURL    string
}

// LoadConfig builds Config from the environment with local-dev defaults.
func LoadConfig() *Config {
	return &Config{
		Port:             getEnv("PORT", "8000"),
		MongoURI:         getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:          getEnv("MONGO_DB", "pumpkin_store"),
		JWTSecret:        getEnv("JWT_SECRET_KEY", "change-me"),
		CookieExpireDays: getEnvInt("EXPIRE_COOKIE", 7),
		PostmarkToken:    os.Getenv("POSTMARK_API_TOKEN"),
		EmailSender:      getEnv("EMAIL_SENDER", "no-reply@pumpkin-store.local"),
		ClientURL:        getEnv("CLIENT_URL", "http://localhost:5173"),
		UploadDir:        getEnv("UPLOAD_DIR", "uploads"),
		UploadBaseURL:    getEnv("UPLOAD_BASE_URL", "http://localhost:8000/uploads"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}
