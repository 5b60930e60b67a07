package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	HTTPAddr  string
	PublicURL string

	DBDriver string
	DBDSN    string

	BlobBasePath string

	// Signing key for session credentials. Read once at startup and passed
	// explicitly into the auth service; never consulted again afterwards.
	JWTSecret string
	JWTTTL    time.Duration

	BcryptCost int

	CORSOrigins []string
}

// Load reads configuration from the environment, with an optional .env file
// loaded first. Missing values fall back to offline-friendly defaults.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: .env not loaded: %v", err)
	}

	v := viper.New()
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("PUBLIC_URL", "")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_DSN", "")
	v.SetDefault("BLOB_BASE_PATH", "./data")
	v.SetDefault("JWT_SECRET", "schoolhub-dev-secret")
	v.SetDefault("JWT_TTL", 8*time.Hour)
	v.SetDefault("BCRYPT_COST", 10)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")
	v.AutomaticEnv()

	return Config{
		HTTPAddr:     v.GetString("HTTP_ADDR"),
		PublicURL:    strings.TrimSuffix(v.GetString("PUBLIC_URL"), "/"),
		DBDriver:     v.GetString("DB_DRIVER"),
		DBDSN:        v.GetString("DB_DSN"),
		BlobBasePath: v.GetString("BLOB_BASE_PATH"),
		JWTSecret:    v.GetString("JWT_SECRET"),
		JWTTTL:       v.GetDuration("JWT_TTL"),
		BcryptCost:   v.GetInt("BCRYPT_COST"),
		CORSOrigins:  splitCSV(v.GetString("CORS_ORIGINS")),
	}
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
