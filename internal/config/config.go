package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr  string
	DBPath      string
	MediaPath   string
	OpenBetaURL string
	JWTSecret   string
	LogLevel    string
	LogFile     string
}

// Load reads configuration from the environment, after loading a .env file
// when one exists in the working directory.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ListenAddr:  getEnv("LISTEN_ADDR", ":8080"),
		DBPath:      getEnv("DB_PATH", "/data/craglog.db"),
		MediaPath:   getEnv("MEDIA_PATH", "/data/uploads"),
		OpenBetaURL: getEnv("OPENBETA_URL", "https://api.openbeta.io/graphql"),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFile:     getEnv("LOG_FILE", ""),
	}
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}
