package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port         string
	LogLevel     string
	DatabasePath string

	JWTSecret         string
	AccessTokenExpiry time.Duration

	// Single-operator credentials. AdminPasswordHash is a bcrypt hash;
	// when empty the login endpoint is disabled and the API is open.
	AdminUsername     string
	AdminPasswordHash string

	// Sales ledger (Google Sheet values API)
	SheetAPIKey string
	SheetID     string
	SheetRange  string

	// Balance ledger (CSV export), remote URL with a local file fallback
	BalanceCSVURL  string
	BalanceCSVPath string

	FetchTimeout       time.Duration
	RowCacheTTL        time.Duration
	SummaryCacheTTL    time.Duration
	MaxUploadSizeBytes int64
}

var Cfg *AppConfig

func LoadConfig() {
	errEnv := godotenv.Load()
	if errEnv != nil {
		log.Println("Info: No .env file found or error loading .env file. Relying on OS environment variables and defaults. Error (if any):", errEnv)
	} else {
		log.Println(".env file loaded successfully.")
	}

	log.Println("Loading application configuration...")

	jwtSecret := getEnv("JWT_SECRET", "insecure-development-jwt-secret-key-minimum-32-bytes!")
	if jwtSecret == "insecure-development-jwt-secret-key-minimum-32-bytes!" {
		log.Println("WARNING: Using default insecure JWT_SECRET. Set JWT_SECRET environment variable for production.")
	}

	maxUploadSizeBytesStr := getEnv("MAX_UPLOAD_SIZE_BYTES", "10485760")
	maxUploadSizeBytes, err := strconv.ParseInt(maxUploadSizeBytesStr, 10, 64)
	if err != nil {
		log.Printf("WARNING: Invalid MAX_UPLOAD_SIZE_BYTES format '%s'. Using default 10MB. Error: %v", maxUploadSizeBytesStr, err)
		maxUploadSizeBytes = 10 * 1024 * 1024
	}

	Cfg = &AppConfig{
		Port:         getEnv("PORT", "8080"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		DatabasePath: getEnv("DATABASE_PATH", "./foxxdash.db"),

		JWTSecret:         jwtSecret,
		AccessTokenExpiry: getEnvAsDuration("ACCESS_TOKEN_EXPIRY", 12*time.Hour),

		AdminUsername:     getEnv("ADMIN_USERNAME", "admin"),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),

		SheetAPIKey: getEnv("GOOGLE_SHEETS_API_KEY", ""),
		SheetID:     getEnv("FOXX_SALES_SHEET_ID", ""),
		SheetRange:  getEnv("FOXX_SALES_RANGE", "Feuille 1!A1:AD5000"),

		BalanceCSVURL:  getEnv("TAZAPAY_CSV_URL", ""),
		BalanceCSVPath: getEnv("TAZAPAY_CSV_PATH", "data/payins.csv"),

		FetchTimeout:       getEnvAsDuration("FETCH_TIMEOUT", 20*time.Second),
		RowCacheTTL:        getEnvAsDuration("ROW_CACHE_TTL", 5*time.Minute),
		SummaryCacheTTL:    getEnvAsDuration("SUMMARY_CACHE_TTL", 1*time.Minute),
		MaxUploadSizeBytes: maxUploadSizeBytes,
	}

	if Cfg.AdminPasswordHash == "" {
		log.Println("WARNING: ADMIN_PASSWORD_HASH not set. API authentication is disabled.")
	}
	if Cfg.SheetAPIKey == "" || Cfg.SheetID == "" {
		log.Println("WARNING: GOOGLE_SHEETS_API_KEY or FOXX_SALES_SHEET_ID not set. Sales ledger will rely on uploaded snapshots only.")
	}

	log.Printf("Configuration loaded: Port=%s, LogLevel=%s, DBPath=%s",
		Cfg.Port, Cfg.LogLevel, Cfg.DatabasePath)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid duration value for %s ('%s'), using default: %s", key, valueStr, fallback.String())
	return fallback
}
