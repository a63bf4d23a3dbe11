package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	EnableDBCheck     bool
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// External OAuth Providers
	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `mapstructure:"GOOGLE_REDIRECT_URL"`
	FrontendBaseURL    string `mapstructure:"FRONTEND_BASE_URL"`

	// Ledger policy
	LowBalanceThreshold int64  // Guaraníes; committed events below this record a SALDO_BAJO notification
	TopupStampingNumber string // Stamping under which top-up fiscal documents are issued

	// First-run bootstrap. When the staff table is empty an administrator
	// account is created with these credentials.
	BootstrapAdminUsername string
	BootstrapAdminPassword string
	BootstrapAdminEmail    string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "card-ledger-app")
	viper.SetDefault("GOOGLE_CLIENT_ID", "")
	viper.SetDefault("GOOGLE_CLIENT_SECRET", "")
	viper.SetDefault("GOOGLE_REDIRECT_URL", "")
	viper.SetDefault("FRONTEND_BASE_URL", "http://localhost:3000")
	viper.SetDefault("LOW_BALANCE_THRESHOLD", 10000)
	viper.SetDefault("TOPUP_STAMPING_NUMBER", "12558811")
	viper.SetDefault("BOOTSTRAP_ADMIN_USERNAME", "admin")
	viper.SetDefault("BOOTSTRAP_ADMIN_PASSWORD", "")
	viper.SetDefault("BOOTSTRAP_ADMIN_EMAIL", "admin@cantina.local")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	jwtSecret := viper.GetString("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = time.Hour * 1
		if jwtExpiryStr != "" {
			log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
		}
	}

	jwtIssuer := viper.GetString("JWT_ISSUER")
	if jwtIssuer == "" {
		jwtIssuer = "card-ledger-app"
		log.Printf("Warning: JWT_ISSUER not set. Defaulting to %s.\n", jwtIssuer)
	}

	cfg.GoogleClientID = viper.GetString("GOOGLE_CLIENT_ID")
	cfg.GoogleClientSecret = viper.GetString("GOOGLE_CLIENT_SECRET")
	cfg.GoogleRedirectURL = viper.GetString("GOOGLE_REDIRECT_URL")
	cfg.FrontendBaseURL = viper.GetString("FRONTEND_BASE_URL")

	if cfg.GoogleClientID == "" {
		log.Println("Warning: GOOGLE_CLIENT_ID not set. Google OAuth will not function.")
	}
	if cfg.GoogleClientSecret == "" {
		log.Println("Warning: GOOGLE_CLIENT_SECRET not set. Google OAuth will not function.")
	}
	if cfg.GoogleRedirectURL == "" {
		log.Println("Warning: GOOGLE_REDIRECT_URL not set. Google OAuth will not function.")
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.JWTSecret = jwtSecret
	cfg.JWTExpiryDuration = jwtExpiryDuration
	cfg.JWTIssuer = jwtIssuer

	cfg.LowBalanceThreshold = viper.GetInt64("LOW_BALANCE_THRESHOLD")
	cfg.TopupStampingNumber = viper.GetString("TOPUP_STAMPING_NUMBER")
	cfg.BootstrapAdminUsername = viper.GetString("BOOTSTRAP_ADMIN_USERNAME")
	cfg.BootstrapAdminPassword = viper.GetString("BOOTSTRAP_ADMIN_PASSWORD")
	cfg.BootstrapAdminEmail = viper.GetString("BOOTSTRAP_ADMIN_EMAIL")
	if cfg.BootstrapAdminPassword == "" {
		log.Println("Warning: BOOTSTRAP_ADMIN_PASSWORD not set. No administrator will be created on an empty staff table.")
	}
	if cfg.TopupStampingNumber == "" {
		log.Println("Warning: TOPUP_STAMPING_NUMBER not set. Fiscal documents for top-ups cannot be issued.")
	}

	return cfg, nil
}
