// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	JWT         JWTConfig
	Redis       RedisConfig
	AWS         AWSConfig
	Chain       ChainConfig
	AIImage     AIImageConfig
	MintPad     MintPadConfig
	Launchpad   LaunchpadConfig
	PriceFeed   PriceFeedConfig
	Revshare    RevshareConfig
	Payment     PaymentConfig
	I18n        I18nConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int
}

type DatabaseConfig struct {
	Host           string
	Port           string
	User           string
	Password       string
	Database       string
	SSLMode        string
	ConnectTimeout int // seconds
	MaxOpenConns   int
	MaxIdleConns   int
	MaxLifetime    int
	LogLevel       string
}

type JWTConfig struct {
	SecretKey       string
	AccessTokenTTL  int // in hours
	RefreshTokenTTL int // in hours
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	S3Bucket        string
	CloudFrontURL   string
}

// ChainConfig describes the RPC endpoint and the platform's on-chain actors.
type ChainConfig struct {
	RPCURL            string
	PlatformTokenMint string // fungible token gating discount/quota tiers
	TreasuryWallet    string // receives mint and launch fees
	CustodialWallet   string // funded before bonding/amm launches
	ConfirmInterval   int    // seconds between signature status checks
	ConfirmAttempts   int
}

type AIImageConfig struct {
	BaseURL string
	APIKey  string
}

type MintPadConfig struct {
	BaseURL       string
	APIKey        string
	PollInterval  int // seconds
	PollAttempts  int
	MintFee       float64
	CollectionFee float64
}

// LaunchpadConfig carries the three token-launch backends.
type LaunchpadConfig struct {
	BondingURL        string
	AMMURL            string
	InstantURL        string
	APIKey            string
	BondingFlatFee    float64
	AMMFeePercent     float64 // of the provided liquidity
	InstantFeePercent float64 // of the initial buy
	PollInterval      int
	PollAttempts      int
}

type PriceFeedConfig struct {
	BaseURL  string
	CacheTTL int // seconds
}

type RevshareConfig struct {
	Endpoints   []string // JSON endpoints, tried in order
	LandingPage string   // HTML fallback
}

type PaymentConfig struct {
	StripeSecretKey      string
	StripePublishableKey string
}

type I18nConfig struct {
	DefaultLocale string
	LocalesPath   string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Host:         getEnv("SERVER_HOST", "localhost"),
			ReadTimeout:  getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvAsInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			Host:           getEnv("DB_HOST", "localhost"),
			Port:           getEnv("DB_PORT", "5432"),
			User:           getEnv("DB_USER", "postgres"),
			Password:       getEnv("DB_PASSWORD", ""),
			Database:       getEnv("DB_NAME", "solaforge"),
			SSLMode:        getEnv("DB_SSL_MODE", "disable"),
			ConnectTimeout: getEnvAsInt("DB_CONNECT_TIMEOUT", 10),
			MaxOpenConns:   getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:   getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:    getEnvAsInt("DB_MAX_LIFETIME", 300),
			LogLevel:       getEnv("DB_LOG_LEVEL", "silent"),
		},
		JWT: JWTConfig{
			SecretKey:       getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
			AccessTokenTTL:  getEnvAsInt("JWT_ACCESS_TTL", 24),   // 24 hours
			RefreshTokenTTL: getEnvAsInt("JWT_REFRESH_TTL", 168), // 7 days
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		AWS: AWSConfig{
			Region:          getEnv("AWS_REGION", "us-east-1"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			S3Bucket:        getEnv("AWS_S3_BUCKET", "solaforge-assets"),
			CloudFrontURL:   getEnv("AWS_CLOUDFRONT_URL", ""),
		},
		Chain: ChainConfig{
			RPCURL:            getEnv("CHAIN_RPC_URL", "https://api.mainnet-beta.solana.com"),
			PlatformTokenMint: getEnv("PLATFORM_TOKEN_MINT", ""),
			TreasuryWallet:    getEnv("TREASURY_WALLET", ""),
			CustodialWallet:   getEnv("CUSTODIAL_WALLET", ""),
			ConfirmInterval:   getEnvAsInt("CHAIN_CONFIRM_INTERVAL", 2),
			ConfirmAttempts:   getEnvAsInt("CHAIN_CONFIRM_ATTEMPTS", 30),
		},
		AIImage: AIImageConfig{
			BaseURL: getEnv("AI_IMAGE_API_URL", ""),
			APIKey:  getEnv("AI_IMAGE_API_KEY", ""),
		},
		MintPad: MintPadConfig{
			BaseURL:       getEnv("MINTPAD_API_URL", ""),
			APIKey:        getEnv("MINTPAD_API_KEY", ""),
			PollInterval:  getEnvAsInt("MINTPAD_POLL_INTERVAL", 3),
			PollAttempts:  getEnvAsInt("MINTPAD_POLL_ATTEMPTS", 20),
			MintFee:       getEnvAsFloat("MINT_FEE", 0.1),
			CollectionFee: getEnvAsFloat("COLLECTION_FEE", 0.5),
		},
		Launchpad: LaunchpadConfig{
			BondingURL:        getEnv("LAUNCHPAD_BONDING_URL", ""),
			AMMURL:            getEnv("LAUNCHPAD_AMM_URL", ""),
			InstantURL:        getEnv("LAUNCHPAD_INSTANT_URL", ""),
			APIKey:            getEnv("LAUNCHPAD_API_KEY", ""),
			BondingFlatFee:    getEnvAsFloat("LAUNCHPAD_BONDING_FLAT_FEE", 0.25),
			AMMFeePercent:     getEnvAsFloat("LAUNCHPAD_AMM_FEE_PERCENT", 1.0),
			InstantFeePercent: getEnvAsFloat("LAUNCHPAD_INSTANT_FEE_PERCENT", 1.0),
			PollInterval:      getEnvAsInt("LAUNCHPAD_POLL_INTERVAL", 3),
			PollAttempts:      getEnvAsInt("LAUNCHPAD_POLL_ATTEMPTS", 20),
		},
		PriceFeed: PriceFeedConfig{
			BaseURL:  getEnv("PRICE_FEED_URL", ""),
			CacheTTL: getEnvAsInt("PRICE_CACHE_TTL", 30),
		},
		Revshare: RevshareConfig{
			Endpoints:   getEnvAsSlice("REVSHARE_ENDPOINTS", []string{}),
			LandingPage: getEnv("REVSHARE_LANDING_PAGE", ""),
		},
		Payment: PaymentConfig{
			StripeSecretKey:      getEnv("STRIPE_SECRET_KEY", ""),
			StripePublishableKey: getEnv("STRIPE_PUBLISHABLE_KEY", ""),
		},
		I18n: I18nConfig{
			DefaultLocale: getEnv("DEFAULT_LOCALE", "en"),
			LocalesPath:   getEnv("LOCALES_PATH", "./internal/i18n/locales"),
		},
	}

	return config, config.Validate()
}

func (c *Config) Validate() error {
	if c.JWT.SecretKey == "your-secret-key-change-in-production" && c.Environment == "production" {
		return fmt.Errorf("JWT secret key must be changed in production")
	}

	if c.Database.Password == "" && c.Environment == "production" {
		return fmt.Errorf("database password is required in production")
	}

	if c.Chain.TreasuryWallet == "" && c.Environment == "production" {
		return fmt.Errorf("treasury wallet is required in production")
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}
