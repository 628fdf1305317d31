package config

import (
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Storage  StorageConfig
	Sheets   SheetsConfig
	Report   ReportConfig
	Forecast ForecastConfig
	Columns  Columns
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type CacheConfig struct {
	Enabled       bool
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	TTLSeconds    int
}

// StorageConfig points at the S3-compatible bucket that holds raw
// marketplace export bundles.
type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

// SheetsConfig identifies the spreadsheet that carries the canonical
// part-number mapping worksheet.
type SheetsConfig struct {
	SpreadsheetID   string
	WorksheetName   string
	CredentialsJSON string
}

type ReportConfig struct {
	ExportsDir    string
	DataDir       string
	ResultsDir    string
	Region        string
	TitleKeyword  string
	PriceBandLow  float64
	PriceBandHigh float64
	SharePort     string
}

// ForecastConfig carries the weighted-moving-average parameters. The three
// weights cover the derived monthly buckets, most recent first.
type ForecastConfig struct {
	WeightM1      float64
	WeightM2      float64
	WeightM3      float64
	FloorFraction float64
}

// Validate is called once at startup; a non-positive weight sum would make
// every forecast meaningless.
func (c ForecastConfig) Validate() error {
	if sum := c.WeightM1 + c.WeightM2 + c.WeightM3; sum <= 0 {
		return fmt.Errorf("sum of WMA weights (%v) must be positive", sum)
	}
	if c.FloorFraction < 0 || c.FloorFraction > 1 {
		return fmt.Errorf("forecast floor fraction %v must be in [0, 1]", c.FloorFraction)
	}
	return nil
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		// Set default values
		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 15)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 15)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "replenish")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_TTL_SECONDS", 3600)
		viper.SetDefault("STORAGE_ENDPOINT", "")
		viper.SetDefault("STORAGE_BUCKET", "amazon-exports")
		viper.SetDefault("STORAGE_REGION", "us-east-1")
		viper.SetDefault("STORAGE_USE_SSL", true)
		viper.SetDefault("SHEETS_SPREADSHEET_ID", "")
		viper.SetDefault("SHEETS_WORKSHEET_NAME", "amazon_sku_mapping")
		viper.SetDefault("REPORT_EXPORTS_DIR", "./amazon-exports")
		viper.SetDefault("REPORT_DATA_DIR", "./data")
		viper.SetDefault("REPORT_RESULTS_DIR", "./results")
		viper.SetDefault("REPORT_REGION", "US")
		viper.SetDefault("REPORT_TITLE_KEYWORD", "Border")
		viper.SetDefault("REPORT_PRICE_BAND_LOW", 17.0)
		viper.SetDefault("REPORT_PRICE_BAND_HIGH", 20.0)
		viper.SetDefault("REPORT_SHARE_PORT", "8003")
		viper.SetDefault("WMA_WEIGHT_M1", 3.0)
		viper.SetDefault("WMA_WEIGHT_M2", 2.0)
		viper.SetDefault("WMA_WEIGHT_M3", 1.0)
		viper.SetDefault("MIN_FORECAST_FLOOR_FRACTION", 0.05)
		setColumnDefaults()

		// Read from environment variables
		viper.AutomaticEnv()

		// Ensure data and results directories exist
		ensureDir(viper.GetString("REPORT_DATA_DIR"))
		ensureDir(viper.GetString("REPORT_RESULTS_DIR"))

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Database: DatabaseConfig{
				Host:     viper.GetString("DB_HOST"),
				Port:     viper.GetString("DB_PORT"),
				User:     viper.GetString("DB_USER"),
				Password: viper.GetString("DB_PASSWORD"),
				DBName:   viper.GetString("DB_NAME"),
				SSLMode:  viper.GetString("DB_SSLMODE"),
			},
			Cache: CacheConfig{
				Enabled:       viper.GetBool("CACHE_ENABLED"),
				RedisURL:      viper.GetString("REDIS_URL"),
				RedisHost:     viper.GetString("REDIS_HOST"),
				RedisPort:     viper.GetString("REDIS_PORT"),
				RedisPassword: viper.GetString("REDIS_PASSWORD"),
				RedisDB:       viper.GetInt("REDIS_DB"),
				TTLSeconds:    viper.GetInt("CACHE_TTL_SECONDS"),
			},
			Storage: StorageConfig{
				Endpoint:  viper.GetString("STORAGE_ENDPOINT"),
				AccessKey: viper.GetString("STORAGE_ACCESS_KEY"),
				SecretKey: viper.GetString("STORAGE_SECRET_KEY"),
				Bucket:    viper.GetString("STORAGE_BUCKET"),
				Region:    viper.GetString("STORAGE_REGION"),
				UseSSL:    viper.GetBool("STORAGE_USE_SSL"),
			},
			Sheets: SheetsConfig{
				SpreadsheetID:   viper.GetString("SHEETS_SPREADSHEET_ID"),
				WorksheetName:   viper.GetString("SHEETS_WORKSHEET_NAME"),
				CredentialsJSON: viper.GetString("GOOGLE_SHEETS_CREDENTIALS_JSON"),
			},
			Report: ReportConfig{
				ExportsDir:    viper.GetString("REPORT_EXPORTS_DIR"),
				DataDir:       viper.GetString("REPORT_DATA_DIR"),
				ResultsDir:    viper.GetString("REPORT_RESULTS_DIR"),
				Region:        viper.GetString("REPORT_REGION"),
				TitleKeyword:  viper.GetString("REPORT_TITLE_KEYWORD"),
				PriceBandLow:  viper.GetFloat64("REPORT_PRICE_BAND_LOW"),
				PriceBandHigh: viper.GetFloat64("REPORT_PRICE_BAND_HIGH"),
				SharePort:     viper.GetString("REPORT_SHARE_PORT"),
			},
			Forecast: ForecastConfig{
				WeightM1:      viper.GetFloat64("WMA_WEIGHT_M1"),
				WeightM2:      viper.GetFloat64("WMA_WEIGHT_M2"),
				WeightM3:      viper.GetFloat64("WMA_WEIGHT_M3"),
				FloorFraction: viper.GetFloat64("MIN_FORECAST_FLOOR_FRACTION"),
			},
			Columns: loadColumns(),
		}
	})

	return instance
}

func ensureDir(dir string) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}
}
