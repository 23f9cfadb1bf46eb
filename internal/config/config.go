package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const defaultConfigPath = "./config/local.yaml"

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"

	PolicyFallback = "fallback"
	PolicyReject   = "reject"

	ShapingAuto     = "auto"
	ShapingFull     = "full"
	ShapingFallback = "fallback"
)

type Config struct {
	Env      string `yaml:"env" env:"PAYROLL_ENV" env-default:"local"`
	ErrorLog string `yaml:"error_log" env:"PAYROLL_ERROR_LOG" env-default:"errors.log"`
	Storage  `yaml:"storage"`
	Rates    `yaml:"rates"`
	Report   `yaml:"report"`
}

type Storage struct {
	Driver       string `yaml:"driver" env:"PAYROLL_DB_DRIVER" env-default:"sqlite"`
	Path         string `yaml:"path" env:"PAYROLL_DB_PATH" env-default:"data/payroll.db"`
	DBUser       string `yaml:"db_user" env:"PAYROLL_DB_USER"`
	DBPassword   string `yaml:"db_password" env:"PAYROLL_DB_PASSWORD"`
	DBHost       string `yaml:"db_host" env:"PAYROLL_DB_HOST" env-default:"localhost"`
	DBPort       int    `yaml:"db_port" env:"PAYROLL_DB_PORT" env-default:"3306"`
	DBName       string `yaml:"db_name" env:"PAYROLL_DB_NAME" env-default:"payroll"`
	MaxIdleConns int    `yaml:"max_idle_conns" env:"PAYROLL_DB_MAX_IDLE" env-default:"0"`
}

type Rates struct {
	FallbackSalary    string `yaml:"fallback_salary" env:"PAYROLL_FALLBACK_SALARY" env-default:"5000"`
	MissingRatePolicy string `yaml:"missing_rate_policy" env:"PAYROLL_MISSING_RATE_POLICY" env-default:"fallback"`
}

type Report struct {
	Dir      string `yaml:"dir" env:"PAYROLL_REPORT_DIR" env-default:"reports"`
	Format   string `yaml:"format" env:"PAYROLL_REPORT_FORMAT" env-default:"pdf"`
	Shaping  string `yaml:"shaping" env:"PAYROLL_SHAPING" env-default:"auto"`
	FontPath string `yaml:"font_path" env:"PAYROLL_FONT_PATH"`
}

// FallbackAmount is the flat salary substituted for workers without a rate
// when the fallback policy is active, rounded to cents. Validate rejects
// values that do not parse.
func (r Rates) FallbackAmount() decimal.Decimal {
	amount, err := decimal.NewFromString(strings.TrimSpace(r.FallbackSalary))
	if err != nil {
		return decimal.Zero
	}
	return amount.Round(2)
}

func MustConfig() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}

	return cfg
}

// Load reads CONFIG_PATH (or ./config/local.yaml when present) and applies
// environment overrides. Without a file only the environment is read.
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	var cfg Config

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		if _, err := os.Stat(defaultConfigPath); err == nil {
			configPath = defaultConfigPath
		}
	}

	if configPath != "" {
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			return nil, fmt.Errorf("config %s: %w", configPath, err)
		}
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config from env: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverSQLite:
		if c.Storage.Path == "" {
			return errors.New("storage.path is required for sqlite")
		}
	case DriverMySQL:
		if c.Storage.DBUser == "" || c.Storage.DBName == "" {
			return errors.New("storage.db_user and storage.db_name are required for mysql")
		}
	default:
		return fmt.Errorf("unknown storage.driver %q", c.Storage.Driver)
	}

	if _, err := decimal.NewFromString(strings.TrimSpace(c.Rates.FallbackSalary)); err != nil {
		return fmt.Errorf("rates.fallback_salary %q is not a number", c.Rates.FallbackSalary)
	}

	switch c.Rates.MissingRatePolicy {
	case PolicyFallback, PolicyReject:
	default:
		return fmt.Errorf("unknown rates.missing_rate_policy %q", c.Rates.MissingRatePolicy)
	}

	switch c.Report.Shaping {
	case ShapingAuto, ShapingFull, ShapingFallback:
	default:
		return fmt.Errorf("unknown report.shaping %q", c.Report.Shaping)
	}

	switch c.Report.Format {
	case "pdf", "xlsx":
	default:
		return fmt.Errorf("unknown report.format %q", c.Report.Format)
	}

	return nil
}
