package configs

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const MinJWTSecretLength = 32

type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"development"`
	Port   string `env:"APP_PORT" envDefault:"8080"`
	AppURL string `env:"APP_URL" envDefault:"http://localhost:8080"`

	DBDriver     string        `env:"DB_DRIVER" envDefault:"mysql"`
	DBHost       string        `env:"DB_HOST" envDefault:"127.0.0.1"`
	DBPort       string        `env:"DB_PORT" envDefault:"3306"`
	DBUser       string        `env:"DB_USER"`
	DBPassword   string        `env:"DB_PASSWORD"`
	DBName       string        `env:"DB_NAME"`
	DBSSLMode    string        `env:"DB_SSLMODE" envDefault:"disable"`
	DBMaxRetries int           `env:"DB_MAX_RETRIES" envDefault:"10"`
	DBRetryDelay time.Duration `env:"DB_RETRY_DELAY" envDefault:"5s"`

	AppAuthKey   string        `env:"APP_AUTH_KEY"`
	AppEncKey    string        `env:"APP_ENC_KEY"`
	CookieSecure bool          `env:"COOKIE_SECURE" envDefault:"false"`
	JWTSecret    string        `env:"JWT_SECRET"`
	SessionTTL   time.Duration `env:"SESSION_TTL" envDefault:"168h"`

	// ServiceRoleKey unlocks user administration. Leave empty to disable it.
	ServiceRoleKey string `env:"SERVICE_ROLE_KEY"`

	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile       string `env:"LOG_FILE" envDefault:"logs/app.log"`
	LogMaxSizeMB  int    `env:"LOG_MAX_SIZE_MB" envDefault:"50"`
	LogMaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"5"`
	LogMaxAgeDays int    `env:"LOG_MAX_AGE_DAYS" envDefault:"28"`
	LogConsole    bool   `env:"LOG_CONSOLE" envDefault:"true"`

	UploadsDir    string `env:"UPLOADS_DIR" envDefault:"./uploads"`
	UploadBucket  string `env:"UPLOAD_BUCKET" envDefault:"products"`
	MaxUploadMB   int64  `env:"MAX_UPLOAD_MB" envDefault:"5"`
	MaxImageWidth int    `env:"MAX_IMAGE_WIDTH" envDefault:"1600"`
}

func (c Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c Config) ServerAddr() string {
	return ":" + c.Port
}

// LoadEnv reads .env when present and parses the environment. It does not
// check secrets; servers call Validate before starting.
func LoadEnv() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("Warning: No .env file found")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	return cfg, nil
}

// Validate checks what the HTTP server needs: a supported driver, a strong
// enough JWT secret and decodable session keys.
func (c Config) Validate() error {
	if c.DBDriver != DriverMySQL && c.DBDriver != DriverPostgres {
		return fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverMySQL, DriverPostgres, c.DBDriver)
	}
	if len(c.JWTSecret) < MinJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d bytes long, got %d; generate one with the generate-keys command",
			MinJWTSecretLength, len(c.JWTSecret))
	}
	if _, err := c.SessionKeys(); err != nil {
		return err
	}
	return nil
}
