package configs

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

func (c Config) DSN() string {
	if c.DBDriver == DriverPostgres {
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
			c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode)
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

func (c Config) dialector() gorm.Dialector {
	if c.DBDriver == DriverPostgres {
		return postgres.Open(c.DSN())
	}
	return mysql.Open(c.DSN())
}

func gormLogger(cfg Config) logger.Interface {
	level := logger.Warn
	if cfg.IsDevelopment() {
		level = logger.Info
	}
	return logger.New(zap.NewStdLog(zap.L().Named("gorm")), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}

// OpenConnection connects to the configured database, retrying while it
// comes up. Unique violations are translated to gorm.ErrDuplicatedKey.
func OpenConnection(cfg Config) (*gorm.DB, error) {
	log := zap.S()
	var lastErr error

	for i := 0; i < cfg.DBMaxRetries; i++ {
		log.Infof("Attempting to connect to %s database %s@%s:%s (attempt %d/%d)",
			cfg.DBDriver, cfg.DBName, cfg.DBHost, cfg.DBPort, i+1, cfg.DBMaxRetries)

		db, err := gorm.Open(cfg.dialector(), &gorm.Config{
			TranslateError: true,
			Logger:         gormLogger(cfg),
		})
		if err == nil {
			sqlDB, pingErr := db.DB()
			if pingErr == nil {
				pingErr = sqlDB.Ping()
				if pingErr == nil {
					sqlDB.SetMaxOpenConns(25)
					sqlDB.SetMaxIdleConns(5)
					sqlDB.SetConnMaxLifetime(time.Hour)
					log.Info("Database connection successful")
					return db, nil
				}
			}
			lastErr = pingErr
			log.Warnf("Failed to ping database: %v. Retrying in %v...", pingErr, cfg.DBRetryDelay)
		} else {
			lastErr = err
			log.Warnf("Failed to open GORM connection: %v. Retrying in %v...", err, cfg.DBRetryDelay)
		}

		time.Sleep(cfg.DBRetryDelay)
	}

	return nil, fmt.Errorf("failed to connect to the database after %d retries: %w", cfg.DBMaxRetries, lastErr)
}
