package db

import (
	"fmt"
	stdlog "log"
	"time"

	"orion-os/internal/config"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var AppDb *gorm.DB

// DSN builds the postgres connection string from the app config
func DSN(cfg config.Config) string {
	return fmt.Sprintf("host=%v user=%v password=%v dbname=%v port=%v sslmode=%v",
		cfg.DBHost,
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBName,
		cfg.DBPort,
		cfg.DBSSLMode,
	)
}

// Open opens a gorm connection with the SQL logger routed through zerolog
func Open(dsn string, production bool) (*gorm.DB, error) {
	level := logger.Info
	if production {
		level = logger.Error
	}
	newLogger := logger.New(
		stdlog.New(log.Logger, "", 0), // io writer
		logger.Config{
			SlowThreshold:             time.Second, // Slow SQL threshold
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	return gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         newLogger,
		TranslateError: true,
	})
}

func ConnectDb() error {
	db, err := Open(DSN(config.AppConfig), config.AppConfig.IsProduction())
	if err != nil {
		return fmt.Errorf("error connecting to db: %w", err)
	}
	AppDb = db
	log.Info().Msg("Success connecting to db")

	return nil
}

func CloseDb() {
	if AppDb == nil {
		return
	}
	sqlDB, err := AppDb.DB()
	if err != nil {
		log.Error().Err(err).Msg("failed to get sql db handle")
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close db")
		return
	}
	log.Info().Msg("Closing DB")
}
