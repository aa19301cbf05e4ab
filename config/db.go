package config

import (
	"database/sql"
	"time"

	// Register the postgres driver
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// NewPostgresDB creates a new sql.DB based on the POSTGRES_DSN environment variable.
func NewPostgresDB(dsn string, logger *zap.Logger) (*sql.DB, func(), error) {
	postgresDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, nil, err
	}

	// Ensure we are connected
	for i := 0; ; i++ {
		err := postgresDB.Ping()
		if err == nil {
			break
		}

		if i > 5 {
			return nil, nil, err
		}
		logger.With(zap.Error(err)).Warn("failed to ping db waiting to try again")
		time.Sleep(time.Second)
	}

	postgresDBCloser := func() {
		if err := postgresDB.Close(); err != nil {
			logger.With(zap.Error(err)).Warn("postgresDB.Close return an error")
		}
	}

	return postgresDB, postgresDBCloser, nil
}

// SetupDB creates the needed tables for the application
func SetupDB(postgresDB *sql.DB, schema []string, logger *zap.Logger) error {
	for _, query := range schema {
		if _, err := postgresDB.Exec(query); err != nil {
			logger.With(zap.Error(err), zap.String("query", query)).Error("failed to execute query")
			return err
		}
	}

	return nil
}
