package db

import (
	"database/sql"
	"fmt"

	"Tuder/config"
	"Tuder/logger"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
)

// EnsureDatabase creates the configured schema when it does not exist yet.
// It connects without a database name, so it must run before ConnectGormDB.
func EnsureDatabase(cfg *config.Config) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/?parseTime=true",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort)

	conn, err := sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}
	defer conn.Close()

	if err = conn.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	query := fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s` CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci", cfg.DBName)
	if _, err := conn.Exec(query); err != nil {
		return fmt.Errorf("failed to create database %s: %w", cfg.DBName, err)
	}

	logger.Info("Database ensured", logger.String("database", cfg.DBName))
	return nil
}
