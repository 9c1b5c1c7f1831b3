package config

import "fmt"

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// DefaultDatabase returns local development connection settings (disabled).
func DefaultDatabase() DatabaseConfig {
	return DatabaseConfig{
		Host:     "127.0.0.1",
		Port:     5432,
		User:     "voxnav",
		Password: "voxnav",
		DBName:   "voxnav",
		SSLMode:  "disable",
	}
}
