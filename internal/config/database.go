// internal/config/database.go
package config

import (
	"fmt"
)

// DSN builds the postgres connection string. ConnectTimeout bounds the
// initial dial so a down database fails fast instead of hanging startup.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s connect_timeout=%d",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode, d.ConnectTimeout,
	)
}
