// internal/config/database_test.go
package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:           "db.internal",
		Port:           "5433",
		User:           "forge",
		Password:       "hunter2",
		Database:       "solaforge",
		SSLMode:        "require",
		ConnectTimeout: 10,
	}

	assert.Equal(t,
		"host=db.internal port=5433 user=forge password=hunter2 dbname=solaforge sslmode=require connect_timeout=10",
		cfg.DSN())
}
