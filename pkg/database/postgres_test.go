package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/offline-learning-api/pkg/config"
)

func TestDSN(t *testing.T) {
	cfg := config.DatabaseConfig{Host: "db", Port: 5432, User: "app", Password: "pw", Name: "learning", SSLMode: "disable"}

	cfg.Driver = config.DriverPostgres
	assert.Equal(t, "host=db port=5432 user=app password=pw dbname=learning sslmode=disable", DSN(cfg))

	cfg.Driver = config.DriverPgx
	assert.Equal(t, "postgres://app:pw@db:5432/learning?sslmode=disable", DSN(cfg))
}
