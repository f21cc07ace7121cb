package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/ensalamento-api/pkg/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{Host: "db", Port: 5433, User: "app", Password: "s3cret", Name: "ensalamento", SSLMode: "require"})
	assert.Equal(t, "host=db port=5433 user=app password=s3cret dbname=ensalamento sslmode=require", dsn)
}
