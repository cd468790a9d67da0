package config

import (
	"os"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() {
	dsn := os.Getenv("DB_URL")

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		panic("Failed to connect database")
	}

	DB = db
}

// IsDBUnavailable reports whether err looks like a datastore connectivity
// failure rather than a query error, so handlers can answer 503 with
// code DATABASE_UNAVAILABLE and let clients fall back to their cache.
func IsDBUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if err == gorm.ErrInvalidDB {
		return true
	}
	msg := err.Error()
	for _, marker := range []string{
		"connection refused",
		"connection reset",
		"broken pipe",
		"no such host",
		"i/o timeout",
		"the database system is starting up",
		"database is closed",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
