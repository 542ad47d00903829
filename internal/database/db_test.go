package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// The connection must request found-rows semantics: repeating an
// identical PATCH against a live row within the same second would
// otherwise report zero affected rows and be mistaken for a lost race.
func TestDSNRequestsFoundRows(t *testing.T) {
	got := dsn("app", "secret", "db", "3306", "catalog")
	assert.Equal(t,
		"app:secret@tcp(db:3306)/catalog?charset=utf8mb4&parseTime=true&loc=UTC&clientFoundRows=true",
		got)
}

func TestDSNOmitsEmptyPassword(t *testing.T) {
	got := dsn("app", "", "localhost", "3306", "catalog")
	assert.Equal(t,
		"app@tcp(localhost:3306)/catalog?charset=utf8mb4&parseTime=true&loc=UTC&clientFoundRows=true",
		got)
}
