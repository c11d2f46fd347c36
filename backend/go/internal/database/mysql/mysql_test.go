package mysql

import (
	"testing"

	"VectorConsole/backend/go/internal/config"
)

func TestDSN(t *testing.T) {
	got := DSN(&config.MySQLConfig{Address: "db:3306", Username: "console", Password: "secret", Database: "vectors"})
	want := "console:secret@tcp(db:3306)/vectors?charset=utf8mb4&parseTime=True&loc=UTC"
	if got != want {
		t.Errorf("DSN() = %s, want %s", got, want)
	}
}
