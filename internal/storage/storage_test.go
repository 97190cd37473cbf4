package storage

import (
	"context"
	"testing"

	"courseapp/internal/config"

	"github.com/rs/zerolog"
)

func TestOpenMemory(t *testing.T) {
	store, err := Open(context.Background(), &config.Config{StoreDriver: config.DriverMemory}, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	if store.Driver != config.DriverMemory {
		t.Fatalf("unexpected driver %q", store.Driver)
	}
	courses, err := store.Courses.ListCourses(context.Background())
	if err != nil || len(courses) != 0 {
		t.Fatalf("expected empty store, got %v, %v", courses, err)
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), &config.Config{StoreDriver: "sqlite"}, zerolog.Nop()); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestOpenPostgresBadDSN(t *testing.T) {
	cfg := &config.Config{StoreDriver: config.DriverPostgres, DBConnectionString: "postgres://%zz"}
	if _, err := Open(context.Background(), cfg, zerolog.Nop()); err == nil {
		t.Fatal("expected error for malformed connection string")
	}
}

func TestNormalizeDSN(t *testing.T) {
	tests := []struct {
		env, dsn, want string
	}{
		{"development", "postgres://u:p@localhost:5432/app", "postgres://u:p@localhost:5432/app?sslmode=disable"},
		{"development", "postgres://u:p@localhost:5432/app?pool_max_conns=5", "postgres://u:p@localhost:5432/app?pool_max_conns=5&sslmode=disable"},
		{"development", "host=localhost dbname=app", "host=localhost dbname=app sslmode=disable"},
		{"development", "postgres://localhost/app?sslmode=require", "postgres://localhost/app?sslmode=require"},
		{"production", "postgres://localhost/app", "postgres://localhost/app"},
	}
	for _, tt := range tests {
		if got := normalizeDSN(tt.env, tt.dsn); got != tt.want {
			t.Errorf("normalizeDSN(%q, %q) = %q, want %q", tt.env, tt.dsn, got, tt.want)
		}
	}
}
