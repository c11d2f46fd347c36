package redis

import (
	"testing"
	"time"

	"VectorConsole/backend/go/internal/config"
)

func TestNamespace(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", DefaultNamespace},
		{"   ", DefaultNamespace},
		{"console:folders:", "console:folders:"},
		{"tenant-a:folders", "tenant-a:folders:"},
	}
	for _, tt := range tests {
		if got := Namespace(tt.in); got != tt.want {
			t.Errorf("Namespace(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestOptions(t *testing.T) {
	opts := Options(&config.RedisConfig{Address: "cache:6379", Password: "secret", DB: 2})
	if opts.Addr != "cache:6379" || opts.Password != "secret" || opts.DB != 2 {
		t.Errorf("unexpected connection settings %+v", opts)
	}
	if opts.ReadTimeout != 2*time.Second || opts.WriteTimeout != 2*time.Second {
		t.Errorf("expected short read/write timeouts, got %s/%s", opts.ReadTimeout, opts.WriteTimeout)
	}
}
