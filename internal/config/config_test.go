package config

import (
	"testing"
	"time"
)

func TestCacheTTL(t *testing.T) {
	cases := []struct {
		name string
		ttl  string
		want time.Duration
	}{
		{"valid duration", "5m", 5 * time.Minute},
		{"empty falls back", "", 15 * time.Minute},
		{"garbage falls back", "soon", 15 * time.Minute},
		{"negative falls back", "-1m", 15 * time.Minute},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := Cache{TTL: tc.ttl}
			if got := c.CacheTTL(); got != tc.want {
				t.Errorf("CacheTTL(%q) = %v, want %v", tc.ttl, got, tc.want)
			}
		})
	}
}
