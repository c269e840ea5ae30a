package service

import (
	"testing"

	"authgate/internal/realm/models"
	"authgate/internal/realm/store"
)

func TestIsOriginAllowed(t *testing.T) {
	directory := New(store.NewInMemory())

	tests := []struct {
		name         string
		webOrigins   []string
		redirectURIs []string
		origin       string
		want         bool
	}{
		{
			name:       "wildcard allows any origin",
			webOrigins: []string{"*"},
			origin:     "https://evil.example.com",
			want:       true,
		},
		{
			name:       "exact web origin match",
			webOrigins: []string{"https://app.example.com"},
			origin:     "https://app.example.com",
			want:       true,
		},
		{
			name:       "web origin mismatch",
			webOrigins: []string{"https://app.example.com"},
			origin:     "https://other.example.com",
			want:       false,
		},
		{
			name:         "redirect URI authority prefix match",
			redirectURIs: []string{"https://app.example.com/oauth/callback"},
			origin:       "https://app.example.com",
			want:         true,
		},
		{
			name:         "redirect URI without path matches whole value",
			redirectURIs: []string{"https://app.example.com"},
			origin:       "https://app.example.com",
			want:         true,
		},
		{
			name:         "origin with path never matches",
			redirectURIs: []string{"https://app.example.com/cb"},
			origin:       "https://app.example.com/cb",
			want:         false,
		},
		{
			name:         "scheme must match",
			redirectURIs: []string{"https://app.example.com/cb"},
			origin:       "http://app.example.com",
			want:         false,
		},
		{
			name:         "port is part of the authority",
			redirectURIs: []string{"https://app.example.com:8443/cb"},
			origin:       "https://app.example.com",
			want:         false,
		},
		{
			name:       "empty origin is rejected",
			webOrigins: []string{"*"},
			origin:     "",
			want:       false,
		},
		{
			name:   "no registrations reject everything",
			origin: "https://app.example.com",
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &models.Client{
				ClientID:     "web",
				RealmName:    "acme",
				Enabled:      true,
				WebOrigins:   tt.webOrigins,
				RedirectURIs: tt.redirectURIs,
			}
			if got := directory.IsOriginAllowed(client, tt.origin); got != tt.want {
				t.Fatalf("IsOriginAllowed(%q) = %v, want %v", tt.origin, got, tt.want)
			}
		})
	}
}
