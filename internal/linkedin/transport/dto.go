// Package transport defines request and response DTOs for the LinkedIn
// session HTTP API.
package transport

import "time"

// ConnectRequest starts an interactive login. The key selects which stored
// session to (re)establish; omitted means the default session.
type ConnectRequest struct {
	SessionKey string `json:"sessionKey" validate:"omitempty,max=64"`
}

type ConnectResponse struct {
	SessionKey string    `json:"sessionKey"`
	Connected  bool      `json:"connected"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

type StatusResponse struct {
	SessionKey string     `json:"sessionKey"`
	Connected  bool       `json:"connected"`
	State      string     `json:"state"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
	LastUsedAt *time.Time `json:"lastUsedAt,omitempty"`
}
