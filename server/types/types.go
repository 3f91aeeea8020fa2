// Package types provides shared types for the server package and its subpackages.
package types

import (
	"os"
	"time"

	"github.com/dnsco/potential/buildinfo"
)

// ServerProperties holds metadata about the running server instance.
type ServerProperties struct {
	Build     buildinfo.Properties `json:"build"`
	StartedAt time.Time            `json:"started_at"`
	Hostname  string               `json:"hostname"`
}

// NewServerProperties describes a server starting now on this host.
func NewServerProperties() ServerProperties {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	return ServerProperties{
		Build:     buildinfo.Get(),
		StartedAt: time.Now(),
		Hostname:  hostname,
	}
}
