package discovery

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Server is a smartcalc server found on the network
type Server struct {
	// Instance is the advertised instance name (e.g., "kitchen")
	Instance string `json:"instance"`

	// Host is the mDNS hostname (e.g., "kitchen-pc.local.")
	Host string `json:"host"`

	// IP is the preferred address, IPv4 when available
	IP string `json:"ip"`

	Port int `json:"port"`

	// Metadata holds the TXT record, e.g. "version" and "path"
	Metadata map[string]string `json:"metadata,omitempty"`

	DiscoveredAt time.Time `json:"discovered_at"`
}

// String returns a human-readable string representation of the server
func (s *Server) String() string {
	return fmt.Sprintf("smartcalc %q at %s", s.Instance, s.Addr())
}

// Addr returns host:port, bracketing IPv6 addresses
func (s *Server) Addr() string {
	return net.JoinHostPort(s.IP, strconv.Itoa(s.Port))
}

// URL returns the HTTP base URL of the server
func (s *Server) URL() string {
	return "http://" + s.Addr() + s.path()
}

// WebSocketURL returns the calculator session endpoint
func (s *Server) WebSocketURL() string {
	return "ws://" + s.Addr() + "/ws"
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (s *Server) GetMetadata(key string) string {
	if s.Metadata == nil {
		return ""
	}
	return s.Metadata[key]
}

func (s *Server) path() string {
	if p := s.GetMetadata("path"); p != "" {
		return p
	}
	return "/"
}
