package transport

import (
	"context"
	"net"
	"strconv"
)

const (
	MinPort = 1
	MaxPort = 65535
)

// Server is a long-running transport endpoint.
type Server interface {
	// Run starts the server and blocks until it stops.
	Run() error
	// Shutdown gracefully shuts down the server.
	Shutdown(context.Context) error
}

// ValidateAddress reports whether addr is a usable host:port listen address.
func ValidateAddress(addr string) bool {
	if addr == "" {
		return false
	}

	host, port, err := net.SplitHostPort(addr)
	if err != nil || port == "" {
		return false
	}

	if host != "" && !isValidHost(host) {
		return false
	}

	p, err := strconv.Atoi(port)
	if err != nil {
		return false
	}

	return p >= MinPort && p <= MaxPort
}

func isValidHost(host string) bool {
	if ip := net.ParseIP(host); ip != nil {
		return true
	}

	if len(host) == 0 || len(host) > 253 {
		return false
	}

	for i, r := range host {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '.' || r == '-') {
			return false
		}
		if (i == 0 || i == len(host)-1) && r == '-' {
			return false
		}
	}

	return true
}
