package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fleetstat/fleetstat/internal/errors"
)

// Endpoint identifies one remote machine to poll. Immutable once parsed.
type Endpoint struct {
	Hostname string
	Port     int
}

// Addr returns the host:port string for dialing.
func (e Endpoint) Addr() string {
	return fmt.Sprintf("%s:%d", e.Hostname, e.Port)
}

// String returns the endpoint in the HOSTNAME[:PORT] input form, omitting
// the port when it matches the given default.
func (e Endpoint) String() string {
	return e.Addr()
}

// ParseEndpoint parses a HOSTNAME[:PORT] connection string. A missing port
// falls back to defaultPort. Optional user@ prefixes are passed through as
// part of the hostname and resolved by the SSH layer.
func ParseEndpoint(s string, defaultPort int) (Endpoint, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Endpoint{}, errors.New(errors.ErrConfig,
			"Empty host entry",
			"Each host must be HOSTNAME or HOSTNAME:PORT")
	}

	host := s
	port := defaultPort

	if idx := strings.LastIndex(s, ":"); idx != -1 {
		p, err := strconv.Atoi(s[idx+1:])
		if err != nil {
			return Endpoint{}, errors.WrapWithCode(err, errors.ErrConfig,
				fmt.Sprintf("Invalid port in host entry '%s'", s),
				"Use HOSTNAME:PORT with a numeric port, e.g. gpu1:2222")
		}
		host = s[:idx]
		port = p
	}

	if host == "" {
		return Endpoint{}, errors.New(errors.ErrConfig,
			fmt.Sprintf("Missing hostname in host entry '%s'", s),
			"Use HOSTNAME or HOSTNAME:PORT")
	}
	if port < 1 || port > 65535 {
		return Endpoint{}, errors.New(errors.ErrConfig,
			fmt.Sprintf("Port %d out of range in host entry '%s'", port, s),
			"Ports must be between 1 and 65535")
	}

	return Endpoint{Hostname: host, Port: port}, nil
}

// ParseEndpoints parses all host entries, preserving their order.
func ParseEndpoints(hosts []string, defaultPort int) ([]Endpoint, error) {
	endpoints := make([]Endpoint, 0, len(hosts))
	for _, h := range hosts {
		ep, err := ParseEndpoint(h, defaultPort)
		if err != nil {
			return nil, err
		}
		endpoints = append(endpoints, ep)
	}
	return endpoints, nil
}
