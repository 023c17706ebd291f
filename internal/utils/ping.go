package utils

import (
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"
)

// PingService checks if a service is reachable at the given URL or host:port address
func PingService(service string, timeout time.Duration) error {
	address, err := dialAddress(service)
	if err != nil {
		return err
	}

	conn, err := net.DialTimeout("tcp", address, timeout)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", address, err)
	}
	defer conn.Close()

	return nil
}

// dialAddress accepts "host:port" or a URL, defaulting the port from the scheme
func dialAddress(service string) (string, error) {
	if !strings.Contains(service, "://") {
		if _, _, err := net.SplitHostPort(service); err != nil {
			return "", fmt.Errorf("invalid address %q: %w", service, err)
		}
		return service, nil
	}

	parsedURL, err := url.Parse(service)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}
	if parsedURL.Hostname() == "" {
		return "", fmt.Errorf("invalid address %q", service)
	}

	port := parsedURL.Port()
	if port == "" {
		switch parsedURL.Scheme {
		case "https":
			port = "443"
		default:
			port = "80"
		}
	}

	return net.JoinHostPort(parsedURL.Hostname(), port), nil
}

// PingDatabase checks that a network database server accepts connections
func PingDatabase(host, port string) error {
	return PingService(net.JoinHostPort(host, port), 1500*time.Millisecond)
}
