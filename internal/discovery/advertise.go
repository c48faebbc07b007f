package discovery

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/smartcalc/internal/logging"
)

// Advertisement is a live mDNS registration
type Advertisement struct {
	Instance string
	Port     int
	server   *zeroconf.Server
}

// Advertise registers instance on port as a smartcalc service until
// Shutdown is called. An empty instance defaults to the hostname.
func Advertise(instance string, port int, txt map[string]string) (*Advertisement, error) {
	if instance == "" {
		instance = DefaultInstance()
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("invalid port %d", port)
	}

	server, err := zeroconf.Register(instance, ServiceType, ServiceDomain, port, formatTXT(txt), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register mDNS service: %w", err)
	}

	logging.Info("Advertising over mDNS",
		zap.String("instance", instance),
		zap.String("service", ServiceType),
		zap.Int("port", port),
	)

	return &Advertisement{Instance: instance, Port: port, server: server}, nil
}

// Shutdown withdraws the registration
func (a *Advertisement) Shutdown() {
	if a == nil || a.server == nil {
		return
	}
	a.server.Shutdown()
	logging.Info("Stopped mDNS advertisement", zap.String("instance", a.Instance))
}

// DefaultInstance returns the instance name used when none is configured
func DefaultInstance() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		return "smartcalc"
	}
	// strip any domain
	host, _, _ = strings.Cut(host, ".")
	return "smartcalc-" + host
}

// formatTXT renders metadata as sorted "key=value" records
func formatTXT(txt map[string]string) []string {
	records := make([]string, 0, len(txt))
	for k, v := range txt {
		records = append(records, k+"="+v)
	}
	sort.Strings(records)
	return records
}
