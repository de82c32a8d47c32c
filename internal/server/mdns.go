package server

import (
	"fmt"
	"net"
	"os"

	"github.com/hashicorp/mdns"
)

// ServiceType is the mDNS service pixed servers announce.
const ServiceType = "_pixed._tcp"

// Advertiser announces a listening server on the local network.
type Advertiser struct {
	server *mdns.Server
}

// Advertise announces a server on port. instance defaults to the hostname.
func Advertise(instance string, port int) (*Advertiser, error) {
	service, err := NewService(instance, port, nil)
	if err != nil {
		return nil, err
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("failed to start mDNS server: %w", err)
	}
	return &Advertiser{server: server}, nil
}

// NewService builds the mDNS zone for a server on port. Nil ips are looked
// up from the hostname.
func NewService(instance string, port int, ips []net.IP) (*mdns.MDNSService, error) {
	if instance == "" {
		host, err := os.Hostname()
		if err != nil {
			return nil, fmt.Errorf("could not get hostname: %w", err)
		}
		instance = host
	}

	info := []string{"pixed", "path=" + DefaultPath}
	service, err := mdns.NewMDNSService(instance, ServiceType, "", "", port, ips, info)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS service: %w", err)
	}
	return service, nil
}

// Close stops the announcement.
func (a *Advertiser) Close() error {
	if a == nil || a.server == nil {
		return nil
	}
	return a.server.Shutdown()
}
