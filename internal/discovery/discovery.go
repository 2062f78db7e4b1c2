// Package discovery advertises a running sample's status page over mDNS.
package discovery

import (
	"fmt"
	"os"
	"strconv"

	"github.com/enbility/zeroconf/v3"

	"github.com/sweeney/board-samples/internal/logic"
)

// Service parameters.
const (
	ServiceType = "_board-samples._tcp"
	Domain      = "local."

	// MaxInstanceNameLen is the DNS-SD limit on an instance label.
	MaxInstanceNameLen = 63
)

// Info describes the sample being advertised.
type Info struct {
	Kind     logic.Kind
	Pin      int
	Board    string
	Hostname string // defaults to os.Hostname
	Port     int
}

// InstanceName returns "<host>-<kind>-<pin>", truncated to MaxInstanceNameLen.
func InstanceName(info Info) string {
	name := fmt.Sprintf("%s-%s-%d", info.Hostname, info.Kind, info.Pin)
	if len(name) > MaxInstanceNameLen {
		name = name[:MaxInstanceNameLen]
	}
	return name
}

// TXT returns the TXT records for info.
func TXT(info Info) []string {
	return []string{
		"kind=" + string(info.Kind),
		"pin=" + strconv.Itoa(info.Pin),
		"board=" + info.Board,
		"path=/index.json",
	}
}

// Advertiser holds a registered mDNS service.
type Advertiser struct {
	server *zeroconf.Server
}

// Advertise registers the service on all interfaces.
func Advertise(info Info) (*Advertiser, error) {
	if info.Hostname == "" {
		h, err := os.Hostname()
		if err != nil {
			return nil, fmt.Errorf("get hostname: %w", err)
		}
		info.Hostname = h
	}

	server, err := zeroconf.Register(InstanceName(info), ServiceType, Domain, info.Port, TXT(info), nil)
	if err != nil {
		return nil, fmt.Errorf("register mdns service: %w", err)
	}
	return &Advertiser{server: server}, nil
}

// Shutdown withdraws the service.
func (a *Advertiser) Shutdown() {
	if a.server != nil {
		a.server.Shutdown()
		a.server = nil
	}
}
