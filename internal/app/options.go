// Package app holds the wiring shared by the sample commands: flags, board
// resolution, signal handling and the optional MQTT, HTTP and mDNS services.
package app

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/sweeney/board-samples/internal/board"
	"github.com/sweeney/board-samples/internal/mqtt"
)

// Options are the flags every sample command accepts.
type Options struct {
	Board     string
	BoardFile string
	Pin       int // negative means the board default
	Driver    string
	Broker    string // empty disables MQTT
	Format    string
	HTTPAddr  string // empty disables the status page
	MDNS      bool
	MaxFaults int
	Heartbeat time.Duration
}

// RegisterFlags defines the common flags on fs. defaultDriver is the device
// backend the command uses unless -driver is given.
func RegisterFlags(fs *flag.FlagSet, defaultDriver string) *Options {
	o := &Options{}
	fs.StringVar(&o.Board, "board", board.DefaultName, "Board profile ("+strings.Join(board.Names(), ", ")+")")
	fs.StringVar(&o.BoardFile, "board-file", "", "YAML file with extra board profiles")
	fs.IntVar(&o.Pin, "pin", -1, "Pin override (negative uses the board profile)")
	fs.StringVar(&o.Driver, "driver", defaultDriver, "Device backend")
	fs.StringVar(&o.Broker, "broker", "", "MQTT broker address, e.g. tcp://192.168.1.200:1883 (empty to disable)")
	fs.StringVar(&o.Format, "format", string(mqtt.EncodingJSON), "MQTT reading payload encoding (json or cbor)")
	fs.StringVar(&o.HTTPAddr, "http", "", "HTTP status address, e.g. :8080 (empty to disable)")
	fs.BoolVar(&o.MDNS, "mdns", false, "Advertise the HTTP status page over mDNS")
	fs.IntVar(&o.MaxFaults, "max-faults", 10, "Stop after this many consecutive transient faults (0 for never)")
	fs.DurationVar(&o.Heartbeat, "heartbeat", 15*time.Minute, "MQTT heartbeat interval (0 to disable)")
	return o
}

// Profile resolves the selected board and logs a warning when not running as
// root.
func (o *Options) Profile() (board.Profile, error) {
	p, err := board.Resolve(o.Board, o.BoardFile)
	if err != nil {
		return board.Profile{}, fmt.Errorf("resolve board: %w", err)
	}
	if w := board.RootWarning(os.Geteuid()); w != "" {
		log.Print(w)
	}
	return p, nil
}

// PinOr returns the -pin override, or def when none was given.
func (o *Options) PinOr(def int) int {
	if o.Pin >= 0 {
		return o.Pin
	}
	return def
}
