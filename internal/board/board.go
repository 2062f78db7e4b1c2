// Package board holds per-board pin assignments for the samples.
//
// The same sample runs on several boards whose headers number pins
// differently. A profile names the pin each sample uses on one board; profiles
// are compiled in and can be extended or overridden from a YAML file.
package board

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// GrovePiOffset is added to shield pin numbers when a GrovePi+ shield is
// attached as a subplatform.
const GrovePiOffset = 512

// DefaultName is the profile used when none is selected.
const DefaultName = "generic"

// Profile is the set of pins used by the samples on one board.
type Profile struct {
	Name    string `yaml:"-"`
	Chip    string `yaml:"chip"`     // GPIO character device, e.g. gpiochip0
	IIO     int    `yaml:"iio"`      // industrial-I/O device index for the ADC
	AIO     int    `yaml:"aio"`      // ADC channel
	ADCBits int    `yaml:"adc_bits"` // converter resolution
	GPIOIn  int    `yaml:"gpio_in"`  // line for the digital input sample
	GPIOOut int    `yaml:"gpio_out"` // line for the blinker
	PWMChip int    `yaml:"pwm_chip"`
	PWM     int    `yaml:"pwm"` // PWM channel on PWMChip
}

var builtin = map[string]Profile{
	DefaultName: {
		Chip: "gpiochip0", AIO: 2, ADCBits: 10, GPIOIn: 13, GPIOOut: 13, PWM: 3,
	},
	"joule": {
		Chip: "gpiochip0", AIO: 2, ADCBits: 10, GPIOIn: 101, GPIOOut: 101, PWM: 3,
	},
	// Same numbering for Minnowboard Turbot.
	"minnowboard": {
		Chip: "gpiochip0", AIO: 2, ADCBits: 10, GPIOIn: 104, GPIOOut: 104, PWM: 3,
	},
	"iei-tank": {
		Chip: "gpiochip0", AIO: 2, ADCBits: 10, GPIOIn: 0, GPIOOut: 0, PWM: 3,
	},
	// UP Squared with a GrovePi+ shield: D4 for digital, D5 for PWM.
	"up2-grovepi": {
		Chip: "gpiochip0", AIO: 2, ADCBits: 10,
		GPIOIn: 4 + GrovePiOffset, GPIOOut: 4 + GrovePiOffset, PWM: 5 + GrovePiOffset,
	},
}

// Names returns the built-in profile names, sorted.
func Names() []string {
	names := make([]string, 0, len(builtin))
	for n := range builtin {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Lookup returns a built-in profile.
func Lookup(name string) (Profile, error) {
	p, ok := builtin[name]
	if !ok {
		return Profile{}, fmt.Errorf("unknown board %q (known: %v)", name, Names())
	}
	p.Name = name
	return p, nil
}

// file is the on-disk layout of a profile file.
type file struct {
	Boards map[string]yaml.Node `yaml:"boards"`
}

// LoadFile reads profiles from a YAML file of the form
//
//	boards:
//	  myboard:
//	    gpio_in: 21
//	    pwm: 0
//
// Fields left out inherit from the built-in profile of the same name, or from
// the generic profile for new names.
func LoadFile(path string) (map[string]Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read board file: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (map[string]Profile, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse board file: %w", err)
	}

	out := make(map[string]Profile, len(f.Boards))
	for name, node := range f.Boards {
		base, ok := builtin[name]
		if !ok {
			base = builtin[DefaultName]
		}
		p := base
		if err := node.Decode(&p); err != nil {
			return nil, fmt.Errorf("board %q: %w", name, err)
		}
		p.Name = name
		if err := p.validate(); err != nil {
			return nil, fmt.Errorf("board %q: %w", name, err)
		}
		out[name] = p
	}
	return out, nil
}

// Resolve returns the named profile, looking in the optional file first.
func Resolve(name, path string) (Profile, error) {
	if name == "" {
		name = DefaultName
	}
	if path != "" {
		profiles, err := LoadFile(path)
		if err != nil {
			return Profile{}, err
		}
		if p, ok := profiles[name]; ok {
			return p, nil
		}
	}
	return Lookup(name)
}

func (p Profile) validate() error {
	if p.Chip == "" {
		return fmt.Errorf("chip must not be empty")
	}
	if p.ADCBits < 1 || p.ADCBits > 31 {
		return fmt.Errorf("adc_bits %d out of range 1..31", p.ADCBits)
	}
	for _, v := range []struct {
		field string
		n     int
	}{
		{"iio", p.IIO}, {"aio", p.AIO}, {"gpio_in", p.GPIOIn},
		{"gpio_out", p.GPIOOut}, {"pwm_chip", p.PWMChip}, {"pwm", p.PWM},
	} {
		if v.n < 0 {
			return fmt.Errorf("%s must not be negative", v.field)
		}
	}
	return nil
}

// RootWarning returns a warning when the process is not running as root,
// since sysfs and character device access usually needs it. It returns ""
// for root.
func RootWarning(euid int) string {
	if euid == 0 {
		return ""
	}
	return "board: not running as root; pin access may fail without the right device permissions"
}
