package analog

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"periph.io/x/conn/v3/analog"

	"github.com/sweeney/board-samples/internal/hwerr"
)

// DefaultIIORoot is where the kernel exposes industrial-I/O devices.
const DefaultIIORoot = "/sys/bus/iio/devices"

// IIOPin reads a voltage channel of a Linux industrial-I/O device through sysfs.
type IIOPin struct {
	dev     string
	channel int
	rawPath string
	bits    int
	scaleMV float64
	closed  bool
}

var _ analog.PinADC = (*IIOPin)(nil)

// NewIIOPin opens channel of iio:device<device> under root. bits is the
// converter resolution used for Range and range checks.
//
// The scale (millivolts per count) is taken from in_voltage<N>_scale or the
// shared in_voltage_scale; without either, samples carry only Raw.
func NewIIOPin(root string, device, channel, bits int) (*IIOPin, error) {
	if bits < 1 || bits > 31 {
		return nil, hwerr.Wrap("open adc", channel, fmt.Errorf("resolution %d bits: %w", bits, hwerr.ErrOutOfRange))
	}
	dev := filepath.Join(root, fmt.Sprintf("iio:device%d", device))
	p := &IIOPin{
		dev:     dev,
		channel: channel,
		rawPath: filepath.Join(dev, fmt.Sprintf("in_voltage%d_raw", channel)),
		bits:    bits,
	}
	if _, err := os.Stat(p.rawPath); err != nil {
		return nil, hwerr.Wrap("open adc", channel, err)
	}

	for _, name := range []string{fmt.Sprintf("in_voltage%d_scale", channel), "in_voltage_scale"} {
		s, err := readAttr(filepath.Join(dev, name))
		if err != nil {
			continue
		}
		scale, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, hwerr.Wrap("open adc", channel, fmt.Errorf("parse %s: %w", name, err))
		}
		p.scaleMV = scale
		break
	}
	return p, nil
}

// Read returns the current conversion. A count outside the converter range is
// reported as hwerr.ErrOutOfRange.
func (p *IIOPin) Read() (analog.Sample, error) {
	if p.closed {
		return analog.Sample{}, hwerr.Wrap("read adc", p.channel, hwerr.ErrClosed)
	}
	s, err := readAttr(p.rawPath)
	if err != nil {
		return analog.Sample{}, hwerr.Wrap("read adc", p.channel, err)
	}
	raw, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		// A torn or partial read; the next one is usually fine.
		return analog.Sample{}, hwerr.Wrap("read adc", p.channel, fmt.Errorf("parse %q: %w", s, err))
	}
	if raw < 0 || int32(raw) > maxRaw(p.bits) {
		return analog.Sample{}, hwerr.Wrap("read adc", p.channel,
			fmt.Errorf("count %d outside 0..%d: %w", raw, maxRaw(p.bits), hwerr.ErrOutOfRange))
	}
	return sample(int32(raw), p.scaleMV), nil
}

// Range returns the zero sample and the full-scale sample.
func (p *IIOPin) Range() (analog.Sample, analog.Sample) {
	return sample(0, p.scaleMV), sample(maxRaw(p.bits), p.scaleMV)
}

// Close releases the channel. sysfs attributes hold no open handle.
func (p *IIOPin) Close() error {
	p.closed = true
	return nil
}

// String implements conn.Resource.
func (p *IIOPin) String() string {
	return fmt.Sprintf("%s/in_voltage%d", filepath.Base(p.dev), p.channel)
}

// Halt implements conn.Resource.
func (p *IIOPin) Halt() error { return nil }

// Name implements pin.Pin.
func (p *IIOPin) Name() string { return fmt.Sprintf("AIO%d", p.channel) }

// Number implements pin.Pin.
func (p *IIOPin) Number() int { return p.channel }

// Function implements pin.Pin.
func (p *IIOPin) Function() string { return "ADC" }

func readAttr(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
