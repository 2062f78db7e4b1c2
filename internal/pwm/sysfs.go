package pwm

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/sweeney/board-samples/internal/hwerr"
)

// DefaultSysfsRoot is where the kernel exposes PWM chips.
const DefaultSysfsRoot = "/sys/class/pwm"

// SysfsPWM drives a channel through the kernel PWM sysfs interface.
type SysfsPWM struct {
	chipDir  string
	dir      string
	channel  int
	exported bool
	period   time.Duration
	enabled  bool
	closed   bool
}

// NewSysfsPWM opens pwmchip<chip>/pwm<channel> under root, exporting the
// channel if it is not already visible.
func NewSysfsPWM(root string, chip, channel int) (*SysfsPWM, error) {
	chipDir := filepath.Join(root, fmt.Sprintf("pwmchip%d", chip))
	if _, err := os.Stat(chipDir); err != nil {
		return nil, hwerr.Wrap("open pwm", channel, err)
	}

	p := &SysfsPWM{
		chipDir: chipDir,
		dir:     filepath.Join(chipDir, fmt.Sprintf("pwm%d", channel)),
		channel: channel,
	}
	if _, err := os.Stat(p.dir); os.IsNotExist(err) {
		if err := p.writeChip("export", strconv.Itoa(channel)); err != nil {
			return nil, hwerr.Wrap("export pwm", channel, err)
		}
		p.exported = true
		if _, err := os.Stat(p.dir); err != nil {
			return nil, hwerr.Wrap("export pwm", channel, err)
		}
	}
	return p, nil
}

// SetPeriod sets the cycle length. The duty is zeroed first since the kernel
// rejects a period shorter than the current duty, including a duty left behind
// by whoever used the channel before us.
func (p *SysfsPWM) SetPeriod(period time.Duration) error {
	if p.closed {
		return hwerr.Wrap("set pwm period", p.channel, hwerr.ErrClosed)
	}
	if err := checkPeriod(p.channel, period); err != nil {
		return err
	}
	if err := p.write("duty_cycle", "0"); err != nil {
		return hwerr.Wrap("set pwm period", p.channel, err)
	}
	if err := p.write("period", strconv.FormatInt(period.Nanoseconds(), 10)); err != nil {
		return hwerr.Wrap("set pwm period", p.channel, err)
	}
	p.period = period
	return nil
}

// Enable starts or stops the output.
func (p *SysfsPWM) Enable(on bool) error {
	if p.closed {
		return hwerr.Wrap("enable pwm", p.channel, hwerr.ErrClosed)
	}
	v := "0"
	if on {
		v = "1"
	}
	if err := p.write("enable", v); err != nil {
		return hwerr.Wrap("enable pwm", p.channel, err)
	}
	p.enabled = on
	return nil
}

// Write sets the duty cycle as a fraction of the period.
func (p *SysfsPWM) Write(duty float64) error {
	if p.closed {
		return hwerr.Wrap("write pwm duty", p.channel, hwerr.ErrClosed)
	}
	if err := checkDuty(p.channel, duty); err != nil {
		return err
	}
	if p.period == 0 {
		return errNoPeriod(p.channel)
	}
	ns := int64(math.Round(duty * float64(p.period.Nanoseconds())))
	if err := p.write("duty_cycle", strconv.FormatInt(ns, 10)); err != nil {
		return hwerr.Wrap("write pwm duty", p.channel, err)
	}
	return nil
}

// Close disables the output and unexports the channel if Open exported it.
func (p *SysfsPWM) Close() error {
	if p.closed {
		return nil
	}
	var errs []error
	if p.enabled {
		if err := p.write("enable", "0"); err != nil {
			errs = append(errs, fmt.Errorf("disable pwm %d: %w", p.channel, err))
		}
		p.enabled = false
	}
	if p.exported {
		if err := p.writeChip("unexport", strconv.Itoa(p.channel)); err != nil {
			errs = append(errs, fmt.Errorf("unexport pwm %d: %w", p.channel, err))
		}
	}
	p.closed = true

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

func (p *SysfsPWM) write(attr, value string) error {
	return writeAttr(filepath.Join(p.dir, attr), value)
}

func (p *SysfsPWM) writeChip(attr, value string) error {
	return writeAttr(filepath.Join(p.chipDir, attr), value)
}

// writeAttr writes a sysfs attribute. It never creates the file: a missing
// attribute means the wrong chip or channel.
func writeAttr(path, value string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(value); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
