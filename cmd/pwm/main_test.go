package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/sweeney/board-samples/internal/app"
	"github.com/sweeney/board-samples/internal/pwm"
	"github.com/sweeney/board-samples/internal/sampler"
)

func testOptions(t *testing.T, args ...string) *app.Options {
	t.Helper()
	fs := flag.NewFlagSet("pwm", flag.ContinueOnError)
	opts := app.RegisterFlags(fs, pwm.DriverSysfs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return opts
}

// pwmTree creates an already-exported pwmchip0/pwm<channel>.
func pwmTree(t *testing.T, channel int) (root, dir string) {
	t.Helper()
	root = t.TempDir()
	dir = filepath.Join(root, "pwmchip0", "pwm"+strconv.Itoa(channel))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, attr := range []string{"period", "duty_cycle", "enable"} {
		if err := os.WriteFile(filepath.Join(dir, attr), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root, dir
}

func readAttr(t *testing.T, dir, attr string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(dir, attr))
	if err != nil {
		t.Fatal(err)
	}
	return strings.TrimSpace(string(b))
}

func TestRunRampsAndDisables(t *testing.T) {
	root, dir := pwmTree(t, 3)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := run(ctx, testOptions(t), root, sampler.PWMPeriod, time.Millisecond); err != nil {
		t.Fatalf("run: %v", err)
	}

	if got := readAttr(t, dir, "period"); got != "700000" {
		t.Errorf("period: got %q, want 700000", got)
	}
	if got := readAttr(t, dir, "enable"); got != "0" {
		t.Errorf("enable: got %q, want 0 after shutdown", got)
	}
	duty, err := strconv.Atoi(readAttr(t, dir, "duty_cycle"))
	if err != nil {
		t.Fatalf("duty_cycle: %v", err)
	}
	if duty < 0 || duty >= 700000 {
		t.Errorf("duty_cycle %d outside [0, period)", duty)
	}
}

func TestRunMissingChip(t *testing.T) {
	root := t.TempDir()
	if err := run(context.Background(), testOptions(t), root, sampler.PWMPeriod, time.Millisecond); err == nil {
		t.Fatal("expected error for a missing pwm chip")
	}
}

func TestRunUnknownBoard(t *testing.T) {
	root, _ := pwmTree(t, 3)
	if err := run(context.Background(), testOptions(t, "-board", "nope"), root, sampler.PWMPeriod, time.Millisecond); err == nil {
		t.Fatal("expected error for an unknown board")
	}
}
