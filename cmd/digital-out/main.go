// Command digital-out blinks a GPIO output, toggling it once a second.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/sweeney/board-samples/internal/app"
	"github.com/sweeney/board-samples/internal/gpio"
	"github.com/sweeney/board-samples/internal/logic"
	"github.com/sweeney/board-samples/internal/sampler"
)

func main() {
	opts := app.RegisterFlags(flag.CommandLine, gpio.DriverGPIOCDev)
	flag.Parse()

	ctx, stop := app.SignalContext(context.Background())
	defer stop()

	if err := run(ctx, opts); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(ctx context.Context, opts *app.Options) (err error) {
	prof, err := opts.Profile()
	if err != nil {
		return err
	}
	pin := opts.PinOr(prof.GPIOOut)

	w, err := gpio.OpenWriter(opts.Driver, prof.Chip, pin)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer w.Close()

	svc, err := app.Start(logic.KindDigitalOut, pin, sampler.DigitalInterval, opts, prof)
	if err != nil {
		return err
	}
	defer func() { svc.Close(app.ShutdownReason(ctx, err)) }()

	ticker := time.NewTicker(sampler.DigitalInterval)
	defer ticker.Stop()

	return svc.Runner(ticker.C).DigitalOut(ctx, w)
}
