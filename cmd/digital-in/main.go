// Command digital-in prints the level of a GPIO input once a second.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
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

	if err := run(ctx, opts, os.Stdout); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(ctx context.Context, opts *app.Options, out io.Writer) (err error) {
	prof, err := opts.Profile()
	if err != nil {
		return err
	}
	pin := opts.PinOr(prof.GPIOIn)

	in, err := gpio.OpenReader(opts.Driver, prof.Chip, pin)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer in.Close()

	svc, err := app.Start(logic.KindDigitalIn, pin, sampler.DigitalInterval, opts, prof)
	if err != nil {
		return err
	}
	defer func() { svc.Close(app.ShutdownReason(ctx, err)) }()

	ticker := time.NewTicker(sampler.DigitalInterval)
	defer ticker.Stop()

	r := svc.Runner(ticker.C)
	r.Out = out
	return r.DigitalIn(ctx, in)
}
