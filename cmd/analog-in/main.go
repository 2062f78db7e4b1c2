// Command analog-in prints raw readings from an ADC channel as fast as the
// converter delivers them.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/sweeney/board-samples/internal/analog"
	"github.com/sweeney/board-samples/internal/app"
	"github.com/sweeney/board-samples/internal/logic"
)

// driverIIO is the only ADC backend.
const driverIIO = "iio"

func main() {
	opts := app.RegisterFlags(flag.CommandLine, driverIIO)
	iioRoot := flag.String("iio-root", analog.DefaultIIORoot, "Industrial I/O sysfs directory")
	flag.Parse()

	ctx, stop := app.SignalContext(context.Background())
	defer stop()

	if err := run(ctx, opts, *iioRoot, os.Stdout); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(ctx context.Context, opts *app.Options, iioRoot string, out io.Writer) (err error) {
	prof, err := opts.Profile()
	if err != nil {
		return err
	}
	channel := opts.PinOr(prof.AIO)

	if opts.Driver != driverIIO {
		return fmt.Errorf("unknown adc driver %q", opts.Driver)
	}

	adc, err := analog.NewIIOPin(iioRoot, prof.IIO, channel, prof.ADCBits)
	if err != nil {
		return fmt.Errorf("init adc: %w", err)
	}
	defer adc.Close()

	svc, err := app.Start(logic.KindAnalog, channel, 0, opts, prof)
	if err != nil {
		return err
	}
	defer func() { svc.Close(app.ShutdownReason(ctx, err)) }()

	r := svc.Runner(nil)
	r.Out = out
	return r.Analog(ctx, adc)
}
