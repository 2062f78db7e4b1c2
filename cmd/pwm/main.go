// Command pwm ramps the duty cycle of a PWM output from 0% towards 100% in
// 1% steps every 50ms, wrapping back to 0%.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/sweeney/board-samples/internal/app"
	"github.com/sweeney/board-samples/internal/logic"
	"github.com/sweeney/board-samples/internal/pwm"
	"github.com/sweeney/board-samples/internal/sampler"
)

func main() {
	opts := app.RegisterFlags(flag.CommandLine, pwm.DriverSysfs)
	pwmRoot := flag.String("pwm-root", pwm.DefaultSysfsRoot, "PWM sysfs directory")
	period := flag.Duration("period", sampler.PWMPeriod, "PWM period")
	flag.Parse()

	ctx, stop := app.SignalContext(context.Background())
	defer stop()

	if err := run(ctx, opts, *pwmRoot, *period, sampler.PWMInterval); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(ctx context.Context, opts *app.Options, pwmRoot string, period, step time.Duration) (err error) {
	prof, err := opts.Profile()
	if err != nil {
		return err
	}
	channel := opts.PinOr(prof.PWM)

	out, err := pwm.Open(opts.Driver, pwmRoot, prof.PWMChip, channel)
	if err != nil {
		return fmt.Errorf("init pwm: %w", err)
	}
	defer out.Close()

	svc, err := app.Start(logic.KindPWM, channel, step, opts, prof)
	if err != nil {
		return err
	}
	defer func() { svc.Close(app.ShutdownReason(ctx, err)) }()

	ticker := time.NewTicker(step)
	defer ticker.Stop()

	return svc.Runner(ticker.C).PWM(ctx, out, period)
}
