package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"periph.io/x/conn/v3/physic"

	"github.com/broosa/ded/framebuffer"
	"github.com/broosa/ded/internal/app"
	"github.com/broosa/ded/internal/config"
	"github.com/broosa/ded/monitor"
)

func main() {
	var flags app.Flags
	flags.Register(flag.CommandLine)
	flag.Parse()

	if err := run(flags); err != nil {
		fatal(err)
	}
}

func run(flags app.Flags) error {
	cfg, err := flags.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := log.Default()
	var a *app.App
	if flags.Demo {
		demo := app.DemoSource()
		go app.Demo(ctx, demo)
		a, err = app.NewWithSource(cfg, demo, logger)
	} else {
		a, err = app.New(cfg, logger)
	}
	if err != nil {
		return err
	}
	defer a.Close()
	logger.Printf("using source: %s", describe(a.Source))

	if !flags.NoDevice {
		if err = a.OpenDevice(); err != nil {
			return err
		}
	}

	if cfg.Monitor.Console {
		c := monitor.NewConsole(os.Stdout, a.Screen)
		switch cfg.Monitor.Mode {
		case config.MonitorText:
			c.SetMode(monitor.Text)
		case config.MonitorPixels:
			c.SetMode(monitor.Pixels)
		}
		go func() {
			if err := c.Run(ctx, 10*physic.Hertz); err != nil && ctx.Err() == nil {
				logger.Printf("console: %v", err)
			}
		}()
	}

	if fbc := cfg.Monitor.Framebuffer; fbc.Device != "" {
		fb, err := framebuffer.Open(fbc.Device)
		if err != nil {
			return err
		}
		defer fb.Close()
		logger.Printf("mirroring on %s", fb)
		go func() {
			config := framebuffer.DefaultConfig
			config.Scale = fbc.Scale
			if err := fb.Mirror(ctx, a.Screen, 10*physic.Hertz, &config); err != nil && ctx.Err() == nil {
				logger.Printf("framebuffer: %v", err)
			}
		}()
	}

	return a.Run(ctx)
}

func describe(v any) string {
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", v)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "fatal: "+err.Error())
	os.Exit(1)
}
