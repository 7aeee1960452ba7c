package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/broosa/ded/internal/app"
	"github.com/broosa/ded/monitor"
)

func main() {
	var flags app.Flags
	flags.Register(flag.CommandLine)
	scaleFlag := flag.Int("scale", 0, "window pixels per display pixel (default from config)")
	flag.Parse()

	if err := run(flags, *scaleFlag); err != nil {
		fatal(err)
	}
}

func run(flags app.Flags, scale int) error {
	cfg, err := flags.Load()
	if err != nil {
		return err
	}
	if scale > 0 {
		cfg.Monitor.Window.Scale = scale
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

	// The window mirrors the display without the device too.
	if !flags.NoDevice {
		if err = a.OpenDevice(); err != nil {
			logger.Printf("continuing without device: %v", err)
		}
	}

	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	w := monitor.NewWindow(a.Screen, &monitor.WindowConfig{
		Title:  "DED",
		Scale:  cfg.Monitor.Window.Scale,
		On:     monitor.DefaultOnColor,
		Off:    monitor.DefaultOffColor,
		Status: a.StatusLine,
	})
	if err = w.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Printf("window: %v", err)
	}
	stop()

	return <-done
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "fatal: "+err.Error())
	os.Exit(1)
}
