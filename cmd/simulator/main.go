package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
)

var (
	serverURL   = flag.String("server", "http://localhost:8080", "Engine base URL")
	channel     = flag.String("channel", "voice", "Channel to simulate: voice or sms")
	fromNumber  = flag.String("from", "+15550001111", "Caller phone number")
	toNumber    = flag.String("to", "+15559990000", "Tenant business number")
	callSid     = flag.String("call-sid", "CA-sim-001", "Call SID for voice turns")
	scriptFile  = flag.String("script", "", "File with one caller utterance per line")
	monitorURL  = flag.String("monitor", "", "Monitor WebSocket URL (ws://.../ws/monitor)")
	monitorTok  = flag.String("token", "", "Admin access token for the monitor feed")
	interactive = flag.Bool("interactive", false, "Enable interactive mode")
	verbose     = flag.Bool("verbose", false, "Enable verbose logging")
)

func main() {
	flag.Parse()

	// Setup logger
	var logger *zap.Logger
	var err error
	if *verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	config := &SimulatorConfig{
		ServerURL:  *serverURL,
		Channel:    *channel,
		FromNumber: *fromNumber,
		ToNumber:   *toNumber,
		CallSid:    *callSid,
	}

	sim := NewSimulator(config, logger)

	if *monitorURL != "" {
		go sim.WatchMonitor(*monitorURL, *monitorTok)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		switch {
		case *scriptFile != "":
			if err := sim.RunScript(*scriptFile); err != nil {
				logger.Error("Script run failed", zap.Error(err))
			}
		case *interactive:
			sim.RunInteractive()
		default:
			// A single greeting leg shows the engine is answering.
			reply, err := sim.SendTurn("")
			if err != nil {
				logger.Error("Turn failed", zap.Error(err))
				return
			}
			fmt.Println("agent:", reply)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-done:
	case <-quit:
		logger.Info("Simulator interrupted")
	}
}
