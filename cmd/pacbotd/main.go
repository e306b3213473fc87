package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"time"

	channerics "github.com/niceyeti/channerics/channels"
	"golang.org/x/sync/errgroup"

	"pacbot/config"
	"pacbot/decision"
	"pacbot/game"
	"pacbot/planner"
	"pacbot/telemetry"
	"pacbot/transport"
)

const diagObservePeriod = 250 * time.Millisecond

var (
	configPath *string
	arbiterURL *string
	diagAddr   *string
)

func init() {
	configPath = flag.String("config", "./pacbotd.yaml", "path to the core's YAML config file")
	arbiterURL = flag.String("arbiter", "ws://localhost:9000/ws", "websocket URL of the game arbiter")
	diagAddr = flag.String("diag-addr", ":8080", "address the diagnostics HTTP server listens on")
	flag.Parse()
}

func runApp() error {
	cfg, err := config.FromYaml(*configPath)
	if err != nil {
		fmt.Println("falling back to default config:", err)
		cfg = config.Default()
	}

	logger := telemetry.NewLogger()
	diag := telemetry.NewServer()

	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	s := game.New()
	s.UpdatePeriod = uint8(cfg.UpdatePeriod)

	arbiter, err := transport.Dial(*arbiterURL, cfg.SimulationMode)
	if err != nil {
		return fmt.Errorf("connect to arbiter: %w", err)
	}
	logger.Connected()

	var dispatcher *transport.Dispatcher
	if cfg.SimulationMode {
		dispatcher = transport.NewSimulationDispatcher(arbiter, logger.Logger)
	} else {
		dispatcher, err = transport.NewRobotDispatcher(
			fmt.Sprintf("%s:%d", cfg.RobotAddress, cfg.RobotPort),
			cfg.ReliabilityEnabled,
			logger.Logger,
		)
		if err != nil {
			return fmt.Errorf("connect to robot: %w", err)
		}
	}
	defer dispatcher.Close()

	loop := decision.NewLoop(planner.New(cfg.Metric()), int(s.UpdatePeriod))

	diagSrv := &http.Server{Addr: *diagAddr, Handler: diag.Router()}

	g, gCtx := errgroup.WithContext(appCtx)

	g.Go(func() error {
		err := arbiter.Run(gCtx.Done(), s)
		logger.Disconnected(err)
		return err
	})

	g.Go(func() error {
		return dispatcher.Run(gCtx.Done(), s)
	})

	g.Go(func() error {
		return loop.Run(gCtx, s)
	})

	g.Go(func() error {
		for range channerics.NewTicker(gCtx.Done(), diagObservePeriod) {
			diag.Observe(s)
		}
		return nil
	})

	g.Go(func() error {
		go func() {
			<-gCtx.Done()
			diagSrv.Close()
		}()
		if err := diagSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	return g.Wait()
}

func main() {
	if err := runApp(); err != nil {
		fmt.Println(err)
	}
}
