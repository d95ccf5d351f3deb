package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tapglide/pinnacle/internal/cliconfig"
	"github.com/tapglide/pinnacle/internal/hid"
	"github.com/tapglide/pinnacle/internal/pointing"
	"github.com/tapglide/pinnacle/internal/sensor"
)

var (
	devicePath string
	mouseName  string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the pointing pipeline against a touchpad device",
	RunE:  runDaemon,
}

func init() {
	runCmd.Flags().StringVar(&devicePath, "device", "", "evdev device path (skips discovery)")
	runCmd.Flags().StringVar(&mouseName, "mouse-name", "pinnacled virtual mouse", "name of the synthesized uinput device")
	rootCmd.AddCommand(runCmd)
}

func runDaemon(cmd *cobra.Command, args []string) error {
	cfg, fs, err := cliconfig.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	path := devicePath
	if path == "" {
		path, err = sensor.Discover(fs.DeviceKeyword, fs.DeviceMustContain)
		if err != nil {
			return fmt.Errorf("discover touchpad: %w", err)
		}
	}
	logger.Infof("using touchpad device %s", path)

	src, err := sensor.Open(path)
	if err != nil {
		return fmt.Errorf("open touchpad: %w", err)
	}
	defer src.Close()

	sink, err := hid.NewMouse(mouseName)
	if err != nil {
		return fmt.Errorf("create virtual mouse: %w", err)
	}
	defer sink.Close()

	pipeline := pointing.NewPipeline(src, sink, cfg)
	if err := pipeline.Init(); err != nil {
		return fmt.Errorf("init pipeline: %w", err)
	}
	logger.Info("pipeline started")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		driveLoop(ctx, pipeline, sink, cfg.GlideInterval)
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	wg.Wait()
	return nil
}

// driveLoop ticks the pipeline at the glide-check cadence and forwards
// every resulting report to the sink, re-initializing the sensor once it
// has been marked disabled after too many consecutive bus errors.
func driveLoop(ctx context.Context, p *pointing.Pipeline, sink interface {
	SetReport(pointing.MouseReport)
	Send() error
}, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	reinitBackoff := time.NewTicker(5 * time.Second)
	defer reinitBackoff.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-reinitBackoff.C:
			if p.Disabled() {
				logger.Warn("sensor disabled after repeated errors, retrying init")
				if err := p.Reinit(); err != nil {
					logger.Errorf("reinit failed: %v", err)
				}
			}
		case <-ticker.C:
			report, err := p.Process()
			if err != nil {
				logger.Errorf("process tick: %v", err)
				continue
			}
			sink.SetReport(report)
			if err := sink.Send(); err != nil {
				logger.Errorf("send report: %v", err)
			}
		}
	}
}
