package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tauraamui/dragoncompositor/internal/config"
	"github.com/tauraamui/dragoncompositor/pkg/configdef"
	"github.com/tauraamui/dragoncompositor/pkg/log"
	"github.com/tauraamui/dragoncompositor/pkg/params"
	"github.com/tauraamui/dragoncompositor/pkg/pipeline"
	"github.com/tauraamui/dragoncompositor/pkg/video/videobackend"
	"github.com/tauraamui/dragoncompositor/pkg/video/videodisplay"
	"github.com/tauraamui/dragoncompositor/pkg/video/videoframe"
	"gocv.io/x/gocv"
)

const (
	exitOK = iota
	exitStartupFailure
	exitDeviceOpenFailure
	exitCaptureFailure
)

const usage = "Usage: dragoncompositor [setup | remove-setup]"

// Setup writes a default config and neutral parameter file
func Setup() (string, error) {
	log.Info("Setting up dragoncompositor...")

	err := config.DefaultCreator().Create()
	if err != nil {
		if !errors.Is(err, configdef.ErrConfigAlreadyExists) {
			return "", err
		}
		log.Error(err.Error())
	}

	cfg, err := config.DefaultResolver().Resolve()
	if err != nil {
		return "", err
	}

	if err := params.WriteDefaults(cfg.ParametersPath); err != nil {
		if !errors.Is(err, os.ErrExist) {
			return "", err
		}
		log.Error("parameter file %s already exists", cfg.ParametersPath)
	}

	return "Setup successful...", nil
}

func RemoveSetup() (string, error) {
	log.Info("Removing setup for dragoncompositor...")
	if err := config.DefaultDestroyer().Destroy(); err != nil {
		log.Error("unable to delete config file: %s", err.Error())
	}
	return "Removing setup successful...", nil
}

func run() int {
	cfg, err := config.DefaultResolver().Resolve()
	if err != nil {
		log.Error("unable to load config: %v", err)
		return exitStartupFailure
	}

	if cfg.Debug {
		log.SetLevelFromString("debug")
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case killSignal := <-interrupt:
			log.Error("Received signal: %s", killSignal)
			cancel()
		case <-ctx.Done():
		}
	}()

	log.Info("Starting dragon compositor...")

	driver := pipeline.New(
		videobackend.Resolve(cfg.Backend, videoframe.Dimensions{W: cfg.MockWidth, H: cfg.MockHeight}),
		params.NewFileSource(cfg.ParametersPath, cfg.OverlayPath),
		videodisplay.Resolve(cfg.Display, videodisplay.Settings{Title: cfg.WindowTitle, CancelKey: cfg.CancelKey}),
		pipeline.Options{
			Device:       cfg.Device,
			PollInterval: time.Duration(cfg.PollCancelMillis) * time.Millisecond,
		},
	)

	err = driver.Run(ctx)
	stats := driver.Stats()
	log.Info(
		"Presented %d frames, %d parameter read failures, %d overlay load failures, %d blend failures",
		stats.FramesPresented, stats.ParameterFailures, stats.OverlayFailures, stats.BlendFailures,
	)

	if log.IsDebug() {
		var b bytes.Buffer
		gocv.MatProfile.WriteTo(&b, 1)
		fmt.Printf("Leaked mats: %d\n%s", gocv.MatProfile.Count(), b.String())
	}

	return exitCode(err)
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, pipeline.ErrDeviceOpenFailure):
		log.Error(err.Error())
		return exitDeviceOpenFailure
	case errors.Is(err, pipeline.ErrCaptureFailure):
		log.Error(err.Error())
		return exitCaptureFailure
	default:
		log.Error(err.Error())
		return exitStartupFailure
	}
}

func manage() int {
	if len(os.Args) > 1 {
		var (
			status string
			err    error
		)
		switch os.Args[1] {
		case "setup":
			status, err = Setup()
		case "remove-setup":
			status, err = RemoveSetup()
		default:
			fmt.Println(usage)
			return exitStartupFailure
		}
		if err != nil {
			log.Error(err.Error())
			return exitStartupFailure
		}
		fmt.Println(status)
		return exitOK
	}

	return run()
}

func init() {
	log.SetLevelFromString(os.Getenv("DRAGON_COMPOSITOR_LOGGING_LEVEL"))
}

func main() {
	os.Exit(manage())
}
