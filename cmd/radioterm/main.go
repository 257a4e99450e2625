package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/adrg/xdg"
	"github.com/radioterm/radioterm/internal/config"
	"github.com/radioterm/radioterm/internal/player"
	"github.com/radioterm/radioterm/internal/playlist"
	"github.com/radioterm/radioterm/internal/resolver"
	"github.com/radioterm/radioterm/internal/session"
	"github.com/radioterm/radioterm/internal/ui"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	versionFlag = flag.Bool("version", false, "Show version information")
	debugFlag   = flag.Bool("debug", false, "Enable debug logging")
	resumeFlag  = flag.Bool("resume", false, "Resume the last played station without asking")
	convertFlag = flag.Bool("convert", false, "Convert between txt and m3u playlists: -convert <src> <dst>")
	dirFlag     = flag.String("dir", ".", "Directory holding playlist and config files")
)

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s v%s - %s\n\n", config.AppName, config.AppVersion, config.AppDescription)
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
}

func cacheDir() string {
	return filepath.Join(xdg.CacheHome, config.AppName)
}

func setupLogging() {
	if *debugFlag {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)

		logDir := cacheDir()
		if err := os.MkdirAll(logDir, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create log dir: %v\n", err)
			logDir = os.TempDir()
		}
		logPath := filepath.Join(logDir, "debug.log")
		logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create log file: %v\n", err)
			logFile = os.Stderr
		}
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: logFile, TimeFormat: "15:04:05"})
		fmt.Printf("Debug log: %s\n", logPath)
		log.Info().Msgf("Starting %s v%s (debug mode)", config.AppName, config.AppVersion)
		return
	}

	// Keep the interactive terminal clean: errors only, to /dev/null.
	zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	if logFile, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0644); err == nil {
		log.Logger = log.Output(logFile)
	}
}

func runConvert(args []string) int {
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "Usage: -convert <src> <dst>")
		return 2
	}
	if err := playlist.ConvertFile(args[0], args[1]); err != nil {
		fmt.Fprintf(os.Stderr, "Conversion failed: %v\n", err)
		return 1
	}
	fmt.Printf("Successfully converted %s to %s\n", args[0], args[1])
	return 0
}

func main() {
	flag.Parse()

	if *versionFlag {
		fmt.Printf("%s v%s\n", config.AppName, config.AppVersion)
		fmt.Println(config.AppDescription)
		os.Exit(0)
	}

	setupLogging()

	if *convertFlag {
		os.Exit(runConvert(flag.Args()))
	}

	// Missing external player is the one fatal startup condition.
	if err := player.CheckBinary(); err != nil {
		fmt.Fprintf(os.Stderr, "Missing required dependency: %v\n", err)
		fmt.Fprintln(os.Stderr, "Ubuntu/Debian: sudo apt-get install ffmpeg")
		fmt.Fprintln(os.Stderr, "Fedora:        sudo dnf install ffmpeg")
		fmt.Fprintln(os.Stderr, "macOS:         brew install ffmpeg")
		os.Exit(1)
	}

	cfg, err := config.Load(*dirFlag)
	if err != nil {
		log.Warn().Err(err).Msg("Could not load config, using defaults")
	}

	urlCache, err := resolver.NewCache()
	if err != nil {
		log.Warn().Err(err).Msg("Could not initialize URL cache, resolutions will not be cached")
		urlCache = nil
	}
	if urlCache != nil {
		go func() {
			if err := urlCache.CleanExpired(); err != nil {
				log.Debug().Err(err).Msg("Failed to clean expired cache")
			}
		}()
	}

	store := playlist.NewStore(*dirFlag)
	res := resolver.NewResolver(urlCache)
	ctrl := player.NewController(res, cfg.Volume, cfg.Muted)
	sess := session.New(store, cfg)
	menu := ui.NewUI(sess, ctrl, os.Stdin, os.Stdout)

	// Daemon-lifetime monitor: runs until process exit, never joined.
	ctrl.StartMonitor(player.MonitorInterval)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info().Msg("Received shutdown signal, stopping playback")
		ctrl.Stop()
		os.Exit(0)
	}()

	if err := menu.Run(*resumeFlag); err != nil {
		log.Error().Err(err).Msg("Menu loop failed")
		ctrl.Stop()
		os.Exit(1)
	}

	ctrl.Stop()
	log.Info().Msgf("%s stopped", config.AppName)
}
