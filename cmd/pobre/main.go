// Package main provides the pobre media player entry point.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/pobre/internal/app/shell"
	"github.com/osa030/pobre/internal/infra/config"
	"github.com/osa030/pobre/internal/infra/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "0.1.0"

var (
	app        = kingpin.New("pobre", "Lightweight media player with a highlight CSV tool")
	configPath = app.Flag("config", "Path to config file").Default(defaultConfigPath()).String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file").String()

	// play command (default)
	playCmd       = app.Command("play", "Play a video file (default)").Default()
	playFile      = playCmd.Arg("file", "Video file (.mp4, .avi, .mkv, .mov)").String()
	playHighlight = playCmd.Flag("highlight", "Open the Highlight CSV tool on start").Short('H').Bool()

	// check-update command
	checkUpdateCmd = app.Command("check-update", "Check GitHub for a newer release")

	// auth commands
	authCmd        = app.Command("auth", "Manage the GitHub token used for update checks")
	authSetCmd     = authCmd.Command("set-token", "Save a GitHub token in the OS keyring")
	authClearCmd   = authCmd.Command("clear-token", "Remove the saved GitHub token")
	authTokenStdin = authSetCmd.Flag("stdin", "Read the token from standard input instead of prompting").Bool()

	// export command
	exportCmd    = app.Command("export", "Convert 'time,side' lines to a highlight CSV")
	exportInput  = exportCmd.Flag("input", "Input file (default: standard input)").Short('i').String()
	exportOutput = exportCmd.Flag("output", "Output CSV (default: highlights_<date>.csv)").Short('o').String()

	// version command
	versionCmd   = app.Command("version", "Show version")
	versionAbout = versionCmd.Flag("about", "Show the about text with keyboard shortcuts").Bool()
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	// Parse command
	app.Version(version)
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	if command == versionCmd.FullCommand() {
		if *versionAbout {
			fmt.Print(shell.About(version))
		} else {
			fmt.Println(version)
		}
		return
	}

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config from %s: %v\n", *configPath, err)
		os.Exit(1)
	}

	// Initialize logger
	loggerConfig := logger.Config{
		Output: "stderr",
		Level:  cfg.Log.Level,
		File:   cfg.Log.File,
	}
	// The terminal belongs to the UI while playing
	if command == playCmd.FullCommand() {
		loggerConfig.Output = "file"
	}
	// Override with command-line flags if specified
	if *verbose {
		loggerConfig.Level = "debug"
	}
	if *logfile != "" {
		loggerConfig.Output = "file"
		loggerConfig.File = *logfile
	}
	closer, err := logger.Init(loggerConfig)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer closer.Close()

	zlog.Debug().Msgf("Loaded config from %s: command=%s", *configPath, command)

	switch command {
	case playCmd.FullCommand():
		err = runPlay(cfg, *playFile, *playHighlight)
	case checkUpdateCmd.FullCommand():
		err = runCheckUpdate(cfg)
	case authSetCmd.FullCommand():
		err = runSetToken(*authTokenStdin)
	case authClearCmd.FullCommand():
		err = runClearToken()
	case exportCmd.FullCommand():
		err = runExport(*exportInput, *exportOutput)
	}

	if err != nil {
		zlog.Error().Msgf("%s failed: %v", command, err)
		closer.Close()
		os.Exit(1)
	}
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "pobre.yaml"
	}
	return filepath.Join(dir, "pobre", "config.yaml")
}
