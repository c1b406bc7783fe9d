package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"example.com/dirserve/internal/config"
	"example.com/dirserve/internal/fileserver"
	"example.com/dirserve/internal/logger"
	"example.com/dirserve/internal/server"
)

var (
	configPath string
	bindAddr   string
	bindPort   int
	rootDir    string
	logLevel   string
)

func main() {
	flag.StringVar(&configPath, "config", "", "path to a configuration file (TOML, JSON or YAML)")
	flag.StringVar(&bindAddr, "addr", "", "bind address (default "+config.DefaultAddress+")")
	flag.IntVar(&bindPort, "port", 0, fmt.Sprintf("bind port (default %d)", config.DefaultPort))
	flag.StringVar(&rootDir, "root", "", "directory to serve (required unless set in the config file)")
	flag.StringVar(&logLevel, "log-level", "", "log level: DEBUG, INFO, WARNING or ERROR")
	flag.Parse()

	cfg, err := buildConfig()
	if err != nil {
		fatal(err)
	}

	lg, err := logger.NewLogger(cfg.Logging)
	if err != nil {
		fatal(err)
	}
	defer func() {
		if err := lg.CloseLogFiles(); err != nil {
			fmt.Fprintf(os.Stderr, "error closing log files: %v\n", err)
		}
	}()

	handler, err := fileserver.NewHandler(cfg.Server.Root, lg, nil, nil)
	if err != nil {
		fatal(err)
	}

	srv, err := server.New(cfg.Server, lg, handler)
	if err != nil {
		fatal(err)
	}

	color.Green("Serving %s on http://%s", cfg.Server.Root, cfg.Server.ListenAddr())
	if err := srv.Start(); err != nil {
		fatal(err)
	}
}

// buildConfig layers flag values over the optional config file, then
// validates the result.
func buildConfig() (*config.Config, error) {
	var cfg *config.Config
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = &config.Config{}
		cfg.ApplyDefaults()
	}

	if bindAddr != "" {
		cfg.Server.Address = &bindAddr
	}
	if bindPort != 0 {
		cfg.Server.Port = &bindPort
	}
	if rootDir != "" {
		cfg.Server.Root = rootDir
	}
	if logLevel != "" {
		cfg.Logging.LogLevel = config.LogLevel(logLevel)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fatal(err error) {
	color.Red("error: %v", err)
	os.Exit(1)
}
