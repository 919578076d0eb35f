package commands

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/contactkit/contactd/internal/api"
	"github.com/contactkit/contactd/internal/config"
	"github.com/contactkit/contactd/internal/log"
	"github.com/contactkit/contactd/internal/store"
)

// ServeCommand runs the HTTP API server.
type ServeCommand struct {
	fs  *flag.FlagSet
	ctx *AppContext
	cfg *config.Config

	// Command-specific flags
	bindAddr string
}

// CreateServeCommand creates a new serve command.
func CreateServeCommand() Runner {
	return &ServeCommand{}
}

// Name returns the command name.
func (c *ServeCommand) Name() string {
	return "serve"
}

// Init initializes the serve command with arguments.
func (c *ServeCommand) Init(args []string, ctx *AppContext) error {
	c.ctx = ctx
	c.fs = flag.NewFlagSet("serve", flag.ExitOnError)

	c.fs.StringVar(&c.bindAddr, "bind", "", "Address to bind the HTTP server (overrides config, e.g. 127.0.0.1:8080)")

	if err := c.fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadAndValidateConfigOrFail(ctx.ConfigPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	// Flag wins over config value when provided
	if c.bindAddr != "" {
		c.cfg.Server.BindAddress = c.bindAddr
	}

	return nil
}

// Run starts the HTTP API server and blocks until shutdown.
func (c *ServeCommand) Run() error {
	log.Infof("Starting contactd API server on %s", c.cfg.Server.BindAddress)
	log.Infof("Configuration loaded from: %s", c.ctx.ConfigPath)
	log.Infof("Contact store: %s", c.cfg.AbsStorePath())

	st := store.NewFileStore(c.cfg.AbsStorePath())
	server := api.NewServer(c.cfg, st)

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	go func() {
		serverErrors <- server.Start()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	select {
	case err := <-serverErrors:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-shutdown:
		log.Infof("Received signal %v, shutting down server...", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Stop(ctx); err != nil {
			log.Errorf("Error during server shutdown: %v", err)
		}
	}

	return nil
}
