package commands

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/contactkit/contactd/internal/config"
	"github.com/contactkit/contactd/internal/log"
	"github.com/contactkit/contactd/internal/store"
)

// InitCommand writes a default configuration file and an empty store file.
type InitCommand struct {
	fs    *flag.FlagSet
	ctx   *AppContext
	force bool
}

// CreateInitCommand creates a new init command.
func CreateInitCommand() Runner {
	return &InitCommand{}
}

// Name returns the command name.
func (c *InitCommand) Name() string {
	return "init"
}

// Init initializes the init command with arguments.
func (c *InitCommand) Init(args []string, ctx *AppContext) error {
	c.ctx = ctx
	c.fs = flag.NewFlagSet("init", flag.ExitOnError)

	c.fs.BoolVar(&c.force, "force", false, "Overwrite an existing configuration file")

	return c.fs.Parse(args)
}

// Run writes the default config and an empty contact store next to it.
func (c *InitCommand) Run() error {
	if _, err := os.Stat(c.ctx.ConfigPath); err == nil && !c.force {
		return fmt.Errorf("configuration file already exists: %s (use -force to overwrite)", c.ctx.ConfigPath)
	}

	cfg := config.Default()
	if err := cfg.SetConfigPath(c.ctx.ConfigPath); err != nil {
		return err
	}

	if err := cfg.WriteConfig(); err != nil {
		return fmt.Errorf("failed to write configuration: %v", err)
	}
	log.Infof("Wrote configuration file: %s", c.ctx.ConfigPath)

	storePath := cfg.AbsStorePath()
	if _, err := os.Stat(storePath); err == nil {
		log.Infof("Contact store already exists: %s", storePath)
		return nil
	}

	st := store.NewFileStore(storePath)
	if err := st.Persist(context.Background(), nil); err != nil {
		return fmt.Errorf("failed to create contact store: %v", err)
	}
	log.Infof("Created empty contact store: %s", storePath)

	return nil
}
