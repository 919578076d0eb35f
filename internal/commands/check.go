package commands

import (
	"context"
	"flag"
	"fmt"

	"github.com/contactkit/contactd/internal/config"
	"github.com/contactkit/contactd/internal/contact"
	"github.com/contactkit/contactd/internal/log"
	"github.com/contactkit/contactd/internal/store"
)

// CheckCommand validates the configuration and the contact store: it
// reports records failing field validation, duplicate ids and duplicate
// non-empty emails.
type CheckCommand struct {
	fs  *flag.FlagSet
	ctx *AppContext
	cfg *config.Config
}

// CreateCheckCommand creates a new check command.
func CreateCheckCommand() Runner {
	return &CheckCommand{}
}

// Name returns the command name.
func (c *CheckCommand) Name() string {
	return "check"
}

// Init initializes the check command with arguments.
func (c *CheckCommand) Init(args []string, ctx *AppContext) error {
	c.ctx = ctx
	c.fs = flag.NewFlagSet("check", flag.ExitOnError)

	if err := c.fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadAndValidateConfigOrFail(ctx.ConfigPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	return nil
}

// Run checks the store for integrity problems.
func (c *CheckCommand) Run() error {
	log.Infof("Running store check...")
	log.Infof("Configuration: %s", c.ctx.ConfigPath)
	log.Infof("Contact store: %s", c.cfg.AbsStorePath())

	st := store.NewFileStore(c.cfg.AbsStorePath())
	contacts, err := st.Load(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load store: %v", err)
	}

	log.Infof("Loaded %d contact(s)", len(contacts))

	problems := 0
	seenIDs := make(map[int]bool)
	seenEmails := make(map[string]bool)

	for i, record := range contacts {
		if err := contact.Validate(record, false); err != nil {
			log.Errorf("Record %d (id %d): %v", i, record.ID, err)
			problems++
		}

		if seenIDs[record.ID] {
			log.Errorf("Record %d: duplicate id %d", i, record.ID)
			problems++
		}
		seenIDs[record.ID] = true

		if record.Email != "" {
			if seenEmails[record.Email] {
				log.Errorf("Record %d (id %d): duplicate email %s", i, record.ID, record.Email)
				problems++
			}
			seenEmails[record.Email] = true
		}
	}

	if problems > 0 {
		return fmt.Errorf("store check found %d problem(s)", problems)
	}

	log.Infof("Store check passed")
	return nil
}
