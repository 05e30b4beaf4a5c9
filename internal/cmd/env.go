package cmd

import (
	"fmt"
	"os"

	"github.com/gravitrone/tagdrawer/internal/api"
	"github.com/gravitrone/tagdrawer/internal/config"
	"github.com/gravitrone/tagdrawer/internal/drafts"
	"github.com/gravitrone/tagdrawer/internal/drawer"
)

// Env is the loaded config and the client built from it.
type Env struct {
	Config *config.Config
	Client *api.Client
}

// LoadEnv reads the config file.
func LoadEnv() (*Env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("not logged in: %w", err)
	}
	return &Env{Config: cfg, Client: cfg.Client()}, nil
}

// OpenSession opens the drafts store and loads the drawer session for one
// content object. The caller closes the store.
func (e *Env) OpenSession(contentID string) (*drawer.Session, *drafts.Store, error) {
	store, err := drafts.Open(e.Config.Drafts())
	if err != nil {
		return nil, nil, err
	}
	session, err := drawer.Load(e.Client, store, contentID)
	if err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("load %s: %w", contentID, err)
	}
	return session, store, nil
}

// IsInteractiveTerminal reports whether file is a character device.
func IsInteractiveTerminal(file *os.File) bool {
	if file == nil {
		return false
	}
	info, err := file.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
