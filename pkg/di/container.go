// Package di provides dependency injection container
package di

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/ssargent/bodyfile/pkg/api"     //nolint:depguard
	"github.com/ssargent/bodyfile/pkg/storage" //nolint:depguard
)

// StoreOpener opens the record catalog in a data directory
type StoreOpener func(dataDir string) (*storage.RecordStore, error)

// ServerStarter runs the REST API until ctx is cancelled
type ServerStarter func(ctx context.Context, store api.IRecordStore, config api.ServerConfig, logger *slog.Logger) error

// Container holds all the dependencies for the application
type Container struct {
	storeOpener   StoreOpener
	serverStarter ServerStarter
}

// NewContainer creates a new dependency injection container
func NewContainer() *Container {
	return &Container{
		storeOpener:   openStore,
		serverStarter: api.StartServer,
	}
}

func openStore(dataDir string) (*storage.RecordStore, error) {
	return storage.Open(filepath.Join(dataDir, "records"), storage.Options{})
}

// GetStoreOpener returns the record store opener
func (c *Container) GetStoreOpener() StoreOpener {
	return c.storeOpener
}

// GetServerStarter returns the API server starter
func (c *Container) GetServerStarter() ServerStarter {
	return c.serverStarter
}

// SetStoreOpener allows overriding the record store opener (for testing)
func (c *Container) SetStoreOpener(opener StoreOpener) {
	c.storeOpener = opener
}

// SetServerStarter allows overriding the API server starter (for testing)
func (c *Container) SetServerStarter(starter ServerStarter) {
	c.serverStarter = starter
}
