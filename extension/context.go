// context.go is the surface extensions see of patchd's internals. An
// extension gets its Context in Init, after registration, because
// registration happens in package init() before any service exists.
// Keeping Context an interface lets tests hand extensions a fake.

package extension

import (
	"database/sql"

	"github.com/jpl-au/patchd/internal/config"
	"github.com/jpl-au/patchd/internal/service"
)

// Context gives an extension controlled access to shared resources.
type Context interface {
	// Service returns the document service.
	Service() service.Service

	// DB exposes the database for extensions that keep custom tables.
	// Core tables belong to the store; extensions create their own.
	DB() *sql.DB

	// Config returns the loaded user configuration.
	Config() *config.Config
}

type extContext struct {
	svc service.Service
	db  *sql.DB
	cfg *config.Config
}

// NewContext creates a new extension context.
func NewContext(svc service.Service, db *sql.DB, cfg *config.Config) Context {
	return &extContext{
		svc: svc,
		db:  db,
		cfg: cfg,
	}
}

func (c *extContext) Service() service.Service { return c.svc }
func (c *extContext) DB() *sql.DB              { return c.db }
func (c *extContext) Config() *config.Config   { return c.cfg }
