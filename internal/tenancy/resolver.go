package tenancy

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"github.com/Deep-1402/cafe/internal/model"
)

// directoryLookup is the slice of the Directory the resolver depends on.
type directoryLookup interface {
	FindByEmail(ctx context.Context, email string) (*model.Tenant, error)
	FindBySubdomain(ctx context.Context, subdomain string) (*model.Tenant, error)
}

// connectionOpener opens a handle for a named database.
type connectionOpener interface {
	Open(ctx context.Context, dbName string) (*gorm.DB, error)
}

// schemaRegistrar initializes the tenant schema against a handle.
type schemaRegistrar interface {
	Register(db *gorm.DB) (*EntitySet, error)
}

// Handle pairs a live tenant connection with its registered schema and
// the directory record it was resolved from. It is owned by the
// resolver's cache; callers must not close the connection. Opened
// reports whether this resolution opened the connection rather than
// serving it from the cache.
type Handle struct {
	Conn     *gorm.DB
	Entities *EntitySet
	Tenant   *model.Tenant
	Opened   bool
}

type cacheEntry struct {
	conn     *gorm.DB
	entities *EntitySet
}

type flightResult struct {
	entry  *cacheEntry
	opened bool
}

// Resolver is the request hot path: tenant key in, ready-to-use
// database handle out. Connections are cached by database name (not
// tenant id, since multiple identities could share a database) and
// live for the rest of the process; Close tears them down at shutdown.
type Resolver struct {
	directory directoryLookup
	opener    connectionOpener
	registrar schemaRegistrar

	mu    sync.RWMutex
	conns map[string]*cacheEntry
	group singleflight.Group
}

// NewResolver creates a resolver with an empty connection cache.
func NewResolver(directory directoryLookup, opener connectionOpener, registrar schemaRegistrar) *Resolver {
	return &Resolver{
		directory: directory,
		opener:    opener,
		registrar: registrar,
		conns:     make(map[string]*cacheEntry),
	}
}

// Resolve maps the authenticated caller's key (admin email or
// subdomain) to a tenant database handle. The first resolution for a
// database opens the connection and registers the schema; concurrent
// first-resolutions for the same database collapse into that one
// flight, so the registrar never runs twice against a fresh database.
// Cached resolutions are lock-free beyond a read lock.
func (r *Resolver) Resolve(ctx context.Context, key string) (*Handle, error) {
	tenant, err := r.lookup(ctx, key)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	entry, ok := r.conns[tenant.DBName]
	r.mu.RUnlock()
	if ok {
		return &Handle{Conn: entry.conn, Entities: entry.entities, Tenant: tenant}, nil
	}

	v, err, _ := r.group.Do(tenant.DBName, func() (interface{}, error) {
		// A previous flight may have populated the cache between our
		// read miss and this call.
		r.mu.RLock()
		entry, ok := r.conns[tenant.DBName]
		r.mu.RUnlock()
		if ok {
			return &flightResult{entry: entry}, nil
		}

		conn, err := r.opener.Open(ctx, tenant.DBName)
		if err != nil {
			return nil, err
		}
		entities, err := r.registrar.Register(conn)
		if err != nil {
			return nil, err
		}

		entry = &cacheEntry{conn: conn, entities: entities}
		r.mu.Lock()
		r.conns[tenant.DBName] = entry
		r.mu.Unlock()
		return &flightResult{entry: entry, opened: true}, nil
	})
	if err != nil {
		return nil, err
	}

	res := v.(*flightResult)
	return &Handle{Conn: res.entry.conn, Entities: res.entry.entities, Tenant: tenant, Opened: res.opened}, nil
}

func (r *Resolver) lookup(ctx context.Context, key string) (*model.Tenant, error) {
	if strings.Contains(key, "@") {
		return r.directory.FindByEmail(ctx, key)
	}
	return r.directory.FindBySubdomain(ctx, key)
}

// ConnectionCount reports how many tenant connections are cached,
// feeding the open-connections gauge.
func (r *Resolver) ConnectionCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// Close tears down every cached connection. Called only at process
// shutdown.
func (r *Resolver) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for name, entry := range r.conns {
		closeDB(entry.conn)
		delete(r.conns, name)
	}
}
