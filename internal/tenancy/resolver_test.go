package tenancy

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Deep-1402/cafe/internal/model"
)

type fakeDirectory struct {
	tenants map[string]*model.Tenant
}

func (f *fakeDirectory) find(key string) (*model.Tenant, error) {
	tenant, ok := f.tenants[key]
	if !ok {
		return nil, ErrTenantNotFound
	}
	if !tenant.IsActive {
		return nil, ErrTenantSuspended
	}
	return tenant, nil
}

func (f *fakeDirectory) FindByEmail(ctx context.Context, email string) (*model.Tenant, error) {
	return f.find(email)
}

func (f *fakeDirectory) FindBySubdomain(ctx context.Context, subdomain string) (*model.Tenant, error) {
	return f.find(subdomain)
}

type countingOpener struct {
	opens int32
	err   error
}

func (o *countingOpener) Open(ctx context.Context, dbName string) (*gorm.DB, error) {
	atomic.AddInt32(&o.opens, 1)
	if o.err != nil {
		return nil, o.err
	}
	return &gorm.DB{}, nil
}

type countingRegistrar struct {
	registrations int32
	err           error
}

func (r *countingRegistrar) Register(db *gorm.DB) (*EntitySet, error) {
	atomic.AddInt32(&r.registrations, 1)
	if r.err != nil {
		return nil, r.err
	}
	return &EntitySet{db: db}, nil
}

func activeTenant(key, subdomain string) map[string]*model.Tenant {
	return map[string]*model.Tenant{
		key: {
			ID:        1,
			Subdomain: subdomain,
			Email:     key,
			DBName:    DatabaseName(subdomain),
			IsActive:  true,
		},
	}
}

func TestResolveOpensOnce(t *testing.T) {
	directory := &fakeDirectory{tenants: activeTenant("a@acme.com", "acme")}
	opener := &countingOpener{}
	registrar := &countingRegistrar{}
	resolver := NewResolver(directory, opener, registrar)

	first, err := resolver.Resolve(context.Background(), "a@acme.com")
	require.NoError(t, err)
	second, err := resolver.Resolve(context.Background(), "a@acme.com")
	require.NoError(t, err)

	assert.Same(t, first.Conn, second.Conn)
	assert.True(t, first.Opened, "first resolution opens the connection")
	assert.False(t, second.Opened, "second resolution is a cache hit")
	assert.EqualValues(t, 1, atomic.LoadInt32(&opener.opens))
	assert.EqualValues(t, 1, atomic.LoadInt32(&registrar.registrations))
	assert.Equal(t, 1, resolver.ConnectionCount())
}

func TestResolveConcurrentFirstRequests(t *testing.T) {
	directory := &fakeDirectory{tenants: activeTenant("a@acme.com", "acme")}
	opener := &countingOpener{}
	registrar := &countingRegistrar{}
	resolver := NewResolver(directory, opener, registrar)

	const callers = 32
	handles := make([]*Handle, callers)
	errs := make([]error, callers)
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func(i int) {
			defer wg.Done()
			handles[i], errs[i] = resolver.Resolve(context.Background(), "a@acme.com")
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
	}

	assert.EqualValues(t, 1, atomic.LoadInt32(&opener.opens), "connection opened more than once")
	assert.EqualValues(t, 1, atomic.LoadInt32(&registrar.registrations), "schema registered more than once")
	for i := 1; i < callers; i++ {
		assert.Same(t, handles[0].Conn, handles[i].Conn)
	}

	// Once the cache is warm every resolution reports a hit.
	handle, err := resolver.Resolve(context.Background(), "a@acme.com")
	require.NoError(t, err)
	assert.False(t, handle.Opened)
}

func TestResolveUnknownTenant(t *testing.T) {
	resolver := NewResolver(&fakeDirectory{tenants: map[string]*model.Tenant{}}, &countingOpener{}, &countingRegistrar{})

	_, err := resolver.Resolve(context.Background(), "ghost@nowhere.com")
	assert.ErrorIs(t, err, ErrTenantNotFound)
}

func TestResolveSuspendedTenant(t *testing.T) {
	tenants := activeTenant("a@acme.com", "acme")
	tenants["a@acme.com"].IsActive = false
	opener := &countingOpener{}
	resolver := NewResolver(&fakeDirectory{tenants: tenants}, opener, &countingRegistrar{})

	_, err := resolver.Resolve(context.Background(), "a@acme.com")
	assert.ErrorIs(t, err, ErrTenantSuspended)
	assert.EqualValues(t, 0, atomic.LoadInt32(&opener.opens), "suspended tenant must never reach the factory")
}

func TestResolveOpenFailureNotCached(t *testing.T) {
	directory := &fakeDirectory{tenants: activeTenant("a@acme.com", "acme")}
	opener := &countingOpener{err: wrap(ErrConnection, assert.AnError)}
	resolver := NewResolver(directory, opener, &countingRegistrar{})

	_, err := resolver.Resolve(context.Background(), "a@acme.com")
	assert.ErrorIs(t, err, ErrConnection)
	assert.Equal(t, 0, resolver.ConnectionCount())

	// Next attempt retries the open instead of serving a dead entry.
	opener.err = nil
	_, err = resolver.Resolve(context.Background(), "a@acme.com")
	assert.NoError(t, err)
	assert.Equal(t, 1, resolver.ConnectionCount())
}

func TestResolveBySubdomain(t *testing.T) {
	directory := &fakeDirectory{tenants: activeTenant("acme", "acme")}
	resolver := NewResolver(directory, &countingOpener{}, &countingRegistrar{})

	handle, err := resolver.Resolve(context.Background(), "acme")
	require.NoError(t, err)
	assert.Equal(t, "acme", handle.Tenant.Subdomain)
}

func TestResolveDistinctTenantsDistinctConnections(t *testing.T) {
	tenants := activeTenant("a@acme.com", "acme")
	for key, tenant := range activeTenant("b@bistro.com", "bistro") {
		tenant.ID = 2
		tenants[key] = tenant
	}
	opener := &countingOpener{}
	resolver := NewResolver(&fakeDirectory{tenants: tenants}, opener, &countingRegistrar{})

	first, err := resolver.Resolve(context.Background(), "a@acme.com")
	require.NoError(t, err)
	second, err := resolver.Resolve(context.Background(), "b@bistro.com")
	require.NoError(t, err)

	assert.NotSame(t, first.Conn, second.Conn)
	assert.EqualValues(t, 2, atomic.LoadInt32(&opener.opens))
	assert.Equal(t, 2, resolver.ConnectionCount())
}
