package tenancy

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Deep-1402/cafe/internal/model"
)

// stubConnector backs a real *sql.DB pool that never reaches a server,
// so tests can observe whether the pool was closed.
type stubConnector struct{}

func (stubConnector) Connect(context.Context) (driver.Conn, error) { return stubConn{}, nil }
func (stubConnector) Driver() driver.Driver                        { return nil }

type stubConn struct{}

func (stubConn) Prepare(string) (driver.Stmt, error) { return nil, io.EOF }
func (stubConn) Close() error                        { return nil }
func (stubConn) Begin() (driver.Tx, error)           { return nil, io.EOF }

type fakeDirectoryCreator struct {
	err     error
	created []SignupData
}

func (f *fakeDirectoryCreator) Create(ctx context.Context, data SignupData) (*model.Tenant, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, data)
	return &model.Tenant{
		ID:        1,
		Subdomain: data.Subdomain,
		Email:     data.Email,
		DBName:    DatabaseName(data.Subdomain),
		IsActive:  true,
	}, nil
}

type fakeDatabaseCreator struct {
	createErr error
	openErr   error
	created   []string
	opened    []string
	pools     []*sql.DB
}

func (f *fakeDatabaseCreator) CreateDatabase(ctx context.Context, dbName string) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, dbName)
	return nil
}

func (f *fakeDatabaseCreator) Open(ctx context.Context, dbName string) (*gorm.DB, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	f.opened = append(f.opened, dbName)
	pool := sql.OpenDB(stubConnector{})
	f.pools = append(f.pools, pool)
	return &gorm.DB{Config: &gorm.Config{ConnPool: pool}}, nil
}

func (f *fakeDatabaseCreator) assertPoolsClosed(t *testing.T) {
	t.Helper()
	for _, pool := range f.pools {
		err := pool.Ping()
		require.Error(t, err, "provisioning pool left open")
		assert.Contains(t, err.Error(), "database is closed")
	}
}

func signup() SignupData {
	return SignupData{
		RestaurantName: "Acme Bistro",
		Subdomain:      "acme",
		Email:          "owner@acme.com",
		Password:       "s3cret",
		PlanID:         1,
	}
}

func newTestProvisioner(directory *fakeDirectoryCreator, factory *fakeDatabaseCreator, registrar *countingRegistrar) (*Provisioner, *int) {
	p := NewProvisioner(directory, factory, registrar)
	seeded := 0
	p.seed = func(ctx context.Context, db *gorm.DB, data SignupData) error {
		seeded++
		return nil
	}
	return p, &seeded
}

func TestProvisionSuccess(t *testing.T) {
	directory := &fakeDirectoryCreator{}
	factory := &fakeDatabaseCreator{}
	p, seeded := newTestProvisioner(directory, factory, &countingRegistrar{})

	tenant, err := p.Provision(context.Background(), signup())
	require.NoError(t, err)

	assert.Equal(t, "acme", tenant.Subdomain)
	assert.Equal(t, []string{tenant.DBName}, factory.created)
	assert.Equal(t, []string{tenant.DBName}, factory.opened)
	assert.Equal(t, 1, *seeded)
	factory.assertPoolsClosed(t)
}

func TestProvisionDuplicateSubdomain(t *testing.T) {
	directory := &fakeDirectoryCreator{err: ErrDuplicateTenant}
	factory := &fakeDatabaseCreator{}
	p, seeded := newTestProvisioner(directory, factory, &countingRegistrar{})

	_, err := p.Provision(context.Background(), signup())
	assert.ErrorIs(t, err, ErrDuplicateTenant)
	assert.NotErrorIs(t, err, ErrProvisioningIncomplete)
	assert.Empty(t, factory.created, "duplicate signup must not touch the database engine")
	assert.Zero(t, *seeded)
}

func TestProvisionCreateDatabaseFailure(t *testing.T) {
	cause := errors.New("out of disk")
	directory := &fakeDirectoryCreator{}
	p, _ := newTestProvisioner(directory, &fakeDatabaseCreator{createErr: cause}, &countingRegistrar{})

	_, err := p.Provision(context.Background(), signup())
	assert.ErrorIs(t, err, ErrProvisioningIncomplete)
	assert.Contains(t, err.Error(), "out of disk")
	assert.Len(t, directory.created, 1, "directory record stays for operator retry")
}

func TestProvisionOpenFailure(t *testing.T) {
	p, _ := newTestProvisioner(&fakeDirectoryCreator{}, &fakeDatabaseCreator{openErr: errors.New("refused")}, &countingRegistrar{})

	_, err := p.Provision(context.Background(), signup())
	assert.ErrorIs(t, err, ErrProvisioningIncomplete)
}

func TestProvisionRegisterFailure(t *testing.T) {
	registrar := &countingRegistrar{err: wrap(ErrSchema, errors.New("migration failed"))}
	factory := &fakeDatabaseCreator{}
	p, seeded := newTestProvisioner(&fakeDirectoryCreator{}, factory, registrar)

	_, err := p.Provision(context.Background(), signup())
	assert.ErrorIs(t, err, ErrProvisioningIncomplete)
	assert.Zero(t, *seeded, "seed must not run against an unmigrated database")
	factory.assertPoolsClosed(t)
}

func TestProvisionSeedFailure(t *testing.T) {
	factory := &fakeDatabaseCreator{}
	p := NewProvisioner(&fakeDirectoryCreator{}, factory, &countingRegistrar{})
	p.seed = func(ctx context.Context, db *gorm.DB, data SignupData) error {
		return errors.New("seed blew up")
	}

	_, err := p.Provision(context.Background(), signup())
	assert.ErrorIs(t, err, ErrProvisioningIncomplete)
	assert.Contains(t, err.Error(), "seed blew up")
	factory.assertPoolsClosed(t)
}
