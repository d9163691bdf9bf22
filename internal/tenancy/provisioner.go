package tenancy

import (
	"context"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Deep-1402/cafe/internal/model"
)

// directoryCreator is the slice of the Directory the provisioner
// depends on.
type directoryCreator interface {
	Create(ctx context.Context, data SignupData) (*model.Tenant, error)
}

// databaseCreator opens connections and issues administrative CREATE
// DATABASE statements.
type databaseCreator interface {
	connectionOpener
	CreateDatabase(ctx context.Context, dbName string) error
}

// Provisioner orchestrates new-tenant onboarding: directory record,
// physical database, schema registration, seed administrator.
type Provisioner struct {
	directory directoryCreator
	factory   databaseCreator
	registrar schemaRegistrar
	seed      func(ctx context.Context, db *gorm.DB, data SignupData) error
}

// NewProvisioner creates a provisioner from its collaborators.
func NewProvisioner(directory directoryCreator, factory databaseCreator, registrar schemaRegistrar) *Provisioner {
	return &Provisioner{
		directory: directory,
		factory:   factory,
		registrar: registrar,
		seed:      seedAdmin,
	}
}

// Provision runs the signup flow. The directory insert carries the
// engine-enforced subdomain uniqueness, so a concurrent duplicate
// signup loses with ErrDuplicateTenant before anything physical
// happens. Failures after the insert leave an orphaned directory
// record behind and surface as ErrProvisioningIncomplete; nothing is
// rolled back automatically, but every later step is idempotent so an
// operator retry against the same record can finish the job.
func (p *Provisioner) Provision(ctx context.Context, data SignupData) (*model.Tenant, error) {
	tenant, err := p.directory.Create(ctx, data)
	if err != nil {
		return nil, err
	}

	if err := p.factory.CreateDatabase(ctx, tenant.DBName); err != nil {
		return nil, wrap(ErrProvisioningIncomplete, err)
	}

	// This handle only serves registration and seeding; the resolver
	// opens its own on first use.
	db, err := p.factory.Open(ctx, tenant.DBName)
	if err != nil {
		return nil, wrap(ErrProvisioningIncomplete, err)
	}
	defer closeDB(db)

	if _, err := p.registrar.Register(db); err != nil {
		return nil, wrap(ErrProvisioningIncomplete, err)
	}

	if err := p.seed(ctx, db, data); err != nil {
		return nil, wrap(ErrProvisioningIncomplete, err)
	}

	return tenant, nil
}

// seedAdmin creates the default role and the one administrator user in
// a freshly provisioned tenant database. FirstOrCreate keeps retries
// from duplicating either row.
func seedAdmin(ctx context.Context, db *gorm.DB, data SignupData) error {
	tx := db.WithContext(ctx)

	role := model.Role{Name: model.DefaultAdminRole}
	if err := tx.Where("name = ?", role.Name).FirstOrCreate(&role).Error; err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(data.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := model.StaffUser{
		Username: data.RestaurantName,
		Email:    data.Email,
		Password: string(hashed),
		RoleID:   role.ID,
		IsActive: true,
	}
	return tx.Where("email = ?", admin.Email).
		Attrs(admin).
		FirstOrCreate(&model.StaffUser{}).Error
}
