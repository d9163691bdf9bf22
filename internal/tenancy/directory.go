package tenancy

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Deep-1402/cafe/internal/model"
)

// SignupData is the input to tenant creation.
type SignupData struct {
	RestaurantName string `json:"restaurant_name"`
	Subdomain      string `json:"subdomain"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	PlanID         uint   `json:"plan_id"`
}

// Directory is the master-database lookup mapping a tenant key to its
// directory record.
type Directory struct {
	db *gorm.DB
}

// NewDirectory creates a directory over the master database handle.
func NewDirectory(db *gorm.DB) *Directory {
	return &Directory{db: db}
}

// FindByEmail looks up the tenant owning the given admin email.
// Suspended tenants are reported as ErrTenantSuspended, distinct from
// ErrTenantNotFound, so callers can show the right message.
func (d *Directory) FindByEmail(ctx context.Context, email string) (*model.Tenant, error) {
	return d.find(ctx, "email = ?", email)
}

// FindBySubdomain looks up the tenant by its routing subdomain.
func (d *Directory) FindBySubdomain(ctx context.Context, subdomain string) (*model.Tenant, error) {
	return d.find(ctx, "subdomain = ?", SanitizeSubdomain(subdomain))
}

func (d *Directory) find(ctx context.Context, query string, arg interface{}) (*model.Tenant, error) {
	var tenant model.Tenant
	result := d.db.WithContext(ctx).Where(query, arg).First(&tenant)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, wrap(ErrConnection, result.Error)
	}
	if !tenant.IsActive {
		return nil, ErrTenantSuspended
	}
	return &tenant, nil
}

// Create inserts the directory record for a new tenant, hashing the
// admin password and computing the database name once. Subdomain
// uniqueness rides on the unique index, not a read-then-write, so two
// concurrent signups for the same subdomain cannot both succeed: the
// loser observes ErrDuplicateTenant.
func (d *Directory) Create(ctx context.Context, data SignupData) (*model.Tenant, error) {
	subdomain := SanitizeSubdomain(data.Subdomain)

	hashed, err := bcrypt.GenerateFromPassword([]byte(data.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	tenant := model.Tenant{
		RestaurantName: data.RestaurantName,
		Subdomain:      subdomain,
		Email:          data.Email,
		Password:       string(hashed),
		PlanID:         data.PlanID,
		DBName:         DatabaseName(subdomain),
		IsActive:       true,
	}

	if result := d.db.WithContext(ctx).Create(&tenant); result.Error != nil {
		if isUniqueViolation(result.Error) {
			return nil, ErrDuplicateTenant
		}
		return nil, wrap(ErrConnection, result.Error)
	}

	return &tenant, nil
}

// CountByPlan reports how many live tenants reference a subscription
// plan. Plan deletion is rejected while this is non-zero.
func (d *Directory) CountByPlan(ctx context.Context, planID uint) (int64, error) {
	var count int64
	result := d.db.WithContext(ctx).Model(&model.Tenant{}).Where("plan_id = ?", planID).Count(&count)
	if result.Error != nil {
		return 0, wrap(ErrConnection, result.Error)
	}
	return count, nil
}
