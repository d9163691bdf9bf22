package tenancy

import (
	"gorm.io/gorm"

	"github.com/Deep-1402/cafe/internal/model"
)

// tenantEntities is the single ordered registry of everything that
// lives in a tenant database. Referenced tables come before their
// dependents so constraint creation never runs ahead of its target.
var tenantEntities = []interface{}{
	&model.Role{},
	&model.Module{},
	&model.Permission{},
	&model.StaffUser{},
	&model.Category{},
	&model.Dish{},
	&model.Order{},
	&model.OrderItem{},
	&model.Billing{},
	&model.Feedback{},
	&model.Chat{},
	&model.Message{},
}

// Cardinalities used by the relation table.
const (
	oneToMany = "1-N"
	oneToOne  = "1-1"
)

// relation declares one edge of the tenant schema graph: the owning
// model, the dependent model, and the dependent's association field
// holding the foreign key.
type relation struct {
	Owner       interface{}
	Dependent   interface{}
	Field       string
	Cardinality string
}

// tenantRelations is the declarative relationship table the registrar
// verifies after migration. The gorm association tags on the model
// structs are the mechanism; this table is the contract.
var tenantRelations = []relation{
	{&model.Role{}, &model.StaffUser{}, "Users", oneToMany},
	{&model.Role{}, &model.Permission{}, "Permissions", oneToMany},
	{&model.Module{}, &model.Permission{}, "Permissions", oneToMany},
	{&model.Category{}, &model.Dish{}, "Dishes", oneToMany},
	{&model.StaffUser{}, &model.Order{}, "Orders", oneToMany},
	{&model.Order{}, &model.OrderItem{}, "Items", oneToMany},
	{&model.Dish{}, &model.OrderItem{}, "OrderItems", oneToMany},
	{&model.Order{}, &model.Billing{}, "Billing", oneToOne},
	{&model.Order{}, &model.Feedback{}, "Feedback", oneToOne},
	{&model.Chat{}, &model.Message{}, "Messages", oneToMany},
}

// EntitySet pairs a live tenant connection with its registered
// schema. Handles derived from it never outlive the connection they
// were built against.
type EntitySet struct {
	db *gorm.DB
}

// DB returns the tenant-scoped gorm handle.
func (s *EntitySet) DB() *gorm.DB {
	return s.db
}

// Registrar declares the tenant schema against a connection.
type Registrar struct{}

// NewRegistrar creates a schema registrar.
func NewRegistrar() *Registrar {
	return &Registrar{}
}

// Register migrates the tenant entity set against db and verifies the
// relationship table. AutoMigrate creates missing tables and columns
// and leaves existing ones untouched, so calling Register twice
// against the same database is a no-op the second time. Any rejected
// statement fails the registration as a whole with ErrSchema.
func (r *Registrar) Register(db *gorm.DB) (*EntitySet, error) {
	if err := db.AutoMigrate(tenantEntities...); err != nil {
		return nil, wrap(ErrSchema, err)
	}

	migrator := db.Migrator()
	for _, rel := range tenantRelations {
		if migrator.HasConstraint(rel.Owner, rel.Field) {
			continue
		}
		if err := migrator.CreateConstraint(rel.Owner, rel.Field); err != nil {
			return nil, wrap(ErrSchema, err)
		}
	}

	return &EntitySet{db: db}, nil
}
