package model

import (
	"time"

	"gorm.io/gorm"
)

// Category groups dishes on a tenant's menu.
type Category struct {
	ID          uint           `json:"category_id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"type:varchar(100);not null"`
	Description string         `json:"description" gorm:"type:varchar(255)"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	Dishes []Dish `json:"dishes,omitempty" gorm:"foreignKey:CategoryID"`
}

// Dish is one menu item, belonging to one Category.
type Dish struct {
	ID              uint           `json:"menu_id" gorm:"primaryKey"`
	CategoryID      uint           `json:"category_id" gorm:"index;not null"`
	Name            string         `json:"name" gorm:"type:varchar(150);not null"`
	Description     string         `json:"description" gorm:"type:text"`
	Price           float64        `json:"price" gorm:"type:decimal(10,2);not null"`
	PreparationTime int            `json:"preparation_time"` // minutes
	IsVegetarian    bool           `json:"is_vegetarian" gorm:"default:true"`
	IsAvailable     bool           `json:"is_available" gorm:"default:true"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `json:"-" gorm:"index"`

	Category   *Category   `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	OrderItems []OrderItem `json:"order_items,omitempty" gorm:"foreignKey:DishID"`
}

func (Dish) TableName() string {
	return "menu"
}
