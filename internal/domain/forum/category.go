package forum

import "time"

type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"column:name;size:100;not null;uniqueIndex" json:"name"`
	Slug        string    `gorm:"column:slug;size:100;not null;uniqueIndex" json:"slug"`
	Description string    `gorm:"column:description;type:text" json:"description,omitempty"`
	IsActive    bool      `gorm:"column:is_active;not null" json:"is_active"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (Category) TableName() string { return "categories" }

type Subcategory struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CategoryID  uint      `gorm:"column:category_id;not null;uniqueIndex:idx_subcategory_category_slug,priority:1" json:"category_id"`
	Name        string    `gorm:"column:name;size:100;not null" json:"name"`
	Slug        string    `gorm:"column:slug;size:100;not null;uniqueIndex:idx_subcategory_category_slug,priority:2" json:"slug"`
	Description string    `gorm:"column:description;type:text" json:"description,omitempty"`
	IsActive    bool      `gorm:"column:is_active;not null" json:"is_active"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (Subcategory) TableName() string { return "subcategories" }
