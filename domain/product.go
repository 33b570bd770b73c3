package domain

import "time"

// CREATE TABLE public.products (
//     id          BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     product_id  BIGINT UNIQUE,
//     name        TEXT,
//     category    TEXT,
//     style       TEXT,
//     created_at  TIMESTAMPTZ DEFAULT NOW()
// );

type Product struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"-"`
	ProductID uint64    `gorm:"column:product_id;uniqueIndex" json:"product_id"`
	Name      string    `gorm:"column:name;type:text" json:"name"`
	Category  string    `gorm:"column:category;type:text" json:"category"`
	Style     string    `gorm:"column:style;type:text;default:General" json:"style,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at" json:"-"`
}

func (Product) TableName() string {
	return "products"
}
