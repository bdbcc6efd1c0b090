package entity

import (
	"strings"
	"time"
)

type Brand struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Sneaker is a catalog product. Brand, Category and CreatedBy reference rows by id.
type Sneaker struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Image       string    `json:"image"`
	IsReady     bool      `json:"isReady"`
	BrandID     string    `json:"brand"`
	CategoryID  string    `json:"category"`
	Slug        string    `json:"slug"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Slugify lowercases name and joins its words with "-".
func Slugify(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), "-"))
}
