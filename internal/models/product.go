package models

import "time"

// Product represents a catalog entry on the marketing site. Content fields
// are bilingual; staff-facing metadata is single-locale.
type Product struct {
	ID           int64         `json:"id"`
	Slug         string        `json:"slug"`
	Category     string        `json:"category"`
	Name         LocalizedText `json:"name"`
	Description  LocalizedText `json:"description"`
	Features     LocalizedList `json:"features"`
	Applications LocalizedList `json:"applications"`
	ImagePath    string        `json:"image_path"`
	Published    bool          `json:"published"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// Validate performs validation on product data
func (p *Product) Validate() error {
	if p.Slug == "" {
		return ErrInvalidInput("slug is required")
	}
	if p.Category == "" {
		return ErrInvalidInput("category is required")
	}
	if p.Name.IsEmpty() {
		return ErrInvalidInput("name is required in at least one locale")
	}
	return nil
}
