package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// GalleryImage represents an image in the public gallery
type GalleryImage struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	ImageURL    string    `json:"image_url"`
	AltText     string    `json:"alt_text"`
	OrderIndex  int       `json:"order_index"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

// GalleryImageInput holds every client-supplied gallery image column
type GalleryImageInput struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Category    string `json:"category"`
	ImageURL    string `json:"image_url" validate:"required"`
	AltText     string `json:"alt_text"`
	OrderIndex  int    `json:"order_index"`
	Active      bool   `json:"active"`
}

// GalleryImageUpdate is a partial gallery image update
type GalleryImageUpdate struct {
	Title       Optional[string] `json:"title"`
	Description Optional[string] `json:"description"`
	Category    Optional[string] `json:"category"`
	ImageURL    Optional[string] `json:"image_url"`
	AltText     Optional[string] `json:"alt_text"`
	OrderIndex  Optional[int]    `json:"order_index"`
	Active      Optional[bool]   `json:"active"`
}

const galleryImageColumns = `id, title, description, category, image_url, alt_text,
	order_index, active, created_at`

func scanGalleryImage(scanner rowScanner) (*GalleryImage, error) {
	g := &GalleryImage{}
	if err := scanner.Scan(&g.ID, &g.Title, &g.Description, &g.Category, &g.ImageURL, &g.AltText,
		&g.OrderIndex, &g.Active, &g.CreatedAt); err != nil {
		return nil, err
	}
	return g, nil
}

func (db *db) listGalleryImages(ctx context.Context, query string, args ...any) ([]*GalleryImage, error) {
	rows, err := db.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list gallery images: %w", err)
	}
	defer rows.Close()

	images := []*GalleryImage{}
	for rows.Next() {
		g, err := scanGalleryImage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan gallery image: %w", err)
		}
		images = append(images, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate gallery images: %w", err)
	}
	return images, nil
}

// ListGalleryImages returns active images in display order
func (db *db) ListGalleryImages(ctx context.Context) ([]*GalleryImage, error) {
	return db.listGalleryImages(ctx, `
		SELECT `+galleryImageColumns+`
		FROM gallery_images
		WHERE active = true
		ORDER BY order_index ASC, id ASC
	`)
}

// ListGalleryImagesForAdmin returns every image in display order
func (db *db) ListGalleryImagesForAdmin(ctx context.Context) ([]*GalleryImage, error) {
	return db.listGalleryImages(ctx, `
		SELECT `+galleryImageColumns+`
		FROM gallery_images
		ORDER BY order_index ASC, id ASC
	`)
}

// ListGalleryImagesByCategory returns active images in category, in display order
func (db *db) ListGalleryImagesByCategory(ctx context.Context, category string) ([]*GalleryImage, error) {
	return db.listGalleryImages(ctx, `
		SELECT `+galleryImageColumns+`
		FROM gallery_images
		WHERE category = ? AND active = true
		ORDER BY order_index ASC, id ASC
	`, category)
}

// ListGalleryCategories returns the distinct categories of active images
func (db *db) ListGalleryCategories(ctx context.Context) ([]string, error) {
	rows, err := db.query(ctx, `
		SELECT DISTINCT category
		FROM gallery_images
		WHERE active = true AND category != ''
		ORDER BY category ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list gallery categories: %w", err)
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, fmt.Errorf("failed to scan gallery category: %w", err)
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

// GetGalleryImage retrieves an image by ID regardless of the active flag
func (db *db) GetGalleryImage(ctx context.Context, id int64) (*GalleryImage, error) {
	g, err := scanGalleryImage(db.queryRow(ctx, `
		SELECT `+galleryImageColumns+`
		FROM gallery_images
		WHERE id = ?
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get gallery image: %w", err)
	}
	return g, nil
}

// CreateGalleryImage inserts an image and returns the stored row
func (db *db) CreateGalleryImage(ctx context.Context, in GalleryImageInput) (*GalleryImage, error) {
	created, err := db.createGalleryImage(ctx, in)
	if err != nil {
		log.Error().Err(err).Str("title", in.Title).Msg("Error creating gallery image")
		return nil, err
	}
	return created, nil
}

func (db *db) createGalleryImage(ctx context.Context, in GalleryImageInput) (*GalleryImage, error) {
	result, err := db.exec(ctx, `
		INSERT INTO gallery_images (
			title, description, category, image_url, alt_text,
			order_index, active
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`, in.Title, in.Description, in.Category, in.ImageURL, in.AltText,
		in.OrderIndex, in.Active)
	if err != nil {
		return nil, fmt.Errorf("failed to create gallery image: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoInsertID, err)
	}
	if id == 0 {
		return nil, ErrNoInsertID
	}

	created, err := db.GetGalleryImage(ctx, id)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, fmt.Errorf("%w: gallery image %d", ErrReadBackMissing, id)
	}
	return created, nil
}

// UpdateGalleryImage writes the set fields of patch and returns the stored row
func (db *db) UpdateGalleryImage(ctx context.Context, id int64, patch GalleryImageUpdate) (*GalleryImage, error) {
	var s setClauses
	addSet(&s, "title", patch.Title)
	addSet(&s, "description", patch.Description)
	addSet(&s, "category", patch.Category)
	addSet(&s, "image_url", patch.ImageURL)
	addSet(&s, "alt_text", patch.AltText)
	addSet(&s, "order_index", patch.OrderIndex)
	addSet(&s, "active", patch.Active)

	query, args := s.statement("gallery_images", false, id)
	if _, err := db.exec(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("failed to update gallery image: %w", err)
	}

	updated, err := db.GetGalleryImage(ctx, id)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, fmt.Errorf("%w: gallery image %d", ErrReadBackMissing, id)
	}
	return updated, nil
}

// DeleteGalleryImage removes an image by ID
func (db *db) DeleteGalleryImage(ctx context.Context, id int64) error {
	if _, err := db.exec(ctx, "DELETE FROM gallery_images WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete gallery image: %w", err)
	}
	return nil
}
