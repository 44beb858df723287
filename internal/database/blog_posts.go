package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// BlogPost represents a blog post row
type BlogPost struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	Excerpt       string    `json:"excerpt"`
	Content       string    `json:"content"`
	Category      string    `json:"category"`
	Author        string    `json:"author"`
	FeaturedImage string    `json:"featured_image"`
	Published     bool      `json:"published"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// BlogPostInput holds every client-supplied blog post column
type BlogPostInput struct {
	Title         string `json:"title" validate:"required"`
	Slug          string `json:"slug" validate:"required"`
	Excerpt       string `json:"excerpt"`
	Content       string `json:"content"`
	Category      string `json:"category"`
	Author        string `json:"author"`
	FeaturedImage string `json:"featured_image"`
	Published     bool   `json:"published"`
}

// BlogPostUpdate is a partial blog post update; only set fields are written
type BlogPostUpdate struct {
	Title         Optional[string] `json:"title"`
	Slug          Optional[string] `json:"slug"`
	Excerpt       Optional[string] `json:"excerpt"`
	Content       Optional[string] `json:"content"`
	Category      Optional[string] `json:"category"`
	Author        Optional[string] `json:"author"`
	FeaturedImage Optional[string] `json:"featured_image"`
	Published     Optional[bool]   `json:"published"`
}

const blogPostColumns = `id, title, slug, excerpt, content, category, author,
	featured_image, published, created_at, updated_at`

func scanBlogPost(scanner rowScanner) (*BlogPost, error) {
	b := &BlogPost{}
	if err := scanner.Scan(&b.ID, &b.Title, &b.Slug, &b.Excerpt, &b.Content, &b.Category, &b.Author,
		&b.FeaturedImage, &b.Published, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return b, nil
}

func (db *db) listBlogPosts(ctx context.Context, query string, args ...any) ([]*BlogPost, error) {
	rows, err := db.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list blog posts: %w", err)
	}
	defer rows.Close()

	posts := []*BlogPost{}
	for rows.Next() {
		b, err := scanBlogPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan blog post: %w", err)
		}
		posts = append(posts, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate blog posts: %w", err)
	}
	return posts, nil
}

func (db *db) getBlogPost(ctx context.Context, query string, args ...any) (*BlogPost, error) {
	b, err := scanBlogPost(db.queryRow(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get blog post: %w", err)
	}
	return b, nil
}

// ListBlogPosts returns published posts, newest first
func (db *db) ListBlogPosts(ctx context.Context) ([]*BlogPost, error) {
	return db.listBlogPosts(ctx, `
		SELECT `+blogPostColumns+`
		FROM blog_posts
		WHERE published = true
		ORDER BY created_at DESC, id DESC
	`)
}

// ListBlogPostsForAdmin returns every post regardless of published state
func (db *db) ListBlogPostsForAdmin(ctx context.Context) ([]*BlogPost, error) {
	return db.listBlogPosts(ctx, `
		SELECT `+blogPostColumns+`
		FROM blog_posts
		ORDER BY created_at DESC, id DESC
	`)
}

// ListBlogPostsByCategory returns published posts in category, newest first
func (db *db) ListBlogPostsByCategory(ctx context.Context, category string) ([]*BlogPost, error) {
	return db.listBlogPosts(ctx, `
		SELECT `+blogPostColumns+`
		FROM blog_posts
		WHERE category = ? AND published = true
		ORDER BY created_at DESC, id DESC
	`, category)
}

// GetBlogPost retrieves a published post by ID.
// Unpublished posts are reported as absent.
func (db *db) GetBlogPost(ctx context.Context, id int64) (*BlogPost, error) {
	return db.getBlogPost(ctx, `
		SELECT `+blogPostColumns+`
		FROM blog_posts
		WHERE id = ? AND published = true
	`, id)
}

// GetBlogPostForAdmin retrieves a post by ID regardless of published state
func (db *db) GetBlogPostForAdmin(ctx context.Context, id int64) (*BlogPost, error) {
	return db.getBlogPost(ctx, `
		SELECT `+blogPostColumns+`
		FROM blog_posts
		WHERE id = ?
	`, id)
}

// GetBlogPostBySlug retrieves a published post by slug
func (db *db) GetBlogPostBySlug(ctx context.Context, slug string) (*BlogPost, error) {
	return db.getBlogPost(ctx, `
		SELECT `+blogPostColumns+`
		FROM blog_posts
		WHERE slug = ? AND published = true
	`, slug)
}

// CreateBlogPost inserts a post and returns the stored row. The read-back
// ignores the published flag so drafts are returned to their author.
func (db *db) CreateBlogPost(ctx context.Context, in BlogPostInput) (*BlogPost, error) {
	b, err := db.createBlogPost(ctx, in)
	if err != nil {
		log.Error().Err(err).Str("slug", in.Slug).Msg("Error creating blog post")
		return nil, err
	}
	return b, nil
}

func (db *db) createBlogPost(ctx context.Context, in BlogPostInput) (*BlogPost, error) {
	result, err := db.exec(ctx, `
		INSERT INTO blog_posts (
			title, slug, excerpt, content, category, author,
			featured_image, published
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, in.Title, in.Slug, in.Excerpt, in.Content, in.Category, in.Author,
		in.FeaturedImage, in.Published)
	if err != nil {
		return nil, fmt.Errorf("failed to create blog post: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoInsertID, err)
	}
	if id == 0 {
		return nil, ErrNoInsertID
	}

	created, err := db.GetBlogPostForAdmin(ctx, id)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, fmt.Errorf("%w: blog post %d", ErrReadBackMissing, id)
	}
	return created, nil
}

// UpdateBlogPost writes the set fields of patch and returns the stored row
func (db *db) UpdateBlogPost(ctx context.Context, id int64, patch BlogPostUpdate) (*BlogPost, error) {
	var s setClauses
	addSet(&s, "title", patch.Title)
	addSet(&s, "slug", patch.Slug)
	addSet(&s, "excerpt", patch.Excerpt)
	addSet(&s, "content", patch.Content)
	addSet(&s, "category", patch.Category)
	addSet(&s, "author", patch.Author)
	addSet(&s, "featured_image", patch.FeaturedImage)
	addSet(&s, "published", patch.Published)

	query, args := s.statement("blog_posts", true, id)
	if _, err := db.exec(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("failed to update blog post: %w", err)
	}

	updated, err := db.GetBlogPostForAdmin(ctx, id)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, fmt.Errorf("%w: blog post %d", ErrReadBackMissing, id)
	}
	return updated, nil
}

// DeleteBlogPost removes a post by ID
func (db *db) DeleteBlogPost(ctx context.Context, id int64) error {
	if _, err := db.exec(ctx, "DELETE FROM blog_posts WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete blog post: %w", err)
	}
	return nil
}
