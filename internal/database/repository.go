package database

import "context"

// ProjectRepository is the record access contract for projects
type ProjectRepository interface {
	ListProjects(ctx context.Context) ([]*Project, error)
	ListActiveProjects(ctx context.Context) ([]*Project, error)
	GetProject(ctx context.Context, id int64) (*Project, error)
	CreateProject(ctx context.Context, in ProjectInput) (*Project, error)
	UpdateProject(ctx context.Context, id int64, patch ProjectUpdate) (*Project, error)
	DeleteProject(ctx context.Context, id int64) error
	GetProjectStats(ctx context.Context) (*ProjectStats, error)
}

// BlogPostRepository is the record access contract for blog posts.
// Methods without the ForAdmin suffix only see published posts.
type BlogPostRepository interface {
	ListBlogPosts(ctx context.Context) ([]*BlogPost, error)
	ListBlogPostsForAdmin(ctx context.Context) ([]*BlogPost, error)
	ListBlogPostsByCategory(ctx context.Context, category string) ([]*BlogPost, error)
	GetBlogPost(ctx context.Context, id int64) (*BlogPost, error)
	GetBlogPostForAdmin(ctx context.Context, id int64) (*BlogPost, error)
	GetBlogPostBySlug(ctx context.Context, slug string) (*BlogPost, error)
	CreateBlogPost(ctx context.Context, in BlogPostInput) (*BlogPost, error)
	UpdateBlogPost(ctx context.Context, id int64, patch BlogPostUpdate) (*BlogPost, error)
	DeleteBlogPost(ctx context.Context, id int64) error
}

// TeamMemberRepository is the record access contract for team members
type TeamMemberRepository interface {
	ListTeamMembers(ctx context.Context) ([]*TeamMember, error)
	ListTeamMembersForAdmin(ctx context.Context) ([]*TeamMember, error)
	GetTeamMember(ctx context.Context, id int64) (*TeamMember, error)
	CreateTeamMember(ctx context.Context, in TeamMemberInput) (*TeamMember, error)
	UpdateTeamMember(ctx context.Context, id int64, patch TeamMemberUpdate) (*TeamMember, error)
	DeleteTeamMember(ctx context.Context, id int64) error
}

// GalleryImageRepository is the record access contract for gallery images
type GalleryImageRepository interface {
	ListGalleryImages(ctx context.Context) ([]*GalleryImage, error)
	ListGalleryImagesForAdmin(ctx context.Context) ([]*GalleryImage, error)
	ListGalleryImagesByCategory(ctx context.Context, category string) ([]*GalleryImage, error)
	ListGalleryCategories(ctx context.Context) ([]string, error)
	GetGalleryImage(ctx context.Context, id int64) (*GalleryImage, error)
	CreateGalleryImage(ctx context.Context, in GalleryImageInput) (*GalleryImage, error)
	UpdateGalleryImage(ctx context.Context, id int64, patch GalleryImageUpdate) (*GalleryImage, error)
	DeleteGalleryImage(ctx context.Context, id int64) error
}
