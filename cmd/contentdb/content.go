package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/saltyorg/contentdb/internal/database"
)

func (c *cli) projectsCmd() *cobra.Command {
	var activeOnly bool

	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project"},
		Short:   "Manage projects",
		Long: `Manage projects. Create and update read JSON from stdin; start_date is an
RFC 3339 timestamp such as 2024-03-01T00:00:00Z.`,
	}

	list := listCmd(c, "list", "List projects, newest first", func(ctx context.Context, cmd *cobra.Command, args []string) ([]*database.Project, error) {
		if activeOnly {
			return c.store.ListActiveProjects(ctx)
		}
		return c.store.ListProjects(ctx)
	})
	list.Args = cobra.NoArgs
	list.Flags().BoolVar(&activeOnly, "active", false, "Only list active projects")

	rec := record[database.Project, database.ProjectInput, database.ProjectUpdate]{
		noun: "project",
		get: func(ctx context.Context, id int64) (*database.Project, error) {
			return c.store.GetProject(ctx, id)
		},
		create: func(ctx context.Context, in database.ProjectInput) (*database.Project, error) {
			return c.store.CreateProject(ctx, in)
		},
		update: func(ctx context.Context, id int64, patch database.ProjectUpdate) (*database.Project, error) {
			return c.store.UpdateProject(ctx, id, patch)
		},
		delete: func(ctx context.Context, id int64) error {
			return c.store.DeleteProject(ctx, id)
		},
		validatePatch: validateProjectUpdate,
	}

	cmd.AddCommand(list)
	cmd.AddCommand(rec.commands(c)...)
	return cmd
}

func validateProjectUpdate(p database.ProjectUpdate) error {
	title, titleSet := p.Title.Get()
	status, statusSet := p.Status.Get()
	progress, progressSet := p.Progress.Get()
	budget, budgetSet := p.Budget.Get()
	raised, raisedSet := p.Raised.Get()
	beneficiaries, beneficiariesSet := p.Beneficiaries.Get()

	return errors.Join(
		validateField("title", titleSet, title, "required"),
		validateField("status", statusSet, string(status), "oneof=active completed planned paused"),
		validateField("progress", progressSet, progress, "min=0,max=100"),
		validateField("budget", budgetSet, budget, "min=0"),
		validateField("raised", raisedSet && raised != nil, derefOrZero(raised), "min=0"),
		validateField("beneficiaries", beneficiariesSet && beneficiaries != nil, derefOrZero(beneficiaries), "min=0"),
	)
}

func derefOrZero[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func (c *cli) postsCmd() *cobra.Command {
	var (
		admin    bool
		category string
	)

	cmd := &cobra.Command{
		Use:     "posts",
		Aliases: []string{"post"},
		Short:   "Manage blog posts",
		Long: `Manage blog posts. Public reads only see published posts; pass --admin to
include drafts.`,
	}

	list := listCmd(c, "list", "List blog posts, newest first", func(ctx context.Context, cmd *cobra.Command, args []string) ([]*database.BlogPost, error) {
		switch {
		case category != "":
			return c.store.ListBlogPostsByCategory(ctx, category)
		case admin:
			return c.store.ListBlogPostsForAdmin(ctx)
		default:
			return c.store.ListBlogPosts(ctx)
		}
	})
	list.Args = cobra.NoArgs
	list.Flags().BoolVar(&admin, "admin", false, "Include unpublished posts")
	list.Flags().StringVar(&category, "category", "", "Only list published posts in this category")
	list.MarkFlagsMutuallyExclusive("admin", "category")

	rec := record[database.BlogPost, database.BlogPostInput, database.BlogPostUpdate]{
		noun: "blog post",
		get: func(ctx context.Context, id int64) (*database.BlogPost, error) {
			if admin {
				return c.store.GetBlogPostForAdmin(ctx, id)
			}
			return c.store.GetBlogPost(ctx, id)
		},
		create: func(ctx context.Context, in database.BlogPostInput) (*database.BlogPost, error) {
			return c.store.CreateBlogPost(ctx, in)
		},
		update: func(ctx context.Context, id int64, patch database.BlogPostUpdate) (*database.BlogPost, error) {
			return c.store.UpdateBlogPost(ctx, id, patch)
		},
		delete: func(ctx context.Context, id int64) error {
			return c.store.DeleteBlogPost(ctx, id)
		},
		validatePatch: func(p database.BlogPostUpdate) error {
			title, titleSet := p.Title.Get()
			slug, slugSet := p.Slug.Get()
			return errors.Join(
				validateField("title", titleSet, title, "required"),
				validateField("slug", slugSet, slug, "required"),
			)
		},
	}

	recCmds := rec.commands(c)
	recCmds[0].Flags().BoolVar(&admin, "admin", false, "Include unpublished posts")

	slug := &cobra.Command{
		Use:   "slug <slug>",
		Short: "Show one published blog post by slug",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.commandContext(cmd)
			defer cancel()
			return showOne(cmd, "blog post", args[0], func() (*database.BlogPost, error) {
				return c.store.GetBlogPostBySlug(ctx, args[0])
			})
		},
	}

	cmd.AddCommand(list, slug)
	cmd.AddCommand(recCmds...)
	return cmd
}

func (c *cli) teamCmd() *cobra.Command {
	var admin bool

	cmd := &cobra.Command{
		Use:   "team",
		Short: "Manage team members",
	}

	list := listCmd(c, "list", "List team members in display order", func(ctx context.Context, cmd *cobra.Command, args []string) ([]*database.TeamMember, error) {
		if admin {
			return c.store.ListTeamMembersForAdmin(ctx)
		}
		return c.store.ListTeamMembers(ctx)
	})
	list.Args = cobra.NoArgs
	list.Flags().BoolVar(&admin, "admin", false, "Include inactive members")

	rec := record[database.TeamMember, database.TeamMemberInput, database.TeamMemberUpdate]{
		noun: "team member",
		get: func(ctx context.Context, id int64) (*database.TeamMember, error) {
			return c.store.GetTeamMember(ctx, id)
		},
		create: func(ctx context.Context, in database.TeamMemberInput) (*database.TeamMember, error) {
			return c.store.CreateTeamMember(ctx, in)
		},
		update: func(ctx context.Context, id int64, patch database.TeamMemberUpdate) (*database.TeamMember, error) {
			return c.store.UpdateTeamMember(ctx, id, patch)
		},
		delete: func(ctx context.Context, id int64) error {
			return c.store.DeleteTeamMember(ctx, id)
		},
		validatePatch: func(p database.TeamMemberUpdate) error {
			name, nameSet := p.Name.Get()
			email, emailSet := p.Email.Get()
			linkedIn, linkedInSet := p.LinkedIn.Get()
			return errors.Join(
				validateField("name", nameSet, name, "required"),
				validateField("email", emailSet, email, "omitempty,email"),
				validateField("linkedin", linkedInSet, linkedIn, "omitempty,url"),
			)
		},
	}

	cmd.AddCommand(list)
	cmd.AddCommand(rec.commands(c)...)
	return cmd
}

func (c *cli) galleryCmd() *cobra.Command {
	var (
		admin    bool
		category string
	)

	cmd := &cobra.Command{
		Use:   "gallery",
		Short: "Manage gallery images",
	}

	list := listCmd(c, "list", "List gallery images in display order", func(ctx context.Context, cmd *cobra.Command, args []string) ([]*database.GalleryImage, error) {
		switch {
		case category != "":
			return c.store.ListGalleryImagesByCategory(ctx, category)
		case admin:
			return c.store.ListGalleryImagesForAdmin(ctx)
		default:
			return c.store.ListGalleryImages(ctx)
		}
	})
	list.Args = cobra.NoArgs
	list.Flags().BoolVar(&admin, "admin", false, "Include inactive images")
	list.Flags().StringVar(&category, "category", "", "Only list active images in this category")
	list.MarkFlagsMutuallyExclusive("admin", "category")

	categories := listCmd(c, "categories", "List categories of active images", func(ctx context.Context, cmd *cobra.Command, args []string) ([]string, error) {
		return c.store.ListGalleryCategories(ctx)
	})
	categories.Args = cobra.NoArgs

	rec := record[database.GalleryImage, database.GalleryImageInput, database.GalleryImageUpdate]{
		noun: "gallery image",
		get: func(ctx context.Context, id int64) (*database.GalleryImage, error) {
			return c.store.GetGalleryImage(ctx, id)
		},
		create: func(ctx context.Context, in database.GalleryImageInput) (*database.GalleryImage, error) {
			return c.store.CreateGalleryImage(ctx, in)
		},
		update: func(ctx context.Context, id int64, patch database.GalleryImageUpdate) (*database.GalleryImage, error) {
			return c.store.UpdateGalleryImage(ctx, id, patch)
		},
		delete: func(ctx context.Context, id int64) error {
			return c.store.DeleteGalleryImage(ctx, id)
		},
		validatePatch: func(p database.GalleryImageUpdate) error {
			title, titleSet := p.Title.Get()
			imageURL, imageURLSet := p.ImageURL.Get()
			return errors.Join(
				validateField("title", titleSet, title, "required"),
				validateField("image_url", imageURLSet, imageURL, "required"),
			)
		},
	}

	cmd.AddCommand(list, categories)
	cmd.AddCommand(rec.commands(c)...)
	return cmd
}
