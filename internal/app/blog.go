package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"recipe-shopper/internal/ghost"
	"recipe-shopper/internal/recipe"
)

var ErrNoBlog = errors.New("no blog configured")

// Blog is a recipe blog posts can be imported from and published to.
type Blog interface {
	FetchPosts(ctx context.Context) ([]ghost.Post, error)
	CreatePost(ctx context.Context, title, html string, publish bool) (*ghost.Post, error)
}

// EnableBlog connects a blog for SyncBlog and PublishRecipe.
func (a *App) EnableBlog(b Blog) {
	a.blog = b
}

// SyncReport summarizes a blog import.
type SyncReport struct {
	Imported []recipe.Recipe
	Existing int
	Failed   map[string]error // by post title
}

// SyncBlog imports every post not yet stored. Posts are matched to recipes by
// URL. Posts without a recognizable recipe are reported, not fatal; hitting
// the recipe limit stops the import.
func (a *App) SyncBlog(ctx context.Context, owner string) (*SyncReport, error) {
	if a.blog == nil {
		return nil, ErrNoBlog
	}
	posts, err := a.blog.FetchPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch posts: %w", err)
	}
	recipes, err := a.recipeRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(recipes))
	for _, r := range recipes {
		if r.SourceURL != "" {
			known[r.SourceURL] = true
		}
	}

	report := &SyncReport{Failed: make(map[string]error)}
	for _, post := range posts {
		if post.URL != "" && known[post.URL] {
			report.Existing++
			continue
		}
		res, err := a.recipeClipper.ClipHTML(post.HTML, post.Title, post.URL)
		if err != nil {
			report.Failed[post.Title] = err
			continue
		}
		saved, err := a.AddRecipe(ctx, owner, res.Recipe)
		if errors.Is(err, ErrTooManyRecipes) {
			return report, err
		}
		if err != nil {
			report.Failed[post.Title] = err
			continue
		}
		report.Imported = append(report.Imported, *saved)
	}

	a.logger.Info("blog sync finished",
		zap.Int("imported", len(report.Imported)), zap.Int("existing", report.Existing), zap.Int("failed", len(report.Failed)))
	return report, nil
}

// PublishRecipe posts a recipe to the blog, as a draft unless publish is set.
// A recipe without a source URL takes the post URL, so a later sync skips it.
func (a *App) PublishRecipe(ctx context.Context, id string, publish bool) (*ghost.Post, error) {
	if a.blog == nil {
		return nil, ErrNoBlog
	}
	rec, err := a.GetRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	body, err := ghost.RenderRecipe(*rec)
	if err != nil {
		return nil, err
	}
	post, err := a.blog.CreatePost(ctx, rec.Name, body, publish)
	if err != nil {
		return nil, fmt.Errorf("failed to publish recipe: %w", err)
	}

	if rec.SourceURL == "" && post.URL != "" {
		rec.SourceURL = post.URL
		if err := a.recipeRepo.Save(ctx, *rec); err != nil {
			return nil, err
		}
	}
	a.logger.Info("recipe published", zap.String("recipe_id", id), zap.String("post_id", post.ID))
	return post, nil
}
