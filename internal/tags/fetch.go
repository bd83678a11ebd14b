package tags

import (
	"context"

	"github.com/authoring-labs/debugtags/internal/api"
	"golang.org/x/sync/errgroup"
)

// Source is the subset of the host API the view needs.
type Source interface {
	ListTags(ctx context.Context, q api.TagQuery) ([]api.Tag, error)
	ListCourses(ctx context.Context) ([]api.Item, error)
	ListAssets(ctx context.Context) ([]api.Item, error)
	RenameTag(ctx context.Context, id, title string) error
	TransferTag(ctx context.Context, id, destID string) error
	DeleteTag(ctx context.Context, id string) error
}

// Fetch requests tags, courses and assets concurrently and aggregates them.
// The first failure cancels the other requests and fails the whole fetch.
func Fetch(ctx context.Context, src Source, q api.TagQuery, sorter *Sorter) (Snapshot, error) {
	var (
		tagList []api.Tag
		courses []api.Item
		assets  []api.Item
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tagList, err = src.ListTags(gctx, q)
		return err
	})
	g.Go(func() error {
		var err error
		courses, err = src.ListCourses(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		assets, err = src.ListAssets(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}

	return Aggregate(tagList, courses, assets, sorter), nil
}
