package reconcile

import (
	"context"

	"github.com/maryline/catalogsync/pkg/catalog"
	"github.com/maryline/catalogsync/pkg/constants"
	"github.com/maryline/catalogsync/pkg/errors"
	"github.com/maryline/catalogsync/pkg/logging"
	"github.com/maryline/catalogsync/pkg/slug"
)

// ResolveCategory returns the destination category for a source category
// id, creating it and any missing ancestors. It must be called after Run
// has loaded the category snapshot.
func (e *Engine) ResolveCategory(ctx context.Context, id int64) (catalog.Record, error) {
	return e.resolveCategory(ctx, id, make(map[int64]bool))
}

// resolveCategory walks the parent chain depth first. path holds the ids
// on the current chain; meeting one again means the chain loops.
func (e *Engine) resolveCategory(ctx context.Context, id int64, path map[int64]bool) (catalog.Record, error) {
	if path[id] {
		return catalog.Record{}, errors.WrapResource("resolve", "category", catalog.ExternalID(id), errors.ErrCycle)
	}
	path[id] = true
	defer delete(path, id)

	return e.getOrCreate(ctx, catalog.KindCategory, constants.ExternalIDField, catalog.ExternalID(id),
		func(ctx context.Context) (map[string]any, error) {
			cat, ok := e.categories[id]
			if !ok {
				return nil, errors.NewNotFoundError("category", catalog.ExternalID(id))
			}

			attrs := map[string]any{
				"name":                    cat.Name,
				constants.ExternalIDField: cat.ID,
				"slug":                    slug.Make(cat.Name),
				"collection":              false,
			}
			if cat.HasParent() {
				parent, err := e.resolveCategory(ctx, *cat.ParentID, path)
				if err != nil {
					logging.FromContext(ctx).Warn().
						Int64("external_id", cat.ID).
						Int64("parent_id", *cat.ParentID).
						Err(err).
						Msg("Parent unresolved, creating category without parent")
				} else {
					attrs["parent_categories"] = []int64{e.relation(parent.ID)}
				}
			}
			return attrs, nil
		})
}
