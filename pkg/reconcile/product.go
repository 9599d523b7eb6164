package reconcile

import (
	"context"

	"github.com/maryline/catalogsync/pkg/catalog"
	"github.com/maryline/catalogsync/pkg/constants"
	"github.com/maryline/catalogsync/pkg/logging"
)

// syncProduct reconciles one product. An existing product is left alone;
// a new one cascades into its variants.
func (e *Engine) syncProduct(ctx context.Context, p catalog.Product) {
	log := logging.FromContext(ctx)

	rec, err := e.getOrCreate(ctx, catalog.KindProduct, constants.ExternalIDField, catalog.ExternalID(p.ID),
		func(ctx context.Context) (map[string]any, error) {
			attrs := map[string]any{
				"title":                   p.Name,
				constants.ExternalIDField: p.ID,
				"currency":                constants.DefaultCurrency,
			}
			if p.HasCategory() {
				cat, err := e.resolveCategory(ctx, *p.CategoryID, make(map[int64]bool))
				if err != nil {
					log.Warn().
						Int64("external_id", p.ID).
						Int64("category_id", *p.CategoryID).
						Err(err).
						Msg("Category unresolved, creating product without category")
				} else {
					attrs["categories"] = []int64{e.relation(cat.ID)}
				}
			}
			return attrs, nil
		})

	switch {
	case err != nil:
		e.summary.failed(catalog.KindProduct)
		progress(log.Warn(), catalog.KindProduct, p.ID).Err(err).Msg("failed")
	case rec.Existed:
		e.summary.skipped(catalog.KindProduct)
		progress(log.Info(), catalog.KindProduct, p.ID).Int64("id", rec.ID).Msg("skipped")
	default:
		n := e.syncVariants(ctx, rec, p.ID)
		log.Debug().Int64("external_id", p.ID).Int("variants", n).Msg("Product variants reconciled")
	}
}
