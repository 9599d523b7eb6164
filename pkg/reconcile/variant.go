package reconcile

import (
	"context"
	"encoding/json"

	"github.com/maryline/catalogsync/pkg/catalog"
	"github.com/maryline/catalogsync/pkg/constants"
	"github.com/maryline/catalogsync/pkg/logging"
)

// syncVariants reconciles the offers of a newly created product and
// returns how many variants were created.
func (e *Engine) syncVariants(ctx context.Context, product catalog.Record, productID int64) int {
	log := logging.FromContext(ctx)

	offers, err := e.source.ListOffers(ctx, productID, e.opts.OfferLimit)
	if err != nil {
		e.summary.failed(catalog.KindVariant)
		log.Warn().Int64("product_id", productID).Err(err).Msg("Offers unavailable, skipping variants")
		return 0
	}

	created := 0
	for _, o := range offers {
		if ctx.Err() != nil {
			break
		}
		rec, err := e.getOrCreate(ctx, catalog.KindVariant, constants.ExternalIDField, catalog.ExternalID(o.ID),
			func(ctx context.Context) (map[string]any, error) {
				return map[string]any{
					"sku":                     o.EffectiveSKU(),
					constants.ExternalIDField: o.ID,
					"product":                 e.relation(product.ID),
					"size":                    e.optionalLink(ctx, e.sizes(), o.Properties, e.opts.SizeLabel, o.ID),
					"color":                   e.optionalLink(ctx, e.colors(), o.Properties, e.opts.ColorLabel, o.ID),
					"price":                   json.Number(o.Price.String()),
				}, nil
			})

		switch {
		case err != nil:
			e.summary.failed(catalog.KindVariant)
			progress(log.Warn(), catalog.KindVariant, o.ID).Err(err).Msg("failed")
		case rec.Existed:
			e.summary.skipped(catalog.KindVariant)
			progress(log.Info(), catalog.KindVariant, o.ID).Int64("id", rec.ID).Msg("skipped")
		default:
			created++
			e.syncStock(ctx, rec, o.ID)
		}
	}
	return created
}
