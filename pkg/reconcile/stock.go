package reconcile

import (
	"context"

	"github.com/maryline/catalogsync/pkg/catalog"
	"github.com/maryline/catalogsync/pkg/logging"
)

// syncStock creates one stock record per warehouse holding the offer.
// Stock is only written for variants created in this run, so no lookup
// precedes the creation.
func (e *Engine) syncStock(ctx context.Context, variant catalog.Record, offerID int64) {
	log := logging.FromContext(ctx)

	entries, err := e.source.GetStocks(ctx, offerID)
	if err != nil {
		e.summary.failed(catalog.KindStock)
		log.Warn().Int64("offer_id", offerID).Err(err).Msg("Stock unavailable, skipping")
		return
	}

	for _, s := range entries {
		if s.Quantity < 0 || (s.Quantity == 0 && e.opts.EmptyStock == EmptyStockSkip) {
			e.summary.skipped(catalog.KindStock)
			log.Debug().
				Int64("offer_id", offerID).
				Str("warehouse", s.WarehouseName).
				Int("quantity", s.Quantity).
				Msg("skipped")
			continue
		}

		warehouse, err := e.resolve(ctx, e.stores(s.WarehouseID), s.WarehouseName)
		if err != nil {
			e.summary.failed(catalog.KindStore)
			e.summary.failed(catalog.KindStock)
			log.Warn().Int64("offer_id", offerID).Str("warehouse", s.WarehouseName).Err(err).Msg("failed")
			continue
		}

		rec, err := e.store.Create(ctx, catalog.KindStock, map[string]any{
			"product_articles": e.relation(variant.ID),
			"quantity":         s.Quantity,
			"dictionary_store": warehouse.ID,
		})
		if err != nil {
			e.summary.failed(catalog.KindStock)
			log.Warn().Int64("offer_id", offerID).Str("warehouse", s.WarehouseName).Err(err).Msg("failed")
			continue
		}
		e.summary.created(catalog.KindStock)
		log.Info().
			Str("kind", string(catalog.KindStock)).
			Int64("offer_id", offerID).
			Str("warehouse", s.WarehouseName).
			Int("quantity", s.Quantity).
			Int64("id", rec.ID).
			Msg("created")
	}
}
