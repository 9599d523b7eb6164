package reconcile

import (
	"context"
	"strings"

	"github.com/maryline/catalogsync/pkg/catalog"
	"github.com/maryline/catalogsync/pkg/constants"
	"github.com/maryline/catalogsync/pkg/logging"
	"github.com/maryline/catalogsync/pkg/slug"
)

// dictionary resolves name-keyed reference entries of one kind.
type dictionary struct {
	kind  catalog.Kind
	attrs func(ctx context.Context, name string) map[string]any
}

func (e *Engine) sizes() dictionary {
	return dictionary{
		kind: catalog.KindSize,
		attrs: func(_ context.Context, name string) map[string]any {
			return map[string]any{"name": name, "key": slug.Make(name)}
		},
	}
}

func (e *Engine) colors() dictionary {
	return dictionary{
		kind: catalog.KindColor,
		attrs: func(ctx context.Context, name string) map[string]any {
			attrs := map[string]any{"name": name, "key": slug.Transliterate(name), "hex": nil}
			if hex, ok := e.opts.Palette.Lookup(name); ok {
				attrs["hex"] = hex
			} else {
				logging.FromContext(ctx).Warn().Str("color", name).Msg("Color not in palette")
			}
			return attrs
		},
	}
}

func (e *Engine) stores(warehouseID int64) dictionary {
	return dictionary{
		kind: catalog.KindStore,
		attrs: func(_ context.Context, name string) map[string]any {
			return map[string]any{"name": name, constants.ExternalIDField: warehouseID}
		},
	}
}

// resolve returns the entry named name, creating it on first use.
func (e *Engine) resolve(ctx context.Context, d dictionary, name string) (catalog.Record, error) {
	return e.getOrCreate(ctx, d.kind, constants.NameField, name,
		func(ctx context.Context) (map[string]any, error) {
			return d.attrs(ctx, name), nil
		})
}

// property returns the value of the first property whose name matches
// label case-insensitively.
func property(props []catalog.Property, label string) (string, bool) {
	for _, p := range props {
		if strings.EqualFold(strings.TrimSpace(p.Name), label) {
			v := strings.TrimSpace(p.Value)
			return v, v != ""
		}
	}
	return "", false
}

// optionalLink resolves the dictionary entry named by the property label
// and returns its relation list, or nil when the offer has no such
// property or the entry cannot be resolved.
func (e *Engine) optionalLink(ctx context.Context, d dictionary, props []catalog.Property, label string, offerID int64) any {
	name, ok := property(props, label)
	if !ok {
		return nil
	}
	rec, err := e.resolve(ctx, d, name)
	if err != nil {
		e.summary.failed(d.kind)
		logging.FromContext(ctx).Warn().
			Str("kind", string(d.kind)).
			Str("name", name).
			Int64("offer_id", offerID).
			Err(err).
			Msg("failed")
		return nil
	}
	return []int64{e.relation(rec.ID)}
}
