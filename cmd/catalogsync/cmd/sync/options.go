// Package sync provides the sync command implementation.
package sync

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/maryline/catalogsync"
	"github.com/maryline/catalogsync/pkg/reconcile"
)

// Flags holds the sync command flags.
type Flags struct {
	Scope          string
	BatchSize      int
	BatchPause     time.Duration
	OfferLimit     int
	RelationOffset int64
	EmptyStock     string
	NoHistory      bool
}

func addSyncFlags(cmd *cobra.Command) *Flags {
	flags := &Flags{}
	cmd.Flags().StringVar(&flags.Scope, "scope", "", "listings to reconcile: all, categories, products")
	cmd.Flags().IntVar(&flags.BatchSize, "batch-size", 0, "products processed between pauses")
	cmd.Flags().DurationVar(&flags.BatchPause, "batch-pause", 0, "pause after each product batch")
	cmd.Flags().IntVar(&flags.OfferLimit, "offer-limit", 0, "offer listing page size")
	cmd.Flags().Int64Var(&flags.RelationOffset, "relation-offset", 0, "value subtracted from destination ids used as relations")
	cmd.Flags().StringVar(&flags.EmptyStock, "empty-stock", "", "zero-quantity stock policy: skip, create")
	cmd.Flags().BoolVar(&flags.NoHistory, "no-history", false, "do not record the run in the history database")
	return flags
}

// BuildSyncOptions creates client options for the flags the user set.
// Unset flags leave the configured values in place.
func BuildSyncOptions(cmd *cobra.Command, flags *Flags) ([]catalogsync.Option, error) {
	var engine []reconcile.Option
	changed := cmd.Flags().Changed

	if changed("scope") {
		scope, err := reconcile.ParseScope(flags.Scope)
		if err != nil {
			return nil, err
		}
		engine = append(engine, reconcile.WithScope(scope))
	}
	if changed("batch-size") {
		engine = append(engine, reconcile.WithBatchSize(flags.BatchSize))
	}
	if changed("batch-pause") {
		engine = append(engine, reconcile.WithBatchPause(flags.BatchPause))
	}
	if changed("offer-limit") {
		engine = append(engine, reconcile.WithOfferLimit(flags.OfferLimit))
	}
	if changed("relation-offset") {
		engine = append(engine, reconcile.WithRelationOffset(flags.RelationOffset))
	}
	if changed("empty-stock") {
		policy, err := reconcile.ParseEmptyStockPolicy(flags.EmptyStock)
		if err != nil {
			return nil, err
		}
		engine = append(engine, reconcile.WithEmptyStock(policy))
	}

	var opts []catalogsync.Option
	if len(engine) > 0 {
		opts = append(opts, catalogsync.WithEngineOptions(engine...))
	}
	if flags.NoHistory {
		opts = append(opts, catalogsync.WithoutHistory())
	}
	return opts, nil
}
