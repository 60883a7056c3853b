// Package pipeline turns raw per-game NFL records into analysis-ready team
// statistics. It is the core of the repository: every data-integrity concern
// (deduplication, schema reconciliation, numeric coercion, business-rule
// filtering, derived metrics, multi-pass aggregation) lives here.
//
// # Architecture
//
// Four stages, each a pure function of the prior stage's output:
//
//  1. TeamCleaner: reference entity normalization and deduplication
//  2. GameCleaner: event normalization, coercion and policy filtering
//  3. FeatureEngine: derived analytical fields (winner, margins, buckets,
//     temporal flags)
//  4. TeamAggregator: home/away split aggregation, merge and power ranking
//
// # Usage
//
//	cleaner := pipeline.NewGameCleaner(logger)
//	table, err := cleaner.Clean(ctx, rawRows)
//
//	engine := pipeline.NewFeatureEngine(logger)
//	enriched, err := engine.Enrich(ctx, table)
//
//	agg := pipeline.NewTeamAggregator(logger)
//	stats, err := agg.Aggregate(ctx, enriched)
//
// # Data Flow
//
//	raw rows → cleaners → canonical tables → FeatureEngine → enriched games → TeamAggregator → ranked team stats
//
// # Error Handling
//
// Dropping rows is data-quality policy, never an error: every removal is
// counted, logged and exported as a metric, and an empty input propagates as
// an empty output at every stage. Errors are reserved for structural
// failures that the operations runner isolates per artifact.
package pipeline
