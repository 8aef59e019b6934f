// Package reconcile compares the record identifiers of two entity stores,
// type by type, and reports what a migration lost or invented.
//
// # Architecture
//
// A run is driven by Engine.Run and moves through these stages:
//
//  1. Enumerate: both type catalogs are listed concurrently. Failure on either
//     store is fatal, since the run cannot know what to compare.
//  2. Diff types: the catalogs are diffed both ways with Difference.
//  3. Process: every source type is snapshotted on both stores by a Fetcher,
//     diffed into a TypeReport and handed to the Reporter. Types run on a
//     bounded worker pool; per-type failures degrade that type only.
//  4. Finalize: rows are folded into a RunSummary in source catalog order and
//     the outcome is decided.
//
// # Snapshots
//
// A Fetcher pages through a type ordered by identifier until a short page.
// A failed page yields a Partial snapshot, the page bound a Truncated one.
// Either makes the type incomplete and the run cannot end in success.
//
// # Usage
//
//	engine := reconcile.NewEngine(source, target, reporter, cfg.Reconcile, log)
//	summary, err := engine.Run(ctx)
//	if err != nil {
//	    // fatal or aborted, summary.Outcome says which
//	}
package reconcile
