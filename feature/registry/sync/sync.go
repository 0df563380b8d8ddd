package sync

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/danass/leha/core/logger"
	"github.com/danass/leha/core/reconcile"
	"github.com/danass/leha/core/storage"
	"github.com/danass/leha/feature/registry"
	"github.com/danass/leha/feature/registry/fetch"
)

// Runner drives one reconciliation: fetch the latest export, archive it,
// extract the snapshot, diff it against the store and apply the plan.
type Runner struct {
	store       reconcile.Store
	source      *fetch.Client
	archives    storage.Client
	storageCfg  storage.Config
	downloadDir string
	log         *zap.Logger
}

func NewRunner(store reconcile.Store, source *fetch.Client, downloadDir string, log *zap.Logger) *Runner {
	return &Runner{
		store:       store,
		source:      source,
		downloadDir: downloadDir,
		log:         log,
	}
}

// WithArchives enables archive retention in object storage.
func (r *Runner) WithArchives(client storage.Client, cfg storage.Config) *Runner {
	r.archives = client
	r.storageCfg = cfg
	return r
}

// Options tunes a single run.
type Options struct {
	// DryRun computes and reports the plan without touching the store.
	DryRun bool

	// ArchivePath reconciles from a local archive instead of downloading.
	ArchivePath string
}

// Run executes one full reconciliation and returns the per-entity report.
// The report is valid even when an error is returned.
func (r *Runner) Run(ctx context.Context, opts Options) (*reconcile.Report, error) {
	runID := uuid.NewString()
	log := logger.WithRun(r.log, runID)

	archivePath := opts.ArchivePath
	if archivePath == "" {
		res, err := r.source.LatestResource(ctx)
		if err != nil {
			return reconcile.NewReport(), fmt.Errorf("resolving release: %w", err)
		}
		log.Info("release resolved", zap.String("title", res.Title))

		archivePath, err = r.source.Download(ctx, res, r.downloadDir)
		if err != nil {
			return reconcile.NewReport(), fmt.Errorf("downloading release: %w", err)
		}
		log.Info("archive downloaded", zap.String("path", archivePath))

		if r.archives != nil {
			// Retention is provenance, not correctness; a storage outage
			// must not block the reconciliation itself.
			if err := fetch.Retain(ctx, r.archives, r.storageCfg, archivePath); err != nil {
				log.Warn("archive retention failed", zap.Error(err))
			}
		}
	}

	rows, err := fetch.ExtractRows(archivePath)
	if err != nil {
		return reconcile.NewReport(), fmt.Errorf("extracting snapshot: %w", err)
	}
	return r.reconcile(ctx, log, rows, opts.DryRun)
}

// ReconcileRows runs the diff-and-apply pipeline over already-extracted
// snapshot rows, keyed by entity type.
func (r *Runner) ReconcileRows(ctx context.Context, rows map[string][]map[string]string, dryRun bool) (*reconcile.Report, error) {
	return r.reconcile(ctx, logger.WithRun(r.log, uuid.NewString()), rows, dryRun)
}

func (r *Runner) reconcile(ctx context.Context, log *zap.Logger, rows map[string][]map[string]string, dryRun bool) (*reconcile.Report, error) {
	report := reconcile.NewReport()
	descs := registry.Descriptors()

	// A member missing from the archive reads as an empty snapshot, and an
	// empty snapshot means mass deletion. Abort instead.
	for _, desc := range descs {
		if _, ok := rows[desc.Name]; !ok {
			return report, fmt.Errorf("%s: %w", desc.Name, reconcile.ErrMissingSnapshot)
		}
	}

	rootDesc := descs[0]
	rootCS, storeRootIdx, err := r.diffEntity(ctx, log, report, rootDesc, rows[rootDesc.Name])
	if err != nil {
		return report, err
	}

	dependents := make([]*reconcile.Changeset, 0, len(descs)-1)
	for _, desc := range descs[1:] {
		cs, _, err := r.diffEntity(ctx, log, report, desc, rows[desc.Name])
		if err != nil {
			return report, err
		}
		dependents = append(dependents, cs)
	}

	plan := reconcile.Sequence(rootCS, dependents, storeRootIdx)
	for _, o := range plan.Orphans {
		report.Entity(o.Entity).Orphans++
		log.Warn("orphan reference excluded",
			zap.String("entity", o.Entity),
			zap.String("key", o.Key),
			zap.String("ref", o.Ref))
	}

	if dryRun {
		for _, b := range plan.Batches {
			e := report.Entity(b.Descriptor.Name)
			e.Inserted += len(b.Inserts)
			e.Updated += len(b.Updates)
			e.Deleted += len(b.Deletes)
		}
		r.logSummary(log.With(zap.Bool("dry_run", true)), report)
		return report, nil
	}

	err = reconcile.ApplyPlan(ctx, r.store, plan, report)
	r.logSummary(log, report)
	return report, err
}

// diffEntity normalizes and indexes one entity's snapshot and store rows and
// returns the changeset plus the store index.
func (r *Runner) diffEntity(ctx context.Context, log *zap.Logger, report *reconcile.Report, desc *reconcile.Descriptor, snapRows []map[string]string) (*reconcile.Changeset, *reconcile.Index, error) {
	entity := report.Entity(desc.Name)

	snapRecords, skipped := reconcile.NormalizeAll(desc, snapRows)
	entity.Skipped = skipped
	if skipped > 0 {
		log.Warn("malformed snapshot rows skipped",
			zap.String("entity", desc.Name),
			zap.Int("count", skipped))
	}

	snapIdx := reconcile.BuildIndex(desc, snapRecords)
	entity.Collisions = len(snapIdx.Collisions)
	if len(snapIdx.Collisions) > 0 {
		log.Warn("duplicate snapshot keys, first occurrence kept",
			zap.String("entity", desc.Name),
			zap.Int("count", len(snapIdx.Collisions)),
			zap.Strings("keys", snapIdx.Collisions))
	}

	storeRows, err := r.store.FetchAll(ctx, desc)
	if err != nil {
		entity.Failed = true
		return nil, nil, fmt.Errorf("loading stored %s: %w", desc.Name, err)
	}
	storeRecords, _ := reconcile.NormalizeAll(desc, storeRows)
	storeIdx := reconcile.BuildIndex(desc, storeRecords)

	cs := reconcile.Diff(snapIdx, storeIdx)
	entity.Unchanged = cs.Unchanged
	return cs, storeIdx, nil
}

func (r *Runner) logSummary(log *zap.Logger, report *reconcile.Report) {
	for _, e := range report.Entities() {
		log.Info("entity reconciled",
			zap.String("entity", e.Entity),
			zap.Int("inserted", e.Inserted),
			zap.Int("updated", e.Updated),
			zap.Int("deleted", e.Deleted),
			zap.Int("unchanged", e.Unchanged),
			zap.Int("skipped", e.Skipped),
			zap.Int("collisions", e.Collisions),
			zap.Int("orphans", e.Orphans),
			zap.Bool("failed", e.Failed))
	}
}
