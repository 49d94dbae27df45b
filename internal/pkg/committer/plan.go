// Package committer collects Spanner mutations into commit plans and applies
// them atomically.
//
// The typical flow in a usecase is:
//
//	// 1. Load aggregate from repository
//	product, err := repo.GetByID(ctx, productID)
//
//	// 2. Call domain methods (pure business logic)
//	product.ApplyCampaignOverlay(campaignID, spec, pc, now)
//
//	// 3. Repository returns mutations (doesn't apply them)
//	plan := committer.NewPlan()
//	plan.Add(repo.UpdateMut(product))
//
//	// 4. Add outbox events to the same plan
//	for _, event := range product.DomainEvents() {
//	    plan.Add(outboxRepo.CreateMut(event))
//	}
//
//	// 5. Apply everything atomically, guarded by the aggregate version
//	return c.ApplyWithVersionCheck(ctx, committer.VersionKey{
//	    Table: m_product.TableName,
//	    Key:   spanner.Key{product.ID()},
//	}, product.Version(), plan)
//
// Domain logic never touches the database directly; repositories build
// mutations and the committer owns the transaction boundary.
package committer

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/spanner"
)

// ErrVersionConflict is returned when the stored aggregate version no longer
// matches the version the caller loaded.
var ErrVersionConflict = errors.New("version conflict: concurrent modification detected")

// CommitPlan is a typed wrapper around Spanner mutations.
// It collects mutations from multiple sources and applies them atomically.
type CommitPlan struct {
	mutations []*spanner.Mutation
}

// NewPlan creates a new empty CommitPlan.
func NewPlan() *CommitPlan {
	return &CommitPlan{
		mutations: make([]*spanner.Mutation, 0),
	}
}

// Add adds a mutation to the plan.
// Nil mutations are silently ignored for convenience.
func (cp *CommitPlan) Add(mut *spanner.Mutation) {
	if mut != nil {
		cp.mutations = append(cp.mutations, mut)
	}
}

// AddMultiple adds multiple mutations to the plan.
func (cp *CommitPlan) AddMultiple(muts []*spanner.Mutation) {
	for _, mut := range muts {
		cp.Add(mut)
	}
}

// Mutations returns all collected mutations.
func (cp *CommitPlan) Mutations() []*spanner.Mutation {
	return cp.mutations
}

// IsEmpty returns true if the plan has no mutations.
func (cp *CommitPlan) IsEmpty() bool {
	return len(cp.mutations) == 0
}

// Count returns the number of mutations in the plan.
func (cp *CommitPlan) Count() int {
	return len(cp.mutations)
}

// VersionKey identifies the row whose version column guards a commit.
type VersionKey struct {
	Table string
	Key   spanner.Key
}

// Committer provides transaction execution for CommitPlans.
type Committer struct {
	client *spanner.Client
}

// NewCommitter creates a new Committer.
func NewCommitter(client *spanner.Client) *Committer {
	return &Committer{client: client}
}

// Apply executes the CommitPlan atomically within a Spanner transaction.
func (c *Committer) Apply(ctx context.Context, plan *CommitPlan) error {
	if plan.IsEmpty() {
		return nil // Nothing to commit
	}

	_, err := c.client.Apply(ctx, plan.Mutations())
	if err != nil {
		return fmt.Errorf("failed to apply commit plan: %w", err)
	}

	return nil
}

// ApplyWithReadWriteTransaction executes the CommitPlan within a read-write transaction.
// This is useful when you need to perform reads before building mutations.
func (c *Committer) ApplyWithReadWriteTransaction(ctx context.Context, fn func(context.Context, *spanner.ReadWriteTransaction) error) error {
	_, err := c.client.ReadWriteTransaction(ctx, fn)
	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}
	return nil
}

// ApplyWithVersionCheck executes the CommitPlan with optimistic locking.
// It re-reads the version column of the guarded row inside the transaction
// and aborts with ErrVersionConflict when it no longer matches
// expectedVersion. The plan's mutations must bump the version themselves.
func (c *Committer) ApplyWithVersionCheck(ctx context.Context, vk VersionKey, expectedVersion int64, plan *CommitPlan) error {
	if plan.IsEmpty() {
		return nil // Nothing to commit
	}

	_, err := c.client.ReadWriteTransaction(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction) error {
		row, err := txn.ReadRow(ctx, vk.Table, vk.Key, []string{"version"})
		if err != nil {
			return fmt.Errorf("failed to read %s version: %w", vk.Table, err)
		}

		var currentVersion int64
		if err := row.Column(0, &currentVersion); err != nil {
			return fmt.Errorf("failed to parse version: %w", err)
		}

		if currentVersion != expectedVersion {
			return fmt.Errorf("%w: expected %d, got %d", ErrVersionConflict, expectedVersion, currentVersion)
		}

		return txn.BufferWrite(plan.Mutations())
	})
	if err != nil {
		if errors.Is(err, ErrVersionConflict) {
			return err
		}
		return fmt.Errorf("failed to apply commit plan with version check: %w", err)
	}

	return nil
}
