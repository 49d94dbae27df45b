// Command cleanup_outbox prunes old rows from the outbox_events and
// price_history tables. Intended to run as a periodic job; the service itself
// never deletes either table.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"
)

// Config for the cleanup job
type Config struct {
	SpannerDB              string
	CompletedRetentionDays int
	FailedRetentionDays    int
	HistoryRetentionDays   int
	DryRun                 bool
}

func main() {
	config := Config{}
	flag.StringVar(&config.SpannerDB, "database", "", "Spanner database (required, format: projects/PROJECT/instances/INSTANCE/databases/DATABASE)")
	flag.IntVar(&config.CompletedRetentionDays, "completed-retention", 30, "Retention days for completed events")
	flag.IntVar(&config.FailedRetentionDays, "failed-retention", 90, "Retention days for failed events")
	flag.IntVar(&config.HistoryRetentionDays, "history-retention", 365, "Retention days for price history records")
	flag.BoolVar(&config.DryRun, "dry-run", false, "Show what would be deleted without actually deleting")
	flag.Parse()

	if config.SpannerDB == "" {
		log.Fatal("Error: -database flag is required")
	}

	ctx := context.Background()

	if err := cleanup(ctx, config); err != nil {
		log.Fatalf("Cleanup failed: %v", err)
	}

	log.Println("Cleanup completed successfully")
}

func cleanup(ctx context.Context, config Config) error {
	client, err := spanner.NewClient(ctx, config.SpannerDB)
	if err != nil {
		return fmt.Errorf("failed to create Spanner client: %w", err)
	}
	defer client.Close()

	now := time.Now().UTC()
	completedCutoff := now.AddDate(0, 0, -config.CompletedRetentionDays)
	failedCutoff := now.AddDate(0, 0, -config.FailedRetentionDays)
	historyCutoff := now.AddDate(0, 0, -config.HistoryRetentionDays)

	log.Printf("Starting cleanup...")
	log.Printf("  Completed events cutoff: %s (retention: %d days)", completedCutoff.Format(time.RFC3339), config.CompletedRetentionDays)
	log.Printf("  Failed events cutoff: %s (retention: %d days)", failedCutoff.Format(time.RFC3339), config.FailedRetentionDays)
	log.Printf("  Price history cutoff: %s (retention: %d days)", historyCutoff.Format(time.RFC3339), config.HistoryRetentionDays)
	log.Printf("  Dry run: %v", config.DryRun)

	outboxWhere := `(status = 'completed' AND processed_at < @completedCutoff)
	   OR (status = 'failed' AND processed_at < @failedCutoff)`
	outboxParams := map[string]interface{}{
		"completedCutoff": completedCutoff,
		"failedCutoff":    failedCutoff,
	}
	if err := cleanupTable(ctx, client, "outbox_events", outboxWhere, outboxParams, config.DryRun); err != nil {
		return err
	}

	historyParams := map[string]interface{}{"historyCutoff": historyCutoff}
	return cleanupTable(ctx, client, "price_history", "changed_at < @historyCutoff", historyParams, config.DryRun)
}

func cleanupTable(ctx context.Context, client *spanner.Client, table, where string, params map[string]interface{}, dryRun bool) error {
	countStmt := spanner.Statement{
		SQL:    fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", table, where),
		Params: params,
	}

	if dryRun {
		iter := client.Single().Query(ctx, countStmt)
		defer iter.Stop()

		row, err := iter.Next()
		if err != nil && err != iterator.Done {
			return fmt.Errorf("failed to count %s rows: %w", table, err)
		}
		var count int64
		if err == nil {
			if err := row.Columns(&count); err != nil {
				return fmt.Errorf("failed to parse %s count: %w", table, err)
			}
		}
		log.Printf("DRY RUN: would delete %d rows from %s", count, table)
		return nil
	}

	deleteStmt := spanner.Statement{
		SQL:    fmt.Sprintf("DELETE FROM %s WHERE %s", table, where),
		Params: params,
	}

	_, err := client.ReadWriteTransaction(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction) error {
		rowCount, err := txn.Update(ctx, deleteStmt)
		if err != nil {
			return fmt.Errorf("failed to delete %s rows: %w", table, err)
		}
		log.Printf("Deleted %d rows from %s", rowCount, table)
		return nil
	})
	if err != nil {
		return fmt.Errorf("cleanup transaction failed: %w", err)
	}
	return nil
}
