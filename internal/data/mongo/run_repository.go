// Package mongo provides the MongoDB implementation of the run audit
// repository. One document is written per pipeline run so outcomes can be
// queried instead of scraped from logs.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/settlement-reporting/internal/domain/run"
)

const (
	// RunCollectionName is the name of the run audit collection in MongoDB
	RunCollectionName = "report_runs"
)

// RunRepository implements the run.Repository interface for MongoDB
type RunRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewRunRepository creates a new MongoDB run repository
func NewRunRepository(logger *slog.Logger, db *mongo.Database) run.Repository {
	return &RunRepository{
		db:     db,
		logger: logger,
	}
}

// Create stores a new run record
func (r *RunRepository) Create(ctx context.Context, record *run.Record) error {
	collection := r.db.Collection(RunCollectionName)

	_, err := collection.InsertOne(ctx, record)
	if err != nil {
		r.logger.Error("Failed to create run record",
			"run_id", record.RunID.String(),
			"error", err)
		return fmt.Errorf("failed to create run record: %w", err)
	}

	return nil
}

// GetByRunID retrieves a run record by its run ID.
// Returns ErrRunNotFound if no record exists for the given run.
func (r *RunRepository) GetByRunID(ctx context.Context, runID uuid.UUID) (*run.Record, error) {
	collection := r.db.Collection(RunCollectionName)

	filter := bson.M{"run_id": runID}
	var record run.Record
	err := collection.FindOne(ctx, filter).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, run.ErrRunNotFound{RunID: runID}
		}
		r.logger.Error("Failed to get run record",
			"run_id", runID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to get run record: %w", err)
	}

	return &record, nil
}

// ListByProcessingDate retrieves the run records for a processing date,
// most recent first.
func (r *RunRepository) ListByProcessingDate(ctx context.Context, date time.Time, limit, offset int) ([]*run.Record, error) {
	collection := r.db.Collection(RunCollectionName)

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	filter := bson.M{"processing_date": bson.M{"$gte": dayStart, "$lt": dayEnd}}
	findOptions := options.Find().
		SetSort(bson.M{"started_at": -1}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	cursor, err := collection.Find(ctx, filter, findOptions)
	if err != nil {
		r.logger.Error("Failed to list run records", "error", err)
		return nil, fmt.Errorf("failed to list run records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []*run.Record
	if err := cursor.All(ctx, &records); err != nil {
		r.logger.Error("Failed to decode run records", "error", err)
		return nil, fmt.Errorf("failed to decode run records: %w", err)
	}

	return records, nil
}
