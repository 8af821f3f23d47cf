package mongo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yamdb/review-api/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

// Collection names.
const (
	collUsers      = "users"
	collCategories = "categories"
	collGenres     = "genres"
	collTitles     = "titles"
	collReviews    = "reviews"
	collComments   = "comments"
	collCounters   = "counters"
)

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, client.Database(cfg.Database), nil
}

// asDuplicate converts a unique index violation into a
// *domain.DuplicateError. fields maps unique index names to the API field
// they guard. It returns nil for any other error.
func asDuplicate(err error, fields map[string]string) *domain.DuplicateError {
	if err == nil || !mongo.IsDuplicateKeyError(err) {
		return nil
	}
	msg := err.Error()
	for index, field := range fields {
		if strings.Contains(msg, index) {
			return &domain.DuplicateError{Field: field}
		}
	}
	return &domain.DuplicateError{}
}

// skipLimit returns find options for a normalized page.
func skipLimit(skip int64, limit int) *options.FindOptions {
	return options.Find().SetSkip(skip).SetLimit(int64(limit))
}
