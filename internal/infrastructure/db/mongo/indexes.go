package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Unique index names. asDuplicate matches on these to report which field
// collided.
const (
	idxUserUsername   = "users_username_unique"
	idxUserEmail      = "users_email_unique"
	idxCategorySlug   = "categories_slug_unique"
	idxGenreSlug      = "genres_slug_unique"
	idxReviewAuthor   = "reviews_title_author_unique"
	indexBuildTimeout = 30 * time.Second
)

func uniqueIndex(name string, keys bson.D) mongo.IndexModel {
	return mongo.IndexModel{Keys: keys, Options: options.Index().SetName(name).SetUnique(true)}
}

// EnsureIndexes creates the indexes every repository relies on, including
// the unique constraints that back username, email, slug and one review
// per (title, author).
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, indexBuildTimeout)
	defer cancel()

	plan := map[string][]mongo.IndexModel{
		collUsers: {
			uniqueIndex(idxUserUsername, bson.D{{Key: "username", Value: 1}}),
			uniqueIndex(idxUserEmail, bson.D{{Key: "email", Value: 1}}),
		},
		collCategories: {
			uniqueIndex(idxCategorySlug, bson.D{{Key: "slug", Value: 1}}),
			{Keys: bson.D{{Key: "name", Value: 1}}},
		},
		collGenres: {
			uniqueIndex(idxGenreSlug, bson.D{{Key: "slug", Value: 1}}),
			{Keys: bson.D{{Key: "name", Value: 1}}},
		},
		collTitles: {
			{Keys: bson.D{{Key: "name", Value: 1}}},
			{Keys: bson.D{{Key: "category_id", Value: 1}}},
			{Keys: bson.D{{Key: "genre_ids", Value: 1}}},
			{Keys: bson.D{{Key: "year", Value: 1}}},
		},
		collReviews: {
			uniqueIndex(idxReviewAuthor, bson.D{{Key: "title_id", Value: 1}, {Key: "author_id", Value: 1}}),
			{Keys: bson.D{{Key: "title_id", Value: 1}, {Key: "pub_date", Value: -1}}},
		},
		collComments: {
			{Keys: bson.D{{Key: "review_id", Value: 1}, {Key: "pub_date", Value: -1}}},
			{Keys: bson.D{{Key: "author_id", Value: 1}}},
		},
	}

	for coll, models := range plan {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create %s indexes: %w", coll, err)
		}
	}
	return nil
}
