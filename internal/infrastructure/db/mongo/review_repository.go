package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yamdb/review-api/internal/core/domain"
	"github.com/yamdb/review-api/internal/core/ports"
)

type ReviewRepository struct {
	coll *mongo.Collection
	seq  *sequence
	db   *mongo.Database
}

func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	return &ReviewRepository{db: db, coll: db.Collection(collReviews), seq: newSequence(db)}
}

type reviewDoc struct {
	ID       int64     `bson:"_id"`
	TitleID  int64     `bson:"title_id"`
	AuthorID int64     `bson:"author_id"`
	Author   string    `bson:"author,omitempty"`
	Text     string    `bson:"text"`
	Score    int       `bson:"score"`
	PubDate  time.Time `bson:"pub_date"`
}

func (d reviewDoc) toDomain() *domain.Review {
	return &domain.Review{
		ID:       d.ID,
		TitleID:  d.TitleID,
		AuthorID: d.AuthorID,
		Author:   d.Author,
		Text:     d.Text,
		Score:    d.Score,
		PubDate:  d.PubDate.UTC(),
	}
}

// withAuthor appends the stages that resolve author_id to the author's
// current username, so renames show up on existing feedback.
func withAuthor(p mongo.Pipeline) mongo.Pipeline {
	return append(p,
		bson.D{{Key: "$lookup", Value: bson.M{
			"from": collUsers, "localField": "author_id", "foreignField": "_id", "as": "author_doc",
		}}},
		bson.D{{Key: "$addFields", Value: bson.M{
			"author": bson.M{"$arrayElemAt": bson.A{"$author_doc.username", 0}},
		}}},
		bson.D{{Key: "$project", Value: bson.M{"author_doc": 0}}},
	)
}

// feedbackPipeline selects documents newest first and resolves authors.
func feedbackPipeline(match bson.M, page *ports.PageRequest) mongo.Pipeline {
	p := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "pub_date", Value: -1}, {Key: "_id", Value: -1}}}},
	}
	if page != nil {
		p = append(p,
			bson.D{{Key: "$skip", Value: page.Skip()}},
			bson.D{{Key: "$limit", Value: int64(page.Limit)}},
		)
	}
	return withAuthor(p)
}

func (r *ReviewRepository) find(ctx context.Context, match bson.M, page *ports.PageRequest) ([]*domain.Review, error) {
	cur, err := r.coll.Aggregate(ctx, feedbackPipeline(match, page))
	if err != nil {
		return nil, fmt.Errorf("aggregate reviews: %w", err)
	}
	var docs []reviewDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode reviews: %w", err)
	}
	out := make([]*domain.Review, len(docs))
	for i, d := range docs {
		out[i] = d.toDomain()
	}
	return out, nil
}

func (r *ReviewRepository) Create(ctx context.Context, rv *domain.Review) (*domain.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.seq.next(ctx, collReviews)
	if err != nil {
		return nil, err
	}
	doc := reviewDoc{
		ID:       id,
		TitleID:  rv.TitleID,
		AuthorID: rv.AuthorID,
		Text:     rv.Text,
		Score:    rv.Score,
		PubDate:  rv.PubDate,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if dup := asDuplicate(err, map[string]string{idxReviewAuthor: "title_id, author_id"}); dup != nil {
			return nil, dup
		}
		return nil, fmt.Errorf("insert review: %w", err)
	}

	created := doc.toDomain()
	created.Author = rv.Author
	return created, nil
}

func (r *ReviewRepository) FindByID(ctx context.Context, titleID, id int64) (*domain.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	reviews, err := r.find(ctx, bson.M{"_id": id, "title_id": titleID}, nil)
	if err != nil {
		return nil, err
	}
	if len(reviews) == 0 {
		return nil, domain.ErrReviewNotFound
	}
	return reviews[0], nil
}

func (r *ReviewRepository) ExistsForAuthor(ctx context.Context, titleID, authorID int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx,
		bson.M{"title_id": titleID, "author_id": authorID},
		options.Count().SetLimit(1),
	)
	if err != nil {
		return false, fmt.Errorf("count reviews: %w", err)
	}
	return n > 0, nil
}

// Update rewrites the mutable fields. Author and publication date never
// change after creation.
func (r *ReviewRepository) Update(ctx context.Context, rv *domain.Review) (*domain.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": rv.ID},
		bson.M{"$set": bson.M{"text": rv.Text, "score": rv.Score}},
	)
	if err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrReviewNotFound
	}
	return rv, nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return purgeReviews(ctx, r.db, bson.M{"_id": id})
}

func (r *ReviewRepository) List(ctx context.Context, titleID int64, page ports.PageRequest) ([]*domain.Review, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	match := bson.M{"title_id": titleID}
	total, err := r.coll.CountDocuments(ctx, match)
	if err != nil {
		return nil, 0, fmt.Errorf("count reviews: %w", err)
	}
	reviews, err := r.find(ctx, match, &page)
	if err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

// purgeReviews deletes the reviews matching filter and every comment
// attached to them.
func purgeReviews(ctx context.Context, db *mongo.Database, filter bson.M) error {
	reviews := db.Collection(collReviews)

	ids, err := reviews.Distinct(ctx, "_id", filter)
	if err != nil {
		return fmt.Errorf("collect reviews: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}
	if _, err := db.Collection(collComments).DeleteMany(ctx, bson.M{"review_id": bson.M{"$in": ids}}); err != nil {
		return fmt.Errorf("delete review comments: %w", err)
	}
	if _, err := reviews.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}}); err != nil {
		return fmt.Errorf("delete reviews: %w", err)
	}
	return nil
}

var _ ports.ReviewRepository = (*ReviewRepository)(nil)
