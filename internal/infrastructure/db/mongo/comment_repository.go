package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/yamdb/review-api/internal/core/domain"
	"github.com/yamdb/review-api/internal/core/ports"
)

type CommentRepository struct {
	coll *mongo.Collection
	seq  *sequence
}

func NewCommentRepository(db *mongo.Database) *CommentRepository {
	return &CommentRepository{coll: db.Collection(collComments), seq: newSequence(db)}
}

type commentDoc struct {
	ID       int64     `bson:"_id"`
	ReviewID int64     `bson:"review_id"`
	AuthorID int64     `bson:"author_id"`
	Author   string    `bson:"author,omitempty"`
	Text     string    `bson:"text"`
	PubDate  time.Time `bson:"pub_date"`
}

func (d commentDoc) toDomain() *domain.Comment {
	return &domain.Comment{
		ID:       d.ID,
		ReviewID: d.ReviewID,
		AuthorID: d.AuthorID,
		Author:   d.Author,
		Text:     d.Text,
		PubDate:  d.PubDate.UTC(),
	}
}

func (r *CommentRepository) find(ctx context.Context, match bson.M, page *ports.PageRequest) ([]*domain.Comment, error) {
	cur, err := r.coll.Aggregate(ctx, feedbackPipeline(match, page))
	if err != nil {
		return nil, fmt.Errorf("aggregate comments: %w", err)
	}
	var docs []commentDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode comments: %w", err)
	}
	out := make([]*domain.Comment, len(docs))
	for i, d := range docs {
		out[i] = d.toDomain()
	}
	return out, nil
}

func (r *CommentRepository) Create(ctx context.Context, c *domain.Comment) (*domain.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.seq.next(ctx, collComments)
	if err != nil {
		return nil, err
	}
	doc := commentDoc{
		ID:       id,
		ReviewID: c.ReviewID,
		AuthorID: c.AuthorID,
		Text:     c.Text,
		PubDate:  c.PubDate,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}

	created := doc.toDomain()
	created.Author = c.Author
	return created, nil
}

func (r *CommentRepository) FindByID(ctx context.Context, reviewID, id int64) (*domain.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	comments, err := r.find(ctx, bson.M{"_id": id, "review_id": reviewID}, nil)
	if err != nil {
		return nil, err
	}
	if len(comments) == 0 {
		return nil, domain.ErrCommentNotFound
	}
	return comments[0], nil
}

func (r *CommentRepository) Update(ctx context.Context, c *domain.Comment) (*domain.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": c.ID}, bson.M{"$set": bson.M{"text": c.Text}})
	if err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrCommentNotFound
	}
	return c, nil
}

func (r *CommentRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

func (r *CommentRepository) List(ctx context.Context, reviewID int64, page ports.PageRequest) ([]*domain.Comment, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	match := bson.M{"review_id": reviewID}
	total, err := r.coll.CountDocuments(ctx, match)
	if err != nil {
		return nil, 0, fmt.Errorf("count comments: %w", err)
	}
	comments, err := r.find(ctx, match, &page)
	if err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

var _ ports.CommentRepository = (*CommentRepository)(nil)
