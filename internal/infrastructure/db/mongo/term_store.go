package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/yamdb/review-api/internal/core/ports"
)

// termDoc is the shared document shape of categories and genres.
type termDoc struct {
	ID   int64  `bson:"_id"`
	Name string `bson:"name"`
	Slug string `bson:"slug"`
}

// termStore implements the slug-addressed name/slug collections behind
// CategoryRepository and GenreRepository.
type termStore struct {
	coll      *mongo.Collection
	seq       *sequence
	slugIndex string
	notFound  error
}

func (s *termStore) create(ctx context.Context, name, slug string) (termDoc, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := s.seq.next(ctx, s.coll.Name())
	if err != nil {
		return termDoc{}, err
	}
	doc := termDoc{ID: id, Name: name, Slug: slug}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		if dup := asDuplicate(err, map[string]string{s.slugIndex: "slug"}); dup != nil {
			return termDoc{}, dup
		}
		return termDoc{}, fmt.Errorf("insert %s: %w", s.coll.Name(), err)
	}
	return doc, nil
}

func (s *termStore) findBySlug(ctx context.Context, slug string) (termDoc, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc termDoc
	if err := s.coll.FindOne(ctx, bson.M{"slug": slug}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return termDoc{}, s.notFound
		}
		return termDoc{}, fmt.Errorf("find %s: %w", s.coll.Name(), err)
	}
	return doc, nil
}

func (s *termStore) list(ctx context.Context, filter ports.TermFilter) ([]termDoc, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.Search != "" {
		query["name"] = containsFold(filter.Search)
	}

	total, err := s.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", s.coll.Name(), err)
	}

	opts := skipLimit(filter.Skip(), filter.Limit).SetSort(bson.D{{Key: "name", Value: 1}})
	cur, err := s.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", s.coll.Name(), err)
	}
	var docs []termDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode %s: %w", s.coll.Name(), err)
	}
	return docs, total, nil
}

// remove deletes the term, then applies detach to the titles collection so no
// title keeps a dangling reference.
func (s *termStore) remove(ctx context.Context, titles *mongo.Collection, id int64, filter, detach bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete %s: %w", s.coll.Name(), err)
	}
	if _, err := titles.UpdateMany(ctx, filter, detach); err != nil {
		return fmt.Errorf("detach %s from titles: %w", s.coll.Name(), err)
	}
	return nil
}
