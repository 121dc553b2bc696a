package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"movie-catalog/internal/data/entity"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
)

type mongoMovieRepository struct {
	coll *mongo.Collection
	log  *zap.Logger
}

func NewMongoMovieRepository(coll *mongo.Collection, log *zap.Logger) MovieRepository {
	return &mongoMovieRepository{
		coll: coll,
		log:  log.With(zap.String("repository", "movie"), zap.String("driver", "mongo")),
	}
}

// EnsureMongoIndexes creates the lookup indexes used by the find-by-field
// queries. It is idempotent.
func EnsureMongoIndexes(ctx context.Context, coll *mongo.Collection) error {
	models := []mongo.IndexModel{
		{Keys: bson.D{{Key: entity.FieldTitle, Value: 1}}},
		{Keys: bson.D{{Key: entity.FieldDirector, Value: 1}}},
		{Keys: bson.D{{Key: entity.FieldGenre, Value: 1}}},
	}
	if _, err := coll.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("create movie indexes: %w", err)
	}
	return nil
}

func (r *mongoMovieRepository) Create(ctx context.Context, movie *entity.Movie) error {
	id := bson.NewObjectID()

	doc := bson.M{}
	for k, v := range movie.Document() {
		doc[k] = v
	}
	doc[entity.FieldID] = id
	doc[entity.FieldCreatedAt] = movie.CreatedAt
	doc[entity.FieldUpdatedAt] = movie.UpdatedAt

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		r.log.Error("Failed to create movie",
			zap.Error(err),
			zap.String("title", movie.Title),
		)
		return fmt.Errorf("failed to create movie: %w", err)
	}

	movie.ID = id.Hex()
	return nil
}

func (r *mongoMovieRepository) FindByTitle(ctx context.Context, title string) (*entity.Movie, error) {
	var raw bson.M
	err := r.coll.FindOne(ctx, bson.D{{Key: entity.FieldTitle, Value: title}}).Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find movie by title",
			zap.Error(err),
			zap.String("title", title),
		)
		return nil, fmt.Errorf("failed to find movie: %w", err)
	}

	return movieFromBSON(raw), nil
}

func (r *mongoMovieRepository) FindAll(ctx context.Context) ([]*entity.Movie, error) {
	return r.find(ctx, bson.D{})
}

func (r *mongoMovieRepository) FindByDirector(ctx context.Context, director string) ([]*entity.Movie, error) {
	return r.find(ctx, bson.D{{Key: entity.FieldDirector, Value: director}})
}

func (r *mongoMovieRepository) FindByGenre(ctx context.Context, genre string) ([]*entity.Movie, error) {
	return r.find(ctx, bson.D{{Key: entity.FieldGenre, Value: genre}})
}

func (r *mongoMovieRepository) find(ctx context.Context, filter bson.D) ([]*entity.Movie, error) {
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		r.log.Error("Failed to find movies",
			zap.Error(err),
			zap.Any("filter", filter),
		)
		return nil, fmt.Errorf("failed to find movies: %w", err)
	}

	var raws []bson.M
	if err := cursor.All(ctx, &raws); err != nil {
		r.log.Error("Failed to read movie cursor", zap.Error(err))
		return nil, fmt.Errorf("failed to read movies: %w", err)
	}

	movies := make([]*entity.Movie, 0, len(raws))
	for _, raw := range raws {
		movies = append(movies, movieFromBSON(raw))
	}

	r.log.Debug("Movies found",
		zap.Int("count", len(movies)),
		zap.Any("filter", filter),
	)

	return movies, nil
}

func (r *mongoMovieRepository) Update(ctx context.Context, id string, patch map[string]any, updatedAt time.Time) (*entity.Movie, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid movie id %q: %w", id, err)
	}

	set := bson.M{}
	for k, v := range patch {
		set[k] = v
	}
	set[entity.FieldUpdatedAt] = updatedAt

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var raw bson.M
	err = r.coll.FindOneAndUpdate(ctx,
		bson.D{{Key: entity.FieldID, Value: oid}},
		bson.D{{Key: "$set", Value: set}},
		opts,
	).Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to update movie",
			zap.Error(err),
			zap.String("movie_id", id),
		)
		return nil, fmt.Errorf("failed to update movie: %w", err)
	}

	return movieFromBSON(raw), nil
}

func (r *mongoMovieRepository) Delete(ctx context.Context, id string) (*entity.Movie, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid movie id %q: %w", id, err)
	}

	var raw bson.M
	err = r.coll.FindOneAndDelete(ctx, bson.D{{Key: entity.FieldID, Value: oid}}).Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to delete movie",
			zap.Error(err),
			zap.String("movie_id", id),
		)
		return nil, fmt.Errorf("failed to delete movie: %w", err)
	}

	r.log.Info("Movie deleted", zap.String("movie_id", id))
	return movieFromBSON(raw), nil
}

func movieFromBSON(raw bson.M) *entity.Movie {
	movie := &entity.Movie{}

	switch id := raw[entity.FieldID].(type) {
	case bson.ObjectID:
		movie.ID = id.Hex()
	case string:
		movie.ID = id
	case nil:
	default:
		movie.ID = fmt.Sprint(id)
	}
	movie.CreatedAt = bsonTime(raw[entity.FieldCreatedAt])
	movie.UpdatedAt = bsonTime(raw[entity.FieldUpdatedAt])

	fields := make(map[string]any, len(raw))
	for k, v := range raw {
		if entity.IsReserved(k) {
			continue
		}
		fields[k] = normalizeBSON(v)
	}

	movie.Apply(fields)
	return movie
}

// normalizeBSON turns driver types into values encoding/json renders the way
// a client expects.
func normalizeBSON(value any) any {
	switch v := value.(type) {
	case bson.D:
		m := make(map[string]any, len(v))
		for _, e := range v {
			m[e.Key] = normalizeBSON(e.Value)
		}
		return m
	case bson.M:
		m := make(map[string]any, len(v))
		for k, e := range v {
			m[k] = normalizeBSON(e)
		}
		return m
	case bson.A:
		s := make([]any, len(v))
		for i, e := range v {
			s[i] = normalizeBSON(e)
		}
		return s
	case bson.ObjectID:
		return v.Hex()
	case bson.DateTime:
		return v.Time().UTC()
	case bson.Decimal128:
		return v.String()
	default:
		return v
	}
}

func bsonTime(value any) time.Time {
	switch v := value.(type) {
	case bson.DateTime:
		return v.Time().UTC()
	case time.Time:
		return v.UTC()
	default:
		return time.Time{}
	}
}
