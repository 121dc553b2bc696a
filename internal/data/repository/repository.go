package repository

import (
	"movie-catalog/pkg/database"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.uber.org/zap"
)

type Repository struct {
	Movie MovieRepository
}

func NewMongoRepository(db *mongo.Database, collection string, log *zap.Logger) *Repository {
	return &Repository{
		Movie: NewMongoMovieRepository(db.Collection(collection), log),
	}
}

func NewPostgresRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Movie: NewPostgresMovieRepository(db, log),
	}
}

func NewMemoryRepository(log *zap.Logger) *Repository {
	return &Repository{
		Movie: NewMemoryMovieRepository(log),
	}
}
