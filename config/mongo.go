package config

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const mongoConnectTimeout = 30 * time.Second

// NewMongoDB connects to mongodb based on the MONGO_URI environment variable
// and returns the database named by MONGO_DATABASE.
func NewMongoDB(uri, database string, logger *zap.Logger) (*mongo.Database, func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, nil, err
	}

	closer := func() {
		ctx, cancel := context.WithTimeout(context.Background(), mongoConnectTimeout)
		defer cancel()

		if err := client.Disconnect(ctx); err != nil {
			logger.With(zap.Error(err)).Warn("mongo client.Disconnect return an error")
		}
	}

	return client.Database(database), closer, nil
}
