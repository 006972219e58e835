package data

import (
	"context"
	"log/slog"

	"github.com/KotFed0t/portfolio_tracker/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func NewMongoClient(cfg *config.Config) *mongo.Client {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Mongo.Timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		slog.Error("failed to connect to MongoDB", slog.String("err", err.Error()))
		panic(err)
	}

	if err = client.Ping(ctx, nil); err != nil {
		slog.Error("MongoDB ping error", slog.String("err", err.Error()))
		panic(err)
	}
	slog.Info("MongoDB connected")

	return client
}

func DisconnectMongo(client *mongo.Client, cfg *config.Config) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Mongo.Timeout)
	defer cancel()

	if err := client.Disconnect(ctx); err != nil {
		slog.Error("MongoDB disconnect error", slog.String("err", err.Error()))
		return
	}
	slog.Info("MongoDB connection closed")
}
