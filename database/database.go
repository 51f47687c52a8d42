package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names. The three collections are independent: no joins, no
// referential integrity between them.
const (
	ColUsers        = "users"
	ColLguSchedules = "lgu_schedules"
	ColFloodReports = "flood_reports"
)

var client *mongo.Client
var db *mongo.Database

// Connect establishes a singleton MongoDB connection.
func Connect(ctx context.Context, uri, dbname string) error {
	if client != nil && db != nil {
		return nil
	}

	start := time.Now()
	slog.Info("mongo: connecting", "uri", redactURI(uri), "db", dbname)

	dctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	c, err := mongo.Connect(dctx, options.Client().ApplyURI(uri))
	if err != nil {
		return fmt.Errorf("mongo connect: %w", err)
	}
	if err = c.Ping(dctx, nil); err != nil {
		_ = c.Disconnect(context.Background())
		return fmt.Errorf("mongo ping: %w", err)
	}

	client = c
	db = c.Database(dbname)

	if err := createIndexes(); err != nil {
		slog.Warn("mongo: index creation warnings", "err", err.Error())
	}

	slog.Info("mongo: connected ok", "took", time.Since(start).Round(time.Millisecond).String())
	return nil
}

func Disconnect(ctx context.Context) error {
	if client == nil {
		return nil
	}
	defer func() { client, db = nil, nil }()
	return client.Disconnect(ctx)
}

func Col(name string) *mongo.Collection {
	if db == nil {
		panic("database not connected: call database.Connect first")
	}
	return db.Collection(name)
}

func createIndexes() error {
	if db == nil {
		return errors.New("db is nil")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var errs []string

	reports := Col(ColFloodReports)
	if _, err := reports.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: -1}},
	}); err != nil {
		errs = append(errs, "flood_reports.createdAt: "+err.Error())
	}
	if _, err := reports.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "contactNumber", Value: 1}},
	}); err != nil {
		errs = append(errs, "flood_reports.contactNumber: "+err.Error())
	}

	schedules := Col(ColLguSchedules)
	if _, err := schedules.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "date", Value: 1}},
	}); err != nil {
		errs = append(errs, "lgu_schedules.date: "+err.Error())
	}

	users := Col(ColUsers)
	if _, err := users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		errs = append(errs, "users.email: "+err.Error())
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func redactURI(raw string) string {
	if raw == "" || !strings.Contains(raw, "://") {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	u.User = url.UserPassword("****", "****")
	return u.String()
}
