package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"StockAccess/internal/domain/models"
	applogger "StockAccess/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	UserCollection      = "users"
	WatchlistCollection = "user_watchlists"
)

// MongoUserReader looks up users and their watchlists.
type MongoUserReader struct {
	users     *mongo.Collection
	watchlist *mongo.Collection
	instrumented
}

func NewMongoUserReader(db *mongo.Database, usersColl, watchColl string) *MongoUserReader {
	if usersColl == "" {
		usersColl = UserCollection
	}
	if watchColl == "" {
		watchColl = WatchlistCollection
	}
	return &MongoUserReader{users: db.Collection(usersColl), watchlist: db.Collection(watchColl)}
}

// GetUserByUsername returns nil, nil when no user matches.
func (r *MongoUserReader) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "get_user"
	began := time.Now()
	var doc bson.M
	err := r.users.FindOne(ctx, bson.M{"username": username}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		r.observe(op, r.users.Name(), "", began, 0, nil, applogger.String("username", username))
		return nil, nil
	}
	if err != nil {
		err = classify(op, err)
		r.observe(op, r.users.Name(), "", began, 0, err, applogger.String("username", username))
		return nil, err
	}
	r.observe(op, r.users.Name(), "", began, 1, nil, applogger.String("username", username))
	return &models.User{Doc: doc}, nil
}

// GetWatchlistSymbols returns the non-blank string entries of the user's
// watchlist; empty when the user has none.
func (r *MongoUserReader) GetWatchlistSymbols(ctx context.Context, userID string) ([]string, error) {
	const op = "get_watchlist"
	began := time.Now()
	var doc struct {
		Symbols []interface{} `bson:"symbols"`
	}
	out := []string{}
	err := r.watchlist.FindOne(ctx, bson.M{"user_id": userID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		r.observe(op, r.watchlist.Name(), "", began, 0, nil, applogger.String("user_id", userID))
		return out, nil
	}
	if err != nil {
		err = classify(op, err)
		r.observe(op, r.watchlist.Name(), "", began, 0, err, applogger.String("user_id", userID))
		return nil, err
	}
	for _, v := range doc.Symbols {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	r.observe(op, r.watchlist.Name(), "", began, len(out), nil, applogger.String("user_id", userID))
	return out, nil
}
