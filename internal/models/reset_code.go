package models

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joshua-takyi/rendez/internal/apperr"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	ResetCodesColName = "password_reset_codes"
	ResetCodeTTL      = 30 * time.Minute
	MaxResetAttempts  = 5
)

type ResetCode struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Email     string             `bson:"email" json:"email"`
	CodeHash  string             `bson:"code_hash" json:"-"`
	Attempts  int                `bson:"attempts" json:"attempts"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	ExpiresAt time.Time          `bson:"expires_at" json:"expires_at"`
}

func (rc *ResetCode) Expired(now time.Time) bool {
	return !now.Before(rc.ExpiresAt)
}

type ResetCodeRepo interface {
	SaveResetCode(ctx context.Context, code *ResetCode) error
	GetResetCode(ctx context.Context, email string) (*ResetCode, error)
	IncrementResetAttempts(ctx context.Context, email string) error
	DeleteResetCode(ctx context.Context, email string) error
}

// EnsureIndexes creates the TTL index that purges expired reset codes and
// the unique index on email.
func (mdb *MongodbRepo) EnsureIndexes(ctx context.Context) error {
	col, err := mdb.GetCollection(ResetCodesColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().
				SetExpireAfterSeconds(0).
				SetName("expires_at_ttl"),
		},
		{
			Keys: bson.D{{Key: "email", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName("email_unique"),
		},
	}

	if _, err := col.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("error creating indexes: %v", err)
	}
	return nil
}

// SaveResetCode replaces any outstanding code for the same email.
func (mdb *MongodbRepo) SaveResetCode(ctx context.Context, code *ResetCode) error {
	col, err := mdb.GetCollection(ResetCodesColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}
	code.Email = strings.ToLower(code.Email)

	filter := bson.M{"email": code.Email}
	update := bson.M{
		"$set": bson.M{
			"code_hash":  code.CodeHash,
			"attempts":   0,
			"created_at": code.CreatedAt,
			"expires_at": code.ExpiresAt,
		},
	}
	_, err = col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("error saving reset code: %w", err)
	}
	return nil
}

func (mdb *MongodbRepo) GetResetCode(ctx context.Context, email string) (*ResetCode, error) {
	col, err := mdb.GetCollection(ResetCodesColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	var code ResetCode
	err = col.FindOne(ctx, bson.M{"email": strings.ToLower(email)}).Decode(&code)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("reset code not found")
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching reset code: %w", err)
	}
	return &code, nil
}

func (mdb *MongodbRepo) IncrementResetAttempts(ctx context.Context, email string) error {
	col, err := mdb.GetCollection(ResetCodesColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}
	_, err = col.UpdateOne(ctx, bson.M{"email": strings.ToLower(email)}, bson.M{"$inc": bson.M{"attempts": 1}})
	if err != nil {
		return fmt.Errorf("error updating reset code: %w", err)
	}
	return nil
}

func (mdb *MongodbRepo) DeleteResetCode(ctx context.Context, email string) error {
	col, err := mdb.GetCollection(ResetCodesColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}
	if _, err := col.DeleteOne(ctx, bson.M{"email": strings.ToLower(email)}); err != nil {
		return fmt.Errorf("error deleting reset code: %w", err)
	}
	return nil
}
