package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AryanSachan1st/Blog-Application-for-Vit-Chennai/internal/entity"
	"github.com/AryanSachan1st/Blog-Application-for-Vit-Chennai/internal/port/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const usersCollectionName = "users"

type UserMongoRepository struct {
	coll   *mongo.Collection
	logger *zap.Logger
}

func NewUserMongoRepository(db *mongo.Database, logger *zap.Logger) *UserMongoRepository {
	return &UserMongoRepository{
		coll:   db.Collection(usersCollectionName),
		logger: logger.Named("UserMongoRepository"),
	}
}

type userDocument struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Username   string             `bson:"username"`
	Email      string             `bson:"email"`
	Password   string             `bson:"password"`
	OTP        string             `bson:"otp,omitempty"`
	OTPExpires *time.Time         `bson:"otp_expires,omitempty"`
	IsVerified bool               `bson:"is_verified"`
	CreatedAt  time.Time          `bson:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at"`
}

func (d *userDocument) toEntity() *entity.User {
	return &entity.User{
		ID:         d.ID.Hex(),
		Username:   d.Username,
		Email:      d.Email,
		Password:   d.Password,
		OTP:        d.OTP,
		OTPExpires: d.OTPExpires,
		IsVerified: d.IsVerified,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

func (r *UserMongoRepository) findOne(ctx context.Context, filter bson.M, field, value string) (*entity.User, error) {
	var doc userDocument
	err := r.coll.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			r.logger.Debug("User not found", zap.String(field, value))
			return nil, repository.ErrNotFound
		}
		r.logger.Error("Database error fetching user", zap.String(field, value), zap.Error(err))
		return nil, fmt.Errorf("failed to get user by %s from mongo: %w", field, err)
	}
	return doc.toEntity(), nil
}

func (r *UserMongoRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": objID}, "userID", id)
}

func (r *UserMongoRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"email": email}, "email", email)
}

func (r *UserMongoRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"username": username}, "username", username)
}

func (r *UserMongoRepository) GetByIdentifier(ctx context.Context, identifier string) (*entity.User, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"email": identifier},
		bson.M{"username": identifier},
	}}
	return r.findOne(ctx, filter, "identifier", identifier)
}

// UpsertPending only ever touches an unverified record. When the email is
// held by a verified account the filter misses, the upsert tries to insert and
// the unique email index rejects it.
func (r *UserMongoRepository) UpsertPending(ctx context.Context, user *entity.User) error {
	filter := bson.M{
		"email":       user.Email,
		"is_verified": bson.M{"$ne": true},
	}
	update := bson.M{
		"$set": bson.M{
			"username":    user.Username,
			"password":    user.Password,
			"otp":         user.OTP,
			"otp_expires": user.OTPExpires,
			"is_verified": false,
			"updated_at":  user.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"created_at": user.CreatedAt,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc userDocument
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			r.logger.Warn("Email already belongs to a verified account", zap.String("email", user.Email))
			return repository.ErrDuplicateEmail
		}
		r.logger.Error("Database error upserting pending user", zap.String("email", user.Email), zap.Error(err))
		return fmt.Errorf("failed to upsert pending user in mongo: %w", err)
	}

	user.ID = doc.ID.Hex()
	user.CreatedAt = doc.CreatedAt
	r.logger.Info("Pending user stored", zap.String("userID", user.ID), zap.String("email", user.Email))
	return nil
}

func (r *UserMongoRepository) MarkVerified(ctx context.Context, id, code string, at time.Time) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repository.ErrNotFound
	}

	filter := bson.M{"_id": objID}
	if code != "" {
		filter["otp"] = code
		filter["otp_expires"] = bson.M{"$gte": at}
	}

	update := bson.M{
		"$set":   bson.M{"is_verified": true, "updated_at": at},
		"$unset": bson.M{"otp": "", "otp_expires": ""},
	}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		r.logger.Error("Database error marking user verified", zap.String("userID", id), zap.Error(err))
		return fmt.Errorf("failed to mark user verified in mongo: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	r.logger.Info("User marked verified", zap.String("userID", id))
	return nil
}

func (r *UserMongoRepository) GetUsernames(ctx context.Context, ids []string) (map[string]string, error) {
	result := make(map[string]string, len(ids))
	objIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		objID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		objIDs = append(objIDs, objID)
	}
	if len(objIDs) == 0 {
		return result, nil
	}

	opts := options.Find().SetProjection(bson.M{"username": 1})
	cursor, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": objIDs}}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to look up usernames in mongo: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode usernames from mongo: %w", err)
	}
	for _, doc := range docs {
		result[doc.ID.Hex()] = doc.Username
	}
	return result, nil
}
