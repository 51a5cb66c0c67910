package mongo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"

	"github.com/AryanSachan1st/Blog-Application-for-Vit-Chennai/internal/entity"
	"github.com/AryanSachan1st/Blog-Application-for-Vit-Chennai/internal/port/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const postsCollectionName = "posts"

// searchableFields are the post fields a keyword may match.
var searchableFields = []string{"title", "body", "source"}

type PostMongoRepository struct {
	coll *mongo.Collection
}

func NewPostMongoRepository(db *mongo.Database) *PostMongoRepository {
	return &PostMongoRepository{
		coll: db.Collection(postsCollectionName),
	}
}

type postDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Body      string             `bson:"body"`
	Source    string             `bson:"source"`
	AuthorID  primitive.ObjectID `bson:"author_id"`
	CreatedAt primitive.DateTime `bson:"created_at"`
	UpdatedAt primitive.DateTime `bson:"updated_at"`
}

func toPostDocument(p *entity.Post) (*postDocument, error) {
	authorID, err := primitive.ObjectIDFromHex(p.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("invalid author ID format: %w", err)
	}
	doc := &postDocument{
		Title:     p.Title,
		Body:      p.Body,
		Source:    p.Source,
		AuthorID:  authorID,
		CreatedAt: primitive.NewDateTimeFromTime(p.CreatedAt),
		UpdatedAt: primitive.NewDateTimeFromTime(p.UpdatedAt),
	}
	if p.ID != "" {
		objID, err := primitive.ObjectIDFromHex(p.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid post ID format: %w", err)
		}
		doc.ID = objID
	}
	return doc, nil
}

func toPostEntity(doc *postDocument) *entity.Post {
	return &entity.Post{
		ID:        doc.ID.Hex(),
		Title:     doc.Title,
		Body:      doc.Body,
		Source:    doc.Source,
		AuthorID:  doc.AuthorID.Hex(),
		CreatedAt: doc.CreatedAt.Time(),
		UpdatedAt: doc.UpdatedAt.Time(),
	}
}

// buildSearchFilter ANDs one clause per keyword; each clause ORs a
// case-insensitive, literal substring match over searchableFields.
func buildSearchFilter(keywords []string) bson.M {
	if len(keywords) == 0 {
		return bson.M{}
	}
	clauses := make(bson.A, 0, len(keywords))
	for _, kw := range keywords {
		pattern := regexp.QuoteMeta(kw)
		alternatives := make(bson.A, 0, len(searchableFields))
		for _, field := range searchableFields {
			alternatives = append(alternatives, bson.M{field: bson.M{"$regex": pattern, "$options": "i"}})
		}
		clauses = append(clauses, bson.M{"$or": alternatives})
	}
	return bson.M{"$and": clauses}
}

func (r *PostMongoRepository) Create(ctx context.Context, post *entity.Post) (string, error) {
	doc, err := toPostDocument(post)
	if err != nil {
		return "", err
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("failed to create post in mongo: %w", err)
	}

	insertedID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to convert inserted_id to ObjectID")
	}
	return insertedID.Hex(), nil
}

func (r *PostMongoRepository) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}

	var doc postDocument
	err = r.coll.FindOne(ctx, bson.M{"_id": objID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get post by id from mongo: %w", err)
	}
	return toPostEntity(&doc), nil
}

func (r *PostMongoRepository) Update(ctx context.Context, post *entity.Post) error {
	doc, err := toPostDocument(post)
	if err != nil {
		return err
	}
	if doc.ID.IsZero() {
		return fmt.Errorf("post ID is required for update")
	}

	update := bson.M{
		"$set": bson.M{
			"title":      doc.Title,
			"body":       doc.Body,
			"source":     doc.Source,
			"updated_at": doc.UpdatedAt,
		},
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": doc.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update post in mongo: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PostMongoRepository) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repository.ErrNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("failed to delete post from mongo: %w", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// pageSkip returns the number of documents before page, capped at MaxInt32 so
// oversized page numbers yield an empty page instead of a negative skip.
func pageSkip(page, pageSize int) int64 {
	if page <= 1 || pageSize <= 0 {
		return 0
	}
	if int64(page-1) > math.MaxInt32/int64(pageSize) {
		return math.MaxInt32
	}
	return int64(page-1) * int64(pageSize)
}

func (r *PostMongoRepository) List(ctx context.Context, page, pageSize int, keywords []string) ([]*entity.Post, int, error) {
	filter := buildSearchFilter(keywords)

	findOptions := options.Find().
		SetSkip(pageSkip(page, pageSize)).
		SetLimit(int64(pageSize)).
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := r.coll.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list posts from mongo: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []postDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("failed to decode post list from mongo: %w", err)
	}

	posts := make([]*entity.Post, len(docs))
	for i := range docs {
		posts[i] = toPostEntity(&docs[i])
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count posts in mongo: %w", err)
	}

	return posts, int(total), nil
}

// BackfillSource sets source on every post that lacks one.
func (r *PostMongoRepository) BackfillSource(ctx context.Context, source string) (int64, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"source": bson.M{"$exists": false}},
		bson.M{"source": ""},
		bson.M{"source": nil},
	}}
	res, err := r.coll.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"source": source}})
	if err != nil {
		return 0, fmt.Errorf("failed to backfill post source in mongo: %w", err)
	}
	return res.ModifiedCount, nil
}
