package quotes

import (
	"context"
	"errors"
	"time"

	"github.com/uniformsource/backend/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

var ErrNotFound = errors.New("quote request not found")

type ListFilter struct {
	Status string
	Page   int
	Limit  int
}

// Repository is the persistence port for quote requests. The mutate-and-log
// operations must add the activity entry atomically with respect to
// concurrent appenders: two sessions mutating the same request may interleave
// entries but never lose one.
type Repository interface {
	Insert(ctx context.Context, qr *models.QuoteRequest) error
	FindByID(ctx context.Context, id string) (*models.QuoteRequest, error)
	List(ctx context.Context, filter ListFilter) ([]models.QuoteRequest, int64, error)
	ListAssigned(ctx context.Context, supplierID string) ([]models.QuoteRequest, error)
	SetStatus(ctx context.Context, id string, status models.QuoteStatus, at time.Time, entry models.ActivityLogEntry) error
	SetAdminNotes(ctx context.Context, id string, notes string, at time.Time, entry models.ActivityLogEntry) error
	SetAssignedSupplier(ctx context.Context, id, supplierID string, at time.Time, entry models.ActivityLogEntry) error
	AppendLog(ctx context.Context, id string, entry models.ActivityLogEntry) error
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Insert(ctx context.Context, qr *models.QuoteRequest) error {
	res, err := r.col.InsertOne(ctx, qr)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(bson.ObjectID); ok {
		qr.ID = oid
	}
	return nil
}

func (r *MongoRepository) FindByID(ctx context.Context, id string) (*models.QuoteRequest, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var qr models.QuoteRequest
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&qr); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &qr, nil
}

func (r *MongoRepository) List(ctx context.Context, filter ListFilter) ([]models.QuoteRequest, int64, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 20
	}

	findOpts := options.Find().
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.col.Find(ctx, query, findOpts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	requests := make([]models.QuoteRequest, 0)
	for cursor.Next(ctx) {
		var qr models.QuoteRequest
		if err := cursor.Decode(&qr); err != nil {
			return nil, 0, err
		}
		requests = append(requests, qr)
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, err
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

func (r *MongoRepository) ListAssigned(ctx context.Context, supplierID string) ([]models.QuoteRequest, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.col.Find(ctx, bson.M{"assignedSupplierId": supplierID}, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	requests := make([]models.QuoteRequest, 0)
	for cursor.Next(ctx) {
		var qr models.QuoteRequest
		if err := cursor.Decode(&qr); err != nil {
			return nil, err
		}
		requests = append(requests, qr)
	}
	return requests, cursor.Err()
}

func (r *MongoRepository) SetStatus(ctx context.Context, id string, status models.QuoteStatus, at time.Time, entry models.ActivityLogEntry) error {
	return r.mutate(ctx, id, bson.M{"status": status, "updatedAt": at}, entry)
}

func (r *MongoRepository) SetAdminNotes(ctx context.Context, id string, notes string, at time.Time, entry models.ActivityLogEntry) error {
	return r.mutate(ctx, id, bson.M{"adminNotes": notes, "updatedAt": at}, entry)
}

func (r *MongoRepository) SetAssignedSupplier(ctx context.Context, id, supplierID string, at time.Time, entry models.ActivityLogEntry) error {
	return r.mutate(ctx, id, bson.M{"assignedSupplierId": supplierID, "updatedAt": at}, entry)
}

func (r *MongoRepository) AppendLog(ctx context.Context, id string, entry models.ActivityLogEntry) error {
	return r.mutate(ctx, id, nil, entry)
}

// mutate applies the field writes and the log append as a single update, so
// the $push stays atomic against concurrent sessions.
func (r *MongoRepository) mutate(ctx context.Context, id string, set bson.M, entry models.ActivityLogEntry) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	update := bson.M{"$push": bson.M{"activityLog": entry}}
	if len(set) > 0 {
		update["$set"] = set
	}

	res, err := r.col.UpdateByID(ctx, oid, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
