package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/docsewa/marketplace-api/internal/core/domain"
)

const collectionServices = "services"

// ServiceRepository persists the service catalog.
type ServiceRepository struct {
	coll *mongo.Collection
}

func NewServiceRepository(db *mongo.Database) *ServiceRepository {
	return &ServiceRepository{coll: db.Collection(collectionServices)}
}

type mongoRequirement struct {
	ID          string `bson:"id"`
	Name        string `bson:"name"`
	Description string `bson:"description,omitempty"`
	IsRequired  bool   `bson:"is_required"`
	SortOrder   int    `bson:"sort_order"`
}

type mongoService struct {
	ID           string             `bson:"_id"`
	DocumentType string             `bson:"document_type"`
	State        string             `bson:"state"`
	BasePrice    string             `bson:"base_price"`
	IsActive     bool               `bson:"is_active"`
	Requirements []mongoRequirement `bson:"requirements,omitempty"`
	CreatedAt    int64              `bson:"created_at"`
}

func toMongoService(s *domain.Service) mongoService {
	doc := mongoService{
		ID:           s.ID,
		DocumentType: s.DocumentType,
		State:        s.State,
		BasePrice:    s.BasePrice.String(),
		IsActive:     s.IsActive,
		CreatedAt:    s.CreatedAt.Unix(),
	}
	for _, req := range s.Requirements {
		doc.Requirements = append(doc.Requirements, mongoRequirement{
			ID:          req.ID,
			Name:        req.Name,
			Description: req.Description,
			IsRequired:  req.IsRequired,
			SortOrder:   req.SortOrder,
		})
	}
	return doc
}

func (ms mongoService) toDomain() (*domain.Service, error) {
	price := moneyFromString(&ms.BasePrice)
	if price == nil {
		return nil, fmt.Errorf("service %s: bad base price %q", ms.ID, ms.BasePrice)
	}

	s := &domain.Service{
		ID:           ms.ID,
		DocumentType: ms.DocumentType,
		State:        ms.State,
		BasePrice:    *price,
		IsActive:     ms.IsActive,
		CreatedAt:    unixToTime(ms.CreatedAt),
	}
	for _, req := range ms.Requirements {
		s.Requirements = append(s.Requirements, domain.Requirement{
			ID:          req.ID,
			Name:        req.Name,
			Description: req.Description,
			IsRequired:  req.IsRequired,
			SortOrder:   req.SortOrder,
		})
	}
	return s, nil
}

func (r *ServiceRepository) Create(ctx context.Context, s *domain.Service) (*domain.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, toMongoService(s)); err != nil {
		return nil, fmt.Errorf("insert service: %w", err)
	}
	return s, nil
}

func (r *ServiceRepository) FindByID(ctx context.Context, id string) (*domain.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var ms mongoService
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&ms); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrServiceNotFound
		}
		return nil, fmt.Errorf("find service: %w", err)
	}
	return ms.toDomain()
}

// ListActive returns active catalog entries without their requirements; the
// detail endpoint loads those.
func (r *ServiceRepository) ListActive(ctx context.Context) ([]*domain.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"is_active": true}, options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetProjection(bson.M{"requirements": 0}))
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer cursor.Close(ctx)

	var out []*domain.Service
	for cursor.Next(ctx) {
		var ms mongoService
		if err := cursor.Decode(&ms); err != nil {
			return nil, fmt.Errorf("decode service: %w", err)
		}
		s, err := ms.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, cursor.Err()
}

func (r *ServiceRepository) SetActive(ctx context.Context, id string, active bool) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"is_active": active}})
	if err != nil {
		return fmt.Errorf("update service: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrServiceNotFound
	}
	return nil
}

// EnsureIndexes creates the catalog indexes.
func (r *ServiceRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "is_active", Value: 1}}},
		{Keys: bson.D{{Key: "document_type", Value: 1}, {Key: "state", Value: 1}}},
	}
	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
