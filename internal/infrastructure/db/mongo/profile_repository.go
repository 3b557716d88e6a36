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

const (
	collectionPartners   = "partner_profiles"
	collectionRequesters = "requester_profiles"
)

// PartnerRepository persists partner profiles.
type PartnerRepository struct {
	coll *mongo.Collection
}

func NewPartnerRepository(db *mongo.Database) *PartnerRepository {
	return &PartnerRepository{coll: db.Collection(collectionPartners)}
}

type mongoPartner struct {
	ID                 string  `bson:"_id"`
	UserID             string  `bson:"user_id"`
	FullName           string  `bson:"full_name"`
	Phone              string  `bson:"phone"`
	Profession         string  `bson:"profession"`
	VerificationStatus string  `bson:"verification_status"`
	Rating             float64 `bson:"rating"`
	CreatedAt          int64   `bson:"created_at"`
}

func (mp mongoPartner) toDomain() *domain.PartnerProfile {
	return &domain.PartnerProfile{
		ID:                 mp.ID,
		UserID:             mp.UserID,
		FullName:           mp.FullName,
		Phone:              mp.Phone,
		Profession:         mp.Profession,
		VerificationStatus: domain.VerificationStatus(mp.VerificationStatus),
		Rating:             mp.Rating,
		CreatedAt:          unixToTime(mp.CreatedAt),
	}
}

func (r *PartnerRepository) Create(ctx context.Context, p *domain.PartnerProfile) (*domain.PartnerProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoPartner{
		ID:                 p.ID,
		UserID:             p.UserID,
		FullName:           p.FullName,
		Phone:              p.Phone,
		Profession:         p.Profession,
		VerificationStatus: string(p.VerificationStatus),
		Rating:             p.Rating,
		CreatedAt:          p.CreatedAt.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert partner profile: %w", err)
	}
	return p, nil
}

func (r *PartnerRepository) FindByID(ctx context.Context, id string) (*domain.PartnerProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mp mongoPartner
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&mp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPartnerNotFound
		}
		return nil, fmt.Errorf("find partner: %w", err)
	}
	return mp.toDomain(), nil
}

func (r *PartnerRepository) FindByUserID(ctx context.Context, userID string) (*domain.PartnerProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mp mongoPartner
	if err := r.coll.FindOne(ctx, bson.M{"user_id": userID}).Decode(&mp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("find partner by user: %w", err)
	}
	return mp.toDomain(), nil
}

func (r *PartnerRepository) List(ctx context.Context) ([]*domain.PartnerProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list partners: %w", err)
	}
	defer cursor.Close(ctx)

	var out []*domain.PartnerProfile
	for cursor.Next(ctx) {
		var mp mongoPartner
		if err := cursor.Decode(&mp); err != nil {
			return nil, fmt.Errorf("decode partner: %w", err)
		}
		out = append(out, mp.toDomain())
	}
	return out, cursor.Err()
}

func (r *PartnerRepository) UpdateVerification(ctx context.Context, id string, status domain.VerificationStatus) (*domain.PartnerProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mp mongoPartner
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"verification_status": string(status)}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&mp)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPartnerNotFound
		}
		return nil, fmt.Errorf("update partner verification: %w", err)
	}
	return mp.toDomain(), nil
}

func (r *PartnerRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return r.coll.CountDocuments(ctx, bson.M{})
}

// EnsureIndexes creates the partner profile indexes.
func (r *PartnerRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: indexUnique()},
		{Keys: bson.D{{Key: "verification_status", Value: 1}}},
	}
	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

// RequesterRepository persists requester profiles.
type RequesterRepository struct {
	coll *mongo.Collection
}

func NewRequesterRepository(db *mongo.Database) *RequesterRepository {
	return &RequesterRepository{coll: db.Collection(collectionRequesters)}
}

type mongoRequester struct {
	ID        string `bson:"_id"`
	UserID    string `bson:"user_id"`
	FullName  string `bson:"full_name"`
	Phone     string `bson:"phone"`
	CreatedAt int64  `bson:"created_at"`
}

func (mr mongoRequester) toDomain() *domain.RequesterProfile {
	return &domain.RequesterProfile{
		ID:        mr.ID,
		UserID:    mr.UserID,
		FullName:  mr.FullName,
		Phone:     mr.Phone,
		CreatedAt: unixToTime(mr.CreatedAt),
	}
}

func (r *RequesterRepository) Create(ctx context.Context, p *domain.RequesterProfile) (*domain.RequesterProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoRequester{
		ID:        p.ID,
		UserID:    p.UserID,
		FullName:  p.FullName,
		Phone:     p.Phone,
		CreatedAt: p.CreatedAt.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert requester profile: %w", err)
	}
	return p, nil
}

func (r *RequesterRepository) FindByID(ctx context.Context, id string) (*domain.RequesterProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mr mongoRequester
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&mr); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("find requester: %w", err)
	}
	return mr.toDomain(), nil
}

func (r *RequesterRepository) FindByUserID(ctx context.Context, userID string) (*domain.RequesterProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mr mongoRequester
	if err := r.coll.FindOne(ctx, bson.M{"user_id": userID}).Decode(&mr); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("find requester by user: %w", err)
	}
	return mr.toDomain(), nil
}

func (r *RequesterRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return r.coll.CountDocuments(ctx, bson.M{})
}

// EnsureIndexes creates the requester profile indexes.
func (r *RequesterRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: indexUnique(),
	})
	return err
}
