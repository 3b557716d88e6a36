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

const collectionVouchers = "vouchers"

// VoucherRepository persists vouchers. Redeem is a single guarded increment;
// current_uses can never pass max_uses no matter how many redemptions race.
type VoucherRepository struct {
	coll *mongo.Collection
}

func NewVoucherRepository(db *mongo.Database) *VoucherRepository {
	return &VoucherRepository{coll: db.Collection(collectionVouchers)}
}

type mongoVoucher struct {
	ID             string  `bson:"_id"`
	Code           string  `bson:"code"`
	DiscountType   string  `bson:"discount_type"`
	DiscountValue  string  `bson:"discount_value"`
	MinOrderAmount *string `bson:"min_order_amount,omitempty"`
	MaxDiscount    *string `bson:"max_discount,omitempty"`
	MaxUses        *int    `bson:"max_uses"`
	CurrentUses    int     `bson:"current_uses"`
	IsActive       bool    `bson:"is_active"`
	ValidFrom      int64   `bson:"valid_from"`
	ValidUntil     *int64  `bson:"valid_until,omitempty"`
	CreatedAt      int64   `bson:"created_at"`
}

func toMongoVoucher(v *domain.Voucher) mongoVoucher {
	doc := mongoVoucher{
		ID:             v.ID,
		Code:           v.Code,
		DiscountType:   string(v.DiscountType),
		DiscountValue:  v.DiscountValue.String(),
		MinOrderAmount: moneyToString(v.MinOrderAmount),
		MaxDiscount:    moneyToString(v.MaxDiscount),
		MaxUses:        v.MaxUses,
		CurrentUses:    v.CurrentUses,
		IsActive:       v.IsActive,
		ValidFrom:      v.ValidFrom.Unix(),
		CreatedAt:      v.CreatedAt.Unix(),
	}
	if v.ValidUntil != nil {
		until := v.ValidUntil.Unix()
		doc.ValidUntil = &until
	}
	return doc
}

func (mv mongoVoucher) toDomain() (*domain.Voucher, error) {
	value := moneyFromString(&mv.DiscountValue)
	if value == nil {
		return nil, fmt.Errorf("voucher %s: bad discount value %q", mv.ID, mv.DiscountValue)
	}

	v := &domain.Voucher{
		ID:             mv.ID,
		Code:           mv.Code,
		DiscountType:   domain.DiscountType(mv.DiscountType),
		DiscountValue:  *value,
		MinOrderAmount: moneyFromString(mv.MinOrderAmount),
		MaxDiscount:    moneyFromString(mv.MaxDiscount),
		MaxUses:        mv.MaxUses,
		CurrentUses:    mv.CurrentUses,
		IsActive:       mv.IsActive,
		ValidFrom:      unixToTime(mv.ValidFrom),
		CreatedAt:      unixToTime(mv.CreatedAt),
	}
	if mv.ValidUntil != nil {
		until := unixToTime(*mv.ValidUntil)
		v.ValidUntil = &until
	}
	return v, nil
}

func (r *VoucherRepository) Create(ctx context.Context, v *domain.Voucher) (*domain.Voucher, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, toMongoVoucher(v)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrVoucherExists
		}
		return nil, fmt.Errorf("insert voucher: %w", err)
	}
	return v, nil
}

func (r *VoucherRepository) FindByCode(ctx context.Context, code string) (*domain.Voucher, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mv mongoVoucher
	if err := r.coll.FindOne(ctx, bson.M{"code": code}).Decode(&mv); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrVoucherNotFound
		}
		return nil, fmt.Errorf("find voucher: %w", err)
	}
	return mv.toDomain()
}

func (r *VoucherRepository) List(ctx context.Context) ([]*domain.Voucher, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list vouchers: %w", err)
	}
	defer cursor.Close(ctx)

	var out []*domain.Voucher
	for cursor.Next(ctx) {
		var mv mongoVoucher
		if err := cursor.Decode(&mv); err != nil {
			return nil, fmt.Errorf("decode voucher: %w", err)
		}
		v, err := mv.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, cursor.Err()
}

func (r *VoucherRepository) SetActive(ctx context.Context, id string, active bool) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"is_active": active}})
	if err != nil {
		return fmt.Errorf("update voucher: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrVoucherNotFound
	}
	return nil
}

func (r *VoucherRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete voucher: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrVoucherNotFound
	}
	return nil
}

// Redeem increments current_uses, guarded by the cap inside the filter. A
// voucher at its cap matches nothing; the loser of a race over the last use
// gets domain.ErrConflict.
func (r *VoucherRepository) Redeem(ctx context.Context, code string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"code": code,
		"$or": bson.A{
			bson.M{"max_uses": nil},
			bson.M{"$expr": bson.M{"$lt": bson.A{"$current_uses", "$max_uses"}}},
		},
	}

	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"current_uses": 1}})
	if err != nil {
		return fmt.Errorf("redeem voucher: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	if _, err := r.FindByCode(ctx, code); err != nil {
		return err
	}
	return domain.ErrConflict
}

// EnsureIndexes creates the unique code index.
func (r *VoucherRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "code", Value: 1}},
		Options: indexUnique(),
	})
	return err
}
