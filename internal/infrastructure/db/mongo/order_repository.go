package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/docsewa/marketplace-api/internal/core/domain"
	"github.com/docsewa/marketplace-api/internal/core/ports"
)

const collectionOrders = "orders"

// OrderRepository persists orders. Claim, Assign and MarkPaid put their guard
// inside the update filter, so the check and the write are one atomic
// operation at the server; there is no read-then-write window.
type OrderRepository struct {
	coll *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{coll: db.Collection(collectionOrders)}
}

type mongoOrder struct {
	ID             string  `bson:"_id"`
	ServiceID      string  `bson:"service_id"`
	CustomerID     string  `bson:"customer_id"`
	ProviderID     *string `bson:"provider_id"`
	Status         string  `bson:"status"`
	PaymentStatus  string  `bson:"payment_status"`
	FinalPrice     *string `bson:"final_price,omitempty"`
	VoucherCode    string  `bson:"voucher_code,omitempty"`
	DiscountAmount *string `bson:"discount_amount,omitempty"`
	Rating         *int    `bson:"rating,omitempty"`
	Remarks        string  `bson:"remarks,omitempty"`
	CreatedAt      int64   `bson:"created_at"`
	// UpdatedAt is in milliseconds: it doubles as the poll-feed cursor.
	UpdatedAt int64 `bson:"updated_at"`
}

func toMongoOrder(o *domain.Order) mongoOrder {
	return mongoOrder{
		ID:             o.ID,
		ServiceID:      o.ServiceID,
		CustomerID:     o.CustomerID,
		ProviderID:     o.ProviderID,
		Status:         string(o.Status),
		PaymentStatus:  string(o.PaymentStatus),
		FinalPrice:     moneyToString(o.FinalPrice),
		VoucherCode:    o.VoucherCode,
		DiscountAmount: moneyToString(o.DiscountAmount),
		Rating:         o.Rating,
		Remarks:        o.Remarks,
		CreatedAt:      o.CreatedAt.Unix(),
		UpdatedAt:      o.UpdatedAt.UnixMilli(),
	}
}

func (mo mongoOrder) toDomain() *domain.Order {
	return &domain.Order{
		ID:             mo.ID,
		ServiceID:      mo.ServiceID,
		CustomerID:     mo.CustomerID,
		ProviderID:     mo.ProviderID,
		Status:         domain.OrderStatus(mo.Status),
		PaymentStatus:  domain.PaymentStatus(mo.PaymentStatus),
		FinalPrice:     moneyFromString(mo.FinalPrice),
		VoucherCode:    mo.VoucherCode,
		DiscountAmount: moneyFromString(mo.DiscountAmount),
		Rating:         mo.Rating,
		Remarks:        mo.Remarks,
		CreatedAt:      unixToTime(mo.CreatedAt),
		UpdatedAt:      time.UnixMilli(mo.UpdatedAt).UTC(),
	}
}

func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, toMongoOrder(o)); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mo mongoOrder
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&mo); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	return mo.toDomain(), nil
}

func scopeToFilter(filter ports.OrderListFilter) bson.M {
	switch {
	case filter.CustomerID != "":
		return bson.M{"customer_id": filter.CustomerID}
	case filter.ProviderID != "" && filter.Unassigned:
		return bson.M{"$or": bson.A{
			bson.M{"provider_id": filter.ProviderID},
			bson.M{"provider_id": nil, "status": string(domain.OrderPaymentCompleted)},
		}}
	case filter.ProviderID != "":
		return bson.M{"provider_id": filter.ProviderID}
	default:
		return bson.M{}
	}
}

func (r *OrderRepository) List(ctx context.Context, filter ports.OrderListFilter) ([]*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.coll.Find(ctx, scopeToFilter(filter),
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer cursor.Close(ctx)

	var out []*domain.Order
	for cursor.Next(ctx) {
		var mo mongoOrder
		if err := cursor.Decode(&mo); err != nil {
			return nil, fmt.Errorf("decode order: %w", err)
		}
		out = append(out, mo.toDomain())
	}
	return out, cursor.Err()
}

// Claim attaches the provider to an unassigned PAYMENT_COMPLETED order. The
// guard lives in the filter; a lost race matches zero documents and is then
// disambiguated by a re-read.
func (r *OrderRepository) Claim(ctx context.Context, orderID, providerID string) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mo mongoOrder
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{
			"_id":         orderID,
			"provider_id": nil,
			"status":      string(domain.OrderPaymentCompleted),
		},
		bson.M{"$set": bson.M{
			"provider_id": providerID,
			"status":      string(domain.OrderProcessing),
			"updated_at":  time.Now().UnixMilli(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&mo)
	if err == nil {
		return mo.toDomain(), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("claim order: %w", err)
	}

	current, ferr := r.FindByID(ctx, orderID)
	if ferr != nil {
		return nil, ferr
	}
	if current.Assigned() {
		return nil, domain.ErrAlreadyAssigned
	}
	return nil, domain.ErrInvalidState
}

// Assign sets the provider unconditionally and promotes the status to
// PROCESSING only when the order is currently PAYMENT_COMPLETED. The pipeline
// update keeps both in one server-side operation.
func (r *OrderRepository) Assign(ctx context.Context, orderID, providerID string) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"provider_id": providerID,
			"status": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$status", string(domain.OrderPaymentCompleted)}},
				string(domain.OrderProcessing),
				"$status",
			}},
			"updated_at": time.Now().UnixMilli(),
		}}},
	}

	var mo mongoOrder
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": orderID},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&mo)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("assign order: %w", err)
	}
	return mo.toDomain(), nil
}

// MarkPaid moves the order into PAYMENT_COMPLETED/SUCCESS if and only if it is
// still pre-payment. Zero matches on an existing order means the confirmation
// is a replay; the caller sees applied=false and skips side effects.
func (r *OrderRepository) MarkPaid(ctx context.Context, orderID string, finalPrice *decimal.Decimal) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{
		"status":         string(domain.OrderPaymentCompleted),
		"payment_status": string(domain.PaymentSuccess),
		"updated_at":     time.Now().UnixMilli(),
	}
	if finalPrice != nil {
		set["final_price"] = finalPrice.String()
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.M{
			"_id": orderID,
			"status": bson.M{"$in": bson.A{
				string(domain.OrderCreated),
				string(domain.OrderPaymentPending),
			}},
		},
		bson.M{"$set": set},
	)
	if err != nil {
		return false, fmt.Errorf("mark order paid: %w", err)
	}
	if res.MatchedCount > 0 {
		return true, nil
	}

	if _, err := r.FindByID(ctx, orderID); err != nil {
		return false, err
	}
	return false, nil
}

func (r *OrderRepository) ApplyUpdate(ctx context.Context, orderID string, update ports.OrderUpdate) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{"updated_at": time.Now().UnixMilli()}
	if update.Status != nil {
		set["status"] = string(*update.Status)
	}
	if update.Rating != nil {
		set["rating"] = *update.Rating
	}
	if update.Remarks != nil {
		set["remarks"] = *update.Remarks
	}

	var mo mongoOrder
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": orderID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&mo)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("update order: %w", err)
	}
	return mo.toDomain(), nil
}

func (r *OrderRepository) UpdatedSince(ctx context.Context, filter ports.OrderListFilter, since time.Time, limit int) ([]ports.StatusUpdate, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := scopeToFilter(filter)
	query["updated_at"] = bson.M{"$gt": since.UnixMilli()}

	cursor, err := r.coll.Find(ctx, query, options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: -1}}).
		SetLimit(int64(limit)))
	if err != nil {
		return nil, fmt.Errorf("list order updates: %w", err)
	}
	defer cursor.Close(ctx)

	var out []ports.StatusUpdate
	for cursor.Next(ctx) {
		var mo mongoOrder
		if err := cursor.Decode(&mo); err != nil {
			return nil, fmt.Errorf("decode order update: %w", err)
		}
		out = append(out, ports.StatusUpdate{
			OrderID:       mo.ID,
			Status:        domain.OrderStatus(mo.Status),
			PaymentStatus: domain.PaymentStatus(mo.PaymentStatus),
			ServiceID:     mo.ServiceID,
			UpdatedAt:     time.UnixMilli(mo.UpdatedAt).UTC(),
		})
	}
	return out, cursor.Err()
}

func (r *OrderRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return r.coll.CountDocuments(ctx, bson.M{})
}

// RevenueTotal sums final_price across successfully paid orders. Money lives
// in decimal strings, so the sum happens client-side.
func (r *OrderRepository) RevenueTotal(ctx context.Context) (decimal.Decimal, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.coll.Find(ctx,
		bson.M{"payment_status": string(domain.PaymentSuccess)},
		options.Find().SetProjection(bson.M{"final_price": 1}))
	if err != nil {
		return decimal.Zero, fmt.Errorf("revenue query: %w", err)
	}
	defer cursor.Close(ctx)

	total := decimal.Zero
	for cursor.Next(ctx) {
		var mo mongoOrder
		if err := cursor.Decode(&mo); err != nil {
			return decimal.Zero, fmt.Errorf("decode revenue row: %w", err)
		}
		if price := moneyFromString(mo.FinalPrice); price != nil {
			total = total.Add(*price)
		}
	}
	return total, cursor.Err()
}

// EnsureIndexes creates the order indexes, including the compound index the
// poll feed queries on.
func (r *OrderRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "customer_id", Value: 1}, {Key: "updated_at", Value: -1}}},
		{Keys: bson.D{{Key: "provider_id", Value: 1}, {Key: "updated_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}
	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
