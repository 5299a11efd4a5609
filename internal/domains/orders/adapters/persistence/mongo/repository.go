// Package mongo stores orders in the document layout the storefront has always
// used (snake_case fields, payment id under payment_id, creation time under date).
package mongo

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/husnhira/storefront/internal/domains/orders/domain"
	"github.com/husnhira/storefront/internal/domains/orders/ports"
)

// CollectionName is the collection orders live in.
const CollectionName = "orders"

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in a MongoDB collection.
type Repository struct {
	coll *mongo.Collection
}

// NewRepository binds to the orders collection of db. Call EnsureIndexes once at startup.
func NewRepository(db *mongo.Database) *Repository {
	if db == nil {
		return &Repository{}
	}
	return &Repository{coll: db.Collection(CollectionName)}
}

type orderDocument struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Name            string             `bson:"name"`
	Address         string             `bson:"address"`
	MobileNumber    string             `bson:"mobile_number"`
	AlternateNumber string             `bson:"alternate_number,omitempty"`
	Coupon          string             `bson:"coupon,omitempty"`
	OrderID         string             `bson:"order_id"`
	PaymentID       string             `bson:"payment_id"`
	Price           int                `bson:"price,omitempty"`
	PaymentMethod   string             `bson:"payment_method,omitempty"`
	Status          string             `bson:"status"`
	Date            time.Time          `bson:"date"`
}

// EnsureIndexes creates the unique order_id index and the tab listing index.
func (r *Repository) EnsureIndexes(ctx context.Context) error {
	if err := r.ensureColl(); err != nil {
		return err
	}
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "order_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("ux_orders_order_id"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "date", Value: -1}},
			Options: options.Index().SetName("idx_orders_status_date"),
		},
	})
	return err
}

func (r *Repository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureColl(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	doc := toDocument(order)
	doc.ID = primitive.NewObjectID()
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ports.ErrDuplicateOrder
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	if err := r.ensureColl(); err != nil {
		return nil, err
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ports.ErrInvalidID
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *Repository) GetByOrderID(ctx context.Context, orderID string) (*domain.Order, error) {
	if err := r.ensureColl(); err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"order_id": orderID})
}

func (r *Repository) findOne(ctx context.Context, filter bson.M) (*domain.Order, error) {
	var doc orderDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

// UpdateStatus matches on both id and the expected status so concurrent moves cannot skip a state.
func (r *Repository) UpdateStatus(ctx context.Context, id string, from, to domain.Status) (*domain.Order, error) {
	if err := r.ensureColl(); err != nil {
		return nil, err
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ports.ErrInvalidID
	}
	var doc orderDocument
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "status": string(from)},
		bson.M{"$set": bson.M{"status": string(to)}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		if _, getErr := r.findOne(ctx, bson.M{"_id": oid}); getErr != nil {
			return nil, getErr
		}
		return nil, ports.ErrStatusConflict
	}
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *Repository) Delete(ctx context.Context, id string) (*domain.Order, error) {
	if err := r.ensureColl(); err != nil {
		return nil, err
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ports.ErrInvalidID
	}
	var doc orderDocument
	if err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *Repository) DeleteByStatus(ctx context.Context, status domain.Status) (int64, error) {
	if err := r.ensureColl(); err != nil {
		return 0, err
	}
	result, err := r.coll.DeleteMany(ctx, bson.M{"status": string(status)})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

func (r *Repository) Find(ctx context.Context, query ports.Query) ([]*domain.Order, error) {
	if err := r.ensureColl(); err != nil {
		return nil, err
	}
	filter := bson.M{}
	if query.Status != nil {
		filter["status"] = string(*query.Status)
	}
	window := bson.M{}
	if query.CreatedFrom != nil {
		window["$gte"] = query.CreatedFrom.UTC()
	}
	if query.CreatedTo != nil {
		window["$lt"] = query.CreatedTo.UTC()
	}
	if len(window) > 0 {
		filter["date"] = window
	}
	if term := strings.TrimSpace(query.Search); term != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"mobile_number": pattern},
			bson.M{"order_id": pattern},
			bson.M{"payment_id": pattern},
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "order_id", Value: -1}})
	if query.Offset > 0 {
		opts.SetSkip(int64(query.Offset))
	}
	if query.Limit > 0 {
		opts.SetLimit(int64(query.Limit))
	}
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var docs []orderDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(docs))
	for i := range docs {
		orders = append(orders, docs[i].toDomain())
	}
	return orders, nil
}

func (r *Repository) ensureColl() error {
	if r == nil || r.coll == nil {
		return errors.New("mongo order repository not configured")
	}
	return nil
}

func toDocument(order *domain.Order) orderDocument {
	return orderDocument{
		Name:            order.Customer.Name,
		Address:         order.Customer.Address,
		MobileNumber:    order.Customer.Mobile,
		AlternateNumber: order.Customer.AlternateMobile,
		Coupon:          order.Coupon,
		OrderID:         order.OrderID,
		PaymentID:       order.TransactionID,
		Price:           order.Price,
		PaymentMethod:   string(order.PaymentMethod),
		Status:          string(order.Status),
		Date:            order.CreatedAt.UTC(),
	}
}

// toDomain fills price and payment method for documents written before those fields existed.
func (d orderDocument) toDomain() *domain.Order {
	method := domain.PaymentMethod(d.PaymentMethod)
	if !method.Valid() {
		method = domain.PaymentOnline
		if d.PaymentID == domain.CODTransactionID {
			method = domain.PaymentCOD
		}
	}
	price := d.Price
	if price == 0 {
		price = domain.OnlinePrice(d.Coupon)
		if method == domain.PaymentCOD {
			price = domain.CODPrice(d.Coupon)
		}
	}
	status := domain.Status(d.Status)
	if status == "" {
		status = domain.StatusPending
	}
	return &domain.Order{
		ID:            d.ID.Hex(),
		OrderID:       d.OrderID,
		TransactionID: d.PaymentID,
		Customer: domain.Customer{
			Name:            d.Name,
			Address:         d.Address,
			Mobile:          d.MobileNumber,
			AlternateMobile: d.AlternateNumber,
		},
		Coupon:        d.Coupon,
		Price:         price,
		PaymentMethod: method,
		Status:        status,
		CreatedAt:     d.Date.UTC(),
	}
}
