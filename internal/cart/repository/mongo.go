package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"glowbook/pkg/config"
	"glowbook/pkg/model"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "Carts"

type mongoCartRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoCartRepository(cfg *config.Config) CartRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoCartRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

// Money is stored as strings so amounts survive BSON round-trips exactly.
// The doc structs are the only place the string encoding exists; everything
// above the repository works with decimals.
type cartItemDoc struct {
	ID              string `bson:"id"`
	VendorID        string `bson:"vendor_id"`
	VendorName      string `bson:"vendor_name"`
	ServiceID       string `bson:"service_id"`
	ServiceName     string `bson:"service_name"`
	PlanName        string `bson:"plan_name,omitempty"`
	CategoryName    string `bson:"category_name,omitempty"`
	DurationMinutes int    `bson:"duration_minutes"`
	UnitPrice       string `bson:"unit_price"`
	Quantity        int    `bson:"quantity"`
	Description     string `bson:"description,omitempty"`
}

type cartDoc struct {
	CustomerID string        `bson:"_id"`
	Items      []cartItemDoc `bson:"items"`
	Stale      bool          `bson:"stale,omitempty"`
	UpdatedAt  time.Time     `bson:"updated_at"`
}

func toCartDoc(cart *model.Cart) cartDoc {
	items := make([]cartItemDoc, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, cartItemDoc{
			ID:              item.ID,
			VendorID:        item.VendorID,
			VendorName:      item.VendorName,
			ServiceID:       item.ServiceID,
			ServiceName:     item.ServiceName,
			PlanName:        item.PlanName,
			CategoryName:    item.CategoryName,
			DurationMinutes: item.DurationMinutes,
			UnitPrice:       item.UnitPrice.String(),
			Quantity:        item.Quantity,
			Description:     item.Description,
		})
	}
	return cartDoc{
		CustomerID: cart.CustomerID,
		Items:      items,
		Stale:      cart.Stale,
		UpdatedAt:  time.Now().UTC(),
	}
}

func fromCartDoc(doc cartDoc) (*model.Cart, error) {
	items := make([]model.CartItem, 0, len(doc.Items))
	for _, d := range doc.Items {
		price, err := decimal.NewFromString(d.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("cart %s item %s has invalid unit_price %q: %w", doc.CustomerID, d.ID, d.UnitPrice, err)
		}
		items = append(items, model.CartItem{
			ID:              d.ID,
			VendorID:        d.VendorID,
			VendorName:      d.VendorName,
			ServiceID:       d.ServiceID,
			ServiceName:     d.ServiceName,
			PlanName:        d.PlanName,
			CategoryName:    d.CategoryName,
			DurationMinutes: d.DurationMinutes,
			UnitPrice:       price,
			Quantity:        d.Quantity,
			Description:     d.Description,
		})
	}
	return &model.Cart{
		CustomerID: doc.CustomerID,
		Items:      items,
		Stale:      doc.Stale,
		UpdatedAt:  doc.UpdatedAt,
	}, nil
}

func (r *mongoCartRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.cfg.MongoConnTimeout)
}

func (r *mongoCartRepository) Get(ctx context.Context, customerID string) (*model.Cart, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var doc cartDoc
	err := r.collection.FindOne(ctx, bson.M{"_id": customerID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return &model.Cart{CustomerID: customerID, Items: []model.CartItem{}}, nil
		}
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	return fromCartDoc(doc)
}

func (r *mongoCartRepository) Save(ctx context.Context, cart *model.Cart) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	doc := toCartDoc(cart)
	opts := options.Replace().SetUpsert(true)

	if _, err := r.collection.ReplaceOne(ctx, bson.M{"_id": cart.CustomerID}, doc, opts); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

func (r *mongoCartRepository) Clear(ctx context.Context, customerID string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": customerID}); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

func (r *mongoCartRepository) SetStale(ctx context.Context, customerID string, stale bool) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	update := bson.M{"$set": bson.M{"stale": stale}}
	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": customerID}, update); err != nil {
		return fmt.Errorf("failed to update cart stale flag: %w", err)
	}
	return nil
}
