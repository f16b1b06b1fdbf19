package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"sneakershop/models"
)

// productFields maps sortable fields to document keys.
var productFields = map[string]string{
	models.SortByName:         "name",
	models.SortByBrand:        "brand",
	models.SortByPrice:        "price",
	models.SortByRating:       "rating",
	models.SortByCountInStock: "countInStock",
	models.SortByNumReviews:   "numReviews",
	models.SortByCreatedAt:    "createdAt",
	models.SortByUpdatedAt:    "updatedAt",
}

type userDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	IsAdmin   bool               `bson:"isAdmin"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func (d userDocument) toModel() *models.User {
	return &models.User{
		ID:           d.ID.Hex(),
		Email:        d.Email,
		PasswordHash: d.Password,
		IsAdmin:      d.IsAdmin,
		CreatedAt:    d.CreatedAt,
	}
}

type productDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	Brand        string             `bson:"brand"`
	Description  string             `bson:"description"`
	Price        float64            `bson:"price"`
	Sizes        []string           `bson:"sizes"`
	Colors       []string           `bson:"colors"`
	Image        *string            `bson:"image"`
	CountInStock int                `bson:"countInStock"`
	Rating       float64            `bson:"rating"`
	NumReviews   int                `bson:"numReviews"`
	CreatedAt    time.Time          `bson:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"`
}

func newProductDocument(p *models.Product) productDocument {
	return productDocument{
		Name:         p.Name,
		Brand:        p.Brand,
		Description:  p.Description,
		Price:        p.Price,
		Sizes:        nonNil(p.Sizes),
		Colors:       nonNil(p.Colors),
		Image:        p.Image,
		CountInStock: p.CountInStock,
		Rating:       p.Rating,
		NumReviews:   p.NumReviews,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func (d productDocument) toModel() models.Product {
	return models.Product{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Brand:        d.Brand,
		Description:  d.Description,
		Price:        d.Price,
		Sizes:        nonNil(d.Sizes),
		Colors:       nonNil(d.Colors),
		Image:        d.Image,
		CountInStock: d.CountInStock,
		Rating:       d.Rating,
		NumReviews:   d.NumReviews,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

type MongoUserStore struct {
	users *mongo.Collection
}

func NewMongoUserStore(db *mongo.Database) *MongoUserStore {
	return &MongoUserStore{users: db.Collection("users")}
}

// EnsureIndexes creates the unique email index.
func (s *MongoUserStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (s *MongoUserStore) Create(ctx context.Context, user *models.User) error {
	doc := userDocument{
		ID:        primitive.NewObjectID(),
		Email:     user.Email,
		Password:  user.PasswordHash,
		IsAdmin:   user.IsAdmin,
		CreatedAt: user.CreatedAt,
	}
	if _, err := s.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	user.ID = doc.ID.Hex()
	return nil
}

func (s *MongoUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *MongoUserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return s.findOne(ctx, bson.M{"_id": oid})
}

func (s *MongoUserStore) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var doc userDocument
	if err := s.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc.toModel(), nil
}

type MongoProductStore struct {
	products *mongo.Collection
}

func NewMongoProductStore(db *mongo.Database) *MongoProductStore {
	return &MongoProductStore{products: db.Collection("products")}
}

func (s *MongoProductStore) Find(ctx context.Context, q models.ProductQuery) ([]models.Product, int, error) {
	filter, opts := buildFind(q)

	cursor, err := s.products.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	items := make([]models.Product, 0, q.Limit)
	for cursor.Next(ctx) {
		var doc productDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, 0, err
		}
		items = append(items, doc.toModel())
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, err
	}

	total, err := s.products.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return items, int(total), nil
}

// buildFind translates a list query into a filter and paging options.
func buildFind(q models.ProductQuery) (bson.M, *options.FindOptions) {
	filter := bson.M{}
	if q.Brand != "" {
		filter["brand"] = q.Brand
	}
	price := bson.M{}
	if q.MinPrice != nil {
		price["$gte"] = *q.MinPrice
	}
	if q.MaxPrice != nil {
		price["$lte"] = *q.MaxPrice
	}
	if len(price) > 0 {
		filter["price"] = price
	}

	field, ok := productFields[q.SortBy]
	if !ok {
		field = "createdAt"
	}
	dir := 1
	if q.SortOrder == models.SortDesc {
		dir = -1
	}

	opts := options.Find().
		SetSort(bson.D{{Key: field, Value: dir}, {Key: "_id", Value: 1}}).
		SetSkip(int64(q.Skip())).
		SetLimit(int64(q.Limit))
	return filter, opts
}

func (s *MongoProductStore) FindByID(ctx context.Context, id string) (*models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var doc productDocument
	if err := s.products.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	p := doc.toModel()
	return &p, nil
}

func (s *MongoProductStore) Create(ctx context.Context, p *models.Product) error {
	doc := newProductDocument(p)
	doc.ID = primitive.NewObjectID()
	if _, err := s.products.InsertOne(ctx, doc); err != nil {
		return err
	}
	p.ID = doc.ID.Hex()
	return nil
}

func (s *MongoProductStore) Update(ctx context.Context, p *models.Product) error {
	oid, err := primitive.ObjectIDFromHex(p.ID)
	if err != nil {
		return ErrNotFound
	}
	doc := newProductDocument(p)
	doc.ID = oid
	res, err := s.products.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoProductStore) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := s.products.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
