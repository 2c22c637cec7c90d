package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"reservation_service/internal/models"
	"reservation_service/internal/storage"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	usersCollection    = "users"
	bookingsCollection = "bookings"
)

type MongoRepo struct {
	client   *mongo.Client
	users    *mongo.Collection
	bookings *mongo.Collection
}

type userDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	FirstName string             `bson:"firstName"`
	LastName  string             `bson:"lastName"`
	Email     string             `bson:"email"`
	Password  []byte             `bson:"password"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

type bookingDoc struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty"`
	User       *primitive.ObjectID `bson:"user,omitempty"`
	Title      string              `bson:"title"`
	FirstName  string              `bson:"firstName"`
	LastName   string              `bson:"lastName"`
	Email      string              `bson:"email"`
	Phone      string              `bson:"phone"`
	Restaurant string              `bson:"restaurant"`
	Date       string              `bson:"date"`
	Time       string              `bson:"time"`
	Guests     int                 `bson:"guests"`
	Comments   string              `bson:"comments"`
	CreatedAt  time.Time           `bson:"createdAt"`
	UpdatedAt  time.Time           `bson:"updatedAt"`
}

// Connect dials the server, pings it and makes sure the email index exists.
// A failed ping means the server is unreachable.
func Connect(ctx context.Context, uri, database string) (*MongoRepo, error) {
	const op = "storage.mongo.Connect"

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create client: %w", op, err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%s: ping: %w", op, err)
	}

	db := client.Database(database)
	repo := &MongoRepo{
		client:   client,
		users:    db.Collection(usersCollection),
		bookings: db.Collection(bookingsCollection),
	}

	_, err = repo.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%s: create email index: %w", op, err)
	}

	_, err = repo.bookings.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%s: create bookings index: %w", op, err)
	}

	return repo, nil
}

func (r *MongoRepo) Mode() string {
	return storage.ModeMongo
}

func (r *MongoRepo) SaveUser(ctx context.Context, user models.User) (models.User, error) {
	const op = "storage.mongo.SaveUser"

	doc := userDoc{
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Password:  user.PassHash,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.CreatedAt,
	}

	res, err := r.users.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, fmt.Errorf("%s: %w", op, storage.ErrUserExists)
		}

		return models.User{}, wrap(op, err)
	}

	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = id.Hex()
	}

	return user, nil
}

func (r *MongoRepo) User(ctx context.Context, email string) (models.User, error) {
	const op = "storage.mongo.User"

	return r.findUser(ctx, op, bson.M{"email": email})
}

func (r *MongoRepo) UserByID(ctx context.Context, id string) (models.User, error) {
	const op = "storage.mongo.UserByID"

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}

	return r.findUser(ctx, op, bson.M{"_id": oid})
}

func (r *MongoRepo) findUser(ctx context.Context, op string, filter bson.M) (models.User, error) {
	var doc userDoc

	if err := r.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
		}

		return models.User{}, wrap(op, err)
	}

	return models.User{
		ID:        doc.ID.Hex(),
		FirstName: doc.FirstName,
		LastName:  doc.LastName,
		Email:     doc.Email,
		PassHash:  doc.Password,
		CreatedAt: doc.CreatedAt,
	}, nil
}

func (r *MongoRepo) SaveBooking(ctx context.Context, booking models.Booking) (models.Booking, error) {
	const op = "storage.mongo.SaveBooking"

	doc := toBookingDoc(booking)
	if booking.UserID != "" && doc.User == nil {
		return models.Booking{}, fmt.Errorf("%s: invalid owner id %q", op, booking.UserID)
	}

	res, err := r.bookings.InsertOne(ctx, doc)
	if err != nil {
		return models.Booking{}, wrap(op, err)
	}

	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		booking.ID = id.Hex()
	}

	return booking, nil
}

func (r *MongoRepo) Booking(ctx context.Context, id string) (models.Booking, error) {
	const op = "storage.mongo.Booking"

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Booking{}, fmt.Errorf("%s: %w", op, storage.ErrBookingNotFound)
	}

	var doc bookingDoc
	if err := r.bookings.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Booking{}, fmt.Errorf("%s: %w", op, storage.ErrBookingNotFound)
		}

		return models.Booking{}, wrap(op, err)
	}

	return doc.toModel(), nil
}

func (r *MongoRepo) BookingsByOwner(ctx context.Context, ownerID string) ([]models.Booking, error) {
	const op = "storage.mongo.BookingsByOwner"

	oid, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return []models.Booking{}, nil
	}

	return r.find(ctx, op, bson.M{"user": oid})
}

func (r *MongoRepo) BookingsByGuests(ctx context.Context, guests int) ([]models.Booking, error) {
	const op = "storage.mongo.BookingsByGuests"

	return r.find(ctx, op, bson.M{"guests": guests})
}

func (r *MongoRepo) Bookings(ctx context.Context) ([]models.Booking, error) {
	const op = "storage.mongo.Bookings"

	return r.find(ctx, op, bson.M{})
}

func (r *MongoRepo) DeleteBooking(ctx context.Context, id string) (models.Booking, error) {
	const op = "storage.mongo.DeleteBooking"

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Booking{}, fmt.Errorf("%s: %w", op, storage.ErrBookingNotFound)
	}

	var doc bookingDoc
	if err := r.bookings.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Booking{}, fmt.Errorf("%s: %w", op, storage.ErrBookingNotFound)
		}

		return models.Booking{}, wrap(op, err)
	}

	return doc.toModel(), nil
}

func (r *MongoRepo) find(ctx context.Context, op string, filter bson.M) ([]models.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := r.bookings.Find(ctx, filter, opts)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer cursor.Close(ctx)

	var docs []bookingDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, wrap(op, err)
	}

	bookings := make([]models.Booking, 0, len(docs))
	for _, d := range docs {
		bookings = append(bookings, d.toModel())
	}

	return bookings, nil
}

// Close disconnects the client.
func (r *MongoRepo) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_ = r.client.Disconnect(ctx)
}

func toBookingDoc(b models.Booking) bookingDoc {
	doc := bookingDoc{
		Title:      b.Title,
		FirstName:  b.FirstName,
		LastName:   b.LastName,
		Email:      b.Email,
		Phone:      b.Phone,
		Restaurant: b.Restaurant,
		Date:       b.Date,
		Time:       b.Time,
		Guests:     b.Guests,
		Comments:   b.Comments,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.CreatedAt,
	}

	if oid, err := primitive.ObjectIDFromHex(b.UserID); err == nil {
		doc.User = &oid
	}

	return doc
}

func (d bookingDoc) toModel() models.Booking {
	b := models.Booking{
		ID:         d.ID.Hex(),
		Title:      d.Title,
		FirstName:  d.FirstName,
		LastName:   d.LastName,
		Email:      d.Email,
		Phone:      d.Phone,
		Restaurant: d.Restaurant,
		Date:       d.Date,
		Time:       d.Time,
		Guests:     d.Guests,
		Comments:   d.Comments,
		CreatedAt:  d.CreatedAt,
	}

	if d.User != nil {
		b.UserID = d.User.Hex()
	}

	return b
}

func wrap(op string, err error) error {
	if mongo.IsTimeout(err) {
		return fmt.Errorf("%s: %w: %w", op, storage.ErrTimeout, err)
	}

	return storage.Wrap(op, err)
}
