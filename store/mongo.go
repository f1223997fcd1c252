package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"laundromat-backend/models"
)

const (
	customersCollection = "customers"
	laundriesCollection = "laundries"
	remindersCollection = "reminder_logs"
)

// MongoStore keeps records as documents, one collection per record type.
type MongoStore struct {
	client    *mongo.Client
	customers *mongo.Collection
	laundries *mongo.Collection
	reminders *mongo.Collection
}

type customerDoc struct {
	ID          string    `bson:"_id"`
	Name        string    `bson:"name"`
	Address     string    `bson:"address,omitempty"`
	PhoneNumber int64     `bson:"phoneNumber"`
	Date        time.Time `bson:"date,omitempty"`
}

type laundryDoc struct {
	ID          string               `bson:"_id"`
	CustomerID  string               `bson:"customerId"`
	DropOffDate time.Time            `bson:"dropOffDate"`
	PickUpDate  time.Time            `bson:"pickUpDate"`
	Loads       int                  `bson:"loads"`
	Price       primitive.Decimal128 `bson:"price"`
	Date        time.Time            `bson:"date"`
	Customer    *customerDoc         `bson:"customer,omitempty"`
}

type reminderDoc struct {
	ID           string    `bson:"_id"`
	OrderID      string    `bson:"orderId"`
	CustomerID   string    `bson:"customerId"`
	Message      string    `bson:"message"`
	Status       string    `bson:"status"`
	ErrorMessage string    `bson:"errorMessage,omitempty"`
	Channel      string    `bson:"channel"`
	SentAt       time.Time `bson:"sentAt"`
}

// NewMongoStore connects to uri and uses database dbName.
func NewMongoStore(ctx context.Context, uri, dbName string) (*MongoStore, error) {
	const op = "store.mongo.NewMongoStore"

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	db := client.Database(dbName)
	return &MongoStore{
		client:    client,
		customers: db.Collection(customersCollection),
		laundries: db.Collection(laundriesCollection),
		reminders: db.Collection(remindersCollection),
	}, nil
}

// EnsureIndexes creates the secondary indexes the queries rely on.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	const op = "store.mongo.EnsureIndexes"

	_, err := s.laundries.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "customerId", Value: 1}}},
		{Keys: bson.D{{Key: "pickUpDate", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	_, err = s.reminders.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "orderId", Value: 1}, {Key: "status", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *MongoStore) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	const op = "store.mongo.CreateCustomer"

	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	doc := customerDoc{
		ID:          customer.ID.String(),
		Name:        customer.Name,
		Address:     customer.Address,
		PhoneNumber: int64(customer.PhoneNumber),
		Date:        customer.Date,
	}
	if _, err := s.customers.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *MongoStore) GetCustomer(ctx context.Context, id uuid.UUID) (models.Customer, error) {
	const op = "store.mongo.GetCustomer"

	var doc customerDoc
	err := s.customers.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Customer{}, models.ErrRecordNotFound
		}
		return models.Customer{}, fmt.Errorf("%s: %w", op, err)
	}
	return doc.model()
}

func (s *MongoStore) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	return s.findCustomers(ctx, "store.mongo.ListCustomers", bson.M{})
}

func (s *MongoStore) SearchCustomers(ctx context.Context, query string) ([]models.Customer, error) {
	const op = "store.mongo.SearchCustomers"

	q := strings.TrimSpace(query)
	if q == "" {
		return s.ListCustomers(ctx)
	}
	pattern := regexp.QuoteMeta(q)
	filter := bson.M{"$or": bson.A{
		bson.M{"name": bson.M{"$regex": pattern, "$options": "i"}},
		bson.M{"$expr": bson.M{"$regexMatch": bson.M{
			"input":   bson.M{"$toString": "$phoneNumber"},
			"regex":   pattern,
			"options": "i",
		}}},
	}}
	return s.findCustomers(ctx, op, filter)
}

func (s *MongoStore) findCustomers(ctx context.Context, op string, filter interface{}) ([]models.Customer, error) {
	cur, err := s.customers.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var docs []customerDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	customers := make([]models.Customer, 0, len(docs))
	for _, d := range docs {
		c, err := d.model()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		customers = append(customers, c)
	}
	return customers, nil
}

func (s *MongoStore) CreateLaundryOrder(ctx context.Context, order *models.LaundryOrder) error {
	const op = "store.mongo.CreateLaundryOrder"

	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	price, err := primitive.ParseDecimal128(order.Price.String())
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	doc := laundryDoc{
		ID:          order.ID.String(),
		CustomerID:  order.CustomerID.String(),
		DropOffDate: order.DropOffDate,
		PickUpDate:  order.PickUpDate,
		Loads:       order.Loads,
		Price:       price,
		Date:        order.Date,
	}
	if _, err := s.laundries.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *MongoStore) ListLaundryOrders(ctx context.Context) ([]models.LaundryOrder, error) {
	return s.joinedOrders(ctx, "store.mongo.ListLaundryOrders", bson.M{})
}

func (s *MongoStore) ListLaundryOrdersForCustomer(ctx context.Context, customerID uuid.UUID) ([]models.LaundryOrder, error) {
	return s.joinedOrders(ctx, "store.mongo.ListLaundryOrdersForCustomer",
		bson.M{"customerId": customerID.String()})
}

func (s *MongoStore) ListPickUpsBetween(ctx context.Context, from, to time.Time) ([]models.LaundryOrder, error) {
	return s.joinedOrders(ctx, "store.mongo.ListPickUpsBetween",
		bson.M{"pickUpDate": bson.M{"$gte": from, "$lte": to}})
}

// joinedOrders looks up each order's customer the way a populate would.
func (s *MongoStore) joinedOrders(ctx context.Context, op string, match bson.M) ([]models.LaundryOrder, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: customersCollection},
			{Key: "localField", Value: "customerId"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "customer"},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$customer"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
	}

	cur, err := s.laundries.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var docs []laundryDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	orders := make([]models.LaundryOrder, 0, len(docs))
	for _, d := range docs {
		o, err := d.model()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func (s *MongoStore) CreateReminderLog(ctx context.Context, entry *models.ReminderLog) error {
	const op = "store.mongo.CreateReminderLog"

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	doc := reminderDoc{
		ID:           entry.ID.String(),
		OrderID:      entry.OrderID.String(),
		CustomerID:   entry.CustomerID.String(),
		Message:      entry.Message,
		Status:       entry.Status,
		ErrorMessage: entry.ErrorMessage,
		Channel:      entry.Channel,
		SentAt:       entry.SentAt,
	}
	if _, err := s.reminders.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *MongoStore) ReminderSent(ctx context.Context, orderID uuid.UUID) (bool, error) {
	const op = "store.mongo.ReminderSent"

	n, err := s.reminders.CountDocuments(ctx, bson.M{
		"orderId": orderID.String(),
		"status":  models.ReminderStatusSent,
	})
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return n > 0, nil
}

func (s *MongoStore) ListReminderLogs(ctx context.Context, limit int) ([]models.ReminderLog, error) {
	const op = "store.mongo.ListReminderLogs"

	opts := options.Find().SetSort(bson.D{{Key: "sentAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := s.reminders.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var docs []reminderDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	logs := make([]models.ReminderLog, 0, len(docs))
	for _, d := range docs {
		entry, err := d.model()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		logs = append(logs, entry)
	}
	return logs, nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}

func (d customerDoc) model() (models.Customer, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return models.Customer{}, err
	}
	return models.Customer{
		ID:          id,
		Name:        d.Name,
		Address:     d.Address,
		PhoneNumber: models.PhoneNumber(d.PhoneNumber),
		Date:        d.Date,
	}, nil
}

func (d laundryDoc) model() (models.LaundryOrder, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return models.LaundryOrder{}, err
	}
	customerID, err := uuid.Parse(d.CustomerID)
	if err != nil {
		return models.LaundryOrder{}, err
	}
	price, err := decimal.NewFromString(d.Price.String())
	if err != nil {
		return models.LaundryOrder{}, err
	}

	o := models.LaundryOrder{
		ID:          id,
		CustomerID:  customerID,
		DropOffDate: d.DropOffDate,
		PickUpDate:  d.PickUpDate,
		Loads:       d.Loads,
		Price:       price,
		Date:        d.Date,
	}
	if d.Customer != nil {
		o.Customer = &models.CustomerRef{
			ID:          customerID,
			Name:        d.Customer.Name,
			PhoneNumber: models.PhoneNumber(d.Customer.PhoneNumber),
		}
	}
	return o, nil
}

func (d reminderDoc) model() (models.ReminderLog, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return models.ReminderLog{}, err
	}
	orderID, err := uuid.Parse(d.OrderID)
	if err != nil {
		return models.ReminderLog{}, err
	}
	customerID, err := uuid.Parse(d.CustomerID)
	if err != nil {
		return models.ReminderLog{}, err
	}
	return models.ReminderLog{
		ID:           id,
		OrderID:      orderID,
		CustomerID:   customerID,
		Message:      d.Message,
		Status:       d.Status,
		ErrorMessage: d.ErrorMessage,
		Channel:      d.Channel,
		SentAt:       d.SentAt,
	}, nil
}

var _ Store = (*MongoStore)(nil)
