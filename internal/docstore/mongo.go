package docstore

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const defaultTimeout = 5 * time.Second

// Options describes how to reach the document store.
type Options struct {
	URI      string
	Addr     string
	User     string
	Password string
	Database string
	Timeout  time.Duration
}

// ConnectionURI returns URI when set, otherwise builds one from the parts.
func (o Options) ConnectionURI() string {
	if uri := strings.TrimSpace(o.URI); uri != "" {
		return uri
	}
	addr := strings.TrimSpace(o.Addr)
	if addr == "" {
		addr = "127.0.0.1:27017"
	}
	if o.User == "" {
		return "mongodb://" + addr
	}
	return fmt.Sprintf("mongodb://%s:%s@%s/?authSource=admin",
		url.QueryEscape(o.User), url.QueryEscape(o.Password), addr)
}

// Client wraps one long-lived mongo handle. Operations never return driver
// errors: faults are logged and reported as false or zero values.
type Client struct {
	mu     sync.Mutex
	opts   Options
	client *mongo.Client
	db     *mongo.Database
}

// New creates the client and tries to connect. A failed connect is logged
// and retried lazily by the next operation.
func New(ctx context.Context, opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Database == "" {
		opts.Database = "blog"
	}
	c := &Client{opts: opts}
	if _, err := c.database(ctx); err != nil {
		logrus.WithError(err).Error("docstore: initial connect failed")
	}
	return c
}

// NewWithDatabase wraps an already connected database handle.
func NewWithDatabase(db *mongo.Database, opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	opts.Database = db.Name()
	return &Client{opts: opts, client: db.Client(), db: db}
}

func (c *Client) database(ctx context.Context) (*mongo.Database, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.db != nil {
		return c.db, nil
	}

	clientOpts := options.Client().
		ApplyURI(c.opts.ConnectionURI()).
		SetServerSelectionTimeout(c.opts.Timeout).
		SetConnectTimeout(c.opts.Timeout)
	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, err
	}
	c.client = client
	c.db = client.Database(c.opts.Database)
	logrus.WithField("database", c.opts.Database).Debug("docstore: connected")
	return c.db, nil
}

func (c *Client) collection(ctx context.Context, name string) (*mongo.Collection, error) {
	db, err := c.database(ctx)
	if err != nil {
		return nil, err
	}
	return db.Collection(name), nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.opts.Timeout)
}

func logFailure(err error, op, collection string) {
	logrus.WithError(err).WithFields(logrus.Fields{
		"op":         op,
		"collection": collection,
	}).Error("docstore: operation failed")
}

// Ping reports whether the server answers.
func (c *Client) Ping(ctx context.Context) bool {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	if _, err := c.database(ctx); err != nil {
		return false
	}
	c.mu.Lock()
	client := c.client
	c.mu.Unlock()
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		logrus.WithError(err).Warn("docstore: ping failed")
		return false
	}
	return true
}

// InsertOne stores a single document.
func (c *Client) InsertOne(ctx context.Context, collection string, document interface{}) bool {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	coll, err := c.collection(ctx, collection)
	if err != nil {
		logFailure(err, "insert_one", collection)
		return false
	}
	if _, err := coll.InsertOne(ctx, document); err != nil {
		logFailure(err, "insert_one", collection)
		return false
	}
	return true
}

// FindOne decodes the first document matching filter into out.
func (c *Client) FindOne(ctx context.Context, collection string, filter interface{}, out interface{}) bool {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	coll, err := c.collection(ctx, collection)
	if err != nil {
		logFailure(err, "find_one", collection)
		return false
	}
	if err := coll.FindOne(ctx, normalizeFilter(filter)).Decode(out); err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			logFailure(err, "find_one", collection)
		}
		return false
	}
	return true
}

// FindPage decodes one page of documents into out, a pointer to a slice.
// sortDir is 1 for ascending and -1 for descending; an empty sortField keeps
// the natural order.
func (c *Client) FindPage(ctx context.Context, collection string, filter interface{}, skip, pageSize int64, sortField string, sortDir int, out interface{}) bool {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	coll, err := c.collection(ctx, collection)
	if err != nil {
		logFailure(err, "find_page", collection)
		return false
	}

	findOpts := options.Find().SetSkip(skip).SetLimit(pageSize)
	if sortField != "" {
		if sortDir >= 0 {
			sortDir = 1
		} else {
			sortDir = -1
		}
		findOpts.SetSort(bson.D{{Key: sortField, Value: sortDir}})
	}

	cursor, err := coll.Find(ctx, normalizeFilter(filter), findOpts)
	if err != nil {
		logFailure(err, "find_page", collection)
		return false
	}
	if err := cursor.All(ctx, out); err != nil {
		logFailure(err, "find_page", collection)
		return false
	}
	return true
}

// UpdateOne applies patch to the first matching document. A patch without
// update operators is wrapped in $set. It reports true when a document
// matched or was upserted.
func (c *Client) UpdateOne(ctx context.Context, collection string, filter, patch interface{}, upsert bool) bool {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	coll, err := c.collection(ctx, collection)
	if err != nil {
		logFailure(err, "update_one", collection)
		return false
	}
	res, err := coll.UpdateOne(ctx, normalizeFilter(filter), buildUpdate(patch), options.Update().SetUpsert(upsert))
	if err != nil {
		logFailure(err, "update_one", collection)
		return false
	}
	return res.MatchedCount > 0 || res.UpsertedCount > 0
}

// UpdateMany applies patch to every matching document.
func (c *Client) UpdateMany(ctx context.Context, collection string, filter, patch interface{}, upsert bool) bool {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	coll, err := c.collection(ctx, collection)
	if err != nil {
		logFailure(err, "update_many", collection)
		return false
	}
	res, err := coll.UpdateMany(ctx, normalizeFilter(filter), buildUpdate(patch), options.Update().SetUpsert(upsert))
	if err != nil {
		logFailure(err, "update_many", collection)
		return false
	}
	return res.MatchedCount > 0 || res.UpsertedCount > 0
}

// DeleteOne removes the first matching document and reports whether one
// was removed.
func (c *Client) DeleteOne(ctx context.Context, collection string, filter interface{}) bool {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	coll, err := c.collection(ctx, collection)
	if err != nil {
		logFailure(err, "delete_one", collection)
		return false
	}
	res, err := coll.DeleteOne(ctx, normalizeFilter(filter))
	if err != nil {
		logFailure(err, "delete_one", collection)
		return false
	}
	return res.DeletedCount > 0
}

// DeleteMany removes every matching document.
func (c *Client) DeleteMany(ctx context.Context, collection string, filter interface{}) bool {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	coll, err := c.collection(ctx, collection)
	if err != nil {
		logFailure(err, "delete_many", collection)
		return false
	}
	res, err := coll.DeleteMany(ctx, normalizeFilter(filter))
	if err != nil {
		logFailure(err, "delete_many", collection)
		return false
	}
	return res.DeletedCount > 0
}

// Count returns the number of matching documents, 0 on failure.
func (c *Client) Count(ctx context.Context, collection string, filter interface{}) int64 {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	coll, err := c.collection(ctx, collection)
	if err != nil {
		logFailure(err, "count", collection)
		return 0
	}
	n, err := coll.CountDocuments(ctx, normalizeFilter(filter))
	if err != nil {
		logFailure(err, "count", collection)
		return 0
	}
	return n
}

// Close disconnects the underlying client.
func (c *Client) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client == nil {
		return nil
	}
	err := c.client.Disconnect(ctx)
	c.client = nil
	c.db = nil
	return err
}

func normalizeFilter(filter interface{}) interface{} {
	if filter == nil {
		return bson.M{}
	}
	return filter
}

// buildUpdate wraps a plain patch in $set and passes operator documents
// through unchanged.
func buildUpdate(patch interface{}) interface{} {
	switch p := patch.(type) {
	case bson.M:
		if hasOperator(mapKeys(p)) {
			return p
		}
	case map[string]interface{}:
		if hasOperator(mapKeys(p)) {
			return p
		}
	case bson.D:
		keys := make([]string, 0, len(p))
		for _, e := range p {
			keys = append(keys, e.Key)
		}
		if hasOperator(keys) {
			return p
		}
	case nil:
		return bson.M{"$set": bson.M{}}
	default:
		if v := reflect.ValueOf(patch); v.Kind() == reflect.Ptr && v.IsNil() {
			return bson.M{"$set": bson.M{}}
		}
	}
	return bson.M{"$set": patch}
}

func mapKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

func hasOperator(keys []string) bool {
	for _, k := range keys {
		if strings.HasPrefix(k, "$") {
			return true
		}
	}
	return false
}
