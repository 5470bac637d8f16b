// Package mongodb stores travel records in a MongoDB collection.
package mongodb

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"travelrec/internal/codec"
	"travelrec/internal/domain"
	"travelrec/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Connection defaults
const (
	DefaultHost           = "localhost"
	DefaultPort           = 27017
	DefaultDatabase       = "CST8333"
	DefaultCollection     = "records"
	DefaultConnectTimeout = 5 * time.Second
)

// Options configures the connection. URI, when set, takes precedence over
// Host and Port.
type Options struct {
	URI            string
	Host           string
	Port           int
	Database       string
	Collection     string
	ConnectTimeout time.Duration
	MaxRecords     int
}

func (o *Options) applyDefaults() {
	if o.Host == "" {
		o.Host = DefaultHost
	}
	if o.Port == 0 {
		o.Port = DefaultPort
	}
	if o.Database == "" {
		o.Database = DefaultDatabase
	}
	if o.Collection == "" {
		o.Collection = DefaultCollection
	}
	if o.ConnectTimeout <= 0 {
		o.ConnectTimeout = DefaultConnectTimeout
	}
	if o.MaxRecords <= 0 {
		o.MaxRecords = repository.DefaultMaxRecords
	}
}

// ConnectionURI returns the URI the client dials
func (o Options) ConnectionURI() string {
	if o.URI != "" {
		return o.URI
	}
	return "mongodb://" + net.JoinHostPort(o.Host, strconv.Itoa(o.Port))
}

// Store implements repository.DocumentStore over one collection
type Store struct {
	client     *mongo.Client
	collection *mongo.Collection
	maxRecords int
	docs       *codec.DocumentCodec
	logger     *zap.Logger
}

var _ repository.DocumentStore = (*Store)(nil)

// Connect dials the server and verifies it with a ping. The connection is
// held until Close.
func Connect(ctx context.Context, opts Options, logger *zap.Logger) (*Store, error) {
	opts.applyDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithTimeout(ctx, opts.ConnectTimeout)
	defer cancel()

	uri := opts.ConnectionURI()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to connect to %s: %v", domain.ErrPersistence, uri, err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%w: failed to reach %s: %v", domain.ErrPersistence, uri, err)
	}

	logger = logger.Named("mongodb")
	logger.Info("connected",
		zap.String("uri", uri),
		zap.String("database", opts.Database),
		zap.String("collection", opts.Collection))

	return &Store{
		client:     client,
		collection: client.Database(opts.Database).Collection(opts.Collection),
		maxRecords: opts.MaxRecords,
		docs:       codec.NewDocumentCodec(),
		logger:     logger,
	}, nil
}

// Kind returns the backing medium name
func (s *Store) Kind() string {
	return "mongodb"
}

// Load returns up to maxRecords documents in natural order
func (s *Store) Load(ctx context.Context) ([]domain.Record, error) {
	cursor, err := s.collection.Find(ctx, bson.M{}, options.Find().SetLimit(int64(s.maxRecords)))
	if err != nil {
		return nil, fmt.Errorf("%w: find: %v", domain.ErrPersistence, err)
	}
	defer cursor.Close(ctx)

	var records []domain.Record
	for cursor.Next(ctx) {
		var m bson.M
		if err := cursor.Decode(&m); err != nil {
			return nil, fmt.Errorf("%w: decode: %v", domain.ErrPersistence, err)
		}
		record, err := s.docs.ToRecord(codec.Document(m))
		if err != nil {
			return nil, fmt.Errorf("document %v: %w", m["_id"], err)
		}
		records = append(records, record)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("%w: cursor: %v", domain.ErrPersistence, err)
	}

	s.logger.Debug("loaded records", zap.Int("count", len(records)))
	return records, nil
}

// Insert adds the record as a new document
func (s *Store) Insert(ctx context.Context, record domain.Record) error {
	doc := bson.M(s.docs.FromRecord(record))
	if _, err := s.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("%w: insert %s: %v", domain.ErrPersistence, record.RefNumber, err)
	}
	s.logger.Debug("inserted record", zap.String("ref", record.RefNumber))
	return nil
}

// Update $sets the patch fields on the first document matching ref,
// inserting one when none matches
func (s *Store) Update(ctx context.Context, ref string, patch domain.Patch) error {
	set := s.docs.FromPatch(patch)
	if len(set) == 0 {
		set = codec.Document{string(domain.FieldRefNumber): ref}
	}

	res, err := s.collection.UpdateOne(ctx,
		bson.M{string(domain.FieldRefNumber): ref},
		bson.M{"$set": bson.M(set)},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("%w: update %s: %v", domain.ErrPersistence, ref, err)
	}

	s.logger.Debug("updated record",
		zap.String("ref", ref),
		zap.Int64("matched", res.MatchedCount),
		zap.Bool("upserted", res.UpsertedID != nil))
	return nil
}

// Delete removes the first document matching ref; a miss is not an error
func (s *Store) Delete(ctx context.Context, ref string) error {
	res, err := s.collection.DeleteOne(ctx, bson.M{string(domain.FieldRefNumber): ref})
	if err != nil {
		return fmt.Errorf("%w: delete %s: %v", domain.ErrPersistence, ref, err)
	}
	s.logger.Debug("deleted record", zap.String("ref", ref), zap.Int64("removed", res.DeletedCount))
	return nil
}

// Save upserts each record in turn, attempting all of them
func (s *Store) Save(ctx context.Context, records []domain.Record) error {
	var errs error
	for _, r := range records {
		errs = multierr.Append(errs, s.Update(ctx, r.RefNumber, domain.FullPatch(r)))
	}
	return errs
}

// Close disconnects the client
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), DefaultConnectTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}
