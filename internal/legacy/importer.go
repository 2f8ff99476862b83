package legacy

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/gorm"

	"orgaclients/internal/repositories"
)

// Source yields raw documents; *mongo.Cursor satisfies it.
type Source interface {
	Next(ctx context.Context) bool
	Decode(v interface{}) error
	Err() error
	Close(ctx context.Context) error
}

type Report struct {
	Seen      int
	Imported  int
	Skipped   int
	Failed    int
	ByVersion map[Version]int
}

type Importer struct {
	orders repositories.OrderRepository
	dryRun bool
}

func NewImporter(orders repositories.OrderRepository, dryRun bool) *Importer {
	return &Importer{orders: orders, dryRun: dryRun}
}

// Import converts every document from src. Orders whose client already has
// one are skipped; malformed documents are counted and logged, not fatal.
func (im *Importer) Import(ctx context.Context, src Source) (*Report, error) {
	defer src.Close(ctx)

	report := &Report{ByVersion: map[Version]int{}}
	for src.Next(ctx) {
		report.Seen++
		var doc bson.M
		if err := src.Decode(&doc); err != nil {
			report.Failed++
			log.WithError(err).Warn("legacy: decode document")
			continue
		}

		order, version, err := Convert(doc)
		if err != nil {
			report.Failed++
			log.WithError(err).WithField("id", doc["_id"]).Warn("legacy: convert document")
			continue
		}
		report.ByVersion[version]++

		entry := log.WithFields(log.Fields{"client_email": order.ClientEmail, "version": version.String()})
		if im.dryRun {
			entry.Debug("legacy: dry run")
			continue
		}

		existing, err := im.orders.FindByEmail(ctx, order.ClientEmail)
		if err != nil {
			return report, fmt.Errorf("legacy: lookup %s: %w", order.ClientEmail, err)
		}
		if existing != nil {
			report.Skipped++
			entry.Info("legacy: order exists, skipped")
			continue
		}

		if err := im.orders.CreateWithReferences(ctx, order); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				report.Skipped++
				continue
			}
			return report, fmt.Errorf("legacy: insert %s: %w", order.ClientEmail, err)
		}
		report.Imported++
		entry.WithField("references", len(order.References)).Info("legacy: order imported")
	}
	if err := src.Err(); err != nil {
		return report, fmt.Errorf("legacy: cursor: %w", err)
	}
	return report, nil
}

// Open connects to uri and returns a cursor over every document in db.collection.
// Callers disconnect the returned client when done.
func Open(ctx context.Context, uri, db, collection string) (*mongo.Client, *mongo.Cursor, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Client().ApplyURI(uri).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second)
	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("legacy: connect: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("legacy: ping: %w", err)
	}

	cur, err := client.Database(db).Collection(collection).Find(ctx, bson.D{})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("legacy: find: %w", err)
	}
	return client, cur, nil
}
