// Package mongodb persists debit card histories in MongoDB.
//
// Each card owns a single document `{_id, version, events}` where events is
// the ordered history as `{type, payload}` sub-documents. The version field is
// the optimistic lock: saves against a known card are conditional updates
// filtered on `{_id, version}`.
package mongodb

import (
	"context"

	"github.com/cardkit/debitcard"
	"github.com/cardkit/debitcard/card"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// CollectionName is the collection the repository stores card documents in
const CollectionName = "debit_cards"

// baseVersion is the version a brand-new card history is stored at
const baseVersion int64 = 0

// Ensure that we satisfy the card.Repository interface
var _ card.Repository = &Repository{}

// cardDocument is the persisted envelope per card id
type cardDocument struct {
	CardID  string          `bson:"_id"`
	Version int64           `bson:"version"`
	Events  []eventDocument `bson:"events"`
}

// Repository is a MongoDB backed card.Repository
type Repository struct {
	collection *mongo.Collection
	logger     debitcard.Logger
}

// NewRepository returns a new mongodb.Repository storing cards in the
// debit_cards collection of the given database
func NewRepository(db *mongo.Database, logger debitcard.Logger) (*Repository, error) {
	if db == nil {
		return nil, debitcard.InvalidArgumentError("db")
	}
	if logger == nil {
		logger = debitcard.NopLogger
	}

	return &Repository{
		collection: db.Collection(CollectionName),
		logger:     logger,
	}, nil
}

// GetByID reconstitutes the card from its stored history
func (r *Repository) GetByID(ctx context.Context, cardID uuid.UUID) (card.DebitCard, error) {
	var document cardDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": cardID.String()}).Decode(&document)
	if err == mongo.ErrNoDocuments {
		return card.DebitCard{}, card.ErrCardNotFound
	}
	if err != nil {
		return card.DebitCard{}, err
	}

	events := make([]card.Event, len(document.Events))
	for i, stored := range document.Events {
		event, err := stored.toEvent()
		if err != nil {
			return card.DebitCard{}, err
		}

		events[i] = event
	}

	return card.FromEvents(cardID, document.Version, events), nil
}

// GetSummaryByID returns the read-only view of the stored card
func (r *Repository) GetSummaryByID(ctx context.Context, cardID uuid.UUID) (card.Summary, error) {
	loaded, err := r.GetByID(ctx, cardID)
	if err != nil {
		return card.Summary{}, err
	}

	return loaded.Summary(), nil
}

// Save appends the pending changes of the card to its stored document.
//
// A known card is updated with a single conditional `$push`/`$inc` filtered on
// `{_id, version}`. When the filter matches nothing the card is either new, in
// which case it is inserted at the base version, or the caller raced another
// save and lost, which surfaces as the duplicate key error of that insert.
func (r *Repository) Save(ctx context.Context, c card.DebitCard) error {
	changes := make([]eventDocument, len(c.PendingChanges()))
	for i, event := range c.PendingChanges() {
		document, err := toEventDocument(event)
		if err != nil {
			return err
		}

		changes[i] = document
	}

	res, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": c.ID().String(), "version": c.Version()},
		bson.M{
			"$push": bson.M{"events": bson.M{"$each": changes}},
			"$inc":  bson.M{"version": 1},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 1 {
		return nil
	}

	_, err = r.collection.InsertOne(ctx, cardDocument{
		CardID:  c.ID().String(),
		Version: baseVersion,
		Events:  changes,
	})
	if mongo.IsDuplicateKeyError(err) {
		r.logger.Debug("rejected save of stale card", func(e debitcard.LoggerEntry) {
			e.String("card_id", c.ID().String())
			e.Int64("loaded_version", c.Version())
		})

		return card.ErrVersionConflict
	}

	return err
}
