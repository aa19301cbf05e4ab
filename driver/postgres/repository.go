// Package postgres persists debit card histories in PostgreSQL.
//
// Each card owns a row in debit_cards carrying the optimistic locking version
// and a set of rows in debit_card_events carrying the ordered history as
// `{event_name, payload}` JSON documents.
package postgres

import (
	"context"
	"database/sql"

	"github.com/cardkit/debitcard"
	"github.com/cardkit/debitcard/card"
	strategyJSON "github.com/cardkit/debitcard/strategy/json"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// baseVersion is the version a brand-new card history is stored at
const baseVersion int64 = 0

// uniqueViolationCode is the postgres error code for a unique constraint violation
const uniqueViolationCode = "23505"

// Ensure that we satisfy the card.Repository interface
var _ card.Repository = &Repository{}

// Repository is a PostgreSQL backed card.Repository
type Repository struct {
	db          *sql.DB
	transformer strategyJSON.EventConverter
	logger      debitcard.Logger
}

// NewRepository returns a new postgres.Repository
func NewRepository(db *sql.DB, transformer strategyJSON.EventConverter, logger debitcard.Logger) (*Repository, error) {
	switch {
	case db == nil:
		return nil, debitcard.InvalidArgumentError("db")
	case transformer == nil:
		return nil, debitcard.InvalidArgumentError("transformer")
	}
	if logger == nil {
		logger = debitcard.NopLogger
	}

	return &Repository{
		db:          db,
		transformer: transformer,
		logger:      logger,
	}, nil
}

// CreateSchema returns the queries that create the tables the repository needs
func CreateSchema() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS debit_cards (
    card_id UUID NOT NULL,
    version BIGINT NOT NULL,
    PRIMARY KEY (card_id)
)`,
		`CREATE TABLE IF NOT EXISTS debit_card_events (
    card_id UUID NOT NULL,
    no BIGINT NOT NULL,
    event_name VARCHAR(64) NOT NULL,
    payload JSONB NOT NULL,
    PRIMARY KEY (card_id, no)
)`,
	}
}

// GetByID reconstitutes the card from its stored history
func (r *Repository) GetByID(ctx context.Context, cardID uuid.UUID) (card.DebitCard, error) {
	var version int64
	err := r.db.QueryRowContext(
		ctx,
		`SELECT version FROM debit_cards WHERE card_id = $1`,
		cardID,
	).Scan(&version)
	if err == sql.ErrNoRows {
		return card.DebitCard{}, card.ErrCardNotFound
	}
	if err != nil {
		return card.DebitCard{}, err
	}

	events, err := r.loadEvents(ctx, cardID)
	if err != nil {
		return card.DebitCard{}, err
	}

	return card.FromEvents(cardID, version, events), nil
}

// GetSummaryByID returns the read-only view of the stored card
func (r *Repository) GetSummaryByID(ctx context.Context, cardID uuid.UUID) (card.Summary, error) {
	loaded, err := r.GetByID(ctx, cardID)
	if err != nil {
		return card.Summary{}, err
	}

	return loaded.Summary(), nil
}

// Save appends the pending changes of the card to its stored history within a
// single transaction. The version row acts as the compare-and-swap: a new id
// is inserted at the base version, a known id is bumped only when the stored
// version matches the version the card was loaded with.
func (r *Repository) Save(ctx context.Context, c card.DebitCard) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if err := r.saveTx(ctx, tx, c); err != nil {
		if errRollback := tx.Rollback(); errRollback != nil {
			r.logger.Error("could not rollback transaction", func(e debitcard.LoggerEntry) {
				e.Error(errRollback)
				e.String("card_id", c.ID().String())
			})
		}

		return err
	}

	return tx.Commit()
}

func (r *Repository) saveTx(ctx context.Context, tx *sql.Tx, c card.DebitCard) error {
	res, err := tx.ExecContext(
		ctx,
		`UPDATE debit_cards SET version = version + 1 WHERE card_id = $1 AND version = $2`,
		c.ID(),
		c.Version(),
	)
	if err != nil {
		return err
	}

	updated, err := res.RowsAffected()
	if err != nil {
		return err
	}

	var nextNo int64
	switch updated {
	case 1:
		err = tx.QueryRowContext(
			ctx,
			`SELECT COALESCE(MAX(no), 0) FROM debit_card_events WHERE card_id = $1`,
			c.ID(),
		).Scan(&nextNo)
		if err != nil {
			return err
		}
	default:
		// No row was bumped: either the card is new or the caller lost the race
		var storedVersion int64
		err = tx.QueryRowContext(
			ctx,
			`SELECT version FROM debit_cards WHERE card_id = $1`,
			c.ID(),
		).Scan(&storedVersion)
		switch err {
		case sql.ErrNoRows:
		case nil:
			return card.ErrVersionConflict
		default:
			return err
		}

		_, err = tx.ExecContext(
			ctx,
			`INSERT INTO debit_cards (card_id, version) VALUES ($1, $2)`,
			c.ID(),
			baseVersion,
		)
		if err != nil {
			// Another process created the card while this insert was running
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolationCode {
				return card.ErrVersionConflict
			}

			return err
		}
	}

	for i, event := range c.PendingChanges() {
		eventName, payload, err := r.transformer.ConvertEvent(event)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(
			ctx,
			`INSERT INTO debit_card_events (card_id, no, event_name, payload) VALUES ($1, $2, $3, $4)`,
			c.ID(),
			nextNo+int64(i)+1,
			eventName,
			payload,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

func (r *Repository) loadEvents(ctx context.Context, cardID uuid.UUID) ([]card.Event, error) {
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT event_name, payload FROM debit_card_events WHERE card_id = $1 ORDER BY no`,
		cardID,
	)
	if err != nil {
		return nil, err
	}
	defer func() {
		if errClose := rows.Close(); errClose != nil {
			r.logger.Warn("failed to close event rows", func(e debitcard.LoggerEntry) {
				e.Error(errClose)
			})
		}
	}()

	var events []card.Event
	for rows.Next() {
		var (
			eventName string
			payload   []byte
		)
		if err := rows.Scan(&eventName, &payload); err != nil {
			return nil, err
		}

		event, err := r.transformer.CreateEvent(eventName, payload)
		if err != nil {
			return nil, err
		}

		events = append(events, event)
	}

	return events, rows.Err()
}
