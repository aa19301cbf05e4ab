//go:build integration
// +build integration

package mongodb_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/cardkit/debitcard/card"
	"github.com/cardkit/debitcard/driver/mongodb"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func testRepository(t *testing.T) *mongodb.Repository {
	t.Helper()

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = client.Disconnect(context.Background())
	})

	db := client.Database("debitcard_test")
	t.Cleanup(func() {
		_ = db.Collection(mongodb.CollectionName).Drop(context.Background())
	})

	repository, err := mongodb.NewRepository(db, nil)
	require.NoError(t, err)

	return repository
}

func TestRepository_SaveAndLoad(t *testing.T) {
	repository := testRepository(t)
	ctx := context.Background()

	saved := card.New().
		AssignLimit(decimal.RequireFromString("100")).
		ApplyTransaction(card.Charge(uuid.New(), decimal.RequireFromString("40")))
	require.NoError(t, repository.Save(ctx, saved))

	loaded, err := repository.GetByID(ctx, saved.ID())
	require.NoError(t, err)

	assert.Equal(t, saved.ID(), loaded.ID())
	assert.True(t, loaded.Summary().Balance.Equal(decimal.RequireFromString("-40")))
	require.NotNil(t, loaded.Summary().Limit)
	assert.True(t, loaded.Summary().Limit.Equal(decimal.RequireFromString("100")))
}

func TestRepository_GetByID_Unknown(t *testing.T) {
	repository := testRepository(t)

	_, err := repository.GetByID(context.Background(), uuid.New())

	assert.Equal(t, card.ErrCardNotFound, err)
}

func TestRepository_Save_Conflict(t *testing.T) {
	repository := testRepository(t)
	ctx := context.Background()

	created := card.New().AssignLimit(decimal.RequireFromString("100"))
	require.NoError(t, repository.Save(ctx, created))

	first, err := repository.GetByID(ctx, created.ID())
	require.NoError(t, err)
	second, err := repository.GetByID(ctx, created.ID())
	require.NoError(t, err)

	firstCharge := first.ApplyTransaction(card.Charge(uuid.New(), decimal.RequireFromString("10")))
	require.NoError(t, repository.Save(ctx, firstCharge))

	secondCharge := second.ApplyTransaction(card.Charge(uuid.New(), decimal.RequireFromString("20")))
	err = repository.Save(ctx, secondCharge)

	assert.Equal(t, card.ErrVersionConflict, err)
}
