package position

import (
	"context"
	"testing"

	"colend/core"
	"colend/pkg/number"

	"github.com/fox-one/pkg/store/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) core.IPositionStore {
	database := db.MustOpen(db.SqliteInMemory())
	// the shared in-memory db lives on a single connection
	database.Update().DB().SetMaxOpenConns(1)
	require.Nil(t, db.Migrate(database))
	return New(database)
}

func TestBorrowers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	tx := s.(*positionStore).db

	require.Nil(t, s.Save(ctx, tx, &core.Position{
		UserID:      "drawn",
		ReserveID:   1,
		DrawnShares: number.Decimal("5"),
	}))
	// cleared drawn side with realized premium left behind still owes
	require.Nil(t, s.Save(ctx, tx, &core.Position{
		UserID:          "premium-only",
		ReserveID:       1,
		RealizedPremium: number.Decimal("0.5"),
	}))
	require.Nil(t, s.Save(ctx, tx, &core.Position{
		UserID:         "supplier",
		ReserveID:      1,
		SuppliedShares: number.Decimal("3"),
	}))

	users, err := s.Borrowers(ctx)
	require.Nil(t, err)
	assert.ElementsMatch(t, []string{"drawn", "premium-only"}, users)
}

func TestSaveOptimisticLock(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	tx := s.(*positionStore).db

	position := &core.Position{UserID: "alice", ReserveID: 1, SuppliedShares: number.Decimal("1")}
	require.Nil(t, s.Save(ctx, tx, position))
	require.NotZero(t, position.ID)

	fresh, err := s.Find(ctx, "alice", 1)
	require.Nil(t, err)
	fresh.SuppliedShares = number.Decimal("2")
	require.Nil(t, s.Save(ctx, tx, fresh))

	// the first copy now carries a stale version
	position.SuppliedShares = number.Decimal("3")
	assert.Equal(t, db.ErrOptimisticLock, s.Save(ctx, tx, position))
}
