package persistence_test

import (
	"context"
	"os"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"auction_house/internal/domain"
	"auction_house/internal/domain/entity"
	"auction_house/internal/domain/value"
	"auction_house/internal/infrastructure/persistence"
	"auction_house/pkg/dbtest"
	"auction_house/pkg/errcodes"
)

// connect opens PG_TEST_DSN and recreates the schema. Tests are skipped
// without it.
func connect(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := os.Getenv("PG_TEST_DSN")
	if dsn == "" {
		t.Skip("PG_TEST_DSN is not set")
	}

	db, err := sqlx.Connect("pgx", dsn)
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`DROP TABLE IF EXISTS listings, claims`)
	require.NoError(t, err)
	require.NoError(t, dbtest.MigrateFromFile(db, "../../../migrations/001_init.sql"))

	return db
}

func newListing(t *testing.T, sellerID, price, lifetime int64) entity.Listing {
	t.Helper()

	id, err := value.NewListingID()
	require.NoError(t, err)

	return entity.Listing{
		ID:                id,
		SellerID:          sellerID,
		Price:             decimal.NewFromInt(price),
		Quantity:          2,
		RemainingLifetime: lifetime,
		ItemID:            "bow",
		ItemClass:         "weapon",
		CreatedAt:         time.Now().UTC().Truncate(time.Microsecond),
	}
}

func TestListingRepository_Purchase(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	db := connect(t)

	listings := persistence.NewListingRepository(db)
	claims := persistence.NewClaimRepository(db)

	listing := newListing(t, 1, 40, 60)
	rq.NoError(listings.Create(ctx, listing))

	_, err := listings.Purchase(ctx, listing.ID, 1, decimal.NewFromInt(100), time.Now())
	rq.True(domain.HasCode(err, errcodes.ListingNotFound))

	_, err = listings.Purchase(ctx, listing.ID, 2, decimal.NewFromInt(39), time.Now())
	rq.True(domain.HasCode(err, errcodes.InsufficientFunds))

	count, err := listings.Count(ctx)
	rq.NoError(err)
	rq.EqualValues(1, count)

	claim, err := listings.Purchase(ctx, listing.ID, 2, decimal.NewFromInt(40), time.Now())
	rq.NoError(err)
	rq.Equal(listing.ID, claim.ID)

	_, err = listings.Purchase(ctx, listing.ID, 3, decimal.NewFromInt(40), time.Now())
	rq.True(domain.HasCode(err, errcodes.ListingNotFound))

	recent, err := claims.Recent(ctx, 10)
	rq.NoError(err)
	rq.Len(recent, 1)
	rq.True(listing.Price.Equal(recent[0].Price))
	rq.Equal(entity.ClaimPurchased, recent[0].Reason)
	rq.EqualValues(2, *recent[0].BuyerID)
}

func TestListingRepository_CancelExtend(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	db := connect(t)

	listings := persistence.NewListingRepository(db)

	listing := newListing(t, 1, 10, 60)
	rq.NoError(listings.Create(ctx, listing))

	rq.True(domain.HasCode(listings.Extend(ctx, listing.ID, 2, 100), errcodes.ListingNotFound))
	rq.NoError(listings.Extend(ctx, listing.ID, 1, 100))

	_, err := listings.Cancel(ctx, listing.ID, 2)
	rq.True(domain.HasCode(err, errcodes.ListingNotFound))

	cancelled, err := listings.Cancel(ctx, listing.ID, 1)
	rq.NoError(err)
	rq.EqualValues(160, cancelled.RemainingLifetime)

	all, err := listings.ListAll(ctx)
	rq.NoError(err)
	rq.Empty(all)
}

func TestListingRepository_Expire(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	db := connect(t)

	listings := persistence.NewListingRepository(db)
	claims := persistence.NewClaimRepository(db)

	short := newListing(t, 1, 10, 1)
	long := newListing(t, 2, 10, 60)
	rq.NoError(listings.Create(ctx, short))
	rq.NoError(listings.Create(ctx, long))

	aged, err := listings.AgeAll(ctx, 1)
	rq.NoError(err)
	rq.EqualValues(2, aged)

	expired, err := listings.ListExpired(ctx)
	rq.NoError(err)
	rq.Len(expired, 1)
	rq.Equal(short.ID, expired[0].ID)

	moved, err := listings.Expire(ctx, short.ID, time.Now())
	rq.NoError(err)
	rq.True(moved)

	moved, err = listings.Expire(ctx, short.ID, time.Now())
	rq.NoError(err)
	rq.False(moved)

	moved, err = listings.Expire(ctx, long.ID, time.Now())
	rq.NoError(err)
	rq.False(moved)

	bySeller, err := claims.BySellers(ctx, []int64{1, 2})
	rq.NoError(err)
	rq.Len(bySeller, 1)
	rq.Nil(bySeller[0].BuyerID)
	rq.Equal(entity.ClaimExpired, bySeller[0].Reason)
}
