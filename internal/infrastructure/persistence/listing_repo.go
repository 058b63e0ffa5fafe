package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"auction_house/internal/domain"
	"auction_house/internal/domain/entity"
	"auction_house/internal/domain/value"
	"auction_house/pkg/errcodes"
)

type ListingRepository struct {
	db *sqlx.DB
}

func NewListingRepository(db *sqlx.DB) *ListingRepository {
	return &ListingRepository{db: db}
}

// Create сохраняет новый лот.
func (r *ListingRepository) Create(ctx context.Context, listing entity.Listing) error {
	schema := fromListing(listing)
	if schema.CreatedAt.IsZero() {
		schema.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO listings (` + listingColumns + `)
		VALUES (:id, :seller_id, :price, :quantity, :remaining_lifetime, :item_id, :item_class, :created_at)`

	if _, err := r.db.NamedExecContext(ctx, query, schema); err != nil {
		return storageError(err, "failed to insert listing")
	}

	return nil
}

// Purchase блокирует строку лота, проверяет деньги покупателя и переносит
// лот в claims. Лот продавца для него самого не виден.
func (r *ListingRepository) Purchase(
	ctx context.Context,
	id value.ListingID,
	buyerID int64,
	cash decimal.Decimal,
	at time.Time,
) (entity.ClaimRecord, error) {
	var claim entity.ClaimRecord

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			SELECT ` + listingColumns + `
			FROM listings
			WHERE id = $1 AND seller_id <> $2
			FOR UPDATE`

		var schema listingSchema
		if err := tx.GetContext(ctx, &schema, query, id.String(), buyerID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return listingNotFound()
			}
			return storageError(err, "failed to lock listing")
		}

		if schema.Price.GreaterThan(cash) {
			return domain.NewError(errcodes.InsufficientFunds, "insufficient funds")
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM listings WHERE id = $1`, schema.ID); err != nil {
			return storageError(err, "failed to delete listing")
		}

		claim = entity.NewClaimRecord(schema.toDomain(), &buyerID, at)

		return insertClaimTx(ctx, tx, claim)
	})
	if err != nil {
		return entity.ClaimRecord{}, err
	}

	return claim, nil
}

// Cancel снимает лот с продажи, если он принадлежит sellerID.
func (r *ListingRepository) Cancel(ctx context.Context, id value.ListingID, sellerID int64) (entity.Listing, error) {
	query := `
		DELETE FROM listings
		WHERE id = $1 AND seller_id = $2
		RETURNING ` + listingColumns

	var schema listingSchema
	if err := r.db.GetContext(ctx, &schema, query, id.String(), sellerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Listing{}, listingNotFound()
		}
		return entity.Listing{}, storageError(err, "failed to delete listing")
	}

	return schema.toDomain(), nil
}

func (r *ListingRepository) Extend(ctx context.Context, id value.ListingID, sellerID int64, deltaSeconds int64) error {
	query := `
		UPDATE listings
		SET remaining_lifetime = remaining_lifetime + $3
		WHERE id = $1 AND seller_id = $2`

	res, err := r.db.ExecContext(ctx, query, id.String(), sellerID, deltaSeconds)
	if err != nil {
		return storageError(err, "failed to extend listing")
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return storageError(err, "failed to check affected rows")
	}

	if rows == 0 {
		return listingNotFound()
	}

	return nil
}

func (r *ListingRepository) ListAll(ctx context.Context) ([]entity.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings ORDER BY created_at, id`

	return r.selectListings(ctx, query)
}

func (r *ListingRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT count(*) FROM listings`); err != nil {
		return 0, storageError(err, "failed to count listings")
	}

	return count, nil
}

// AgeAll уменьшает оставшееся время жизни всех лотов на seconds.
func (r *ListingRepository) AgeAll(ctx context.Context, seconds int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE listings SET remaining_lifetime = remaining_lifetime - $1`, seconds)
	if err != nil {
		return 0, storageError(err, "failed to age listings")
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return 0, storageError(err, "failed to check affected rows")
	}

	return rows, nil
}

func (r *ListingRepository) ListExpired(ctx context.Context) ([]entity.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE remaining_lifetime <= 0`

	return r.selectListings(ctx, query)
}

// Expire переносит истёкший лот в claims. false: лот уже ушёл или его продлили.
func (r *ListingRepository) Expire(ctx context.Context, id value.ListingID, at time.Time) (bool, error) {
	var moved bool

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			DELETE FROM listings
			WHERE id = $1 AND remaining_lifetime <= 0
			RETURNING ` + listingColumns

		var schema listingSchema
		if err := tx.GetContext(ctx, &schema, query, id.String()); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil
			}
			return storageError(err, "failed to delete expired listing")
		}

		moved = true

		return insertClaimTx(ctx, tx, entity.NewClaimRecord(schema.toDomain(), nil, at))
	})

	return moved, err
}

func (r *ListingRepository) selectListings(ctx context.Context, query string, args ...any) ([]entity.Listing, error) {
	var schemas []listingSchema
	if err := r.db.SelectContext(ctx, &schemas, query, args...); err != nil {
		return nil, storageError(err, "failed to select listings")
	}

	listings := make([]entity.Listing, 0, len(schemas))
	for _, s := range schemas {
		listings = append(listings, s.toDomain())
	}

	return listings, nil
}

// insertClaimTx: повторная вставка того же id ничего не меняет.
func insertClaimTx(ctx context.Context, tx *sqlx.Tx, claim entity.ClaimRecord) error {
	query := `
		INSERT INTO claims (` + claimColumns + `)
		VALUES (:id, :seller_id, :buyer_id, :price, :quantity, :remaining_lifetime, :item_id, :item_class, :reason, :completed_at)
		ON CONFLICT (id) DO NOTHING`

	if _, err := tx.NamedExecContext(ctx, query, fromClaim(claim)); err != nil {
		return storageError(err, "failed to insert claim")
	}

	return nil
}
