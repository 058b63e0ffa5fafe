package persistence

import (
	"context"

	"github.com/jmoiron/sqlx"

	"auction_house/internal/domain/entity"
)

type ClaimRepository struct {
	db *sqlx.DB
}

func NewClaimRepository(db *sqlx.DB) *ClaimRepository {
	return &ClaimRepository{db: db}
}

// Recent возвращает последние limit завершённых лотов, новые первыми.
func (r *ClaimRepository) Recent(ctx context.Context, limit int) ([]entity.ClaimRecord, error) {
	if limit <= 0 {
		return nil, nil
	}

	query := `
		SELECT ` + claimColumns + `
		FROM claims
		ORDER BY completed_at DESC, id
		LIMIT $1`

	return r.selectClaims(ctx, query, limit)
}

func (r *ClaimRepository) BySellers(ctx context.Context, sellerIDs []int64) ([]entity.ClaimRecord, error) {
	if len(sellerIDs) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`
		SELECT `+claimColumns+`
		FROM claims
		WHERE seller_id IN (?)
		ORDER BY completed_at DESC`, sellerIDs)
	if err != nil {
		return nil, storageError(err, "failed to build query")
	}

	return r.selectClaims(ctx, r.db.Rebind(query), args...)
}

func (r *ClaimRepository) selectClaims(ctx context.Context, query string, args ...any) ([]entity.ClaimRecord, error) {
	var schemas []claimSchema
	if err := r.db.SelectContext(ctx, &schemas, query, args...); err != nil {
		return nil, storageError(err, "failed to select claims")
	}

	claims := make([]entity.ClaimRecord, 0, len(schemas))
	for _, s := range schemas {
		claims = append(claims, s.toDomain())
	}

	return claims, nil
}
