// Package memstore keeps listings and claims in process memory. It backs
// STORAGE_DRIVER=memory and the service tests, with the same conditional
// semantics as the Postgres repositories.
package memstore

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"auction_house/internal/domain"
	"auction_house/internal/domain/entity"
	"auction_house/internal/domain/value"
	"auction_house/pkg/errcodes"
)

type Store struct {
	mu       sync.Mutex
	listings map[value.ListingID]entity.Listing
	claims   []entity.ClaimRecord // в порядке добавления
	claimed  map[value.ListingID]struct{}
}

func New() *Store {
	return &Store{
		listings: make(map[value.ListingID]entity.Listing),
		claimed:  make(map[value.ListingID]struct{}),
	}
}

func notFound() error {
	return domain.NewError(errcodes.ListingNotFound, "listing not found")
}

func (s *Store) Create(_ context.Context, listing entity.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.listings[listing.ID]; ok {
		return domain.NewError(errcodes.InvalidListingID, "listing id already exists")
	}

	s.listings[listing.ID] = listing

	return nil
}

func (s *Store) Purchase(_ context.Context, id value.ListingID, buyerID int64, cash decimal.Decimal, at time.Time) (entity.ClaimRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	listing, ok := s.listings[id]
	if !ok || listing.SellerID == buyerID {
		return entity.ClaimRecord{}, notFound()
	}

	if listing.Price.GreaterThan(cash) {
		return entity.ClaimRecord{}, domain.NewError(errcodes.InsufficientFunds, "insufficient funds")
	}

	claim := entity.NewClaimRecord(listing, &buyerID, at)

	delete(s.listings, id)
	s.appendClaim(claim)

	return claim, nil
}

func (s *Store) Cancel(_ context.Context, id value.ListingID, sellerID int64) (entity.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	listing, ok := s.listings[id]
	if !ok || listing.SellerID != sellerID {
		return entity.Listing{}, notFound()
	}

	delete(s.listings, id)

	return listing, nil
}

func (s *Store) Extend(_ context.Context, id value.ListingID, sellerID int64, deltaSeconds int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	listing, ok := s.listings[id]
	if !ok || listing.SellerID != sellerID {
		return notFound()
	}

	listing.RemainingLifetime += deltaSeconds
	s.listings[id] = listing

	return nil
}

// ListAll returns active listings ordered by creation time.
func (s *Store) ListAll(_ context.Context) ([]entity.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]entity.Listing, 0, len(s.listings))
	for _, l := range s.listings {
		out = append(out, l)
	}

	slices.SortFunc(out, func(a, b entity.Listing) int {
		return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.ID, b.ID))
	})

	return out, nil
}

func (s *Store) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return int64(len(s.listings)), nil
}

// AgeAll subtracts seconds from every active listing's remaining lifetime.
func (s *Store) AgeAll(_ context.Context, seconds int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, l := range s.listings {
		l.RemainingLifetime -= seconds
		s.listings[id] = l
	}

	return int64(len(s.listings)), nil
}

func (s *Store) ListExpired(_ context.Context) ([]entity.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []entity.Listing

	for _, l := range s.listings {
		if l.Expired() {
			out = append(out, l)
		}
	}

	return out, nil
}

// Expire moves an expired listing into the ledger. It reports false when the
// listing is gone or was extended in the meantime.
func (s *Store) Expire(_ context.Context, id value.ListingID, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	listing, ok := s.listings[id]
	if !ok || !listing.Expired() {
		return false, nil
	}

	delete(s.listings, id)
	s.appendClaim(entity.NewClaimRecord(listing, nil, at))

	return true, nil
}

// Recent returns up to limit claims, most recently completed first.
func (s *Store) Recent(_ context.Context, limit int) ([]entity.ClaimRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		return nil, nil
	}

	out := make([]entity.ClaimRecord, 0, min(limit, len(s.claims)))

	for i := len(s.claims) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.claims[i])
	}

	return out, nil
}

func (s *Store) BySellers(_ context.Context, sellerIDs []int64) ([]entity.ClaimRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []entity.ClaimRecord

	for i := len(s.claims) - 1; i >= 0; i-- {
		if slices.Contains(sellerIDs, s.claims[i].SellerID) {
			out = append(out, s.claims[i])
		}
	}

	return out, nil
}

// Claims returns the whole ledger in append order.
func (s *Store) Claims() []entity.ClaimRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.claims)
}

func (s *Store) appendClaim(claim entity.ClaimRecord) {
	if _, ok := s.claimed[claim.ID]; ok {
		return
	}

	s.claimed[claim.ID] = struct{}{}
	s.claims = append(s.claims, claim)
}
