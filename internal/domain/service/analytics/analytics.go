// Package analytics derives market signals from claim history. Every function
// is pure over its input sequence and never touches storage.
package analytics

import (
	"cmp"
	"iter"
	"slices"

	"github.com/shopspring/decimal"

	"auction_house/internal/domain/entity"
	"auction_house/internal/domain/value"
)

const (
	// DefaultWindow is how many of the most recent claims feed trend and RAP.
	DefaultWindow = 35
	// TrendLookback is how many more recent same-item claims a trend needs.
	TrendLookback = 5
)

// Take yields at most n values of seq.
func Take[T any](seq iter.Seq[T], n int) iter.Seq[T] {
	return func(yield func(T) bool) {
		if n <= 0 {
			return
		}

		taken := 0

		for v := range seq {
			if !yield(v) {
				return
			}

			taken++
			if taken == n {
				return
			}
		}
	}
}

// Trends computes a trend per claim. records must be ordered most recent first.
//
// A claim's trend depends only on claims of the same item that come before it
// in records: with fewer than TrendLookback of them it is flat, otherwise the
// average of the TrendLookback most recent ones is compared against its price.
// Older claims in between are ignored.
func Trends(records iter.Seq[entity.ClaimRecord]) []entity.TrendEntry {
	history := make(map[value.ItemKey][]decimal.Decimal)

	var entries []entity.TrendEntry

	for r := range records {
		key := r.Key()
		prior := history[key]

		entries = append(entries, entity.TrendEntry{
			ID:        r.ID,
			ItemID:    r.ItemID,
			ItemClass: r.ItemClass,
			Price:     r.Price,
			Trend:     trendOf(prior, r.Price),
		})

		// only the most recent TrendLookback prices are ever read
		if len(prior) < TrendLookback {
			history[key] = append(prior, r.Price)
		}
	}

	return entries
}

func trendOf(prior []decimal.Decimal, price decimal.Decimal) entity.Trend {
	if len(prior) < TrendLookback {
		return entity.TrendFlat
	}

	avg := decimal.Avg(prior[0], prior[1:TrendLookback]...)

	switch avg.Cmp(price) {
	case 1:
		return entity.TrendFalling
	case -1:
		return entity.TrendRising
	default:
		return entity.TrendFlat
	}
}

// Rap computes the mean price per item over records. Items absent from
// records get no entry. Entries keep the order in which items first appear.
func Rap(records iter.Seq[entity.ClaimRecord]) []entity.RapEntry {
	type acc struct {
		sum   decimal.Decimal
		count int64
	}

	var order []value.ItemKey

	sums := make(map[value.ItemKey]*acc)

	for r := range records {
		key := r.Key()

		a, ok := sums[key]
		if !ok {
			a = &acc{}
			sums[key] = a
			order = append(order, key)
		}

		a.sum = a.sum.Add(r.Price)
		a.count++
	}

	entries := make([]entity.RapEntry, 0, len(order))

	for _, key := range order {
		a := sums[key]
		if a.count == 0 {
			continue
		}

		entries = append(entries, entity.RapEntry{
			ItemClass:    key.ItemClass,
			ItemID:       key.ItemID,
			AveragePrice: a.sum.Div(decimal.NewFromInt(a.count)),
		})
	}

	return entries
}

// BuildCatalog groups active listings by class and item, cheapest first.
func BuildCatalog(listings iter.Seq[entity.Listing]) entity.Catalog {
	catalog := make(entity.Catalog)

	for l := range listings {
		items, ok := catalog[l.ItemClass]
		if !ok {
			items = make(map[string][]entity.Listing)
			catalog[l.ItemClass] = items
		}

		items[l.ItemID] = append(items[l.ItemID], l)
	}

	for _, items := range catalog {
		for _, bucket := range items {
			slices.SortFunc(bucket, func(a, b entity.Listing) int {
				return cmp.Or(a.Price.Cmp(b.Price), cmp.Compare(a.ID, b.ID))
			})
		}
	}

	return catalog
}

// SellerHistory returns, for every requested seller, the claims they were the
// original seller of. Each requested id is present, possibly with no claims.
func SellerHistory(sellerIDs []int64, records iter.Seq[entity.ClaimRecord]) map[int64][]entity.ClaimRecord {
	history := make(map[int64][]entity.ClaimRecord, len(sellerIDs))

	for _, id := range sellerIDs {
		history[id] = []entity.ClaimRecord{}
	}

	for r := range records {
		if claims, ok := history[r.SellerID]; ok {
			history[r.SellerID] = append(claims, r)
		}
	}

	return history
}
