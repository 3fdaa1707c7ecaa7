package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"classmarket/internal/domain/booking"
)

type ListingStat struct {
	ListingID    string          `json:"listing_id"`
	ListingTitle string          `json:"listing_title"`
	Revenue      decimal.Decimal `json:"revenue"`
	BookingCount int             `json:"booking_count"`
}

// RankListings sums revenue per listing and returns the topN by revenue,
// ties broken by title and then id.
func RankListings(window []booking.Booking, topN int) []ListingStat {
	stats := make(map[string]*ListingStat)
	for _, b := range window {
		if b.ListingID == "" {
			continue
		}
		st, ok := stats[b.ListingID]
		if !ok {
			st = &ListingStat{ListingID: b.ListingID, Revenue: decimal.Zero}
			stats[b.ListingID] = st
		}
		if st.ListingTitle == "" {
			st.ListingTitle = b.ListingTitle
		}
		st.Revenue = st.Revenue.Add(b.Amount())
		st.BookingCount++
	}

	ranked := make([]ListingStat, 0, len(stats))
	for _, st := range stats {
		ranked = append(ranked, *st)
	}
	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if c := a.Revenue.Cmp(b.Revenue); c != 0 {
			return c > 0
		}
		if a.ListingTitle != b.ListingTitle {
			return a.ListingTitle < b.ListingTitle
		}
		return a.ListingID < b.ListingID
	})
	if topN >= 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}
