package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"classmarket/internal/domain/booking"
)

const TopN = 5

type CustomerStat struct {
	CustomerID string          `json:"customer_id"`
	Bookings   int             `json:"bookings"`
	Revenue    decimal.Decimal `json:"revenue"`
}

type CustomerSegmentation struct {
	TotalCustomers     int            `json:"total_customers"`
	NewCustomers       int            `json:"new_customers"`
	ReturningCustomers int            `json:"returning_customers"`
	TopCustomers       []CustomerStat `json:"top_customers"`
}

// SegmentCustomers classifies customers over their whole booking history:
// exactly one booking is new, more is returning. Top customers are ranked by
// booking count, then revenue, then id. Bookings without a customer are skipped.
func SegmentCustomers(all []booking.Booking, topN int) CustomerSegmentation {
	stats := make(map[string]*CustomerStat)
	for _, b := range all {
		if b.CustomerID == "" {
			continue
		}
		st, ok := stats[b.CustomerID]
		if !ok {
			st = &CustomerStat{CustomerID: b.CustomerID, Revenue: decimal.Zero}
			stats[b.CustomerID] = st
		}
		st.Bookings++
		st.Revenue = st.Revenue.Add(b.Amount())
	}

	seg := CustomerSegmentation{TotalCustomers: len(stats)}
	ranked := make([]CustomerStat, 0, len(stats))
	for _, st := range stats {
		if st.Bookings == 1 {
			seg.NewCustomers++
		} else {
			seg.ReturningCustomers++
		}
		ranked = append(ranked, *st)
	}

	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Bookings != b.Bookings {
			return a.Bookings > b.Bookings
		}
		if c := a.Revenue.Cmp(b.Revenue); c != 0 {
			return c > 0
		}
		return a.CustomerID < b.CustomerID
	})
	if topN >= 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}
	seg.TopCustomers = ranked
	return seg
}
