package analytics

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classmarket/internal/domain/booking"
)

func titled(b booking.Booking, title string) booking.Booking {
	b.ListingTitle = title
	return b
}

func TestRankListings(t *testing.T) {
	window := []booking.Booking{
		titled(bk("a", "art", "40", testNow), "Art Club"),
		titled(bk("b", "art", "20", testNow), "Art Club"),
		titled(bk("c", "chess", "60", testNow), "Chess"),
		titled(bk("d", "ballet", "60", testNow), "Ballet"),
		titled(bk("e", "swim", "10", testNow), "Swimming"),
		titled(bk("f", "", "500", testNow), "Orphan"),
	}

	ranked := RankListings(window, TopN)
	require.Len(t, ranked, 4)
	// art, ballet and chess all earn 60; titles decide.
	assert.Equal(t, "Art Club", ranked[0].ListingTitle)
	assert.Equal(t, 2, ranked[0].BookingCount)
	assert.Equal(t, "Ballet", ranked[1].ListingTitle)
	assert.Equal(t, "Chess", ranked[2].ListingTitle)
	assert.Equal(t, "swim", ranked[3].ListingID)
	assert.Equal(t, "10", ranked[3].Revenue.String())
}

func TestRankListings_SortedAndCapped(t *testing.T) {
	var window []booking.Booking
	for i := 0; i < 12; i++ {
		id := fmt.Sprintf("l%02d", i)
		window = append(window, titled(bk("a", id, fmt.Sprintf("%d", (i%4)*10), testNow), fmt.Sprintf("T%02d", 11-i)))
	}

	ranked := RankListings(window, TopN)
	require.Len(t, ranked, TopN)
	for i := 1; i < len(ranked); i++ {
		prev, cur := ranked[i-1], ranked[i]
		c := prev.Revenue.Cmp(cur.Revenue)
		assert.True(t, c > 0 || (c == 0 && prev.ListingTitle < cur.ListingTitle), "order broken at %d", i)
	}
}

func TestRankListings_KeepsFirstNonEmptyTitle(t *testing.T) {
	window := []booking.Booking{
		titled(bk("a", "x", "1", testNow), ""),
		titled(bk("a", "x", "1", testNow), "Pottery"),
	}
	ranked := RankListings(window, TopN)
	require.Len(t, ranked, 1)
	assert.Equal(t, "Pottery", ranked[0].ListingTitle)
}
