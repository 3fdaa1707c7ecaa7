package dashboard

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"classmarket/internal/domain/analytics"
	"classmarket/internal/pkg/jwt"
	"classmarket/internal/pkg/logger"
)

func setupLiveServer(t *testing.T, interval time.Duration) (*httptest.Server, *jwt.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	bookings := new(MockBookingSource)
	finance := new(MockFinanceSource)
	bookings.On("ListBookings", mock.Anything, mock.AnythingOfType("int64")).Return(testBookings(), nil)
	finance.On("Summary", mock.Anything, mock.AnythingOfType("int64")).Return(testFinance(), nil)

	tokens := jwt.New("test-secret", time.Hour)
	feed := NewLiveFeed(NewService(bookings, finance, time.UTC, logger.Nop(), nil), tokens, interval, logger.Nop())
	feed.now = func() time.Time { return testNow }

	r := gin.New()
	feed.RegisterRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, tokens
}

func wsURL(srv *httptest.Server, query string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/dashboard?" + query
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var ev Event
	require.NoError(t, conn.ReadJSON(&ev))
	return ev
}

func TestLiveFeed_PushesOnConnectAndOnRequest(t *testing.T) {
	srv, tokens := setupLiveServer(t, time.Hour)
	token, err := tokens.GenerateToken(5, jwt.RolePartner)
	require.NoError(t, err)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "token="+token+"&period=7d"), nil)
	require.NoError(t, err)
	defer conn.Close()

	ev := readEvent(t, conn)
	assert.Equal(t, EventSnapshot, ev.Type)
	require.NotNil(t, ev.Snapshot)
	assert.Equal(t, analytics.Period7Days, ev.Snapshot.Period)

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "period", "period": "90d"}))
	ev = readEvent(t, conn)
	require.NotNil(t, ev.Snapshot)
	assert.Equal(t, analytics.Period90Days, ev.Snapshot.Period)

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "period", "period": "bogus"}))
	ev = readEvent(t, conn)
	assert.Equal(t, EventError, ev.Type)

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "refresh"}))
	ev = readEvent(t, conn)
	require.NotNil(t, ev.Snapshot)
	assert.Equal(t, analytics.Period90Days, ev.Snapshot.Period)
}

func TestLiveFeed_PushesOnInterval(t *testing.T) {
	srv, tokens := setupLiveServer(t, 50*time.Millisecond)
	token, err := tokens.GenerateToken(5, jwt.RolePartner)
	require.NoError(t, err)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "token="+token), nil)
	require.NoError(t, err)
	defer conn.Close()

	for i := 0; i < 3; i++ {
		ev := readEvent(t, conn)
		assert.Equal(t, EventSnapshot, ev.Type)
	}
}

func TestLiveFeed_RejectsBadHandshake(t *testing.T) {
	srv, tokens := setupLiveServer(t, time.Hour)
	admin, err := tokens.GenerateToken(1, jwt.RoleAdmin)
	require.NoError(t, err)

	tests := []struct {
		name   string
		query  string
		status int
	}{
		{"missing token", "", http.StatusUnauthorized},
		{"bad token", "token=nope", http.StatusUnauthorized},
		{"admin without partner", "token=" + admin, http.StatusBadRequest},
		{"bad period", "token=" + admin + "&partner_id=5&period=2w", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, tt.query), nil)
			require.Error(t, err)
			require.NotNil(t, resp)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestLiveFeed_AdminWatchesPartner(t *testing.T) {
	srv, tokens := setupLiveServer(t, time.Hour)
	admin, err := tokens.GenerateToken(1, jwt.RoleAdmin)
	require.NoError(t, err)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "token="+admin+"&partner_id=5"), nil)
	require.NoError(t, err)
	defer conn.Close()

	ev := readEvent(t, conn)
	assert.Equal(t, EventSnapshot, ev.Type)
}
