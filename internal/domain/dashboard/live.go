package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"classmarket/internal/domain/analytics"
	"classmarket/internal/pkg/jwt"
	"classmarket/internal/pkg/logger"
	"classmarket/internal/pkg/response"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 4 * 1024

	EventSnapshot = "snapshot"
	EventError    = "error"
)

// TokenValidator checks the token passed in the query string.
type TokenValidator interface {
	ValidateToken(token string) (*jwt.Claims, error)
}

// Event is pushed to live dashboard clients.
type Event struct {
	Type     string              `json:"type"`
	Snapshot *analytics.Snapshot `json:"snapshot,omitempty"`
	Error    string              `json:"error,omitempty"`
}

// clientMessage lets a client force a refresh or switch the period.
type clientMessage struct {
	Type   string `json:"type"`
	Period string `json:"period,omitempty"`
}

// LiveFeed pushes a snapshot on connect and then every interval. The
// engine is not involved in scheduling; this is plain caller-side polling.
type LiveFeed struct {
	service  *Service
	tokens   TokenValidator
	interval time.Duration
	log      logger.Logger
	now      func() time.Time
	upgrader websocket.Upgrader
}

func NewLiveFeed(service *Service, tokens TokenValidator, interval time.Duration, log logger.Logger) *LiveFeed {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &LiveFeed{
		service:  service,
		tokens:   tokens,
		interval: interval,
		log:      log,
		now:      time.Now,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Serve handles GET /ws/dashboard?token=JWT&period=30d. Admins pass
// partner_id to watch a partner.
func (f *LiveFeed) Serve(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "token is required")
		return
	}
	claims, err := f.tokens.ValidateToken(token)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired token")
		return
	}

	partnerID := claims.UserID
	if claims.Role == jwt.RoleAdmin {
		id, err := strconv.ParseInt(c.Query("partner_id"), 10, 64)
		if err != nil || id <= 0 {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "partner_id is required for admin tokens")
			return
		}
		partnerID = id
	} else if claims.Role != jwt.RolePartner {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "partner access required")
		return
	}

	period, err := analytics.ParsePeriod(c.Query("period"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_PERIOD", err.Error())
		return
	}

	conn, err := f.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		f.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	f.log.Info("dashboard feed connected", "partner_id", partnerID, "period", period)
	f.run(c.Request.Context(), conn, partnerID, period)
	f.log.Info("dashboard feed disconnected", "partner_id", partnerID)
}

func (f *LiveFeed) run(ctx context.Context, conn *websocket.Conn, partnerID int64, period analytics.Period) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer conn.Close()

	incoming := make(chan clientMessage, 4)
	go f.readPump(ctx, conn, incoming, cancel)

	refresh := time.NewTicker(f.interval)
	ping := time.NewTicker(pingPeriod)
	defer refresh.Stop()
	defer ping.Stop()

	if err := f.push(ctx, conn, partnerID, period); err != nil {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-incoming:
			switch msg.Type {
			case "period":
				p, err := analytics.ParsePeriod(msg.Period)
				if err != nil {
					if f.write(conn, Event{Type: EventError, Error: err.Error()}) != nil {
						return
					}
					continue
				}
				period = p
			case "refresh":
			default:
				if f.write(conn, Event{Type: EventError, Error: "unknown message type: " + msg.Type}) != nil {
					return
				}
				continue
			}
			if err := f.push(ctx, conn, partnerID, period); err != nil {
				return
			}
		case <-refresh.C:
			if err := f.push(ctx, conn, partnerID, period); err != nil {
				return
			}
		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// push sends one snapshot. A failed build is reported to the client and
// the connection stays open for the next tick; only write errors end it.
func (f *LiveFeed) push(ctx context.Context, conn *websocket.Conn, partnerID int64, period analytics.Period) error {
	snap, err := f.service.Snapshot(ctx, partnerID, period, f.now())
	if err != nil {
		f.log.Error("live dashboard snapshot", "partner_id", partnerID, "error", err)
		return f.write(conn, Event{Type: EventError, Error: "failed to build dashboard"})
	}
	return f.write(conn, Event{Type: EventSnapshot, Snapshot: &snap})
}

func (f *LiveFeed) write(conn *websocket.Conn, ev Event) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(ev)
}

func (f *LiveFeed) readPump(ctx context.Context, conn *websocket.Conn, out chan<- clientMessage, cancel context.CancelFunc) {
	defer cancel()

	conn.SetReadLimit(maxMsgSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				f.log.Warn("dashboard feed read error", "error", err)
			}
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			continue
		}
		conn.SetReadDeadline(time.Now().Add(pongWait))
		select {
		case out <- msg:
		case <-ctx.Done():
			return
		}
	}
}
