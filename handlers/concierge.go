package handlers

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	bookingRepo "voyago/database/repository/booking"
	watchRepo "voyago/database/repository/watch"
	"voyago/realtime"
	"voyago/services/concierge"
	"voyago/services/deals"
	"voyago/services/nlu"
	"voyago/utils"
)

const authTokenPrefix = "AUTH_TOKEN:"

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The demo client is served from a different origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ConciergeDeps is everything a live concierge session needs.
type ConciergeDeps struct {
	Hub       *realtime.Hub
	Extractor *nlu.Extractor
	Dates     *nlu.DateNormalizer
	Engine    deals.BundleEngine
	Watches   watchRepo.WatchRepository
	Bookings  bookingRepo.BookingRepository
	Store     concierge.ContextStore
	Logger    *zap.Logger

	FollowupDelay time.Duration
	NudgeDelay    time.Duration
}

// ConciergeSocket answers GET /ws/concierge/:clientID. Each connection gets
// its own dialogue manager; context dies with the connection. The first
// frame may be an "AUTH_TOKEN:<jwt>" handshake upgrading the session from
// the demo identity.
func ConciergeSocket(deps ConciergeDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID := c.Param("clientID")
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			deps.Logger.Warn("websocket upgrade failed",
				zap.String("client", clientID), zap.Error(err))
			return
		}

		client := realtime.NewClient(deps.Hub, conn, clientID)
		deps.Hub.Register(client)
		defer deps.Hub.Unregister(client)
		go client.WritePump()

		manager := concierge.NewDialogueManager(
			clientID, utils.DemoUserID,
			deps.Extractor, deps.Dates, deps.Engine,
			deps.Watches, deps.Bookings, deps.Store, deps.Logger)
		manager.Restore(c.Request.Context())

		session := &conciergeSession{
			client:  client,
			manager: manager,
			deps:    deps,
		}
		session.run(c.Request.Context())
	}
}

// sessionConn is the connection surface one session needs.
type sessionConn interface {
	ID() string
	Send(text string)
	ReadText() (string, error)
}

// conciergeSession serializes one connection's turns. The mutex covers the
// dialogue manager: followup and nudge timers fire on their own goroutines
// and must not interleave with a live turn.
type conciergeSession struct {
	client  sessionConn
	manager *concierge.DialogueManager
	deps    ConciergeDeps

	mu         sync.Mutex
	nudgeTimer *time.Timer
}

func (s *conciergeSession) run(ctx context.Context) {
	defer func() {
		s.cancelNudge()
		s.manager.Close(context.Background())
	}()

	for {
		text, err := s.client.ReadText()
		if err != nil {
			s.deps.Logger.Info("session closed", zap.String("client", s.client.ID()))
			return
		}
		s.handleFrame(ctx, text)
	}
}

// handleFrame processes one inbound frame: an auth handshake rebinds the
// identity silently; anything else is an utterance. A fresh utterance
// supersedes any pending idle nudge, and a wait-marked reply schedules the
// promised follow-up instead of a nudge.
func (s *conciergeSession) handleFrame(ctx context.Context, text string) {
	if strings.HasPrefix(text, authTokenPrefix) {
		s.mu.Lock()
		s.manager.SetUser(utils.UserIDFromToken(strings.TrimPrefix(text, authTokenPrefix)))
		s.mu.Unlock()
		return
	}

	s.cancelNudge()

	s.mu.Lock()
	reply := s.manager.HandleUtterance(ctx, text)
	s.mu.Unlock()

	if strings.Contains(reply, "[WAIT]") {
		s.client.Send(strings.TrimSpace(strings.ReplaceAll(reply, "[WAIT]", "")))
		// The promised search runs after a fixed delay. It is not
		// cancelled by later utterances; a second answer is acceptable.
		time.AfterFunc(s.deps.FollowupDelay, func() {
			s.mu.Lock()
			followup := s.manager.GenerateFollowup(context.Background())
			s.mu.Unlock()
			s.client.Send(followup)
		})
		return
	}

	s.client.Send(reply)
	s.scheduleNudge()
}

// scheduleNudge arms the idle timer; at most one nudge is outstanding.
func (s *conciergeSession) scheduleNudge() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nudgeTimer != nil {
		s.nudgeTimer.Stop()
	}
	s.nudgeTimer = time.AfterFunc(s.deps.NudgeDelay, func() {
		s.mu.Lock()
		nudge := s.manager.GenerateNudge()
		s.mu.Unlock()
		s.client.Send(nudge)
	})
}

func (s *conciergeSession) cancelNudge() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nudgeTimer != nil {
		s.nudgeTimer.Stop()
		s.nudgeTimer = nil
	}
}
