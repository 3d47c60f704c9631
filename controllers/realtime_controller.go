package controllers

import (
	"net/http"
	"time"

	"github.com/lucaswall/food-scanner-sub003/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type RealtimeController struct {
	RT      *services.RealtimeHub
	Fasting *services.FastingService
}

func NewRealtimeController(rt *services.RealtimeHub, fasting *services.FastingService) *RealtimeController {
	return &RealtimeController{RT: rt, Fasting: fasting}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true }, // tighten behind ALB/CloudFront if needed
}

// GET /ws/fasting — pushes the current fast status on connect, then
// fast.ended events as meals are logged.
func (rc *RealtimeController) FastingWS(c *gin.Context) {
	uid, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	cl := &services.WSClient{UserID: uid, Conn: conn}
	rc.RT.Register(cl)

	// initial snapshot so the dashboard doesn't wait for the next event
	loc := userLocation(uid)
	today := time.Now().In(loc).Format("2006-01-02")
	if w, err := rc.Fasting.WindowForDate(c.Request.Context(), uid, today); err == nil {
		rc.RT.Broadcast(uid, gin.H{"kind": "fast.status", "window": w})
	}

	// ping to keep connections alive through some proxies
	go func() {
		t := time.NewTicker(25 * time.Second)
		defer t.Stop()
		for range t.C {
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				rc.RT.Unregister(cl)
				return
			}
		}
	}()

	// read loop ends on client close/error → unregister
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			rc.RT.Unregister(cl)
			return
		}
	}
}
