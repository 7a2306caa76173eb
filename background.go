package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/spenceriam/portfolio/internal/logutil"
	"github.com/spenceriam/portfolio/internal/starfield"
)

const backgroundWriteTimeout = 5 * time.Second

// background is the single animated layout shared by every visitor.
var background *starfield.Controller

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type backgroundResponse struct {
	Phase     starfield.Phase `json:"phase"`
	Cycle     int             `json:"cycle"`
	ElapsedMs int64           `json:"elapsedMs"`
	Scene     starfield.Scene `json:"scene"`
}

func newBackgroundResponse(frame starfield.Frame) backgroundResponse {
	elapsed := background.Now().Sub(frame.EnteredAt)
	if elapsed < 0 {
		elapsed = 0
	}
	return backgroundResponse{
		Phase:     frame.Phase,
		Cycle:     frame.Cycle,
		ElapsedMs: elapsed.Milliseconds(),
		Scene:     starfield.Project(frame),
	}
}

func handleBackgroundJSON(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, newBackgroundResponse(background.Snapshot()))
}

func handleBackgroundSVG(c *gin.Context) {
	resp := newBackgroundResponse(background.Snapshot())

	c.Header("Content-Type", "image/svg+xml")
	c.Header("Cache-Control", "no-store")
	c.Status(http.StatusOK)
	starfield.RenderSVG(c.Writer, resp.Scene, float64(resp.ElapsedMs)/1000)
}

// handleBackgroundSocket pushes the projected scene on connect and after each
// phase change until either side goes away.
func handleBackgroundSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logutil.Warnf("background socket upgrade failed for %s: %v", hashIP(c.ClientIP()), err)
		return
	}
	defer conn.Close()

	frames, cancel := background.Subscribe()
	defer cancel()

	if err := writeScene(conn, background.Snapshot()); err != nil {
		return
	}

	// Clients never send anything meaningful; reading only detects close.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case frame, ok := <-frames:
			if !ok {
				msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "background stopped")
				conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(backgroundWriteTimeout))
				return
			}
			if err := writeScene(conn, frame); err != nil {
				logutil.Debugf("background socket write failed: %v", err)
				return
			}
		}
	}
}

func writeScene(conn *websocket.Conn, frame starfield.Frame) error {
	conn.SetWriteDeadline(time.Now().Add(backgroundWriteTimeout))
	return conn.WriteJSON(newBackgroundResponse(frame))
}
