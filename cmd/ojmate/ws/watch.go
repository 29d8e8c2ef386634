// Package ws streams submission verdict progress to the editor over a
// websocket, so the front end can render live judging state without
// polling the daemon.
package ws

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ojmate/ojmate/cmd/ojmate/model"
	"github.com/ojmate/ojmate/judge"
)

// Register registers the web socket handle /ws/submission
type Register interface {
	Register(*gin.Engine)
}

// New creates new websocket handle
func New(client *judge.Client, logger *zap.Logger) Register {
	return &wsHandle{
		client: client,
		logger: logger,
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const (
	writeWait = 10 * time.Second
	pongWait  = 60 * time.Second
)

type wsHandle struct {
	client *judge.Client
	logger *zap.Logger
}

// frame is one progress message pushed to the editor.
type frame struct {
	Event      string                  `json:"event"` // submitted | progress | done | error
	Submission *judge.StatusEntry      `json:"submission,omitempty"`
	Result     *judge.SubmissionResult `json:"result,omitempty"`
	Error      *model.ErrorResponse    `json:"error,omitempty"`
}

func (h *wsHandle) Register(r *gin.Engine) {
	r.GET("/ws/submission", h.handleWS)
}

func (h *wsHandle) handleWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.Error(err)
		c.AbortWithStatusJSON(http.StatusBadRequest, err.Error())
		return
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	req := new(model.SubmitRequest)
	if err := conn.ReadJSON(req); err != nil {
		h.logger.Sugar().Warn("ws read error:", err)
		return
	}

	ctx := c.Request.Context()
	entry, err := h.client.Submit(ctx, model.ConvertSubmitRequest(req))
	if err != nil {
		h.writeFrame(conn, errorFrame(err))
		return
	}
	h.writeFrame(conn, frame{Event: "submitted", Submission: entry})
	if entry.SolutionID == nil {
		h.writeFrame(conn, errorFrame(errNoSolutionID))
		return
	}

	final, err := h.client.PollSubmission(ctx, *entry.SolutionID, judge.DefaultPollOptions,
		func(s *judge.SubmissionResult) {
			if !judge.Terminal(s.ResultCode) {
				h.writeFrame(conn, frame{Event: "progress", Result: s})
			}
		})
	if err != nil {
		h.writeFrame(conn, errorFrame(err))
		return
	}
	h.writeFrame(conn, frame{Event: "done", Result: final})
}

func (h *wsHandle) writeFrame(conn *websocket.Conn, f frame) {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(f); err != nil {
		h.logger.Sugar().Warn("ws write error:", err)
	}
}

func errorFrame(err error) frame {
	_, body := model.ConvertError(err)
	return frame{Event: "error", Error: &body}
}

type submissionError string

func (e submissionError) Error() string { return string(e) }

const errNoSolutionID = submissionError("submission has no solution id to poll")
