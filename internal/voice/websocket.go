package voice

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/abhisek/empathiz/internal/logging"
)

// WebSocketEngine streams transcripts from a local speech service. The
// service owns the microphone; the engine connects to
// {URL}?lang=<tag> and reads JSON frames:
//
//	{"type":"result","final":["I would "],"interim":"tell","has_interim":true}
//	{"type":"error","reason":"no-speech"}
//	{"type":"end"}
type WebSocketEngine struct {
	url    string
	dialer *websocket.Dialer
	log    *zap.Logger
}

// NewWebSocketEngine creates an engine for the service at rawURL.
func NewWebSocketEngine(rawURL string, log *zap.Logger) (*WebSocketEngine, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse voice url: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return nil, fmt.Errorf("voice url must use ws or wss, got %q", u.Scheme)
	}
	return &WebSocketEngine{
		url: rawURL,
		dialer: &websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
		},
		log: logging.OrNop(log).Named("voice.ws"),
	}, nil
}

type frame struct {
	Type       string   `json:"type"`
	Final      []string `json:"final"`
	Interim    string   `json:"interim"`
	HasInterim bool     `json:"has_interim"`
	Reason     string   `json:"reason"`
}

func (e *WebSocketEngine) Start(ctx context.Context, lang string) (<-chan Event, error) {
	u, _ := url.Parse(e.url)
	q := u.Query()
	q.Set("lang", lang)
	u.RawQuery = q.Encode()

	conn, _, err := e.dialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("connect to speech service: %w", err)
	}

	out := make(chan Event)
	done := make(chan struct{})

	go func() {
		select {
		case <-ctx.Done():
			deadline := time.Now().Add(time.Second)
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "stop"), deadline)
			_ = conn.Close()
		case <-done:
		}
	}()

	go func() {
		defer close(out)
		defer close(done)
		defer conn.Close()

		send := func(ev Event) bool {
			select {
			case out <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}

		for {
			var f frame
			if err := conn.ReadJSON(&f); err != nil {
				if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure) {
					return
				}
				send(Event{Err: err})
				return
			}

			switch f.Type {
			case "result":
				if !send(Event{Finalized: f.Final, Interim: f.Interim, HasInterim: f.HasInterim}) {
					return
				}
			case "error":
				reason := f.Reason
				if reason == "" {
					reason = "unknown"
				}
				send(Event{Err: errors.New(reason)})
				return
			case "end":
				return
			default:
				e.log.Debug("ignoring frame", zap.String("type", f.Type))
			}
		}
	}()

	return out, nil
}
