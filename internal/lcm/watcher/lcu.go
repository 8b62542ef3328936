package watcher

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/coder/websocket"
)

const (
	lcuUser        = "riot"
	lcuHost        = "127.0.0.1"
	lcuSubprotocol = "wamp"

	championTopic = "OnJsonApiEvent_lol-champ-select_v1_current-champion"
	championURI   = "/lol-champ-select/v1/current-champion"

	wampSubscribe = 5
	wampEvent     = 8
)

// ErrUnexpectedPayload is returned for a current-champion event whose data
// is not a champion id.
var ErrUnexpectedPayload = errors.New("unexpected current-champion payload")

// LCUDialer connects to the League client's local websocket API.
type LCUDialer struct {
	locator Locator
	host    string
	client  *http.Client
	logger  *slog.Logger
}

// NewLCUDialer creates a dialer that finds credentials through locator.
func NewLCUDialer(locator Locator, logger *slog.Logger) *LCUDialer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &LCUDialer{
		locator: locator,
		host:    lcuHost,
		client: &http.Client{
			Transport: &http.Transport{
				// The client serves a self-signed certificate on loopback.
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec
			},
		},
		logger: logger,
	}
}

// Dial locates the running client, opens the websocket and subscribes to
// champion selection events.
func (d *LCUDialer) Dial(ctx context.Context) (Conn, error) {
	creds, err := d.locator.Locate(ctx)
	if err != nil {
		return nil, err
	}

	header := http.Header{}
	header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(lcuUser+":"+creds.Password)))
	url := fmt.Sprintf("wss://%s:%d/", d.host, creds.Port)

	c, _, err := websocket.Dial(ctx, url, &websocket.DialOptions{
		HTTPClient:   d.client,
		HTTPHeader:   header,
		Subprotocols: []string{lcuSubprotocol},
	})
	if err != nil {
		return nil, fmt.Errorf("dial client api: %w", err)
	}
	c.SetReadLimit(1 << 20)

	subscribe, _ := json.Marshal([]any{wampSubscribe, championTopic})
	if err := c.Write(ctx, websocket.MessageText, subscribe); err != nil {
		c.CloseNow()
		return nil, fmt.Errorf("subscribe: %w", err)
	}
	d.logger.Debug("subscribed to champion select", "port", creds.Port)
	return &lcuConn{c: c, logger: d.logger}, nil
}

type lcuConn struct {
	c      *websocket.Conn
	logger *slog.Logger
}

func (l *lcuConn) Next(ctx context.Context) (uint32, error) {
	for {
		_, data, err := l.c.Read(ctx)
		if err != nil {
			return 0, err
		}
		id, ok, err := ParseFrame(data)
		if err != nil {
			return 0, err
		}
		if ok {
			return id, nil
		}
	}
}

func (l *lcuConn) Close() error {
	return l.c.Close(websocket.StatusNormalClosure, "")
}

type eventPayload struct {
	URI       string          `json:"uri"`
	EventType string          `json:"eventType"`
	Data      json.RawMessage `json:"data"`
}

// ParseFrame extracts the current champion from a WAMP frame. ok is false for
// frames that do not carry a current-champion event.
func ParseFrame(data []byte) (id uint32, ok bool, err error) {
	var frame []json.RawMessage
	if err := json.Unmarshal(data, &frame); err != nil || len(frame) < 3 {
		return 0, false, nil
	}
	var opcode int
	if err := json.Unmarshal(frame[0], &opcode); err != nil || opcode != wampEvent {
		return 0, false, nil
	}
	var payload eventPayload
	if err := json.Unmarshal(frame[2], &payload); err != nil || payload.URI != championURI {
		return 0, false, nil
	}

	if payload.EventType == "Delete" {
		return 0, true, nil
	}
	raw := bytes.TrimSpace(payload.Data)
	n, err := strconv.ParseUint(string(raw), 10, 32)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %s", ErrUnexpectedPayload, raw)
	}
	return uint32(n), true, nil
}
