package companion

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/garrettladley/ksclock/internal/message"
	"github.com/garrettladley/ksclock/internal/xhttp"
	"github.com/garrettladley/ksclock/internal/xslog"
)

const (
	initialBackoff = 1 * time.Second
	maxBackoff     = 30 * time.Second
	backoffFactor  = 2

	requestTimeout = 15 * time.Second
)

type Event struct {
	Type string
	Data []byte
}

// Client is the clock's link to its companion.
type Client struct {
	baseURL     string
	deviceID    string
	sessionID   string
	httpClient  *http.Client
	sseClient   *http.Client
	tokenSource oauth2.TokenSource
	logger      *slog.Logger
	onStatus    func(connected bool)
}

type ClientConfig struct {
	BaseURL  string
	Token    string
	DeviceID string
	Logger   *slog.Logger
	// OnStatus, if set, is called whenever the stream connects or drops.
	OnStatus func(connected bool)
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	var ts oauth2.TokenSource
	if cfg.Token != "" {
		ts = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token, TokenType: "Bearer"})
	}
	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		deviceID:    cfg.DeviceID,
		sessionID:   uuid.NewString(),
		httpClient:  xhttp.NewHTTPClient(xhttp.WithTimeout(requestTimeout)),
		sseClient:   xhttp.NewHTTPClient(), // no timeout for SSE
		tokenSource: ts,
		logger:      logger,
		onStatus:    cfg.OnStatus,
	}
}

// RequestWeather posts the empty request marker. The reply arrives later as
// an inbound message on the stream.
func (c *Client) RequestWeather(ctx context.Context) error {
	return c.post(ctx, PathWeatherRequest, message.WeatherRequest{})
}

// SendConfig relays a settings change through the companion.
func (c *Client) SendConfig(ctx context.Context, in message.Inbound) error {
	return c.post(ctx, PathConfig, in)
}

func (c *Client) post(ctx context.Context, path string, payload any) error {
	body, err := message.Encode(payload)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set(xhttp.ContentType, xhttp.ApplicationJSON)
	if err := c.authorize(req); err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode/100 != 2 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	return nil
}

func (c *Client) authorize(req *http.Request) error {
	if c.tokenSource != nil {
		token, err := c.tokenSource.Token()
		if err != nil {
			return fmt.Errorf("getting token: %w", err)
		}
		token.SetAuthHeader(req)
	}
	req.Header.Set(xhttp.XDeviceID, c.deviceID)
	xhttp.SetRequestHeaderSessionID(req, c.sessionID)
	return nil
}

// Subscribe streams inbound messages to handler until ctx is cancelled,
// reconnecting with exponential backoff.
func (c *Client) Subscribe(ctx context.Context, handler func(message.Inbound)) error {
	backoff := initialBackoff

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := c.subscribeOnce(ctx, handler)
		if err == nil {
			// connection closed cleanly, reset backoff
			backoff = initialBackoff
			continue
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		c.logger.WarnContext(ctx, "SSE connection failed, reconnecting",
			xslog.Error(err),
			xslog.Backoff(backoff),
		)

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		backoff = min(backoff*backoffFactor, maxBackoff)
	}
}

func (c *Client) subscribeOnce(ctx context.Context, handler func(message.Inbound)) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+PathStream, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set(xhttp.Accept, xhttp.TextEventStream)
	req.Header.Set(xhttp.CacheControl, "no-cache")
	if err := c.authorize(req); err != nil {
		return err
	}

	resp, err := c.sseClient.Do(req)
	if err != nil {
		return fmt.Errorf("connecting: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	c.logger.InfoContext(ctx, "SSE connection established")
	c.status(true)
	defer c.status(false)

	scanner := bufio.NewScanner(resp.Body)
	var current Event

	for scanner.Scan() {
		line := scanner.Text()

		if line == "" {
			// empty line signals end of event
			if current.Type != "" && len(current.Data) > 0 {
				c.handleEvent(ctx, current, handler)
			}
			current = Event{}
			continue
		}

		if eventType, found := strings.CutPrefix(line, "event:"); found {
			current.Type = strings.TrimSpace(eventType)
		} else if data, found := strings.CutPrefix(line, "data:"); found {
			current.Data = []byte(strings.TrimSpace(data))
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading stream: %w", err)
	}
	return nil
}

func (c *Client) status(connected bool) {
	if c.onStatus != nil {
		c.onStatus(connected)
	}
}

func (c *Client) handleEvent(ctx context.Context, event Event, handler func(message.Inbound)) {
	switch event.Type {
	case EventMessage:
		in, err := message.DecodeInbound(event.Data)
		if err != nil {
			c.logger.ErrorContext(ctx, "dropped inbound message", xslog.Error(err))
			return
		}
		handler(in)

	case EventHeartbeat:
		c.logger.DebugContext(ctx, "received heartbeat")

	case EventConnected:
		c.logger.DebugContext(ctx, "received connected event")

	case EventShutdown:
		c.logger.InfoContext(ctx, "companion is restarting")

	default:
		c.logger.DebugContext(ctx, "received unknown event type", slog.String("type", event.Type))
	}
}
