// Package apiclient talks to a remote ponto backend over HTTP. It
// implements the entry and board collaborators.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/Tiliavir/ponto/internal/apperr"
)

// DefaultTimeout bounds every request when the configuration leaves it unset.
const DefaultTimeout = 15 * time.Second

// Config describes how to reach and authenticate against the backend.
// Client credentials take precedence over a static access token.
type Config struct {
	BaseURL      string
	AccessToken  string
	ClientID     string
	ClientSecret string
	TokenURL     string
	Scopes       []string
	Timeout      time.Duration
	// TokenFile caches client-credential tokens between runs. Empty
	// disables caching.
	TokenFile string
}

// Client is an authenticated backend API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.SugaredLogger
}

// New creates a client from cfg.
func New(ctx context.Context, cfg Config, log *zap.SugaredLogger) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("api base url is not configured")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid api base url: %w", err)
	}

	var hc *http.Client
	switch {
	case cfg.ClientID != "" && cfg.TokenURL != "":
		cc := &clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
			Scopes:       cfg.Scopes,
		}
		ts := cc.TokenSource(ctx)
		if cfg.TokenFile != "" {
			tok, err := loadToken(cfg.TokenFile)
			if err != nil && log != nil {
				log.Warnw("ignoring cached token", "error", err)
			}
			saving := &savingTokenSource{ts: ts, path: cfg.TokenFile}
			if tok != nil {
				saving.last = tok.AccessToken
			}
			ts = oauth2.ReuseTokenSource(tok, saving)
		}
		hc = oauth2.NewClient(ctx, ts)
	case cfg.AccessToken != "":
		hc = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: cfg.AccessToken,
			TokenType:   "Bearer",
		}))
	default:
		hc = &http.Client{}
	}
	hc.Timeout = cfg.Timeout
	if hc.Timeout <= 0 {
		hc.Timeout = DefaultTimeout
	}
	return NewWithHTTPClient(cfg.BaseURL, hc, log), nil
}

// NewWithHTTPClient wraps an already configured http.Client.
func NewWithHTTPClient(baseURL string, hc *http.Client, log *zap.SugaredLogger) *Client {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: hc,
		log:        log,
	}
}

type envelope struct {
	Data json.RawMessage `json:"data"`
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// do sends a JSON request and decodes the data member of the response into
// out. A nil out discards the body.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("api request failed: %w", err)
	}
	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}
	c.log.Debugw("api call", "method", method, "path", path, "status", resp.StatusCode, "latency", time.Since(start).String())

	if resp.StatusCode >= 300 {
		return statusError(resp.StatusCode, data)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("decoding api response: %w", err)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decoding api response: %w", err)
	}
	return nil
}

// statusError turns a non-2xx response into a classified error where the
// status has a domain meaning.
func statusError(status int, data []byte) error {
	var eb errorBody
	if json.Unmarshal(data, &eb) != nil || eb.Error == "" {
		eb.Error = strings.TrimSpace(string(data))
	}
	switch status {
	case http.StatusNotFound:
		return apperr.ErrNotFound.With("%s", eb.Error)
	case http.StatusConflict:
		return apperr.ErrConflict.With("%s", eb.Error)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		code := eb.Code
		if code == "" {
			code = "bad_request"
		}
		return apperr.New(apperr.KindValidation, code, eb.Error)
	}
	return fmt.Errorf("api error %d: %s", status, eb.Error)
}
