package hub

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"mlactions/internal/common/fsutil"
)

// DefaultTokenPath is where huggingface_hub keeps its token.
const DefaultTokenPath = "~/.cache/huggingface/token"

// Options configures a Client.
type Options struct {
	Endpoint string
	// Token is the initial session token. When empty, TokenPath is read.
	Token string
	// TokenPath is where a successful Login persists the token. Empty
	// disables both reading and writing the file.
	TokenPath string
	Timeout   time.Duration
	Log       zerolog.Logger
}

// Client is an HTTP-backed Session.
type Client struct {
	endpoint   string
	tokenPath  string
	timeout    time.Duration
	httpClient *http.Client
	log        zerolog.Logger

	mu    sync.RWMutex
	token string
}

// NewClient builds a Client. A token file that cannot be read just leaves
// the session without credentials.
func NewClient(opts Options) *Client {
	ep := strings.TrimRight(strings.TrimSpace(opts.Endpoint), "/")
	if ep == "" {
		ep = DefaultEndpoint
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	c := &Client{
		endpoint: ep,
		timeout:  timeout,
		// Timeout=0: calls carry context deadlines.
		httpClient: &http.Client{Timeout: 0},
		log:        opts.Log,
		token:      strings.TrimSpace(opts.Token),
	}
	if opts.TokenPath != "" {
		p, err := fsutil.ExpandHome(opts.TokenPath)
		if err == nil {
			c.tokenPath = p
		}
	}
	if c.token == "" && c.tokenPath != "" {
		if b, err := os.ReadFile(c.tokenPath); err == nil {
			c.token = strings.TrimSpace(string(b))
		}
	}
	return c
}

// Token returns the current session token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) WhoAmI(ctx context.Context) (Identity, error) {
	tok := c.Token()
	if tok == "" {
		return Identity{}, ErrNoToken
	}
	return c.whoami(ctx, tok)
}

func (c *Client) Login(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrNoToken
	}
	id, err := c.whoami(ctx, token)
	if err != nil {
		return err
	}
	// the session only switches once the token is saved
	if err := c.persist(token); err != nil {
		return fmt.Errorf("hub: save token: %w", err)
	}
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
	c.log.Info().Str("user", id.Name).Msg("hub login")
	return nil
}

func (c *Client) persist(token string) error {
	if c.tokenPath == "" {
		return nil
	}
	return fsutil.WritePrivate(c.tokenPath, []byte(token))
}

func (c *Client) whoami(ctx context.Context, token string) (Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/api/whoami-v2", nil)
	if err != nil {
		return Identity{}, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return Identity{}, ctx.Err()
		}
		return Identity{}, err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Identity{}, err
	}
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return Identity{}, unauthorizedError{status: resp.StatusCode}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		body := string(b)
		if len(body) > 256 {
			body = body[:256]
		}
		return Identity{}, statusError{status: resp.StatusCode, body: body}
	}
	id, err := decodeIdentity(b)
	if err != nil {
		return Identity{}, fmt.Errorf("hub: decode whoami: %w", err)
	}
	return id, nil
}
