package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/rickgao/betfair-soap/internal/model"
	"github.com/rickgao/betfair-soap/internal/validate"
)

// ErrNoCredentials is returned by Login when the client has no credentials.
var ErrNoCredentials = errors.New("no credentials configured")

// LoginResult is the account summary returned by a successful login.
type LoginResult struct {
	Currency   string
	ValidUntil int64 // µs since epoch
}

// Login opens a session with the configured credentials. The session token is
// kept by the client and sent on every later call.
func (c *Client) Login(ctx context.Context) (*LoginResult, error) {
	if c.creds == nil {
		return nil, fmt.Errorf("login: %w", ErrNoCredentials)
	}

	res, err := c.Call(ctx, OpLogin, c.creds.LoginArgs())
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	c.logger.Info("logged in",
		"username", c.creds.Username,
		"currency", res.Value("currency"),
	)

	return &LoginResult{
		Currency:   res.Value("currency"),
		ValidUntil: ParseTimestamp(res.Value("validUntil")),
	}, nil
}

// Logout closes the session and forgets the token.
func (c *Client) Logout(ctx context.Context) error {
	if _, err := c.Call(ctx, OpLogout, nil); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	c.token = ""
	return nil
}

// KeepAlive extends the session.
func (c *Client) KeepAlive(ctx context.Context) error {
	if _, err := c.Call(ctx, OpKeepAlive, nil); err != nil {
		return fmt.Errorf("keep alive: %w", err)
	}
	return nil
}

// GetActiveEventTypes returns event types with open markets. An empty locale
// uses the account default.
func (c *Client) GetActiveEventTypes(ctx context.Context, locale string) ([]model.EventType, error) {
	args := validate.Args{}
	if locale != "" {
		args["locale"] = locale
	}

	res, err := c.Call(ctx, OpGetActiveEventTypes, args)
	if err != nil {
		return nil, fmt.Errorf("get active event types: %w", err)
	}

	items := res.Node.Child("eventTypeItems").ChildrenNamed("EventType")
	out := make([]model.EventType, 0, len(items))
	for _, n := range items {
		out = append(out, model.EventType{
			ID:           ParseInt(n.Value("id")),
			Name:         n.Value("name"),
			NextMarketID: ParseInt(n.Value("nextMarketId")),
			ExchangeID:   int(ParseInt(n.Value("exchangeId"))),
		})
	}
	return out, nil
}
