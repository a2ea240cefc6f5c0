package static

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/adrianliechti/payroll/pkg/auth"
)

var _ auth.Provider = &Provider{}

// Provider accepts requests carrying a fixed bearer token.
// An empty token disables the check.
type Provider struct {
	token string
	user  string
}

type Option func(*Provider)

// WithUser sets the user reported for authenticated requests.
func WithUser(user string) Option {
	return func(p *Provider) {
		p.user = user
	}
}

func New(token string, options ...Option) (*Provider, error) {
	p := &Provider{
		token: token,
		user:  "static",
	}

	for _, option := range options {
		option(p)
	}

	return p, nil
}

func (p *Provider) Authenticate(ctx context.Context, r *http.Request) (context.Context, error) {
	if p.token == "" {
		return ctx, nil
	}

	token, err := auth.BearerToken(r)

	if err != nil {
		return ctx, err
	}

	if subtle.ConstantTimeCompare([]byte(token), []byte(p.token)) != 1 {
		return ctx, errors.New("invalid token")
	}

	return context.WithValue(ctx, auth.UserContextKey, p.user), nil
}
