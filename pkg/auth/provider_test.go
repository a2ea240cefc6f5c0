package auth_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/adrianliechti/payroll/pkg/auth"
	"github.com/adrianliechti/payroll/pkg/auth/header"
	"github.com/adrianliechti/payroll/pkg/auth/static"

	"github.com/stretchr/testify/require"
)

func TestBearerToken(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)

	_, err := auth.BearerToken(r)
	require.Error(t, err)

	r.Header.Set("Authorization", "Basic abc")

	_, err = auth.BearerToken(r)
	require.Error(t, err)

	r.Header.Set("Authorization", "bearer abc")

	token, err := auth.BearerToken(r)
	require.NoError(t, err)
	require.Equal(t, "abc", token)
}

func TestStatic(t *testing.T) {
	p, err := static.New("secret", static.WithUser("payroll"))
	require.NoError(t, err)

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer wrong")

	_, err = p.Authenticate(context.Background(), r)
	require.Error(t, err)

	r.Header.Set("Authorization", "Bearer secret")

	ctx, err := p.Authenticate(context.Background(), r)
	require.NoError(t, err)
	require.Equal(t, "payroll", auth.User(ctx))
}

func TestStaticDisabled(t *testing.T) {
	p, err := static.New("")
	require.NoError(t, err)

	_, err = p.Authenticate(context.Background(), httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
}

func TestHeader(t *testing.T) {
	p, err := header.New()
	require.NoError(t, err)

	r := httptest.NewRequest("GET", "/", nil)

	_, err = p.Authenticate(context.Background(), r)
	require.Error(t, err)

	r.Header.Set("X-Forwarded-User", "hans.muster@example.com")

	ctx, err := p.Authenticate(context.Background(), r)
	require.NoError(t, err)
	require.Equal(t, "hans.muster@example.com", auth.User(ctx))
	require.Equal(t, "hans.muster@example.com", auth.Email(ctx))
}

func TestHeaderCustom(t *testing.T) {
	p, err := header.New(header.WithUserHeader("X-User"), header.WithEmailHeader("X-Mail"))
	require.NoError(t, err)

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("X-Mail", "hr@example.com")

	ctx, err := p.Authenticate(context.Background(), r)
	require.NoError(t, err)
	require.Equal(t, "hr@example.com", auth.User(ctx))
	require.Equal(t, "hr@example.com", auth.Email(ctx))
}
