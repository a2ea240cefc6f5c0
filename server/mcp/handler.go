package mcp

import (
	"net/http"
	"time"

	"github.com/adrianliechti/payroll/config"

	"github.com/go-chi/chi/v5"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type Handler struct {
	*config.Config

	server *mcp.Server
}

func New(cfg *config.Config) (*Handler, error) {
	h := &Handler{
		Config: cfg,
	}

	impl := &mcp.Implementation{
		Name:    "payroll",
		Version: "1.0.0",
	}

	opts := &mcp.ServerOptions{
		KeepAlive: time.Second * 30,
	}

	h.server = mcp.NewServer(impl, opts)

	if err := h.registerTools(); err != nil {
		return nil, err
	}

	return h, nil
}

func (h *Handler) Attach(r chi.Router) {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return h.server
	}, &mcp.StreamableHTTPOptions{
		Stateless: true,
	})

	r.Handle("/mcp", handler)
}
