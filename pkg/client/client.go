package client

import (
	"errors"
	"io"
	"net/http"
	"strings"
)

type Client struct {
	Models ModelService

	Extractions ExtractionService
	Exports     ExportService
}

func New(url string, opts ...RequestOption) *Client {
	opts = append(opts, WithURL(url))

	return &Client{
		Models: NewModelService(opts...),

		Extractions: NewExtractionService(opts...),
		Exports:     NewExportService(opts...),
	}
}

func newRequestConfig(opts ...RequestOption) *RequestConfig {
	c := &RequestConfig{
		Client: http.DefaultClient,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.URL = strings.TrimRight(c.URL, "/")

	return c
}

func (c *RequestConfig) authorize(req *http.Request) {
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
}

func convertError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	text := strings.TrimSpace(string(data))

	if text == "" {
		return errors.New(resp.Status)
	}

	return errors.New(resp.Status + ": " + text)
}
