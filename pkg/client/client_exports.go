package client

import (
	"context"
	"io"
	"mime"
	"net/http"
	"strconv"
)

type ExportService struct {
	Options []RequestOption
}

func NewExportService(opts ...RequestOption) ExportService {
	return ExportService{
		Options: opts,
	}
}

type ExportRequest struct {
	ExtractionRequest

	// Format is "csv" or "excel".
	Format string
}

type Export struct {
	ID   string
	Name string

	Content     []byte
	ContentType string

	// Errors is the number of documents without a row.
	Errors int
}

func (r *ExportService) New(ctx context.Context, input ExportRequest, opts ...RequestOption) (*Export, error) {
	c := newRequestConfig(append(r.Options, opts...)...)

	body, contentType, err := encodeFiles(input.Files, map[string]string{
		"model":    input.Model,
		"analyzer": input.Analyzer,
		"format":   input.Format,
	})

	if err != nil {
		return nil, err
	}

	req, _ := http.NewRequestWithContext(ctx, "POST", c.URL+"/v1/export", body)
	req.Header.Set("Content-Type", contentType)
	c.authorize(req)

	resp, err := c.Client.Do(req)

	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, convertError(resp)
	}

	data, err := io.ReadAll(resp.Body)

	if err != nil {
		return nil, err
	}

	result := &Export{
		ID: resp.Header.Get("X-Batch-Id"),

		Content:     data,
		ContentType: resp.Header.Get("Content-Type"),
	}

	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		result.Name = params["filename"]
	}

	if val := resp.Header.Get("X-Document-Errors"); val != "" {
		result.Errors, _ = strconv.Atoi(val)
	}

	return result, nil
}
