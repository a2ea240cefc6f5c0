package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/adrianliechti/payroll/server/api"
)

type ExtractionService struct {
	Options []RequestOption
}

func NewExtractionService(opts ...RequestOption) ExtractionService {
	return ExtractionService{
		Options: opts,
	}
}

type Extraction = api.Extraction
type ExtractionRow = api.Row
type DocumentError = api.DocumentError

type File struct {
	Name   string
	Reader io.Reader
}

type ExtractionRequest struct {
	Model    string
	Analyzer string

	Files []File
}

func (r *ExtractionService) New(ctx context.Context, input ExtractionRequest, opts ...RequestOption) (*Extraction, error) {
	c := newRequestConfig(append(r.Options, opts...)...)

	body, contentType, err := encodeFiles(input.Files, map[string]string{
		"model":    input.Model,
		"analyzer": input.Analyzer,
	})

	if err != nil {
		return nil, err
	}

	req, _ := http.NewRequestWithContext(ctx, "POST", c.URL+"/v1/extract", body)
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

	var result Extraction

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	return &result, nil
}

func encodeFiles(files []File, fields map[string]string) (*bytes.Buffer, string, error) {
	if len(files) == 0 {
		return nil, "", errors.New("missing files")
	}

	var data bytes.Buffer
	w := multipart.NewWriter(&data)

	for k, v := range fields {
		if v == "" {
			continue
		}

		if err := w.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}

	for _, f := range files {
		part, err := w.CreateFormFile("files", f.Name)

		if err != nil {
			return nil, "", err
		}

		if _, err := io.Copy(part, f.Reader); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}

	return &data, w.FormDataContentType(), nil
}
