package azure

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"path"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/adrianliechti/payroll/pkg/analyzer"
)

var _ analyzer.Provider = &Client{}

type Client struct {
	client *http.Client

	url   string
	token string

	version  string
	interval time.Duration
}

func New(url string, options ...Option) (*Client, error) {
	if url == "" {
		return nil, errors.New("invalid url")
	}

	c := &Client{
		client: http.DefaultClient,

		url: url,

		version:  "2024-11-30",
		interval: 5 * time.Second,
	}

	for _, option := range options {
		option(c)
	}

	return c, nil
}

func (c *Client) Analyze(ctx context.Context, model string, file analyzer.File) (*analyzer.Result, error) {
	if model == "" {
		return nil, errors.New("missing model")
	}

	if !isSupported(file) {
		return nil, analyzer.ErrUnsupported
	}

	operationURL, err := c.startOperation(ctx, model, file)

	if err != nil {
		return nil, err
	}

	for {
		operation, retry, err := c.pollOperation(ctx, operationURL)

		if err != nil {
			return nil, err
		}

		if operation.Status == OperationStatusRunning || operation.Status == OperationStatusNotStarted {
			if retry <= 0 {
				retry = c.interval
			}

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retry):
			}

			continue
		}

		if operation.Status != OperationStatusSucceeded {
			if operation.Error != nil {
				return nil, operation.Error
			}

			return nil, errors.New("operation " + string(operation.Status))
		}

		if operation.Result == nil {
			return nil, errors.New("missing analyze result")
		}

		return convertResult(operation.Result), nil
	}
}

func (c *Client) startOperation(ctx context.Context, model string, file analyzer.File) (string, error) {
	u, err := url.Parse(strings.TrimRight(c.url, "/") + "/documentintelligence/documentModels/" + url.PathEscape(model) + ":analyze")

	if err != nil {
		return "", err
	}

	query := u.Query()
	query.Set("api-version", c.version)

	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(file.Content))

	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("Ocp-Apim-Subscription-Key", c.token)

	resp, err := c.client.Do(req)

	if err != nil {
		return "", err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		return "", convertError(resp)
	}

	operationURL := resp.Header.Get("Operation-Location")

	if operationURL == "" {
		return "", errors.New("missing operation location")
	}

	return operationURL, nil
}

func (c *Client) pollOperation(ctx context.Context, operationURL string) (*AnalyzeOperation, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, operationURL, nil)

	if err != nil {
		return nil, 0, errors.New("invalid operation location: " + operationURL)
	}

	req.Header.Set("Ocp-Apim-Subscription-Key", c.token)

	resp, err := c.client.Do(req)

	if err != nil {
		return nil, 0, err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, 0, convertError(resp)
	}

	var operation AnalyzeOperation

	if err := json.NewDecoder(resp.Body).Decode(&operation); err != nil {
		return nil, 0, err
	}

	return &operation, retryAfter(resp), nil
}

// ParseResult decodes a captured analyze operation or a bare analyze result.
func ParseResult(data []byte) (*analyzer.Result, error) {
	var operation AnalyzeOperation

	if err := json.Unmarshal(data, &operation); err != nil {
		return nil, err
	}

	if operation.Status != "" && operation.Status != OperationStatusSucceeded {
		if operation.Error != nil {
			return nil, operation.Error
		}

		return nil, errors.New("operation " + string(operation.Status))
	}

	if operation.Result != nil {
		return convertResult(operation.Result), nil
	}

	var result AnalyzeResult

	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}

	if result.ModelID == "" && result.Documents == nil {
		return nil, errors.New("missing analyze result")
	}

	return convertResult(&result), nil
}

func isSupported(file analyzer.File) bool {
	if file.Name != "" {
		ext := strings.ToLower(path.Ext(file.Name))

		if slices.Contains(SupportedExtensions, ext) {
			return true
		}
	}

	if file.ContentType != "" {
		if slices.Contains(SupportedMimeTypes, file.ContentType) {
			return true
		}
	}

	return false
}

func retryAfter(resp *http.Response) time.Duration {
	val := resp.Header.Get("Retry-After")

	if val == "" {
		return 0
	}

	seconds, err := strconv.Atoi(val)

	if err != nil || seconds < 0 {
		return 0
	}

	return time.Duration(seconds) * time.Second
}

func convertError(resp *http.Response) error {
	data, _ := io.ReadAll(resp.Body)

	if len(data) == 0 {
		return errors.New(http.StatusText(resp.StatusCode))
	}

	var body struct {
		Error *Error `json:"error"`
	}

	if err := json.Unmarshal(data, &body); err == nil && body.Error != nil {
		return body.Error
	}

	return errors.New(string(data))
}
