package replay

import (
	"context"
	"path"
	"strings"

	"github.com/adrianliechti/payroll/pkg/analyzer"
	"github.com/adrianliechti/payroll/pkg/analyzer/azure"
)

var _ analyzer.Provider = &Client{}

// Client returns field trees captured from an earlier analyzer run.
// The file content is the captured JSON, so no service is contacted.
type Client struct {
}

func New() (*Client, error) {
	return &Client{}, nil
}

func (c *Client) Analyze(ctx context.Context, model string, file analyzer.File) (*analyzer.Result, error) {
	if !isSupported(file) {
		return nil, analyzer.ErrUnsupported
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := azure.ParseResult(file.Content)

	if err != nil {
		return nil, err
	}

	if result.ModelID == "" {
		result.ModelID = model
	}

	return result, nil
}

func isSupported(file analyzer.File) bool {
	if strings.EqualFold(path.Ext(file.Name), ".json") {
		return true
	}

	return strings.HasPrefix(file.ContentType, "application/json")
}
