package mcp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/adrianliechti/payroll/config"
	"github.com/adrianliechti/payroll/pkg/analyzer"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

type stubAnalyzer struct{}

func (stubAnalyzer) Analyze(ctx context.Context, model string, file analyzer.File) (*analyzer.Result, error) {
	return &analyzer.Result{
		ModelID: model,

		Documents: []analyzer.Document{
			{Fields: []analyzer.Property{
				{Name: "Content", Field: analyzer.StringField(string(file.Content))},
			}},
		},
	}, nil
}

func newTestHandler(t *testing.T) *Handler {
	t.Helper()

	cfg := &config.Config{
		Extensions: []string{".pdf"},
	}

	cfg.RegisterModel("rina_string_content")
	cfg.RegisterAnalyzer("stub", stubAnalyzer{})

	h, err := New(cfg)
	require.NoError(t, err)

	return h
}

func callExtract(t *testing.T, h *Handler, args string) *mcp.CallToolResult {
	t.Helper()

	req := &mcp.CallToolRequest{
		Params: &mcp.CallToolParamsRaw{
			Name:      extractTool,
			Arguments: json.RawMessage(args),
		},
	}

	result, err := h.handleExtract(context.Background(), req)
	require.NoError(t, err)

	return result
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()

	require.Len(t, result.Content, 1)

	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)

	return text.Text
}

func TestExtractDocuments(t *testing.T) {
	h := newTestHandler(t)

	content := base64.StdEncoding.EncodeToString([]byte("1.234,5"))

	result := callExtract(t, h, `{"documents": [{"name": "jan.pdf", "content": "`+content+`"}]}`)
	require.False(t, result.IsError)

	var output struct {
		ID    string `json:"id"`
		Model string `json:"model"`

		Dataset struct {
			Columns []string `json:"columns"`
			Rows    []struct {
				Name   string         `json:"name"`
				Values map[string]any `json:"values"`
			} `json:"rows"`
		} `json:"dataset"`

		Errors []any `json:"errors"`
	}

	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &output))

	require.NotEmpty(t, output.ID)
	require.Equal(t, "rina_string_content", output.Model)
	require.Equal(t, []string{"Content"}, output.Dataset.Columns)
	require.Len(t, output.Dataset.Rows, 1)
	require.Equal(t, "jan.pdf", output.Dataset.Rows[0].Name)
	require.InDelta(t, 1234.5, output.Dataset.Rows[0].Values["Content"], 1e-9)
	require.Empty(t, output.Errors)
}

func TestExtractDocumentsInvalid(t *testing.T) {
	h := newTestHandler(t)

	for name, args := range map[string]string{
		"no documents":   `{"documents": []}`,
		"unsupported":    `{"documents": [{"name": "notes.txt", "content": ""}]}`,
		"invalid base64": `{"documents": [{"name": "jan.pdf", "content": "%%%"}]}`,
		"unknown model":  `{"model": "prebuilt-invoice", "documents": [{"name": "jan.pdf", "content": ""}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			result := callExtract(t, h, args)

			require.True(t, result.IsError)
			require.NotEmpty(t, resultText(t, result))
		})
	}
}
