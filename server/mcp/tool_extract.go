package mcp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"

	"github.com/adrianliechti/payroll/pkg/analyzer"
	"github.com/adrianliechti/payroll/pkg/record"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const extractTool = "extract_documents"

type extractInput struct {
	Model    string `json:"model"`
	Analyzer string `json:"analyzer"`

	Documents []documentInput `json:"documents"`
}

type documentInput struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

type extractOutput struct {
	ID    string `json:"id"`
	Model string `json:"model"`

	Dataset *record.Dataset `json:"dataset"`

	Errors []documentError `json:"errors"`
}

type documentError struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Error string `json:"error"`
}

func extractSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",

		Properties: map[string]*jsonschema.Schema{
			"model": {
				Type:        "string",
				Description: "Custom extraction model id. Defaults to the first configured model.",
			},

			"analyzer": {
				Type:        "string",
				Description: "Configured analyzer id. Defaults to the first configured analyzer.",
			},

			"documents": {
				Type:        "array",
				Description: "Payroll documents to process. Each becomes one row.",

				Items: &jsonschema.Schema{
					Type: "object",

					Properties: map[string]*jsonschema.Schema{
						"name": {
							Type:        "string",
							Description: "File name including extension, used as row label.",
						},

						"content": {
							Type:        "string",
							Description: "Base64 encoded file content.",
						},
					},

					Required: []string{"name", "content"},
				},
			},
		},

		Required: []string{"documents"},
	}
}

func (h *Handler) registerTools() error {
	tool := &mcp.Tool{
		Name:        extractTool,
		Description: "Extracts the fields of payroll documents with a custom document model and returns one normalized row per document.",

		InputSchema: extractSchema(),
	}

	h.server.AddTool(tool, h.handleExtract)

	return nil
}

func (h *Handler) handleExtract(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input extractInput

	data, err := json.Marshal(req.Params.Arguments)

	if err != nil {
		return toolError(err), nil
	}

	if err := json.Unmarshal(data, &input); err != nil {
		return toolError(err), nil
	}

	files, err := h.readDocuments(input.Documents)

	if err != nil {
		return toolError(err), nil
	}

	model, err := h.Model(input.Model)

	if err != nil {
		return toolError(err), nil
	}

	p, err := h.Processor(input.Analyzer, model)

	if err != nil {
		return toolError(err), nil
	}

	result, err := p.Process(ctx, files)

	if err != nil {
		return nil, err
	}

	output := extractOutput{
		ID:    result.ID,
		Model: model,

		Dataset: result.Dataset,

		Errors: []documentError{},
	}

	for _, e := range result.Errors {
		output.Errors = append(output.Errors, documentError{
			Index: e.Index,
			Name:  e.Name,
			Error: e.Err.Error(),
		})
	}

	text, err := json.Marshal(output)

	if err != nil {
		return nil, err
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{
				Text: string(text),
			},
		},
	}, nil
}

func (h *Handler) readDocuments(docs []documentInput) ([]analyzer.File, error) {
	if len(docs) == 0 {
		return nil, errors.New("missing documents")
	}

	var files []analyzer.File

	for _, d := range docs {
		if !h.Supported(d.Name) {
			return nil, errors.New("unsupported file type: " + d.Name)
		}

		content, err := base64.StdEncoding.DecodeString(d.Content)

		if err != nil {
			return nil, errors.New("invalid content: " + d.Name)
		}

		files = append(files, analyzer.File{
			Name:    d.Name,
			Content: content,
		})
	}

	return files, nil
}

func toolError(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,

		Content: []mcp.Content{
			&mcp.TextContent{
				Text: err.Error(),
			},
		},
	}
}
