package replay_test

import (
	"context"
	"testing"

	"github.com/adrianliechti/payroll/pkg/analyzer"
	"github.com/adrianliechti/payroll/pkg/analyzer/replay"

	"github.com/stretchr/testify/require"
)

func TestAnalyze(t *testing.T) {
	c, err := replay.New()
	require.NoError(t, err)

	file := analyzer.File{
		Name: "payslip.json",

		Content: []byte(`{"documents": [{"docType": "payslip", "fields": {"Total": {"type": "string", "valueString": "1.000,00"}}}]}`),
	}

	result, err := c.Analyze(context.Background(), "rina_string_content", file)
	require.NoError(t, err)

	require.Equal(t, "rina_string_content", result.ModelID)
	require.Len(t, result.Documents, 1)
	require.Equal(t, "Total", result.Documents[0].Fields[0].Name)
	require.Equal(t, "1.000,00", *result.Documents[0].Fields[0].Field.String)
}

func TestAnalyzeUnsupported(t *testing.T) {
	c, _ := replay.New()

	_, err := c.Analyze(context.Background(), "", analyzer.File{Name: "scan.pdf"})
	require.ErrorIs(t, err, analyzer.ErrUnsupported)
}

func TestAnalyzeMalformed(t *testing.T) {
	c, _ := replay.New()

	_, err := c.Analyze(context.Background(), "", analyzer.File{Name: "broken.json", Content: []byte("{")})
	require.Error(t, err)
}
