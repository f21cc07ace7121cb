package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Title:    "Ocupação das salas",
		Subtitle: "2024-03-04 (Segunda)",
		Headers:  []string{"Sala", "Manhã", "Tarde", "Noite"},
		Rows: []map[string]string{
			{"Sala": "Sala 101", "Manhã": "Ocupada: Turma A", "Tarde": "Livre", "Noite": "Livre"},
			{"Sala": "Laboratório", "Manhã": "Manutenção", "Tarde": "Manutenção"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(out, utf8BOM))

	lines := strings.Split(strings.TrimSpace(string(out[len(utf8BOM):])), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Sala;Manhã;Tarde;Noite", lines[0])
	assert.Equal(t, "Sala 101;Ocupada: Turma A;Livre;Livre", lines[1])
	assert.Equal(t, "Laboratório;Manutenção;Manutenção;", lines[2], "missing cells render empty")
}

func TestExportersRequireHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	require.Error(t, err)
	_, err = NewPDFExporter().Render(Dataset{})
	require.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", f.ContentType())

	_, err = ParseFormat("png")
	require.Error(t, err)
}

func TestColumnWidthsFillPage(t *testing.T) {
	for _, n := range []int{2, 4, 8} {
		widths := columnWidths(n)
		total := 0.0
		for _, w := range widths {
			total += w
		}
		assert.InDelta(t, pageWidthLandscape, total, 0.001, "columns=%d", n)
		assert.Greater(t, widths[0], widths[1], "columns=%d", n)
		assert.InDelta(t, widths[1]*firstColumnWeight, widths[0], 0.001, "columns=%d", n)
	}
	assert.Equal(t, []float64{pageWidthLandscape}, columnWidths(1))
}
