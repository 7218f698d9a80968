package shoppinglist

import (
	"bytes"
	"encoding/binary"
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, []Entry{
		{Name: "eggs", MeasurementUnit: "pcs", TotalAmount: 5},
		{Name: "flour", MeasurementUnit: "g", TotalAmount: 100},
	}))
	assert.Equal(t, "eggs (pcs) - 5\nflour (g) - 100\n", buf.String())

	buf.Reset()
	require.NoError(t, RenderText(&buf, nil))
	assert.Empty(t, buf.String())
}

func TestRenderPDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderPDF(&buf, []Entry{{Name: "crème fraîche", MeasurementUnit: "g", TotalAmount: 200}}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))

	buf.Reset()
	require.NoError(t, RenderPDF(&buf, nil))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func utf16BE(s string) []byte {
	var out []byte
	for _, u := range utf16.Encode([]rune(s)) {
		out = binary.BigEndian.AppendUint16(out, u)
	}
	return out
}

func TestRenderPDFKeepsCyrillicGlyphs(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderPDF(&buf, []Entry{
		{Name: "молоко", MeasurementUnit: "мл", TotalAmount: 200},
		{Name: "ёжевика", MeasurementUnit: "г", TotalAmount: 50},
	}, false))
	out := buf.Bytes()

	assert.True(t, bytes.Contains(out, []byte("/FontFile2")), "embedded TrueType font")
	assert.True(t, bytes.Contains(out, []byte("/Identity-H")))
	assert.True(t, bytes.Contains(out, utf16BE("молоко")))
	assert.True(t, bytes.Contains(out, utf16BE("мл")))
	assert.True(t, bytes.Contains(out, utf16BE("ёжевика")))
	assert.False(t, bytes.Contains(out, []byte("(......)Tj")), "no cp1252 placeholders")
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatText, f)
	assert.Equal(t, "shopping_cart.txt", f.Filename())

	f, err = ParseFormat("pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", f.ContentType())
	assert.Equal(t, "shopping_cart.pdf", f.Filename())

	_, err = ParseFormat("docx")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
