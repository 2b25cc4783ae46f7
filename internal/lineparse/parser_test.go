package lineparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantValues  []float64
		wantInvalid []string
	}{
		{
			name:       "single value",
			raw:        "12.5",
			wantValues: []float64{12.5},
		},
		{
			name:        "labelled values with one bad segment",
			raw:         "a=1,b=2,c=x",
			wantValues:  []float64{1, 2},
			wantInvalid: []string{"c=x"},
		},
		{
			name: "empty line",
			raw:  "",
		},
		{
			name: "whitespace and NULs only",
			raw:  " \x00\r\n ",
		},
		{
			name:       "surrounding whitespace and line ending",
			raw:        "  42\r\n",
			wantValues: []float64{42},
		},
		{
			name:       "NUL characters stripped",
			raw:        "3\x00.\x0014",
			wantValues: []float64{3.14},
		},
		{
			name:       "interior spaces removed before single-value check",
			raw:        "- 7 . 5",
			wantValues: []float64{-7.5},
		},
		{
			name:       "all delimiters",
			raw:        "1,2;3\t4|5",
			wantValues: []float64{1, 2, 3, 4, 5},
		},
		{
			name:       "empty segments dropped",
			raw:        ",,1;;2||",
			wantValues: []float64{1, 2},
		},
		{
			name:       "colon labels",
			raw:        "temp:21.5,hum:40",
			wantValues: []float64{21.5, 40},
		},
		{
			name:        "colon takes text after first colon only",
			raw:         "t:1:2",
			wantInvalid: []string{"t:1:2"},
		},
		{
			name:       "equals fallback after colon fails",
			raw:        "x:a=5,y=6",
			wantValues: []float64{5, 6},
		},
		{
			name:       "exponent and sign",
			raw:        "1e3,-2.5E-2,+4",
			wantValues: []float64{1000, -0.025, 4},
		},
		{
			name:       "leading decimal point",
			raw:        ".5;-.25",
			wantValues: []float64{0.5, -0.25},
		},
		{
			name:        "word forms rejected",
			raw:         "NaN,Inf,1",
			wantValues:  []float64{1},
			wantInvalid: []string{"NaN", "Inf"},
		},
		{
			name:       "comma is never a decimal separator",
			raw:        "3,14",
			wantValues: []float64{3, 14},
		},
		{
			name:        "overflow rejected",
			raw:         "1e999|2",
			wantValues:  []float64{2},
			wantInvalid: []string{"1e999"},
		},
		{
			name:        "garbage line",
			raw:         "hello",
			wantInvalid: []string{"hello"},
		},
		{
			name:        "order preserved across invalid segments",
			raw:         "9|bad|8",
			wantValues:  []float64{9, 8},
			wantInvalid: []string{"bad"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Parse(tt.raw)
			assert.Equal(t, tt.wantValues, res.Values)
			assert.Equal(t, tt.wantInvalid, res.Invalid)
		})
	}
}

func TestResultErrors(t *testing.T) {
	res := Parse("a=1,b=2,c=x")
	errs := res.Errors()
	require.Len(t, errs, 1)

	var pe *ParseError
	require.ErrorAs(t, errs[0], &pe)
	assert.Equal(t, "c=x", pe.Segment)
	assert.Equal(t, "invalid segment: c=x", pe.Error())

	assert.Nil(t, Parse("1,2").Errors())
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{"0", 0, true},
		{"-0.5", -0.5, true},
		{"5.", 5, true},
		{"6.02e23", 6.02e23, true},
		{"", 0, false},
		{"1_000", 0, false},
		{"0x1p-2", 0, false},
		{"1.2.3", 0, false},
		{"e5", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseNumber(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestClean(t *testing.T) {
	assert.Equal(t, "a=1,b=2", Clean("  a = 1, b = 2 \r\n"))
	assert.Equal(t, "", Clean("\x00\x00"))
}

func TestFormatHex(t *testing.T) {
	assert.Equal(t, "", FormatHex(nil))
	assert.Equal(t, "31", FormatHex([]byte("1")))
	assert.Equal(t, "31 32 2E 35 0D 0A", FormatHex([]byte("12.5\r\n")))
	assert.Equal(t, "00 FF AB", FormatHex([]byte{0x00, 0xff, 0xab}))
}
