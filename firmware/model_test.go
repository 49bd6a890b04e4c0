package firmware

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSize(t *testing.T) {
	tests := []struct {
		model    Model
		expected int
	}{
		{Primary, 0x40000},
		{Lite, 0x40000},
		{DSi, 0x20000},
		{IQue, 0x80000},
		{IQueLite, 0x80000},
		{Model(-1), 0x40000},
		{Model(99), 0x40000},
	}
	for _, tt := range tests {
		t.Run(tt.model.String(), func(t *testing.T) {
			assert.Equal(t, tt.expected, Size(tt.model))
		})
	}
}

func TestParseModel(t *testing.T) {
	tests := []struct {
		in       string
		expected Model
	}{
		{"ds", Primary},
		{"Primary", Primary},
		{"lite", Lite},
		{"DS-Lite", Lite},
		{"dsi", DSi},
		{"ique", IQue},
		{"ique-lite", IQueLite},
		{" iQueLite ", IQueLite},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			m, err := ParseModel(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, m)
		})
	}

	_, err := ParseModel("gba")
	assert.Error(t, err)
}

func TestModelString(t *testing.T) {
	for _, m := range Models() {
		parsed, err := ParseModel(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, parsed)
	}
	assert.Equal(t, "Model(7)", Model(7).String())
}

func TestModelFromConsoleType(t *testing.T) {
	for _, m := range Models() {
		got, ok := ModelFromConsoleType(ConsoleType(m))
		require.True(t, ok)
		assert.Equal(t, m, got)
	}
	_, ok := ModelFromConsoleType(0x00)
	assert.False(t, ok)
}

func TestLayout(t *testing.T) {
	regions := Layout(SizeDSi)
	require.Len(t, regions, 4)

	assert.Equal(t, 0, regions[0].Offset)
	for i := 1; i < len(regions); i++ {
		assert.Equal(t, regions[i-1].End(), regions[i].Offset, "regions must be contiguous")
	}
	assert.Equal(t, SizeDSi, regions[len(regions)-1].End())
	assert.Equal(t, 0x1FE00, regions[2].Offset)
	assert.Equal(t, 0x1FF00, regions[3].Offset)
}
