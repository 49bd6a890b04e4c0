package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressTracker(t *testing.T) {
	pt := newProgressTracker(0x20000)
	require.Equal(t, int64(32), pt.sectors)
	// both user settings blocks live in the last sector
	assert.Equal(t, [][2]int64{{31, 31}, {31, 31}}, pt.userRanges)

	pt.markRange(0, 0x2A)
	assert.Equal(t, int64(1), pt.writtenCount())
	assert.Equal(t, int64(0), pt.currentPos)

	pt.markRange(0x2A, 0x1000)
	assert.Equal(t, int64(2), pt.writtenCount())
	assert.Equal(t, int64(1), pt.currentPos)

	pt.markRange(0x1FE00, 0)
	assert.Equal(t, int64(2), pt.writtenCount())

	// ranges running past the image are clamped to the last sector
	pt.markRange(0x1FF00, 0x1000)
	assert.Equal(t, int64(3), pt.writtenCount())
	assert.Equal(t, int64(31), pt.currentPos)
}

func TestProgressMapLines(t *testing.T) {
	pt := newProgressTracker(0x20000)
	pt.markRange(0, 0x2000)

	lines := pt.progressMapLines(10, 10)
	require.Len(t, lines, 4)
	assert.Equal(t, "██░░░░░░░░", lines[0])
	assert.Equal(t, "░■", lines[3])

	assert.Len(t, pt.progressMapLines(10, 2), 2)
	assert.Nil(t, pt.progressMapLines(0, 5))

	all := strings.Join(pt.progressMapLines(80, 1), "")
	assert.Equal(t, 32, len([]rune(all)))
}
