package firmware

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspectDefault(t *testing.T) {
	for _, m := range Models() {
		t.Run(m.String(), func(t *testing.T) {
			fw := Default(m)
			r, err := Inspect(fw)
			require.NoError(t, err)

			assert.Equal(t, Size(m), r.Size)
			assert.Equal(t, Tag, r.Tag)
			assert.Equal(t, ConsoleType(m), r.ConsoleType)
			assert.Equal(t, m.String(), r.Model)
			assert.Equal(t, Size(m)-0x200, r.UserSettingsOffset)
			require.Len(t, r.Slots, 2)
			for i, s := range r.Slots {
				assert.Equal(t, i, s.Slot)
				assert.Equal(t, "Dust", s.Nickname)
				assert.Equal(t, byte(5), s.Version)
				assert.Equal(t, i == 0, s.Active)
				assert.True(t, s.OK())
			}
			assert.NoError(t, r.Err())
		})
	}
}

func TestInspectCorruptedSlot(t *testing.T) {
	fw := Default(IQue)
	fw[len(fw)-0x100+0x10] ^= 0xFF

	r, err := Inspect(fw)
	require.NoError(t, err)
	assert.True(t, r.Slots[0].OK())
	assert.False(t, r.Slots[1].OK())

	var crcErr *CRCError
	require.True(t, errors.As(r.Err(), &crcErr))
	assert.Equal(t, 1, crcErr.Slot)
	assert.Equal(t, uint16(0x0C8E), crcErr.Stored)
	assert.Contains(t, crcErr.Error(), "user settings 1")
}

func TestInspectBytesOutsideCRCRange(t *testing.T) {
	fw := Default(Primary)
	// 0x70..0x72 and 0x74.. are not covered by the checksum
	fw[len(fw)-0x200+0x70] = 0xAA
	fw[len(fw)-0x200+0x80] = 0xAA

	r, err := Inspect(fw)
	require.NoError(t, err)
	assert.NoError(t, r.Err())
}

func TestInspectRejects(t *testing.T) {
	_, err := Inspect(make([]byte, 0x1000))
	assert.ErrorIs(t, err, ErrImageSize)

	_, err = Inspect(nil)
	assert.ErrorIs(t, err, ErrImageSize)

	fw := Default(Lite)
	fw[0x0B] = 'P'
	_, err = Inspect(fw)
	assert.ErrorIs(t, err, ErrBadTag)
}

func TestVerifyCRC(t *testing.T) {
	fw := Default(DSi)
	us0 := UserSettingsOffset(len(fw), 0)

	tests := []struct {
		name      string
		start     int
		length    int
		crcOffset int
		expected  bool
	}{
		{"slot 0", us0, 0x70, us0 + 0x72, true},
		{"slot 1", us0 + 0x100, 0x70, us0 + 0x172, true},
		{"wrong length", us0, 0x6F, us0 + 0x72, false},
		{"crc past end", us0, 0x70, len(fw) - 1, false},
		{"data past end", len(fw) - 0x10, 0x70, us0 + 0x72, false},
		{"negative start", -1, 0x70, us0 + 0x72, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, VerifyCRC(fw, tt.start, tt.length, tt.crcOffset))
		})
	}
}
