package crc

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

// bitwise is the shift-right reference algorithm, one bit at a time.
func bitwise(c uint16, data []byte) uint16 {
	for _, b := range data {
		c ^= uint16(b)
		for i := 0; i < 8; i++ {
			if c&1 != 0 {
				c = (c >> 1) ^ PolyReflected
			} else {
				c >>= 1
			}
		}
	}
	return c
}

func TestCRC16(t *testing.T) {
	check := []byte("123456789")

	tests := []struct {
		name     string
		seed     uint16
		data     []byte
		expected uint16
	}{
		{name: "empty with firmware seed", seed: Seed, data: nil, expected: 0xFFFF},
		{name: "empty with zero seed", seed: 0, data: []byte{}, expected: 0x0000},
		{name: "empty keeps arbitrary seed", seed: 0x1234, data: nil, expected: 0x1234},
		{name: "modbus check value", seed: 0xFFFF, data: check, expected: 0x4B37},
		{name: "arc check value", seed: 0x0000, data: check, expected: 0xBB3D},
		{name: "asymmetric seed", seed: 0x1234, data: check, expected: 0xAFDB},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CRC16(tt.seed, tt.data)
			if result != tt.expected {
				t.Errorf("CRC16(0x%04X) = 0x%04X, want 0x%04X", tt.seed, result, tt.expected)
			}
		})
	}
}

func TestCRC16MatchesBitwise(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 64; i++ {
		seed := uint16(rng.Intn(0x10000))
		data := make([]byte, rng.Intn(300))
		rng.Read(data)
		t.Run(fmt.Sprintf("seed_%04X_len_%d", seed, len(data)), func(t *testing.T) {
			assert.Equal(t, bitwise(seed, data), CRC16(seed, data))
		})
	}
}

func TestCRC16Running(t *testing.T) {
	data := []byte("user settings block payload")
	whole := CRC16(Seed, data)
	split := CRC16(CRC16(Seed, data[:10]), data[10:])
	assert.Equal(t, whole, split, "chained updates must equal a single pass")
}

func TestCRC16Deterministic(t *testing.T) {
	data := []byte{0x05, 0x00, 0x01, 0x01, 0x01}
	assert.Equal(t, CRC16(Seed, data), CRC16(Seed, data))
}

func TestVerify(t *testing.T) {
	assert.True(t, Verify(Seed, []byte("123456789"), 0x4B37))
	assert.False(t, Verify(Seed, []byte("123456789"), 0x4B38))
}
