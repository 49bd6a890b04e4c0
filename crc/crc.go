// Package crc implements the CRC-16 used to protect firmware user-settings blocks.
//
// The checksum is the bit-reversed CRC-16 with polynomial 0xA001 (0x8005 reflected),
// no final XOR. Seeded with 0xFFFF it is the CRC-16/MODBUS variant; seeded with 0 it
// is CRC-16/ARC.
package crc

import (
	"math/bits"

	"github.com/sigurn/crc16"
)

const (
	// Seed is the initial value used for firmware user-settings blocks.
	Seed uint16 = 0xFFFF

	// Poly is the generator polynomial in normal form. Reflected it reads 0xA001.
	Poly uint16 = 0x8005

	// PolyReflected is the polynomial as applied by the shift-right algorithm.
	PolyReflected uint16 = 0xA001
)

// params describes the reflected CRC. Init is unused by CRC16, which seeds the
// register from the caller.
var params = crc16.Params{
	Poly:   Poly,
	Init:   Seed,
	RefIn:  true,
	RefOut: true,
	XorOut: 0x0000,
	Check:  0x4B37,
	Name:   "CRC-16/MODBUS",
}

var table = crc16.MakeTable(params)

// CRC16 returns the running checksum of data starting from seed.
// An empty data slice returns seed unchanged.
func CRC16(seed uint16, data []byte) uint16 {
	// The table engine keeps its register unreflected; seed is given in the
	// reflected domain of the shift-right algorithm.
	reg := crc16.Update(bits.Reverse16(seed), data, table)
	return crc16.Complete(reg, table)
}

// Verify reports whether data checksums to want when started from seed.
func Verify(seed uint16, data []byte, want uint16) bool {
	return CRC16(seed, data) == want
}
