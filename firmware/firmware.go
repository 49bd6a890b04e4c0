// Package firmware builds the default SPI firmware image for each console model.
//
// An image is a flat, zero-filled buffer holding a small identity header and two
// redundant user-settings blocks at the end. Each block carries a CRC-16 over its
// first 0x70 bytes.
package firmware

import (
	"encoding/binary"

	"github.com/DiaSird/CorgiDS/crc"
)

// Default returns a freshly allocated default image for m.
func Default(m Model) []byte {
	size := Size(m)
	fw := make([]byte, size)

	copy(fw[offConsoleID:], consoleID[:])
	copy(fw[offTag:], tag[:])
	binary.LittleEndian.PutUint16(fw[offChipSize:], uint16((size>>17)<<12))
	copy(fw[offBuildTime:], buildTimestamp[:])
	fw[offConsoleType] = ConsoleType(m)
	fw[offHeaderPadding], fw[offHeaderPadding+1] = 0xFF, 0xFF

	binary.LittleEndian.PutUint16(fw[offUserSettings:], uint16((size-UserSettingsSlots*UserSettingsSize)>>3))
	for i, v := range unknownWords {
		binary.LittleEndian.PutUint16(fw[offUnknown+2*i:], v)
	}

	for slot := 0; slot < UserSettingsSlots; slot++ {
		buildUserSettings(UserSettings(fw, slot), slot)
	}
	return fw
}

// UserSettings returns the block for slot 0 or 1, aliasing img.
func UserSettings(img []byte, slot int) []byte {
	off := UserSettingsOffset(len(img), slot)
	return img[off : off+UserSettingsSize : off+UserSettingsSize]
}

func buildUserSettings(us []byte, slot int) {
	us[usVersion] = userSettingsVersion
	if slot == 0 {
		us[usActiveSlot] = 1
	}
	us[usBirthMonth] = 1
	us[usBirthDay] = 1
	putNickname(us[usNickname:], defaultNickname)
	SealUserSettings(us)
}

// putNickname stores ASCII s as UTF-16LE code units.
func putNickname(b []byte, s string) {
	for i := 0; i < len(s) && i < nicknameMaxChars; i++ {
		b[2*i] = s[i]
		b[2*i+1] = 0x00
	}
}

// SealUserSettings recomputes and stores the CRC of a user-settings block.
func SealUserSettings(us []byte) {
	binary.LittleEndian.PutUint16(us[usCRC:], crc.CRC16(crc.Seed, us[:usCRCEnd]))
}
