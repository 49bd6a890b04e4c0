package firmware

import (
	"encoding/binary"
	"errors"
	"fmt"
	"unicode/utf16"

	"github.com/DiaSird/CorgiDS/crc"
)

var (
	// ErrImageSize is returned when an image length matches no model.
	ErrImageSize = errors.New("image size matches no console model")

	// ErrBadTag is returned when the identifier at 0x08 is not "MACh".
	ErrBadTag = errors.New("firmware identifier is not " + Tag)
)

// CRCError reports a user-settings block whose stored CRC does not match its contents.
type CRCError struct {
	Slot     int
	Stored   uint16
	Computed uint16
}

func (e *CRCError) Error() string {
	return fmt.Sprintf("user settings %d: crc mismatch (stored 0x%04X, computed 0x%04X)", e.Slot, e.Stored, e.Computed)
}

// SlotReport describes one user-settings block.
type SlotReport struct {
	Slot     int    `yaml:"slot"`
	Offset   int    `yaml:"offset"`
	Version  byte   `yaml:"version"`
	Active   bool   `yaml:"active"`
	Nickname string `yaml:"nickname"`
	Stored   uint16 `yaml:"crc_stored"`
	Computed uint16 `yaml:"crc_computed"`
}

// OK reports whether the stored CRC matches.
func (s SlotReport) OK() bool {
	return s.Stored == s.Computed
}

// Report is the decoded view of the fields Default writes.
type Report struct {
	Size               int          `yaml:"size"`
	Tag                string       `yaml:"tag"`
	ConsoleType        byte         `yaml:"console_type"`
	Model              string       `yaml:"model"`
	ChipSize           uint16       `yaml:"chip_size_field"`
	UserSettingsOffset int          `yaml:"user_settings_offset"`
	Slots              []SlotReport `yaml:"user_settings"`
	Regions            []Region     `yaml:"regions"`
}

// Err returns a *CRCError for the first slot that fails its check, or nil.
func (r *Report) Err() error {
	for _, s := range r.Slots {
		if !s.OK() {
			return &CRCError{Slot: s.Slot, Stored: s.Stored, Computed: s.Computed}
		}
	}
	return nil
}

func knownSize(n int) bool {
	switch n {
	case SizeDSi, SizePrimary, SizeIQue:
		return true
	}
	return false
}

// Inspect decodes the header and user-settings blocks of img. It only fails on
// images this package could not have produced; CRC mismatches are reported
// through Report.Err.
func Inspect(img []byte) (*Report, error) {
	if !knownSize(len(img)) {
		return nil, fmt.Errorf("%w: %d bytes", ErrImageSize, len(img))
	}
	if string(img[offTag:offTag+len(Tag)]) != Tag {
		return nil, fmt.Errorf("%w: got % X", ErrBadTag, img[offTag:offTag+len(Tag)])
	}

	r := &Report{
		Size:               len(img),
		Tag:                Tag,
		ConsoleType:        img[offConsoleType],
		ChipSize:           binary.LittleEndian.Uint16(img[offChipSize:]),
		UserSettingsOffset: int(binary.LittleEndian.Uint16(img[offUserSettings:])) << 3,
		Regions:            Layout(len(img)),
	}
	if m, ok := ModelFromConsoleType(r.ConsoleType); ok {
		r.Model = m.String()
	} else {
		r.Model = "unknown"
	}

	for slot := 0; slot < UserSettingsSlots; slot++ {
		us := UserSettings(img, slot)
		r.Slots = append(r.Slots, SlotReport{
			Slot:     slot,
			Offset:   UserSettingsOffset(len(img), slot),
			Version:  us[usVersion],
			Active:   us[usActiveSlot] == 1,
			Nickname: nickname(us[usNickname:]),
			Stored:   binary.LittleEndian.Uint16(us[usCRC:]),
			Computed: crc.CRC16(crc.Seed, us[:usCRCEnd]),
		})
	}
	return r, nil
}

func nickname(b []byte) string {
	units := make([]uint16, 0, nicknameMaxChars)
	for i := 0; i < nicknameMaxChars; i++ {
		u := binary.LittleEndian.Uint16(b[2*i:])
		if u == 0 {
			break
		}
		units = append(units, u)
	}
	return string(utf16.Decode(units))
}

// VerifyCRC checks the little-endian CRC stored at crcOffset against the
// checksum of img[start:start+length]. Out-of-range arguments fail the check.
func VerifyCRC(img []byte, start, length, crcOffset int) bool {
	if start < 0 || length < 0 || crcOffset < 0 {
		return false
	}
	if start+length > len(img) || crcOffset+2 > len(img) {
		return false
	}
	stored := binary.LittleEndian.Uint16(img[crcOffset:])
	return crc.Verify(crc.Seed, img[start:start+length], stored)
}
