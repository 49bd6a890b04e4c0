package firmware

// Header field offsets (absolute).
const (
	offConsoleID     = 0x04 // 4 bytes
	offTag           = 0x08 // "MACh"
	offChipSize      = 0x14 // u16, (len>>17)<<12
	offBuildTime     = 0x18 // minute, hour, day, month, year
	offConsoleType   = 0x1D
	offHeaderPadding = 0x1E // 2 bytes of 0xFF
	offUserSettings  = 0x20 // u16, user settings offset / 8
	offUnknown       = 0x22 // four u16 constants

	headerEnd = 0x2A
)

// User settings block layout (relative to the block start).
const (
	UserSettingsSize  = 0x100
	UserSettingsSlots = 2

	usVersion    = 0x00
	usActiveSlot = 0x02
	usBirthMonth = 0x03
	usBirthDay   = 0x04
	usNickname   = 0x06
	usCRCEnd     = 0x70 // CRC covers [0, usCRCEnd)
	usCRC        = 0x72

	nicknameMaxChars = 10
)

// Fixed header values.
var (
	consoleID      = [4]byte{0x00, 0xDB, 0x1F, 0x0F}
	tag            = [4]byte{'M', 'A', 'C', 0x68}
	buildTimestamp = [5]byte{0x00, 0x00, 0x01, 0x01, 0x06}
	unknownWords   = [4]uint16{0x0B51, 0x0DB3, 0x4F5D, 0xFFFF}
)

// Default user settings values.
const (
	userSettingsVersion = 5
	defaultNickname     = "Dust"
)

// Tag is the ASCII identifier stored at 0x08.
const Tag = "MACh"

// Region is a named byte range of an image.
type Region struct {
	Name   string `yaml:"name"`
	Offset int    `yaml:"offset"`
	Length int    `yaml:"length"`
}

// End returns the first offset past the region.
func (r Region) End() int {
	return r.Offset + r.Length
}

// UserSettingsOffset returns the start of slot 0 or 1 in an image of the given size.
func UserSettingsOffset(size, slot int) int {
	return size - UserSettingsSlots*UserSettingsSize + slot*UserSettingsSize
}

// Layout splits an image of the given size into its regions, in address order.
func Layout(size int) []Region {
	us0 := UserSettingsOffset(size, 0)
	return []Region{
		{Name: "header", Offset: 0, Length: headerEnd},
		{Name: "reserved", Offset: headerEnd, Length: us0 - headerEnd},
		{Name: "user settings 0", Offset: us0, Length: UserSettingsSize},
		{Name: "user settings 1", Offset: UserSettingsOffset(size, 1), Length: UserSettingsSize},
	}
}
