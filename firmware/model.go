package firmware

import (
	"fmt"
	"strings"
)

// Model identifies the console hardware variant an image is built for.
type Model int

// Console models
const (
	Primary Model = iota // original DS
	Lite
	DSi
	IQue
	IQueLite
)

// Image sizes per model
const (
	SizeDSi     = 0x20000
	SizePrimary = 0x40000
	SizeIQue    = 0x80000
)

var modelNames = map[Model]string{
	Primary:  "primary",
	Lite:     "lite",
	DSi:      "dsi",
	IQue:     "ique",
	IQueLite: "ique-lite",
}

// Models returns every supported model in declaration order.
func Models() []Model {
	return []Model{Primary, Lite, DSi, IQue, IQueLite}
}

func (m Model) String() string {
	if s, ok := modelNames[m]; ok {
		return s
	}
	return fmt.Sprintf("Model(%d)", int(m))
}

// ParseModel maps a command-line name to a Model.
func ParseModel(s string) (Model, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ds", "primary", "nds":
		return Primary, nil
	case "lite", "dslite", "ds-lite":
		return Lite, nil
	case "dsi":
		return DSi, nil
	case "ique":
		return IQue, nil
	case "ique-lite", "iquelite":
		return IQueLite, nil
	}
	return 0, fmt.Errorf("unknown model %q (want ds|lite|dsi|ique|ique-lite)", s)
}

// Size returns the image length for m. Values outside the enumeration get the
// Primary/Lite size.
func Size(m Model) int {
	switch m {
	case DSi:
		return SizeDSi
	case Primary, Lite:
		return SizePrimary
	case IQue, IQueLite:
		return SizeIQue
	default:
		return SizePrimary
	}
}

// ConsoleType returns the header byte at 0x1D identifying m. Unmapped models
// leave the byte zero.
func ConsoleType(m Model) byte {
	switch m {
	case Primary:
		return 0xFF
	case Lite:
		return 0x20
	case IQue:
		return 0x57
	case IQueLite:
		return 0x43
	case DSi:
		return 0x63
	}
	return 0x00
}

// ModelFromConsoleType is the inverse of ConsoleType.
func ModelFromConsoleType(b byte) (Model, bool) {
	for _, m := range Models() {
		if ConsoleType(m) == b {
			return m, true
		}
	}
	return 0, false
}
