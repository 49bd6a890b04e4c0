package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/DiaSird/CorgiDS/firmware"
	"github.com/DiaSird/CorgiDS/spiui"
)

// progressTracker records which flash sectors have been written.
type progressTracker struct {
	written    []bool
	sectors    int64
	currentPos int64
	userRanges [][2]int64 // inclusive sector ranges holding user settings
}

func newProgressTracker(size int) *progressTracker {
	sectors := int64((size + spiui.SectorSize - 1) / spiui.SectorSize)
	pt := &progressTracker{
		written: make([]bool, sectors),
		sectors: sectors,
	}
	for _, r := range firmware.Layout(size) {
		if strings.HasPrefix(r.Name, "user settings") {
			pt.userRanges = append(pt.userRanges, [2]int64{
				int64(r.Offset / spiui.SectorSize),
				int64((r.End() - 1) / spiui.SectorSize),
			})
		}
	}
	return pt
}

// markRange marks every sector touched by the byte range [off, off+n).
func (pt *progressTracker) markRange(off, n int64) {
	if n <= 0 {
		return
	}
	first := off / spiui.SectorSize
	last := (off + n - 1) / spiui.SectorSize
	for i := first; i <= last && i < pt.sectors; i++ {
		if i >= 0 {
			pt.written[i] = true
		}
	}
	if last >= pt.sectors {
		last = pt.sectors - 1
	}
	pt.currentPos = last
}

func (pt *progressTracker) writtenCount() int64 {
	count := int64(0)
	for _, w := range pt.written {
		if w {
			count++
		}
	}
	return count
}

func (pt *progressTracker) inUserSettings(sector int64) bool {
	for _, r := range pt.userRanges {
		if sector >= r[0] && sector <= r[1] {
			return true
		}
	}
	return false
}

// progressMapLines renders one rune per sector, wrapped at w columns and
// limited to rows lines.
func (pt *progressTracker) progressMapLines(w, rows int) []string {
	if w <= 0 || rows <= 0 {
		return nil
	}
	var lines []string
	for row := 0; row < rows; row++ {
		var b strings.Builder
		for col := 0; col < w; col++ {
			s := int64(row*w + col)
			if s >= pt.sectors {
				break
			}
			switch {
			case pt.written[s]:
				b.WriteRune('█')
			case pt.inUserSettings(s):
				b.WriteRune('■')
			default:
				b.WriteRune('░')
			}
		}
		if b.Len() == 0 {
			break
		}
		lines = append(lines, b.String())
	}
	return lines
}

// updateStatusLines refreshes the sector map and status block of ui.
func updateStatusLines(ui *spiui.UI, pt *progressTracker, startTime time.Time, currentOp string) {
	if w, h := ui.Size(); w > 0 && h > 0 {
		rows := h - 12
		if rows < 1 {
			rows = 1
		}
		ui.SetProgressMap(pt.progressMapLines(w, rows))
	}

	written := pt.writtenCount()
	elapsed := time.Since(startTime).Truncate(time.Millisecond)
	ui.SetStatusLines([]string{
		fmt.Sprintf("Sector: %04d  Offset: 0x%06X", pt.currentPos, pt.currentPos*spiui.SectorSize),
		fmt.Sprintf("Written: %d / %d sectors", written, pt.sectors),
		fmt.Sprintf("Elapsed: %s", elapsed),
		"Current op: " + currentOp,
	})
}
