package spiui

import (
	"io"
	"time"
)

// SectorSize is the erase-sector granularity of the SPI flash being written.
const SectorSize = 0x1000

// MarkFunc is called after each sector-sized chunk lands at off.
type MarkFunc func(off, n int64)

// WriteSpan writes buf at off one sector at a time, calling mark after every
// chunk and redrawing u. A nil u writes without a display. If w has a Sync
// method it is called once the whole span is written.
func WriteSpan(w io.WriterAt, off int64, buf []byte, u *UI, mark MarkFunc) error {
	for wr := int64(0); wr < int64(len(buf)); {
		if u != nil && u.IsStopped() {
			return ErrInterrupted
		}
		n := int64(len(buf)) - wr
		if n > SectorSize {
			n = SectorSize
		}
		if _, err := w.WriteAt(buf[wr:wr+n], off+wr); err != nil {
			return err
		}
		if mark != nil {
			mark(off+wr, n)
		}
		if u != nil {
			u.LayoutAndDraw()
		}
		wr += n
	}
	if sw, ok := w.(interface{ Sync() error }); ok {
		if err := sw.Sync(); err != nil {
			return err
		}
	}
	return nil
}

// WaitWithStop keeps the final screen up for d unless the user stops earlier.
func WaitWithStop(u *UI, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-u.stopChan:
		return ErrInterrupted
	case <-timer.C:
		return nil
	}
}
