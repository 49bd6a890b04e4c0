// Package spiui provides a terminal UI for following a firmware write sector by sector.
// It only renders what the caller hands it; progress bookkeeping lives with the caller.
package spiui

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
)

// ErrInterrupted is returned when the user requests to stop the operation.
var ErrInterrupted = errors.New("interrupted")

// UI displays a title, summary and legend lines, a sector map, a phase checklist and status lines.
type UI struct {
	s        tcell.Screen
	terminal bool
	closed   bool
	stopChan chan struct{}
	once     sync.Once

	title        string
	phases       []string
	phaseDoneMap map[string]bool
	summaryLines []string
	legendLines  []string
	statusLines  []string

	progressMapLines []string
}

// NewUI opens the controlling terminal and starts the input loop.
func NewUI() (*UI, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	u, err := NewUIWithScreen(s)
	if err != nil {
		return nil, err
	}
	u.terminal = true
	return u, nil
}

// NewUIWithScreen runs the UI on an existing screen, e.g. a tcell simulation screen.
func NewUIWithScreen(s tcell.Screen) (*UI, error) {
	if err := s.Init(); err != nil {
		return nil, err
	}
	s.DisableMouse()
	u := &UI{
		s:            s,
		stopChan:     make(chan struct{}),
		phaseDoneMap: make(map[string]bool),
	}
	go u.eventLoop()
	return u, nil
}

// Close releases the screen and restores the terminal.
func (u *UI) Close() {
	if u.closed {
		return
	}
	u.closed = true
	u.s.Fini()
	if u.terminal {
		fmt.Print("\033[?1049l\033[?25h")
	}
}

// RequestStop signals that the current operation should stop. Safe to call repeatedly.
func (u *UI) RequestStop() {
	u.once.Do(func() {
		close(u.stopChan)
		_ = u.s.PostEvent(tcell.NewEventInterrupt(nil))
	})
}

// IsStopped reports whether a stop was requested.
func (u *UI) IsStopped() bool {
	select {
	case <-u.stopChan:
		return true
	default:
		return false
	}
}

// Size returns the current screen width and height.
func (u *UI) Size() (width, height int) {
	if u.closed {
		return 0, 0
	}
	return u.s.Size()
}

func putStr(s tcell.Screen, x, y int, str string) {
	w, _ := s.Size()
	for i, r := range []rune(str) {
		pos := x + i
		if pos >= w {
			break
		}
		s.SetContent(pos, y, r, nil, tcell.StyleDefault)
	}
}

// LayoutAndDraw redraws the whole screen from the current state.
func (u *UI) LayoutAndDraw() {
	if u.closed {
		return
	}
	u.s.Clear()
	w, h := u.s.Size()

	y := 0
	if u.title != "" {
		putStr(u.s, 0, y, strings.Repeat("═", w))
		putStr(u.s, (w-len([]rune(u.title)))/2, y, u.title)
		y++
	}

	for _, line := range u.summaryLines {
		if y >= h {
			break
		}
		putStr(u.s, 0, y, line)
		y++
	}
	for _, line := range u.legendLines {
		if y >= h {
			break
		}
		putStr(u.s, 0, y, line)
		y++
	}

	if len(u.progressMapLines) > 0 {
		// leave room for the phase and status blocks
		avail := h - y - 7
		if avail < 1 {
			avail = 1
		}
		rows := avail
		if rows > len(u.progressMapLines) {
			rows = len(u.progressMapLines)
		}
		for i := 0; i < rows && y < h; i++ {
			putStr(u.s, 0, y, u.progressMapLines[i])
			y++
		}
	}

	if len(u.phases) > 0 {
		putStr(u.s, 0, y, strings.Repeat("─", w))
		putStr(u.s, 2, y, " Phase ")
		y++
		var b strings.Builder
		for i, p := range u.phases {
			if i > 0 {
				b.WriteByte(' ')
			}
			mark := ' '
			if u.phaseDoneMap[strings.ToLower(p)] {
				mark = '✓'
			}
			fmt.Fprintf(&b, "[%c]%s", mark, p)
		}
		putStr(u.s, 0, y, b.String())
		y++
	}

	if len(u.statusLines) > 0 {
		putStr(u.s, 0, y, strings.Repeat("─", w))
		putStr(u.s, 2, y, " Status ")
		y++
		for _, line := range u.statusLines {
			if y >= h {
				break
			}
			putStr(u.s, 0, y, line)
			y++
		}
	}

	u.s.Show()
}

// SetPhaseDone marks a phase as completed. Names are case-insensitive.
func (u *UI) SetPhaseDone(p string) {
	u.phaseDoneMap[strings.ToLower(p)] = true
}

// PhaseDone reports whether SetPhaseDone was called for p.
func (u *UI) PhaseDone(p string) bool {
	return u.phaseDoneMap[strings.ToLower(p)]
}

// SetPhases sets the phase checklist.
func (u *UI) SetPhases(labels []string) {
	u.phases = append([]string(nil), labels...)
}

// SetTitle sets the title shown on the top line.
func (u *UI) SetTitle(t string) {
	u.title = t
}

// SetSummaryLines sets the lines shown below the title.
func (u *UI) SetSummaryLines(lines []string) {
	u.summaryLines = append([]string(nil), lines...)
}

// SetLegend sets the legend lines shown below the summary.
func (u *UI) SetLegend(lines []string) {
	u.legendLines = append([]string(nil), lines...)
}

// SetStatusLines sets the lines of the status block.
func (u *UI) SetStatusLines(lines []string) {
	u.statusLines = append([]string(nil), lines...)
}

// SetProgressMap sets the sector map rows. Each rune stands for one sector.
func (u *UI) SetProgressMap(lines []string) {
	u.progressMapLines = append([]string(nil), lines...)
}

func (u *UI) eventLoop() {
	s := u.s
	for {
		select {
		case <-u.stopChan:
			return
		default:
		}
		switch ev := s.PollEvent().(type) {
		case *tcell.EventKey:
			switch {
			case ev.Key() == tcell.KeyCtrlC, ev.Key() == tcell.KeyEscape:
				u.RequestStop()
			case ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == 'Q'):
				u.RequestStop()
			}
		case *tcell.EventResize:
			s.Sync()
		case *tcell.EventInterrupt, nil:
			return
		}
	}
}
