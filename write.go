package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/DiaSird/CorgiDS/firmware"
	"github.com/DiaSird/CorgiDS/spiui"
)

// errWrite marks failures to create or write the output image.
var errWrite = errors.New("write failure")

// newUI is replaced in tests with a simulation screen.
var newUI = spiui.NewUI

// finalPause keeps the finished UI on screen before it closes.
var finalPause = 2 * time.Second

func human(b int64) string {
	if b >= 1024*1024 {
		return fmt.Sprintf("%dM", b/(1024*1024))
	}
	if b >= 1024 {
		return fmt.Sprintf("%dK", b/1024)
	}
	return fmt.Sprintf("%dB", b)
}

// writeImageFile creates path (and its directory) and writes fw into it.
func writeImageFile(path string, fw []byte, model firmware.Model, useUI bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil && !errors.Is(err, os.ErrExist) {
		return fmt.Errorf("%w: %w", errWrite, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", errWrite, err)
	}
	defer f.Close()

	if err := writeImage(f, fw, fmt.Sprintf("WRITE %s  %s  %s", filepath.Base(path), model, human(int64(len(fw)))), useUI); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %w", errWrite, err)
	}
	return nil
}

// flashImage writes fw to the start of an existing device or file.
func flashImage(device string, fw []byte, model firmware.Model, useUI bool) error {
	f, err := os.OpenFile(device, os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("%w: open device: %w", errWrite, err)
	}
	defer f.Close()

	need := int64(len(fw))
	size, err := getDeviceSize(f)
	switch {
	case err != nil || size <= 0:
		log.WithError(err).WithField("device", device).Warn("cannot determine device size; proceeding without size check")
	case size < need:
		return fmt.Errorf("device too small: has %s, need %s", human(size), human(need))
	case size > need:
		log.WithField("device", device).Warnf("device is %s, only writing %s", human(size), human(need))
	}

	return writeImage(f, fw, fmt.Sprintf("FLASH %s  %s  %s", device, model, human(need)), useUI)
}

// writeImage writes fw region by region, optionally behind the progress UI.
func writeImage(w io.WriterAt, fw []byte, title string, useUI bool) error {
	regions := firmware.Layout(len(fw))
	pt := newProgressTracker(len(fw))

	if !useUI {
		for _, r := range regions {
			if err := spiui.WriteSpan(w, int64(r.Offset), fw[r.Offset:r.End()], nil, pt.markRange); err != nil {
				return fmt.Errorf("%w: %s: %w", errWrite, r.Name, err)
			}
			log.WithFields(logrus.Fields{
				"region": r.Name,
				"offset": fmt.Sprintf("0x%06X", r.Offset),
				"bytes":  r.Length,
			}).Debug("region written")
		}
		return nil
	}

	ui, err := newUI()
	if err != nil {
		return fmt.Errorf("ui init: %w", err)
	}
	defer ui.Close()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-sigChan:
			ui.RequestStop()
		case <-done:
		}
	}()

	startTime := time.Now()
	phases := make([]string, len(regions))
	for i, r := range regions {
		phases[i] = r.Name
	}
	ui.SetTitle(title)
	ui.SetPhases(phases)
	ui.SetSummaryLines([]string{
		fmt.Sprintf("Image: %d bytes  Sectors: %d x %d bytes", len(fw), pt.sectors, spiui.SectorSize),
		fmt.Sprintf("User settings: 0x%06X, 0x%06X", firmware.UserSettingsOffset(len(fw), 0), firmware.UserSettingsOffset(len(fw), 1)),
	})
	ui.SetLegend([]string{
		"Legend:  █ written   ░ not yet written   ■ user settings | Q to quit",
	})

	for _, r := range regions {
		op := "Write " + r.Name
		mark := func(off, n int64) {
			pt.markRange(off, n)
			updateStatusLines(ui, pt, startTime, op)
		}
		if err := spiui.WriteSpan(w, int64(r.Offset), fw[r.Offset:r.End()], ui, mark); err != nil {
			if errors.Is(err, spiui.ErrInterrupted) {
				return err
			}
			return fmt.Errorf("%w: %s: %w", errWrite, r.Name, err)
		}
		ui.SetPhaseDone(r.Name)
	}
	updateStatusLines(ui, pt, startTime, "Write complete")
	ui.LayoutAndDraw()

	if err := spiui.WaitWithStop(ui, finalPause); err != nil && !errors.Is(err, spiui.ErrInterrupted) {
		return err
	}
	return nil
}
