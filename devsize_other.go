//go:build !linux && !darwin && !windows

package main

import (
	"errors"
	"os"
)

func blockDeviceSize(_ *os.File) (int64, error) {
	return 0, errors.New("block device size probing is not supported on this platform")
}
