package main

import (
	"io"
	"os"
)

// getDeviceSize returns the size of a regular file or block device in bytes.
func getDeviceSize(f *os.File) (int64, error) {
	if st, err := f.Stat(); err == nil && st.Mode().IsRegular() {
		return st.Size(), nil
	}
	size, err := f.Seek(0, io.SeekEnd)
	if err == nil && size > 0 {
		_, _ = f.Seek(0, io.SeekStart)
		return size, nil
	}
	return blockDeviceSize(f)
}
