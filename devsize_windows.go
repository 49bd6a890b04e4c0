//go:build windows

package main

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/windows"
)

const ioctlDiskGetLengthInfo = 0x7405C

func blockDeviceSize(f *os.File) (int64, error) {
	var length int64
	var returned uint32
	err := windows.DeviceIoControl(
		windows.Handle(f.Fd()),
		ioctlDiskGetLengthInfo,
		nil, 0,
		(*byte)(unsafe.Pointer(&length)), uint32(unsafe.Sizeof(length)),
		&returned,
		nil,
	)
	if err != nil {
		return 0, fmt.Errorf("cannot determine device size: %w", err)
	}
	return length, nil
}
