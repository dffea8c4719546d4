package shmem

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// Futex operation codes from <linux/futex.h>; x/sys/unix exports the futex
// syscall number but not these op constants.
const (
	futexOpWait = 0
	futexOpWake = 1
)

// futexWait blocks until the word at addr no longer holds val or a wake is
// posted. Spurious returns (EINTR, EAGAIN on a changed word) are fine; all
// callers re-check the word in a loop.
func futexWait(addr *int32, val int32) error {
	_, _, errno := unix.Syscall6(
		unix.SYS_FUTEX,
		uintptr(unsafe.Pointer(addr)),
		uintptr(futexOpWait),
		uintptr(val),
		0, 0, 0,
	)
	if errno != 0 && errno != unix.EAGAIN && errno != unix.EINTR {
		return errno
	}
	return nil
}

// futexWake wakes up to count waiters blocked on the word at addr.
func futexWake(addr *int32, count int32) error {
	_, _, errno := unix.Syscall6(
		unix.SYS_FUTEX,
		uintptr(unsafe.Pointer(addr)),
		uintptr(futexOpWake),
		uintptr(count),
		0, 0, 0,
	)
	if errno != 0 {
		return errno
	}
	return nil
}
