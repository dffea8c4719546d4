package shmem

import (
	"math"
	"sync/atomic"
)

// semaphore is a counting semaphore whose value lives in a process-shared
// mapped word, so any process mapping the same segment participates. It is
// the moral equivalent of a POSIX named semaphore, built on futexes because
// Go has no sem_open.
type semaphore struct {
	word *int32
}

// wait decrements the semaphore, blocking while its value is zero.
func (s semaphore) wait() {
	for {
		v := atomic.LoadInt32(s.word)
		if v > 0 {
			if atomic.CompareAndSwapInt32(s.word, v, v-1) {
				return
			}
			continue
		}
		_ = futexWait(s.word, v)
	}
}

// post increments the semaphore and wakes one waiter.
func (s semaphore) post() {
	atomic.AddInt32(s.word, 1)
	_ = futexWake(s.word, 1)
}

// set forces the semaphore to a value and wakes every waiter, used only by
// the owner when (re)initializing a lock.
func (s semaphore) set(v int32) {
	atomic.StoreInt32(s.word, v)
	_ = futexWake(s.word, math.MaxInt32)
}
