package shmem

import (
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Word offsets of a lock's shared state inside its segment: four semaphore
// values followed by three counters.
const (
	lockOffMutex = 4 * iota
	lockOffWrite
	lockOffUpdate
	lockOffRegistration
	lockOffReaderCount
	lockOffWriteRequestCount
	lockOffConsumerCount
	lockSegmentSize
)

// readerBackoff is how long an incoming reader sleeps between checks while
// a write request is pending.
const readerBackoff = 100 * time.Microsecond

// ErrNotOwner is returned when a lifecycle operation reserved for the
// owning process is attempted from an attached handle.
var ErrNotOwner = errors.New("operation requires the owning lock handle")

// Lock is a writer-priority readers/writer lock shared between processes,
// guarding one logical channel of a shared region, plus an update
// side-channel that lets a writer wake exactly the consumers registered for
// the channel.
//
// Once a writer has signaled intent via StartWriting, no reader entering
// StartReading is admitted until that writer finishes, so a steady stream of
// readers cannot starve producers. The cost is reader starvation under
// sustained write load, which is intentional.
//
// There are no acquisition timeouts. A process that crashes inside its write
// section leaves the channel locked for every participant until the owner
// issues Reset; the lock does not detect this itself. Calling a Start/Finish
// pair unbalanced is undefined behavior.
type Lock struct {
	name       string
	owner      bool
	registered bool
	clock      clock.Clock
	logger     golog.Logger

	seg          *segment
	mutex        semaphore
	write        semaphore
	update       semaphore
	registration semaphore

	readerCount       *int32
	writeRequestCount *int32
	consumerCount     *int32
}

// OpenLock opens the named channel lock. The owner creates the backing
// segment and arms the semaphores; everyone else attaches to the existing
// state. Resource errors are fatal and not retried.
func OpenLock(name string, owner bool, logger golog.Logger) (*Lock, error) {
	seg, err := openSegment(name+".lock", lockSegmentSize, owner)
	if err != nil {
		return nil, err
	}
	l := &Lock{
		name:   name,
		owner:  owner,
		clock:  clock.New(),
		logger: logger,
		seg:    seg,
	}
	l.mutex = semaphore{l.word(lockOffMutex)}
	l.write = semaphore{l.word(lockOffWrite)}
	l.update = semaphore{l.word(lockOffUpdate)}
	l.registration = semaphore{l.word(lockOffRegistration)}
	l.readerCount = l.word(lockOffReaderCount)
	l.writeRequestCount = l.word(lockOffWriteRequestCount)
	l.consumerCount = l.word(lockOffConsumerCount)
	if owner {
		l.initState()
	}
	return l, nil
}

func (l *Lock) word(off int) *int32 {
	return (*int32)(unsafe.Pointer(&l.seg.data[off]))
}

// initState arms the semaphores and zeroes the counters, waking anything
// that was blocked on the previous state.
func (l *Lock) initState() {
	atomic.StoreInt32(l.readerCount, 0)
	atomic.StoreInt32(l.writeRequestCount, 0)
	atomic.StoreInt32(l.consumerCount, 0)
	l.mutex.set(1)
	l.write.set(1)
	l.update.set(0)
	l.registration.set(1)
}

// StartReading admits the caller as a reader. Readers block while any write
// request is pending; the first admitted reader takes the write semaphore so
// writers stay excluded for the whole reading interval.
func (l *Lock) StartReading() {
	l.mutex.wait()
	for atomic.LoadInt32(l.writeRequestCount) > 0 {
		l.mutex.post()
		l.clock.Sleep(readerBackoff)
		l.mutex.wait()
	}
	if atomic.AddInt32(l.readerCount, 1) == 1 {
		l.write.wait()
	}
	l.mutex.post()
}

// FinishReading releases the caller's read admission; the last reader out
// releases the write semaphore.
func (l *Lock) FinishReading() {
	l.mutex.wait()
	if atomic.AddInt32(l.readerCount, -1) == 0 {
		l.write.post()
	}
	l.mutex.post()
}

// StartWriting blocks until the caller holds exclusive write access. The
// pending-write counter goes up before the wait so new readers start
// blocking immediately, and back down once the write semaphore is held.
func (l *Lock) StartWriting() {
	l.mutex.wait()
	atomic.AddInt32(l.writeRequestCount, 1)
	l.mutex.post()

	l.write.wait()

	atomic.AddInt32(l.writeRequestCount, -1)
}

// FinishWriting releases exclusive write access.
func (l *Lock) FinishWriting() {
	l.write.post()
}

// RegisterConsumer enrolls this handle for update notifications. It must be
// called once before the first WaitUpdate; updates posted before
// registration are never delivered to this consumer. Further calls on the
// same handle are no-ops.
func (l *Lock) RegisterConsumer() {
	if l.registered {
		return
	}
	l.registered = true
	l.registration.wait()
	atomic.AddInt32(l.consumerCount, 1)
	l.registration.post()
}

// PostUpdate wakes every currently registered consumer once. This is a
// broadcast of the present registration count, not a queue: consumers that
// register later see nothing of it. Writers call this after FinishWriting.
func (l *Lock) PostUpdate() {
	count := atomic.LoadInt32(l.consumerCount)
	for i := int32(0); i < count; i++ {
		l.update.post()
	}
}

// WaitUpdate blocks the calling consumer until the next PostUpdate.
func (l *Lock) WaitUpdate() {
	l.update.wait()
}

// Reset re-arms the lock in place, recovering a channel whose holder
// crashed. Owner-only; attached handles get ErrNotOwner.
func (l *Lock) Reset() error {
	if !l.owner {
		return ErrNotOwner
	}
	l.logger.Infow("resetting channel lock", "name", l.name)
	l.initState()
	return nil
}

// ResetLock attaches to the named channel lock, re-arms it in place, and
// detaches. It is the operator recovery path standing in for the owner when
// the owning process cannot issue Reset itself, e.g. because it is blocked
// behind the crashed holder.
func ResetLock(name string, logger golog.Logger) error {
	l, err := OpenLock(name, false, logger)
	if err != nil {
		return err
	}
	logger.Infow("force resetting channel lock", "name", name)
	l.initState()
	return l.Close()
}

// Close detaches from the lock, deregistering the handle's consumer
// enrollment first. The owner also unlinks the backing segment.
func (l *Lock) Close() error {
	if l.registered {
		l.registered = false
		l.registration.wait()
		atomic.AddInt32(l.consumerCount, -1)
		l.registration.post()
	}
	err := l.seg.close()
	if l.owner {
		err = multierr.Combine(err, l.seg.unlink())
	}
	return err
}
