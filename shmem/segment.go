package shmem

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.viam.com/utils"
	"golang.org/x/sys/unix"
)

// shmDir is where named segments live; the same name-to-path derivation in
// every participating process is what makes the segments shared.
const shmDir = "/dev/shm"

// segment is one named block of process-shared memory.
type segment struct {
	name  string
	path  string
	owner bool
	data  []byte
}

// openSegment maps the named segment at exactly size bytes. The owner
// creates and sizes it; a non-owner attaches to an existing segment and
// fails on a size mismatch, which indicates a participant built against a
// different layout.
func openSegment(name string, size int, owner bool) (*segment, error) {
	path := filepath.Join(shmDir, name)
	flags := os.O_RDWR
	if owner {
		flags |= os.O_CREATE
	}
	//nolint:gosec
	f, err := os.OpenFile(path, flags, 0o666)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open shared memory segment %q", name)
	}
	defer utils.UncheckedErrorFunc(f.Close)

	if owner {
		if err := f.Truncate(int64(size)); err != nil {
			return nil, errors.Wrapf(err, "failed to size shared memory segment %q", name)
		}
	} else {
		info, err := f.Stat()
		if err != nil {
			return nil, errors.Wrapf(err, "failed to stat shared memory segment %q", name)
		}
		if info.Size() != int64(size) {
			return nil, errors.Errorf(
				"shared memory segment %q has size %d, expected %d; participants disagree on layout",
				name, info.Size(), size)
		}
	}

	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to map shared memory segment %q", name)
	}
	return &segment{name: name, path: path, owner: owner, data: data}, nil
}

// close unmaps the local view; the segment itself stays until unlinked.
func (s *segment) close() error {
	if s.data == nil {
		return nil
	}
	data := s.data
	s.data = nil
	return errors.Wrapf(unix.Munmap(data), "failed to unmap shared memory segment %q", s.name)
}

// unlink removes the named segment; only the owner should call this.
func (s *segment) unlink() error {
	return errors.Wrapf(os.Remove(s.path), "failed to unlink shared memory segment %q", s.name)
}

// zero clears the whole segment, part of owner initialization.
func (s *segment) zero() {
	for i := range s.data {
		s.data[i] = 0
	}
}
