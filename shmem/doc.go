// Package shmem coordinates the cross-process shared state of the robot
// stack: a fixed-layout shared memory Region holding pose, sensor, and
// obstacle data, and the writer-priority Lock guarding each of its channels.
//
// One process owns each region: it creates and zero-initializes the memory
// and the locks, and unlinks them on shutdown. Every other participant
// attaches by name. It is futex-based and Linux-only, like the robots it
// runs on.
package shmem
