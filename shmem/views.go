package shmem

import (
	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
)

// NewIndexError is returned when a list view is indexed past its count.
func NewIndexError(index, count int) error {
	return errors.Errorf("index %d out of range, list has %d entries", index, count)
}

// NewCapacityError is returned when a write would exceed a fixed table.
func NewCapacityError(n, capacity int) error {
	return errors.Errorf("%d entries exceed table capacity %d", n, capacity)
}

// PoseBuffer is the view over the region's current-pose ring buffer: head
// is the next write slot, tail the oldest pose, with a full flag
// disambiguating head == tail.
type PoseBuffer struct {
	r *Region
}

// Len returns the number of buffered poses.
func (b PoseBuffer) Len() int {
	if b.full() {
		return PoseBufferCapacity
	}
	head, tail := b.head(), b.tail()
	return int((head + PoseBufferCapacity - tail) % PoseBufferCapacity)
}

// Push appends a pose, overwriting the oldest once the buffer is full.
func (b PoseBuffer) Push(p Pose) {
	head := b.head()
	b.r.putPoseAt(offPoseBufferPoses+int(head)*poseSize, p)
	head = (head + 1) % PoseBufferCapacity
	if b.full() {
		b.setTail(head)
	}
	b.setHead(head)
	if head == b.tail() {
		b.setFull(true)
	}
}

// Last returns the most recently pushed pose, reporting false on an empty
// buffer.
func (b PoseBuffer) Last() (Pose, bool) {
	if b.Len() == 0 {
		return Pose{}, false
	}
	last := (b.head() + PoseBufferCapacity - 1) % PoseBufferCapacity
	return b.r.poseAt(offPoseBufferPoses + int(last)*poseSize), true
}

// At returns the i-th buffered pose, oldest first.
func (b PoseBuffer) At(i int) (Pose, error) {
	if i < 0 || i >= b.Len() {
		return Pose{}, NewIndexError(i, b.Len())
	}
	idx := (b.tail() + uint32(i)) % PoseBufferCapacity
	return b.r.poseAt(offPoseBufferPoses + int(idx)*poseSize), nil
}

func (b PoseBuffer) head() uint32 { return b.r.uint32At(offPoseBufferHead) }

func (b PoseBuffer) setHead(v uint32) { b.r.putUint32At(offPoseBufferHead, v) }

func (b PoseBuffer) tail() uint32 { return b.r.uint32At(offPoseBufferTail) }

func (b PoseBuffer) setTail(v uint32) { b.r.putUint32At(offPoseBufferTail, v) }

func (b PoseBuffer) full() bool { return b.r.uint32At(offPoseBufferFull) != 0 }
func (b PoseBuffer) setFull(full bool) {
	var v uint32
	if full {
		v = 1
	}
	b.r.putUint32At(offPoseBufferFull, v)
}

// LidarSamples is the view over the region's raw sensor table. A writer
// stores a run of samples terminated by a negative distance; readers scan
// up to the terminator.
type LidarSamples struct {
	r *Region
}

// Write stores the samples followed by a terminator. It errors when the run
// plus its terminator would exceed the table.
func (s LidarSamples) Write(samples []Sample) error {
	if len(samples) > LidarSampleCapacity-1 {
		return NewCapacityError(len(samples), LidarSampleCapacity-1)
	}
	for i, smp := range samples {
		s.put(i, smp)
	}
	s.put(len(samples), Sample{Angle: -1, Distance: -1, Intensity: -1})
	return nil
}

// Read returns the stored samples up to the terminator.
func (s LidarSamples) Read() []Sample {
	var samples []Sample
	for i := 0; i < LidarSampleCapacity; i++ {
		smp := s.at(i)
		if smp.Distance < 0 {
			break
		}
		samples = append(samples, smp)
	}
	return samples
}

// Reset marks the whole table empty by terminating every slot.
func (s LidarSamples) Reset() {
	for i := 0; i < LidarSampleCapacity; i++ {
		s.put(i, Sample{Angle: -1, Distance: -1, Intensity: -1})
	}
}

func (s LidarSamples) at(i int) Sample {
	off := offLidarData + i*sampleSize
	return Sample{
		Angle:     s.r.float32At(off),
		Distance:  s.r.float32At(off + 4),
		Intensity: s.r.float32At(off + 8),
	}
}

func (s LidarSamples) put(i int, smp Sample) {
	off := offLidarData + i*sampleSize
	s.r.putFloat32At(off, smp.Angle)
	s.r.putFloat32At(off+4, smp.Distance)
	s.r.putFloat32At(off+8, smp.Intensity)
}

// CircleList is the view over one of the region's circle obstacle lists.
type CircleList struct {
	r    *Region
	base int
}

// Len returns the number of stored circles.
func (l CircleList) Len() int {
	return int(l.r.uint64At(l.base))
}

// At returns the i-th circle.
func (l CircleList) At(i int) (Circle, error) {
	if i < 0 || i >= l.Len() {
		return Circle{}, NewIndexError(i, l.Len())
	}
	off := l.entry(i)
	return Circle{
		X:      l.r.float64At(off),
		Y:      l.r.float64At(off + 8),
		Radius: l.r.float64At(off + 16),
	}, nil
}

// Append adds a circle at the end of the list.
func (l CircleList) Append(c Circle) error {
	n := l.Len()
	if n >= CircleListCapacity {
		return NewCapacityError(n+1, CircleListCapacity)
	}
	off := l.entry(n)
	l.r.putFloat64At(off, c.X)
	l.r.putFloat64At(off+8, c.Y)
	l.r.putFloat64At(off+16, c.Radius)
	l.r.putUint64At(l.base, uint64(n+1))
	return nil
}

// Set replaces the whole list.
func (l CircleList) Set(circles []Circle) error {
	if len(circles) > CircleListCapacity {
		return NewCapacityError(len(circles), CircleListCapacity)
	}
	l.Clear()
	for _, c := range circles {
		if err := l.Append(c); err != nil {
			return err
		}
	}
	return nil
}

// All returns a copy of the stored circles.
func (l CircleList) All() []Circle {
	n := l.Len()
	circles := make([]Circle, 0, n)
	for i := 0; i < n; i++ {
		c, err := l.At(i)
		if err != nil {
			break
		}
		circles = append(circles, c)
	}
	return circles
}

// Clear empties the list.
func (l CircleList) Clear() {
	l.r.putUint64At(l.base, 0)
}

func (l CircleList) entry(i int) int {
	return l.base + 8 + i*circleSize
}

// PathView is the view over the planner path hand-off: an availability flag
// plus the last published polyline.
type PathView struct {
	r *Region
}

// Available reports whether a published path is ready for the strategy
// layer.
func (p PathView) Available() bool {
	return p.r.uint32At(offPathAvailable) != 0
}

// SetAvailable stores the availability flag.
func (p PathView) SetAvailable(available bool) {
	var v uint32
	if available {
		v = 1
	}
	p.r.putUint32At(offPathAvailable, v)
}

// Len returns the number of published path points.
func (p PathView) Len() int {
	return int(p.r.uint32At(offPathCount))
}

// At returns the i-th published path point.
func (p PathView) At(i int) (r2.Point, error) {
	if i < 0 || i >= p.Len() {
		return r2.Point{}, NewIndexError(i, p.Len())
	}
	off := offPathCoords + i*coordSize
	return r2.Point{X: p.r.float64At(off), Y: p.r.float64At(off + 8)}, nil
}

// Set replaces the published polyline. The availability flag is separate;
// writers publish the points first, then flip the flag.
func (p PathView) Set(points []r2.Point) error {
	if len(points) > PathCapacity {
		return NewCapacityError(len(points), PathCapacity)
	}
	for i, pt := range points {
		off := offPathCoords + i*coordSize
		p.r.putFloat64At(off, pt.X)
		p.r.putFloat64At(off+8, pt.Y)
	}
	p.r.putUint32At(offPathCount, uint32(len(points)))
	return nil
}

// Clear drops the published path and its availability.
func (p PathView) Clear() {
	p.SetAvailable(false)
	p.r.putUint32At(offPathCount, 0)
}
