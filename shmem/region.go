package shmem

import (
	"encoding/binary"
	"math"

	"github.com/edaniels/golog"
	"go.uber.org/multierr"
)

// Region is the fixed-layout block of process-shared memory every process
// of the robot stack maps: pose buffers, the target pose, table limits, the
// raw sensor table, three obstacle lists, and the planner path hand-off.
//
// Each field group belongs to a Channel with its own Lock; callers bracket
// every accessor use with the matching lock's read or write section. The
// accessors themselves only do bounds-checked offset arithmetic into the
// mapped bytes.
type Region struct {
	name   string
	owner  bool
	logger golog.Logger
	seg    *segment
	locks  map[Channel]*Lock
}

// OpenRegion maps the named region. The owner creates and zero-initializes
// it and its channel locks; everyone else attaches to the existing state
// without lifecycle ownership.
func OpenRegion(name string, owner bool, logger golog.Logger) (*Region, error) {
	seg, err := openSegment(name, regionSize, owner)
	if err != nil {
		return nil, err
	}
	r := &Region{
		name:   name,
		owner:  owner,
		logger: logger,
		seg:    seg,
		locks:  make(map[Channel]*Lock, len(Channels)),
	}
	if owner {
		seg.zero()
		r.LidarSamples().Reset()
	}
	for _, ch := range Channels {
		l, err := OpenLock(ChannelLockName(name, ch), owner, logger)
		if err != nil {
			return nil, multierr.Combine(err, r.Close())
		}
		r.locks[ch] = l
	}
	logger.Debugw("shared region mapped", "name", name, "owner", owner, "size", regionSize)
	return r, nil
}

// Name returns the region name.
func (r *Region) Name() string { return r.name }

// Size returns the fixed byte size of the region layout.
func Size() int { return regionSize }

// Lock returns the channel's lock.
func (r *Region) Lock(ch Channel) *Lock {
	return r.locks[ch]
}

// Close unmaps the local view and closes every channel lock. The owner also
// unlinks the region and the lock segments, ending their lifetime.
func (r *Region) Close() error {
	var err error
	for _, ch := range Channels {
		if l, ok := r.locks[ch]; ok {
			err = multierr.Combine(err, l.Close())
			delete(r.locks, ch)
		}
	}
	err = multierr.Combine(err, r.seg.close())
	if r.owner {
		err = multierr.Combine(err, r.seg.unlink())
	}
	return err
}

// PoseBuffer returns the view over the current-pose ring buffer, guarded by
// the PoseCurrent channel.
func (r *Region) PoseBuffer() PoseBuffer {
	return PoseBuffer{r}
}

// PoseOrder returns the target pose, guarded by the PoseOrder channel.
func (r *Region) PoseOrder() Pose {
	return r.poseAt(offPoseOrder)
}

// SetPoseOrder stores the target pose, guarded by the PoseOrder channel.
func (r *Region) SetPoseOrder(p Pose) {
	r.putPoseAt(offPoseOrder, p)
}

// TableLimits returns the table boundary rectangle, guarded by the
// PoseOrder channel.
func (r *Region) TableLimits() TableLimits {
	return TableLimits{
		XMin: r.float64At(offTableLimits),
		YMin: r.float64At(offTableLimits + 8),
		XMax: r.float64At(offTableLimits + 16),
		YMax: r.float64At(offTableLimits + 24),
	}
}

// SetTableLimits stores the table boundary rectangle, guarded by the
// PoseOrder channel.
func (r *Region) SetTableLimits(l TableLimits) {
	r.putFloat64At(offTableLimits, l.XMin)
	r.putFloat64At(offTableLimits+8, l.YMin)
	r.putFloat64At(offTableLimits+16, l.XMax)
	r.putFloat64At(offTableLimits+24, l.YMax)
}

// LidarSamples returns the view over the raw sensor table, guarded by the
// SensorData channel.
func (r *Region) LidarSamples() LidarSamples {
	return LidarSamples{r}
}

// DetectorObstacles returns the view over the detector-sourced obstacle
// list, guarded by the DetectorObstacles channel.
func (r *Region) DetectorObstacles() CircleList {
	return CircleList{r, offDetectorObstacles}
}

// MonitorObstacles returns the view over the monitor-sourced obstacle list,
// guarded by the MonitorObstacles channel.
func (r *Region) MonitorObstacles() CircleList {
	return CircleList{r, offMonitorObstacles}
}

// PlannerObstacles returns the view over the planner-owned obstacle list,
// guarded by the PlannerObstacles channel.
func (r *Region) PlannerObstacles() CircleList {
	return CircleList{r, offPlannerObstacles}
}

// Path returns the view over the planner path hand-off, guarded by the
// PlannerObstacles channel.
func (r *Region) Path() PathView {
	return PathView{r}
}

func (r *Region) float64At(off int) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(r.seg.data[off : off+8]))
}

func (r *Region) putFloat64At(off int, v float64) {
	binary.LittleEndian.PutUint64(r.seg.data[off:off+8], math.Float64bits(v))
}

func (r *Region) float32At(off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(r.seg.data[off : off+4]))
}

func (r *Region) putFloat32At(off int, v float32) {
	binary.LittleEndian.PutUint32(r.seg.data[off:off+4], math.Float32bits(v))
}

func (r *Region) uint32At(off int) uint32 {
	return binary.LittleEndian.Uint32(r.seg.data[off : off+4])
}

func (r *Region) putUint32At(off int, v uint32) {
	binary.LittleEndian.PutUint32(r.seg.data[off:off+4], v)
}

func (r *Region) uint64At(off int) uint64 {
	return binary.LittleEndian.Uint64(r.seg.data[off : off+8])
}

func (r *Region) putUint64At(off int, v uint64) {
	binary.LittleEndian.PutUint64(r.seg.data[off:off+8], v)
}

func (r *Region) poseAt(off int) Pose {
	return Pose{
		X:     r.float64At(off),
		Y:     r.float64At(off + 8),
		Angle: r.float64At(off + 16),
	}
}

func (r *Region) putPoseAt(off int, p Pose) {
	r.putFloat64At(off, p.X)
	r.putFloat64At(off+8, p.Y)
	r.putFloat64At(off+16, p.Angle)
}
