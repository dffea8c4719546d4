package shmem

// Capacities of the fixed-size tables in a region. Changing any of these
// changes the region layout, so every participating process must be rebuilt
// and redeployed together; the layout carries no version tag.
const (
	// PoseBufferCapacity is the length of the current-pose ring buffer.
	PoseBufferCapacity = 256
	// LidarSampleCapacity is the length of the raw sensor sample table,
	// including the terminator slot.
	LidarSampleCapacity = 1024
	// CircleListCapacity is the length of each circle obstacle list.
	CircleListCapacity = 1024
	// PathCapacity is the length of the planner path hand-off table.
	PathCapacity = 128
)

// Field sizes and offsets of the region layout. All multi-byte fields are
// little-endian; participants are same-architecture processes on one robot.
const (
	poseSize   = 3 * 8 // x, y, angle float64
	circleSize = 3 * 8 // x, y, radius float64
	coordSize  = 2 * 8 // x, y float64
	sampleSize = 3 * 4 // angle, distance, intensity float32

	circleListSize = 8 + CircleListCapacity*circleSize // count + entries

	offPoseBufferPoses   = 0
	offPoseBufferHead    = offPoseBufferPoses + PoseBufferCapacity*poseSize
	offPoseBufferTail    = offPoseBufferHead + 4
	offPoseBufferFull    = offPoseBufferTail + 4
	offPoseOrder         = offPoseBufferFull + 4
	offTableLimits       = offPoseOrder + poseSize
	offLidarData         = offTableLimits + 4*8
	offDetectorObstacles = offLidarData + LidarSampleCapacity*sampleSize
	offMonitorObstacles  = offDetectorObstacles + circleListSize
	offPlannerObstacles  = offMonitorObstacles + circleListSize
	offPathAvailable     = offPlannerObstacles + circleListSize
	offPathCount         = offPathAvailable + 4
	offPathCoords        = offPathCount + 4

	regionSize = offPathCoords + PathCapacity*coordSize
)

// Channel identifies one independently locked field group of a Region.
// Unrelated data updates independently without false contention, but there
// is no ordering guarantee across channels: pose and obstacles read in the
// same logical frame may come from different update cycles.
type Channel int

const (
	// PoseCurrent guards the current-pose ring buffer.
	PoseCurrent Channel = iota
	// PoseOrder guards the target pose and the table limits.
	PoseOrder
	// SensorData guards the raw lidar sample table.
	SensorData
	// DetectorObstacles guards the detector-sourced obstacle list.
	DetectorObstacles
	// MonitorObstacles guards the monitor-sourced obstacle list.
	MonitorObstacles
	// PlannerObstacles guards the planner-owned obstacle list and the path
	// hand-off fields.
	PlannerObstacles
)

// Channels lists every channel in lock construction order.
var Channels = []Channel{
	PoseCurrent,
	PoseOrder,
	SensorData,
	DetectorObstacles,
	MonitorObstacles,
	PlannerObstacles,
}

// String returns the fixed channel suffix every participant derives lock
// names from.
func (c Channel) String() string {
	switch c {
	case PoseCurrent:
		return "pose-current"
	case PoseOrder:
		return "pose-order"
	case SensorData:
		return "sensor-data"
	case DetectorObstacles:
		return "detector-obstacles"
	case MonitorObstacles:
		return "monitor-obstacles"
	case PlannerObstacles:
		return "planner-obstacles"
	default:
		return "unknown"
	}
}

// ChannelLockName derives the lock name for a channel of the named region.
func ChannelLockName(regionName string, c Channel) string {
	return regionName + "_" + c.String()
}

// Pose is a robot pose as stored in the region.
type Pose struct {
	X     float64
	Y     float64
	Angle float64 // heading in degrees
}

// Circle is a detected circular obstacle as stored in the region.
type Circle struct {
	X      float64
	Y      float64
	Radius float64
}

// Sample is one raw lidar return as stored in the region.
type Sample struct {
	Angle     float32
	Distance  float32
	Intensity float32
}

// TableLimits is the axis-aligned table boundary rectangle.
type TableLimits struct {
	XMin float64
	YMin float64
	XMax float64
	YMax float64
}
