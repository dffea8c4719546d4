package shmem

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r2"
	"go.viam.com/test"
)

func openTestRegion(t *testing.T) (*Region, *Region) {
	t.Helper()
	logger := golog.NewTestLogger(t)
	name := testName(t)

	owner, err := OpenRegion(name, true, logger)
	test.That(t, err, test.ShouldBeNil)
	attached, err := OpenRegion(name, false, logger)
	test.That(t, err, test.ShouldBeNil)
	t.Cleanup(func() {
		test.That(t, attached.Close(), test.ShouldBeNil)
		test.That(t, owner.Close(), test.ShouldBeNil)
	})
	return owner, attached
}

func TestOpenRegion(t *testing.T) {
	logger := golog.NewTestLogger(t)

	// Attaching to a missing region fails.
	_, err := OpenRegion(testName(t), false, logger)
	test.That(t, err, test.ShouldNotBeNil)

	// Attaching to a region of the wrong size fails: a participant built
	// against a different layout must not limp along.
	name := testName(t)
	path := filepath.Join(shmDir, name)
	test.That(t, os.WriteFile(path, make([]byte, 64), 0o666), test.ShouldBeNil)
	defer func() {
		test.That(t, os.Remove(path), test.ShouldBeNil)
	}()
	_, err = OpenRegion(name, false, logger)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestRegionPoseRoundTrip(t *testing.T) {
	owner, attached := openTestRegion(t)

	lock := owner.Lock(PoseCurrent)
	lock.StartWriting()
	owner.PoseBuffer().Push(Pose{X: 120, Y: 340, Angle: 90})
	lock.FinishWriting()

	readLock := attached.Lock(PoseCurrent)
	readLock.StartReading()
	defer readLock.FinishReading()
	pose, ok := attached.PoseBuffer().Last()
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, pose, test.ShouldResemble, Pose{X: 120, Y: 340, Angle: 90})
	test.That(t, attached.PoseBuffer().Len(), test.ShouldEqual, 1)
}

func TestPoseBufferWrapAround(t *testing.T) {
	owner, _ := openTestRegion(t)
	buf := owner.PoseBuffer()

	for i := 0; i < PoseBufferCapacity+10; i++ {
		buf.Push(Pose{X: float64(i)})
	}
	test.That(t, buf.Len(), test.ShouldEqual, PoseBufferCapacity)

	last, ok := buf.Last()
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, last.X, test.ShouldEqual, float64(PoseBufferCapacity+9))

	oldest, err := buf.At(0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, oldest.X, test.ShouldEqual, 10.0)

	_, err = buf.At(PoseBufferCapacity)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestRegionPoseOrderAndLimits(t *testing.T) {
	owner, attached := openTestRegion(t)

	lock := owner.Lock(PoseOrder)
	lock.StartWriting()
	owner.SetPoseOrder(Pose{X: 900, Y: 500, Angle: 180})
	owner.SetTableLimits(TableLimits{XMin: 0, YMin: 0, XMax: 1000, YMax: 1000})
	lock.FinishWriting()

	readLock := attached.Lock(PoseOrder)
	readLock.StartReading()
	defer readLock.FinishReading()
	test.That(t, attached.PoseOrder(), test.ShouldResemble, Pose{X: 900, Y: 500, Angle: 180})
	test.That(t, attached.TableLimits(), test.ShouldResemble, TableLimits{XMax: 1000, YMax: 1000})
}

func TestRegionLidarSamples(t *testing.T) {
	owner, attached := openTestRegion(t)

	// A fresh region reads as empty thanks to the terminator fill.
	test.That(t, attached.LidarSamples().Read(), test.ShouldBeEmpty)

	samples := []Sample{
		{Angle: 0, Distance: 1200, Intensity: 47},
		{Angle: 1.5, Distance: 880, Intensity: 51},
	}
	test.That(t, owner.LidarSamples().Write(samples), test.ShouldBeNil)
	test.That(t, attached.LidarSamples().Read(), test.ShouldResemble, samples)

	tooMany := make([]Sample, LidarSampleCapacity)
	test.That(t, owner.LidarSamples().Write(tooMany), test.ShouldNotBeNil)
}

func TestRegionCircleLists(t *testing.T) {
	owner, attached := openTestRegion(t)

	circles := []Circle{
		{X: 500, Y: 500, Radius: 100},
		{X: 200, Y: 800, Radius: 50},
	}
	test.That(t, owner.DetectorObstacles().Set(circles), test.ShouldBeNil)
	test.That(t, attached.DetectorObstacles().All(), test.ShouldResemble, circles)

	// The three lists are independent.
	test.That(t, attached.MonitorObstacles().Len(), test.ShouldEqual, 0)
	test.That(t, attached.PlannerObstacles().Len(), test.ShouldEqual, 0)

	test.That(t, owner.MonitorObstacles().Append(Circle{X: 1, Y: 2, Radius: 3}), test.ShouldBeNil)
	test.That(t, attached.MonitorObstacles().Len(), test.ShouldEqual, 1)
	test.That(t, attached.DetectorObstacles().Len(), test.ShouldEqual, 2)

	_, err := attached.DetectorObstacles().At(2)
	test.That(t, err, test.ShouldNotBeNil)

	owner.DetectorObstacles().Clear()
	test.That(t, attached.DetectorObstacles().Len(), test.ShouldEqual, 0)
}

func TestRegionPathHandOff(t *testing.T) {
	owner, attached := openTestRegion(t)

	view := owner.Path()
	test.That(t, view.Available(), test.ShouldBeFalse)

	points := []r2.Point{{X: 100, Y: 500}, {X: 390, Y: 390}, {X: 900, Y: 500}}
	test.That(t, view.Set(points), test.ShouldBeNil)
	view.SetAvailable(true)

	got := attached.Path()
	test.That(t, got.Available(), test.ShouldBeTrue)
	test.That(t, got.Len(), test.ShouldEqual, 3)
	for i, want := range points {
		pt, err := got.At(i)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, pt, test.ShouldResemble, want)
	}
	_, err := got.At(3)
	test.That(t, err, test.ShouldNotBeNil)

	owner.Path().Clear()
	test.That(t, got.Available(), test.ShouldBeFalse)
	test.That(t, got.Len(), test.ShouldEqual, 0)
}
