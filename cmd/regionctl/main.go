// Package main contains a command to own, inspect, and recover the robot
// stack's shared memory region.
package main

import (
	"context"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/utils"

	"go.viam.com/navcore/shmem"
)

var logger = golog.NewDevelopmentLogger("regionctl")

func main() {
	utils.ContextualMain(mainWithArgs, logger)
}

// Arguments for the command.
type Arguments struct {
	Command string `flag:"0,required,usage=create|info|reset"`
	Name    string `flag:"name,default=navcore,usage=shared region name"`
	Channel string `flag:"channel,usage=channel to reset (reset only)"`
}

func mainWithArgs(ctx context.Context, args []string, logger golog.Logger) error {
	var argsParsed Arguments
	if err := utils.ParseFlags(args, &argsParsed); err != nil {
		return err
	}

	switch argsParsed.Command {
	case "create":
		return createRegion(ctx, argsParsed.Name, logger)
	case "info":
		return printRegion(argsParsed.Name, logger)
	case "reset":
		return resetChannel(argsParsed.Name, argsParsed.Channel, logger)
	default:
		return errors.Errorf("unknown command %q", argsParsed.Command)
	}
}

// createRegion owns the region until the process is told to stop, at which
// point the region and its locks are unlinked for every participant.
func createRegion(ctx context.Context, name string, logger golog.Logger) (err error) {
	region, err := shmem.OpenRegion(name, true, logger)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, region.Close())
	}()

	logger.Infow("owning shared region until stopped", "name", name, "size", shmem.Size())
	<-ctx.Done()
	return nil
}

func printRegion(name string, logger golog.Logger) (err error) {
	region, err := shmem.OpenRegion(name, false, logger)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, region.Close())
	}()

	readUnder := func(ch shmem.Channel, read func()) {
		lock := region.Lock(ch)
		lock.StartReading()
		defer lock.FinishReading()
		read()
	}

	readUnder(shmem.PoseCurrent, func() {
		if pose, ok := region.PoseBuffer().Last(); ok {
			logger.Infow("pose", "x", pose.X, "y", pose.Y, "angle", pose.Angle, "buffered", region.PoseBuffer().Len())
		} else {
			logger.Info("pose: none buffered")
		}
	})
	readUnder(shmem.PoseOrder, func() {
		order := region.PoseOrder()
		limits := region.TableLimits()
		logger.Infow("pose order", "x", order.X, "y", order.Y, "angle", order.Angle)
		logger.Infow("table limits", "xMin", limits.XMin, "yMin", limits.YMin, "xMax", limits.XMax, "yMax", limits.YMax)
	})
	readUnder(shmem.SensorData, func() {
		logger.Infow("sensor samples", "count", len(region.LidarSamples().Read()))
	})
	readUnder(shmem.DetectorObstacles, func() {
		logger.Infow("detector obstacles", "count", region.DetectorObstacles().Len())
	})
	readUnder(shmem.MonitorObstacles, func() {
		logger.Infow("monitor obstacles", "count", region.MonitorObstacles().Len())
	})
	readUnder(shmem.PlannerObstacles, func() {
		path := region.Path()
		logger.Infow("path", "available", path.Available(), "poses", path.Len(), "planner obstacles", region.PlannerObstacles().Len())
	})
	return nil
}

// resetChannel re-arms a channel lock left deadlocked by a crashed
// participant. It does not touch the channel's data.
func resetChannel(name, channel string, logger golog.Logger) error {
	for _, ch := range shmem.Channels {
		if ch.String() == channel {
			return shmem.ResetLock(shmem.ChannelLockName(name, ch), logger)
		}
	}
	return errors.Errorf("unknown channel %q", channel)
}
