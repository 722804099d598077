// Package telemetry wires go-kit logging and channel-based state
// streaming into the hybrid integrator, mirroring the teacher's
// SCLogInit/StreamStates pattern in export.go: structured
// level/subsys/message log lines plus a CSV export sink fed by a
// channel so a long integration can stream state without buffering it
// all in memory.
package telemetry

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/rabotin-collab/hybridnbody"
)

// NewLogger returns a go-kit logger writing level/subsys/message lines
// to stderr, timestamped, the same construction the teacher uses for
// SCLogInit.
func NewLogger() kitlog.Logger {
	base := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stderr))
	base = kitlog.With(base, "ts", kitlog.DefaultTimestampUTC)
	return base
}

// NewLeveledLogger wraps NewLogger with go-kit's level filter, allowing
// callers to drop debug output in production the same way level.Info /
// level.Debug gate the teacher's log calls.
func NewLeveledLogger(minLevel string) kitlog.Logger {
	logger := NewLogger()
	var opt level.Option
	switch minLevel {
	case "debug":
		opt = level.AllowDebug()
	case "warn":
		opt = level.AllowWarn()
	case "error":
		opt = level.AllowError()
	default:
		opt = level.AllowInfo()
	}
	return level.NewFilter(logger, opt)
}

// Snapshot is one recorded instant of a System's state, the unit
// StreamStates consumes from its channel.
type Snapshot struct {
	T         float64
	Particles []hybrid.Particle
}

// StreamConfig controls StreamStates' output.
type StreamConfig struct {
	// Dir is the output directory; files are written
	// "<Dir>/<Filename>.csv".
	Dir      string
	Filename string
}

// StreamStates drains snapshotChan into a CSV file, one row per
// particle per snapshot (t,hash,x,y,z,vx,vy,vz,mass), closing the file
// when the channel closes. It mirrors the teacher's StreamStates
// channel-drain shape, generalized from single-spacecraft mission
// states to an N-body particle set.
func StreamStates(conf StreamConfig, snapshotChan <-chan Snapshot) error {
	path := fmt.Sprintf("%s/%s.csv", conf.Dir, conf.Filename)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("telemetry: creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"t", "hash", "x", "y", "z", "vx", "vy", "vz", "mass"}); err != nil {
		return err
	}

	for snap := range snapshotChan {
		tStr := strconv.FormatFloat(snap.T, 'g', -1, 64)
		for _, p := range snap.Particles {
			row := []string{
				tStr,
				strconv.FormatUint(uint64(p.Hash), 10),
				strconv.FormatFloat(p.X, 'g', -1, 64),
				strconv.FormatFloat(p.Y, 'g', -1, 64),
				strconv.FormatFloat(p.Z, 'g', -1, 64),
				strconv.FormatFloat(p.VX, 'g', -1, 64),
				strconv.FormatFloat(p.VY, 'g', -1, 64),
				strconv.FormatFloat(p.VZ, 'g', -1, 64),
				strconv.FormatFloat(p.Mass, 'g', -1, 64),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	return w.Error()
}

// nowStamp formats the current time the way the teacher's
// createInterpolatedFile stamps output filenames.
func nowStamp(t time.Time) string {
	return fmt.Sprintf("%d-%02d-%02dT%02d.%02d.%02d", t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second())
}
