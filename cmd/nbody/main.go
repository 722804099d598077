// Command nbody drives a hybrid symplectic N-body integration from a
// small set of flags, mirroring the shape of the teacher's cmd/
// mission-runner binaries: load config, build a System, step it, stream
// output.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rabotin-collab/hybridnbody"
	"github.com/rabotin-collab/hybridnbody/adaptive"
	"github.com/rabotin-collab/hybridnbody/bodies"
	"github.com/rabotin-collab/hybridnbody/collision"
	"github.com/rabotin-collab/hybridnbody/config"
	"github.com/rabotin-collab/hybridnbody/coords"
	"github.com/rabotin-collab/hybridnbody/gravity"
	"github.com/rabotin-collab/hybridnbody/symplectic"
	"github.com/rabotin-collab/hybridnbody/telemetry"
)

func main() {
	steps := flag.Int("steps", 1000, "number of outer steps to take")
	dt := flag.Float64("dt", 1.0, "outer step size (seconds)")
	outDir := flag.String("out", ".", "directory to write run.csv into")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(1)
	}

	logger := telemetry.NewLeveledLogger(cfg.LogLevel)

	const g = 6.674e-20 // km^3 kg^-1 s^-2
	sun := bodies.Sun
	mu := sun.GM
	const sunMassKg = 1.98847e30
	particles := []hybrid.Particle{
		{Mass: sunMassKg, Radius: sun.Radius},
	}
	earthP := bodies.SeedParticle(5.972e24, bodies.Earth.Radius, bodies.AU, 0.0167, 0.00005, 0, 102.9, 0, mu)
	particles = append(particles, earthP)

	sys := hybrid.NewSystem(
		particles,
		g,
		symplectic.NewWHFast(),
		adaptive.NewDP45(),
		coords.NewTransform(),
		collision.NewDirectScan(),
		gravity.NewOracle(),
	)
	config.Apply(sys, cfg)
	sys.Dt = *dt
	sys.Logger = logger

	snapshotChan := make(chan telemetry.Snapshot, 64)
	done := make(chan error, 1)
	go func() {
		done <- telemetry.StreamStates(telemetry.StreamConfig{Dir: *outDir, Filename: "run"}, snapshotChan)
	}()

	start := time.Now()
	for n := 0; n < *steps; n++ {
		hybrid.Part1(sys)
		hybrid.Part2(sys)

		snap := telemetry.Snapshot{T: sys.T, Particles: append([]hybrid.Particle(nil), sys.Particles...)}
		snapshotChan <- snap
	}
	close(snapshotChan)

	if err := <-done; err != nil {
		fmt.Fprintln(os.Stderr, "stream error:", err)
		os.Exit(1)
	}

	logger.Log("level", "info", "subsys", "nbody", "message", "run complete", "steps", *steps, "elapsed", time.Since(start).String())
}
