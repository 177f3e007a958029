// Command liftpta lifts one fixture method to TAC, builds its CFG, and
// runs the interprocedural points-to/call-graph engine starting from it.
// It exists to wire the library end to end for local experimentation
// (spec.md has no CLI in its analyzed surface); mirrors cmd/pointer.go's
// shape: flag parsing, an optional CPU profile, log.Fatal on usage
// errors.
package main

import (
	"flag"
	"log"
	"os"
	"runtime/pprof"

	"github.com/sirupsen/logrus"

	"github.com/nortwick-labs/tacpta/cfg"
	"github.com/nortwick-labs/tacpta/errs"
	"github.com/nortwick-labs/tacpta/interproc"
	"github.com/nortwick-labs/tacpta/lift"
	"github.com/nortwick-labs/tacpta/symbols"
)

var cpuprofile = flag.String("cpuprofile", "", "write cpu profile to `file`")

func main() {
	flag.Parse()

	name := "Main"
	if flag.NArg() > 0 {
		name = flag.Arg(0)
	}

	root, ok := methodNamed(name)
	if !ok {
		log.Fatalf("no fixture method named %q", name)
	}

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				log.Fatal("failed to close ", f)
			}
		}()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
	}

	logger := logrus.StandardLogger()

	driver := interproc.NewDriver(interproc.DefaultHooks(func(m symbols.MethodRef) (*cfg.ControlFlowGraph, error) {
		in, ok := fixtures[m]
		if !ok {
			return nil, errs.NewLiftError(errs.UnknownOpcode, 0, "no fixture for method "+m.String())
		}
		body, err := lift.LiftWithOptions(in, lift.Options{Logger: logger})
		if err != nil {
			return nil, err
		}
		logger.WithField("method", m.String()).Debug("lifted fixture method")
		return cfg.Build(body), nil
	}))

	graph, stats, err := driver.Analyze(root)
	if err != nil {
		log.Fatalf("analysis failed: %v", err)
	}
	log.Printf("%d methods analyzed, %d sweeps, %d call-graph edges added",
		stats.MethodsAnalyzed, stats.Sweeps, stats.EdgesAdded)

	reachable := driver.Reachable()
	log.Printf("%d reachable methods", len(reachable))
	for _, m := range reachable {
		info, _ := driver.Info(m)
		if info.Unknown {
			log.Printf("  %s (unknown, no body)", m.String())
			continue
		}
		log.Printf("  %s", m.String())
	}

	edges := 0
	for site, callees := range graph.Edges {
		edges += len(callees)
		for _, callee := range callees {
			log.Printf("  %s@%d -> %s", site.Caller.String(), site.Offset, callee.String())
		}
	}
	log.Printf("%d call-graph edges", edges)
}
