package lookahead

import (
	"context"
	"time"

	"github.com/sourcegraph/conc"
	"github.com/travigo/lookahead/pkg/util"
)

type TimetableMaintainer interface {
	GenerateTimetablesOfAllBusLines(ctx context.Context) error
	UpdateTimetablesOfAllBusLines(ctx context.Context) error
}

// Supervisor keeps timetables fresh with two independent loops, one replanning every line and one
// applying current travel times to the stored trips
type Supervisor struct {
	Maintainer TimetableMaintainer

	GeneratorPeriod       time.Duration
	GeneratorMaxOperation time.Duration
	UpdaterPeriod         time.Duration
	UpdaterMaxOperation   time.Duration
}

func (s *Supervisor) Run(ctx context.Context) {
	var wg conc.WaitGroup

	wg.Go(func() {
		util.RunPeriodically(ctx, "generator", s.GeneratorPeriod, s.GeneratorMaxOperation, s.Maintainer.GenerateTimetablesOfAllBusLines)
	})
	wg.Go(func() {
		util.RunPeriodically(ctx, "updater", s.UpdaterPeriod, s.UpdaterMaxOperation, s.Maintainer.UpdateTimetablesOfAllBusLines)
	})

	wg.Wait()
}
