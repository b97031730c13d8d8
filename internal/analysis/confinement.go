package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/sominlee1211/simsopt/internal/tracing"
)

// LossTimes extracts, for each trajectory of an ensemble, the time of its
// terminal stopping-criterion event. Trajectories that ran to completion
// without a criterion firing report lost=false and their final sample time.
func LossTimes(results []*tracing.Result) (times []float64, lost []bool) {
	times = make([]float64, len(results))
	lost = make([]bool, len(results))
	for i, res := range results {
		if res == nil || len(res.Samples) == 0 {
			times[i] = math.NaN()
			continue
		}
		times[i] = res.Samples[len(res.Samples)-1].T
		for _, hit := range res.Hits {
			if hit.Kind < 0 {
				times[i] = hit.T
				lost[i] = true
				break
			}
		}
	}
	return times, lost
}

// ConfinementStat summarizes particle losses over an ensemble.
type ConfinementStat struct {
	Total        int
	Lost         int
	LossFraction float64

	// MeanLossTime and MedianLossTime are computed over lost particles
	// only and are NaN when nothing was lost.
	MeanLossTime   float64
	MedianLossTime float64
}

// Confinement computes loss statistics for an ensemble of traces.
func Confinement(results []*tracing.Result) ConfinementStat {
	times, lost := LossTimes(results)

	var lossTimes []float64
	for i, l := range lost {
		if l {
			lossTimes = append(lossTimes, times[i])
		}
	}

	st := ConfinementStat{
		Total:          len(results),
		Lost:           len(lossTimes),
		MeanLossTime:   math.NaN(),
		MedianLossTime: math.NaN(),
	}
	if st.Total > 0 {
		st.LossFraction = float64(st.Lost) / float64(st.Total)
	}
	if len(lossTimes) > 0 {
		st.MeanLossTime = stat.Mean(lossTimes, nil)
		sort.Float64s(lossTimes)
		st.MedianLossTime = stat.Quantile(0.5, stat.Empirical, lossTimes, nil)
	}
	return st
}

// LossFractionAt returns the fraction of particles lost by time t.
func LossFractionAt(times []float64, lost []bool, t float64) float64 {
	if len(times) == 0 {
		return 0
	}
	n := 0
	for i := range times {
		if lost[i] && times[i] <= t {
			n++
		}
	}
	return float64(n) / float64(len(times))
}
