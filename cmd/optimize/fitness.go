package main

import (
	"context"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/protosoup/config"
	"github.com/pthm-cable/protosoup/game"
	"github.com/pthm-cable/protosoup/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	ctx        context.Context
	params     *ParamVector
	maxTicks   int32
	seeds      []int64
	baseConfig *config.Config

	mu          sync.Mutex
	bestFitness float64
	bestStats   telemetry.WindowStats // last window of the best seed of the best evaluation
	lastQuality float64               // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator. Runs stop early once ctx is done.
func NewFitnessEvaluator(ctx context.Context, params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		ctx:         ctx,
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		bestFitness: math.Inf(1),
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// BestStats returns the final stats window of the best run so far.
func (fe *FitnessEvaluator) BestStats() telemetry.WindowStats {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestStats
}

// runResult holds the results from a single simulation run.
type runResult struct {
	survivalTicks int32                   // ticks until no live vesicle remained (or maxTicks)
	windowStats   []telemetry.WindowStats // collected via the stats callback each window
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness float64
	quality float64
	last    telemetry.WindowStats
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Seeds run concurrently, each on its own Simulation.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			result := fe.runSimulation(x, s)
			r := seedResult{
				fitness: fe.computeFitness(result),
				quality: computeQuality(result.windowStats),
			}
			if n := len(result.windowStats); n > 0 {
				r.last = result.windowStats[n-1]
			}
			results[idx] = r
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalQuality float64
	bestSeed := 0
	for i, r := range results {
		totalFitness += r.fitness
		totalQuality += r.quality
		if r.fitness < results[bestSeed].fitness {
			bestSeed = i
		}
	}

	n := float64(len(fe.seeds))
	avgFitness := totalFitness / n

	fe.mu.Lock()
	if avgFitness < fe.bestFitness && len(results) > 0 {
		fe.bestFitness = avgFitness
		fe.bestStats = results[bestSeed].last
	}
	fe.lastQuality = totalQuality / n
	fe.mu.Unlock()

	return avgFitness
}

// runSimulation executes a single headless run until every vesicle is dead or
// maxTicks is reached, whichever comes first.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) *runResult {
	cfg := fe.baseConfig.Clone()
	fe.params.ApplyToConfig(cfg, x)

	result := &runResult{survivalTicks: fe.maxTicks}

	g, err := game.NewGame(fe.ctx, cfg, game.Options{
		Seed:           seed,
		Headless:       true,
		StepsPerUpdate: 1,
	})
	if err != nil {
		result.survivalTicks = 0
		return result
	}
	defer g.Unload()

	extinct := false
	g.SetStatsCallback(func(stats telemetry.WindowStats) {
		result.windowStats = append(result.windowStats, stats)
		if stats.LiveVesicles == 0 {
			extinct = true
		}
	})

	for g.Tick() < fe.maxTicks && fe.ctx.Err() == nil {
		g.UpdateHeadless()
		if extinct {
			result.survivalTicks = g.Tick()
			break
		}
	}
	return result
}

// computeFitness calculates the scalar fitness (lower = better).
// Formula: -(survivalTicks × (1.0 + quality))
// Survival dominates until runs start reaching maxTicks, then quality
// separates the configs that keep dividing.
func (fe *FitnessEvaluator) computeFitness(r *runResult) float64 {
	survival := float64(r.survivalTicks)
	return -(survival * (1.0 + computeQuality(r.windowStats)))
}

// Quality component weights.
const (
	qualityWeightDivision  = 0.40
	qualityWeightLive      = 0.25
	qualityWeightStability = 0.20
	qualityWeightAccept    = 0.15

	qualityWarmupWindows = 2 // skip first N windows (warmup)
)

// computeQuality scores a run ∈ [0, 1] from its stats windows. It rewards
// steady division, a sustained live population and a moderate absorption
// acceptance rate.
func computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}
	valid := windows[qualityWarmupWindows:]

	var divSum, acceptSum float64
	var acceptCount int
	live := make([]float64, 0, len(valid))
	initial := float64(windows[0].LiveVesicles + windows[0].DeadVesicles)

	for _, w := range valid {
		live = append(live, float64(w.LiveVesicles))

		// 1. Division activity, saturating at a few divisions per window
		divSum += 1.0 - math.Exp(-float64(w.Divisions)/2.0)

		// 4. Acceptance close to one half
		if w.Absorptions+w.Rejections > 0 {
			acceptSum += math.Exp(-math.Pow((w.AbsorptionAcceptRate-0.5)/0.25, 2))
			acceptCount++
		}
	}

	n := float64(len(valid))
	divScore := divSum / n

	// 2. Live population relative to the starting vesicle count
	liveScore := 0.0
	if initial > 0 {
		liveScore = clamp01(stat.Mean(live, nil) / initial)
	}

	// 3. Stability of the live count
	stabilityScore := 0.0
	if len(live) >= 2 {
		c := cv(live)
		stabilityScore = math.Exp(-c * c)
	}

	acceptScore := 0.0
	if acceptCount > 0 {
		acceptScore = acceptSum / float64(acceptCount)
	}

	quality := qualityWeightDivision*divScore +
		qualityWeightLive*liveScore +
		qualityWeightStability*stabilityScore +
		qualityWeightAccept*acceptScore

	return clamp01(quality)
}

// cv computes the coefficient of variation (std/mean) for a slice of values.
func cv(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean, std := stat.PopMeanStdDev(values, nil)
	if mean == 0 {
		return 0
	}
	return std / mean
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	return min(max(x, 0), 1)
}
