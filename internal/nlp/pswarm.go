package nlp

import (
	"math"
	"math/rand"
	"time"

	"github.com/san-kum/trajopt/internal/sym"
)

// PSwarm is a penalized particle-swarm backend. It is derivative-free
// and explores globally, but converges to low accuracy only: use it to
// produce rough starting points for auglag, not final solutions.
// Deterministic for a fixed "seed" option.
type PSwarm struct{}

func (p *PSwarm) Name() string    { return "pswarm" }
func (p *PSwarm) Available() bool { return true }

type particle struct {
	pos, vel  []float64
	best      []float64
	bestScore float64
}

func (ps *PSwarm) Solve(p *Problem, options map[string]any) (*Result, error) {
	start := time.Now()
	if err := p.validate(); err != nil {
		return nil, err
	}

	opts := subOptions(options, ps.Name())
	nParticles := optInt(opts, "particles", 40)
	maxIter := optInt(opts, "max_iter", 300)
	inertia := optFloat(opts, "inertia", 0.7)
	cognitive := optFloat(opts, "cognitive", 1.5)
	social := optFloat(opts, "social", 1.5)
	penalty := optFloat(opts, "penalty", 1e6)
	span := optFloat(opts, "fallback_range", 10)
	seed := optInt64(opts, "seed", 1)
	cb := iterCallback(options)

	rng := rand.New(rand.NewSource(seed))
	n := len(p.X)

	lo := make([]float64, n)
	hi := make([]float64, n)
	for i := range lo {
		lo[i], hi[i] = p.LBX[i], p.UBX[i]
		if math.IsInf(lo[i], -1) {
			lo[i] = p.X0[i] - span
		}
		if math.IsInf(hi[i], 1) {
			hi[i] = p.X0[i] + span
		}
	}

	val := make(sym.Valuation, n)
	score := func(x []float64) (obj, viol float64) {
		for i, v := range p.X {
			val[v] = x[i]
		}
		obj = p.F.Eval(val)
		for i, g := range p.G {
			gv := g.Eval(val)
			if d := p.LBG[i] - gv; d > 0 {
				viol += d * d
			}
			if d := gv - p.UBG[i]; d > 0 {
				viol += d * d
			}
		}
		return obj, viol
	}
	merit := func(x []float64) float64 {
		obj, viol := score(x)
		return obj + penalty*viol
	}

	swarm := make([]particle, nParticles)
	for k := range swarm {
		pt := particle{
			pos: make([]float64, n),
			vel: make([]float64, n),
		}
		for i := 0; i < n; i++ {
			if k == 0 {
				// Seed one particle at the supplied starting point.
				pt.pos[i] = math.Min(math.Max(p.X0[i], lo[i]), hi[i])
			} else {
				pt.pos[i] = lo[i] + rng.Float64()*(hi[i]-lo[i])
			}
			pt.vel[i] = (rng.Float64() - 0.5) * (hi[i] - lo[i]) * 0.1
		}
		pt.best = append([]float64(nil), pt.pos...)
		pt.bestScore = merit(pt.pos)
		swarm[k] = pt
	}

	gBest := append([]float64(nil), swarm[0].best...)
	gBestScore := swarm[0].bestScore
	for _, pt := range swarm[1:] {
		if pt.bestScore < gBestScore {
			gBestScore = pt.bestScore
			copy(gBest, pt.best)
		}
	}

	for iter := 0; iter < maxIter; iter++ {
		for k := range swarm {
			pt := &swarm[k]
			for i := 0; i < n; i++ {
				r1, r2 := rng.Float64(), rng.Float64()
				pt.vel[i] = inertia*pt.vel[i] +
					cognitive*r1*(pt.best[i]-pt.pos[i]) +
					social*r2*(gBest[i]-pt.pos[i])
				pt.pos[i] += pt.vel[i]
				if pt.pos[i] < lo[i] {
					pt.pos[i] = lo[i]
					pt.vel[i] = 0
				} else if pt.pos[i] > hi[i] {
					pt.pos[i] = hi[i]
					pt.vel[i] = 0
				}
			}
			m := merit(pt.pos)
			if m < pt.bestScore {
				pt.bestScore = m
				copy(pt.best, pt.pos)
				if m < gBestScore {
					gBestScore = m
					copy(gBest, pt.pos)
				}
			}
		}
		if cb != nil && iter%10 == 0 {
			obj, viol := score(gBest)
			cb(iter, obj, math.Sqrt(viol), 0)
		}
	}

	obj, viol := score(gBest)
	if !finiteVec(gBest) || math.IsNaN(obj) {
		return nil, ErrNumericalFailure
	}
	return &Result{
		X: gBest,
		Stats: map[string]any{
			"backend":              "pswarm",
			"status":               "max_iterations",
			"success":              false,
			"iterations":           maxIter,
			"particles":            nParticles,
			"objective":            obj,
			"constraint_violation": math.Sqrt(viol),
			"solve_time_ms":        float64(time.Since(start).Microseconds()) / 1000.0,
		},
	}, nil
}
