package pointing

import "math"

// GlideEngine tracks the last observed velocity at lift-off and, while
// the finger is off the pad, produces motion deltas that shrink under
// uniform deceleration until residual speed drops to <=1 unit/axis.
type GlideEngine struct {
	coef     float64
	v0       float64
	x, y     int16
	touching bool
	timer    uint16
	counter  uint16
	dx0, dy0 int8
}

// GlideResult is one tick's glide contribution.
type GlideResult struct {
	Dx, Dy int8
	Valid  bool
}

// Update records the latest per-tick velocity while the finger is on
// the pad, so glide has a direction and speed to carry into the next
// lift. Any new touchdown reaching here zeros dx0/dy0 naturally, since
// the orchestrator's relative-motion diff reports 0 on the first sample
// of a stroke.
func (g *GlideEngine) Update(dx, dy int8, touching bool) {
	g.dx0, g.dy0 = dx, dy
	g.touching = touching
}

// Start arms the glide at lift-off, computing the initial speed v0 from
// the last recorded (dx0, dy0). If v0 is zero the glide stays inactive
// instead of producing the original firmware's undefined 0/0 behavior.
func (g *GlideEngine) Start(cfg *Config, now uint16) GlideResult {
	g.coef = cfg.GlideCoef
	g.timer = now
	g.counter = 0
	g.v0 = math.Hypot(float64(g.dx0), float64(g.dy0))
	g.x, g.y = 0, 0
	g.touching = false

	if g.v0 == 0 {
		return GlideResult{}
	}
	dx, dy := g.tick(now)
	return GlideResult{Dx: dx, Dy: dy, Valid: true}
}

// Check advances an already-armed glide by one tick, provided the
// finger is still absent, glide has residual velocity, and at least
// GlideInterval has elapsed since the last tick.
func (g *GlideEngine) Check(cfg *Config, now uint16) GlideResult {
	interval := uint16(cfg.GlideInterval.Milliseconds())
	if g.touching || (g.dx0 == 0 && g.dy0 == 0) || elapsedMS(g.timer, now) < interval {
		return GlideResult{}
	}
	dx, dy := g.tick(now)
	return GlideResult{Dx: dx, Dy: dy, Valid: true}
}

// tick projects the uniform-deceleration position integral
// p(n) = v0*n - (coef/2)*n^2 onto the original direction and returns
// the integer difference from the previous tick's position. When both
// axes fall within [-1, +1] the velocity is zeroed, ending the glide on
// the next Check.
func (g *GlideEngine) tick(now uint16) (dx, dy int8) {
	g.counter++
	n := float64(g.counter)
	p := g.v0*n - g.coef*n*n/2

	x := int16(p * float64(g.dx0) / g.v0)
	y := int16(p * float64(g.dy0) / g.v0)

	dx = clamp8(int32(x) - int32(g.x))
	dy = clamp8(int32(y) - int32(g.y))

	if dx <= 1 && dx >= -1 && dy <= 1 && dy >= -1 {
		g.dx0 = 0
		g.dy0 = 0
	}

	g.x, g.y = x, y
	g.timer = now
	return dx, dy
}
