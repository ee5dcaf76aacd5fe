package system

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	name  string
	phase Phase
	log   *[]string
	seen  []Tick
}

func (r *recorder) Phase() Phase { return r.phase }
func (r *recorder) Update(t Tick) {
	*r.log = append(*r.log, r.name)
	r.seen = append(r.seen, t)
}

func TestRunnerOrdersByPhase(t *testing.T) {
	var log []string
	effects := &recorder{name: "effects", phase: PhaseEffects, log: &log}
	move := &recorder{name: "move", phase: PhaseMovement, log: &log}
	cast := &recorder{name: "cast", phase: PhaseCast, log: &log}
	input := &recorder{name: "input", phase: PhaseInput, log: &log}

	r := NewRunner()
	r.Register(effects)
	r.Register(move)
	r.Register(cast)
	r.Register(input)

	now := time.Unix(1000, 0)
	tick := r.Tick(now)

	assert.Equal(t, []string{"input", "move", "cast", "effects"}, log)
	assert.Equal(t, uint64(1), tick.Seq)
	for _, rec := range []*recorder{effects, move, cast, input} {
		assert.Equal(t, now, rec.seen[0].Now, "%s saw a different clock sample", rec.name)
	}
}

func TestRunnerSequence(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(&recorder{name: "a", phase: PhaseOutput, log: &log})
	r.Tick(time.Unix(0, 0))
	r.Tick(time.Unix(0, 0))
	assert.Equal(t, uint64(2), r.Seq())
}
