package entity

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestPoolInvariants drives the pool with random operation sequences and
// checks handle validity against a simple model.
func TestPoolInvariants(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping property-based test in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	properties.Property("keys stay valid until their destroy is committed", prop.ForAll(
		func(ops []int) bool {
			p, err := NewPool(WithReserve(1 << 20))
			if err != nil {
				return false
			}
			defer p.Close()

			var issued []Key
			dead := make(map[Key]bool)
			flagged := make(map[Key]bool)

			for _, op := range ops {
				switch op % 4 {
				case 0, 1:
					_, k := p.NewEntity()
					if dead[k] {
						return false
					}
					issued = append(issued, k)
				case 2:
					if len(issued) == 0 {
						continue
					}
					k := issued[(op/4)%len(issued)]
					if p.Destroy(k) != !dead[k] {
						return false
					}
					if !dead[k] {
						flagged[k] = true
					}
				case 3:
					if len(issued) > 1 {
						child := issued[(op/4)%len(issued)]
						parent := issued[(op/16)%len(issued)]
						_ = p.Mount(child, parent, 0)
					}
				}

				if op%7 == 0 {
					p.CommitDestroy()
					for _, k := range issued {
						_, ok := p.Lookup(k)
						if flagged[k] && ok {
							return false
						}
						if !ok {
							dead[k] = true
						}
					}
					clear(flagged)
				}

				live := 0
				for _, k := range issued {
					_, ok := p.Lookup(k)
					if ok && dead[k] {
						return false
					}
					if ok {
						live++
					}
				}
				if live != p.Live() {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 1<<12)),
	))

	properties.TestingRun(t)
}
