package main

import (
	"math"
	"math/rand/v2"

	"github.com/hupe1980/enginecore"
	"github.com/hupe1980/enginecore/entity"
	"github.com/hupe1980/enginecore/xform"
)

// generateScene builds n spawn records. Roughly half of the records are
// mounted to an earlier record, so the scene forms a forest.
func generateScene(n int, seed uint64) []enginecore.SpawnRecord {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	records := make([]enginecore.SpawnRecord, n)

	for i := range records {
		rec := &records[i]
		rec.Local = randomTransform(rng)
		rec.Kind = uint32(rng.IntN(int(entity.KindPointLight) + 1)) //nolint:gosec // small range
		rec.Parent = -1
		rec.Flags = uint32(entity.FlagVisible)
		if rng.IntN(4) == 0 {
			rec.Flags |= uint32(entity.FlagCastShadows)
		}
		if i > 0 && rng.IntN(2) == 0 {
			rec.Parent = int32(rng.IntN(i)) //nolint:gosec // i < n
		}
	}
	return records
}

func randomTransform(rng *rand.Rand) xform.Transform {
	axis := xform.Vec3{X: rng.Float32() - 0.5, Y: rng.Float32() - 0.5, Z: rng.Float32() - 0.5}
	if axis.Length() == 0 {
		axis = xform.Vec3{Y: 1}
	}
	return xform.Transform{
		Position: xform.Vec3{X: rng.Float32()*100 - 50, Y: rng.Float32() * 10, Z: rng.Float32()*100 - 50},
		Rotation: xform.AxisAngle(axis, rng.Float32()*2*math.Pi),
		Scale:    xform.One,
	}
}
