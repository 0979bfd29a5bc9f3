package enginecore

import (
	"fmt"

	"github.com/hupe1980/enginecore/blob"
	"github.com/hupe1980/enginecore/entity"
	"github.com/hupe1980/enginecore/xform"
)

// SpawnRecord is one entity of a scene blob.
type SpawnRecord struct {
	// Local is relative to the parent record, or to the world for roots.
	Local xform.Transform
	// Kind is an entity.Kind.
	Kind uint32
	// Parent is the index of the mount parent record, or -1. Parents
	// precede their children.
	Parent int32
	Bone   uint32
	// Flags holds entity.FlagVisible and entity.FlagCastShadows.
	Flags uint32
}

const spawnFlags = entity.FlagVisible | entity.FlagCastShadows

// PackScene encodes records as a scene blob.
func PackScene(records []SpawnRecord, codec blob.Codec) ([]byte, error) {
	for i := range records {
		if err := validateSpawn(records, i); err != nil {
			return nil, err
		}
	}
	return blob.Encode(records, codec)
}

// Spawn creates the entities of a scene blob and returns their keys in
// record order. The records are decoded into scratch memory. Nothing is
// created if any record is invalid.
func (c *Core) Spawn(data []byte) ([]entity.Key, error) {
	if c.closed {
		return nil, ErrClosed
	}
	r, err := blob.Open(data)
	if err != nil {
		return nil, err
	}

	scratch := c.Scratch()
	defer scratch.Release()

	records, err := blob.Records[SpawnRecord](r, scratch.Arena())
	if err != nil {
		return nil, err
	}
	for i := range records {
		if err := validateSpawn(records, i); err != nil {
			return nil, err
		}
	}

	pool := c.entities
	keys := make([]entity.Key, len(records))
	for i := range records {
		rec := &records[i]

		var e *entity.Entity
		switch entity.Kind(rec.Kind) {
		case entity.KindCamera:
			e, _, keys[i] = pool.NewCamera()
		case entity.KindPlayer:
			e, _, keys[i] = pool.NewPlayer()
		case entity.KindPointLight:
			e, _, keys[i] = pool.NewPointLight()
		default:
			e, keys[i] = pool.NewEntity()
		}

		e.Local = rec.Local
		e.Flags = entity.Flags(rec.Flags) & spawnFlags
		if rec.Parent >= 0 {
			// Parents precede children, so the hierarchy stays acyclic.
			e.MountKey = keys[rec.Parent]
			e.MountBone = entity.BoneID(rec.Bone)
		}
	}

	c.logger.Debug("scene spawned", "entities", len(keys), "codec", r.Header().Codec.String())
	return keys, nil
}

func validateSpawn(records []SpawnRecord, i int) error {
	rec := &records[i]
	if rec.Kind > uint32(entity.KindPointLight) {
		return &SpawnError{Index: i, cause: fmt.Errorf("unknown kind %d", rec.Kind)}
	}
	if rec.Parent < -1 || int(rec.Parent) >= i {
		return &SpawnError{Index: i, cause: fmt.Errorf("parent %d does not precede the record", rec.Parent)}
	}
	if rec.Parent < 0 && rec.Bone != 0 {
		return &SpawnError{Index: i, cause: fmt.Errorf("bone %d without parent", rec.Bone)}
	}
	return nil
}
