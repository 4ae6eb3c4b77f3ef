package export

import (
	"fmt"

	"github.com/Faultbox/glarrays/pkg/encoding"
	"github.com/Faultbox/glarrays/pkg/formats"
	"github.com/Faultbox/glarrays/pkg/math"
	"github.com/Faultbox/glarrays/pkg/mesh"
)

// ResolveOptions controls how OBJ face vertices become mesh corners.
type ResolveOptions struct {
	// GenerateNormals substitutes the flat face normal for corners without a
	// normal reference instead of rejecting the object.
	GenerateNormals bool
	// DecodeName converts the raw object name. Nil means UTF-8.
	DecodeName encoding.NameDecoder
}

// ResolveObject turns OBJ object i into a mesh object with fully populated
// corners. A corner without a texture coordinate, or without a normal when
// normals are not generated, fails with mesh.ErrMissingAttribute.
func ResolveObject(obj *formats.OBJ, i int, opts ResolveOptions) (mesh.Object, error) {
	src := &obj.Objects[i]
	decode := opts.DecodeName
	if decode == nil {
		decode, _ = encoding.Decoder(encoding.UTF8)
	}

	out := mesh.Object{
		Name:  decode(src.Name),
		Faces: make([]mesh.Face, len(src.Faces)),
	}
	for fi, f := range src.Faces {
		corners := make([]mesh.Corner, len(f.Vertices))

		var flat math.Vec3
		if opts.GenerateNormals {
			flat = faceNormal(obj, f)
		}

		for ci, fv := range f.Vertices {
			if fv.TexCoord == formats.NoIndex {
				return mesh.Object{}, fmt.Errorf("object %q line %d corner %d: %w: no texture coordinate",
					out.Name, f.Line, ci, mesh.ErrMissingAttribute)
			}
			c := mesh.Corner{
				Position: obj.Positions[fv.Position],
				UV:       obj.TexCoords[fv.TexCoord],
			}
			switch {
			case fv.Normal != formats.NoIndex:
				c.Normal = obj.Normals[fv.Normal]
			case opts.GenerateNormals:
				c.Normal = flat
			default:
				return mesh.Object{}, fmt.Errorf("object %q line %d corner %d: %w: no normal",
					out.Name, f.Line, ci, mesh.ErrMissingAttribute)
			}
			corners[ci] = c
		}
		out.Faces[fi] = mesh.Face{Corners: corners}
	}
	return out, nil
}

// faceNormal returns the unit normal of the plane through the first three
// corners, or zero for faces that are too small or collinear.
func faceNormal(obj *formats.OBJ, f formats.OBJFace) math.Vec3 {
	if len(f.Vertices) < 3 {
		return math.Vec3{}
	}
	p0 := obj.Positions[f.Vertices[0].Position]
	p1 := obj.Positions[f.Vertices[1].Position]
	p2 := obj.Positions[f.Vertices[2].Position]
	return p1.Sub(p0).Cross(p2.Sub(p0)).Normalize()
}
