package kernel

import v3 "github.com/deadsy/sdfx/vec/v3"

// Centroid returns the per-axis mean of the face's vertices.
func Centroid(f Face, vertices map[int]v3.Vec) v3.Vec {
	var sum v3.Vec
	n := f.Arity()
	for i := 0; i < n; i++ {
		sum = sum.Add(vertices[f.ids[i]])
	}
	return sum.DivScalar(float64(n))
}

// Normal returns (v1-v0) x (v2-v0) over the first three listed vertices.
// Quads are assumed planar. The result is not normalised; callers only
// use the sign of dot products against it.
func Normal(f Face, vertices map[int]v3.Vec) v3.Vec {
	v0 := vertices[f.ids[0]]
	edge1 := vertices[f.ids[1]].Sub(v0)
	edge2 := vertices[f.ids[2]].Sub(v0)
	return edge1.Cross(edge2)
}

// Dot returns the dot product of u and v.
func Dot(u, v v3.Vec) float64 {
	return u.Dot(v)
}
