// Package kernel holds the shared geometry model of polyview: the Mesh and
// Image records, the Face triangle/quad variant, the per-face vector
// primitives used by culling and sorting, and mesh validation.
//
// It also defines the abstract solid-modelling Kernel used by scene
// scripts. Implementations (see the sdfx subpackage) build solids and
// tessellate them into a Mesh that feeds the same pipeline as a loaded
// mesh file.
package kernel

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract solid-modelling interface.
type Kernel interface {
	// Primitives, centred on the origin.
	Box(x, y, z float64) (Solid, error)
	Cylinder(height, radius float64) (Solid, error)
	Sphere(radius float64) (Solid, error)

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees

	// ToMesh tessellates a solid into outward-wound triangles.
	ToMesh(s Solid) (*Mesh, error)
}
