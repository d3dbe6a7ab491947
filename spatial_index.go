package goom

// SpatialIndexer is an interface for broad-phase indexing of rigid bodies.
// It is implemented by the BVH structure, which organizes bodies in a
// bounding sphere hierarchy.
type SpatialIndexer interface {
	// Count returns the number of bodies currently stored in the index.
	Count() int

	// Each iterates over all bodies in the spatial index, applying
	// the provided function `f` to each body.
	Each(f func(body *RigidBody))

	// Insert adds body with its bounding volume to the index.
	Insert(body *RigidBody, volume BoundingSphere)

	// Remove deletes body from the index, if it exists.
	Remove(body *RigidBody) bool

	// Update refreshes the position of body in the index after a pose change.
	Update(body *RigidBody)

	// PotentialContacts appends overlapping body pairs across the top split of the index.
	PotentialContacts(out []PotentialContact, limit int) ([]PotentialContact, int)

	// AllPotentialContacts appends every overlapping body pair in the index.
	AllPotentialContacts(out []PotentialContact, limit int) ([]PotentialContact, int)
}

var _ SpatialIndexer = (*BVH)(nil)

// GetTree returns the index as a BVH, nil if it is another implementation.
func GetTree(index SpatialIndexer) *BVH {
	if index == nil {
		return nil
	}
	tree, _ := index.(*BVH)
	return tree
}
