package goom_test

import (
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/goomengine/goom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pairKey struct {
	a, b *goom.RigidBody
}

func key(a, b *goom.RigidBody) pairKey {
	if a.ID > b.ID {
		a, b = b, a
	}
	return pairKey{a, b}
}

// checkTree verifies the structure of tree: parent links, enclosing volumes and leaf handles.
func checkTree(t *testing.T, tree *goom.BVH) {
	t.Helper()
	if tree.Count() == 0 {
		assert.Equal(t, goom.NilNode, tree.Root())
		assert.Zero(t, tree.NodeCount())
		return
	}
	assert.Equal(t, goom.NilNode, tree.Parent(tree.Root()))

	leaves, nodes := 0, 0
	tree.EachNode(func(id goom.NodeID) {
		nodes++
		require.True(t, tree.Valid(id))
		if tree.IsLeaf(id) {
			leaves++
			body := tree.Body(id)
			require.NotNil(t, body)
			assert.Equal(t, id, body.Node())
			return
		}
		assert.Nil(t, tree.Body(id))
		for _, child := range tree.Children(id) {
			require.True(t, tree.Valid(child))
			assert.Equal(t, id, tree.Parent(child))
			assert.True(t, tree.Volume(id).Encloses(tree.Volume(child), 1e-9),
				"node %d does not enclose child %d", id, child)
		}
	})
	assert.Equal(t, tree.Count(), leaves)
	assert.Equal(t, tree.NodeCount(), nodes)
	assert.Equal(t, 2*leaves-1, nodes)
}

func randomBodies(tree *goom.BVH, n int, seed int64) []*goom.RigidBody {
	rng := rand.New(rand.NewSource(seed))
	bodies := make([]*goom.RigidBody, n)
	for i := range bodies {
		body := goom.NewRigidBody(1)
		body.ID = string(rune('A' + i))
		body.SetPosition(mgl64.Vec3{rng.Float64() * 10, rng.Float64() * 10, rng.Float64() * 10})
		tree.Insert(body, goom.NewBoundingSphere(body.Position(), 0.5+rng.Float64()))
		bodies[i] = body
	}
	return bodies
}

func bruteForcePairs(tree *goom.BVH, bodies []*goom.RigidBody) map[pairKey]bool {
	pairs := map[pairKey]bool{}
	for i, a := range bodies {
		for _, b := range bodies[i+1:] {
			if tree.Volume(a.Node()).Overlaps(tree.Volume(b.Node())) {
				pairs[key(a, b)] = true
			}
		}
	}
	return pairs
}

func TestBVHEmpty(t *testing.T) {
	tree := goom.NewBVH()
	checkTree(t, tree)

	pairs, n := tree.AllPotentialContacts(nil, 10)
	assert.Empty(t, pairs)
	assert.Zero(t, n)
	pairs, n = tree.PotentialContacts(nil, 10)
	assert.Empty(t, pairs)
	assert.Zero(t, n)
}

func TestBVHInsertSplitsLeaf(t *testing.T) {
	tree := goom.NewBVH()
	a := goom.NewRigidBody(1)
	b := goom.NewRigidBody(1)
	b.SetPosition(mgl64.Vec3{3, 0, 0})

	tree.Insert(a, goom.NewBoundingSphere(a.Position(), 1))
	assert.Equal(t, a.Node(), tree.Root())
	assert.True(t, tree.IsLeaf(tree.Root()))

	tree.Insert(b, goom.NewBoundingSphere(b.Position(), 1))
	root := tree.Root()
	assert.False(t, tree.IsLeaf(root))
	children := tree.Children(root)
	assert.Same(t, a, tree.Body(children[0]))
	assert.Same(t, b, tree.Body(children[1]))
	assert.Equal(t, children[1], tree.Other(children[0]))

	volume := tree.Volume(root)
	assertVec(t, mgl64.Vec3{1.5, 0, 0}, volume.Center, delta)
	assert.InDelta(t, 2.5, volume.Radius, delta)
	checkTree(t, tree)
}

func TestBVHInsertDescendsByGrowth(t *testing.T) {
	tree := goom.NewBVH()
	a := goom.NewRigidBody(1)
	b := goom.NewRigidBody(1)
	b.SetPosition(mgl64.Vec3{10, 0, 0})
	c := goom.NewRigidBody(1)
	c.SetPosition(mgl64.Vec3{10.5, 0, 0})

	for _, body := range []*goom.RigidBody{a, b, c} {
		tree.Insert(body, goom.NewBoundingSphere(body.Position(), 1))
	}
	assert.Equal(t, tree.Parent(b.Node()), tree.Parent(c.Node()))
	assert.Equal(t, tree.Root(), tree.Parent(a.Node()))
	checkTree(t, tree)
}

func TestBVHStructure(t *testing.T) {
	tree := goom.NewBVH()
	randomBodies(tree, 40, 1)
	assert.Equal(t, 40, tree.Count())
	checkTree(t, tree)

	var seen int
	tree.Each(func(body *goom.RigidBody) { seen++ })
	assert.Equal(t, 40, seen)
}

func TestBVHAllPotentialContactsComplete(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		tree := goom.NewBVH()
		bodies := randomBodies(tree, 30, seed)

		want := bruteForcePairs(tree, bodies)
		pairs, n := tree.AllPotentialContacts(nil, 10000)
		assert.Equal(t, len(pairs), n)

		got := map[pairKey]bool{}
		for _, p := range pairs {
			k := key(p.A, p.B)
			assert.False(t, got[k], "pair %s %s reported twice", p.A.ID, p.B.ID)
			got[k] = true
		}
		assert.Equal(t, want, got, "seed %d", seed)
	}
}

func TestBVHPotentialContactsAcrossRoot(t *testing.T) {
	tree := goom.NewBVH()
	bodies := randomBodies(tree, 30, 3)
	all := bruteForcePairs(tree, bodies)

	pairs, _ := tree.PotentialContacts(nil, 10000)
	for _, p := range pairs {
		assert.True(t, all[key(p.A, p.B)])
	}
	assert.LessOrEqual(t, len(pairs), len(all))
}

func TestBVHPotentialContactsLimit(t *testing.T) {
	tree := goom.NewBVH()
	for i := range 6 {
		body := goom.NewRigidBody(1)
		body.SetPosition(mgl64.Vec3{float64(i) * 0.1, 0, 0})
		tree.Insert(body, goom.NewBoundingSphere(body.Position(), 1))
	}

	pairs, n := tree.AllPotentialContacts(nil, 4)
	assert.Len(t, pairs, 4)
	assert.Equal(t, 4, n)

	pairs, n = tree.AllPotentialContacts(nil, 0)
	assert.Empty(t, pairs)
	assert.Zero(t, n)

	pairs, n = tree.AllPotentialContacts(nil, 100)
	assert.Len(t, pairs, 15)
	assert.Equal(t, 15, n)
}

func TestBVHTouchingVolumesDoNotPair(t *testing.T) {
	tree := goom.NewBVH()
	a := goom.NewRigidBody(1)
	b := goom.NewRigidBody(1)
	b.SetPosition(mgl64.Vec3{2, 0, 0})
	tree.Insert(a, goom.NewBoundingSphere(a.Position(), 1))
	tree.Insert(b, goom.NewBoundingSphere(b.Position(), 1))

	pairs, _ := tree.PotentialContacts(nil, 10)
	assert.Empty(t, pairs)
}

func TestBVHRemove(t *testing.T) {
	tree := goom.NewBVH()
	bodies := randomBodies(tree, 20, 2)

	for i, body := range bodies {
		if i%2 == 0 {
			require.True(t, tree.Remove(body))
			assert.Equal(t, goom.NilNode, body.Node())
			assert.False(t, tree.Remove(body))
		}
	}
	assert.Equal(t, 10, tree.Count())
	checkTree(t, tree)

	var kept []*goom.RigidBody
	for i, body := range bodies {
		if i%2 == 1 {
			kept = append(kept, body)
		}
	}
	pairs, _ := tree.AllPotentialContacts(nil, 10000)
	assert.Len(t, pairs, len(bruteForcePairs(tree, kept)))
}

func TestBVHRemoveLast(t *testing.T) {
	tree := goom.NewBVH()
	body := goom.NewRigidBody(1)
	tree.Insert(body, goom.NewBoundingSphere(body.Position(), 1))

	require.True(t, tree.Remove(body))
	checkTree(t, tree)

	// freed slots are reused
	tree.Insert(body, goom.NewBoundingSphere(body.Position(), 1))
	assert.Equal(t, 1, tree.NodeCount())
	checkTree(t, tree)
}

func TestBVHFreeSubtree(t *testing.T) {
	tree := goom.NewBVH()
	bodies := randomBodies(tree, 8, 4)

	root := tree.Root()
	sub := tree.Children(root)[0]
	var inside int
	tree.EachNode(func(id goom.NodeID) {
		for n := id; n != goom.NilNode; n = tree.Parent(n) {
			if n == sub && tree.IsLeaf(id) {
				inside++
				break
			}
		}
	})

	tree.Free(sub)
	assert.Equal(t, 8-inside, tree.Count())
	checkTree(t, tree)

	var dropped int
	for _, body := range bodies {
		if body.Node() == goom.NilNode {
			dropped++
		}
	}
	assert.Equal(t, inside, dropped)
}

func TestBVHFreeStaleHandle(t *testing.T) {
	tree := goom.NewBVH()
	bodies := randomBodies(tree, 6, 5)

	id := bodies[0].Node()
	tree.Free(id)
	checkTree(t, tree)
	count, nodes := tree.Count(), tree.NodeCount()

	tree.Free(id)
	tree.Free(goom.NilNode)
	tree.Free(goom.NodeID(1000))
	assert.Equal(t, count, tree.Count())
	assert.Equal(t, nodes, tree.NodeCount())
	checkTree(t, tree)
}

func TestBVHMovingBodies(t *testing.T) {
	tree := goom.NewBVH()
	bodies := randomBodies(tree, 25, 5)
	rng := rand.New(rand.NewSource(9))

	for range 10 {
		for _, body := range bodies {
			body.SetPosition(body.Position().Add(mgl64.Vec3{rng.Float64() - 0.5, rng.Float64() - 0.5, rng.Float64() - 0.5}.Mul(4)))
		}
		checkTree(t, tree)
	}
	for _, body := range bodies {
		assertVec(t, body.Position(), tree.Volume(body.Node()).Center, 0)
	}

	want := bruteForcePairs(tree, bodies)
	pairs, _ := tree.AllPotentialContacts(nil, 10000)
	assert.Len(t, pairs, len(want))
}
