package goom

// NodeID is a handle to a node of a BVH.
// A handle is invalidated when its node is freed; freed slots are reused.
type NodeID int32

// NilNode is the invalid handle.
const NilNode NodeID = -1

type nodeState uint8

const (
	nodeFreed nodeState = iota
	nodeLeaf
	nodeInternal
)

// Node is a BVH node. Leaves hold exactly one body, internal nodes exactly two children.
type Node struct {
	volume   BoundingSphere
	body     *RigidBody
	parent   NodeID
	children [2]NodeID
	state    nodeState
}

// BVH is a bounding sphere hierarchy over rigid bodies used for broad-phase culling.
//
// Nodes live in an arena and are addressed by NodeID. Bodies keep the handle
// of their leaf so a pose change can move the leaf without a search.
type BVH struct {
	// nodes is the arena. Freed slots are threaded into pooledNodes through their parent field.
	nodes []Node
	// root is the root node or NilNode when the tree is empty.
	root NodeID
	// pooledNodes is the head of the free list.
	pooledNodes NodeID
	leaves      int
	live        int
}

// NewBVH returns an empty hierarchy.
func NewBVH() *BVH {
	return &BVH{
		root:        NilNode,
		pooledNodes: NilNode,
	}
}

// Count returns the number of bodies in the tree.
func (t *BVH) Count() int {
	return t.leaves
}

// NodeCount returns the number of live nodes.
func (t *BVH) NodeCount() int {
	return t.live
}

// Root returns the root handle, NilNode if the tree is empty.
func (t *BVH) Root() NodeID {
	return t.root
}

// Valid reports whether id addresses a live node.
func (t *BVH) Valid(id NodeID) bool {
	return id >= 0 && int(id) < len(t.nodes) && t.nodes[id].state != nodeFreed
}

// IsLeaf returns true if the node holds a body.
func (t *BVH) IsLeaf(id NodeID) bool {
	return t.nodes[id].state == nodeLeaf
}

// IsRoot returns true if the node has no parent.
func (t *BVH) IsRoot(id NodeID) bool {
	return t.nodes[id].parent == NilNode
}

func (t *BVH) Volume(id NodeID) BoundingSphere {
	return t.nodes[id].volume
}

func (t *BVH) Body(id NodeID) *RigidBody {
	return t.nodes[id].body
}

func (t *BVH) Parent(id NodeID) NodeID {
	return t.nodes[id].parent
}

// Children returns both children of an internal node, NilNode for a leaf.
func (t *BVH) Children(id NodeID) [2]NodeID {
	return t.nodes[id].children
}

// Other returns the sibling of child.
func (t *BVH) Other(child NodeID) NodeID {
	parent := t.nodes[child].parent
	if t.nodes[parent].children[0] == child {
		return t.nodes[parent].children[1]
	}
	return t.nodes[parent].children[0]
}

// Overlaps returns true if the volumes of a and b overlap.
func (t *BVH) Overlaps(a, b NodeID) bool {
	return t.nodes[a].volume.Overlaps(t.nodes[b].volume)
}

// Each calls f for every body in the tree.
func (t *BVH) Each(f func(body *RigidBody)) {
	t.EachNode(func(id NodeID) {
		if t.IsLeaf(id) {
			f(t.nodes[id].body)
		}
	})
}

// EachNode calls f for every live node, parents before children.
func (t *BVH) EachNode(f func(id NodeID)) {
	if t.root == NilNode {
		return
	}
	stack := []NodeID{t.root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		f(id)
		if t.nodes[id].state == nodeInternal {
			stack = append(stack, t.nodes[id].children[1], t.nodes[id].children[0])
		}
	}
}

func (t *BVH) NodeFromPool() NodeID {
	id := t.pooledNodes
	t.live++

	if id != NilNode {
		t.pooledNodes = t.nodes[id].parent
		return id
	}

	t.nodes = append(t.nodes, Node{})
	return NodeID(len(t.nodes) - 1)
}

func (t *BVH) RecycleNode(id NodeID) {
	t.nodes[id] = Node{
		parent:   t.pooledNodes,
		children: [2]NodeID{NilNode, NilNode},
		state:    nodeFreed,
	}
	t.pooledNodes = id
	t.live--
}

func (t *BVH) NewLeaf(parent NodeID, body *RigidBody, volume BoundingSphere) NodeID {
	id := t.NodeFromPool()
	t.nodes[id] = Node{
		volume:   volume,
		body:     body,
		parent:   parent,
		children: [2]NodeID{NilNode, NilNode},
		state:    nodeLeaf,
	}
	body.bvh = t
	body.node = id
	return id
}

// Insert adds body with its bounding volume to the tree.
func (t *BVH) Insert(body *RigidBody, volume BoundingSphere) {
	if t.root == NilNode {
		t.root = t.NewLeaf(NilNode, body, volume)
		t.leaves++
		return
	}
	t.InsertAt(t.root, body, volume)
}

// InsertAt inserts body below id. Internal nodes descend into the child with the
// smaller growth cost, the first child on ties. A leaf is split: its body moves
// into a new first child and the new body into a second child.
func (t *BVH) InsertAt(id NodeID, body *RigidBody, volume BoundingSphere) {
	for t.nodes[id].state == nodeInternal {
		c := t.nodes[id].children
		if t.nodes[c[1]].volume.GrowthCost(volume) < t.nodes[c[0]].volume.GrowthCost(volume) {
			id = c[1]
		} else {
			id = c[0]
		}
	}

	old := t.nodes[id]
	a := t.NewLeaf(id, old.body, old.volume)
	b := t.NewLeaf(id, body, volume)

	node := &t.nodes[id]
	node.body = nil
	node.state = nodeInternal
	node.children = [2]NodeID{a, b}
	t.leaves++

	t.refit(id)
}

// refit recomputes the volumes from id up to the root.
func (t *BVH) refit(id NodeID) {
	for node := id; node != NilNode; node = t.nodes[node].parent {
		c := t.nodes[node].children
		t.nodes[node].volume = EnclosingSphere(t.nodes[c[0]].volume, t.nodes[c[1]].volume)
	}
}

// Free detaches id from the tree and releases its subtree.
//
// On a non-root node the sibling is promoted into the parent's slot: the parent
// takes the sibling's volume, body and children. Freeing the root empties the
// tree. Invalid handles are ignored.
func (t *BVH) Free(id NodeID) {
	if !t.Valid(id) {
		return
	}
	parent := t.nodes[id].parent

	if parent != NilNode {
		sib := t.Other(id)
		s := t.nodes[sib]

		p := &t.nodes[parent]
		p.volume = s.volume
		p.body = s.body
		p.children = s.children
		p.state = s.state

		if s.body != nil {
			s.body.node = parent
		}
		for _, c := range s.children {
			if c != NilNode {
				t.nodes[c].parent = parent
			}
		}
		t.RecycleNode(sib)
	} else {
		t.root = NilNode
	}
	t.release(id)
}

// release recycles id and everything below it without touching the rest of the tree.
func (t *BVH) release(id NodeID) {
	node := t.nodes[id]
	if node.state == nodeInternal {
		t.release(node.children[0])
		t.release(node.children[1])
	}
	if node.state == nodeLeaf {
		t.leaves--
		if node.body.node == id {
			node.body.node = NilNode
			node.body.bvh = nil
		}
	}
	t.RecycleNode(id)
}

// Remove takes body out of the tree. It returns false if body is not in this tree.
func (t *BVH) Remove(body *RigidBody) bool {
	if body.bvh != t || !t.Valid(body.node) {
		return false
	}
	t.Free(body.node)
	return true
}

// Update moves the leaf of body after a pose change.
func (t *BVH) Update(body *RigidBody) {
	if body.bvh == t && t.Valid(body.node) {
		t.UpdateHierarchy(body.node)
	}
}

// UpdateHierarchy refreshes the position of leaf id from its body. A non-root
// leaf is unlinked and handed to its old parent for reinsertion.
func (t *BVH) UpdateHierarchy(id NodeID) {
	node := &t.nodes[id]
	if node.state != nodeLeaf {
		return
	}
	node.volume.Center = node.body.position
	if node.parent == NilNode {
		return
	}

	body, volume, parent := node.body, node.volume, node.parent
	t.Free(id)
	t.Reinsert(parent, body, volume)
}

// Reinsert walks up from id until a node holds volume without growing, or the
// root is reached, and inserts body there.
func (t *BVH) Reinsert(id NodeID, body *RigidBody, volume BoundingSphere) {
	for {
		node := t.nodes[id]
		if node.volume.GrowthCost(volume) <= 0 || node.parent == NilNode {
			t.InsertAt(id, body, volume)
			return
		}
		id = node.parent
	}
}

// PotentialContacts appends the overlapping body pairs found between the two
// children of the root, at most limit of them.
func (t *BVH) PotentialContacts(out []PotentialContact, limit int) ([]PotentialContact, int) {
	if t.root == NilNode {
		return out, 0
	}
	return t.NodePotentialContacts(t.root, out, limit)
}

// NodePotentialContacts appends the overlapping pairs between the children of id.
func (t *BVH) NodePotentialContacts(id NodeID, out []PotentialContact, limit int) ([]PotentialContact, int) {
	if t.nodes[id].state != nodeInternal || limit <= 0 {
		return out, 0
	}
	c := t.nodes[id].children
	return t.PotentialContactsWith(c[0], c[1], out, limit)
}

// PotentialContactsWith appends the overlapping leaf pairs of the subtrees a and b.
// The larger volume is split first.
func (t *BVH) PotentialContactsWith(a, b NodeID, out []PotentialContact, limit int) ([]PotentialContact, int) {
	if limit <= 0 || !t.Overlaps(a, b) {
		return out, 0
	}

	na, nb := t.nodes[a], t.nodes[b]
	if na.state == nodeLeaf && nb.state == nodeLeaf {
		return append(out, PotentialContact{na.body, nb.body}), 1
	}

	var count, n int
	if nb.state == nodeLeaf || (na.state != nodeLeaf && na.volume.Size() >= nb.volume.Size()) {
		out, count = t.PotentialContactsWith(na.children[0], b, out, limit)
		if limit > count {
			out, n = t.PotentialContactsWith(na.children[1], b, out, limit-count)
			count += n
		}
	} else {
		out, count = t.PotentialContactsWith(a, nb.children[0], out, limit)
		if limit > count {
			out, n = t.PotentialContactsWith(a, nb.children[1], out, limit-count)
			count += n
		}
	}
	return out, count
}

// AllPotentialContacts appends the overlapping pairs of every internal node,
// so pairs inside the same subtree are reported too.
func (t *BVH) AllPotentialContacts(out []PotentialContact, limit int) ([]PotentialContact, int) {
	if t.root == NilNode {
		return out, 0
	}
	return t.subtreePairs(t.root, out, limit)
}

func (t *BVH) subtreePairs(id NodeID, out []PotentialContact, limit int) ([]PotentialContact, int) {
	if t.nodes[id].state != nodeInternal || limit <= 0 {
		return out, 0
	}
	c := t.nodes[id].children
	out, count := t.PotentialContactsWith(c[0], c[1], out, limit)
	for _, child := range c {
		if limit <= count {
			break
		}
		var n int
		out, n = t.subtreePairs(child, out, limit-count)
		count += n
	}
	return out, count
}
