package similarity

// UnionFind is a path-compressing disjoint-set forest over dense
// integer indexes. Union keeps the smaller root, so component
// identity is deterministic regardless of the order pairs arrive in.
type UnionFind struct {
	parent []int
}

func NewUnionFind(size int) *UnionFind {
	parent := make([]int, size)
	for i := range parent {
		parent[i] = i
	}
	return &UnionFind{parent: parent}
}

func (u *UnionFind) Find(index int) int {
	root := index
	for u.parent[root] != root {
		root = u.parent[root]
	}
	for u.parent[index] != root {
		u.parent[index], index = root, u.parent[index]
	}
	return root
}

func (u *UnionFind) Union(a, b int) {
	rootA := u.Find(a)
	rootB := u.Find(b)
	if rootA == rootB {
		return
	}
	if rootB < rootA {
		rootA, rootB = rootB, rootA
	}
	u.parent[rootB] = rootA
}

// Components groups all indexes by root, preserving index order
// inside each component and ordering components by their smallest
// member.
func (u *UnionFind) Components() [][]int {
	byRoot := make(map[int][]int)
	order := make([]int, 0)
	for i := range u.parent {
		root := u.Find(i)
		if _, seen := byRoot[root]; !seen {
			order = append(order, root)
		}
		byRoot[root] = append(byRoot[root], i)
	}

	components := make([][]int, 0, len(order))
	for _, root := range order {
		components = append(components, byRoot[root])
	}
	return components
}
