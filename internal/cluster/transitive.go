package cluster

import "github.com/cwarden/eventscope/internal/event"

// BuildTransitive is full pairwise single-link clustering: any two events
// closer than threshold end up in the same cluster, directly or through a
// chain of neighbours. It groups differently from Build and is slower,
// O(n²). Clusters are ordered by their first member in input order.
func BuildTransitive(events []event.Event, p Projector, threshold float64) []Cluster {
	var idx []int
	var pos []Point
	for i := range events {
		if events[i].Coordinate == nil {
			continue
		}
		idx = append(idx, i)
		pos = append(pos, p.ToPixel(*events[i].Coordinate))
	}

	uf := newUnionFind(len(idx))
	for a := 0; a < len(idx); a++ {
		for b := a + 1; b < len(idx); b++ {
			if pos[a].Dist(pos[b]) < threshold {
				uf.union(a, b)
			}
		}
	}

	var clusters []Cluster
	slot := make(map[int]int)
	for k, i := range idx {
		ev := &events[i]
		root := uf.find(k)
		if s, ok := slot[root]; ok {
			clusters[s].Members = append(clusters[s].Members, ev)
			continue
		}
		slot[root] = len(clusters)
		clusters = append(clusters, Cluster{Representative: ev, Members: []*event.Event{ev}})
	}

	return clusters
}

type unionFind struct {
	parent []int
	rank   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n), rank: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (u *unionFind) find(x int) int {
	for u.parent[x] != x {
		u.parent[x] = u.parent[u.parent[x]]
		x = u.parent[x]
	}
	return x
}

func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	switch {
	case u.rank[ra] < u.rank[rb]:
		u.parent[ra] = rb
	case u.rank[ra] > u.rank[rb]:
		u.parent[rb] = ra
	default:
		u.parent[rb] = ra
		u.rank[ra]++
	}
}
