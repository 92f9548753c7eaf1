package graph

import "github.com/skillsenselab/flowkit/errors"

// DFS colors for cycle detection.
const (
	white = iota // unvisited
	gray         // on the recursion stack
	black        // fully explored
)

// checkAcyclic proves the graph is a DAG via depth-first traversal with a
// recursion-stack marker. On failure it reports one cycle's vertex sequence,
// first vertex repeated at the end.
//
// Vertices and successors are visited in declaration order so the reported
// witness is stable across builds.
func (g *Graph) checkAcyclic() error {
	color := make(map[string]int, len(g.vertices))
	parent := make(map[string]string, len(g.vertices))

	var cycle []string

	var dfs func(id string) bool
	dfs = func(id string) bool {
		color[id] = gray
		for _, next := range g.succ[id] {
			switch color[next] {
			case white:
				parent[next] = id
				if dfs(next) {
					return true
				}
			case gray:
				// Back-edge id -> next closes a cycle. Walk parents from id
				// back to next to reconstruct it.
				cycle = []string{next}
				for cur := id; cur != next; cur = parent[cur] {
					cycle = append(cycle, cur)
				}
				cycle = append(cycle, next)
				reverseMiddle(cycle)
				return true
			}
		}
		color[id] = black
		return false
	}

	for _, v := range g.vertices {
		if color[v.id] != white {
			continue
		}
		if dfs(v.id) {
			return errors.CycleDetected(cycle)
		}
	}
	return nil
}

// reverseMiddle flips cycle[1:len-1] in place so the path reads in edge
// direction: [v, a, b, ..., v] where v->a->b->...->v.
func reverseMiddle(cycle []string) {
	for i, j := 1, len(cycle)-2; i < j; i, j = i+1, j-1 {
		cycle[i], cycle[j] = cycle[j], cycle[i]
	}
}
