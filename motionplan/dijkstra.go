package motionplan

import (
	"math"
)

// solve runs single-source Dijkstra from the start vertex over the built
// graph, extracting the next vertex with a linear scan rather than a heap;
// the vertex sets here never grow past a few dozen entries. Ties among equal
// minimum distances break to the lowest vertex index so identical inputs
// always produce the identical path. On success the path holds the full
// polyline from start to finish inclusive.
func (a *Avoidance) solve() bool {
	n := len(a.validPoints)
	visited := make([]bool, n)
	distances := make([]float64, n)
	parents := make([]int, n)
	for i := range distances {
		distances[i] = math.Inf(1)
		parents[i] = -1
	}
	distances[startIndex] = 0

	if a.graph.From(startIndex).Len() == 0 {
		a.logger.Error("avoidance: start pose has no reachable neighbors")
		return false
	}

	v := startIndex
	for v != finishIndex {
		visited[v] = true

		neighbors := a.graph.From(int64(v))
		for neighbors.Next() {
			u := int(neighbors.Node().ID())
			weight, ok := a.graph.Weight(int64(v), int64(u))
			if !ok {
				continue
			}
			if distances[v]+weight < distances[u] {
				distances[u] = distances[v] + weight
				parents[u] = v
			}
		}

		minDistance := math.Inf(1)
		for i := 0; i < n; i++ {
			if !visited[i] && distances[i] < minDistance {
				minDistance = distances[i]
				v = i
			}
		}
		if math.IsInf(minDistance, 1) {
			a.logger.Error("avoidance: no reachable unvisited vertex remains")
			return false
		}
	}

	reversed := make([]int, 0, n)
	for cur := finishIndex; cur != -1; cur = parents[cur] {
		reversed = append(reversed, cur)
	}
	a.path = a.path[:0]
	for i := len(reversed) - 1; i >= 0; i-- {
		a.path = append(a.path, a.validPoints[reversed[i]])
	}
	return true
}
