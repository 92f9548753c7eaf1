package engine

import "github.com/skillsenselab/flowkit/graph"

// tracker maintains one run's dependency bookkeeping: the number of
// not-yet-satisfied incoming edges per vertex and the per-vertex state table.
//
// It is not safe for concurrent use; the scheduling loop is its only caller.
type tracker struct {
	g *graph.Graph
	// pending counts unsatisfied incoming edges, with multiplicity: a vertex
	// bound twice to the same predecessor is decremented once per edge.
	pending map[string]int
	state   map[string]VertexState
	// skippedBy records, for each skipped vertex, the failed upstream vertex
	// that vetoed it.
	skippedBy map[string]string
}

func newTracker(g *graph.Graph) *tracker {
	t := &tracker{
		g:         g,
		pending:   make(map[string]int, g.Size()),
		state:     make(map[string]VertexState, g.Size()),
		skippedBy: make(map[string]string),
	}
	for _, id := range g.VertexIDs() {
		t.pending[id] = g.InDegreeOf(id)
		t.state[id] = VertexPending
	}
	return t
}

// initialReady marks and returns, in declaration order, every vertex with no
// unsatisfied dependencies.
func (t *tracker) initialReady() []string {
	ready := t.g.InitialReadySet()
	for _, id := range ready {
		t.state[id] = VertexReady
	}
	return ready
}

func (t *tracker) stateOf(id string) VertexState { return t.state[id] }

func (t *tracker) markRunning(id string) { t.state[id] = VertexRunning }

// onVertexSucceeded records the success and returns the ids that became
// ready as a result, in edge declaration order. Each vertex is readied at
// most once per run; a vertex already vetoed by a failed predecessor stays
// skipped even when this success satisfies its remaining edges.
func (t *tracker) onVertexSucceeded(id string) []string {
	t.state[id] = VertexSuccess

	var newlyReady []string
	for _, edge := range t.g.OutgoingEdges(id) {
		t.pending[edge.Target]--
		if t.pending[edge.Target] == 0 && t.state[edge.Target] == VertexPending {
			t.state[edge.Target] = VertexReady
			newlyReady = append(newlyReady, edge.Target)
		}
	}
	return newlyReady
}

// onVertexFailed records the failure and marks every transitive successor
// skipped, returning the skip set in breadth-first order. Successors are
// necessarily still pending: a vertex reachable from the failed one cannot
// have satisfied all its inputs.
func (t *tracker) onVertexFailed(id string) []string {
	t.state[id] = VertexFailed

	var skipped []string
	queue := append([]string(nil), t.g.SuccessorsOf(id)...)
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if t.state[next] != VertexPending {
			continue
		}
		t.state[next] = VertexSkipped
		t.skippedBy[next] = id
		skipped = append(skipped, next)
		queue = append(queue, t.g.SuccessorsOf(next)...)
	}
	return skipped
}

// skipCause returns the failed upstream vertex recorded for a skipped vertex.
func (t *tracker) skipCause(id string) string { return t.skippedBy[id] }

// allTerminal reports whether every vertex reached a terminal state.
func (t *tracker) allTerminal() bool {
	for _, s := range t.state {
		if !s.Terminal() {
			return false
		}
	}
	return true
}
