package coherence

// tableRef names one (table, record) node in the reference graph.
type tableRef struct {
	table string
	id    string
}

// CascadePath is the reach of one anomaly through the table graph:
// every distinct table touched, how many records were visited, how
// deep the search went before exhausting max_cascade_depth, and the
// anomaly's own monetary impact passed through unchanged.
type CascadePath struct {
	AnomalyID      string
	AffectedTables []string
	RecordsAffected int
	Depth          int
	MonetaryImpact float64
}

// analyzeCascades traces, for every declared anomaly, how far its
// effect propagates across the table graph: a bounded BFS up to
// MaxCascadeDepth hops, following both forward references (the
// anomaly's own record pointing at other tables) and reverse
// references (other tables' records pointing back at it), visiting
// each (table, id) node at most once.
//
// spec.md §4.8 calls for a BFS explicitly; the original Rust
// implementation this is grounded on (multi_table.rs's trace_cascade)
// actually performs a DFS via a Vec used as a LIFO stack. Depth and
// affected-table-set are invariant to traversal order, so the switch
// to a FIFO queue here changes only the discovery order recorded in
// AffectedTables, not the evaluation's pass/fail outcome.
func (e *Evaluator) analyzeCascades(ds Dataset) []CascadePath {
	forward, reverse := buildReferenceIndexes(ds)

	var paths []CascadePath
	for _, anomaly := range ds.Anomalies {
		start := tableRef{table: anomaly.Table, id: anomaly.RecordID}
		visited := map[tableRef]int{start: 0}

		type queued struct {
			node  tableRef
			depth int
		}
		queue := []queued{{start, 0}}
		maxDepth := 0
		tablesSeen := []string{}
		tableSeenSet := map[string]bool{}

		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]

			if !tableSeenSet[cur.node.table] {
				tableSeenSet[cur.node.table] = true
				tablesSeen = append(tablesSeen, cur.node.table)
			}
			if cur.depth > maxDepth {
				maxDepth = cur.depth
			}
			if cur.depth >= e.MaxCascadeDepth {
				continue
			}

			for _, next := range forward[cur.node] {
				if _, seen := visited[next]; seen {
					continue
				}
				visited[next] = cur.depth + 1
				queue = append(queue, queued{next, cur.depth + 1})
			}
			for _, next := range reverse[cur.node] {
				if _, seen := visited[next]; seen {
					continue
				}
				visited[next] = cur.depth + 1
				queue = append(queue, queued{next, cur.depth + 1})
			}
		}

		depth := maxDepth
		if len(visited) == 1 {
			depth = 0
		}

		paths = append(paths, CascadePath{
			AnomalyID:       anomaly.ID,
			AffectedTables:  tablesSeen,
			RecordsAffected: len(visited),
			Depth:           depth,
			MonetaryImpact:  anomaly.MonetaryImpact,
		})
	}
	return paths
}

// buildReferenceIndexes flattens every relationship's source->target
// edges into forward and reverse adjacency maps keyed by (table, id),
// independent of which named reference field produced the edge.
func buildReferenceIndexes(ds Dataset) (forward, reverse map[tableRef][]tableRef) {
	forward = make(map[tableRef][]tableRef)
	reverse = make(map[tableRef][]tableRef)

	for _, rel := range ds.Relationships {
		for _, src := range ds.Tables[rel.SourceTable] {
			targetID, ok := src.References[rel.ReferenceField]
			if !ok || targetID == "" {
				continue
			}
			srcRef := tableRef{table: rel.SourceTable, id: src.ID}
			tgtRef := tableRef{table: rel.TargetTable, id: targetID}
			forward[srcRef] = append(forward[srcRef], tgtRef)
			reverse[tgtRef] = append(reverse[tgtRef], srcRef)
		}
	}
	return forward, reverse
}
