package textmatch

// Pair is one row/column pairing from an optimal assignment. An index of -1
// marks the unmatched side when the input sets differ in size.
type Pair struct {
	Row int
	Col int
}

// Pairs computes a globally optimal one-to-one pairing of two name sets,
// maximizing total similarity via minimum-cost bipartite assignment
// (Kuhn-Munkres). No similarity floor is applied: every element on the
// smaller side is paired with something, however poor the best available
// match; leftovers on the larger side come back with -1 on the other index.
// Matched pairs are emitted first in row order, then unmatched rows, then
// unmatched cols.
func Pairs(rows, cols []string) []Pair {
	if len(rows) == 0 && len(cols) == 0 {
		return nil
	}
	if len(rows) == 0 {
		out := make([]Pair, len(cols))
		for j := range cols {
			out[j] = Pair{Row: -1, Col: j}
		}
		return out
	}
	if len(cols) == 0 {
		out := make([]Pair, len(rows))
		for i := range rows {
			out[i] = Pair{Row: i, Col: -1}
		}
		return out
	}

	sim := make([][]int, len(rows))
	maxSim := 0
	for i, r := range rows {
		sim[i] = make([]int, len(cols))
		nr := Normalize(r)
		for j, c := range cols {
			s := Score(nr, Normalize(c))
			sim[i][j] = s
			if s > maxSim {
				maxSim = s
			}
		}
	}

	// Convert to costs so minimizing total cost maximizes total similarity.
	cost := make([][]int, len(rows))
	for i := range sim {
		cost[i] = make([]int, len(cols))
		for j := range sim[i] {
			cost[i][j] = maxSim - sim[i][j]
		}
	}

	// The solver needs rows <= cols; transpose when needed.
	transposed := false
	if len(rows) > len(cols) {
		cost = transpose(cost)
		transposed = true
	}

	assigned := solveAssignment(cost)

	rowOf := make([]int, len(rows))
	for i := range rowOf {
		rowOf[i] = -1
	}
	colOf := make([]int, len(cols))
	for j := range colOf {
		colOf[j] = -1
	}
	for r, c := range assigned {
		if c < 0 {
			continue
		}
		if transposed {
			rowOf[c] = r
			colOf[r] = c
		} else {
			rowOf[r] = c
			colOf[c] = r
		}
	}

	var out []Pair
	for i, j := range rowOf {
		if j >= 0 {
			out = append(out, Pair{Row: i, Col: j})
		}
	}
	for i, j := range rowOf {
		if j < 0 {
			out = append(out, Pair{Row: i, Col: -1})
		}
	}
	for j, i := range colOf {
		if i < 0 {
			out = append(out, Pair{Row: -1, Col: j})
		}
	}
	return out
}

// solveAssignment runs the Hungarian algorithm with potentials over an
// n x m cost matrix (n <= m) and returns, per row, the assigned column.
func solveAssignment(cost [][]int) []int {
	n := len(cost)
	m := len(cost[0])
	const inf = int(^uint(0) >> 1)

	u := make([]int, n+1)
	v := make([]int, m+1)
	p := make([]int, m+1)   // p[j]: row matched to column j (1-based, 0 = free)
	way := make([]int, m+1) // predecessor column on the alternating path

	for i := 1; i <= n; i++ {
		p[0] = i
		j0 := 0
		minv := make([]int, m+1)
		used := make([]bool, m+1)
		for j := range minv {
			minv[j] = inf
		}

		for {
			used[j0] = true
			i0 := p[j0]
			delta := inf
			j1 := 0
			for j := 1; j <= m; j++ {
				if used[j] {
					continue
				}
				cur := cost[i0-1][j-1] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			for j := 0; j <= m; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if p[j0] == 0 {
				break
			}
		}

		for j0 != 0 {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
		}
	}

	out := make([]int, n)
	for i := range out {
		out[i] = -1
	}
	for j := 1; j <= m; j++ {
		if p[j] > 0 {
			out[p[j]-1] = j - 1
		}
	}
	return out
}

func transpose(m [][]int) [][]int {
	out := make([][]int, len(m[0]))
	for j := range out {
		out[j] = make([]int, len(m))
		for i := range m {
			out[j][i] = m[i][j]
		}
	}
	return out
}
