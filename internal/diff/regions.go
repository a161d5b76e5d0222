package diff

import (
	"fmt"
	"sort"

	"github.com/overlaykit/pixelproof/internal/imaging"
)

const (
	// BlockSize is the tile edge used to localize mismatches.
	BlockSize = 20

	// MaxIssues caps how many ranked issues a comparison reports.
	MaxIssues = 20

	severityHighArea   = 50000
	severityMediumArea = 10000
	colorTypeMaxArea   = 1000
)

type cluster struct {
	minRow, maxRow int
	minCol, maxCol int
	blocks         int
	pixels         int
}

// AnalyzeRegions condenses per-pixel mismatches into ranked issue regions:
// the image is tiled into BlockSize squares, blocks whose active-pixel ratio
// exceeds the profile threshold are clustered by 4-connectivity, and each
// surviving cluster becomes one classified issue. Blocks are visited
// row-major and neighbors expanded right/left/down/up, so cluster discovery
// order and the resulting ranking are reproducible bit for bit.
func AnalyzeRegions(a, b *imaging.Raster, p Profile) []Issue {
	w, h := a.Width, a.Height
	if w <= 0 || h <= 0 || a.Width != b.Width || a.Height != b.Height {
		return nil
	}

	cols := (w + BlockSize - 1) / BlockSize
	rows := (h + BlockSize - 1) / BlockSize
	counts := make([]int, rows*cols)
	active := make([]bool, rows*cols)
	limit := 3 * int(p.PixelDiffThreshold)

	for row := 0; row < rows; row++ {
		y0 := row * BlockSize
		y1 := minInt(y0+BlockSize, h)
		for col := 0; col < cols; col++ {
			x0 := col * BlockSize
			x1 := minInt(x0+BlockSize, w)

			n := 0
			for y := y0; y < y1; y++ {
				base := y * w
				for x := x0; x < x1; x++ {
					i := (base + x) * 4
					d := absInt(int(a.Pix[i])-int(b.Pix[i])) +
						absInt(int(a.Pix[i+1])-int(b.Pix[i+1])) +
						absInt(int(a.Pix[i+2])-int(b.Pix[i+2]))
					if d > limit {
						n++
					}
				}
			}

			idx := row*cols + col
			counts[idx] = n
			total := (y1 - y0) * (x1 - x0)
			active[idx] = float64(n)/float64(total) > p.BlockThreshold
		}
	}

	clusters := findClusters(active, counts, rows, cols)

	type rankedIssue struct {
		issue Issue
		area  int
	}
	ranked := make([]rankedIssue, 0, len(clusters))

	for _, cl := range clusters {
		if cl.pixels < p.MinClusterArea {
			continue
		}

		x := cl.minCol * BlockSize
		y := cl.minRow * BlockSize
		rw := (cl.maxCol - cl.minCol + 1) * BlockSize
		rh := (cl.maxRow - cl.minRow + 1) * BlockSize
		if x+rw > w {
			rw = w - x
		}
		if y+rh > h {
			rh = h - y
		}

		severity := SeverityLow
		switch {
		case cl.pixels > severityHighArea:
			severity = SeverityHigh
		case cl.pixels > severityMediumArea:
			severity = SeverityMedium
		}

		issueType := TypeLayout
		if cl.pixels < colorTypeMaxArea {
			issueType = TypeColor
		}

		ranked = append(ranked, rankedIssue{
			issue: Issue{
				Type:     issueType,
				Severity: severity,
				Message:  fmt.Sprintf("%s difference of %d px in %dx%d region at (%d, %d)", issueType, cl.pixels, rw, rh, x, y),
				Region:   Region{X: x, Y: y, Width: rw, Height: rh},
			},
			area: cl.pixels,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		ri, rj := severityRank(ranked[i].issue.Severity), severityRank(ranked[j].issue.Severity)
		if ri != rj {
			return ri > rj
		}
		return ranked[i].area > ranked[j].area
	})

	if len(ranked) > MaxIssues {
		ranked = ranked[:MaxIssues]
	}

	issues := make([]Issue, len(ranked))
	for i, r := range ranked {
		r.issue.ID = fmt.Sprintf("issue-%d", i+1)
		issues[i] = r.issue
	}
	return issues
}

// findClusters groups active blocks into 4-connected components with an
// explicit stack, avoiding recursion over large grids.
func findClusters(active []bool, counts []int, rows, cols int) []cluster {
	visited := make([]bool, rows*cols)
	var clusters []cluster
	stack := make([]int, 0, 64)

	for idx := 0; idx < rows*cols; idx++ {
		if !active[idx] || visited[idx] {
			continue
		}

		cl := cluster{
			minRow: idx / cols, maxRow: idx / cols,
			minCol: idx % cols, maxCol: idx % cols,
		}
		stack = append(stack[:0], idx)
		visited[idx] = true

		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			row, col := cur/cols, cur%cols

			cl.minRow = minInt(cl.minRow, row)
			cl.maxRow = maxInt(cl.maxRow, row)
			cl.minCol = minInt(cl.minCol, col)
			cl.maxCol = maxInt(cl.maxCol, col)
			cl.blocks++
			cl.pixels += counts[cur]

			// right, left, down, up
			neighbors := [4]int{-1, -1, -1, -1}
			if col+1 < cols {
				neighbors[0] = cur + 1
			}
			if col > 0 {
				neighbors[1] = cur - 1
			}
			if row+1 < rows {
				neighbors[2] = cur + cols
			}
			if row > 0 {
				neighbors[3] = cur - cols
			}
			for _, n := range neighbors {
				if n >= 0 && active[n] && !visited[n] {
					visited[n] = true
					stack = append(stack, n)
				}
			}
		}

		clusters = append(clusters, cl)
	}
	return clusters
}

func severityRank(s Severity) int {
	switch s {
	case SeverityHigh:
		return 2
	case SeverityMedium:
		return 1
	default:
		return 0
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
