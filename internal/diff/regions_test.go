package diff

import (
	"reflect"
	"testing"
)

func TestAnalyzeRegions_NoDifferences(t *testing.T) {
	a := solidRaster(100, 100, 128, 128, 128)
	b := solidRaster(100, 100, 128, 128, 128)

	for level := 1; level <= 5; level++ {
		if issues := AnalyzeRegions(a, b, ProfileFor(level)); len(issues) != 0 {
			t.Errorf("level %d: identical images produced %d issues", level, len(issues))
		}
	}
}

func TestAnalyzeRegions_CornerBlockScenario(t *testing.T) {
	// A 30x30 max-contrast square in the corner of a 100x100 pair: one
	// cluster of 900 differing pixels, reported as a small color-class issue
	// whose region is rounded up to the 20px block grid.
	a := solidRaster(100, 100, 255, 255, 255)
	b := solidRaster(100, 100, 255, 255, 255)
	paintRect(b, 0, 0, 30, 30, 0, 0, 0)

	issues := AnalyzeRegions(a, b, ProfileFor(3))
	if len(issues) != 1 {
		t.Fatalf("expected exactly 1 issue, got %d: %+v", len(issues), issues)
	}

	issue := issues[0]
	want := Region{X: 0, Y: 0, Width: 40, Height: 40}
	if issue.Region != want {
		t.Errorf("expected region %+v, got %+v", want, issue.Region)
	}
	if issue.Severity != SeverityLow {
		t.Errorf("expected low severity for 900 px, got %s", issue.Severity)
	}
	if issue.Type != TypeColor {
		t.Errorf("expected color type for 900 px (< 1000), got %s", issue.Type)
	}
	if issue.ID != "issue-1" {
		t.Errorf("expected deterministic id issue-1, got %s", issue.ID)
	}
}

func TestAnalyzeRegions_Deterministic(t *testing.T) {
	a := solidRaster(200, 160, 255, 255, 255)
	b := solidRaster(200, 160, 255, 255, 255)
	paintRect(b, 0, 0, 45, 45, 0, 0, 0)
	paintRect(b, 120, 80, 60, 60, 10, 10, 10)

	first := AnalyzeRegions(a, b, ProfileFor(3))
	for i := 0; i < 3; i++ {
		if again := AnalyzeRegions(a, b, ProfileFor(3)); !reflect.DeepEqual(first, again) {
			t.Fatal("issue list changed across identical invocations")
		}
	}
}

func TestAnalyzeRegions_AdjacentBlocksMerge(t *testing.T) {
	// A 60x20 bar spans three horizontally adjacent blocks; they must merge
	// into a single cluster, not three issues.
	a := solidRaster(120, 60, 255, 255, 255)
	b := solidRaster(120, 60, 255, 255, 255)
	paintRect(b, 20, 20, 60, 20, 0, 0, 0)

	issues := AnalyzeRegions(a, b, ProfileFor(3))
	if len(issues) != 1 {
		t.Fatalf("expected 1 merged issue, got %d", len(issues))
	}
	want := Region{X: 20, Y: 20, Width: 60, Height: 20}
	if issues[0].Region != want {
		t.Errorf("expected region %+v, got %+v", want, issues[0].Region)
	}
	if issues[0].Type != TypeLayout {
		t.Errorf("1200 px cluster should be layout type, got %s", issues[0].Type)
	}
}

func TestAnalyzeRegions_DiagonalBlocksDoNotMerge(t *testing.T) {
	// Two blocks touching only at a corner are separate under 4-connectivity.
	a := solidRaster(80, 80, 255, 255, 255)
	b := solidRaster(80, 80, 255, 255, 255)
	paintRect(b, 0, 0, 20, 20, 0, 0, 0)
	paintRect(b, 20, 20, 20, 20, 0, 0, 0)

	issues := AnalyzeRegions(a, b, ProfileFor(3))
	if len(issues) != 2 {
		t.Fatalf("expected 2 separate issues for diagonal blocks, got %d", len(issues))
	}
}

func TestAnalyzeRegions_SmallClustersFiltered(t *testing.T) {
	// 5x5 = 25 differing pixels is under every level's minimum cluster area
	// except level 5 (minimum 50 still exceeds it), and the 25/400 block
	// ratio only passes the loosest block thresholds at high levels.
	a := solidRaster(100, 100, 255, 255, 255)
	b := solidRaster(100, 100, 255, 255, 255)
	paintRect(b, 0, 0, 5, 5, 0, 0, 0)

	for level := 1; level <= 5; level++ {
		if issues := AnalyzeRegions(a, b, ProfileFor(level)); len(issues) != 0 {
			t.Errorf("level %d: 25 px blip should be filtered, got %d issues", level, len(issues))
		}
	}
}

func TestAnalyzeRegions_IssueCountMonotoneAcrossLevels(t *testing.T) {
	a := solidRaster(200, 200, 255, 255, 255)
	b := solidRaster(200, 200, 255, 255, 255)
	paintRect(b, 0, 0, 30, 30, 0, 0, 0)
	paintRect(b, 100, 100, 12, 12, 0, 0, 0) // surfaces only at stricter levels

	prev := -1
	for level := 1; level <= 5; level++ {
		issues := AnalyzeRegions(a, b, ProfileFor(level))
		if len(issues) < prev {
			t.Errorf("issue count decreased from %d to %d at level %d", prev, len(issues), level)
		}
		prev = len(issues)
	}
}

func TestAnalyzeRegions_CapAndBounds(t *testing.T) {
	// 25 isolated squares produce 25 clusters; output must cap at 20 and
	// every region must stay inside the image.
	w, h := 300, 300
	a := solidRaster(w, h, 255, 255, 255)
	b := solidRaster(w, h, 255, 255, 255)
	for row := 0; row < 5; row++ {
		for col := 0; col < 5; col++ {
			paintRect(b, col*60, row*60, 20, 20, 0, 0, 0)
		}
	}

	issues := AnalyzeRegions(a, b, ProfileFor(3))
	if len(issues) != MaxIssues {
		t.Fatalf("expected cap of %d issues, got %d", MaxIssues, len(issues))
	}
	for _, issue := range issues {
		r := issue.Region
		if r.X < 0 || r.Y < 0 || r.X+r.Width > w || r.Y+r.Height > h {
			t.Errorf("region out of bounds: %+v", r)
		}
		if r.Width <= 0 || r.Height <= 0 {
			t.Errorf("degenerate region: %+v", r)
		}
	}
}

func TestAnalyzeRegions_SeverityClassification(t *testing.T) {
	// 240x240 = 57600 px of max contrast exceeds the high-severity bound.
	a := solidRaster(300, 300, 255, 255, 255)
	b := solidRaster(300, 300, 255, 255, 255)
	paintRect(b, 0, 0, 240, 240, 0, 0, 0)

	issues := AnalyzeRegions(a, b, ProfileFor(3))
	if len(issues) != 1 {
		t.Fatalf("expected 1 issue, got %d", len(issues))
	}
	if issues[0].Severity != SeverityHigh {
		t.Errorf("57600 px should be high severity, got %s", issues[0].Severity)
	}
	if issues[0].Type != TypeLayout {
		t.Errorf("57600 px should be layout type, got %s", issues[0].Type)
	}
}

func TestAnalyzeRegions_RankedBySeverityThenArea(t *testing.T) {
	a := solidRaster(400, 200, 255, 255, 255)
	b := solidRaster(400, 200, 255, 255, 255)
	paintRect(b, 0, 0, 30, 30, 0, 0, 0)       // 900 px, low
	paintRect(b, 100, 0, 120, 120, 0, 0, 0)   // 14400 px, medium
	paintRect(b, 300, 0, 60, 60, 0, 0, 0)     // 3600 px, low

	issues := AnalyzeRegions(a, b, ProfileFor(3))
	if len(issues) != 3 {
		t.Fatalf("expected 3 issues, got %d", len(issues))
	}
	if issues[0].Severity != SeverityMedium {
		t.Errorf("largest region should rank first, got %s", issues[0].Severity)
	}
	if issues[1].Region.X != 300 {
		t.Errorf("3600 px low should outrank 900 px low, got region %+v", issues[1].Region)
	}
	if issues[2].Region.X != 0 {
		t.Errorf("smallest region should rank last, got %+v", issues[2].Region)
	}
	for i, issue := range issues {
		wantID := []string{"issue-1", "issue-2", "issue-3"}[i]
		if issue.ID != wantID {
			t.Errorf("expected id %s at rank %d, got %s", wantID, i, issue.ID)
		}
	}
}
