package diff

// Level selects how aggressively the engine flags differences. Higher levels
// lower every threshold, so they never report less than a lower level does.
type Level int

const DefaultLevel Level = 3

// Profile is the tuning bundle derived from a sensitivity level.
//
// PixelDiffThreshold is the per-channel-average RGB delta above which a pixel
// counts toward a block's activity. BlockThreshold is the active-pixel ratio
// above which a block joins clustering. MinClusterArea is the minimum number
// of differing pixels a cluster must hold to surface as an issue.
// MatchThreshold feeds the perceptual pixel comparison.
type Profile struct {
	PixelDiffThreshold uint8
	BlockThreshold     float64
	MinClusterArea     int
	MatchThreshold     float64
}

var profiles = map[Level]Profile{
	1: {PixelDiffThreshold: 96, BlockThreshold: 0.40, MinClusterArea: 1000, MatchThreshold: 0.9},
	2: {PixelDiffThreshold: 64, BlockThreshold: 0.30, MinClusterArea: 600, MatchThreshold: 0.7},
	3: {PixelDiffThreshold: 48, BlockThreshold: 0.20, MinClusterArea: 400, MatchThreshold: 0.5},
	4: {PixelDiffThreshold: 32, BlockThreshold: 0.12, MinClusterArea: 200, MatchThreshold: 0.3},
	5: {PixelDiffThreshold: 16, BlockThreshold: 0.05, MinClusterArea: 50, MatchThreshold: 0.1},
}

// ProfileFor maps a caller-supplied level to its profile. Unrecognized
// levels fall back to the default.
func ProfileFor(level int) Profile {
	if p, ok := profiles[Level(level)]; ok {
		return p
	}
	return profiles[DefaultLevel]
}
