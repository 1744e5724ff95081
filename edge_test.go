package hydrolib

import (
	"testing"
)

func TestDetectEdgeBandStep(t *testing.T) {
	g := NewHydroToolbox()
	const W, H = 64, 64
	norm := make([]float64, W*H)
	for y := 0; y < H; y++ {
		for x := W / 2; x < W; x++ {
			norm[y*W+x] = 1
		}
	}
	band := g.detectEdgeBand(norm, W, H, DetectionConfig{}.withDefaults())
	hit := 0
	for y := 0; y < H; y++ {
		for x := 0; x < W; x++ {
			if !band[y*W+x] {
				continue
			}
			hit++
			if x < 16 || x > 48 {
				t.Fatal("edge band far from boundary at x =", x)
			}
		}
	}
	if hit == 0 {
		t.Fatal("no edge band detected")
	}
	// 膨胀后的边缘带应覆盖边界两侧
	mid := H / 2 * W
	if !band[mid+W/2-1] || !band[mid+W/2] {
		t.Fatal("edge band misses the boundary columns")
	}
}

func TestDetectEdgeBandFlat(t *testing.T) {
	g := NewHydroToolbox()
	const W, H = 32, 32
	norm := make([]float64, W*H)
	band := g.detectEdgeBand(norm, W, H, DetectionConfig{}.withDefaults())
	for i, in := range band {
		if in {
			t.Fatal("unexpected edge at", i)
		}
	}
}
