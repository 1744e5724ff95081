package hydrolib

import (
	"math"
	"testing"
	"time"
)

func diskScene(width, height int, cx, cy, r, water, land float64) []float64 {
	img := make([]float64, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			dx := float64(x) + 0.5 - cx
			dy := float64(y) + 0.5 - cy
			if dx*dx+dy*dy <= r*r {
				img[y*width+x] = water
			} else {
				img[y*width+x] = land
			}
		}
	}
	return img
}

func TestExtractWaterLevels(t *testing.T) {
	g := NewHydroToolbox()
	const W, H = 64, 64
	span := Span{0, W, 0, H}

	flat := make([]float64, W*H)
	for i := range flat {
		flat[i] = -0.5
	}
	normal := diskScene(W, H, 32, 32, 16, 0.8, -0.5)
	flood := diskScene(W, H, 32, 32, 20, 0.8, -0.5)

	stack := &IndexStack{
		Data:   append(append(append([]float64{}, flat...), normal...), flood...),
		Scenes: 3,
		Height: H,
		Width:  W,
	}
	base := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	// 时间戳故意乱序：空景最晚，常态景最早
	timestamps := []time.Time{base.AddDate(0, 0, 2), base, base.AddDate(0, 0, 1)}

	nominal, err := g.WktToWkb(circleWkt(32, 32, 16, 128), WKT_ALG_SRID)
	if err != nil {
		t.Fatal(err)
	}
	series, err := g.ExtractWaterLevels(stack, span, WKT_ALG_SRID, timestamps, nominal, DetectionConfig{Workers: 2})
	if err != nil {
		t.Fatal(err)
	}
	if series.Len() != 3 {
		t.Fatal("unexpected series length", series.Len())
	}
	for i := 1; i < series.Len(); i++ {
		if series.Timestamps[i].Before(series.Timestamps[i-1]) {
			t.Fatal("series not sorted by timestamp")
		}
	}
	for i, l := range series.Levels {
		if l < 0 {
			t.Fatal("negative water level at", i)
		}
	}
	// 排序后：0=常态景，1=涨水景，2=空景
	if math.Abs(series.Levels[0]-1) > 0.05 {
		t.Fatal("normal scene level:", series.Levels[0])
	}
	if series.Levels[1] < 1.45 || series.Levels[1] > 1.65 {
		t.Fatal("flood scene level:", series.Levels[1])
	}
	if series.Levels[2] != 0 {
		t.Fatal("empty scene level:", series.Levels[2])
	}
	if series.Statuses[2] != NoWater {
		t.Fatal("empty scene status:", series.Statuses[2])
	}
	if series.Statuses[0] != EdgeOtsu || series.Statuses[1] != EdgeOtsu {
		t.Fatal("water scene status:", series.Statuses[0], series.Statuses[1])
	}
	if series.Records[2].Geom != EmptyGeomWkt {
		t.Fatal("empty scene geom:", series.Records[2].Geom)
	}
	if series.Records[0].Geom == EmptyGeomWkt || series.Records[1].Geom == EmptyGeomWkt {
		t.Fatal("water scene geom missing")
	}

	coverage := map[time.Time]float64{
		timestamps[0]: 0.7,
		timestamps[1]: 1.0,
		timestamps[2]: 0.9,
	}
	series.AttachScalar("coverage", coverage)
	cov := series.Scalar("coverage")
	if len(cov) != 3 || cov[0] != 1.0 || cov[1] != 0.9 || cov[2] != 0.7 {
		t.Fatal("coverage scalar misaligned:", cov)
	}
}

func TestExtractWaterLevelsBadInput(t *testing.T) {
	g := NewHydroToolbox()
	nominal, err := g.WktToWkb(PointsToWkt(0, 10, 0, 10), WKT_ALG_SRID)
	if err != nil {
		t.Fatal(err)
	}
	if _, err = g.ExtractWaterLevels(nil, Span{}, WKT_ALG_SRID, nil, nominal, DetectionConfig{}); err != ErrEmptyStack {
		t.Fatal(err)
	}
	stack := &IndexStack{Data: make([]float64, 4*4), Scenes: 1, Height: 4, Width: 4}
	if _, err = g.ExtractWaterLevels(stack, Span{0, 4, 0, 4}, WKT_ALG_SRID, nil, nominal, DetectionConfig{}); err != ErrTimestampCount {
		t.Fatal(err)
	}
}

func TestWaterLevelScalesInverselyWithNominal(t *testing.T) {
	g := NewHydroToolbox()
	const W, H = 64, 64
	span := Span{0, W, 0, H}
	scene := diskScene(W, H, 32, 32, 16, 0.8, -0.5)
	stack := &IndexStack{Data: scene, Scenes: 1, Height: H, Width: W}
	ts := []time.Time{time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)}

	small, err := g.WktToWkb(circleWkt(32, 32, 16, 128), WKT_ALG_SRID)
	if err != nil {
		t.Fatal(err)
	}
	big, err := g.WktToWkb(circleWkt(32, 32, 32, 128), WKT_ALG_SRID)
	if err != nil {
		t.Fatal(err)
	}
	s1, err := g.ExtractWaterLevels(stack, span, WKT_ALG_SRID, ts, small, DetectionConfig{})
	if err != nil {
		t.Fatal(err)
	}
	s2, err := g.ExtractWaterLevels(stack, span, WKT_ALG_SRID, ts, big, DetectionConfig{})
	if err != nil {
		t.Fatal(err)
	}
	// 常态面积放大4倍，同一检测范围的水位比值应缩小为1/4
	ratio := s1.Levels[0] / s2.Levels[0]
	if math.Abs(ratio-4) > 0.05 {
		t.Fatal("levels do not scale inversely with nominal area:", ratio)
	}
}
