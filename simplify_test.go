package hydrolib

import (
	"testing"
)

func TestShrinkWkt(t *testing.T) {
	g := NewHydroToolbox()
	wkt := circleWkt(0, 0, 1000, 512)
	const budget = 2000
	out, err := g.ShrinkWkt(wkt, WKT_ALG_SRID, budget)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) >= len(wkt) {
		t.Fatal("wkt not reduced:", len(out), len(wkt))
	}
	if len(out) > budget {
		t.Fatal("budget not reached:", len(out))
	}
	if err = g.CheckWkt(out, WKT_ALG_SRID); err != nil {
		t.Fatal(err)
	}
}

func TestShrinkGeoWktNoop(t *testing.T) {
	g := NewHydroToolbox()
	ref, err := g.getSridRef(WKT_ALG_SRID)
	if err != nil {
		t.Fatal(err)
	}
	geo, err := g.parseWKT(PointsToWkt(0, 10, 0, 10), ref)
	if err != nil {
		t.Fatal(err)
	}
	defer geo.Destroy()
	want, err := geo.ToWKT()
	if err != nil {
		t.Fatal(err)
	}
	out, err := g.ShrinkGeoWkt(geo, DefaultWktBudget, 0, 0, 0)
	if err != nil || out != want {
		t.Fatal(out, err)
	}
}

func TestShrinkGeoWktNonConvergence(t *testing.T) {
	g := NewHydroToolbox()
	ref, err := g.getSridRef(WKT_ALG_SRID)
	if err != nil {
		t.Fatal(err)
	}
	geo, err := g.parseWKT(circleWkt(0, 0, 1000, 256), ref)
	if err != nil {
		t.Fatal(err)
	}
	defer geo.Destroy()
	// 预算小到不可能满足，应在迭代上限内返回尽力而为的结果
	out, err := g.ShrinkGeoWkt(geo, 10, 0.1, 0.1, 3)
	if err != nil || out == "" {
		t.Fatal(out, err)
	}
}
