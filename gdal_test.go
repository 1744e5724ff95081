package hydrolib

import (
	"math"
	"testing"
)

func TestTransformWkt(t *testing.T) {
	g := NewHydroToolbox()
	if g == nil {
		t.Fatal()
	}
	span := Span{113.695688629, 115.075725846, 29.971802123, 31.360788281}
	wkt := SpanToWkt(span)
	ret, err := g.TransformWkt(wkt, 4326, 3857)
	if err != nil {
		t.Fatal(err)
	}
	back, err := g.TransformWkt(ret, 3857, 4326)
	if err != nil {
		t.Fatal(err)
	}
	got, err := g.GetWktSpan(back, 4326)
	if err != nil {
		t.Fatal(err)
	}
	for i := range span {
		if math.Abs(got[i]-span[i]) > 1e-6 {
			t.Fatal(got, span)
		}
	}
}

func TestUnionGeos(t *testing.T) {
	g := NewHydroToolbox()
	a, err := g.WktToWkb(PointsToWkt(0, 1, 0, 1), WKT_ALG_SRID)
	if err != nil {
		t.Fatal(err)
	}
	b, err := g.WktToWkb(PointsToWkt(1, 2, 0, 1), WKT_ALG_SRID)
	if err != nil {
		t.Fatal(err)
	}
	u, err := g.UnionGeos([]GdalGeo{a, b}, WKT_ALG_SRID)
	if err != nil {
		t.Fatal(err)
	}
	wkt, err := g.WkbToWkt(u, WKT_ALG_SRID)
	if err != nil {
		t.Fatal(err)
	}
	span, err := g.GetWktSpan(wkt, WKT_ALG_SRID)
	if err != nil {
		t.Fatal(err)
	}
	if span != (Span{0, 2, 0, 1}) {
		t.Fatal(span)
	}
}
