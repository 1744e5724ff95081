package hydrolib

import (
	"github.com/wgdzlh/hydrolib/log"

	"github.com/lukeroth/gdal"
	"go.uber.org/zap"
)

// 迭代简化几何（不保拓扑），每轮增大容差，直至WKT长度不超过budget或达到迭代上限；
// 始终保留已见过的最短WKT，未收敛时返回当前最优结果而非报错
func (g *HydroToolbox) ShrinkGeoWkt(geo gdal.Geometry, budget int, tol0, step float64, maxIter int) (wkt string, err error) {
	if budget <= 0 {
		budget = DefaultWktBudget
	}
	if tol0 <= 0 {
		tol0 = SimplifyT0
	}
	if step <= 0 {
		step = SimplifyStep
	}
	if maxIter <= 0 {
		maxIter = MaxSimplifyIter
	}
	if wkt, err = geo.ToWKT(); err != nil {
		return
	}
	var (
		tol = tol0
		sw  string
		gc  []destroyable
	)
	defer func() {
		for _, v := range gc {
			v.Destroy()
		}
	}()
	for i := 0; i < maxIter && len(wkt) > budget; i++ {
		sg := geo.Simplify(tol)
		gc = append(gc, sg)
		if sg.IsEmpty() {
			break
		}
		if sw, err = sg.ToWKT(); err != nil {
			return
		}
		if len(sw) < len(wkt) {
			wkt = sw
		}
		tol += step
	}
	if len(wkt) > budget {
		log.Warn(g.logTag+"simplify budget not reached", zap.Int("size", len(wkt)), zap.Int("budget", budget))
	}
	return
}

// 按WKT长度预算简化WKT
func (g *HydroToolbox) ShrinkWkt(wkt string, srid, budget int) (out string, err error) {
	ref, err := g.getSridRef(srid)
	if err != nil {
		return
	}
	geo, err := g.parseWKT(wkt, ref)
	if err != nil {
		return
	}
	defer geo.Destroy()
	out, err = g.ShrinkGeoWkt(geo, budget, 0, 0, 0)
	return
}
