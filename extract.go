package hydrolib

import (
	"time"

	"github.com/wgdzlh/hydrolib/log"

	"github.com/lukeroth/gdal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// 按景提取水体范围与水位比值，聚合为按时间戳升序的序列
// 各景相互独立、并发处理；单景的任何退化情况只影响该景的记录，不会中断整个序列
func (g *HydroToolbox) ExtractWaterLevels(stack *IndexStack, span Span, srid int, timestamps []time.Time,
	nominal GdalGeo, cfg DetectionConfig) (series *WaterLevelSeries, err error) {
	if stack == nil || stack.Scenes == 0 {
		err = ErrEmptyStack
		return
	}
	if len(stack.Data) != stack.Scenes*stack.Height*stack.Width {
		err = ErrStackShape
		return
	}
	if len(timestamps) != stack.Scenes {
		err = ErrTimestampCount
		return
	}
	cfg = cfg.withDefaults()
	ref, err := g.getSridRef(srid)
	if err != nil {
		return
	}
	nomGeo, err := g.parseWKB(nominal, ref)
	if err != nil {
		return
	}
	defer nomGeo.Destroy()
	if nomGeo.IsEmpty() {
		err = ErrEmptyNominalGeo
		return
	}
	nomArea := nomGeo.Area()
	if nomArea <= 0 {
		log.Warn(g.logTag+"nominal geometry has zero area, water levels will be zero", zap.Int("srid", srid))
	}
	log.Info(g.logTag+"start water level extraction", zap.Int("scenes", stack.Scenes),
		zap.Int("width", stack.Width), zap.Int("height", stack.Height), zap.Int("workers", cfg.Workers))

	records := make([]DetectionRecord, stack.Scenes)
	eg := errgroup.Group{}
	eg.SetLimit(cfg.Workers)
	for i := 0; i < stack.Scenes; i++ {
		// GDAL几何对象不可跨协程共享，每景克隆一份常态水域
		nom := nomGeo.Clone()
		eg.Go(func() error {
			defer nom.Destroy()
			records[i] = g.detectScene(stack.Scene(i), stack.Width, stack.Height, span, srid,
				nom, nomArea, timestamps[i], cfg)
			return nil
		})
	}
	eg.Wait()
	series = newWaterLevelSeries(records)
	log.Info(g.logTag+"water level extraction done", zap.Int("scenes", series.Len()))
	return
}

func (g *HydroToolbox) detectScene(img []float64, width, height int, span Span, srid int,
	nominal gdal.Geometry, nomArea float64, ts time.Time, cfg DetectionConfig) (rec DetectionRecord) {
	rec.Timestamp = ts
	rec.Geom = EmptyGeomWkt
	thr, status := g.DetectWaterThreshold(img, width, height, cfg)
	rec.Status = status
	mask := BuildWaterMask(img, thr)
	geo, err := g.VectorizeWaterMask(mask, width, height, span, srid, nominal)
	if err != nil {
		log.Error(g.logTag+"vectorize scene failed", zap.Time("ts", ts), zap.Error(err))
		return
	}
	defer geo.Destroy()
	if nomArea > 0 {
		rec.WaterLevel = geo.Area() / nomArea
	}
	var wkt string
	if cfg.Simplify {
		wkt, err = g.ShrinkGeoWkt(geo, cfg.WktSizeBudget, 0, 0, 0)
	} else {
		wkt, err = geo.ToWKT()
	}
	if err != nil {
		log.Error(g.logTag+"scene geom to wkt failed", zap.Time("ts", ts), zap.Error(err))
		return
	}
	rec.Geom = wkt
	return
}
