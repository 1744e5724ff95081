package hydrolib

import (
	"github.com/wgdzlh/hydrolib/log"

	"github.com/google/uuid"
	"github.com/lukeroth/gdal"
	"go.uber.org/zap"
)

// 将二值水体掩膜矢量化为与常态水域相交的（多）面
// span为掩膜的空间范围，掩膜中取值为1且修复后有效、与nominal相交的区域合并输出；
// 无有效区域时返回空占位点几何（面积为0）
func (g *HydroToolbox) VectorizeWaterMask(mask []uint8, width, height int, span Span, srid int, nominal gdal.Geometry) (out gdal.Geometry, err error) {
	if len(mask) != width*height || width <= 0 || height <= 0 {
		err = ErrWrongBufferSize
		return
	}
	ref, err := g.getSridRef(srid)
	if err != nil {
		return
	}
	drv, err := gdal.GetDriverByName(MEM_RASTER_DRIVER)
	if err != nil {
		log.Error(g.logTag+"get mem raster driver failed", zap.Error(err))
		err = ErrGdalDriverCreate
		return
	}
	ds := drv.Create(uuid.NewString(), width, height, 1, gdal.Byte, nil)
	defer ds.Close()
	ds.SetGeoTransform(SpanToGeoTransform(span, width, height))
	if proj, e := ref.ToWKT(); e == nil {
		ds.SetProjection(proj)
	}
	band := ds.RasterBand(1)
	if err = band.IO(gdal.Write, 0, 0, width, height, mask, width, height, 0, 0); err != nil {
		log.Error(g.logTag+"write mask band failed", zap.Error(err))
		err = ErrMaskWriteFailed
		return
	}

	vdrv := gdal.OGRDriverByName(MEM_VECTOR_DRIVER)
	vds, ok := vdrv.Create(uuid.NewString(), nil)
	if !ok {
		err = ErrGdalDriverCreate
		return
	}
	defer vds.Destroy()
	layer := vds.CreateLayer("water", ref, gdal.GT_Polygon, nil)
	dnField := gdal.CreateFieldDefinition(DN_FIELD, gdal.FT_Integer)
	if err = layer.CreateField(dnField, false); err != nil {
		log.Error(g.logTag+"create dn field failed", zap.Error(err))
		return
	}
	// 掩膜波段同时作为有效掩膜，0值像素不参与矢量化
	if err = band.Polygonize(band, layer, 0, nil, gdal.DummyProgress, nil); err != nil {
		log.Error(g.logTag+"polygonize mask failed", zap.Error(err))
		return
	}

	var (
		dnIdx   = layer.Definition().FieldIndex(DN_FIELD)
		feature *gdal.Feature
		geo     gdal.Geometry
		parts   []gdal.Geometry
		total   int
		gc      []destroyable
	)
	defer func() {
		for _, v := range gc {
			v.Destroy()
		}
	}()
	layer.ResetReading()
	for {
		if feature = layer.NextFeature(); feature == nil {
			break
		}
		gc = append(gc, *feature)
		total++
		if dnIdx >= 0 && feature.FieldAsInteger(dnIdx) != WaterPixel {
			continue
		}
		geo = feature.Geometry().Buffer(0, 1) // 零距离缓冲修复自相交
		gc = append(gc, geo)
		if !geo.IsValid() || geo.IsEmpty() {
			continue
		}
		if !geo.Intersects(nominal) {
			continue
		}
		parts = append(parts, geo)
	}
	log.Info(g.logTag+"vectorized mask", zap.Int("regions", total), zap.Int("kept", len(parts)))
	if len(parts) == 0 {
		out = gdal.Create(gdal.GT_Point)
		return
	}
	out = gdal.Create(gdal.GT_Polygon)
	for _, p := range parts {
		gc = append(gc, out)
		out = out.Union(p)
	}
	gc = append(gc, out)
	out = out.Buffer(0, 1)
	return
}
