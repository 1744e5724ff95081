package hydrolib

import (
	"fmt"
	"path/filepath"

	"github.com/wgdzlh/hydrolib/log"
	"github.com/wgdzlh/hydrolib/utils"

	"github.com/lukeroth/gdal"
	"go.uber.org/zap"
)

const (
	detectionShpName = "water_extent" + FILE_EXT_SHP
	recordTimeLayout = "2006-01-02 15:04:05"
)

var (
	fieldSNameGbk, _ = utils.Utf8StrToGbk(SHP_FIELD_SNAME)
)

func (g *HydroToolbox) parseShp(shp string, noTrans ...bool) (ret gdal.Geometry, err error) {
	driver := gdal.OGRDriverByName(SHP_DRIVER_NAME)
	ds, ok := driver.Open(shp, 0)
	if !ok {
		err = ErrGdalDriverOpen
		return
	}
	defer ds.Destroy()
	var (
		layer    = ds.LayerByIndex(0)
		mayTrans = len(noTrans) == 0 || !noTrans[0]
		srid     int
		feature  *gdal.Feature
		gc       []destroyable
	)
	if mayTrans {
		if srid, err = g.getSrid(layer.SpatialReference()); err != nil {
			return
		}
	}
	defer func() {
		for _, v := range gc {
			v.Destroy()
		}
	}()
	ret = gdal.Create(gdal.GT_Polygon)
	for {
		if feature = layer.NextFeature(); feature != nil {
			gc = append(gc, *feature)
			gc = append(gc, ret)
			ret = ret.Union(feature.Geometry())
		} else {
			break
		}
	}
	if mayTrans && srid != UNIVERSAL_SRID {
		var tRef gdal.SpatialReference
		if tRef, err = g.getSridRef(UNIVERSAL_SRID); err == nil {
			if err = ret.TransformTo(tRef); err != nil {
				log.Error(g.logTag+"geo transform failed", zap.Error(err))
			}
		}
		if err != nil {
			gc = append(gc, ret)
		}
	}
	return
}

// 将shp中全部要素合并为常态水域矢量WKB（srid=4326）
func (g *HydroToolbox) GetNominalFromShp(shp string) (ret GdalGeo, err error) {
	log.Info(g.logTag+"start nominal shp trans", zap.String("shp", shp))
	geo, err := g.parseShp(shp)
	if err != nil {
		return
	}
	defer geo.Destroy()
	if geo.IsEmpty() {
		err = ErrEmptyNominalGeo
		return
	}
	ret, err = geo.ToWKB()
	log.Info(g.logTag+"got nominal wkb from shp", zap.String("shp", shp), zap.Bool("succeed", err == nil && len(ret) > 0))
	return
}

// 解析监测站点shp（sid与名称字段，字段名兼容GBK编码）
func (g *HydroToolbox) ParseSiteShp(shp string) (ret []SiteSpeckle, err error) {
	driver := gdal.OGRDriverByName(SHP_DRIVER_NAME)
	ds, ok := driver.Open(shp, 0)
	if !ok {
		err = ErrGdalDriverOpen
		return
	}
	defer ds.Destroy()
	layer := ds.LayerByIndex(0)
	def := layer.Definition()
	idIdx := def.FieldIndex(SHP_FIELD_SID)
	if idIdx < 0 {
		err = fmt.Errorf(ErrColumnMissingTemplate, SHP_FIELD_SID)
		return
	}
	nameIdx := def.FieldIndex(SHP_FIELD_SNAME)
	nameGbk := false
	if nameIdx < 0 {
		if nameIdx = def.FieldIndex(fieldSNameGbk); nameIdx >= 0 {
			nameGbk = true
		}
	}
	n := 128
	if nf, _ := layer.FeatureCount(false); nf > 0 {
		n = nf
	}
	ret = make([]SiteSpeckle, 0, n)
	var (
		feature *gdal.Feature
		wkb     []byte
		idStr   string
		name    string
		e       error
		gc      []destroyable
	)
	defer func() {
		for _, v := range gc {
			v.Destroy()
		}
	}()
	for {
		if feature = layer.NextFeature(); feature == nil {
			break
		}
		gc = append(gc, *feature)
		wkb, e = feature.Geometry().ToWKB()
		if len(wkb) < 3 || e != nil {
			log.Error(g.logTag+"err in wkb trans", zap.Int64("fid", feature.FID()), zap.Error(e))
			continue
		}
		if idStr = feature.FieldAsString(idIdx); idStr == "" {
			log.Error(g.logTag+"empty site id", zap.Int64("fid", feature.FID()))
			continue
		}
		name = ""
		if nameIdx >= 0 {
			name = feature.FieldAsString(nameIdx)
			if nameGbk && name != "" {
				if name, e = utils.GbkStrToUtf8(name); e != nil {
					log.Error(g.logTag+"err in trans-encoding site name", zap.Int64("fid", feature.FID()), zap.Error(e))
					name = ""
				}
			}
		}
		ret = append(ret, SiteSpeckle{
			Id:   idStr,
			Name: name,
			Geom: wkb,
		})
	}
	log.Info(g.logTag+"got sites from shp", zap.String("shp", shp), zap.Int("cnt", len(ret)))
	return
}

func (g *HydroToolbox) getShpDriver(shp string, srid int) (ds gdal.DataSource, ref gdal.SpatialReference, layer gdal.Layer, err error) {
	log.Info(g.logTag+"output shp files", zap.String("shp", shp), zap.Int("srid", srid))
	driver := gdal.OGRDriverByName(SHP_DRIVER_NAME)
	ds, ok := driver.Create(shp, nil)
	if !ok {
		err = ErrGdalDriverCreate
		return
	}
	if ref, err = g.getSridRef(srid); err != nil {
		return
	}
	layer = ds.CreateLayer("", ref, gdal.GT_Unknown, []string{ENCODING_OPTION})
	return
}

func (g *HydroToolbox) initDetectionLayer(layer gdal.Layer) (err error) {
	dateField := gdal.CreateFieldDefinition(SHP_FIELD_DATE, gdal.FT_String)
	dateField.SetWidth(32)
	if err = layer.CreateField(dateField, false); err != nil {
		return
	}
	levelField := gdal.CreateFieldDefinition(SHP_FIELD_LEVEL, gdal.FT_Real)
	if err = layer.CreateField(levelField, false); err != nil {
		return
	}
	statusField := gdal.CreateFieldDefinition(SHP_FIELD_STATUS, gdal.FT_Integer)
	err = layer.CreateField(statusField, false)
	return
}

// 将检测序列写入shp，每景一个要素（date/level/status + 检测水域几何）
func (g *HydroToolbox) WriteDetectionsShapefile(shp string, srid int, series *WaterLevelSeries) (err error) {
	if series == nil || series.Len() == 0 {
		err = ErrEmptyExportSeries
		return
	}
	ds, ref, layer, err := g.getShpDriver(shp, srid)
	if err != nil {
		return
	}
	defer ds.Destroy() // 生成shp文件 + 释放资源
	if err = g.initDetectionLayer(layer); err != nil {
		return
	}
	var (
		def       = layer.Definition()
		dateIdx   = def.FieldIndex(SHP_FIELD_DATE)
		levelIdx  = def.FieldIndex(SHP_FIELD_LEVEL)
		statusIdx = def.FieldIndex(SHP_FIELD_STATUS)
		feature   gdal.Feature
		geo       gdal.Geometry
		valid     int
		e         error
		gc        = make([]destroyable, len(series.Records))
	)
	for i, rec := range series.Records {
		feature = def.Create()
		gc[i] = feature
		if e = feature.SetFID(int64(i)); e != nil {
			log.Error(g.logTag+"err in set feature fid", zap.Error(e))
			continue
		}
		feature.SetFieldString(dateIdx, rec.Timestamp.Format(recordTimeLayout))
		feature.SetFieldFloat64(levelIdx, rec.WaterLevel)
		feature.SetFieldInteger(statusIdx, int(rec.Status))
		if geo, e = g.parseWKT(rec.Geom, ref); e != nil {
			continue
		}
		if e = feature.SetGeometryDirectly(geo); e != nil {
			log.Error(g.logTag+"err in set geom of feature", zap.Error(e))
			continue
		}
		if e = layer.Create(feature); e != nil {
			log.Error(g.logTag+"err in create feature of layer", zap.Error(e))
			continue
		}
		valid++
	}
	for _, v := range gc {
		v.Destroy()
	}
	log.Info(g.logTag+"detection shp created", zap.String("shp", shp), zap.Int("total", series.Len()), zap.Int("valid", valid))
	return
}

// 在tmpDir下创建唯一子目录并导出检测序列shp，返回shp路径
func (g *HydroToolbox) ExportDetections(series *WaterLevelSeries, srid int) (shp string, err error) {
	dir, err := utils.GetUniqSubDir(g.tmpDir)
	if err != nil {
		log.Error(g.logTag+"create export dir failed", zap.Error(err))
		return
	}
	shp = filepath.Join(dir, detectionShpName)
	err = g.WriteDetectionsShapefile(shp, srid, series)
	return
}
