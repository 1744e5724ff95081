package hydrolib

const (
	FILE_EXT_SHP      = ".shp"
	FILE_EXT_JSON     = ".json"
	SHAPE_ENCODING    = "UTF-8"
	SHP_DRIVER_NAME   = "ESRI Shapefile"
	MEM_RASTER_DRIVER = "MEM"
	MEM_VECTOR_DRIVER = "Memory"
	ENCODING_OPTION   = "ENCODING=" + SHAPE_ENCODING
	UNIVERSAL_SRID    = 4326
	GEOJSON_SRID      = 4326
	WKT_ALG_SRID      = 3857

	ErrColumnMissingTemplate = `shp文件中缺失【%s】字段`
	ErrColumnEmptyTemplate   = `shp文件图斑中【%s】字段为空`

	SHP_FIELD_SID    = "sid"
	SHP_FIELD_SNAME  = "名称"
	SHP_FIELD_DATE   = "date"
	SHP_FIELD_LEVEL  = "level"
	SHP_FIELD_STATUS = "status"

	DN_FIELD   = "dn"
	WaterPixel = 1

	// 空几何占位WKT，表示该景未检出水体
	EmptyGeomWkt = "POINT EMPTY"

	DefaultCannySigma     = 4.0
	DefaultCannyThreshold = 0.3
	DefaultDilationRadius = 4
	DefaultWorkers        = 4

	OtsuBins       = 256
	SignCheckRatio = 0.9

	DefaultWktBudget = 50000
	SimplifyT0       = 0.5
	SimplifyStep     = 0.5
	MaxSimplifyIter  = 20

	BuffQuadSegs = 12
)
