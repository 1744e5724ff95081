package hydrolib

import "errors"

var (
	ErrGdalDriverCreate  = errors.New("gdal driver create err")
	ErrGdalDriverOpen    = errors.New("gdal driver open err")
	ErrVoidSrid          = errors.New("gdal shp with void srid")
	ErrGdalWrongGeoType  = errors.New("gdal wrong geo type")
	ErrGdalWrongGeoJSON  = errors.New("gdal wrong GeoJSON")
	ErrInvalidWKT        = errors.New("invalid WKT")
	ErrInvalidTif        = errors.New("invalid tif")
	ErrWrongTif          = errors.New("malformed tif")
	ErrTifReadFailed     = errors.New("tif read failed")
	ErrWrongBufferSize   = errors.New("wrong buffer size")
	ErrEmptyStack        = errors.New("empty index stack")
	ErrStackShape        = errors.New("index stack shape mismatch")
	ErrTimestampCount    = errors.New("timestamp count mismatch")
	ErrMaskWriteFailed   = errors.New("mask band write failed")
	ErrEmptyNominalGeo   = errors.New("empty nominal geometry")
	ErrVectorizeNoLayer  = errors.New("vectorize layer create failed")
	ErrEmptyExportSeries = errors.New("empty detection series")
)
