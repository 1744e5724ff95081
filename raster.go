package hydrolib

import (
	"github.com/wgdzlh/hydrolib/log"

	"github.com/lukeroth/gdal"
	"go.uber.org/zap"
)

// 读取单波段水体指数Tif为一景浮点数组，附带空间范围与srid
// 波段值按Float64读出；无法识别投影srid时回退为UNIVERSAL_SRID
func (g *HydroToolbox) ParseIndexRaster(tif string) (img []float64, width, height int, span Span, srid int, err error) {
	ds, err := gdal.Open(tif, gdal.ReadOnly)
	if err != nil {
		log.Error(g.logTag+"open index tif failed", zap.String("tif", tif), zap.Error(err))
		err = ErrInvalidTif
		return
	}
	defer ds.Close()
	if ds.RasterCount() < 1 {
		log.Error(g.logTag+"index tif has no band", zap.String("tif", tif))
		err = ErrWrongTif
		return
	}
	width = ds.RasterXSize()
	height = ds.RasterYSize()
	if width <= 0 || height <= 0 {
		err = ErrWrongTif
		return
	}
	gt := ds.GeoTransform()
	span[0] = gt[0]
	span[1] = gt[0] + gt[1]*float64(width)
	span[3] = gt[3]
	span[2] = gt[3] + gt[5]*float64(height)

	srid = UNIVERSAL_SRID
	sp := gdal.CreateSpatialReference(ds.Projection())
	if id, e := g.getSrid(sp); e == nil {
		srid = id
	} else {
		log.Info(g.logTag+"index tif srid fallback", zap.String("tif", tif), zap.Int("srid", srid))
	}
	sp.Destroy()

	img = make([]float64, width*height)
	if err = ds.RasterBand(1).IO(gdal.Read, 0, 0, width, height, img, width, height, 0, 0); err != nil {
		log.Error(g.logTag+"read index band failed", zap.String("tif", tif), zap.Error(err))
		img = nil
		err = ErrTifReadFailed
		return
	}
	log.Info(g.logTag+"read index tif", zap.String("tif", tif), zap.Int("width", width), zap.Int("height", height))
	return
}

// 依次读取多景同尺寸指数Tif组成时间序列栈，尺寸或范围不一致时报错
func (g *HydroToolbox) ParseIndexStack(tifs []string) (stack *IndexStack, span Span, srid int, err error) {
	if len(tifs) == 0 {
		err = ErrEmptyStack
		return
	}
	var (
		img           []float64
		width, height int
		sSpan         Span
		sSrid         int
	)
	for i, tif := range tifs {
		if img, width, height, sSpan, sSrid, err = g.ParseIndexRaster(tif); err != nil {
			return
		}
		if i == 0 {
			stack = &IndexStack{
				Data:   make([]float64, 0, len(tifs)*width*height),
				Scenes: len(tifs),
				Height: height,
				Width:  width,
			}
			span = sSpan
			srid = sSrid
		} else if width != stack.Width || height != stack.Height || sSpan != span || sSrid != srid {
			log.Error(g.logTag+"index stack shape mismatch", zap.String("tif", tif))
			stack = nil
			err = ErrStackShape
			return
		}
		stack.Data = append(stack.Data, img...)
	}
	return
}
