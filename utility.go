package hydrolib

import (
	"fmt"
)

func PointsToWkt(lon1, lon2, lat1, lat2 float64) string {
	return fmt.Sprintf("POLYGON((%[1]f %[3]f, %[1]f %[4]f, %[2]f %[4]f, %[2]f %[3]f, %[1]f %[3]f))", lon1, lon2, lat1, lat2)
}

func SpanToWkt(span Span) string {
	return PointsToWkt(span[0], span[1], span[2], span[3])
}

// 由空间范围与栅格尺寸求像素->地理坐标仿射变换（北上，无旋转）
func SpanToGeoTransform(span Span, width, height int) [6]float64 {
	return [6]float64{
		span[0], (span[1] - span[0]) / float64(width), 0,
		span[3], 0, (span[2] - span[3]) / float64(height),
	}
}

// 单个像素的地理宽高
func PixelSizeOfSpan(span Span, width, height int) (px, py float64) {
	px = (span[1] - span[0]) / float64(width)
	py = (span[3] - span[2]) / float64(height)
	return
}
