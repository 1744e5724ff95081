package hydrolib

import (
	"math"
	"sort"

	"github.com/wgdzlh/hydrolib/log"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// 单景自适应水体阈值检测（边缘引导Otsu）
// 影像退化（不足两个不同取值）时短路返回阈值1.0、状态NoWater；
// 否则在归一化影像的膨胀边缘带内对原始指数值求Otsu阈值，带内样本退化时回退为全图Otsu；
// 最后做符号校正：阈值之上的像素若大多为非正指数值，则将阈值覆盖为0并标记状态
func (g *HydroToolbox) DetectWaterThreshold(img []float64, width, height int, cfg DetectionConfig) (thr float64, status DetectionStatus) {
	thr = 1.0
	status = NoWater
	if len(img) != width*height || len(img) == 0 || !hasDistinctValues(img) {
		return
	}
	cfg = cfg.withDefaults()
	norm := rescaleUnit(img)
	band := g.detectEdgeBand(norm, width, height, cfg)
	samples := make([]float64, 0, len(img)/4)
	for i, in := range band {
		if in {
			samples = append(samples, img[i])
		}
	}
	if len(samples) > 0 && hasDistinctValues(samples) {
		thr = otsuThreshold(samples)
		status = EdgeOtsu
	} else {
		thr = otsuThreshold(img)
		status = FullOtsu
	}
	var pos, above int
	for _, v := range img {
		if v > 0 {
			pos++
		}
		if v > thr {
			above++
		}
	}
	// 符号校正：阈值之上的像素中正值占比不足九成，说明Otsu错分了明显的非水像素
	if above > 0 && float64(pos)/float64(above) < SignCheckRatio {
		thr = 0
		status += EdgeOtsuOverridden - EdgeOtsu
	}
	log.Info(g.logTag+"water threshold", zap.Float64("thr", thr), zap.Int("status", int(status)),
		zap.Int("edgeSamples", len(samples)))
	return
}

// 依据阈值生成二值水体掩膜
func BuildWaterMask(img []float64, thr float64) (mask []uint8) {
	mask = make([]uint8, len(img))
	for i, v := range img {
		if v > thr {
			mask[i] = WaterPixel
		}
	}
	return
}

func hasDistinctValues(xs []float64) bool {
	for _, v := range xs[1:] {
		if v != xs[0] {
			return true
		}
	}
	return false
}

// 最小-最大归一化到[0,1]
func rescaleUnit(xs []float64) []float64 {
	mn, mx := floats.Min(xs), floats.Max(xs)
	out := make([]float64, len(xs))
	copy(out, xs)
	floats.AddConst(-mn, out)
	floats.Scale(1/(mx-mn), out)
	return out
}

// 浮点样本的Otsu阈值：[min,max]上256桶直方图，取类间方差最大的分割处上边界
func otsuThreshold(xs []float64) float64 {
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)
	mn, mx := sorted[0], sorted[len(sorted)-1]
	if mn == mx {
		return mn
	}
	dividers := floats.Span(make([]float64, OtsuBins+1), mn, mx)
	// 末桶上界外扩一个ulp，保证最大样本落入末桶
	dividers[OtsuBins] = math.Nextafter(mx, math.MaxFloat64)
	hist := stat.Histogram(nil, dividers, sorted, nil)
	var (
		total   = float64(len(sorted))
		centers = make([]float64, OtsuBins)
		sumAll  float64
	)
	for i := range centers {
		centers[i] = (dividers[i] + dividers[i+1]) / 2
		sumAll += hist[i] * centers[i]
	}
	var (
		w0, sum0, best float64
		bestIdx        int
	)
	for t := 0; t < OtsuBins-1; t++ {
		w0 += hist[t]
		sum0 += hist[t] * centers[t]
		if w0 == 0 {
			continue
		}
		w1 := total - w0
		if w1 == 0 {
			break
		}
		mu0 := sum0 / w0
		mu1 := (sumAll - sum0) / w1
		v := w0 * w1 * (mu0 - mu1) * (mu0 - mu1)
		if v > best {
			best = v
			bestIdx = t
		}
	}
	return dividers[bestIdx+1]
}
