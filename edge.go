package hydrolib

import (
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
	"gonum.org/v1/gonum/floats"
)

// 在归一化影像上提取膨胀后的边缘带（Canny风格：高斯平滑、Sobel梯度、非极大值抑制、滞后阈值）
// 高阈值为相对最大梯度的比例，低阈值取其一半；返回与影像同尺寸的带内标记
func (g *HydroToolbox) detectEdgeBand(norm []float64, width, height int, cfg DetectionConfig) []bool {
	band := make([]bool, width*height)
	if width < 3 || height < 3 {
		return band
	}
	blurred := blur.Gaussian(grayFromUnit(norm, width, height), cfg.CannySigma)
	lum := make([]float64, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			lum[y*width+x] = float64(blurred.RGBAAt(x, y).R) / 255
		}
	}
	mag, dir := sobelGradients(lum, width, height)
	suppressed := suppressNonMaxima(mag, dir, width, height)
	maxMag := floats.Max(suppressed)
	if maxMag <= 0 {
		return band
	}
	high := cfg.CannyThreshold * maxMag
	edges := hysteresisEdges(suppressed, width, height, high/2, high)

	edgeImg := image.NewGray(image.Rect(0, 0, width, height))
	for i, on := range edges {
		if on {
			edgeImg.SetGray(i%width, i/width, color.Gray{Y: 255})
		}
	}
	dilated := effect.Dilate(edgeImg, float64(cfg.DilationRadius))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			band[y*width+x] = dilated.RGBAAt(x, y).R > 0
		}
	}
	return band
}

func grayFromUnit(norm []float64, width, height int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := norm[y*width+x]
			if v < 0 {
				v = 0
			} else if v > 1 {
				v = 1
			}
			img.SetGray(x, y, color.Gray{Y: uint8(v*255 + 0.5)})
		}
	}
	return img
}

func sobelGradients(lum []float64, width, height int) (mag, dir []float64) {
	mag = make([]float64, width*height)
	dir = make([]float64, width*height)
	at := func(x, y int) float64 {
		return lum[clampInt(y, 0, height-1)*width+clampInt(x, 0, width-1)]
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			gx := -at(x-1, y-1) + at(x+1, y-1) - 2*at(x-1, y) + 2*at(x+1, y) - at(x-1, y+1) + at(x+1, y+1)
			gy := -at(x-1, y-1) - 2*at(x, y-1) - at(x+1, y-1) + at(x-1, y+1) + 2*at(x, y+1) + at(x+1, y+1)
			mag[y*width+x] = math.Sqrt(gx*gx + gy*gy)
			dir[y*width+x] = math.Atan2(gy, gx)
		}
	}
	return
}

// 沿梯度方向保留局部极大值，细化边缘至单像素宽
func suppressNonMaxima(mag, dir []float64, width, height int) []float64 {
	out := make([]float64, width*height)
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			i := y*width + x
			angle := dir[i]
			m := mag[i]
			var n1, n2 float64
			switch {
			case (angle >= -math.Pi/8 && angle < math.Pi/8) || angle >= 7*math.Pi/8 || angle < -7*math.Pi/8:
				n1, n2 = mag[i-1], mag[i+1]
			case (angle >= math.Pi/8 && angle < 3*math.Pi/8) || (angle >= -7*math.Pi/8 && angle < -5*math.Pi/8):
				n1, n2 = mag[i-width+1], mag[i+width-1]
			case (angle >= 3*math.Pi/8 && angle < 5*math.Pi/8) || (angle >= -5*math.Pi/8 && angle < -3*math.Pi/8):
				n1, n2 = mag[i-width], mag[i+width]
			default:
				n1, n2 = mag[i-width-1], mag[i+width+1]
			}
			if m >= n1 && m >= n2 {
				out[i] = m
			}
		}
	}
	return out
}

// 滞后阈值：高于high的为强边缘，介于low与high之间且邻接强边缘的弱边缘一并保留
func hysteresisEdges(mag []float64, width, height int, low, high float64) []bool {
	edges := make([]bool, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			if mag[i] >= high {
				edges[i] = true
				continue
			}
			if mag[i] < low {
				continue
			}
			for ky := -1; ky <= 1 && !edges[i]; ky++ {
				for kx := -1; kx <= 1; kx++ {
					ni := clampInt(y+ky, 0, height-1)*width + clampInt(x+kx, 0, width-1)
					if mag[ni] >= high {
						edges[i] = true
						break
					}
				}
			}
		}
	}
	return edges
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
