package hydrolib

import (
	"encoding/json"
	"sort"
	"time"
)

type AnyJson = json.RawMessage

type GdalGeo = []byte

// 空间范围 [minX, maxX, minY, maxY]
type Span = [4]float64

// 单景检测状态码
type DetectionStatus int

const (
	NoWater            DetectionStatus = iota // 无水体（影像退化，阈值回退为1.0）
	EdgeOtsu                                  // 边缘带内Otsu
	FullOtsu                                  // 全图Otsu（边缘带内样本退化）
	EdgeOtsuOverridden                        // 边缘带Otsu被符号校正覆盖
	FullOtsuOverridden                        // 全图Otsu被符号校正覆盖
)

// 水体指数影像时间序列栈，按景优先存储，各景同尺寸
type IndexStack struct {
	Data   []float64
	Scenes int
	Height int
	Width  int
}

// 第i景的指数数组
func (s *IndexStack) Scene(i int) []float64 {
	n := s.Height * s.Width
	return s.Data[i*n : (i+1)*n]
}

// 单景水体检测结果
type DetectionRecord struct {
	Timestamp  time.Time
	WaterLevel float64         // 检测面积与常态水域面积之比，>=0
	Status     DetectionStatus // 0-4
	Geom       string          // 检测水域范围WKT，无水体时为空占位点
}

// 检测参数，零值字段取默认
type DetectionConfig struct {
	Simplify       bool    // 是否按WKT长度预算简化输出矢量
	CannySigma     float64 // 边缘检测平滑尺度，默认4
	CannyThreshold float64 // 边缘梯度高阈值（相对最大梯度的比例），默认0.3
	DilationRadius int     // 边缘带膨胀半径（像素），默认4
	WktSizeBudget  int     // 简化目标WKT长度，默认DefaultWktBudget
	Workers        int     // 并发处理景数，默认DefaultWorkers
}

func (c DetectionConfig) withDefaults() DetectionConfig {
	if c.CannySigma <= 0 {
		c.CannySigma = DefaultCannySigma
	}
	if c.CannyThreshold <= 0 {
		c.CannyThreshold = DefaultCannyThreshold
	}
	if c.DilationRadius <= 0 {
		c.DilationRadius = DefaultDilationRadius
	}
	if c.WktSizeBudget <= 0 {
		c.WktSizeBudget = DefaultWktBudget
	}
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	return c
}

// 水位时间序列，按时间戳升序；列式字段与Records一一对应
type WaterLevelSeries struct {
	Timestamps []time.Time
	Levels     []float64
	Statuses   []DetectionStatus
	Records    []DetectionRecord

	aux map[string][]float64
}

func newWaterLevelSeries(records []DetectionRecord) *WaterLevelSeries {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.Before(records[j].Timestamp)
	})
	s := &WaterLevelSeries{
		Timestamps: make([]time.Time, len(records)),
		Levels:     make([]float64, len(records)),
		Statuses:   make([]DetectionStatus, len(records)),
		Records:    records,
		aux:        map[string][]float64{},
	}
	for i, r := range records {
		s.Timestamps[i] = r.Timestamp
		s.Levels[i] = r.WaterLevel
		s.Statuses[i] = r.Status
	}
	return s
}

func (s *WaterLevelSeries) Len() int {
	return len(s.Records)
}

// 按时间戳挂载外部计算的单景标量（如有效数据覆盖率），缺失时间戳取零值
func (s *WaterLevelSeries) AttachScalar(name string, byTime map[time.Time]float64) {
	vals := make([]float64, len(s.Timestamps))
	for i, ts := range s.Timestamps {
		vals[i] = byTime[ts]
	}
	s.aux[name] = vals
}

// 取已挂载的标量列，与Timestamps对齐；未挂载返回nil
func (s *WaterLevelSeries) Scalar(name string) []float64 {
	return s.aux[name]
}

// 监测水域站点矢量
type SiteSpeckle struct {
	Id   string
	Name string
	Geom GdalGeo // 站点常态水域WKB
}
