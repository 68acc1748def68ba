package game

// LoadInfo 负载信息
// 用于计算宿主进程的综合负载评分
type LoadInfo struct {
	TableCount int // 当前牌桌数
	SeatCount  int // 当前座位数
	Waiting    int
	InProgress int
	Finished   int // 已结束但未销毁
	Damaged    int
	CPUUsage   float64 // CPU 使用率（0-100）
	MemUsage   float64 // 内存使用率（0-100）
}

// CalculateLoad 计算综合负载评分
// 权重：CPU 30%、内存 20%、进行中牌桌 30%、全部牌桌 20%
// 返回值越小表示负载越低
func (li *LoadInfo) CalculateLoad() float64 {
	normalize := func(v, max float64) float64 {
		if v > max {
			return 1.0
		}
		return v / max
	}
	// 假设 1000 张牌桌为满载，CPU 和内存已经是百分比
	load := li.CPUUsage*0.3 + li.MemUsage*0.2 +
		normalize(float64(li.InProgress), 1000)*100*0.3 +
		normalize(float64(li.TableCount), 1000)*100*0.2
	return load
}
