package game

import (
	"context"
	"sync"
	"time"

	"riichi/common/log"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

const DefaultMonitorInterval = 5 * time.Second

// Monitor 监控器
// 定期收集牌桌与进程负载并写日志
type Monitor struct {
	roomManager    *RoomManager
	updateInterval time.Duration
	stopCh         chan struct{}
	stopOnce       sync.Once

	mu   sync.RWMutex
	last LoadInfo
}

func NewMonitor(roomManager *RoomManager, updateInterval time.Duration) *Monitor {
	if updateInterval <= 0 {
		updateInterval = DefaultMonitorInterval
	}
	return &Monitor{
		roomManager:    roomManager,
		updateInterval: updateInterval,
		stopCh:         make(chan struct{}),
	}
}

// Start 阻塞运行，调用方自行开协程
func (m *Monitor) Start(ctx context.Context) {
	ticker := time.NewTicker(m.updateInterval)
	defer ticker.Stop()

	// 立即执行一次
	m.reportLoad()

	for {
		select {
		case <-ctx.Done():
			log.Info("Monitor 收到停止信号，退出监控")
			return
		case <-m.stopCh:
			log.Info("Monitor 收到停止信号，退出监控")
			return
		case <-ticker.C:
			m.reportLoad()
		}
	}
}

func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

// Last 最近一次采集的负载
func (m *Monitor) Last() LoadInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.last
}

func (m *Monitor) reportLoad() {
	info := m.collectLoadInfo()
	m.mu.Lock()
	m.last = info
	m.mu.Unlock()

	log.Info("Monitor 负载: Load=%.2f, Tables=%d, InProgress=%d, Damaged=%d, CPU=%.2f%%, Mem=%.2f%%",
		info.CalculateLoad(), info.TableCount, info.InProgress, info.Damaged, info.CPUUsage, info.MemUsage)
}

func (m *Monitor) collectLoadInfo() LoadInfo {
	info := m.roomManager.GetStats()
	info.CPUUsage = cpuUsage()
	info.MemUsage = memUsage()
	return info
}

// cpuUsage 自上次调用以来的整机 CPU 使用率，失败时记 0
func cpuUsage() float64 {
	percents, err := cpu.Percent(0, false)
	if err != nil || len(percents) == 0 {
		log.Debug("Monitor 获取 CPU 使用率失败: %v", err)
		return 0
	}
	return clampPercent(percents[0])
}

func memUsage() float64 {
	vm, err := mem.VirtualMemory()
	if err != nil {
		log.Debug("Monitor 获取内存使用率失败: %v", err)
		return 0
	}
	return clampPercent(vm.UsedPercent)
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
