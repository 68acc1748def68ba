package game

import (
	"sync"

	"riichi/common/log"
)

const DefaultDestroyQueueSize = 128

/*
	Worker 是牌桌的宿主：
		1.持有 RoomManager，所有牌桌在同一个进程内独立运行
		2.牌桌引擎崩坏或结束时请求销毁，销毁在独立协程里执行，避免 actor 协程等待自己退出
*/

type Worker struct {
	RoomManager *RoomManager

	destroyTableCh chan string
	destroyMu      sync.Mutex
	destroyClosed  bool
	loopExit       chan struct{}
}

func NewWorker(roomManager *RoomManager) *Worker {
	if roomManager == nil {
		roomManager = NewRoomManager()
	}
	worker := &Worker{
		RoomManager:    roomManager,
		destroyTableCh: make(chan string, DefaultDestroyQueueSize),
		loopExit:       make(chan struct{}),
	}

	go worker.destroyTableLoop()

	return worker
}

func (w *Worker) destroyTableLoop() {
	defer close(w.loopExit)
	for tableID := range w.destroyTableCh {
		if tableID == "" {
			continue
		}
		if err := w.RoomManager.CloseTable(tableID); err != nil {
			log.Warn("Worker destroyTableLoop 删除牌桌失败: %v", err)
		}
	}
}

// RequestDestroyTable 实现 mahjong.TableHost，队列满时丢弃并告警
func (w *Worker) RequestDestroyTable(tableID string) {
	if tableID == "" {
		return
	}

	w.destroyMu.Lock()
	defer w.destroyMu.Unlock()
	if w.destroyClosed {
		return
	}

	select {
	case w.destroyTableCh <- tableID:
	default:
		log.Warn("Worker RequestDestroyTable 队列已满, tableID=%s", tableID)
	}
}

// Close 停止销毁协程并关闭剩余牌桌
func (w *Worker) Close() {
	w.destroyMu.Lock()
	if w.destroyClosed {
		w.destroyMu.Unlock()
		return
	}
	w.destroyClosed = true
	close(w.destroyTableCh)
	w.destroyMu.Unlock()

	<-w.loopExit
	w.RoomManager.CloseAll()
	log.Info("Worker 已关闭")
}
