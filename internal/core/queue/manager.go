package queue

import (
	"context"
	"sync"
	"sync/atomic"

	"snap-pantry/internal/pkg/common"

	"go.uber.org/zap"
)

// Job 需要序列化執行的寫入工作
type Job func(ctx context.Context) error

// Request 隊列請求
type Request struct {
	Context context.Context
	Job     Job
	Result  chan Result
}

// Result 處理結果
type Result struct {
	Error error
}

// Status 隊列狀態
type Status struct {
	QueueLength    int `json:"queue_length"`
	ProcessedCount int `json:"processed_count"`
	MaxQueueSize   int `json:"max_queue_size"`
}

// Manager 單一 worker 的寫入隊列，保證讀改寫依序執行
type Manager struct {
	maxSize   int
	queue     chan *Request
	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
	processed int64
}

// NewManager 創建並啟動隊列管理器
func NewManager(maxSize int) *Manager {
	if maxSize <= 0 {
		maxSize = 1
	}
	m := &Manager{
		maxSize: maxSize,
		queue:   make(chan *Request, maxSize),
		done:    make(chan struct{}),
	}

	m.wg.Add(1)
	go m.worker()

	return m
}

// worker 依序處理隊列中的工作
func (m *Manager) worker() {
	defer m.wg.Done()
	for {
		select {
		case req := <-m.queue:
			m.run(req)
		case <-m.done:
			// 關閉前處理完已排入的工作
			for {
				select {
				case req := <-m.queue:
					m.run(req)
				default:
					return
				}
			}
		}
	}
}

func (m *Manager) run(req *Request) {
	if err := req.Context.Err(); err != nil {
		req.Result <- Result{Error: err}
		return
	}
	err := req.Job(req.Context)
	atomic.AddInt64(&m.processed, 1)
	req.Result <- Result{Error: err}
}

// Enqueue 將工作加入隊列
func (m *Manager) Enqueue(ctx context.Context, job Job) (<-chan Result, error) {
	select {
	case <-m.done:
		return nil, common.ErrQueueClosed
	default:
	}

	req := &Request{
		Context: ctx,
		Job:     job,
		Result:  make(chan Result, 1),
	}

	select {
	case m.queue <- req:
		common.LogDebug("Write enqueued",
			zap.Int("queue_length", len(m.queue)),
			zap.Int("max_queue_size", m.maxSize),
		)
		return req.Result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-m.done:
		return nil, common.ErrQueueClosed
	default:
		return nil, common.ErrQueueFull
	}
}

// Submit 加入隊列並等待結果
func (m *Manager) Submit(ctx context.Context, job Job) error {
	result, err := m.Enqueue(ctx, job)
	if err != nil {
		return err
	}
	select {
	case res := <-result:
		return res.Error
	case <-ctx.Done():
		return ctx.Err()
	}
}

// GetQueueStatus 獲取隊列狀態
func (m *Manager) GetQueueStatus() *Status {
	return &Status{
		QueueLength:    len(m.queue),
		ProcessedCount: int(atomic.LoadInt64(&m.processed)),
		MaxQueueSize:   m.maxSize,
	}
}

// Close 停止接收新工作，等待已排入的工作完成
func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		close(m.done)
	})
	m.wg.Wait()
}
