package game

import (
	"encoding/json"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

const (
	auditBufferSize    = 1024
	auditMaxPerSec     = 1000
	auditFlushInterval = 250 * time.Millisecond
)

// AuditEventType names the auditable state transitions.
type AuditEventType string

const (
	EventComponentPlaced  AuditEventType = "component_placed"
	EventComponentRemoved AuditEventType = "component_removed"
	EventPaused           AuditEventType = "paused"
	EventResumed          AuditEventType = "resumed"
	EventPowerSold        AuditEventType = "power_sold"
	EventHeatVented       AuditEventType = "heat_vented"
	EventSaveImported     AuditEventType = "save_imported"
)

// AuditEvent is one JSONL record in the audit trail.
type AuditEvent struct {
	Time  time.Time      `json:"time"`
	Tick  uint64         `json:"tick"`
	Type  AuditEventType `json:"type"`
	Name  string         `json:"name,omitempty"`
	Coord *GridCoord     `json:"coord,omitempty"`
	Value float64        `json:"value,omitempty"`
}

// AuditLog appends state-transition events to a JSONL file from an
// async writer. Emission is rate limited and drops under pressure
// rather than blocking the caller.
type AuditLog struct {
	events   chan AuditEvent
	limiter  *rate.Limiter
	stopChan chan struct{}
	stopOnce sync.Once
	writerWg sync.WaitGroup

	file   *os.File
	fileMu sync.Mutex

	// Stats for monitoring
	droppedCount uint64 // atomic
	totalCount   uint64 // atomic
}

// NewAuditLog opens the file for append and starts the writer.
func NewAuditLog(filePath string) (*AuditLog, error) {
	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}

	al := &AuditLog{
		events:   make(chan AuditEvent, auditBufferSize),
		limiter:  rate.NewLimiter(auditMaxPerSec, auditMaxPerSec/10),
		stopChan: make(chan struct{}),
		file:     file,
	}

	al.writerWg.Add(1)
	go al.writerLoop()

	return al, nil
}

// Emit queues an event. Never blocks: over-rate or full-buffer events
// are counted as dropped.
func (al *AuditLog) Emit(event AuditEvent) {
	if !al.limiter.Allow() {
		atomic.AddUint64(&al.droppedCount, 1)
		return
	}
	event.Time = time.Now().UTC()

	select {
	case al.events <- event:
		atomic.AddUint64(&al.totalCount, 1)
	default:
		atomic.AddUint64(&al.droppedCount, 1)
	}
}

// Stop flushes pending events and closes the file.
func (al *AuditLog) Stop() {
	al.stopOnce.Do(func() {
		close(al.stopChan)
		al.writerWg.Wait()

		al.fileMu.Lock()
		al.file.Close()
		al.fileMu.Unlock()
	})
}

// Stats returns total and dropped event counts.
func (al *AuditLog) Stats() (total, dropped uint64) {
	return atomic.LoadUint64(&al.totalCount), atomic.LoadUint64(&al.droppedCount)
}

func (al *AuditLog) writerLoop() {
	defer al.writerWg.Done()

	ticker := time.NewTicker(auditFlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-al.stopChan:
			al.drain()
			return
		case <-ticker.C:
			al.drain()
		}
	}
}

// drain writes everything currently buffered.
func (al *AuditLog) drain() {
	al.fileMu.Lock()
	defer al.fileMu.Unlock()

	encoder := json.NewEncoder(al.file)
	for {
		select {
		case event := <-al.events:
			encoder.Encode(event)
		default:
			return
		}
	}
}
