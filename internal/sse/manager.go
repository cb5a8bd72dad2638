package sse

import (
	"context"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"email-agent/internal/logger"
	"email-agent/internal/model"
)

const (
	EventProgress = "progress"
	EventSummary  = "summary"

	clientBuffer    = 32
	broadcastBuffer = 256
)

// Event is the JSON payload written to every subscriber.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
	Time int64       `json:"time"`
}

// ProgressData describes one ingestion state change.
type ProgressData struct {
	EmailID string                `json:"email_id"`
	State   model.ProcessingState `json:"state"`
	Detail  string                `json:"detail,omitempty"`
}

// SSEManager fans ingestion events out to connected browsers. Publishing
// never blocks: a slow subscriber drops events instead of stalling ingestion.
type SSEManager struct {
	clients    map[chan []byte]bool
	clientsMux sync.RWMutex

	broadcast chan []byte
	logger    *logger.Logger

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func NewSSEManager(logger *logger.Logger) *SSEManager {
	ctx, cancel := context.WithCancel(context.Background())

	manager := &SSEManager{
		clients:   make(map[chan []byte]bool),
		broadcast: make(chan []byte, broadcastBuffer),
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
	}

	go manager.broadcastEvents()

	return manager
}

func (s *SSEManager) AddClient() chan []byte {
	s.clientsMux.Lock()
	defer s.clientsMux.Unlock()

	channel := make(chan []byte, clientBuffer)
	s.clients[channel] = true

	s.logger.Debug("Added SSE client, total clients:", len(s.clients))
	return channel
}

func (s *SSEManager) RemoveClient(channel chan []byte) {
	s.clientsMux.Lock()
	defer s.clientsMux.Unlock()

	if _, exists := s.clients[channel]; exists {
		delete(s.clients, channel)
		close(channel)
		s.logger.Debug("Removed SSE client, remaining clients:", len(s.clients))
	}
}

func (s *SSEManager) ClientCount() int {
	s.clientsMux.RLock()
	defer s.clientsMux.RUnlock()
	return len(s.clients)
}

// Broadcast queues an event for every connected client.
func (s *SSEManager) Broadcast(eventType string, data interface{}) {
	jsonData, err := json.Marshal(Event{Type: eventType, Data: data, Time: time.Now().Unix()})
	if err != nil {
		s.logger.Error("Failed to marshal broadcast event:", err)
		return
	}

	select {
	case <-s.ctx.Done():
	case s.broadcast <- jsonData:
	default:
		s.logger.Warn("SSE broadcast queue full, dropping event:", eventType)
	}
}

// ReportProgress lets the manager observe an ingestion pass.
func (s *SSEManager) ReportProgress(emailID string, state model.ProcessingState, detail string) {
	s.Broadcast(EventProgress, ProgressData{EmailID: emailID, State: state, Detail: detail})
}

func (s *SSEManager) broadcastEvents() {
	defer close(s.done)
	for {
		select {
		case msg := <-s.broadcast:
			s.fanOut(msg)
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *SSEManager) fanOut(msg []byte) {
	s.clientsMux.RLock()
	defer s.clientsMux.RUnlock()

	for channel := range s.clients {
		select {
		case channel <- msg:
		default:
			s.logger.Warn("SSE client too slow, dropping event")
		}
	}
}

// Done is closed once the manager has shut down.
func (s *SSEManager) Done() <-chan struct{} {
	return s.done
}

// Close stops the broadcaster and closes every client channel.
func (s *SSEManager) Close() {
	s.cancel()
	<-s.done

	s.clientsMux.Lock()
	defer s.clientsMux.Unlock()

	for channel := range s.clients {
		close(channel)
		delete(s.clients, channel)
	}
}
