package signals

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hilthontt/signals/internal/application/events"
	"github.com/hilthontt/signals/internal/application/rpc"
	"github.com/hilthontt/signals/internal/domain"
	"github.com/hilthontt/signals/internal/infrastructure/logging"
	"github.com/hilthontt/signals/internal/infrastructure/metrics"
	"github.com/hilthontt/signals/internal/infrastructure/ratelimiter"
	"github.com/hilthontt/signals/internal/protocol/envelope"
	"github.com/hilthontt/signals/internal/protocol/jsonrpc"
	"github.com/hilthontt/signals/internal/protocol/topic"
	"golang.org/x/sync/errgroup"
)

// ErrClosed is returned by Enqueue once the service stopped accepting
// messages. It is temporary: another consumer can take the message.
var ErrClosed error = closedError{}

type closedError struct{}

func (closedError) Error() string   { return "signals: service closed" }
func (closedError) Temporary() bool { return true }

type Publisher interface {
	Publish(ctx context.Context, topic string, payload []byte) error
}

type Dispatcher interface {
	Dispatch(ctx context.Context, meta rpc.Meta, req *jsonrpc.Request) rpc.Result
}

type Config struct {
	InboundBuffer      int
	NotificationBuffer int
	// Limiter throttles calls per agent. Nil disables throttling.
	Limiter ratelimiter.Limiter
}

type message struct {
	topic   string
	payload []byte
}

// Service moves messages between the broker and the dispatcher. One worker
// handles inbound messages strictly in arrival order; a second one publishes
// notifications in the order they were produced.
type Service struct {
	dispatcher Dispatcher
	publisher  Publisher
	audit      domain.EventAuditRepository
	limiter    ratelimiter.Limiter
	metrics    *metrics.Collector
	logger     logging.Logger

	inbound       chan message
	notifications chan events.Event

	mu     sync.RWMutex
	closed bool
}

// NewService wires the pipeline. audit may be nil.
func NewService(
	cfg Config,
	dispatcher Dispatcher,
	publisher Publisher,
	audit domain.EventAuditRepository,
	collector *metrics.Collector,
	logger logging.Logger,
) *Service {
	return &Service{
		dispatcher:    dispatcher,
		publisher:     publisher,
		audit:         audit,
		limiter:       cfg.Limiter,
		metrics:       collector,
		logger:        logger,
		inbound:       make(chan message, max(cfg.InboundBuffer, 1)),
		notifications: make(chan events.Event, max(cfg.NotificationBuffer, 1)),
	}
}

// Enqueue hands a raw broker message to the inbound worker. It waits while
// the queue is full and fails once the service is closed.
func (s *Service) Enqueue(ctx context.Context, topic string, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return ErrClosed
	}

	select {
	case s.inbound <- message{topic: topic, payload: payload}:
		return nil
	case <-ctx.Done():
		s.metrics.MessageDropped(metrics.ReasonQueueFull)
		return ctx.Err()
	}
}

// Close stops accepting messages. Already queued ones are still handled.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.closed = true
		close(s.inbound)
	}
}

// Run processes messages until ctx is done or Close is called, then drains
// both queues and returns.
func (s *Service) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, s.Close)
	defer stop()

	// Draining must still be able to publish after ctx is canceled.
	work := context.WithoutCancel(ctx)

	var g errgroup.Group

	g.Go(func() error {
		defer close(s.notifications)
		for msg := range s.inbound {
			s.handle(work, msg)
		}
		return nil
	})

	g.Go(func() error {
		for ev := range s.notifications {
			s.deliver(work, ev)
		}
		return nil
	})

	err := g.Wait()

	s.logger.Info(logging.General, logging.Shutdown, "signals pipeline drained", nil)
	return err
}

func (s *Service) handle(ctx context.Context, msg message) {
	s.metrics.MessageReceived()

	t, err := topic.Parse(msg.topic)
	if err != nil {
		s.drop(metrics.ReasonTopic, msg.topic, err)
		return
	}

	if !acceptsInbound(t) {
		s.drop(metrics.ReasonDirection, msg.topic, errors.New("not an inbound topic"))
		return
	}

	env, err := envelope.Decode(msg.payload)
	if err != nil {
		s.drop(metrics.ReasonEnvelope, msg.topic, err)
		return
	}

	req, err := env.Message()
	if err != nil {
		s.drop(metrics.ReasonMessage, msg.topic, err)
		return
	}

	meta := rpc.Meta{Subject: env.Sub, Topic: t}

	var res rpc.Result
	if wait, limited := s.throttled(meta); limited {
		if req.IsNotification() {
			s.drop(metrics.ReasonRateLimit, msg.topic, errors.New("rate limit exceeded"))
			return
		}
		res = rpc.Result{
			Response: jsonrpc.NewErrorResponse(req.ID, jsonrpc.NewError(
				jsonrpc.CodeTooManyRequests,
				fmt.Sprintf("rate limit exceeded, retry in %s", wait.Round(time.Millisecond)),
			)),
			Outcome: rpc.OutcomeError,
		}
		s.metrics.MessageDropped(metrics.ReasonRateLimit)
	} else {
		start := time.Now()
		res = s.dispatcher.Dispatch(ctx, meta, req)
		s.metrics.ObserveDispatch(req.Method, res.Outcome, time.Since(start))
	}

	// Events go out before the response so a caller never sees its answer
	// ahead of the broadcast it caused.
	for _, ev := range res.Events {
		s.notifications <- ev
	}

	if res.Response == nil {
		return
	}

	dest, ok := topic.Reverse(t)
	if !ok {
		s.drop(metrics.ReasonNoReply, msg.topic, errors.New("no reply topic"))
		return
	}

	body, err := json.Marshal(res.Response)
	if err != nil {
		s.drop(metrics.ReasonEncode, msg.topic, err)
		return
	}

	if err := s.publisher.Publish(ctx, dest.String(), body); err != nil {
		s.drop(metrics.ReasonPublish, dest.String(), err)
		return
	}
	s.metrics.MessagePublished("response")

	s.logger.Debug(logging.Dispatch, logging.Response, "response published", map[logging.ExtraKey]any{
		logging.TopicName: dest.String(),
		logging.Method:    req.Method,
	})
}

func (s *Service) throttled(meta rpc.Meta) (time.Duration, bool) {
	if s.limiter == nil {
		return 0, false
	}

	agentID := meta.AgentID()
	if agentID == uuid.Nil {
		return 0, false
	}

	ok, wait := s.limiter.Allow(agentID.String())
	return wait, !ok
}

// acceptsInbound reports whether clients publish requests on t. Agent
// inbound, App and pong topics are written by the service itself.
func acceptsInbound(t topic.Topic) bool {
	switch t := t.(type) {
	case topic.Ping, topic.State:
		return true
	case topic.Agent:
		return t.Direction == topic.Out
	}
	return false
}

func (s *Service) deliver(ctx context.Context, ev events.Event) {
	dest, body, err := events.Encode(ev)
	if err != nil {
		s.drop(metrics.ReasonEncode, string(ev.Kind), err)
		return
	}

	if err := s.publisher.Publish(ctx, dest.String(), body); err != nil {
		s.drop(metrics.ReasonPublish, dest.String(), err)
		return
	}
	s.metrics.MessagePublished("notification")
	s.metrics.EventEmitted(string(ev.Kind))

	s.logger.Debug(logging.FanOut, logging.Publish, "notification published", map[logging.ExtraKey]any{
		logging.TopicName: dest.String(),
		logging.EventKind: ev.Kind,
	})

	if s.audit == nil {
		return
	}

	record := domain.NewEventAuditLog(string(ev.Kind), dest.String(), ev.RoomID, ev.To, map[string]any{
		"size": len(body),
	})
	if err := s.audit.Log(ctx, record); err != nil {
		s.metrics.MessageDropped(metrics.ReasonAuditWrite)
		s.logger.Warn(logging.MongoDB, logging.Audit, "failed to record event", map[logging.ExtraKey]any{
			logging.EventKind:    ev.Kind,
			logging.ErrorMessage: err.Error(),
		})
	}
}

func (s *Service) drop(reason, topicName string, err error) {
	s.metrics.MessageDropped(reason)
	s.logger.Warn(logging.Dispatch, logging.Drop, "message dropped", map[logging.ExtraKey]any{
		logging.Reason:       reason,
		logging.TopicName:    topicName,
		logging.ErrorMessage: err.Error(),
	})
}
