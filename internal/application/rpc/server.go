package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"

	"github.com/hilthontt/signals/internal/application/events"
	"github.com/hilthontt/signals/internal/domain"
	"github.com/hilthontt/signals/internal/infrastructure/logging"
	"github.com/hilthontt/signals/internal/protocol/jsonrpc"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// call is the state of one method invocation.
type call struct {
	ctx    context.Context
	meta   Meta
	params json.RawMessage
	out    *events.Outbox
}

type handlerFunc func(s *Server, c *call) (any, error)

var methods = map[string]handlerFunc{
	"ping": (*Server).ping,

	"room.create": (*Server).roomCreate,
	"room.read":   (*Server).roomRead,
	"room.update": (*Server).roomUpdate,
	"room.delete": (*Server).roomDelete,
	"room.list":   (*Server).roomList,

	"agent.create":     (*Server).agentCreate,
	"agent.read":       (*Server).agentRead,
	"agent.update":     (*Server).agentUpdate,
	"agent.delete":     (*Server).agentDelete,
	"agent.list":       (*Server).agentList,
	"agent.join_room":  (*Server).agentJoinRoom,
	"agent.leave_room": (*Server).agentLeaveRoom,

	"track.create":     (*Server).trackCreate,
	"track.delete":     (*Server).trackDelete,
	"track.register":   (*Server).trackRegister,
	"track.unregister": (*Server).trackUnregister,
	"track.list":       (*Server).trackList,

	"webrtc.offer":     (*Server).webrtcOffer,
	"webrtc.answer":    (*Server).webrtcAnswer,
	"webrtc.candidate": (*Server).webrtcCandidate,

	"subscription.create": (*Server).subscriptionCreate,

	events.MethodEvent: (*Server).event,
}

// Methods lists the method names the server answers.
func Methods() []string {
	names := make([]string, 0, len(methods))
	for name := range methods {
		names = append(names, name)
	}
	return names
}

// Result is the outcome of one dispatch. Response is nil for
// notifications. Events are only set when the method succeeded.
type Result struct {
	Response *jsonrpc.Response
	Events   []events.Event
	Outcome  string
}

type Server struct {
	store  domain.Store
	limits domain.RoomLimits
	logger logging.Logger
	tracer trace.Tracer
}

func NewServer(store domain.Store, limits domain.RoomLimits, logger logging.Logger, tracer trace.Tracer) *Server {
	return &Server{
		store:  store,
		limits: limits,
		logger: logger,
		tracer: tracer,
	}
}

// Dispatch runs req and returns its response together with the events the
// method produced. A failing method produces no events.
func (s *Server) Dispatch(ctx context.Context, meta Meta, req *jsonrpc.Request) Result {
	ctx, span := s.tracer.Start(ctx, "rpc."+req.Method, trace.WithAttributes(
		attribute.String("rpc.system", "jsonrpc"),
		attribute.String("rpc.method", req.Method),
		attribute.Bool("rpc.notification", req.IsNotification()),
	))
	defer span.End()

	handler, ok := methods[req.Method]
	if !ok {
		span.SetStatus(codes.Error, "method not found")
		s.logger.Warn(logging.Dispatch, logging.Request, "method not found", map[logging.ExtraKey]any{
			logging.Method: req.Method,
		})
		return s.fail(req, jsonrpc.MethodNotFound(req.Method))
	}

	c := &call{
		ctx:    ctx,
		meta:   meta,
		params: req.Params,
		out:    &events.Outbox{},
	}

	result, err := s.invoke(handler, c)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		rpcErr := toJSONRPC(err)
		extra := map[logging.ExtraKey]any{
			logging.Method:       req.Method,
			logging.AgentID:      meta.AgentID().String(),
			logging.StatusCode:   rpcErr.Code,
			logging.ErrorMessage: err.Error(),
		}
		if classify(err) == KindInternal {
			s.logger.Error(logging.Dispatch, logging.Request, "method failed", extra)
		} else {
			s.logger.Debug(logging.Dispatch, logging.Request, "method rejected", extra)
		}
		return s.fail(req, rpcErr)
	}

	span.SetStatus(codes.Ok, "")
	out := Result{Events: c.out.Drain(), Outcome: OutcomeOK}
	if !req.IsNotification() {
		out.Response = jsonrpc.NewResult(req.ID, result)
	}
	return out
}

func (s *Server) fail(req *jsonrpc.Request, rpcErr *jsonrpc.Error) Result {
	out := Result{Outcome: OutcomeError}
	if !req.IsNotification() {
		out.Response = jsonrpc.NewErrorResponse(req.ID, rpcErr)
	}
	return out
}

func (s *Server) invoke(handler handlerFunc, c *call) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error(logging.Dispatch, logging.Recover, "method panicked", map[logging.ExtraKey]any{
				logging.ErrorMessage: fmt.Sprint(r),
				"stack":              string(debug.Stack()),
			})
			result, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()

	return handler(s, c)
}

// transact runs fn in one store transaction.
func (s *Server) transact(c *call, fn func(tx domain.Tx) error) error {
	return s.store.Transaction(c.ctx, fn)
}

func (s *Server) ping(c *call) (any, error) {
	return "pong", nil
}
