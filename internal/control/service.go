// Package control implements the daemon's local control service: gRPC over
// the ipc unix socket, with JSON-encoded messages.
package control

import (
	"context"
	"errors"
	"log/slog"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"go.klb.dev/textassist/internal/action"
	"go.klb.dev/textassist/internal/monitor"
	"go.klb.dev/textassist/internal/session"
)

const serviceName = "textassist.v1.Control"

// Monitor is the part of the controller the service exposes.
type Monitor interface {
	Status(ctx context.Context) (monitor.Status, error)
	Pause(ctx context.Context) (monitor.Status, error)
	Resume(ctx context.Context) (monitor.Status, error)
	Act(ctx context.Context, req monitor.ActRequest) (action.Outcome, error)
	History() *session.History
}

// Service implements the Control service.
type Service struct {
	m Monitor
}

// New returns a Service backed by m.
func New(m Monitor) *Service {
	return &Service{m: m}
}

// Register adds the service to s.
func Register(s *grpc.Server, svc *Service) {
	s.RegisterService(&serviceDesc, svc)
}

func (s *Service) Status(ctx context.Context, _ *StatusRequest) (*StatusResponse, error) {
	st, err := s.m.Status(ctx)
	if err != nil {
		return nil, rpcError(err)
	}
	return &StatusResponse{Status: st}, nil
}

func (s *Service) History(_ context.Context, req *HistoryRequest) (*HistoryResponse, error) {
	return &HistoryResponse{Entries: s.m.History().List(req.Limit)}, nil
}

func (s *Service) Act(ctx context.Context, req *ActRequest) (*ActResponse, error) {
	kind, err := action.ParseKind(req.Action)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	var lang action.Language
	if req.Language != "" {
		l, ok := action.LookupLanguage(req.Language)
		if !ok {
			return nil, status.Errorf(codes.InvalidArgument, "unsupported language %q", req.Language)
		}
		lang = l
	}
	slog.Info("control: act", "action", kind.String(), "language", lang.Code, "text_len", len(req.Text))
	out, err := s.m.Act(ctx, monitor.ActRequest{Kind: kind, Text: req.Text, Language: lang})
	if err != nil {
		return nil, rpcError(err)
	}
	return actResponse(out), nil
}

func (s *Service) Pause(ctx context.Context, _ *PauseRequest) (*StatusResponse, error) {
	st, err := s.m.Pause(ctx)
	if err != nil {
		return nil, rpcError(err)
	}
	return &StatusResponse{Status: st}, nil
}

func (s *Service) Resume(ctx context.Context, _ *ResumeRequest) (*StatusResponse, error) {
	st, err := s.m.Resume(ctx)
	if err != nil {
		return nil, rpcError(err)
	}
	return &StatusResponse{Status: st}, nil
}

func rpcError(err error) error {
	switch {
	case errors.Is(err, monitor.ErrStopped):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// controlServer is the handler type the service descriptor checks.
type controlServer interface {
	Status(context.Context, *StatusRequest) (*StatusResponse, error)
	History(context.Context, *HistoryRequest) (*HistoryResponse, error)
	Act(context.Context, *ActRequest) (*ActResponse, error)
	Pause(context.Context, *PauseRequest) (*StatusResponse, error)
	Resume(context.Context, *ResumeRequest) (*StatusResponse, error)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*controlServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Status", controlServer.Status),
		unary("History", controlServer.History),
		unary("Act", controlServer.Act),
		unary("Pause", controlServer.Pause),
		unary("Resume", controlServer.Resume),
	},
	Metadata: "textassist/v1/control",
}

// unary adapts a typed method to a grpc.MethodDesc.
func unary[Req, Resp any](name string, call func(controlServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	fullMethod := "/" + serviceName + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(controlServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(controlServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// LogUnary logs each control call at debug level.
func LogUnary(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	resp, err := handler(ctx, req)
	if err != nil {
		slog.Debug("control call failed", "method", info.FullMethod, "err", err)
	} else {
		slog.Debug("control call", "method", info.FullMethod)
	}
	return resp, err
}
