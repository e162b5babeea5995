package control

import (
	"context"
	"errors"
	"log/slog"
	"net"

	"google.golang.org/grpc"
)

// Serve runs the control service on ln until ctx is cancelled.
func Serve(ctx context.Context, ln net.Listener, m Monitor) error {
	s := grpc.NewServer(grpc.UnaryInterceptor(LogUnary))
	Register(s, New(m))

	go func() {
		<-ctx.Done()
		s.GracefulStop()
	}()

	slog.Info("control socket listening", "addr", ln.Addr().String())
	if err := s.Serve(ln); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}
