package control

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"go.klb.dev/textassist/internal/ipc"
)

// Client calls a running daemon's Control service.
type Client struct {
	conn *grpc.ClientConn
}

// Dial connects to the daemon listening on the unix socket at path.
func Dial(path string, opts ...grpc.DialOption) (*Client, error) {
	return DialTarget(ipc.Target(path), opts...)
}

// DialTarget connects to target, a gRPC dial target.
func DialTarget(target string, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(codecName)),
	}, opts...)
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", target, err)
	}
	return &Client{conn: conn}, nil
}

func (c *Client) Close() error { return c.conn.Close() }

func (c *Client) Status(ctx context.Context) (*StatusResponse, error) {
	return invoke[StatusResponse](ctx, c, "Status", &StatusRequest{})
}

func (c *Client) History(ctx context.Context, limit int) (*HistoryResponse, error) {
	return invoke[HistoryResponse](ctx, c, "History", &HistoryRequest{Limit: limit})
}

func (c *Client) Act(ctx context.Context, req *ActRequest) (*ActResponse, error) {
	return invoke[ActResponse](ctx, c, "Act", req)
}

func (c *Client) Pause(ctx context.Context) (*StatusResponse, error) {
	return invoke[StatusResponse](ctx, c, "Pause", &PauseRequest{})
}

func (c *Client) Resume(ctx context.Context) (*StatusResponse, error) {
	return invoke[StatusResponse](ctx, c, "Resume", &ResumeRequest{})
}

func invoke[Resp any](ctx context.Context, c *Client, method string, in any) (*Resp, error) {
	out := new(Resp)
	if err := c.conn.Invoke(ctx, "/"+serviceName+"/"+method, in, out); err != nil {
		return nil, err
	}
	return out, nil
}
