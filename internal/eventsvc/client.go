package eventsvc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/ecbuild/ecbuild/internal/ecblog"
)

// Publisher is a best-effort sink for BuildEvents: a connection failure
// or a send failure is logged and otherwise ignored, since telemetry is
// explicitly optional and must never affect build outcomes.
type Publisher struct {
	conn   *grpc.ClientConn
	stream BuildEventService_PublishEventsClient
}

// Dial connects to addr and opens a PublishEvents stream. On any failure
// it returns nil — callers should treat a nil Publisher as "no
// telemetry configured" rather than propagate the error, since
// -events-addr being unreachable must never fail the build.
func Dial(addr string) *Publisher {
	if addr == "" {
		return nil
	}

	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		ecblog.Error("events-addr: dial failed", addr, err)
		return nil
	}

	client := NewBuildEventServiceClient(conn)
	stream, err := client.PublishEvents(context.Background())
	if err != nil {
		ecblog.Error("events-addr: stream open failed", addr, err)
		_ = conn.Close()
		return nil
	}

	return &Publisher{conn: conn, stream: stream}
}

// Publish sends evt, swallowing any transport error (logged, not fatal).
func (p *Publisher) Publish(evt BuildEvent) {
	if p == nil || p.stream == nil {
		return
	}
	if err := p.stream.Send(&evt); err != nil {
		ecblog.Error("events-addr: send failed", err)
	}
}

// Close finishes the stream and the connection.
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if p.stream != nil {
		_, _ = p.stream.CloseAndRecv()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
