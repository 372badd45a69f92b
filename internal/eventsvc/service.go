package eventsvc

import (
	"context"

	"google.golang.org/grpc"
)

const serviceName = "ecbuild.events.BuildEventService"
const publishEventsMethod = "/ecbuild.events.BuildEventService/PublishEvents"

// BuildEventServiceServer is implemented by whatever wants to receive a
// client-streamed sequence of BuildEvents.
type BuildEventServiceServer interface {
	PublishEvents(stream BuildEventService_PublishEventsServer) error
}

// BuildEventService_PublishEventsServer is the server-side view of the
// client-streaming PublishEvents RPC.
type BuildEventService_PublishEventsServer interface {
	SendAndClose(*Ack) error
	Recv() (*BuildEvent, error)
	grpc.ServerStream
}

type publishEventsServerStream struct {
	grpc.ServerStream
}

func (s *publishEventsServerStream) SendAndClose(ack *Ack) error {
	return s.SendMsg(ack)
}

func (s *publishEventsServerStream) Recv() (*BuildEvent, error) {
	evt := new(BuildEvent)
	if err := s.RecvMsg(evt); err != nil {
		return nil, err
	}
	return evt, nil
}

func publishEventsHandler(srv interface{}, stream grpc.ServerStream) error {
	return srv.(BuildEventServiceServer).PublishEvents(&publishEventsServerStream{stream})
}

// ServiceDesc is the hand-built grpc.ServiceDesc for BuildEventService —
// the stand-in for what protoc-gen-go-grpc would normally emit.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*BuildEventServiceServer)(nil),
	Methods:     []grpc.MethodDesc{},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "PublishEvents",
			Handler:       publishEventsHandler,
			ClientStreams: true,
		},
	},
	Metadata: "ecbuild/eventsvc/events.proto",
}

// RegisterBuildEventServiceServer wires srv into s using a hand-built
// ServiceDesc, with no protoc-generated registration helper.
func RegisterBuildEventServiceServer(s *grpc.Server, srv BuildEventServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// BuildEventServiceClient is the client-side view of the service.
type BuildEventServiceClient interface {
	PublishEvents(ctx context.Context, opts ...grpc.CallOption) (BuildEventService_PublishEventsClient, error)
}

// BuildEventService_PublishEventsClient is the client-side stream handle.
type BuildEventService_PublishEventsClient interface {
	Send(*BuildEvent) error
	CloseAndRecv() (*Ack, error)
	grpc.ClientStream
}

type buildEventServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewBuildEventServiceClient wraps a connection for publishing events.
func NewBuildEventServiceClient(cc grpc.ClientConnInterface) BuildEventServiceClient {
	return &buildEventServiceClient{cc: cc}
}

func (c *buildEventServiceClient) PublishEvents(ctx context.Context, opts ...grpc.CallOption) (BuildEventService_PublishEventsClient, error) {
	opts = append(opts, grpc.CallContentSubtype(codecName))
	stream, err := c.cc.NewStream(ctx, &ServiceDesc.Streams[0], publishEventsMethod, opts...)
	if err != nil {
		return nil, err
	}
	return &publishEventsClientStream{stream}, nil
}

type publishEventsClientStream struct {
	grpc.ClientStream
}

func (s *publishEventsClientStream) Send(evt *BuildEvent) error {
	return s.SendMsg(evt)
}

func (s *publishEventsClientStream) CloseAndRecv() (*Ack, error) {
	if err := s.CloseSend(); err != nil {
		return nil, err
	}
	ack := new(Ack)
	if err := s.RecvMsg(ack); err != nil {
		return nil, err
	}
	return ack, nil
}
