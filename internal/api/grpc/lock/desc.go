package lock

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/dynamicpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = protoPackage + ".LockService"

// Full method names.
const (
	LockFullMethod         = "/" + ServiceName + "/Lock"
	UnlockFullMethod       = "/" + ServiceName + "/Unlock"
	GetStateFullMethod     = "/" + ServiceName + "/GetState"
	DismissAlertFullMethod = "/" + ServiceName + "/DismissAlert"
	WatchStateFullMethod   = "/" + ServiceName + "/WatchState"
)

// LockServiceServer is the server API of the lock service.
type LockServiceServer interface {
	Lock(ctx context.Context, req *LockRequest) (*StateResponse, error)
	Unlock(ctx context.Context, req *UnlockRequest) (*StateResponse, error)
	GetState(ctx context.Context, req *GetStateRequest) (*StateResponse, error)
	DismissAlert(ctx context.Context, req *DismissAlertRequest) (*StateResponse, error)
	WatchState(req *WatchStateRequest, stream grpc.ServerStreamingServer[StateResponse]) error
}

// ServiceDesc describes the lock service for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{ //nolint:gochecknoglobals // Service descriptors are package-level by convention.
	ServiceName: ServiceName,
	HandlerType: (*LockServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Lock",
			Handler:    unaryHandler(LockFullMethod, LockServiceServer.Lock),
		},
		{
			MethodName: "Unlock",
			Handler:    unaryHandler(UnlockFullMethod, LockServiceServer.Unlock),
		},
		{
			MethodName: "GetState",
			Handler:    unaryHandler(GetStateFullMethod, LockServiceServer.GetState),
		},
		{
			MethodName: "DismissAlert",
			Handler:    unaryHandler(DismissAlertFullMethod, LockServiceServer.DismissAlert),
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "WatchState",
			Handler:       watchStateHandler,
			ServerStreams: true,
		},
	},
	Metadata: ProtoFile,
}

// RegisterLockServiceServer registers srv on s.
func RegisterLockServiceServer(s grpc.ServiceRegistrar, srv LockServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// unaryHandler decodes the dynamic request message into Req, calls the
// server and encodes the response back into a dynamic message.
func unaryHandler[Req any, P interface {
	*Req
	wireMessage
}](
	fullMethod string,
	call func(LockServiceServer, context.Context, *Req) (*StateResponse, error),
) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := decode(P(in), dec); err != nil {
			return nil, err
		}

		server, _ := srv.(LockServiceServer)
		handle := func(ctx context.Context, req *Req) (any, error) {
			resp, err := call(server, ctx, req)
			if err != nil {
				return nil, err
			}

			return resp.toProto(), nil
		}

		if interceptor == nil {
			return handle(ctx, in)
		}

		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}

		return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
			typed, _ := req.(*Req)

			return handle(ctx, typed)
		})
	}
}

// decode reads one wire message with recv and converts it into in.
func decode(in wireMessage, recv func(any) error) error {
	wire := dynamicpb.NewMessage(in.descriptor())
	if err := recv(wire); err != nil {
		return err
	}

	if err := in.fromProto(wire); err != nil {
		return status.Error(codes.InvalidArgument, err.Error())
	}

	return nil
}

func watchStateHandler(srv any, stream grpc.ServerStream) error {
	in := new(WatchStateRequest)
	if err := decode(in, stream.RecvMsg); err != nil {
		return err
	}

	server, _ := srv.(LockServiceServer)

	return server.WatchState(in, &watchStateServer{ServerStream: stream})
}

// watchStateServer sends StateResponse values as dynamic messages.
type watchStateServer struct {
	grpc.ServerStream
}

func (s *watchStateServer) Send(resp *StateResponse) error {
	return s.SendMsg(resp.toProto())
}

// watchStateClient receives StateResponse values from dynamic messages.
type watchStateClient struct {
	grpc.ClientStream
}

func (c *watchStateClient) Recv() (*StateResponse, error) {
	out := new(StateResponse)
	if err := decode(out, c.RecvMsg); err != nil {
		return nil, err
	}

	return out, nil
}

// LockServiceClient is the client API of the lock service.
type LockServiceClient interface {
	Lock(ctx context.Context, in *LockRequest, opts ...grpc.CallOption) (*StateResponse, error)
	Unlock(ctx context.Context, in *UnlockRequest, opts ...grpc.CallOption) (*StateResponse, error)
	GetState(ctx context.Context, in *GetStateRequest, opts ...grpc.CallOption) (*StateResponse, error)
	DismissAlert(ctx context.Context, in *DismissAlertRequest, opts ...grpc.CallOption) (*StateResponse, error)
	WatchState(
		ctx context.Context,
		in *WatchStateRequest,
		opts ...grpc.CallOption,
	) (grpc.ServerStreamingClient[StateResponse], error)
}

type lockServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewLockServiceClient returns a client of the lock service over cc.
func NewLockServiceClient(cc grpc.ClientConnInterface) LockServiceClient {
	return &lockServiceClient{cc: cc}
}

func (c *lockServiceClient) Lock(
	ctx context.Context,
	in *LockRequest,
	opts ...grpc.CallOption,
) (*StateResponse, error) {
	return invoke(ctx, c.cc, LockFullMethod, in, opts)
}

func (c *lockServiceClient) Unlock(
	ctx context.Context,
	in *UnlockRequest,
	opts ...grpc.CallOption,
) (*StateResponse, error) {
	return invoke(ctx, c.cc, UnlockFullMethod, in, opts)
}

func (c *lockServiceClient) GetState(
	ctx context.Context,
	in *GetStateRequest,
	opts ...grpc.CallOption,
) (*StateResponse, error) {
	return invoke(ctx, c.cc, GetStateFullMethod, in, opts)
}

func (c *lockServiceClient) DismissAlert(
	ctx context.Context,
	in *DismissAlertRequest,
	opts ...grpc.CallOption,
) (*StateResponse, error) {
	return invoke(ctx, c.cc, DismissAlertFullMethod, in, opts)
}

func (c *lockServiceClient) WatchState(
	ctx context.Context,
	in *WatchStateRequest,
	opts ...grpc.CallOption,
) (grpc.ServerStreamingClient[StateResponse], error) {
	stream, err := c.cc.NewStream(ctx, &ServiceDesc.Streams[0], WatchStateFullMethod, opts...)
	if err != nil {
		return nil, err
	}

	if err := stream.SendMsg(in.toProto()); err != nil {
		return nil, err
	}

	if err := stream.CloseSend(); err != nil {
		return nil, err
	}

	return &watchStateClient{ClientStream: stream}, nil
}

func invoke(
	ctx context.Context,
	cc grpc.ClientConnInterface,
	method string,
	in wireMessage,
	opts []grpc.CallOption,
) (*StateResponse, error) {
	out := new(StateResponse)
	wire := dynamicpb.NewMessage(out.descriptor())

	if err := cc.Invoke(ctx, method, in.toProto(), wire, opts...); err != nil {
		return nil, err
	}

	if err := out.fromProto(wire); err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	return out, nil
}
