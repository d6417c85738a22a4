package chatrpc

import (
	"context"

	"google.golang.org/grpc"
)

// Full method names for the channel service
const (
	ChannelService_List_FullMethodName   = "/parley.ChannelService/List"
	ChannelService_Create_FullMethodName = "/parley.ChannelService/Create"
	ChannelService_Delete_FullMethodName = "/parley.ChannelService/Delete"
	ChannelService_Listen_FullMethodName = "/parley.ChannelService/Listen"
	ChannelService_Report_FullMethodName = "/parley.ChannelService/Report"
)

// ChannelServiceClient is the client API for the channel service
type ChannelServiceClient interface {
	List(ctx context.Context, in *Channel, opts ...grpc.CallOption) (*ListResponse, error)
	Create(ctx context.Context, in *Channel, opts ...grpc.CallOption) (*Channel, error)
	Delete(ctx context.Context, in *Channel, opts ...grpc.CallOption) (*Empty, error)
	Listen(ctx context.Context, in *Channel, opts ...grpc.CallOption) (*ListenResponse, error)
	Report(ctx context.Context, opts ...grpc.CallOption) (ChannelService_ReportClient, error)
}

type channelServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewChannelServiceClient returns a channel service client on cc
func NewChannelServiceClient(cc grpc.ClientConnInterface) ChannelServiceClient {
	return &channelServiceClient{cc}
}

func (c *channelServiceClient) List(ctx context.Context, in *Channel, opts ...grpc.CallOption) (*ListResponse, error) {
	out := new(ListResponse)
	if err := c.cc.Invoke(ctx, ChannelService_List_FullMethodName, in, out, append(opts, callOpts...)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *channelServiceClient) Create(ctx context.Context, in *Channel, opts ...grpc.CallOption) (*Channel, error) {
	out := new(Channel)
	if err := c.cc.Invoke(ctx, ChannelService_Create_FullMethodName, in, out, append(opts, callOpts...)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *channelServiceClient) Delete(ctx context.Context, in *Channel, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, ChannelService_Delete_FullMethodName, in, out, append(opts, callOpts...)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *channelServiceClient) Listen(ctx context.Context, in *Channel, opts ...grpc.CallOption) (*ListenResponse, error) {
	out := new(ListenResponse)
	if err := c.cc.Invoke(ctx, ChannelService_Listen_FullMethodName, in, out, append(opts, callOpts...)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *channelServiceClient) Report(ctx context.Context, opts ...grpc.CallOption) (ChannelService_ReportClient, error) {
	stream, err := c.cc.NewStream(ctx, &ChannelService_ServiceDesc.Streams[0], ChannelService_Report_FullMethodName, append(opts, callOpts...)...)
	if err != nil {
		return nil, err
	}
	return &channelServiceReportClient{stream}, nil
}

// ChannelService_ReportClient is the client side of the report stream
type ChannelService_ReportClient interface {
	Send(*ReportRequest) error
	Recv() (*ReportResponse, error)
	grpc.ClientStream
}

type channelServiceReportClient struct {
	grpc.ClientStream
}

func (x *channelServiceReportClient) Send(m *ReportRequest) error {
	return x.ClientStream.SendMsg(m)
}

func (x *channelServiceReportClient) Recv() (*ReportResponse, error) {
	m := new(ReportResponse)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

// ChannelServiceServer is the server API for the channel service
type ChannelServiceServer interface {
	List(context.Context, *Channel) (*ListResponse, error)
	Create(context.Context, *Channel) (*Channel, error)
	Delete(context.Context, *Channel) (*Empty, error)
	Listen(context.Context, *Channel) (*ListenResponse, error)
	Report(ChannelService_ReportServer) error
}

// ChannelService_ReportServer is the server side of the report stream
type ChannelService_ReportServer interface {
	Send(*ReportResponse) error
	Recv() (*ReportRequest, error)
	grpc.ServerStream
}

type channelServiceReportServer struct {
	grpc.ServerStream
}

func (x *channelServiceReportServer) Send(m *ReportResponse) error {
	return x.ServerStream.SendMsg(m)
}

func (x *channelServiceReportServer) Recv() (*ReportRequest, error) {
	m := new(ReportRequest)
	if err := x.ServerStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

// RegisterChannelServiceServer registers srv on s
func RegisterChannelServiceServer(s grpc.ServiceRegistrar, srv ChannelServiceServer) {
	s.RegisterService(&ChannelService_ServiceDesc, srv)
}

func _ChannelService_List_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(Channel)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ChannelServiceServer).List(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: ChannelService_List_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ChannelServiceServer).List(ctx, req.(*Channel))
	}
	return interceptor(ctx, in, info, handler)
}

func _ChannelService_Create_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(Channel)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ChannelServiceServer).Create(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: ChannelService_Create_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ChannelServiceServer).Create(ctx, req.(*Channel))
	}
	return interceptor(ctx, in, info, handler)
}

func _ChannelService_Delete_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(Channel)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ChannelServiceServer).Delete(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: ChannelService_Delete_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ChannelServiceServer).Delete(ctx, req.(*Channel))
	}
	return interceptor(ctx, in, info, handler)
}

func _ChannelService_Listen_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(Channel)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ChannelServiceServer).Listen(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: ChannelService_Listen_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ChannelServiceServer).Listen(ctx, req.(*Channel))
	}
	return interceptor(ctx, in, info, handler)
}

func _ChannelService_Report_Handler(srv interface{}, stream grpc.ServerStream) error {
	return srv.(ChannelServiceServer).Report(&channelServiceReportServer{stream})
}

// ChannelService_ServiceDesc is the grpc.ServiceDesc for the channel service
var ChannelService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "parley.ChannelService",
	HandlerType: (*ChannelServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "List",
			Handler:    _ChannelService_List_Handler,
		},
		{
			MethodName: "Create",
			Handler:    _ChannelService_Create_Handler,
		},
		{
			MethodName: "Delete",
			Handler:    _ChannelService_Delete_Handler,
		},
		{
			MethodName: "Listen",
			Handler:    _ChannelService_Listen_Handler,
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Report",
			Handler:       _ChannelService_Report_Handler,
			ServerStreams: true,
			ClientStreams: true,
		},
	},
	Metadata: "chatrpc",
}
