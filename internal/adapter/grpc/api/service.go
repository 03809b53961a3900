package api

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "sharefund.v1.ShareFundService"

// Full method names, as seen by interceptors.
const (
	MethodPurchase         = "/" + ServiceName + "/Purchase"
	MethodGetProject       = "/" + ServiceName + "/GetProject"
	MethodGetInvestment    = "/" + ServiceName + "/GetInvestment"
	MethodReconcileProject = "/" + ServiceName + "/ReconcileProject"
)

// ShareFundServer is the server API for the share fund service.
type ShareFundServer interface {
	Purchase(context.Context, *PurchaseRequest) (*PurchaseResponse, error)
	GetProject(context.Context, *GetProjectRequest) (*GetProjectResponse, error)
	GetInvestment(context.Context, *GetInvestmentRequest) (*GetInvestmentResponse, error)
	ReconcileProject(context.Context, *ReconcileProjectRequest) (*ReconcileProjectResponse, error)
}

// RegisterShareFundServer registers srv with s.
func RegisterShareFundServer(s grpc.ServiceRegistrar, srv ShareFundServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// ServiceDesc describes the share fund service.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ShareFundServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Purchase", Handler: unaryHandler(MethodPurchase, ShareFundServer.Purchase)},
		{MethodName: "GetProject", Handler: unaryHandler(MethodGetProject, ShareFundServer.GetProject)},
		{MethodName: "GetInvestment", Handler: unaryHandler(MethodGetInvestment, ShareFundServer.GetInvestment)},
		{MethodName: "ReconcileProject", Handler: unaryHandler(MethodReconcileProject, ShareFundServer.ReconcileProject)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "sharefund/v1/sharefund.proto",
}

// unaryHandler adapts a typed method to grpc's untyped handler signature.
func unaryHandler[Req, Resp any](
	fullMethod string,
	call func(ShareFundServer, context.Context, *Req) (*Resp, error),
) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ShareFundServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(ShareFundServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ShareFundClient is the client API for the share fund service.
type ShareFundClient struct {
	cc grpc.ClientConnInterface
}

// NewShareFundClient creates a client speaking the JSON codec over cc.
func NewShareFundClient(cc grpc.ClientConnInterface) *ShareFundClient {
	return &ShareFundClient{cc: cc}
}

func (c *ShareFundClient) Purchase(ctx context.Context, in *PurchaseRequest, opts ...grpc.CallOption) (*PurchaseResponse, error) {
	out := new(PurchaseResponse)
	if err := c.invoke(ctx, MethodPurchase, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ShareFundClient) GetProject(ctx context.Context, in *GetProjectRequest, opts ...grpc.CallOption) (*GetProjectResponse, error) {
	out := new(GetProjectResponse)
	if err := c.invoke(ctx, MethodGetProject, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ShareFundClient) GetInvestment(ctx context.Context, in *GetInvestmentRequest, opts ...grpc.CallOption) (*GetInvestmentResponse, error) {
	out := new(GetInvestmentResponse)
	if err := c.invoke(ctx, MethodGetInvestment, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ShareFundClient) ReconcileProject(ctx context.Context, in *ReconcileProjectRequest, opts ...grpc.CallOption) (*ReconcileProjectResponse, error) {
	out := new(ReconcileProjectResponse)
	if err := c.invoke(ctx, MethodReconcileProject, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ShareFundClient) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	return c.cc.Invoke(ctx, method, in, out, opts...)
}
