package handlers

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// AnalysisService is declared by hand. Requests and responses are
// google.protobuf.Struct values so no generated message types are needed.
// There is no file descriptor, so reflection can list the service but not
// describe its methods.
const (
	AnalysisServiceName = "fraudlens.v1.AnalysisService"

	FindTransfersFullMethodName  = "/fraudlens.v1.AnalysisService/FindTransfers"
	GenerateReportFullMethodName = "/fraudlens.v1.AnalysisService/GenerateReport"
)

// AnalysisServiceServer is the server API for AnalysisService
type AnalysisServiceServer interface {
	// FindTransfers expects {account_id} and returns {account_id, findings}
	FindTransfers(context.Context, *structpb.Struct) (*structpb.Struct, error)
	// GenerateReport expects {account_id} and returns the report fields
	GenerateReport(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterAnalysisServiceServer registers srv on s
func RegisterAnalysisServiceServer(s grpc.ServiceRegistrar, srv AnalysisServiceServer) {
	s.RegisterService(&AnalysisServiceDesc, srv)
}

func findTransfersHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AnalysisServiceServer).FindTransfers(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: FindTransfersFullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AnalysisServiceServer).FindTransfers(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func generateReportHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AnalysisServiceServer).GenerateReport(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: GenerateReportFullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AnalysisServiceServer).GenerateReport(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// AnalysisServiceDesc is the grpc.ServiceDesc for AnalysisService
var AnalysisServiceDesc = grpc.ServiceDesc{
	ServiceName: AnalysisServiceName,
	HandlerType: (*AnalysisServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "FindTransfers",
			Handler:    findTransfersHandler,
		},
		{
			MethodName: "GenerateReport",
			Handler:    generateReportHandler,
		},
	},
	Streams: []grpc.StreamDesc{},
}

// AnalysisServiceClient is the client API for AnalysisService
type AnalysisServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewAnalysisServiceClient creates a client on cc
func NewAnalysisServiceClient(cc grpc.ClientConnInterface) *AnalysisServiceClient {
	return &AnalysisServiceClient{cc: cc}
}

// FindTransfers calls AnalysisService.FindTransfers
func (c *AnalysisServiceClient) FindTransfers(ctx context.Context, accountID string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, FindTransfersFullMethodName, accountID, opts...)
}

// GenerateReport calls AnalysisService.GenerateReport
func (c *AnalysisServiceClient) GenerateReport(ctx context.Context, accountID string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, GenerateReportFullMethodName, accountID, opts...)
}

func (c *AnalysisServiceClient) invoke(ctx context.Context, method, accountID string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(map[string]interface{}{"account_id": accountID})
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
