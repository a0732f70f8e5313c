package gend

import (
	"context"
	"errors"
	"strconv"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/GoSim-25-26J-441/datagen/pkg/logger"
	"github.com/GoSim-25-26J-441/datagen/pkg/models"
)

// DatasetServiceName is the fully-qualified gRPC service name.
// Requests and responses are google.protobuf.Struct messages.
const DatasetServiceName = "datagen.v1.DatasetService"

// DatasetServiceServer is the server API for the dataset service
type DatasetServiceServer interface {
	CreateRun(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetRun(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListRuns(context.Context, *structpb.Struct) (*structpb.Struct, error)
	StopRun(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(DatasetServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(method string, call unaryCall) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(DatasetServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: "/" + DatasetServiceName + "/" + method,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(DatasetServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// DatasetServiceDesc describes the dataset service for grpc.Server.RegisterService
var DatasetServiceDesc = grpc.ServiceDesc{
	ServiceName: DatasetServiceName,
	HandlerType: (*DatasetServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateRun", Handler: unaryHandler("CreateRun", DatasetServiceServer.CreateRun)},
		{MethodName: "GetRun", Handler: unaryHandler("GetRun", DatasetServiceServer.GetRun)},
		{MethodName: "ListRuns", Handler: unaryHandler("ListRuns", DatasetServiceServer.ListRuns)},
		{MethodName: "StopRun", Handler: unaryHandler("StopRun", DatasetServiceServer.StopRun)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "datagen/v1/dataset_service.proto",
}

// RegisterDatasetService registers srv on s
func RegisterDatasetService(s grpc.ServiceRegistrar, srv DatasetServiceServer) {
	s.RegisterService(&DatasetServiceDesc, srv)
}

// DatasetServiceClient calls the dataset service over a client connection
type DatasetServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewDatasetServiceClient(cc grpc.ClientConnInterface) *DatasetServiceClient {
	return &DatasetServiceClient{cc: cc}
}

func (c *DatasetServiceClient) call(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+DatasetServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DatasetServiceClient) CreateRun(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.call(ctx, "CreateRun", in, opts...)
}

func (c *DatasetServiceClient) GetRun(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.call(ctx, "GetRun", in, opts...)
}

func (c *DatasetServiceClient) ListRuns(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.call(ctx, "ListRuns", in, opts...)
}

func (c *DatasetServiceClient) StopRun(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.call(ctx, "StopRun", in, opts...)
}

// DatasetGRPCServer implements DatasetServiceServer using a RunStore backend.
type DatasetGRPCServer struct {
	store    *RunStore
	Executor *RunExecutor
}

// NewDatasetGRPCServer creates a new DatasetGRPCServer with the provided RunStore and RunExecutor.
func NewDatasetGRPCServer(store *RunStore, executor *RunExecutor) *DatasetGRPCServer {
	return &DatasetGRPCServer{
		store:    store,
		Executor: executor,
	}
}

func stringField(req *structpb.Struct, key string) string {
	if req == nil {
		return ""
	}
	v, ok := req.GetFields()[key]
	if !ok {
		return ""
	}
	return v.GetStringValue()
}

func numberField(req *structpb.Struct, key string) float64 {
	if req == nil {
		return 0
	}
	return req.GetFields()[key].GetNumberValue()
}

func runResponse(run models.Run) (*structpb.Struct, error) {
	resp, err := structpb.NewStruct(map[string]any{"run": runToMap(run)})
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return resp, nil
}

// runToMap converts a run into structpb-compatible values. The seed is a
// string because Struct numbers are doubles.
func runToMap(run models.Run) map[string]any {
	datasets := make([]any, 0, len(run.Datasets))
	for _, ds := range run.Datasets {
		datasets = append(datasets, map[string]any{
			"name":              ds.Name,
			"records":           ds.Records,
			"requested_records": ds.RequestedRecords,
			"entity_count":      ds.EntityCount,
			"avg_interactions":  ds.AvgInteractions,
			"subset_of":         ds.SubsetOf,
		})
	}
	return map[string]any{
		"id":         run.ID,
		"status":     string(run.Status),
		"seed":       strconv.FormatInt(run.Seed, 10),
		"created_at": formatTime(run.CreatedAt),
		"started_at": formatTime(run.StartedAt),
		"ended_at":   formatTime(run.EndedAt),
		"error":      run.Error,
		"datasets":   datasets,
	}
}

func (s *DatasetGRPCServer) CreateRun(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	cfg, err := parseRequestConfig(stringField(req, "config_yaml"), stringField(req, "config_toml"))
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	run, err := s.store.Create(stringField(req, "run_id"), cfg)
	if err != nil {
		if errors.Is(err, ErrRunExists) {
			return nil, status.Error(codes.AlreadyExists, err.Error())
		}
		if errors.Is(err, ErrInvalidRunID) {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		return nil, status.Error(codes.Internal, err.Error())
	}

	started, err := s.Executor.Start(run.ID)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	logger.Info("run created", "run_id", run.ID, "seed", run.Seed)
	return runResponse(started)
}

func (s *DatasetGRPCServer) GetRun(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	runID := stringField(req, "run_id")
	if runID == "" {
		return nil, status.Error(codes.InvalidArgument, "run_id is required")
	}
	rec, ok := s.store.Get(runID)
	if !ok {
		return nil, status.Error(codes.NotFound, "run not found")
	}
	return runResponse(rec.Run)
}

func (s *DatasetGRPCServer) ListRuns(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	limit := 50
	if n := int(numberField(req, "limit")); n > 0 {
		limit = n
	}
	runs := s.store.List(limit, 0, models.RunStatus(stringField(req, "status")))
	out := make([]any, 0, len(runs))
	for _, run := range runs {
		out = append(out, runToMap(run))
	}
	resp, err := structpb.NewStruct(map[string]any{"runs": out})
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return resp, nil
}

func (s *DatasetGRPCServer) StopRun(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	runID := stringField(req, "run_id")
	if runID == "" {
		return nil, status.Error(codes.InvalidArgument, "run_id is required")
	}

	updated, err := s.Executor.Stop(runID)
	if err != nil {
		switch {
		case errors.Is(err, ErrRunNotFound):
			return nil, status.Error(codes.NotFound, err.Error())
		case errors.Is(err, ErrRunIDMissing):
			return nil, status.Error(codes.InvalidArgument, err.Error())
		case errors.Is(err, ErrRunTerminal):
			return nil, status.Error(codes.FailedPrecondition, err.Error())
		}
		return nil, status.Error(codes.Internal, err.Error())
	}
	logger.Info("run cancelled", "run_id", runID)
	return runResponse(updated)
}
