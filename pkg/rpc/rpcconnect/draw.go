package rpcconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/roomdraw/pkg/rpc"
)

// DrawServiceName is the fully-qualified name of the DrawService service.
const DrawServiceName = "roomdraw.v1.DrawService"

// Procedure paths of the DrawService RPCs.
const (
	DrawServiceCreateDrawProcedure           = "/roomdraw.v1.DrawService/CreateDraw"
	DrawServiceActivateProcedure             = "/roomdraw.v1.DrawService/Activate"
	DrawServiceStartLotteryProcedure         = "/roomdraw.v1.DrawService/StartLottery"
	DrawServiceAssignLotteryNumbersProcedure = "/roomdraw.v1.DrawService/AssignLotteryNumbers"
	DrawServiceOpenSuiteSizesProcedure       = "/roomdraw.v1.DrawService/OpenSuiteSizes"
	DrawServiceSuiteSummaryProcedure         = "/roomdraw.v1.DrawService/SuiteSummary"
	DrawServiceStudentSummaryProcedure       = "/roomdraw.v1.DrawService/StudentSummary"
	DrawServiceRegisterStudentProcedure      = "/roomdraw.v1.DrawService/RegisterStudent"
	DrawServiceAddSuiteProcedure             = "/roomdraw.v1.DrawService/AddSuite"
	DrawServiceUpdateStudentProcedure        = "/roomdraw.v1.DrawService/UpdateStudent"
	DrawServiceOfferSuitesProcedure          = "/roomdraw.v1.DrawService/OfferSuites"
)

// DrawServiceHandler is implemented by the server side of DrawService.
type DrawServiceHandler interface {
	CreateDraw(context.Context, *connect.Request[rpc.CreateDrawRequest]) (*connect.Response[rpc.DrawResponse], error)
	Activate(context.Context, *connect.Request[rpc.DrawRequest]) (*connect.Response[rpc.DrawResponse], error)
	StartLottery(context.Context, *connect.Request[rpc.DrawRequest]) (*connect.Response[rpc.DrawResponse], error)
	AssignLotteryNumbers(context.Context, *connect.Request[rpc.DrawRequest]) (*connect.Response[rpc.AssignLotteryNumbersResponse], error)
	OpenSuiteSizes(context.Context, *connect.Request[rpc.DrawRequest]) (*connect.Response[rpc.OpenSuiteSizesResponse], error)
	SuiteSummary(context.Context, *connect.Request[rpc.DrawRequest]) (*connect.Response[rpc.SuiteSummaryResponse], error)
	StudentSummary(context.Context, *connect.Request[rpc.DrawRequest]) (*connect.Response[rpc.StudentSummaryResponse], error)
	RegisterStudent(context.Context, *connect.Request[rpc.RegisterStudentRequest]) (*connect.Response[rpc.RegisterStudentResponse], error)
	AddSuite(context.Context, *connect.Request[rpc.AddSuiteRequest]) (*connect.Response[rpc.AddSuiteResponse], error)
	UpdateStudent(context.Context, *connect.Request[rpc.UpdateStudentRequest]) (*connect.Response[rpc.UpdateStudentResponse], error)
	OfferSuites(context.Context, *connect.Request[rpc.OfferSuitesRequest]) (*connect.Response[rpc.SuiteSummaryResponse], error)
}

// NewDrawServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewDrawServiceHandler(svc DrawServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(DrawServiceCreateDrawProcedure, connect.NewUnaryHandler(DrawServiceCreateDrawProcedure, svc.CreateDraw, opts...))
	mux.Handle(DrawServiceActivateProcedure, connect.NewUnaryHandler(DrawServiceActivateProcedure, svc.Activate, opts...))
	mux.Handle(DrawServiceStartLotteryProcedure, connect.NewUnaryHandler(DrawServiceStartLotteryProcedure, svc.StartLottery, opts...))
	mux.Handle(DrawServiceAssignLotteryNumbersProcedure, connect.NewUnaryHandler(DrawServiceAssignLotteryNumbersProcedure, svc.AssignLotteryNumbers, opts...))
	mux.Handle(DrawServiceOpenSuiteSizesProcedure, connect.NewUnaryHandler(DrawServiceOpenSuiteSizesProcedure, svc.OpenSuiteSizes, opts...))
	mux.Handle(DrawServiceSuiteSummaryProcedure, connect.NewUnaryHandler(DrawServiceSuiteSummaryProcedure, svc.SuiteSummary, opts...))
	mux.Handle(DrawServiceStudentSummaryProcedure, connect.NewUnaryHandler(DrawServiceStudentSummaryProcedure, svc.StudentSummary, opts...))
	mux.Handle(DrawServiceRegisterStudentProcedure, connect.NewUnaryHandler(DrawServiceRegisterStudentProcedure, svc.RegisterStudent, opts...))
	mux.Handle(DrawServiceAddSuiteProcedure, connect.NewUnaryHandler(DrawServiceAddSuiteProcedure, svc.AddSuite, opts...))
	mux.Handle(DrawServiceUpdateStudentProcedure, connect.NewUnaryHandler(DrawServiceUpdateStudentProcedure, svc.UpdateStudent, opts...))
	mux.Handle(DrawServiceOfferSuitesProcedure, connect.NewUnaryHandler(DrawServiceOfferSuitesProcedure, svc.OfferSuites, opts...))
	return "/" + DrawServiceName + "/", mux
}

// DrawServiceClient is a client for the roomdraw.v1.DrawService service.
type DrawServiceClient struct {
	createDraw           *connect.Client[rpc.CreateDrawRequest, rpc.DrawResponse]
	activate             *connect.Client[rpc.DrawRequest, rpc.DrawResponse]
	startLottery         *connect.Client[rpc.DrawRequest, rpc.DrawResponse]
	assignLotteryNumbers *connect.Client[rpc.DrawRequest, rpc.AssignLotteryNumbersResponse]
	openSuiteSizes       *connect.Client[rpc.DrawRequest, rpc.OpenSuiteSizesResponse]
	suiteSummary         *connect.Client[rpc.DrawRequest, rpc.SuiteSummaryResponse]
	studentSummary       *connect.Client[rpc.DrawRequest, rpc.StudentSummaryResponse]
	registerStudent      *connect.Client[rpc.RegisterStudentRequest, rpc.RegisterStudentResponse]
	addSuite             *connect.Client[rpc.AddSuiteRequest, rpc.AddSuiteResponse]
	updateStudent        *connect.Client[rpc.UpdateStudentRequest, rpc.UpdateStudentResponse]
	offerSuites          *connect.Client[rpc.OfferSuitesRequest, rpc.SuiteSummaryResponse]
}

// NewDrawServiceClient constructs a client for the DrawService service.
func NewDrawServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *DrawServiceClient {
	opts = clientOptions(opts)
	return &DrawServiceClient{
		createDraw:           connect.NewClient[rpc.CreateDrawRequest, rpc.DrawResponse](httpClient, baseURL+DrawServiceCreateDrawProcedure, opts...),
		activate:             connect.NewClient[rpc.DrawRequest, rpc.DrawResponse](httpClient, baseURL+DrawServiceActivateProcedure, opts...),
		startLottery:         connect.NewClient[rpc.DrawRequest, rpc.DrawResponse](httpClient, baseURL+DrawServiceStartLotteryProcedure, opts...),
		assignLotteryNumbers: connect.NewClient[rpc.DrawRequest, rpc.AssignLotteryNumbersResponse](httpClient, baseURL+DrawServiceAssignLotteryNumbersProcedure, opts...),
		openSuiteSizes:       connect.NewClient[rpc.DrawRequest, rpc.OpenSuiteSizesResponse](httpClient, baseURL+DrawServiceOpenSuiteSizesProcedure, opts...),
		suiteSummary:         connect.NewClient[rpc.DrawRequest, rpc.SuiteSummaryResponse](httpClient, baseURL+DrawServiceSuiteSummaryProcedure, opts...),
		studentSummary:       connect.NewClient[rpc.DrawRequest, rpc.StudentSummaryResponse](httpClient, baseURL+DrawServiceStudentSummaryProcedure, opts...),
		registerStudent:      connect.NewClient[rpc.RegisterStudentRequest, rpc.RegisterStudentResponse](httpClient, baseURL+DrawServiceRegisterStudentProcedure, opts...),
		addSuite:             connect.NewClient[rpc.AddSuiteRequest, rpc.AddSuiteResponse](httpClient, baseURL+DrawServiceAddSuiteProcedure, opts...),
		updateStudent:        connect.NewClient[rpc.UpdateStudentRequest, rpc.UpdateStudentResponse](httpClient, baseURL+DrawServiceUpdateStudentProcedure, opts...),
		offerSuites:          connect.NewClient[rpc.OfferSuitesRequest, rpc.SuiteSummaryResponse](httpClient, baseURL+DrawServiceOfferSuitesProcedure, opts...),
	}
}

func (c *DrawServiceClient) CreateDraw(ctx context.Context, req *connect.Request[rpc.CreateDrawRequest]) (*connect.Response[rpc.DrawResponse], error) {
	return c.createDraw.CallUnary(ctx, req)
}

func (c *DrawServiceClient) Activate(ctx context.Context, req *connect.Request[rpc.DrawRequest]) (*connect.Response[rpc.DrawResponse], error) {
	return c.activate.CallUnary(ctx, req)
}

func (c *DrawServiceClient) StartLottery(ctx context.Context, req *connect.Request[rpc.DrawRequest]) (*connect.Response[rpc.DrawResponse], error) {
	return c.startLottery.CallUnary(ctx, req)
}

func (c *DrawServiceClient) AssignLotteryNumbers(ctx context.Context, req *connect.Request[rpc.DrawRequest]) (*connect.Response[rpc.AssignLotteryNumbersResponse], error) {
	return c.assignLotteryNumbers.CallUnary(ctx, req)
}

func (c *DrawServiceClient) OpenSuiteSizes(ctx context.Context, req *connect.Request[rpc.DrawRequest]) (*connect.Response[rpc.OpenSuiteSizesResponse], error) {
	return c.openSuiteSizes.CallUnary(ctx, req)
}

func (c *DrawServiceClient) SuiteSummary(ctx context.Context, req *connect.Request[rpc.DrawRequest]) (*connect.Response[rpc.SuiteSummaryResponse], error) {
	return c.suiteSummary.CallUnary(ctx, req)
}

func (c *DrawServiceClient) StudentSummary(ctx context.Context, req *connect.Request[rpc.DrawRequest]) (*connect.Response[rpc.StudentSummaryResponse], error) {
	return c.studentSummary.CallUnary(ctx, req)
}

func (c *DrawServiceClient) RegisterStudent(ctx context.Context, req *connect.Request[rpc.RegisterStudentRequest]) (*connect.Response[rpc.RegisterStudentResponse], error) {
	return c.registerStudent.CallUnary(ctx, req)
}

func (c *DrawServiceClient) AddSuite(ctx context.Context, req *connect.Request[rpc.AddSuiteRequest]) (*connect.Response[rpc.AddSuiteResponse], error) {
	return c.addSuite.CallUnary(ctx, req)
}

func (c *DrawServiceClient) UpdateStudent(ctx context.Context, req *connect.Request[rpc.UpdateStudentRequest]) (*connect.Response[rpc.UpdateStudentResponse], error) {
	return c.updateStudent.CallUnary(ctx, req)
}

func (c *DrawServiceClient) OfferSuites(ctx context.Context, req *connect.Request[rpc.OfferSuitesRequest]) (*connect.Response[rpc.SuiteSummaryResponse], error) {
	return c.offerSuites.CallUnary(ctx, req)
}
