package api

import (
	"context"
	"time"

	"shareit/internal/dto"
	"shareit/internal/models"
	"shareit/internal/service"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	BookingServiceName = "shareit.booking.v1.BookingService"

	methodCreateBooking  = "/" + BookingServiceName + "/CreateBooking"
	methodConfirmBooking = "/" + BookingServiceName + "/ConfirmBooking"
	methodGetBooking     = "/" + BookingServiceName + "/GetBooking"
	methodListBookings   = "/" + BookingServiceName + "/ListBookings"

	ScopeBooker = "booker"
	ScopeOwner  = "owner"
)

type CreateBookingRequest struct {
	UserID int64     `json:"user_id" validate:"gt=0"`
	ItemID int64     `json:"item_id" validate:"gt=0"`
	Start  time.Time `json:"start" validate:"required"`
	End    time.Time `json:"end" validate:"required,gtfield=Start"`
}

type ConfirmBookingRequest struct {
	UserID    int64 `json:"user_id" validate:"gt=0"`
	BookingID int64 `json:"booking_id" validate:"gt=0"`
	Approved  bool  `json:"approved"`
}

type GetBookingRequest struct {
	UserID    int64 `json:"user_id" validate:"gt=0"`
	BookingID int64 `json:"booking_id" validate:"gt=0"`
}

type ListBookingsRequest struct {
	UserID int64  `json:"user_id" validate:"gt=0"`
	Scope  string `json:"scope" validate:"omitempty,oneof=booker owner"`
	State  string `json:"state"`
	From   int    `json:"from" validate:"min=0"`
	Size   int    `json:"size" validate:"min=0"`
}

type ListBookingsResponse struct {
	Bookings []dto.BookingView `json:"bookings"`
}

// BookingServiceServer is the gRPC face of the booking lifecycle.
type BookingServiceServer interface {
	CreateBooking(context.Context, *CreateBookingRequest) (*dto.BookingView, error)
	ConfirmBooking(context.Context, *ConfirmBookingRequest) (*dto.BookingView, error)
	GetBooking(context.Context, *GetBookingRequest) (*dto.BookingView, error)
	ListBookings(context.Context, *ListBookingsRequest) (*ListBookingsResponse, error)
}

type BookingGRPCService struct {
	bookings    *service.BookingService
	defaultSize int
	maxSize     int
}

func NewBookingGRPCService(bookings *service.BookingService, defaultSize, maxSize int) *BookingGRPCService {
	return &BookingGRPCService{bookings: bookings, defaultSize: defaultSize, maxSize: maxSize}
}

func (s *BookingGRPCService) CreateBooking(ctx context.Context, req *CreateBookingRequest) (*dto.BookingView, error) {
	if err := validate.Struct(req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	view, err := s.bookings.Create(ctx, req.UserID, service.CreateBookingInput{
		ItemID: req.ItemID,
		Start:  req.Start.UTC(),
		End:    req.End.UTC(),
	})
	if err != nil {
		return nil, grpcError(err)
	}
	return &view, nil
}

func (s *BookingGRPCService) ConfirmBooking(ctx context.Context, req *ConfirmBookingRequest) (*dto.BookingView, error) {
	if err := validate.Struct(req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	view, err := s.bookings.Confirm(ctx, req.UserID, req.BookingID, req.Approved)
	if err != nil {
		return nil, grpcError(err)
	}
	return &view, nil
}

func (s *BookingGRPCService) GetBooking(ctx context.Context, req *GetBookingRequest) (*dto.BookingView, error) {
	if err := validate.Struct(req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	view, err := s.bookings.Get(ctx, req.UserID, req.BookingID)
	if err != nil {
		return nil, grpcError(err)
	}
	return &view, nil
}

// ListBookings lists the caller's bookings, or bookings of the caller's items
// when scope is "owner". Size 0 selects the default page size.
func (s *BookingGRPCService) ListBookings(ctx context.Context, req *ListBookingsRequest) (*ListBookingsResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	state, err := models.ParseBookingState(req.State)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	q := dto.ListQuery{From: req.From}
	if req.Size > 0 {
		q.Size = &req.Size
	}
	page := q.Page(s.defaultSize, s.maxSize)

	var views []dto.BookingView
	if req.Scope == ScopeOwner {
		views, err = s.bookings.ListForOwner(ctx, req.UserID, state, page)
	} else {
		views, err = s.bookings.ListForBooker(ctx, req.UserID, state, page)
	}
	if err != nil {
		return nil, grpcError(err)
	}
	return &ListBookingsResponse{Bookings: views}, nil
}

func RegisterBookingServiceServer(s grpc.ServiceRegistrar, srv BookingServiceServer) {
	s.RegisterService(&bookingServiceDesc, srv)
}

var bookingServiceDesc = grpc.ServiceDesc{
	ServiceName: BookingServiceName,
	HandlerType: (*BookingServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "CreateBooking",
			Handler: unaryHandler(methodCreateBooking, func(srv BookingServiceServer, ctx context.Context, req *CreateBookingRequest) (any, error) {
				return srv.CreateBooking(ctx, req)
			}),
		},
		{
			MethodName: "ConfirmBooking",
			Handler: unaryHandler(methodConfirmBooking, func(srv BookingServiceServer, ctx context.Context, req *ConfirmBookingRequest) (any, error) {
				return srv.ConfirmBooking(ctx, req)
			}),
		},
		{
			MethodName: "GetBooking",
			Handler: unaryHandler(methodGetBooking, func(srv BookingServiceServer, ctx context.Context, req *GetBookingRequest) (any, error) {
				return srv.GetBooking(ctx, req)
			}),
		},
		{
			MethodName: "ListBookings",
			Handler: unaryHandler(methodListBookings, func(srv BookingServiceServer, ctx context.Context, req *ListBookingsRequest) (any, error) {
				return srv.ListBookings(ctx, req)
			}),
		},
	},
	Streams: []grpc.StreamDesc{},
}

// unaryHandler decodes Req and runs call through the server interceptor chain.
func unaryHandler[Req any](
	fullMethod string,
	call func(BookingServiceServer, context.Context, *Req) (any, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		server := srv.(BookingServiceServer)
		if interceptor == nil {
			return call(server, ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(server, ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// BookingServiceClient calls BookingService with the JSON codec.
type BookingServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewBookingServiceClient(cc grpc.ClientConnInterface) *BookingServiceClient {
	return &BookingServiceClient{cc: cc}
}

func (c *BookingServiceClient) CreateBooking(ctx context.Context, in *CreateBookingRequest, opts ...grpc.CallOption) (*dto.BookingView, error) {
	out := new(dto.BookingView)
	if err := c.invoke(ctx, methodCreateBooking, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BookingServiceClient) ConfirmBooking(ctx context.Context, in *ConfirmBookingRequest, opts ...grpc.CallOption) (*dto.BookingView, error) {
	out := new(dto.BookingView)
	if err := c.invoke(ctx, methodConfirmBooking, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BookingServiceClient) GetBooking(ctx context.Context, in *GetBookingRequest, opts ...grpc.CallOption) (*dto.BookingView, error) {
	out := new(dto.BookingView)
	if err := c.invoke(ctx, methodGetBooking, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BookingServiceClient) ListBookings(ctx context.Context, in *ListBookingsRequest, opts ...grpc.CallOption) (*ListBookingsResponse, error) {
	out := new(ListBookingsResponse)
	if err := c.invoke(ctx, methodListBookings, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BookingServiceClient) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	return c.cc.Invoke(ctx, method, in, out, opts...)
}
