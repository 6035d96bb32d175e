package grpc

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "barberbook.v1.AppointmentsService"

// AppointmentsServiceServer is the server API for barberbook.v1.AppointmentsService.
type AppointmentsServiceServer interface {
	ListAvailableSlots(context.Context, *ListAvailableSlotsRequest) (*ListAvailableSlotsResponse, error)
	CheckConflict(context.Context, *CheckConflictRequest) (*CheckConflictResponse, error)
	CreateAppointment(context.Context, *CreateAppointmentRequest) (*AppointmentResponse, error)
	GetAppointment(context.Context, *AppointmentRequest) (*AppointmentResponse, error)
	ConfirmAppointment(context.Context, *AppointmentRequest) (*AppointmentResponse, error)
	CancelAppointment(context.Context, *AppointmentRequest) (*AppointmentResponse, error)
	CompleteAppointment(context.Context, *AppointmentRequest) (*AppointmentResponse, error)
	ListUserAppointments(context.Context, *ListUserAppointmentsRequest) (*ListAppointmentsResponse, error)
	ListStaffAppointments(context.Context, *ListStaffAppointmentsRequest) (*ListAppointmentsResponse, error)
	ListServices(context.Context, *ListServicesRequest) (*ListServicesResponse, error)
	ListStaff(context.Context, *ListStaffRequest) (*ListStaffResponse, error)
}

func RegisterAppointmentsServiceServer(s grpc.ServiceRegistrar, srv AppointmentsServiceServer) {
	s.RegisterService(&AppointmentsServiceDesc, srv)
}

var AppointmentsServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AppointmentsServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListAvailableSlots", Handler: handleListAvailableSlots},
		{MethodName: "CheckConflict", Handler: handleCheckConflict},
		{MethodName: "CreateAppointment", Handler: handleCreateAppointment},
		{MethodName: "GetAppointment", Handler: handleGetAppointment},
		{MethodName: "ConfirmAppointment", Handler: handleConfirmAppointment},
		{MethodName: "CancelAppointment", Handler: handleCancelAppointment},
		{MethodName: "CompleteAppointment", Handler: handleCompleteAppointment},
		{MethodName: "ListUserAppointments", Handler: handleListUserAppointments},
		{MethodName: "ListStaffAppointments", Handler: handleListStaffAppointments},
		{MethodName: "ListServices", Handler: handleListServices},
		{MethodName: "ListStaff", Handler: handleListStaff},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "barberbook/v1/appointments.proto",
}

func handleListAvailableSlots(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ListAvailableSlotsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AppointmentsServiceServer).ListAvailableSlots(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/ListAvailableSlots"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AppointmentsServiceServer).ListAvailableSlots(ctx, req.(*ListAvailableSlotsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func handleCheckConflict(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(CheckConflictRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AppointmentsServiceServer).CheckConflict(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/CheckConflict"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AppointmentsServiceServer).CheckConflict(ctx, req.(*CheckConflictRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func handleCreateAppointment(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(CreateAppointmentRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AppointmentsServiceServer).CreateAppointment(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/CreateAppointment"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AppointmentsServiceServer).CreateAppointment(ctx, req.(*CreateAppointmentRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func handleGetAppointment(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(AppointmentRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AppointmentsServiceServer).GetAppointment(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/GetAppointment"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AppointmentsServiceServer).GetAppointment(ctx, req.(*AppointmentRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func handleConfirmAppointment(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(AppointmentRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AppointmentsServiceServer).ConfirmAppointment(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/ConfirmAppointment"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AppointmentsServiceServer).ConfirmAppointment(ctx, req.(*AppointmentRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func handleCancelAppointment(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(AppointmentRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AppointmentsServiceServer).CancelAppointment(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/CancelAppointment"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AppointmentsServiceServer).CancelAppointment(ctx, req.(*AppointmentRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func handleCompleteAppointment(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(AppointmentRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AppointmentsServiceServer).CompleteAppointment(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/CompleteAppointment"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AppointmentsServiceServer).CompleteAppointment(ctx, req.(*AppointmentRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func handleListUserAppointments(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ListUserAppointmentsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AppointmentsServiceServer).ListUserAppointments(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/ListUserAppointments"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AppointmentsServiceServer).ListUserAppointments(ctx, req.(*ListUserAppointmentsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func handleListStaffAppointments(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ListStaffAppointmentsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AppointmentsServiceServer).ListStaffAppointments(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/ListStaffAppointments"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AppointmentsServiceServer).ListStaffAppointments(ctx, req.(*ListStaffAppointmentsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func handleListServices(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ListServicesRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AppointmentsServiceServer).ListServices(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/ListServices"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AppointmentsServiceServer).ListServices(ctx, req.(*ListServicesRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func handleListStaff(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ListStaffRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AppointmentsServiceServer).ListStaff(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/ListStaff"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AppointmentsServiceServer).ListStaff(ctx, req.(*ListStaffRequest))
	}
	return interceptor(ctx, in, info, handler)
}
