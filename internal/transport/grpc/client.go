package grpc

import (
	"context"

	"google.golang.org/grpc"
)

// AppointmentsClient calls barberbook.v1.AppointmentsService using the JSON codec.
type AppointmentsClient struct {
	cc grpc.ClientConnInterface
}

func NewAppointmentsClient(cc grpc.ClientConnInterface) *AppointmentsClient {
	return &AppointmentsClient{cc: cc}
}

func (c *AppointmentsClient) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	return c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...)
}

func (c *AppointmentsClient) ListAvailableSlots(ctx context.Context, in *ListAvailableSlotsRequest, opts ...grpc.CallOption) (*ListAvailableSlotsResponse, error) {
	out := new(ListAvailableSlotsResponse)
	if err := c.invoke(ctx, "ListAvailableSlots", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *AppointmentsClient) CheckConflict(ctx context.Context, in *CheckConflictRequest, opts ...grpc.CallOption) (*CheckConflictResponse, error) {
	out := new(CheckConflictResponse)
	if err := c.invoke(ctx, "CheckConflict", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *AppointmentsClient) CreateAppointment(ctx context.Context, in *CreateAppointmentRequest, opts ...grpc.CallOption) (*AppointmentResponse, error) {
	out := new(AppointmentResponse)
	if err := c.invoke(ctx, "CreateAppointment", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *AppointmentsClient) GetAppointment(ctx context.Context, in *AppointmentRequest, opts ...grpc.CallOption) (*AppointmentResponse, error) {
	out := new(AppointmentResponse)
	if err := c.invoke(ctx, "GetAppointment", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *AppointmentsClient) ConfirmAppointment(ctx context.Context, in *AppointmentRequest, opts ...grpc.CallOption) (*AppointmentResponse, error) {
	out := new(AppointmentResponse)
	if err := c.invoke(ctx, "ConfirmAppointment", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *AppointmentsClient) CancelAppointment(ctx context.Context, in *AppointmentRequest, opts ...grpc.CallOption) (*AppointmentResponse, error) {
	out := new(AppointmentResponse)
	if err := c.invoke(ctx, "CancelAppointment", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *AppointmentsClient) CompleteAppointment(ctx context.Context, in *AppointmentRequest, opts ...grpc.CallOption) (*AppointmentResponse, error) {
	out := new(AppointmentResponse)
	if err := c.invoke(ctx, "CompleteAppointment", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *AppointmentsClient) ListUserAppointments(ctx context.Context, in *ListUserAppointmentsRequest, opts ...grpc.CallOption) (*ListAppointmentsResponse, error) {
	out := new(ListAppointmentsResponse)
	if err := c.invoke(ctx, "ListUserAppointments", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *AppointmentsClient) ListStaffAppointments(ctx context.Context, in *ListStaffAppointmentsRequest, opts ...grpc.CallOption) (*ListAppointmentsResponse, error) {
	out := new(ListAppointmentsResponse)
	if err := c.invoke(ctx, "ListStaffAppointments", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *AppointmentsClient) ListServices(ctx context.Context, in *ListServicesRequest, opts ...grpc.CallOption) (*ListServicesResponse, error) {
	out := new(ListServicesResponse)
	if err := c.invoke(ctx, "ListServices", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *AppointmentsClient) ListStaff(ctx context.Context, in *ListStaffRequest, opts ...grpc.CallOption) (*ListStaffResponse, error) {
	out := new(ListStaffResponse)
	if err := c.invoke(ctx, "ListStaff", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}
