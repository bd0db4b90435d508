package lock

import (
	"fmt"
	"time"

	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
	"google.golang.org/protobuf/types/known/timestamppb"

	domain "github.com/oshokin/orientation-lock/internal/domain/lock"
	"github.com/oshokin/orientation-lock/internal/domain/orientation"
)

// LockRequest asks the server to lock the screen orientation.
type LockRequest struct {
	Actor *domain.Actor
}

// UnlockRequest asks the server to release the orientation lock.
type UnlockRequest struct {
	Actor *domain.Actor
}

// DismissAlertRequest asks the server to hide the alert popup.
type DismissAlertRequest struct {
	Actor *domain.Actor
}

// GetStateRequest asks for the current view.
type GetStateRequest struct {
	RequestingActor *domain.Actor
}

// WatchStateRequest opens a stream of view snapshots.
type WatchStateRequest struct {
	RequestingActor *domain.Actor
}

// StateResponse carries one view snapshot.
type StateResponse struct {
	Timestamp time.Time
	State     domain.View
}

// GetState returns the view, or the zero view for a nil response.
func (r *StateResponse) GetState() domain.View {
	if r == nil {
		return domain.View{}
	}

	return r.State
}

var (
	_ wireMessage = (*LockRequest)(nil)
	_ wireMessage = (*UnlockRequest)(nil)
	_ wireMessage = (*DismissAlertRequest)(nil)
	_ wireMessage = (*GetStateRequest)(nil)
	_ wireMessage = (*WatchStateRequest)(nil)
	_ wireMessage = (*StateResponse)(nil)
)

func (*LockRequest) descriptor() protoreflect.MessageDescriptor { return lockRequestDesc }

func (r *LockRequest) toProto() *dynamicpb.Message {
	if r == nil {
		return dynamicpb.NewMessage(lockRequestDesc)
	}

	return actorRequest(lockRequestDesc, r.Actor)
}

func (r *LockRequest) fromProto(m protoreflect.Message) error {
	r.Actor = requestActor(m)

	return nil
}

func (*UnlockRequest) descriptor() protoreflect.MessageDescriptor { return unlockRequestDesc }

func (r *UnlockRequest) toProto() *dynamicpb.Message {
	if r == nil {
		return dynamicpb.NewMessage(unlockRequestDesc)
	}

	return actorRequest(unlockRequestDesc, r.Actor)
}

func (r *UnlockRequest) fromProto(m protoreflect.Message) error {
	r.Actor = requestActor(m)

	return nil
}

func (*DismissAlertRequest) descriptor() protoreflect.MessageDescriptor { return dismissAlertRequestDesc }

func (r *DismissAlertRequest) toProto() *dynamicpb.Message {
	if r == nil {
		return dynamicpb.NewMessage(dismissAlertRequestDesc)
	}

	return actorRequest(dismissAlertRequestDesc, r.Actor)
}

func (r *DismissAlertRequest) fromProto(m protoreflect.Message) error {
	r.Actor = requestActor(m)

	return nil
}

func (*GetStateRequest) descriptor() protoreflect.MessageDescriptor { return getStateRequestDesc }

func (r *GetStateRequest) toProto() *dynamicpb.Message {
	if r == nil {
		return dynamicpb.NewMessage(getStateRequestDesc)
	}

	return actorRequest(getStateRequestDesc, r.RequestingActor)
}

func (r *GetStateRequest) fromProto(m protoreflect.Message) error {
	r.RequestingActor = requestActor(m)

	return nil
}

func (*WatchStateRequest) descriptor() protoreflect.MessageDescriptor { return watchStateRequestDesc }

func (r *WatchStateRequest) toProto() *dynamicpb.Message {
	if r == nil {
		return dynamicpb.NewMessage(watchStateRequestDesc)
	}

	return actorRequest(watchStateRequestDesc, r.RequestingActor)
}

func (r *WatchStateRequest) fromProto(m protoreflect.Message) error {
	r.RequestingActor = requestActor(m)

	return nil
}

func (*StateResponse) descriptor() protoreflect.MessageDescriptor { return stateResponseDesc }

func (r *StateResponse) toProto() *dynamicpb.Message {
	m := dynamicpb.NewMessage(stateResponseDesc)
	if r == nil {
		return m
	}

	if !r.Timestamp.IsZero() {
		m.Set(stateResponseDesc.Fields().ByName("timestamp"),
			protoreflect.ValueOfMessage(timestamppb.New(r.Timestamp).ProtoReflect()))
	}

	m.Set(stateResponseDesc.Fields().ByName("state"), protoreflect.ValueOfMessage(viewToProto(r.State)))

	return m
}

func (r *StateResponse) fromProto(m protoreflect.Message) error {
	*r = StateResponse{}

	if ts := timestampOf(m, "timestamp"); ts != nil {
		r.Timestamp = ts.AsTime()
	}

	fd := stateResponseDesc.Fields().ByName("state")
	if !m.Has(fd) {
		return nil
	}

	view, err := viewFromProto(m.Get(fd).Message())
	if err != nil {
		return err
	}

	r.State = view

	return nil
}

// actorRequest builds a request whose only field, number 1, is the actor.
func actorRequest(desc protoreflect.MessageDescriptor, actor *domain.Actor) *dynamicpb.Message {
	m := dynamicpb.NewMessage(desc)
	if actor == nil {
		return m
	}

	a := dynamicpb.NewMessage(actorDesc)
	setString(a, "hostname", actor.Hostname)
	setString(a, "username", actor.Username)

	m.Set(desc.Fields().ByNumber(1), protoreflect.ValueOfMessage(a))

	return m
}

// requestActor reads field 1 of a request, or nil when it is unset.
func requestActor(m protoreflect.Message) *domain.Actor {
	fd := m.Descriptor().Fields().ByNumber(1)
	if !m.Has(fd) {
		return nil
	}

	a := m.Get(fd).Message()

	return &domain.Actor{
		Hostname: get(a, "hostname").String(),
		Username: get(a, "username").String(),
	}
}

func viewToProto(v domain.View) *dynamicpb.Message {
	m := dynamicpb.NewMessage(viewDesc)

	setString(m, "state", v.State.String())
	setString(m, "pending", v.Pending.String())
	setString(m, "orientation", v.Orientation)
	setString(m, "reference", v.Reference.String())
	setBool(m, "permission_granted", v.PermissionGranted)
	setBool(m, "alerting", v.Alerting)
	setBool(m, "popup_visible", v.PopupVisible)
	setString(m, "error", v.Error)
	m.Set(viewDesc.Fields().ByName("alerts"), protoreflect.ValueOfInt64(int64(v.Alerts)))

	return m
}

func viewFromProto(m protoreflect.Message) (domain.View, error) {
	var (
		state     domain.State
		pending   domain.Operation
		reference orientation.Class
	)

	if err := state.UnmarshalText([]byte(get(m, "state").String())); err != nil {
		return domain.View{}, fmt.Errorf("decode view: %w", err)
	}

	if err := pending.UnmarshalText([]byte(get(m, "pending").String())); err != nil {
		return domain.View{}, fmt.Errorf("decode view: %w", err)
	}

	if err := reference.UnmarshalText([]byte(get(m, "reference").String())); err != nil {
		return domain.View{}, fmt.Errorf("decode view: %w", err)
	}

	return domain.View{
		State:             state,
		Pending:           pending,
		Orientation:       get(m, "orientation").String(),
		Reference:         reference,
		PermissionGranted: get(m, "permission_granted").Bool(),
		Alerting:          get(m, "alerting").Bool(),
		PopupVisible:      get(m, "popup_visible").Bool(),
		Error:             get(m, "error").String(),
		Alerts:            int(get(m, "alerts").Int()),
	}, nil
}
