package lock

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/dynamicpb"
	"google.golang.org/protobuf/types/known/timestamppb"
)

const (
	// ProtoFile is the path the service's file descriptor is declared under.
	ProtoFile = "orientationlock/v1/lock.proto"
	// protoPackage is the protobuf package of every message.
	protoPackage = "orientationlock.v1"
)

//nolint:gochecknoglobals // Descriptors are built once and shared by every call.
var (
	// FileDescriptor describes the lock service and its messages.
	FileDescriptor = mustBuildFile()

	actorDesc               = FileDescriptor.Messages().ByName("Actor")
	viewDesc                = FileDescriptor.Messages().ByName("View")
	lockRequestDesc         = FileDescriptor.Messages().ByName("LockRequest")
	unlockRequestDesc       = FileDescriptor.Messages().ByName("UnlockRequest")
	getStateRequestDesc     = FileDescriptor.Messages().ByName("GetStateRequest")
	dismissAlertRequestDesc = FileDescriptor.Messages().ByName("DismissAlertRequest")
	watchStateRequestDesc   = FileDescriptor.Messages().ByName("WatchStateRequest")
	stateResponseDesc       = FileDescriptor.Messages().ByName("StateResponse")
)

// mustBuildFile declares lock.proto in code:
//
//	message Actor { string hostname = 1; string username = 2; }
//	message View {
//	  string state = 1; string pending = 2; string orientation = 3; string reference = 4;
//	  bool permission_granted = 5; bool alerting = 6; bool popup_visible = 7;
//	  string error = 8; int64 alerts = 9;
//	}
//	message LockRequest { Actor actor = 1; }          // also Unlock, DismissAlert
//	message GetStateRequest { Actor requesting_actor = 1; } // also WatchState
//	message StateResponse { google.protobuf.Timestamp timestamp = 1; View state = 2; }
func mustBuildFile() protoreflect.FileDescriptor {
	actor := typeName("Actor")

	file := &descriptorpb.FileDescriptorProto{
		Name:       proto.String(ProtoFile),
		Package:    proto.String(protoPackage),
		Dependency: []string{"google/protobuf/timestamp.proto"},
		Syntax:     proto.String("proto3"),
		MessageType: []*descriptorpb.DescriptorProto{
			messageProto("Actor",
				field("hostname", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING, ""),
				field("username", 2, descriptorpb.FieldDescriptorProto_TYPE_STRING, "")),
			messageProto("View",
				field("state", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING, ""),
				field("pending", 2, descriptorpb.FieldDescriptorProto_TYPE_STRING, ""),
				field("orientation", 3, descriptorpb.FieldDescriptorProto_TYPE_STRING, ""),
				field("reference", 4, descriptorpb.FieldDescriptorProto_TYPE_STRING, ""),
				field("permission_granted", 5, descriptorpb.FieldDescriptorProto_TYPE_BOOL, ""),
				field("alerting", 6, descriptorpb.FieldDescriptorProto_TYPE_BOOL, ""),
				field("popup_visible", 7, descriptorpb.FieldDescriptorProto_TYPE_BOOL, ""),
				field("error", 8, descriptorpb.FieldDescriptorProto_TYPE_STRING, ""),
				field("alerts", 9, descriptorpb.FieldDescriptorProto_TYPE_INT64, "")),
			messageProto("LockRequest", field("actor", 1, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, actor)),
			messageProto("UnlockRequest", field("actor", 1, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, actor)),
			messageProto("DismissAlertRequest", field("actor", 1, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, actor)),
			messageProto("GetStateRequest",
				field("requesting_actor", 1, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, actor)),
			messageProto("WatchStateRequest",
				field("requesting_actor", 1, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, actor)),
			messageProto("StateResponse",
				field("timestamp", 1, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, ".google.protobuf.Timestamp"),
				field("state", 2, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, typeName("View"))),
		},
		Service: []*descriptorpb.ServiceDescriptorProto{{
			Name: proto.String("LockService"),
			Method: []*descriptorpb.MethodDescriptorProto{
				method("Lock", "LockRequest", false),
				method("Unlock", "UnlockRequest", false),
				method("GetState", "GetStateRequest", false),
				method("DismissAlert", "DismissAlertRequest", false),
				method("WatchState", "WatchStateRequest", true),
			},
		}},
	}

	// The timestamp import resolves through the global registry, which
	// timestamppb populates on init.
	fd, err := protodesc.NewFile(file, protoregistry.GlobalFiles)
	if err != nil {
		panic(fmt.Sprintf("build %s: %v", ProtoFile, err))
	}

	return fd
}

func typeName(name string) string {
	return "." + protoPackage + "." + name
}

func messageProto(name string, fields ...*descriptorpb.FieldDescriptorProto) *descriptorpb.DescriptorProto {
	return &descriptorpb.DescriptorProto{Name: proto.String(name), Field: fields}
}

func field(
	name string,
	number int32,
	kind descriptorpb.FieldDescriptorProto_Type,
	messageType string,
) *descriptorpb.FieldDescriptorProto {
	f := &descriptorpb.FieldDescriptorProto{
		Name:   proto.String(name),
		Number: proto.Int32(number),
		Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		Type:   kind.Enum(),
	}

	if messageType != "" {
		f.TypeName = proto.String(messageType)
	}

	return f
}

func method(name, input string, serverStreaming bool) *descriptorpb.MethodDescriptorProto {
	return &descriptorpb.MethodDescriptorProto{
		Name:            proto.String(name),
		InputType:       proto.String(typeName(input)),
		OutputType:      proto.String(typeName("StateResponse")),
		ServerStreaming: proto.Bool(serverStreaming),
	}
}

// wireMessage is implemented by every request and response. Values travel as
// dynamic protobuf messages built from FileDescriptor, so the default gRPC
// proto codec encodes them.
type wireMessage interface {
	descriptor() protoreflect.MessageDescriptor
	toProto() *dynamicpb.Message
	fromProto(m protoreflect.Message) error
}

// setString sets a string field, by name.
func setString(m *dynamicpb.Message, name, value string) {
	m.Set(m.Descriptor().Fields().ByName(protoreflect.Name(name)), protoreflect.ValueOfString(value))
}

// setBool sets a bool field, by name.
func setBool(m *dynamicpb.Message, name string, value bool) {
	m.Set(m.Descriptor().Fields().ByName(protoreflect.Name(name)), protoreflect.ValueOfBool(value))
}

// get reads a field, by name.
func get(m protoreflect.Message, name string) protoreflect.Value {
	return m.Get(m.Descriptor().Fields().ByName(protoreflect.Name(name)))
}

// timestampOf reads a google.protobuf.Timestamp field into its generated type.
func timestampOf(m protoreflect.Message, name string) *timestamppb.Timestamp {
	fd := m.Descriptor().Fields().ByName(protoreflect.Name(name))
	if !m.Has(fd) {
		return nil
	}

	sub := m.Get(fd).Message()

	return &timestamppb.Timestamp{
		Seconds: get(sub, "seconds").Int(),
		Nanos:   int32(get(sub, "nanos").Int()), //nolint:gosec // Nanos is an int32 field.
	}
}
