// Package lock implements the gRPC transport for the orientation lock.
//
// The protobuf schema is declared in code as FileDescriptor. Requests and
// responses are plain Go structs converted to dynamic protobuf messages at
// the wire, so the default gRPC proto codec carries them. The service
// descriptor follows the shape protoc-gen-go-grpc emits, and the package
// maps domain errors to gRPC status codes and back.
package lock
