package v1alpha1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "rpgtracker.v1alpha1.CharacterService"

// Method names
const (
	MethodCreateCharacter = "CreateCharacter"
	MethodListCharacters  = "ListCharacters"
	MethodGetSnapshot     = "GetSnapshot"
	MethodPerformAction   = "PerformAction"
	MethodListActions     = "ListActions"
)

// CharacterServiceServer is the server API. Requests and responses are
// google.protobuf.Struct so the flat action forms travel unchanged.
type CharacterServiceServer interface {
	CreateCharacter(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListCharacters(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetSnapshot(context.Context, *structpb.Struct) (*structpb.Struct, error)
	PerformAction(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListActions(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(CharacterServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryMethod(name string, call unaryCall) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(CharacterServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + ServiceName + "/" + name,
			}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(CharacterServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// CharacterServiceDesc describes the service for grpc.Server registration.
// It must match character_service.proto.
var CharacterServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CharacterServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod(MethodCreateCharacter, CharacterServiceServer.CreateCharacter),
		unaryMethod(MethodListCharacters, CharacterServiceServer.ListCharacters),
		unaryMethod(MethodGetSnapshot, CharacterServiceServer.GetSnapshot),
		unaryMethod(MethodPerformAction, CharacterServiceServer.PerformAction),
		unaryMethod(MethodListActions, CharacterServiceServer.ListActions),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "character_service.proto",
}

// RegisterCharacterServiceServer registers srv on s
func RegisterCharacterServiceServer(s grpc.ServiceRegistrar, srv CharacterServiceServer) {
	s.RegisterService(&CharacterServiceDesc, srv)
}

// Client calls the character service over a client connection
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient creates a character service client
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Invoke calls a method by name
func (c *Client) Invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	if in == nil {
		in = &structpb.Struct{}
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateCharacter submits a create_character form
func (c *Client) CreateCharacter(ctx context.Context, input map[string]string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.Invoke(ctx, MethodCreateCharacter, request(map[string]interface{}{"input": stringsToAny(input)}), opts...)
}

// ListCharacters lists stored characters
func (c *Client) ListCharacters(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.Invoke(ctx, MethodListCharacters, nil, opts...)
}

// GetSnapshot fetches the derived state of a character
func (c *Client) GetSnapshot(ctx context.Context, characterID string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.Invoke(ctx, MethodGetSnapshot, request(map[string]interface{}{"character_id": characterID}), opts...)
}

// PerformAction submits an action form
func (c *Client) PerformAction(ctx context.Context, characterID, action string, input map[string]string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.Invoke(ctx, MethodPerformAction, request(map[string]interface{}{
		"character_id": characterID,
		"action":       action,
		"input":        stringsToAny(input),
	}), opts...)
}

// ListActions describes every action
func (c *Client) ListActions(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.Invoke(ctx, MethodListActions, nil, opts...)
}

// request only fails on unsupported value types, which callers here never pass
func request(fields map[string]interface{}) *structpb.Struct {
	s, err := structpb.NewStruct(fields)
	if err != nil {
		return &structpb.Struct{}
	}
	return s
}

func stringsToAny(m map[string]string) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
