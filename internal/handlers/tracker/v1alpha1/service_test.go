package v1alpha1_test

import (
	"os"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1alpha1 "github.com/KirkDiggler/rpg-tracker/internal/handlers/tracker/v1alpha1"
)

func TestServiceDescMatchesProto(t *testing.T) {
	data, err := os.ReadFile(v1alpha1.CharacterServiceDesc.Metadata.(string))
	require.NoError(t, err)
	proto := string(data)

	pkg := regexp.MustCompile(`(?m)^package ([\w.]+);`).FindStringSubmatch(proto)
	service := regexp.MustCompile(`(?m)^service (\w+) \{`).FindStringSubmatch(proto)
	require.Len(t, pkg, 2)
	require.Len(t, service, 2)
	assert.Equal(t, v1alpha1.ServiceName, pkg[1]+"."+service[1])

	var rpcs []string
	for _, m := range regexp.MustCompile(`rpc (\w+)\(google\.protobuf\.Struct\) returns \(google\.protobuf\.Struct\);`).FindAllStringSubmatch(proto, -1) {
		rpcs = append(rpcs, m[1])
	}
	var methods []string
	for _, m := range v1alpha1.CharacterServiceDesc.Methods {
		methods = append(methods, m.MethodName)
	}
	assert.ElementsMatch(t, methods, rpcs)
	assert.Empty(t, v1alpha1.CharacterServiceDesc.Streams)
}
