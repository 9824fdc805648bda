// Package client provides commands that call the tracker gRPC service
package client

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/rpg-tracker/internal/errors"
	"github.com/KirkDiggler/rpg-tracker/internal/handlers/tracker/v1alpha1"
)

var (
	// Connection flags
	serverAddr string
	timeout    time.Duration
)

// ClientCmd is the root command for all client commands
var ClientCmd = &cobra.Command{
	Use:   "client",
	Short: "Call a running tracker server",
	Long:  `Client commands make real gRPC requests against a tracker server.`,
}

func init() {
	ClientCmd.PersistentFlags().StringVar(&serverAddr, "server", "localhost:50051", "gRPC server address")
	ClientCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")

	ClientCmd.AddCommand(createCmd)
	ClientCmd.AddCommand(listCmd)
	ClientCmd.AddCommand(snapshotCmd)
	ClientCmd.AddCommand(actCmd)
	ClientCmd.AddCommand(actionsCmd)
}

// createClient connects to the server. The returned func closes the
// connection.
func createClient() (*v1alpha1.Client, func(), error) {
	conn, err := grpc.NewClient(serverAddr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to server: %w", err)
	}

	cleanup := func() {
		_ = conn.Close() // nolint:errcheck // safe to ignore in cleanup
	}
	return v1alpha1.NewClient(conn), cleanup, nil
}

// parseForm reads key=value arguments into a form
func parseForm(args []string) (map[string]string, error) {
	form := make(map[string]string, len(args))
	vb := errors.NewValidationBuilder()
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			vb.Field(arg, "expected key=value")
			continue
		}
		form[key] = value
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}
	return form, nil
}

// printResponse writes the response as indented JSON
func printResponse(resp *structpb.Struct) error {
	data, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}
	_, err = fmt.Fprintln(os.Stdout, string(data))
	return err
}

// callError unpacks field messages from a gRPC error
func callError(action string, err error) error {
	converted := errors.FromGRPCError(err)
	if fields := errors.StructuralFields(converted); len(fields) > 0 {
		var b strings.Builder
		fmt.Fprintf(&b, "%s failed: %s", action, errors.GetMessage(converted))
		for field, msgs := range fields {
			fmt.Fprintf(&b, "\n  %s: %s", field, strings.Join(msgs, "; "))
		}
		return errors.New(errors.GetCode(converted), b.String())
	}
	return fmt.Errorf("%s failed: %w", action, err)
}
