// Package errors provides the structured error type used across rpg-tracker.
//
// Errors carry a Code, a message, an optional cause and metadata:
//
//	err := errors.NotFoundf("character %s not found", id)
//	err := errors.Wrap(err, "failed to load ledger")
//
// Wrapping preserves the code of an existing *Error, so a storage failure keeps
// its code as it travels up through the snapshot builder and the validators.
//
// # Structural errors
//
// Input that does not match an action's schema is a structural error. It is an
// InvalidArgument error whose metadata holds the offending fields:
//
//	vb := errors.NewValidationBuilder()
//	vb.Fieldf("slot_level", "must be a whole number, got %q", raw)
//	if err := vb.Build(); err != nil {
//	    return nil, err
//	}
//
// errors.IsStructural reports whether an error came from such a builder and
// errors.StructuralFields returns the field messages.
//
// Business rule failures are not errors at all. Validators report them as a
// FieldErrors map on their result.
//
// # gRPC
//
// ToGRPCError converts an *Error into a status, attaching metadata as a
// google.protobuf.Struct detail. FromGRPCError reverses the conversion.
package errors
