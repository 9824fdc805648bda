package errors_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-tracker/internal/errors"
)

type ValidationTestSuite struct {
	suite.Suite
}

func TestValidationSuite(t *testing.T) {
	suite.Run(t, new(ValidationTestSuite))
}

func (s *ValidationTestSuite) TestValidationBuilder() {
	err := errors.NewValidationBuilder().
		Field("name", "is required").
		Fieldf("level", "must be between %d and %d", 1, 20).
		RequiredField("class").
		Build()

	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
	s.True(errors.IsStructural(err))
	s.Equal([]string{"is required"}, errors.StructuralFields(err)["class"])
	s.Contains(err.Error(), "level: must be between 1 and 20")
}

func (s *ValidationTestSuite) TestValidationBuilderNoErrors() {
	s.NoError(errors.NewValidationBuilder().Build())
}

func (s *ValidationTestSuite) TestPlainInvalidArgumentIsNotStructural() {
	s.False(errors.IsStructural(errors.InvalidArgument("character id is required")))
	s.False(errors.IsStructural(nil))
}

func (s *ValidationTestSuite) TestFieldErrorsKeepFirstMessage() {
	fe := errors.FieldErrors{}
	fe.Addf("spell_id", "%s is not prepared", "shield")
	fe.Addf("spell_id", "second message")

	s.True(fe.Has("spell_id"))
	s.False(fe.Has("class"))
	s.Equal("shield is not prepared", fe["spell_id"])
}

func (s *ValidationTestSuite) TestHelpers() {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("name", "  ", vb)
	errors.ValidateRange("score", 31, 1, 30, vb)
	errors.ValidateEnum("store", "mongo", []string{"redis", "sqlite"}, vb)

	fields := errors.StructuralFields(vb.Build())
	s.Equal([]string{"is required"}, fields["name"])
	s.Equal([]string{"must be between 1 and 30"}, fields["score"])
	s.Equal([]string{"must be one of: redis, sqlite"}, fields["store"])
}
