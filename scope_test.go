package headless_test

import (
	"testing"

	headless "github.com/centraunit/headless"
	"github.com/stretchr/testify/suite"
)

type ScopeTestSuite struct {
	suite.Suite
}

func (s *ScopeTestSuite) TestWithValueDoesNotMutate() {
	base := headless.NewValues().WithValue("key1", "value1")
	derived := base.WithValue("key1", "override")

	s.Equal("value1", base.Value("key1"))
	s.Equal("override", derived.Value("key1"))
}

func (s *ScopeTestSuite) TestMissingKey() {
	v := headless.NewValues()
	s.Nil(v.Value("absent"))
}

func (s *ScopeTestSuite) TestMergeWith() {
	first := headless.NewValues().
		WithValue("key1", "value1").
		WithValue("shared", "value1")
	second := headless.NewValues().
		WithValue("key2", "value2").
		WithValue("shared", "value2")

	merged := first.MergeWith(second)
	s.Equal("value1", merged.Value("key1"))
	s.Equal("value2", merged.Value("key2"))
	s.Equal("value2", merged.Value("shared"), "the other bag should override shared keys")

	s.Equal("value1", first.Value("shared"), "merge should not mutate either input")

	s.Equal("value1", first.MergeWith(nil).Value("key1"))
}

func TestScopeSuite(t *testing.T) {
	suite.Run(t, new(ScopeTestSuite))
}
