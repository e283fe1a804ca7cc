package results

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOperationResult(t *testing.T) {
	ok := SuccessResult[int, error](41)
	assert.True(t, ok.IsSuccess())
	assert.False(t, ok.IsFailure())

	mapped := Map(ok, func(v int) string { return string(rune('A' + v - 41)) })
	assert.Equal(t, "A", *mapped.Success)

	failed := FailureResult[int, error](errors.New("boom"))
	assert.True(t, failed.IsFailure())
	assert.Nil(t, failed.Success)

	stillFailed := Map(failed, func(v int) string { return "unused" })
	assert.Nil(t, stillFailed.Success)
	assert.EqualError(t, *stillFailed.Failure, "boom")
}
