package core_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-lending-go/library/shared/core"
)

func Test_FailureReason_IsDistinctPerKind(t *testing.T) {
	tests := []struct {
		err      error
		expected string
	}{
		{err: core.ErrOffline, expected: core.FailureReasonOffline},
		{err: core.ErrPermissionDenied, expected: core.FailureReasonPermissionDenied},
		{err: core.ErrNotFound, expected: core.FailureReasonNotFound},
		{err: core.ErrInvalidStudent, expected: core.FailureReasonInvalidStudent},
		{err: core.ErrCopyUnavailable, expected: core.FailureReasonCopyUnavailable},
		{err: core.ErrLimitExceeded, expected: core.FailureReasonLimitExceeded},
		{err: core.ErrDuplicateTitle, expected: core.FailureReasonDuplicateTitle},
		{err: core.ErrAlreadyReturned, expected: core.FailureReasonAlreadyReturned},
		{err: core.StoreFailure(errors.New("connection refused")), expected: core.FailureReasonStoreFailure},
		{err: fmt.Errorf("wrapped: %w", core.ErrBarcodeOutOfRange), expected: core.FailureReasonInvalidInput},
		{err: errors.New("something else"), expected: core.FailureReasonUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, core.FailureReason(tt.err))
		})
	}

	assert.Empty(t, core.FailureReason(nil))
}

func Test_UserMessage(t *testing.T) {
	assert.Equal(t, "The student already has a copy of this book.", core.UserMessage(core.ErrDuplicateTitle))
	assert.Contains(t, core.UserMessage(core.StoreFailure(errors.New("connection refused"))), "connection refused",
		"Should keep the store's message")
	assert.NotEqual(t, core.UserMessage(core.ErrLimitExceeded), core.UserMessage(core.ErrCopyUnavailable))
}

func Test_StoreFailure(t *testing.T) {
	assert.NoError(t, core.StoreFailure(nil))

	storeErr := errors.New("timeout")
	err := core.StoreFailure(storeErr)

	assert.ErrorIs(t, err, core.ErrStoreFailure)
	assert.ErrorIs(t, err, storeErr)
	assert.False(t, core.IsPolicyViolation(err))
	assert.True(t, core.IsPolicyViolation(core.ErrLimitExceeded))
}

func Test_Lifecycle(t *testing.T) {
	active := core.Active()
	_, hasDeletedAt := active.DeletedAt()
	assert.False(t, active.IsDeleted())
	assert.False(t, hasDeletedAt)
	assert.Equal(t, active, core.Lifecycle{}, "Should be the zero value")

	deleted := core.Deleted(date(2024, 3, 1))
	at, hasDeletedAt := deleted.DeletedAt()
	assert.True(t, deleted.IsDeleted())
	assert.True(t, hasDeletedAt)
	assert.Equal(t, date(2024, 3, 1), at)
}
