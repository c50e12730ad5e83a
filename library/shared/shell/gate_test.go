package shell_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-lending-go/library/shared/core"
	"github.com/AntonStoeckl/library-lending-go/library/shared/shell"
)

type pingerStub struct {
	err error
}

func (p pingerStub) Ping(_ context.Context) error {
	return p.err
}

func Test_Gate_CheckMutation(t *testing.T) {
	tests := []struct {
		name        string
		granted     []shell.Permission
		online      bool
		required    shell.Permission
		expectedErr error
	}{
		{
			name:     "granted and online",
			granted:  []shell.Permission{shell.PermissionManageBorrowing},
			online:   true,
			required: shell.PermissionManageBorrowing,
		},
		{
			name:        "missing permission",
			granted:     []shell.Permission{shell.PermissionManageBooks},
			online:      true,
			required:    shell.PermissionManageBorrowing,
			expectedErr: core.ErrPermissionDenied,
		},
		{
			name:        "offline",
			granted:     []shell.Permission{shell.PermissionManageStudents},
			online:      false,
			required:    shell.PermissionManageStudents,
			expectedErr: core.ErrOffline,
		},
		{
			name:        "missing permission wins over offline",
			online:      false,
			required:    shell.PermissionManageBooks,
			expectedErr: core.ErrPermissionDenied,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// arrange
			gate := shell.NewGate(shell.NewStaticPermissions(tt.granted...), shell.NewConnectivityFlag(tt.online))

			// act
			err := gate.CheckMutation(context.Background(), tt.required)

			// assert
			if tt.expectedErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

func Test_Gate_WithoutPermissionChecker_DeniesEverything(t *testing.T) {
	gate := shell.NewGate(nil, nil)

	err := gate.CheckMutation(context.Background(), shell.PermissionManageBooks)

	assert.ErrorIs(t, err, core.ErrPermissionDenied)
	assert.True(t, gate.IsOnline(context.Background()), "Should assume online without a signal")
}

func Test_ConnectivityFlag_CanBeSwitched(t *testing.T) {
	flag := shell.NewConnectivityFlag(true)
	assert.True(t, flag.IsOnline(context.Background()))

	flag.SetOnline(false)

	assert.False(t, flag.IsOnline(context.Background()))
}

func Test_StorePingProbe_IsOnline(t *testing.T) {
	assert.True(t, shell.NewStorePingProbe(pingerStub{}, time.Second).IsOnline(context.Background()))
	assert.False(t, shell.NewStorePingProbe(pingerStub{err: errors.New("connection refused")}, time.Second).IsOnline(context.Background()))
	assert.False(t, shell.NewStorePingProbe(nil, time.Second).IsOnline(context.Background()))
}

func Test_ParsePermission(t *testing.T) {
	permission, err := shell.ParsePermission(" manage_books ")
	assert.NoError(t, err)
	assert.Equal(t, shell.PermissionManageBooks, permission)

	_, err = shell.ParsePermission("MANAGE_EVERYTHING")
	assert.Error(t, err)
}
