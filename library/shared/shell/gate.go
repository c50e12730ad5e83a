package shell

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/AntonStoeckl/library-lending-go/library/shared/core"
)

// Permission is a capability the auth collaborator can grant.
type Permission string

const (
	PermissionManageBorrowing Permission = "MANAGE_BORROWING"
	PermissionManageBooks     Permission = "MANAGE_BOOKS"
	PermissionManageStudents  Permission = "MANAGE_STUDENTS"
)

// AllPermissions lists every known Permission.
func AllPermissions() []Permission {
	return []Permission{PermissionManageBorrowing, PermissionManageBooks, PermissionManageStudents}
}

// ParsePermission accepts the permission names case-insensitively.
func ParsePermission(value string) (Permission, error) {
	candidate := Permission(strings.ToUpper(strings.TrimSpace(value)))
	for _, permission := range AllPermissions() {
		if candidate == permission {
			return permission, nil
		}
	}

	return "", fmt.Errorf("unknown permission %q", value)
}

// PermissionChecker is the auth collaborator.
type PermissionChecker interface {
	HasPermission(ctx context.Context, permission Permission) bool
}

// ConnectivitySignal is the network-reachability collaborator.
type ConnectivitySignal interface {
	IsOnline(ctx context.Context) bool
}

// StaticPermissions grants a fixed set of permissions, e.g. from the role list in the config.
type StaticPermissions struct {
	granted map[Permission]struct{}
}

func NewStaticPermissions(granted ...Permission) StaticPermissions {
	set := make(map[Permission]struct{}, len(granted))
	for _, permission := range granted {
		set[permission] = struct{}{}
	}

	return StaticPermissions{granted: set}
}

func (p StaticPermissions) HasPermission(_ context.Context, permission Permission) bool {
	_, ok := p.granted[permission]
	return ok
}

// ConnectivityFlag is a ConnectivitySignal that is switched explicitly.
type ConnectivityFlag struct {
	online atomic.Bool
}

func NewConnectivityFlag(online bool) *ConnectivityFlag {
	flag := &ConnectivityFlag{}
	flag.online.Store(online)

	return flag
}

func (f *ConnectivityFlag) SetOnline(online bool) {
	f.online.Store(online)
}

func (f *ConnectivityFlag) IsOnline(_ context.Context) bool {
	return f.online.Load()
}

// StorePingProbe reports online when the store answers a ping within the timeout.
type StorePingProbe struct {
	pinger  Pinger
	timeout time.Duration
}

func NewStorePingProbe(pinger Pinger, timeout time.Duration) StorePingProbe {
	return StorePingProbe{pinger: pinger, timeout: timeout}
}

func (p StorePingProbe) IsOnline(ctx context.Context) bool {
	if p.pinger == nil {
		return false
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	return p.pinger.Ping(ctx) == nil
}

// Gate is consulted by every command handler before it touches the store.
type Gate struct {
	permissions  PermissionChecker
	connectivity ConnectivitySignal
}

func NewGate(permissions PermissionChecker, connectivity ConnectivitySignal) Gate {
	return Gate{permissions: permissions, connectivity: connectivity}
}

// CheckMutation returns core.ErrPermissionDenied when the permission is missing,
// then core.ErrOffline when the store is unreachable.
func (g Gate) CheckMutation(ctx context.Context, permission Permission) error {
	if g.permissions == nil || !g.permissions.HasPermission(ctx, permission) {
		return fmt.Errorf("%w: %s", core.ErrPermissionDenied, permission)
	}

	if !g.IsOnline(ctx) {
		return core.ErrOffline
	}

	return nil
}

// IsOnline reports the connectivity signal; without a signal the gate assumes online.
func (g Gate) IsOnline(ctx context.Context) bool {
	if g.connectivity == nil {
		return true
	}

	return g.connectivity.IsOnline(ctx)
}
