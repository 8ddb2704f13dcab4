package permissions_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jexl-go/jexl/internal/permissions"
)

func TestUnrestricted_AllowsEverything(t *testing.T) {
	p := permissions.Unrestricted()
	require.True(t, p.Allows("os.File", "Remove"))
	require.True(t, p.Allows("any.Class", "anyMember"))
}

func TestNilPermissions_AllowsEverything(t *testing.T) {
	var p *permissions.Permissions
	require.True(t, p.Allows("os.File", "Remove"))
}

func TestRestricted_DeniesCuratedPackages(t *testing.T) {
	p := permissions.Restricted()
	require.False(t, p.Allows("os.File", "Remove"))
	require.False(t, p.Allows("reflect.Value", "Interface"))
	require.True(t, p.Allows("myapp.Widget", "Render"))
}

func TestParse_AllowLine(t *testing.T) {
	p, err := permissions.Parse("myapp.*")
	require.NoError(t, err)
	require.True(t, p.Allows("myapp.Widget", "Render"))
	require.False(t, p.Allows("otherapp.Widget", "Render"))
}

func TestParse_WholeClassDeny(t *testing.T) {
	p, err := permissions.Parse("myapp.*", "myapp.Dangerous")
	require.NoError(t, err)
	require.True(t, p.Allows("myapp.Safe", "anything"))
	require.False(t, p.Allows("myapp.Dangerous", "anything"))
}

func TestParse_MemberScopedDeny(t *testing.T) {
	p, err := permissions.Parse("myapp.*", "myapp.Widget { destroy; reset }")
	require.NoError(t, err)
	require.True(t, p.Allows("myapp.Widget", "render"))
	require.False(t, p.Allows("myapp.Widget", "destroy"))
	require.False(t, p.Allows("myapp.Widget", "reset"))
}

func TestParse_IgnoresBlankLines(t *testing.T) {
	p, err := permissions.Parse("myapp.*", "", "   ")
	require.NoError(t, err)
	require.True(t, p.Allows("myapp.Widget", "render"))
}

func TestSandbox_NilAllowsEverything(t *testing.T) {
	var s *permissions.Sandbox
	require.True(t, s.Allows("any.Class", "anyMember", permissions.MemberMethodCall))
}

func TestSandbox_DenyBlocksOnlyThatKind(t *testing.T) {
	s := permissions.NewSandbox()
	s.Deny(permissions.MemberMethodCall, "app.Account", "withdraw")

	require.False(t, s.Allows("app.Account", "withdraw", permissions.MemberMethodCall))
	require.True(t, s.Allows("app.Account", "withdraw", permissions.MemberPropertyRead))
	require.True(t, s.Allows("app.Account", "deposit", permissions.MemberMethodCall))
}

func TestSandbox_AllowOverridesMemberScopedDeny(t *testing.T) {
	s := permissions.NewSandbox()
	s.Deny(permissions.MemberMethodCall, "app.Account", "withdraw")
	s.Allow(permissions.MemberMethodCall, "app.Account", "withdraw")

	require.True(t, s.Allows("app.Account", "withdraw", permissions.MemberMethodCall))
}

func TestSandbox_UnrelatedClassUnaffected(t *testing.T) {
	s := permissions.NewSandbox()
	s.Deny(permissions.MemberMethodCall, "app.Account", "withdraw")

	require.True(t, s.Allows("app.Other", "withdraw", permissions.MemberMethodCall))
}
