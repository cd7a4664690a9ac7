package identity_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelfactory/mes/internal/adapters/persistence"
	identityapp "github.com/modelfactory/mes/internal/application/identity"
	"github.com/modelfactory/mes/internal/domain/identity"
	"github.com/modelfactory/mes/internal/domain/shared"
	"github.com/modelfactory/mes/test/helpers"
)

func newIdentityService(t *testing.T) (*identityapp.Service, *shared.MockClock) {
	t.Helper()
	clock := shared.NewMockClock(time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC))
	svc := identityapp.NewService(
		persistence.NewGormUserRepository(helpers.NewTestDB(t)),
		helpers.TestSigningSecret, time.Hour, clock,
	)
	_, err := svc.Register(context.Background(), "planner", "planner-password", identity.RolePlanner, nil)
	require.NoError(t, err)
	return svc, clock
}

func TestLogin_IssuesVerifiableToken(t *testing.T) {
	svc, _ := newIdentityService(t)

	result, err := svc.Login(context.Background(), "planner", "planner-password")
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
	assert.Equal(t, identity.RolePlanner, result.Role)

	claims, err := svc.VerifyToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, "planner", claims.Subject)
	assert.Equal(t, string(identity.RolePlanner), claims.Role)
	assert.Equal(t, result.UserID, claims.UserID)
}

func TestLogin_FailuresAreUniform(t *testing.T) {
	svc, _ := newIdentityService(t)
	ctx := context.Background()

	_, wrongPassword := svc.Login(ctx, "planner", "not-the-password")
	_, unknownUser := svc.Login(ctx, "ghost", "whatever-password")

	var unauthorized *identity.ErrUnauthorized
	require.ErrorAs(t, wrongPassword, &unauthorized)
	require.ErrorAs(t, unknownUser, &unauthorized)

	// An attacker cannot tell a bad password from a missing account
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestVerifyToken_RejectsExpired(t *testing.T) {
	svc, clock := newIdentityService(t)

	result, err := svc.Login(context.Background(), "planner", "planner-password")
	require.NoError(t, err)

	clock.Advance(2 * time.Hour)

	_, err = svc.VerifyToken(result.Token)
	var unauthorized *identity.ErrUnauthorized
	assert.ErrorAs(t, err, &unauthorized)
}

func TestVerifyToken_RejectsTampered(t *testing.T) {
	svc, _ := newIdentityService(t)

	result, err := svc.Login(context.Background(), "planner", "planner-password")
	require.NoError(t, err)

	tampered := result.Token[:len(result.Token)-2] + "xx"
	_, err = svc.VerifyToken(tampered)

	var unauthorized *identity.ErrUnauthorized
	assert.ErrorAs(t, err, &unauthorized)
}

func TestRegister_RejectsWeakInput(t *testing.T) {
	svc, _ := newIdentityService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "shorty", "short", identity.RoleViewer, nil)
	assert.Error(t, err)

	// Workstation accounts need their station
	_, err = svc.Register(ctx, "floating-operator", "a-long-password", identity.RoleWorkstation, nil)
	assert.Error(t, err)
}
