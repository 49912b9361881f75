package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerworks/analyst-api/internal/adapters/driven/storage/memory"
	"github.com/ledgerworks/analyst-api/internal/core/domain"
)

func TestSeedAdmin_CreatesOnce(t *testing.T) {
	users := memory.NewUserStore()
	svc := NewAuthService(users)
	ctx := context.Background()

	admin, created, err := svc.SeedAdmin(ctx)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "admin", admin.Username)
	assert.Equal(t, domain.RoleGroupAdmin, admin.Role)

	again, created, err := svc.SeedAdmin(ctx)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, admin.ID, again.ID)
}

func TestLogin(t *testing.T) {
	users := memory.NewUserStore()
	svc := NewAuthService(users)
	ctx := context.Background()

	admin, _, err := svc.SeedAdmin(ctx)
	require.NoError(t, err)

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{name: "valid credentials", username: "admin", password: "admin"},
		{name: "wrong password", username: "admin", password: "nope", wantErr: domain.ErrUnauthenticated},
		{name: "unknown user", username: "ghost", password: "admin", wantErr: domain.ErrUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, token, err := svc.Login(ctx, tt.username, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, admin.ID, user.ID)
			assert.Equal(t, "user-"+admin.ID, token)
		})
	}
}

func TestAuthenticate(t *testing.T) {
	users := memory.NewUserStore()
	svc := NewAuthService(users)
	ctx := context.Background()

	admin, _, err := svc.SeedAdmin(ctx)
	require.NoError(t, err)

	user, err := svc.Authenticate(ctx, "user-"+admin.ID)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, user.ID)

	for _, token := range []string{"", "user-", "user-unknown", "bearer-" + admin.ID, admin.ID} {
		_, err := svc.Authenticate(ctx, token)
		assert.ErrorIs(t, err, domain.ErrUnauthenticated, "token %q", token)
	}
}
