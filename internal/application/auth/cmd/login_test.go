package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/amize/amize-backend/internal/domain/account"
	"gitlab.com/amize/amize-backend/tests/builders"
	"gitlab.com/amize/amize-backend/tests/mocks"
)

func TestLoginHandler(t *testing.T) {
	t.Parallel()

	unverified := builders.NewAccountBuilder().Build()
	verified := builders.NewAccountBuilder().WithEmail("v@x.com").WithUsername("victor").Verified().Build()
	hashless := builders.NewAccountBuilder().WithEmail("h@x.com").WithUsername("hash_less").WithoutPassHash().Build()

	repo := mocks.NewAccountRepo().
		SeedAccount(t, unverified).
		SeedAccount(t, verified).
		SeedAccount(t, hashless)
	handler := NewLoginHandler(LoginHandlerArgs{CredentialsGetter: repo})

	tests := []struct {
		name    string
		cmd     Login
		want    *account.Account
		wantErr error
	}{
		{
			name: "unverified account may log in",
			cmd:  Login{Email: "a@x.com", Password: builders.DefaultPassword},
			want: unverified,
		},
		{
			name: "verified account with mixed case email",
			cmd:  Login{Email: "V@X.com", Password: builders.DefaultPassword},
			want: verified,
		},
		{
			name:    "wrong password",
			cmd:     Login{Email: "a@x.com", Password: "not-the-password"},
			wantErr: account.ErrInvalidCredentials,
		},
		{
			name:    "unknown email",
			cmd:     Login{Email: "ghost@x.com", Password: builders.DefaultPassword},
			wantErr: account.ErrInvalidCredentials,
		},
		{
			name:    "account without hash",
			cmd:     Login{Email: "h@x.com", Password: builders.DefaultPassword},
			wantErr: account.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res, err := handler.Handle(t.Context(), tt.cmd)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, LoginResponse{}, res)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, LoginResponse{
				ID:         tt.want.ID(),
				Username:   tt.want.Username(),
				Email:      tt.want.Email(),
				IsVerified: tt.want.IsVerified(),
			}, res)
		})
	}
}
