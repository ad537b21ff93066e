package authapp

import (
	"gitlab.com/amize/amize-backend/internal/application/auth/cmd"
	"gitlab.com/amize/amize-backend/internal/application/auth/query"
)

type App struct {
	CMD   Command
	Query Query
}

type Command struct {
	Register    *cmd.RegisterHandler
	VerifyEmail *cmd.VerifyEmailHandler
	Login       *cmd.LoginHandler
}

type Query struct {
	GetAccount *query.GetAccountHandler
}

type Repo interface {
	cmd.Repo
	cmd.CredentialsGetter
	query.AccountGetter
}

type Args struct {
	Repo             Repo
	DefaultAvatarURL string
}

func NewApp(args Args) *App {
	return &App{
		CMD: Command{
			Register: cmd.NewRegisterHandler(cmd.RegisterHandlerArgs{
				Repo:             args.Repo,
				DefaultAvatarURL: args.DefaultAvatarURL,
			}),
			VerifyEmail: cmd.NewVerifyEmailHandler(cmd.VerifyEmailHandlerArgs{
				Repo: args.Repo,
			}),
			Login: cmd.NewLoginHandler(cmd.LoginHandlerArgs{
				CredentialsGetter: args.Repo,
			}),
		},
		Query: Query{
			GetAccount: query.NewGetAccountHandler(query.GetAccountHandlerArgs{
				AccountGetter: args.Repo,
			}),
		},
	}
}
