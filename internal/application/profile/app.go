package profileapp

import (
	"time"

	"gitlab.com/amize/amize-backend/internal/application/profile/cmd"
	"gitlab.com/amize/amize-backend/internal/application/profile/query"
)

type App struct {
	CMD   Command
	Query Query
}

type Command struct {
	CreateProfile *cmd.CreateProfileHandler
}

type Query struct {
	GetProfile *query.GetProfileHandler
}

type Repo interface {
	cmd.Repo
	query.ProfileGetter
}

type Args struct {
	Repo          Repo
	AccountGetter cmd.AccountGetter
	FollowChecker cmd.FollowChecker
	BlobStore     cmd.BlobStore
	UploadTimeout time.Duration
}

func NewApp(args Args) *App {
	return &App{
		CMD: Command{
			CreateProfile: cmd.NewCreateProfileHandler(cmd.CreateProfileHandlerArgs{
				Repo:          args.Repo,
				AccountGetter: args.AccountGetter,
				FollowChecker: args.FollowChecker,
				BlobStore:     args.BlobStore,
				UploadTimeout: args.UploadTimeout,
			}),
		},
		Query: Query{
			GetProfile: query.NewGetProfileHandler(query.GetProfileHandlerArgs{
				ProfileGetter: args.Repo,
				AccountGetter: args.AccountGetter,
				FollowChecker: args.FollowChecker,
			}),
		},
	}
}
