package mail

import (
	"time"

	mailevent "gitlab.com/amize/amize-backend/internal/application/mail/event"
)

type App struct {
	Event *mailevent.MailEventHandler
}

type Args struct {
	Mailsender  mailevent.MailSender
	FrontendURL string
	SendTimeout time.Duration
}

func NewApp(args Args) *App {
	return &App{
		Event: mailevent.NewMailEventHandler(mailevent.MailEventHandlerArgs{
			Mailsender:  args.Mailsender,
			FrontendURL: args.FrontendURL,
			SendTimeout: args.SendTimeout,
		}),
	}
}
