package framework

import (
	"context"
	"log/slog"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	amize "gitlab.com/amize/amize-backend"
	"gitlab.com/amize/amize-backend/internal/adapters/repos/postgres"
	authapp "gitlab.com/amize/amize-backend/internal/application/auth"
	"gitlab.com/amize/amize-backend/internal/application/mail"
	profileapp "gitlab.com/amize/amize-backend/internal/application/profile"
	httpport "gitlab.com/amize/amize-backend/internal/ports/http"
	watermillport "gitlab.com/amize/amize-backend/internal/ports/watermill"
	"gitlab.com/amize/amize-backend/pkg/httpx"
	postgrespkg "gitlab.com/amize/amize-backend/pkg/postgres"
	"gitlab.com/amize/amize-backend/pkg/watermillx"
	"gitlab.com/amize/amize-backend/tests/integration/framework/db"
	"gitlab.com/amize/amize-backend/tests/integration/framework/event"
	httpframework "gitlab.com/amize/amize-backend/tests/integration/framework/http"
	"gitlab.com/amize/amize-backend/tests/mocks"
)

const DefaultAvatarURL = "https://cdn.amize.test/default-avatar.png"

// IntegrationTestSuite runs the whole service against a postgres container:
// HTTP port, repositories, outbox and the mail event handlers. Mail delivery
// and blob storage are mocked.
type IntegrationTestSuite struct {
	suite.Suite

	pgContainer  *tcpostgres.PostgresContainer
	pool         *pgxpool.Pool
	router       *message.Router
	cancelRouter context.CancelFunc

	HTTP  *httpframework.Helper
	DB    *db.Helper
	Event *event.Helper
	Mail  *mocks.MockMailSender
	Blobs *mocks.BlobStore
}

func (s *IntegrationTestSuite) SetupSuite() {
	if testing.Short() {
		s.T().Skip("integration tests need docker")
	}
	ctx := context.Background()

	pgContainer, err := tcpostgres.Run(ctx, "postgres:17-alpine",
		tcpostgres.WithDatabase("amize_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		tcpostgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(s.T(), pgContainer)
	s.Require().NoError(err)
	s.pgContainer = pgContainer

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	s.Require().NoError(postgrespkg.Migrate(postgrespkg.MigrationDSN(dsn), amize.Migrations))

	s.pool, err = pgxpool.New(ctx, dsn)
	s.Require().NoError(err)

	wlogger := watermill.NewSlogLogger(slog.New(slog.DiscardHandler))
	s.Require().NoError(watermillx.InitializeEventSchema(ctx, s.pool, wlogger))

	accountRepo := postgres.NewAccountRepo(s.pool, nil, nil)
	profileRepo := postgres.NewProfileRepo(s.pool, nil, nil)
	followRepo := postgres.NewFollowRepo(s.pool, nil, nil)

	s.Mail = mocks.NewMockMailSender()
	s.Blobs = mocks.NewBlobStore()

	s.router, err = message.NewRouter(message.RouterConfig{}, wlogger)
	s.Require().NoError(err)
	wmport, err := watermillport.NewPortForTest(s.router, s.pool, wlogger)
	s.Require().NoError(err)
	err = wmport.Run(ctx, watermillport.AppEventHandlers{
		Mail: mail.NewApp(mail.Args{Mailsender: s.Mail}),
	})
	s.Require().NoError(err)

	routerCtx, cancel := context.WithCancel(ctx)
	s.cancelRouter = cancel
	go func() {
		_ = s.router.Run(routerCtx)
	}()
	<-s.router.Running()

	errhandler, err := httpx.NewErrorHandler(amize.Locales, nil)
	s.Require().NoError(err)

	port := httpport.NewPort(httpport.Args{
		AuthApp: authapp.NewApp(authapp.Args{
			Repo:             accountRepo,
			DefaultAvatarURL: DefaultAvatarURL,
		}),
		ProfileApp: profileapp.NewApp(profileapp.Args{
			Repo:          profileRepo,
			AccountGetter: accountRepo,
			FollowChecker: followRepo,
			BlobStore:     s.Blobs,
		}),
		Errhandler: errhandler,
	})

	s.HTTP = httpframework.NewHelper(port.Route(nil))
	s.DB = db.NewHelper(db.Args{
		Pool:     s.pool,
		Accounts: accountRepo,
		Profiles: profileRepo,
	})
	s.Event = event.NewHelper(s.pool)
}

func (s *IntegrationTestSuite) TearDownSuite() {
	if s.cancelRouter != nil {
		s.cancelRouter()
	}
	if s.router != nil {
		_ = s.router.Close()
	}
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *IntegrationTestSuite) SetupTest() {
	s.DB.TruncateAll(s.T())
	s.Mail.Reset()
	s.Blobs.Reset()
}
