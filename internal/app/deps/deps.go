package deps

import (
	"adbridge/internal/config"
	"adbridge/internal/core/domain/account"
	dl "adbridge/internal/core/domain/logging"
	drl "adbridge/internal/core/domain/rate_limiter"
	"adbridge/internal/db"
	dbaccount "adbridge/internal/db/account"
	dbsqlite "adbridge/internal/db/sqlite"
	"adbridge/internal/implementations/email"
	"adbridge/internal/implementations/identity"
	"adbridge/internal/implementations/logging"
	passwordhasher "adbridge/internal/implementations/password_hasher"
	ratelimiter "adbridge/internal/implementations/rate_limiter"
	resettoken "adbridge/internal/implementations/reset_token"
	"adbridge/internal/implementations/session"
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/go-redis/redis/v9"
	"github.com/jackc/pgx/v4/pgxpool"
)

type Deps struct {
	Config    *config.Config
	AwsConfig aws.Config
	Logger    dl.Logger

	DB     *pgxpool.Pool
	Sqlite *sql.DB
	Redis  *redis.Client

	Now func() time.Time

	AccountRepository account.AccountRepository

	RateLimiter drl.RateLimiter
	Notifier    account.Notifier

	IdentityGenerator   account.IdentityGenerator
	PasswordHasher      account.PasswordHasher
	ResetTokenGenerator account.ResetTokenGenerator
	ResetTokenHasher    account.ResetTokenHasher
	SessionIssuer       account.SessionIssuer
}

func InitDeps() (*Deps, func()) {
	deps := &Deps{}

	deps.initConfig()
	deps.initAwsConfig()

	closeLogger := deps.initLogger()
	closeStorage := deps.initStorage()
	closeRedisClient := deps.initRedisClient()

	deps.Now = func() time.Time { return time.Now().UTC() }
	deps.RateLimiter = deps.initRateLimiter()
	deps.Notifier = deps.initNotifier()

	deps.IdentityGenerator = identity.NewUUID()
	deps.PasswordHasher = passwordhasher.NewBcrypt(deps.Config.Secret, deps.Config.BcryptHasherCost)
	deps.ResetTokenGenerator = resettoken.NewRandomGenerator()
	deps.ResetTokenHasher = resettoken.NewHMAC(deps.Config.Secret)
	deps.SessionIssuer = session.NewJWT(
		deps.Config.Secret,
		deps.Config.SessionIssuer,
		deps.Config.SessionTTL,
		deps.Now,
	)

	return deps, func() {
		closeFuncs := []func(){
			closeRedisClient,
			closeStorage,
		}

		var wg sync.WaitGroup
		wg.Add(len(closeFuncs))
		for _, closeFunc := range closeFuncs {
			closeFunc := closeFunc
			go func() {
				closeFunc()
				wg.Done()
			}()
		}

		wg.Wait()
		closeLogger()
	}
}

func (deps *Deps) initConfig() {
	config, err := config.Load()
	if err != nil {
		panic(err)
	}
	deps.Config = config
}

func (deps *Deps) initAwsConfig() {
	cfg, err := awsConfig.LoadDefaultConfig(
		context.Background(),
		awsConfig.WithRegion(deps.Config.AwsRegion),
		awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				deps.Config.AwsAccessKey,
				deps.Config.AwsSecretKey,
				"",
			),
		),
		awsConfig.WithRetryer(func() aws.Retryer {
			return retry.AddWithMaxAttempts(
				retry.AddWithMaxBackoffDelay(retry.NewStandard(), time.Second*5),
				3,
			)
		}),
	)
	if err != nil {
		panic(err)
	}
	deps.AwsConfig = cfg
}

func (deps *Deps) initLogger() func() {
	logger := logging.NewZapLogger(deps.Config.LogDevelopment)
	deps.Logger = logger
	return func() { logger.Sync() }
}

func (deps *Deps) initStorage() func() {
	if deps.Config.StorageDriver == config.StorageSqlite {
		return deps.initSqlite()
	}
	return deps.initPgxPool()
}

func (deps *Deps) initPgxPool() func() {
	pool, err := pgxpool.Connect(context.Background(), deps.Config.PostgresqlURL)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to DB.", dl.Entry("err", err))
		panic(err)
	}
	deps.DB = pool
	deps.AccountRepository = dbaccount.NewPgxRepository(pool)
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down DB connection.")
		pool.Close()
		deps.Logger.Info(context.Background(), "DB connection shut down.")
	}
}

func (deps *Deps) initSqlite() func() {
	sqlite, err := db.OpenSqlite(deps.Config.SqlitePath)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not open SQLite DB.", dl.Entry("err", err))
		panic(err)
	}
	if err := db.MigrateSqlite(sqlite); err != nil {
		deps.Logger.Error(context.Background(), "Could not migrate SQLite DB.", dl.Entry("err", err))
		panic(err)
	}
	deps.Sqlite = sqlite
	deps.AccountRepository = dbsqlite.NewAccountRepository(sqlite)
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down SQLite DB.")
		sqlite.Close()
		deps.Logger.Info(context.Background(), "SQLite DB shut down.")
	}
}

func (deps *Deps) initRedisClient() func() {
	redisOpt, err := redis.ParseURL(deps.Config.RedisURL)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to Redis.", dl.Entry("err", err))
		panic(err)
	}
	redisClient := redis.NewClient(redisOpt)
	deps.Redis = redisClient
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down Redis client.")
		redisClient.Close()
		deps.Logger.Info(context.Background(), "Redis client shut down.")
	}
}

func (deps *Deps) initRateLimiter() drl.RateLimiter {
	if deps.Config.IsTestMode {
		deps.Logger.Warning(context.Background(), "Rate limiting is disabled in test mode.")
		return drl.NewFakeRateLimiter(true)
	}
	return ratelimiter.NewRedis(deps.Redis, deps.Logger, deps.Now)
}

func (deps *Deps) initNotifier() account.Notifier {
	cfg := deps.Config
	switch cfg.EmailTransport {
	case config.EmailTransportSES:
		return email.NewSESNotifier(
			deps.AwsConfig,
			cfg.EmailSender,
			cfg.AwsEmailPasswordResetTemplate,
			cfg.PasswordResetBaseURL,
		)
	case config.EmailTransportSMTP:
		return email.NewSMTPNotifier(
			cfg.SmtpHost,
			cfg.SmtpPort,
			cfg.SmtpUsername,
			cfg.SmtpPassword,
			cfg.EmailSender,
			cfg.PasswordResetBaseURL,
			fmt.Sprintf("%d minutes", int(cfg.PasswordResetTTL.Minutes())),
		)
	default:
		deps.Logger.Warning(context.Background(), "Password reset links are logged instead of being sent.")
		return email.NewLogNotifier(deps.Logger, cfg.PasswordResetBaseURL)
	}
}
