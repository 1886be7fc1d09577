package migration

import (
	"errors"
	"net/url"

	"github.com/golang-migrate/migrate/v4"
	"go.uber.org/zap"

	_ "github.com/golang-migrate/migrate/v4/database/postgres" // postgres driver
	_ "github.com/golang-migrate/migrate/v4/source/file"       // file:// source
)

// Migrate applies every pending migration from sourceURL against the
// database. The DSN never reaches the logs in full; credentials are
// stripped first.
func Migrate(dbURL string, sourceURL string, verbose bool, log *zap.Logger) error {
	log.Info("Applying database migrations",
		zap.String("database", RedactDSN(dbURL)),
		zap.String("source", sourceURL),
	)

	m, err := migrate.New(sourceURL, dbURL)
	if err != nil {
		return err
	}
	m.Log = NewLogger(log, verbose)

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("Database schema already up to date")
			return nil
		}
		log.Error("Database migration failed", zap.Error(err))
		return err
	}

	log.Info("Database migrations applied")
	return nil
}

// RedactDSN reduces a connection URL to its host and database name so it is
// safe to log. Userinfo and query parameters may carry credentials.
func RedactDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return "(redacted)"
	}
	u.User = nil
	u.RawQuery = ""
	return u.String()
}

// Logger adapts zap to the migrate.Logger interface.
type Logger struct {
	logger  *zap.Logger
	verbose bool
}

func NewLogger(logger *zap.Logger, verbose bool) *Logger {
	return &Logger{logger: logger, verbose: verbose}
}

func (l *Logger) Printf(format string, v ...any) {
	l.logger.Sugar().Infof("migration: "+format, v...)
}

func (l *Logger) Verbose() bool {
	return l.verbose
}
