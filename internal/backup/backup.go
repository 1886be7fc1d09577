package backup

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"time"
)

// Service shells out to the Postgres client tools for full-database dumps
// and restores. The database URL is the same one the server connects with.
type Service struct {
	databaseURL string
	timeout     time.Duration
}

func NewService(databaseURL string) *Service {
	return &Service{
		databaseURL: databaseURL,
		timeout:     5 * time.Minute,
	}
}

// Dump produces a plain-format SQL dump of the whole database.
func (s *Service) Dump(ctx context.Context) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	// --clean --if-exists makes the dump drop objects before recreating
	// them, so a restore converges the existing database instead of
	// requiring a drop-and-recreate.
	cmd := exec.CommandContext(ctx, "pg_dump", "--clean", "--if-exists", "--no-owner", "--no-privileges", s.databaseURL)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("pg_dump failed: %v: %s", err, stderr.String())
	}
	return out.Bytes(), nil
}

// Restore replays a dump produced by Dump. Existing objects are dropped
// first so the database ends up matching the dump exactly.
func (s *Service) Restore(ctx context.Context, dump []byte) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "psql", "--set", "ON_ERROR_STOP=on", "--single-transaction", s.databaseURL)
	cmd.Stdin = bytes.NewReader(dump)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("restore failed: %v: %s", err, stderr.String())
	}
	return nil
}
