package main

import (
	"context"
	"fmt"

	sqliteadapter "github.com/atvirokodosprendimai/qaforum/internal/adapters/db/sqlite"
	"github.com/atvirokodosprendimai/qaforum/internal/application"
	"github.com/atvirokodosprendimai/qaforum/internal/config"
	"github.com/atvirokodosprendimai/qaforum/internal/domain"
	"github.com/atvirokodosprendimai/qaforum/internal/logger"
	"github.com/atvirokodosprendimai/qaforum/internal/repository"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
	"gorm.io/gorm"
)

// forum is one opened store with the service wired on top of it.
type forum struct {
	cfg *config.Config
	log zerolog.Logger
	db  *gorm.DB
	svc *application.ForumService
}

func openForum(ctx context.Context, c *cli.Command) (*forum, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if path := c.String("db"); path != "" {
		cfg.Database.Path = path
	}
	log := logger.New(cfg.Logging)

	db, err := sqliteadapter.Open(cfg.Database.Path, sqliteadapter.Options{
		MaxOpenConns: cfg.Database.MaxOpenConns,
		BusyTimeout:  cfg.Database.BusyTimeout,
		ForeignKeys:  cfg.Database.ForeignKeys,
		Logger:       logger.NewGormLogger(log, cfg.Logging.SlowQueryThreshold, cfg.TraceSQL()),
	})
	if err != nil {
		return nil, err
	}
	if err := sqliteadapter.RunMigrations(ctx, db, log); err != nil {
		_ = sqliteadapter.Close(db)
		return nil, err
	}

	gw := sqliteadapter.NewGateway(db)
	if err := gw.Ping(ctx); err != nil {
		_ = sqliteadapter.Close(db)
		return nil, err
	}
	log.Debug().Str("path", cfg.Database.Path).Int("max_open_conns", cfg.Database.MaxOpenConns).Msg("store opened")

	repos := repository.NewRepositories(gw)
	svc := application.NewForumService(application.Repositories{
		Users:     repos.Users,
		Questions: repos.Questions,
		Replies:   repos.Replies,
		Likes:     repos.Likes,
		Follows:   repos.Follows,
	})
	return &forum{cfg: cfg, log: log, db: db, svc: svc}, nil
}

func (f *forum) Close() {
	if err := sqliteadapter.Close(f.db); err != nil {
		f.log.Warn().Err(err).Msg("close store")
	}
}

// withForum opens the store for one command action and closes it after.
func withForum(fn func(ctx context.Context, c *cli.Command, f *forum) error) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		f, err := openForum(ctx, c)
		if err != nil {
			return err
		}
		defer f.Close()
		return fn(ctx, c, f)
	}
}

func requireUser(ctx context.Context, f *forum, id int64) (domain.User, error) {
	u, err := f.svc.GetUser(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	if u == nil {
		return domain.User{}, fmt.Errorf("user %d not found", id)
	}
	return *u, nil
}

func requireQuestion(ctx context.Context, f *forum, id int64) (domain.Question, error) {
	q, err := f.svc.GetQuestion(ctx, id)
	if err != nil {
		return domain.Question{}, err
	}
	if q == nil {
		return domain.Question{}, fmt.Errorf("question %d not found", id)
	}
	return *q, nil
}

func requireReply(ctx context.Context, f *forum, id int64) (domain.Reply, error) {
	r, err := f.svc.GetReply(ctx, id)
	if err != nil {
		return domain.Reply{}, err
	}
	if r == nil {
		return domain.Reply{}, fmt.Errorf("reply %d not found", id)
	}
	return *r, nil
}

// emit prints v as JSON when --json is set and with the table printer otherwise.
func emit[T any](c *cli.Command, v T, render func(T)) error {
	if c.Bool("json") {
		return printJSON(v)
	}
	render(v)
	return nil
}
