package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/atvirokodosprendimai/qaforum/internal/domain"
	"github.com/atvirokodosprendimai/qaforum/internal/loader"
	"github.com/urfave/cli/v3"
)

func main() {
	args := os.Args
	if len(args) == 1 {
		args = append(args, "--help")
	}

	root := &cli.Command{
		Name:  "qaforum",
		Usage: "Question and answer forum store",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "db", Usage: "SQLite database path (overrides QAFORUM_DATABASE__PATH)"},
		},
		Commands: []*cli.Command{
			migrateCommand(),
			seedCommand(),
			usersCommand(),
			questionsCommand(),
			repliesCommand(),
			likesCommand(),
			followsCommand(),
		},
	}

	if err := root.Run(context.Background(), args); err != nil {
		log.Fatal(err)
	}
}

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{Name: "json", Usage: "output raw JSON"}
}

func idFlag(name string) cli.Flag {
	return &cli.Int64Flag{Name: name, Required: true}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Create the forum schema if missing",
		Action: withForum(func(ctx context.Context, c *cli.Command, f *forum) error {
			fmt.Printf("schema ready at %s\n", f.cfg.Database.Path)
			return nil
		}),
	}
}

func seedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Load users, questions, replies, likes and follows from a YAML fixture",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Required: true, Usage: "fixture path"},
			jsonFlag(),
		},
		Action: withForum(func(ctx context.Context, c *cli.Command, f *forum) error {
			fixture, err := loader.LoadYAML(c.String("file"))
			if err != nil {
				return err
			}
			res, err := loader.Apply(ctx, f.svc, fixture)
			if err != nil {
				return err
			}
			f.log.Info().Str("file", c.String("file")).Int("users", len(res.Users)).Int("questions", len(res.Questions)).Msg("seeded forum")
			return emit(c, *res, printSeedResult)
		}),
	}
}

func usersCommand() *cli.Command {
	return &cli.Command{
		Name:  "users",
		Usage: "User commands",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List users",
				Flags: []cli.Flag{jsonFlag()},
				Action: withForum(func(ctx context.Context, c *cli.Command, f *forum) error {
					out, err := f.svc.ListUsers(ctx)
					if err != nil {
						return err
					}
					return emit(c, out, printUsers)
				}),
			},
			{
				Name:  "show",
				Usage: "Show one user",
				Flags: []cli.Flag{idFlag("id"), jsonFlag()},
				Action: withForum(func(ctx context.Context, c *cli.Command, f *forum) error {
					u, err := requireUser(ctx, f, c.Int64("id"))
					if err != nil {
						return err
					}
					return emit(c, u, printUser)
				}),
			},
			{
				Name:  "find",
				Usage: "Find users by first and last name",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "fname", Required: true},
					&cli.StringFlag{Name: "lname", Required: true},
					jsonFlag(),
				},
				Action: withForum(func(ctx context.Context, c *cli.Command, f *forum) error {
					out, err := f.svc.FindUsersByName(ctx, c.String("fname"), c.String("lname"))
					if err != nil {
						return err
					}
					return emit(c, out, printUsers)
				}),
			},
			{
				Name:  "save",
				Usage: "Create a user, or update one when --id is given",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "id"},
					&cli.StringFlag{Name: "fname", Required: true},
					&cli.StringFlag{Name: "lname", Required: true},
					jsonFlag(),
				},
				Action: withForum(func(ctx context.Context, c *cli.Command, f *forum) error {
					out, err := f.svc.SaveUser(ctx, domain.User{
						ID:        c.Int64("id"),
						FirstName: c.String("fname"),
						LastName:  c.String("lname"),
					})
					if err != nil {
						return err
					}
					return emit(c, out, printUser)
				}),
			},
			{
				Name:  "questions",
				Usage: "Questions authored by a user",
				Flags: []cli.Flag{idFlag("id"), jsonFlag()},
				Action: withForum(func(ctx context.Context, c *cli.Command, f *forum) error {
					u, err := requireUser(ctx, f, c.Int64("id"))
					if err != nil {
						return err
					}
					out, err := f.svc.AuthoredQuestions(ctx, u)
					if err != nil {
						return err
					}
					return emit(c, out, printQuestions)
				}),
			},
			{
				Name:  "replies",
				Usage: "Replies written by a user",
				Flags: []cli.Flag{idFlag("id"), jsonFlag()},
				Action: withForum(func(ctx context.Context, c *cli.Command, f *forum) error {
					u, err := requireUser(ctx, f, c.Int64("id"))
					if err != nil {
						return err
					}
					out, err := f.svc.AuthoredReplies(ctx, u)
					if err != nil {
						return err
					}
					return emit(c, out, printReplies)
				}),
			},
			{
				Name:  "followed",
				Usage: "Questions a user follows",
				Flags: []cli.Flag{idFlag("id"), jsonFlag()},
				Action: withForum(func(ctx context.Context, c *cli.Command, f *forum) error {
					u, err := requireUser(ctx, f, c.Int64("id"))
					if err != nil {
						return err
					}
					out, err := f.svc.FollowedQuestions(ctx, u)
					if err != nil {
						return err
					}
					return emit(c, out, printQuestions)
				}),
			},
			{
				Name:  "liked",
				Usage: "Questions a user liked",
				Flags: []cli.Flag{idFlag("id"), jsonFlag()},
				Action: withForum(func(ctx context.Context, c *cli.Command, f *forum) error {
					u, err := requireUser(ctx, f, c.Int64("id"))
					if err != nil {
						return err
					}
					out, err := f.svc.LikedQuestions(ctx, u)
					if err != nil {
						return err
					}
					return emit(c, out, printQuestions)
				}),
			},
			{
				Name:  "karma",
				Usage: "Average likes per authored question",
				Flags: []cli.Flag{idFlag("id"), jsonFlag()},
				Action: withForum(func(ctx context.Context, c *cli.Command, f *forum) error {
					u, err := requireUser(ctx, f, c.Int64("id"))
					if err != nil {
						return err
					}
					karma, ok, err := f.svc.AverageKarma(ctx, u)
					if err != nil {
						return err
					}
					if c.Bool("json") {
						out := map[string]any{"user_id": u.ID, "karma": nil}
						if ok {
							out["karma"] = karma
						}
						return printJSON(out)
					}
					if !ok {
						fmt.Printf("user %d has authored no questions\n", u.ID)
						return nil
					}
					fmt.Printf("%.2f\n", karma)
					return nil
				}),
			},
		},
	}
}

func questionsCommand() *cli.Command {
	return &cli.Command{
		Name:  "questions",
		Usage: "Question commands",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List questions",
				Flags: []cli.Flag{jsonFlag()},
				Action: withForum(func(ctx context.Context, c *cli.Command, f *forum) error {
					out, err := f.svc.ListQuestions(ctx)
					if err != nil {
						return err
					}
					return emit(c, out, printQuestions)
				}),
			},
			{
				Name:  "show",
				Usage: "Show one question",
				Flags: []cli.Flag{idFlag("id"), jsonFlag()},
				Action: withForum(func(ctx context.Context, c *cli.Command, f *forum) error {
					q, err := requireQuestion(ctx, f, c.Int64("id"))
					if err != nil {
						return err
					}
					return emit(c, q, printQuestion)
				}),
			},
			{
				Name:  "save",
				Usage: "Create a question, or update one when --id is given",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "id"},
					&cli.StringFlag{Name: "title", Required: true},
					&cli.StringFlag{Name: "body"},
					idFlag("author-id"),
					jsonFlag(),
				},
				Action: withForum(func(ctx context.Context, c *cli.Command, f *forum) error {
					out, err := f.svc.SaveQuestion(ctx, domain.Question{
						ID:       c.Int64("id"),
						Title:    c.String("title"),
						Body:     c.String("body"),
						AuthorID: c.Int64("author-id"),
					})
					if err != nil {
						return err
					}
					return emit(c, out, printQuestion)
				}),
			},
			{
				Name:  "author",
				Usage: "Show the author of a question",
				Flags: []cli.Flag{idFlag("id"), jsonFlag()},
				Action: withForum(func(ctx context.Context, c *cli.Command, f *forum) error {
					q, err := requireQuestion(ctx, f, c.Int64("id"))
					if err != nil {
						return err
					}
					u, err := f.svc.QuestionAuthor(ctx, q)
					if err != nil {
						return err
					}
					if u == nil {
						return fmt.Errorf("author %d of question %d not found", q.AuthorID, q.ID)
					}
					return emit(c, *u, printUser)
				}),
			},
			{
				Name:  "replies",
				Usage: "Replies to a question",
				Flags: []cli.Flag{idFlag("id"), jsonFlag()},
				Action: withForum(func(ctx context.Context, c *cli.Command, f *forum) error {
					q, err := requireQuestion(ctx, f, c.Int64("id"))
					if err != nil {
						return err
					}
					out, err := f.svc.QuestionReplies(ctx, q)
					if err != nil {
						return err
					}
					return emit(c, out, printReplies)
				}),
			},
			{
				Name:  "followers",
				Usage: "Users following a question",
				Flags: []cli.Flag{idFlag("id"), jsonFlag()},
				Action: withForum(func(ctx context.Context, c *cli.Command, f *forum) error {
					q, err := requireQuestion(ctx, f, c.Int64("id"))
					if err != nil {
						return err
					}
					out, err := f.svc.QuestionFollowers(ctx, q)
					if err != nil {
						return err
					}
					return emit(c, out, printUsers)
				}),
			},
			{
				Name:  "likers",
				Usage: "Users who liked a question",
				Flags: []cli.Flag{idFlag("id"), jsonFlag()},
				Action: withForum(func(ctx context.Context, c *cli.Command, f *forum) error {
					q, err := requireQuestion(ctx, f, c.Int64("id"))
					if err != nil {
						return err
					}
					out, err := f.svc.QuestionLikers(ctx, q)
					if err != nil {
						return err
					}
					return emit(c, out, printUsers)
				}),
			},
			{
				Name:  "likes",
				Usage: "Count likes of a question",
				Flags: []cli.Flag{idFlag("id"), jsonFlag()},
				Action: withForum(func(ctx context.Context, c *cli.Command, f *forum) error {
					q, err := requireQuestion(ctx, f, c.Int64("id"))
					if err != nil {
						return err
					}
					n, err := f.svc.QuestionNumLikes(ctx, q)
					if err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(map[string]any{"question_id": q.ID, "likes": n})
					}
					fmt.Println(n)
					return nil
				}),
			},
			{
				Name:  "most-liked",
				Usage: "Questions with the most likes",
				Flags: []cli.Flag{&cli.IntFlag{Name: "n", Value: 10}, jsonFlag()},
				Action: withForum(func(ctx context.Context, c *cli.Command, f *forum) error {
					out, err := f.svc.MostLiked(ctx, c.Int("n"))
					if err != nil {
						return err
					}
					return emit(c, out, func(items []domain.RankedQuestion) { printRanked(items, "LIKES") })
				}),
			},
			{
				Name:  "most-followed",
				Usage: "Questions with the most followers",
				Flags: []cli.Flag{&cli.IntFlag{Name: "n", Value: 10}, jsonFlag()},
				Action: withForum(func(ctx context.Context, c *cli.Command, f *forum) error {
					out, err := f.svc.MostFollowed(ctx, c.Int("n"))
					if err != nil {
						return err
					}
					return emit(c, out, func(items []domain.RankedQuestion) { printRanked(items, "FOLLOWERS") })
				}),
			},
		},
	}
}

func repliesCommand() *cli.Command {
	return &cli.Command{
		Name:  "replies",
		Usage: "Reply commands",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List replies",
				Flags: []cli.Flag{jsonFlag()},
				Action: withForum(func(ctx context.Context, c *cli.Command, f *forum) error {
					out, err := f.svc.ListReplies(ctx)
					if err != nil {
						return err
					}
					return emit(c, out, printReplies)
				}),
			},
			{
				Name:  "show",
				Usage: "Show one reply",
				Flags: []cli.Flag{idFlag("id"), jsonFlag()},
				Action: withForum(func(ctx context.Context, c *cli.Command, f *forum) error {
					r, err := requireReply(ctx, f, c.Int64("id"))
					if err != nil {
						return err
					}
					return emit(c, r, printReply)
				}),
			},
			{
				Name:  "save",
				Usage: "Create a reply, or update one when --id is given",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "id"},
					&cli.StringFlag{Name: "body", Required: true},
					idFlag("user-id"),
					idFlag("question-id"),
					&cli.Int64Flag{Name: "parent-id", Usage: "parent reply; omit for a root reply"},
					jsonFlag(),
				},
				Action: withForum(func(ctx context.Context, c *cli.Command, f *forum) error {
					value := domain.Reply{
						ID:         c.Int64("id"),
						Body:       c.String("body"),
						UserID:     c.Int64("user-id"),
						QuestionID: c.Int64("question-id"),
					}
					if c.IsSet("parent-id") {
						parentID := c.Int64("parent-id")
						value.ParentReplyID = &parentID
					}
					out, err := f.svc.SaveReply(ctx, value)
					if err != nil {
						return err
					}
					return emit(c, out, printReply)
				}),
			},
			{
				Name:  "parent",
				Usage: "Show the parent of a reply",
				Flags: []cli.Flag{idFlag("id"), jsonFlag()},
				Action: withForum(func(ctx context.Context, c *cli.Command, f *forum) error {
					r, err := requireReply(ctx, f, c.Int64("id"))
					if err != nil {
						return err
					}
					parent, err := f.svc.ParentReply(ctx, r)
					if err != nil {
						return err
					}
					if parent == nil {
						if c.Bool("json") {
							return printJSON(nil)
						}
						fmt.Printf("reply %d has no parent\n", r.ID)
						return nil
					}
					return emit(c, *parent, printReply)
				}),
			},
			{
				Name:  "children",
				Usage: "Direct replies to a reply",
				Flags: []cli.Flag{idFlag("id"), jsonFlag()},
				Action: withForum(func(ctx context.Context, c *cli.Command, f *forum) error {
					r, err := requireReply(ctx, f, c.Int64("id"))
					if err != nil {
						return err
					}
					out, err := f.svc.ChildReplies(ctx, r)
					if err != nil {
						return err
					}
					return emit(c, out, printReplies)
				}),
			},
			{
				Name:  "thread",
				Usage: "Show a reply with all its descendants",
				Flags: []cli.Flag{
					idFlag("id"),
					&cli.IntFlag{Name: "depth", Value: 32, Usage: "levels below the reply"},
					jsonFlag(),
				},
				Action: withForum(func(ctx context.Context, c *cli.Command, f *forum) error {
					r, err := requireReply(ctx, f, c.Int64("id"))
					if err != nil {
						return err
					}
					tree, err := f.svc.ReplyThread(ctx, r, c.Int("depth"))
					if err != nil {
						return err
					}
					if tree == nil {
						return fmt.Errorf("reply %d not found", r.ID)
					}
					return emit(c, *tree, printThread)
				}),
			},
		},
	}
}

func likesCommand() *cli.Command {
	return &cli.Command{
		Name:  "likes",
		Usage: "Question like commands",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Record that a user likes a question",
				Flags: []cli.Flag{idFlag("user-id"), idFlag("question-id"), jsonFlag()},
				Action: withForum(func(ctx context.Context, c *cli.Command, f *forum) error {
					out, err := f.svc.SaveLike(ctx, domain.Like{UserID: c.Int64("user-id"), QuestionID: c.Int64("question-id")})
					if err != nil {
						return err
					}
					return emit(c, []domain.Like{out}, printLikes)
				}),
			},
			{
				Name:  "list",
				Usage: "List likes",
				Flags: []cli.Flag{jsonFlag()},
				Action: withForum(func(ctx context.Context, c *cli.Command, f *forum) error {
					out, err := f.svc.ListLikes(ctx)
					if err != nil {
						return err
					}
					return emit(c, out, printLikes)
				}),
			},
		},
	}
}

func followsCommand() *cli.Command {
	return &cli.Command{
		Name:  "follows",
		Usage: "Question follow commands",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Record that a user follows a question",
				Flags: []cli.Flag{idFlag("user-id"), idFlag("question-id"), jsonFlag()},
				Action: withForum(func(ctx context.Context, c *cli.Command, f *forum) error {
					out, err := f.svc.SaveFollow(ctx, domain.Follow{UserID: c.Int64("user-id"), QuestionID: c.Int64("question-id")})
					if err != nil {
						return err
					}
					return emit(c, []domain.Follow{out}, printFollows)
				}),
			},
			{
				Name:  "list",
				Usage: "List follows",
				Flags: []cli.Flag{jsonFlag()},
				Action: withForum(func(ctx context.Context, c *cli.Command, f *forum) error {
					out, err := f.svc.ListFollows(ctx)
					if err != nil {
						return err
					}
					return emit(c, out, printFollows)
				}),
			},
		},
	}
}
