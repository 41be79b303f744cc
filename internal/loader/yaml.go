// Package loader seeds a forum from a YAML fixture. Records refer to each
// other by local labels; ids are assigned by the store as records are saved.
package loader

import (
	"context"
	"fmt"
	"os"

	"github.com/atvirokodosprendimai/qaforum/internal/domain"
	"gopkg.in/yaml.v3"
)

// FixtureYAML is the seed file structure.
type FixtureYAML struct {
	Users     []UserYAML     `yaml:"users"`
	Questions []QuestionYAML `yaml:"questions,omitempty"`
	Replies   []ReplyYAML    `yaml:"replies,omitempty"`
	Likes     []EdgeYAML     `yaml:"likes,omitempty"`
	Follows   []EdgeYAML     `yaml:"follows,omitempty"`
}

type UserYAML struct {
	Label string `yaml:"label"`
	FName string `yaml:"fname"`
	LName string `yaml:"lname"`
}

type QuestionYAML struct {
	Label  string `yaml:"label"`
	Title  string `yaml:"title"`
	Body   string `yaml:"body"`
	Author string `yaml:"author"`
}

type ReplyYAML struct {
	Label    string `yaml:"label"`
	Body     string `yaml:"body"`
	Author   string `yaml:"author"`
	Question string `yaml:"question"`
	Parent   string `yaml:"parent,omitempty"`
}

// EdgeYAML is a like or a follow.
type EdgeYAML struct {
	User     string `yaml:"user"`
	Question string `yaml:"question"`
}

// Writer is the set of saves a fixture needs.
type Writer interface {
	SaveUser(ctx context.Context, value domain.User) (domain.User, error)
	SaveQuestion(ctx context.Context, value domain.Question) (domain.Question, error)
	SaveReply(ctx context.Context, value domain.Reply) (domain.Reply, error)
	SaveLike(ctx context.Context, value domain.Like) (domain.Like, error)
	SaveFollow(ctx context.Context, value domain.Follow) (domain.Follow, error)
}

// Result maps fixture labels to the ids the store assigned.
type Result struct {
	Users     map[string]int64
	Questions map[string]int64
	Replies   map[string]int64
	Likes     int
	Follows   int
}

func LoadYAML(path string) (*FixtureYAML, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return ParseYAML(data)
}

func ParseYAML(data []byte) (*FixtureYAML, error) {
	var fixture FixtureYAML
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := fixture.validate(); err != nil {
		return nil, err
	}
	return &fixture, nil
}

func (f *FixtureYAML) validate() error {
	seen := map[string]bool{}
	check := func(kind, label string) error {
		if label == "" {
			return fmt.Errorf("%s without label", kind)
		}
		key := kind + ":" + label
		if seen[key] {
			return fmt.Errorf("duplicate %s label %q", kind, label)
		}
		seen[key] = true
		return nil
	}
	for _, u := range f.Users {
		if err := check("user", u.Label); err != nil {
			return err
		}
	}
	for _, q := range f.Questions {
		if err := check("question", q.Label); err != nil {
			return err
		}
	}
	for _, r := range f.Replies {
		if err := check("reply", r.Label); err != nil {
			return err
		}
	}
	return nil
}

// Apply saves the fixture in dependency order: users, questions, replies
// (parents before children), then likes and follows.
func Apply(ctx context.Context, w Writer, f *FixtureYAML) (*Result, error) {
	res := &Result{
		Users:     make(map[string]int64, len(f.Users)),
		Questions: make(map[string]int64, len(f.Questions)),
		Replies:   make(map[string]int64, len(f.Replies)),
	}

	for _, u := range f.Users {
		saved, err := w.SaveUser(ctx, domain.User{FirstName: u.FName, LastName: u.LName})
		if err != nil {
			return nil, fmt.Errorf("user %q: %w", u.Label, err)
		}
		res.Users[u.Label] = saved.ID
	}

	for _, q := range f.Questions {
		authorID, err := lookup(res.Users, "user", q.Author)
		if err != nil {
			return nil, fmt.Errorf("question %q: %w", q.Label, err)
		}
		saved, err := w.SaveQuestion(ctx, domain.Question{Title: q.Title, Body: q.Body, AuthorID: authorID})
		if err != nil {
			return nil, fmt.Errorf("question %q: %w", q.Label, err)
		}
		res.Questions[q.Label] = saved.ID
	}

	if err := applyReplies(ctx, w, f.Replies, res); err != nil {
		return nil, err
	}

	for i, l := range f.Likes {
		userID, questionID, err := resolveEdge(res, l)
		if err != nil {
			return nil, fmt.Errorf("like %d: %w", i, err)
		}
		if _, err := w.SaveLike(ctx, domain.Like{UserID: userID, QuestionID: questionID}); err != nil {
			return nil, fmt.Errorf("like %d: %w", i, err)
		}
		res.Likes++
	}

	for i, fl := range f.Follows {
		userID, questionID, err := resolveEdge(res, fl)
		if err != nil {
			return nil, fmt.Errorf("follow %d: %w", i, err)
		}
		if _, err := w.SaveFollow(ctx, domain.Follow{UserID: userID, QuestionID: questionID}); err != nil {
			return nil, fmt.Errorf("follow %d: %w", i, err)
		}
		res.Follows++
	}

	return res, nil
}

// applyReplies saves replies whose parent is already saved, pass after pass,
// so fixture order does not matter. A parent must answer the same question.
// A pass that saves nothing means the remaining parents are cyclic.
func applyReplies(ctx context.Context, w Writer, replies []ReplyYAML, res *Result) error {
	questionOf := make(map[string]string, len(replies))
	for _, r := range replies {
		questionOf[r.Label] = r.Question
	}

	pending := replies
	for len(pending) > 0 {
		var deferred []ReplyYAML
		for _, r := range pending {
			if r.Parent != "" {
				parentQuestion, ok := questionOf[r.Parent]
				if !ok {
					return fmt.Errorf("reply %q: unknown reply %q", r.Label, r.Parent)
				}
				if parentQuestion != r.Question {
					return fmt.Errorf("reply %q: parent %q answers question %q, not %q", r.Label, r.Parent, parentQuestion, r.Question)
				}
			}
			var parentID *int64
			if r.Parent != "" {
				id, ok := res.Replies[r.Parent]
				if !ok {
					deferred = append(deferred, r)
					continue
				}
				parentID = &id
			}

			userID, err := lookup(res.Users, "user", r.Author)
			if err != nil {
				return fmt.Errorf("reply %q: %w", r.Label, err)
			}
			questionID, err := lookup(res.Questions, "question", r.Question)
			if err != nil {
				return fmt.Errorf("reply %q: %w", r.Label, err)
			}
			saved, err := w.SaveReply(ctx, domain.Reply{
				Body:          r.Body,
				UserID:        userID,
				QuestionID:    questionID,
				ParentReplyID: parentID,
			})
			if err != nil {
				return fmt.Errorf("reply %q: %w", r.Label, err)
			}
			res.Replies[r.Label] = saved.ID
		}
		if len(deferred) == len(pending) {
			return fmt.Errorf("reply %q: parent chain never reaches a root", deferred[0].Label)
		}
		pending = deferred
	}
	return nil
}

func resolveEdge(res *Result, e EdgeYAML) (int64, int64, error) {
	userID, err := lookup(res.Users, "user", e.User)
	if err != nil {
		return 0, 0, err
	}
	questionID, err := lookup(res.Questions, "question", e.Question)
	if err != nil {
		return 0, 0, err
	}
	return userID, questionID, nil
}

func lookup(ids map[string]int64, kind, label string) (int64, error) {
	id, ok := ids[label]
	if !ok {
		return 0, fmt.Errorf("unknown %s %q", kind, label)
	}
	return id, nil
}
