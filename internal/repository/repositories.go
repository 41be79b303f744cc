// Package repository maps forum records to rows through a domain.Gateway.
// Every query is parameterized SQL; results are projected into domain types.
package repository

import (
	"context"
	"fmt"

	"github.com/atvirokodosprendimai/qaforum/internal/domain"
)

var (
	_ domain.UserRepository     = (*UserRepository)(nil)
	_ domain.QuestionRepository = (*QuestionRepository)(nil)
	_ domain.ReplyRepository    = (*ReplyRepository)(nil)
	_ domain.LikeRepository     = (*LikeRepository)(nil)
	_ domain.FollowRepository   = (*FollowRepository)(nil)
)

type Repositories struct {
	Users     *UserRepository
	Questions *QuestionRepository
	Replies   *ReplyRepository
	Likes     *LikeRepository
	Follows   *FollowRepository
}

func NewRepositories(gw domain.Gateway) *Repositories {
	return &Repositories{
		Users:     NewUserRepository(gw),
		Questions: NewQuestionRepository(gw),
		Replies:   NewReplyRepository(gw),
		Likes:     NewLikeRepository(gw),
		Follows:   NewFollowRepository(gw),
	}
}

// save runs insertSQL for a draft (id 0) and updateSQL otherwise. Both must
// end in RETURNING id; updateSQL takes the id as its last parameter. An update
// that returns no row means the id does not exist.
func save(ctx context.Context, gw domain.Gateway, entity string, id int64, insertSQL, updateSQL string, args ...any) (int64, error) {
	if id == 0 {
		rows, err := gw.Execute(ctx, insertSQL, args...)
		if err != nil {
			return 0, fmt.Errorf("insert %s: %w", entity, err)
		}
		newID, err := insertedID(rows)
		if err != nil {
			return 0, fmt.Errorf("insert %s: %w", entity, err)
		}
		return newID, nil
	}

	rows, err := gw.Execute(ctx, updateSQL, append(args, id)...)
	if err != nil {
		return 0, fmt.Errorf("update %s %d: %w", entity, id, err)
	}
	if len(rows) == 0 {
		return 0, fmt.Errorf("update %s %d: %w", entity, id, domain.ErrNotFound)
	}
	return id, nil
}

func queryAll[T any](ctx context.Context, gw domain.Gateway, project func(domain.Row) (T, error), query string, args ...any) ([]T, error) {
	rows, err := gw.Execute(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return projectAll(rows, project)
}

func queryOne[T any](ctx context.Context, gw domain.Gateway, project func(domain.Row) (T, error), query string, args ...any) (*T, error) {
	rows, err := gw.Execute(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return projectFirst(rows, project)
}
