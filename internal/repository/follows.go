package repository

import (
	"context"
	"fmt"

	"github.com/atvirokodosprendimai/qaforum/internal/domain"
)

const followColumns = "id, user_id, question_id"

type FollowRepository struct {
	gw domain.Gateway
}

func NewFollowRepository(gw domain.Gateway) *FollowRepository {
	return &FollowRepository{gw: gw}
}

func (r *FollowRepository) FindAll(ctx context.Context) ([]domain.Follow, error) {
	follows, err := queryAll(ctx, r.gw, projectFollow, `SELECT `+followColumns+` FROM question_follows ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list follows: %w", err)
	}
	return follows, nil
}

func (r *FollowRepository) FindByID(ctx context.Context, id int64) (*domain.Follow, error) {
	follow, err := queryOne(ctx, r.gw, projectFollow, `SELECT `+followColumns+` FROM question_follows WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("find follow %d: %w", id, err)
	}
	return follow, nil
}

func (r *FollowRepository) FindByQuestionID(ctx context.Context, questionID int64) ([]domain.Follow, error) {
	follows, err := queryAll(ctx, r.gw, projectFollow,
		`SELECT `+followColumns+` FROM question_follows WHERE question_id = ? ORDER BY id`, questionID)
	if err != nil {
		return nil, fmt.Errorf("find follows of question %d: %w", questionID, err)
	}
	return follows, nil
}

func (r *FollowRepository) FindByUserID(ctx context.Context, userID int64) ([]domain.Follow, error) {
	follows, err := queryAll(ctx, r.gw, projectFollow,
		`SELECT `+followColumns+` FROM question_follows WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("find follows by user %d: %w", userID, err)
	}
	return follows, nil
}

func (r *FollowRepository) Save(ctx context.Context, value domain.Follow) (domain.Follow, error) {
	id, err := save(ctx, r.gw, "follow", value.ID,
		`INSERT INTO question_follows (user_id, question_id) VALUES (?, ?) RETURNING id`,
		`UPDATE question_follows SET user_id = ?, question_id = ? WHERE id = ? RETURNING id`,
		value.UserID, value.QuestionID,
	)
	if err != nil {
		return domain.Follow{}, err
	}
	value.ID = id
	return value, nil
}

func (r *FollowRepository) FollowersForQuestionID(ctx context.Context, questionID int64) ([]domain.User, error) {
	users, err := queryAll(ctx, r.gw, projectUser, `
SELECT u.id AS id, u.fname AS fname, u.lname AS lname
FROM users u
JOIN question_follows qf ON qf.user_id = u.id
WHERE qf.question_id = ?
ORDER BY qf.id`, questionID)
	if err != nil {
		return nil, fmt.Errorf("find followers of question %d: %w", questionID, err)
	}
	return users, nil
}

func (r *FollowRepository) FollowedQuestionsForUserID(ctx context.Context, userID int64) ([]domain.Question, error) {
	questions, err := queryAll(ctx, r.gw, projectQuestion, `
SELECT `+joinedQuestionColumns+`
FROM questions q
JOIN question_follows qf ON qf.question_id = q.id
WHERE qf.user_id = ?
ORDER BY qf.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("find questions followed by user %d: %w", userID, err)
	}
	return questions, nil
}

func (r *FollowRepository) MostFollowed(ctx context.Context, n int) ([]domain.RankedQuestion, error) {
	if n <= 0 {
		return []domain.RankedQuestion{}, nil
	}
	ranked, err := queryAll(ctx, r.gw, projectRankedQuestion, `
SELECT `+joinedQuestionColumns+`, COUNT(qf.id) AS count
FROM questions q
JOIN question_follows qf ON qf.question_id = q.id
GROUP BY q.id
ORDER BY count DESC, q.id ASC
LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("rank most followed questions: %w", err)
	}
	return ranked, nil
}
