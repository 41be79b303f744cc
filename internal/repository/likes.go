package repository

import (
	"context"
	"fmt"

	"github.com/atvirokodosprendimai/qaforum/internal/domain"
)

const likeColumns = "id, user_id, question_id"

type LikeRepository struct {
	gw domain.Gateway
}

func NewLikeRepository(gw domain.Gateway) *LikeRepository {
	return &LikeRepository{gw: gw}
}

func (r *LikeRepository) FindAll(ctx context.Context) ([]domain.Like, error) {
	likes, err := queryAll(ctx, r.gw, projectLike, `SELECT `+likeColumns+` FROM question_likes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list likes: %w", err)
	}
	return likes, nil
}

func (r *LikeRepository) FindByID(ctx context.Context, id int64) (*domain.Like, error) {
	like, err := queryOne(ctx, r.gw, projectLike, `SELECT `+likeColumns+` FROM question_likes WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("find like %d: %w", id, err)
	}
	return like, nil
}

func (r *LikeRepository) FindByQuestionID(ctx context.Context, questionID int64) ([]domain.Like, error) {
	likes, err := queryAll(ctx, r.gw, projectLike,
		`SELECT `+likeColumns+` FROM question_likes WHERE question_id = ? ORDER BY id`, questionID)
	if err != nil {
		return nil, fmt.Errorf("find likes of question %d: %w", questionID, err)
	}
	return likes, nil
}

func (r *LikeRepository) FindByUserID(ctx context.Context, userID int64) ([]domain.Like, error) {
	likes, err := queryAll(ctx, r.gw, projectLike,
		`SELECT `+likeColumns+` FROM question_likes WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("find likes by user %d: %w", userID, err)
	}
	return likes, nil
}

func (r *LikeRepository) Save(ctx context.Context, value domain.Like) (domain.Like, error) {
	id, err := save(ctx, r.gw, "like", value.ID,
		`INSERT INTO question_likes (user_id, question_id) VALUES (?, ?) RETURNING id`,
		`UPDATE question_likes SET user_id = ?, question_id = ? WHERE id = ? RETURNING id`,
		value.UserID, value.QuestionID,
	)
	if err != nil {
		return domain.Like{}, err
	}
	value.ID = id
	return value, nil
}

// LikersForQuestionID lists one user per like, in like order.
func (r *LikeRepository) LikersForQuestionID(ctx context.Context, questionID int64) ([]domain.User, error) {
	users, err := queryAll(ctx, r.gw, projectUser, `
SELECT u.id AS id, u.fname AS fname, u.lname AS lname
FROM users u
JOIN question_likes ql ON ql.user_id = u.id
WHERE ql.question_id = ?
ORDER BY ql.id`, questionID)
	if err != nil {
		return nil, fmt.Errorf("find likers of question %d: %w", questionID, err)
	}
	return users, nil
}

// NumLikesForQuestionID counts likes whose user exists.
func (r *LikeRepository) NumLikesForQuestionID(ctx context.Context, questionID int64) (int64, error) {
	rows, err := r.gw.Execute(ctx, `
SELECT COUNT(*) AS likes
FROM users u
JOIN question_likes ql ON ql.user_id = u.id
WHERE ql.question_id = ?`, questionID)
	if err != nil {
		return 0, fmt.Errorf("count likes of question %d: %w", questionID, err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	reader := rowReader{row: rows[0]}
	n := reader.integer("likes")
	if reader.err != nil {
		return 0, fmt.Errorf("count likes of question %d: %w", questionID, reader.err)
	}
	return n, nil
}

func (r *LikeRepository) LikedQuestionsForUserID(ctx context.Context, userID int64) ([]domain.Question, error) {
	questions, err := queryAll(ctx, r.gw, projectQuestion, `
SELECT `+joinedQuestionColumns+`
FROM questions q
JOIN question_likes ql ON ql.question_id = q.id
WHERE ql.user_id = ?
ORDER BY ql.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("find questions liked by user %d: %w", userID, err)
	}
	return questions, nil
}

// MostLiked ranks questions by like count, ties by ascending id. Questions
// without likes never rank.
func (r *LikeRepository) MostLiked(ctx context.Context, n int) ([]domain.RankedQuestion, error) {
	if n <= 0 {
		return []domain.RankedQuestion{}, nil
	}
	ranked, err := queryAll(ctx, r.gw, projectRankedQuestion, `
SELECT `+joinedQuestionColumns+`, COUNT(ql.id) AS count
FROM questions q
JOIN question_likes ql ON ql.question_id = q.id
GROUP BY q.id
ORDER BY count DESC, q.id ASC
LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("rank most liked questions: %w", err)
	}
	return ranked, nil
}
