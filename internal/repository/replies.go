package repository

import (
	"context"
	"fmt"

	"github.com/atvirokodosprendimai/qaforum/internal/domain"
)

const replyColumns = "id, body, user_id, question_id, parent_reply_id"

type ReplyRepository struct {
	gw domain.Gateway
}

func NewReplyRepository(gw domain.Gateway) *ReplyRepository {
	return &ReplyRepository{gw: gw}
}

func (r *ReplyRepository) FindAll(ctx context.Context) ([]domain.Reply, error) {
	replies, err := queryAll(ctx, r.gw, projectReply, `SELECT `+replyColumns+` FROM replies ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list replies: %w", err)
	}
	return replies, nil
}

func (r *ReplyRepository) FindByID(ctx context.Context, id int64) (*domain.Reply, error) {
	reply, err := queryOne(ctx, r.gw, projectReply, `SELECT `+replyColumns+` FROM replies WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("find reply %d: %w", id, err)
	}
	return reply, nil
}

func (r *ReplyRepository) FindByUserID(ctx context.Context, userID int64) ([]domain.Reply, error) {
	replies, err := queryAll(ctx, r.gw, projectReply,
		`SELECT `+replyColumns+` FROM replies WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("find replies by user %d: %w", userID, err)
	}
	return replies, nil
}

func (r *ReplyRepository) FindByQuestionID(ctx context.Context, questionID int64) ([]domain.Reply, error) {
	replies, err := queryAll(ctx, r.gw, projectReply,
		`SELECT `+replyColumns+` FROM replies WHERE question_id = ? ORDER BY id`, questionID)
	if err != nil {
		return nil, fmt.Errorf("find replies to question %d: %w", questionID, err)
	}
	return replies, nil
}

// FindByParentReplyID returns direct children only.
func (r *ReplyRepository) FindByParentReplyID(ctx context.Context, parentReplyID int64) ([]domain.Reply, error) {
	replies, err := queryAll(ctx, r.gw, projectReply,
		`SELECT `+replyColumns+` FROM replies WHERE parent_reply_id = ? ORDER BY id`, parentReplyID)
	if err != nil {
		return nil, fmt.Errorf("find children of reply %d: %w", parentReplyID, err)
	}
	return replies, nil
}

// Subtree walks descendants of rootID breadth first, root included at depth
// 0, stopping at maxDepth. A reply already on the current path is not
// revisited, so corrupt parent cycles terminate.
func (r *ReplyRepository) Subtree(ctx context.Context, rootID int64, maxDepth int) ([]domain.ThreadedReply, error) {
	if maxDepth < 0 {
		maxDepth = 0
	}

	sqlQuery := `
WITH RECURSIVE walk(id, body, user_id, question_id, parent_reply_id, depth, path) AS (
    SELECT
        id, body, user_id, question_id, parent_reply_id,
        0 AS depth,
        ',' || CAST(id AS TEXT) || ',' AS path
    FROM replies
    WHERE id = ?
    UNION ALL
    SELECT
        child.id, child.body, child.user_id, child.question_id, child.parent_reply_id,
        walk.depth + 1,
        walk.path || CAST(child.id AS TEXT) || ',' AS path
    FROM walk
    JOIN replies child ON child.parent_reply_id = walk.id
    WHERE walk.depth < ?
      AND instr(walk.path, ',' || CAST(child.id AS TEXT) || ',') = 0
)
SELECT id, body, user_id, question_id, parent_reply_id, depth, trim(path, ',') AS path
FROM walk
ORDER BY depth, id`

	threaded, err := queryAll(ctx, r.gw, projectThreadedReply, sqlQuery, rootID, maxDepth)
	if err != nil {
		return nil, fmt.Errorf("walk replies under %d: %w", rootID, err)
	}
	return threaded, nil
}

func (r *ReplyRepository) Save(ctx context.Context, value domain.Reply) (domain.Reply, error) {
	id, err := save(ctx, r.gw, "reply", value.ID,
		`INSERT INTO replies (body, user_id, question_id, parent_reply_id) VALUES (?, ?, ?, ?) RETURNING id`,
		`UPDATE replies SET body = ?, user_id = ?, question_id = ?, parent_reply_id = ? WHERE id = ? RETURNING id`,
		value.Body, value.UserID, value.QuestionID, nullableID(value.ParentReplyID),
	)
	if err != nil {
		return domain.Reply{}, err
	}
	value.ID = id
	return value, nil
}
