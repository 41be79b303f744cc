package repository

import (
	"context"
	"fmt"

	"github.com/atvirokodosprendimai/qaforum/internal/domain"
)

const questionColumns = "id, title, body, associated_author_id"

// joinedQuestionColumns selects question columns through the alias q.
const joinedQuestionColumns = "q.id AS id, q.title AS title, q.body AS body, q.associated_author_id AS associated_author_id"

type QuestionRepository struct {
	gw domain.Gateway
}

func NewQuestionRepository(gw domain.Gateway) *QuestionRepository {
	return &QuestionRepository{gw: gw}
}

func (r *QuestionRepository) FindAll(ctx context.Context) ([]domain.Question, error) {
	questions, err := queryAll(ctx, r.gw, projectQuestion, `SELECT `+questionColumns+` FROM questions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return questions, nil
}

func (r *QuestionRepository) FindByID(ctx context.Context, id int64) (*domain.Question, error) {
	question, err := queryOne(ctx, r.gw, projectQuestion, `SELECT `+questionColumns+` FROM questions WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("find question %d: %w", id, err)
	}
	return question, nil
}

func (r *QuestionRepository) FindByAuthorID(ctx context.Context, authorID int64) ([]domain.Question, error) {
	questions, err := queryAll(ctx, r.gw, projectQuestion,
		`SELECT `+questionColumns+` FROM questions WHERE associated_author_id = ? ORDER BY id`, authorID)
	if err != nil {
		return nil, fmt.Errorf("find questions by author %d: %w", authorID, err)
	}
	return questions, nil
}

func (r *QuestionRepository) Save(ctx context.Context, value domain.Question) (domain.Question, error) {
	id, err := save(ctx, r.gw, "question", value.ID,
		`INSERT INTO questions (title, body, associated_author_id) VALUES (?, ?, ?) RETURNING id`,
		`UPDATE questions SET title = ?, body = ?, associated_author_id = ? WHERE id = ? RETURNING id`,
		value.Title, value.Body, value.AuthorID,
	)
	if err != nil {
		return domain.Question{}, err
	}
	value.ID = id
	return value, nil
}
