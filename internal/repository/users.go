package repository

import (
	"context"
	"fmt"

	"github.com/atvirokodosprendimai/qaforum/internal/domain"
)

const userColumns = "id, fname, lname"

type UserRepository struct {
	gw domain.Gateway
}

func NewUserRepository(gw domain.Gateway) *UserRepository {
	return &UserRepository{gw: gw}
}

func (r *UserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	users, err := queryAll(ctx, r.gw, projectUser, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := queryOne(ctx, r.gw, projectUser, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("find user %d: %w", id, err)
	}
	return user, nil
}

func (r *UserRepository) FindByName(ctx context.Context, firstName, lastName string) ([]domain.User, error) {
	users, err := queryAll(ctx, r.gw, projectUser,
		`SELECT `+userColumns+` FROM users WHERE fname = ? AND lname = ? ORDER BY id`,
		firstName, lastName,
	)
	if err != nil {
		return nil, fmt.Errorf("find users named %s %s: %w", firstName, lastName, err)
	}
	return users, nil
}

func (r *UserRepository) Save(ctx context.Context, value domain.User) (domain.User, error) {
	id, err := save(ctx, r.gw, "user", value.ID,
		`INSERT INTO users (fname, lname) VALUES (?, ?) RETURNING id`,
		`UPDATE users SET fname = ?, lname = ? WHERE id = ? RETURNING id`,
		value.FirstName, value.LastName,
	)
	if err != nil {
		return domain.User{}, err
	}
	value.ID = id
	return value, nil
}

// AverageKarma is likes received per distinct authored question. ok is false
// when the user authored no questions.
func (r *UserRepository) AverageKarma(ctx context.Context, userID int64) (float64, bool, error) {
	rows, err := r.gw.Execute(ctx, `
SELECT CAST(COUNT(ql.id) AS REAL) / NULLIF(COUNT(DISTINCT q.id), 0) AS karma
FROM questions q
LEFT JOIN question_likes ql ON ql.question_id = q.id
WHERE q.associated_author_id = ?`, userID)
	if err != nil {
		return 0, false, fmt.Errorf("average karma for user %d: %w", userID, err)
	}
	if len(rows) == 0 {
		return 0, false, nil
	}
	reader := rowReader{row: rows[0]}
	karma, ok := reader.real("karma")
	if reader.err != nil {
		return 0, false, fmt.Errorf("average karma for user %d: %w", userID, reader.err)
	}
	return karma, ok, nil
}
