package repository

import (
	"fmt"

	"github.com/atvirokodosprendimai/qaforum/internal/domain"
	"github.com/spf13/cast"
)

// rowReader projects one untyped row into typed fields. The first failure
// sticks; later reads return zero values so a projection can read every
// column and check err once.
type rowReader struct {
	row domain.Row
	err error
}

func (r *rowReader) value(column string) (any, bool) {
	if r.err != nil {
		return nil, false
	}
	v, ok := r.row.Lookup(column)
	if !ok {
		r.err = fmt.Errorf("%w: %s", domain.ErrMissingColumn, column)
		return nil, false
	}
	return v, true
}

func (r *rowReader) integer(column string) int64 {
	v, ok := r.value(column)
	if !ok || v == nil {
		return 0
	}
	n, err := cast.ToInt64E(v)
	if err != nil {
		r.err = fmt.Errorf("column %s: %w", column, err)
	}
	return n
}

func (r *rowReader) text(column string) string {
	v, ok := r.value(column)
	if !ok || v == nil {
		return ""
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		r.err = fmt.Errorf("column %s: %w", column, err)
	}
	return s
}

// optionalInteger reads a nullable column; absence and NULL both yield nil.
func (r *rowReader) optionalInteger(column string) *int64 {
	if r.err != nil {
		return nil
	}
	v, ok := r.row.Lookup(column)
	if !ok || v == nil {
		return nil
	}
	n, err := cast.ToInt64E(v)
	if err != nil {
		r.err = fmt.Errorf("column %s: %w", column, err)
		return nil
	}
	return &n
}

func (r *rowReader) real(column string) (float64, bool) {
	v, ok := r.value(column)
	if !ok || v == nil {
		return 0, false
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		r.err = fmt.Errorf("column %s: %w", column, err)
		return 0, false
	}
	return f, true
}

func projectUser(row domain.Row) (domain.User, error) {
	r := rowReader{row: row}
	u := domain.User{
		ID:        r.integer("id"),
		FirstName: r.text("fname"),
		LastName:  r.text("lname"),
	}
	return u, r.err
}

func projectQuestion(row domain.Row) (domain.Question, error) {
	r := rowReader{row: row}
	q := domain.Question{
		ID:       r.integer("id"),
		Title:    r.text("title"),
		Body:     r.text("body"),
		AuthorID: r.integer("associated_author_id"),
	}
	return q, r.err
}

func projectReply(row domain.Row) (domain.Reply, error) {
	r := rowReader{row: row}
	reply := domain.Reply{
		ID:            r.integer("id"),
		Body:          r.text("body"),
		UserID:        r.integer("user_id"),
		QuestionID:    r.integer("question_id"),
		ParentReplyID: r.optionalInteger("parent_reply_id"),
	}
	return reply, r.err
}

func projectLike(row domain.Row) (domain.Like, error) {
	r := rowReader{row: row}
	l := domain.Like{
		ID:         r.integer("id"),
		UserID:     r.integer("user_id"),
		QuestionID: r.integer("question_id"),
	}
	return l, r.err
}

func projectFollow(row domain.Row) (domain.Follow, error) {
	r := rowReader{row: row}
	f := domain.Follow{
		ID:         r.integer("id"),
		UserID:     r.integer("user_id"),
		QuestionID: r.integer("question_id"),
	}
	return f, r.err
}

func projectRankedQuestion(row domain.Row) (domain.RankedQuestion, error) {
	q, err := projectQuestion(row)
	if err != nil {
		return domain.RankedQuestion{}, err
	}
	r := rowReader{row: row}
	ranked := domain.RankedQuestion{Question: q, Count: r.integer("count")}
	return ranked, r.err
}

func projectThreadedReply(row domain.Row) (domain.ThreadedReply, error) {
	reply, err := projectReply(row)
	if err != nil {
		return domain.ThreadedReply{}, err
	}
	r := rowReader{row: row}
	threaded := domain.ThreadedReply{
		Reply: reply,
		Depth: int(r.integer("depth")),
		Path:  r.text("path"),
	}
	return threaded, r.err
}

func projectAll[T any](rows []domain.Row, project func(domain.Row) (T, error)) ([]T, error) {
	result := make([]T, 0, len(rows))
	for _, row := range rows {
		v, err := project(row)
		if err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	return result, nil
}

// projectFirst returns nil when rows is empty.
func projectFirst[T any](rows []domain.Row, project func(domain.Row) (T, error)) (*T, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	v, err := project(rows[0])
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// insertedID reads the id a RETURNING clause produced.
func insertedID(rows []domain.Row) (int64, error) {
	if len(rows) != 1 {
		return 0, fmt.Errorf("insert returned %d rows, expected 1", len(rows))
	}
	r := rowReader{row: rows[0]}
	id := r.integer("id")
	if r.err != nil {
		return 0, r.err
	}
	return id, nil
}

func nullableID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}
