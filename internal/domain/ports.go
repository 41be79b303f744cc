package domain

import "context"

// Gateway executes parameterized SQL against the relational store. Queries use
// positional "?" placeholders bound to args; every returned row is fully
// materialized.
type Gateway interface {
	Execute(ctx context.Context, query string, args ...any) ([]Row, error)
}

// Row is one result row: column names in select order with their values.
type Row struct {
	Columns []string
	Values  []any
}

// Lookup returns the value of the first column with the given name.
func (r Row) Lookup(column string) (any, bool) {
	for i, name := range r.Columns {
		if name == column && i < len(r.Values) {
			return r.Values[i], true
		}
	}
	return nil, false
}

type UserRepository interface {
	FindAll(ctx context.Context) ([]User, error)
	FindByID(ctx context.Context, id int64) (*User, error)
	FindByName(ctx context.Context, firstName, lastName string) ([]User, error)
	Save(ctx context.Context, value User) (User, error)
	AverageKarma(ctx context.Context, userID int64) (float64, bool, error)
}

type QuestionRepository interface {
	FindAll(ctx context.Context) ([]Question, error)
	FindByID(ctx context.Context, id int64) (*Question, error)
	FindByAuthorID(ctx context.Context, authorID int64) ([]Question, error)
	Save(ctx context.Context, value Question) (Question, error)
}

type ReplyRepository interface {
	FindAll(ctx context.Context) ([]Reply, error)
	FindByID(ctx context.Context, id int64) (*Reply, error)
	FindByUserID(ctx context.Context, userID int64) ([]Reply, error)
	FindByQuestionID(ctx context.Context, questionID int64) ([]Reply, error)
	FindByParentReplyID(ctx context.Context, parentReplyID int64) ([]Reply, error)
	Subtree(ctx context.Context, rootID int64, maxDepth int) ([]ThreadedReply, error)
	Save(ctx context.Context, value Reply) (Reply, error)
}

type LikeRepository interface {
	FindAll(ctx context.Context) ([]Like, error)
	FindByID(ctx context.Context, id int64) (*Like, error)
	FindByQuestionID(ctx context.Context, questionID int64) ([]Like, error)
	FindByUserID(ctx context.Context, userID int64) ([]Like, error)
	Save(ctx context.Context, value Like) (Like, error)
	LikersForQuestionID(ctx context.Context, questionID int64) ([]User, error)
	NumLikesForQuestionID(ctx context.Context, questionID int64) (int64, error)
	LikedQuestionsForUserID(ctx context.Context, userID int64) ([]Question, error)
	MostLiked(ctx context.Context, n int) ([]RankedQuestion, error)
}

type FollowRepository interface {
	FindAll(ctx context.Context) ([]Follow, error)
	FindByID(ctx context.Context, id int64) (*Follow, error)
	FindByQuestionID(ctx context.Context, questionID int64) ([]Follow, error)
	FindByUserID(ctx context.Context, userID int64) ([]Follow, error)
	Save(ctx context.Context, value Follow) (Follow, error)
	FollowersForQuestionID(ctx context.Context, questionID int64) ([]User, error)
	FollowedQuestionsForUserID(ctx context.Context, userID int64) ([]Question, error)
	MostFollowed(ctx context.Context, n int) ([]RankedQuestion, error)
}
