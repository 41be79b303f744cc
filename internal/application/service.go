package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/atvirokodosprendimai/qaforum/internal/domain"
)

const (
	defaultThreadDepth = 32
	maxThreadDepth     = 256
)

type ForumService struct {
	users     domain.UserRepository
	questions domain.QuestionRepository
	replies   domain.ReplyRepository
	likes     domain.LikeRepository
	follows   domain.FollowRepository
}

type Repositories struct {
	Users     domain.UserRepository
	Questions domain.QuestionRepository
	Replies   domain.ReplyRepository
	Likes     domain.LikeRepository
	Follows   domain.FollowRepository
}

func NewForumService(repos Repositories) *ForumService {
	return &ForumService{
		users:     repos.Users,
		questions: repos.Questions,
		replies:   repos.Replies,
		likes:     repos.Likes,
		follows:   repos.Follows,
	}
}

// Lookups

func (s *ForumService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.FindAll(ctx)
}

func (s *ForumService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *ForumService) FindUsersByName(ctx context.Context, firstName, lastName string) ([]domain.User, error) {
	if firstName == "" || lastName == "" {
		return nil, errors.New("first and last name are required")
	}
	return s.users.FindByName(ctx, firstName, lastName)
}

func (s *ForumService) ListQuestions(ctx context.Context) ([]domain.Question, error) {
	return s.questions.FindAll(ctx)
}

func (s *ForumService) GetQuestion(ctx context.Context, id int64) (*domain.Question, error) {
	return s.questions.FindByID(ctx, id)
}

func (s *ForumService) ListReplies(ctx context.Context) ([]domain.Reply, error) {
	return s.replies.FindAll(ctx)
}

func (s *ForumService) GetReply(ctx context.Context, id int64) (*domain.Reply, error) {
	return s.replies.FindByID(ctx, id)
}

func (s *ForumService) ListLikes(ctx context.Context) ([]domain.Like, error) {
	return s.likes.FindAll(ctx)
}

func (s *ForumService) ListFollows(ctx context.Context) ([]domain.Follow, error) {
	return s.follows.FindAll(ctx)
}

// Writes

func (s *ForumService) SaveUser(ctx context.Context, value domain.User) (domain.User, error) {
	if value.FirstName == "" || value.LastName == "" {
		return domain.User{}, errors.New("first and last name are required")
	}
	return s.users.Save(ctx, value)
}

func (s *ForumService) SaveQuestion(ctx context.Context, value domain.Question) (domain.Question, error) {
	if value.Title == "" {
		return domain.Question{}, errors.New("title is required")
	}
	return s.questions.Save(ctx, value)
}

func (s *ForumService) SaveReply(ctx context.Context, value domain.Reply) (domain.Reply, error) {
	if value.UserID == 0 || value.QuestionID == 0 {
		return domain.Reply{}, errors.New("user id and question id are required")
	}
	if value.ParentReplyID != nil && *value.ParentReplyID == value.ID && value.ID != 0 {
		return domain.Reply{}, errors.New("reply cannot be its own parent")
	}
	return s.replies.Save(ctx, value)
}

func (s *ForumService) SaveLike(ctx context.Context, value domain.Like) (domain.Like, error) {
	if value.UserID == 0 || value.QuestionID == 0 {
		return domain.Like{}, errors.New("user id and question id are required")
	}
	return s.likes.Save(ctx, value)
}

func (s *ForumService) SaveFollow(ctx context.Context, value domain.Follow) (domain.Follow, error) {
	if value.UserID == 0 || value.QuestionID == 0 {
		return domain.Follow{}, errors.New("user id and question id are required")
	}
	return s.follows.Save(ctx, value)
}

// Question navigation

func (s *ForumService) QuestionAuthor(ctx context.Context, q domain.Question) (*domain.User, error) {
	return s.users.FindByID(ctx, q.AuthorID)
}

func (s *ForumService) QuestionReplies(ctx context.Context, q domain.Question) ([]domain.Reply, error) {
	return s.replies.FindByQuestionID(ctx, q.ID)
}

func (s *ForumService) QuestionFollowers(ctx context.Context, q domain.Question) ([]domain.User, error) {
	return s.follows.FollowersForQuestionID(ctx, q.ID)
}

func (s *ForumService) QuestionLikers(ctx context.Context, q domain.Question) ([]domain.User, error) {
	return s.likes.LikersForQuestionID(ctx, q.ID)
}

func (s *ForumService) QuestionNumLikes(ctx context.Context, q domain.Question) (int64, error) {
	return s.likes.NumLikesForQuestionID(ctx, q.ID)
}

// User navigation

func (s *ForumService) AuthoredQuestions(ctx context.Context, u domain.User) ([]domain.Question, error) {
	return s.questions.FindByAuthorID(ctx, u.ID)
}

func (s *ForumService) AuthoredReplies(ctx context.Context, u domain.User) ([]domain.Reply, error) {
	return s.replies.FindByUserID(ctx, u.ID)
}

func (s *ForumService) FollowedQuestions(ctx context.Context, u domain.User) ([]domain.Question, error) {
	return s.follows.FollowedQuestionsForUserID(ctx, u.ID)
}

func (s *ForumService) LikedQuestions(ctx context.Context, u domain.User) ([]domain.Question, error) {
	return s.likes.LikedQuestionsForUserID(ctx, u.ID)
}

func (s *ForumService) AverageKarma(ctx context.Context, u domain.User) (float64, bool, error) {
	return s.users.AverageKarma(ctx, u.ID)
}

// Reply navigation

func (s *ForumService) ReplyAuthor(ctx context.Context, r domain.Reply) (*domain.User, error) {
	return s.users.FindByID(ctx, r.UserID)
}

func (s *ForumService) ReplyQuestion(ctx context.Context, r domain.Reply) (*domain.Question, error) {
	return s.questions.FindByID(ctx, r.QuestionID)
}

// ParentReply is nil without querying for a root reply.
func (s *ForumService) ParentReply(ctx context.Context, r domain.Reply) (*domain.Reply, error) {
	if r.ParentReplyID == nil {
		return nil, nil
	}
	return s.replies.FindByID(ctx, *r.ParentReplyID)
}

func (s *ForumService) ChildReplies(ctx context.Context, r domain.Reply) ([]domain.Reply, error) {
	return s.replies.FindByParentReplyID(ctx, r.ID)
}

// ReplyThread loads r and all its descendants up to maxDepth levels below it
// in one walk and nests them. It returns nil when r no longer exists.
func (s *ForumService) ReplyThread(ctx context.Context, r domain.Reply, maxDepth int) (*domain.ReplyTree, error) {
	if maxDepth <= 0 {
		maxDepth = defaultThreadDepth
	}
	if maxDepth > maxThreadDepth {
		maxDepth = maxThreadDepth
	}

	hops, err := s.replies.Subtree(ctx, r.ID, maxDepth)
	if err != nil {
		return nil, err
	}
	if len(hops) == 0 {
		return nil, nil
	}
	tree, err := buildReplyTree(hops)
	if err != nil {
		return nil, fmt.Errorf("thread for reply %d: %w", r.ID, err)
	}
	return tree, nil
}

// buildReplyTree nests walk results. hops[0] is the root and every later hop
// arrives after its parent.
func buildReplyTree(hops []domain.ThreadedReply) (*domain.ReplyTree, error) {
	children := make(map[int64][]domain.Reply, len(hops))
	for _, hop := range hops[1:] {
		if hop.ParentReplyID == nil {
			return nil, fmt.Errorf("reply %d at depth %d has no parent", hop.ID, hop.Depth)
		}
		parentID := *hop.ParentReplyID
		children[parentID] = append(children[parentID], hop.Reply)
	}

	var nest func(reply domain.Reply) domain.ReplyTree
	nest = func(reply domain.Reply) domain.ReplyTree {
		node := domain.ReplyTree{Reply: reply, Children: []domain.ReplyTree{}}
		for _, child := range children[reply.ID] {
			node.Children = append(node.Children, nest(child))
		}
		return node
	}

	tree := nest(hops[0].Reply)
	return &tree, nil
}

// Aggregates

// MostLiked returns the top n questions by likes; n <= 0 yields none.
func (s *ForumService) MostLiked(ctx context.Context, n int) ([]domain.RankedQuestion, error) {
	return s.likes.MostLiked(ctx, n)
}

func (s *ForumService) MostFollowed(ctx context.Context, n int) ([]domain.RankedQuestion, error) {
	return s.follows.MostFollowed(ctx, n)
}
