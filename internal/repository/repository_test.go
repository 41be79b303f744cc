package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/atvirokodosprendimai/qaforum/internal/adapters/db/sqlite"
	"github.com/atvirokodosprendimai/qaforum/internal/domain"
	"github.com/rs/zerolog"
)

func newTestRepositories(t *testing.T) *Repositories {
	t.Helper()
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "qaforum_test.db")

	db, err := sqlite.Open(dbPath, sqlite.Options{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlite.Close(db)
	})
	if err := sqlite.RunMigrations(ctx, db, zerolog.Nop()); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return NewRepositories(sqlite.NewGateway(db))
}

func mustSaveUser(t *testing.T, repos *Repositories, first, last string) domain.User {
	t.Helper()
	u, err := repos.Users.Save(context.Background(), domain.User{FirstName: first, LastName: last})
	if err != nil {
		t.Fatalf("save user %s %s: %v", first, last, err)
	}
	return u
}

func mustSaveQuestion(t *testing.T, repos *Repositories, title string, authorID int64) domain.Question {
	t.Helper()
	q, err := repos.Questions.Save(context.Background(), domain.Question{Title: title, Body: title + "?", AuthorID: authorID})
	if err != nil {
		t.Fatalf("save question %q: %v", title, err)
	}
	return q
}

func mustSaveReply(t *testing.T, repos *Repositories, body string, userID, questionID int64, parentID *int64) domain.Reply {
	t.Helper()
	r, err := repos.Replies.Save(context.Background(), domain.Reply{Body: body, UserID: userID, QuestionID: questionID, ParentReplyID: parentID})
	if err != nil {
		t.Fatalf("save reply %q: %v", body, err)
	}
	return r
}

func mustLike(t *testing.T, repos *Repositories, userID, questionID int64) domain.Like {
	t.Helper()
	l, err := repos.Likes.Save(context.Background(), domain.Like{UserID: userID, QuestionID: questionID})
	if err != nil {
		t.Fatalf("save like: %v", err)
	}
	return l
}

func mustFollow(t *testing.T, repos *Repositories, userID, questionID int64) domain.Follow {
	t.Helper()
	f, err := repos.Follows.Save(context.Background(), domain.Follow{UserID: userID, QuestionID: questionID})
	if err != nil {
		t.Fatalf("save follow: %v", err)
	}
	return f
}

func TestUserSaveInsertsThenUpdates(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepositories(t)

	ada := mustSaveUser(t, repos, "Ada", "Lovelace")
	if ada.ID == 0 {
		t.Fatalf("expected assigned id")
	}

	got, err := repos.Users.FindByID(ctx, ada.ID)
	if err != nil {
		t.Fatalf("find user: %v", err)
	}
	if got == nil || *got != ada {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, ada)
	}

	ada.LastName = "King"
	updated, err := repos.Users.Save(ctx, ada)
	if err != nil {
		t.Fatalf("update user: %v", err)
	}
	if updated.ID != ada.ID {
		t.Fatalf("update changed id: %d -> %d", ada.ID, updated.ID)
	}

	got, err = repos.Users.FindByID(ctx, ada.ID)
	if err != nil {
		t.Fatalf("find user after update: %v", err)
	}
	if got == nil || got.LastName != "King" || got.FirstName != "Ada" {
		t.Fatalf("unexpected user after update: %+v", got)
	}

	all, err := repos.Users.FindAll(ctx)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("update must not insert, got %d users", len(all))
	}
}

func TestSaveUnknownIDReturnsNotFound(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepositories(t)

	_, err := repos.Users.Save(ctx, domain.User{ID: 404, FirstName: "No", LastName: "One"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	all, err := repos.Users.FindAll(ctx)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("failed update must not write, got %+v", all)
	}

	_, err = repos.Likes.Save(ctx, domain.Like{ID: 9, UserID: 1, QuestionID: 1})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for like, got %v", err)
	}
}

func TestFindByIDAbsence(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepositories(t)

	if u, err := repos.Users.FindByID(ctx, 404); err != nil || u != nil {
		t.Fatalf("user: got %+v, %v", u, err)
	}
	if q, err := repos.Questions.FindByID(ctx, 404); err != nil || q != nil {
		t.Fatalf("question: got %+v, %v", q, err)
	}
	if r, err := repos.Replies.FindByID(ctx, 404); err != nil || r != nil {
		t.Fatalf("reply: got %+v, %v", r, err)
	}
	if l, err := repos.Likes.FindByID(ctx, 404); err != nil || l != nil {
		t.Fatalf("like: got %+v, %v", l, err)
	}
	if f, err := repos.Follows.FindByID(ctx, 404); err != nil || f != nil {
		t.Fatalf("follow: got %+v, %v", f, err)
	}
}

func TestFindAllOnEmptyTables(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepositories(t)

	users, err := repos.Users.FindAll(ctx)
	if err != nil || users == nil || len(users) != 0 {
		t.Fatalf("users: %#v, %v", users, err)
	}
	questions, err := repos.Questions.FindAll(ctx)
	if err != nil || questions == nil || len(questions) != 0 {
		t.Fatalf("questions: %#v, %v", questions, err)
	}
	replies, err := repos.Replies.FindAll(ctx)
	if err != nil || replies == nil || len(replies) != 0 {
		t.Fatalf("replies: %#v, %v", replies, err)
	}
	likes, err := repos.Likes.FindAll(ctx)
	if err != nil || likes == nil || len(likes) != 0 {
		t.Fatalf("likes: %#v, %v", likes, err)
	}
	follows, err := repos.Follows.FindAll(ctx)
	if err != nil || follows == nil || len(follows) != 0 {
		t.Fatalf("follows: %#v, %v", follows, err)
	}
}

func TestFindByNameMatchesBothParts(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepositories(t)

	first := mustSaveUser(t, repos, "Grace", "Hopper")
	mustSaveUser(t, repos, "Grace", "Kelly")
	second := mustSaveUser(t, repos, "Grace", "Hopper")

	users, err := repos.Users.FindByName(ctx, "Grace", "Hopper")
	if err != nil {
		t.Fatalf("find by name: %v", err)
	}
	if len(users) != 2 || users[0].ID != first.ID || users[1].ID != second.ID {
		t.Fatalf("unexpected matches: %+v", users)
	}

	none, err := repos.Users.FindByName(ctx, "Alan", "Turing")
	if err != nil || len(none) != 0 {
		t.Fatalf("expected no matches, got %+v, %v", none, err)
	}
}

func TestQuestionRoundTripAndAuthorLookup(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepositories(t)

	ada := mustSaveUser(t, repos, "Ada", "Lovelace")
	bob := mustSaveUser(t, repos, "Bob", "Builder")
	q1 := mustSaveQuestion(t, repos, "Engines", ada.ID)
	mustSaveQuestion(t, repos, "Bricks", bob.ID)
	q3 := mustSaveQuestion(t, repos, "Looms", ada.ID)

	got, err := repos.Questions.FindByID(ctx, q1.ID)
	if err != nil || got == nil || *got != q1 {
		t.Fatalf("round trip: got %+v, %v", got, err)
	}

	q1.Body = "How do analytical engines work?"
	if _, err := repos.Questions.Save(ctx, q1); err != nil {
		t.Fatalf("update question: %v", err)
	}
	got, _ = repos.Questions.FindByID(ctx, q1.ID)
	if got == nil || got.Body != q1.Body {
		t.Fatalf("update not persisted: %+v", got)
	}

	authored, err := repos.Questions.FindByAuthorID(ctx, ada.ID)
	if err != nil {
		t.Fatalf("find by author: %v", err)
	}
	if len(authored) != 2 || authored[0].ID != q1.ID || authored[1].ID != q3.ID {
		t.Fatalf("unexpected authored questions: %+v", authored)
	}
}

func TestReplyRoundTripKeepsNullableParent(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepositories(t)

	ada := mustSaveUser(t, repos, "Ada", "Lovelace")
	q := mustSaveQuestion(t, repos, "Engines", ada.ID)
	root := mustSaveReply(t, repos, "root", ada.ID, q.ID, nil)
	child := mustSaveReply(t, repos, "child", ada.ID, q.ID, &root.ID)

	gotRoot, err := repos.Replies.FindByID(ctx, root.ID)
	if err != nil || gotRoot == nil {
		t.Fatalf("find root: %+v, %v", gotRoot, err)
	}
	if !gotRoot.IsRoot() {
		t.Fatalf("root reply lost its nil parent: %+v", gotRoot)
	}

	gotChild, err := repos.Replies.FindByID(ctx, child.ID)
	if err != nil || gotChild == nil {
		t.Fatalf("find child: %+v, %v", gotChild, err)
	}
	if gotChild.ParentReplyID == nil || *gotChild.ParentReplyID != root.ID {
		t.Fatalf("child parent mismatch: %+v", gotChild)
	}

	gotChild.ParentReplyID = nil
	gotChild.Body = "promoted"
	if _, err := repos.Replies.Save(ctx, *gotChild); err != nil {
		t.Fatalf("update reply: %v", err)
	}
	promoted, _ := repos.Replies.FindByID(ctx, child.ID)
	if promoted == nil || !promoted.IsRoot() || promoted.Body != "promoted" {
		t.Fatalf("update to root not persisted: %+v", promoted)
	}
}

func TestReplyFinders(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepositories(t)

	ada := mustSaveUser(t, repos, "Ada", "Lovelace")
	bob := mustSaveUser(t, repos, "Bob", "Builder")
	q1 := mustSaveQuestion(t, repos, "Engines", ada.ID)
	q2 := mustSaveQuestion(t, repos, "Bricks", bob.ID)

	root := mustSaveReply(t, repos, "root", bob.ID, q1.ID, nil)
	leaf := mustSaveReply(t, repos, "leaf", ada.ID, q1.ID, &root.ID)
	mustSaveReply(t, repos, "other", bob.ID, q2.ID, nil)

	byQuestion, err := repos.Replies.FindByQuestionID(ctx, q1.ID)
	if err != nil || len(byQuestion) != 2 {
		t.Fatalf("by question: %+v, %v", byQuestion, err)
	}
	byUser, err := repos.Replies.FindByUserID(ctx, bob.ID)
	if err != nil || len(byUser) != 2 {
		t.Fatalf("by user: %+v, %v", byUser, err)
	}

	children, err := repos.Replies.FindByParentReplyID(ctx, root.ID)
	if err != nil {
		t.Fatalf("children of root: %v", err)
	}
	if len(children) != 1 || children[0].ID != leaf.ID {
		t.Fatalf("unexpected children of root: %+v", children)
	}
	leafChildren, err := repos.Replies.FindByParentReplyID(ctx, leaf.ID)
	if err != nil || len(leafChildren) != 0 {
		t.Fatalf("leaf must have no children: %+v, %v", leafChildren, err)
	}
}

func TestSubtreeHonorsDepthAndAvoidsCycles(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepositories(t)

	ada := mustSaveUser(t, repos, "Ada", "Lovelace")
	q := mustSaveQuestion(t, repos, "Engines", ada.ID)
	root := mustSaveReply(t, repos, "root", ada.ID, q.ID, nil)
	a := mustSaveReply(t, repos, "a", ada.ID, q.ID, &root.ID)
	b := mustSaveReply(t, repos, "b", ada.ID, q.ID, &root.ID)
	aa := mustSaveReply(t, repos, "aa", ada.ID, q.ID, &a.ID)

	full, err := repos.Replies.Subtree(ctx, root.ID, 32)
	if err != nil {
		t.Fatalf("subtree: %v", err)
	}
	if len(full) != 4 {
		t.Fatalf("expected 4 replies, got %+v", full)
	}
	if full[0].ID != root.ID || full[0].Depth != 0 {
		t.Fatalf("walk must start at root: %+v", full[0])
	}
	if full[1].ID != a.ID || full[2].ID != b.ID || full[3].ID != aa.ID {
		t.Fatalf("unexpected walk order: %+v", full)
	}
	if full[3].Depth != 2 {
		t.Fatalf("grandchild depth = %d", full[3].Depth)
	}

	shallow, err := repos.Replies.Subtree(ctx, root.ID, 1)
	if err != nil {
		t.Fatalf("subtree depth 1: %v", err)
	}
	if len(shallow) != 3 {
		t.Fatalf("expected root and children only, got %+v", shallow)
	}
	for _, hop := range shallow {
		if hop.Depth > 1 {
			t.Fatalf("hop beyond depth limit: %+v", hop)
		}
	}

	// Corrupt the tree so root's parent is its own grandchild.
	root.ParentReplyID = &aa.ID
	if _, err := repos.Replies.Save(ctx, root); err != nil {
		t.Fatalf("introduce cycle: %v", err)
	}
	cyclic, err := repos.Replies.Subtree(ctx, root.ID, 32)
	if err != nil {
		t.Fatalf("subtree with cycle: %v", err)
	}
	if len(cyclic) != 4 {
		t.Fatalf("cycle must not revisit replies, got %d hops", len(cyclic))
	}

	missing, err := repos.Replies.Subtree(ctx, 404, 32)
	if err != nil || len(missing) != 0 {
		t.Fatalf("unknown root: %+v, %v", missing, err)
	}
}

func TestLikeNavigation(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepositories(t)

	ada := mustSaveUser(t, repos, "Ada", "Lovelace")
	bob := mustSaveUser(t, repos, "Bob", "Builder")
	q1 := mustSaveQuestion(t, repos, "Engines", ada.ID)
	q2 := mustSaveQuestion(t, repos, "Bricks", ada.ID)

	mustLike(t, repos, bob.ID, q1.ID)
	mustLike(t, repos, ada.ID, q1.ID)
	mustLike(t, repos, bob.ID, q2.ID)

	likers, err := repos.Likes.LikersForQuestionID(ctx, q1.ID)
	if err != nil {
		t.Fatalf("likers: %v", err)
	}
	if len(likers) != 2 || likers[0].ID != bob.ID || likers[1].ID != ada.ID {
		t.Fatalf("unexpected likers: %+v", likers)
	}

	n, err := repos.Likes.NumLikesForQuestionID(ctx, q1.ID)
	if err != nil || n != 2 {
		t.Fatalf("num likes = %d, %v", n, err)
	}

	liked, err := repos.Likes.LikedQuestionsForUserID(ctx, bob.ID)
	if err != nil {
		t.Fatalf("liked questions: %v", err)
	}
	if len(liked) != 2 || liked[0] != q1 || liked[1] != q2 {
		t.Fatalf("unexpected liked questions: %+v", liked)
	}

	byUser, err := repos.Likes.FindByUserID(ctx, bob.ID)
	if err != nil || len(byUser) != 2 {
		t.Fatalf("likes by user: %+v, %v", byUser, err)
	}
	byQuestion, err := repos.Likes.FindByQuestionID(ctx, q2.ID)
	if err != nil || len(byQuestion) != 1 || byQuestion[0].UserID != bob.ID {
		t.Fatalf("likes by question: %+v, %v", byQuestion, err)
	}
}

func TestNumLikesIgnoresDanglingUsers(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepositories(t)

	ada := mustSaveUser(t, repos, "Ada", "Lovelace")
	q := mustSaveQuestion(t, repos, "Engines", ada.ID)
	mustLike(t, repos, ada.ID, q.ID)
	mustLike(t, repos, 999, q.ID)

	n, err := repos.Likes.NumLikesForQuestionID(ctx, q.ID)
	if err != nil || n != 1 {
		t.Fatalf("num likes = %d, %v", n, err)
	}
	likers, err := repos.Likes.LikersForQuestionID(ctx, q.ID)
	if err != nil || len(likers) != 1 {
		t.Fatalf("likers = %+v, %v", likers, err)
	}
}

func TestFollowNavigation(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepositories(t)

	ada := mustSaveUser(t, repos, "Ada", "Lovelace")
	bob := mustSaveUser(t, repos, "Bob", "Builder")
	q1 := mustSaveQuestion(t, repos, "Engines", ada.ID)
	q2 := mustSaveQuestion(t, repos, "Bricks", ada.ID)

	followers, err := repos.Follows.FollowersForQuestionID(ctx, q1.ID)
	if err != nil || followers == nil || len(followers) != 0 {
		t.Fatalf("expected empty followers, got %#v, %v", followers, err)
	}

	mustFollow(t, repos, bob.ID, q1.ID)
	mustFollow(t, repos, bob.ID, q2.ID)

	followers, err = repos.Follows.FollowersForQuestionID(ctx, q1.ID)
	if err != nil || len(followers) != 1 || followers[0] != bob {
		t.Fatalf("followers: %+v, %v", followers, err)
	}
	followed, err := repos.Follows.FollowedQuestionsForUserID(ctx, bob.ID)
	if err != nil || len(followed) != 2 || followed[0] != q1 || followed[1] != q2 {
		t.Fatalf("followed: %+v, %v", followed, err)
	}
	byQuestion, err := repos.Follows.FindByQuestionID(ctx, q1.ID)
	if err != nil || len(byQuestion) != 1 {
		t.Fatalf("follows by question: %+v, %v", byQuestion, err)
	}
	byUser, err := repos.Follows.FindByUserID(ctx, ada.ID)
	if err != nil || len(byUser) != 0 {
		t.Fatalf("follows by user: %+v, %v", byUser, err)
	}
}

func TestLikeAndFollowUpdate(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepositories(t)

	ada := mustSaveUser(t, repos, "Ada", "Lovelace")
	q1 := mustSaveQuestion(t, repos, "Engines", ada.ID)
	q2 := mustSaveQuestion(t, repos, "Bricks", ada.ID)

	like := mustLike(t, repos, ada.ID, q1.ID)
	like.QuestionID = q2.ID
	if _, err := repos.Likes.Save(ctx, like); err != nil {
		t.Fatalf("update like: %v", err)
	}
	gotLike, err := repos.Likes.FindByID(ctx, like.ID)
	if err != nil || gotLike == nil || *gotLike != like {
		t.Fatalf("like round trip: %+v, %v", gotLike, err)
	}

	follow := mustFollow(t, repos, ada.ID, q1.ID)
	follow.QuestionID = q2.ID
	if _, err := repos.Follows.Save(ctx, follow); err != nil {
		t.Fatalf("update follow: %v", err)
	}
	gotFollow, err := repos.Follows.FindByID(ctx, follow.ID)
	if err != nil || gotFollow == nil || *gotFollow != follow {
		t.Fatalf("follow round trip: %+v, %v", gotFollow, err)
	}
}

func sameReply(a, b domain.Reply) bool {
	if a.ID != b.ID || a.Body != b.Body || a.UserID != b.UserID || a.QuestionID != b.QuestionID {
		return false
	}
	if a.ParentReplyID == nil || b.ParentReplyID == nil {
		return a.ParentReplyID == nil && b.ParentReplyID == nil
	}
	return *a.ParentReplyID == *b.ParentReplyID
}

// Each case saves a target and a bystander, rewrites every mutable column of
// the target and checks that only the target changed.
func TestUpdateLeavesOtherRowsUntouched(t *testing.T) {
	tests := []struct {
		name string
		run  func(t *testing.T, repos *Repositories, ada, bob domain.User, q1, q2 domain.Question)
	}{
		{
			name: "user",
			run: func(t *testing.T, repos *Repositories, ada, bob domain.User, _, _ domain.Question) {
				ctx := context.Background()
				updated := ada
				updated.FirstName, updated.LastName = "Augusta", "King"
				if _, err := repos.Users.Save(ctx, updated); err != nil {
					t.Fatalf("update user: %v", err)
				}
				got, err := repos.Users.FindByID(ctx, ada.ID)
				if err != nil || got == nil || *got != updated {
					t.Fatalf("target = %+v, %v; want %+v", got, err, updated)
				}
				other, err := repos.Users.FindByID(ctx, bob.ID)
				if err != nil || other == nil || *other != bob {
					t.Fatalf("bystander = %+v, %v; want %+v", other, err, bob)
				}
			},
		},
		{
			name: "question",
			run: func(t *testing.T, repos *Repositories, _, bob domain.User, q1, q2 domain.Question) {
				ctx := context.Background()
				updated := domain.Question{ID: q1.ID, Title: "Looms", Body: "Jacquard?", AuthorID: bob.ID}
				if _, err := repos.Questions.Save(ctx, updated); err != nil {
					t.Fatalf("update question: %v", err)
				}
				got, err := repos.Questions.FindByID(ctx, q1.ID)
				if err != nil || got == nil || *got != updated {
					t.Fatalf("target = %+v, %v; want %+v", got, err, updated)
				}
				other, err := repos.Questions.FindByID(ctx, q2.ID)
				if err != nil || other == nil || *other != q2 {
					t.Fatalf("bystander = %+v, %v; want %+v", other, err, q2)
				}
			},
		},
		{
			name: "reply gains parent",
			run: func(t *testing.T, repos *Repositories, ada, bob domain.User, q1, q2 domain.Question) {
				ctx := context.Background()
				target := mustSaveReply(t, repos, "first", ada.ID, q1.ID, nil)
				bystander := mustSaveReply(t, repos, "second", bob.ID, q2.ID, nil)

				parentID := bystander.ID
				updated := domain.Reply{ID: target.ID, Body: "moved", UserID: bob.ID, QuestionID: q2.ID, ParentReplyID: &parentID}
				if _, err := repos.Replies.Save(ctx, updated); err != nil {
					t.Fatalf("update reply: %v", err)
				}
				got, err := repos.Replies.FindByID(ctx, target.ID)
				if err != nil || got == nil || !sameReply(*got, updated) {
					t.Fatalf("target = %+v, %v; want %+v", got, err, updated)
				}
				other, err := repos.Replies.FindByID(ctx, bystander.ID)
				if err != nil || other == nil || !sameReply(*other, bystander) {
					t.Fatalf("bystander = %+v, %v; want %+v", other, err, bystander)
				}
			},
		},
		{
			name: "reply drops parent",
			run: func(t *testing.T, repos *Repositories, ada, bob domain.User, q1, q2 domain.Question) {
				ctx := context.Background()
				root := mustSaveReply(t, repos, "root", ada.ID, q1.ID, nil)
				target := mustSaveReply(t, repos, "child", ada.ID, q1.ID, &root.ID)

				updated := domain.Reply{ID: target.ID, Body: "standalone", UserID: bob.ID, QuestionID: q2.ID}
				if _, err := repos.Replies.Save(ctx, updated); err != nil {
					t.Fatalf("update reply: %v", err)
				}
				got, err := repos.Replies.FindByID(ctx, target.ID)
				if err != nil || got == nil || !sameReply(*got, updated) {
					t.Fatalf("target = %+v, %v; want %+v", got, err, updated)
				}
				other, err := repos.Replies.FindByID(ctx, root.ID)
				if err != nil || other == nil || !sameReply(*other, root) {
					t.Fatalf("bystander = %+v, %v; want %+v", other, err, root)
				}
			},
		},
		{
			name: "like",
			run: func(t *testing.T, repos *Repositories, ada, bob domain.User, q1, q2 domain.Question) {
				ctx := context.Background()
				target := mustLike(t, repos, ada.ID, q1.ID)
				bystander := mustLike(t, repos, ada.ID, q2.ID)

				updated := domain.Like{ID: target.ID, UserID: bob.ID, QuestionID: q2.ID}
				if _, err := repos.Likes.Save(ctx, updated); err != nil {
					t.Fatalf("update like: %v", err)
				}
				got, err := repos.Likes.FindByID(ctx, target.ID)
				if err != nil || got == nil || *got != updated {
					t.Fatalf("target = %+v, %v; want %+v", got, err, updated)
				}
				other, err := repos.Likes.FindByID(ctx, bystander.ID)
				if err != nil || other == nil || *other != bystander {
					t.Fatalf("bystander = %+v, %v; want %+v", other, err, bystander)
				}
			},
		},
		{
			name: "follow",
			run: func(t *testing.T, repos *Repositories, ada, bob domain.User, q1, q2 domain.Question) {
				ctx := context.Background()
				target := mustFollow(t, repos, ada.ID, q1.ID)
				bystander := mustFollow(t, repos, ada.ID, q2.ID)

				updated := domain.Follow{ID: target.ID, UserID: bob.ID, QuestionID: q2.ID}
				if _, err := repos.Follows.Save(ctx, updated); err != nil {
					t.Fatalf("update follow: %v", err)
				}
				got, err := repos.Follows.FindByID(ctx, target.ID)
				if err != nil || got == nil || *got != updated {
					t.Fatalf("target = %+v, %v; want %+v", got, err, updated)
				}
				other, err := repos.Follows.FindByID(ctx, bystander.ID)
				if err != nil || other == nil || *other != bystander {
					t.Fatalf("bystander = %+v, %v; want %+v", other, err, bystander)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repos := newTestRepositories(t)
			ada := mustSaveUser(t, repos, "Ada", "Lovelace")
			bob := mustSaveUser(t, repos, "Bob", "Builder")
			q1 := mustSaveQuestion(t, repos, "Engines", ada.ID)
			q2 := mustSaveQuestion(t, repos, "Bricks", bob.ID)
			tt.run(t, repos, ada, bob, q1, q2)
		})
	}
}

func TestMostLikedRanksByCount(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepositories(t)

	ada := mustSaveUser(t, repos, "Ada", "Lovelace")
	u2 := mustSaveUser(t, repos, "B", "Two")
	u3 := mustSaveUser(t, repos, "C", "Three")
	q1 := mustSaveQuestion(t, repos, "Q1", ada.ID)
	q2 := mustSaveQuestion(t, repos, "Q2", ada.ID)
	mustSaveQuestion(t, repos, "Unliked", ada.ID)

	mustLike(t, repos, ada.ID, q1.ID)
	mustLike(t, repos, u2.ID, q1.ID)
	mustLike(t, repos, u3.ID, q1.ID)
	mustLike(t, repos, ada.ID, q2.ID)

	top, err := repos.Likes.MostLiked(ctx, 1)
	if err != nil {
		t.Fatalf("most liked: %v", err)
	}
	if len(top) != 1 || top[0].ID != q1.ID || top[0].Count != 3 {
		t.Fatalf("unexpected top question: %+v", top)
	}

	for n := 0; n <= 4; n++ {
		ranked, err := repos.Likes.MostLiked(ctx, n)
		if err != nil {
			t.Fatalf("most liked %d: %v", n, err)
		}
		want := n
		if want > 2 {
			want = 2
		}
		if len(ranked) != want {
			t.Fatalf("MostLiked(%d) returned %d questions", n, len(ranked))
		}
		for i := 1; i < len(ranked); i++ {
			if ranked[i].Count > ranked[i-1].Count {
				t.Fatalf("ranking not descending: %+v", ranked)
			}
		}
	}

	none, err := repos.Likes.MostLiked(ctx, -1)
	if err != nil || none == nil || len(none) != 0 {
		t.Fatalf("negative n: %#v, %v", none, err)
	}
}

func TestMostFollowedBreaksTiesByID(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepositories(t)

	ada := mustSaveUser(t, repos, "Ada", "Lovelace")
	bob := mustSaveUser(t, repos, "Bob", "Builder")
	q1 := mustSaveQuestion(t, repos, "Q1", ada.ID)
	q2 := mustSaveQuestion(t, repos, "Q2", ada.ID)
	q3 := mustSaveQuestion(t, repos, "Q3", ada.ID)

	mustFollow(t, repos, ada.ID, q3.ID)
	mustFollow(t, repos, bob.ID, q3.ID)
	mustFollow(t, repos, bob.ID, q2.ID)
	mustFollow(t, repos, ada.ID, q1.ID)

	ranked, err := repos.Follows.MostFollowed(ctx, 10)
	if err != nil {
		t.Fatalf("most followed: %v", err)
	}
	if len(ranked) != 3 {
		t.Fatalf("expected 3 ranked questions, got %+v", ranked)
	}
	if ranked[0].ID != q3.ID || ranked[0].Count != 2 {
		t.Fatalf("unexpected leader: %+v", ranked[0])
	}
	if ranked[1].ID != q1.ID || ranked[2].ID != q2.ID {
		t.Fatalf("ties must break by ascending id: %+v", ranked)
	}
}

func TestAverageKarma(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepositories(t)

	author := mustSaveUser(t, repos, "Ada", "Lovelace")
	fan := mustSaveUser(t, repos, "Bob", "Builder")
	quiet := mustSaveUser(t, repos, "Carl", "Quiet")

	q1 := mustSaveQuestion(t, repos, "Q1", author.ID)
	q2 := mustSaveQuestion(t, repos, "Q2", author.ID)
	mustLike(t, repos, author.ID, q1.ID)
	mustLike(t, repos, fan.ID, q1.ID)
	mustLike(t, repos, quiet.ID, q1.ID)
	mustLike(t, repos, fan.ID, q2.ID)

	karma, ok, err := repos.Users.AverageKarma(ctx, author.ID)
	if err != nil {
		t.Fatalf("average karma: %v", err)
	}
	if !ok || karma != 2.0 {
		t.Fatalf("karma = %v (ok=%v), want 2.0", karma, ok)
	}

	_, ok, err = repos.Users.AverageKarma(ctx, quiet.ID)
	if err != nil {
		t.Fatalf("average karma for non-author: %v", err)
	}
	if ok {
		t.Fatalf("user without questions must have no karma")
	}

	mustSaveQuestion(t, repos, "Unliked", fan.ID)
	karma, ok, err = repos.Users.AverageKarma(ctx, fan.ID)
	if err != nil || !ok || karma != 0 {
		t.Fatalf("unliked author karma = %v (ok=%v), %v", karma, ok, err)
	}
}
