package domain

// A zero ID marks a record that has not been saved yet.

type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"fname"`
	LastName  string `json:"lname"`
}

type Question struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Body     string `json:"body"`
	AuthorID int64  `json:"associated_author_id"`
}

// Reply belongs to a question and optionally to a parent reply of the same
// question. A nil ParentReplyID marks a root reply.
type Reply struct {
	ID            int64  `json:"id"`
	Body          string `json:"body"`
	UserID        int64  `json:"user_id"`
	QuestionID    int64  `json:"question_id"`
	ParentReplyID *int64 `json:"parent_reply_id,omitempty"`
}

func (r Reply) IsRoot() bool {
	return r.ParentReplyID == nil
}

type Like struct {
	ID         int64 `json:"id"`
	UserID     int64 `json:"user_id"`
	QuestionID int64 `json:"question_id"`
}

type Follow struct {
	ID         int64 `json:"id"`
	UserID     int64 `json:"user_id"`
	QuestionID int64 `json:"question_id"`
}

// RankedQuestion is a question together with the size of the group it was
// ranked by (likes or follows).
type RankedQuestion struct {
	Question
	Count int64 `json:"count"`
}

// ThreadedReply is one reply reached by a subtree walk. Depth is 0 for the
// walk's root; Path lists reply ids from the root, comma separated.
type ThreadedReply struct {
	Reply
	Depth int    `json:"depth"`
	Path  string `json:"path"`
}

// ReplyTree is a reply with its descendants materialized.
type ReplyTree struct {
	Reply    Reply       `json:"reply"`
	Children []ReplyTree `json:"children"`
}

// Size counts the replies in the tree, root included.
func (t ReplyTree) Size() int {
	n := 1
	for _, child := range t.Children {
		n += child.Size()
	}
	return n
}
