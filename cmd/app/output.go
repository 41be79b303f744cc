package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/atvirokodosprendimai/qaforum/internal/domain"
	"github.com/atvirokodosprendimai/qaforum/internal/loader"
)

func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

func printKV(rows [][2]string) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, row := range rows {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", row[0], row[1])
	}
	_ = w.Flush()
}

func printTable(headers []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Println("no results")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, strings.Join(headers, "\t"))
	for _, row := range rows {
		_, _ = fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	_ = w.Flush()
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func formatMaybeID(v *int64) string {
	if v == nil {
		return "-"
	}
	return formatID(*v)
}

func printUsers(items []domain.User) {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{formatID(item.ID), item.FirstName, item.LastName})
	}
	printTable([]string{"ID", "FNAME", "LNAME"}, rows)
}

func printUser(item domain.User) {
	printKV([][2]string{
		{"id", formatID(item.ID)},
		{"fname", item.FirstName},
		{"lname", item.LastName},
	})
}

func printQuestions(items []domain.Question) {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{formatID(item.ID), formatID(item.AuthorID), item.Title})
	}
	printTable([]string{"ID", "AUTHOR_ID", "TITLE"}, rows)
}

func printQuestion(item domain.Question) {
	printKV([][2]string{
		{"id", formatID(item.ID)},
		{"title", item.Title},
		{"body", item.Body},
		{"author_id", formatID(item.AuthorID)},
	})
}

func printReplies(items []domain.Reply) {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			formatID(item.ID),
			formatID(item.QuestionID),
			formatMaybeID(item.ParentReplyID),
			formatID(item.UserID),
			item.Body,
		})
	}
	printTable([]string{"ID", "QUESTION_ID", "PARENT_ID", "USER_ID", "BODY"}, rows)
}

func printReply(item domain.Reply) {
	printKV([][2]string{
		{"id", formatID(item.ID)},
		{"question_id", formatID(item.QuestionID)},
		{"parent_reply_id", formatMaybeID(item.ParentReplyID)},
		{"user_id", formatID(item.UserID)},
		{"body", item.Body},
	})
}

func printLikes(items []domain.Like) {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{formatID(item.ID), formatID(item.UserID), formatID(item.QuestionID)})
	}
	printTable([]string{"ID", "USER_ID", "QUESTION_ID"}, rows)
}

func printFollows(items []domain.Follow) {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{formatID(item.ID), formatID(item.UserID), formatID(item.QuestionID)})
	}
	printTable([]string{"ID", "USER_ID", "QUESTION_ID"}, rows)
}

func printRanked(items []domain.RankedQuestion, countHeader string) {
	rows := make([][]string, 0, len(items))
	for i, item := range items {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			formatID(item.ID),
			strconv.FormatInt(item.Count, 10),
			item.Title,
		})
	}
	printTable([]string{"RANK", "QUESTION_ID", countHeader, "TITLE"}, rows)
}

// printThread renders the tree indented by depth.
func printThread(tree domain.ReplyTree) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tUSER_ID\tBODY")
	var walk func(node domain.ReplyTree, depth int)
	walk = func(node domain.ReplyTree, depth int) {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s%s\n",
			formatID(node.Reply.ID),
			formatID(node.Reply.UserID),
			strings.Repeat("  ", depth),
			node.Reply.Body,
		)
		for _, child := range node.Children {
			walk(child, depth+1)
		}
	}
	walk(tree, 0)
	_ = w.Flush()
}

func printSeedResult(res loader.Result) {
	printKV([][2]string{
		{"users", strconv.Itoa(len(res.Users))},
		{"questions", strconv.Itoa(len(res.Questions))},
		{"replies", strconv.Itoa(len(res.Replies))},
		{"likes", strconv.Itoa(res.Likes)},
		{"follows", strconv.Itoa(res.Follows)},
	})
}
