package application

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ericfisherdev/devfolio/internal/domain/model"
)

const (
	githubWebURL = "https://github.com"

	shortSHALength    = 7
	commentBodyLimit  = 150
	longformBodyLimit = 200

	untitled      = "Untitled"
	noMessage     = "No message"
	unknownBranch = "unknown"
	branchPrefix  = "refs/heads/"
)

// classifierKey selects a classification rule. An empty Action matches any
// action of the raw type that has no more specific rule.
type classifierKey struct {
	Type   string
	Action string
}

// classifyFunc turns a raw event into a normalized event. base already has
// the fields shared by every kind filled in. The bool result is false when
// the event must be dropped.
type classifyFunc func(base model.NormalizedEvent, payload json.RawMessage) (model.NormalizedEvent, bool)

var classifiers = map[classifierKey]classifyFunc{
	{Type: "PushEvent"}:                          classifyPush,
	{Type: "PullRequestEvent", Action: "opened"}: classifyPullRequestOpened,
	{Type: "PullRequestEvent", Action: "closed"}: classifyPullRequestClosed,
	{Type: "IssuesEvent", Action: "opened"}:      classifyIssueOpened,
	{Type: "IssuesEvent", Action: "closed"}:      classifyIssueClosed,
	{Type: "PullRequestReviewEvent"}:             classifyReview,
	{Type: "IssueCommentEvent"}:                  classifyIssueComment,
	{Type: "CommitCommentEvent"}:                 classifyCommitComment,
	{Type: "PullRequestReviewCommentEvent"}:      classifyReviewComment,
	{Type: "ForkEvent"}:                          classifyFork,
	{Type: "WatchEvent"}:                         classifyStar,
	{Type: "CreateEvent"}:                        classifyCreate,
	{Type: "DeleteEvent"}:                        classifyDelete,
	{Type: "ReleaseEvent", Action: "published"}:  classifyRelease,
}

// Classify maps one raw upstream event to at most one normalized event.
// Unrecognized types, unrecognized actions and undecodable payloads yield
// false. Classify is pure: it holds no state and never logs.
func Classify(raw model.RawEvent) (model.NormalizedEvent, bool) {
	fn, ok := lookupClassifier(raw.Type, payloadAction(raw.Payload))
	if !ok {
		return model.NormalizedEvent{}, false
	}

	base := model.NormalizedEvent{
		ID:        raw.ID,
		Repo:      RepoShortName(raw.RepoFullName),
		RepoURL:   repoURL(raw.RepoFullName),
		Timestamp: raw.CreatedAt,
		Account:   raw.Account,
	}

	ev, ok := fn(base, raw.Payload)
	if !ok {
		return model.NormalizedEvent{}, false
	}
	return ev, true
}

// ClassifyAll classifies every raw event, dropping those that produce none.
// Order is preserved.
func ClassifyAll(raws []model.RawEvent) []model.NormalizedEvent {
	events := make([]model.NormalizedEvent, 0, len(raws))
	for _, raw := range raws {
		if ev, ok := Classify(raw); ok {
			events = append(events, ev)
		}
	}
	return events
}

func lookupClassifier(rawType, action string) (classifyFunc, bool) {
	if fn, ok := classifiers[classifierKey{Type: rawType, Action: action}]; ok {
		return fn, true
	}
	if action == "" {
		return nil, false
	}
	fn, ok := classifiers[classifierKey{Type: rawType}]
	return fn, ok
}

// RepoShortName returns the segment after the last "/" of a full repository name.
func RepoShortName(fullName string) string {
	if i := strings.LastIndex(fullName, "/"); i >= 0 {
		return fullName[i+1:]
	}
	return fullName
}

func repoURL(fullName string) string {
	return githubWebURL + "/" + fullName
}

// --- payload shapes ---

type pullRequestJSON struct {
	Number  int    `json:"number"`
	Title   string `json:"title"`
	Body    string `json:"body"`
	HTMLURL string `json:"html_url"`
	Merged  bool   `json:"merged"`
}

type issueJSON struct {
	Number      int             `json:"number"`
	Title       string          `json:"title"`
	Body        string          `json:"body"`
	HTMLURL     string          `json:"html_url"`
	PullRequest json.RawMessage `json:"pull_request"`
}

type commentJSON struct {
	Body     string `json:"body"`
	HTMLURL  string `json:"html_url"`
	CommitID string `json:"commit_id"`
}

type pushPayload struct {
	Ref     string `json:"ref"`
	Size    int    `json:"size"`
	Commits []struct {
		SHA     string `json:"sha"`
		Message string `json:"message"`
	} `json:"commits"`
}

type pullRequestPayload struct {
	PullRequest pullRequestJSON `json:"pull_request"`
}

type issuesPayload struct {
	Issue issueJSON `json:"issue"`
}

type reviewPayload struct {
	Review struct {
		State   string `json:"state"`
		HTMLURL string `json:"html_url"`
	} `json:"review"`
	PullRequest pullRequestJSON `json:"pull_request"`
}

type issueCommentPayload struct {
	Issue   issueJSON   `json:"issue"`
	Comment commentJSON `json:"comment"`
}

type commitCommentPayload struct {
	Comment commentJSON `json:"comment"`
}

type reviewCommentPayload struct {
	PullRequest pullRequestJSON `json:"pull_request"`
	Comment     commentJSON     `json:"comment"`
}

type forkPayload struct {
	Forkee struct {
		HTMLURL string `json:"html_url"`
	} `json:"forkee"`
}

type refPayload struct {
	Ref     string `json:"ref"`
	RefType string `json:"ref_type"`
}

type releasePayload struct {
	Release struct {
		TagName string `json:"tag_name"`
		Name    string `json:"name"`
		Body    string `json:"body"`
		HTMLURL string `json:"html_url"`
	} `json:"release"`
}

// payloadAction extracts the optional "action" field of a payload.
func payloadAction(payload json.RawMessage) string {
	var p struct {
		Action string `json:"action"`
	}
	if len(payload) == 0 {
		return ""
	}
	if err := json.Unmarshal(payload, &p); err != nil {
		return ""
	}
	return p.Action
}

// decode unmarshals payload into T. An absent payload decodes to the zero value.
func decode[T any](payload json.RawMessage) (T, bool) {
	var v T
	if len(payload) == 0 {
		return v, true
	}
	if err := json.Unmarshal(payload, &v); err != nil {
		return v, false
	}
	return v, true
}

// --- rules ---

func classifyPush(ev model.NormalizedEvent, payload json.RawMessage) (model.NormalizedEvent, bool) {
	p, ok := decode[pushPayload](payload)
	if !ok {
		return ev, false
	}

	branch := strings.TrimPrefix(p.Ref, branchPrefix)
	if branch == "" {
		branch = unknownBranch
	}

	// The feed truncates the commit list; size carries the real count.
	count := p.Size
	if count == 0 {
		count = len(p.Commits)
	}

	commits := make([]model.CommitRef, 0, len(p.Commits))
	for _, c := range p.Commits {
		commits = append(commits, model.CommitRef{
			SHA:     shortSHA(c.SHA),
			Message: firstLine(c.Message, noMessage),
		})
	}

	ev.Kind = model.EventPush
	ev.CommitCount = count
	ev.Description = fmt.Sprintf("Pushed %d %s to %s", count, plural(count, "commit"), branch)
	ev.Detail = &model.EventDetail{
		Branch:  branch,
		Commits: commits,
		URL:     ev.RepoURL + "/commits/" + branch,
	}
	return ev, true
}

func classifyPullRequestOpened(ev model.NormalizedEvent, payload json.RawMessage) (model.NormalizedEvent, bool) {
	p, ok := decode[pullRequestPayload](payload)
	if !ok {
		return ev, false
	}
	pr := p.PullRequest

	ev.Kind = model.EventPROpened
	ev.Description = fmt.Sprintf("Opened PR #%d: %s", pr.Number, orUntitled(pr.Title))
	ev.Detail = &model.EventDetail{
		Title:  pr.Title,
		Body:   truncate(pr.Body, longformBodyLimit),
		URL:    pr.HTMLURL,
		Number: pr.Number,
		Action: "opened",
	}
	return ev, true
}

func classifyPullRequestClosed(ev model.NormalizedEvent, payload json.RawMessage) (model.NormalizedEvent, bool) {
	p, ok := decode[pullRequestPayload](payload)
	if !ok {
		return ev, false
	}
	pr := p.PullRequest

	verb, action := "Closed", "closed"
	ev.Kind = model.EventPRClosed
	if pr.Merged {
		verb, action = "Merged", "merged"
		ev.Kind = model.EventPRMerged
	}

	ev.Description = fmt.Sprintf("%s PR #%d: %s", verb, pr.Number, orUntitled(pr.Title))
	ev.Detail = &model.EventDetail{
		Title:  pr.Title,
		URL:    pr.HTMLURL,
		Number: pr.Number,
		Action: action,
	}
	return ev, true
}

func classifyIssueOpened(ev model.NormalizedEvent, payload json.RawMessage) (model.NormalizedEvent, bool) {
	p, ok := decode[issuesPayload](payload)
	if !ok {
		return ev, false
	}
	issue := p.Issue

	ev.Kind = model.EventIssueOpened
	ev.Description = fmt.Sprintf("Opened issue #%d: %s", issue.Number, orUntitled(issue.Title))
	ev.Detail = &model.EventDetail{
		Title:  issue.Title,
		Body:   truncate(issue.Body, longformBodyLimit),
		URL:    issue.HTMLURL,
		Number: issue.Number,
		Action: "opened",
	}
	return ev, true
}

func classifyIssueClosed(ev model.NormalizedEvent, payload json.RawMessage) (model.NormalizedEvent, bool) {
	p, ok := decode[issuesPayload](payload)
	if !ok {
		return ev, false
	}
	issue := p.Issue

	ev.Kind = model.EventIssueClosed
	ev.Description = fmt.Sprintf("Closed issue #%d: %s", issue.Number, orUntitled(issue.Title))
	ev.Detail = &model.EventDetail{
		Title:  issue.Title,
		URL:    issue.HTMLURL,
		Number: issue.Number,
		Action: "closed",
	}
	return ev, true
}

func classifyReview(ev model.NormalizedEvent, payload json.RawMessage) (model.NormalizedEvent, bool) {
	p, ok := decode[reviewPayload](payload)
	if !ok {
		return ev, false
	}
	pr := p.PullRequest

	state := p.Review.State
	if state == "" {
		state = "reviewed"
	}

	url := p.Review.HTMLURL
	if url == "" {
		url = pr.HTMLURL
	}

	ev.Kind = model.EventReview
	ev.Description = fmt.Sprintf("%s PR #%d: %s", capitalize(state), pr.Number, orUntitled(pr.Title))
	ev.Detail = &model.EventDetail{
		Title:  pr.Title,
		URL:    url,
		Number: pr.Number,
		Action: state,
	}
	return ev, true
}

func classifyIssueComment(ev model.NormalizedEvent, payload json.RawMessage) (model.NormalizedEvent, bool) {
	p, ok := decode[issueCommentPayload](payload)
	if !ok {
		return ev, false
	}
	issue := p.Issue

	target := "issue"
	if isPresent(issue.PullRequest) {
		target = "PR"
	}

	ev.Kind = model.EventComment
	ev.Description = fmt.Sprintf("Commented on %s #%d: %s", target, issue.Number, orUntitled(issue.Title))
	ev.Detail = &model.EventDetail{
		Title:  issue.Title,
		Body:   truncate(p.Comment.Body, commentBodyLimit),
		URL:    p.Comment.HTMLURL,
		Number: issue.Number,
	}
	return ev, true
}

func classifyCommitComment(ev model.NormalizedEvent, payload json.RawMessage) (model.NormalizedEvent, bool) {
	p, ok := decode[commitCommentPayload](payload)
	if !ok {
		return ev, false
	}

	sha := shortSHA(p.Comment.CommitID)
	if sha == "" {
		sha = "unknown"
	}

	ev.Kind = model.EventCommitComment
	ev.Description = "Commented on commit " + sha
	ev.Detail = &model.EventDetail{
		Body: truncate(p.Comment.Body, commentBodyLimit),
		URL:  p.Comment.HTMLURL,
	}
	return ev, true
}

func classifyReviewComment(ev model.NormalizedEvent, payload json.RawMessage) (model.NormalizedEvent, bool) {
	p, ok := decode[reviewCommentPayload](payload)
	if !ok {
		return ev, false
	}
	pr := p.PullRequest

	ev.Kind = model.EventReviewComment
	ev.Description = fmt.Sprintf("Review comment on PR #%d: %s", pr.Number, orUntitled(pr.Title))
	ev.Detail = &model.EventDetail{
		Title:  pr.Title,
		Body:   truncate(p.Comment.Body, commentBodyLimit),
		URL:    p.Comment.HTMLURL,
		Number: pr.Number,
	}
	return ev, true
}

func classifyFork(ev model.NormalizedEvent, payload json.RawMessage) (model.NormalizedEvent, bool) {
	p, ok := decode[forkPayload](payload)
	if !ok {
		return ev, false
	}

	ev.Kind = model.EventFork
	ev.Description = "Forked " + fullNameOf(ev)
	ev.Detail = &model.EventDetail{URL: p.Forkee.HTMLURL}
	return ev, true
}

func classifyStar(ev model.NormalizedEvent, _ json.RawMessage) (model.NormalizedEvent, bool) {
	ev.Kind = model.EventStar
	ev.Description = "Starred " + fullNameOf(ev)
	ev.Detail = &model.EventDetail{URL: ev.RepoURL}
	return ev, true
}

func classifyCreate(ev model.NormalizedEvent, payload json.RawMessage) (model.NormalizedEvent, bool) {
	p, ok := decode[refPayload](payload)
	if !ok {
		return ev, false
	}

	switch p.RefType {
	case "repository":
		ev.Kind = model.EventRepoCreated
		ev.Description = "Created repository " + ev.Repo
		ev.Detail = &model.EventDetail{URL: ev.RepoURL}
	case "branch":
		ev.Kind = model.EventBranchCreated
		ev.Description = fmt.Sprintf("Created branch %s in %s", p.Ref, ev.Repo)
		ev.Detail = &model.EventDetail{
			Branch: p.Ref,
			URL:    ev.RepoURL + "/tree/" + p.Ref,
		}
	case "tag":
		ev.Kind = model.EventTagCreated
		ev.Description = fmt.Sprintf("Created tag %s in %s", p.Ref, ev.Repo)
		ev.Detail = &model.EventDetail{URL: ev.RepoURL + "/releases/tag/" + p.Ref}
	default:
		return ev, false
	}
	return ev, true
}

func classifyDelete(ev model.NormalizedEvent, payload json.RawMessage) (model.NormalizedEvent, bool) {
	p, ok := decode[refPayload](payload)
	if !ok {
		return ev, false
	}

	ev.Kind = model.EventBranchDeleted
	ev.Description = fmt.Sprintf("Deleted %s %s in %s", p.RefType, p.Ref, ev.Repo)
	if p.RefType == "branch" {
		ev.Detail = &model.EventDetail{Branch: p.Ref}
	}
	return ev, true
}

func classifyRelease(ev model.NormalizedEvent, payload json.RawMessage) (model.NormalizedEvent, bool) {
	p, ok := decode[releasePayload](payload)
	if !ok {
		return ev, false
	}
	rel := p.Release

	tag := rel.TagName
	if tag == "" {
		tag = "unknown"
	}

	ev.Kind = model.EventRelease
	ev.Description = fmt.Sprintf("Published release %s: %s", tag, orUntitled(rel.Name))
	ev.Detail = &model.EventDetail{
		Title: rel.Name,
		Body:  truncate(rel.Body, longformBodyLimit),
		URL:   rel.HTMLURL,
	}
	return ev, true
}

// --- helpers ---

// fullNameOf recovers "owner/repo" from the repository URL built by Classify.
func fullNameOf(ev model.NormalizedEvent) string {
	return strings.TrimPrefix(ev.RepoURL, githubWebURL+"/")
}

func shortSHA(sha string) string {
	if len(sha) > shortSHALength {
		return sha[:shortSHALength]
	}
	return sha
}

func firstLine(s, fallback string) string {
	line, _, _ := strings.Cut(s, "\n")
	if line == "" {
		return fallback
	}
	return line
}

// truncate cuts s to at most limit runes.
func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}

func orUntitled(title string) string {
	if title == "" {
		return untitled
	}
	return title
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

// capitalize upper-cases the first rune only ("changes_requested" -> "Changes_requested").
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// isPresent reports whether an optional JSON field was sent with a non-null value.
func isPresent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}
