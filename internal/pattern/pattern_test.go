package pattern

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueExtraction(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		wantMatch   bool
		wantIssue   string
		wantProject string
	}{
		{name: "plain key", text: "jira XYZ-123", wantMatch: true, wantIssue: "XYZ-123", wantProject: "XYZ"},
		{name: "digit in project", text: "jira AB2-7", wantMatch: true, wantIssue: "AB2-7", wantProject: "AB2"},
		{name: "single letter project", text: "jira A-1", wantMatch: true, wantIssue: "A-1", wantProject: "A"},
		{name: "trailing whitespace", text: "jira XYZ-123  ", wantMatch: true, wantIssue: "XYZ-123", wantProject: "XYZ"},
		{name: "lowercase project", text: "jira xyz-123", wantMatch: false},
		{name: "missing digits", text: "jira XYZ-", wantMatch: false},
		{name: "missing dash", text: "jira XYZ123", wantMatch: false},
		{name: "digit before project", text: "jira 1XYZ-2", wantMatch: false},
		{name: "trailing junk", text: "jira XYZ-123x", wantMatch: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caps, ok := Captures(Summary, tt.text)
			require.Equal(t, tt.wantMatch, ok)
			if !tt.wantMatch {
				return
			}
			assert.Equal(t, tt.wantIssue, caps["issue"])
			assert.Equal(t, tt.wantProject, caps["project"])
		})
	}
}

func TestCommandMatchers(t *testing.T) {
	tests := []struct {
		name string
		re   *regexp.Regexp
		text string
		want bool
	}{
		{name: "summary", re: Summary, text: "jira ABC-1", want: true},
		{name: "summary rejects details", re: Summary, text: "jira details ABC-1", want: false},
		{name: "summary rejects trailing text", re: Summary, text: "jira ABC-1 please", want: false},
		{name: "details", re: Details, text: "jira details ABC-1", want: true},
		{name: "details requires key", re: Details, text: "jira details", want: false},
		{name: "myissues", re: MyIssues, text: "jira myissues", want: true},
		{name: "myissues trailing space", re: MyIssues, text: "jira myissues ", want: true},
		{name: "myissues rejects args", re: MyIssues, text: "jira myissues ABC-1", want: false},
		{name: "comment", re: Comment, text: "jira comment on ABC-1 ship it", want: true},
		{name: "comment requires body", re: Comment, text: "jira comment on ABC-1", want: false},
		{name: "todo with subject", re: Todo, text: `todo ABC "fix the build"`, want: true},
		{name: "todo with summary", re: Todo, text: `todo ABC "fix the build" "it is broken"`, want: true},
		{name: "todo rejects issue key as project", re: Todo, text: `todo ABC-1 "fix the build"`, want: false},
		{name: "todo rejects unquoted subject", re: Todo, text: "todo ABC fix the build", want: false},
		{name: "identify", re: Identify, text: "jira identify user@example.com", want: true},
		{name: "identify requires email", re: Identify, text: "jira identify", want: false},
		{name: "forget", re: Forget, text: "jira forget", want: true},
		{name: "whoami", re: Whoami, text: "jira whoami", want: true},
		{name: "point", re: Point, text: "jira point ABC-1 as 5", want: true},
		{name: "point rejects non-numeric", re: Point, text: "jira point ABC-1 as five", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.re.MatchString(tt.text))
		})
	}
}

func TestCaptures(t *testing.T) {
	t.Run("comment body", func(t *testing.T) {
		caps, ok := Captures(Comment, "jira comment on ABC-1 works for me, shipping")
		require.True(t, ok)
		assert.Equal(t, "ABC-1", caps["issue"])
		assert.Equal(t, "works for me, shipping", caps["comment"])
	})

	t.Run("todo without summary", func(t *testing.T) {
		caps, ok := Captures(Todo, `todo ABC "fix the build"`)
		require.True(t, ok)
		assert.Equal(t, "ABC", caps["project"])
		assert.Equal(t, "fix the build", caps["subject"])
		assert.Equal(t, "", caps["summary"])
	})

	t.Run("todo with summary", func(t *testing.T) {
		caps, ok := Captures(Todo, `todo ABC "fix the build" "the linker step fails"`)
		require.True(t, ok)
		assert.Equal(t, "fix the build", caps["subject"])
		assert.Equal(t, "the linker step fails", caps["summary"])
	})

	t.Run("point value", func(t *testing.T) {
		caps, ok := Captures(Point, "jira point ABC-1 as 13")
		require.True(t, ok)
		assert.Equal(t, "ABC-1", caps["issue"])
		assert.Equal(t, "13", caps["points"])
	})

	t.Run("no match", func(t *testing.T) {
		caps, ok := Captures(Summary, "nothing to see")
		assert.False(t, ok)
		assert.Nil(t, caps)
	})
}

func TestMentions(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Mention
	}{
		{
			name: "two keys",
			text: "see XYZ-1 and XYZ-2 for details",
			want: []Mention{{Key: "XYZ-1", Project: "XYZ"}, {Key: "XYZ-2", Project: "XYZ"}},
		},
		{
			name: "duplicates removed in order",
			text: "ABC-2 blocks ABC-1, and ABC-2 is open",
			want: []Mention{{Key: "ABC-2", Project: "ABC"}, {Key: "ABC-1", Project: "ABC"}},
		},
		{
			name: "key inside url",
			text: "https://jira.example.com/browse/OPS-42 is yours",
			want: []Mention{{Key: "OPS-42", Project: "OPS"}},
		},
		{
			name: "punctuation boundaries",
			text: "(XYZ-1), XYZ-2.",
			want: []Mention{{Key: "XYZ-1", Project: "XYZ"}, {Key: "XYZ-2", Project: "XYZ"}},
		},
		{
			name: "embedded token ignored",
			text: "pXYZ-12abc",
			want: nil,
		},
		{
			name: "lowercase ignored",
			text: "error-404 is not a ticket",
			want: nil,
		},
		{
			name: "no keys",
			text: "nothing here",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Mentions(tt.text))
		})
	}
}
