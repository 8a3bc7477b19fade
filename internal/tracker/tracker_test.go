package tracker

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeysQuery(t *testing.T) {
	q := KeysQuery([]string{"XYZ-1", "XYZ-2"})
	assert.Equal(t, "key in (XYZ-1,XYZ-2)", q.JQL)
	assert.True(t, q.SuppressErrors)

	q = KeysQuery([]string{"ABC-7"})
	assert.Equal(t, "key in (ABC-7)", q.JQL)
}

func TestAssigneeQuery(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  string
	}{
		{
			name:  "plain email",
			email: "alice@example.com",
			want:  "assignee = 'alice@example.com' AND status not in (Closed)",
		},
		{
			name:  "quote escaped",
			email: "o'brien@example.com",
			want:  `assignee = 'o\'brien@example.com' AND status not in (Closed)`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := AssigneeQuery(tt.email)
			assert.Equal(t, tt.want, q.JQL)
			assert.False(t, q.SuppressErrors)
		})
	}
}

func TestFailureError(t *testing.T) {
	f := &Failure{Kind: KindNotFound, StatusCode: 404, Reason: "issue does not exist"}
	assert.Equal(t, "tracker: not_found (404): issue does not exist", f.Error())

	f = &Failure{Kind: KindTransport, Reason: "connection refused"}
	assert.Equal(t, "tracker: transport: connection refused", f.Error())
}

func TestIsKind(t *testing.T) {
	failure := &Failure{Kind: KindUnauthorized, StatusCode: 401, Reason: "bad credentials"}
	wrapped := fmt.Errorf("failed to get issue: %w", failure)

	assert.True(t, IsKind(wrapped, KindUnauthorized))
	assert.False(t, IsKind(wrapped, KindNotFound))
	assert.False(t, IsKind(fmt.Errorf("plain"), KindUnauthorized))
	assert.False(t, IsKind(nil, KindUnauthorized))
}
