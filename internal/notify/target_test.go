package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oshri1997/chaver-mechuyvut-dashboard/internal/directory"
)

func testDirectory() ([]directory.User, []directory.Group) {
	users := []directory.User{
		{ID: "u1", PushToken: "ExponentPushToken[aaa]"},
		{ID: "u2", PushToken: "fcm-token-u2"},
		{ID: "u3"}, // no token
		{ID: "u4", PushToken: "ExponentPushToken[ddd]"},
	}
	groups := []directory.Group{
		{ID: "g1", MemberIDs: []string{"u1", "u2", "u3"}},
		{ID: "g2", MemberIDs: []string{"u3"}},
	}
	return users, groups
}

func TestResolveGeneral(t *testing.T) {
	users, groups := testDirectory()
	tokens := Resolve(Target{Type: TargetGeneral}, users, groups)
	assert.ElementsMatch(t, []string{"ExponentPushToken[aaa]", "fcm-token-u2", "ExponentPushToken[ddd]"}, tokens)
}

func TestResolveGroup(t *testing.T) {
	users, groups := testDirectory()

	t.Run("tokenless members are excluded", func(t *testing.T) {
		tokens := Resolve(Target{Type: TargetGroup, GroupID: "g1"}, users, groups)
		assert.ElementsMatch(t, []string{"ExponentPushToken[aaa]", "fcm-token-u2"}, tokens)
	})

	t.Run("group of only tokenless members", func(t *testing.T) {
		tokens := Resolve(Target{Type: TargetGroup, GroupID: "g2"}, users, groups)
		assert.Empty(t, tokens)
	})

	t.Run("missing group resolves empty", func(t *testing.T) {
		tokens := Resolve(Target{Type: TargetGroup, GroupID: "nope"}, users, groups)
		assert.Empty(t, tokens)
	})
}

func TestResolveUser(t *testing.T) {
	users, groups := testDirectory()

	t.Run("token-bearing user", func(t *testing.T) {
		tokens := Resolve(Target{Type: TargetUser, UserID: "u2"}, users, groups)
		assert.Equal(t, []string{"fcm-token-u2"}, tokens)
	})

	t.Run("user without token", func(t *testing.T) {
		tokens := Resolve(Target{Type: TargetUser, UserID: "u3"}, users, groups)
		assert.Empty(t, tokens)
	})

	t.Run("unknown user", func(t *testing.T) {
		tokens := Resolve(Target{Type: TargetUser, UserID: "ghost"}, users, groups)
		assert.Empty(t, tokens)
	})
}

func TestResolveCriteriaIsEmptyNotError(t *testing.T) {
	users, groups := testDirectory()
	tokens := Resolve(Target{Type: TargetCriteria}, users, groups)
	assert.Empty(t, tokens)
}

func TestTargetValid(t *testing.T) {
	assert.True(t, Target{Type: TargetGeneral}.Valid())
	assert.True(t, Target{Type: TargetCriteria}.Valid())
	assert.True(t, Target{Type: TargetGroup, GroupID: "g"}.Valid())
	assert.True(t, Target{Type: TargetUser, UserID: "u"}.Valid())

	assert.False(t, Target{Type: TargetGroup}.Valid())
	assert.False(t, Target{Type: TargetUser}.Valid())
	assert.False(t, Target{Type: "everyone"}.Valid())
	assert.False(t, Target{}.Valid())
}
