package notify

import (
	"github.com/oshri1997/chaver-mechuyvut-dashboard/internal/directory"
)

// Resolve maps an audience descriptor to the concrete set of push tokens
// reachable right now. It is a pure function of the given directory state:
//
//   - general:  every user with a registered token
//   - group:    token-bearing members of the group; missing group → empty
//   - user:     the one user's token if present; otherwise empty
//   - criteria: always empty (no resolution semantics exist for it)
//
// Members without a token are silently excluded; an empty result is never
// an error here, the caller decides whether zero recipients matters.
func Resolve(target Target, users []directory.User, groups []directory.Group) []string {
	switch target.Type {
	case TargetGeneral:
		var tokens []string
		for _, u := range users {
			if u.PushToken != "" {
				tokens = append(tokens, u.PushToken)
			}
		}
		return tokens

	case TargetGroup:
		var members map[string]bool
		for _, g := range groups {
			if g.ID == target.GroupID {
				members = make(map[string]bool, len(g.MemberIDs))
				for _, id := range g.MemberIDs {
					members[id] = true
				}
				break
			}
		}
		if members == nil {
			return nil
		}
		var tokens []string
		for _, u := range users {
			if members[u.ID] && u.PushToken != "" {
				tokens = append(tokens, u.PushToken)
			}
		}
		return tokens

	case TargetUser:
		for _, u := range users {
			if u.ID == target.UserID {
				if u.PushToken != "" {
					return []string{u.PushToken}
				}
				return nil
			}
		}
		return nil

	default:
		// criteria and anything unknown: no recipients, never an error,
		// so the pipeline stays total.
		return nil
	}
}
