// Package directory holds the user and group records the operator console
// manages. The notification pipeline resolves audiences against a snapshot
// of this data taken at processing time, never at creation time, so
// membership changes between scheduling and firing are always reflected.
package directory

// User is a registered app user. PushToken is empty when the user has no
// registered push destination; a user holds at most one token
// (last-registered wins).
type User struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Role      string   `json:"role"`
	PushToken string   `json:"pushToken,omitempty"`
	GroupIDs  []string `json:"groupIds"`
	BirthDate string   `json:"birthDate,omitempty"`
	CreatedAt int64    `json:"createdAt"` // epoch ms
}

// Group is a commitment group with a flat member-id list.
type Group struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category,omitempty"`
	Description string   `json:"description,omitempty"`
	MemberIDs   []string `json:"memberIds"`
	CreatedAt   int64    `json:"createdAt"` // epoch ms
}
