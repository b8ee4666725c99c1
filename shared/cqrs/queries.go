package cqrs

// GetUserQuery fetches a single user by ID.
type GetUserQuery struct {
	UserID int64
	// BypassCache reads the committed row even when a cached view exists.
	BypassCache bool
}

// ListUsersQuery fetches every user ordered by ID.
type ListUsersQuery struct{}
