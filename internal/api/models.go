package api

// User is a backend account.
type User struct {
	ID        int64  `json:"id"`
	Email     string `json:"email,omitempty"`
	Name      string `json:"name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Post is a feed entry.
type Post struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id,omitempty"`
	Body      string `json:"body,omitempty"`
	ImageURL  string `json:"image_url,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	User      *User  `json:"user,omitempty"`
}

func (User) requiredKeys() []string { return []string{"id"} }

func (Post) requiredKeys() []string { return []string{"id"} }
