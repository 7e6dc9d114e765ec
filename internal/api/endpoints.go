package api

import (
	"net/url"
	"strconv"
)

// Backend endpoints.
const (
	PathSignUp = "/users.json"
	PathPosts  = "/posts"
)

// StartPostIndexParam is the pagination offset query parameter of GET /posts.
const StartPostIndexParam = "start_post_index"

func feedPath(startPostIndex int) string {
	q := url.Values{StartPostIndexParam: {strconv.Itoa(startPostIndex)}}
	return PathPosts + "?" + q.Encode()
}

func userPostsPath(userID int64) string {
	return "/users/" + strconv.FormatInt(userID, 10) + "/posts"
}

type signUpParams struct {
	User credentials `json:"user"`
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
