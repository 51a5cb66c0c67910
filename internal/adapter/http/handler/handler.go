package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/AryanSachan1st/Blog-Application-for-Vit-Chennai/internal/adapter/http/response"
	"github.com/AryanSachan1st/Blog-Application-for-Vit-Chennai/internal/entity"
	"github.com/AryanSachan1st/Blog-Application-for-Vit-Chennai/internal/usecase"
)

type AuthService interface {
	RequestSignupOTP(ctx context.Context, in usecase.SignupInput) error
	VerifySignupOTP(ctx context.Context, email, code string) (*usecase.AuthResult, error)
	Login(ctx context.Context, identifier, password string) (*usecase.AuthResult, error)
}

type PostService interface {
	CreatePost(ctx context.Context, author *entity.User, in usecase.CreatePostInput) (*entity.Post, error)
	GetPost(ctx context.Context, id string) (*entity.Post, error)
	ListPosts(ctx context.Context, in usecase.ListPostsInput) (*usecase.ListPostsOutput, error)
	SearchPosts(ctx context.Context, query string, page, limit int) (*usecase.ListPostsOutput, error)
	UpdatePost(ctx context.Context, user *entity.User, id string, in usecase.UpdatePostInput) (*entity.Post, error)
	DeletePost(ctx context.Context, user *entity.User, id string) error
}

type userView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func newUserView(u *entity.User) userView {
	return userView{ID: u.ID, Username: u.Username, Email: u.Email}
}

type authorView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type postView struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	Source    string     `json:"source"`
	Author    authorView `json:"author"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func newPostView(p *entity.Post) postView {
	return postView{
		ID:        p.ID,
		Title:     p.Title,
		Body:      p.Body,
		Source:    p.Source,
		Author:    authorView{ID: p.AuthorID, Username: p.AuthorUsername},
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

type authView struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      userView  `json:"user"`
}

func newAuthView(res *usecase.AuthResult) authView {
	return authView{Token: res.Token, ExpiresAt: res.ExpiresAt, User: newUserView(res.User)}
}

const maxBodyBytes = 1 << 20

// decodeJSON reads at most maxBodyBytes of r's body into dst. strict rejects
// fields dst does not declare.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, strict bool) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if strict {
		dec.DisallowUnknownFields()
	}
	return dec.Decode(dst)
}

func writeDecodeError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		response.Error(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return
	}
	response.BadRequest(w, "Invalid request body")
}
