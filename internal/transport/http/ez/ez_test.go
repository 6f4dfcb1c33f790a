package ez

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"sample-app/internal/domain"
	resp "sample-app/internal/transport/http/response"
)

func init() { gin.SetMode(gin.TestMode) }

func ctxAs(role string) *gin.Context {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	if role != "" {
		SetCurrentUser(c, &domain.User{ID: "u1"}, role)
	}
	return c
}

func codeOf(err error) (int, string) {
	var ae *AErr
	if !errors.As(err, &ae) {
		return 0, ""
	}
	return ae.Code, ae.Redirect
}

func TestGate(t *testing.T) {
	cases := []struct {
		name      string
		role      string
		anonymous bool
		auth      bool
		roles     []string
		code      int
		to        string
	}{
		{"public anonymous", "", false, false, nil, 0, ""},
		{"public signed in", "user", false, false, nil, 0, ""},
		{"signed out only", "user", true, false, nil, resp.CodeForbidden, resp.PathRoot},
		{"signed out only anonymous", "", true, false, nil, 0, ""},
		{"auth anonymous", "", false, true, nil, resp.CodeUnauthorized, resp.PathSignIn},
		{"auth signed in", "user", false, true, nil, 0, ""},
		{"admin anonymous", "", false, false, []string{"admin"}, resp.CodeUnauthorized, resp.PathSignIn},
		{"admin as user", "user", false, false, []string{"admin"}, resp.CodeForbidden, resp.PathRoot},
		{"admin as admin", "admin", false, false, []string{"admin"}, 0, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Gate(ctxAs(tc.role), tc.anonymous, tc.auth, tc.roles)
			code, to := codeOf(err)
			if code != tc.code || to != tc.to {
				t.Errorf("err = %v (code %d, redirect %q)", err, code, to)
			}
		})
	}
}

func TestToResp(t *testing.T) {
	ve := &domain.ValidationError{}
	ve.Add("email", "is invalid")
	cases := []struct {
		err  error
		code int
	}{
		{ve, resp.CodeBadRequest},
		{fmt.Errorf("wrapped: %w", domain.ErrNotFound), resp.CodeNotFound},
		{domain.ErrSelfFollow, resp.CodeBadRequest},
		{domain.ErrNotOwner, resp.CodeForbidden},
		{domain.ErrNotFollower, resp.CodeForbidden},
		{domain.ErrSelfDemote, resp.CodeForbidden},
		{NeedSignIn(), resp.CodeUnauthorized},
		{errors.New("disk on fire"), resp.CodeServerError},
	}
	for _, tc := range cases {
		r := ToResp(zap.NewNop(), ctxAs(""), tc.err)
		if r.Code != tc.code {
			t.Errorf("%v -> %d, want %d", tc.err, r.Code, tc.code)
		}
	}

	r := ToResp(zap.NewNop(), ctxAs(""), errors.New("secret detail"))
	if r.Msg != "internal error" {
		t.Errorf("internal detail leaked: %q", r.Msg)
	}
	r = ToResp(zap.NewNop(), ctxAs(""), ve)
	b, _ := json.Marshal(r.Data)
	if string(b) != `{"errors":{"email":"is invalid"}}` {
		t.Errorf("validation data = %s", b)
	}
}

func TestRegisterActionNotice(t *testing.T) {
	r := gin.New()
	e := New(r.Group(""), nil)
	RegisterAction(e, nil, Action[struct{}, Noticed[gin.H]]{
		Method: http.MethodGet,
		Path:   "/n",
		Binder: BindNone,
		Handler: func(*gin.Context, *gorm.DB, *struct{}) (Noticed[gin.H], error) {
			return WithNotice("done", gin.H{"x": 1}), nil
		},
	})
	type in struct {
		Name string `json:"name" binding:"required"`
	}
	RegisterAction(e, nil, Action[in, string]{
		Method: http.MethodPost,
		Path:   "/echo",
		Binder: BindJSON,
		Handler: func(_ *gin.Context, _ *gorm.DB, i *in) (string, error) {
			return i.Name, nil
		},
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/n", nil))
	if w.Body.String() != `{"code":0,"msg":"done","data":{"x":1}}` {
		t.Errorf("notice body = %s", w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", nil))
	var out resp.Resp
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out.Code != resp.CodeBadRequest {
		t.Errorf("missing body accepted: %s", w.Body.String())
	}
}

func TestPageOf(t *testing.T) {
	c := ctxAs("")
	c.Request = httptest.NewRequest(http.MethodGet, "/?page=0&size=500", nil)
	if p := PageOf(c); p.Page != 1 || p.Size != domain.DefaultPageSize {
		t.Errorf("page = %+v", p)
	}
	c.Request = httptest.NewRequest(http.MethodGet, "/?page=3&size=10", nil)
	if p := PageOf(c); p.Page != 3 || p.Size != 10 || p.Offset() != 20 {
		t.Errorf("page = %+v", p)
	}
}

func TestToSnake(t *testing.T) {
	for in, want := range map[string]string{
		"ID":         "id",
		"UserID":     "user_id",
		"FollowerID": "follower_id",
		"CreatedAt":  "created_at",
	} {
		if got := toSnake(in); got != want {
			t.Errorf("toSnake(%q) = %q, want %q", in, got, want)
		}
	}
}
