package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"sample-app/internal/app"
	"sample-app/internal/core/config"
	"sample-app/internal/domain"
	"sample-app/internal/service"
	"sample-app/internal/testutil"
	"sample-app/internal/transport/http/handler"
)

func init() { gin.SetMode(gin.TestMode) }

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func (e envelope) redirect(t *testing.T) string {
	t.Helper()
	var d struct {
		Redirect string `json:"redirect"`
	}
	_ = json.Unmarshal(e.Data, &d)
	return d.Redirect
}

func decode[T any](t *testing.T, e envelope) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(e.Data, &v); err != nil {
		t.Fatalf("decode data %s: %v", e.Data, err)
	}
	return v
}

type testServer struct {
	db    *gorm.DB
	deps  handler.Deps
	api   http.Handler
	admin http.Handler
}

func newServer(t *testing.T) *testServer {
	t.Helper()
	db := testutil.NewDB(t)
	cfg := &config.Config{
		Session: config.Session{
			Secret:     "0123456789abcdef0123456789abcdef",
			Issuer:     "test",
			TTLHours:   1,
			CookieName: "session",
		},
		Cache: config.Cache{ProfileTTLSec: 60},
	}
	l := zap.NewNop()
	d := app.Wire(db, nil, cfg, l)
	return &testServer{
		db:    db,
		deps:  d,
		api:   NewAPIEngine(l, cfg, d.Sessions, handler.APIModules(d)...),
		admin: NewAdminEngine(l, cfg, d.Sessions, handler.AdminModules(d)...),
	}
}

func (s *testServer) call(t *testing.T, h http.Handler, method, path string, body any, token string) (envelope, *httptest.ResponseRecorder) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("%s %s: http status %d", method, path, w.Code)
	}
	var e envelope
	if err := json.Unmarshal(w.Body.Bytes(), &e); err != nil {
		t.Fatalf("%s %s: bad envelope %q: %v", method, path, w.Body.String(), err)
	}
	return e, w
}

func (s *testServer) do(t *testing.T, method, path string, body any, token string) envelope {
	t.Helper()
	e, _ := s.call(t, s.api, method, path, body, token)
	return e
}

// user 注册并登录，返回用户与会话令牌
func (s *testServer) user(t *testing.T, name, email string) (*domain.User, string) {
	t.Helper()
	u, err := s.deps.Users.SignUp(context.Background(), service.SignUpInput{
		Name: name, Email: email, Password: "foobar", PasswordConfirmation: "foobar",
	})
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	tok, err := s.deps.Sessions.Start(context.Background(), u)
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	return u, tok
}

func (s *testServer) makeAdmin(t *testing.T, id string) {
	t.Helper()
	if err := s.db.Model(&domain.User{}).Where("id = ?", id).Update("admin", true).Error; err != nil {
		t.Fatal(err)
	}
}

func (s *testServer) count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	if err := s.db.Model(model).Count(&n).Error; err != nil {
		t.Fatal(err)
	}
	return n
}

func TestHealthAndMetrics(t *testing.T) {
	s := newServer(t)
	if e := s.do(t, http.MethodGet, "/health", nil, ""); e.Code != 0 {
		t.Errorf("health code = %d", e.Code)
	}
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	s.api.ServeHTTP(w, req)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "http_requests_total") {
		t.Errorf("metrics: %d %.200s", w.Code, w.Body.String())
	}
}

func TestSignUpSignsInWithCookie(t *testing.T) {
	s := newServer(t)
	e, w := s.call(t, s.api, http.MethodPost, "/api/v1/users", map[string]string{
		"name": "New User", "email": "New@Example.com",
		"password": "foobar", "passwordConfirmation": "foobar",
	}, "")
	if e.Code != 0 || e.Msg != "Welcome to the Sample App!" {
		t.Fatalf("sign up: %+v", e)
	}
	out := decode[struct {
		User  domain.User `json:"user"`
		Token string      `json:"token"`
	}](t, e)
	if out.User.Email != "new@example.com" || out.Token == "" {
		t.Fatalf("out = %+v", out)
	}

	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "session" {
			cookie = c
		}
	}
	if cookie == nil || !cookie.HttpOnly || cookie.Value == "" {
		t.Fatalf("session cookie = %+v", cookie)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	s.api.ServeHTTP(w, req)
	var me envelope
	_ = json.Unmarshal(w.Body.Bytes(), &me)
	if me.Code != 0 || decode[domain.User](t, me).ID != out.User.ID {
		t.Fatalf("me via cookie: %s", w.Body.String())
	}
	if strings.Contains(w.Body.String(), "encrypted") || strings.Contains(w.Body.String(), "salt") {
		t.Errorf("credentials leaked: %s", w.Body.String())
	}
}

func TestSignUpValidationErrors(t *testing.T) {
	s := newServer(t)
	s.user(t, "Taken", "taken@example.com")
	e := s.do(t, http.MethodPost, "/api/v1/users", map[string]string{
		"name": " ", "email": "TAKEN@example.com",
		"password": "foo", "passwordConfirmation": "bar",
	}, "")
	if e.Code != 400 {
		t.Fatalf("code = %d", e.Code)
	}
	errs := decode[struct {
		Errors map[string]string `json:"errors"`
	}](t, e).Errors
	for _, f := range []string{"name", "password", "passwordConfirmation"} {
		if errs[f] == "" {
			t.Errorf("missing error for %s: %v", f, errs)
		}
	}
	if s.count(t, &domain.User{}) != 1 {
		t.Error("invalid sign up persisted a user")
	}

	e = s.do(t, http.MethodPost, "/api/v1/users", map[string]string{
		"name": "Dup", "email": "TAKEN@example.com",
		"password": "foobar", "passwordConfirmation": "foobar",
	}, "")
	if e.Code != 400 || !strings.Contains(string(e.Data), "has already been taken") {
		t.Errorf("duplicate email: %+v %s", e, e.Data)
	}
}

func TestSignedInUsersAreSentHome(t *testing.T) {
	s := newServer(t)
	_, tok := s.user(t, "A", "a@example.com")
	for _, path := range []string{"/api/v1/users", "/api/v1/sessions"} {
		e := s.do(t, http.MethodPost, path, map[string]string{"email": "a@example.com", "password": "foobar"}, tok)
		if e.Code != 403 || e.redirect(t) != "/" {
			t.Errorf("POST %s signed in: %+v %s", path, e, e.Data)
		}
	}
}

func TestProtectedRoutesRedirectToSignIn(t *testing.T) {
	s := newServer(t)
	u, _ := s.user(t, "A", "a@example.com")
	cases := []struct{ method, path string }{
		{http.MethodGet, "/api/v1/users"},
		{http.MethodGet, "/api/v1/users/" + u.ID + "/edit"},
		{http.MethodPatch, "/api/v1/users/" + u.ID},
		{http.MethodPut, "/api/v1/users/" + u.ID},
		{http.MethodPatch, "/api/v1/users/" + u.ID + "/edit"},
		{http.MethodDelete, "/api/v1/users/" + u.ID},
		{http.MethodGet, "/api/v1/users/" + u.ID + "/following"},
		{http.MethodGet, "/api/v1/users/" + u.ID + "/followers"},
		{http.MethodDelete, "/api/v1/sessions"},
		{http.MethodGet, "/api/v1/me"},
		{http.MethodPost, "/api/v1/relationships"},
		{http.MethodDelete, "/api/v1/relationships/1"},
		{http.MethodPost, "/api/v1/microposts"},
		{http.MethodGet, "/api/v1/microposts"},
		{http.MethodDelete, "/api/v1/microposts/1"},
		{http.MethodGet, "/api/v1/feed"},
	}
	for _, tc := range cases {
		e := s.do(t, tc.method, tc.path, map[string]string{}, "")
		if e.Code != 401 || e.redirect(t) != "/signin" {
			t.Errorf("%s %s: code=%d redirect=%q", tc.method, tc.path, e.Code, e.redirect(t))
		}
	}
	if s.count(t, &domain.User{}) != 1 {
		t.Error("anonymous delete removed a user")
	}
}

func TestSignInAndOut(t *testing.T) {
	s := newServer(t)
	u, first := s.user(t, "A", "a@example.com")

	e := s.do(t, http.MethodPost, "/api/v1/sessions", map[string]string{"email": "a@example.com", "password": "wrong!"}, "")
	if e.Code != 401 || e.Msg != "Invalid email/password combination." {
		t.Fatalf("bad password: %+v", e)
	}

	e = s.do(t, http.MethodPost, "/api/v1/sessions", map[string]string{"email": "A@Example.com", "password": "foobar"}, "")
	if e.Code != 0 {
		t.Fatalf("sign in: %+v", e)
	}
	tok := decode[struct {
		Token string `json:"token"`
	}](t, e).Token

	// 两个会话同时有效
	for _, tk := range []string{first, tok} {
		if me := s.do(t, http.MethodGet, "/api/v1/me", nil, tk); decode[domain.User](t, me).ID != u.ID {
			t.Fatalf("me: %s", me.Data)
		}
	}
	if e := s.do(t, http.MethodDelete, "/api/v1/sessions", nil, tok); e.Code != 0 {
		t.Fatalf("sign out: %+v", e)
	}
	// 登出吊销该用户全部令牌
	for _, tk := range []string{first, tok} {
		if e := s.do(t, http.MethodGet, "/api/v1/me", nil, tk); e.Code != 401 {
			t.Errorf("token still valid after sign out: %+v", e)
		}
	}
}

func TestInvalidTokenIsAnonymous(t *testing.T) {
	s := newServer(t)
	s.user(t, "A", "a@example.com")
	e := s.do(t, http.MethodGet, "/api/v1/me", nil, "not-a-jwt")
	if e.Code != 401 {
		t.Errorf("garbage token: %+v", e)
	}
	// 匿名可以看主页
	u, _ := s.user(t, "B", "b@example.com")
	if e := s.do(t, http.MethodGet, "/api/v1/users/"+u.ID, nil, "not-a-jwt"); e.Code != 0 {
		t.Errorf("public profile: %+v", e)
	}
}

func TestEditAndUpdateRequireOwner(t *testing.T) {
	s := newServer(t)
	a, tokA := s.user(t, "A", "a@example.com")
	b, _ := s.user(t, "B", "b@example.com")

	if e := s.do(t, http.MethodGet, "/api/v1/users/"+b.ID+"/edit", nil, tokA); e.Code != 403 || e.redirect(t) != "/" {
		t.Errorf("edit other: %+v %s", e, e.Data)
	}
	if e := s.do(t, http.MethodPatch, "/api/v1/users/"+b.ID, map[string]string{"name": "Hacked", "email": "b@example.com"}, tokA); e.Code != 403 {
		t.Errorf("update other: %+v", e)
	}
	if e := s.do(t, http.MethodGet, "/api/v1/users/missing/edit", nil, tokA); e.Code != 404 {
		t.Errorf("edit missing: %+v", e)
	}
	if e := s.do(t, http.MethodGet, "/api/v1/users/"+a.ID+"/edit", nil, tokA); e.Code != 0 {
		t.Errorf("edit own: %+v", e)
	}

	e := s.do(t, http.MethodPatch, "/api/v1/users/"+a.ID, map[string]string{"name": "A2", "email": "a2@example.com"}, tokA)
	if e.Code != 0 || e.Msg != "Profile updated." || decode[domain.User](t, e).Name != "A2" {
		t.Fatalf("update own: %+v %s", e, e.Data)
	}
	// 密码留空不改，旧密码仍可登录
	if u, _, _ := s.deps.Sessions.SignIn(context.Background(), "a2@example.com", "foobar"); u == nil {
		t.Error("password changed by update without password")
	}

	e = s.do(t, http.MethodPut, "/api/v1/users/"+a.ID, map[string]string{"name": "", "email": "bad"}, tokA)
	if e.Code != 400 {
		t.Errorf("invalid update: %+v", e)
	}

	e = s.do(t, http.MethodPatch, "/api/v1/users/"+a.ID+"/edit", map[string]string{"name": "A3", "email": "a2@example.com"}, tokA)
	if e.Code != 0 || decode[domain.User](t, e).Name != "A3" {
		t.Errorf("patch via edit: %+v %s", e, e.Data)
	}
	if e := s.do(t, http.MethodPatch, "/api/v1/users/"+b.ID+"/edit", map[string]string{"name": "Hacked", "email": "b@example.com"}, tokA); e.Code != 403 {
		t.Errorf("patch other via edit: %+v", e)
	}
}

func TestDestroyUser(t *testing.T) {
	s := newServer(t)
	a, tokA := s.user(t, "A", "a@example.com")
	b, tokB := s.user(t, "B", "b@example.com")
	testutil.InsertMicropost(t, s.db, b.ID, "bye", time.Now())
	testutil.Follow(t, s.db, a.ID, b.ID)

	if e := s.do(t, http.MethodDelete, "/api/v1/users/"+a.ID, nil, tokB); e.Code != 403 || e.redirect(t) != "/" {
		t.Fatalf("non-admin destroy: %+v %s", e, e.Data)
	}

	s.makeAdmin(t, a.ID)
	e := s.do(t, http.MethodDelete, "/api/v1/users/"+a.ID, nil, tokA)
	out := decode[struct {
		Destroyed bool   `json:"destroyed"`
		Redirect  string `json:"redirect"`
	}](t, e)
	if e.Code != 0 || e.Msg != "Can't destroy yourself" || out.Destroyed || out.Redirect != "/users" {
		t.Fatalf("self destroy: %+v %s", e, e.Data)
	}

	e = s.do(t, http.MethodDelete, "/api/v1/users/"+b.ID, nil, tokA)
	if e.Code != 0 || e.Msg != "User destroyed." {
		t.Fatalf("destroy: %+v", e)
	}
	if s.count(t, &domain.User{}) != 1 || s.count(t, &domain.Micropost{}) != 0 || s.count(t, &domain.Relationship{}) != 0 {
		t.Error("destroy did not cascade")
	}
	if e := s.do(t, http.MethodDelete, "/api/v1/users/"+b.ID, nil, tokA); e.Code != 404 {
		t.Errorf("destroy missing: %+v", e)
	}
}

func TestRelationships(t *testing.T) {
	s := newServer(t)
	a, tokA := s.user(t, "A", "a@example.com")
	b, tokB := s.user(t, "B", "b@example.com")

	e := s.do(t, http.MethodPost, "/api/v1/relationships", map[string]string{"followedId": b.ID}, tokA)
	if e.Code != 0 {
		t.Fatalf("follow: %+v", e)
	}
	rel := decode[domain.Relationship](t, e)
	if rel.FollowerID != a.ID || rel.FollowedID != b.ID || s.count(t, &domain.Relationship{}) != 1 {
		t.Fatalf("rel = %+v", rel)
	}
	// 重复关注返回同一条
	e = s.do(t, http.MethodPost, "/api/v1/relationships", map[string]string{"followedId": b.ID}, tokA)
	if decode[domain.Relationship](t, e).ID != rel.ID || s.count(t, &domain.Relationship{}) != 1 {
		t.Error("duplicate follow created a second row")
	}

	if e := s.do(t, http.MethodPost, "/api/v1/relationships", map[string]string{"followedId": a.ID}, tokA); e.Code != 400 {
		t.Errorf("self follow: %+v", e)
	}
	if e := s.do(t, http.MethodPost, "/api/v1/relationships", map[string]string{"followedId": "nobody"}, tokA); e.Code != 404 {
		t.Errorf("follow missing: %+v", e)
	}
	if e := s.do(t, http.MethodPost, "/api/v1/relationships", map[string]string{}, tokA); e.Code != 400 {
		t.Errorf("follow without id: %+v", e)
	}

	following := decode[struct {
		List  []domain.User `json:"list"`
		Total int64         `json:"total"`
	}](t, s.do(t, http.MethodGet, "/api/v1/users/"+a.ID+"/following", nil, tokB))
	if following.Total != 1 || following.List[0].ID != b.ID {
		t.Errorf("following = %+v", following)
	}
	followers := decode[struct {
		Total int64 `json:"total"`
	}](t, s.do(t, http.MethodGet, "/api/v1/users/"+b.ID+"/followers", nil, tokB))
	if followers.Total != 1 {
		t.Errorf("followers = %+v", followers)
	}
	if e := s.do(t, http.MethodGet, "/api/v1/users/nobody/followers", nil, tokB); e.Code != 404 {
		t.Errorf("followers of missing user: %+v", e)
	}

	// 只有关注者本人能取关
	if e := s.do(t, http.MethodDelete, "/api/v1/relationships/"+rel.ID, nil, tokB); e.Code != 403 {
		t.Errorf("unfollow by followed: %+v", e)
	}
	if e := s.do(t, http.MethodDelete, "/api/v1/relationships/"+rel.ID, nil, tokA); e.Code != 0 {
		t.Errorf("unfollow: %+v", e)
	}
	if s.count(t, &domain.Relationship{}) != 0 {
		t.Error("relationship not destroyed")
	}
	if e := s.do(t, http.MethodDelete, "/api/v1/relationships/"+rel.ID, nil, tokA); e.Code != 404 {
		t.Errorf("unfollow twice: %+v", e)
	}
}

func TestMicroposts(t *testing.T) {
	s := newServer(t)
	a, tokA := s.user(t, "A", "a@example.com")
	_, tokB := s.user(t, "B", "b@example.com")

	e := s.do(t, http.MethodPost, "/api/v1/microposts", map[string]any{
		"content": "hello", "userId": "someone-else", "id": "fixed", "createdAt": "2001-01-01T00:00:00Z",
	}, tokA)
	if e.Code != 0 {
		t.Fatalf("create: %+v %s", e, e.Data)
	}
	m := decode[domain.Micropost](t, e)
	if m.UserID != a.ID || m.ID == "fixed" || m.CreatedAt.Year() == 2001 {
		t.Errorf("client controlled server fields: %+v", m)
	}

	for _, content := range []string{"   ", strings.Repeat("a", 141)} {
		e := s.do(t, http.MethodPost, "/api/v1/microposts", map[string]string{"content": content}, tokA)
		if e.Code != 400 || !strings.Contains(string(e.Data), "content") {
			t.Errorf("content %q: %+v %s", content, e, e.Data)
		}
	}
	if e := s.do(t, http.MethodPost, "/api/v1/microposts", map[string]string{"content": strings.Repeat("a", 140)}, tokA); e.Code != 0 {
		t.Errorf("140 chars rejected: %+v", e)
	}

	list := decode[struct {
		Total int64 `json:"total"`
	}](t, s.do(t, http.MethodGet, "/api/v1/microposts", nil, tokA))
	if list.Total != 2 {
		t.Errorf("own list total = %d", list.Total)
	}
	if n := decode[struct {
		Total int64 `json:"total"`
	}](t, s.do(t, http.MethodGet, "/api/v1/microposts", nil, tokB)).Total; n != 0 {
		t.Errorf("other user's list total = %d", n)
	}

	if e := s.do(t, http.MethodGet, "/api/v1/microposts/"+m.ID, nil, tokB); e.Code != 403 {
		t.Errorf("get other's: %+v", e)
	}
	if e := s.do(t, http.MethodDelete, "/api/v1/microposts/"+m.ID, nil, tokB); e.Code != 403 {
		t.Errorf("delete other's: %+v", e)
	}
	if e := s.do(t, http.MethodGet, "/api/v1/microposts/"+m.ID, nil, tokA); e.Code != 0 {
		t.Errorf("get own: %+v", e)
	}
	if e := s.do(t, http.MethodDelete, "/api/v1/microposts/"+m.ID, nil, tokA); e.Code != 0 {
		t.Errorf("delete own: %+v", e)
	}
	if e := s.do(t, http.MethodGet, "/api/v1/microposts/"+m.ID, nil, tokA); e.Code != 404 {
		t.Errorf("get deleted: %+v", e)
	}
}

func TestFeedAndProfile(t *testing.T) {
	s := newServer(t)
	a, tokA := s.user(t, "A", "a@example.com")
	b, _ := s.user(t, "B", "b@example.com")
	c, _ := s.user(t, "C", "c@example.com")
	rel := testutil.Follow(t, s.db, a.ID, b.ID)

	t0 := time.Now().Add(-time.Hour)
	own := testutil.InsertMicropost(t, s.db, a.ID, "own", t0)
	followed := testutil.InsertMicropost(t, s.db, b.ID, "followed", t0.Add(time.Minute))
	testutil.InsertMicropost(t, s.db, c.ID, "stranger", t0.Add(2*time.Minute))

	feed := decode[struct {
		List  []domain.Micropost `json:"list"`
		Total int64              `json:"total"`
		Size  int                `json:"size"`
	}](t, s.do(t, http.MethodGet, "/api/v1/feed", nil, tokA))
	if feed.Total != 2 || len(feed.List) != 2 || feed.Size != domain.DefaultPageSize {
		t.Fatalf("feed = %+v", feed)
	}
	if feed.List[0].ID != followed.ID || feed.List[1].ID != own.ID {
		t.Errorf("feed order = %s, %s", feed.List[0].Content, feed.List[1].Content)
	}

	page2 := decode[struct {
		List []domain.Micropost `json:"list"`
		Page int                `json:"page"`
	}](t, s.do(t, http.MethodGet, "/api/v1/feed?page=2&size=1", nil, tokA))
	if page2.Page != 2 || len(page2.List) != 1 || page2.List[0].ID != own.ID {
		t.Errorf("page 2 = %+v", page2)
	}

	prof := decode[struct {
		User           domain.User          `json:"user"`
		MicropostCount int64                `json:"micropostCount"`
		FollowerCount  int64                `json:"followerCount"`
		Relationship   *domain.Relationship `json:"relationship"`
		Microposts     struct {
			List []domain.Micropost `json:"list"`
		} `json:"microposts"`
	}](t, s.do(t, http.MethodGet, "/api/v1/users/"+b.ID, nil, tokA))
	if prof.User.ID != b.ID || prof.MicropostCount != 1 || prof.FollowerCount != 1 || len(prof.Microposts.List) != 1 {
		t.Errorf("profile = %+v", prof)
	}
	if prof.Relationship == nil || prof.Relationship.ID != rel.ID {
		t.Errorf("relationship = %+v", prof.Relationship)
	}
	if e := s.do(t, http.MethodGet, "/api/v1/users/nobody", nil, ""); e.Code != 404 {
		t.Errorf("missing profile: %+v", e)
	}
}

func TestUserIndexSearch(t *testing.T) {
	s := newServer(t)
	_, tok := s.user(t, "Alice", "alice@example.com")
	s.user(t, "Bob", "bob@example.com")

	all := decode[struct {
		Total int64 `json:"total"`
	}](t, s.do(t, http.MethodGet, "/api/v1/users", nil, tok))
	if all.Total != 2 {
		t.Errorf("total = %d", all.Total)
	}
	hit := decode[struct {
		List []domain.User `json:"list"`
	}](t, s.do(t, http.MethodGet, "/api/v1/users?q=bob", nil, tok))
	if len(hit.List) != 1 || hit.List[0].Name != "Bob" {
		t.Errorf("search = %+v", hit)
	}
}

func TestAdminEngine(t *testing.T) {
	s := newServer(t)
	root, tokRoot := s.user(t, "Root", "root@example.com")
	u, tokU := s.user(t, "U", "u@example.com")

	adm := func(method, path, tok string) envelope {
		e, _ := s.call(t, s.admin, method, path, nil, tok)
		return e
	}

	if e := adm(http.MethodGet, "/admin/v1/users", ""); e.Code != 401 || e.redirect(t) != "/signin" {
		t.Errorf("anonymous admin: %+v", e)
	}
	if e := adm(http.MethodGet, "/admin/v1/users", tokU); e.Code != 403 || e.redirect(t) != "/" {
		t.Errorf("non-admin admin: %+v", e)
	}

	s.makeAdmin(t, root.ID)
	list := decode[struct {
		Total int64 `json:"total"`
	}](t, adm(http.MethodGet, "/admin/v1/users?q=u@", tokRoot))
	if list.Total != 1 {
		t.Errorf("admin search total = %d", list.Total)
	}

	if e := adm(http.MethodPost, "/admin/v1/users/"+root.ID+"/admin", tokRoot); e.Code != 403 {
		t.Errorf("toggle self: %+v", e)
	}
	e := adm(http.MethodPost, "/admin/v1/users/"+u.ID+"/admin", tokRoot)
	if e.Code != 0 || !decode[domain.User](t, e).Admin {
		t.Fatalf("promote: %+v %s", e, e.Data)
	}
	// 角色随数据库实时生效，不必重新登录
	if e := adm(http.MethodGet, "/admin/v1/users", tokU); e.Code != 0 {
		t.Errorf("promoted user denied: %+v", e)
	}

	if e := adm(http.MethodDelete, "/admin/v1/users/"+root.ID, tokRoot); e.Msg != "Can't destroy yourself" {
		t.Errorf("admin self destroy: %+v", e)
	}
	if e := adm(http.MethodDelete, "/admin/v1/users/"+u.ID, tokRoot); e.Code != 0 || e.Msg != "User destroyed." {
		t.Errorf("admin destroy: %+v", e)
	}
	if s.count(t, &domain.User{}) != 1 {
		t.Error("user not destroyed")
	}
}
