package app_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"worksync/internal/app"
	"worksync/internal/chat"
	"worksync/internal/model"
	"worksync/internal/pkg/mailer"
	"worksync/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type harness struct {
	t   *testing.T
	app *app.App
	fx  *testutil.Fixtures
}

type envelope struct {
	Status      string          `json:"status"`
	Token       string          `json:"token"`
	Results     *int            `json:"results"`
	UnreadCount *int64          `json:"unreadCount"`
	Message     string          `json:"message"`
	Data        json.RawMessage `json:"data"`
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := testutil.SetupTestDB(t)
	cfg := testutil.TestConfig()

	a, err := app.New(cfg, db, mailer.New(&cfg.Mail, zap.NewNop()), zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, a.Start())
	t.Cleanup(a.Stop)

	return &harness{t: t, app: a, fx: testutil.NewFixtures(t, db)}
}

func (h *harness) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	h.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(h.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.app.Engine.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(h.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

// login 通过接口登录 fixture 用户并返回 token
func (h *harness) login(user *model.User) string {
	h.t.Helper()
	w, env := h.do(http.MethodPost, "/api/users/login", "", map[string]string{
		"email":    user.Email,
		"password": testutil.DefaultPassword,
	})
	require.Equal(h.t, http.StatusOK, w.Code, w.Body.String())
	require.NotEmpty(h.t, env.Token)
	return env.Token
}

func decodeData(t *testing.T, env envelope, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, v))
}

func TestHealthAndNoRoute(t *testing.T) {
	h := newHarness(t)

	w, env := h.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", env.Status)

	w, env = h.do(http.MethodGet, "/api/nothing-here?x=1", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "error", env.Status)
	assert.Equal(t, "Can't find /api/nothing-here?x=1 on this server!", env.Message)
}

func TestSignUpSetsCookieAndProtectsRoutes(t *testing.T) {
	h := newHarness(t)

	w, env := h.do(http.MethodGet, "/api/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "You are not logged in! Please log in to get access.", env.Message)

	w, env = h.do(http.MethodPost, "/api/users/signup", "", map[string]string{
		"name": "Ada", "email": "ada@example.com", "password": "password123", "passwordConfirm": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.NotEmpty(t, env.Token)
	assert.NotContains(t, string(env.Data), "password")

	cookie := w.Result().Cookies()
	require.Len(t, cookie, 1)
	assert.Equal(t, "jwt", cookie[0].Name)
	assert.True(t, cookie[0].HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cookie[0].SameSite)

	// cookie 与 Bearer 都可以认证
	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.AddCookie(cookie[0])
	rec := httptest.NewRecorder()
	h.app.Engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	w, env = h.do(http.MethodGet, "/api/users/me", env.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var data struct {
		User struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	decodeData(t, env, &data)
	assert.Equal(t, "ada@example.com", data.User.Email)

	w, env = h.do(http.MethodGet, "/api/users/me", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid token. Please log in again!", env.Message)
}

func TestSignUpValidation(t *testing.T) {
	h := newHarness(t)

	w, env := h.do(http.MethodPost, "/api/users/signup", "", map[string]string{
		"name": "Ada", "email": "not-an-email", "password": "password123", "passwordConfirm": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid input data. field 'email' must be a valid email address", env.Message)

	w, env = h.do(http.MethodPost, "/api/users/login", "", map[string]string{"email": "ada@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Please provide email and password", env.Message)
}

func TestLogoutOverwritesCookie(t *testing.T) {
	h := newHarness(t)

	w, env := h.do(http.MethodGet, "/api/users/logout", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", env.Status)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "loggedout", cookies[0].Value)

	// loggedout cookie 视为未登录
	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.AddCookie(&http.Cookie{Name: "jwt", Value: "loggedout"})
	rec := httptest.NewRecorder()
	h.app.Engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTeamFlow(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := h.fx.CreateUser(ctx, "Admin", "admin@example.com")
	member := h.fx.CreateUser(ctx, "Member", "member@example.com")
	adminToken := h.login(admin)
	memberToken := h.login(member)

	w, env := h.do(http.MethodPost, "/api/teams", adminToken, map[string]string{"name": "Core"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Team struct {
			ID int64 `json:"id"`
		} `json:"team"`
	}
	decodeData(t, env, &created)
	teamPath := fmt.Sprintf("/api/teams/%d", created.Team.ID)

	w, env = h.do(http.MethodGet, teamPath, memberToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "You do not have permission to access this team", env.Message)

	w, _ = h.do(http.MethodPost, teamPath+"/members", adminToken, map[string]interface{}{"userId": member.ID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, env = h.do(http.MethodPost, teamPath+"/members", adminToken, map[string]interface{}{"userId": member.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "User is already a member of this team", env.Message)

	w, env = h.do(http.MethodGet, "/api/teams", memberToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, env.Results)
	assert.Equal(t, 1, *env.Results)

	w, _ = h.do(http.MethodPost, teamPath+"/messages", memberToken, map[string]string{"content": "hi admin"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, env = h.do(http.MethodGet, "/api/teams/unread-counts", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var unread struct {
		UnreadCounts map[string]int64 `json:"unreadCounts"`
	}
	decodeData(t, env, &unread)
	assert.Equal(t, map[string]int64{fmt.Sprint(created.Team.ID): 1}, unread.UnreadCounts)

	w, env = h.do(http.MethodPatch, teamPath+"/messages/mark-read", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Messages marked as read", env.Message)
	assert.JSONEq(t, `{"modifiedCount":1}`, string(env.Data))

	// 成员收到入队通知
	w, env = h.do(http.MethodGet, "/api/notifications", memberToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, env.UnreadCount)
	assert.EqualValues(t, 1, *env.UnreadCount)

	w, _ = h.do(http.MethodDelete, teamPath, memberToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = h.do(http.MethodDelete, teamPath, adminToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w, env = h.do(http.MethodGet, teamPath, adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, fmt.Sprintf("Team with ID %d not found", created.Team.ID), env.Message)
}

func TestInvalidPathID(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	token := h.login(h.fx.CreateUser(ctx, "Ada", "ada@example.com"))
	w, env := h.do(http.MethodGet, "/api/teams/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Message, "Invalid id")
}

func TestTaskStatsEndpoints(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	worker := h.fx.CreateUser(ctx, "Worker", "worker@example.com")
	h.fx.CreateTask(ctx, nil, "a", "Pending", worker)
	h.fx.CreateTask(ctx, nil, "b", "Completed", worker)
	token := h.login(worker)

	w, env := h.do(http.MethodGet, "/api/tasks/stats/dashboard", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var dashboard struct {
		TotalTasks     int `json:"totalTasks"`
		CompletedTasks int `json:"completedTasks"`
	}
	decodeData(t, env, &dashboard)
	assert.Equal(t, 2, dashboard.TotalTasks)
	assert.Equal(t, 1, dashboard.CompletedTasks)

	w, env = h.do(http.MethodGet, "/api/tasks/stats/weekly", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var weekly struct {
		WeeklyData []struct {
			Created int `json:"created"`
		} `json:"weeklyData"`
	}
	decodeData(t, env, &weekly)
	require.Len(t, weekly.WeeklyData, 7)
	assert.Equal(t, 2, weekly.WeeklyData[6].Created)

	w, env = h.do(http.MethodGet, "/api/tasks?status=Done", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Message, "must be one of: Pending, In Progress, Completed")
}

func TestChatOverWebsocket(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := h.fx.CreateUser(ctx, "Admin", "admin@example.com")
	member := h.fx.CreateUser(ctx, "Member", "member@example.com")
	team := h.fx.CreateTeam(ctx, admin, "Core", member)
	adminToken := h.login(admin)
	memberToken := h.login(member)

	srv := httptest.NewServer(h.app.Engine)
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws"

	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?token="+adminToken, nil)
	require.NoError(t, err)
	defer conn.Close()

	readFrame := func() (string, json.RawMessage) {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
		var frame struct {
			Event string          `json:"event"`
			Data  json.RawMessage `json:"data"`
		}
		require.NoError(t, conn.ReadJSON(&frame))
		return frame.Event, frame.Data
	}

	require.NoError(t, conn.WriteJSON(map[string]interface{}{"event": chat.EventJoinTeam, "data": team.ID}))
	event, _ := readFrame()
	require.Equal(t, chat.EventJoinedTeam, event)

	// REST 发送的消息同样推送到房间
	w, _ := h.do(http.MethodPost, fmt.Sprintf("/api/teams/%d/messages", team.ID), memberToken, map[string]string{"content": "via rest"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	event, data := readFrame()
	require.Equal(t, chat.EventReceiveMessage, event)
	assert.Contains(t, string(data), "via rest")

	require.NoError(t, conn.WriteJSON(map[string]interface{}{
		"event": chat.EventSendMessage,
		"data":  map[string]interface{}{"content": "via socket", "teamId": fmt.Sprint(team.ID)},
	}))
	event, data = readFrame()
	require.Equal(t, chat.EventReceiveMessage, event)
	assert.Contains(t, string(data), "via socket")

	w, env := h.do(http.MethodGet, fmt.Sprintf("/api/teams/%d/messages", team.ID), memberToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, env.Results)
	assert.Equal(t, 2, *env.Results)
}

func TestRemovingMemberEvictsChatConnections(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := h.fx.CreateUser(ctx, "Admin", "admin@example.com")
	member := h.fx.CreateUser(ctx, "Member", "member@example.com")
	team := h.fx.CreateTeam(ctx, admin, "Core", member)
	adminToken := h.login(admin)

	srv := httptest.NewServer(h.app.Engine)
	defer srv.Close()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/api/ws?token="+h.login(member), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(map[string]interface{}{"event": chat.EventJoinTeam, "data": team.ID}))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	var frame struct {
		Event string `json:"event"`
	}
	require.NoError(t, conn.ReadJSON(&frame))
	require.Equal(t, chat.EventJoinedTeam, frame.Event)
	require.Equal(t, 1, h.app.Hub.RoomSize(team.ID))

	w, _ := h.do(http.MethodDelete, fmt.Sprintf("/api/teams/%d/members/%d", team.ID, member.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Zero(t, h.app.Hub.RoomSize(team.ID))

	w, _ = h.do(http.MethodPost, fmt.Sprintf("/api/teams/%d/messages", team.ID), adminToken, map[string]string{"content": "members only"})
	require.Equal(t, http.StatusCreated, w.Code)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err = conn.ReadMessage()
	assert.Error(t, err)
}
