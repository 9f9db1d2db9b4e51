package client

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uia-acad/notas/core"
	"github.com/uia-acad/notas/core/grading"
	"github.com/uia-acad/notas/core/student"
	"github.com/uia-acad/notas/services/mockapi"
	testutil "github.com/uia-acad/notas/tests"
)

// sessionStub satisfies SessionSource and counts the calls the client
// makes on it.
type sessionStub struct {
	mu          sync.Mutex
	token       string
	touches     int
	invalidated int
}

func (s *sessionStub) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *sessionStub) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touches++
}

func (s *sessionStub) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidated++
	s.token = ""
}

func (s *sessionStub) counts() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touches, s.invalidated
}

const (
	testAdminEmail    = "admin@test.edu"
	testAdminPassword = "sekret1"
)

func newTestAPI(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(mockapi.NewServer(&mockapi.Options{
		DisableReqLogs: true,
		Debug:          true,
		AdminEmail:     testAdminEmail,
		AdminPassword:  testAdminPassword,
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, api *httptest.Server, sess *sessionStub) *Client {
	t.Helper()
	conf := &core.Config{
		APIBaseURL:     api.URL + "/api",
		RequestTimeout: 5 * time.Second,
	}
	return New(conf, sess, testutil.NopLogger{})
}

func signIn(t *testing.T, c *Client, sess *sessionStub) {
	t.Helper()
	token, err := c.Login(context.Background(), Credentials{Email: testAdminEmail, Password: testAdminPassword})
	require.NoError(t, err)
	sess.mu.Lock()
	sess.token = token
	sess.mu.Unlock()
}

func TestLogin(t *testing.T) {
	api := newTestAPI(t)
	sess := &sessionStub{}
	c := newTestClient(t, api, sess)
	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		token, err := c.Login(ctx, Credentials{Email: testAdminEmail, Password: testAdminPassword})
		require.NoError(t, err)
		assert.NotEmpty(t, token)
	})

	t.Run("email is cleaned before sending", func(t *testing.T) {
		token, err := c.Login(ctx, Credentials{Email: "  Admin@Test.edu ", Password: testAdminPassword})
		require.NoError(t, err)
		assert.NotEmpty(t, token)
	})

	t.Run("wrong password collapses to invalid credentials", func(t *testing.T) {
		_, err := c.Login(ctx, Credentials{Email: testAdminEmail, Password: "wrong66"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("local validation rejects malformed email", func(t *testing.T) {
		_, err := c.Login(ctx, Credentials{Email: "not-an-email", Password: testAdminPassword})
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("local validation rejects short password", func(t *testing.T) {
		_, err := c.Login(ctx, Credentials{Email: testAdminEmail, Password: "abc"})
		require.Error(t, err)
	})
}

// The login endpoint's 401, 403 and 404 must be indistinguishable to the
// caller.
func TestLogin_statusCollapse(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound} {
		api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))
		sess := &sessionStub{}
		c := newTestClient(t, api, sess)

		_, err := c.Login(context.Background(), Credentials{Email: testAdminEmail, Password: testAdminPassword})
		assert.ErrorIs(t, err, ErrInvalidCredentials, "status %d", status)

		_, invalidated := sess.counts()
		assert.Zero(t, invalidated, "login rejection must not tear down the session")
		api.Close()
	}
}

func TestRejectedToken(t *testing.T) {
	api := newTestAPI(t)
	sess := &sessionStub{token: "stale.or.forged"}
	c := newTestClient(t, api, sess)

	_, err := c.ListStudents(context.Background())
	assert.ErrorIs(t, err, ErrSessionInvalid)

	_, invalidated := sess.counts()
	assert.Equal(t, 1, invalidated)
	assert.Empty(t, sess.Token())
}

func TestNetworkUseCountsAsActivity(t *testing.T) {
	api := newTestAPI(t)
	sess := &sessionStub{}
	c := newTestClient(t, api, sess)
	signIn(t, c, sess)

	before, _ := sess.counts()
	_, err := c.ListStudents(context.Background())
	require.NoError(t, err)
	_, err = c.ListRubrics(context.Background())
	require.NoError(t, err)

	after, _ := sess.counts()
	assert.Equal(t, before+2, after)
}

func TestStudents(t *testing.T) {
	api := newTestAPI(t)
	sess := &sessionStub{}
	c := newTestClient(t, api, sess)
	signIn(t, c, sess)
	ctx := context.Background()

	st, err := c.CreateStudent(ctx, student.NewStudent{
		FirstName: "Ana",
		LastName:  "Pérez",
		Matricula: "MED2024001", // cleaned to lowercase locally
		Email:     "aperez@test.edu",
	})
	require.NoError(t, err)
	assert.Equal(t, "med2024001", st.Matricula)

	students, err := c.ListStudents(ctx)
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "Ana Pérez", students[0].FullName())

	got, err := c.GetStudent(ctx, st.ID)
	require.NoError(t, err)
	assert.Equal(t, st, got)

	t.Run("invalid create never leaves the client", func(t *testing.T) {
		_, err := c.CreateStudent(ctx, student.NewStudent{FirstName: "Eva"})
		require.Error(t, err)
	})

	t.Run("import report", func(t *testing.T) {
		roster := "Nombre,Apellido,Matricula,Email\nJuan,Santos,med2024002,jsantos@test.edu\n"
		report, err := c.ImportStudents(ctx, "roster.csv", strings.NewReader(roster))
		require.NoError(t, err)
		assert.Equal(t, 1, report.Created)
		assert.Equal(t, []string{"med2024002"}, report.Details.Created)
	})
}

func TestGrades(t *testing.T) {
	api := newTestAPI(t)
	sess := &sessionStub{}
	c := newTestClient(t, api, sess)
	signIn(t, c, sess)
	ctx := context.Background()

	st, err := c.CreateStudent(ctx, student.NewStudent{
		FirstName: "Ana", LastName: "Pérez", Matricula: "med2024001", Email: "aperez@test.edu",
	})
	require.NoError(t, err)

	require.NoError(t, c.InitializeWeeks(ctx, st.ID))

	recs, err := c.StudentGrades(ctx, st.ID)
	require.NoError(t, err)
	require.Len(t, recs, 13)

	target := recs[1] // week 3

	t.Run("update round trip", func(t *testing.T) {
		updated, err := c.UpdateGrade(ctx, target.ID, grading.Update{Week: target.Week, Field: "Quices", Value: 85})
		require.NoError(t, err)
		assert.Equal(t, 85.0, updated.Quices)
	})

	t.Run("out of range is rejected locally", func(t *testing.T) {
		before, _ := sess.counts()
		_, err := c.UpdateGrade(ctx, target.ID, grading.Update{Week: target.Week, Field: "Quices", Value: 101})
		require.Error(t, err)
		var vErr *core.ValidationError
		assert.ErrorAs(t, err, &vErr)

		after, _ := sess.counts()
		assert.Equal(t, before, after, "rejected value must not make the round-trip")
	})

	t.Run("server rejection surfaces as ValidationRejection", func(t *testing.T) {
		// In-range value on a week-gated rubric: passes local checks,
		// bounces off the server's policy.
		_, err := c.UpdateGrade(ctx, target.ID, grading.Update{Week: target.Week, Field: "Parcial_i", Value: 80})
		var rej *ValidationRejection
		require.ErrorAs(t, err, &rej)
		assert.Contains(t, rej.Error(), "only available in week 5")
	})

	t.Run("final grade breakdown", func(t *testing.T) {
		fg, err := c.FinalGrade(ctx, st.ID)
		require.NoError(t, err)
		assert.Greater(t, fg.Final, 0.0)
		visible := fg.Visible()
		require.Len(t, visible, 1)
		assert.Equal(t, grading.CodeQuices, visible[0].Code)
	})

	t.Run("history", func(t *testing.T) {
		entries, err := c.GradeHistory(ctx, target.ID)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "Quices", entries[0].Field)

		all, err := c.StudentHistory(ctx, st.ID, 0)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("export download", func(t *testing.T) {
		dl, err := c.ExportGrades(ctx, st.ID)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(dl.Data, []byte("Semana")))
		assert.Equal(t, fmt.Sprintf("notas_%s.csv", st.Matricula), dl.Filename,
			"filename must come from the Content-Disposition header")
		assert.Contains(t, dl.ContentType, "text/csv")
	})
}

func TestRequestIDHeader(t *testing.T) {
	var gotRequestID string
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRequestID = r.Header.Get("X-Request-ID")
		_, _ = w.Write([]byte("[]"))
	}))
	defer api.Close()

	sess := &sessionStub{}
	c := newTestClient(t, api, sess)
	_, err := c.ListStudents(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, gotRequestID)
}

func TestAPIErrorDetail(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"string detail", `{"detail": "boom"}`, "boom"},
		{"list detail", `{"detail": [{"loc": ["body", "x"], "msg": "bad value"}]}`, "bad value"},
		{"no body", ``, "server error (HTTP 500), please try again"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer api.Close()

			c := newTestClient(t, api, &sessionStub{})
			_, err := c.ListStudents(context.Background())
			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.want, apiErr.Error())
			assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
		})
	}
}
