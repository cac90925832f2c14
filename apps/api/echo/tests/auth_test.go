package tests

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"

	echoapi "github.com/trezcool/dynamiclms/apps/api/echo"
	"github.com/trezcool/dynamiclms/core/user"
	"github.com/trezcool/dynamiclms/storage/database/fixtures"
	"github.com/trezcool/dynamiclms/tests"
)

func Test_home(t *testing.T) {
	app := setup(t)

	req, rec := newRequest(http.MethodGet, "/")
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, http.StatusOK)
	}
	if got, want := rec.Body.String(), "Welcome to Dynamic LMS API!"; got != want {
		t.Errorf("failed! body = %q; want %q", got, want)
	}
}

func Test_authApi_login(t *testing.T) {
	app := setup(t)

	prof := getUser(t, app, fixtures.ProfessorID)
	student := getUser(t, app, fixtures.StudentID)
	alice := getUser(t, app, "student-2")

	type extraTest struct {
		usr  user.User
		home string
	}
	tests := []httpTest{
		{
			name: "required fields", wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"email": "this field is required", "password": "this field is required"}),
		},
		{
			name: "invalid email", wantCode: http.StatusBadRequest,
			body:     marchallObj(t, user.Credentials{Email: "lol", Password: "lol"}),
			wantData: marchallObj(t, map[string]string{"email": "email must be a valid email address"}),
		},
		{
			name:  "professor by email",
			body:  marchallObj(t, user.Credentials{Email: " Jane.Smith@University.edu ", Password: "lol", Role: user.RoleProfessor}),
			extra: extraTest{usr: prof, home: "/prof"},
		},
		{
			name:  "role defaults to professor",
			body:  marchallObj(t, user.Credentials{Email: "nobody@test.cd", Password: "lol"}),
			extra: extraTest{usr: prof, home: "/prof"},
		},
		{
			name:  "student by email",
			body:  marchallObj(t, user.Credentials{Email: alice.Email, Password: "lol", Role: user.RoleStudent}),
			extra: extraTest{usr: alice, home: "/student"},
		},
		{
			name:  "unknown student falls back to the default identity",
			body:  marchallObj(t, user.Credentials{Email: "nobody@test.cd", Password: "lol", Role: user.RoleStudent}),
			extra: extraTest{usr: student, home: "/student"},
		},
		{
			name:  "email of another role falls back to the default identity",
			body:  marchallObj(t, user.Credentials{Email: prof.Email, Password: "lol", Role: user.RoleStudent}),
			extra: extraTest{usr: student, home: "/student"},
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/v1/login"
		if tt.wantCode == 0 {
			tt.wantCode = http.StatusOK
		}

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.ServeHTTP(rec, req)

			extra, ok := tt.extra.(extraTest)
			if !ok {
				checkCodeAndData(t, tt, rec)
				return
			}

			// cannot guess the token.. check that it opens a session of the user
			if rec.Code != tt.wantCode {
				t.Fatalf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
			}
			var resp echoapi.LoginResponse
			unmarshal(t, rec, &resp)
			if resp.User.ID != extra.usr.ID {
				t.Errorf("failed! user = %v; want %v", resp.User.ID, extra.usr.ID)
			}
			if resp.Home != extra.home {
				t.Errorf("failed! home = %v; want %v", resp.Home, extra.home)
			}

			req, rec = newAuthRequest(http.MethodGet, "/v1"+extra.home+"/profile", resp.Token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, extra.usr)}, rec)
		})
	}
}

func Test_portalMiddleware(t *testing.T) {
	app := setup(t)

	prof := getUser(t, app, fixtures.ProfessorID)
	student := getUser(t, app, fixtures.StudentID)
	otherProf := testutil.CreateUser(t, app.repos.Users, "Dr. Alan Turing", "alan.turing@university.edu", user.RoleProfessor)
	ghost := user.User{ID: "ghost", Name: "Ghost", Email: "ghost@test.cd", Role: user.RoleStudent}

	now := time.Now()
	expiredToken, err := echoapi.GenerateToken(&echoapi.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   student.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
		},
		Role: user.RoleStudent,
	}, app.conf.SecretKey)
	if err != nil {
		t.Fatalf("GenerateToken() failed: %v", err)
	}
	foreignToken, err := echoapi.GenerateToken(echoapi.GetUserClaims(student, app.conf), "another secret")
	if err != nil {
		t.Fatalf("GenerateToken() failed: %v", err)
	}

	tests := []httpTest{
		{name: "professor: default identity", path: "/v1/prof/profile", wantData: marchallObj(t, prof)},
		{name: "student: default identity", path: "/v1/student/profile", wantData: marchallObj(t, student)},
		{name: "professor: session identity", path: "/v1/prof/profile", token: getToken(t, app.conf, otherProf), wantData: marchallObj(t, otherProf)},
		{
			name: "student token on the professor portal", path: "/v1/prof/profile", token: getToken(t, app.conf, student),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{
			name: "professor token on the student portal", path: "/v1/student/courses", token: getToken(t, app.conf, prof),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{
			name: "malformed token", path: "/v1/student/profile", token: "lol",
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errUnauthorized),
		},
		{
			name: "expired token", path: "/v1/student/profile", token: expiredToken,
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errUnauthorized),
		},
		{
			name: "token signed with another secret", path: "/v1/student/profile", token: foreignToken,
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errUnauthorized),
		},
		{
			name: "unknown user", path: "/v1/student/profile", token: getToken(t, app.conf, ghost),
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errUnauthorized),
		},
	}
	runHTTPTests(t, app, tests)

	t.Run("not a bearer token", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/prof/profile")
		req.Header.Set("Authorization", "Basic bG9sOmxvbA==")
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errUnauthorized)}, rec)
	})
}

func Test_metrics(t *testing.T) {
	app := setup(t)

	for _, path := range []string{"/v1/prof/courses/1", "/v1/prof/courses/999"} {
		req, rec := newRequest(http.MethodGet, path)
		app.ServeHTTP(rec, req)
	}

	req, rec := newRequest(http.MethodGet, "/metrics")
	app.MetricsHandler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusOK)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`lms_http_requests_total{code="200",method="GET",route="/v1/prof/courses/:id"} 1`,
		`lms_http_requests_total{code="404",method="GET",route="/v1/prof/courses/:id"} 1`,
		"lms_http_request_duration_seconds_bucket",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("failed! metrics do not contain %q", want)
		}
	}
}
