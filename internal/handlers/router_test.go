package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-portal/portal-service/internal/models"
	"github.com/campus-portal/portal-service/internal/services"
)

func markBody(status string) map[string]interface{} {
	return map[string]interface{}{
		"courseId": "CS201",
		"date":     "2026-03-10",
		"records": []map[string]string{
			{"studentId": "STU001", "status": status},
			{"studentId": "STU002", "status": "Absent"},
		},
	}
}

func TestRequireAuth(t *testing.T) {
	f := newAPIFixture(t)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-token", http.StatusUnauthorized},
		{"valid token", "Bearer " + f.token(t, f.student1), http.StatusOK},
		{"scheme is case-insensitive", "bearer " + f.token(t, f.student1), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			f.router.ServeHTTP(w, req)

			requireStatus(t, w, tt.want)
			if tt.want == http.StatusUnauthorized {
				body := decode[ErrorResponse](t, w)
				assert.Equal(t, "Authentication required", body.Message)
			}
		})
	}
}

func TestRegisterLoginMe(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name":     "Kavya",
		"email":    "kavya@campus.edu",
		"password": "student123",
		"role":     "STUDENT",
	})
	requireStatus(t, w, http.StatusCreated)
	registered := decode[services.RegisterResponse](t, w)
	assert.Equal(t, "STU003", registered.StudentID)

	w = f.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "kavya@campus.edu",
		"password": "student123",
	})
	requireStatus(t, w, http.StatusOK)
	login := decode[models.LoginResponse](t, w)
	require.NotEmpty(t, login.Token)

	w = f.do(t, http.MethodGet, "/api/v1/auth/me", login.Token, nil)
	requireStatus(t, w, http.StatusOK)
	me := decode[models.UserView](t, w)
	assert.Equal(t, "kavya@campus.edu", me.Email)
	assert.Equal(t, "STU003", me.StudentID)

	t.Run("wrong password", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"email":    "kavya@campus.edu",
			"password": "nope-nope",
		})
		requireStatus(t, w, http.StatusUnauthorized)
	})

	t.Run("duplicate email", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
			"name":     "Kavya Again",
			"email":    "kavya@campus.edu",
			"password": "student123",
		})
		requireStatus(t, w, http.StatusBadRequest)
		assert.Equal(t, "Resource already exists", decode[ErrorResponse](t, w).Message)
	})

	t.Run("admin sign-up rejected", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
			"name":     "Mallory",
			"email":    "mallory@campus.edu",
			"password": "student123",
			"role":     "ADMIN",
		})
		requireStatus(t, w, http.StatusBadRequest)
		assert.Equal(t, "Validation failed", decode[ErrorResponse](t, w).Message)

		w = f.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"email":    "mallory@campus.edu",
			"password": "student123",
		})
		requireStatus(t, w, http.StatusUnauthorized)
	})

	t.Run("malformed json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString("{"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, req)
		requireStatus(t, w, http.StatusBadRequest)
		assert.Equal(t, "Invalid request payload", decode[ErrorResponse](t, w).Message)
	})
}

func TestRoleGates(t *testing.T) {
	f := newAPIFixture(t)

	student := f.token(t, f.student1)
	faculty := f.token(t, f.faculty)
	admin := f.token(t, f.admin)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   interface{}
		want   int
	}{
		{"student cannot mark attendance", http.MethodPost, "/api/v1/attendance", student, markBody("Present"), http.StatusForbidden},
		{"faculty marks attendance", http.MethodPost, "/api/v1/attendance", faculty, markBody("Present"), http.StatusOK},
		{"admin passes faculty gate", http.MethodPost, "/api/v1/attendance", admin, markBody("Absent"), http.StatusOK},
		{"student cannot read course report", http.MethodGet, "/api/v1/attendance/course/CS201", student, nil, http.StatusForbidden},
		{"student cannot create assignment", http.MethodPost, "/api/v1/assignments", student, map[string]string{"courseId": "CS201", "title": "Lab 1"}, http.StatusForbidden},
		{"faculty creates assignment", http.MethodPost, "/api/v1/assignments", faculty, map[string]string{"courseId": "CS201", "title": "Lab 1"}, http.StatusCreated},
		{"student cannot enroll", http.MethodPost, "/api/v1/courses/CS201/students", student, map[string][]string{"studentCodes": {"STU001"}}, http.StatusForbidden},
		{"student cannot open faculty dashboard", http.MethodGet, "/api/v1/dashboard/faculty/1", student, nil, http.StatusForbidden},
		{"faculty cannot reach admin", http.MethodGet, "/api/v1/admin/users", faculty, nil, http.StatusForbidden},
		{"student cannot reach admin", http.MethodGet, "/api/v1/admin/events", student, nil, http.StatusForbidden},
		{"admin lists users", http.MethodGet, "/api/v1/admin/users?role=STUDENT", admin, nil, http.StatusOK},
		{"any role lists courses", http.MethodGet, "/api/v1/courses", student, nil, http.StatusOK},
		{"public university info", http.MethodGet, "/api/v1/university/info", "", nil, http.StatusOK},
		{"public events feed", http.MethodGet, "/api/v1/university/events?category=sports", "", nil, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(t, tt.method, tt.path, tt.token, tt.body)
			requireStatus(t, w, tt.want)
			if tt.want == http.StatusForbidden {
				assert.Equal(t, "Access denied", decode[ErrorResponse](t, w).Message)
			}
		})
	}
}

func TestStudentOwnership(t *testing.T) {
	f := newAPIFixture(t)

	student := f.token(t, f.student1)
	faculty := f.token(t, f.faculty)

	tests := []struct {
		name  string
		path  string
		token string
		want  int
	}{
		{"own dashboard", "/api/v1/dashboard/student/STU001", student, http.StatusOK},
		{"other dashboard", "/api/v1/dashboard/student/STU002", student, http.StatusForbidden},
		{"own attendance", "/api/v1/attendance/student/STU001", student, http.StatusOK},
		{"other attendance", "/api/v1/attendance/student/STU002", student, http.StatusForbidden},
		{"own submissions", "/api/v1/assignments/student/STU001", student, http.StatusOK},
		{"other submissions", "/api/v1/assignments/student/STU002", student, http.StatusForbidden},
		{"faculty reads any dashboard", "/api/v1/dashboard/student/STU002", faculty, http.StatusOK},
		{"unknown student", "/api/v1/dashboard/student/STU999", faculty, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(t, http.MethodGet, tt.path, tt.token, nil)
			requireStatus(t, w, tt.want)

			if tt.want == http.StatusForbidden {
				body := decode[map[string]interface{}](t, w)
				details, ok := body["details"].(map[string]interface{})
				require.True(t, ok, "details: %v", body["details"])
				assert.Equal(t, "read", details["action"])
			}
		})
	}
}

func TestDashboardsOverHTTP(t *testing.T) {
	f := newAPIFixture(t)
	faculty := f.token(t, f.faculty)

	requireStatus(t, f.do(t, http.MethodPost, "/api/v1/attendance", faculty, markBody("Present")), http.StatusOK)

	w := f.do(t, http.MethodGet, "/api/v1/dashboard/student/STU001", f.token(t, f.student1), nil)
	requireStatus(t, w, http.StatusOK)
	student := decode[models.StudentDashboard](t, w)
	assert.Equal(t, models.StudentDashboard{
		AttendancePercent: 100,
		TotalClasses:      1,
		PresentClasses:    1,
	}, student)

	w = f.do(t, http.MethodGet, "/api/v1/dashboard/faculty/"+strconv.Itoa(int(f.faculty.ID)), faculty, nil)
	requireStatus(t, w, http.StatusOK)
	dash := decode[models.FacultyDashboard](t, w)
	require.Len(t, dash.Courses, 1)
	assert.Equal(t, "CS201", dash.Courses[0].CourseID)
	assert.Equal(t, int64(2), dash.Courses[0].Students)
	require.NotNil(t, dash.Courses[0].TodayAttendance)
	assert.Equal(t, int64(1), *dash.Courses[0].TodayAttendance)
	require.Len(t, dash.RecentAttendance, 1)
	assert.Equal(t, models.RecentAttendance{Date: "2026-03-10", Course: "CS201", Present: 1, Total: 2}, dash.RecentAttendance[0])

	t.Run("faculty cannot read another faculty dashboard", func(t *testing.T) {
		w := f.do(t, http.MethodGet, "/api/v1/dashboard/faculty/"+strconv.Itoa(int(f.admin.ID)), faculty, nil)
		requireStatus(t, w, http.StatusOK)
		dash := decode[models.FacultyDashboard](t, w)
		require.Len(t, dash.Courses, 1)
		assert.Equal(t, "CS201", dash.Courses[0].CourseID)
	})

	t.Run("day sheet", func(t *testing.T) {
		w := f.do(t, http.MethodGet, "/api/v1/attendance/course/CS201/date/2026-03-10", faculty, nil)
		requireStatus(t, w, http.StatusOK)
		day := decode[models.DayAttendance](t, w)
		assert.Len(t, day.Students, 2)
	})

	t.Run("malformed date", func(t *testing.T) {
		w := f.do(t, http.MethodGet, "/api/v1/attendance/course/CS201/date/10-03-2026", faculty, nil)
		requireStatus(t, w, http.StatusBadRequest)
	})

	t.Run("export", func(t *testing.T) {
		w := f.do(t, http.MethodGet, "/api/v1/attendance/course/CS201/export", faculty, nil)
		requireStatus(t, w, http.StatusOK)
		assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), "attendance-CS201.xlsx")
		assert.NotZero(t, w.Body.Len())
	})

	t.Run("export unknown course", func(t *testing.T) {
		w := f.do(t, http.MethodGet, "/api/v1/attendance/course/NOPE/export", faculty, nil)
		requireStatus(t, w, http.StatusNotFound)
	})
}

func uploadRequest(t *testing.T, token, assignmentID, fileName, content string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("assignmentId", assignmentID))
	if fileName != "" {
		part, err := mw.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/assignments/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestUploadAndEvaluate(t *testing.T) {
	f := newAPIFixture(t)

	assignment := &models.Assignment{CourseID: f.course.ID, Title: "Linked Lists"}
	require.NoError(t, f.db.Create(assignment).Error)
	assignmentID := strconv.Itoa(int(assignment.ID))

	student := f.token(t, f.student1)
	faculty := f.token(t, f.faculty)

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, uploadRequest(t, student, assignmentID, "lists.pdf", "%PDF-1.4"))
	requireStatus(t, w, http.StatusCreated)
	uploaded := decode[services.UploadResponse](t, w)
	assert.Equal(t, "lists.pdf", uploaded.FileName)
	assert.Contains(t, uploaded.FileURL, "/uploads/")

	// The stored file is served back from the upload directory.
	w = httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, uploaded.FileURL, nil))
	requireStatus(t, w, http.StatusOK)
	assert.Equal(t, "%PDF-1.4", w.Body.String())

	t.Run("upload rejections", func(t *testing.T) {
		tests := []struct {
			name         string
			token        string
			assignmentID string
			fileName     string
			want         int
		}{
			{"faculty cannot upload", faculty, assignmentID, "a.pdf", http.StatusForbidden},
			{"missing file", student, assignmentID, "", http.StatusBadRequest},
			{"bad assignment id", student, "abc", "a.pdf", http.StatusBadRequest},
			{"unknown assignment", student, "999", "a.pdf", http.StatusNotFound},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				w := httptest.NewRecorder()
				f.router.ServeHTTP(w, uploadRequest(t, tt.token, tt.assignmentID, tt.fileName, "x"))
				requireStatus(t, w, tt.want)
			})
		}
	})

	evaluatePath := "/api/v1/submissions/" + strconv.Itoa(int(uploaded.SubmissionID)) + "/evaluate"

	t.Run("score out of range", func(t *testing.T) {
		w := f.do(t, http.MethodPost, evaluatePath, faculty, map[string]int{"score": 150})
		requireStatus(t, w, http.StatusBadRequest)
		assert.Equal(t, "Validation failed", decode[ErrorResponse](t, w).Message)
	})

	t.Run("student cannot evaluate", func(t *testing.T) {
		w := f.do(t, http.MethodPost, evaluatePath, student, map[string]int{"score": 90})
		requireStatus(t, w, http.StatusForbidden)
	})

	w = f.do(t, http.MethodPost, evaluatePath, faculty, map[string]int{"score": 88})
	requireStatus(t, w, http.StatusOK)
	evaluated := decode[models.SubmissionView](t, w)
	assert.Equal(t, models.SubmissionEvaluated, evaluated.Status)
	require.NotNil(t, evaluated.Score)
	assert.Equal(t, 88, *evaluated.Score)
	assert.Equal(t, "Linked Lists", evaluated.AssignmentTitle)

	w = f.do(t, http.MethodGet, "/api/v1/assignments/course/CS201/submissions", faculty, nil)
	requireStatus(t, w, http.StatusOK)
	assert.Len(t, decode[[]models.SubmissionView](t, w), 1)

	t.Run("generate without model", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/api/v1/ai-feedback/submission/"+strconv.Itoa(int(uploaded.SubmissionID))+"/generate", faculty, nil)
		requireStatus(t, w, http.StatusServiceUnavailable)
	})
}

func TestAdminCampusCRUD(t *testing.T) {
	f := newAPIFixture(t)
	admin := f.token(t, f.admin)

	w := f.do(t, http.MethodPost, "/api/v1/admin/events", admin, map[string]string{
		"title":    "Tech Fest",
		"date":     "2026-04-02",
		"category": "Technical",
	})
	requireStatus(t, w, http.StatusCreated)
	event := decode[models.Event](t, w)

	w = f.do(t, http.MethodGet, "/api/v1/university/events/"+strconv.Itoa(int(event.ID)), "", nil)
	requireStatus(t, w, http.StatusOK)
	assert.Equal(t, "Tech Fest", decode[models.Event](t, w).Title)

	w = f.do(t, http.MethodPut, "/api/v1/admin/events/"+strconv.Itoa(int(event.ID)), admin, map[string]string{"location": "Main Hall"})
	requireStatus(t, w, http.StatusOK)
	assert.Equal(t, "Main Hall", decode[models.Event](t, w).Location)

	w = f.do(t, http.MethodDelete, "/api/v1/admin/events/"+strconv.Itoa(int(event.ID)), admin, nil)
	requireStatus(t, w, http.StatusOK)

	tests := []struct {
		name string
		path string
		want int
	}{
		{"deleted event", "/api/v1/university/events/" + strconv.Itoa(int(event.ID)), http.StatusNotFound},
		{"non-numeric id", "/api/v1/university/events/abc", http.StatusBadRequest},
		{"zero id", "/api/v1/university/events/0", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requireStatus(t, f.do(t, http.MethodGet, tt.path, "", nil), tt.want)
		})
	}
}

func TestOpsEndpoints(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodGet, "/health", "", nil)
	requireStatus(t, w, http.StatusOK)
	assert.Equal(t, "healthy", decode[map[string]interface{}](t, w)["status"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = f.do(t, http.MethodGet, "/metrics", "", nil)
	requireStatus(t, w, http.StatusOK)
	assert.Contains(t, w.Body.String(), "portal_http_requests_total")
}
