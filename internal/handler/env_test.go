package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"travelblog/internal/auth"
	"travelblog/internal/errors"
	"travelblog/internal/repository"
	"travelblog/internal/service"
	"travelblog/internal/storage"
	"travelblog/internal/testdb"
)

const testSecret = "test-secret-test-secret-test-secret"

// fakeStore records what reaches object storage.
type fakeStore struct {
	puts    []storage.PutOptions
	removed []string
}

func (f *fakeStore) Put(ctx context.Context, r io.Reader, opts storage.PutOptions) (*storage.Object, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return nil, err
	}
	f.puts = append(f.puts, opts)
	return &storage.Object{
		URL:      "https://res.cloudinary.com/demo/image/upload/" + opts.Folder + "/" + opts.PublicID + ".jpg",
		PublicID: opts.Folder + "/" + opts.PublicID,
	}, nil
}

func (f *fakeStore) Remove(ctx context.Context, publicID string) error {
	f.removed = append(f.removed, publicID)
	return nil
}

type testEnv struct {
	e         *echo.Echo
	db        *gorm.DB
	sessions  *auth.SessionService
	store     *fakeStore
	auth      *AuthHandler
	posts     *PostHandler
	upload    *UploadHandler
	dashboard *DashboardHandler
	users     repository.UserRepository
	authSvc   service.AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gdb := testdb.New(t)
	users := repository.NewUserRepository(gdb)
	store := &fakeStore{}
	images := service.NewImageService(store, "travel-blog")
	posts := service.NewPostService(repository.NewPostRepository(gdb), images, nil)
	authSvc := service.NewAuthService(users)
	sessions := auth.NewSessionService(testSecret, time.Hour)

	e := echo.New()
	e.Validator = NewValidator()

	return &testEnv{
		e:         e,
		db:        gdb,
		sessions:  sessions,
		store:     store,
		auth:      NewAuthHandler(authSvc, sessions, false),
		posts:     NewPostHandler(posts),
		upload:    NewUploadHandler(images),
		dashboard: NewDashboardHandler(posts),
		users:     users,
		authSvc:   authSvc,
	}
}

func (env *testEnv) doJSONRequest(method, target string, body any) (*httptest.ResponseRecorder, echo.Context) {
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			raw, _ := json.Marshal(b)
			reader = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return rec, env.e.NewContext(req, rec)
}

func withID(c echo.Context, id string) echo.Context {
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c
}

func requireHTTPError(t *testing.T, err error, status int, code string) {
	t.Helper()
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected *echo.HTTPError, got %T: %v", err, err)
	require.Equal(t, status, he.Code)
	resp, ok := he.Message.(errors.ErrorResponse)
	require.True(t, ok, "expected ErrorResponse message, got %T", he.Message)
	require.Equal(t, code, resp.Code)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}
