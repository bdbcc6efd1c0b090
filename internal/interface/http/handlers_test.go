package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/sneakerhub-api/internal/application"
	"github.com/oksasatya/sneakerhub-api/internal/domain/entity"
	repo "github.com/oksasatya/sneakerhub-api/internal/domain/repository"
	"github.com/oksasatya/sneakerhub-api/internal/interface/middleware"
	"github.com/oksasatya/sneakerhub-api/pkg/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	validation.Init()
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type envelope struct {
	Status  int               `json:"status"`
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Meta    json.RawMessage   `json:"meta"`
	Error   map[string]string `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func send(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func asUser(id string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.CtxUserIDKey, id)
		c.Next()
	}
}

type stubAuth struct {
	err      error
	register application.RegisterInput
	meID     string
	session  *application.Session
}

func (s *stubAuth) Register(_ context.Context, in application.RegisterInput) (*entity.User, error) {
	s.register = in
	if s.err != nil {
		return nil, s.err
	}
	return &entity.User{ID: "u-1", Username: in.Username, Email: in.Email, Role: entity.RoleUser}, nil
}

func (s *stubAuth) VerifyOtp(_ context.Context, in application.VerifyOTPInput) (*entity.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &entity.User{ID: "u-1", Email: in.Email, IsActive: true}, nil
}

func (s *stubAuth) ResendOtp(context.Context, application.ResendOTPInput) error { return s.err }

func (s *stubAuth) Login(context.Context, application.LoginInput) (*application.Session, error) {
	return s.session, s.err
}

func (s *stubAuth) Me(_ context.Context, userID string) (*entity.User, error) {
	s.meID = userID
	if s.err != nil {
		return nil, s.err
	}
	return &entity.User{ID: userID}, nil
}

func (s *stubAuth) LoginGoogle(_ context.Context, idToken string) (*application.Session, error) {
	if idToken == "" {
		return nil, application.ErrInvalidGoogleToken
	}
	return s.session, s.err
}

func authRouter(svc AuthUsecase) *gin.Engine {
	h := NewAuthHandler(svc, quietLogger())
	r := gin.New()
	g := r.Group("/api/auth")
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.POST("/verify-otp", h.VerifyOtp)
	g.POST("/resend-otp", h.ResendOtp)
	g.POST("/login-google", h.LoginGoogle)
	g.GET("/me", asUser("u-42"), h.Me)
	return r
}

func TestAuthHandler_Register(t *testing.T) {
	svc := &stubAuth{}
	r := authRouter(svc)

	w := send(r, http.MethodPost, "/api/auth/register", `{"fullName":"Jane","username":"jane","email":"jane@example.com","password":"Secret1","confirmPassword":"Secret1"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	env := decode(t, w)
	assert.True(t, env.Success)
	assert.Equal(t, "Success Registration", env.Message)
	assert.Equal(t, "jane", svc.register.Username)
	assert.NotContains(t, w.Body.String(), "password")

	w = send(r, http.MethodPost, "/api/auth/register", `{"fullName":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc.err = &application.ValidationError{Fields: map[string]string{"email": "must be a valid email"}}
	w = send(r, http.MethodPost, "/api/auth/register", `{}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	env = decode(t, w)
	assert.Equal(t, "validation failed", env.Message)
	assert.Equal(t, "must be a valid email", env.Error["email"])
}

func TestAuthHandler_LoginReturnsTokenAndExpiry(t *testing.T) {
	exp := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	r := authRouter(&stubAuth{session: &application.Session{Token: "tok", ExpiresAt: exp}})

	w := send(r, http.MethodPost, "/api/auth/login", `{"identifier":"jane","password":"Secret1"}`)
	require.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	assert.JSONEq(t, `"tok"`, string(env.Data))
	assert.JSONEq(t, `{"expiresAt":"2030-01-02T03:04:05Z"}`, string(env.Meta))

	w = send(r, http.MethodPost, "/api/auth/login-google", `{"idToken":"g"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	w = send(r, http.MethodPost, "/api/auth/login-google", `{}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_ErrorStatuses(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{application.ErrInvalidCredentials, http.StatusForbidden},
		{application.ErrEmailNotVerified, http.StatusForbidden},
		{application.ErrInvalidOTP, http.StatusBadRequest},
		{application.ErrUserNotFound, http.StatusNotFound},
		{application.ErrAlreadyActive, http.StatusConflict},
		{application.ErrMailDispatch, http.StatusBadGateway},
		{application.ErrStorageUnavailable, http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			r := authRouter(&stubAuth{err: tc.err})
			w := send(r, http.MethodPost, "/api/auth/verify-otp", `{"email":"a@b.co","otp":"123456"}`)
			assert.Equal(t, tc.want, w.Code)
			assert.False(t, decode(t, w).Success)
		})
	}
}

func TestWriteError_HidesWrappedDetailOn5xx(t *testing.T) {
	err := errors.Join(application.ErrStorageUnavailable, errors.New("dial tcp 10.0.0.5:5432"))
	r := authRouter(&stubAuth{err: err})
	w := send(r, http.MethodPost, "/api/auth/resend-otp", `{"email":"a@b.co"}`)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.NotContains(t, w.Body.String(), "10.0.0.5")
}

func TestAuthHandler_MeUsesAuthenticatedUser(t *testing.T) {
	svc := &stubAuth{}
	w := send(authRouter(svc), http.MethodGet, "/api/auth/me", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u-42", svc.meID)
}

type stubBrands struct {
	q   repo.ListQuery
	err error
}

func (s *stubBrands) Create(_ context.Context, in application.BrandInput) (*entity.Brand, error) {
	return &entity.Brand{ID: "b1", Name: in.Name, Icon: in.Icon}, s.err
}

func (s *stubBrands) Get(_ context.Context, id string) (*entity.Brand, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &entity.Brand{ID: id}, nil
}

func (s *stubBrands) List(_ context.Context, q repo.ListQuery) (*application.Page[entity.Brand], error) {
	s.q = q
	return &application.Page[entity.Brand]{Items: []entity.Brand{{ID: "b1"}}, Total: 21, Page: 2, Limit: 10}, nil
}

func (s *stubBrands) Update(_ context.Context, id string, in application.BrandUpdate) (*entity.Brand, error) {
	return &entity.Brand{ID: id, Name: in.Name}, s.err
}

func (s *stubBrands) Delete(_ context.Context, id string) (*entity.Brand, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &entity.Brand{ID: id}, nil
}

func brandRouter(svc BrandUsecase) *gin.Engine {
	h := NewBrandHandler(svc, quietLogger())
	r := gin.New()
	r.GET("/api/brand", h.FindAll)
	r.GET("/api/brand/:id", h.FindOne)
	r.POST("/api/brand", h.Create)
	r.PATCH("/api/brand/:id", h.Update)
	r.DELETE("/api/brand/:id", h.Remove)
	return r
}

func TestBrandHandler_ListPagination(t *testing.T) {
	svc := &stubBrands{}
	w := send(brandRouter(svc), http.MethodGet, "/api/brand?page=2&limit=10&search=ni", "")
	require.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	assert.JSONEq(t, `{"total":21,"totalPages":3,"current":2,"limit":10}`, string(env.Meta))
	assert.Equal(t, repo.ListQuery{Page: 2, Limit: 10, Search: "ni"}, svc.q)

	w = send(brandRouter(svc), http.MethodGet, "/api/brand?limit=1000", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = send(brandRouter(svc), http.MethodGet, "/api/brand?page=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = send(brandRouter(svc), http.MethodGet, "/api/brand?page=92233720368547759&limit=100", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = send(brandRouter(svc), http.MethodGet, "/api/brand?page=99999999999999999999", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBrandHandler_CRUD(t *testing.T) {
	svc := &stubBrands{}
	r := brandRouter(svc)

	assert.Equal(t, http.StatusCreated, send(r, http.MethodPost, "/api/brand", `{"name":"Nike","icon":"nike.svg"}`).Code)
	assert.Equal(t, http.StatusBadRequest, send(r, http.MethodPost, "/api/brand", `{"name":"Nike"}`).Code)
	assert.Equal(t, http.StatusOK, send(r, http.MethodPatch, "/api/brand/b1", `{"icon":"x.svg"}`).Code)
	assert.Equal(t, http.StatusOK, send(r, http.MethodGet, "/api/brand/b1", "").Code)
	assert.Equal(t, http.StatusOK, send(r, http.MethodDelete, "/api/brand/b1", "").Code)

	svc.err = application.ErrConflict
	assert.Equal(t, http.StatusConflict, send(r, http.MethodDelete, "/api/brand/b1", "").Code)
	svc.err = application.ErrNotFound
	assert.Equal(t, http.StatusNotFound, send(r, http.MethodGet, "/api/brand/nope", "").Code)
}

type stubCategories struct{}

func (stubCategories) Create(_ context.Context, in application.CategoryInput) (*entity.Category, error) {
	return &entity.Category{ID: "c1", Name: in.Name}, nil
}

func (stubCategories) Get(context.Context, string) (*entity.Category, error) {
	return nil, application.ErrNotFound
}

func (stubCategories) List(context.Context, repo.ListQuery) (*application.Page[entity.Category], error) {
	return &application.Page[entity.Category]{Items: []entity.Category{}, Page: 1, Limit: 10}, nil
}

func (stubCategories) Update(_ context.Context, id string, _ application.CategoryUpdate) (*entity.Category, error) {
	return &entity.Category{ID: id}, nil
}

func (stubCategories) Delete(context.Context, string) (*entity.Category, error) {
	return nil, application.ErrConflict
}

func TestCategoryHandler(t *testing.T) {
	h := NewCategoryHandler(stubCategories{}, quietLogger())
	r := gin.New()
	r.GET("/api/category", h.FindAll)
	r.GET("/api/category/:id", h.FindOne)
	r.DELETE("/api/category/:id", h.Remove)

	w := send(r, http.MethodGet, "/api/category", "")
	require.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	assert.JSONEq(t, `{"total":0,"totalPages":0,"current":1,"limit":10}`, string(env.Meta))

	assert.Equal(t, http.StatusNotFound, send(r, http.MethodGet, "/api/category/x", "").Code)
	assert.Equal(t, http.StatusConflict, send(r, http.MethodDelete, "/api/category/x", "").Code)
}

type stubSneakers struct {
	createdBy string
	list      application.SneakerListInput
	slug      string
}

func (s *stubSneakers) Create(_ context.Context, createdBy string, in application.SneakerInput) (*entity.Sneaker, error) {
	s.createdBy = createdBy
	return &entity.Sneaker{ID: "s1", Name: in.Name, CreatedBy: createdBy}, nil
}

func (s *stubSneakers) Get(_ context.Context, id string) (*entity.Sneaker, error) {
	return &entity.Sneaker{ID: id}, nil
}

func (s *stubSneakers) GetBySlug(_ context.Context, slug string) (*entity.Sneaker, error) {
	s.slug = slug
	return &entity.Sneaker{ID: "s1", Slug: slug}, nil
}

func (s *stubSneakers) List(_ context.Context, in application.SneakerListInput) (*application.Page[entity.Sneaker], error) {
	s.list = in
	return &application.Page[entity.Sneaker]{Items: []entity.Sneaker{}, Page: 1, Limit: 10}, nil
}

func (s *stubSneakers) Update(_ context.Context, id string, _ application.SneakerUpdate) (*entity.Sneaker, error) {
	return &entity.Sneaker{ID: id}, nil
}

func (s *stubSneakers) Delete(_ context.Context, id string) (*entity.Sneaker, error) {
	return &entity.Sneaker{ID: id}, nil
}

func sneakerRouter(svc SneakerUsecase) *gin.Engine {
	h := NewSneakerHandler(svc, quietLogger())
	r := gin.New()
	r.GET("/api/sneakers", h.FindAll)
	r.GET("/api/sneakers/slug/:slug", h.FindBySlug)
	r.POST("/api/sneakers", asUser("admin-1"), h.Create)
	r.PATCH("/api/sneakers/:id", h.Update)
	return r
}

const (
	brandID    = "0b9c2f4e-6d0a-4a7e-9a51-3c1f5e2d7b10"
	categoryID = "5e7d1c3a-2b4f-4c6e-8a9d-0f1e2d3c4b5a"
)

func TestSneakerHandler_ListFilters(t *testing.T) {
	svc := &stubSneakers{}
	r := sneakerRouter(svc)

	w := send(r, http.MethodGet, "/api/sneakers?search=air&brand="+brandID+"&category="+categoryID+"&isReady=false&page=3", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "air", svc.list.Search)
	assert.Equal(t, 3, svc.list.Page)
	assert.Equal(t, brandID, svc.list.Brand)
	assert.Equal(t, categoryID, svc.list.Category)
	require.NotNil(t, svc.list.IsReady)
	assert.False(t, *svc.list.IsReady)

	assert.Equal(t, http.StatusOK, send(r, http.MethodGet, "/api/sneakers", "").Code)
	assert.Nil(t, svc.list.IsReady)

	assert.Equal(t, http.StatusBadRequest, send(r, http.MethodGet, "/api/sneakers?brand=nike", "").Code)
}

func TestSneakerHandler_CreateAndSlug(t *testing.T) {
	svc := &stubSneakers{}
	r := sneakerRouter(svc)

	body := `{"name":"Dunk","description":"low","price":110,"image":"https://x/a.png","isReady":true,"brand":"` + brandID + `","category":"` + categoryID + `"}`
	w := send(r, http.MethodPost, "/api/sneakers", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "admin-1", svc.createdBy)

	bad := strings.Replace(body, `"price":110`, `"price":0`, 1)
	w = send(r, http.MethodPost, "/api/sneakers", bad)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w).Error, "price")

	assert.Equal(t, http.StatusBadRequest, send(r, http.MethodPatch, "/api/sneakers/s1", `{"price":-1}`).Code)

	w = send(r, http.MethodGet, "/api/sneakers/slug/air-max-90", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "air-max-90", svc.slug)
}

type stubMedia struct {
	got     []application.Upload
	bodies  []string
	removed string
	err     error
}

func (s *stubMedia) keep(u application.Upload) {
	b, _ := io.ReadAll(u.Body)
	s.got = append(s.got, u)
	s.bodies = append(s.bodies, string(b))
}

func (s *stubMedia) UploadSingle(_ context.Context, u application.Upload) (string, error) {
	s.keep(u)
	return "https://storage.googleapis.com/b/media/1.png", s.err
}

func (s *stubMedia) UploadMultiple(_ context.Context, uploads []application.Upload) ([]string, error) {
	out := make([]string, 0, len(uploads))
	for _, u := range uploads {
		s.keep(u)
		out = append(out, "https://storage.googleapis.com/b/media/"+u.Filename)
	}
	return out, s.err
}

func (s *stubMedia) Remove(_ context.Context, url string) error {
	s.removed = url
	return s.err
}

func multipartBody(t *testing.T, field string, names ...string) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	for _, n := range names {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+n+`"`)
		h.Set("Content-Type", "image/png")
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write([]byte("png:" + n))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return buf, mw.FormDataContentType()
}

func mediaRouter(svc MediaUsecase) *gin.Engine {
	h := NewMediaHandler(svc, quietLogger())
	r := gin.New()
	r.POST("/api/media/upload-single", h.UploadSingle)
	r.POST("/api/media/upload-multiple", h.UploadMultiple)
	r.DELETE("/api/media/remove", h.Remove)
	return r
}

func postForm(r http.Handler, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestMediaHandler_UploadSingle(t *testing.T) {
	svc := &stubMedia{}
	r := mediaRouter(svc)

	body, ct := multipartBody(t, "file", "shoe.png")
	w := postForm(r, "/api/media/upload-single", body, ct)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"url":"https://storage.googleapis.com/b/media/1.png"}`, string(decode(t, w).Data))
	require.Len(t, svc.got, 1)
	assert.Equal(t, "shoe.png", svc.got[0].Filename)
	assert.Equal(t, "image/png", svc.got[0].ContentType)
	assert.Equal(t, "png:shoe.png", svc.bodies[0])

	body, ct = multipartBody(t, "other", "shoe.png")
	w = postForm(r, "/api/media/upload-single", body, ct)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc.err = application.ErrStorageUnavailable
	body, ct = multipartBody(t, "file", "shoe.png")
	assert.Equal(t, http.StatusServiceUnavailable, postForm(r, "/api/media/upload-single", body, ct).Code)
}

func TestMediaHandler_UploadMultiple(t *testing.T) {
	svc := &stubMedia{}
	r := mediaRouter(svc)

	body, ct := multipartBody(t, "files", "a.png", "b.png")
	w := postForm(r, "/api/media/upload-multiple", body, ct)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `[{"url":"https://storage.googleapis.com/b/media/a.png"},{"url":"https://storage.googleapis.com/b/media/b.png"}]`, string(decode(t, w).Data))
	assert.Equal(t, []string{"png:a.png", "png:b.png"}, svc.bodies)

	body, ct = multipartBody(t, "files")
	assert.Equal(t, http.StatusBadRequest, postForm(r, "/api/media/upload-multiple", body, ct).Code)
}

func TestMediaHandler_Remove(t *testing.T) {
	svc := &stubMedia{}
	r := mediaRouter(svc)

	w := send(r, http.MethodDelete, "/api/media/remove", `{"fileUrl":"https://storage.googleapis.com/b/media/1.png"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://storage.googleapis.com/b/media/1.png", svc.removed)

	assert.Equal(t, http.StatusBadRequest, send(r, http.MethodDelete, "/api/media/remove", `{}`).Code)

	svc.err = application.ErrNotFound
	assert.Equal(t, http.StatusNotFound, send(r, http.MethodDelete, "/api/media/remove", `{"fileUrl":"x"}`).Code)
}
