package controllers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"pumpkin-store/models"
	"pumpkin-store/store"
	"pumpkin-store/utils"
)

// MockMailer is a mock implementation of utils.Mailer.
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendEmail(toEmail, subject, textBody string) error {
	args := m.Called(toEmail, subject, textBody)
	return args.Error(0)
}

func (m *MockMailer) SendVerificationEmail(toEmail, name, token string) error {
	args := m.Called(toEmail, name, token)
	return args.Error(0)
}

func (m *MockMailer) SendPasswordResetEmail(toEmail, name, token string) error {
	args := m.Called(toEmail, name, token)
	return args.Error(0)
}

func registerForm(t *testing.T, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	r := httptest.NewRequest("POST", "/api/v1/register", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return r
}

func newUserController(users *MockUserStore, email *MockMailer) *UserController {
	return NewUserController(users, utils.NewTokenService("test-secret", 7), email, nil)
}

func TestRegisterSendsVerificationEmail(t *testing.T) {
	users := new(MockUserStore)
	email := new(MockMailer)
	uc := newUserController(users, email)

	users.On("EmailExists", mock.Anything, "alice@example.com").Return(false, nil)
	users.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)
	email.On("SendVerificationEmail", "alice@example.com", "Alice", mock.AnythingOfType("string")).Return(nil)

	w := httptest.NewRecorder()
	r := registerForm(t, map[string]string{
		"name": "Alice", "email": "alice@example.com", "password": "longenough",
	})
	require.NoError(t, uc.Register(w, r))
	assert.Equal(t, http.StatusCreated, w.Code)

	created := users.Calls[1].Arguments.Get(1).(*models.User)
	assert.False(t, created.IsVerified)
	assert.Equal(t, models.RoleUser, created.Role)
	assert.NotEmpty(t, created.VerificationToken)
	assert.True(t, created.VerifyPassword("longenough"))

	// The emailed token is the raw one whose hash is stored.
	rawToken := email.Calls[0].Arguments.String(2)
	assert.Equal(t, created.VerificationToken, models.HashToken(rawToken))
	email.AssertExpectations(t)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	users := new(MockUserStore)
	uc := newUserController(users, new(MockMailer))

	users.On("EmailExists", mock.Anything, "alice@example.com").Return(true, nil)

	r := registerForm(t, map[string]string{
		"name": "Alice", "email": "alice@example.com", "password": "longenough",
	})
	err := uc.Register(httptest.NewRecorder(), r)

	appErr := appError(t, err)
	assert.Equal(t, http.StatusBadRequest, appErr.StatusCode)
	assert.Equal(t, "Email already registered", appErr.Message)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegisterRollsBackTokenWhenEmailFails(t *testing.T) {
	users := new(MockUserStore)
	email := new(MockMailer)
	uc := newUserController(users, email)

	users.On("EmailExists", mock.Anything, "alice@example.com").Return(false, nil)
	users.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)
	users.On("Update", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)
	email.On("SendVerificationEmail", mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)

	r := registerForm(t, map[string]string{
		"name": "Alice", "email": "alice@example.com", "password": "longenough",
	})
	err := uc.Register(httptest.NewRecorder(), r)

	assert.Equal(t, http.StatusInternalServerError, appError(t, err).StatusCode)
	rolledBack := users.Calls[2].Arguments.Get(1).(*models.User)
	assert.Empty(t, rolledBack.VerificationToken)
	assert.True(t, rolledBack.VerificationTokenExpire.IsZero())
}

func TestLogin(t *testing.T) {
	verified := func() *models.User {
		u := &models.User{ID: primitive.NewObjectID(), Name: "Alice", Email: "alice@example.com", IsVerified: true}
		require.NoError(t, u.SetPassword("longenough"))
		return u
	}

	t.Run("unknown email", func(t *testing.T) {
		users := new(MockUserStore)
		uc := newUserController(users, new(MockMailer))
		users.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, store.ErrNoDocuments)

		body := map[string]string{"email": "ghost@example.com", "password": "longenough"}
		err := uc.Login(httptest.NewRecorder(), authedRequest(t, "POST", "/api/v1/login", body, nil))

		appErr := appError(t, err)
		assert.Equal(t, http.StatusUnauthorized, appErr.StatusCode)
		assert.Equal(t, "Invalid Email or Password", appErr.Message)
	})

	t.Run("wrong password", func(t *testing.T) {
		users := new(MockUserStore)
		uc := newUserController(users, new(MockMailer))
		users.On("FindByEmail", mock.Anything, "alice@example.com").Return(verified(), nil)

		body := map[string]string{"email": "alice@example.com", "password": "wrongwrong"}
		err := uc.Login(httptest.NewRecorder(), authedRequest(t, "POST", "/api/v1/login", body, nil))

		assert.Equal(t, http.StatusUnauthorized, appError(t, err).StatusCode)
	})

	t.Run("unverified account", func(t *testing.T) {
		users := new(MockUserStore)
		uc := newUserController(users, new(MockMailer))
		u := verified()
		u.IsVerified = false
		users.On("FindByEmail", mock.Anything, "alice@example.com").Return(u, nil)

		body := map[string]string{"email": "alice@example.com", "password": "longenough"}
		err := uc.Login(httptest.NewRecorder(), authedRequest(t, "POST", "/api/v1/login", body, nil))

		assert.Equal(t, http.StatusForbidden, appError(t, err).StatusCode)
	})

	t.Run("success sets cookie and returns token", func(t *testing.T) {
		users := new(MockUserStore)
		uc := newUserController(users, new(MockMailer))
		u := verified()
		users.On("FindByEmail", mock.Anything, "alice@example.com").Return(u, nil)

		body := map[string]string{"email": "alice@example.com", "password": "longenough"}
		w := httptest.NewRecorder()
		require.NoError(t, uc.Login(w, authedRequest(t, "POST", "/api/v1/login", body, nil)))

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, utils.TokenCookie, cookies[0].Name)

		var resp struct {
			Success bool        `json:"success"`
			Token   string      `json:"token"`
			User    models.User `json:"user"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, cookies[0].Value, resp.Token)
		assert.Equal(t, "Alice", resp.User.Name)
	})
}

func TestVerifyEmailConsumesTokenAndSignsIn(t *testing.T) {
	users := new(MockUserStore)
	uc := newUserController(users, new(MockMailer))

	user := &models.User{ID: primitive.NewObjectID(), Name: "Alice", Email: "alice@example.com"}
	raw, err := user.NewVerificationToken()
	require.NoError(t, err)

	users.On("FindByVerificationToken", mock.Anything, models.HashToken(raw)).Return(user, nil)
	users.On("Update", mock.Anything, user).Return(nil)

	r := httptest.NewRequest("GET", "/api/v1/verify-email/"+raw, nil)
	r = mux.SetURLVars(r, map[string]string{"token": raw})
	w := httptest.NewRecorder()
	require.NoError(t, uc.VerifyEmail(w, r))

	assert.True(t, user.IsVerified)
	assert.Empty(t, user.VerificationToken)
	require.Len(t, w.Result().Cookies(), 1)
	users.AssertExpectations(t)
}

func TestVerifyEmailUnknownToken(t *testing.T) {
	users := new(MockUserStore)
	uc := newUserController(users, new(MockMailer))

	users.On("FindByVerificationToken", mock.Anything, mock.Anything).Return(nil, store.ErrNoDocuments)

	r := httptest.NewRequest("GET", "/api/v1/verify-email/stale", nil)
	r = mux.SetURLVars(r, map[string]string{"token": "stale"})
	err := uc.VerifyEmail(httptest.NewRecorder(), r)

	appErr := appError(t, err)
	assert.Equal(t, http.StatusBadRequest, appErr.StatusCode)
	assert.Contains(t, appErr.Message, "invalid or has expired")
}

func TestResetPasswordMismatchedConfirmation(t *testing.T) {
	users := new(MockUserStore)
	uc := newUserController(users, new(MockMailer))

	user := &models.User{ID: primitive.NewObjectID()}
	raw, err := user.NewResetPasswordToken()
	require.NoError(t, err)
	users.On("FindByResetToken", mock.Anything, models.HashToken(raw)).Return(user, nil)

	body := map[string]string{"password": "longenough", "confirmPassword": "different1"}
	r := authedRequest(t, "PUT", "/api/v1/reset/"+raw, body, nil)
	r = mux.SetURLVars(r, map[string]string{"token": raw})
	resetErr := uc.ResetPassword(httptest.NewRecorder(), r)

	appErr := appError(t, resetErr)
	assert.Equal(t, http.StatusBadRequest, appErr.StatusCode)
	assert.Equal(t, "Password and Confirm Password do not match", appErr.Message)
	users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestResetPasswordSetsNewPassword(t *testing.T) {
	users := new(MockUserStore)
	uc := newUserController(users, new(MockMailer))

	user := &models.User{ID: primitive.NewObjectID(), Name: "Alice"}
	require.NoError(t, user.SetPassword("oldpassword"))
	raw, err := user.NewResetPasswordToken()
	require.NoError(t, err)

	users.On("FindByResetToken", mock.Anything, models.HashToken(raw)).Return(user, nil)
	users.On("Update", mock.Anything, user).Return(nil)

	body := map[string]string{"password": "brandnewpass", "confirmPassword": "brandnewpass"}
	r := authedRequest(t, "PUT", "/api/v1/reset/"+raw, body, nil)
	r = mux.SetURLVars(r, map[string]string{"token": raw})
	w := httptest.NewRecorder()
	require.NoError(t, uc.ResetPassword(w, r))

	assert.True(t, user.VerifyPassword("brandnewpass"))
	assert.Empty(t, user.ResetPasswordToken)
	require.Len(t, w.Result().Cookies(), 1)
}

func TestUpdateUserRole(t *testing.T) {
	t.Run("invalid role", func(t *testing.T) {
		uc := newUserController(new(MockUserStore), new(MockMailer))

		id := primitive.NewObjectID()
		r := authedRequest(t, "PUT", "/api/v1/admin/user/"+id.Hex(), map[string]string{"role": "superuser"}, nil)
		r = mux.SetURLVars(r, map[string]string{"id": id.Hex()})
		err := uc.UpdateUserRole(httptest.NewRecorder(), r)

		appErr := appError(t, err)
		assert.Equal(t, http.StatusBadRequest, appErr.StatusCode)
		assert.Equal(t, "Role must be either user or admin", appErr.Message)
	})

	t.Run("promotes to admin", func(t *testing.T) {
		users := new(MockUserStore)
		uc := newUserController(users, new(MockMailer))

		user := &models.User{ID: primitive.NewObjectID(), Role: models.RoleUser}
		users.On("FindByID", mock.Anything, user.ID).Return(user, nil)
		users.On("Update", mock.Anything, user).Return(nil)

		r := authedRequest(t, "PUT", "/api/v1/admin/user/"+user.ID.Hex(), map[string]string{"role": "admin"}, nil)
		r = mux.SetURLVars(r, map[string]string{"id": user.ID.Hex()})
		require.NoError(t, uc.UpdateUserRole(httptest.NewRecorder(), r))

		assert.Equal(t, models.RoleAdmin, user.Role)
		users.AssertExpectations(t)
	})
}

func TestUpdatePasswordRequiresCurrentPassword(t *testing.T) {
	users := new(MockUserStore)
	uc := newUserController(users, new(MockMailer))

	user := &models.User{ID: primitive.NewObjectID()}
	require.NoError(t, user.SetPassword("oldpassword"))

	body := map[string]string{"oldPassword": "wrong", "newPassword": "brandnewpass", "confirmPassword": "brandnewpass"}
	err := uc.UpdatePassword(httptest.NewRecorder(), authedRequest(t, "POST", "/api/v1/password/update", body, user))

	appErr := appError(t, err)
	assert.Equal(t, http.StatusBadRequest, appErr.StatusCode)
	assert.Equal(t, "Old Password is incorrect", appErr.Message)
	users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
