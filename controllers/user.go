package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"pumpkin-store/middleware"
	"pumpkin-store/models"
	"pumpkin-store/store"
	"pumpkin-store/utils"
)

const maxUploadMemory = 10 << 20

// UserController handles account and authentication requests.
type UserController struct {
	Users  store.UserStore
	Tokens *utils.TokenService
	Email  utils.Mailer
	Images utils.ImageStore
}

// NewUserController creates a new UserController.
func NewUserController(users store.UserStore, tokens *utils.TokenService, email utils.Mailer, images utils.ImageStore) *UserController {
	return &UserController{Users: users, Tokens: tokens, Email: email, Images: images}
}

// Register creates an unverified account and emails a verification link.
// Accepts multipart form data with an optional avatar file.
func (uc *UserController) Register(w http.ResponseWriter, r *http.Request) error {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		return utils.NewValidationError([]string{"Invalid form data"})
	}
	name := r.FormValue("name")
	email := r.FormValue("email")
	password := r.FormValue("password")

	if err := utils.ValidateRegistration(name, email, password); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	exists, err := uc.Users.EmailExists(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		return utils.NewConflict("Email already registered")
	}

	avatar := models.DefaultAvatar()
	if file, header, err := r.FormFile("avatar"); err == nil {
		defer file.Close()
		avatar, err = uc.Images.Upload(ctx, file, header.Filename, "avatars")
		if err != nil {
			return utils.NewInternal("Error uploading avatar image")
		}
	}

	user := &models.User{
		Name:       name,
		Email:      email,
		Avatar:     avatar,
		Role:       models.RoleUser,
		IsVerified: false,
	}
	if err := user.SetPassword(password); err != nil {
		return err
	}
	verificationToken, err := user.NewVerificationToken()
	if err != nil {
		return err
	}
	if err := uc.Users.Create(ctx, user); err != nil {
		return err
	}

	if err := uc.Email.SendVerificationEmail(user.Email, user.Name, verificationToken); err != nil {
		// Roll back the issued token so a stale link can never verify.
		log.Printf("failed to send verification email to %s: %v", user.Email, err)
		user.ClearVerificationToken()
		if updateErr := uc.Users.Update(ctx, user); updateErr != nil {
			log.Printf("failed to clear verification token for %s: %v", user.Email, updateErr)
		}
		return utils.NewInternal("Error sending verification email. Please try again.")
	}

	utils.Success(w, http.StatusCreated, map[string]interface{}{
		"message": fmt.Sprintf("Verification email sent to %s. Please check your inbox.", user.Email),
		"userId":  user.ID,
	})
	return nil
}

// VerifyEmail consumes a verification token and signs the user in.
func (uc *UserController) VerifyEmail(w http.ResponseWriter, r *http.Request) error {
	token := mux.Vars(r)["token"]
	if token == "" {
		return utils.NewValidationError([]string{"Invalid verification link"})
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, err := uc.Users.FindByVerificationToken(ctx, models.HashToken(token))
	if errors.Is(err, store.ErrNoDocuments) {
		return utils.NewValidationError([]string{"Verification link is invalid or has expired"})
	}
	if err != nil {
		return err
	}

	user.IsVerified = true
	user.ClearVerificationToken()
	if err := uc.Users.Update(ctx, user); err != nil {
		return err
	}

	return uc.signIn(w, http.StatusOK, user)
}

// ResendVerification issues a fresh verification token for an unverified
// account.
func (uc *UserController) ResendVerification(w http.ResponseWriter, r *http.Request) error {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Email == "" {
		return utils.NewValidationError([]string{"Please provide your email address"})
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, err := uc.Users.FindByEmail(ctx, body.Email)
	if errors.Is(err, store.ErrNoDocuments) {
		return utils.NewNotFound("User not found with this email")
	}
	if err != nil {
		return err
	}
	if user.IsVerified {
		return utils.NewValidationError([]string{"Email is already verified. You can login now."})
	}

	verificationToken, err := user.NewVerificationToken()
	if err != nil {
		return err
	}
	if err := uc.Users.Update(ctx, user); err != nil {
		return err
	}

	if err := uc.Email.SendVerificationEmail(user.Email, user.Name, verificationToken); err != nil {
		log.Printf("failed to resend verification email to %s: %v", user.Email, err)
		user.ClearVerificationToken()
		if updateErr := uc.Users.Update(ctx, user); updateErr != nil {
			log.Printf("failed to clear verification token for %s: %v", user.Email, updateErr)
		}
		return utils.NewInternal("Error sending verification email. Please try again.")
	}

	utils.Success(w, http.StatusOK, map[string]interface{}{
		"message": fmt.Sprintf("Verification email resent to %s", user.Email),
	})
	return nil
}

// Login authenticates with email and password and sets the session cookie.
func (uc *UserController) Login(w http.ResponseWriter, r *http.Request) error {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		return utils.NewValidationError([]string{"Invalid request body"})
	}
	if creds.Email == "" || creds.Password == "" {
		return utils.NewValidationError([]string{"Please enter email and password"})
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, err := uc.Users.FindByEmail(ctx, creds.Email)
	if errors.Is(err, store.ErrNoDocuments) {
		return utils.NewUnauthorized("Invalid Email or Password")
	}
	if err != nil {
		return err
	}
	if !user.IsVerified {
		return utils.NewForbidden("Please verify your email before logging in. Check your inbox for the verification link.")
	}
	if !user.VerifyPassword(creds.Password) {
		return utils.NewUnauthorized("Invalid Email or Password")
	}

	return uc.signIn(w, http.StatusOK, user)
}

// Logout expires the session cookie.
func (uc *UserController) Logout(w http.ResponseWriter, r *http.Request) error {
	uc.Tokens.ClearCookie(w)
	utils.Success(w, http.StatusOK, map[string]interface{}{
		"message": "Logged Out Successfully",
	})
	return nil
}

// ForgotPassword emails a password reset link.
func (uc *UserController) ForgotPassword(w http.ResponseWriter, r *http.Request) error {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Email == "" {
		return utils.NewValidationError([]string{"Please provide your email address"})
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, err := uc.Users.FindByEmail(ctx, body.Email)
	if errors.Is(err, store.ErrNoDocuments) {
		return utils.NewNotFound("User not found")
	}
	if err != nil {
		return err
	}

	resetToken, err := user.NewResetPasswordToken()
	if err != nil {
		return utils.NewInternal("Error while generating reset token")
	}
	if err := uc.Users.Update(ctx, user); err != nil {
		return err
	}

	if err := uc.Email.SendPasswordResetEmail(user.Email, user.Name, resetToken); err != nil {
		log.Printf("failed to send reset email to %s: %v", user.Email, err)
		user.ClearResetPasswordToken()
		if updateErr := uc.Users.Update(ctx, user); updateErr != nil {
			log.Printf("failed to clear reset token for %s: %v", user.Email, updateErr)
		}
		return utils.NewInternal("Error while sending email")
	}

	utils.Success(w, http.StatusOK, map[string]interface{}{
		"message": fmt.Sprintf("Email sent to %s successfully", user.Email),
	})
	return nil
}

// ResetPassword consumes a reset token and sets a new password.
func (uc *UserController) ResetPassword(w http.ResponseWriter, r *http.Request) error {
	token := mux.Vars(r)["token"]

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, err := uc.Users.FindByResetToken(ctx, models.HashToken(token))
	if errors.Is(err, store.ErrNoDocuments) {
		return utils.NewValidationError([]string{"Password reset token is invalid or has been expired"})
	}
	if err != nil {
		return err
	}

	var body struct {
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirmPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return utils.NewValidationError([]string{"Invalid request body"})
	}
	if body.Password != body.ConfirmPassword {
		return utils.NewValidationError([]string{"Password and Confirm Password do not match"})
	}
	if err := utils.ValidatePassword(body.Password); err != nil {
		return err
	}

	if err := user.SetPassword(body.Password); err != nil {
		return err
	}
	user.ClearResetPasswordToken()
	if err := uc.Users.Update(ctx, user); err != nil {
		return err
	}

	return uc.signIn(w, http.StatusOK, user)
}

// GetProfile returns the authenticated user.
func (uc *UserController) GetProfile(w http.ResponseWriter, r *http.Request) error {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		return utils.NewUnauthorized("Please login to access this resource")
	}
	utils.Success(w, http.StatusOK, map[string]interface{}{"user": user})
	return nil
}

// UpdateProfile updates name, email and optionally the avatar. The previous
// non-default avatar is removed best-effort.
func (uc *UserController) UpdateProfile(w http.ResponseWriter, r *http.Request) error {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		return utils.NewUnauthorized("Please login to access this resource")
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		return utils.NewValidationError([]string{"Invalid form data"})
	}
	name := r.FormValue("name")
	email := r.FormValue("email")
	if err := utils.ValidateProfileUpdate(name, email); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if file, header, err := r.FormFile("avatar"); err == nil {
		defer file.Close()
		if user.Avatar.PublicID != "" && user.Avatar.PublicID != models.DefaultAvatarID {
			if err := uc.Images.Delete(ctx, user.Avatar.PublicID); err != nil {
				log.Printf("error deleting old avatar: %v", err)
			}
		}
		avatar, err := uc.Images.Upload(ctx, file, header.Filename, "avatars")
		if err != nil {
			return utils.NewInternal("Error uploading new avatar")
		}
		user.Avatar = avatar
	}

	user.Name = name
	user.Email = email
	if err := uc.Users.Update(ctx, user); err != nil {
		return err
	}

	utils.Success(w, http.StatusOK, map[string]interface{}{
		"message": "Profile Updated Successfully",
		"user":    user,
	})
	return nil
}

// UpdatePassword changes the password after verifying the current one.
func (uc *UserController) UpdatePassword(w http.ResponseWriter, r *http.Request) error {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		return utils.NewUnauthorized("Please login to access this resource")
	}

	var body struct {
		OldPassword     string `json:"oldPassword"`
		NewPassword     string `json:"newPassword"`
		ConfirmPassword string `json:"confirmPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return utils.NewValidationError([]string{"Invalid request body"})
	}
	if !user.VerifyPassword(body.OldPassword) {
		return utils.NewValidationError([]string{"Old Password is incorrect"})
	}
	if body.NewPassword != body.ConfirmPassword {
		return utils.NewValidationError([]string{"Password and Confirm Password do not match"})
	}
	if err := utils.ValidatePassword(body.NewPassword); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := user.SetPassword(body.NewPassword); err != nil {
		return err
	}
	if err := uc.Users.Update(ctx, user); err != nil {
		return err
	}

	return uc.signIn(w, http.StatusOK, user)
}

// GetUserList returns every user. Admin only.
func (uc *UserController) GetUserList(w http.ResponseWriter, r *http.Request) error {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	users, err := uc.Users.FindAll(ctx)
	if err != nil {
		return err
	}
	utils.Success(w, http.StatusOK, map[string]interface{}{"users": users})
	return nil
}

// GetSingleUser returns one user by id. Admin only.
func (uc *UserController) GetSingleUser(w http.ResponseWriter, r *http.Request) error {
	id, err := objectIDParam(r, "id")
	if err != nil {
		return utils.NewValidationError([]string{"Invalid user ID"})
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, err := uc.Users.FindByID(ctx, id)
	if errors.Is(err, store.ErrNoDocuments) {
		return utils.NewNotFound(fmt.Sprintf("User id %s is not found", id.Hex()))
	}
	if err != nil {
		return err
	}
	utils.Success(w, http.StatusOK, map[string]interface{}{"user": user})
	return nil
}

// UpdateUserRole changes a user's role. Admin only.
func (uc *UserController) UpdateUserRole(w http.ResponseWriter, r *http.Request) error {
	id, err := objectIDParam(r, "id")
	if err != nil {
		return utils.NewValidationError([]string{"Invalid user ID"})
	}

	var body struct {
		Role models.Role `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return utils.NewValidationError([]string{"Invalid request body"})
	}
	if !models.ValidRole(body.Role) {
		return utils.NewValidationError([]string{"Role must be either user or admin"})
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, err := uc.Users.FindByID(ctx, id)
	if errors.Is(err, store.ErrNoDocuments) {
		return utils.NewNotFound(fmt.Sprintf("User with id %s not found", id.Hex()))
	}
	if err != nil {
		return err
	}

	user.Role = body.Role
	if err := uc.Users.Update(ctx, user); err != nil {
		return err
	}

	utils.Success(w, http.StatusOK, map[string]interface{}{
		"message": "User role updated successfully by admin",
		"user":    user,
	})
	return nil
}

// DeleteUser removes a user account. Admin only. Orders and products owned
// by the user are left in place; they reference the user by id only.
func (uc *UserController) DeleteUser(w http.ResponseWriter, r *http.Request) error {
	id, err := objectIDParam(r, "id")
	if err != nil {
		return utils.NewValidationError([]string{"Invalid user ID"})
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := uc.Users.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNoDocuments) {
			return utils.NewNotFound("User not found")
		}
		return err
	}

	utils.Success(w, http.StatusOK, map[string]interface{}{
		"message": "User Deleted Successfully",
	})
	return nil
}

// signIn sets the session cookie and writes the user envelope.
func (uc *UserController) signIn(w http.ResponseWriter, status int, user *models.User) error {
	token, err := uc.Tokens.SetCookie(w, user.ID.Hex())
	if err != nil {
		return err
	}
	user.Password = ""
	utils.Success(w, status, map[string]interface{}{
		"user":  user,
		"token": token,
	})
	return nil
}

func objectIDParam(r *http.Request, name string) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(mux.Vars(r)[name])
}

func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return utils.NewValidationError([]string{"Invalid request body"})
	}
	return nil
}
