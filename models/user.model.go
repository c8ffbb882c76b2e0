package models

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// Role is the closed set of access levels a user can hold.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	return r == RoleUser || r == RoleAdmin
}

// Image is a stored image reference (upload id plus serving URL).
type Image struct {
	PublicID string `bson:"public_id" json:"public_id"`
	URL      string `bson:"url" json:"url"`
}

const (
	DefaultAvatarID   = "default_avatar"
	DefaultProductID  = "default_product"
	defaultAvatarURL  = "https://res.cloudinary.com/demo/image/upload/default_avatar.png"
	defaultProductURL = "https://res.cloudinary.com/demo/image/upload/default_product.png"
)

// DefaultAvatar is the placeholder used when no avatar is uploaded.
func DefaultAvatar() Image {
	return Image{PublicID: DefaultAvatarID, URL: defaultAvatarURL}
}

// DefaultProductImage is the placeholder used when a product has no images.
func DefaultProductImage() Image {
	return Image{PublicID: DefaultProductID, URL: defaultProductURL}
}

// User represents a customer or admin account.
type User struct {
	ID                      primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name                    string             `bson:"name" json:"name"`
	Email                   string             `bson:"email" json:"email"`
	Password                string             `bson:"password,omitempty" json:"-"`
	Avatar                  Image              `bson:"avatar" json:"avatar"`
	Role                    Role               `bson:"role" json:"role"`
	IsVerified              bool               `bson:"is_verified" json:"is_verified"`
	VerificationToken       string             `bson:"verification_token,omitempty" json:"-"`
	VerificationTokenExpire time.Time          `bson:"verification_token_expire,omitempty" json:"-"`
	ResetPasswordToken      string             `bson:"reset_password_token,omitempty" json:"-"`
	ResetPasswordExpire     time.Time          `bson:"reset_password_expire,omitempty" json:"-"`
	CreatedAt               time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt               time.Time          `bson:"updated_at" json:"updated_at"`
}

// SetPassword hashes plain with bcrypt and stores the hash.
func (u *User) SetPassword(plain string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), 10)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

// VerifyPassword checks plain against the stored hash.
func (u *User) VerifyPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plain)) == nil
}

// NewVerificationToken generates an email verification token valid for 24
// hours. The raw token goes in the email link; only its sha256 hash is
// persisted.
func (u *User) NewVerificationToken() (string, error) {
	raw, hashed, err := randomToken(32)
	if err != nil {
		return "", err
	}
	u.VerificationToken = hashed
	u.VerificationTokenExpire = time.Now().Add(24 * time.Hour)
	return raw, nil
}

// ClearVerificationToken drops any pending verification token.
func (u *User) ClearVerificationToken() {
	u.VerificationToken = ""
	u.VerificationTokenExpire = time.Time{}
}

// NewResetPasswordToken generates a password reset token valid for 15
// minutes. Same raw/hashed split as verification tokens.
func (u *User) NewResetPasswordToken() (string, error) {
	raw, hashed, err := randomToken(20)
	if err != nil {
		return "", err
	}
	u.ResetPasswordToken = hashed
	u.ResetPasswordExpire = time.Now().Add(15 * time.Minute)
	return raw, nil
}

// ClearResetPasswordToken drops any pending reset token.
func (u *User) ClearResetPasswordToken() {
	u.ResetPasswordToken = ""
	u.ResetPasswordExpire = time.Time{}
}

// HashToken maps a raw token from a link back to its stored form.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func randomToken(n int) (raw, hashed string, err error) {
	buf := make([]byte, n)
	if _, err = rand.Read(buf); err != nil {
		return "", "", err
	}
	raw = hex.EncodeToString(buf)
	return raw, HashToken(raw), nil
}
