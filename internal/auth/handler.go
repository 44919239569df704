package auth

import (
	"errors"
	"net/mail"
	"strings"

	"guvenlik-backend/internal/apperr"
	"guvenlik-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLen = 8

type RegisterAdminRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateUserRequest struct {
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	Password string          `json:"password"`
	Role     models.UserRole `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func userJSON(u *models.User) fiber.Map {
	return fiber.Map{
		"id":    u.ID,
		"name":  u.Name,
		"email": u.Email,
		"role":  u.Role,
	}
}

func validateUser(name, email, password string) apperr.Violations {
	v := apperr.Violations{}
	if strings.TrimSpace(name) == "" {
		v.Add("name", apperr.CodeRequired)
	}
	if email == "" {
		v.Add("email", apperr.CodeRequired)
	} else if _, err := mail.ParseAddress(email); err != nil {
		v.Add("email", apperr.CodeInvalidFormat)
	}
	if password == "" {
		v.Add("password", apperr.CodeRequired)
	} else if len(password) < minPasswordLen {
		v.Add("password", apperr.CodeTooShort)
	}
	return v
}

func createUser(db *gorm.DB, c *fiber.Ctx, name, email, password string, role models.UserRole) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Şifre hashlenemedi")
	}

	user := models.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	err = db.WithContext(c.UserContext()).Create(&user).Error
	if apperr.IsDuplicateKey(err) {
		return nil, &apperr.ConflictError{Entity: "user", Key: email, Err: err}
	}
	if err != nil {
		return nil, apperr.Query("insert user", err)
	}
	return &user, nil
}

// -------------------------
// POST /api/auth/register-admin
// Yalnızca hiç admin yokken çalışır (ilk kurulum).
// -------------------------
func RegisterAdminHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterAdminRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		if err := validateUser(body.Name, body.Email, body.Password).Err(); err != nil {
			return err
		}

		var count int64
		if err := db.WithContext(c.UserContext()).Model(&models.User{}).
			Where("role = ?", models.RoleAdmin).
			Count(&count).Error; err != nil {
			return apperr.Query("count admins", err)
		}
		if count > 0 {
			return fiber.NewError(fiber.StatusForbidden, "Zaten bir admin var")
		}

		user, err := createUser(db, c, body.Name, body.Email, body.Password, models.RoleAdmin)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(userJSON(user))
	}
}

// -------------------------
// POST /api/admin/users
// admin, muhasebe kullanıcısı (veya başka admin) ekler
// -------------------------
func CreateUserHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateUserRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		v := validateUser(body.Name, body.Email, body.Password)
		if body.Role == "" {
			body.Role = models.RoleAccountant
		}
		if !body.Role.Valid() {
			v.Add("role", apperr.CodeInvalidRole)
		}
		if err := v.Err(); err != nil {
			return err
		}

		user, err := createUser(db, c, body.Name, body.Email, body.Password, body.Role)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(userJSON(user))
	}
}

// -------------------------
// POST /api/auth/login
// -------------------------
func LoginHandler(db *gorm.DB, secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))

		var user models.User
		err := db.WithContext(c.UserContext()).Where("email = ?", body.Email).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusUnauthorized, "Email veya şifre hatalı")
		}
		if err != nil {
			return apperr.Query("find user", err)
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Email veya şifre hatalı")
		}

		token, err := GenerateToken(secret, &user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Token oluşturulamadı")
		}

		return c.JSON(fiber.Map{
			"token": token,
			"user":  userJSON(&user),
		})
	}
}

// -------------------------
// GET /api/auth/me
// -------------------------
func MeHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := UserID(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Kullanıcı bilgisi alınamadı")
		}

		var user models.User
		err := db.WithContext(c.UserContext()).First(&user, "id = ?", userID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// token geçerli ama kullanıcı silinmiş
			return fiber.NewError(fiber.StatusUnauthorized, "Kullanıcı bulunamadı")
		}
		if err != nil {
			return apperr.Query("find user", err)
		}
		return c.JSON(userJSON(&user))
	}
}
