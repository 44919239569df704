package expense

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"guvenlik-backend/internal/apperr"
	"guvenlik-backend/internal/httpx"
	"guvenlik-backend/internal/messages"
	"guvenlik-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var codePattern = regexp.MustCompile(`^[a-z][a-z0-9_]{1,49}$`)

type ExpenseCategoryResponse struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	NameTR    string    `json:"name_tr"`
	NameEN    string    `json:"name_en"`
	IsActive  bool      `json:"is_active"`
	SortOrder int       `json:"sort_order"`
}

type CreateExpenseCategoryRequest struct {
	Code      string `json:"code"`
	NameTR    string `json:"name_tr"`
	NameEN    string `json:"name_en"`
	SortOrder int    `json:"sort_order"`
}

type UpdateExpenseCategoryRequest struct {
	NameTR    *string `json:"name_tr"`
	NameEN    *string `json:"name_en"`
	SortOrder *int    `json:"sort_order"`
	IsActive  *bool   `json:"is_active"`
}

// GormCategoryStore reads and writes expense_categories.
type GormCategoryStore struct {
	db *gorm.DB
}

func NewCategoryStore(db *gorm.DB) *GormCategoryStore {
	return &GormCategoryStore{db: db}
}

func (s *GormCategoryStore) List(ctx context.Context, includeInactive bool) ([]models.ExpenseCategory, error) {
	q := s.db.WithContext(ctx).Model(&models.ExpenseCategory{})
	if !includeInactive {
		q = q.Where("is_active = ?", true)
	}
	var cats []models.ExpenseCategory
	if err := q.Order("sort_order ASC").Order("code ASC").Find(&cats).Error; err != nil {
		return nil, apperr.Query("list expense categories", err)
	}
	return cats, nil
}

func (s *GormCategoryStore) Get(ctx context.Context, id uuid.UUID) (*models.ExpenseCategory, error) {
	var cat models.ExpenseCategory
	err := s.db.WithContext(ctx).First(&cat, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &apperr.NotFoundError{Entity: "expense_category", ID: id.String()}
	}
	if err != nil {
		return nil, apperr.Query("get expense category", err)
	}
	return &cat, nil
}

func (s *GormCategoryStore) Create(ctx context.Context, cat *models.ExpenseCategory) error {
	err := s.db.WithContext(ctx).Create(cat).Error
	if apperr.IsDuplicateKey(err) {
		return &apperr.ConflictError{Entity: "expense_category", Key: cat.Code, Err: err}
	}
	return apperr.Query("insert expense category", err)
}

func (s *GormCategoryStore) Save(ctx context.Context, cat *models.ExpenseCategory) error {
	return apperr.Query("update expense category", s.db.WithContext(ctx).Save(cat).Error)
}

func toResponse(cat models.ExpenseCategory, lang string) ExpenseCategoryResponse {
	name := cat.NameTR
	if lang == messages.LangEN && cat.NameEN != "" {
		name = cat.NameEN
	}
	if name == "" {
		name = cat.Code
	}
	return ExpenseCategoryResponse{
		ID:        cat.ID,
		Code:      cat.Code,
		Name:      name,
		NameTR:    cat.NameTR,
		NameEN:    cat.NameEN,
		IsActive:  cat.IsActive,
		SortOrder: cat.SortOrder,
	}
}

// -------------------------
// Expense Category CRUD
// -------------------------

// GET /api/expense-categories?all=true  (auth olan herkes; all yalnızca pasifleri de ekler)
func ListExpenseCategoriesHandler(store *GormCategoryStore, catalog messages.Catalog) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cats, err := store.List(c.UserContext(), c.QueryBool("all", false))
		if err != nil {
			return err
		}

		lang := httpx.Lang(c, catalog)
		res := make([]ExpenseCategoryResponse, 0, len(cats))
		for _, cat := range cats {
			res = append(res, toResponse(cat, lang))
		}
		return c.JSON(res)
	}
}

// POST /api/admin/expense-categories
func CreateExpenseCategoryHandler(store *GormCategoryStore, catalog messages.Catalog) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateExpenseCategoryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		v := apperr.Violations{}
		code := strings.ToLower(strings.TrimSpace(body.Code))
		if code == "" {
			v.Add("code", apperr.CodeRequired)
		} else if !codePattern.MatchString(code) {
			v.Add("code", apperr.CodeInvalidCode)
		}
		nameTR := strings.TrimSpace(body.NameTR)
		if nameTR == "" {
			v.Add("name_tr", apperr.CodeRequired)
		}
		if body.SortOrder < 0 {
			v.Add("sort_order", apperr.CodeNegative)
		}
		if err := v.Err(); err != nil {
			return err
		}

		cat := models.ExpenseCategory{
			Code:      code,
			NameTR:    nameTR,
			NameEN:    strings.TrimSpace(body.NameEN),
			IsActive:  true,
			SortOrder: body.SortOrder,
		}
		if err := store.Create(c.UserContext(), &cat); err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(toResponse(cat, httpx.Lang(c, catalog)))
	}
}

// PUT /api/admin/expense-categories/:id
// Kod değişmez; işlemler ve fact'ler kodla etiketlenir.
func UpdateExpenseCategoryHandler(store *GormCategoryStore, catalog messages.Catalog) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.UUIDParam(c, "id")
		if err != nil {
			return err
		}
		cat, err := store.Get(c.UserContext(), id)
		if err != nil {
			return err
		}

		var body UpdateExpenseCategoryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		v := apperr.Violations{}
		if body.NameTR != nil {
			name := strings.TrimSpace(*body.NameTR)
			if name == "" {
				v.Add("name_tr", apperr.CodeRequired)
			}
			cat.NameTR = name
		}
		if body.NameEN != nil {
			cat.NameEN = strings.TrimSpace(*body.NameEN)
		}
		if body.SortOrder != nil {
			if *body.SortOrder < 0 {
				v.Add("sort_order", apperr.CodeNegative)
			}
			cat.SortOrder = *body.SortOrder
		}
		if body.IsActive != nil {
			cat.IsActive = *body.IsActive
		}
		if err := v.Err(); err != nil {
			return err
		}

		if err := store.Save(c.UserContext(), cat); err != nil {
			return err
		}
		return c.JSON(toResponse(*cat, httpx.Lang(c, catalog)))
	}
}

// DELETE /api/admin/expense-categories/:id
// Silmek yerine pasife alır; geçmiş işlemler kategorisini korur.
func DeactivateExpenseCategoryHandler(store *GormCategoryStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.UUIDParam(c, "id")
		if err != nil {
			return err
		}
		cat, err := store.Get(c.UserContext(), id)
		if err != nil {
			return err
		}
		cat.IsActive = false
		if err := store.Save(c.UserContext(), cat); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
