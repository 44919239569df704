package ledger

import (
	"context"

	"guvenlik-backend/internal/auth"
	"guvenlik-backend/internal/log"
	"guvenlik-backend/internal/models"
	"guvenlik-backend/internal/money"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// COGSDeriver computes cogs_try from a linked proposal.
type COGSDeriver interface {
	Derive(ctx context.Context, proposalID uuid.UUID, currency string, txRate decimal.NullDecimal) (decimal.Decimal, error)
}

type Service struct {
	store  TransactionStore
	cogs   COGSDeriver
	logger *log.Logger
}

func NewService(store TransactionStore, cogs COGSDeriver, logger *log.Logger) *Service {
	return &Service{store: store, cogs: cogs, logger: logger.WithComponent("ledger")}
}

// actor: isteği yapan kullanıcı, loglar için; worker'da boş döner.
func actor(ctx context.Context) string {
	if id, ok := auth.IdentityFrom(ctx); ok {
		return id.Email
	}
	return ""
}

func (s *Service) CreateQuickExpense(ctx context.Context, in TransactionInput) (*models.FinancialTransaction, error) {
	tx, err := NormalizeQuickExpense(in)
	if err != nil {
		return nil, err
	}
	return s.insert(ctx, tx, in)
}

func (s *Service) CreateQuickIncome(ctx context.Context, in TransactionInput) (*models.FinancialTransaction, error) {
	tx, err := NormalizeQuickIncome(in)
	if err != nil {
		return nil, err
	}
	return s.insert(ctx, tx, in)
}

// Create goes through the general ledger form.
func (s *Service) Create(ctx context.Context, in TransactionInput) (*models.FinancialTransaction, error) {
	tx, err := NormalizeGeneral(in)
	if err != nil {
		return nil, err
	}
	return s.insert(ctx, tx, in)
}

func (s *Service) insert(ctx context.Context, tx *models.FinancialTransaction, in TransactionInput) (*models.FinancialTransaction, error) {
	if err := s.deriveCOGS(ctx, tx, in); err != nil {
		return nil, err
	}
	if err := s.store.Insert(ctx, tx); err != nil {
		s.logger.ErrorContext(ctx, "işlem kaydedilemedi", "error", err)
		return nil, err
	}
	s.logger.InfoContext(ctx, "işlem oluşturuldu",
		"id", tx.ID, "direction", tx.Direction, "period", tx.Period,
		"amount", money.Format(tx.AmountOriginal, tx.OriginalCurrency), "amount_try", tx.AmountTRY, "user", actor(ctx))
	return tx, nil
}

// Update re-applies the general normalization to the whole record.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in TransactionInput) (*models.FinancialTransaction, error) {
	existing, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	tx, err := NormalizeGeneral(in)
	if err != nil {
		return nil, err
	}
	tx.ID = existing.ID
	tx.CreatedAt = existing.CreatedAt
	if tx.RecurringTemplateID == nil {
		tx.RecurringTemplateID = existing.RecurringTemplateID
	}

	if err := s.deriveCOGS(ctx, tx, in); err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, tx); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "işlem güncellendi", "id", tx.ID, "amount_try", tx.AmountTRY, "user", actor(ctx))
	return s.store.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "işlem silindi", "id", id, "user", actor(ctx))
	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.FinancialTransaction, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, f TransactionFilter) ([]models.FinancialTransaction, error) {
	return s.store.Query(ctx, f)
}

// deriveCOGS: teklife bağlı gelirde, elle girilmemişse maliyet yeniden hesaplanır.
func (s *Service) deriveCOGS(ctx context.Context, tx *models.FinancialTransaction, in TransactionInput) error {
	if tx.Direction != models.DirectionIncome || tx.ProposalID == nil || in.COGSTRY.Set || s.cogs == nil {
		return nil
	}
	c, err := s.cogs.Derive(ctx, *tx.ProposalID, tx.OriginalCurrency, tx.ExchangeRate)
	if err != nil {
		return err
	}
	tx.COGSTRY = decimal.NullDecimal{Decimal: c, Valid: true}
	return nil
}
