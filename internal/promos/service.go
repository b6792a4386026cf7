package promos

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/transitpadi/transit-backend/pkg/common"
)

// Repository defines the storage operations required by the service.
type Repository interface {
	GetPromotionByCode(ctx context.Context, code string) (*Promotion, error)
	GetPromotionByID(ctx context.Context, id uuid.UUID) (*Promotion, error)
	CreatePromotion(ctx context.Context, promo *Promotion) error
	UpdatePromotion(ctx context.Context, promo *Promotion) error
	DeactivatePromotion(ctx context.Context, id uuid.UUID) error
	ListPromotions(ctx context.Context, limit, offset int) ([]*Promotion, int64, error)
}

// Service handles promotion business logic
type Service struct {
	repo Repository
}

// NewService creates a new promos service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// NormalizeCode uppercases and trims a coupon code for matching.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Evaluate computes the discount a promotion yields for the given price.
// The discounted price is floored at zero; a fixed discount larger than the
// price is capped by that floor.
func Evaluate(promo *Promotion, price float64) Evaluation {
	var discount float64
	switch promo.DiscountType {
	case DiscountPercentage:
		discount = price * promo.DiscountValue / 100
	default:
		discount = promo.DiscountValue
	}

	discounted := price - discount
	if discounted < 0 {
		discounted = 0
	}

	return Evaluation{
		Code:            promo.Code,
		DiscountAmount:  discount,
		DiscountedPrice: discounted,
	}
}

// ApplyCode looks up a code, checks its applicability against the booking
// context and returns the evaluated discount. Rejections happen before any
// write; a storage failure is not a rejection and propagates as-is.
func (s *Service) ApplyCode(ctx context.Context, code string, bctx BookingContext, price float64) (*Evaluation, error) {
	promo, err := s.repo.GetPromotionByCode(ctx, NormalizeCode(code))
	if err != nil {
		var appErr *common.AppError
		if errors.As(err, &appErr) && appErr.ErrorCode == common.ErrCodeNotFound {
			return nil, common.NewBadRequestError("invalid or expired coupon", err)
		}
		return nil, err
	}
	if promo == nil || promo.Status != StatusActive {
		return nil, common.NewBadRequestError("invalid or expired coupon", nil)
	}

	if !Applies(promo, bctx) {
		return nil, common.NewBadRequestError("this coupon is not valid for this booking type", nil)
	}

	eval := Evaluate(promo, price)
	return &eval, nil
}

// Applies reports whether a promotion's scope matches the booking context.
func Applies(promo *Promotion, bctx BookingContext) bool {
	switch promo.AppliesTo {
	case ScopeAll:
		return true
	case ScopeSeatBooking:
		return bctx.BookingType == "passenger"
	case ScopeCharter:
		return bctx.BookingType == "charter"
	case ScopeSpecificPackage:
		return bctx.BookingType == "charter" && promo.PackageID != nil && *promo.PackageID == bctx.PackageID
	}
	return false
}

// CreatePromotion creates a new promotion (admin only)
func (s *Service) CreatePromotion(ctx context.Context, promo *Promotion) error {
	promo.Code = NormalizeCode(promo.Code)
	if err := validatePromotion(promo); err != nil {
		return err
	}
	if promo.Status == "" {
		promo.Status = StatusActive
	}
	return s.repo.CreatePromotion(ctx, promo)
}

// UpdatePromotion updates an existing promotion (admin only)
func (s *Service) UpdatePromotion(ctx context.Context, promo *Promotion) error {
	promo.Code = NormalizeCode(promo.Code)
	if err := validatePromotion(promo); err != nil {
		return err
	}
	return s.repo.UpdatePromotion(ctx, promo)
}

// DeactivatePromotion deactivates a promotion (admin only)
func (s *Service) DeactivatePromotion(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeactivatePromotion(ctx, id)
}

// GetPromotion retrieves a promotion by ID
func (s *Service) GetPromotion(ctx context.Context, id uuid.UUID) (*Promotion, error) {
	return s.repo.GetPromotionByID(ctx, id)
}

// ListPromotions retrieves promotions with pagination
func (s *Service) ListPromotions(ctx context.Context, limit, offset int) ([]*Promotion, int64, error) {
	return s.repo.ListPromotions(ctx, limit, offset)
}

func validatePromotion(promo *Promotion) error {
	if promo.Code == "" {
		return common.NewValidationError("promotion code cannot be empty")
	}

	if promo.DiscountType != DiscountFixed && promo.DiscountType != DiscountPercentage {
		return common.NewValidationError("discount type must be 'fixed' or 'percentage'")
	}

	if promo.DiscountValue <= 0 {
		return common.NewValidationError("discount value must be greater than 0")
	}

	if promo.DiscountType == DiscountPercentage && promo.DiscountValue > 100 {
		return common.NewValidationError("percentage discount cannot exceed 100")
	}

	switch promo.AppliesTo {
	case ScopeAll, ScopeSeatBooking, ScopeCharter:
	case ScopeSpecificPackage:
		if promo.PackageID == nil || *promo.PackageID == "" {
			return common.NewValidationError("package_id is required for package-specific promotions")
		}
	default:
		return common.NewValidationError("applies_to must be one of all, seat_booking, charter, specific_package")
	}

	return nil
}
