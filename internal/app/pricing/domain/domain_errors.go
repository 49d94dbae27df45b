package domain

import "errors"

// Domain errors as sentinel values
var (
	// Lookup errors
	ErrProductNotFound  = errors.New("product not found")
	ErrVariantNotFound  = errors.New("variant not found")
	ErrCampaignNotFound = errors.New("campaign not found")

	// Campaign validation errors
	ErrEmptyCampaignName    = errors.New("campaign name cannot be empty")
	ErrInvalidCampaignType  = errors.New("campaign type must be product or category")
	ErrNoCampaignTargets    = errors.New("campaign must have at least one target")
	ErrUnknownTarget        = errors.New("campaign target does not exist")
	ErrInvalidCampaignDates = errors.New("campaign end date must be after start date")
	ErrCampaignExpired      = errors.New("campaign has expired")

	// Conflict errors
	ErrCampaignConflict = errors.New("target already reserved by an unexpired product campaign")

	// Discount validation errors
	ErrInvalidDiscountKind    = errors.New("discount kind must be percentage or fixed")
	ErrInvalidDiscountPercent = errors.New("discount percentage must be between 0 and 100")
	ErrInvalidDiscountAmount  = errors.New("discount amount must not be negative")
	ErrInvalidDiscountPeriod  = errors.New("discount end time must be after start time")

	// Price errors
	ErrInvalidPrice  = errors.New("price must not be negative")
	ErrEmptyName     = errors.New("name cannot be empty")
	ErrMoneyOverflow = errors.New("money value exceeds int64 storage bounds")
)

// validationErrors are rejected before any mutation and are recoverable by
// resubmitting corrected input.
var validationErrors = []error{
	ErrEmptyCampaignName,
	ErrInvalidCampaignType,
	ErrNoCampaignTargets,
	ErrInvalidCampaignDates,
	ErrInvalidDiscountKind,
	ErrInvalidDiscountPercent,
	ErrInvalidDiscountAmount,
	ErrInvalidDiscountPeriod,
	ErrInvalidPrice,
	ErrEmptyName,
}

// IsValidation reports whether err belongs to the validation error class.
func IsValidation(err error) bool {
	for _, v := range validationErrors {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}

// IsNotFound reports whether err belongs to the not-found error class.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrVariantNotFound) ||
		errors.Is(err, ErrCampaignNotFound) ||
		errors.Is(err, ErrUnknownTarget)
}
