package apperr

import "github.com/tuanvumaihuynh/shop-backend/pkg/zerror"

const (
	ValidationErrorCode   = "VALIDATION_FAILED"
	ProductNotFoundCode   = "PRODUCT_NOT_FOUND"
	CartNotFoundCode      = "CART_NOT_FOUND"
	InsufficientStockCode = "INSUFFICIENT_STOCK"
	InvalidIdentifierCode = "INVALID_IDENTIFIER"
	EmptyCartRequestCode  = "EMPTY_CART_REQUEST"
)

var (
	ValidationErr        = zerror.NewValidationFailed(ValidationErrorCode, "validation error")
	ProductNotFoundErr   = zerror.NewNotFound(ProductNotFoundCode, "product not found")
	CartNotFoundErr      = zerror.NewNotFound(CartNotFoundCode, "cart not found")
	InsufficientStockErr = zerror.NewBadRequest(InsufficientStockCode, "insufficient stock")
	InvalidIdentifierErr = zerror.NewBadRequest(InvalidIdentifierCode, "invalid identifier")
	EmptyCartRequestErr  = zerror.NewBadRequest(EmptyCartRequestCode, "cart requires at least one product")
)
