package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	TimeoutExceeded     failure.ErrorCode = "TimeoutExceeded"
	Forbidden           failure.ErrorCode = "Forbidden"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"
	InvalidPaging       failure.ErrorCode = "InvalidPaging"

	// Офферы и книга офферов
	OfferNotFound          failure.ErrorCode = "OfferNotFound" // Когда ID есть, но в базе нет
	InvalidOfferID         failure.ErrorCode = "InvalidOfferID"
	OfferNotOpen           failure.ErrorCode = "OfferNotOpen"
	OfferConflict          failure.ErrorCode = "OfferConflict"
	OfferActivationBlocked failure.ErrorCode = "OfferActivationBlocked"
	OfferPlacementFailed   failure.ErrorCode = "OfferPlacementFailed"

	// Сессия редактирования
	EditInitFailed      failure.ErrorCode = "EditInitFailed"
	UnsupportedCurrency failure.ErrorCode = "UnsupportedCurrency" // актив делистнут, оффер можно только снять
	InvalidOfferAmount  failure.ErrorCode = "InvalidOfferAmount"
	InvalidOfferPrice   failure.ErrorCode = "InvalidOfferPrice"

	// Платёжные аккаунты
	PaymentAccountNotFound failure.ErrorCode = "PaymentAccountNotFound"
	InvalidPaymentAccount  failure.ErrorCode = "InvalidPaymentAccount"
)
