package server

import (
	"context"
	"net/http"

	"git.appkode.ru/pub/go/failure"

	"p2p_market/internal/domain"
	"p2p_market/pkg/errcodes"
	"p2p_market/pkg/httpx/reply"
	"p2p_market/pkg/rest"
)

// replyError переводит доменные ошибки в HTTP статусы,
// остальные отдаёт reply.Error как есть.
func replyError(ctx context.Context, w http.ResponseWriter, err error) {
	code, ok := domain.GetCode(err)
	if !ok {
		reply.Error(ctx, w, err)
		return
	}

	switch code {
	case errcodes.OfferNotFound, errcodes.PaymentAccountNotFound:
		reply.JSON(ctx, w, http.StatusNotFound, newRESTError(code, err))
	case errcodes.OfferConflict, errcodes.OfferActivationBlocked:
		reply.JSON(ctx, w, http.StatusConflict, newRESTError(code, err))
	case errcodes.UnsupportedCurrency,
		errcodes.EditInitFailed,
		errcodes.InvalidOfferID,
		errcodes.InvalidOfferAmount,
		errcodes.InvalidOfferPrice,
		errcodes.InvalidPaymentAccount:
		reply.Error(ctx, w, failure.NewInvalidArgumentErrorFromError(err, failure.WithCode(code)))
	default:
		reply.Error(ctx, w, err)
	}
}

func newRESTError(code failure.ErrorCode, err error) rest.Error {
	return rest.Error{
		Code:    rest.ErrorCode(code),
		Message: err.Error(),
	}
}
