package handler

import (
	"p2p_market/internal/domain/service/offeredit"
)

type Handler struct {
	svc *offeredit.Service

	maxOpenOffers int
}

func New(svc *offeredit.Service, maxOpenOffers int) *Handler {
	return &Handler{
		svc:           svc,
		maxOpenOffers: maxOpenOffers,
	}
}
