package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"git.appkode.ru/pub/go/failure"

	"p2p_market/internal/domain/entity"
	"p2p_market/internal/domain/service/offeredit"
	"p2p_market/pkg/errcodes"
	"p2p_market/pkg/httpx/reply"
	"p2p_market/pkg/httpx/req"
	"p2p_market/pkg/lox"
	"p2p_market/pkg/rest"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

type cloneService interface {
	OpenOffers(ctx context.Context, limit, offset int) ([]*entity.OpenOffer, error)
	OpenOffer(ctx context.Context, id string) (*entity.OpenOffer, error)
	CloneOffer(ctx context.Context, sourceID string, edits offeredit.Edits) (offeredit.CloneOutcome, error)
	CloneEligibility(ctx context.Context, sourceID string, edits offeredit.Edits) (bool, error)
}

type OfferServer struct {
	cloneService cloneService
}

func NewOfferServer(cloneService cloneService) OfferServer {
	return OfferServer{
		cloneService: cloneService,
	}
}

func (s OfferServer) getV1Offers(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	limit, offset, err := paging(r)
	if err != nil {
		return err
	}

	offers, err := s.cloneService.OpenOffers(ctx, limit, offset)
	if err != nil {
		return fmt.Errorf("cloneService.OpenOffers: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, rest.OpenOffersResponse{
		Items: lox.Map(offers, newRESTOpenOffer),
	})

	return nil
}

func (s OfferServer) getV1Offer(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	offer, err := s.cloneService.OpenOffer(ctx, r.PathValue("id"))
	if err != nil {
		return fmt.Errorf("cloneService.OpenOffer: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTOpenOffer(offer))

	return nil
}

func (s OfferServer) postV1OfferClone(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.CloneOfferRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	edits, err := newDomainEdits(request)
	if err != nil {
		return fmt.Errorf("newDomainEdits: %w", err)
	}

	outcome, err := s.cloneService.CloneOffer(ctx, r.PathValue("id"), edits)
	if err != nil {
		return fmt.Errorf("cloneService.CloneOffer: %w", err)
	}

	// Размещение асинхронное: клон принят, но ещё не факт, что опубликован.
	reply.JSON(ctx, w, http.StatusAccepted, rest.CloneOfferResponse{
		Offer:             newRESTOffer(outcome.Offer),
		ActivationBlocked: outcome.ActivationBlocked,
	})

	return nil
}

func (s OfferServer) postV1OfferCloneEligibility(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.CloneOfferRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	edits, err := newDomainEdits(request)
	if err != nil {
		return fmt.Errorf("newDomainEdits: %w", err)
	}

	blocked, err := s.cloneService.CloneEligibility(ctx, r.PathValue("id"), edits)
	if err != nil {
		return fmt.Errorf("cloneService.CloneEligibility: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, rest.CloneEligibilityResponse{
		ActivationBlocked: blocked,
	})

	return nil
}

func paging(r *http.Request) (limit, offset int, err error) {
	limit = defaultLimit

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit <= 0 || limit > maxLimit {
			return 0, 0, failure.NewInvalidArgumentError(
				"invalid limit",
				failure.WithCode(errcodes.InvalidPaging),
			)
		}
	}

	if raw := r.URL.Query().Get("offset"); raw != "" {
		offset, err = strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return 0, 0, failure.NewInvalidArgumentError(
				"invalid offset",
				failure.WithCode(errcodes.InvalidPaging),
			)
		}
	}

	return limit, offset, nil
}
