package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s Server) RegisterRoutes(r chi.Router) {
	r.Route("/", func(r chi.Router) {
		r.Route("/v1", func(r chi.Router) {
			r.Route("/offers", func(r chi.Router) {
				r.Get("/", handler(s.getV1Offers))
				r.Get("/{id}", handler(s.getV1Offer))
				r.Post("/{id}/clone", handler(s.postV1OfferClone))
				r.Post("/{id}/clone/eligibility", handler(s.postV1OfferCloneEligibility))
			})
		})
	})
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			replyError(r.Context(), w, err)
		}
	}
}
