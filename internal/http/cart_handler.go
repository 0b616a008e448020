package http

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tuanvumaihuynh/shop-backend/internal/apperr"
	"github.com/tuanvumaihuynh/shop-backend/internal/service"
)

type cartHandler struct {
	srv     *Service
	cartSvc service.CartService
}

func newCartHandler(srv *Service, cartSvc service.CartService) *cartHandler {
	return &cartHandler{
		srv:     srv,
		cartSvc: cartSvc,
	}
}

type createCartRequest struct {
	Products []createCartItem `json:"products" validate:"required,min=1,dive"`
}

type createCartItem struct {
	ID       string `json:"id" validate:"required,objectid"`
	Quantity int    `json:"quantity" validate:"required,gte=1"`
}

type addProductRequest struct {
	// quantity defaults to 1 when the body omits it
	Quantity *int `json:"quantity" validate:"omitempty,gte=1"`
}

func (h *cartHandler) CreateCart(w http.ResponseWriter, r *http.Request) {
	var req createCartRequest
	if err := decodeBody(r, &req); err != nil {
		h.srv.respondRequestError(w, r, err)
		return
	}
	if len(req.Products) == 0 {
		h.srv.respondError(w, r, apperr.EmptyCartRequestErr)
		return
	}
	if err := h.srv.validate.Validate(req); err != nil {
		h.srv.respondError(w, r, err)
		return
	}

	items := make([]service.CartItemParams, 0, len(req.Products))
	for _, p := range req.Products {
		// validated as objectid above
		id, _ := primitive.ObjectIDFromHex(p.ID)
		items = append(items, service.CartItemParams{
			ProductID: id,
			Quantity:  p.Quantity,
		})
	}

	cart, err := h.cartSvc.CreateCart(r.Context(), items)
	if err != nil {
		h.srv.respondError(w, r, err)
		return
	}

	h.srv.respondJSON(w, r, http.StatusCreated, cart)
}

func (h *cartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	id, err := pathObjectID(r, "cid")
	if err != nil {
		h.srv.respondError(w, r, err)
		return
	}

	cart, err := h.cartSvc.GetCart(r.Context(), id)
	if err != nil {
		h.srv.respondError(w, r, err)
		return
	}

	h.srv.respondJSON(w, r, http.StatusOK, cart)
}

func (h *cartHandler) AddProductToCart(w http.ResponseWriter, r *http.Request) {
	cartID, err := pathObjectID(r, "cid")
	if err != nil {
		h.srv.respondError(w, r, err)
		return
	}

	productID, err := pathObjectID(r, "pid")
	if err != nil {
		h.srv.respondError(w, r, err)
		return
	}

	req := addProductRequest{}
	if r.ContentLength != 0 {
		if err := decodeBody(r, &req); err != nil {
			h.srv.respondRequestError(w, r, err)
			return
		}
		if err := h.srv.validate.Validate(req); err != nil {
			h.srv.respondError(w, r, err)
			return
		}
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	cart, err := h.cartSvc.AddProductToCart(r.Context(), cartID, productID, quantity)
	if err != nil {
		h.srv.respondError(w, r, err)
		return
	}

	h.srv.respondJSON(w, r, http.StatusOK, cart)
}
