package http

import (
	"net/http"

	"github.com/tuanvumaihuynh/shop-backend/internal/service"
)

type productHandler struct {
	srv        *Service
	productSvc service.ProductService
}

func newProductHandler(srv *Service, productSvc service.ProductService) *productHandler {
	return &productHandler{
		srv:        srv,
		productSvc: productSvc,
	}
}

type createProductRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Code        string  `json:"code" validate:"required"`
	Price       float64 `json:"price" validate:"required,gte=0"`
	Stock       int     `json:"stock" validate:"required,gte=0"`
}

type updateProductRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Code        *string  `json:"code"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	Stock       *int     `json:"stock" validate:"omitempty,gte=0"`
}

func (h *productHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.productSvc.ListAllProducts(r.Context())
	if err != nil {
		h.srv.respondError(w, r, err)
		return
	}

	h.srv.respondJSON(w, r, http.StatusOK, products)
}

func (h *productHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathObjectID(r, "pid")
	if err != nil {
		h.srv.respondError(w, r, err)
		return
	}

	product, err := h.productSvc.GetProduct(r.Context(), id)
	if err != nil {
		h.srv.respondError(w, r, err)
		return
	}

	h.srv.respondJSON(w, r, http.StatusOK, product)
}

func (h *productHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := decodeBody(r, &req); err != nil {
		h.srv.respondRequestError(w, r, err)
		return
	}
	if err := h.srv.validate.Validate(req); err != nil {
		h.srv.respondError(w, r, err)
		return
	}

	product, err := h.productSvc.CreateProduct(r.Context(), service.CreateProductParams{
		Title:       req.Title,
		Description: req.Description,
		Code:        req.Code,
		Price:       req.Price,
		Stock:       req.Stock,
	})
	if err != nil {
		h.srv.respondError(w, r, err)
		return
	}

	h.srv.respondJSON(w, r, http.StatusCreated, product)
}

func (h *productHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathObjectID(r, "pid")
	if err != nil {
		h.srv.respondError(w, r, err)
		return
	}

	var req updateProductRequest
	if err := decodeBody(r, &req); err != nil {
		h.srv.respondRequestError(w, r, err)
		return
	}
	if err := h.srv.validate.Validate(req); err != nil {
		h.srv.respondError(w, r, err)
		return
	}

	product, err := h.productSvc.UpdateProduct(r.Context(), id, service.UpdateProductParams{
		Title:       req.Title,
		Description: req.Description,
		Code:        req.Code,
		Price:       req.Price,
		Stock:       req.Stock,
	})
	if err != nil {
		h.srv.respondError(w, r, err)
		return
	}

	h.srv.respondJSON(w, r, http.StatusOK, product)
}

func (h *productHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathObjectID(r, "pid")
	if err != nil {
		h.srv.respondError(w, r, err)
		return
	}

	product, err := h.productSvc.DeleteProduct(r.Context(), id)
	if err != nil {
		h.srv.respondError(w, r, err)
		return
	}

	h.srv.respondJSON(w, r, http.StatusOK, product)
}
