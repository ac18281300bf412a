package handlers

import (
	"github.com/gin-gonic/gin"

	"pxc/internal/domain/customers"
	"pxc/internal/infrastructure/http/v1/dto"
)

// CustomerHandler serves /customers.
type CustomerHandler struct {
	*BaseHandler
	service *customers.Service
}

// NewCustomerHandler creates a new customer handler.
func NewCustomerHandler(base *BaseHandler, service *customers.Service) *CustomerHandler {
	return &CustomerHandler{BaseHandler: base, service: service}
}

// Create handles POST /customers.
func (h *CustomerHandler) Create(c *gin.Context) {
	var req dto.CreateCustomerRequest
	if !h.BindJSON(c, &req) {
		return
	}

	customer, err := h.service.Create(c.Request.Context(), req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, customer.ID.String(), customer.Number)
}

// Get handles GET /customers/:number.
func (h *CustomerHandler) Get(c *gin.Context) {
	customer, err := h.service.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromCustomer(customer))
}

// List handles GET /customers?period=PXCYYYYMM.
func (h *CustomerHandler) List(c *gin.Context) {
	result, err := h.service.List(c.Request.Context(), h.ListFilter(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, listResponse(result, dto.FromCustomer))
}
