package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"productsmgmt/internal/domain"
	"productsmgmt/internal/pricing"
	productsvc "productsmgmt/internal/service/product"
	"productsmgmt/internal/validation"
)

type productHandler struct {
	svc       ProductService
	validator *validation.Validator
	logger    *logrus.Logger
}

type createProductRequest struct {
	Code        string           `json:"code" label:"Code" validate:"len=10"`
	Name        string           `json:"name" label:"Name" validate:"notblank"`
	PriceInBase *decimal.Decimal `json:"priceInBase" label:"Price in base" validate:"required,gte=0"`
	Available   bool             `json:"available"`
}

type productResponse struct {
	ID             int64        `json:"id"`
	Code           string       `json:"code"`
	Name           string       `json:"name"`
	PriceInBase    json.Number  `json:"priceInBase"`
	PriceConverted *json.Number `json:"priceConverted"`
	Available      bool         `json:"available"`
}

type pageResponse struct {
	Items         []productResponse `json:"items"`
	TotalElements int64             `json:"totalElements"`
	TotalPages    int               `json:"totalPages"`
}

func toProductResponse(p domain.Product) productResponse {
	res := productResponse{
		ID:          p.ID,
		Code:        p.Code,
		Name:        p.Name,
		PriceInBase: json.Number(p.PriceBase.StringFixed(pricing.Scale)),
		Available:   p.Available,
	}
	if p.PriceConverted != nil {
		n := json.Number(p.PriceConverted.StringFixed(pricing.Scale))
		res.PriceConverted = &n
	}
	return res
}

func (h *productHandler) create(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).WithField("request_id", requestID(c)).Warn("product api: malformed request body")
		writeMessage(c, http.StatusBadRequest, "malformed JSON request")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeError(c, h.logger, err)
		return
	}
	h.logger.WithFields(logrus.Fields{"code": req.Code, "request_id": requestID(c)}).Info("product api: create")

	p, err := h.svc.Create(c.Request.Context(), productsvc.CreateInput{
		Code:        req.Code,
		Name:        req.Name,
		PriceInBase: *req.PriceInBase,
		Available:   req.Available,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Header("Location", fmt.Sprintf("/products/%d", p.ID))
	c.JSON(http.StatusCreated, toProductResponse(*p))
}

func (h *productHandler) getByID(c *gin.Context) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeMessage(c, http.StatusBadRequest, []string{fmt.Sprintf("invalid product id '%s'", raw)})
		return
	}
	p, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(*p))
}

func (h *productHandler) getByCode(c *gin.Context) {
	p, err := h.svc.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(*p))
}

func (h *productHandler) list(c *gin.Context) {
	req, err := parsePageRequest(c)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	page, err := h.svc.List(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	items := make([]productResponse, 0, len(page.Items))
	for _, p := range page.Items {
		items = append(items, toProductResponse(p))
	}
	h.logger.Debugf("product api: listed %d products", len(items))
	c.JSON(http.StatusOK, pageResponse{Items: items, TotalElements: page.TotalElements, TotalPages: page.TotalPages})
}

func parsePageRequest(c *gin.Context) (domain.PageRequest, error) {
	req := domain.PageRequest{
		SortBy:  c.DefaultQuery("sortBy", domain.DefaultSortBy),
		SortDir: c.DefaultQuery("sortDir", domain.SortAsc),
	}
	var msgs []string
	var err error
	if req.Page, err = strconv.Atoi(c.DefaultQuery("page", "0")); err != nil {
		msgs = append(msgs, "page must be an integer")
	}
	if req.Size, err = strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(domain.DefaultPageSize))); err != nil {
		msgs = append(msgs, "size must be an integer")
	}
	if len(msgs) > 0 {
		return domain.PageRequest{}, &domain.ValidationError{Messages: msgs}
	}
	if err := req.Validate(); err != nil {
		return domain.PageRequest{}, err
	}
	return req, nil
}
