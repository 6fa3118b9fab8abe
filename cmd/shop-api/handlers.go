package main

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shopcore/shop-backend/internal/auth"
	"github.com/shopcore/shop-backend/internal/category"
	"github.com/shopcore/shop-backend/internal/httpx"
	ord "github.com/shopcore/shop-backend/internal/order"
	prod "github.com/shopcore/shop-backend/internal/product"
)

// ===== auth =====

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// adminLoginHandler issues an admin JWT.
//
//	@Summary  Admin login
//	@Tags     auth
//	@Accept   json
//	@Produce  json
//	@Success  200 {object} map[string]string
//	@Failure  401 {object} map[string]string
//	@Router   /api/admin/login [post]
func adminLoginHandler(repo auth.AdminRepository, secret string, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
			httpx.Error(c, http.StatusBadRequest, "username and password are required")
			return
		}
		a, err := repo.GetByUsername(c.Request.Context(), req.Username)
		if err != nil || !auth.CheckPassword(a.PasswordHash, req.Password) {
			httpx.Error(c, http.StatusUnauthorized, "invalid credentials")
			return
		}
		token, err := auth.IssueToken(secret, a.ID, a.Role, ttl)
		if err != nil {
			httpx.Error(c, http.StatusInternalServerError, "could not issue token")
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token, "role": a.Role})
	}
}

func customerRegisterHandler(repo auth.CustomerRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Error(c, http.StatusBadRequest, "invalid json body")
			return
		}
		if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" {
			httpx.Error(c, http.StatusBadRequest, "name and email are required")
			return
		}
		if len(req.Password) < 8 {
			httpx.Error(c, http.StatusBadRequest, "password must be at least 8 characters")
			return
		}
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			httpx.Error(c, http.StatusInternalServerError, "hash error")
			return
		}
		cu := &auth.Customer{
			ID:           uuid.NewString(),
			Name:         strings.TrimSpace(req.Name),
			Email:        strings.ToLower(strings.TrimSpace(req.Email)),
			PasswordHash: hash,
		}
		if err := repo.Create(c.Request.Context(), cu); err != nil {
			if errors.Is(err, auth.ErrAlreadyExist) {
				httpx.Error(c, http.StatusConflict, "email already registered")
				return
			}
			httpx.Error(c, http.StatusInternalServerError, "internal error")
			return
		}
		c.JSON(http.StatusCreated, cu)
	}
}

func customerLoginHandler(repo auth.CustomerRepository, secret string, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
			httpx.Error(c, http.StatusBadRequest, "email and password are required")
			return
		}
		cu, err := repo.GetByEmail(c.Request.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
		if err != nil || !auth.CheckPassword(cu.PasswordHash, req.Password) {
			httpx.Error(c, http.StatusUnauthorized, "invalid credentials")
			return
		}
		token, err := auth.IssueToken(secret, cu.ID, "", ttl)
		if err != nil {
			httpx.Error(c, http.StatusInternalServerError, "could not issue token")
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token})
	}
}

// ===== products =====

func listProductsHandler(repo prod.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
		q := prod.Query{
			Q:        c.Query("q"),
			Category: c.Query("category"),
			Limit:    limit,
			Offset:   offset,
		}
		items, err := repo.List(c.Request.Context(), q)
		if err != nil {
			httpx.Error(c, http.StatusInternalServerError, "internal error")
			return
		}
		if items == nil {
			items = []prod.Product{}
		}
		c.JSON(http.StatusOK, prod.ListResponse{Q: q.Q, Category: q.Category, Limit: limit, Offset: offset, Items: items})
	}
}

func getProductHandler(repo prod.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.Error(c, http.StatusNotFound, "not found")
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// createProductHandler creates a product.
//
//	@Summary  Create product
//	@Tags     products
//	@Accept   json
//	@Produce  json
//	@Param    product body product.CreateProductRequest true "product"
//	@Success  201 {object} product.Product
//	@Failure  400 {object} map[string]string
//	@Security BearerAuth
//	@Router   /api/products [post]
func createProductHandler(repo prod.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req prod.CreateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Error(c, http.StatusBadRequest, "invalid json body")
			return
		}
		if strings.TrimSpace(req.Name) == "" {
			httpx.Error(c, http.StatusBadRequest, "name is required")
			return
		}
		if req.Stock < 0 {
			httpx.Error(c, http.StatusBadRequest, "stock must be non-negative")
			return
		}
		price, err := prod.ValidatePrice(req.Price)
		if err != nil {
			httpx.Error(c, http.StatusBadRequest, err.Error())
			return
		}
		p := &prod.Product{
			ID:          uuid.NewString(),
			Name:        strings.TrimSpace(req.Name),
			Description: req.Description,
			Price:       price,
			Category:    strings.TrimSpace(req.Category),
			Stock:       req.Stock,
			Image:       req.Image,
		}
		if err := repo.Create(c.Request.Context(), p); err != nil {
			httpx.Error(c, http.StatusInternalServerError, "internal error")
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

func updateProductHandler(repo prod.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		cur, err := repo.GetByID(c.Request.Context(), id)
		if err != nil {
			httpx.Error(c, http.StatusNotFound, "not found")
			return
		}
		var req prod.UpdateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Error(c, http.StatusBadRequest, "invalid json body")
			return
		}
		updatePrice := false
		price := cur.Price
		if strings.TrimSpace(req.Price) != "" {
			price, err = prod.ValidatePrice(req.Price)
			if err != nil {
				httpx.Error(c, http.StatusBadRequest, err.Error())
				return
			}
			updatePrice = true
		}
		stock := cur.Stock
		if req.Stock != nil {
			if *req.Stock < 0 {
				httpx.Error(c, http.StatusBadRequest, "stock must be non-negative")
				return
			}
			stock = *req.Stock
		}
		p := &prod.Product{
			ID:          id,
			Name:        req.Name,
			Description: req.Description,
			Price:       price,
			Category:    req.Category,
			Stock:       stock,
			Image:       req.Image,
		}
		if err := repo.Update(c.Request.Context(), p, updatePrice); err != nil {
			httpx.Error(c, http.StatusInternalServerError, "internal error")
			return
		}
		out, err := repo.GetByID(c.Request.Context(), id)
		if err != nil {
			httpx.Error(c, http.StatusInternalServerError, "internal error")
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

func deleteProductHandler(repo prod.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := repo.Delete(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.Error(c, http.StatusInternalServerError, "internal error")
			return
		}
		if !ok {
			httpx.Error(c, http.StatusNotFound, "not found")
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// ===== categories =====

func listCategoriesHandler(repo category.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := repo.List(c.Request.Context())
		if err != nil {
			httpx.Error(c, http.StatusInternalServerError, "internal error")
			return
		}
		if out == nil {
			out = []category.Category{}
		}
		c.JSON(http.StatusOK, gin.H{"items": out})
	}
}

func createCategoryHandler(repo category.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req category.CreateCategoryRequest
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
			httpx.Error(c, http.StatusBadRequest, "name is required")
			return
		}
		cat := &category.Category{
			ID:          uuid.NewString(),
			Name:        strings.TrimSpace(req.Name),
			Description: req.Description,
		}
		if err := repo.Create(c.Request.Context(), cat); err != nil {
			if errors.Is(err, category.ErrAlreadyExist) {
				httpx.Error(c, http.StatusConflict, "category already exists")
				return
			}
			httpx.Error(c, http.StatusInternalServerError, "internal error")
			return
		}
		c.JSON(http.StatusCreated, cat)
	}
}

func updateCategoryHandler(repo category.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req category.UpdateCategoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Error(c, http.StatusBadRequest, "invalid json body")
			return
		}
		cat := &category.Category{ID: c.Param("id"), Name: req.Name, Description: req.Description}
		if err := repo.Update(c.Request.Context(), cat); err != nil {
			if errors.Is(err, category.ErrNotFound) {
				httpx.Error(c, http.StatusNotFound, "not found")
				return
			}
			httpx.Error(c, http.StatusInternalServerError, "internal error")
			return
		}
		out, err := repo.GetByID(c.Request.Context(), cat.ID)
		if err != nil {
			httpx.Error(c, http.StatusInternalServerError, "internal error")
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

func deleteCategoryHandler(repo category.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := repo.Delete(c.Request.Context(), c.Param("id"))
		switch {
		case err == nil:
			c.Status(http.StatusNoContent)
		case errors.Is(err, category.ErrInUse):
			httpx.Error(c, http.StatusConflict, "category is referenced by products")
		case errors.Is(err, category.ErrNotFound):
			httpx.Error(c, http.StatusNotFound, "not found")
		default:
			httpx.Error(c, http.StatusInternalServerError, "internal error")
		}
	}
}

// ===== orders =====

func writeOrderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ord.ErrNotFound):
		httpx.Error(c, http.StatusNotFound, "order not found")
	case ord.IsBusinessError(err):
		httpx.Error(c, http.StatusBadRequest, err.Error())
	default:
		httpx.Error(c, http.StatusInternalServerError, "internal error")
	}
}

// createOrderHandler places a customer order.
//
//	@Summary  Place an order
//	@Tags     orders
//	@Accept   json
//	@Produce  json
//	@Param    order body order.PlaceOrderRequest true "order"
//	@Success  201 {object} order.Order
//	@Failure  400 {object} map[string]string
//	@Router   /api/orders [post]
func createOrderHandler(svc *ord.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ord.PlaceOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Error(c, http.StatusBadRequest, "invalid json body")
			return
		}
		o, err := svc.Place(c.Request.Context(), req)
		if err != nil {
			writeOrderError(c, err)
			return
		}
		c.JSON(http.StatusCreated, o)
	}
}

func listOrdersHandler(repo ord.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
		out, err := repo.List(c.Request.Context(), limit, offset)
		if err != nil {
			httpx.Error(c, http.StatusInternalServerError, "internal error")
			return
		}
		if out == nil {
			out = []ord.Order{}
		}
		c.JSON(http.StatusOK, gin.H{"items": out, "limit": limit, "offset": offset})
	}
}

func getOrderHandler(repo ord.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, items, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeOrderError(c, err)
			return
		}
		o.Items = items
		c.JSON(http.StatusOK, o)
	}
}

// updateOrderStatusHandler applies a guarded status transition.
//
//	@Summary  Update order status
//	@Tags     orders
//	@Accept   json
//	@Produce  json
//	@Param    status body order.UpdateStatusRequest true "target status"
//	@Success  200 {object} order.Order
//	@Failure  400 {object} map[string]string
//	@Security BearerAuth
//	@Router   /api/orders/{id}/status [put]
func updateOrderStatusHandler(svc *ord.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ord.UpdateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Error(c, http.StatusBadRequest, "invalid json body")
			return
		}
		o, err := svc.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
		if err != nil {
			writeOrderError(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

func deleteOrderHandler(repo ord.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := repo.Delete(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.Error(c, http.StatusInternalServerError, "internal error")
			return
		}
		if !ok {
			httpx.Error(c, http.StatusNotFound, "not found")
			return
		}
		c.Status(http.StatusNoContent)
	}
}
