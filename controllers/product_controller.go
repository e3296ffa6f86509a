package controllers

import (
	"galleryshare/services"
	"galleryshare/utils"

	"github.com/gin-gonic/gin"
)

type ProductController struct {
	productService *services.ProductService
}

func NewProductController(productService *services.ProductService) *ProductController {
	return &ProductController{productService: productService}
}

type productRequest struct {
	Name      string  `json:"name" binding:"required"`
	Size      string  `json:"size" binding:"required"`
	PaperType string  `json:"paper_type"`
	Price     float64 `json:"price"`
	Active    *bool   `json:"active"`
}

func (pr *productRequest) activeOrDefault() bool {
	if pr.Active == nil {
		return true
	}
	return *pr.Active
}

func (pc *ProductController) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request data", err.Error())
		return
	}

	product, err := pc.productService.CreateProduct(c.Request.Context(),
		req.Name, req.Size, req.PaperType, req.Price, req.activeOrDefault())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Product created", product)
}

// ListProducts serves both surfaces: admins see everything, the public
// catalog (?active=true) only orderable entries.
func (pc *ProductController) ListProducts(c *gin.Context) {
	activeOnly := c.Query("active") == "true"

	products, err := pc.productService.ListProducts(c.Request.Context(), activeOnly)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Products listed", products)
}

// PublicCatalog is the unauthenticated view used at checkout.
func (pc *ProductController) PublicCatalog(c *gin.Context) {
	products, err := pc.productService.ListProducts(c.Request.Context(), true)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Products listed", products)
}

func (pc *ProductController) UpdateProduct(c *gin.Context) {
	id, err := parseObjectID(c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request data", err.Error())
		return
	}

	product, err := pc.productService.UpdateProduct(c.Request.Context(), id,
		req.Name, req.Size, req.PaperType, req.Price, req.activeOrDefault())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Product updated", product)
}

func (pc *ProductController) DeleteProduct(c *gin.Context) {
	id, err := parseObjectID(c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	if err := pc.productService.DeleteProduct(c.Request.Context(), id); err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Product deleted", nil)
}
