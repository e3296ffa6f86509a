package controllers

import (
	"galleryshare/services"
	"galleryshare/utils"

	"github.com/gin-gonic/gin"
)

type OrderController struct {
	orderService *services.OrderService
}

func NewOrderController(orderService *services.OrderService) *OrderController {
	return &OrderController{orderService: orderService}
}

// SubmitOrder is the public checkout. The share token rides in the body so
// the endpoint stays outside the tokenized gallery tree; prices and totals
// are recomputed server side regardless of what the client sends.
func (oc *OrderController) SubmitOrder(c *gin.Context) {
	var req struct {
		ShareToken      string  `json:"share_token" binding:"required"`
		CustomerEmail   string  `json:"customer_email" binding:"required"`
		DeliveryAddress string  `json:"delivery_address" binding:"required"`
		Shipping        float64 `json:"shipping"`
		Items           []struct {
			FileID    string `json:"file_id" binding:"required"`
			ProductID string `json:"product_id" binding:"required"`
			Quantity  int    `json:"quantity" binding:"required"`
		} `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request data", err.Error())
		return
	}

	items := make([]services.OrderItemRequest, 0, len(req.Items))
	for _, item := range req.Items {
		fileID, err := parseObjectID(item.FileID)
		if err != nil {
			handleServiceError(c, err)
			return
		}
		productID, err := parseObjectID(item.ProductID)
		if err != nil {
			handleServiceError(c, err)
			return
		}
		items = append(items, services.OrderItemRequest{
			FileID:    fileID,
			ProductID: productID,
			Quantity:  item.Quantity,
		})
	}

	confirmation, err := oc.orderService.SubmitOrder(c.Request.Context(),
		req.ShareToken, req.CustomerEmail, req.DeliveryAddress, items, req.Shipping)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Order submitted", confirmation)
}

func (oc *OrderController) ListOrders(c *gin.Context) {
	orders, err := oc.orderService.ListOrders(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.SuccessResponse(c, "Orders listed", orders)
}

func (oc *OrderController) GetOrder(c *gin.Context) {
	id, err := parseObjectID(c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	order, err := oc.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.SuccessResponse(c, "Order", order)
}

func (oc *OrderController) UpdateStatus(c *gin.Context) {
	id, err := parseObjectID(c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request data", err.Error())
		return
	}

	order, err := oc.orderService.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.SuccessResponse(c, "Order status updated", order)
}
