package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"galleryshare/models"
	"galleryshare/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s string) bool {
	switch s {
	case models.OrderStatusPending, models.OrderStatusPaid, models.OrderStatusProcessing,
		models.OrderStatusShipped, models.OrderStatusCompleted, models.OrderStatusCancelled:
		return true
	}
	return false
}

func terminalStatus(s string) bool {
	return s == models.OrderStatusCompleted || s == models.OrderStatusCancelled
}

// CheckStatusTransition decides whether an order may move from one status to
// another. Statuses move freely among the non-terminal set and into either
// terminal state; terminal orders are immutable. Re-setting the current
// status is rejected rather than silently accepted.
func CheckStatusTransition(from, to string) error {
	if !ValidOrderStatus(to) {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, to)
	}
	if terminalStatus(from) {
		return fmt.Errorf("%w: order is %s and can no longer change", ErrConflict, from)
	}
	if from == to {
		return fmt.Errorf("%w: order is already %s", ErrValidation, to)
	}
	return nil
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

// OrderTotals sums item prices times quantities and adds shipping.
func OrderTotals(items []models.OrderItem, shipping float64) (subtotal, total float64) {
	for _, item := range items {
		subtotal += item.Price * float64(item.Quantity)
	}
	subtotal = roundMoney(subtotal)
	return subtotal, roundMoney(subtotal + shipping)
}

func newOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return fmt.Sprintf("GS-%s-%s", now.Format("20060102"), suffix)
}

// OrderItemRequest is one line of a public order submission. Prices come
// from the catalog, never from the client.
type OrderItemRequest struct {
	FileID    primitive.ObjectID
	ProductID primitive.ObjectID
	Quantity  int
}

type OrderService struct {
	orderCollection *mongo.Collection
	fileCollection  *mongo.Collection
	products        *ProductService
	shares          *ShareService
	folders         *FolderService
	paymentLinkURL  string
}

func NewOrderService(db *mongo.Database, products *ProductService, shares *ShareService, folders *FolderService, paymentLinkURL string) *OrderService {
	return &OrderService{
		orderCollection: db.Collection("orders"),
		fileCollection:  db.Collection("files"),
		products:        products,
		shares:          shares,
		folders:         folders,
		paymentLinkURL:  paymentLinkURL,
	}
}

// OrderConfirmation is what a submitting customer gets back.
type OrderConfirmation struct {
	Order      models.Order `json:"order"`
	PaymentURL string       `json:"payment_url,omitempty"`
}

// SubmitOrder validates a public order against the share's scope and the
// print catalog, recomputes all money figures and stores it as pending.
func (s *OrderService) SubmitOrder(ctx context.Context, shareToken, customerEmail, deliveryAddress string, items []OrderItemRequest, shipping float64) (*OrderConfirmation, error) {
	if err := utils.ValidateEmail(customerEmail); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if deliveryAddress == "" {
		return nil, fmt.Errorf("%w: delivery address is required", ErrValidation)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: order has no items", ErrValidation)
	}
	if shipping < 0 {
		return nil, fmt.Errorf("%w: shipping cannot be negative", ErrValidation)
	}

	share, root, err := s.shares.ResolveShare(ctx, shareToken)
	if err != nil {
		return nil, err
	}

	orderItems := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be positive", ErrValidation)
		}

		product, err := s.products.GetProduct(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if !product.Active {
			return nil, fmt.Errorf("%w: product %s is not orderable", ErrValidation, product.Name)
		}

		var file models.File
		ferr := s.fileCollection.FindOne(ctx, bson.M{"_id": item.FileID}).Decode(&file)
		if ferr == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("file %s: %w", item.FileID.Hex(), ErrNotFound)
		} else if ferr != nil {
			return nil, fmt.Errorf("failed to look up file: %w", ferr)
		}
		if err := s.folders.EnsureInScope(ctx, file.FolderID, root.ID); err != nil {
			return nil, err
		}

		orderItems = append(orderItems, models.OrderItem{
			FileID:      file.ID,
			FileName:    file.Name,
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    item.Quantity,
			Price:       product.Price,
		})
	}

	now := time.Now().UTC()
	subtotal, total := OrderTotals(orderItems, shipping)
	order := models.Order{
		ID:              primitive.NewObjectID(),
		OrderNumber:     newOrderNumber(now),
		ShareToken:      share.Token,
		CustomerEmail:   customerEmail,
		DeliveryAddress: deliveryAddress,
		Items:           orderItems,
		Subtotal:        subtotal,
		Shipping:        roundMoney(shipping),
		Total:           total,
		Status:          models.OrderStatusPending,
		CreatedAt:       now,
	}
	if _, err := s.orderCollection.InsertOne(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to store order: %w", err)
	}

	return &OrderConfirmation{Order: order, PaymentURL: s.paymentLinkURL}, nil
}

func (s *OrderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	cursor, err := s.orderCollection.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"created_at": -1}))
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}
	return orders, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	err := s.orderCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("order %s: %w", id.Hex(), ErrNotFound)
	} else if err != nil {
		return nil, fmt.Errorf("failed to look up order: %w", err)
	}
	return &order, nil
}

// UpdateStatus applies an admin status change under the transition policy.
func (s *OrderService) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Order, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := CheckStatusTransition(order.Status, status); err != nil {
		return nil, err
	}

	if _, err := s.orderCollection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}}); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	order.Status = status
	return order, nil
}
