package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/kawaii-shop/backend/internal/errors"
	"github.com/kawaii-shop/backend/internal/models"
	repository "github.com/kawaii-shop/backend/internal/repositories"
	"github.com/google/uuid"
)

type CartService interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	AddItem(ctx context.Context, userID uuid.UUID, req *models.AddItemRequest) (*models.Cart, error)
	RemoveItem(ctx context.Context, userID uuid.UUID, productID uuid.UUID) (*models.Cart, error)
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{cartRepo: cartRepo, productRepo: productRepo}
}

// GetCart implements CartService. A user who never touched their cart
// gets an empty one created on first read.
func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {

	cart, err := s.cartRepo.GetCartByUserID(ctx, userID)
	if err != nil {
		if err != sql.ErrNoRows {
			return nil, errors.DatabaseError("Failed to fetch cart").WithError(err)
		}

		cart = &models.Cart{
			ID:        uuid.New(),
			UserID:    userID,
			Items:     []models.CartItem{},
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}

		if err := s.cartRepo.CreateCart(ctx, cart); err != nil {
			return nil, errors.DatabaseError("Failed to create cart").WithError(err)
		}
	}

	return cart, nil
}

// AddItem implements CartService. Lines sharing (product, size, color)
// merge by summing quantities; fit alone never splits a line.
func (s *cartService) AddItem(ctx context.Context, userID uuid.UUID, req *models.AddItemRequest) (*models.Cart, error) {

	// adding a phantom product is rejected up front
	if _, err := s.productRepo.GetProductByID(ctx, req.ProductID); err != nil {
		return nil, errors.NotFoundError("Product not found").WithError(err)
	}

	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	item := models.CartItem{
		ProductID:     req.ProductID,
		Quantity:      req.Quantity,
		SelectedSize:  req.SelectedSize,
		SelectedColor: req.SelectedColor,
		SelectedFit:   req.SelectedFit,
	}

	merged := false

	for i := range cart.Items {
		if cart.Items[i].SameVariant(item) {
			cart.Items[i].Quantity += item.Quantity
			merged = true

			break
		}
	}

	if !merged {
		cart.Items = append(cart.Items, item)
	}

	cart.UpdatedAt = time.Now()

	if err := s.cartRepo.UpdateCart(ctx, cart); err != nil {
		return nil, errors.DatabaseError("Failed to update cart").WithError(err)
	}

	return cart, nil
}

// RemoveItem implements CartService. Removal is by product id only:
// every variant line of that product goes, regardless of size or color.
func (s *cartService) RemoveItem(ctx context.Context, userID uuid.UUID, productID uuid.UUID) (*models.Cart, error) {

	cart, err := s.cartRepo.GetCartByUserID(ctx, userID)
	if err != nil {
		return nil, errors.NotFoundError("Cart not found").WithError(err)
	}

	kept := cart.Items[:0]

	for _, item := range cart.Items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}

	if len(kept) == len(cart.Items) {
		return nil, errors.BadRequestError("Item not found in the cart")
	}

	cart.Items = kept
	cart.UpdatedAt = time.Now()

	if err := s.cartRepo.UpdateCart(ctx, cart); err != nil {
		return nil, errors.DatabaseError("Failed to update cart").WithError(err)
	}

	return cart, nil
}
