package gateway

import (
	"context"
	"fmt"

	"github.com/duynhne/storefront/internal/core/domain"
	"github.com/duynhne/storefront/internal/session"
)

// Typed wrappers over Do. Each binds one GraphQL document and destructures
// the single field it selects; none adds control logic of its own.

// Login authenticates with the backend and returns the token and user.
func (c *Client) Login(ctx context.Context, input domain.LoginInput) (*domain.AuthResponse, error) {
	var out domain.AuthResponse
	err := c.do(ctx, loginMutation, map[string]any{"input": input}, false, "login", &out)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return &out, nil
}

// Register creates an account and returns the token and user.
func (c *Client) Register(ctx context.Context, input domain.RegisterInput) (*domain.AuthResponse, error) {
	var out domain.AuthResponse
	err := c.do(ctx, registerMutation, map[string]any{"input": input}, false, "register", &out)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return &out, nil
}

// Products lists all products.
func (c *Client) Products(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	err := c.do(ctx, getProductsQuery, nil, false, "products", &out)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return out, nil
}

// Product fetches one product by id.
func (c *Client) Product(ctx context.Context, id string) (*domain.Product, error) {
	var out domain.Product
	err := c.do(ctx, getProductQuery, map[string]any{"id": id}, false, "product", &out)
	if err != nil {
		return nil, fmt.Errorf("get product %s: %w", id, err)
	}
	return &out, nil
}

// UserByEmail fetches a user record with details by email.
func (c *Client) UserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var out domain.User
	err := c.do(ctx, getUserByEmailQuery, map[string]any{"email": email}, true, "userByEmail", &out)
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return &out, nil
}

// UserByID fetches a user record with details by id.
func (c *Client) UserByID(ctx context.Context, userID string) (*domain.User, error) {
	var out domain.User
	err := c.do(ctx, getUserByIDQuery, map[string]any{"userId": userID}, true, "userById", &out)
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", userID, err)
	}
	return &out, nil
}

// UpdateUserDetails updates the shipping/contact details for a user.
func (c *Client) UpdateUserDetails(ctx context.Context, input domain.UpdateUserDetailsInput) (*domain.UserDetails, error) {
	var out domain.UserDetails
	err := c.do(ctx, updateUserDetailsMutation, map[string]any{"input": input}, true, "updateUserDetails", &out)
	if err != nil {
		return nil, fmt.Errorf("update user details: %w", err)
	}
	return &out, nil
}

// Cart fetches the cart for the given user.
func (c *Client) Cart(ctx context.Context, userID string) (*domain.Cart, error) {
	var out domain.Cart
	err := c.do(ctx, getCartQuery, map[string]any{"userId": userID}, true, "getCart", &out)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return &out, nil
}

// AddToCart adds a product in the chosen size and quantity.
func (c *Client) AddToCart(ctx context.Context, userID, productID, size string, quantity int) (*domain.Cart, error) {
	vars := map[string]any{
		"input": map[string]any{
			"userId":    userID,
			"productId": productID,
			"size":      size,
			"quantity":  quantity,
		},
	}
	var out domain.Cart
	err := c.do(ctx, addToCartMutation, vars, true, "addToCart", &out)
	if err != nil {
		return nil, fmt.Errorf("add to cart: %w", err)
	}
	return &out, nil
}

// UpdateCartItem changes the quantity of a cart line. The owning user is
// taken from the request-scoped session, as the backend requires it.
func (c *Client) UpdateCartItem(ctx context.Context, itemID string, quantity int) (*domain.Cart, error) {
	sess, ok := session.FromContext(ctx)
	if !ok {
		return nil, fmt.Errorf("update cart item: %w", ErrUnauthenticated)
	}
	vars := map[string]any{
		"userId": sess.UserID,
		"input": map[string]any{
			"cartItemId": itemID,
			"quantity":   quantity,
		},
	}
	var out domain.Cart
	err := c.do(ctx, updateCartItemMutation, vars, true, "updateCartItem", &out)
	if err != nil {
		return nil, fmt.Errorf("update cart item: %w", err)
	}
	return &out, nil
}

// RemoveCartItem deletes a cart line. The owning user comes from the
// request-scoped session.
func (c *Client) RemoveCartItem(ctx context.Context, itemID string) (*domain.Cart, error) {
	sess, ok := session.FromContext(ctx)
	if !ok {
		return nil, fmt.Errorf("remove cart item: %w", ErrUnauthenticated)
	}
	vars := map[string]any{
		"userId":     sess.UserID,
		"cartItemId": itemID,
	}
	var out domain.Cart
	err := c.do(ctx, removeCartItemMutation, vars, true, "removeCartItem", &out)
	if err != nil {
		return nil, fmt.Errorf("remove cart item: %w", err)
	}
	return &out, nil
}
