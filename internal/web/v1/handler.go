package v1

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/duynhne/storefront/internal/core/domain"
	"github.com/duynhne/storefront/internal/gateway"
	"github.com/duynhne/storefront/internal/logger"
	"github.com/duynhne/storefront/internal/notify"
	"github.com/duynhne/storefront/internal/session"
	"github.com/duynhne/storefront/middleware"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Templates parses the embedded page templates for the gin HTML renderer.
func Templates() *template.Template {
	return template.Must(template.ParseFS(templatesFS, "templates/*.html"))
}

// Handler groups the storefront page and form handlers.
// Dependencies are injected via the constructor — no global state.
type Handler struct {
	api      *gateway.Client
	sessions *session.Store
	toasts   *notify.Bus
}

// NewHandler creates a Handler with the given collaborators.
func NewHandler(api *gateway.Client, sessions *session.Store, toasts *notify.Bus) *Handler {
	return &Handler{api: api, sessions: sessions, toasts: toasts}
}

// RegisterRoutes registers all storefront routes on the given router.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/", h.Home)
	r.GET("/login", h.LoginPage)
	r.POST("/login", h.Login)
	r.GET("/register", h.RegisterPage)
	r.POST("/register", h.Register)
	r.POST("/logout", h.Logout)
	r.GET("/products", h.Products)
	r.GET("/products/:id", h.Product)
	r.GET("/cart", h.Cart)
	r.POST("/cart/items", h.AddCartItem)
	r.POST("/cart/items/:id", h.UpdateCartItem)
	r.POST("/cart/items/:id/delete", h.RemoveCartItem)
	r.GET("/profile/:id", h.Profile)
	r.POST("/profile/:id/details", h.UpdateProfileDetails)
}

// render writes an HTML page, attaching the current session snapshot and
// the active toast so every page shows auth state and notifications.
func (h *Handler) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if sess, ok := session.FromContext(c.Request.Context()); ok {
		data["session"] = sess
	}
	data["toast"] = h.toasts.Current()
	c.HTML(status, name, data)
}

// displayMessage extracts a user-facing message from a gateway error,
// falling back to a generic one when the error carries none.
func displayMessage(err error, fallback string) string {
	var remote *gateway.RemoteError
	if errors.As(err, &remote) && remote.Message != "" {
		return remote.Message
	}
	return fallback
}

// Home renders the landing page with the product grid.
func (h *Handler) Home(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	products, err := h.api.Products(ctx)
	if err != nil {
		span.RecordError(err)
		logger.FromContext(ctx).Error().Err(err).Msg("Failed to load products")
		h.toasts.Publish(notify.KindError, displayMessage(err, "Failed to load products"))
	}

	h.render(c, http.StatusOK, "home", gin.H{"title": "Home", "products": products})
}

// LoginPage renders the login form.
func (h *Handler) LoginPage(c *gin.Context) {
	h.render(c, http.StatusOK, "login", gin.H{"title": "Login"})
}

// Login handles the login form submission.
func (h *Handler) Login(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	log := logger.FromContext(ctx)

	var req domain.LoginInput
	if err := c.ShouldBind(&req); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		span.RecordError(err)
		log.Error().Err(err).Msg("Invalid login request")
		h.toasts.Publish(notify.KindError, "Email and password are required")
		h.render(c, http.StatusBadRequest, "login", gin.H{"title": "Login"})
		return
	}
	span.SetAttributes(attribute.Bool("request.valid", true))

	resp, err := h.api.Login(ctx, req)
	if err != nil {
		span.RecordError(err)
		log.Warn().Err(err).Msg("Login failed")
		h.toasts.Publish(notify.KindError, displayMessage(err, "Login failed"))
		h.render(c, http.StatusUnauthorized, "login", gin.H{"title": "Login"})
		return
	}

	h.sessions.Set(c.Writer, resp.AccessToken, session.UserRecord{
		ID:      resp.User.ID,
		Name:    resp.User.Name,
		Email:   resp.User.Email,
		IsAdmin: resp.User.IsAdmin,
	})

	log.Info().Str("user_id", resp.User.ID).Msg("Login successful")
	h.toasts.Publish(notify.KindSuccess, "Welcome back, "+resp.User.Name+"!")
	c.Redirect(http.StatusSeeOther, "/")
}

// RegisterPage renders the registration form.
func (h *Handler) RegisterPage(c *gin.Context) {
	h.render(c, http.StatusOK, "register", gin.H{"title": "Register"})
}

// Register handles the registration form submission.
func (h *Handler) Register(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	log := logger.FromContext(ctx)

	var req domain.RegisterInput
	if err := c.ShouldBind(&req); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		span.RecordError(err)
		log.Error().Err(err).Msg("Invalid registration request")
		h.toasts.Publish(notify.KindError, "Name, email and a password of at least 6 characters are required")
		h.render(c, http.StatusBadRequest, "register", gin.H{"title": "Register"})
		return
	}
	span.SetAttributes(attribute.Bool("request.valid", true))

	resp, err := h.api.Register(ctx, req)
	if err != nil {
		span.RecordError(err)
		log.Warn().Err(err).Str("email", req.Email).Msg("Registration failed")
		h.toasts.Publish(notify.KindError, displayMessage(err, "Registration failed"))
		h.render(c, http.StatusConflict, "register", gin.H{"title": "Register"})
		return
	}

	h.sessions.Set(c.Writer, resp.AccessToken, session.UserRecord{
		ID:      resp.User.ID,
		Name:    resp.User.Name,
		Email:   resp.User.Email,
		IsAdmin: resp.User.IsAdmin,
	})

	log.Info().Str("user_id", resp.User.ID).Msg("Registration successful")
	h.toasts.Publish(notify.KindSuccess, "Account created. Welcome, "+resp.User.Name+"!")
	c.Redirect(http.StatusSeeOther, "/")
}

// Logout clears the session and navigates to the login page.
func (h *Handler) Logout(c *gin.Context) {
	h.sessions.Clear(c.Writer)
	c.Redirect(http.StatusSeeOther, "/login")
}

// Products renders the full product listing.
func (h *Handler) Products(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	products, err := h.api.Products(ctx)
	if err != nil {
		span.RecordError(err)
		logger.FromContext(ctx).Error().Err(err).Msg("Failed to load products")
		h.toasts.Publish(notify.KindError, displayMessage(err, "Failed to load products"))
	}

	h.render(c, http.StatusOK, "products", gin.H{"title": "Products", "products": products})
}

// Product renders one product's detail page with size selection.
func (h *Handler) Product(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	id := c.Param("id")
	product, err := h.api.Product(ctx, id)
	if err != nil {
		span.RecordError(err)
		logger.FromContext(ctx).Warn().Err(err).Str("product_id", id).Msg("Failed to load product")
		h.toasts.Publish(notify.KindError, displayMessage(err, "Product not found"))
		c.Redirect(http.StatusSeeOther, "/products")
		return
	}

	h.render(c, http.StatusOK, "product", gin.H{"title": product.Name, "product": product})
}

// Cart renders the current user's cart.
func (h *Handler) Cart(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	sess, ok := session.FromContext(ctx)
	if !ok {
		h.toasts.Publish(notify.KindWarning, "Please log in to view your cart")
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}

	cart, err := h.api.Cart(ctx, sess.UserID)
	if err != nil {
		span.RecordError(err)
		logger.FromContext(ctx).Error().Err(err).Msg("Failed to load cart")
		h.toasts.Publish(notify.KindError, displayMessage(err, "Failed to load cart"))
		cart = &domain.Cart{}
	}

	h.render(c, http.StatusOK, "cart", gin.H{"title": "Cart", "cart": cart})
}

// AddCartItem adds a product to the cart. A size must be chosen first; this
// follows the stricter of the two product-card variants in the source.
func (h *Handler) AddCartItem(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	log := logger.FromContext(ctx)

	sess, ok := session.FromContext(ctx)
	if !ok {
		h.toasts.Publish(notify.KindError, "Please login to add items to cart")
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}

	productID := c.PostForm("productId")
	size := c.PostForm("size")
	quantity, err := strconv.Atoi(c.DefaultPostForm("quantity", "1"))
	if err != nil || quantity < 1 {
		quantity = 1
	}

	if productID == "" {
		c.Redirect(http.StatusSeeOther, "/products")
		return
	}
	if size == "" {
		h.toasts.Publish(notify.KindError, "Please select a size first")
		c.Redirect(http.StatusSeeOther, "/products/"+productID)
		return
	}

	if _, err := h.api.AddToCart(ctx, sess.UserID, productID, size, quantity); err != nil {
		span.RecordError(err)
		log.Warn().Err(err).Str("product_id", productID).Msg("Add to cart failed")
		h.toasts.Publish(notify.KindError, displayMessage(err, "Failed to add item to cart"))
		c.Redirect(http.StatusSeeOther, "/products/"+productID)
		return
	}

	log.Info().Str("product_id", productID).Int("quantity", quantity).Msg("Item added to cart")
	h.toasts.Publish(notify.KindSuccess, "Added to cart!")
	c.Redirect(http.StatusSeeOther, "/products/"+productID)
}

// UpdateCartItem changes a cart line's quantity. Quantity zero removes the
// line, matching the cart component's behavior.
func (h *Handler) UpdateCartItem(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	log := logger.FromContext(ctx)
	itemID := c.Param("id")

	quantity, err := strconv.Atoi(c.PostForm("quantity"))
	if err != nil || quantity < 0 {
		h.toasts.Publish(notify.KindError, "Quantity must be a non-negative number")
		c.Redirect(http.StatusSeeOther, "/cart")
		return
	}

	if quantity == 0 {
		_, err = h.api.RemoveCartItem(ctx, itemID)
	} else {
		_, err = h.api.UpdateCartItem(ctx, itemID, quantity)
	}
	if err != nil {
		span.RecordError(err)
		log.Warn().Err(err).Str("item_id", itemID).Msg("Cart update failed")
		if errors.Is(err, gateway.ErrUnauthenticated) {
			c.Redirect(http.StatusSeeOther, "/login")
			return
		}
		h.toasts.Publish(notify.KindError, displayMessage(err, "Failed to update cart"))
		c.Redirect(http.StatusSeeOther, "/cart")
		return
	}

	h.toasts.Publish(notify.KindSuccess, "Cart updated")
	c.Redirect(http.StatusSeeOther, "/cart")
}

// RemoveCartItem deletes a cart line.
func (h *Handler) RemoveCartItem(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	itemID := c.Param("id")
	if _, err := h.api.RemoveCartItem(ctx, itemID); err != nil {
		span.RecordError(err)
		logger.FromContext(ctx).Warn().Err(err).Str("item_id", itemID).Msg("Cart item removal failed")
		if errors.Is(err, gateway.ErrUnauthenticated) {
			c.Redirect(http.StatusSeeOther, "/login")
			return
		}
		h.toasts.Publish(notify.KindError, displayMessage(err, "Failed to remove item"))
		c.Redirect(http.StatusSeeOther, "/cart")
		return
	}

	h.toasts.Publish(notify.KindSuccess, "Item removed from cart")
	c.Redirect(http.StatusSeeOther, "/cart")
}

// Profile renders a user's profile with shipping details. The route guard
// has already verified the path id matches the session.
func (h *Handler) Profile(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	userID := c.Param("id")
	user, err := h.api.UserByID(ctx, userID)
	if err != nil {
		span.RecordError(err)
		logger.FromContext(ctx).Error().Err(err).Str("user_id", userID).Msg("Failed to load profile")
		h.toasts.Publish(notify.KindError, displayMessage(err, "Failed to load profile"))
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	h.render(c, http.StatusOK, "profile", gin.H{"title": user.Name, "user": user})
}

// UpdateProfileDetails saves shipping details, then refreshes the persisted
// session record from the backend so the header reflects any change.
func (h *Handler) UpdateProfileDetails(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	log := logger.FromContext(ctx)
	userID := c.Param("id")

	var input domain.UpdateUserDetailsInput
	if err := c.ShouldBind(&input); err != nil {
		span.RecordError(err)
		h.toasts.Publish(notify.KindError, "Invalid profile details")
		c.Redirect(http.StatusSeeOther, "/profile/"+userID)
		return
	}
	input.UserID = userID

	if _, err := h.api.UpdateUserDetails(ctx, input); err != nil {
		span.RecordError(err)
		log.Warn().Err(err).Str("user_id", userID).Msg("Profile update failed")
		h.toasts.Publish(notify.KindError, displayMessage(err, "Failed to update details"))
		c.Redirect(http.StatusSeeOther, "/profile/"+userID)
		return
	}

	// Re-fetch and merge the fresh record into the session, as the profile
	// page in the source system does after saving.
	if user, err := h.api.UserByID(ctx, userID); err == nil {
		h.sessions.Update(c.Writer, c.Request, session.Patch{
			Name:  &user.Name,
			Email: &user.Email,
		})
	} else {
		log.Warn().Err(err).Msg("Session refresh after profile update failed")
	}

	log.Info().Str("user_id", userID).Msg("Profile details updated")
	h.toasts.Publish(notify.KindSuccess, "Profile updated")
	c.Redirect(http.StatusSeeOther, "/profile/"+userID)
}
