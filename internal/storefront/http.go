package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"WoodLoft/internal/cart"
	"WoodLoft/internal/catalog"
	"WoodLoft/internal/session"
	"WoodLoft/internal/users"
	"WoodLoft/pkg/kit"
)

const (
	loginFailedText = "Неверное имя пользователя или пароль"
	duplicateText   = "Пользователь с таким именем уже существует"
)

type Server struct {
	Log      *zap.Logger
	Products catalog.Store
	Users    users.Store
	Sessions *session.Manager
	Cart     *cart.Service
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", s.handleReady)

	r.Group(func(pr chi.Router) {
		pr.Use(s.Sessions.Middleware)

		pr.Get("/", s.page("index.html"))
		pr.Get("/catalog", s.page("catalog.html"))
		pr.Get("/catalog/wood", s.catalogWood)
		pr.Get("/about", s.page("about.html"))
		pr.Get("/cart", s.page("cart.html"))

		pr.Get("/login", s.loginPage)
		pr.Post("/login", s.handleLogin)
		pr.Get("/register", s.registerPage)
		pr.Post("/register", s.handleRegister)

		pr.Route("/api", func(ar chi.Router) {
			ar.Get("/products", s.listProducts)
			ar.Post("/cart/add", s.addToCart)
			ar.Get("/cart", s.getCart)
			ar.Put("/cart/update/{itemID}", s.updateCartItem)
			ar.Delete("/cart/remove/{itemID}", s.removeCartItem)
			ar.Delete("/cart/clear", s.clearCart)
		})

		pr.Route("/admin", func(ar chi.Router) {
			ar.Use(s.requireAdmin)
			ar.Get("/", s.adminProducts)
			ar.Get("/products", s.adminProducts)
			ar.Get("/products/edit/{id}", s.adminEditForm)
			ar.Post("/products/edit/{id}", s.adminEditProduct)
			ar.Post("/products/delete/{id}", s.adminDeleteProduct)
			ar.Get("/products/add", s.adminAddForm)
			ar.Post("/products/add", s.adminAddProduct)
		})
	})

	return r
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
	defer cancel()

	for name, ping := range map[string]func(context.Context) error{
		"products": s.Products.Ping,
		"users":    s.Users.Ping,
		"sessions": s.Sessions.Store.Ping,
	} {
		if err := ping(ctx); err != nil {
			if s.Log != nil {
				s.Log.Warn("readyz failed", zap.String("dependency", name), zap.Error(err))
			}
			kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) page(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.render(w, http.StatusOK, name, nil)
	}
}

func (s *Server) catalogWood(w http.ResponseWriter, r *http.Request) {
	products, err := s.Products.List(r.Context())
	if err != nil {
		if s.Log != nil {
			s.Log.Error("list products failed", zap.Error(err))
		}
		kit.WriteText(w, http.StatusInternalServerError, "server error")
		return
	}
	s.render(w, http.StatusOK, "catalog_wood.html", map[string]any{"Products": products})
}

type registerForm struct {
	Error    string
	Username string
}

func (s *Server) loginPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "login.html", nil)
}

func (s *Server) registerPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "register.html", registerForm{})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		kit.WriteText(w, http.StatusBadRequest, "bad form")
		return
	}

	u, err := s.Users.Authenticate(r.Context(), r.PostFormValue("username"), r.PostFormValue("password"))
	if errors.Is(err, users.ErrInvalidCredentials) {
		// The shop has always answered a failed login with 200 and a
		// plain-text message instead of an error status.
		kit.WriteText(w, http.StatusOK, loginFailedText)
		return
	}
	if err != nil {
		if s.Log != nil {
			s.Log.Error("authenticate failed", zap.Error(err))
		}
		kit.WriteText(w, http.StatusInternalServerError, "server error")
		return
	}

	st, ok := session.FromContext(r.Context())
	if !ok {
		kit.WriteText(w, http.StatusInternalServerError, "server error")
		return
	}

	st.UserID = u.ID
	st.Username = u.Username
	st.Role = u.Role

	if err := s.Sessions.Save(r.Context(), st); err != nil {
		if s.Log != nil {
			s.Log.Error("session save failed", zap.Error(err))
		}
		kit.WriteText(w, http.StatusInternalServerError, "server error")
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		kit.WriteText(w, http.StatusBadRequest, "bad form")
		return
	}

	username := r.PostFormValue("username")
	_, err := s.Users.Register(r.Context(), username, r.PostFormValue("password"))
	if errors.Is(err, users.ErrDuplicateUsername) {
		s.render(w, http.StatusOK, "register.html", registerForm{Error: duplicateText, Username: username})
		return
	}
	if err != nil {
		if s.Log != nil {
			s.Log.Error("register failed", zap.Error(err))
		}
		kit.WriteText(w, http.StatusInternalServerError, "server error")
		return
	}

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.Products.List(r.Context())
	if err != nil {
		if s.Log != nil {
			s.Log.Error("list products failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	kit.WriteJSON(w, http.StatusOK, products)
}

type addToCartReq struct {
	ProductID any  `json:"product_id"`
	Quantity  *int `json:"quantity"`
}

type addToCartResp struct {
	Message   string `json:"message"`
	CartCount int    `json:"cart_count"`
}

func (s *Server) addToCart(w http.ResponseWriter, r *http.Request) {
	st, ok := session.FromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusInternalServerError, "no session", nil)
		return
	}

	var req addToCartReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		kit.WriteError(w, r, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	count, err := s.Cart.Add(r.Context(), st, idString(req.ProductID), quantity)
	if errors.Is(err, catalog.ErrNotFound) {
		kit.WriteError(w, r, http.StatusNotFound, "Product not found", nil)
		return
	}
	if err != nil {
		if s.Log != nil {
			s.Log.Error("cart add failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	kit.WriteJSON(w, http.StatusOK, addToCartResp{Message: "Product added to cart", CartCount: count})
}

type cartResp struct {
	Items []cart.LineItem `json:"items"`
	Total float64         `json:"total"`
	Count int             `json:"count"`
}

func (s *Server) getCart(w http.ResponseWriter, r *http.Request) {
	st, ok := session.FromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusInternalServerError, "no session", nil)
		return
	}

	items, total, count := cart.Items(st)
	kit.WriteJSON(w, http.StatusOK, cartResp{Items: items, Total: total, Count: count})
}

type updateCartReq struct {
	Quantity *int `json:"quantity"`
}

func (s *Server) updateCartItem(w http.ResponseWriter, r *http.Request) {
	st, ok := session.FromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusInternalServerError, "no session", nil)
		return
	}

	var req updateCartReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// Same contract as the add route: a bad body surfaces as a 500
		// echoing the decode error.
		kit.WriteError(w, r, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	err := s.Cart.Update(r.Context(), st, chi.URLParam(r, "itemID"), quantity)
	if errors.Is(err, cart.ErrItemNotFound) {
		kit.WriteError(w, r, http.StatusNotFound, "Item not found", nil)
		return
	}
	if err != nil {
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	kit.WriteJSON(w, http.StatusOK, map[string]string{"message": "Cart updated"})
}

func (s *Server) removeCartItem(w http.ResponseWriter, r *http.Request) {
	st, ok := session.FromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusInternalServerError, "no session", nil)
		return
	}

	err := s.Cart.Remove(r.Context(), st, chi.URLParam(r, "itemID"))
	if errors.Is(err, cart.ErrItemNotFound) {
		kit.WriteError(w, r, http.StatusNotFound, "Item not found", nil)
		return
	}
	if err != nil {
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	kit.WriteJSON(w, http.StatusOK, map[string]string{"message": "Item removed from cart"})
}

func (s *Server) clearCart(w http.ResponseWriter, r *http.Request) {
	st, ok := session.FromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusInternalServerError, "no session", nil)
		return
	}

	if err := s.Cart.Clear(r.Context(), st); err != nil {
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	kit.WriteJSON(w, http.StatusOK, map[string]string{"message": "Cart cleared"})
}

// idString normalizes the product_id field, which clients send as either a
// JSON number or a string.
func idString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}
