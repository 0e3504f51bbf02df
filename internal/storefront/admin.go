package storefront

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"WoodLoft/internal/catalog"
	"WoodLoft/internal/session"
	"WoodLoft/internal/users"
	"WoodLoft/pkg/kit"
)

const (
	accessDeniedText    = "Доступ запрещён"
	productNotFoundText = "Товар не найден"
)

// requireAdmin gates every /admin route uniformly. Earlier revisions of the
// shop only checked the listing page and left the mutation endpoints open;
// that is treated as a defect here.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		st, ok := session.FromContext(r.Context())
		if !ok || st.Role != users.RoleAdmin {
			kit.WriteText(w, http.StatusForbidden, accessDeniedText)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) adminProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.Products.List(r.Context())
	if err != nil {
		if s.Log != nil {
			s.Log.Error("list products failed", zap.Error(err))
		}
		kit.WriteText(w, http.StatusInternalServerError, "server error")
		return
	}
	s.render(w, http.StatusOK, "admin_products.html", map[string]any{"Products": products})
}

func (s *Server) adminEditForm(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		kit.WriteText(w, http.StatusNotFound, productNotFoundText)
		return
	}

	p, ok, err := s.Products.Get(r.Context(), id)
	if err != nil {
		kit.WriteText(w, http.StatusInternalServerError, "server error")
		return
	}
	if !ok {
		kit.WriteText(w, http.StatusNotFound, productNotFoundText)
		return
	}

	s.render(w, http.StatusOK, "admin_edit.html", map[string]any{"Product": &p})
}

func (s *Server) adminEditProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		kit.WriteText(w, http.StatusNotFound, productNotFoundText)
		return
	}

	f, ok := productFields(w, r)
	if !ok {
		return
	}

	err = s.Products.Update(r.Context(), id, f)
	if errors.Is(err, catalog.ErrNotFound) {
		kit.WriteText(w, http.StatusNotFound, productNotFoundText)
		return
	}
	if err != nil {
		if s.Log != nil {
			s.Log.Error("update product failed", zap.Error(err), zap.Int("id", id))
		}
		kit.WriteText(w, http.StatusInternalServerError, "server error")
		return
	}

	kit.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) adminAddForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "admin_edit.html", map[string]any{"Product": nil})
}

func (s *Server) adminAddProduct(w http.ResponseWriter, r *http.Request) {
	f, ok := productFields(w, r)
	if !ok {
		return
	}

	if _, err := s.Products.Add(r.Context(), f); err != nil {
		if s.Log != nil {
			s.Log.Error("add product failed", zap.Error(err))
		}
		kit.WriteText(w, http.StatusInternalServerError, "server error")
		return
	}

	kit.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// adminDeleteProduct reports success whether or not the id existed.
func (s *Server) adminDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		kit.WriteText(w, http.StatusNotFound, productNotFoundText)
		return
	}

	if err := s.Products.Delete(r.Context(), id); err != nil {
		if s.Log != nil {
			s.Log.Error("delete product failed", zap.Error(err), zap.Int("id", id))
		}
		kit.WriteText(w, http.StatusInternalServerError, "server error")
		return
	}

	kit.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func productFields(w http.ResponseWriter, r *http.Request) (catalog.Fields, bool) {
	price, err := strconv.ParseFloat(r.PostFormValue("price"), 64)
	if err != nil {
		kit.WriteText(w, http.StatusBadRequest, "bad price")
		return catalog.Fields{}, false
	}

	return catalog.Fields{
		Name:     r.PostFormValue("name"),
		Price:    price,
		ImageURL: r.PostFormValue("image_url"),
	}, true
}
