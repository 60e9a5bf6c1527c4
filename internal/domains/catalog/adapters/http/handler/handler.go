package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/go-dog-finder/internal/domains/catalog/adapters/http/mapper"
	"github.com/Apurer/go-dog-finder/internal/domains/catalog/domain"
	"github.com/Apurer/go-dog-finder/internal/domains/catalog/ports"
	apierrors "github.com/Apurer/go-dog-finder/internal/shared/errors"
)

// CatalogAPI wires HTTP transport with the catalog service.
type CatalogAPI struct {
	service      ports.Service
	responder    *apierrors.Responder
	secureCookie bool
	now          func() time.Time
}

type Option func(*CatalogAPI)

// WithSecureCookie marks the session cookie Secure and SameSite=None, as a cross-site browser client needs.
func WithSecureCookie(secure bool) Option {
	return func(api *CatalogAPI) {
		api.secureCookie = secure
	}
}

// WithClock sets the clock the session cookie lifetime is measured against. It must be the one the
// service expires sessions with.
func WithClock(now func() time.Time) Option {
	return func(api *CatalogAPI) {
		if now != nil {
			api.now = now
		}
	}
}

func NewCatalogAPI(service ports.Service, opts ...Option) *CatalogAPI {
	api := &CatalogAPI{service: service, responder: NewResponder(), now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// Register mounts the catalog routes on r.
func (api *CatalogAPI) Register(r gin.IRouter) {
	r.POST("/auth/login", api.Login)

	authed := r.Group("/", RequireSession(api.service, api.responder))
	authed.POST("/auth/logout", api.Logout)
	authed.GET("/dogs/breeds", api.Breeds)
	authed.GET("/dogs/search", api.Search)
	authed.POST("/dogs", api.Dogs)
	authed.POST("/dogs/match", api.Match)
}

// Post /auth/login
func (api *CatalogAPI) Login(c *gin.Context) {
	var payload mapper.LoginRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.BadRequest(c, err.Error())
		return
	}
	session, err := api.service.Login(c.Request.Context(), payload.Name, payload.Email)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	setSessionCookie(c, session, api.now(), api.secureCookie)
	c.String(http.StatusOK, "OK")
}

// Post /auth/logout
func (api *CatalogAPI) Logout(c *gin.Context) {
	session, _ := SessionFrom(c)
	if err := api.service.Logout(c.Request.Context(), session.Token); err != nil {
		api.responder.RespondError(c, err)
		return
	}
	clearSessionCookie(c, api.secureCookie)
	c.String(http.StatusOK, "OK")
}

// Get /dogs/breeds
func (api *CatalogAPI) Breeds(c *gin.Context) {
	breeds, err := api.service.Breeds(c.Request.Context())
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, breeds)
}

// Get /dogs/search
func (api *CatalogAPI) Search(c *gin.Context) {
	q, err := parseSearchQuery(c)
	if err != nil {
		api.responder.BadRequest(c, err.Error())
		return
	}
	page, err := api.service.Search(c.Request.Context(), q)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromPage(page))
}

// Post /dogs
// The body is a bare array of ids.
func (api *CatalogAPI) Dogs(c *gin.Context) {
	ids, ok := api.bindIDs(c)
	if !ok {
		return
	}
	dogs, err := api.service.Hydrate(c.Request.Context(), ids)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromDogs(dogs))
}

// Post /dogs/match
func (api *CatalogAPI) Match(c *gin.Context) {
	ids, ok := api.bindIDs(c)
	if !ok {
		return
	}
	id, err := api.service.Match(c.Request.Context(), ids)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.MatchResponse{Match: id})
}

func (api *CatalogAPI) bindIDs(c *gin.Context) ([]string, bool) {
	var ids []string
	if err := c.ShouldBindJSON(&ids); err != nil {
		api.responder.BadRequest(c, "body must be a JSON array of dog ids")
		return nil, false
	}
	return ids, true
}

func parseSearchQuery(c *gin.Context) (domain.Query, error) {
	var q domain.Query
	for _, b := range c.QueryArray("breeds") {
		if b = strings.TrimSpace(b); b != "" {
			q.Breeds = append(q.Breeds, b)
		}
	}
	var err error
	if q.AgeMin, err = optionalInt(c, "ageMin"); err != nil {
		return domain.Query{}, err
	}
	if q.AgeMax, err = optionalInt(c, "ageMax"); err != nil {
		return domain.Query{}, err
	}
	if q.Order, err = domain.ParseOrder(c.Query("sort")); err != nil {
		return domain.Query{}, err
	}
	size, err := optionalInt(c, "size")
	if err != nil {
		return domain.Query{}, err
	}
	if size != nil {
		if *size <= 0 {
			return domain.Query{}, fmt.Errorf("size must be between 1 and %d", domain.MaxSize)
		}
		q.Size = *size
	}
	if q.From, err = domain.DecodeCursor(c.Query("from")); err != nil {
		return domain.Query{}, err
	}
	return q, nil
}

func optionalInt(c *gin.Context, name string) (*int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer", name)
	}
	return &v, nil
}

func sameSiteMode(secure bool) http.SameSite {
	if secure {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}

// NewRouter builds a gin engine serving the catalog. Extra middleware runs before the routes.
func NewRouter(api *CatalogAPI, middleware ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware...)
	router.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	api.Register(router)
	return router
}
