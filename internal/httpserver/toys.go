package httpserver

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"toystore/internal/domain"
	"toystore/internal/search"
	catalogsvc "toystore/internal/service/catalog"
)

// searchQuery uses the storefront's search form field names.
type searchQuery struct {
	Name        string `form:"naziv"`
	Description string `form:"opis"`
	TypeName    string `form:"tip"`
	AgeGroup    string `form:"uzrast"`
	TargetGroup string `form:"ciljna_grupa"`
	PriceFrom   string `form:"cena_od"`
	PriceTo     string `form:"cena_do"`
	DateFrom    string `form:"datum_od"`
	DateTo      string `form:"datum_do"`
}

func (q searchQuery) criteria() (search.Criteria, error) {
	c := search.Criteria{
		Name:        strings.TrimSpace(q.Name),
		Description: strings.TrimSpace(q.Description),
		TypeName:    strings.TrimSpace(q.TypeName),
		AgeGroup:    strings.TrimSpace(q.AgeGroup),
		TargetGroup: strings.TrimSpace(q.TargetGroup),
	}
	var err error
	if c.PriceFrom, err = parsePrice("cena_od", q.PriceFrom); err != nil {
		return c, err
	}
	if c.PriceTo, err = parsePrice("cena_do", q.PriceTo); err != nil {
		return c, err
	}
	if c.DateFrom, err = parseDay("datum_od", q.DateFrom); err != nil {
		return c, err
	}
	if c.DateTo, err = parseDay("datum_do", q.DateTo); err != nil {
		return c, err
	}
	return c, nil
}

func parsePrice(field, raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, domain.Invalid(field, field+" must be a number")
	}
	return &v, nil
}

func parseDay(field, raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, domain.Invalid(field, field+" must be a date in YYYY-MM-DD format")
	}
	return &v, nil
}

type toyListResponse struct {
	Total   int          `json:"total"`
	Results []domain.Toy `json:"results"`
}

func (a *api) listToys(c *gin.Context) {
	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "invalid query")
		return
	}
	criteria, err := q.criteria()
	if err != nil {
		a.fail(c, err, "")
		return
	}
	toys := a.deps.CatalogSvc.Search(c.Request.Context(), sessionFrom(c).ID, criteria)
	c.JSON(http.StatusOK, toyListResponse{Total: len(toys), Results: toys})
}

type toyDetailResponse struct {
	Toy           domain.Toy `json:"toy"`
	AverageRating float64    `json:"averageRating"`
	InCart        bool       `json:"inCart"`
}

func (a *api) toyDetail(c *gin.Context) {
	sess := sessionFrom(c)
	toy, err := a.deps.CatalogSvc.Detail(c.Request.Context(), sess.ID, c.Param("permalink"))
	if err != nil {
		a.fail(c, err, "toy not found")
		return
	}
	inCart, err := a.deps.CartSvc.Contains(c.Request.Context(), sess, toy.ToyID)
	if err != nil {
		a.logger.Printf("api: cart lookup user=%d toy=%d error=%v", sess.UserID, toy.ToyID, err)
	}
	c.JSON(http.StatusOK, toyDetailResponse{
		Toy:           *toy,
		AverageRating: catalogsvc.AverageRating(*toy),
		InCart:        inCart,
	})
}

func (a *api) addToCart(c *gin.Context) {
	sess := sessionFrom(c)
	toy, err := a.deps.CatalogSvc.Detail(c.Request.Context(), sess.ID, c.Param("permalink"))
	if err != nil {
		a.fail(c, err, "toy not found")
		return
	}
	if _, err := a.deps.CartSvc.AddItem(c.Request.Context(), sess, *toy); err != nil {
		a.fail(c, err, "toy not found")
		return
	}
	a.respondCart(c, http.StatusCreated)
}

func (a *api) listTypes(c *gin.Context) {
	c.JSON(http.StatusOK, a.deps.CatalogSvc.Types(c.Request.Context(), sessionFrom(c).ID))
}
