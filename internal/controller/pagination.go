package controller

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

// parsePagination разбирает параметры page и per_page
func parsePagination(c *gin.Context) (int, int, error) {
	page := 1
	if raw := c.Query("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return 0, 0, fmt.Errorf("invalid page: %q", raw)
		}
		page = parsed
	}

	perPage := defaultPerPage
	if raw := c.Query("per_page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return 0, 0, fmt.Errorf("invalid per_page: %q", raw)
		}
		perPage = parsed
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	return page, perPage, nil
}

// pageEnvelope собирает страничный ответ со ссылками на соседние страницы
func pageEnvelope(c *gin.Context, data interface{}, page, perPage, total int) gin.H {
	envelope := gin.H{
		"data":     data,
		"page":     page,
		"per_page": perPage,
		"total":    total,
	}

	if page*perPage < total {
		envelope["next_url"] = pageURL(c, page+1)
	}
	if page > 1 {
		envelope["prev_url"] = pageURL(c, page-1)
	}

	return envelope
}

func pageURL(c *gin.Context, page int) string {
	u := *c.Request.URL
	query := u.Query()
	query.Set("page", strconv.Itoa(page))
	u.RawQuery = query.Encode()
	return u.String()
}
