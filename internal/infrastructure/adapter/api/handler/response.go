package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/entity"
	domainerr "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/error"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	defaultDays = 30
	maxDays     = 365
)

// ok writes a success envelope
func ok(c *gin.Context, status int, data any) {
	c.JSON(status, dto.SuccessResponse{Success: true, Data: data})
}

// okPage writes one converted page with its pagination meta
func okPage[T any, R any](c *gin.Context, result entity.PageResult[T], convert func(T) R) {
	items, meta := dto.Page(result, convert)
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true, Data: items, Meta: meta})
}

// fail hands the error to the error middleware which renders it
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
}

// bindJSON decodes the body into dst; a malformed body is a validation error
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		message := "malformed JSON body"
		if errors.Is(err, io.EOF) {
			message = "request body is required"
		}
		fail(c, domainerr.NewValidationError("body", message))
		return false
	}
	return true
}

// pathID parses a uuid path parameter
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		fail(c, domainerr.NewValidationError(name, "must be a valid UUID"))
		return uuid.Nil, false
	}
	return id, true
}

// pageQuery reads limit and offset; Normalize applies defaults and caps
func pageQuery(c *gin.Context) (entity.Page, bool) {
	var page entity.Page
	fields := map[string]string{}
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			fields["limit"] = "must be a non-negative integer"
		}
		page.Limit = n
	}
	if raw := c.Query("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			fields["offset"] = "must be a non-negative integer"
		}
		page.Offset = n
	}
	if len(fields) > 0 {
		fail(c, domainerr.NewFieldsError(fields))
		return entity.Page{}, false
	}
	return page.Normalize(), true
}

// daysQuery reads the analytics window, 30 days by default
func daysQuery(c *gin.Context) (int, bool) {
	raw := c.Query("days")
	if raw == "" {
		return defaultDays, true
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days < 1 || days > maxDays {
		fail(c, domainerr.NewValidationError("days", "must be an integer between 1 and 365"))
		return 0, false
	}
	return days, true
}

// optionalUUIDQuery parses an optional uuid query parameter
func optionalUUIDQuery(c *gin.Context, name string) (*uuid.UUID, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		fail(c, domainerr.NewValidationError(name, "must be a valid UUID"))
		return nil, false
	}
	return &id, true
}
