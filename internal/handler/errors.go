package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"fitsocial/backend/internal/auth"
	"fitsocial/backend/internal/service"
)

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error string `json:"error" example:"An error message"`
}

// DetailResponse carries a human readable acknowledgement.
type DetailResponse struct {
	Detail string `json:"detail" example:"Done"`
}

var kindStatus = map[service.Kind]int{
	service.KindInvalidRequest: http.StatusBadRequest,
	service.KindNotFound:       http.StatusNotFound,
	service.KindForbidden:      http.StatusForbidden,
	service.KindConflict:       http.StatusConflict,
}

// respondError writes err with the status matching its kind. Unclassified
// errors are logged and hidden behind a 500.
func (h *Handler) respondError(c *gin.Context, err error) {
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		if status, ok := kindStatus[svcErr.Kind]; ok {
			c.JSON(status, gin.H{"error": svcErr.Message})
			return
		}
	}

	h.logger.Errorw("request failed",
		"method", c.Request.Method,
		"path", c.FullPath(),
		"error", err,
	)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

// respondBindError turns a binding failure into a 400 naming the offending fields.
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed request body"})
		return
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": strings.Join(msgs, "; ")})
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "weekday":
		return fmt.Sprintf("%s must be one of MON, TUE, WED, THU, FRI, SAT, SUN", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", fe.Field(), fe.Param())
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}

func callerID(c *gin.Context) uint {
	id, _ := auth.CallerID(c)
	return id
}
