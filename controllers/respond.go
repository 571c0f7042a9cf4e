package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront/auth"
	"storefront/lock"
	"storefront/services"
)

const (
	detailCredentials = "Could not validate credentials"
	detailBadLogin    = "Incorrect email or password"
	detailForbidden   = "Forbidden! You are not authorized to access this API"
	detailBadProduct  = "Invalid Product ID Found"
	detailBadUser     = "Invalid User Id given"
)

// statusFor maps service and auth errors onto an HTTP status and detail text.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, auth.ErrBadCredentials):
		return http.StatusUnauthorized, detailBadLogin
	case errors.Is(err, auth.ErrUnauthorized), errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized, detailCredentials
	case errors.Is(err, auth.ErrForbidden):
		return http.StatusForbidden, detailForbidden
	case errors.Is(err, services.ErrInvalidProduct):
		return http.StatusUnprocessableEntity, detailBadProduct
	case errors.Is(err, services.ErrInvalidUser):
		return http.StatusBadRequest, detailBadUser
	case errors.Is(err, services.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrProductNotFound),
		errors.Is(err, services.ErrCartNotFound),
		errors.Is(err, services.ErrItemNotInCart),
		errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrAccountNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, services.ErrEmailTaken), errors.Is(err, lock.ErrLockTimeout):
		return http.StatusConflict, err.Error()
	}
	return http.StatusInternalServerError, err.Error()
}

func (ctl *Controller) fail(c *gin.Context, err error) {
	status, detail := statusFor(err)
	if status == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", "Bearer")
	}
	if status >= http.StatusInternalServerError {
		ctl.logger.Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}

// emptyPage answers an exhausted listing with 200 and a message instead of an
// empty page.
func emptyPage(c *gin.Context, key, message string) {
	c.JSON(http.StatusOK, gin.H{key: message})
}

// queryInt reads an integer query parameter, falling back to def when absent.
func queryInt(c *gin.Context, key string, def int64) (int64, error) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, badInput(key + " must be an integer")
	}
	return n, nil
}

func pageFromQuery(c *gin.Context, noKey, sizeKey string) (services.Page, error) {
	no, err := queryInt(c, noKey, services.DefaultPageNo)
	if err != nil {
		return services.Page{}, err
	}
	size, err := queryInt(c, sizeKey, services.DefaultPageSize)
	if err != nil {
		return services.Page{}, err
	}
	return services.NewPage(no, size)
}

type inputError struct{ msg string }

func (e *inputError) Error() string { return e.msg }

func (e *inputError) Unwrap() error { return services.ErrInvalidInput }

func badInput(msg string) error {
	return &inputError{msg: msg}
}
