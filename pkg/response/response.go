package response

import (
	"errors"
	"net/http"

	"payment-gateway-core/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// Envelope is the standard wire response shape per the request
// signature design: {status, errorCode?, errorMessage?, data?}.
type Envelope struct {
	Status       string      `json:"status"`
	Data         interface{} `json:"data,omitempty"`
	ErrorCode    string      `json:"errorCode,omitempty"`
	ErrorMessage string      `json:"errorMessage,omitempty"`
}

// OK sends a 200 success envelope with data.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Status: "SUCCESS", Data: data})
}

// Created sends a 201 success envelope with data.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Status: "SUCCESS", Data: data})
}

// Error sends an error envelope. It unwraps err to *apperror.AppError
// when possible; unrecognized errors map to INTERNAL_ERROR/500 and
// never leak the underlying cause to the client.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.HTTPStatus, Envelope{
			Status:       "ERROR",
			ErrorCode:    appErr.Code,
			ErrorMessage: appErr.Message,
		})
		return
	}

	c.JSON(http.StatusInternalServerError, Envelope{
		Status:       "ERROR",
		ErrorCode:    "INTERNAL_ERROR",
		ErrorMessage: "internal server error",
	})
}
