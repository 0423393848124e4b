package router

import (
	"github.com/gin-gonic/gin"
)

type RequestContext = gin.Context

type MiddlewareFunc = gin.HandlerFunc

// Fields are merged into the top level of the response body next to
// "success" and "message".
type Fields = gin.H

type ServiceResult struct {
	StatusCode int
	Message    string
	Fields     Fields
}

type RateLimitResponse struct {
	Limit      int    `json:"limit"`
	Window     string `json:"window"`
	RetryAfter string `json:"retry_after"`
}

type HandlerFunction func(*RequestContext) *ServiceResult

type RESTController struct {
	name         string
	mountPoint   string
	handlerCount int
	prepare      func(*RouterService, *RESTController)
}

// ToJSON renders {success, message, ...fields}. Fields cannot override the
// envelope keys.
func (result *ServiceResult) ToJSON() gin.H {
	body := gin.H{}
	for k, v := range result.Fields {
		body[k] = v
	}
	body["success"] = result.IsSuccess()
	body["message"] = result.Message

	return body
}

func (result *ServiceResult) IsSuccess() bool {
	return result.StatusCode >= 200 && result.StatusCode < 300
}
