package admin

import (
	"net/http"
	"time"

	"github.com/akeren/choosepure-waitlist/config/router"
	"github.com/akeren/choosepure-waitlist/pkg/constants"
	apperrors "github.com/akeren/choosepure-waitlist/pkg/errors"
)

const badBodyMessage = "Invalid request body"

// CookieConfig controls the admin session cookie attributes.
type CookieConfig struct {
	Domain string
	// Secure also switches SameSite from Lax to Strict.
	Secure bool
}

func NewAdminController(service AdminService, cookies CookieConfig) *router.RESTController {
	return router.NewRESTController(
		"AdminController",
		"/api/admin",
		func(rs *router.RouterService, c *router.RESTController) {
			loginLimiter := rs.NewRateLimiter("admin_login", constants.AdminAuthRequestsPerMinute, time.Minute)
			forgotLimiter := rs.NewRateLimiter("admin_forgot_password", constants.AdminAuthRequestsPerMinute, time.Minute)

			rs.AddPostHandler(c, loginLimiter, "/login", loginHandler(service, cookies))
			rs.AddPostHandler(c, nil, "/logout", logoutHandler(service, cookies))
			rs.AddGetHandler(c, nil, "/verify", verifyHandler(), RequireAdmin(service))
			rs.AddPostHandler(c, forgotLimiter, "/forgot-password", forgotPasswordHandler(service))
			rs.AddPostHandler(c, nil, "/reset-password", resetPasswordHandler(service))
		},
	)
}

func loginHandler(service AdminService, cookies CookieConfig) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		var req LoginRequest
		if err := ctx.ShouldBindJSON(&req); err != nil {
			router.GetLogger(ctx).Warn("Failed to bind login request", "error", err)
			return bindFailure("Email and password are required", err, &req)
		}

		result, err := service.Login(ctx.Request.Context(), req.Email, req.Password)
		if err != nil {
			return router.FromError(err)
		}

		setSessionCookie(ctx.Writer, cookies, result.Token, result.ExpiresAt)

		return router.OKResult("Login successful", router.Fields{"admin": result.Admin})
	}
}

func logoutHandler(service AdminService, cookies CookieConfig) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		if err := service.Logout(ctx.Request.Context(), sessionToken(ctx)); err != nil {
			router.GetLogger(ctx).Warn("Session revocation failed during logout", "error", err)
		}

		clearSessionCookie(ctx.Writer, cookies)

		return router.OKResult("Logged out successfully", nil)
	}
}

func verifyHandler() router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		claims, ok := ClaimsFromContext(ctx.Request.Context())
		if !ok {
			return router.UnauthorizedResult(ErrAuthenticationRequired.Error())
		}

		return router.OKResult("Session is valid", router.Fields{"admin": ToSessionResponse(claims)})
	}
}

func forgotPasswordHandler(service AdminService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		var req ForgotPasswordRequest
		if err := ctx.ShouldBindJSON(&req); err != nil {
			return bindFailure("Email is required", err, &req)
		}

		if err := service.RequestPasswordReset(ctx.Request.Context(), req.Email); err != nil {
			return router.FromError(err)
		}

		return router.OKResult(resetRequestedMessage, nil)
	}
}

func resetPasswordHandler(service AdminService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		var req ResetPasswordRequest
		if err := ctx.ShouldBindJSON(&req); err != nil {
			return bindFailure("Token and password are required", err, &req)
		}

		if err := service.ResetPassword(ctx.Request.Context(), req.Token, req.Password); err != nil {
			return router.FromError(err)
		}

		return router.OKResult("Password has been reset successfully", nil)
	}
}

// bindFailure reports per-field errors when the body parsed but failed
// validation. Malformed JSON gets the bare message.
func bindFailure(message string, err error, model any) *router.ServiceResult {
	if details := apperrors.FormatValidationErrors(err, model); len(details) > 0 {
		return router.BadRequestResult(message, details)
	}
	return router.BadRequestResult(message, nil)
}

func setSessionCookie(w http.ResponseWriter, cookies CookieConfig, token string, expiresAt time.Time) {
	http.SetCookie(w, newSessionCookie(cookies, token, expiresAt, int(constants.SessionTTL.Seconds())))
}

func clearSessionCookie(w http.ResponseWriter, cookies CookieConfig) {
	http.SetCookie(w, newSessionCookie(cookies, "", time.Unix(0, 0), -1))
}

func newSessionCookie(cookies CookieConfig, value string, expiresAt time.Time, maxAge int) *http.Cookie {
	sameSite := http.SameSiteLaxMode
	if cookies.Secure {
		sameSite = http.SameSiteStrictMode
	}

	return &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    value,
		Path:     "/",
		Domain:   cookies.Domain,
		Expires:  expiresAt,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   cookies.Secure,
		SameSite: sameSite,
	}
}
