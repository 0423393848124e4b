package waitlist

import (
	"time"

	"github.com/akeren/choosepure-waitlist/config/router"
	"github.com/akeren/choosepure-waitlist/pkg/constants"
)

const (
	joinedMessage  = "Successfully joined the waitlist!"
	badBodyMessage = "Invalid request body"
)

// NewWaitlistController exposes the public signup endpoint.
func NewWaitlistController(service WaitlistService) *router.RESTController {
	return router.NewRESTController(
		"WaitlistController",
		"/api/waitlist",
		func(rs *router.RouterService, c *router.RESTController) {
			submissionLimiter := rs.NewRateLimiter("waitlist_submit", constants.WaitlistSubmissionRequestsPerMinute, time.Minute)

			rs.AddPostHandler(c, submissionLimiter, "", joinWaitlistHandler(service))
		},
	)
}

// NewWaitlistAdminController exposes member management behind requireAdmin.
func NewWaitlistAdminController(service WaitlistService, requireAdmin router.MiddlewareFunc) *router.RESTController {
	return router.NewRESTController(
		"WaitlistAdminController",
		"/api/admin/waitlist",
		func(rs *router.RouterService, c *router.RESTController) {
			rs.AddGetHandler(c, nil, "", listMembersHandler(service), requireAdmin)
			rs.AddPostHandler(c, nil, "", addMemberHandler(service), requireAdmin)
			rs.AddDeleteHandler(c, nil, "/:id", deleteMemberHandler(service), requireAdmin)
		},
	)
}

func bindJoinRequest(ctx *router.RequestContext) (*JoinWaitlistRequest, *router.ServiceResult) {
	var req JoinWaitlistRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		router.GetLogger(ctx).Warn("Failed to bind request", "error", err)
		return nil, router.BadRequestResult(badBodyMessage, nil)
	}

	return &req, nil
}

func joinWaitlistHandler(service WaitlistService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		req, errResult := bindJoinRequest(ctx)
		if errResult != nil {
			return errResult
		}

		response, err := service.Join(ctx.Request.Context(), req)
		if err != nil {
			return router.FromError(err)
		}

		return router.OKResult(joinedMessage, router.Fields{"whatsappLink": response.WhatsappLink})
	}
}

func listMembersHandler(service WaitlistService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		response, err := service.ListMembers(ctx.Request.Context())
		if err != nil {
			return router.FromError(err)
		}

		return router.OKResult("Waitlist members retrieved successfully", router.Fields{
			"members": response.Members,
			"count":   response.Count,
		})
	}
}

func addMemberHandler(service WaitlistService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		req, errResult := bindJoinRequest(ctx)
		if errResult != nil {
			return errResult
		}

		member, err := service.AddMember(ctx.Request.Context(), req)
		if err != nil {
			return router.FromError(err)
		}

		return router.CreatedResult("Member added successfully", router.Fields{"member": member})
	}
}

func deleteMemberHandler(service WaitlistService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		id, errResult := router.ParseIDParam(ctx, "id")
		if errResult != nil {
			return errResult
		}

		if err := service.DeleteMember(ctx.Request.Context(), id); err != nil {
			return router.FromError(err)
		}

		return router.OKResult("Member deleted successfully", nil)
	}
}
