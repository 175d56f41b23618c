package api

import (
	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"
	"github.com/sumersovitkargit/content-safety-gateway/internal/api/middleware"
	"github.com/sumersovitkargit/content-safety-gateway/internal/models"
)

func RegisterRoutes(container *restful.Container, handler *Handler) {
	ws := new(restful.WebService)

	ws.
		Path("/api/v1").
		Consumes(restful.MIME_JSON).
		Produces(restful.MIME_JSON)

	// Health endpoint
	ws.
		Route(ws.GET("/health").
			To(handler.Health).
			Doc("Health check").
			Metadata(restfulspec.KeyOpenAPITags, []string{"health"}).
			Writes(HealthResponse{}).
			Returns(200, "OK", HealthResponse{}))

	ws.
		Route(ws.POST("/upload").
			To(handler.Upload).
			Doc("Moderate an uploaded image").
			Metadata(restfulspec.KeyOpenAPITags, []string{"moderation"}).
			Consumes("multipart/form-data").
			Param(ws.FormParameter("file", "Image file (png, jpg, jpeg, gif)").DataType("file")).
			Writes(ModerationResponse{}).
			Returns(200, "OK", ModerationResponse{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(502, "Provider Error", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	ws.
		Route(ws.POST("/moderate").
			To(handler.Moderate).
			Doc("Moderate text or base64 image content").
			Metadata(restfulspec.KeyOpenAPITags, []string{"moderation"}).
			Reads(models.ModerationRequest{}).
			Writes(ModerationResponse{}).
			Returns(200, "OK", ModerationResponse{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(502, "Provider Error", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	ws.
		Route(ws.GET("/reviews").
			To(handler.ListReviews).
			Doc("List recent reviews").
			Metadata(restfulspec.KeyOpenAPITags, []string{"moderation"}).
			Param(ws.QueryParameter("limit", "Maximum number of reviews to return (1-500, default: 20)").DataType("integer").Required(false)).
			Writes(ReviewsResponse{}).
			Returns(200, "OK", ReviewsResponse{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(503, "Audit Store Unavailable", middleware.ErrorResponse{}))

	container.Add(ws)
}
