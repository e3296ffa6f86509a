package controllers

import (
	"errors"
	"fmt"

	"galleryshare/services"
	"galleryshare/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// handleServiceError translates the service error taxonomy into HTTP
// responses. Anything unclassified is a server fault and gets logged.
func handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		utils.BadRequestResponse(c, err.Error(), nil)
	case errors.Is(err, services.ErrUnauthorized):
		utils.UnauthorizedResponse(c, err.Error())
	case errors.Is(err, services.ErrForbidden):
		utils.ForbiddenResponse(c, err.Error())
	case errors.Is(err, services.ErrNotFound):
		utils.NotFoundResponse(c, err.Error())
	case errors.Is(err, services.ErrConflict):
		utils.ConflictResponse(c, err.Error(), nil)
	case errors.Is(err, services.ErrStorage):
		utils.LogError("storage failure", err)
		utils.InternalServerErrorResponse(c, "Storage operation failed", nil)
	default:
		utils.LogError("unhandled service error", err)
		utils.InternalServerErrorResponse(c, "Internal server error", nil)
	}
}

// parseObjectID validates a path or body id. The error is already wrapped as
// a validation failure so it can go straight to handleServiceError.
func parseObjectID(raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: invalid id %q", services.ErrValidation, raw)
	}
	return id, nil
}

// parseObjectIDs maps a list of hex ids, failing on the first bad one.
func parseObjectIDs(raw []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(raw))
	for _, r := range raw {
		id, err := parseObjectID(r)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
