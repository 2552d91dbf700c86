package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/caresync/authsvc/domain"
)

// respond renders the uniform success envelope. The data key is always
// present, null when the operation has nothing to return.
func respond(c *gin.Context, status int, message string, data any) {
	c.JSON(status, gin.H{
		"message": message,
		"data":    data,
		"status":  status,
	})
}

// fail maps a domain error kind to its HTTP status and renders the error
// envelope. Unclassified errors never leak their text to clients.
func fail(c *gin.Context, err error) {
	status := statusOf(err)
	message := domain.MsgServerTemporarilyDown
	var de *domain.Error
	if errors.As(err, &de) {
		message = de.Message
	}
	c.JSON(status, gin.H{
		"message": message,
		"status":  status,
	})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"message": err.Error(),
		"status":  http.StatusBadRequest,
	})
}

func statusOf(err error) int {
	switch domain.KindOf(err) {
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindUnauthorized:
		return http.StatusUnauthorized
	case domain.KindNotAcceptable:
		return http.StatusNotAcceptable
	case domain.KindUnprocessableEntity:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// identityView is the client-facing projection of an account. The
// password hash never leaves the service.
func identityView(i *domain.Identity) gin.H {
	view := gin.H{
		"id":              i.ID,
		"email":           i.Email,
		"userType":        i.UserType,
		"firstName":       i.FirstName,
		"lastName":        i.LastName,
		"phoneNumber":     i.PhoneNumber,
		"isEmailVerified": i.IsEmailVerified,
		"isBlocked":       i.IsBlocked,
		"createdAt":       i.CreatedAt,
	}
	if i.Role != "" {
		view["role"] = i.Role
	}
	if i.UserType == domain.UserTypeDoctor {
		view["specialization"] = i.Specialization
		view["licenseNumber"] = i.LicenseNumber
		view["experience"] = i.Experience
		view["qualification"] = i.Qualification
		view["address"] = i.Address
	}
	return view
}

func identityViews(identities []domain.Identity) []gin.H {
	views := make([]gin.H, 0, len(identities))
	for i := range identities {
		views = append(views, identityView(&identities[i]))
	}
	return views
}
