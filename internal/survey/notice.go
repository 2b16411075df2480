package survey

import (
	"errors"

	"github.com/benjamintian2005/AITripPlanner/internal/engine/geo"
	"github.com/benjamintian2005/AITripPlanner/internal/model"
)

// NoticeFor maps an error from the form or the resolver to the notice shown to the user.
func NoticeFor(err error) model.Notice {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		return ve.Notice
	case errors.Is(err, geo.ErrPermissionDenied):
		return model.Notice{Title: "Permission Denied", Message: "Please allow location access to continue"}
	case errors.Is(err, geo.ErrLocationUnavailable):
		return model.Notice{Title: "Error", Message: "Failed to get location"}
	case errors.Is(err, ErrResolveInFlight):
		return model.Notice{Title: "Please Wait", Message: "Still looking up your location"}
	default:
		return model.Notice{Title: "Error", Message: err.Error()}
	}
}
