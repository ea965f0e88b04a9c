package api

import (
	"errors"
	"net/http"

	"MarketLens/internal/domain/models"
	xhttp "MarketLens/pkg/http"
)

// toAppError maps a pipeline error onto its HTTP form: provider and
// data-shape failures are 502, caller mistakes 400, everything else 500.
func toAppError(err error) *xhttp.AppError {
	var appErr *xhttp.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var upstream *models.UpstreamError
	if errors.As(err, &upstream) {
		return xhttp.BadGatewayError("market data provider failed").
			WithParam("op", upstream.Op).
			WithError(err)
	}

	var shape *models.DataShapeError
	if errors.As(err, &shape) {
		return xhttp.NewAppError("ERR_DATA_SHAPE", "", "market data provider returned an unexpected shape", http.StatusBadGateway).
			WithParam("source", shape.Source).
			WithParam("missing", shape.Missing).
			WithError(err)
	}

	if errors.Is(err, models.ErrInvalidArgument) {
		return xhttp.BadRequestError(err.Error()).WithError(err)
	}

	return xhttp.InternalError(http.StatusText(http.StatusInternalServerError)).WithError(err)
}
