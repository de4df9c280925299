package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/campusbites/campusbites-client/internal/routing"
	pkgerrors "github.com/campusbites/campusbites-client/pkg/errors"
	"github.com/campusbites/campusbites-client/pkg/logger"
	"github.com/campusbites/campusbites-client/web/responses"
)

type directionsProvider interface {
	Directions(ctx context.Context, origin, destination routing.Point) (*routing.Route, error)
}

// Directions returns the walking route between two campus points so the
// tracking page can draw the picker's path.
func Directions(svc directionsProvider, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		origin, err := pointFromQuery(r, "origin_lat", "origin_lng")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		destination, err := pointFromQuery(r, "dest_lat", "dest_lng")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		route, err := svc.Directions(r.Context(), origin, destination)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, route)
	}
}

func pointFromQuery(r *http.Request, latKey, lngKey string) (routing.Point, error) {
	lat, err := strconv.ParseFloat(r.URL.Query().Get(latKey), 64)
	if err != nil {
		return routing.Point{}, pkgerrors.New(pkgerrors.CodeValidation, latKey+" must be a number")
	}
	lng, err := strconv.ParseFloat(r.URL.Query().Get(lngKey), 64)
	if err != nil {
		return routing.Point{}, pkgerrors.New(pkgerrors.CodeValidation, lngKey+" must be a number")
	}
	return routing.Point{Lat: lat, Lng: lng}, nil
}
