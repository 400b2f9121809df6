package models

import (
	"github.com/mbaas/mbaas.go/pkg/constants"
)

const typeGeoPoint = "GeoPoint"

type GeoPoint struct {
	Latitude  float64
	Longitude float64
}

func NewGeoPoint(latitude, longitude float64) GeoPoint {
	return GeoPoint{
		Latitude: latitude, Longitude: longitude,
	}
}

func (gp GeoPoint) Encode() any {
	return map[string]any{
		constants.KeyType:      typeGeoPoint,
		constants.KeyLatitude:  gp.Latitude,
		constants.KeyLongitude: gp.Longitude,
	}
}

func (GeoPoint) isValue() {}
